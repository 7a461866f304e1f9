package toxicity

import "strings"

var parens = strings.NewReplacer("(", " ", ")", " ")

// Normalize converts a classifier or identifier label into a curated store
// key. The label is lowercased and trimmed; when it carries a parenthesized
// name, only the first group is kept. Whitespace runs collapse to a single
// underscore.
//
// An unclosed group runs to the end of the label. An empty group falls back to
// the text around it. Leftover parentheses are dropped so the result is
// stable under repeated normalization.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	if open := strings.IndexByte(s, '('); open >= 0 {
		outer := s[:open]
		inner := s[open+1:]
		if end := strings.IndexByte(inner, ')'); end >= 0 {
			outer += " " + inner[end+1:]
			inner = inner[:end]
		}

		if strings.TrimSpace(parens.Replace(inner)) != "" {
			s = inner
		} else {
			s = outer
		}
	}

	return strings.Join(strings.Fields(parens.Replace(s)), "_")
}
