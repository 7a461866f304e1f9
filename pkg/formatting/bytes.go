// Package formatting converts byte sizes between counts and human-readable
// strings such as "16MB". Units are base-1024.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}

	size := float64(n)
	i := 0
	for math.Abs(size) >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}

	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + units[i]
}

// ParseBytes parses a size such as "16MB", "1.5 gb" or "512" into a byte
// count. A bare number is bytes; unit matching ignores case.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.ToUpper(strings.TrimSpace(s[split:]))
	}
	if num == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	scale := 1.0
	if unit != "" {
		idx := slices.Index(units[:], unit)
		if idx < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", unit)
		}
		scale = math.Pow(1024, float64(idx))
	}

	return int64(value * scale), nil
}
