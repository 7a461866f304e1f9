package languages

import "context"

// Bundle is the per-locale text file served to clients and read by Texts.
type Bundle struct {
	NativeName string            `json:"nativeName"`
	Name       string            `json:"name"`
	Data       map[string]string `json:"data"`
}

// KeyAppTitle is never translated.
const KeyAppTitle = "app_title"

// BaseTexts returns the base-locale client texts that every bundle carries.
func BaseTexts() map[string]string {
	return map[string]string{
		KeyAppTitle:      "FloraGuard",
		"scan_plant":     "Scan a Plant",
		"camera":         "Camera",
		"gallery":        "Gallery",
		"settings":       "Language Settings",
		"download":       "Download",
		"installed":      "Installed",
		"active":         "Active",
		"switch":         "Switch",
		"loading":        "Analyzing...",
		"toxic":          "TOXIC PLANT",
		"confidence":     "Confidence",
		"symptoms":       "SYMPTOMS",
		"action":         "FIRST AID",
		"safe":           "LIKELY SAFE",
		KeySafeTitle:     DefaultSafeTitle,
		"safe_analysis":  "ANALYSIS",
		"safe_advice":    "RECOMMENDATION",
		KeySafeBody:      "The image does not match any known toxic plants in our database with high confidence.",
		KeySafeAction:    DefaultSafeAction,
		"source_label":   "Source",
		KeySafeSecondary: DefaultSafeSecondary,
	}
}

// BuildBundle produces the bundle for lang by translating every base text
// except the app title. Failed translations keep the base text.
func BuildBundle(ctx context.Context, lang Language, translator Translator) Bundle {
	base := BaseTexts()
	b := Bundle{
		NativeName: lang.NativeName,
		Name:       lang.Code,
		Data:       make(map[string]string, len(base)),
	}

	for key, text := range base {
		if key == KeyAppTitle || lang.Code == translator.BaseLocale() {
			b.Data[key] = text
			continue
		}
		b.Data[key] = translator.Translate(ctx, text, lang.Code)
	}

	return b
}
