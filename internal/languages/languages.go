// Package languages serves the supported locale list and per-locale text
// bundles, and resolves localized UI texts for the decision pipeline.
package languages

import (
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the locale that curated records and default texts are written in.
const BaseLocale = "en"

// Language describes a supported display locale.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

var supported = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "zh-CN", Name: "Chinese", NativeName: "中文"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Code: "ms", Name: "Malay", NativeName: "Bahasa Melayu"},
}

// Supported returns a copy of the supported language list.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// NormalizeLocale canonicalizes a client supplied locale. Empty or malformed
// input yields BaseLocale; a bare "zh" resolves to "zh-CN".
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BaseLocale
	}

	tag, err := language.Parse(raw)
	if err != nil || tag == language.Und {
		return BaseLocale
	}

	switch base, _ := tag.Base(); {
	case tag.String() == "zh":
		return "zh-CN"
	case base.String() == BaseLocale:
		return BaseLocale
	}

	return tag.String()
}
