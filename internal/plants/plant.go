// Package plants implements the curated toxicity store. It provides the
// stored plant records, their locale overrides and alias keys, and the data
// access used by record lookups, seeding, and the browse endpoints.
package plants

import (
	"strings"
	"time"
)

// Plant is a curated toxicity record keyed by its normalized scientific name.
// Translations holds per-locale field overrides keyed "<field>_<locale>".
type Plant struct {
	ID              string            `json:"id"`
	ScientificName  string            `json:"scientific_name"`
	CommonName      string            `json:"common_name"`
	Symptoms        string            `json:"symptoms"`
	PoisoningAction string            `json:"poisoning_action"`
	IsToxic         bool              `json:"is_toxic"`
	Source          string            `json:"source"`
	ImageFolder     *string           `json:"image_folder,omitempty"`
	Aliases         []string          `json:"aliases"`
	Translations    map[string]string `json:"translations"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Localized display fields.
const (
	FieldScientificName  = "scientific_name"
	FieldCommonName      = "common_name"
	FieldSymptoms        = "symptoms"
	FieldPoisoningAction = "poisoning_action"
)

// Override returns the stored locale variant of field, if any.
func (p *Plant) Override(field, locale string) (string, bool) {
	v := strings.TrimSpace(p.Translations[field+"_"+locale])
	if v == "" {
		return "", false
	}
	return p.Translations[field+"_"+locale], true
}

// UpsertCommand carries the data needed to create or replace a plant record.
// ID must already be a normalized key.
type UpsertCommand struct {
	ID              string            `json:"-"`
	ScientificName  string            `json:"scientific_name"`
	CommonName      string            `json:"common_name"`
	Symptoms        string            `json:"symptoms"`
	PoisoningAction string            `json:"poisoning_action"`
	IsToxic         *bool             `json:"is_toxic,omitempty"`
	Source          string            `json:"source"`
	ImageFolder     *string           `json:"image_folder,omitempty"`
	Aliases         []string          `json:"aliases"`
	Translations    map[string]string `json:"translations"`
}
