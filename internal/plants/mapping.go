package plants

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/floraguard/pkg/query"
	"github.com/JaimeStill/floraguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "plants", "p").
	Project("id", "ID").
	Project("scientific_name", "ScientificName").
	Project("common_name", "CommonName").
	Project("symptoms", "Symptoms").
	Project("poisoning_action", "PoisoningAction").
	Project("is_toxic", "IsToxic").
	Project("source", "Source").
	Project("image_folder", "ImageFolder").
	ProjectExpr("array_to_json(p.aliases)", "Aliases").
	Project("translations", "Translations").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "ScientificName"}

const aliasColumn = "p.aliases"

// Filters contains optional filtering criteria for plant queries.
// Source and IsToxic use exact matching, Alias matches any alias key.
type Filters struct {
	Source  *string `json:"source,omitempty"`
	IsToxic *bool   `json:"is_toxic,omitempty"`
	Alias   *string `json:"alias,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Source", f.Source).
		WhereEquals("IsToxic", f.IsToxic).
		WhereAny(aliasColumn, f.Alias)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if t := values.Get("is_toxic"); t != "" {
		if v, err := strconv.ParseBool(t); err == nil {
			f.IsToxic = &v
		}
	}

	if a := values.Get("alias"); a != "" {
		f.Alias = &a
	}

	return f
}

func scanPlant(s repository.Scanner) (Plant, error) {
	var (
		p            Plant
		aliases      []byte
		translations []byte
	)

	err := s.Scan(
		&p.ID,
		&p.ScientificName,
		&p.CommonName,
		&p.Symptoms,
		&p.PoisoningAction,
		&p.IsToxic,
		&p.Source,
		&p.ImageFolder,
		&aliases,
		&translations,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Aliases = []string{}
	if len(aliases) > 0 {
		if err := json.Unmarshal(aliases, &p.Aliases); err != nil {
			return p, err
		}
	}

	p.Translations = map[string]string{}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &p.Translations); err != nil {
			return p, err
		}
	}

	return p, nil
}
