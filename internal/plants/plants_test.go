package plants_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/JaimeStill/floraguard/internal/plants"
)

func TestOverride(t *testing.T) {
	p := plants.Plant{
		Translations: map[string]string{
			"symptoms_es":    "Vómitos",
			"common_name_fr": "   ",
		},
	}

	if v, ok := p.Override(plants.FieldSymptoms, "es"); !ok || v != "Vómitos" {
		t.Errorf("Override(symptoms, es) = %q, %v", v, ok)
	}
	if _, ok := p.Override(plants.FieldCommonName, "fr"); ok {
		t.Error("blank override should be ignored")
	}
	if _, ok := p.Override(plants.FieldSymptoms, "ru"); ok {
		t.Error("missing override reported present")
	}

	var empty plants.Plant
	if _, ok := empty.Override(plants.FieldSymptoms, "es"); ok {
		t.Error("nil translations reported override")
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"source":   {"Curated Database"},
		"is_toxic": {"false"},
		"alias":    {"oleander"},
	}

	f := plants.FiltersFromQuery(values)

	if f.Source == nil || *f.Source != "Curated Database" {
		t.Errorf("source = %v", f.Source)
	}
	if f.IsToxic == nil || *f.IsToxic {
		t.Errorf("is_toxic = %v, want false", f.IsToxic)
	}
	if f.Alias == nil || *f.Alias != "oleander" {
		t.Errorf("alias = %v", f.Alias)
	}

	bad := plants.FiltersFromQuery(url.Values{"is_toxic": {"maybe"}})
	if bad.IsToxic != nil {
		t.Errorf("unparseable is_toxic should be ignored, got %v", *bad.IsToxic)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{plants.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", plants.ErrNotFound), http.StatusNotFound},
		{plants.ErrDuplicate, http.StatusConflict},
		{plants.ErrInvalidKey, http.StatusBadRequest},
		{plants.ErrInvalidBody, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := plants.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
