package decision_test

import (
	"testing"

	"github.com/JaimeStill/floraguard/internal/decision"
	"github.com/JaimeStill/floraguard/internal/toxicity"
)

func TestEscalation(t *testing.T) {
	curated := toxicity.Curated(toxicity.Record{ScientificName: "x"})
	missing := toxicity.NotFound("x", "", "")

	tests := []struct {
		name       string
		confidence float64
		primary    toxicity.Outcome
		want       toxicity.State
	}{
		{"confident hit", 0.95, curated, toxicity.LocalTrusted},
		{"threshold hit", 0.70, curated, toxicity.LocalTrusted},
		{"low confidence hit", 0.69, curated, toxicity.Escalating},
		{"confident miss", 0.99, missing, toxicity.Escalating},
		{"low confidence miss", 0.1, missing, toxicity.Escalating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decision.Escalation(tt.confidence, 0.70, tt.primary); got != tt.want {
				t.Errorf("Escalation = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolution(t *testing.T) {
	candidate := &toxicity.Candidate{ScientificName: "Nerium oleander", Confidence: 0.8}
	curated := toxicity.Curated(toxicity.Record{ScientificName: "Nerium oleander"})
	missing := toxicity.NotFound("nerium_oleander", "", "")

	tests := []struct {
		name      string
		candidate *toxicity.Candidate
		secondary toxicity.Outcome
		want      toxicity.State
	}{
		{"no candidate", nil, toxicity.Outcome{}, toxicity.Fallback},
		{"no candidate ignores outcome", nil, curated, toxicity.Fallback},
		{"curated candidate", candidate, curated, toxicity.SecondaryTrustedToxic},
		{"unknown candidate", candidate, missing, toxicity.SecondaryTrustedSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decision.Resolution(tt.candidate, tt.secondary)
			if got != tt.want {
				t.Errorf("Resolution = %s, want %s", got, tt.want)
			}
			if !got.Terminal() {
				t.Errorf("state %s is not terminal", got)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	cfg := decision.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.ConfidenceThreshold != 0.70 {
		t.Errorf("threshold = %v, want 0.70", cfg.ConfidenceThreshold)
	}

	t.Setenv("TEST_THRESHOLD", "0.85")
	env := decision.Config{}
	if err := env.Finalize(&decision.Env{ConfidenceThreshold: "TEST_THRESHOLD"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if env.ConfidenceThreshold != 0.85 {
		t.Errorf("threshold = %v, want 0.85", env.ConfidenceThreshold)
	}

	bad := decision.Config{ConfidenceThreshold: 1.5}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for threshold above 1")
	}
}
