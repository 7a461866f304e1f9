// Package toxicity defines the request-scoped values that flow through the
// plant toxicity decision pipeline: the local classification, curated store
// records and lookup outcomes, secondary identification candidates, and the
// final verdict.
package toxicity

// Source tags carried on records and verdicts.
const (
	SourcePrediction = "AI Prediction"
	SourceThreshold  = "Safety Threshold"
	SourceSecondary  = "Pl@ntNet"
	SourceCurated    = "Curated Database"
)

// SecondarySource builds the source tag for a verdict confirmed by the
// curated store after secondary identification.
func SecondarySource(storeSource string) string {
	if storeSource == "" {
		storeSource = SourceCurated
	}
	return SourceSecondary + " + " + storeSource
}

// SecondaryOnlySource is the source tag for a secondary identification that
// found no curated record.
const SecondaryOnlySource = SourceSecondary + " API"

// Classification is the single result produced by the local image classifier.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Record holds the display fields of a toxicity record resolved for a locale.
type Record struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Symptoms       string `json:"symptoms"`
	FirstAidAction string `json:"poisoning_action"`
	IsToxic        bool   `json:"is_toxic"`
	Source         string `json:"source"`
	ReferenceImage string `json:"reference_image,omitempty"`
}

// Candidate is the top-ranked match returned by the secondary identifier.
type Candidate struct {
	ScientificName string  `json:"scientific_name"`
	CommonName     string  `json:"common_name"`
	Confidence     float64 `json:"confidence"`
}

// State identifies the branch of the decision pipeline that produced a verdict.
type State string

const (
	LocalTrusted          State = "local_trusted"
	Escalating            State = "escalating"
	SecondaryTrustedToxic State = "secondary_trusted_toxic"
	SecondaryTrustedSafe  State = "secondary_trusted_safe"
	Fallback              State = "fallback"
)

// Terminal reports whether a verdict may be emitted from s.
func (s State) Terminal() bool {
	return s != Escalating
}

// Verdict is the single final toxicity decision for a request.
type Verdict struct {
	ScientificName string
	CommonName     string
	Symptoms       string
	FirstAidAction string
	IsToxic        bool
	Confidence     float64
	Source         string
	ReferenceImage string
	State          State
}
