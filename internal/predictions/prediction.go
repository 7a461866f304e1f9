// Package predictions serves the image upload endpoint. It validates the
// upload, classifies it, runs the decision engine, and assembles the verdict
// into the client response while signalling the toxic or safe alert.
package predictions

import "github.com/JaimeStill/floraguard/internal/toxicity"

// Response is the wire shape of a verdict.
type Response struct {
	ScientificName  string  `json:"scientific_name"`
	CommonName      string  `json:"common_name"`
	Symptoms        string  `json:"symptoms"`
	PoisoningAction string  `json:"poisoning_action"`
	IsToxic         bool    `json:"is_toxic"`
	Confidence      float64 `json:"confidence"`
	Source          string  `json:"source"`
	ReferenceImage  string  `json:"reference_image,omitempty"`
}

// Assemble maps a verdict to its response.
func Assemble(v toxicity.Verdict) Response {
	return Response{
		ScientificName:  v.ScientificName,
		CommonName:      v.CommonName,
		Symptoms:        v.Symptoms,
		PoisoningAction: v.FirstAidAction,
		IsToxic:         v.IsToxic,
		Confidence:      v.Confidence,
		Source:          v.Source,
		ReferenceImage:  v.ReferenceImage,
	}
}
