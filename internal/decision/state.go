package decision

import "github.com/JaimeStill/floraguard/internal/toxicity"

// Escalation is the first transition. A confident classification whose label
// hits the curated store is trusted; anything else escalates.
func Escalation(confidence, threshold float64, primary toxicity.Outcome) toxicity.State {
	if confidence < threshold || !primary.Curated() {
		return toxicity.Escalating
	}
	return toxicity.LocalTrusted
}

// Resolution is the transition out of Escalating. No candidate falls back to
// the safe template; a candidate is toxic exactly when the curated store
// knows it.
func Resolution(candidate *toxicity.Candidate, secondary toxicity.Outcome) toxicity.State {
	switch {
	case candidate == nil:
		return toxicity.Fallback
	case secondary.Curated():
		return toxicity.SecondaryTrustedToxic
	default:
		return toxicity.SecondaryTrustedSafe
	}
}
