package toxicity

// Outcome is the result of a curated store lookup. It is either a curated hit
// or the not-found default record; the distinction is carried by the type
// rather than by the record's source tag.
type Outcome struct {
	record  Record
	curated bool
}

// Curated wraps a record found in the curated store. Presence in the store is
// the toxicity signal, so the stored flag is overridden.
func Curated(r Record) Outcome {
	r.IsToxic = true
	if r.Source == "" {
		r.Source = SourceCurated
	}
	return Outcome{record: r, curated: true}
}

// NotFound builds the default outcome for a lookup miss from the localized
// caution texts.
func NotFound(label, symptoms, action string) Outcome {
	return Outcome{
		record: Record{
			ScientificName: label,
			CommonName:     label,
			Symptoms:       symptoms,
			FirstAidAction: action,
			IsToxic:        false,
			Source:         SourcePrediction,
		},
	}
}

// Curated reports whether the lookup hit the curated store.
func (o Outcome) Curated() bool {
	return o.curated
}

// Record returns the resolved record for the outcome.
func (o Outcome) Record() Record {
	return o.record
}
