// Package decision turns a local classification into a single toxicity
// verdict. It decides when the local model is trusted, when the secondary
// identifier is consulted, and how the curated store arbitrates between them.
package decision

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/internal/toxicity"
)

// FallbackName is the scientific name reported when no source identifies
// the plant.
const FallbackName = "Unknown / Safe"

// RecordStore resolves curated records. records.Store satisfies it.
type RecordStore interface {
	Lookup(ctx context.Context, key, locale string) toxicity.Outcome
}

// Identifier is the secondary identification service. plantnet.Client
// satisfies it.
type Identifier interface {
	Identify(ctx context.Context, image []byte) *toxicity.Candidate
}

// Texts resolves localized template texts. languages.Texts satisfies it.
type Texts interface {
	Text(ctx context.Context, locale, key, def string) string
	Translate(ctx context.Context, text, locale string) string
}

// Engine runs the escalation policy. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	store      RecordStore
	identifier Identifier
	texts      Texts
	threshold  float64
	logger     *slog.Logger
}

// New creates an Engine using cfg's confidence threshold.
func New(cfg Config, store RecordStore, identifier Identifier, texts Texts, logger *slog.Logger) *Engine {
	return &Engine{
		store:      store,
		identifier: identifier,
		texts:      texts,
		threshold:  cfg.ConfidenceThreshold,
		logger:     logger.With("system", "decision"),
	}
}

// Threshold returns the escalation confidence threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Decide produces the verdict for one classified image. Store misses and
// identifier failures are folded into the verdict; Decide never fails.
func (e *Engine) Decide(ctx context.Context, c toxicity.Classification, image []byte, locale string) toxicity.Verdict {
	primary := e.store.Lookup(ctx, toxicity.Normalize(c.Label), locale)

	state := Escalation(c.Confidence, e.threshold, primary)
	if state == toxicity.LocalTrusted {
		e.log(ctx, state, c, nil)
		return verdict(primary.Record(), c.Confidence, state)
	}

	e.logger.InfoContext(
		ctx, "escalating to secondary identifier",
		"label", c.Label,
		"confidence", c.Confidence,
		"curated", primary.Curated(),
	)

	candidate := e.identifier.Identify(ctx, image)
	if candidate == nil {
		e.log(ctx, toxicity.Fallback, c, nil)
		return e.fallback(ctx, c.Confidence, locale)
	}

	secondary := e.secondaryLookup(ctx, candidate, locale)

	state = Resolution(candidate, secondary)
	e.log(ctx, state, c, candidate)

	if state == toxicity.SecondaryTrustedToxic {
		r := secondary.Record()
		r.IsToxic = true
		r.Source = toxicity.SecondarySource(r.Source)
		return verdict(r, candidate.Confidence, state)
	}

	return toxicity.Verdict{
		ScientificName: candidate.ScientificName,
		CommonName:     e.texts.Translate(ctx, candidate.CommonName, locale),
		Symptoms:       e.texts.Text(ctx, locale, languages.KeySafeSecondary, languages.DefaultSafeSecondary),
		FirstAidAction: e.texts.Text(ctx, locale, languages.KeySafeAction, languages.DefaultSafeAction),
		IsToxic:        false,
		Confidence:     candidate.Confidence,
		Source:         toxicity.SecondaryOnlySource,
		State:          state,
	}
}

// secondaryLookup keys the store by the candidate's scientific name, then by
// its common name when that normalizes to a different key.
func (e *Engine) secondaryLookup(ctx context.Context, candidate *toxicity.Candidate, locale string) toxicity.Outcome {
	key := toxicity.Normalize(candidate.ScientificName)
	outcome := e.store.Lookup(ctx, key, locale)
	if outcome.Curated() {
		return outcome
	}

	if alt := toxicity.Normalize(candidate.CommonName); alt != "" && alt != key {
		if byCommon := e.store.Lookup(ctx, alt, locale); byCommon.Curated() {
			return byCommon
		}
	}

	return outcome
}

func (e *Engine) fallback(ctx context.Context, confidence float64, locale string) toxicity.Verdict {
	return toxicity.Verdict{
		ScientificName: FallbackName,
		CommonName:     e.texts.Text(ctx, locale, languages.KeySafeTitle, languages.DefaultSafeTitle),
		Symptoms:       e.texts.Text(ctx, locale, languages.KeySafeBody, languages.DefaultSafeBody),
		FirstAidAction: e.texts.Text(ctx, locale, languages.KeySafeAction, languages.DefaultSafeAction),
		IsToxic:        false,
		Confidence:     confidence,
		Source:         toxicity.SourceThreshold,
		State:          toxicity.Fallback,
	}
}

func (e *Engine) log(ctx context.Context, state toxicity.State, c toxicity.Classification, candidate *toxicity.Candidate) {
	attrs := []any{
		"state", state,
		"label", c.Label,
		"confidence", c.Confidence,
	}
	if candidate != nil {
		attrs = append(attrs,
			"candidate", candidate.ScientificName,
			"candidate_confidence", candidate.Confidence,
		)
	}
	e.logger.InfoContext(ctx, "verdict", attrs...)
}

func verdict(r toxicity.Record, confidence float64, state toxicity.State) toxicity.Verdict {
	return toxicity.Verdict{
		ScientificName: r.ScientificName,
		CommonName:     r.CommonName,
		Symptoms:       r.Symptoms,
		FirstAidAction: r.FirstAidAction,
		IsToxic:        r.IsToxic,
		Confidence:     confidence,
		Source:         r.Source,
		ReferenceImage: r.ReferenceImage,
		State:          state,
	}
}
