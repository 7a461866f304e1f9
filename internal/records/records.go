// Package records resolves curated toxicity records for the decision
// pipeline. Lookups never fail: store errors and misses both produce the
// localized not-found outcome.
package records

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/internal/plants"
	"github.com/JaimeStill/floraguard/internal/toxicity"
)

const unknownField = "Unknown"

// Finder reads a stored plant by normalized key or alias.
// plants.System satisfies it.
type Finder interface {
	Find(ctx context.Context, key string) (*plants.Plant, error)
}

// Localizer translates free text into a locale. languages.Texts satisfies it.
type Localizer interface {
	Translate(ctx context.Context, text, locale string) string
	BaseLocale() string
}

// Store adapts the curated plant store into toxicity lookup outcomes.
type Store struct {
	finder    Finder
	localizer Localizer
	imageBase string
	logger    *slog.Logger
}

// New creates a Store. When imageBase is non-empty, stored image folders are
// exposed as reference images under that path prefix.
func New(finder Finder, localizer Localizer, imageBase string, logger *slog.Logger) *Store {
	return &Store{
		finder:    finder,
		localizer: localizer,
		imageBase: strings.TrimSuffix(imageBase, "/"),
		logger:    logger.With("system", "records"),
	}
}

// Lookup resolves key in locale. A hit yields a curated outcome whose
// display fields prefer stored locale overrides and otherwise pass the base
// field through the localizer.
func (s *Store) Lookup(ctx context.Context, key, locale string) toxicity.Outcome {
	if key == "" {
		return s.notFound(ctx, key, locale)
	}

	p, err := s.finder.Find(ctx, key)
	if err != nil {
		if !errors.Is(err, plants.ErrNotFound) {
			s.logger.Warn("store lookup failed", "key", key, "error", err)
		} else {
			s.logger.Debug("record not found", "key", key)
		}
		return s.notFound(ctx, key, locale)
	}

	scientific := p.ScientificName
	if scientific == "" {
		scientific = key
	}

	return toxicity.Curated(toxicity.Record{
		ScientificName: scientific,
		CommonName:     s.field(ctx, p, plants.FieldCommonName, p.CommonName, locale),
		Symptoms:       s.field(ctx, p, plants.FieldSymptoms, p.Symptoms, locale),
		FirstAidAction: s.field(ctx, p, plants.FieldPoisoningAction, p.PoisoningAction, locale),
		IsToxic:        p.IsToxic,
		Source:         p.Source,
		ReferenceImage: s.referenceImage(p.ImageFolder),
	})
}

func (s *Store) field(ctx context.Context, p *plants.Plant, field, base, locale string) string {
	if locale != s.localizer.BaseLocale() {
		if v, ok := p.Override(field, locale); ok {
			return v
		}
	}

	if strings.TrimSpace(base) == "" {
		base = unknownField
	}
	return s.localizer.Translate(ctx, base, locale)
}

func (s *Store) notFound(ctx context.Context, key, locale string) toxicity.Outcome {
	return toxicity.NotFound(
		key,
		s.localizer.Translate(ctx, languages.DefaultCaution, locale),
		s.localizer.Translate(ctx, languages.DefaultAvoid, locale),
	)
}

func (s *Store) referenceImage(folder *string) string {
	if folder == nil || *folder == "" {
		return ""
	}
	if s.imageBase == "" {
		return *folder
	}
	return s.imageBase + "/" + strings.TrimPrefix(*folder, "/")
}
