package languages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/floraguard/pkg/storage"
)

// Text keys used by the decision pipeline.
const (
	KeySafeTitle     = "safe_title"
	KeySafeBody      = "safe_body_text"
	KeySafeAction    = "safe_action_text"
	KeySafeSecondary = "safe_body_plantnet"
)

// Default base-locale texts for the pipeline keys.
const (
	DefaultSafeTitle     = "No Toxic Plant Detected"
	DefaultSafeBody      = "The image does not match any known toxic plants."
	DefaultSafeAction    = "Likely safe. However, never ingest unknown plants."
	DefaultSafeSecondary = "Identified as likely safe or non-toxic by visual analysis."
	DefaultCaution       = "Caution advised. Exact symptoms unknown."
	DefaultAvoid         = "Avoid ingestion. Seek medical help."
)

// DefaultBundleTTL bounds how long a parsed bundle is reused before it is
// downloaded again.
const DefaultBundleTTL = time.Minute

const (
	bundlePrefix = "languages/"
	bundleSuffix = ".json"
)

var codePattern = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// Source reads bundle blobs. storage.System satisfies it.
type Source interface {
	Download(ctx context.Context, key string) (*storage.Blob, error)
}

// Translator localizes free text; used when a bundle lacks a key.
// BaseLocale names the locale that needs no translation.
type Translator interface {
	Translate(ctx context.Context, text, locale string) string
	BaseLocale() string
}

type cachedBundle struct {
	data    map[string]string
	fetched time.Time
}

// Texts resolves localized texts from per-locale bundles, falling back to
// the translator. Parsed bundles are reused for ttl; missing or unreadable
// bundles are not cached. A ttl of zero disables caching.
type Texts struct {
	source     Source
	translator Translator
	ttl        time.Duration
	logger     *slog.Logger

	mu      sync.RWMutex
	bundles map[string]cachedBundle
}

// NewTexts creates a Texts reading bundles from source.
func NewTexts(source Source, translator Translator, ttl time.Duration, logger *slog.Logger) *Texts {
	return &Texts{
		source:     source,
		translator: translator,
		ttl:        ttl,
		logger:     logger.With("system", "languages"),
		bundles:    make(map[string]cachedBundle),
	}
}

// BundleKey returns the storage key for a locale's bundle.
func BundleKey(code string) string {
	return bundlePrefix + code + bundleSuffix
}

// BaseLocale returns the locale that default texts are written in.
func (t *Texts) BaseLocale() string {
	return t.translator.BaseLocale()
}

// Invalidate drops the cached bundle stored under key. Keys outside the
// bundle namespace are ignored.
func (t *Texts) Invalidate(key string) {
	code, ok := strings.CutPrefix(key, bundlePrefix)
	if !ok {
		return
	}
	if code, ok = strings.CutSuffix(code, bundleSuffix); !ok {
		return
	}

	t.mu.Lock()
	delete(t.bundles, code)
	t.mu.Unlock()
}

// Raw returns the unparsed bundle for code.
// Returns ErrNotFound when the code is malformed or no bundle exists.
func (t *Texts) Raw(ctx context.Context, code string) ([]byte, error) {
	if !codePattern.MatchString(code) {
		return nil, ErrNotFound
	}

	blob, err := t.source.Download(ctx, BundleKey(code))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download bundle %s: %w", code, err)
	}
	defer blob.Body.Close()

	data, err := io.ReadAll(blob.Body)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", code, err)
	}
	return data, nil
}

// Text returns the text for key in locale. The base locale returns def
// directly. Otherwise the entry under the locale bundle's data is used when
// present, and def is translated when it is not.
func (t *Texts) Text(ctx context.Context, locale, key, def string) string {
	if locale == "" || locale == t.BaseLocale() {
		return def
	}

	if v := t.bundle(ctx, locale)[key]; v != "" {
		return v
	}

	return t.translator.Translate(ctx, def, locale)
}

// Translate localizes free text through the translator.
func (t *Texts) Translate(ctx context.Context, text, locale string) string {
	return t.translator.Translate(ctx, text, locale)
}

func (t *Texts) bundle(ctx context.Context, locale string) map[string]string {
	t.mu.RLock()
	cached, ok := t.bundles[locale]
	t.mu.RUnlock()
	if ok && time.Since(cached.fetched) < t.ttl {
		return cached.data
	}

	data, err := t.Raw(ctx, locale)
	switch {
	case errors.Is(err, ErrNotFound):
		t.Invalidate(BundleKey(locale))
		return nil
	case err != nil:
		t.logger.Warn("bundle unavailable", "locale", locale, "error", err)
		return nil
	}

	var parsed Bundle
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.logger.Warn("bundle malformed", "locale", locale, "error", err)
		return nil
	}

	if t.ttl > 0 {
		t.mu.Lock()
		t.bundles[locale] = cachedBundle{data: parsed.Data, fetched: time.Now()}
		t.mu.Unlock()
	}
	return parsed.Data
}
