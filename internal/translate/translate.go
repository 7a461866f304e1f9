// Package translate localizes display text through an external translation
// provider. Results are cached process-wide by (locale, text); outbound calls
// are bounded by a fixed worker count and a per-call timeout, and any failure
// falls back to the source text.
package translate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Unknown is the placeholder text that is never sent for translation.
const Unknown = "Unknown"

type cacheKey struct {
	locale string
	text   string
}

// Translator is safe for concurrent use.
type Translator struct {
	provider Provider
	base     string
	timeout  time.Duration
	workers  *semaphore.Weighted
	flight   singleflight.Group
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey]string
}

// New creates a Translator over provider using the worker count, timeout,
// and base locale from cfg.
func New(provider Provider, cfg *Config, logger *slog.Logger) *Translator {
	return &Translator{
		provider: provider,
		base:     cfg.BaseLocale,
		timeout:  cfg.TimeoutDuration(),
		workers:  semaphore.NewWeighted(int64(cfg.Workers)),
		logger:   logger.With("system", "translate"),
		cache:    make(map[cacheKey]string),
	}
}

// BaseLocale returns the locale that source texts are written in.
func (t *Translator) BaseLocale() string {
	return t.base
}

// Translate returns text localized to locale. Empty text, the Unknown
// placeholder, and the base locale are returned unchanged. Provider failures
// and timeouts return text and are not cached.
func (t *Translator) Translate(ctx context.Context, text, locale string) string {
	if text == "" || text == Unknown || locale == "" || locale == t.base {
		return text
	}

	key := cacheKey{locale: locale, text: text}
	if v, ok := t.lookup(key); ok {
		return v
	}

	v, _, _ := t.flight.Do(locale+"\x00"+text, func() (any, error) {
		if v, ok := t.lookup(key); ok {
			return v, nil
		}

		translated, err := t.fetch(ctx, text, locale)
		if err != nil {
			t.logger.Warn("translation failed", "locale", locale, "error", err)
			return text, nil
		}

		t.mu.Lock()
		t.cache[key] = translated
		t.mu.Unlock()

		return translated, nil
	})

	return v.(string)
}

// Cached returns the number of cached translations.
func (t *Translator) Cached() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cache)
}

func (t *Translator) lookup(key cacheKey) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.cache[key]
	return v, ok
}

// fetch ignores caller cancellation; the timeout alone bounds the wait. A
// worker slot stays held until the provider call returns.
func (t *Translator) fetch(ctx context.Context, text, locale string) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()

	if err := t.workers.Acquire(ctx, 1); err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		defer t.workers.Release(1)
		s, err := t.provider.Translate(ctx, text, locale)
		done <- result{text: s, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
