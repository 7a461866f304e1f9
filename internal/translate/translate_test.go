package translate_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/JaimeStill/floraguard/internal/translate"
)

type mockProvider struct {
	calls     atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
	translate func(ctx context.Context, text, target string) (string, error)
}

func (m *mockProvider) Translate(ctx context.Context, text, target string) (string, error) {
	m.calls.Add(1)
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxActive.Load()
		if n <= cur || m.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.translate != nil {
		return m.translate(ctx, text, target)
	}
	return "[" + target + "] " + text, nil
}

func newTranslator(p translate.Provider, timeout string) *translate.Translator {
	cfg := &translate.Config{Timeout: timeout}
	if err := cfg.Finalize(nil); err != nil {
		panic(err)
	}
	return translate.New(p, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTranslatePassthrough(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{}
	tr := newTranslator(p, "")

	tests := []struct {
		name   string
		text   string
		locale string
	}{
		{"empty text", "", "es"},
		{"unknown placeholder", "Unknown", "es"},
		{"base locale", "Avoid ingestion. Seek medical help.", "en"},
		{"empty locale", "Avoid ingestion. Seek medical help.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Translate(context.Background(), tt.text, tt.locale); got != tt.text {
				t.Errorf("Translate = %q, want %q", got, tt.text)
			}
		})
	}

	if n := p.calls.Load(); n != 0 {
		t.Errorf("provider calls = %d, want 0", n)
	}
}

func TestTranslateCachesSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{}
	tr := newTranslator(p, "")
	ctx := context.Background()

	first := tr.Translate(ctx, "Oleander", "es")
	second := tr.Translate(ctx, "Oleander", "es")

	if first != "[es] Oleander" || second != first {
		t.Errorf("results = %q, %q", first, second)
	}
	if n := p.calls.Load(); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
	if tr.Cached() != 1 {
		t.Errorf("cached = %d, want 1", tr.Cached())
	}

	tr.Translate(ctx, "Oleander", "fr")
	if n := p.calls.Load(); n != 2 {
		t.Errorf("provider calls after new locale = %d, want 2", n)
	}
}

func TestTranslateConcurrentSamePair(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	p := &mockProvider{
		translate: func(ctx context.Context, text, target string) (string, error) {
			<-release
			return "Adelfa", nil
		},
	}
	tr := newTranslator(p, "")

	const callers = 8
	results := make([]string, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			results[i] = tr.Translate(context.Background(), "Oleander", "es")
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := p.calls.Load(); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
	for i, r := range results {
		if r != "Adelfa" {
			t.Errorf("result[%d] = %q, want Adelfa", i, r)
		}
	}
}

func TestTranslateFailureFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{
		translate: func(ctx context.Context, text, target string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	tr := newTranslator(p, "")
	ctx := context.Background()

	text := "Caution advised. Exact symptoms unknown."
	if got := tr.Translate(ctx, text, "hi"); got != text {
		t.Errorf("Translate = %q, want source text", got)
	}
	if got := tr.Translate(ctx, text, "hi"); got != text {
		t.Errorf("Translate = %q, want source text", got)
	}

	if n := p.calls.Load(); n != 2 {
		t.Errorf("provider calls = %d, want 2 (failures not cached)", n)
	}
	if tr.Cached() != 0 {
		t.Errorf("cached = %d, want 0", tr.Cached())
	}
}

func TestTranslateTimeoutFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{
		translate: func(ctx context.Context, text, target string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	tr := newTranslator(p, "50ms")

	start := time.Now()
	got := tr.Translate(context.Background(), "Likely safe.", "ru")
	elapsed := time.Since(start)

	if got != "Likely safe." {
		t.Errorf("Translate = %q, want source text", got)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout not enforced: took %v", elapsed)
	}
}

func TestTranslateIgnoresCallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{}
	tr := newTranslator(p, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := tr.Translate(ctx, "Oleander", "pt"); got != "[pt] Oleander" {
		t.Errorf("Translate = %q, want translated text", got)
	}
}

func TestTranslateBoundsWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &mockProvider{
		translate: func(ctx context.Context, text, target string) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return text + "!", nil
		},
	}
	tr := newTranslator(p, "")

	var wg sync.WaitGroup
	for i := range 12 {
		wg.Go(func() {
			tr.Translate(context.Background(), fmt.Sprintf("text %d", i), "bn")
		})
	}
	wg.Wait()

	if n := p.maxActive.Load(); n > 3 {
		t.Errorf("max concurrent provider calls = %d, want <= 3", n)
	}
	if n := p.calls.Load(); n != 12 {
		t.Errorf("provider calls = %d, want 12", n)
	}
}

func TestGoogleProvider(t *testing.T) {
	var gotKey string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Adelfa"}]}}`))
	}))
	defer srv.Close()

	p := translate.NewProvider(&translate.Config{Endpoint: srv.URL, APIKey: "secret"}, srv.Client())

	got, err := p.Translate(context.Background(), "Oleander", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Adelfa" {
		t.Errorf("Translate = %q, want Adelfa", got)
	}
	if gotKey != "secret" {
		t.Errorf("key = %q, want secret", gotKey)
	}
	if gotBody["q"] != "Oleander" || gotBody["target"] != "es" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestGoogleProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-200", http.StatusForbidden, `{"error":"denied"}`},
		{"empty translations", http.StatusOK, `{"data":{"translations":[]}}`},
		{"malformed body", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := translate.NewProvider(&translate.Config{Endpoint: srv.URL, APIKey: "k"}, srv.Client())
			if _, err := p.Translate(context.Background(), "x", "es"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewProviderWithoutKey(t *testing.T) {
	p := translate.NewProvider(&translate.Config{}, nil)
	if _, err := p.Translate(context.Background(), "x", "es"); !errors.Is(err, translate.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
