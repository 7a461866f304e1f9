package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/floraguard/pkg/middleware"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"outer", "inner"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("order = %v, want [outer inner handler]", order)
	}
}

func TestCORS(t *testing.T) {
	app := []string{"http://app.local"}

	tests := []struct {
		name        string
		cfg         middleware.CORSConfig
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantOrigin  string
		wantCreds   string
		wantMethods string
		wantCalled  bool
	}{
		{
			name:       "disabled",
			cfg:        middleware.CORSConfig{Enabled: false, Origins: app},
			method:     "GET",
			origin:     "http://app.local",
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "allowed origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: app, AllowedMethods: []string{"GET", "POST"}},
			method:     "POST",
			origin:     "http://app.local",
			wantCode:   http.StatusOK,
			wantOrigin: "http://app.local",
			wantCalled: true,
		},
		{
			name:       "denied origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: app},
			method:     "GET",
			origin:     "http://evil.local",
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "credentials",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: app, AllowCredentials: true},
			method:     "GET",
			origin:     "http://app.local",
			wantCode:   http.StatusOK,
			wantOrigin: "http://app.local",
			wantCreds:  "true",
			wantCalled: true,
		},
		{
			name:        "preflight short circuits",
			cfg:         middleware.CORSConfig{Enabled: true, Origins: app, AllowedMethods: []string{"GET", "POST"}},
			method:      "OPTIONS",
			origin:      "http://app.local",
			preflight:   true,
			wantCode:    http.StatusNoContent,
			wantOrigin:  "http://app.local",
			wantMethods: "GET, POST",
		},
		{
			name:       "options without request method reaches handler",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: app},
			method:     "OPTIONS",
			origin:     "http://app.local",
			wantCode:   http.StatusOK,
			wantOrigin: "http://app.local",
			wantCalled: true,
		},
		{
			name:       "denied preflight reaches handler",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: app},
			method:     "OPTIONS",
			origin:     "http://evil.local",
			preflight:  true,
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := middleware.CORS(&tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/predict", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("allow-credentials = %q, want %q", got, tt.wantCreds)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("allow-methods = %q, want %q", got, tt.wantMethods)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestCORSExposesRequestID(t *testing.T) {
	cfg := middleware.CORSConfig{Enabled: true, Origins: []string{"http://app.local"}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/languages", nil)
	req.Header.Set("Origin", "http://app.local")
	middleware.CORS(&cfg)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != middleware.RequestIDHeader {
		t.Errorf("expose-headers = %q, want %q", got, middleware.RequestIDHeader)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("vary = %q, want Origin", got)
	}
}

func TestCORSConfig(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.local, ,http://b.local")
	t.Setenv("TEST_CORS_MAX_AGE", "not-a-number")

	cfg := middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
		MaxAge:  "TEST_CORS_MAX_AGE",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled || len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.local" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if len(cfg.AllowedMethods) != 4 || cfg.MaxAge != 3600 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	cfg.Merge(&middleware.CORSConfig{Enabled: false, MaxAge: 60})
	if cfg.Enabled || cfg.MaxAge != 60 || len(cfg.Origins) != 2 {
		t.Errorf("merge result: %+v", cfg)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFrom(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if len(seen) != 36 {
			t.Errorf("generated id = %q, want uuid", seen)
		}
		if rec.Header().Get(middleware.RequestIDHeader) != seen {
			t.Error("response header does not echo context id")
		}
	})

	t.Run("reuses client id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "client-123")
		handler.ServeHTTP(rec, req)

		if seen != "client-123" {
			t.Errorf("id = %q, want client-123", seen)
		}
	})

	if middleware.RequestIDFrom(context.Background()) != "" {
		t.Error("empty context returned an id")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.RequestID()(middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/languages", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	handler.ServeHTTP(rec, req)

	line := buf.String()
	for _, want := range []string{"level=WARN", "status=418", "request_id=abc", "uri=/api/languages"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantLevel string
		wantAttrs []string
	}{
		{
			name:      "implicit ok",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			wantLevel: "level=INFO",
			wantAttrs: []string{"status=200", "bytes=5"},
		},
		{
			name:      "server error",
			handler:   func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusBadGateway) },
			wantLevel: "level=ERROR",
			wantAttrs: []string{"status=502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			middleware.Logger(logger)(tt.handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/plants", nil))

			line := buf.String()
			for _, want := range append([]string{tt.wantLevel}, tt.wantAttrs...) {
				if !strings.Contains(line, want) {
					t.Errorf("log line missing %q: %s", want, line)
				}
			}
		})
	}
}

func TestRecover(t *testing.T) {
	handler := middleware.Recover(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("tensor shape mismatch")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/predict", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "tensor shape mismatch" || body["is_toxic"] != false {
		t.Errorf("body = %v", body)
	}

	passthrough := middleware.Recover(discard())(http.HandlerFunc(ok))
	rec = httptest.NewRecorder()
	passthrough.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

type fakeVerifier struct {
	err   error
	token *oidc.IDToken
	raw   string
}

func (f *fakeVerifier) Verify(_ context.Context, raw string) (*oidc.IDToken, error) {
	f.raw = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		verifier *fakeVerifier
		header   string
		want     int
		wantRaw  string
	}{
		{"valid token", &fakeVerifier{token: &oidc.IDToken{Subject: "curator"}}, "Bearer abc.def", http.StatusOK, "abc.def"},
		{"lowercase scheme", &fakeVerifier{token: &oidc.IDToken{Subject: "curator"}}, "bearer abc", http.StatusOK, "abc"},
		{"missing header", &fakeVerifier{}, "", http.StatusUnauthorized, ""},
		{"basic scheme", &fakeVerifier{}, "Basic dXNlcg==", http.StatusUnauthorized, ""},
		{"empty token", &fakeVerifier{}, "Bearer  ", http.StatusUnauthorized, ""},
		{"rejected token", &fakeVerifier{err: errors.New("expired")}, "Bearer old", http.StatusUnauthorized, "old"},
		{"provider down", &fakeVerifier{err: middleware.ErrAuthUnavailable}, "Bearer abc", http.StatusServiceUnavailable, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string
			handler := middleware.Auth(tt.verifier, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject = middleware.SubjectFrom(r.Context())
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("PUT", "/plants/oleander", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.verifier.raw != tt.wantRaw {
				t.Errorf("verified token = %q, want %q", tt.verifier.raw, tt.wantRaw)
			}
			if tt.want == http.StatusOK && subject != "curator" {
				t.Errorf("subject = %q, want curator", subject)
			}
		})
	}
}

func TestAuthDisabled(t *testing.T) {
	handler := middleware.Auth(nil, discard())(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("DELETE", "/plants/oleander", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestOIDCVerifierUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	v := middleware.NewOIDCVerifier(&middleware.AuthConfig{Enabled: true, Issuer: srv.URL, ClientID: "floraguard"})

	_, err := v.Verify(context.Background(), "token")
	if !errors.Is(err, middleware.ErrAuthUnavailable) {
		t.Errorf("err = %v, want ErrAuthUnavailable", err)
	}
}

func TestAuthConfig(t *testing.T) {
	t.Setenv("TEST_AUTH_ENABLED", "true")
	t.Setenv("TEST_AUTH_ISSUER", "https://login.example.com")

	cfg := middleware.AuthConfig{}
	err := cfg.Finalize(&middleware.AuthEnv{Enabled: "TEST_AUTH_ENABLED", Issuer: "TEST_AUTH_ISSUER"})
	if err == nil {
		t.Fatal("expected client_id validation error")
	}

	cfg.ClientID = "floraguard"
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	disabled := middleware.AuthConfig{}
	if err := disabled.Finalize(nil); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}
}
