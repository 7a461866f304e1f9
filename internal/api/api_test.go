package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/floraguard/internal/api"
	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/middleware"
	"github.com/JaimeStill/floraguard/pkg/module"
	"github.com/JaimeStill/floraguard/pkg/openapi"
)

// loadConfig finalizes a config against a model server that never becomes
// ready, so the classifier stays unavailable for the life of the test.
func loadConfig(t *testing.T, extra string) *config.Config {
	t.Helper()

	serving := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "loading", http.StatusServiceUnavailable)
	}))
	t.Cleanup(serving.Close)

	dir := t.TempDir()
	content := `
log_level = "error"

[database]
name = "floraguard"
user = "floraguard"

[storage]
provider = "local"
local_path = "` + filepath.ToSlash(filepath.Join(dir, "blobs")) + `"

[classifier]
endpoint = "` + serving.URL + `"
timeout = "1s"
` + extra

	if err := os.WriteFile(filepath.Join(dir, config.BaseConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func setup(t *testing.T, extra string) (*config.Config, http.Handler) {
	t.Helper()
	cfg := loadConfig(t, extra)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return cfg, router
}

func TestNewModule(t *testing.T) {
	cfg := loadConfig(t, "")
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := loadConfig(t, "")
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.MaxUploadSize != 16*1024*1024 {
		t.Errorf("max upload size: got %d", runtime.MaxUploadSize)
	}
	if runtime.StoragePath != "/api/storage" {
		t.Errorf("storage path: got %s, want /api/storage", runtime.StoragePath)
	}
	if runtime.Logger == nil || runtime.Database == nil || runtime.Storage == nil || runtime.Lifecycle == nil {
		t.Error("runtime missing infrastructure")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := loadConfig(t, "")
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	domain := api.NewDomain(cfg, api.NewRuntime(cfg, infra))

	if domain.Decision.Threshold() != 0.70 {
		t.Errorf("threshold: got %v, want 0.70", domain.Decision.Threshold())
	}
	if domain.Classifier.Ready() {
		t.Error("classifier ready before startup")
	}
}

func TestLanguagesRoute(t *testing.T) {
	_, router := setup(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/languages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var langs []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&langs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(langs) != 11 {
		t.Errorf("languages: got %d, want 11", len(langs))
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response missing request id")
	}
}

func TestPredictBeforeModelReady(t *testing.T) {
	_, router := setup(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "leaf.jpg")
	part.Write([]byte("not really a jpeg"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/predict", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}

	var got handlers.SafeError
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != "Model failed" || got.IsToxic {
		t.Errorf("body: got %+v", got)
	}
}

func TestStorageRoundTrip(t *testing.T) {
	_, router := setup(t, "")

	put := httptest.NewRequest("PUT", "/api/storage/images/nerium_oleander.jpg", bytes.NewReader([]byte("jpeg-bytes")))
	put.Header.Set("Content-Type", "image/jpeg")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, put)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("upload status: got %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/storage/images/nerium_oleander.jpg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("download status: got %d, want 200", rec.Code)
	}
	if b, _ := io.ReadAll(rec.Body); string(b) != "jpeg-bytes" {
		t.Errorf("body: got %q", b)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/storage/images/missing.jpg", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status: got %d, want 404", rec.Code)
	}
}

func TestWritesRequireTokenWhenAuthEnabled(t *testing.T) {
	_, router := setup(t, `
[api.auth]
enabled = true
issuer = "https://login.example.com"
client_id = "floraguard"
`)

	tests := []struct {
		method string
		path   string
	}{
		{"PUT", "/api/storage/images/x.jpg"},
		{"DELETE", "/api/storage/images/x.jpg"},
		{"PUT", "/api/plants/nerium_oleander"},
		{"DELETE", "/api/plants/nerium_oleander"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte("{}"))))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rec.Code)
			}
		})
	}
}

func TestOpenAPIRoute(t *testing.T) {
	cfg, router := setup(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc struct {
		Info  map[string]string `json:"info"`
		Paths map[string]any    `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info["title"] != "FloraGuard API" {
		t.Errorf("title: got %s", doc.Info["title"])
	}
	for _, p := range []string{"/predict", "/languages", "/languages/{code}", "/plants", "/plants/{name}", "/storage/{key}"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}
	spec := api.BuildSpec(cfg)
	for path, item := range spec.Paths {
		for method, op := range map[string]*openapi.Operation{"PUT": item.Put, "DELETE": item.Delete, "GET": item.Get, "POST": item.Post} {
			if op == nil {
				continue
			}
			guarded := method == "PUT" || method == "DELETE"
			if (len(op.Security) > 0) != guarded {
				t.Errorf("%s %s: security = %v, guarded %v", method, path, op.Security, guarded)
			}
		}
	}
}
