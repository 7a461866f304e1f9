package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/floraguard/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAzureReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "floraguard",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewAzureInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "floraguard",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := storage.New(&storage.Config{Provider: "s3"}, discard()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	sys := storage.NewLocal(t.TempDir(), discard())

	key := "languages/es.json"
	body := `{"safe_title":"No se detectó ninguna planta tóxica"}`

	if err := sys.Upload(ctx, key, strings.NewReader(body), "application/json"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	ok, err := sys.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}

	blob, err := sys.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer blob.Body.Close()

	data, _ := io.ReadAll(blob.Body)
	if string(data) != body {
		t.Errorf("body = %q, want %q", data, body)
	}
	if blob.ContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", blob.ContentType)
	}
	if blob.ContentLength != int64(len(body)) {
		t.Errorf("content length = %d, want %d", blob.ContentLength, len(body))
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ok, err = sys.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v; want false, nil", ok, err)
	}
}

func TestLocalErrors(t *testing.T) {
	ctx := context.Background()
	sys := storage.NewLocal(t.TempDir(), discard())

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"missing blob", "languages/xx.json", storage.ErrNotFound},
		{"empty key", "", storage.ErrEmptyKey},
		{"traversal", "../etc/passwd", storage.ErrInvalidKey},
		{"inner traversal", "images/../../secret", storage.ErrInvalidKey},
		{"absolute", "/etc/passwd", storage.ErrInvalidKey},
		{"empty segment", "images//oleander.jpg", storage.ErrInvalidKey},
		{"backslash", "images\\oleander.jpg", storage.ErrInvalidKey},
		{"dots in name allowed", "images/nerium..oleander.jpg", storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Download err = %v, want %v", err, tt.want)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Delete err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"languages/en.json", "application/json"},
		{"images/oleander.png", "image/png"},
		{"images/oleander.jpg", "image/jpeg"},
		{"blob", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := storage.ContentTypeFor(tt.key); got != tt.want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ErrNotFound maps to 404", storage.ErrNotFound, http.StatusNotFound},
		{"ErrEmptyKey maps to 400", storage.ErrEmptyKey, http.StatusBadRequest},
		{"ErrInvalidKey maps to 400", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped ErrNotFound maps to 404", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown error maps to 500", fmt.Errorf("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
