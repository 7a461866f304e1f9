package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/floraguard/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid input"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed["error"] != "invalid input" {
		t.Errorf("error: got %s, want invalid input", parsed["error"])
	}
}

func TestRespondSafeError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		rec := httptest.NewRecorder()
		handlers.RespondSafeError(rec, logger, status, errors.New("model unavailable"))

		if rec.Code != status {
			t.Errorf("status: got %d, want %d", rec.Code, status)
		}

		var parsed map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if parsed["error"] != "model unavailable" {
			t.Errorf("error: got %v", parsed["error"])
		}
		toxic, ok := parsed["is_toxic"].(bool)
		if !ok || toxic {
			t.Errorf("is_toxic: got %v, want false", parsed["is_toxic"])
		}
	}
}

func TestPublicError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sentinel := handlers.Public(errors.New("no file"), "No file")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("boom"), "boom"},
		{"public sentinel", sentinel, "No file"},
		{"wrapped sentinel", fmt.Errorf("read upload: %w", sentinel), "No file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handlers.Message(tt.err); got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}

			rec := httptest.NewRecorder()
			handlers.RespondSafeError(rec, logger, http.StatusBadRequest, tt.err)

			var parsed map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if parsed["error"] != tt.want {
				t.Errorf("body error = %v, want %q", parsed["error"], tt.want)
			}
		})
	}

	if sentinel.Error() != "no file" {
		t.Errorf("Error() = %q, want lowercase cause", sentinel.Error())
	}
	if !errors.Is(fmt.Errorf("x: %w", sentinel), sentinel) {
		t.Error("wrapped sentinel not matched by errors.Is")
	}
}
