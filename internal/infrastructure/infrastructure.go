// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies shared by every domain system: lifecycle
// coordination, logging, the curated store database, and blob storage.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/pkg/database"
	"github.com/JaimeStill/floraguard/pkg/lifecycle"
	"github.com/JaimeStill/floraguard/pkg/storage"
)

// Infrastructure holds the systems every module shares.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New builds the shared systems from cfg without starting them.
func New(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    NewLogger(cfg.Level(), cfg.LogFormat),
	}

	var err error
	if infra.Database, err = database.New(&cfg.Database, infra.Logger); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if infra.Storage, err = storage.New(&cfg.Storage, infra.Logger); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	return infra, nil
}

// NewLogger creates the process logger writing to stderr. Format "json"
// selects JSON records; anything else writes text.
func NewLogger(level slog.Level, format string) *slog.Logger {
	return slog.New(newHandler(os.Stderr, level, format))
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Start registers the database and storage hooks with the coordinator.
func (i *Infrastructure) Start() error {
	starters := []struct {
		name  string
		start func(*lifecycle.Coordinator) error
	}{
		{"database", i.Database.Start},
		{"storage", i.Storage.Start},
	}
	for _, s := range starters {
		if err := s.start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", s.name, err)
		}
	}
	return nil
}
