package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JaimeStill/floraguard/pkg/lifecycle"
)

type local struct {
	basePath string
	logger   *slog.Logger
}

// NewLocal creates a filesystem-backed storage system rooted at basePath.
func NewLocal(basePath string, logger *slog.Logger) System {
	return newLocal(&Config{LocalPath: basePath}, logger)
}

func newLocal(cfg *Config, logger *slog.Logger) *local {
	return &local{
		basePath: cfg.LocalPath,
		logger:   logger.With("system", "storage", "provider", ProviderLocal),
	}
}

func (l *local) Start(lc *lifecycle.Coordinator) error {
	l.logger.Info("starting storage system")

	lc.OnStartup(func() {
		if err := os.MkdirAll(l.basePath, 0755); err != nil {
			l.logger.Error("storage directory initialization failed", "error", err)
			return
		}
		l.logger.Info("storage directory ready", "path", l.basePath)
	})

	return nil
}

func (l *local) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create blob directory %s: %w", key, err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", key, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		os.Remove(full)
		return fmt.Errorf("write blob %s: %w", key, err)
	}

	return nil
}

func (l *local) Download(ctx context.Context, key string) (*Blob, error) {
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat blob %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Blob{
		Body:          f,
		ContentType:   ContentTypeFor(key),
		ContentLength: info.Size(),
	}, nil
}

func (l *local) Delete(ctx context.Context, key string) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func (l *local) Exists(ctx context.Context, key string) (bool, error) {
	full, err := l.resolve(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return !info.IsDir(), nil
}

func (l *local) resolve(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(key)), nil
}
