package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/pkg/storage"
)

// uploadBundles copies every <code>.json file in dir to its bundle key.
// Files must parse as a bundle.
func uploadBundles(ctx context.Context, store storage.System, dir string, workers int, logger *slog.Logger) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("list bundles: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			var b languages.Bundle
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			code := strings.TrimSuffix(filepath.Base(path), ".json")
			if err := putBundle(ctx, store, code, data); err != nil {
				return err
			}

			logger.Info("bundle uploaded", "code", code, "keys", len(b.Data))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(paths), nil
}

// generateBundles builds and stores a bundle for every supported language.
func generateBundles(ctx context.Context, store storage.System, translator languages.Translator, workers int, logger *slog.Logger) (int, error) {
	supported := languages.Supported()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, lang := range supported {
		g.Go(func() error {
			data, err := json.MarshalIndent(languages.BuildBundle(ctx, lang, translator), "", "  ")
			if err != nil {
				return fmt.Errorf("encode %s: %w", lang.Code, err)
			}

			if err := putBundle(ctx, store, lang.Code, data); err != nil {
				return err
			}

			logger.Info("bundle generated", "code", lang.Code)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(supported), nil
}

func putBundle(ctx context.Context, store storage.System, code string, data []byte) error {
	key := languages.BundleKey(code)
	if err := store.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
