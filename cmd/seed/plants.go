package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/floraguard/internal/plants"
)

type upserter interface {
	Upsert(ctx context.Context, cmd plants.UpsertCommand) (*plants.Plant, error)
}

// seedPlants upserts cmds with at most workers writes in flight. The first
// failure cancels the remaining writes.
func seedPlants(ctx context.Context, store upserter, cmds []plants.UpsertCommand, workers int, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, cmd := range cmds {
		g.Go(func() error {
			if _, err := store.Upsert(ctx, cmd); err != nil {
				return fmt.Errorf("upsert %s: %w", cmd.ScientificName, err)
			}
			logger.Info("plant uploaded", "id", cmd.ID, "scientific_name", cmd.ScientificName)
			return nil
		})
	}

	return g.Wait()
}
