package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
	"github.com/JaimeStill/floraguard/internal/plants"
	"github.com/JaimeStill/floraguard/internal/translate"
)

func main() {
	var (
		csvPath  = flag.String("csv", "", "CSV file of curated plant records")
		bundles  = flag.String("bundles", "", "Directory of <code>.json language bundles to upload")
		generate = flag.Bool("generate-bundles", false, "Translate and upload a bundle for every supported language")
		workers  = flag.Int("workers", 4, "Concurrent writes")
	)
	flag.Parse()

	if *csvPath == "" && *bundles == "" && !*generate {
		log.Println("usage: seed [-csv toxic_plants_info.csv] [-bundles dir] [-generate-bundles] [-workers N]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *workers < 1 {
		*workers = 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()

	logger := infra.Logger.With("cmd", "seed")
	ctx := infra.Lifecycle.Context()

	err = run(ctx, cfg, infra, *csvPath, *bundles, *generate, *workers)

	if shutdownErr := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); shutdownErr != nil {
		logger.Error("shutdown failed", "error", shutdownErr)
	}
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func run(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	csvPath, bundleDir string,
	generate bool,
	workers int,
) error {
	logger := infra.Logger.With("cmd", "seed")

	if csvPath != "" {
		if !infra.Database.Ready() {
			return errors.New("database unreachable")
		}

		f, err := os.Open(csvPath)
		if err != nil {
			return err
		}
		cmds, err := readPlants(f)
		f.Close()
		if err != nil {
			return err
		}

		store := plants.New(infra.Database.Connection(), infra.Logger, cfg.API.Pagination)
		if err := seedPlants(ctx, store, cmds, workers, logger); err != nil {
			return err
		}
		logger.Info("plants seeded", "count", len(cmds))
	}

	if bundleDir != "" {
		n, err := uploadBundles(ctx, infra.Storage, bundleDir, workers, logger)
		if err != nil {
			return err
		}
		logger.Info("bundles uploaded", "count", n)
	}

	if generate {
		if cfg.Translation.APIKey == "" {
			return errors.New("generating bundles requires translation.api_key")
		}
		translator := translate.New(translate.NewProvider(&cfg.Translation, nil), &cfg.Translation, infra.Logger)

		n, err := generateBundles(ctx, infra.Storage, translator, workers, logger)
		if err != nil {
			return err
		}
		logger.Info("bundles generated", "count", n)
	}

	return nil
}
