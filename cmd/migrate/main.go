package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "FLORAGUARD_DB_DSN"

type options struct {
	dsn     string
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	forced  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dsn, "dsn", "", "database URL (defaults to "+envDSN+", then the [database] config)")
	flag.BoolVar(&opts.up, "up", false, "apply all pending migrations")
	flag.BoolVar(&opts.down, "down", false, "revert all migrations")
	flag.IntVar(&opts.steps, "steps", 0, "apply N migrations, or revert when negative")
	flag.BoolVar(&opts.version, "version", false, "print the current schema version")
	flag.IntVar(&opts.force, "force", -1, "force the schema version without migrating")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		opts.forced = opts.forced || f.Name == "force"
	})

	if !opts.up && !opts.down && !opts.version && !opts.forced && opts.steps == 0 {
		log.Println("usage: migrate [-dsn url] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := infrastructure.NewLogger(slog.LevelInfo, "text").With("cmd", "migrate")
	if err := run(opts, logger); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	target, err := resolveDSN(opts.dsn)
	if err != nil {
		return fmt.Errorf("resolve dsn: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, target)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer m.Close()

	switch {
	case opts.version:
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
		return nil
	case opts.forced:
		if err := m.Force(opts.force); err != nil {
			return fmt.Errorf("force %d: %w", opts.force, err)
		}
		logger.Info("version forced", "version", opts.force)
		return nil
	case opts.up:
		err = m.Up()
	case opts.down:
		err = m.Down()
	default:
		err = m.Steps(opts.steps)
	}

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema already current")
	case err != nil:
		return err
	default:
		v, _, _ := m.Version()
		logger.Info("migrations applied", "version", v)
	}
	return nil
}

// resolveDSN prefers the flag, then the environment, then the loaded config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Database.URL(), nil
}
