package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/infrastructure"
)

// Server owns the process-wide systems and the HTTP listener.
type Server struct {
	infra           *infrastructure.Infrastructure
	http            *httpServer
	shutdownTimeout time.Duration
}

// NewServer assembles infrastructure and mounts every module on the router.
// Nothing is started until Run.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"floraguard initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:           infra,
		http:            newHTTPServer(&cfg.Server, router, infra.Logger),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

// Run starts every system, serves until ctx is cancelled, then drains the
// lifecycle within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	log := s.infra.Logger

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Lifecycle.Shutdown(s.shutdownTimeout)
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		log.Info("startup complete", "ready", s.infra.Lifecycle.Ready())
	}()

	<-ctx.Done()
	log.Info("initiating shutdown", "timeout", s.shutdownTimeout)

	if err := s.infra.Lifecycle.Shutdown(s.shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("floraguard stopped")
	return nil
}
