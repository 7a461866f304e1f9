// Package classifier wraps the local image classification model. The model
// and its class names are loaded once at startup; until that succeeds every
// classification fails with ErrUnavailable.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JaimeStill/floraguard/internal/toxicity"
	"github.com/JaimeStill/floraguard/pkg/lifecycle"
)

// System classifies uploaded images into curated plant labels.
type System interface {
	Classify(ctx context.Context, image []byte) (toxicity.Classification, error)
	Load(ctx context.Context) error
	Start(lc *lifecycle.Coordinator) error
	Ready() bool
}

type classifier struct {
	cfg    Config
	model  Model
	logger *slog.Logger

	mu      sync.RWMutex
	classes []string
}

// New creates a classifier around model.
func New(cfg Config, model Model, logger *slog.Logger) System {
	return &classifier{
		cfg:    cfg,
		model:  model,
		logger: logger.With("system", "classifier"),
	}
}

// Start loads the class names and probes the model during startup.
func (c *classifier) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting classifier", "model", c.cfg.Model)
	lc.RequireReady(c)

	lc.OnStartup(func() {
		if err := c.Load(lc.Context()); err != nil {
			c.logger.Error("classifier unavailable", "error", err)
			return
		}
		c.logger.Info("classifier loaded", "classes", len(c.classes))
	})

	return nil
}

func (c *classifier) Load(ctx context.Context) error {
	classes, err := LoadClasses(c.cfg.ClassesFile)
	if err != nil {
		return err
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.TimeoutDuration())
	defer cancel()

	if err := c.model.Probe(probeCtx); err != nil {
		return err
	}

	c.mu.Lock()
	c.classes = classes
	c.mu.Unlock()

	return nil
}

func (c *classifier) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes != nil
}

func (c *classifier) Classify(ctx context.Context, image []byte) (toxicity.Classification, error) {
	c.mu.RLock()
	classes := c.classes
	c.mu.RUnlock()

	if classes == nil {
		return toxicity.Classification{}, ErrUnavailable
	}

	input, err := Preprocess(image, c.cfg.InputSize, c.cfg.MaxPixels)
	if err != nil {
		return toxicity.Classification{}, err
	}

	scores, err := c.model.Predict(ctx, input)
	if err != nil {
		return toxicity.Classification{}, fmt.Errorf("%w: %w", ErrPrediction, err)
	}

	idx, conf := argmax(scores)
	result := toxicity.Classification{Label: label(classes, idx), Confidence: conf}

	c.logger.Info("local classification", "label", result.Label, "confidence", result.Confidence)
	return result, nil
}

func argmax(scores []float64) (int, float64) {
	if len(scores) == 0 {
		return -1, 0
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best, scores[best]
}
