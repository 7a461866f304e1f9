// Package alerts emits the toxic-alert or safe-clear side effect for each
// verdict. Delivery is asynchronous and failures are only logged.
package alerts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Signal is the binary alert outcome of a verdict.
type Signal string

const (
	ToxicAlert Signal = "toxic-alert"
	SafeClear  Signal = "safe-clear"
)

// SignalFor maps a verdict's toxicity flag to its signal.
func SignalFor(isToxic bool) Signal {
	if isToxic {
		return ToxicAlert
	}
	return SafeClear
}

// Event carries the verdict summary delivered with a signal.
type Event struct {
	Signal         Signal
	ScientificName string
	CommonName     string
	Confidence     float64
	Source         string
}

// Notifier delivers a single alert event.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type noop struct{}

func (noop) Notify(context.Context, Event) error { return nil }

type multi []Notifier

func (m multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewNotifier builds the notifier set enabled by cfg. With nothing
// configured a noop notifier is returned.
func NewNotifier(cfg Config) Notifier {
	var set multi

	if topic := strings.TrimSpace(cfg.NtfyTopic); topic != "" {
		set = append(set, NewNtfy(topic, &http.Client{Timeout: cfg.TimeoutDuration()}))
	}
	if cfg.ToxicFile != "" || cfg.SafeFile != "" {
		set = append(set, NewAudio(cfg.Player, cfg.ToxicFile, cfg.SafeFile))
	}

	switch len(set) {
	case 0:
		return noop{}
	case 1:
		return set[0]
	default:
		return set
	}
}

// Dispatcher fires notifications without blocking the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	slots    *semaphore.Weighted
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher bounding each delivery by timeout and
// running at most maxInFlight deliveries at once.
func NewDispatcher(notifier Notifier, timeout time.Duration, maxInFlight int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		slots:    semaphore.NewWeighted(int64(max(maxInFlight, 1))),
		logger:   logger.With("system", "alerts"),
	}
}

// Dispatch delivers e in the background. Delivery is detached from ctx
// cancellation so a finished request does not abort its alert. When every
// delivery slot is busy the event is dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if !d.slots.TryAcquire(1) {
		d.logger.Warn("alert dropped", "signal", e.Signal, "reason", "deliveries saturated")
		return
	}

	detached := context.WithoutCancel(ctx)

	d.wg.Go(func() {
		defer d.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("alert panicked", "signal", e.Signal, "panic", r)
			}
		}()

		ctx := detached
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(detached, d.timeout)
			defer cancel()
		}

		if err := d.notifier.Notify(ctx, e); err != nil {
			d.logger.Warn("alert delivery failed", "signal", e.Signal, "error", err)
			return
		}
		d.logger.Debug("alert delivered", "signal", e.Signal)
	})
}

// Wait blocks until in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
