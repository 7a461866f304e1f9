// Package lifecycle coordinates startup and shutdown across the systems of a
// single process and derives the process readiness reported by /readyz.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, gates readiness on them and
// on any registered checkers, and drains shutdown hooks when cancelled.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	started  atomic.Bool
	stopping atomic.Bool

	mu       sync.RWMutex
	checkers []ReadinessChecker
}

// New creates a Coordinator whose context is cancelled by Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in its own goroutine; WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn in its own goroutine; Shutdown waits for it. Hooks
// block on <-Context().Done() before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// RequireReady adds a subsystem that must report ready before the
// coordinator does.
func (c *Coordinator) RequireReady(checker ReadinessChecker) {
	c.mu.Lock()
	c.checkers = append(c.checkers, checker)
	c.mu.Unlock()
}

// Ready reports true once startup hooks have finished, while no shutdown is
// in progress, and only while every required subsystem is ready.
func (c *Coordinator) Ready() bool {
	if !c.started.Load() || c.stopping.Load() {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, checker := range c.checkers {
		if !checker.Ready() {
			return false
		}
	}
	return true
}

// WaitForStartup blocks until every startup hook has returned.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.started.Store(true)
}

// Shutdown marks the process not ready, cancels the context, and waits up to
// timeout for shutdown hooks to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.stopping.Store(true)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
