// Package lifecycle owns application shutdown: it stops the camera monitor,
// runs cleanup hooks and terminates the process after a short delay.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"pixoonair/internal/logger"
)

// DefaultExitDelay is the pause between an exit request and process exit.
const DefaultExitDelay = time.Second

const (
	stateRunning int32 = iota
	stateShuttingDown
)

// Stopper is the monitor handle the coordinator flips on exit.
type Stopper interface {
	RequestStop() bool
}

// Hook is cleanup work run once on exit. ctx expires at the exit deadline.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// ShutdownCoordinator turns the first exit request into a stop of the
// monitor followed by a delayed exit. Later requests are ignored.
type ShutdownCoordinator struct {
	state     atomic.Int32
	stopper   Stopper
	exitDelay time.Duration
	exit      func(code int)
	log       *logger.Logger

	mu    sync.Mutex
	hooks []namedHook

	done chan struct{}
}

type Option func(*ShutdownCoordinator)

// WithExitDelay overrides DefaultExitDelay.
func WithExitDelay(d time.Duration) Option {
	return func(c *ShutdownCoordinator) {
		if d >= 0 {
			c.exitDelay = d
		}
	}
}

// WithExitFunc replaces os.Exit.
func WithExitFunc(fn func(code int)) Option {
	return func(c *ShutdownCoordinator) {
		if fn != nil {
			c.exit = fn
		}
	}
}

func NewShutdownCoordinator(stopper Stopper, log *logger.Logger, opts ...Option) *ShutdownCoordinator {
	if log == nil {
		log = logger.NewNop()
	}
	c := &ShutdownCoordinator{
		stopper:   stopper,
		exitDelay: DefaultExitDelay,
		exit:      os.Exit,
		log:       log,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnShutdown registers a cleanup hook. Hooks run in registration order.
func (c *ShutdownCoordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, namedHook{name: name, fn: fn})
}

// ShuttingDown reports whether an exit has been requested.
func (c *ShutdownCoordinator) ShuttingDown() bool {
	return c.state.Load() == stateShuttingDown
}

// Done is closed right before the exit func is called.
func (c *ShutdownCoordinator) Done() <-chan struct{} {
	return c.done
}

// RequestExit starts shutdown. It returns false if shutdown was already
// under way. The call does not block: hooks and the exit run in the
// background, and the exit happens after the delay whether or not the
// hooks have finished.
func (c *ShutdownCoordinator) RequestExit() bool {
	if !c.state.CompareAndSwap(stateRunning, stateShuttingDown) {
		c.log.Debugw("exit_request_ignored")
		return false
	}
	c.log.Infow("exit_requested", "exit_delay", c.exitDelay)

	if c.stopper != nil {
		c.stopper.RequestStop()
	}

	c.mu.Lock()
	hooks := append([]namedHook(nil), c.hooks...)
	c.mu.Unlock()

	go c.shutdown(hooks)
	return true
}

func (c *ShutdownCoordinator) shutdown(hooks []namedHook) {
	ctx, cancel := context.WithTimeout(context.Background(), c.exitDelay)
	defer cancel()

	hooksDone := make(chan struct{})
	go func() {
		defer close(hooksDone)
		for _, h := range hooks {
			if err := h.fn(ctx); err != nil {
				c.log.Errorw("shutdown_hook_failed", "hook", h.name, "err", err)
			}
		}
	}()

	<-ctx.Done()
	select {
	case <-hooksDone:
	default:
		c.log.Warnw("shutdown_hooks_unfinished")
	}

	c.log.Infow("exiting")
	close(c.done)
	c.exit(0)
}

// WatchSignals requests exit on SIGINT or SIGTERM until ctx is done.
func (c *ShutdownCoordinator) WatchSignals(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			c.log.Infow("signal_received", "signal", s.String())
			c.RequestExit()
		case <-ctx.Done():
		}
	}()
}
