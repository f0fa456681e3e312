package relay

import (
	"log/slog"

	"github.com/benbjohnson/clock"
)

// Option configures a Dispatcher.
type Option func(*config)

// PanicHandler is called when a callback panics and the panic is recovered.
// Receives the subscriber's identity and the recovered value.
type PanicHandler func(id ID, recovered any)

// config holds the settings shared by every Dispatcher type. Clone copies it.
type config struct {
	executor      Executor
	policy        Policy
	recoverPanics bool
	panicHandler  PanicHandler
	observers     []Observer
	logger        *slog.Logger
	clock         clock.Clock
}

func newConfig(opts ...Option) config {
	c := config{
		executor: Spawn(),
		policy:   FailFast,
		logger:   slog.New(slog.DiscardHandler),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithExecutor sets where NotifyAsync runs its notifications.
// Default is Spawn, one goroutine per call. A nil executor is ignored.
func WithExecutor(executor Executor) Option {
	return func(c *config) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// WithPolicy sets the error policy. Default is FailFast.
func WithPolicy(policy Policy) Option {
	return func(c *config) {
		c.policy = policy
	}
}

// WithPanicRecovery makes Notify recover callback panics and report them as
// *PanicError under the configured Policy. Without it, panics raised during
// Notify propagate to the caller.
func WithPanicRecovery() Option {
	return func(c *config) {
		c.recoverPanics = true
	}
}

// WithPanicHandler sets a callback invoked for every recovered panic.
// It implies WithPanicRecovery.
func WithPanicHandler(handler PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = handler
		if handler != nil {
			c.recoverPanics = true
		}
	}
}

// WithObserver adds an Observer that receives a Report after every
// notification. May be given more than once.
func WithObserver(observer Observer) Option {
	return func(c *config) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}

// WithLogger sets the structured logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used to time notifications.
// Tests pass a *clock.Mock.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}
