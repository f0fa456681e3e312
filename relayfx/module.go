// Package relayfx provides relay Dispatchers to go.uber.org/fx applications.
package relayfx

import (
	"context"

	"github.com/zoobzio/relay"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module returns an fx module named name that provides a *relay.Dispatcher[T]
// built with opts. On stop the module waits for the Dispatcher's in-flight
// asynchronous notifications, bounded by the stop context.
func Module[T any](name string, opts ...relay.Option) fx.Option {
	return fx.Module(name,
		fx.Provide(func() *relay.Dispatcher[T] {
			return relay.New[T](opts...)
		}),
		fx.Invoke(registerLifecycle[T]),
	)
}

func registerLifecycle[T any](lc fx.Lifecycle, d *relay.Dispatcher[T]) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Wait(ctx)
		},
	})
}

// Logger routes fx's own event log to logger.
func Logger(logger *zap.Logger) fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger}
	})
}
