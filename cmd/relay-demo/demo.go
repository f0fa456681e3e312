package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/relay"
	"github.com/zoobzio/relay/metrics"
	"github.com/zoobzio/relay/relayfx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// printer produces notifications.
type printer struct {
	out   io.Writer
	async bool
	event *relay.Dispatcher[int]
}

func (p *printer) Print(ctx context.Context, value int) error {
	fmt.Fprintln(p.out, "printer is printing")
	if p.async {
		return p.event.NotifyAsync(ctx, value).Wait(ctx)
	}
	return p.event.Notify(ctx, value)
}

// tracker is a subscriber whose callback closes over its own state.
type tracker struct {
	out io.Writer
	val int
}

func (t *tracker) callMeIfImAlive(n int) {
	fmt.Fprintf(t.out, "tracker is alive: %d %d\n", n, t.val)
}

func runDemo(ctx context.Context, out io.Writer, cfg Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder("relay", "printer")
	if err := recorder.Register(reg); err != nil {
		return errors.Wrap(err, "registering metrics")
	}

	fxLogger := zap.NewNop()
	if cfg.FxLog {
		var err error
		if fxLogger, err = zap.NewDevelopment(); err != nil {
			return errors.Wrap(err, "creating fx logger")
		}
	}

	var event *relay.Dispatcher[int]
	app := fx.New(
		relayfx.Module[int]("printer", append(cfg.options(logger), relay.WithObserver(recorder))...),
		fx.Populate(&event),
		relayfx.Logger(fxLogger),
	)
	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "starting")
	}
	if err := reg.Register(metrics.NewStatsCollector("relay", "printer", event)); err != nil {
		return errors.Wrap(err, "registering stats")
	}

	p := &printer{out: out, async: cfg.Async, event: event}
	t := &tracker{out: out, val: 66}

	sub := event.Subscribe(relay.Func(t.callMeIfImAlive))
	event.AddFunc(relay.Func(func(n int) {
		fmt.Fprintf(out, "called when it prints: %d\n", n)
	}))

	if err := p.Print(ctx, cfg.Value); err != nil {
		return errors.Wrap(err, "first print")
	}
	sub.Close()
	if err := p.Print(ctx, cfg.Value); err != nil {
		return errors.Wrap(err, "second print")
	}

	if err := app.Stop(ctx); err != nil {
		return errors.Wrap(err, "stopping")
	}

	stats := event.Stats()
	fmt.Fprintf(out, "subscribers=%d notifications=%d failures=%d\n",
		stats.Subscribers, stats.Notifications, stats.Failures)

	if cfg.Metrics {
		families, err := reg.Gather()
		if err != nil {
			return errors.Wrap(err, "gathering metrics")
		}
		for _, f := range families {
			fmt.Fprintf(out, "metric %s series=%d\n", f.GetName(), len(f.GetMetric()))
		}
	}
	return nil
}
