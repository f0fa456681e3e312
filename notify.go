package relay

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// outcome is the result of running one snapshot.
type outcome struct {
	invoked int
	panics  int
	err     error
}

// Notify invokes every subscriber registered at the time of the call, in
// insertion order, with arg.
//
// The sequence is copied under the lock and the lock is released before the
// first callback runs, so callbacks may Add, Remove or Notify on the same
// Dispatcher. Subscribers added during the call are not invoked by it;
// subscribers removed during the call may still be.
//
// Under FailFast the first callback error is returned unmodified and the
// rest of the snapshot is skipped. Under Isolate all errors are combined.
func (d *Dispatcher[T]) Notify(ctx context.Context, arg T) error {
	buf := d.snapshot()
	defer d.release(buf)

	return d.run(ctx, *buf, arg, false, d.recoverPanics)
}

// NotifyAsync snapshots the current sequence and submits the notification to
// the configured Executor. The returned Pending reports completion and the
// notification's error.
//
// The notification runs with a context detached from ctx's cancellation and
// always runs to completion once started. ctx only bounds submission to
// executors that can block, such as Bounded. Panics are always recovered and
// reported as *PanicError.
func (d *Dispatcher[T]) NotifyAsync(ctx context.Context, arg T) *Pending {
	p := newPending()
	buf := d.snapshot()
	runCtx := context.WithoutCancel(ctx)

	d.inflight.begin()
	task := func() {
		defer d.inflight.end()
		defer d.release(buf)
		p.finish(d.run(runCtx, *buf, arg, true, true))
	}

	if err := d.executor.Execute(ctx, task); err != nil {
		err = errors.Wrap(err, "relay: submit notification")
		d.logger.Error("async notification not started", "error", err, "subscribers", len(*buf))
		d.release(buf)
		p.finish(err)
		d.inflight.end()
	}
	return p
}

// run invokes subs in order and reports the outcome.
func (d *Dispatcher[T]) run(ctx context.Context, subs []Subscriber[T], arg T, async, recoverPanics bool) error {
	start := d.clock.Now()
	out := d.dispatch(ctx, subs, arg, recoverPanics)
	elapsed := d.clock.Since(start)

	d.notifications.Add(1)
	if out.err != nil {
		d.failures.Add(1)
	}

	d.observe(Report{
		Async:       async,
		Subscribers: len(subs),
		Invoked:     out.invoked,
		Panics:      out.panics,
		Elapsed:     elapsed,
		Err:         out.err,
	})
	return out.err
}

func (d *Dispatcher[T]) dispatch(ctx context.Context, subs []Subscriber[T], arg T, recoverPanics bool) outcome {
	var out outcome
	for _, sub := range subs {
		out.invoked++
		panicked, err := d.invoke(ctx, sub, arg, recoverPanics)
		if panicked {
			out.panics++
		}
		if err == nil {
			continue
		}
		if d.policy == FailFast {
			out.err = err
			return out
		}
		out.err = multierr.Append(out.err, err)
	}
	return out
}

// invoke calls one subscriber, converting a panic into *PanicError when
// recoverPanics is set.
func (d *Dispatcher[T]) invoke(ctx context.Context, sub Subscriber[T], arg T, recoverPanics bool) (panicked bool, err error) {
	if recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Warn("subscriber panicked", "id", sub.id, "panic", r)
				if d.panicHandler != nil {
					d.panicHandler(sub.id, r)
				}
				panicked, err = true, &PanicError{ID: sub.id, Value: r}
			}
		}()
	}
	return false, sub.Invoke(ctx, arg)
}
