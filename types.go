// Package relay provides a typed, thread-safe, in-process publish/subscribe primitive.
//
// A Dispatcher holds an ordered sequence of Subscribers and notifies all of
// them with one argument of type T. Registration and removal may happen from
// any goroutine at any time, including from inside a running callback.
// Every notification works on a snapshot of the sequence taken under the
// Dispatcher's lock; the lock is never held while callbacks run.
//
// Quick example:
//
//	d := relay.New[int]()
//
//	id := d.AddFunc(func(_ context.Context, n int) error {
//	    total += n
//	    return nil
//	})
//
//	_ = d.Notify(ctx, 5)          // synchronous, insertion order
//	p := d.NotifyAsync(ctx, 7)     // runs on the configured Executor
//	_ = p.Wait(ctx)
//
//	d.RemoveByID(id)
//
// Callbacks that need several arguments take a struct.
package relay

import (
	"context"
	"time"
)

// ID identifies a Subscriber. IDs are assigned from a single process-wide
// counter and are never reused.
type ID uint64

// NoID is the identity of the zero Subscriber. It is never assigned.
const NoID ID = 0

// Callback is the function wrapped by a Subscriber.
// The context is the one passed to Notify or NotifyAsync; it carries
// request-scoped values and is never used to interrupt a notification.
type Callback[T any] func(ctx context.Context, arg T) error

// Func adapts a plain function that cannot fail into a Callback.
func Func[T any](fn func(T)) Callback[T] {
	return func(_ context.Context, arg T) error {
		fn(arg)
		return nil
	}
}

// Policy decides what a notification does after a callback fails.
type Policy int

const (
	// FailFast stops the notification at the first failing callback and
	// returns its error unmodified. Remaining subscribers in the snapshot
	// are not invoked.
	FailFast Policy = iota

	// Isolate invokes every subscriber in the snapshot regardless of
	// failures and returns all errors combined with multierr.
	Isolate
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "failfast"
	case Isolate:
		return "isolate"
	default:
		return "unknown"
	}
}

// Stats provides runtime metrics for a Dispatcher.
type Stats struct {
	// Subscribers is the current length of the subscriber sequence.
	Subscribers int

	// InFlight is the number of asynchronous notifications submitted but
	// not yet finished.
	InFlight int

	// Notifications counts completed notifications, sync and async.
	Notifications uint64

	// Failures counts completed notifications that returned an error.
	Failures uint64
}

// Report describes one completed notification. It is handed to every
// Observer after the last callback returns.
type Report struct {
	// Async is true for notifications started with NotifyAsync.
	Async bool

	// Subscribers is the size of the snapshot the notification ran on.
	Subscribers int

	// Invoked is how many subscribers were actually called. It is smaller
	// than Subscribers when FailFast stopped early.
	Invoked int

	// Panics counts recovered callback panics.
	Panics int

	// Elapsed is the time spent invoking callbacks.
	Elapsed time.Duration

	// Err is the error returned to the caller, or nil.
	Err error
}
