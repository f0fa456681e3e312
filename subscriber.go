package relay

import (
	"context"
	"sync/atomic"
)

// lastID is the process-wide identity counter shared by every Subscriber
// type. The zero value is ready for use; the first ID handed out is 1.
var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Subscriber wraps a Callback with a unique identity.
// Subscribers are plain values: copies keep the identity of the original and
// compare equal to it. The zero Subscriber has NoID and no callback.
type Subscriber[T any] struct {
	id       ID
	callback Callback[T]
}

// NewSubscriber wraps callback with a fresh identity, strictly greater than
// every identity assigned before it in this process.
// A nil callback is allowed; invoking the result does nothing.
func NewSubscriber[T any](callback Callback[T]) Subscriber[T] {
	return Subscriber[T]{
		id:       nextID(),
		callback: callback,
	}
}

// ID returns the subscriber's identity.
func (s Subscriber[T]) ID() ID { return s.id }

// Valid reports whether the subscriber was created by NewSubscriber.
func (s Subscriber[T]) Valid() bool { return s.id != NoID }

// Equal reports whether s and other share an identity.
// Callbacks are not compared.
func (s Subscriber[T]) Equal(other Subscriber[T]) bool {
	return s.id == other.id
}

// Invoke calls the wrapped callback with arg.
// Without a callback it does nothing and returns nil. Errors and panics from
// the callback reach the caller unmodified.
func (s Subscriber[T]) Invoke(ctx context.Context, arg T) error {
	if s.callback == nil {
		return nil
	}
	return s.callback(ctx, arg)
}
