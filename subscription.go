package relay

import "sync"

// Subscription is an active registration created by Subscribe.
// Call Close to unregister it.
type Subscription[T any] struct {
	subscriber Subscriber[T]
	dispatcher *Dispatcher[T]
	closeOnce  sync.Once
	removed    bool
}

// Subscribe registers callback and returns a handle for removing it.
func (d *Dispatcher[T]) Subscribe(callback Callback[T]) *Subscription[T] {
	sub := NewSubscriber(callback)
	d.Add(sub)
	return &Subscription[T]{
		subscriber: sub,
		dispatcher: d,
	}
}

// ID returns the identity of the registered subscriber.
func (s *Subscription[T]) ID() ID { return s.subscriber.id }

// Subscriber returns the registered subscriber.
func (s *Subscription[T]) Subscriber() Subscriber[T] { return s.subscriber }

// Close removes the subscriber from its Dispatcher. Only the first call has
// any effect; it reports whether an entry was removed, later calls report
// the same result.
func (s *Subscription[T]) Close() bool {
	s.closeOnce.Do(func() {
		s.removed = s.dispatcher.Remove(s.subscriber)
	})
	return s.removed
}
