package relay

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// lastInstance numbers Dispatchers so that operations holding two locks
// always acquire them in the same order.
var lastInstance atomic.Uint64

// Dispatcher holds an ordered sequence of Subscribers and notifies them.
// It must be created with New and must not be copied; use Clone or CopyFrom.
type Dispatcher[T any] struct {
	mu          sync.Mutex
	subscribers []Subscriber[T]

	instance uint64
	config

	snapshots     sync.Pool
	inflight      tracker
	notifications atomic.Uint64
	failures      atomic.Uint64
}

// New creates an empty Dispatcher.
// Without options it uses the Spawn executor, the FailFast policy, lets
// panics propagate from Notify and logs nothing.
func New[T any](opts ...Option) *Dispatcher[T] {
	return newDispatcher[T](newConfig(opts...))
}

func newDispatcher[T any](cfg config) *Dispatcher[T] {
	d := &Dispatcher[T]{
		instance: lastInstance.Add(1),
		config:   cfg,
	}
	d.snapshots.New = func() any {
		buf := make([]Subscriber[T], 0, 8)
		return &buf
	}
	return d
}

// Add appends a copy of sub to the end of the sequence and returns its ID.
// Adding the same subscriber twice registers it twice.
func (d *Dispatcher[T]) Add(sub Subscriber[T]) ID {
	d.mu.Lock()
	d.subscribers = append(d.subscribers, sub)
	n := len(d.subscribers)
	d.mu.Unlock()

	d.logger.Debug("subscriber added", "id", sub.id, "subscribers", n)
	return sub.id
}

// AddFunc wraps callback in a new Subscriber and appends it.
func (d *Dispatcher[T]) AddFunc(callback Callback[T]) ID {
	return d.Add(NewSubscriber(callback))
}

// Remove removes the first entry equal to sub.
// Returns false if no entry matched.
func (d *Dispatcher[T]) Remove(sub Subscriber[T]) bool {
	return d.RemoveByID(sub.id)
}

// RemoveByID removes the first entry with the given identity.
// Returns false if no entry matched.
func (d *Dispatcher[T]) RemoveByID(id ID) bool {
	d.mu.Lock()
	i := slices.IndexFunc(d.subscribers, func(s Subscriber[T]) bool {
		return s.id == id
	})
	if i < 0 {
		d.mu.Unlock()
		return false
	}
	d.subscribers = slices.Delete(d.subscribers, i, i+1)
	n := len(d.subscribers)
	d.mu.Unlock()

	d.logger.Debug("subscriber removed", "id", id, "subscribers", n)
	return true
}

// Len returns the number of registered subscribers.
func (d *Dispatcher[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}

// Subscribers returns a copy of the sequence in insertion order.
func (d *Dispatcher[T]) Subscribers() []Subscriber[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.subscribers)
}

// Clone returns a new Dispatcher with the same options and a copy of the
// current sequence. Later changes to either do not affect the other.
func (d *Dispatcher[T]) Clone() *Dispatcher[T] {
	cfg := d.config
	cfg.observers = slices.Clone(d.observers)
	c := newDispatcher[T](cfg)

	d.mu.Lock()
	c.subscribers = slices.Clone(d.subscribers)
	d.mu.Unlock()

	return c
}

// CopyFrom replaces the sequence of d with a copy of the sequence of src.
// Options of d are kept. Both locks are held for the copy.
func (d *Dispatcher[T]) CopyFrom(src *Dispatcher[T]) {
	if src == nil || src == d {
		return
	}
	unlock := lockPair(d, src)
	d.subscribers = slices.Clone(src.subscribers)
	n := len(d.subscribers)
	unlock()

	d.logger.Debug("subscribers copied", "from", src.instance, "subscribers", n)
}

// Swap exchanges the sequences of d and other. Both locks are held.
func (d *Dispatcher[T]) Swap(other *Dispatcher[T]) {
	if other == nil || other == d {
		return
	}
	unlock := lockPair(d, other)
	d.subscribers, other.subscribers = other.subscribers, d.subscribers
	unlock()

	d.logger.Debug("subscribers swapped", "with", other.instance)
}

// lockPair locks a and b in ascending instance order and returns the
// matching unlock. a and b must differ.
func lockPair[T any](a, b *Dispatcher[T]) func() {
	first, second := a, b
	if second.instance < first.instance {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// Wait blocks until every asynchronous notification started on d has
// finished, or ctx ends.
func (d *Dispatcher[T]) Wait(ctx context.Context) error {
	return d.inflight.wait(ctx)
}

// Stats returns runtime metrics for the Dispatcher.
func (d *Dispatcher[T]) Stats() Stats {
	return Stats{
		Subscribers:   d.Len(),
		InFlight:      d.inflight.count(),
		Notifications: d.notifications.Load(),
		Failures:      d.failures.Load(),
	}
}
