package relay

// snapshot copies the subscriber sequence under the lock into a pooled
// buffer. The copy is decoupled from later Add/Remove calls.
func (d *Dispatcher[T]) snapshot() *[]Subscriber[T] {
	buf := d.snapshots.Get().(*[]Subscriber[T]) //nolint:errcheck // Pool always returns *[]Subscriber[T]

	d.mu.Lock()
	*buf = append((*buf)[:0], d.subscribers...)
	d.mu.Unlock()

	return buf
}

// release returns a snapshot buffer to the pool. Entries are cleared so the
// pool does not keep callbacks alive.
func (d *Dispatcher[T]) release(buf *[]Subscriber[T]) {
	clear(*buf)
	*buf = (*buf)[:0]
	d.snapshots.Put(buf)
}
