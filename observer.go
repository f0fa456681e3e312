package relay

// Observer receives a Report after each notification completes.
// ObserveNotify is called from the goroutine that ran the notification,
// outside the Dispatcher's lock, and must be safe for concurrent use.
type Observer interface {
	ObserveNotify(Report)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Report)

// ObserveNotify calls f(r).
func (f ObserverFunc) ObserveNotify(r Report) { f(r) }

// observe hands r to every configured observer.
func (c *config) observe(r Report) {
	for _, o := range c.observers {
		o.ObserveNotify(r)
	}
}
