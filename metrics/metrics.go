// Package metrics exports relay dispatcher activity to Prometheus.
//
// A Recorder is a relay.Observer: pass it to relay.WithObserver and register
// it with a prometheus.Registerer. A StatsCollector reads Dispatcher.Stats on
// every scrape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/relay"
)

const subsystem = "dispatcher"

// Recorder turns relay Reports into Prometheus metrics.
type Recorder struct {
	notifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	invoked       prometheus.Counter
	panics        prometheus.Counter
}

// NewRecorder creates a Recorder whose metrics carry a constant
// "dispatcher" label set to name.
func NewRecorder(namespace, name string) *Recorder {
	labels := prometheus.Labels{"dispatcher": name}
	return &Recorder{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "notifications_total",
			Help:        "Completed notifications by mode and outcome.",
			ConstLabels: labels,
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Time spent invoking subscribers per notification.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
		invoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "invocations_total",
			Help:        "Subscriber callbacks invoked.",
			ConstLabels: labels,
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "panics_total",
			Help:        "Recovered subscriber panics.",
			ConstLabels: labels,
		}),
	}
}

// Collectors returns every collector owned by the Recorder.
func (r *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.notifications, r.duration, r.invoked, r.panics}
}

// Register registers all collectors with reg.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range r.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveNotify implements relay.Observer.
func (r *Recorder) ObserveNotify(rep relay.Report) {
	mode := "sync"
	if rep.Async {
		mode = "async"
	}
	outcome := "ok"
	if rep.Err != nil {
		outcome = "error"
	}

	r.notifications.WithLabelValues(mode, outcome).Inc()
	r.duration.WithLabelValues(mode).Observe(rep.Elapsed.Seconds())
	r.invoked.Add(float64(rep.Invoked))
	r.panics.Add(float64(rep.Panics))
}

// StatsSource is implemented by every relay.Dispatcher.
type StatsSource interface {
	Stats() relay.Stats
}

// StatsCollector exposes a Dispatcher's Stats as gauges.
type StatsCollector struct {
	source      StatsSource
	subscribers *prometheus.Desc
	inFlight    *prometheus.Desc
}

// NewStatsCollector creates a collector reading source on every scrape.
func NewStatsCollector(namespace, name string, source StatsSource) *StatsCollector {
	labels := prometheus.Labels{"dispatcher": name}
	return &StatsCollector{
		source: source,
		subscribers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "subscribers"),
			"Registered subscribers.",
			nil, labels,
		),
		inFlight: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "async_in_flight"),
			"Asynchronous notifications submitted but not finished.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.subscribers
	ch <- c.inFlight
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(stats.Subscribers))
	ch <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, float64(stats.InFlight))
}

var (
	_ relay.Observer       = (*Recorder)(nil)
	_ prometheus.Collector = (*StatsCollector)(nil)
)
