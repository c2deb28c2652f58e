// Package metrics counts what the stream reader sees on the wire.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moffa90/go-posnet/stream"
)

// Config configures the collector.
type Config struct {
	// Namespace prefixes every metric name (default: "posnet").
	Namespace string

	// ConstLabels are added to all metrics.
	ConstLabels prometheus.Labels

	// Registry receives the metrics and backs Handler.
	// Default: a new private registry
	Registry *prometheus.Registry
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		if registry != nil {
			c.Registry = registry
		}
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "posnet",
	}
}

// Collector turns reader results into Prometheus counters.
type Collector struct {
	registry *prometheus.Registry

	framesTotal    *prometheus.CounterVec
	discardsTotal  *prometheus.CounterVec
	discardedBytes prometheus.Counter
	cancelsTotal   prometheus.Counter
	decodeErrors   prometheus.Counter
}

// New registers the counters and returns the collector.
// It panics if the registry already holds metrics with the same names.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)
	return &Collector{
		registry: config.Registry,

		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "frames_total",
			Help:        "Frames received and decoded, by command",
			ConstLabels: config.ConstLabels,
		}, []string{"command"}),

		discardsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "discards_total",
			Help:        "Buffers dropped by the reader, by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		discardedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "discarded_bytes_total",
			Help:        "Bytes dropped by the reader",
			ConstLabels: config.ConstLabels,
		}),

		cancelsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "cancels_total",
			Help:        "SYN CAN sequences received from the peer",
			ConstLabels: config.ConstLabels,
		}),

		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "decode_errors_total",
			Help:        "Complete frames rejected by the codec",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe records one reader result and the error returned with it.
func (c *Collector) Observe(res stream.Result, err error) {
	for _, d := range res.Discards {
		c.discardsTotal.WithLabelValues(ReasonLabel(d.Reason)).Inc()
		c.discardedBytes.Add(float64(len(d.Data)))
	}

	if res.Frame != nil {
		c.framesTotal.WithLabelValues(res.Frame.Command().String()).Inc()
	}

	var decodeErr *stream.DecodeError
	switch {
	case errors.Is(err, stream.ErrCancelled):
		c.cancelsTotal.Inc()
	case errors.As(err, &decodeErr):
		c.decodeErrors.Inc()
	}
}

// Registry returns the registry holding the counters.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ReasonLabel returns the metric label of a discard reason.
func ReasonLabel(r stream.DiscardReason) string {
	switch r {
	case stream.ReasonRestart:
		return "restart"
	case stream.ReasonOverrun:
		return "overrun"
	case stream.ReasonCancel:
		return "cancel"
	case stream.ReasonDecode:
		return "decode"
	default:
		return "unknown"
	}
}
