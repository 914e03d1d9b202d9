package metrics

import (
	"github.com/delaneyj/deps/deps"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "deps").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is where Register registers the collector.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "deps",
		Registry:  prometheus.DefaultRegisterer,
	}
}

type stat struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(s deps.Stats) float64
}

// Collector exports the counters of a ReactiveContext. Values are read from
// Stats on every scrape.
type Collector struct {
	rctx  *deps.ReactiveContext
	stats []stat
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(rctx *deps.ReactiveContext, opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return newCollector(rctx, config)
}

func newCollector(rctx *deps.ReactiveContext, config Config) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(config.Namespace, config.Subsystem, name),
			help, nil, config.ConstLabels,
		)
	}

	return &Collector{
		rctx: rctx,
		stats: []stat{
			{
				desc:  desc("runs_total", "Computations created and run for the first time"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.Runs) },
			},
			{
				desc:  desc("reruns_total", "Computations rerun by a flush"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.Reruns) },
			},
			{
				desc:  desc("invalidations_total", "Computations invalidated"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.Invalidations) },
			},
			{
				desc:  desc("stops_total", "Computations stopped"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.Stops) },
			},
			{
				desc:  desc("flushes_total", "Flushes started"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.Flushes) },
			},
			{
				desc:  desc("after_flush_calls_total", "After-flush callbacks run"),
				kind:  prometheus.CounterValue,
				value: func(s deps.Stats) float64 { return float64(s.AfterFlushCalls) },
			},
			{
				desc:  desc("pending_recomputes", "Computations waiting in the recompute queue"),
				kind:  prometheus.GaugeValue,
				value: func(s deps.Stats) float64 { return float64(s.PendingRecomputes) },
			},
			{
				desc:  desc("pending_after_flush", "Callbacks waiting in the after-flush queue"),
				kind:  prometheus.GaugeValue,
				value: func(s deps.Stats) float64 { return float64(s.PendingAfterFlush) },
			},
		},
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, s := range c.stats {
		ch <- s.desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.rctx.Stats()
	for _, s := range c.stats {
		ch <- prometheus.MustNewConstMetric(s.desc, s.kind, s.value(snapshot))
	}
}

// Register creates a collector for rctx and registers it on the configured
// registry.
func Register(rctx *deps.ReactiveContext, opts ...Option) (*Collector, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	c := newCollector(rctx, config)
	if err := config.Registry.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
