package apptime

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes an engine's time base as prometheus metrics. Collection
// only touches the engine's lock-free query path, so scraping never contends
// with command operations.
type Collector struct {
	engine *Engine

	mode          *prometheus.Desc
	numerator     *prometheus.Desc
	denominator   *prometheus.Desc
	rate          *prometheus.Desc
	offsetSeconds *prometheus.Desc
}

// NewCollector creates a prometheus collector for e.
func NewCollector(e *Engine) *Collector {
	return &Collector{
		engine: e,
		mode: prometheus.NewDesc(
			"apptime_mode",
			"Current time mode (0=native, 1=stretched, 2=custom clock)",
			nil, nil,
		),
		numerator: prometheus.NewDesc(
			"apptime_stretching_numerator",
			"Numerator of the time stretching ratio",
			nil, nil,
		),
		denominator: prometheus.NewDesc(
			"apptime_stretching_denominator",
			"Denominator of the time stretching ratio",
			nil, nil,
		),
		rate: prometheus.NewDesc(
			"apptime_rate",
			"Application time seconds advanced per native second",
			nil, nil,
		),
		offsetSeconds: prometheus.NewDesc(
			"apptime_offset_seconds",
			"Application time minus native time, in seconds",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.mode
	ch <- c.numerator
	ch <- c.denominator
	ch <- c.rate
	ch <- c.offsetSeconds
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	e := c.engine

	native := e.clock.Now()
	offset := e.Now().Sub(native)
	num, den := e.Stretching()

	ch <- prometheus.MustNewConstMetric(c.mode, prometheus.GaugeValue, float64(e.Mode()))
	ch <- prometheus.MustNewConstMetric(c.numerator, prometheus.GaugeValue, float64(num))
	ch <- prometheus.MustNewConstMetric(c.denominator, prometheus.GaugeValue, float64(den))
	ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue, float64(num)/float64(den))
	ch <- prometheus.MustNewConstMetric(c.offsetSeconds, prometheus.GaugeValue, offset.Seconds())
}

var _ prometheus.Collector = (*Collector)(nil)

// RegisterMetrics registers a [Collector] for e in the default prometheus
// registry.
func RegisterMetrics(e *Engine) error {
	return prometheus.Register(NewCollector(e))
}
