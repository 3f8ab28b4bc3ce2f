package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	Namespace = "dwsink"
)

type Metrics struct {
	checkCounter          *prometheus.CounterVec
	checkDurationHist     *prometheus.HistogramVec
	checksInflightGauge   *prometheus.GaugeVec
	recordsWrittenCounter *prometheus.CounterVec
	writeErrorCounter     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := Metrics{}
	m.checkCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "check_total",
			Help:      "number of connection checks by result",
		}, []string{"destination", "status"})
	m.checkDurationHist = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "check_duration_seconds",
			Help:      "duration of connection checks",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"destination"})
	m.checksInflightGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "checks_inflight",
			Help:      "connection checks currently running",
		}, []string{"destination"})
	m.recordsWrittenCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_written_total",
			Help:      "records inserted into raw tables",
		}, []string{"stream"})
	m.writeErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "write_error_total",
			Help:      "failed inserts into raw tables",
		}, []string{"stream"})
	return &m
}

// ObserveCheck records the result of one connection check.
func (m *Metrics) ObserveCheck(destination, status string, elapsed time.Duration) {
	AddCounter(m.checkCounter, 1, destination, status)
	m.checkDurationHist.WithLabelValues(destination).Observe(elapsed.Seconds())
}

func (m *Metrics) CheckStarted(destination string) {
	AddGauge(m.checksInflightGauge, 1, destination)
}

func (m *Metrics) CheckFinished(destination string) {
	SubGauge(m.checksInflightGauge, 1, destination)
}

func (m *Metrics) AddRecordsWritten(stream string, n int) {
	AddCounter(m.recordsWrittenCounter, float64(n), stream)
}

func (m *Metrics) AddWriteError(stream string) {
	AddCounter(m.writeErrorCounter, 1, stream)
}

func (m *Metrics) CheckCount(destination, status string) float64 {
	return ReadCounter(m.checkCounter, destination, status)
}

func (m *Metrics) ChecksInflight(destination string) float64 {
	return ReadGauge(m.checksInflightGauge, destination)
}

func (m *Metrics) RecordsWritten(stream string) float64 {
	return ReadCounter(m.recordsWrittenCounter, stream)
}

func (m *Metrics) WriteErrors(stream string) float64 {
	return ReadCounter(m.writeErrorCounter, stream)
}

func (m *Metrics) RegisterTo(registry prometheus.Registerer) {
	registry.MustRegister(m.checkCounter)
	registry.MustRegister(m.checkDurationHist)
	registry.MustRegister(m.checksInflightGauge)
	registry.MustRegister(m.recordsWrittenCounter)
	registry.MustRegister(m.writeErrorCounter)
}

func (m *Metrics) UnregisterFrom(registry prometheus.Registerer) {
	registry.Unregister(m.checkCounter)
	registry.Unregister(m.checkDurationHist)
	registry.Unregister(m.checksInflightGauge)
	registry.Unregister(m.recordsWrittenCounter)
	registry.Unregister(m.writeErrorCounter)
}

// ReadCounter reports the current value of the counter for the given label values.
func ReadCounter(counterVec *prometheus.CounterVec, lvs ...string) float64 {
	if counterVec == nil {
		return math.NaN()
	}
	counter, err := counterVec.GetMetricWithLabelValues(lvs...)
	if err != nil {
		return math.NaN()
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Counter.GetValue()
}

// AddCounter adds v to the counter for the given label values.
func AddCounter(counterVec *prometheus.CounterVec, v float64, lvs ...string) {
	if counterVec == nil {
		return
	}
	counterVec.WithLabelValues(lvs...).Add(v)
}

// ReadGauge reports the current value of the gauge for the given label values.
func ReadGauge(gaugeVec *prometheus.GaugeVec, lvs ...string) float64 {
	if gaugeVec == nil {
		return math.NaN()
	}
	gauge, err := gaugeVec.GetMetricWithLabelValues(lvs...)
	if err != nil {
		return math.NaN()
	}
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Gauge.GetValue()
}

// AddGauge adds v to the gauge for the given label values.
func AddGauge(gaugeVec *prometheus.GaugeVec, v float64, lvs ...string) {
	if gaugeVec == nil {
		return
	}
	gaugeVec.WithLabelValues(lvs...).Add(v)
}

// SubGauge subtracts v from the gauge for the given label values.
func SubGauge(gaugeVec *prometheus.GaugeVec, v float64, lvs ...string) {
	if gaugeVec == nil {
		return
	}
	gaugeVec.WithLabelValues(lvs...).Sub(v)
}
