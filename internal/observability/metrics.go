// Package observability holds the Prometheus metrics of the tire pressure monitor.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tpms"

// Metrics holds the counters and gauges updated by the monitor.
type Metrics struct {
	Checks          prometheus.Counter
	Readings        *prometheus.CounterVec // labels: range={in,out}
	SensorErrors    prometheus.Counter
	LastReadingPSI  prometheus.Gauge
	AlarmOn         prometheus.Gauge
	ReadingsHistory prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg.
// A nil registerer leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total alarm checks performed.",
		}),
		Readings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Pressure readings by position relative to the safe range.",
		}, []string{"range"}),
		SensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sensor_errors_total",
			Help:      "Total failed sensor reads.",
		}),
		LastReadingPSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_reading_psi",
			Help:      "Most recent pressure reading in PSI.",
		}),
		AlarmOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alarm_on",
			Help:      "1 once the alarm has latched, 0 before.",
		}),
		ReadingsHistory: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reading_psi",
			Help:      "Distribution of pressure readings in PSI.",
			Buckets:   []float64{16, 17, 18, 19, 20, 21, 22},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Checks,
			m.Readings,
			m.SensorErrors,
			m.LastReadingPSI,
			m.AlarmOn,
			m.ReadingsHistory,
		)
	}

	return m
}

// ObserveReading records a successful sensor read.
func (m *Metrics) ObserveReading(psi float64, outOfRange bool) {
	label := "in"
	if outOfRange {
		label = "out"
	}

	m.Readings.WithLabelValues(label).Inc()
	m.LastReadingPSI.Set(psi)
	m.ReadingsHistory.Observe(psi)
}

// ObserveCheck records a completed check and the resulting alarm state.
func (m *Metrics) ObserveCheck(alarmOn bool) {
	m.Checks.Inc()

	if alarmOn {
		m.AlarmOn.Set(1)
	} else {
		m.AlarmOn.Set(0)
	}
}
