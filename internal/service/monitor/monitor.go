package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/tire-pressure-alarm/internal/config"
	"github.com/oshokin/tire-pressure-alarm/internal/domain/tpms"
	"github.com/oshokin/tire-pressure-alarm/internal/logger"
	"github.com/oshokin/tire-pressure-alarm/internal/observability"
)

// Summary describes a finished polling run.
type Summary struct {
	// Checks is the number of completed alarm checks.
	Checks int
	// OutOfRange is the number of readings outside the safe range.
	OutOfRange int
	// LastReadingPSI is the most recent reading.
	LastReadingPSI float64
	// AlarmOn is the alarm flag when polling stopped.
	AlarmOn bool
}

// finiteSensor is implemented by sensors that know how many readings are left.
type finiteSensor interface {
	Remaining() int
}

// Monitor drives an Alarm from a ticker.
type Monitor struct {
	// sensor is the unwrapped pressure source.
	sensor tpms.PressureSensor
	// alarm reads through the observed sensor.
	alarm *tpms.Alarm
	// clock provides the ticker.
	clock clockwork.Clock
	// interval is the delay between checks.
	interval time.Duration
	// metrics is updated on every reading and check.
	metrics *observability.Metrics
	// summary accumulates the run statistics.
	summary Summary
	// latched is set once the alarm warning has been logged.
	latched bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the real clock, mostly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithInterval sets the polling interval. Non-positive values are ignored.
func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithMetrics sets the metrics to update.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Monitor) {
		if metrics != nil {
			m.metrics = metrics
		}
	}
}

// New creates a Monitor whose Alarm reads from sensor.
func New(sensor tpms.PressureSensor, opts ...Option) *Monitor {
	m := &Monitor{
		sensor:   sensor,
		clock:    clockwork.NewRealClock(),
		interval: config.DefaultPollInterval,
		metrics:  observability.NewMetrics(nil),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.alarm = tpms.NewAlarm(&observedSensor{
		sensor:    sensor,
		onReading: m.recordReading,
	})

	return m
}

// Alarm returns the monitored alarm.
func (m *Monitor) Alarm() *tpms.Alarm {
	return m.alarm
}

// Poll checks the alarm immediately and then on every tick until ctx is
// canceled, maxChecks checks have run (when positive), the sensor runs out
// of readings, or a check fails. A sensor reporting Remaining() == 0 stops
// polling right after its last reading instead of one interval later.
func (m *Monitor) Poll(ctx context.Context, maxChecks int) (Summary, error) {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		done, err := m.check(ctx, maxChecks)
		if err != nil {
			return m.summary, err
		}

		if done {
			return m.summary, nil
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, stopping")
			return m.summary, nil
		case <-ticker.Chan():
		}
	}
}

// check runs one alarm check and reports whether polling should stop.
func (m *Monitor) check(ctx context.Context, maxChecks int) (bool, error) {
	err := m.alarm.Check(ctx)

	switch {
	case err == nil:
	case errors.Is(err, tpms.ErrSensorExhausted):
		logger.Info(ctx, "Sensor has no more readings, stopping")
		return true, nil
	case ctx.Err() != nil:
		logger.Info(ctx, "Context canceled, stopping")
		return true, nil
	default:
		m.metrics.SensorErrors.Inc()
		return true, fmt.Errorf("check alarm: %w", err)
	}

	m.summary.Checks++
	m.summary.AlarmOn = m.alarm.IsAlarmOn()
	m.metrics.ObserveCheck(m.summary.AlarmOn)

	if m.summary.AlarmOn && !m.latched {
		m.latched = true

		logger.WarnKV(
			ctx,
			"Tire pressure alarm is on",
			"psi", m.summary.LastReadingPSI,
			"check", m.summary.Checks,
			"low_threshold", m.alarm.LowPressureThreshold(),
			"high_threshold", m.alarm.HighPressureThreshold(),
		)
	}

	if maxChecks > 0 && m.summary.Checks >= maxChecks {
		return true, nil
	}

	if finite, ok := m.sensor.(finiteSensor); ok && finite.Remaining() == 0 {
		logger.Info(ctx, "Sensor has no more readings, stopping")
		return true, nil
	}

	return false, nil
}

// recordReading is called by the observed sensor for every successful reading.
func (m *Monitor) recordReading(ctx context.Context, psi float64) {
	outOfRange := tpms.OutOfRange(psi)

	m.summary.LastReadingPSI = psi
	if outOfRange {
		m.summary.OutOfRange++
	}

	m.metrics.ObserveReading(psi, outOfRange)

	logger.DebugKV(ctx, "Pressure reading", "psi", psi, "out_of_range", outOfRange)
}
