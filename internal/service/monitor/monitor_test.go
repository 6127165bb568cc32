package monitor

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/tire-pressure-alarm/internal/domain/tpms"
	"github.com/oshokin/tire-pressure-alarm/internal/logger"
	"github.com/oshokin/tire-pressure-alarm/internal/observability"
)

var errTestSensor = errors.New("test sensor failure")

// failingSensor reports a fixed error on every read.
type failingSensor struct{}

// PopNextPressurePSIValue always fails with errTestSensor.
func (failingSensor) PopNextPressurePSIValue(context.Context) (float64, error) {
	return 0, errTestSensor
}

// observedContext returns a context carrying a logger that records every entry.
func observedContext(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// TestMonitor_StopsAfterMaxChecks drives the ticker with a fake clock.
func TestMonitor_StopsAfterMaxChecks(t *testing.T) {
	t.Parallel()

	var (
		ctx, _  = observedContext(t)
		clock   = clockwork.NewFakeClock()
		sensor  = tpms.NewScriptedPressureSensor(19, 25, 19)
		metrics = observability.NewMetrics(nil)
		m       = New(sensor, WithClock(clock), WithInterval(time.Second), WithMetrics(metrics))
	)

	type result struct {
		summary Summary
		err     error
	}

	done := make(chan result, 1)

	go func() {
		summary, err := m.Poll(ctx, 2)
		done <- result{summary, err}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(time.Second)

	var got result
	select {
	case got = <-done:
	case <-waitCtx.Done():
		t.Fatal("monitor did not stop")
	}

	require.NoError(t, got.err)
	require.Equal(t, Summary{Checks: 2, OutOfRange: 1, LastReadingPSI: 25, AlarmOn: true}, got.summary)
	require.Equal(t, 1, sensor.Remaining())
	require.InDelta(t, 2.0, testutil.ToFloat64(metrics.Checks), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(metrics.AlarmOn), 0)
}

// TestMonitor_LatchedAlarmWarnsOnce replays an out-of-range reading followed by safe ones.
func TestMonitor_LatchedAlarmWarnsOnce(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, logs := observedContext(t)
		m := New(tpms.NewScriptedPressureSensor(25, 19, 17, 21), WithInterval(time.Second))

		summary, err := m.Poll(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, 4, summary.Checks)
		require.Equal(t, 1, summary.OutOfRange)
		require.True(t, summary.AlarmOn)
		require.True(t, m.Alarm().IsAlarmOn())

		warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
		require.Len(t, warnings, 1)
		require.InDelta(t, 25.0, warnings[0].ContextMap()["psi"], 0)
		require.Equal(t, 4, logs.FilterMessage("Pressure reading").Len())
	})
}

// TestMonitor_SafeReadingsKeepAlarmOff checks readings within and on the thresholds.
func TestMonitor_SafeReadingsKeepAlarmOff(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, logs := observedContext(t)
		m := New(tpms.NewScriptedPressureSensor(17, 19, 21))

		summary, err := m.Poll(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, 3, summary.Checks)
		require.Zero(t, summary.OutOfRange)
		require.False(t, summary.AlarmOn)
		require.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})
}

// TestMonitor_SensorErrorStops ensures sensor failures end polling with an error.
func TestMonitor_SensorErrorStops(t *testing.T) {
	t.Parallel()

	ctx, _ := observedContext(t)
	metrics := observability.NewMetrics(nil)
	m := New(failingSensor{}, WithMetrics(metrics))

	summary, err := m.Poll(ctx, 0)
	require.ErrorIs(t, err, errTestSensor)
	require.Zero(t, summary.Checks)
	require.False(t, summary.AlarmOn)
	require.InDelta(t, 1.0, testutil.ToFloat64(metrics.SensorErrors), 0)
}

// TestMonitor_ContextCanceled polls a random sensor until the deadline passes.
func TestMonitor_ContextCanceled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		base, _ := observedContext(t)

		ctx, cancel := context.WithTimeout(base, 10*time.Second+time.Millisecond)
		defer cancel()

		m := New(tpms.NewRandomPressureSensor(tpms.WithSeed(1)), WithInterval(time.Second))

		summary, err := m.Poll(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, 11, summary.Checks)
		require.GreaterOrEqual(t, summary.LastReadingPSI, 16.0)
		require.Less(t, summary.LastReadingPSI, 22.0)
	})
}

// TestMonitor_StopsAfterLastScriptedReading ensures no extra interval is spent once the script is done.
func TestMonitor_StopsAfterLastScriptedReading(t *testing.T) {
	t.Parallel()

	var (
		ctx, logs = observedContext(t)
		clock     = clockwork.NewFakeClock()
		sensor    = tpms.NewScriptedPressureSensor(19, 25)
		m         = New(sensor, WithClock(clock), WithInterval(time.Minute))
	)

	type result struct {
		summary Summary
		err     error
	}

	done := make(chan result, 1)

	go func() {
		summary, err := m.Poll(ctx, 0)
		done <- result{summary, err}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A single tick delivers the second and last reading.
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(time.Minute)

	var got result
	select {
	case got = <-done:
	case <-waitCtx.Done():
		t.Fatal("monitor waited for another tick after the last reading")
	}

	require.NoError(t, got.err)
	require.Equal(t, 2, got.summary.Checks)
	require.True(t, got.summary.AlarmOn)
	require.Equal(t, 1, logs.FilterMessage("Sensor has no more readings, stopping").Len())
}
