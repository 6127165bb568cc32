package tpms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScriptedPressureSensor_Replay checks readings are replayed in order and then exhausted.
func TestScriptedPressureSensor_Replay(t *testing.T) {
	t.Parallel()

	readings := []float64{19, 25}
	sensor := NewScriptedPressureSensor(readings...)

	// Caller changes must not leak into the script.
	readings[0] = 0

	v, err := sensor.PopNextPressurePSIValue(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 19.0, v, 0)

	v, err = sensor.PopNextPressurePSIValue(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 25.0, v, 0)

	_, err = sensor.PopNextPressurePSIValue(context.Background())
	require.ErrorIs(t, err, ErrSensorExhausted)
	require.Zero(t, sensor.Remaining())
}

// TestScriptedPressureSensor_Canceled ensures a canceled context does not consume a reading.
func TestScriptedPressureSensor_Canceled(t *testing.T) {
	t.Parallel()

	sensor := NewScriptedPressureSensor(19)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sensor.PopNextPressurePSIValue(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, sensor.Remaining())
}

// TestFixedPressureSensor returns the same value on every call.
func TestFixedPressureSensor(t *testing.T) {
	t.Parallel()

	sensor := FixedPressureSensor(22)

	for range 3 {
		v, err := sensor.PopNextPressurePSIValue(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 22.0, v, 0)
	}
}
