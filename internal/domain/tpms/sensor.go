package tpms

import "context"

// PressureSensor produces pressure readings in PSI on demand.
type PressureSensor interface {
	// PopNextPressurePSIValue returns the next reading and advances the sensor.
	PopNextPressurePSIValue(ctx context.Context) (float64, error)
}

// FixedPressureSensor always reports the same reading.
type FixedPressureSensor float64

// PopNextPressurePSIValue returns the fixed reading.
func (s FixedPressureSensor) PopNextPressurePSIValue(context.Context) (float64, error) {
	return float64(s), nil
}
