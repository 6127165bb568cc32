package monitor

import (
	"context"

	"github.com/oshokin/tire-pressure-alarm/internal/domain/tpms"
)

// observedSensor forwards reads to sensor and reports each successful reading.
type observedSensor struct {
	// sensor is the wrapped pressure source.
	sensor tpms.PressureSensor
	// onReading receives every successful reading.
	onReading func(ctx context.Context, psi float64)
}

// PopNextPressurePSIValue reads from the wrapped sensor and reports the value.
func (s *observedSensor) PopNextPressurePSIValue(ctx context.Context) (float64, error) {
	psi, err := s.sensor.PopNextPressurePSIValue(ctx)
	if err != nil {
		return 0, err
	}

	s.onReading(ctx, psi)

	return psi, nil
}
