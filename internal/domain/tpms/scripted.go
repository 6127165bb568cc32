package tpms

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrSensorExhausted is returned once a scripted sensor has replayed every reading.
var ErrSensorExhausted = errors.New("sensor has no more readings")

// ScriptedPressureSensor replays a fixed sequence of readings in order.
type ScriptedPressureSensor struct {
	// readings is the sequence to replay.
	readings []float64
	// next is the index of the reading returned by the following call.
	next int
	// mu protects next.
	mu sync.Mutex
}

// NewScriptedPressureSensor copies readings so later changes by the caller
// do not affect the script.
func NewScriptedPressureSensor(readings ...float64) *ScriptedPressureSensor {
	return &ScriptedPressureSensor{
		readings: slices.Clone(readings),
	}
}

// PopNextPressurePSIValue returns the next scripted reading or ErrSensorExhausted.
func (s *ScriptedPressureSensor) PopNextPressurePSIValue(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.readings) {
		return 0, ErrSensorExhausted
	}

	value := s.readings[s.next]
	s.next++

	return value, nil
}

// Remaining reports how many readings have not been replayed yet.
func (s *ScriptedPressureSensor) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.readings) - s.next
}
