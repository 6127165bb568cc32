package tpms

import (
	"context"
	"fmt"
	"sync"
)

const (
	// LowPressureThreshold is the lowest safe reading in PSI.
	LowPressureThreshold = 17.0
	// HighPressureThreshold is the highest safe reading in PSI.
	HighPressureThreshold = 21.0
)

// OutOfRange reports whether psi lies strictly below the low threshold or
// strictly above the high threshold. Readings equal to a threshold are safe.
func OutOfRange(psi float64) bool {
	return psi < LowPressureThreshold || psi > HighPressureThreshold
}

// Alarm raises a latched flag when a reading leaves the safe range.
// Once on, the flag stays on for the lifetime of the Alarm.
type Alarm struct {
	// lowPressureThreshold is the lower bound of the safe range.
	lowPressureThreshold float64
	// highPressureThreshold is the upper bound of the safe range.
	highPressureThreshold float64
	// sensor is shared with the caller; the Alarm only reads from it.
	sensor PressureSensor
	// alarmOn is the latched alarm flag.
	alarmOn bool
	// mu serializes checks and guards alarmOn.
	mu sync.Mutex
}

// NewAlarm creates an Alarm in the safe state reading from sensor.
func NewAlarm(sensor PressureSensor) *Alarm {
	return &Alarm{
		lowPressureThreshold:  LowPressureThreshold,
		highPressureThreshold: HighPressureThreshold,
		sensor:                sensor,
	}
}

// Check pops exactly one reading and turns the alarm on if it is out of range.
// An in-range reading never clears the alarm. Sensor failures are returned
// and leave the alarm unchanged.
func (a *Alarm) Check(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	psi, err := a.sensor.PopNextPressurePSIValue(ctx)
	if err != nil {
		return fmt.Errorf("read pressure: %w", err)
	}

	if psi < a.lowPressureThreshold || psi > a.highPressureThreshold {
		a.alarmOn = true
	}

	return nil
}

// IsAlarmOn reports the latched alarm flag.
func (a *Alarm) IsAlarmOn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.alarmOn
}

// LowPressureThreshold returns the lower bound of the safe range.
func (a *Alarm) LowPressureThreshold() float64 {
	return a.lowPressureThreshold
}

// HighPressureThreshold returns the upper bound of the safe range.
func (a *Alarm) HighPressureThreshold() float64 {
	return a.highPressureThreshold
}
