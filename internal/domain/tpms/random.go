package tpms

import (
	"context"
	"math/rand/v2"
	"sync"
)

const (
	// RandomSensorOffset is the lowest value the random sensor can report.
	RandomSensorOffset = 16.0
	// randomSensorSpread scales the product of two uniform samples.
	randomSensorSpread = 6.0
)

// RandomPressureSensor reports offset + 6 * u1 * u2, where u1 and u2 are
// independent uniform samples in [0, 1). Readings lie in [16, 22) and lean
// towards the low end.
type RandomPressureSensor struct {
	// offset is added to every sampled value.
	offset float64
	// rng is the random source; it is not safe for concurrent use on its own.
	rng *rand.Rand
	// mu serializes access to rng.
	mu sync.Mutex
}

// RandomOption configures a RandomPressureSensor.
type RandomOption func(*RandomPressureSensor)

// WithSeed makes the sensor reproducible by seeding a PCG generator.
func WithSeed(seed uint64) RandomOption {
	return func(s *RandomPressureSensor) {
		s.rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // Not used for security.
	}
}

// WithRand injects a caller-owned generator. A nil generator is ignored.
func WithRand(rng *rand.Rand) RandomOption {
	return func(s *RandomPressureSensor) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewRandomPressureSensor creates a sensor seeded from runtime entropy unless
// an option supplies a generator.
func NewRandomPressureSensor(opts ...RandomOption) *RandomPressureSensor {
	s := &RandomPressureSensor{
		offset: RandomSensorOffset,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // Not used for security.
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PopNextPressurePSIValue samples the next reading. It never fails.
func (s *RandomPressureSensor) PopNextPressurePSIValue(context.Context) (float64, error) {
	return s.offset + s.samplePressure(), nil
}

func (s *RandomPressureSensor) samplePressure() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return randomSensorSpread * s.rng.Float64() * s.rng.Float64()
}
