// Package sleep holds the stage inference and quality scoring core.
// Everything in this package is pure: no I/O, no clocks, no shared state.
package sleep

import "github.com/JoshuaPothen/SleepTrackerV2/internal"

// Thresholds are the calibration constants for stage inference.
// Approximations based on typical adult physiology — tune BreathingDeepMax
// and HeartRateDeepMax to match real-world readings from the device.
type Thresholds struct {
	BreathingDeepMax float64 // breaths/min
	HeartRateDeepMax float64 // BPM
}

func DefaultThresholds() Thresholds {
	return Thresholds{BreathingDeepMax: 14, HeartRateDeepMax: 70}
}

// Sample carries the raw sensor fields stage inference depends on.
// Nil means the sensor reported no value, which is not the same as zero.
type Sample struct {
	BreathingRate *float64
	HeartRate     *float64
	Presence      *bool
	MovementState *int
}

// SampleOf extracts the classification inputs from a stored reading.
func SampleOf(r internal.SensorReading) Sample {
	return Sample{
		BreathingRate: r.BreathingRate,
		HeartRate:     r.HeartRate,
		Presence:      r.Presence,
		MovementState: r.MovementState,
	}
}

// Classify infers a sleep stage from raw sensor values.
//
// Rule order matters: presence/movement is checked strictly before vitals.
// A still, present sample with missing vitals classifies as light, never
// deep — deep requires both vitals present and under threshold.
func Classify(s Sample, t Thresholds) internal.SleepStage {
	// No presence or active movement means awake, whatever the vitals say.
	if s.Presence == nil || !*s.Presence || (s.MovementState != nil && *s.MovementState == 1) {
		return internal.StageAwake
	}

	if s.BreathingRate != nil && s.HeartRate != nil &&
		*s.BreathingRate <= t.BreathingDeepMax &&
		*s.HeartRate <= t.HeartRateDeepMax {
		return internal.StageDeep
	}

	// Present and still, but vitals not in the deep range (or missing).
	return internal.StageLight
}
