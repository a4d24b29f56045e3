package sleep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }
func intp(v int) *int        { return &v }

func TestClassifyAwakeOnAbsenceOrMovement(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		name string
		s    Sample
	}{
		{"presence absent", Sample{BreathingRate: f64(13), HeartRate: f64(58)}},
		{"presence false with deep-range vitals", Sample{BreathingRate: f64(13), HeartRate: f64(58), Presence: boolp(false)}},
		{"presence false with out-of-range vitals", Sample{BreathingRate: f64(99), HeartRate: f64(250), Presence: boolp(false)}},
		{"active movement overrides vitals", Sample{BreathingRate: f64(10), HeartRate: f64(55), Presence: boolp(true), MovementState: intp(1)}},
		{"active movement with no vitals", Sample{Presence: boolp(true), MovementState: intp(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, internal.StageAwake, Classify(tc.s, thresholds))
		})
	}
}

func TestClassifyDeep(t *testing.T) {
	thresholds := DefaultThresholds()

	assert.Equal(t, internal.StageDeep, Classify(Sample{
		BreathingRate: f64(13), HeartRate: f64(58), Presence: boolp(true), MovementState: intp(0),
	}, thresholds))

	// Thresholds are inclusive.
	assert.Equal(t, internal.StageDeep, Classify(Sample{
		BreathingRate: f64(14), HeartRate: f64(70), Presence: boolp(true), MovementState: intp(0),
	}, thresholds))

	// Nil movement state counts as still.
	assert.Equal(t, internal.StageDeep, Classify(Sample{
		BreathingRate: f64(12), HeartRate: f64(60), Presence: boolp(true),
	}, thresholds))
}

func TestClassifyLight(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		name string
		s    Sample
	}{
		{"vitals above deep range", Sample{BreathingRate: f64(20), HeartRate: f64(80), Presence: boolp(true), MovementState: intp(0)}},
		{"breathing above threshold", Sample{BreathingRate: f64(14.1), HeartRate: f64(60), Presence: boolp(true)}},
		{"heart rate above threshold", Sample{BreathingRate: f64(12), HeartRate: f64(71), Presence: boolp(true)}},
		{"missing breathing rate", Sample{HeartRate: f64(58), Presence: boolp(true)}},
		{"missing heart rate", Sample{BreathingRate: f64(13), Presence: boolp(true)}},
		{"no vitals at all", Sample{Presence: boolp(true), MovementState: intp(0)}},
	}

	// Present and still never yields deep without both vitals under threshold.
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, internal.StageLight, Classify(tc.s, thresholds))
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	tight := Thresholds{BreathingDeepMax: 10, HeartRateDeepMax: 50}

	s := Sample{BreathingRate: f64(13), HeartRate: f64(58), Presence: boolp(true)}
	assert.Equal(t, internal.StageDeep, Classify(s, DefaultThresholds()))
	assert.Equal(t, internal.StageLight, Classify(s, tight))
}

func TestClassifyNeverReturnsAbsent(t *testing.T) {
	// "absent" is a display concept for missing readings, not a stage.
	valid := map[internal.SleepStage]bool{
		internal.StageAwake: true,
		internal.StageLight: true,
		internal.StageDeep:  true,
	}

	samples := []Sample{
		{},
		{Presence: boolp(true)},
		{Presence: boolp(false)},
		{BreathingRate: f64(0), HeartRate: f64(0), Presence: boolp(true)},
		{BreathingRate: f64(40), HeartRate: f64(200), Presence: boolp(true), MovementState: intp(2)},
	}
	for _, s := range samples {
		assert.True(t, valid[Classify(s, DefaultThresholds())])
	}
}
