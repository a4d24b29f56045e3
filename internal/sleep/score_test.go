package sleep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

func stages(deep, light, awake int) []internal.SleepStage {
	out := make([]internal.SleepStage, 0, deep+light+awake)
	for i := 0; i < deep; i++ {
		out = append(out, internal.StageDeep)
	}
	for i := 0; i < light; i++ {
		out = append(out, internal.StageLight)
	}
	for i := 0; i < awake; i++ {
		out = append(out, internal.StageAwake)
	}
	return out
}

func TestScoreOrZeroConcrete(t *testing.T) {
	// 5/10*10 + 3/10*5 - 2/10*3 = 5 + 1.5 - 0.6 = 5.9
	assert.Equal(t, 5.9, ScoreOrZero(stages(5, 3, 2)))
}

func TestScoreOrZeroEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, ScoreOrZero(nil))
	assert.Equal(t, 0.0, ScoreOrZero([]internal.SleepStage{}))
}

func TestScoreOrAbsentEmptyInput(t *testing.T) {
	assert.Nil(t, ScoreOrAbsent(internal.StageCounts{}, 0))
}

func TestScoreOrAbsentConcrete(t *testing.T) {
	score := ScoreOrAbsent(internal.StageCounts{Deep: 5, Light: 3, Awake: 2}, 10)
	if assert.NotNil(t, score) {
		assert.Equal(t, 5.9, *score)
	}
}

func TestScoreBounds(t *testing.T) {
	// All awake: raw score is -3, the floor clamp binds.
	assert.Equal(t, 0.0, ScoreOrZero(stages(0, 0, 12)))

	// All deep hits the ceiling exactly.
	assert.Equal(t, 10.0, ScoreOrZero(stages(12, 0, 0)))

	// Any mix stays within [0,10].
	for deep := 0; deep <= 5; deep++ {
		for light := 0; light <= 5; light++ {
			for awake := 0; awake <= 5; awake++ {
				if deep+light+awake == 0 {
					continue
				}
				score := ScoreOrZero(stages(deep, light, awake))
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 10.0)
			}
		}
	}
}

func TestScoreRoundsToOneDecimal(t *testing.T) {
	// 1/3*10 + 1/3*5 - 1/3*3 = 4.0
	assert.Equal(t, 4.0, ScoreOrZero(stages(1, 1, 1)))
	// 2/3*10 + 1/3*5 = 8.333... -> 8.3
	assert.Equal(t, 8.3, ScoreOrZero(stages(2, 1, 0)))
}

func TestCountStages(t *testing.T) {
	c := CountStages(stages(2, 3, 4))
	assert.Equal(t, internal.StageCounts{Deep: 2, Light: 3, Awake: 4}, c)
}

func TestAverage(t *testing.T) {
	assert.Nil(t, Average(nil))
	assert.Nil(t, Average([]float64{}))

	avg := Average([]float64{60, 61})
	if assert.NotNil(t, avg) {
		assert.Equal(t, 60.5, *avg)
	}

	avg = Average([]float64{10, 10, 11})
	if assert.NotNil(t, avg) {
		assert.Equal(t, 10.3, *avg)
	}
}
