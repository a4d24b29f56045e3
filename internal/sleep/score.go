package sleep

import (
	"math"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// Stage weights for the linear quality model: deep sleep is most valuable,
// light counts half, awake time penalises the score.
const (
	deepWeight   = 10
	lightWeight  = 5
	awakePenalty = 3
)

func CountStages(stages []internal.SleepStage) internal.StageCounts {
	var c internal.StageCounts
	for _, s := range stages {
		switch s {
		case internal.StageAwake:
			c.Awake++
		case internal.StageLight:
			c.Light++
		case internal.StageDeep:
			c.Deep++
		}
	}
	return c
}

func rawScore(c internal.StageCounts, total int) float64 {
	t := float64(total)
	return float64(c.Deep)/t*deepWeight + float64(c.Light)/t*lightWeight - float64(c.Awake)/t*awakePenalty
}

// ScoreOrZero computes the quality score over a set of classified stages,
// rounded to one decimal and clamped to [0,10]. Empty input scores 0.
//
// This is the convention the day rollup uses. The dashboard's overnight
// card uses ScoreOrAbsent instead; the two must not be unified.
func ScoreOrZero(stages []internal.SleepStage) float64 {
	if len(stages) == 0 {
		return 0
	}
	score := rawScore(CountStages(stages), len(stages))
	return math.Max(0, math.Min(10, round1(score)))
}

// ScoreOrAbsent computes the quality score from a pre-tallied histogram.
// Zero total yields nil rather than 0: with no readings at all there is no
// session to score, and the card renders a dash instead of a hard zero.
func ScoreOrAbsent(c internal.StageCounts, total int) *float64 {
	if total == 0 {
		return nil
	}
	score := round1(math.Max(0, math.Min(10, rawScore(c, total))))
	return &score
}

// Average returns the mean rounded to one decimal, or nil for no values.
// Absent is not zero: callers must not coerce a missing average.
func Average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := round1(sum / float64(len(values)))
	return &avg
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
