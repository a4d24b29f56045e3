package sleep

import (
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// Overnight is the "last session" card: a summary of the readings that fall
// before the current day's midnight. Unlike DaySummary, the score is absent
// when there are no readings at all.
type Overnight struct {
	QualityScore *float64             `json:"quality_score"`
	AvgHR        *float64             `json:"avg_hr"`
	AvgBR        *float64             `json:"avg_br"`
	StageCounts  internal.StageCounts `json:"stage_counts"`
	ReadingCount int                  `json:"reading_count"`
}

// SummarizeOvernight aggregates readings recorded strictly before dayStart.
//
// The vitals averaging here is looser than the rollup's: any non-zero vital
// counts regardless of presence, and the breathing average reuses the heart
// rate sample count. That is how the live card has always computed it and
// its numbers must keep matching what viewers have seen.
func SummarizeOvernight(readings []internal.SensorReading, dayStart time.Time) Overnight {
	var counts internal.StageCounts
	var hrSum, brSum float64
	total, hrCount := 0, 0

	for _, r := range readings {
		if !r.RecordedAt.Before(dayStart) {
			continue
		}
		total++
		switch r.SleepStage {
		case internal.StageAwake:
			counts.Awake++
		case internal.StageLight:
			counts.Light++
		case internal.StageDeep:
			counts.Deep++
		}
		if r.HeartRate != nil && *r.HeartRate != 0 {
			hrSum += *r.HeartRate
			hrCount++
		}
		if r.BreathingRate != nil && *r.BreathingRate != 0 {
			brSum += *r.BreathingRate
		}
	}

	var avgHR, avgBR *float64
	if hrCount > 0 {
		hr := round1(hrSum / float64(hrCount))
		br := round1(brSum / float64(hrCount))
		avgHR, avgBR = &hr, &br
	}

	return Overnight{
		QualityScore: ScoreOrAbsent(counts, total),
		AvgHR:        avgHR,
		AvgBR:        avgBR,
		StageCounts:  counts,
		ReadingCount: total,
	}
}
