package sleep

import (
	"sort"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// DayKey is the calendar-day partition key for a reading. It is the raw
// day portion of the recorded timestamp in its own location — no timezone
// normalization, so readings near midnight attribute to the day their
// timestamp says, not the viewer's local day.
func DayKey(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// Rollup partitions readings by calendar day and produces one DaySummary
// per distinct day, in ascending day order. Input order does not matter;
// day keys are sorted explicitly.
func Rollup(readings []internal.SensorReading, t Thresholds) []internal.DaySummary {
	byDay := make(map[string][]internal.SensorReading)
	for _, r := range readings {
		day := DayKey(r.RecordedAt)
		byDay[day] = append(byDay[day], r)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]internal.DaySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, byDay[day], t))
	}
	return summaries
}

// summarizeDay aggregates one day's readings.
//
// Two averaging domains are deliberate: the stage histogram counts every
// reading (an awake minute is informative), while vitals averages and the
// quality score only consider presence-true readings so that values
// captured with nobody in bed do not pollute the physiology numbers.
func summarizeDay(day string, readings []internal.SensorReading, t Thresholds) internal.DaySummary {
	var present []internal.SensorReading
	for _, r := range readings {
		if r.Presence != nil && *r.Presence {
			present = append(present, r)
		}
	}

	var hrValues, brValues []float64
	presentStages := make([]internal.SleepStage, 0, len(present))
	for _, r := range present {
		if r.HeartRate != nil {
			hrValues = append(hrValues, *r.HeartRate)
		}
		if r.BreathingRate != nil {
			brValues = append(brValues, *r.BreathingRate)
		}
		presentStages = append(presentStages, stageOf(r, t))
	}

	var counts internal.StageCounts
	for _, r := range readings {
		switch r.SleepStage {
		case internal.StageAwake:
			counts.Awake++
		case internal.StageLight:
			counts.Light++
		case internal.StageDeep:
			counts.Deep++
		}
	}

	return internal.DaySummary{
		Date:         day,
		AvgHR:        Average(hrValues),
		AvgBR:        Average(brValues),
		QualityScore: ScoreOrZero(presentStages),
		StageCounts:  counts,
		ReadingCount: len(readings),
	}
}

// stageOf prefers the stage attached at ingestion; classification is only
// repeated for readings that never went through the ingest path.
func stageOf(r internal.SensorReading, t Thresholds) internal.SleepStage {
	switch r.SleepStage {
	case internal.StageAwake, internal.StageLight, internal.StageDeep:
		return r.SleepStage
	}
	return Classify(SampleOf(r), t)
}
