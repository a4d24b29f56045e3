package service

import (
	"context"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

const (
	defaultSummaryDays = 7
	maxSummaryDays     = 30
)

// BuildDailySummary rolls up the last N days of readings into one summary
// per distinct observed day, oldest first. Summaries are recomputed from
// the raw rows on every call; nothing derived is ever stored.
func BuildDailySummary(ctx context.Context, repo storage.ReadingRepository, days int, thresholds sleep.Thresholds) ([]internal.DaySummary, int, error) {
	if days <= 0 {
		days = defaultSummaryDays
	}
	if days > maxSummaryDays {
		days = maxSummaryDays
	}

	since := time.Now().AddDate(0, 0, -days)
	readings, err := repo.ReadingsSince(ctx, since)
	if err != nil {
		return nil, days, err
	}

	return sleep.Rollup(readings, thresholds), days, nil
}
