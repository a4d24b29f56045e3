package service

import (
	"context"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

// overnightWindow is how far back the last-session card looks.
const overnightWindow = 4 * time.Hour

// BuildOvernight summarizes the readings from the recent window that fall
// before today's midnight — the tail of last night's session.
func BuildOvernight(ctx context.Context, repo storage.ReadingRepository, now time.Time) (sleep.Overnight, error) {
	since := now.Add(-overnightWindow)
	readings, err := repo.RecentReadings(ctx, &since, storage.MaxQueryLimit)
	if err != nil {
		return sleep.Overnight{}, err
	}

	year, month, day := now.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	return sleep.SummarizeOvernight(readings, dayStart), nil
}
