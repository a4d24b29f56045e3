package service

import (
	"context"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

const defaultReadingsLimit = 200

// ListRecentReadings returns up to limit readings at/after since, oldest
// first so charts can plot them left to right without re-sorting.
func ListRecentReadings(ctx context.Context, repo storage.ReadingRepository, since *time.Time, limit int) ([]internal.SensorReading, error) {
	if limit <= 0 {
		limit = defaultReadingsLimit
	}
	if limit > storage.MaxQueryLimit {
		limit = storage.MaxQueryLimit
	}

	readings, err := repo.RecentReadings(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	// The store serves newest-first; flip to ascending for charting.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}
