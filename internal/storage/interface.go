package storage

import (
	"context"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// MaxQueryLimit is the hard cap on rows returned by RecentReadings.
const MaxQueryLimit = 1000

// ReadingRepository is the append-only timestamped-row store the core
// depends on. Readings are never updated or deleted.
type ReadingRepository interface {
	// SaveReading appends one immutable reading.
	SaveReading(ctx context.Context, r *internal.SensorReading) error

	// RecentReadings returns up to limit readings ordered by recorded_at
	// descending, optionally restricted to recorded_at >= since.
	RecentReadings(ctx context.Context, since *time.Time, limit int) ([]internal.SensorReading, error)

	// ReadingsSince returns all readings with recorded_at >= since ordered
	// ascending, for day rollups over a bounded window.
	ReadingsSince(ctx context.Context, since time.Time) ([]internal.SensorReading, error)

	Close() error
}
