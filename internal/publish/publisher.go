// Package publish is the outbound event port for new readings. Delivery is
// best-effort at-most-once: the ingest path logs failures and moves on, and
// nothing here may block or fail an ingest call.
package publish

import (
	"context"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

type Publisher interface {
	Notify(ctx context.Context, r *internal.SensorReading) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Notify(ctx context.Context, r *internal.SensorReading) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }

var _ Publisher = NoopPublisher{}
