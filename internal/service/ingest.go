package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/publish"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

var validate = validator.New()

// IngestRequest is the device payload. Every field is optional; pointers
// keep "not reported" distinct from a reported zero, which matters because
// a fabricated zero would corrupt stage inference.
type IngestRequest struct {
	BreathingRate *float64 `json:"breathing_rate" validate:"omitempty,gte=0,lte=40"`
	HeartRate     *float64 `json:"heart_rate" validate:"omitempty,gte=0,lte=200"`
	Distance      *float64 `json:"distance" validate:"omitempty,gte=0"`
	Presence      *bool    `json:"presence"`
	MovementState *int     `json:"movement_state"`
}

func ValidateIngestRequest(body *IngestRequest) error {
	return validate.Struct(body)
}

// IngestReading classifies one validated payload, appends it to the store
// and notifies the publisher. The publish is fire-and-forget: a failure is
// logged and never surfaced to the caller, while a storage failure aborts
// the ingest with nothing persisted.
func IngestReading(
	ctx context.Context,
	repo storage.ReadingRepository,
	pub publish.Publisher,
	thresholds sleep.Thresholds,
	logger internal.Logger,
	body *IngestRequest,
) (*internal.SensorReading, error) {
	reading := &internal.SensorReading{
		ID:            uuid.NewString(),
		RecordedAt:    time.Now(),
		BreathingRate: body.BreathingRate,
		HeartRate:     body.HeartRate,
		Distance:      body.Distance,
		Presence:      body.Presence,
		MovementState: body.MovementState,
	}
	reading.SleepStage = sleep.Classify(sleep.Sample{
		BreathingRate: body.BreathingRate,
		HeartRate:     body.HeartRate,
		Presence:      body.Presence,
		MovementState: body.MovementState,
	}, thresholds)

	if err := repo.SaveReading(ctx, reading); err != nil {
		return nil, err
	}

	if err := pub.Notify(ctx, reading); err != nil {
		logger.Warnf("failed to publish reading %s: %v", reading.ID, err)
	}

	return reading, nil
}
