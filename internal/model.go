package internal

import "time"

type SleepStage string

const (
	StageAwake SleepStage = "awake"
	StageLight SleepStage = "light"
	StageDeep  SleepStage = "deep"
)

// SensorReading is one radar reading plus the stage derived at ingestion.
// Readings are immutable once stored; the stage is never recomputed.
type SensorReading struct {
	ID            string     `json:"id"`
	RecordedAt    time.Time  `json:"recorded_at"`
	BreathingRate *float64   `json:"breathing_rate"` // breaths/min, valid range [0,40]
	HeartRate     *float64   `json:"heart_rate"`     // BPM, valid range [0,200]
	Distance      *float64   `json:"distance"`       // meters, informational only
	Presence      *bool      `json:"presence"`
	MovementState *int       `json:"movement_state"` // 1 = active movement
	SleepStage    SleepStage `json:"sleep_stage"`
}

type StageCounts struct {
	Awake int `json:"awake"`
	Light int `json:"light"`
	Deep  int `json:"deep"`
}

// DaySummary is derived per calendar day on every query, never persisted.
type DaySummary struct {
	Date         string      `json:"date"` // YYYY-MM-DD
	AvgHR        *float64    `json:"avg_hr"`
	AvgBR        *float64    `json:"avg_br"`
	QualityScore float64     `json:"quality_score"`
	StageCounts  StageCounts `json:"stage_counts"`
	ReadingCount int         `json:"reading_count"`
}

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
