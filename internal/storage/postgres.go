package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

const readingColumns = `id, recorded_at, breathing_rate, heart_rate, distance, presence, movement_state, sleep_stage`

func (p *PostgresStorage) SaveReading(ctx context.Context, r *internal.SensorReading) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO sensor_readings (id, recorded_at, breathing_rate, heart_rate, distance, presence, movement_state, sleep_stage) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.RecordedAt, r.BreathingRate, r.HeartRate, r.Distance, r.Presence, r.MovementState, string(r.SleepStage))
	if err != nil {
		p.logger.Errorf("failed to insert reading: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) RecentReadings(ctx context.Context, since *time.Time, limit int) ([]internal.SensorReading, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	query := `SELECT ` + readingColumns + ` FROM sensor_readings ORDER BY recorded_at DESC LIMIT $1`
	args := []any{limit}
	if since != nil {
		query = `SELECT ` + readingColumns + ` FROM sensor_readings WHERE recorded_at >= $1 ORDER BY recorded_at DESC LIMIT $2`
		args = []any{*since, limit}
	}
	return p.queryReadings(ctx, query, args...)
}

func (p *PostgresStorage) ReadingsSince(ctx context.Context, since time.Time) ([]internal.SensorReading, error) {
	query := `SELECT ` + readingColumns + ` FROM sensor_readings WHERE recorded_at >= $1 ORDER BY recorded_at ASC`
	return p.queryReadings(ctx, query, since)
}

func (p *PostgresStorage) queryReadings(ctx context.Context, query string, args ...any) ([]internal.SensorReading, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query readings: %v", err)
		return nil, err
	}
	defer rows.Close()

	var readings []internal.SensorReading
	for rows.Next() {
		var r internal.SensorReading
		var stage string
		err := rows.Scan(&r.ID, &r.RecordedAt, &r.BreathingRate, &r.HeartRate, &r.Distance, &r.Presence, &r.MovementState, &stage)
		if err != nil {
			p.logger.Errorf("failed to scan reading: %v", err)
			return nil, err
		}
		r.SleepStage = internal.SleepStage(stage)
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- Compile-time assertions ---
var _ ReadingRepository = (*PostgresStorage)(nil)
