package storage

import "github.com/JoshuaPothen/SleepTrackerV2/internal"

func NewFileRepository(readingsFile string, logger internal.Logger) (ReadingRepository, error) {
	return NewFileStorage(readingsFile, logger)
}

func NewPostgresRepository(dsn string, logger internal.Logger) (ReadingRepository, error) {
	return NewPostgresStorage(dsn, logger)
}
