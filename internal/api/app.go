package api

import (
	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/publish"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

type App interface {
	Logger() internal.Logger
	ReadingRepo() storage.ReadingRepository
	Publisher() publish.Publisher
	Thresholds() sleep.Thresholds
}
