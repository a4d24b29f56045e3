package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// FileStorage keeps readings in memory, sorted ascending by recorded_at,
// and flushes them to a JSON file through a debounced save worker. It is
// the default backend for development and tests.
type FileStorage struct {
	readings     []*internal.SensorReading
	mu           sync.RWMutex
	readingsFile string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(readingsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		readingsFile: readingsFile,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load readings: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.readingsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var readings []*internal.SensorReading
	if err := json.NewDecoder(file).Decode(&readings); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = readings
	sort.Slice(s.readings, func(i, j int) bool {
		return s.readings[i].RecordedAt.Before(s.readings[j].RecordedAt)
	})

	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	readings := make([]*internal.SensorReading, len(s.readings))
	copy(readings, s.readings)
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.readingsFile, readings)
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving readings: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)

	// Flush pending data synchronously on shutdown
	return s.save()
}

func (s *FileStorage) SaveReading(ctx context.Context, r *internal.SensorReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Inserts arrive in time order in practice; walk back from the end to
	// keep the slice sorted without assuming it.
	i := len(s.readings)
	for i > 0 && s.readings[i-1].RecordedAt.After(r.RecordedAt) {
		i--
	}
	s.readings = append(s.readings, nil)
	copy(s.readings[i+1:], s.readings[i:])
	s.readings[i] = r

	select {
	case s.saveChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) RecentReadings(ctx context.Context, since *time.Time, limit int) ([]internal.SensorReading, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.readings
	if since != nil {
		matched = matched[sort.Search(len(matched), func(i int) bool {
			return !matched[i].RecordedAt.Before(*since)
		}):]
	}

	// Newest first, bounded by limit.
	n := len(matched)
	if n > limit {
		n = limit
	}
	out := make([]internal.SensorReading, 0, n)
	for i := len(matched) - 1; i >= len(matched)-n; i-- {
		out = append(out, *matched[i])
	}
	return out, nil
}

func (s *FileStorage) ReadingsSince(ctx context.Context, since time.Time) ([]internal.SensorReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := sort.Search(len(s.readings), func(i int) bool {
		return !s.readings[i].RecordedAt.Before(since)
	})
	out := make([]internal.SensorReading, 0, len(s.readings)-start)
	for _, r := range s.readings[start:] {
		out = append(out, *r)
	}
	return out, nil
}

// --- Compile-time assertions ---
var _ ReadingRepository = (*FileStorage)(nil)
