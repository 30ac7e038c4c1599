package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrNotLoaded is returned by queries issued before the first successful load.
var ErrNotLoaded = errors.New("no station data loaded")

// Dataset describes the data set currently served.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
	Readings int       `json:"readings"`
	Days     int       `json:"days"`
	Skipped  int       `json:"skipped"`
}

// Service loads a source into a store and answers queries against it.
type Service struct {
	source   Source
	newStore func() Store

	mu      sync.RWMutex
	store   Store
	dataset Dataset
}

// NewService creates a new Service. newStore builds an empty store for every load.
func NewService(source Source, newStore func() Store) *Service {
	return &Service{
		source:   source,
		newStore: newStore,
	}
}

// Load reads the whole source into a fresh store and swaps it in. The store
// being served is left untouched if the source fails.
func (s *Service) Load(ctx context.Context) (Dataset, error) {
	if s.source == nil {
		return Dataset{}, fmt.Errorf("no station data source configured")
	}

	log.Debugf("Load called for source %s", s.source.Name())

	batch, err := s.source.Fetch(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("load %s: %w", s.source.Name(), err)
	}

	st := s.newStore()
	for _, r := range batch.Readings {
		st.Ingest(r)
	}

	ds := Dataset{
		ID:       uuid.NewString(),
		Source:   s.source.Name(),
		LoadedAt: time.Now().UTC(),
		Readings: st.ReadingCount(),
		Days:     st.Days(),
		Skipped:  batch.Skipped,
	}

	s.mu.Lock()
	s.store = st
	s.dataset = ds
	s.mu.Unlock()

	log.Infof("loaded dataset %s from %s: %d readings over %d days (%d lines skipped)",
		ds.ID, ds.Source, ds.Readings, ds.Days, ds.Skipped)
	return ds, nil
}

// Dataset returns metadata of the data set currently served.
func (s *Service) Dataset() (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return Dataset{}, ErrNotLoaded
	}
	return s.dataset, nil
}

func (s *Service) current() (Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}
	return s.store, nil
}

// Snapshot returns the store currently served. Requests that issue several
// queries run them all against one snapshot so a reload cannot mix datasets.
func (s *Service) Snapshot() (Store, error) {
	return s.current()
}

// Dates returns the recorded dates of the current store, ascending.
func (s *Service) Dates() ([]time.Time, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.Dates(), nil
}

// Record delegates to the current store.
func (s *Service) Record(date time.Time) (DaySummary, error) {
	st, err := s.current()
	if err != nil {
		return DaySummary{}, err
	}
	return st.Record(date)
}

// DailyAverages delegates to the current store.
func (s *Service) DailyAverages(from, to time.Time) ([]DailyAverage, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.DailyAverages(from, to)
}

// DailyMissing delegates to the current store.
func (s *Service) DailyMissing(from, to time.Time) ([]DailyMissing, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.DailyMissing(from, to)
}

// ApprovedShare delegates to the current store.
func (s *Service) ApprovedShare(from, to time.Time) (ApprovedShare, error) {
	st, err := s.current()
	if err != nil {
		return ApprovedShare{}, err
	}
	return st.ApprovedShare(from, to)
}

// Gaps delegates to the current store.
func (s *Service) Gaps(from, to time.Time) ([]time.Time, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.Gaps(from, to)
}

func (s *Service) AverageTemperatures(from, to time.Time) ([]string, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.AverageTemperatures(from, to)
}

func (s *Service) MissingValues(from, to time.Time) ([]string, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.MissingValues(from, to)
}

func (s *Service) ApprovedValues(from, to time.Time) ([]string, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.ApprovedValues(from, to)
}
