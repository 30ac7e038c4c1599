package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-station-report/internal/weather"
)

var (
	// ErrNotFound is returned when no record exists for a given date.
	ErrNotFound = errors.New("no weather data for date")

	ErrNoData       = weather.ErrNoData
	ErrInvalidRange = weather.ErrInvalidRange
)

// WeatherStore is a concurrency-safe in-memory store of daily station records.
//
// Dates in a queried range with no record are skipped one by one; the rest
// of the range is still reported. Gaps lists the skipped dates.
type WeatherStore struct {
	mu sync.RWMutex

	// key: YYYY-MM-DD, value: record for that date
	byDate map[string]*weather.DailyRecord

	readings int
}

var _ weather.Store = (*WeatherStore)(nil)

// NewWeatherStore creates an empty WeatherStore.
func NewWeatherStore() *WeatherStore {
	return &WeatherStore{
		byDate: make(map[string]*weather.DailyRecord),
	}
}

// Ingest routes a reading to the record of its date, creating the record on
// first sighting. Every call mutates; nothing is deduplicated.
func (s *WeatherStore) Ingest(r weather.Reading) {
	key := weather.DateKey(weather.Day(r.Date))

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byDate[key]
	if !ok {
		record = weather.NewDailyRecord(r.Date, r.Temperature)
		s.byDate[key] = record
	} else {
		record.AddTemperature(r.Temperature)
	}

	if r.Approved {
		record.AddApprovedValue()
	}
	s.readings++
}

// Days returns the number of distinct dates seen.
func (s *WeatherStore) Days() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byDate)
}

// ReadingCount returns the number of readings ingested.
func (s *WeatherStore) ReadingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readings
}

// Dates returns every date with a record, ascending.
func (s *WeatherStore) Dates() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]time.Time, 0, len(s.byDate))
	for _, r := range s.byDate {
		dates = append(dates, r.Date())
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Record returns a summary of the record for date.
func (s *WeatherStore) Record(date time.Time) (weather.DaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byDate[weather.DateKey(weather.Day(date))]
	if !ok {
		return weather.DaySummary{}, ErrNotFound
	}

	avg, err := r.AverageTemperature()
	if err != nil {
		return weather.DaySummary{}, err
	}

	return weather.DaySummary{
		Date:     r.Date(),
		Readings: r.ReadingCount(),
		Approved: r.ApprovedCount(),
		Missing:  r.MissingCount(),
		Average:  avg,
	}, nil
}

// inRange collects the records between from and to (inclusive), ascending,
// along with the dates that have none. Callers hold the read lock.
func (s *WeatherStore) inRange(from, to time.Time) ([]*weather.DailyRecord, []time.Time, error) {
	from, to, err := weather.ValidateRange(from, to)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []*weather.DailyRecord
		gaps    []time.Time
	)
	weather.EachDate(from, to, func(date time.Time) {
		if r, ok := s.byDate[weather.DateKey(date)]; ok {
			records = append(records, r)
			return
		}
		gaps = append(gaps, date)
	})
	return records, gaps, nil
}

// Gaps returns the dates between from and to (inclusive) with no record.
func (s *WeatherStore) Gaps(from, to time.Time) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, gaps, err := s.inRange(from, to)
	return gaps, err
}

// DailyAverages returns the average temperature of each recorded date in range, ascending.
func (s *WeatherStore) DailyAverages(from, to time.Time) ([]weather.DailyAverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, _, err := s.inRange(from, to)
	if err != nil {
		return nil, err
	}

	result := make([]weather.DailyAverage, 0, len(records))
	for _, r := range records {
		avg, err := weather.AverageOf(r)
		if err != nil {
			return nil, err
		}
		result = append(result, avg)
	}
	return result, nil
}

// DailyMissing returns the missing hourly readings of each recorded date in
// range, most missing first, ties by date ascending.
func (s *WeatherStore) DailyMissing(from, to time.Time) ([]weather.DailyMissing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, _, err := s.inRange(from, to)
	if err != nil {
		return nil, err
	}

	result := make([]weather.DailyMissing, 0, len(records))
	for _, r := range records {
		result = append(result, weather.MissingOf(r))
	}
	weather.SortByMissing(result)
	return result, nil
}

// ApprovedShare returns the share of approved readings in range.
// It returns ErrNoData when the range holds no readings.
func (s *WeatherStore) ApprovedShare(from, to time.Time) (weather.ApprovedShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, _, err := s.inRange(from, to)
	if err != nil {
		return weather.ApprovedShare{}, err
	}
	return weather.AggregateApproved(from, to, records)
}

// AverageTemperatures returns "<date> average temperature: <avg> degree Celsius" lines.
func (s *WeatherStore) AverageTemperatures(from, to time.Time) ([]string, error) {
	averages, err := s.DailyAverages(from, to)
	if err != nil {
		return nil, err
	}
	return weather.FormatAverages(averages), nil
}

// MissingValues returns "<date> missing <n> values" lines.
func (s *WeatherStore) MissingValues(from, to time.Time) ([]string, error) {
	missing, err := s.DailyMissing(from, to)
	if err != nil {
		return nil, err
	}
	return weather.FormatMissingValues(missing), nil
}

// ApprovedValues returns the single approved percentage line for the range.
func (s *WeatherStore) ApprovedValues(from, to time.Time) ([]string, error) {
	share, err := s.ApprovedShare(from, to)
	if err != nil {
		return nil, err
	}
	return []string{weather.FormatApproved(share)}, nil
}
