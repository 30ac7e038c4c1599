package weather

import (
	"errors"
	"time"
)

// ErrNoReadings is returned when a statistic needs at least one reading.
var ErrNoReadings = errors.New("daily record has no readings")

// DailyRecord accumulates every reading observed for one calendar date.
type DailyRecord struct {
	date         time.Time
	temperatures []float64
	approved     int
}

// NewDailyRecord creates a record seeded with its first temperature, so the
// reading that opened the date is never lost.
func NewDailyRecord(date time.Time, temperature float64) *DailyRecord {
	return &DailyRecord{
		date:         Day(date),
		temperatures: []float64{temperature},
	}
}

// Date returns the record's calendar date.
func (r *DailyRecord) Date() time.Time {
	return r.date
}

// AddTemperature appends a temperature in arrival order.
func (r *DailyRecord) AddTemperature(value float64) {
	r.temperatures = append(r.temperatures, value)
}

// AddApprovedValue counts one more approved reading. Callers pair it with AddTemperature.
func (r *DailyRecord) AddApprovedValue() {
	r.approved++
}

func (r *DailyRecord) ReadingCount() int {
	return len(r.temperatures)
}

func (r *DailyRecord) ApprovedCount() int {
	return r.approved
}

// MissingCount is the number of hourly readings short of a full day.
// Duplicate input can push the reading count past 24; the result is clamped at zero.
func (r *DailyRecord) MissingCount() int {
	missing := HoursPerDay - r.ReadingCount()
	if missing < 0 {
		return 0
	}
	return missing
}

// SumTemperature adds the temperatures in arrival order.
func (r *DailyRecord) SumTemperature() float64 {
	var sum float64
	for _, t := range r.temperatures {
		sum += t
	}
	return sum
}

// AverageTemperature returns the arithmetic mean of the recorded temperatures.
func (r *DailyRecord) AverageTemperature() (float64, error) {
	n := r.ReadingCount()
	if n == 0 {
		return 0, ErrNoReadings
	}
	return r.SumTemperature() / float64(n), nil
}
