package weather

import (
	"time"
)

const (
	// DateLayout is the calendar date format used in station files and query output.
	DateLayout = "2006-01-02"

	// HoursPerDay is the number of hourly readings a fully covered date carries.
	HoursPerDay = 24

	// ApprovedFlag marks a reading that passed quality control.
	ApprovedFlag = "G"
)

// Reading is a single parsed station observation.
type Reading struct {
	Date time.Time // always UTC midnight
	// Time is the raw time-of-day field. It is carried but not validated
	// against the date's hourly slots.
	Time        string
	Temperature float64
	Approved    bool
}

// Batch is the result of reading a whole source.
type Batch struct {
	Readings []Reading
	// Skipped counts malformed lines dropped by a lenient source.
	Skipped int
}

// DailyAverage is the mean temperature for one date.
type DailyAverage struct {
	Date        time.Time `json:"date"`
	Temperature float64   `json:"temperatureC"`
	Readings    int       `json:"readings"`
}

// DailyMissing is the number of absent hourly readings for one date.
type DailyMissing struct {
	Date     time.Time `json:"date"`
	Missing  int       `json:"missing"`
	Readings int       `json:"readings"`
}

// ApprovedShare summarizes quality-approved readings over a date range.
type ApprovedShare struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Approved int       `json:"approved"`
	Readings int       `json:"readings"`
	Percent  float64   `json:"percent"`
}

// DaySummary is a read-only copy of one daily record.
type DaySummary struct {
	Date     time.Time `json:"date"`
	Readings int       `json:"readings"`
	Approved int       `json:"approved"`
	Missing  int       `json:"missing"`
	Average  float64   `json:"averageC"`
}

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey returns the canonical string key for indexing a date in stores.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
