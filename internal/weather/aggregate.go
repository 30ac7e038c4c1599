package weather

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidRange is returned when a query's start date is after its end date.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrNoData is returned when a range holds no readings to aggregate.
	ErrNoData = errors.New("no readings in date range")
)

// ValidateRange normalizes from and to to calendar dates and checks their order.
func ValidateRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = Day(from), Day(to)
	if from.After(to) {
		return from, to, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, DateKey(from), DateKey(to))
	}
	return from, to, nil
}

// EachDate calls fn for every calendar date in [from, to], ascending.
func EachDate(from, to time.Time, fn func(date time.Time)) {
	end := Day(to)
	for d := Day(from); !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// AverageOf builds the daily average entry for a record.
func AverageOf(r *DailyRecord) (DailyAverage, error) {
	avg, err := r.AverageTemperature()
	if err != nil {
		return DailyAverage{}, fmt.Errorf("%s: %w", DateKey(r.Date()), err)
	}
	return DailyAverage{
		Date:        r.Date(),
		Temperature: avg,
		Readings:    r.ReadingCount(),
	}, nil
}

// MissingOf builds the missing values entry for a record.
func MissingOf(r *DailyRecord) DailyMissing {
	return DailyMissing{
		Date:     r.Date(),
		Missing:  r.MissingCount(),
		Readings: r.ReadingCount(),
	}
}

// SortByMissing orders entries by missing count descending, then date ascending.
func SortByMissing(entries []DailyMissing) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Missing != entries[j].Missing {
			return entries[i].Missing > entries[j].Missing
		}
		return entries[i].Date.Before(entries[j].Date)
	})
}

// AggregateApproved sums approved and total readings across records and
// returns the approved percentage for the range.
func AggregateApproved(from, to time.Time, records []*DailyRecord) (ApprovedShare, error) {
	share := ApprovedShare{From: Day(from), To: Day(to)}

	for _, r := range records {
		share.Approved += r.ApprovedCount()
		share.Readings += r.ReadingCount()
	}

	if share.Readings == 0 {
		return share, ErrNoData
	}

	share.Percent = 100 * float64(share.Approved) / float64(share.Readings)
	return share, nil
}
