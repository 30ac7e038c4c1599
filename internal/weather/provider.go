package weather

import (
	"context"
	"time"
)

// Source abstracts where station readings come from (local file, remote file).
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Batch, error)
}

// Store is the contract the in-memory station store must satisfy.
type Store interface {
	Ingest(r Reading)

	Days() int
	ReadingCount() int
	Dates() []time.Time
	Record(date time.Time) (DaySummary, error)

	DailyAverages(from, to time.Time) ([]DailyAverage, error)
	DailyMissing(from, to time.Time) ([]DailyMissing, error)
	ApprovedShare(from, to time.Time) (ApprovedShare, error)
	Gaps(from, to time.Time) ([]time.Time, error)

	AverageTemperatures(from, to time.Time) ([]string, error)
	MissingValues(from, to time.Time) ([]string, error)
	ApprovedValues(from, to time.Time) ([]string, error)
}
