package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/i474232898/weather-station-report/internal/weather"
)

// reporter is the part of weather.Service the one-shot report needs.
type reporter interface {
	AverageTemperatures(from, to time.Time) ([]string, error)
	MissingValues(from, to time.Time) ([]string, error)
	ApprovedValues(from, to time.Time) ([]string, error)
}

// report prints the requested query lines for [fromStr, toStr] to w.
func report(w io.Writer, svc reporter, query, fromStr, toStr string) error {
	from, err := weather.ParseDate(fromStr)
	if err != nil {
		return fmt.Errorf("invalid -from %q: use YYYY-MM-DD", fromStr)
	}
	to, err := weather.ParseDate(toStr)
	if err != nil {
		return fmt.Errorf("invalid -to %q: use YYYY-MM-DD", toStr)
	}

	var queries []func(from, to time.Time) ([]string, error)
	switch query {
	case "average":
		queries = append(queries, svc.AverageTemperatures)
	case "missing":
		queries = append(queries, svc.MissingValues)
	case "approved":
		queries = append(queries, svc.ApprovedValues)
	case "all":
		queries = append(queries, svc.AverageTemperatures, svc.MissingValues, svc.ApprovedValues)
	default:
		return fmt.Errorf("unknown query %q", query)
	}

	for _, q := range queries {
		lines, err := q(from, to)
		if errors.Is(err, weather.ErrNoData) {
			fmt.Fprintf(w, "No readings between %s and %s\n", weather.DateKey(from), weather.DateKey(to))
			continue
		}
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}
