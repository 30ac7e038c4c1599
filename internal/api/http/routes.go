package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-station-report/internal/store"
	"github.com/i474232898/weather-station-report/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. maxRangeDays
// caps how many calendar dates a single station query may span.
func RegisterRoutes(app *fiber.App, service *weather.Service, maxRangeDays int) {
	v1 := app.Group("/api/v1")

	v1.Get("/dataset", func(c *fiber.Ctx) error {
		ds, err := service.Dataset()
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(ds)
	})

	v1.Get("/stations/days", func(c *fiber.Ctx) error {
		dates, err := service.Dates()
		if err != nil {
			return toHTTPError(err)
		}

		keys := make([]string, 0, len(dates))
		for _, d := range dates {
			keys = append(keys, weather.DateKey(d))
		}
		return c.JSON(fiber.Map{"dates": keys})
	})

	v1.Get("/stations/day", func(c *fiber.Ctx) error {
		dateStr := c.Query("date")
		if dateStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date query parameter is required")
		}
		date, err := weather.ParseDate(dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date; use YYYY-MM-DD")
		}

		summary, err := service.Record(date)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(summary)
	})

	v1.Get("/stations/averages", func(c *fiber.Ctx) error {
		q, err := parseRangeQuery(c, maxRangeDays)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		st, err := service.Snapshot()
		if err != nil {
			return toHTTPError(err)
		}
		averages, err := st.DailyAverages(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}
		gaps, err := st.Gaps(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(rangeResponse(q, weather.FormatAverages(averages), averages, gaps))
	})

	v1.Get("/stations/missing", func(c *fiber.Ctx) error {
		q, err := parseRangeQuery(c, maxRangeDays)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		st, err := service.Snapshot()
		if err != nil {
			return toHTTPError(err)
		}
		missing, err := st.DailyMissing(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}
		gaps, err := st.Gaps(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(rangeResponse(q, weather.FormatMissingValues(missing), missing, gaps))
	})

	v1.Get("/stations/approved", func(c *fiber.Ctx) error {
		q, err := parseRangeQuery(c, maxRangeDays)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		st, err := service.Snapshot()
		if err != nil {
			return toHTTPError(err)
		}
		share, err := st.ApprovedShare(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}
		gaps, err := st.Gaps(q.From, q.To)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(rangeResponse(q, []string{weather.FormatApproved(share)}, share, gaps))
	})
}

func rangeResponse(q rangeQuery, lines []string, entries interface{}, gaps []time.Time) fiber.Map {
	gapKeys := make([]string, 0, len(gaps))
	for _, g := range gaps {
		gapKeys = append(gapKeys, weather.DateKey(g))
	}
	return fiber.Map{
		"from":    weather.DateKey(q.From),
		"to":      weather.DateKey(q.To),
		"lines":   lines,
		"entries": entries,
		"gaps":    gapKeys,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no readings for requested date")
	case errors.Is(err, weather.ErrNotLoaded):
		return fiber.NewError(fiber.StatusServiceUnavailable, "station data not loaded yet")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to query station data")
	}
}

// rangeQuery holds the inclusive date range of a station query. Presence is
// checked on the raw parameters: 0001-01-01 is the zero time.Time.
type rangeQuery struct {
	From time.Time
	To   time.Time `validate:"gtefield=From"`
}

func parseRangeQuery(c *fiber.Ctx, maxDays int) (rangeQuery, error) {
	var q rangeQuery

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return q, errors.New("from and to query parameters are required")
	}

	from, err := weather.ParseDate(fromStr)
	if err != nil {
		return q, errors.New("invalid from date; use YYYY-MM-DD")
	}
	to, err := weather.ParseDate(toStr)
	if err != nil {
		return q, errors.New("invalid to date; use YYYY-MM-DD")
	}

	q.From = from
	q.To = to
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return q, errors.New("to must not be before from")
		}
		return q, err
	}

	if days := spanDays(q.From, q.To); maxDays > 0 && days > int64(maxDays) {
		return q, fmt.Errorf("range spans %d days; at most %d allowed", days, maxDays)
	}
	return q, nil
}

// spanDays counts the calendar dates in [from, to]. Unix seconds are used
// because time.Duration saturates after about 292 years.
func spanDays(from, to time.Time) int64 {
	return (to.Unix()-from.Unix())/(24*60*60) + 1
}
