package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-station-report/internal/store"
	"github.com/i474232898/weather-station-report/internal/weather"
)

const testMaxRangeDays = 366

type staticSource struct {
	readings []weather.Reading
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(ctx context.Context) (weather.Batch, error) {
	return weather.Batch{Readings: s.readings}, nil
}

func mustParse(t *testing.T, s string) weather.Reading {
	t.Helper()
	r, err := weather.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return weather.Reading{Date: r}
}

func newTestApp(t *testing.T, load bool) *fiber.App {
	t.Helper()

	a1 := mustParse(t, "2023-01-01")
	a1.Temperature, a1.Approved = 5, true
	a2 := mustParse(t, "2023-01-01")
	a2.Temperature = 7
	b := mustParse(t, "2023-01-03")
	b.Temperature = -1.5

	svc := weather.NewService(staticSource{readings: []weather.Reading{a1, a2, b}}, func() weather.Store {
		return store.NewWeatherStore()
	})
	if load {
		if _, err := svc.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
	}

	app := fiber.New()
	RegisterRoutes(app, svc, testMaxRangeDays)
	return app
}

type rangeBody struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Lines []string `json:"lines"`
	Gaps  []string `json:"gaps"`
}

func get(t *testing.T, app *fiber.App, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) rangeBody {
	t.Helper()
	defer resp.Body.Close()
	var body rangeBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

// TestRangeValidation verifies that station endpoints reject missing,
// malformed and inverted date ranges.
func TestRangeValidation(t *testing.T) {
	app := newTestApp(t, true)

	urls := []string{
		"/api/v1/stations/averages",
		"/api/v1/stations/averages?from=2023-01-01",
		"/api/v1/stations/missing?from=2023/01/01&to=2023-01-03",
		"/api/v1/stations/approved?from=2023-01-03&to=2023-01-01",
	}
	for _, u := range urls {
		resp := get(t, app, u)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", u, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestRangeTooWide(t *testing.T) {
	app := newTestApp(t, true)

	for _, u := range []string{
		"/api/v1/stations/averages?from=0002-01-01&to=9999-12-31",
		"/api/v1/stations/missing?from=2023-01-01&to=2024-01-02",
		"/api/v1/stations/approved?from=0001-01-01&to=9999-12-31",
	} {
		resp := get(t, app, u)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", u, http.StatusBadRequest, resp.StatusCode)
		}
	}

	// exactly the cap is still served
	resp := get(t, app, "/api/v1/stations/averages?from=2023-01-01&to=2024-01-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d at the cap, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestEarliestDateAccepted(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/missing?from=0001-01-01&to=0001-01-02")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decode(t, resp)
	if body.From != "0001-01-01" || len(body.Lines) != 0 || len(body.Gaps) != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestInvertedRangeMessage(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/averages?from=2023-01-03&to=2023-01-01")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	msg, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "to must not be before from" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestDaysEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/days")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	defer resp.Body.Close()

	var body struct {
		Dates []string `json:"dates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Dates) != 2 || body.Dates[0] != "2023-01-01" || body.Dates[1] != "2023-01-03" {
		t.Fatalf("unexpected dates %v", body.Dates)
	}
}

func TestDayEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/day?date=2023-01-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	defer resp.Body.Close()

	var sum weather.DaySummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Readings != 2 || sum.Approved != 1 || sum.Missing != 22 || sum.Average != 6 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	for u, want := range map[string]int{
		"/api/v1/stations/day?date=2023-01-02": http.StatusNotFound,
		"/api/v1/stations/day":                 http.StatusBadRequest,
		"/api/v1/stations/day?date=01/01/2023": http.StatusBadRequest,
	} {
		resp := get(t, app, u)
		if resp.StatusCode != want {
			t.Fatalf("%s: expected status %d, got %d", u, want, resp.StatusCode)
		}
	}
}

func TestAveragesEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/averages?from=2023-01-01&to=2023-01-03")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body := decode(t, resp)
	if len(body.Lines) != 2 || body.Lines[0] != "2023-01-01 average temperature: 6.00 degree Celsius" {
		t.Fatalf("unexpected lines %v", body.Lines)
	}
	if len(body.Gaps) != 1 || body.Gaps[0] != "2023-01-02" {
		t.Fatalf("unexpected gaps %v", body.Gaps)
	}
}

func TestMissingEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/missing?from=2023-01-01&to=2023-01-03")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body := decode(t, resp)
	want := []string{"2023-01-03 missing 23 values", "2023-01-01 missing 22 values"}
	if len(body.Lines) != 2 || body.Lines[0] != want[0] || body.Lines[1] != want[1] {
		t.Fatalf("got %v, want %v", body.Lines, want)
	}
}

func TestApprovedEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/stations/approved?from=2023-01-01&to=2023-01-03")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decode(t, resp)
	if len(body.Lines) != 1 || body.Lines[0] != "Approved values between 2023-01-01 and 2023-01-03 : 33.33 %" {
		t.Fatalf("unexpected lines %v", body.Lines)
	}

	resp = get(t, app, "/api/v1/stations/approved?from=2024-01-01&to=2024-01-02")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for empty range, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestNotLoaded(t *testing.T) {
	app := newTestApp(t, false)

	for _, u := range []string{
		"/api/v1/dataset",
		"/api/v1/stations/days",
		"/api/v1/stations/day?date=2023-01-01",
		"/api/v1/stations/averages?from=2023-01-01&to=2023-01-03",
	} {
		resp := get(t, app, u)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected status %d, got %d", u, http.StatusServiceUnavailable, resp.StatusCode)
		}
	}
}

func TestDatasetEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/dataset")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	defer resp.Body.Close()

	var ds weather.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ds.Readings != 3 || ds.Days != 2 || ds.Source != "static" {
		t.Fatalf("unexpected dataset %+v", ds)
	}
}
