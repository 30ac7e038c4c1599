package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-station-report/internal/weather"
)

// HTTPSource downloads a station data file over HTTP.
type HTTPSource struct {
	name          string
	url           string
	skipMalformed bool
	httpCfg       HTTPClientConfig
	circuit       *gobreaker.CircuitBreaker
}

func NewHTTPSource(client *http.Client, url string, skipMalformed bool) *HTTPSource {
	return &HTTPSource{
		name:          "http:" + url,
		url:           url,
		skipMalformed: skipMalformed,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("station-file"),
	}
}

// WithBackoff replaces the retry policy.
func (s *HTTPSource) WithBackoff(b BackoffConfig) *HTTPSource {
	s.httpCfg.Backoff = b
	return s
}

func (s *HTTPSource) Name() string {
	return s.name
}

func (s *HTTPSource) Fetch(ctx context.Context) (weather.Batch, error) {
	if s.url == "" {
		return weather.Batch{}, fmt.Errorf("station data url is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/plain, text/csv")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return weather.Batch{}, err
	}
	defer resp.Body.Close()

	return ParseLines(resp.Body, s.skipMalformed)
}
