package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff is used by sources that are not given an explicit policy.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// backoffDelay returns the wait before retry number attempt (zero based).
func backoffDelay(cfg BackoffConfig, attempt int) time.Duration {
	delay := cfg.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
	if cfg.MaxInterval > 0 && delay > cfg.MaxInterval {
		delay = cfg.MaxInterval
	}
	return delay
}

// doRequestWithResilience executes the HTTP request with retries, exponential backoff,
// and a circuit breaker. Non-2xx responses are closed before retrying.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if err := checkStatus(resp.StatusCode); err != nil {
				resp.Body.Close()
				return nil, err
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := backoffDelay(cfg.Backoff, attempt)
		log.Debugf("request to %s failed (attempt %d): %v; retrying in %s", req.URL.Host, attempt+1, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return errServerError
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", errUnexpected, code)
	}
	return nil
}
