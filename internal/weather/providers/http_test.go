package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2023-01-01;00:00:00;5.0;G\n2023-01-01;01:00:00;7.0;Y\n")
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), srv.URL, false).WithBackoff(fastBackoff)
	batch, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(batch.Readings))
	}
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "2023-01-01;00:00:00;5.0;G\n")
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), srv.URL, false).WithBackoff(fastBackoff)
	batch, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(batch.Readings))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestHTTPSourceGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), srv.URL, false).WithBackoff(fastBackoff)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for 404 responses")
	}
}

func TestHTTPSourceWithoutURL(t *testing.T) {
	src := NewHTTPSource(http.DefaultClient, "", false)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
