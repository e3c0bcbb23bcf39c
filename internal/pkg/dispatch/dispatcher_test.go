package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestDispatcher(endpoint string) *Dispatcher {
	return New(Config{
		Endpoint:    endpoint,
		Timeout:     2 * time.Second,
		MaxAttempts: 4,
		BackoffBase: time.Millisecond,
	})
}

func TestSendRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("accepted"))
	}))
	defer srv.Close()

	d := newTestDispatcher(srv.URL)
	res, err := d.Send(context.Background(), map[string]string{"sport": "soccer"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
	if res.Body != "accepted" {
		t.Errorf("Body = %q, want %q", res.Body, "accepted")
	}
}

func TestSendTerminalStatusNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad payload"))
	}))
	defer srv.Close()

	d := newTestDispatcher(srv.URL)
	res, err := d.Send(context.Background(), map[string]string{})
	if err == nil {
		t.Fatalf("Send() expected error for terminal status")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
	if res.Body != "bad payload" {
		t.Errorf("Body = %q, want surfaced response body", res.Body)
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "bad payload") {
		t.Errorf("error %q must carry status and body", err)
	}
}

func TestSendExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := newTestDispatcher(srv.URL)
	res, err := d.Send(context.Background(), map[string]string{})
	if err == nil {
		t.Fatalf("Send() expected exhaustion error")
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("server calls = %d, want 4", got)
	}
	if res.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", res.Attempts)
	}
	if !strings.Contains(err.Error(), "after 4 attempts") {
		t.Errorf("error = %q, want exhaustion message", err)
	}
}

func TestSendBackoffGrows(t *testing.T) {
	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		if len(stamps) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := New(Config{
		Endpoint:    srv.URL,
		Timeout:     2 * time.Second,
		MaxAttempts: 4,
		BackoffBase: 20 * time.Millisecond,
	})
	if _, err := d.Send(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(stamps) != 3 {
		t.Fatalf("server calls = %d, want 3", len(stamps))
	}
	// base*1² then base*2²: second gap must exceed the first.
	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	if second <= first {
		t.Errorf("backoff not increasing: first %v, second %v", first, second)
	}
}

func TestSendCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := New(Config{
		Endpoint:    srv.URL,
		MaxAttempts: 4,
		BackoffBase: time.Hour,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := d.Send(ctx, struct{}{}); err == nil {
		t.Fatalf("Send() expected context error")
	}
}
