// Package dispatch ships canonical payloads to the collector endpoint with
// bounded retries on transient HTTP failures.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint    = "https://www.hh24tech.com/connector/index.php"
	DefaultMaxAttempts = 4
	DefaultBackoffBase = 400 * time.Millisecond
	DefaultTimeout     = 25 * time.Second
)

// transientStatuses is the fixed retryable set; every other non-2xx status
// is terminal.
var transientStatuses = map[int]bool{
	http.StatusRequestTimeout:     true,
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// Result carries the outcome of a send. Body is populated from the last
// response regardless of status so callers can log collector diagnostics.
type Result struct {
	Status   int
	Body     string
	Attempts int
}

type Config struct {
	Endpoint    string
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	RateLimit   float64
}

type Dispatcher struct {
	endpoint    string
	client      *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	backoffBase time.Duration
}

func New(cfg Config) *Dispatcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Dispatcher{
		endpoint:    cfg.Endpoint,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(limit, 1),
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
	}
}

// Send serializes payload as JSON and POSTs it. Transient statuses are
// retried with quadratic backoff (base * attempt²); any other non-2xx status
// returns immediately with the response body in the error. Network errors
// count as transient.
func (d *Dispatcher) Send(ctx context.Context, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var res Result
	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		res.Attempts = attempt

		if err := d.limiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("rate limiter wait: %w", err)
		}

		status, respBody, err := d.post(ctx, body)
		if err != nil {
			lastErr = err
			slog.Warn("Dispatch attempt failed", "attempt", attempt, "error", err)
			if err := d.sleep(ctx, attempt); err != nil {
				return res, err
			}
			continue
		}

		res.Status = status
		res.Body = respBody

		if status >= 200 && status < 300 {
			return res, nil
		}
		if transientStatuses[status] {
			lastErr = fmt.Errorf("HTTP %d: %s", status, respBody)
			slog.Warn("Dispatch got transient status", "attempt", attempt, "status", status)
			if err := d.sleep(ctx, attempt); err != nil {
				return res, err
			}
			continue
		}
		return res, fmt.Errorf("HTTP %d: %s", status, respBody)
	}

	return res, fmt.Errorf("post failed after %d attempts: %w", d.maxAttempts, lastErr)
}

func (d *Dispatcher) post(ctx context.Context, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, string(respBody), nil
}

// sleep waits base * attempt² or until ctx is done.
func (d *Dispatcher) sleep(ctx context.Context, attempt int) error {
	delay := d.backoffBase * time.Duration(attempt*attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
