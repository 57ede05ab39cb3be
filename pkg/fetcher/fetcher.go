// Package fetcher wraps net/http with the retry policy used for capture
// downloads: transient failures (connection errors, timeouts, 5xx) are
// retried with linear backoff, 4xx responses are terminal.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"offliner/pkg/config"
)

// StatusError is returned when the server answered with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

type Fetcher struct {
	client *http.Client
	cfg    config.FetchConfig
}

func New(cfg config.FetchConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Get downloads one resource. It returns the body, the last HTTP status
// observed (0 if no response was received), and an error after the retry
// budget is exhausted or a terminal status is seen.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, int, error) {
	var lastErr error
	lastStatus := 0

	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := f.backoff(ctx, attempt-1); err != nil {
				return nil, lastStatus, err
			}
		}

		body, status, err := f.getOnce(ctx, url)
		if err == nil {
			return body, status, nil
		}
		lastErr = err
		if status > 0 {
			lastStatus = status
		}

		if ctx.Err() != nil {
			return nil, lastStatus, ctx.Err()
		}
		if status >= 400 && status < 500 {
			// Client errors will not get better on retry.
			return nil, status, err
		}
	}
	return nil, lastStatus, fmt.Errorf("giving up after %d attempts: %w", f.cfg.MaxAttempts, lastErr)
}

func (f *Fetcher) getOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBytes {
		return nil, resp.StatusCode, fmt.Errorf("response exceeds %d byte limit", f.cfg.MaxBytes)
	}
	return body, resp.StatusCode, nil
}

// backoff sleeps attempt*Backoff, abandoning the wait on cancellation.
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	t := time.NewTimer(time.Duration(attempt) * f.cfg.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
