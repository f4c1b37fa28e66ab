package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// Fetcher performs single outbound GETs against fully-formed upstream URLs.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
	maxTries  uint
	maxBytes  int64
	metrics   *Metrics
}

// NewFetcher builds a Fetcher from cfg. A nil metrics sink is allowed.
func NewFetcher(cfg Config, metrics *Metrics) *Fetcher {
	cfg = cfg.withDefaults()
	if metrics == nil {
		metrics = &Metrics{}
	}
	limit := rate.Inf
	if cfg.UpstreamRPS > 0 {
		limit = rate.Limit(cfg.UpstreamRPS)
	}
	return &Fetcher{
		client:    cfg.HTTPClient,
		limiter:   rate.NewLimiter(limit, cfg.UpstreamBurst),
		userAgent: cfg.UserAgent,
		timeout:   cfg.FetchTimeout,
		maxTries:  uint(cfg.FetchMaxTries),
		maxBytes:  cfg.FetchMaxBytes,
		metrics:   metrics,
	}
}

// newFetchClient creates the HTTP client used for upstream calls.
func newFetchClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 20
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 60 * time.Second
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Fetch GETs rawURL and returns the body verbatim. Any failure, including a
// non-2xx status or the timeout, is returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.metrics.FetchRequests.Add(1)

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		if attempt > 1 {
			f.metrics.FetchRetries.Add(1)
			slog.Debug("fetch: retrying", slog.String("url", rawURL), slog.Int("attempt", attempt))
		}
		body, err := f.fetchOnce(ctx, rawURL)
		if err != nil && !isRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(f.maxTries),
		backoff.WithMaxElapsedTime(f.timeout),
	)
	if err != nil {
		f.metrics.FetchErrors.Add(1)
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: ErrBodyTooLarge}
	}
	return body, nil
}
