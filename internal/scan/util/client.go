package util

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// Client is the outbound HTTP side of every scanner: one User-Agent, one
// politeness limiter and one retry policy shared across sources.
type Client struct {
	HTTP      *http.Client
	Limiter   *HostLimiter
	UserAgent string
	executor  failsafe.Executor[*http.Response]
}

func NewClient(userAgent string, interval, timeout time.Duration) *Client {
	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(200*time.Millisecond, 2*time.Second).
		WithMaxRetries(2).
		WithJitterFactor(0.1).
		HandleIf(func(resp *http.Response, err error) bool {
			return shouldRetry(resp, err)
		}).
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			// drop the failed attempt's body before retrying
			if r := e.LastResult(); r != nil {
				_ = r.Body.Close()
			}
		}).
		Build()

	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Limiter:   NewHostLimiter(interval),
		UserAgent: userAgent,
		executor:  failsafe.With(retry),
	}
}

// shouldRetry covers transport errors, 5xx and 429. 403 is not retried:
// reddit's block page will not clear on retry, the HTML fallback handles
// it instead.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil || resp == nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// StatusError reports a non-2xx response so callers can branch on the code.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d", e.URL, e.Code)
}

// Get performs a paced GET with the standard headers. The caller owns the
// response body and decides which statuses are fatal for its source.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	if err := c.Limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}
	return c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return c.HTTP.Do(req)
	})
}

// GetJSON pulls one JSON document into v. Non-2xx becomes a *StatusError.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, v any) error {
	resp, err := c.Get(ctx, rawURL, header)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}
