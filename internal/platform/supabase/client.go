// Package supabase talks to the hosted project's REST and Storage endpoints
// with the service key.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Options struct {
	BaseURL    string
	ServiceKey string
	UserAgent  string
	RPS        int
	MaxRetries int
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(opts.RPS))
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		serviceKey: opts.ServiceKey,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: opts.MaxRetries,
		backoff:    time.Second,
	}
}

// StatusError is a non-2xx response that was not retried or ran out of retries.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// CallRPC invokes a Postgres function exposed at /rest/v1/rpc/{name}. args may
// be nil; out may be nil when the function returns void.
func (c *Client) CallRPC(ctx context.Context, name string, args any, out any) error {
	if args == nil {
		args = struct{}{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode rpc args: %w", err)
	}
	u := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, url.PathEscape(name))

	body, err := c.do(ctx, http.MethodPost, u, "application/json", payload)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", name, err)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode rpc %s result: %w", name, err)
	}
	return nil
}

// do sends the request with rate limiting and exponential backoff on 429 and
// 5xx responses. It returns the response body of the first 2xx reply.
func (c *Client) do(ctx context.Context, method, u, contentType string, payload []byte) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", c.serviceKey)
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if retryable(resp.StatusCode) {
				lastErr = statusErr
				continue
			}
			return nil, statusErr
		}
		if readErr != nil {
			return nil, readErr
		}
		return body, nil
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
