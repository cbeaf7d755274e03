package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL points at the free dictionary API used for word lookups.
const DefaultBaseURL = "https://api.dictionaryapi.dev"

// Client is a minimal HTTP client for a lookup-by-word dictionary endpoint.
// Lookups are best-effort: callers are expected to treat any error as
// "word not found" and keep going.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// NewClient allows customizing HTTP timeout and retry/backoff behavior.
func NewClient(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 5 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 2
	}
	if baseDelay <= 0 {
		baseDelay = 200 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		baseURL:          DefaultBaseURL,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// NewClientWithBaseURL allows injecting a custom base URL (used in tests).
func NewClientWithBaseURL(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration, baseURL string) *Client {
	c := NewClient(httpTimeout, retryMax, baseDelay, maxDelay)
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// Lookup reports whether the dictionary knows the given word.
// A 404 from the endpoint is the not-found signal and is not an error;
// any definition payload beyond presence is discarded.
func (c *Client) Lookup(ctx context.Context, word string) (bool, error) {
	word = strings.TrimSpace(strings.ToLower(word))
	if word == "" {
		return false, errors.New("word cannot be empty")
	}
	endpoint := c.baseURL + "/api/v2/entries/en/" + url.PathEscape(word)

	maxAttempts := c.retryMaxAttempts
	backoff := c.retryBaseDelay
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return false, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < maxAttempts {
				lastErr = err
				time.Sleep(withJitter(backoff))
				backoff *= 2
				continue
			}
			return false, &UnreachableError{Host: c.baseURL, Err: err}
		}

		found, retry, err := c.handleResponse(resp)
		if err == nil {
			return found, nil
		}
		lastErr = err
		if !retry || attempt >= maxAttempts {
			break
		}
		sleep := withJitter(backoff)
		if c.retryMaxDelay > 0 && sleep > c.retryMaxDelay {
			sleep = c.retryMaxDelay
		}
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			sleep = rl.RetryAfter
		}
		time.Sleep(sleep)
		backoff *= 2
	}
	return false, lastErr
}

// handleResponse closes the body and maps the status code to a lookup result,
// a retry decision, and a typed error.
func (c *Client) handleResponse(resp *http.Response) (found, retry bool, err error) {
	defer resp.Body.Close()
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Presence is all that matters; drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<10))
		return true, false, nil
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<10))
		return false, false, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var raw map[string]any
	_ = json.Unmarshal(body, &raw)
	if msg, ok := raw["message"].(string); ok {
		apiErr.Message = msg
	} else if title, ok := raw["title"].(string); ok {
		apiErr.Message = title
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, perr := parseRetryAfterSeconds(v); perr == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return false, true, &RateLimitError{APIError: apiErr, RetryAfter: ra}
	}
	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return false, true, &ServerError{APIError: apiErr}
	}
	return false, false, apiErr
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) {
		if nerr.Timeout() {
			return true
		}
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	return false
}

// parseRetryAfterSeconds tries to interpret Retry-After header value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 200 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
