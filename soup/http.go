package soup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher performs outbound GET requests for the query engine. Responses
// are not cached, retried or rate limited here; that belongs to the caller.
type Fetcher struct {
	Client      *http.Client
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64
}

type FetchError struct {
	URL    string
	Status int
	Err    error
}

type FetchTimeoutError struct {
	URL     string
	Timeout time.Duration
}

// ParseError reports a response body that could not be repaired into a
// document tree.
type ParseError struct {
	URL string
	Err error
}

const DefaultTimeout = 30 * time.Second
const DefaultMaxBodySize = 10 << 20

// Fetch GETs url and parses the response body into a document. The request
// is bounded by f.Timeout and aborted when ctx is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Node, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			return nil, &FetchTimeoutError{URL: url, Timeout: timeout}
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: res.StatusCode}
	}
	body := io.Reader(res.Body)
	if max := f.MaxBodySize; max > 0 {
		body = io.LimitReader(body, max)
	}
	n, err := Parse(body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			return nil, &FetchTimeoutError{URL: url, Timeout: timeout}
		}
		return nil, &ParseError{URL: url, Err: err}
	}
	return n, nil
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchTimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: timeout after %s", e.URL, e.Timeout)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
