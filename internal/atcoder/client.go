// Package atcoder fetches contest submissions list pages from AtCoder.
//
// The client only retrieves and decodes HTML. Turning pages into records is done by
// the scraper package, and deciding which pages to fetch is done by the crawler.
package atcoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"
)

const (
	DefaultBaseURL   = "https://atcoder.jp"
	DefaultUserAgent = "atcoder-submissions/1.0 (github.com/pfrederiksen/atcoder-submissions)"
	Timeout          = 30 * time.Second

	// maxPageBytes bounds a single listing page; real pages are well under 1 MiB
	maxPageBytes = 8 << 20
)

// StatusError is returned when AtCoder answers with a non-200 status
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether retrying the request may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client fetches submissions list pages
type Client struct {
	client        *http.Client
	baseURL       string
	userAgent     string
	maxRetries    int
	retryInterval time.Duration
}

// NewClient creates a client. maxRetries is the number of extra attempts made after
// a transport error, a 429 or a 5xx response.
func NewClient(baseURL, userAgent string, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:       baseURL,
		userAgent:     userAgent,
		maxRetries:    maxRetries,
		retryInterval: 500 * time.Millisecond,
	}
}

// SubmissionsURL returns the URL of one page of a contest's submissions list
func (c *Client) SubmissionsURL(contestID string, page uint32) string {
	return fmt.Sprintf("%s/contests/%s/submissions?page=%d", c.baseURL, url.PathEscape(contestID), page)
}

// FetchSubmissionPage downloads one page of a contest's submissions list and
// returns it as decoded text
func (c *Client) FetchSubmissionPage(ctx context.Context, contestID string, page uint32) (string, error) {
	pageURL := c.SubmissionsURL(contestID, page)

	var body string
	operation := func() error {
		text, err := c.get(ctx, pageURL)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		body = text
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	if err := backoff.Retry(operation, retries); err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding page: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}
	return string(data), nil
}
