package atcoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(serverURL string, maxRetries int) *Client {
	c := NewClient(serverURL, "", maxRetries)
	c.retryInterval = time.Millisecond
	return c
}

func TestNewClient(t *testing.T) {
	c := NewClient("", "", 2)

	if c == nil {
		t.Fatal("NewClient() returned nil")
	}
	if c.client == nil {
		t.Error("client http client is nil")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", c.userAgent, DefaultUserAgent)
	}
}

func TestSubmissionsURL(t *testing.T) {
	c := NewClient("", "", 0)

	got := c.SubmissionsURL("abc107", 2208)
	want := "https://atcoder.jp/contests/abc107/submissions?page=2208"
	if got != want {
		t.Errorf("SubmissionsURL() = %q, want %q", got, want)
	}

	if got := c.SubmissionsURL("abc/../x", 1); strings.Contains(got, "/../") {
		t.Errorf("SubmissionsURL() = %q, contest id should be escaped", got)
	}
}

func TestFetchSubmissionPage(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int // status per attempt; last one repeats
		body         string
		contentType  string
		maxRetries   int
		wantError    bool
		wantAttempts int32
	}{
		{
			name:         "successful fetch",
			statuses:     []int{http.StatusOK},
			body:         "<html><body>ok</body></html>",
			maxRetries:   2,
			wantAttempts: 1,
		},
		{
			name:         "retries server errors",
			statuses:     []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusOK},
			body:         "<html><body>ok</body></html>",
			maxRetries:   3,
			wantAttempts: 3,
		},
		{
			name:         "retries rate limiting",
			statuses:     []int{http.StatusTooManyRequests, http.StatusOK},
			body:         "<html><body>ok</body></html>",
			maxRetries:   1,
			wantAttempts: 2,
		},
		{
			name:         "gives up after max retries",
			statuses:     []int{http.StatusInternalServerError},
			maxRetries:   2,
			wantError:    true,
			wantAttempts: 3,
		},
		{
			name:         "not found is permanent",
			statuses:     []int{http.StatusNotFound},
			maxRetries:   3,
			wantError:    true,
			wantAttempts: 1,
		},
		{
			name:         "decodes declared charset",
			statuses:     []int{http.StatusOK},
			body:         "caf\xe9",
			contentType:  "text/html; charset=iso-8859-1",
			maxRetries:   0,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)

				if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "atcoder-submissions") {
					t.Errorf("User-Agent = %q, should contain 'atcoder-submissions'", ua)
				}
				if r.URL.Path != "/contests/abc107/submissions" || r.URL.Query().Get("page") != "3" {
					t.Errorf("unexpected request %s", r.URL.String())
				}

				status := tt.statuses[len(tt.statuses)-1]
				if int(n) <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(server.URL, tt.maxRetries)
			body, err := c.FetchSubmissionPage(context.Background(), "abc107", 3)

			if tt.wantError {
				if err == nil {
					t.Error("FetchSubmissionPage() expected error, got nil")
				}
			} else if err != nil {
				t.Fatalf("FetchSubmissionPage() unexpected error: %v", err)
			}

			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("server saw %d attempts, want %d", got, tt.wantAttempts)
			}

			if tt.contentType != "" && body != "café" {
				t.Errorf("body = %q, want %q", body, "café")
			} else if tt.contentType == "" && !tt.wantError && body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestFetchSubmissionPage_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).FetchSubmissionPage(context.Background(), "nope", 1)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}
	if statusErr.Temporary() {
		t.Error("404 should not be temporary")
	}
}

func TestFetchSubmissionPage_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL, 5).FetchSubmissionPage(ctx, "abc107", 1)
	if err == nil {
		t.Fatal("FetchSubmissionPage() expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
