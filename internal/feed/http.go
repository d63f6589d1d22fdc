package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
)

// DefaultFetchTimeout bounds a single feed request when none is configured.
const DefaultFetchTimeout = 30 * time.Second

// HTTP fetches each feed from its own URL, typically a spreadsheet
// published as CSV.
type HTTP struct {
	URLs      map[core.FeedKind]string
	MaxBytes  int64 // 0 means core.DefaultMaxFeedBytes
	UserAgent string

	client *http.Client
}

// NewHTTP creates an HTTP source. timeout <= 0 uses DefaultFetchTimeout.
func NewHTTP(urls map[core.FeedKind]string, timeout time.Duration, maxBytes int64) *HTTP {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTP{
		URLs:      urls,
		MaxBytes:  maxBytes,
		UserAgent: "training-scheduler/1.0",
		client:    &http.Client{Timeout: timeout},
	}
}

// WithClient replaces the underlying HTTP client.
func (h *HTTP) WithClient(c *http.Client) *HTTP {
	h.client = c
	return h
}

// Fetch downloads the feed for kind. Any non-2xx status is an error.
func (h *HTTP) Fetch(ctx context.Context, kind core.FeedKind) (string, error) {
	url, ok := h.URLs[kind]
	if !ok || url == "" {
		return "", fmt.Errorf("%s: %w", kind, ErrFeedNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	client := h.client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s feed: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s feed: unexpected status %s", kind, resp.Status)
	}

	return core.ReadFeed(resp.Body, h.MaxBytes)
}
