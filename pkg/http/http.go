// Package http is the single outbound HTTP client: catalog pages, trust
// tables, release metadata and package downloads all go through it.
package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// DefaultUserAgent is sent when none is configured.
const DefaultUserAgent = "relictum/1.0"

// MaxBodySize caps Get responses; downloads are not capped.
const MaxBodySize = 16 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d for %s", e.StatusCode, e.URL)
}

// Unwrap lets callers match ErrNetworkFailure.
func (e *StatusError) Unwrap() error { return errors.ErrNetworkFailure }

// HTTPClient handles HTTP operations.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPClient creates a new HTTP client. A zero timeout leaves deadlines to
// the caller's context.
func NewHTTPClient(timeout time.Duration, userAgent string) *HTTPClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		maxBody:   MaxBodySize,
	}
}

// Get fetches rawURL and returns its body. A body larger than MaxBodySize is
// an error matching ErrResponseTooLarge, never a truncated page.
func (hc *HTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := hc.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, hc.maxBody+1))
	if err != nil {
		return nil, classify(ctx, errors.Wrap(err, "failed to read response body"))
	}
	if int64(len(data)) > hc.maxBody {
		return nil, fmt.Errorf("%s: body exceeds %d bytes: %w", rawURL, hc.maxBody, errors.ErrResponseTooLarge)
	}
	return data, nil
}

// Download streams rawURL into w.
func (hc *HTTPClient) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	resp, err := hc.do(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, classify(ctx, errors.Wrap(err, "failed to write response body"))
	}
	return n, nil
}

func (hc *HTTPClient) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w: %w", errors.ErrNetworkFailure, err)
	}
	req.Header.Set("User-Agent", hc.userAgent)

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// classify maps transport errors onto ErrNetworkTimeout or ErrNetworkFailure.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, errors.ErrNetworkTimeout) || errors.Is(err, errors.ErrNetworkFailure) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errors.ErrNetworkTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", errors.ErrNetworkTimeout, err)
	}
	return fmt.Errorf("%w: %w", errors.ErrNetworkFailure, err)
}
