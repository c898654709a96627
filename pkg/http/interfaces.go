//go:generate mockgen -destination=mocks/http.go . Fetcher
package http

import (
	"context"
	"io"
)

// Fetcher defines the interface for HTTP GET operations.
type Fetcher interface {
	// Get returns the body of rawURL. Non-2xx statuses are errors matching
	// ErrNetworkFailure; deadline expiry matches ErrNetworkTimeout.
	Get(ctx context.Context, rawURL string) ([]byte, error)

	// Download streams the body of rawURL into w and returns the byte count.
	Download(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}
