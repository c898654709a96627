// Package latency measures the round trip to a game login server.
package latency

import (
	"context"
	"net"
	"time"
)

const (
	// DefaultAddress is the login server measured when none is configured.
	DefaultAddress = "logon.warmane.com:3724"
	// DefaultTimeout bounds one measurement.
	DefaultTimeout = 2 * time.Second
)

// Unreachable is returned when the server cannot be reached.
const Unreachable int64 = -1

// Measure opens a TCP connection to address and returns the connect time in
// milliseconds, or Unreachable.
func Measure(ctx context.Context, address string, timeout time.Duration) int64 {
	if address == "" {
		address = DefaultAddress
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return Unreachable
	}
	elapsed := time.Since(start).Milliseconds()
	_ = conn.Close()
	return elapsed
}
