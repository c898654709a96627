package latency_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relictum/pkg/latency"
)

func TestMeasure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	ms := latency.Measure(context.Background(), ln.Addr().String(), time.Second)
	assert.GreaterOrEqual(t, ms, int64(0))
}

func TestMeasureUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	assert.Equal(t, latency.Unreachable, latency.Measure(context.Background(), addr, 200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, latency.Unreachable, latency.Measure(ctx, addr, time.Second))
}
