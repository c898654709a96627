package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	hc := NewHTTPClient(time.Second, "")
	assert.Equal(t, DefaultUserAgent, hc.userAgent)
	assert.Equal(t, time.Second, hc.client.Timeout)

	hc = NewHTTPClient(0, "custom/2.0")
	assert.Equal(t, "custom/2.0", hc.userAgent)
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	hc := NewHTTPClient(0, "relictum-test")

	t.Run("success sends user agent", func(t *testing.T) {
		body, err := hc.Get(context.Background(), server.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, "relictum-test", string(body))
	})

	t.Run("status error", func(t *testing.T) {
		_, err := hc.Get(context.Background(), server.URL+"/missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNetworkFailure)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := hc.Get(ctx, server.URL+"/slow")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNetworkTimeout)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := hc.Get(context.Background(), "http://127.0.0.1:1/")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNetworkFailure)
	})
}

func TestGet_OversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path[1:]))
	}))
	defer server.Close()

	hc := NewHTTPClient(time.Second, "")
	hc.maxBody = 8

	data, err := hc.Get(context.Background(), server.URL+"/12345678")
	require.NoError(t, err, "exactly at the limit")
	assert.Equal(t, "12345678", string(data))

	data, err = hc.Get(context.Background(), server.URL+"/123456789")
	require.ErrorIs(t, err, errors.ErrResponseTooLarge)
	assert.Nil(t, data)
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	n, err := NewHTTPClient(time.Second, "").Download(context.Background(), server.URL, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", buf.String())
}
