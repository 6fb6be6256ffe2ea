package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html><html><head><title>t</title></head><body><p>hello</p></body></html>`

func TestFetchHTML(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, page, got.Body)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, DefaultUserAgent, userAgent)
	assert.Equal(t, srv.URL, got.URL)
}

func TestFetchStatusError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, http.StatusServiceUnavailable, got.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestFetchRejectsBinary(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	_, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnsupportedContent)
}

func TestFetchDecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body><p>caf\xe9</p></body></html>"))
	}))
	defer srv.Close()

	got, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got.Body, "café")
}

func TestFetchCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer srv.Close()

	got, err := NewClient(Config{MaxBodySize: 100}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, got.Body, 100)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchUnreachable(t *testing.T) {
	_, err := NewClient(Config{Timeout: time.Second}).Fetch(context.Background(), "http://127.0.0.1:1/")
	assert.Error(t, err)
}
