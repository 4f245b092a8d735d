package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestConfig(t *testing.T, c Config) {
	t.Helper()
	prev := cfg
	Init(c)
	t.Cleanup(func() {
		cfg = prev
		Cfg = &cfg
	})
}

func TestFetchPage_SendsPageHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	withTestConfig(t, Config{HTTPClient: srv.Client()})

	body, err := FetchPage(context.Background(), srv.URL+"/@chan/about")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, DefaultAcceptLanguage, got.Get("Accept-Language"))
	assert.Equal(t, DefaultConsentCookie, got.Get("Cookie"))
	assert.Equal(t, DefaultReferer, got.Get("Referer"))
	assert.Contains(t, got.Get("Accept"), "text/html")
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	withTestConfig(t, Config{HTTPClient: srv.Client()})

	_, err := FetchPage(context.Background(), srv.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "429 Too Many Requests", se.Error())
}

func TestFetchPage_Gzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("compressed page"))
		_ = gz.Close()
	}))
	defer srv.Close()

	// A bare transport leaves decompression to readResponseBody.
	withTestConfig(t, Config{HTTPClient: &http.Client{Transport: &http.Transport{DisableCompression: true}}})

	body, err := FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "compressed page", body)
}

func TestFetchPage_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	withTestConfig(t, Config{HTTPClient: srv.Client(), MaxBodyBytes: 10})

	body, err := FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 10)
}

func TestFetchPage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	withTestConfig(t, Config{HTTPClient: srv.Client(), FetchTimeout: 50 * time.Millisecond})

	_, err := FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestFetchPage_CountsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	withTestConfig(t, Config{HTTPClient: srv.Client()})

	before := GetMetrics()
	_, _ = FetchPage(context.Background(), srv.URL)
	after := GetMetrics()
	assert.Equal(t, before["page_fetches"]+1, after["page_fetches"])
	assert.Equal(t, before["fetch_errors"]+1, after["fetch_errors"])
}
