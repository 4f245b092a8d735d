package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is returned for a non-success HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// pageHeaders returns the fixed browser-like headers sent with every page request.
func pageHeaders() map[string]string {
	return map[string]string{
		"user-agent":      cfg.UserAgent,
		"accept-language": cfg.AcceptLanguage,
		"accept":          "text/html,*/*",
		"accept-encoding": "gzip",
		"referer":         cfg.Referer,
		"cookie":          cfg.ConsentCookie,
	}
}

// FetchPage performs a single GET of pageURL and returns the body as text.
// Non-200 responses return a *StatusError. There is no retry here: callers
// decide what a failed fetch means.
func FetchPage(ctx context.Context, pageURL string) (body string, err error) {
	metrics.PageFetches.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	if cfg.BrowserClient != nil {
		return fetchWithBrowser(ctx, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range pageHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// fetchWithBrowser routes the request through the Chrome-fingerprinted client.
func fetchWithBrowser(ctx context.Context, pageURL string) (string, error) {
	headers := ChromeHeaders()
	for k, v := range pageHeaders() {
		headers[k] = v
	}
	delete(headers, "accept-encoding")

	type result struct {
		data   []byte
		status int
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		data, _, status, err := cfg.BrowserClient.Do(http.MethodGet, pageURL, headers, nil)
		ch <- result{data, status, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		if r.status != http.StatusOK {
			return "", &StatusError{StatusCode: r.status}
		}
		if int64(len(r.data)) > cfg.MaxBodyBytes {
			r.data = r.data[:cfg.MaxBodyBytes]
		}
		return string(r.data), nil
	}
}

// readResponseBody reads the response body, handling gzip decompression if needed.
func readResponseBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, cfg.MaxBodyBytes))
}
