package channels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_channels/internal/engine"
)

// ErrIdentityMismatch means the fetched page belongs to a different channel
// than the one requested, typically a stale cached response.
var ErrIdentityMismatch = errors.New("page identity mismatch")

// Fetcher retrieves a page body. A non-success response is an error.
type Fetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, pageURL string) (string, error)

func (f FetcherFunc) FetchPage(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

// Options is the static resolver configuration.
type Options struct {
	BaseURL           string
	Language          string
	Region            string
	Markers           []string
	IdentityAttempts  int
	IdentityRetryWait time.Duration
	VideoSanity       VideoSanityPolicy
}

// DefaultOptions pins the page to English/US and allows one identity retry.
func DefaultOptions() Options {
	return Options{
		BaseURL:           "https://www.youtube.com",
		Language:          "en",
		Region:            "US",
		Markers:           DefaultMarkers,
		IdentityAttempts:  2,
		IdentityRetryWait: 500 * time.Millisecond,
		VideoSanity:       DefaultVideoSanity,
	}
}

// Resolver turns one channel identifier into a Record.
type Resolver struct {
	fetch Fetcher
	opts  Options
	bust  atomic.Int64
	now   func() time.Time
}

// NewResolver creates a Resolver. Zero-valued options fall back to DefaultOptions.
func NewResolver(f Fetcher, opts Options) *Resolver {
	d := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = d.BaseURL
	}
	if opts.Language == "" {
		opts.Language = d.Language
	}
	if opts.Region == "" {
		opts.Region = d.Region
	}
	if len(opts.Markers) == 0 {
		opts.Markers = d.Markers
	}
	if opts.IdentityAttempts <= 0 {
		opts.IdentityAttempts = d.IdentityAttempts
	}
	return &Resolver{fetch: f, opts: opts, now: time.Now}
}

// nextBust returns a cache-busting value that is distinct from every value
// previously issued by r, even within the same millisecond.
func (r *Resolver) nextBust() int64 {
	for {
		prev := r.bust.Load()
		next := max(r.now().UnixMilli(), prev+1)
		if r.bust.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// AboutURL builds the about-page request URL with locale pins and a cache buster.
func (r *Resolver) AboutURL(input string, bust int64) (string, error) {
	u, err := url.Parse(ChannelURL(r.opts.BaseURL, input) + "/about")
	if err != nil {
		return "", fmt.Errorf("about url for %q: %w", input, err)
	}
	q := u.Query()
	q.Set("hl", r.opts.Language)
	q.Set("gl", r.opts.Region)
	q.Set("persist_hl", "1")
	q.Set("persist_gl", "1")
	q.Set("_cb", strconv.FormatInt(bust, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Resolve fetches the about page for input and extracts its record.
//
// A page whose identity does not match input is refetched with a fresh
// cache buster. If it still does not match, Resolve returns a degraded
// record with absent metrics together with ErrIdentityMismatch. Transport
// errors are returned unretried with a zero Record.
func (r *Resolver) Resolve(ctx context.Context, input string) (Record, error) {
	var basics PageBasics
	attempt := 0

	op := func() (string, error) {
		attempt++
		if attempt > 1 {
			engine.IncrIdentityRetry()
		}
		pageURL, err := r.AboutURL(input, r.nextBust())
		if err != nil {
			return "", backoff.Permanent(err)
		}
		page, err := r.fetch.FetchPage(ctx, pageURL)
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("fetch %s: %w", input, err))
		}
		basics = ExtractBasics(page)
		if !MatchesPage(input, basics) {
			engine.IncrIdentityMismatch()
			slog.Debug("identity mismatch",
				slog.String("input", input),
				slog.Int("attempt", attempt),
				slog.String("page_handle", basics.Handle),
				slog.String("page_id", basics.ID))
			return "", ErrIdentityMismatch
		}
		return page, nil
	}

	page, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.opts.IdentityRetryWait)),
		backoff.WithMaxTries(uint(r.opts.IdentityAttempts)),
	)
	if errors.Is(err, ErrIdentityMismatch) {
		slog.Warn("page identity mismatch, metrics dropped",
			slog.String("input", input), slog.Int("attempts", attempt))
		return MismatchRecord(input, basics), err
	}
	if err != nil {
		return Record{}, err
	}

	payload := LocatePayload(page, r.opts.Markers)
	if payload != nil {
		engine.IncrPayloadHit()
	} else {
		engine.IncrPayloadMiss()
	}
	m := ResolveMetrics(payload, page, r.opts.VideoSanity)
	engine.IncrResolved()
	return NewRecord(input, basics, m), nil
}
