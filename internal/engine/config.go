package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	UserAgent            string
	AcceptLanguage       string
	ConsentCookie        string
	Referer              string
	FetchTimeout         time.Duration
	MaxBodyBytes         int64
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = plain net/http fetches
}

// Request defaults for channel pages. Pinned to an English desktop browser so
// the about page renders the same labels everywhere.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultConsentCookie  = "CONSENT=YES+1"
	DefaultReferer        = "https://www.youtube.com/"
	defaultMaxBodyBytes   = 8 * 1024 * 1024
)

var cfg = DefaultConfig()

// Cfg exposes the engine configuration for sub-packages (channels, chanserver).
// Always points to the current cfg value.
var Cfg = &cfg

// DefaultConfig returns a Config usable without any environment.
func DefaultConfig() Config {
	return Config{
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		ConsentCookie:  DefaultConsentCookie,
		Referer:        DefaultReferer,
		FetchTimeout:   20 * time.Second,
		MaxBodyBytes:   defaultMaxBodyBytes,
		HTTPClient:     newFetchClient(),
	}
}

// Init initializes the engine with the given configuration.
// Zero-valued request fields fall back to the defaults.
func Init(c Config) {
	d := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = d.AcceptLanguage
	}
	if c.ConsentCookie == "" {
		c.ConsentCookie = d.ConsentCookie
	}
	if c.Referer == "" {
		c.Referer = d.Referer
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.HTTPClient == nil {
		c.HTTPClient = d.HTTPClient
	}
	cfg = c
	Cfg = &cfg
}
