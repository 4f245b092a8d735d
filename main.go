// go_channels: YouTube channel about-page metrics scraper and MCP server.
//
// Default mode resolves every channel in CHANNELS_FILE one at a time and
// writes a sorted snapshot to OUTPUT_FILE for the static front end.
// "serve" exposes the same resolver as MCP tools: channel_stats, channel_dataset.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_channels/internal/channels"
	"github.com/anatolykoptev/go_channels/internal/chanserver"
	"github.com/anatolykoptev/go_channels/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version      = "dev"
	mcpPort      = env.Str("MCP_PORT", "8892")
	channelsFile = env.Str("CHANNELS_FILE", "channels.json")
	outputFile   = env.Str("OUTPUT_FILE", "web/data.json")
)

func main() {
	initLogger(env.Str("LOG_LEVEL", "info"))
	initEngine()
	opts := resolverOptions()

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "run":
		if err := runBatch(opts); err != nil {
			slog.Error("batch failed", slog.Any("error", err))
			os.Exit(1)
		}
	case "serve":
		serve(opts)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [run|serve]\n", os.Args[0])
		os.Exit(2)
	}
}

func runBatch(opts channels.Options) error {
	inputs, err := channels.LoadInputs(channelsFile)
	if err != nil {
		return err
	}
	slog.Info("starting batch", slog.Int("channels", len(inputs)), slog.String("output", outputFile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch := &channels.Batch{
		Resolver: channels.NewResolver(channels.FetcherFunc(engine.FetchPage), opts),
		Delay:    env.Duration("REQUEST_DELAY", 700*time.Millisecond),
		Jitter:   env.Duration("REQUEST_JITTER", 400*time.Millisecond),
		Progress: os.Stdout,
	}
	records, err := batch.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("batch interrupted after %d channels: %w", len(records), err)
	}

	if err := channels.WriteDataset(outputFile, channels.NewDataset(records, time.Now())); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d channels → %s\n", len(records), outputFile)
	engine.LogMetrics("batch finished")
	return nil
}

func serve(opts channels.Options) {
	engine.InitCache(
		env.Str("REDIS_URL", ""),
		env.Duration("CACHE_TTL", 6*time.Hour),
		engine.Cfg.CacheMaxEntries,
		engine.Cfg.CacheCleanupInterval,
	)

	slog.Info("starting go_channels", slog.String("port", mcpPort))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_channels",
		Version: version,
	}, nil)

	chanserver.RegisterTools(server, chanserver.Config{
		Fetcher:      channels.FetcherFunc(engine.FetchPage),
		Options:      opts,
		DatasetPath:  outputFile,
		FetchSpacing: env.Duration("REQUEST_DELAY", 700*time.Millisecond),
	})
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_channels",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func initEngine() {
	c := engine.Config{
		UserAgent:            env.Str("USER_AGENT", engine.DefaultUserAgent),
		AcceptLanguage:       env.Str("ACCEPT_LANGUAGE", engine.DefaultAcceptLanguage),
		ConsentCookie:        env.Str("CONSENT_COOKIE", engine.DefaultConsentCookie),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 20*time.Second),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 500),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
	}

	if envBool("STEALTH_CLIENT", false) {
		bc, err := engine.NewBrowserClient(int(c.FetchTimeout/time.Second), env.Str("WEBSHARE_API_KEY", ""))
		if err != nil {
			slog.Error("stealth client init failed, using net/http", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	engine.Init(c)
}

func resolverOptions() channels.Options {
	opts := channels.DefaultOptions()
	opts.IdentityAttempts = env.Int("IDENTITY_ATTEMPTS", opts.IdentityAttempts)
	opts.IdentityRetryWait = env.Duration("IDENTITY_RETRY_WAIT", opts.IdentityRetryWait)
	opts.VideoSanity = channels.VideoSanityPolicy{
		RejectEqual: envBool("VIDEO_SANITY_REJECT_EQUAL", true),
		MaxVideos:   int64(env.Int("VIDEO_SANITY_MAX", int(channels.DefaultVideoSanity.MaxVideos))),
	}
	if markers := env.List("MARKERS", ""); len(markers) > 0 {
		opts.Markers = markers
	}
	return opts
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(env.Str(key, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return b
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
