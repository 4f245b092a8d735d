package chanserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_channels/internal/channels"
	"github.com/anatolykoptev/go_channels/internal/engine"
)

// Config wires the tools to the resolver and the batch output file.
type Config struct {
	Fetcher      channels.Fetcher
	Options      channels.Options
	DatasetPath  string
	FetchSpacing time.Duration
}

// RegisterTools registers the channel tools on the given MCP server:
// channel_stats, channel_dataset.
func RegisterTools(server *mcp.Server, c Config) {
	resolver := channels.NewResolver(newPacedFetcher(c.Fetcher, c.FetchSpacing), c.Options)
	registerChannelStats(server, resolver)
	registerChannelDataset(server, c.DatasetPath)
}

func registerChannelStats(server *mcp.Server, resolver channels.ChannelResolver) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_stats",
		Description: "Fetch a YouTube channel's about page and return subscriber, video and view counts with title, avatar and verified badge. Accepts a channel id (UC...), @handle, legacy name or channel URL. Hidden subscriber counts come back as null with hidden_subs=true.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelStatsInput) (*mcp.CallToolResult, ChannelStats, error) {
		out, err := channelStats(ctx, resolver, input)
		return nil, out, err
	})
}

func channelStats(ctx context.Context, resolver channels.ChannelResolver, input ChannelStatsInput) (ChannelStats, error) {
	channel := channels.NormalizeInput(input.Channel)
	if channel == "" {
		return ChannelStats{}, errors.New("channel is required")
	}

	cacheKey := engine.CacheKey("channel_stats", channel)
	if out, ok := engine.CacheLoadJSON[ChannelStats](ctx, cacheKey); ok {
		return out, nil
	}

	rec, err := resolver.Resolve(ctx, channel)
	if errors.Is(err, channels.ErrIdentityMismatch) {
		// Served but not cached: the page may have been a stale response.
		return toStats(rec), nil
	}
	if err != nil {
		slog.Warn("channel_stats: resolve failed", slog.String("channel", channel), slog.Any("error", err))
		return ChannelStats{}, err
	}
	out := toStats(rec)
	engine.CacheStoreJSON(ctx, cacheKey, out)
	return out, nil
}

func registerChannelDataset(server *mcp.Server, path string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_dataset",
		Description: "Return channels from the last batch snapshot, sorted by name. Optionally filter by a case-insensitive substring of the title or handle.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ChannelDatasetInput) (*mcp.CallToolResult, ChannelDatasetOutput, error) {
		out, err := channelDataset(path, input)
		return nil, out, err
	})
}

func channelDataset(path string, input ChannelDatasetInput) (ChannelDatasetOutput, error) {
	ds, err := channels.ReadDataset(path)
	if err != nil {
		return ChannelDatasetOutput{}, err
	}
	matched := ds.Filter(input.Query)
	total := len(matched)
	if input.Limit > 0 && len(matched) > input.Limit {
		matched = matched[:input.Limit]
	}
	out := ChannelDatasetOutput{
		GeneratedAt: ds.GeneratedAt,
		Total:       total,
		Channels:    make([]ChannelStats, 0, len(matched)),
	}
	for _, r := range matched {
		out.Channels = append(out.Channels, toStats(r))
	}
	return out, nil
}
