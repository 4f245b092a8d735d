package chanserver

import "github.com/anatolykoptev/go_channels/internal/channels"

// ChannelStatsInput is the input for channel_stats.
type ChannelStatsInput struct {
	Channel string `json:"channel" jsonschema:"Channel id (UC...), @handle, legacy name, or channel URL"`
}

// ChannelDatasetInput is the input for channel_dataset.
type ChannelDatasetInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive substring matched against title and handle"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max channels returned (default: all)"`
}

// ChannelStats is one channel as returned by the tools. Absent counters are null.
type ChannelStats struct {
	Input      string `json:"input"`
	ID         string `json:"id,omitempty"`
	Handle     string `json:"handle,omitempty"`
	Title      string `json:"title"`
	Pfp        string `json:"pfp,omitempty"`
	Verified   bool   `json:"verified"`
	Subs       *int64 `json:"subs"`
	Videos     *int64 `json:"videos"`
	Views      *int64 `json:"views"`
	HiddenSubs bool   `json:"hidden_subs"`
}

// ChannelDatasetOutput is the output of channel_dataset.
type ChannelDatasetOutput struct {
	GeneratedAt string         `json:"generated_at"`
	Total       int            `json:"total"` // matches before limit
	Channels    []ChannelStats `json:"channels"`
}

func countPtr(c channels.Count) *int64 {
	v, ok := c.Get()
	if !ok {
		return nil
	}
	return &v
}

func toStats(r channels.Record) ChannelStats {
	s := ChannelStats{
		Input:      r.Input,
		Handle:     r.Handle,
		Title:      r.Title,
		Pfp:        r.Pfp,
		Verified:   r.Verified,
		Subs:       countPtr(r.Subs),
		Videos:     countPtr(r.Videos),
		Views:      countPtr(r.Views),
		HiddenSubs: r.HiddenSubs,
	}
	if r.ID != nil {
		s.ID = *r.ID
	}
	return s
}
