package channels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/anatolykoptev/go_channels/internal/engine"
)

// ChannelResolver resolves a single normalized input.
type ChannelResolver interface {
	Resolve(ctx context.Context, input string) (Record, error)
}

// Batch resolves channels one at a time with a polite randomized pause
// between requests.
type Batch struct {
	Resolver ChannelResolver
	Delay    time.Duration // base pause between channels
	Jitter   time.Duration // uniform extra pause in [0, Jitter)
	Progress io.Writer     // per-channel progress lines; nil discards

	sleep func(ctx context.Context, d time.Duration) error
}

// pause returns the wait before the next channel.
func (b *Batch) pause() time.Duration {
	d := b.Delay
	if b.Jitter > 0 {
		d += rand.N(b.Jitter)
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run resolves every input in order. A failing channel becomes a degraded
// record and never stops the run; on identity mismatch the resolver's own
// record is kept. Only ctx cancellation stops the run, in which case the
// records resolved so far are returned with the context error.
func (b *Batch) Run(ctx context.Context, inputs []string) ([]Record, error) {
	sleep := b.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	out := b.Progress
	if out == nil {
		out = io.Discard
	}

	records := make([]Record, 0, len(inputs))
	for i, input := range inputs {
		if i > 0 {
			if err := sleep(ctx, b.pause()); err != nil {
				return records, err
			}
		}

		var rec Record
		err := engine.TrackOperation(ctx, "resolve "+input, 15*time.Second, func(ctx context.Context) error {
			var err error
			rec, err = b.Resolver.Resolve(ctx, input)
			return err
		})
		switch {
		case errors.Is(err, ErrIdentityMismatch):
			engine.IncrDegraded()
		case err != nil:
			slog.Warn("channel failed", slog.String("input", input), slog.Any("error", err))
			engine.IncrDegraded()
			rec = DegradedRecord(input)
		}
		records = append(records, rec)

		fmt.Fprintf(out, "[%d/%d] %s — subs:%s videos:%s views:%s\n",
			i+1, len(inputs), engine.TruncateRunes(rec.DisplayName(), 60, "…"),
			rec.Subs, rec.Videos, rec.Views)
	}
	return records, nil
}
