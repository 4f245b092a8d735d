package chanserver

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_channels/internal/channels"
)

// pacedFetcher spaces out page fetches shared by concurrent tool calls so
// the server keeps the same request rate as a batch run.
type pacedFetcher struct {
	lim  *rate.Limiter
	next channels.Fetcher
}

func newPacedFetcher(next channels.Fetcher, interval time.Duration) *pacedFetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &pacedFetcher{lim: rate.NewLimiter(limit, 1), next: next}
}

func (p *pacedFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return "", err
	}
	return p.next.FetchPage(ctx, pageURL)
}
