package transition

import (
	"context"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"golang.org/x/time/rate"
)

// Page is one step of a log page stream. Err is set on the last page of a failed stream.
type Page struct {
	Number  int
	Entries []schema.RawLogEntry
	Err     error
}

// StreamOptions controls page pacing and termination.
type StreamOptions struct {
	Limit    int           // Entries per page; a shorter page ends the stream
	Delay    time.Duration // Minimum spacing between page requests
	MaxPages int           // Hard stop; 0 means unbounded
}

// StreamPages fetches log pages in a goroutine and yields them in order on the returned channel.
// The channel closes after the last page, after a failed page, or when ctx is cancelled.
// Callers that stop reading early must cancel ctx to release the goroutine.
func StreamPages(ctx context.Context, fetcher contract.LogFetcher, base schema.LogQuery, opts StreamOptions) <-chan Page {
	ch := make(chan Page)
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	go func() {
		defer close(ch)
		send := func(p Page) bool {
			select {
			case ch <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for n := 1; opts.MaxPages <= 0 || n <= opts.MaxPages; n++ {
			if err := limiter.Wait(ctx); err != nil {
				send(Page{Number: n, Err: err})
				return
			}
			q := base
			q.Page = n
			q.Limit = opts.Limit
			entries, err := fetcher.FetchLogPage(ctx, q)
			if err != nil {
				send(Page{Number: n, Err: err})
				return
			}
			if !send(Page{Number: n, Entries: entries}) {
				return
			}
			if len(entries) < opts.Limit {
				return
			}
		}
	}()
	return ch
}
