package cache

import (
	"context"
	"log/slog"
	"time"
)

// RefreshFunc recomputes one view from chain state. The returned value
// replaces the cached view wholesale.
type RefreshFunc func(ctx context.Context) (any, error)

// Refresher re-fetches registered views on a fixed interval and immediately
// after invalidation. There is no incremental fetch: every refresh is a full
// re-scan and re-join.
type Refresher struct {
	store    *Store
	interval time.Duration
	views    map[Key]RefreshFunc
	logger   *slog.Logger
}

// NewRefresher creates a refresher over the store. Intervals in the observed
// system sit between 5 and 15 seconds.
func NewRefresher(store *Store, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Refresher{
		store:    store,
		interval: interval,
		views:    make(map[Key]RefreshFunc),
		logger:   logger,
	}
}

// Register binds a view to its refresh function.
func (r *Refresher) Register(key Key, fn RefreshFunc) {
	r.views[key] = fn
}

// Run refreshes all registered views on the interval until ctx is done.
// Between ticks it also picks up views that mutations marked stale.
func (r *Refresher) Run(ctx context.Context) error {
	r.refreshAll(ctx, true)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	staleCheck := time.NewTicker(r.interval / 5)
	defer staleCheck.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.refreshAll(ctx, true)
		case <-staleCheck.C:
			r.refreshAll(ctx, false)
		}
	}
}

// RefreshNow forces a synchronous refresh of the named views.
func (r *Refresher) RefreshNow(ctx context.Context, keys ...Key) {
	for _, key := range keys {
		if fn, ok := r.views[key]; ok {
			r.refreshOne(ctx, key, fn)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context, force bool) {
	for key, fn := range r.views {
		if ctx.Err() != nil {
			return
		}
		if !force && !r.store.IsStale(key) {
			continue
		}
		r.refreshOne(ctx, key, fn)
	}
}

func (r *Refresher) refreshOne(ctx context.Context, key Key, fn RefreshFunc) {
	value, err := fn(ctx)
	if err != nil {
		// Keep serving the previous value; the next tick retries.
		r.logger.Warn("view refresh failed", "view", key, "err", err)
		return
	}
	r.store.Put(key, value)
}
