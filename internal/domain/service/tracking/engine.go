package tracking

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/logx"
)

// DefaultStaleThreshold is how long an unchanged price stays quiet before it
// is announced again.
const DefaultStaleThreshold = 6 * time.Hour

// PageFetcher loads the current state of a product page. Failures are
// reported as the zero Product.
type PageFetcher interface {
	Details(ctx context.Context, url string) entity.Product
}

// Engine runs update cycles over the store.
type Engine struct {
	store      *Store
	fetcher    PageFetcher
	staleAfter time.Duration
	now        func() time.Time
}

func NewEngine(store *Store, fetcher PageFetcher) *Engine {
	return &Engine{
		store:      store,
		fetcher:    fetcher,
		staleAfter: DefaultStaleThreshold,
		now:        time.Now,
	}
}

func (e *Engine) WithStaleThreshold(d time.Duration) *Engine {
	if d > 0 {
		e.staleAfter = d
	}
	return e
}

func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Cycle fetches every tracked item once and returns the sorted notification
// lines. A single failed fetch aborts the cycle with no lines at all; prices
// already refreshed in memory during that cycle stay refreshed.
func (e *Engine) Cycle(ctx context.Context) []string {
	var updates []string

	e.store.Exclusive(func(items []*entity.TrackedItem, lastUpdate time.Time) {
		started := e.now()
		stale := started.Sub(lastUpdate) >= e.staleAfter

		for _, item := range items {
			current := e.fetcher.Details(ctx, item.URL)

			if current.Failed() {
				logger(ctx).Warn("fetch failed, dropping cycle",
					slog.String(logx.FieldURL, item.URL),
					slog.Int(logx.FieldLines, len(updates)),
				)

				updates = nil

				return
			}

			switch {
			case current.Price != item.LastPrice:
				logger(ctx).Debug("price changed",
					slog.String(logx.FieldURL, item.URL),
					slog.Float64(logx.FieldPrice, current.Price),
					slog.String(logx.FieldCurrency, current.Currency),
				)

				updates = append(updates, priceChangedLine(current.Name, *item, current))
				item.LastPrice = current.Price
				item.LastCurrency = current.Currency
			case stale:
				updates = append(updates, priceUnchangedLine(current.Name, *item))
			}
		}
	})

	slices.Sort(updates)

	return updates
}

// Complete records a cycle that produced notifications: the last update
// timestamp moves to now and both blobs are persisted.
func (e *Engine) Complete(ctx context.Context) error {
	var errs []error

	if err := e.store.SaveLastUpdate(ctx, e.now()); err != nil {
		errs = append(errs, err)
	}

	if err := e.store.Save(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
