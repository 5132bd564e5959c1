package tracking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"price_tracker/internal/domain/entity"
	"price_tracker/internal/domain/service/tracking"
	"price_tracker/pkg/tests"
)

func TestEngine_Cycle(t *testing.T) {
	rq := require.New(t)

	seeded := []entity.TrackedItem{
		{URL: urlBeta, Name: "Beta", LastPrice: 10, LastCurrency: "USD"},
		{URL: urlAlpha, Name: "Alpha", LastPrice: 20, LastCurrency: "EUR"},
	}

	testCases := []struct {
		name       string
		sinceLast  time.Duration
		products   map[string]entity.Product
		wantLines  []string
		wantPrices map[string]float64
	}{
		{
			name:      "nothing changed, not stale",
			sinceLast: time.Hour,
			products: map[string]entity.Product{
				urlBeta:  {Name: "Beta", Price: 10, Currency: "USD"},
				urlAlpha: {Name: "Alpha", Price: 20, Currency: "EUR"},
			},
			wantPrices: map[string]float64{urlBeta: 10, urlAlpha: 20},
		},
		{
			name:      "one price changed",
			sinceLast: time.Hour,
			products: map[string]entity.Product{
				urlBeta:  {Name: "Beta", Price: 12, Currency: "USD"},
				urlAlpha: {Name: "Alpha", Price: 20, Currency: "EUR"},
			},
			wantLines:  []string{"Beta price was changed from 10.0 USD to 12.0 USD"},
			wantPrices: map[string]float64{urlBeta: 12, urlAlpha: 20},
		},
		{
			name:      "stale exactly at the threshold",
			sinceLast: tracking.DefaultStaleThreshold,
			products: map[string]entity.Product{
				urlBeta:  {Name: "Beta", Price: 10, Currency: "USD"},
				urlAlpha: {Name: "Alpha", Price: 20, Currency: "EUR"},
			},
			wantLines: []string{
				"Alpha price is still 20.0 EUR",
				"Beta price is still 10.0 USD",
			},
			wantPrices: map[string]float64{urlBeta: 10, urlAlpha: 20},
		},
		{
			name:      "stale and changed, sorted",
			sinceLast: 7 * time.Hour,
			products: map[string]entity.Product{
				urlBeta:  {Name: "Beta", Price: 10, Currency: "USD"},
				urlAlpha: {Name: "Alpha Deluxe", Price: 15.5, Currency: "EUR"},
			},
			wantLines: []string{
				"Alpha Deluxe price was changed from 20.0 EUR to 15.5 EUR",
				"Beta price is still 10.0 USD",
			},
			wantPrices: map[string]float64{urlBeta: 10, urlAlpha: 15.5},
		},
		{
			name:      "failed fetch drops the cycle but keeps earlier updates",
			sinceLast: 7 * time.Hour,
			products: map[string]entity.Product{
				urlBeta: {Name: "Beta", Price: 11, Currency: "USD"},
			},
			wantPrices: map[string]float64{urlBeta: 11, urlAlpha: 20},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			store := loadStore(t, seedBlobs(t, seeded, testNow), nil)
			fetcher := &fakeFetcher{products: tc.products}

			engine := tracking.NewEngine(store, fetcher).
				WithClock(func() time.Time { return testNow.Add(tc.sinceLast) })

			lines := engine.Cycle(context.Background())

			rq.Equal(tc.wantLines, lines)

			for _, item := range store.Items() {
				rq.InDelta(tc.wantPrices[item.URL], item.LastPrice, 0, item.URL)
			}
		})
	}
}

func TestEngine_CycleFetchesInInsertionOrder(t *testing.T) {
	rq := require.New(t)

	store := loadStore(t, seedBlobs(t, []entity.TrackedItem{
		{URL: urlGamma, Name: "Gamma", LastPrice: 1, LastCurrency: "USD"},
		{URL: urlAlpha, Name: "Alpha", LastPrice: 1, LastCurrency: "USD"},
	}, testNow), nil)

	fetcher := &fakeFetcher{products: map[string]entity.Product{}}

	lines := tracking.NewEngine(store, fetcher).Cycle(context.Background())

	rq.Empty(lines)
	rq.Equal([]string{urlGamma}, fetcher.calls)
}

func TestEngine_CycleEmptyStore(t *testing.T) {
	rq := require.New(t)

	store := loadStore(t, seedBlobs(t, nil, testNow.Add(-24*time.Hour)), nil)
	fetcher := &fakeFetcher{}

	lines := tracking.NewEngine(store, fetcher).
		WithClock(func() time.Time { return testNow }).
		Cycle(context.Background())

	rq.Empty(lines)
	rq.Empty(fetcher.calls)
}

// gatedFetcher parks every fetch until release is closed.
type gatedFetcher struct {
	products map[string]entity.Product
	entered  chan struct{}
	release  chan struct{}
	once     sync.Once
}

func (g *gatedFetcher) Details(_ context.Context, url string) entity.Product {
	g.once.Do(func() { close(g.entered) })
	<-g.release

	return g.products[url]
}

func TestEngine_CycleBlocksRemovals(t *testing.T) {
	rq := require.New(t)

	store := loadStore(t, seedBlobs(t, []entity.TrackedItem{
		{URL: urlAlpha, Name: "Alpha", LastPrice: 10, LastCurrency: "USD"},
	}, testNow), nil)

	fetcher := &gatedFetcher{
		products: map[string]entity.Product{urlAlpha: {Name: "Alpha", Price: 11, Currency: "USD"}},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	engine := tracking.NewEngine(store, fetcher).WithClock(func() time.Time { return testNow.Add(time.Hour) })

	var lines []string

	cycleDone := make(chan struct{})
	go func() {
		defer close(cycleDone)
		lines = engine.Cycle(context.Background())
	}()

	<-fetcher.entered

	removed := make(chan error, 1)
	go func() {
		_, err := store.Remove(urlAlpha)
		removed <- err
	}()

	rq.Never(func() bool { return len(removed) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	close(fetcher.release)
	<-cycleDone

	rq.Equal([]string{"Alpha price was changed from 10.0 USD to 11.0 USD"}, lines)

	select {
	case err := <-removed:
		rq.NoError(err)
	case <-time.After(time.Second):
		rq.Fail("removal never finished")
	}

	rq.True(store.IsEmpty())
}

func TestEngine_Complete(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	blobs := seedBlobs(t, []entity.TrackedItem{
		{URL: urlAlpha, Name: "Alpha", LastPrice: 20, LastCurrency: "EUR"},
	}, testNow)
	store := loadStore(t, blobs, nil)

	completedAt := testNow.Add(2 * time.Hour)
	engine := tracking.NewEngine(store, &fakeFetcher{products: map[string]entity.Product{
		urlAlpha: {Name: "Alpha", Price: 18, Currency: "EUR"},
	}}).WithClock(func() time.Time { return completedAt })

	rq.Len(engine.Cycle(ctx), 1)
	rq.NoError(engine.Complete(ctx))

	rq.True(completedAt.Equal(store.LastUpdate()))

	saved := storedItems(t, blobs)
	rq.Len(saved, 1)
	rq.InDelta(18.0, saved[0].LastPrice, 0)

	data, err := blobs.Get(ctx, "last_update")
	rq.NoError(err)

	var lastUpdate time.Time
	rq.NoError(json.Unmarshal(data, &lastUpdate))
	rq.True(completedAt.Equal(lastUpdate))
}

func TestEngine_CycleRandomPrices(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()

	for range 50 {
		oldPrice := random.Price()
		newPrice := oldPrice

		changed := random.Bool()
		if changed {
			newPrice = oldPrice + 0.5
		}

		store := loadStore(t, seedBlobs(t, []entity.TrackedItem{
			{URL: urlAlpha, Name: "Alpha", LastPrice: oldPrice, LastCurrency: "GBP"},
		}, testNow), nil)

		lines := tracking.NewEngine(store, &fakeFetcher{products: map[string]entity.Product{
			urlAlpha: {Name: "Alpha", Price: newPrice, Currency: "GBP"},
		}}).WithClock(func() time.Time { return testNow.Add(time.Minute) }).Cycle(context.Background())

		if !changed {
			rq.Empty(lines)
			continue
		}

		rq.Equal([]string{
			"Alpha price was changed from " + tracking.FormatPrice(oldPrice) + " GBP to " + tracking.FormatPrice(newPrice) + " GBP",
		}, lines)
		rq.Equal([]string{"Alpha - " + tracking.FormatPrice(newPrice) + " GBP"}, store.List())
	}
}
