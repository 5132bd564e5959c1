package tracking_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"price_tracker/internal/domain/entity"
	"price_tracker/internal/domain/service/tracking"
	"price_tracker/internal/infrastructure/persistence"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const shopPrefix = "https://www.cdkeys.com/"

var errNoName = errors.New("no name") //nolint:gochecknoglobals // skip

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // skip

type fakeValidator struct{}

func (fakeValidator) Validate(_ context.Context, raw string) (string, bool) {
	url := strings.TrimSpace(raw)
	if len(strings.Fields(url)) != 1 || !strings.HasPrefix(url, shopPrefix) {
		return "", false
	}

	return url, true
}

type fakeNames map[string]string

func (f fakeNames) Name(_ context.Context, url string) (string, error) {
	name, ok := f[url]
	if !ok {
		return "", errNoName
	}

	return name, nil
}

type fakeFetcher struct {
	mu       sync.Mutex
	products map[string]entity.Product
	calls    []string
}

func (f *fakeFetcher) Details(_ context.Context, url string) entity.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)

	return f.products[url]
}

func seedBlobs(t *testing.T, items []entity.TrackedItem, lastUpdate time.Time) *persistence.MemoryBlobs {
	t.Helper()

	rq := require.New(t)
	blobs := persistence.NewMemoryBlobs()

	if items == nil {
		items = []entity.TrackedItem{}
	}

	itemsJSON, err := json.Marshal(items)
	rq.NoError(err)
	rq.NoError(blobs.Put(context.Background(), "tracked_items", itemsJSON))

	lastUpdateJSON, err := json.Marshal(lastUpdate)
	rq.NoError(err)
	rq.NoError(blobs.Put(context.Background(), "last_update", lastUpdateJSON))

	return blobs
}

func loadStore(t *testing.T, blobs tracking.BlobStorage, names fakeNames) *tracking.Store {
	t.Helper()

	store := tracking.NewStore(blobs, fakeValidator{}, names).WithClock(func() time.Time { return testNow })
	require.NoError(t, store.Load(context.Background()))

	return store
}

func storedItems(t *testing.T, blobs tracking.BlobStorage) []entity.TrackedItem {
	t.Helper()

	data, err := blobs.Get(context.Background(), "tracked_items")
	require.NoError(t, err)

	var items []entity.TrackedItem
	require.NoError(t, json.Unmarshal(data, &items))

	return items
}
