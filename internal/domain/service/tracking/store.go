package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"price_tracker/internal/domain"
	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/contextx"
	"price_tracker/pkg/errcodes"
	"price_tracker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// BlobStorage keeps opaque blobs by key. Get returns domain.ErrNotFound for
// keys that were never written.
type BlobStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// URLValidator checks that raw is a reachable product page of the shop and
// returns it in canonical form.
type URLValidator interface {
	Validate(ctx context.Context, raw string) (string, bool)
}

// NameFetcher resolves the display name of a product page.
type NameFetcher interface {
	Name(ctx context.Context, url string) (string, error)
}

// Store holds the tracked items and the last update timestamp. All access goes
// through one mutex, the update cycle included (see Exclusive).
type Store struct {
	blobs     BlobStorage
	validator URLValidator
	names     NameFetcher
	now       func() time.Time

	// saveMu orders blob writes so an older snapshot never overwrites a newer one.
	saveMu sync.Mutex

	mu         sync.Mutex
	items      map[string]*entity.TrackedItem
	order      []string
	lastUpdate time.Time
}

func NewStore(blobs BlobStorage, validator URLValidator, names NameFetcher) *Store {
	return &Store{
		blobs:     blobs,
		validator: validator,
		names:     names,
		now:       time.Now,
		items:     make(map[string]*entity.TrackedItem),
	}
}

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load reads both blobs. Missing blobs are initialized (empty set, "now") and
// written back; blobs of the wrong shape fail with errcodes.CorruptState.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.loadItems(ctx)
	if err != nil {
		return err
	}

	lastUpdate, err := s.loadLastUpdate(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*entity.TrackedItem, len(items))
	s.order = make([]string, 0, len(items))

	for _, item := range items {
		s.items[item.URL] = item
		s.order = append(s.order, item.URL)
	}

	s.lastUpdate = lastUpdate

	logger(ctx).Info("tracked items loaded",
		slog.Int(logx.FieldItems, len(items)),
		slog.Time("last-update", lastUpdate),
	)

	return nil
}

func (s *Store) loadItems(ctx context.Context) ([]*entity.TrackedItem, error) {
	data, err := s.blobs.Get(ctx, itemsKey)
	if errors.Is(err, domain.ErrNotFound) {
		logger(ctx).Info("no tracked items stored yet, starting empty")

		empty, err := encodeItems(nil)
		if err != nil {
			return nil, err
		}

		if err := s.put(ctx, itemsKey, empty); err != nil {
			return nil, err
		}

		return nil, nil
	}
	if err != nil {
		return nil, storageFailure(itemsKey, err)
	}

	return decodeItems(data)
}

func (s *Store) loadLastUpdate(ctx context.Context) (time.Time, error) {
	data, err := s.blobs.Get(ctx, lastUpdateKey)
	if errors.Is(err, domain.ErrNotFound) {
		now := s.now()

		data, err := encodeTimestamp(now)
		if err != nil {
			return time.Time{}, err
		}

		if err := s.put(ctx, lastUpdateKey, data); err != nil {
			return time.Time{}, err
		}

		return now, nil
	}
	if err != nil {
		return time.Time{}, storageFailure(lastUpdateKey, err)
	}

	return decodeTimestamp(data)
}

// Save persists the whole tracked set. An empty set is never written, so a
// transient empty state cannot overwrite good data.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	items := s.snapshot()
	if len(items) == 0 {
		logger(ctx).Debug("tracked set empty, skipping save")
		return nil
	}

	data, err := encodeItems(items)
	if err != nil {
		return err
	}

	return s.put(ctx, itemsKey, data)
}

// SaveLastUpdate advances the last update timestamp and persists it.
func (s *Store) SaveLastUpdate(ctx context.Context, t time.Time) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.lastUpdate = t
	s.mu.Unlock()

	data, err := encodeTimestamp(t)
	if err != nil {
		return err
	}

	return s.put(ctx, lastUpdateKey, data)
}

func (s *Store) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUpdate
}

// Add validates rawURL, resolves the item name and starts tracking it with
// the never-priced sentinel. The returned item carries the canonical URL it
// is stored under. It does not persist.
func (s *Store) Add(ctx context.Context, rawURL string) (entity.TrackedItem, error) {
	url, ok := s.validator.Validate(ctx, rawURL)
	if !ok {
		logger(ctx).Debug("invalid url", slog.String(logx.FieldURL, rawURL))
		return entity.TrackedItem{}, domain.NewError(errcodes.InvalidURL, "invalid url")
	}

	if err := s.ensureNotTracked(url); err != nil {
		return entity.TrackedItem{}, err
	}

	// Network lookup happens without the lock held.
	name, err := s.names.Name(ctx, url)
	if err != nil {
		return entity.TrackedItem{}, domain.WrapError(err, errcodes.ItemNameUnavailable, "could not read item name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[url]; ok {
		return entity.TrackedItem{}, alreadyTracked(existing.Name)
	}

	item := entity.NewTrackedItem(url, name)
	s.items[url] = item
	s.order = append(s.order, url)

	logger(ctx).Debug("item added", slog.String(logx.FieldURL, url), slog.String(logx.FieldItemName, name))

	return *item, nil
}

func (s *Store) ensureNotTracked(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[url]; ok {
		return alreadyTracked(existing.Name)
	}

	return nil
}

// Remove stops tracking rawURL and returns the removed item. rawURL gets the
// same whitespace trim Add applies. It does not persist.
func (s *Store) Remove(rawURL string) (entity.TrackedItem, error) {
	url := canonicalURL(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[url]
	if !ok {
		return entity.TrackedItem{}, domain.NewError(errcodes.ItemNotTracked, fmt.Sprintf("%s is not in tracked items", url))
	}

	delete(s.items, url)
	s.order = slices.DeleteFunc(s.order, func(u string) bool { return u == url })

	return *item, nil
}

// List renders every item as "{name} - {price} {currency}", sorted by the
// rendered line.
func (s *Store) List() []string {
	lines := lo.Map(s.snapshot(), func(item entity.TrackedItem, _ int) string { return itemLine(item) })
	slices.Sort(lines)

	return lines
}

// Items returns copies of the tracked items in List order.
func (s *Store) Items() []entity.TrackedItem {
	items := s.snapshot()
	slices.SortStableFunc(items, func(a, b entity.TrackedItem) int {
		return strings.Compare(itemLine(a), itemLine(b))
	})

	return items
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Exclusive runs fn with the store locked. items are the live entries in
// insertion order and may be modified in place. fn must not call other Store
// methods.
func (s *Store) Exclusive(fn func(items []*entity.TrackedItem, lastUpdate time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*entity.TrackedItem, 0, len(s.order))
	for _, url := range s.order {
		items = append(items, s.items[url])
	}

	fn(items, s.lastUpdate)
}

func (s *Store) snapshot() []entity.TrackedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entity.TrackedItem, 0, len(s.order))
	for _, url := range s.order {
		items = append(items, *s.items[url])
	}

	return items
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return storageFailure(key, err)
	}

	return nil
}

// canonicalURL drops surrounding whitespace from a single-token url. Anything
// else is left for the lookup to miss.
func canonicalURL(raw string) string {
	if fields := strings.Fields(raw); len(fields) == 1 {
		return fields[0]
	}

	return strings.TrimSpace(raw)
}

func alreadyTracked(name string) error {
	return domain.NewError(errcodes.ItemAlreadyTracked, fmt.Sprintf("%s have already tracked", name))
}

func storageFailure(key string, err error) error {
	return domain.WrapError(err, errcodes.StorageFailure, fmt.Sprintf("could not access %s", key))
}
