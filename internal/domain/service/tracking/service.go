package tracking

import (
	"context"
	"log/slog"
	"time"

	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/logx"
)

// Service is what the chat and HTTP command surfaces talk to. Mutations are
// persisted right away.
type Service struct {
	store      *Store
	staleAfter time.Duration
}

func NewService(store *Store, staleAfter time.Duration) *Service {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleThreshold
	}

	return &Service{
		store:      store,
		staleAfter: staleAfter,
	}
}

func (s *Service) Add(ctx context.Context, url string) (entity.TrackedItem, error) {
	item, err := s.store.Add(ctx, url)
	if err != nil {
		return entity.TrackedItem{}, err
	}

	s.persist(ctx)

	return item, nil
}

func (s *Service) Remove(ctx context.Context, url string) (entity.TrackedItem, error) {
	item, err := s.store.Remove(url)
	if err != nil {
		return entity.TrackedItem{}, err
	}

	s.persist(ctx)

	return item, nil
}

func (s *Service) List() []string {
	return s.store.List()
}

func (s *Service) Items() []entity.TrackedItem {
	return s.store.Items()
}

func (s *Service) IsEmpty() bool {
	return s.store.IsEmpty()
}

// NextUpdateIn returns the time left until unchanged prices are announced
// again. ok is false while nothing is tracked.
func (s *Service) NextUpdateIn(now time.Time) (time.Duration, bool) {
	if s.store.IsEmpty() {
		return 0, false
	}

	return s.store.LastUpdate().Add(s.staleAfter).Sub(now), true
}

// The in-memory change stands even if the write fails; the next successful
// save carries it.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.Save(ctx); err != nil {
		logger(ctx).Error("failed to persist tracked items", logx.Error(err), slog.Int(logx.FieldItems, s.store.Len()))
	}
}
