package handler

import (
	"context"
	"time"

	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type trackingService interface {
	Add(ctx context.Context, url string) (entity.TrackedItem, error)
	Remove(ctx context.Context, url string) (entity.TrackedItem, error)
	List() []string
	NextUpdateIn(now time.Time) (time.Duration, bool)
}

type Handler struct {
	svc trackingService
	now func() time.Time
}

func New(svc trackingService) *Handler {
	return &Handler{
		svc: svc,
		now: time.Now,
	}
}

func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}
