package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"

	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/httpx/reply"
	"price_tracker/pkg/httpx/req"
	"price_tracker/pkg/rest"
)

type trackingService interface {
	Add(ctx context.Context, url string) (entity.TrackedItem, error)
	Remove(ctx context.Context, url string) (entity.TrackedItem, error)
	Items() []entity.TrackedItem
	NextUpdateIn(now time.Time) (time.Duration, bool)
}

type ItemsServer struct {
	trackingService trackingService
	now             func() time.Time
}

func NewItemsServer(trackingService trackingService) ItemsServer {
	return ItemsServer{
		trackingService: trackingService,
		now:             time.Now,
	}
}

func (s ItemsServer) getV1Items(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, lo.Map(s.trackingService.Items(), newRESTItem))

	return nil
}

func (s ItemsServer) postV1Items(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	request, err := req.Decode[rest.ItemRequest](r)
	if err != nil {
		return fmt.Errorf("req.Decode: %w", err)
	}

	item, err := s.trackingService.Add(ctx, request.URL)
	if err != nil {
		return fmt.Errorf("trackingService.Add: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, rest.ItemRef{URL: item.URL, Name: item.Name})

	return nil
}

func (s ItemsServer) deleteV1Items(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	request, err := req.Decode[rest.ItemRequest](r)
	if err != nil {
		return fmt.Errorf("req.Decode: %w", err)
	}

	item, err := s.trackingService.Remove(ctx, request.URL)
	if err != nil {
		return fmt.Errorf("trackingService.Remove: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ItemRef{URL: item.URL, Name: item.Name})

	return nil
}

func (s ItemsServer) getV1NextUpdate(w http.ResponseWriter, r *http.Request) error {
	now := s.now()
	left, ok := s.trackingService.NextUpdateIn(now)

	response := rest.NextUpdate{Tracked: ok}
	if ok {
		at := now.Add(left)
		response.SecondsLeft = max(int64(left/time.Second), 0)
		response.At = &at
	}

	reply.JSON(r.Context(), w, http.StatusOK, response)

	return nil
}
