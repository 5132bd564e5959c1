package server

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"price_tracker/internal/domain"
	"price_tracker/pkg/errcodes"
	"price_tracker/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handler(s.getV1Items))
			r.Post("/", handler(s.postV1Items))
			r.Delete("/", handler(s.deleteV1Items))
		})
		r.Get("/next-update", handler(s.getV1NextUpdate))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// writeError answers domain errors with their own status and leaves the rest
// to reply.Error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := domain.GetCode(err)
	if !ok {
		reply.Error(r.Context(), w, err)
		return
	}

	reply.Fail(r.Context(), w, statusOf(code), code, domain.Reason(err), err)
}

func statusOf(code failure.ErrorCode) int {
	switch code {
	case errcodes.InvalidURL:
		return http.StatusBadRequest
	case errcodes.ItemNotTracked:
		return http.StatusNotFound
	case errcodes.ItemAlreadyTracked:
		return http.StatusConflict
	case errcodes.ItemNameUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
