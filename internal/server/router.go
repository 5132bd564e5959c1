package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"price_tracker/pkg/logx"
	"price_tracker/pkg/middlewarex"
)

const defaultLogFieldMaxLen = 2048

// NewRouter mounts s behind the standard middleware chain.
func NewRouter(s Server, log *slog.Logger, logFieldMaxLen int) http.Handler {
	if logFieldMaxLen <= 0 {
		logFieldMaxLen = defaultLogFieldMaxLen
	}

	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}
