package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"price_tracker/pkg/errcodes"
	"price_tracker/pkg/httpx/reply"
	"price_tracker/pkg/logx"
)

// Recovery turns a handler panic into a 500 with the usual error body.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger(ctx).Error("panic in handler", slog.String(logx.FieldStack, string(debug.Stack())))

			reply.Fail(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError,
				"internal error", fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
