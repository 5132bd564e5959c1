package middlewarex

import (
	"net/http"
	"strings"

	"price_tracker/pkg/contextx"
)

const (
	headerNameTraceID = "X-Trace-Id"
	maxTraceIDLen     = 64
)

// TraceID takes the trace id from the X-Trace-Id header, or makes one up, and
// echoes it back in the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := contextx.TraceID(strings.TrimSpace(r.Header.Get(headerNameTraceID)))
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = contextx.NewTraceID()
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}
