package middlewarex

import (
	"log/slog"
	"mime"
	"net/http"
	"net/http/httputil"

	"price_tracker/pkg/logx"
)

// RequestLogging dumps the incoming request, body included for JSON and text
// payloads only.
func RequestLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dump, err := httputil.DumpRequest(r, dumpableBody(r.Header.Get("Content-Type")))

			logger(r.Context()).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldRequestBody, string(sensitiveDataMasker.Mask(truncate(dump, logFieldMaxLen)))),
				logx.Error(err),
			)

			next.ServeHTTP(w, r)
		})
	}
}

func dumpableBody(contentType string) bool {
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "application/json", "text/plain":
		return true
	default:
		return false
	}
}

// truncate cuts b to limit bytes. A limit of zero or less keeps b whole.
func truncate(b []byte, limit int) []byte {
	if limit <= 0 || len(b) <= limit {
		return b
	}

	return b[:limit]
}
