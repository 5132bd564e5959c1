// Package shop reads product pages of the tracked shop.
package shop

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"price_tracker/pkg/contextx"
)

var (
	logger = contextx.LoggerFromContextOrDefault            //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
)

const (
	DefaultURLPrefix    = "https://www.cdkeys.com/"
	DefaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	DefaultNameCacheTTL = 10 * time.Minute
)

// Options of the shop client. Zero fields fall back to defaults.
type Options struct {
	UserAgent    string
	NameCacheTTL time.Duration
}

func newRequest(req *http.Request, userAgent string) *http.Request {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	return req
}
