package shop

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"price_tracker/pkg/logx"
)

// Validator accepts a single product URL of the shop that currently answers
// with 200.
type Validator struct {
	http      *http.Client
	prefix    string
	userAgent string
}

func NewValidator(httpClient *http.Client, prefix string, opts Options) *Validator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if prefix == "" {
		prefix = DefaultURLPrefix
	}

	return &Validator{
		http:      httpClient,
		prefix:    prefix,
		userAgent: opts.UserAgent,
	}
}

func (v *Validator) Validate(ctx context.Context, raw string) (string, bool) {
	parts := strings.Fields(raw)
	if len(parts) != 1 {
		logger(ctx).Debug("url rejected: not a single token", slog.Int("tokens", len(parts)))
		return "", false
	}

	url := parts[0]

	if !strings.HasPrefix(url, v.prefix) {
		logger(ctx).Debug("url rejected: foreign site", slog.String(logx.FieldURL, url))
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		logger(ctx).Debug("url rejected", slog.String(logx.FieldURL, url), logx.Error(err))
		return "", false
	}

	resp, err := v.http.Do(newRequest(req, v.userAgent))
	if err != nil {
		logger(ctx).Debug("url rejected: unreachable", slog.String(logx.FieldURL, url), logx.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger(ctx).Debug("url rejected: bad status",
			slog.String(logx.FieldURL, url),
			slog.Int(logx.FieldResponseStatus, resp.StatusCode),
		)

		return "", false
	}

	logger(ctx).Debug("url passed validation", slog.String(logx.FieldURL, url))

	return url, true
}
