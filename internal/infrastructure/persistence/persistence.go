// Package persistence stores the tracker's blobs: one opaque value per key,
// read and written as a whole.
package persistence

import (
	"fmt"

	"price_tracker/internal/domain"
	"price_tracker/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

func notFound(key string) error {
	return fmt.Errorf("blob %q: %w", key, domain.ErrNotFound)
}
