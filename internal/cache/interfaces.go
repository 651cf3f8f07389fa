package cache

import (
	"context"
	"time"

	"admin/internal/models"
)

type ICache interface {
	// GetSnapshot returns the cached stats snapshot of a session, if any.
	GetSnapshot(ctx context.Context, sessionKey string) (models.CachedSnapshot, bool, error)
	SetSnapshot(ctx context.Context, sessionKey string, snapshot models.CachedSnapshot, ttl time.Duration) error

	// GetRateLimit counts one request for identifier in the current minute.
	// It returns the seconds to wait when the limit is exceeded, 0 otherwise.
	GetRateLimit(ctx context.Context, identifier string, requestsPerMinute int) (int, error)

	Close() error
}
