package stats

import (
	"context"
	"encoding/json"
	"time"

	"admin/internal/cache"
	"admin/internal/helpers"
	"admin/internal/models"

	"go.uber.org/zap"
)

// Fetcher reads the collections a snapshot is derived from.
type Fetcher interface {
	ListUsers(ctx context.Context, token string) ([]json.RawMessage, error)
	ListCourses(ctx context.Context, token string) ([]json.RawMessage, error)
	ListCarnets(ctx context.Context, token string) ([]json.RawMessage, error)
}

// Aggregator computes dashboard snapshots per session and remembers the last good one.
type Aggregator struct {
	Fetcher Fetcher
	Cache   cache.ICache
	// FreshFor serves a cached snapshot without refetching while it is younger than this. Zero disables.
	FreshFor time.Duration
	// Retention is how long a snapshot stays available as a fallback.
	Retention time.Duration

	Now func() time.Time
}

// Snapshot never fails. When users or courses cannot be fetched it returns the previous
// snapshot of the session, or all zeros, marked stale. A carnet failure only zeroes the carnet counts.
func (a Aggregator) Snapshot(ctx context.Context, logger *zap.Logger, token string) models.StatsResponse {
	now := a.now()
	sessionKey := helpers.TokenKey(token)
	previous, hasPrevious := a.previous(ctx, logger, sessionKey)

	if hasPrevious && a.FreshFor > 0 && now.Sub(previous.FetchedAt) < a.FreshFor {
		return models.StatsResponse{StatsSnapshot: previous.Snapshot, GeneratedAt: previous.FetchedAt}
	}

	users, err := a.Fetcher.ListUsers(ctx, token)
	if err != nil {
		return a.fallback(logger, "users", err, previous, hasPrevious, now)
	}

	courses, err := a.Fetcher.ListCourses(ctx, token)
	if err != nil {
		return a.fallback(logger, "courses", err, previous, hasPrevious, now)
	}

	carnets, err := a.Fetcher.ListCarnets(ctx, token)
	if err != nil {
		logger.Warn("Carnet requests unavailable, counting them as empty", zap.Error(err))
		carnets = nil
	}

	snapshot := Compute(users, courses, carnets)

	if a.Cache != nil {
		cached := models.CachedSnapshot{Snapshot: snapshot, FetchedAt: now}
		if err = a.Cache.SetSnapshot(ctx, sessionKey, cached, a.Retention); err != nil {
			logger.Warn("Failed to cache stats snapshot", zap.Error(err))
		}
	}

	return models.StatsResponse{StatsSnapshot: snapshot, GeneratedAt: now}
}

func (a Aggregator) previous(ctx context.Context, logger *zap.Logger, sessionKey string) (models.CachedSnapshot, bool) {
	if a.Cache == nil {
		return models.CachedSnapshot{}, false
	}

	snapshot, ok, err := a.Cache.GetSnapshot(ctx, sessionKey)
	if err != nil {
		logger.Warn("Failed to read cached stats snapshot", zap.Error(err))
		return models.CachedSnapshot{}, false
	}
	return snapshot, ok
}

func (a Aggregator) fallback(
	logger *zap.Logger,
	collection string,
	err error,
	previous models.CachedSnapshot,
	hasPrevious bool,
	now time.Time,
) models.StatsResponse {
	logger.Error("Failed to fetch collection for stats",
		zap.String("collection", collection),
		zap.Bool("has_previous", hasPrevious),
		zap.Error(err))

	if hasPrevious {
		return models.StatsResponse{StatsSnapshot: previous.Snapshot, Stale: true, GeneratedAt: previous.FetchedAt}
	}
	return models.StatsResponse{Stale: true, GeneratedAt: now}
}

func (a Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}
