package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"admin/internal/configuration"
	"admin/internal/models"

	"github.com/redis/rueidis"
)

type RueidisCache struct {
	client rueidis.Client
}

func NewRedisCache(config *models.RedisCacheConfiguration) (*RueidisCache, error) {
	return newRueidisCache(config.Hosts, config.Password, config.TLSEnabled, config.TLSServerName, "redis")
}

func NewValkeyCache(config *models.ValkeyCacheConfiguration) (*RueidisCache, error) {
	return newRueidisCache(config.Hosts, config.Password, config.TLSEnabled, config.TLSServerName, "valkey")
}

func newRueidisCache(
	hosts []string,
	password string,
	tlsEnabled bool,
	tlsServerName,
	errorContext string,
) (*RueidisCache, error) {
	clientOption := rueidis.ClientOption{
		InitAddress: hosts,
		Password:    password,
		// snapshots are read once per dashboard load, client side caching buys nothing
		DisableCache: true,
	}

	if tlsEnabled {
		clientOption.TLSConfig = &tls.Config{
			ServerName: tlsServerName,
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := rueidis.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", errorContext, err)
	}
	return &RueidisCache{client: client}, nil
}

func (r *RueidisCache) GetSnapshot(ctx context.Context, sessionKey string) (models.CachedSnapshot, bool, error) {
	key := fmt.Sprintf(configuration.CacheStatsSnapshotKey, sessionKey)

	raw, err := r.client.Do(ctx, r.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return models.CachedSnapshot{}, false, nil
		}
		return models.CachedSnapshot{}, false, err
	}

	var snapshot models.CachedSnapshot
	if err = json.Unmarshal(raw, &snapshot); err != nil {
		return models.CachedSnapshot{}, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snapshot, true, nil
}

func (r *RueidisCache) SetSnapshot(
	ctx context.Context,
	sessionKey string,
	snapshot models.CachedSnapshot,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(configuration.CacheStatsSnapshotKey, sessionKey)
	return r.client.Do(ctx, r.client.B().Set().Key(key).Value(rueidis.BinaryString(raw)).Ex(ttl).Build()).Error()
}

func (r *RueidisCache) GetRateLimit(ctx context.Context, identifier string, requestsPerMinute int) (int, error) {
	key := fmt.Sprintf(configuration.CacheLoginRateLimitKey, identifier)
	count, err := r.client.Do(ctx, r.client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		expireErr := r.client.Do(ctx, r.client.B().Expire().Key(key).Seconds(int64(time.Minute.Seconds())).Build()).
			Error()
		if expireErr != nil {
			return 0, expireErr
		}
	}

	if int(count) > requestsPerMinute {
		retryAfter, ttlErr := r.client.Do(ctx, r.client.B().Ttl().Key(key).Build()).AsInt64()
		if ttlErr != nil {
			return 0, ttlErr
		}
		return max(int(retryAfter), 1), nil
	}

	return 0, nil
}

func (r *RueidisCache) Close() error {
	r.client.Close()
	return nil
}
