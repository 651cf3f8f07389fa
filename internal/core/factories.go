package core

import (
	"admin/internal/activity"
	c "admin/internal/cache"
	"admin/internal/configuration"
	"admin/internal/models"
	"admin/internal/moderation"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger replaces the global logger with a production logger at the configured level.
func NewLogger(level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Warn("Unknown log level, keeping info", zap.String("level", level))
		parsed = zapcore.InfoLevel
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(parsed)
	zap.ReplaceGlobals(zap.Must(loggerConfig.Build()))
}

func NewCache(config models.CacheConfiguration) c.ICache {
	var (
		cache *c.RueidisCache
		err   error
	)

	switch config.Type {
	case configuration.ProviderRedis:
		cache, err = c.NewRedisCache(config.Redis)
	case configuration.ProviderValkey:
		cache, err = c.NewValkeyCache(config.Valkey)
	default:
		return c.NewMemoryCache()
	}

	if err != nil {
		zap.L().Fatal("Failed to connect to the cache", zap.String("type", config.Type), zap.Error(err))
	}
	return cache
}

// NewActivityLogger returns nil when the audit trail is disabled.
func NewActivityLogger(config models.ActivityConfiguration) activity.IActivityLogger {
	if config.Type != configuration.ProviderFilesystem {
		return nil
	}

	client, err := activity.NewFilesystemClient(config)
	if err != nil {
		zap.L().Fatal("Failed to open the activity index", zap.Error(err))
	}
	return client
}

// NewModerator returns nil without an API key.
func NewModerator(config models.ModerationConfiguration) moderation.Moderator {
	if !config.Enabled() {
		return nil
	}
	return moderation.NewGoogleModerator(config)
}
