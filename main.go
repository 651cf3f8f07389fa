package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"admin/internal/backend"
	"admin/internal/configuration"
	"admin/internal/core"
	"admin/internal/events"
	"admin/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, config.Telemetry)

	cache := core.NewCache(config.Cache)
	activityLogger := core.NewActivityLogger(config.Activity)

	deps := core.Dependencies{
		Config:         config,
		Backend:        backend.NewClient(config.Backend),
		Cache:          cache,
		ActivityLogger: activityLogger,
		Moderator:      core.NewModerator(config.Moderation),
	}

	var eventsManager *core.EventsManager
	if activityLogger != nil {
		eventsManager = core.NewEventsManager()
		core.StartWorkers(ctx, config, eventsManager, activityLogger)
		deps.Recorder = events.NewRecorder(eventsManager.Publisher())
	}

	if err := core.StartHTTPServer(ctx, config.App.Port, core.NewRouter(deps)); err != nil {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}

	if eventsManager != nil {
		eventsManager.Close()
	}
	if activityLogger != nil {
		if err := activityLogger.Close(); err != nil {
			zap.L().Error("Failed to close the activity index", zap.Error(err))
		}
	}
	if err := cache.Close(); err != nil {
		zap.L().Error("Failed to close the cache", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(flushCtx); err != nil {
		zap.L().Error("Failed to flush telemetry", zap.Error(err))
	}
	_ = zap.L().Sync()
}
