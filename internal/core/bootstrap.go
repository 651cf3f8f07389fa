package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"admin/internal/activity"
	"admin/internal/backend"
	c "admin/internal/cache"
	"admin/internal/configuration"
	"admin/internal/events"
	m "admin/internal/middlewares"
	"admin/internal/models"
	"admin/internal/moderation"
	"admin/internal/proxy"
	"admin/internal/services"
	"admin/internal/session"
	"admin/internal/stats"
	"admin/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Dependencies are the long lived collaborators shared by every route.
// ActivityLogger and Moderator are nil when their feature is disabled.
type Dependencies struct {
	Config         models.Configuration
	Backend        *backend.Client
	Cache          c.ICache
	ActivityLogger activity.IActivityLogger
	Recorder       *events.Recorder
	Moderator      moderation.Moderator
}

// StartWorkers starts the activity consumer and the retention job. They stop with ctx
// or when the events manager is closed.
func StartWorkers(ctx context.Context, config models.Configuration, eventsManager *EventsManager, activityLogger activity.IActivityLogger) {
	if eventsManager == nil || activityLogger == nil {
		return
	}

	activities, err := eventsManager.Subscriber().Subscribe(ctx)
	if err != nil {
		zap.L().Error("Activity worker not started", zap.Error(err))
	} else {
		go events.HandleActivity(activityLogger, activities)
		zap.L().Info("Started activity worker")
	}

	if config.Activity.RetentionDays > 0 {
		go workers.Periodic{
			Name:     "activity_retention",
			Interval: configuration.ActivityRetentionInterval,
			Tasks:    []workers.Task{workers.ActivityRetention(activityLogger, config.Activity.RetentionDays, nil)},
		}.Start(ctx)
	}
}

func NewRouter(deps Dependencies) http.Handler {
	m.InitValidator()

	config := deps.Config
	sessions := session.NewCookieStore(config.App.IsProduction())

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/auth", services.AuthService{
		Backend:        deps.Backend,
		Sessions:       sessions,
		Recorder:       deps.Recorder,
		Cache:          deps.Cache,
		LoginRateLimit: config.App.LoginRateLimit,
	}.Routes())

	r.Mount("/account", services.AccountService{
		Backend:  deps.Backend,
		Sessions: sessions,
		Recorder: deps.Recorder,
	}.Routes())

	r.Mount("/dashboard", services.StatsService{
		Aggregator: stats.Aggregator{
			Fetcher:   deps.Backend,
			Cache:     deps.Cache,
			FreshFor:  time.Duration(config.Stats.FreshSeconds) * time.Second,
			Retention: time.Duration(config.Stats.RetentionSeconds) * time.Second,
		},
		Sessions: sessions,
	}.Routes())

	r.Mount("/audit", services.AuditService{
		ActivityLogger: deps.ActivityLogger,
		Sessions:       sessions,
	}.Routes())

	r.Mount("/moderation", services.ModerationService{
		Moderator: deps.Moderator,
		Sessions:  sessions,
		Recorder:  deps.Recorder,
	}.Routes())

	r.Handle(configuration.ProxyPrefix+"/*", proxy.NewHandler(deps.Backend, sessions, deps.Recorder))

	return otelhttp.NewHandler(r, configuration.AppName)
}

// StartHTTPServer serves until ctx is cancelled, then drains in-flight requests.
// Handlers have no write deadline: proxied uploads and backend calls are not time bounded.
func StartHTTPServer(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	zap.L().Info("HTTP server starting", zap.Int("port", port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
