package services

import (
	"context"
	"net/http"

	"admin/internal/activity"
	"admin/internal/configuration"
	apierrors "admin/internal/errors"
	"admin/internal/handlers"
	m "admin/internal/middlewares"
	"admin/internal/models"
	"admin/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuditService exposes the local audit trail. ActivityLogger is nil when the index is disabled.
type AuditService struct {
	ActivityLogger activity.IActivityLogger
	Sessions       session.Store
}

func (s AuditService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.RequireSession(s.Sessions))

	r.With(m.ValidateQuery[models.ActivityQueryParams]).
		Get("/activity", handlers.GetOneWithQueryHandler(s.ListActivity))
	r.With(m.ValidateQuery[models.ActivityDailyQueryParams]).
		Get("/activity/daily", handlers.GetOneWithQueryHandler(s.GetDailyActivity))
	return r
}

func (s AuditService) ListActivity(
	_ context.Context,
	logger *zap.Logger,
	_ string,
	params models.ActivityQueryParams,
) ([]models.Activity, error) {
	if s.ActivityLogger == nil {
		return nil, apierrors.NewAPIError(http.StatusServiceUnavailable, apierrors.MsgActivityDisabled)
	}

	limit := params.Limit
	if limit == 0 {
		limit = configuration.ActivityDefaultLimit
	}
	limit = min(limit, configuration.ActivitySearchLimit)

	criteria := map[string][]string{}
	if params.Action != "" {
		criteria["action"] = []string{params.Action}
	}
	if params.Actor != "" {
		criteria["actor"] = []string{params.Actor}
	}

	entries, err := s.ActivityLogger.Search(criteria, limit)
	if err != nil {
		logger.Error("Activity search failed", zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	return entries, nil
}

func (s AuditService) GetDailyActivity(
	_ context.Context,
	logger *zap.Logger,
	_ string,
	params models.ActivityDailyQueryParams,
) ([]models.TimeSeriesPoint, error) {
	if s.ActivityLogger == nil {
		return nil, apierrors.NewAPIError(http.StatusServiceUnavailable, apierrors.MsgActivityDisabled)
	}

	days := params.Days
	if days == 0 {
		days = configuration.ActivityDefaultDays
	}

	criteria := map[string][]string{}
	if params.Action != "" {
		criteria["action"] = []string{params.Action}
	}

	points, err := s.ActivityLogger.CountByDay(criteria, days)
	if err != nil {
		logger.Error("Activity histogram failed", zap.Error(err))
		return nil, err
	}
	return points, nil
}
