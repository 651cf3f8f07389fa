package services

import (
	"context"
	"net/http"

	"admin/internal/activity"
	apierrors "admin/internal/errors"
	"admin/internal/events"
	"admin/internal/handlers"
	h "admin/internal/helpers"
	m "admin/internal/middlewares"
	"admin/internal/models"
	"admin/internal/moderation"
	"admin/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ModerationService wraps the AI content check. Moderator is nil without an API key.
type ModerationService struct {
	Moderator moderation.Moderator
	Sessions  session.Store
	Recorder  *events.Recorder
}

func (s ModerationService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.RequireSession(s.Sessions)).
		With(m.Validate[models.ModerationBody]).
		Post("/check", handlers.CreateHandler(s.Check))
	return r
}

func (s ModerationService) Check(
	ctx context.Context,
	logger *zap.Logger,
	token string,
	body models.ModerationBody,
) (models.ModerationVerdict, error) {
	if s.Moderator == nil {
		return models.ModerationVerdict{}, apierrors.NewAPIError(http.StatusServiceUnavailable, apierrors.MsgModerationDisabled)
	}

	verdict, err := s.Moderator.Check(ctx, body.Text)
	if err != nil {
		logger.Error("Content moderation failed", zap.Error(err))
		return models.ModerationVerdict{}, apierrors.NewAPIError(http.StatusBadGateway, apierrors.MsgModerationFailed)
	}

	if !verdict.Allowed {
		s.Recorder.Record(logger, models.Activity{
			Message: "Content refused by moderation",
			Action:  activity.ContentModerated,
			Actor:   h.ActorFromToken(token),
			Object:  map[string]any{"reason": verdict.Reason},
		})
	}
	return verdict, nil
}
