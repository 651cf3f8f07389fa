package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"admin/internal/activity"
	"admin/internal/backend"
	"admin/internal/configuration"
	apierrors "admin/internal/errors"
	"admin/internal/events"
	h "admin/internal/helpers"
	m "admin/internal/middlewares"
	"admin/internal/models"
	"admin/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AccountService struct {
	Backend  *backend.Client
	Sessions session.Store
	Recorder *events.Recorder
}

func (s AccountService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.RequireSession(s.Sessions)).
		With(m.Validate[models.AccountUpdateBody]).
		Put("/{id}", s.UpdateAccount)
	return r
}

// UpdateAccount forwards the change to the backend and relays its reply like the narrow proxy routes do.
func (s AccountService) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	logger := m.GetLogger(r)
	token := m.GetSessionToken(r)
	body, _ := m.GetBody[models.AccountUpdateBody](r)
	path := fmt.Sprintf(configuration.BackendAdminUserPath, url.PathEscape(chi.URLParam(r, "id")))

	req := s.Backend.R(r.Context(), token).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	resp, err := s.Backend.Send(req, http.MethodPut, path)
	if errors.Is(err, backend.ErrNotConfigured) {
		h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgBackendNotConfigured)
		return
	}
	if err != nil {
		logger.Error("Error proxying to API", zap.String("target_path", path), zap.Error(err))
		h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgProxyFailed)
		return
	}

	if resp.IsSuccess() {
		s.Recorder.Record(logger, models.Activity{
			Message: "Account credentials updated",
			Action:  activity.AccountUpdated,
			Actor:   h.ActorFromToken(token),
			Method:  http.MethodPut,
			Path:    path,
			Status:  resp.StatusCode(),
			Object:  map[string]any{"email": body.Email, "password_changed": body.NewPassword != ""},
		})
	}

	h.RespondWithBackendJSON(w, resp.StatusCode(), resp.Body())
}
