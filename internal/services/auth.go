package services

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"admin/internal/activity"
	"admin/internal/backend"
	"admin/internal/cache"
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

type AuthService struct {
	Backend        *backend.Client
	Sessions       session.Store
	Recorder       *events.Recorder
	Cache          cache.ICache
	LoginRateLimit int
	// LogoutTimeout bounds the backend logout call. Zero means configuration.BackendLogoutTimeout.
	LogoutTimeout time.Duration
}

func (s AuthService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.RateLimit(s.Cache, s.LoginRateLimit)).
		With(m.Validate[models.AuthLoginBody]).
		Post("/login", s.LoginHandler)
	r.Post("/logout", s.LogoutHandler)
	return r
}

// Login runs the credential check against the backend. Only LoginStateAuthenticated carries a token.
func (s AuthService) Login(ctx context.Context, logger *zap.Logger, body models.AuthLoginBody) models.LoginResult {
	status, reply, err := s.Backend.Login(ctx, body)
	if err != nil {
		if errors.Is(err, backend.ErrNotConfigured) {
			return models.LoginResult{
				State:   models.LoginStateError,
				Status:  http.StatusInternalServerError,
				Message: apierrors.MsgBackendNotConfigured,
			}
		}
		logger.Error("Login request to backend failed", zap.Error(err))
		return models.LoginResult{
			State:   models.LoginStateError,
			Status:  http.StatusInternalServerError,
			Message: apierrors.MsgLoginUnavailable,
		}
	}

	if status < 200 || status > 299 || reply.Token == "" {
		result := models.LoginResult{State: models.LoginStateFailed, Status: status, Message: reply.Message}
		if result.Status < http.StatusBadRequest {
			result.Status = http.StatusUnauthorized
		}
		if result.Message == "" {
			result.Message = apierrors.MsgLoginFailed
		}
		logger.Debug("Login refused by backend", zap.Int("status", status))
		return result
	}

	if !strings.EqualFold(strings.TrimSpace(reply.User.Role), configuration.RequiredAdminRole) {
		logger.Info("Login rejected for non admin account", zap.String("role", reply.User.Role))
		return models.LoginResult{
			State:   models.LoginStateRejected,
			Status:  http.StatusForbidden,
			User:    reply.User,
			Message: apierrors.MsgNotAdmin,
		}
	}

	return models.LoginResult{
		State:    models.LoginStateAuthenticated,
		Status:   http.StatusOK,
		Token:    reply.Token,
		User:     reply.User,
		Redirect: configuration.DashboardRoute,
	}
}

func (s AuthService) LoginHandler(w http.ResponseWriter, r *http.Request) {
	logger := m.GetLogger(r)
	body, _ := m.GetBody[models.AuthLoginBody](r)

	result := s.Login(r.Context(), logger, body)
	switch result.State {
	case models.LoginStateAuthenticated:
		s.Sessions.Set(w, result.Token)
		s.Recorder.Record(logger, models.Activity{
			Message: "Administrator signed in",
			Action:  activity.AdminLoggedIn,
			Actor:   actorOf(result.User, body.Email),
		})
		redirect(w, r, result.Redirect)
	case models.LoginStateRejected:
		s.Recorder.Record(logger, models.Activity{
			Message: "Sign in refused to an account without the admin role",
			Action:  activity.AdminLoginRejected,
			Actor:   actorOf(result.User, body.Email),
			Status:  result.Status,
		})
		h.RespondWithMessage(w, result.Status, result.Message)
	default:
		h.RespondWithMessage(w, result.Status, result.Message)
	}
}

// LogoutHandler always ends the local session, whatever the backend answers.
func (s AuthService) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := m.GetLogger(r)
	token, hasToken := s.Sessions.Get(r)

	if hasToken && s.Backend.Configured() {
		bestEffort(logger, "backend logout", func() error {
			timeout := s.LogoutTimeout
			if timeout <= 0 {
				timeout = configuration.BackendLogoutTimeout
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			return s.Backend.Logout(ctx, token)
		})
	}

	s.Sessions.Clear(w)
	if hasToken {
		s.Recorder.Record(logger, models.Activity{
			Message: "Administrator signed out",
			Action:  activity.AdminLoggedOut,
			Actor:   h.ActorFromToken(token),
		})
	}
	redirect(w, r, configuration.LoginRoute)
}

// bestEffort runs fn and only logs its failure.
func bestEffort(logger *zap.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("Ignoring failed "+name, zap.Error(err))
	}
}

func actorOf(user models.BackendUser, fallback string) string {
	if user.Email != "" {
		return user.Email
	}
	return fallback
}

// redirect sends browsers a 303 and JSON clients a {redirect} body they can follow themselves.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if wantsJSON(r) {
		h.RespondWithJSON(w, http.StatusOK, models.RedirectResponse{Redirect: target})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil &&
		mediaType == "application/json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
