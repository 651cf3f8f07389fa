package handlers

import (
	"context"
	"net/http"

	apierrors "admin/internal/errors"
	h "admin/internal/helpers"
	m "admin/internal/middlewares"

	"go.uber.org/zap"
)

// SessionFunc handles a request of a signed-in admin whose input was validated upstream.
type SessionFunc[In any, Out any] func(ctx context.Context, logger *zap.Logger, token string, input In) (Out, error)

// CreateHandler serves a POST whose body was stored by middlewares.Validate.
func CreateHandler[In any, Out any](fn SessionFunc[In, Out]) http.HandlerFunc {
	return respond(m.GetBody[In], fn)
}

// GetOneWithQueryHandler serves a GET whose query was stored by middlewares.ValidateQuery.
func GetOneWithQueryHandler[In any, Out any](fn SessionFunc[In, Out]) http.HandlerFunc {
	return respond(m.GetBody[In], fn)
}

func respond[In any, Out any](input func(*http.Request) (In, bool), fn SessionFunc[In, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := m.GetLogger(r)

		data, ok := input(r)
		if !ok {
			logger.Error("Handler mounted without its validation middleware")
			h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgInternal)
			return
		}

		out, err := fn(r.Context(), logger, m.GetSessionToken(r), data)
		if err != nil {
			h.RespondWithError(w, err)
			return
		}
		h.RespondWithJSON(w, http.StatusOK, out)
	}
}
