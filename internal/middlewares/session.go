package middlewares

import (
	"context"
	"net/http"

	apierrors "admin/internal/errors"
	"admin/internal/helpers"
	"admin/internal/session"
)

type SessionTokenKey struct{}

// RequireSession rejects requests without a session cookie. It does not verify the token:
// the backend does, on every forwarded call.
func RequireSession(store session.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := store.Get(r)
			if !ok {
				helpers.RespondWithMessage(w, http.StatusUnauthorized, apierrors.MsgNotAuthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), SessionTokenKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionToken returns the token stored by RequireSession.
func GetSessionToken(r *http.Request) string {
	token, _ := r.Context().Value(SessionTokenKey{}).(string)
	return token
}
