package session

import (
	"net/http"

	"admin/internal/configuration"
)

// Store keeps the backend bearer token of the current browser.
type Store interface {
	Get(r *http.Request) (string, bool)
	Set(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

// CookieStore holds the token in an HTTP-only cookie. Secure is enabled in production.
type CookieStore struct {
	Secure bool
}

func NewCookieStore(secure bool) CookieStore {
	return CookieStore{Secure: secure}
}

func (s CookieStore) Get(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(configuration.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s CookieStore) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, s.cookie(token, int(configuration.SessionMaxAge.Seconds())))
}

// Clear expires the cookie. Safe to call when no session exists.
func (s CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     configuration.SessionCookieName,
		Value:    value,
		Path:     configuration.SessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
