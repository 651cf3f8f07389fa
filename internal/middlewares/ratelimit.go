package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"admin/internal/cache"
	apierrors "admin/internal/errors"
	"admin/internal/helpers"

	"go.uber.org/zap"
)

// RateLimit bounds requests per minute and client address. RealIP must run first.
// A cache failure lets the request through.
func RateLimit(c cache.ICache, requestsPerMinute int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil || requestsPerMinute <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			retryAfter, err := c.GetRateLimit(r.Context(), clientAddress(r), requestsPerMinute)
			if err != nil {
				GetLogger(r).Error("Rate limit lookup failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				helpers.RespondWithMessage(w, http.StatusTooManyRequests, apierrors.MsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
