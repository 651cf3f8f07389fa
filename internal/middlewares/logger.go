package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type LoggerKey struct{}

// Logger attaches a request scoped zap logger and logs each completed request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := zap.L().With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx := context.WithValue(r.Context(), LoggerKey{}, logger)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info("Request completed",
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// GetLogger returns the request logger, or the global one outside of Logger.
func GetLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(LoggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}
