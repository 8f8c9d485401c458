package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/betcatalog/core/pkg/logger"
)

// RequestLog tags each request with a request id, puts the scoped logger on
// the context and records the request on the way out
func RequestLog(log *logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		reqLogger := log.WithRequestID(requestID)

		start := time.Now()
		next(w, r.WithContext(reqLogger.ToContext(r.Context())))

		reqLogger.Info().
			Str("action", "http_request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
