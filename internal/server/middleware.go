package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vigenere-search/internal/auth"
	"github.com/vigenere-search/internal/errors"
)

// LoggerMiddleware logs HTTP requests with zerolog
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// AuthMiddleware requires a status token issued by a, read from the
// Authorization bearer header or the token query parameter
func AuthMiddleware(a *auth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				RespondError(w, errors.NewUnauthorized("missing token"))
				return
			}
			if _, err := a.ValidateToken(token); err != nil {
				RespondError(w, errors.NewUnauthorized(err.Error()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
