package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

type ctxKey int

const profileKey ctxKey = iota

// SessionCookie is the name of the login token cookie.
const SessionCookie = "junifit_session"

// ProfileFromContext returns the authenticated profile, if any.
func ProfileFromContext(ctx context.Context) (models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(models.Profile)
	return p, ok
}

// RequireProfile resolves the request identity and aborts with 401 when
// none is found. Identity comes from the session cookie (or Bearer
// token), or from the tailnet user when running behind tsnet.
func (s *Server) RequireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := requestToken(r); token != "" {
			profile, err := s.auth.Authenticate(r.Context(), token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), profileKey, profile)))
				return
			}
		}

		if s.ts != nil {
			who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
			if err == nil && who.UserProfile != nil {
				profile, err := s.db.GetOrCreateProfile(r.Context(), who.UserProfile.LoginName, who.UserProfile.DisplayName)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), profileKey, profile)))
					return
				}
				s.log.Error("tailnet profile lookup failed", "login", who.UserProfile.LoginName, "error", err)
			}
		}

		writeError(w, http.StatusUnauthorized, "authentication required")
	})
}

// requestToken extracts the login token from the cookie or the
// Authorization header.
func requestToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
