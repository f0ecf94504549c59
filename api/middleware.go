package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/models"
	"github.com/OpNop/TINY-API/service"
)

type contextKey struct{ name string }

var sessionContextKey = contextKey{"session"}

// sessionFrom returns the authenticated session attached to the request,
// nil for requests authenticated with the static service key.
func sessionFrom(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey).(*models.Session)
	return session
}

// requireAuth accepts either a bearer JWT issued by the auth service or the
// static service key used by trusted automation (the guild's Discord bot).
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, fmt.Errorf("%w: missing credentials", service.ErrUnauthorized))
			return
		}

		if s.serviceKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.serviceKey)) == 1 {
			next.ServeHTTP(w, r)
			return
		}

		session, err := s.auth.VerifyBearer(token)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Info("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
