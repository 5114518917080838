package api

import (
	"context"
	"net/http"
	"strings"
)

type contextKey int

const userIDKey contextKey = iota

// requireAuth resolves the `Authorization: Bearer <session_id>` header
// (§6) into a user id, rejecting the request with an AuthError (§7) if the
// bearer is missing, malformed, or unknown.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			writeError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}

		sessionID := strings.TrimPrefix(header, prefix)
		userID, ok := s.sessions.Resolve(sessionID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown session")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userIDFrom(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
