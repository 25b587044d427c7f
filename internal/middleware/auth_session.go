package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type userKey string

const (
	userIDKey userKey = "user_id"

	sessionCookie = "__session"
)

// SessionVerifier resolves a session token to a user id.
type SessionVerifier interface {
	VerifySubject(ctx context.Context, token string) (string, error)
}

// RequireSession rejects requests without a valid session token with a JSON
// 401. The token is read from "Authorization: Bearer" first, then from the
// __session cookie.
func RequireSession(v SessionVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" || v == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			userID, err := v.VerifySubject(r.Context(), token)
			if err != nil || userID == "" {
				logger.Debug().
					Err(err).
					Str("request_id", RequestIDFromContext(r.Context())).
					Msg("session rejected")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		scheme, token, ok := strings.Cut(authHeader, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
