package middleware

import (
	"context"
	"net/http"
	"strings"

	"arcronym/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const SessionContextKey = contextKey("session")

// SessionCookieName is the cookie holding the session token for browser form posts.
const SessionCookieName = "arc_session"

// SessionMiddleware attaches the session claims of a valid token to the request context.
// Requests without a valid session pass through untouched; handlers decide what that means.
func SessionMiddleware(keyMaterial string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := util.ValidateJWT(token, keyMaterial)
			if err != nil {
				logger.Debug().Err(err).Msg("Ignoring invalid session token")
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionFromContext returns the session claims, or nil when the request has no session.
func SessionFromContext(ctx context.Context) *util.Claims {
	claims, _ := ctx.Value(SessionContextKey).(*util.Claims)
	return claims
}

// WithSession returns a copy of ctx carrying claims.
func WithSession(ctx context.Context, claims *util.Claims) context.Context {
	return context.WithValue(ctx, SessionContextKey, claims)
}
