package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/utils"
)

// Auth authenticates requests from the session cookie, falling back to
// an Authorization bearer header for non-browser clients. The verified
// user id is pushed into the request context.
func Auth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.ReadSessionCookie(r)
			if !ok {
				token, ok = bearerToken(r)
			}
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.CtxUserIDKey, claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
