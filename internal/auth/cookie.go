package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "access_token"

// SessionCookie maps session tokens to a transport cookie. The cookie
// is HttpOnly and SameSite=Strict; Secure follows the production flag.
type SessionCookie struct {
	Secure bool
}

// Set writes the session cookie with the token and its lifetime.
func (c SessionCookie) Set(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the session cookie. The token itself stays valid until
// its natural expiry; stateless tokens cannot be revoked server-side.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadSessionCookie extracts the session token from the request
// cookie, if present.
func ReadSessionCookie(r *http.Request) (string, bool) {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}
