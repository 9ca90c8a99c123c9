package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/auth"
)

func TestSessionCookie_Set(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.SessionCookie{Secure: true}.Set(rec, "tok123", time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	ck := cookies[0]
	assert.Equal(t, auth.SessionCookieName, ck.Name)
	assert.Equal(t, "tok123", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 3600, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
}

func TestSessionCookie_SecureFollowsFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.SessionCookie{Secure: false}.Set(rec, "tok123", time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestSessionCookie_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.SessionCookie{}.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	ck := cookies[0]
	assert.Equal(t, auth.SessionCookieName, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestReadSessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := auth.ReadSessionCookie(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok123"})
	token, ok := auth.ReadSessionCookie(r)
	require.True(t, ok)
	assert.Equal(t, "tok123", token)
}
