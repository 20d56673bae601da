package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareIssuesCookieAndSession(t *testing.T) {
	var gotUser, gotSession string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.Header.Set(SessionHeaderName, "tab-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.True(t, isValidAnonID(gotUser), gotUser)
	assert.Equal(t, "tab-1", gotSession)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AnonCookieName, cookies[0].Name)
	assert.Equal(t, gotUser, cookies[0].Value)
	assert.False(t, cookies[0].Secure)
}

func TestMiddlewareReusesValidCookie(t *testing.T) {
	const existing = "anon_0123456789abcdef0123456789abcdef"
	var gotUser string
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat?session_id=bad%20id", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: existing})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, existing, gotUser)
	require.Len(t, w.Result().Cookies(), 1)
	assert.True(t, w.Result().Cookies()[0].Secure)
}

func TestSessionIDDefaults(t *testing.T) {
	assert.Equal(t, DefaultSessionIDValue, sanitizeSessionID(""))
	assert.Equal(t, DefaultSessionIDValue, sanitizeSessionID("has space"))
	assert.Equal(t, "a.b:c-d_e", sanitizeSessionID(" a.b:c-d_e "))
	assert.Equal(t, DefaultSessionIDValue, SessionIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
