package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica/userkit/pkg/cookie"
)

func TestSetAndGet(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	rec := httptest.NewRecorder()
	m.Set(rec, "accessToken", "token-value", cookie.WithMaxAge(1800))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "accessToken", c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 1800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	value, err := m.Get(req, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Get(req, "absent")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestDeleteMatchesSetAttributes(t *testing.T) {
	t.Parallel()
	m := cookie.New(cookie.WithSecure(true), cookie.WithDomain("example.com"))

	setRec := httptest.NewRecorder()
	m.Set(setRec, "refreshToken", "v")
	set := setRec.Result().Cookies()[0]

	delRec := httptest.NewRecorder()
	m.Delete(delRec, "refreshToken")
	del := delRec.Result().Cookies()[0]

	// Identity attributes must match exactly or some browsers keep the cookie.
	assert.Equal(t, set.Path, del.Path)
	assert.Equal(t, set.Domain, del.Domain)
	assert.Equal(t, set.HttpOnly, del.HttpOnly)
	assert.Equal(t, set.Secure, del.Secure)
	assert.Equal(t, set.SameSite, del.SameSite)

	assert.Empty(t, del.Value)
	assert.Negative(t, del.MaxAge)
	assert.True(t, del.Expires.Before(time.Now()))
}

func TestPerCallOptionOverride(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	rec := httptest.NewRecorder()
	m.Set(rec, "a", "1", cookie.WithMaxAge(60))
	m.Set(rec, "b", "2")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, 60, cookies[0].MaxAge)
	assert.Equal(t, 0, cookies[1].MaxAge)
}
