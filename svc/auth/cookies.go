package auth

import (
	"net/http"

	"github.com/agentica/userkit/pkg/cookie"
)

// Session cookie names. Both are HttpOnly with Path=/ so they ride along
// on every request and stay out of reach of page scripts.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// SetSessionCookies writes the token pair with Max-Age derived from each
// token's lifetime.
func SetSessionCookies(w http.ResponseWriter, cookies *cookie.Manager, session Session) {
	cookies.Set(w, CookieAccessToken, session.AccessToken,
		cookie.WithMaxAge(int(session.AccessTTL.Seconds())))
	cookies.Set(w, CookieRefreshToken, session.RefreshToken,
		cookie.WithMaxAge(int(session.RefreshTTL.Seconds())))
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(w http.ResponseWriter, cookies *cookie.Manager) {
	cookies.Delete(w, CookieAccessToken)
	cookies.Delete(w, CookieRefreshToken)
}
