package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc defines a function that extracts a token from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc defines a function that determines whether to skip JWT validation for a request.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig configures JWT middleware behavior.
type MiddlewareConfig struct {
	Service   *Service           // JWT service for token validation
	Extractor TokenExtractorFunc // Token extraction strategy (defaults to bearer-or-cookie)
	Skip      SkipFunc           // Optional request filter to bypass validation
}

// Middleware creates JWT middleware using the default bearer-or-cookie extraction:
// the Authorization header takes precedence, the accessToken cookie is the fallback.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{
		Service:   service,
		Extractor: BearerOrCookieExtractor("accessToken"),
	})
}

// MiddlewareWithConfig creates JWT middleware with custom configuration.
// Validates the token and injects verified claims into the request context.
func MiddlewareWithConfig(config MiddlewareConfig) func(next http.Handler) http.Handler {
	if config.Extractor == nil {
		config.Extractor = BearerOrCookieExtractor("accessToken")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Skip != nil && config.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := config.Extractor(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			var claims StandardClaims
			if err := config.Service.Parse(tokenString, &claims); err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = SetToken(ctx, tokenString)
			ctx = SetClaims(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerTokenExtractor extracts JWT tokens from "Authorization: Bearer <token>" headers
// per RFC 6750.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// CookieTokenExtractor creates a token extractor for cookie-based JWT transport.
// Used for browser clients that receive tokens as HTTP-only cookies.
func CookieTokenExtractor(cookieName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return "", ErrMissingToken
		}
		return cookie.Value, nil
	}
}

// BearerOrCookieExtractor tries the Authorization header first and falls back to the
// named cookie when the header is absent. A malformed Authorization header is an
// error, not a fallback case.
func BearerOrCookieExtractor(cookieName string) TokenExtractorFunc {
	fromCookie := CookieTokenExtractor(cookieName)
	return func(r *http.Request) (string, error) {
		if r.Header.Get("Authorization") != "" {
			return BearerTokenExtractor(r)
		}
		return fromCookie(r)
	}
}
