// Package jwt provides generation, parsing, and validation of JSON Web Tokens
// together with HTTP middleware and context helpers.
//
// The implementation focuses on the HS256 (HMAC-SHA256) algorithm. A Service
// type wraps signing and verification while accepting any JSON-serialisable
// claims structure; StandardClaims mirrors the RFC 7519 registered fields and
// validates its own temporal claims.
//
// # Architecture
//
//   - Service – signs and verifies tokens.
//   - middleware.go – HTTP middleware that extracts a token and injects
//     verified claims into the request context. The default extractor checks
//     the Authorization header first and falls back to the accessToken cookie.
//   - context.go – helpers for attaching a token and its claims to a
//     context.Context.
//   - errors.go – sentinel error values returned by the package.
//
// # Usage
//
//	svc, err := jwt.NewFromString("super-secret")
//	if err != nil {
//	    // handle error
//	}
//
//	claims := jwt.StandardClaims{
//	    Subject:   "user@example.com",
//	    ExpiresAt: time.Now().Add(30 * time.Minute).Unix(),
//	}
//	token, err := svc.Generate(claims)
//
//	var parsed jwt.StandardClaims
//	if err := svc.Parse(token, &parsed); err != nil {
//	    // handle invalid / expired token
//	}
//
// # Error Handling
//
// Errors such as ErrExpiredToken or ErrInvalidSignature are returned as
// sentinel variables and can be compared using errors.Is.
//
// The package uses only the Go standard library. Signing keys are kept in
// memory only and are never logged.
package jwt
