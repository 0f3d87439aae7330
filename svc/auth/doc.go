// Package auth implements the credential and session lifecycle: local
// email/password login, social login through Google, Naver and Kakao,
// JWT session issuance with refresh rotation, multi-provider logout and
// two-phase account deletion.
//
// The package is storage-agnostic. AccountStorage and RefreshTokenStore
// have in-memory implementations for tests and single-process use, and
// Postgres-backed ones for production. Provider access tokens live in a
// ProviderTokenCache, backed by memory or Redis.
//
// Social logins resolve through three stages: a ProviderAdapter exchanges
// the OAuth2 code for the raw profile payload, a Normalizer distills it
// into a provider-independent Identity, and the AccountLinker maps that
// identity onto an account by email. Providers that withhold the email
// (Kakao, absent consent) get a synthesized placeholder address and the
// account is flagged until a real one is supplied.
//
// Session tokens are HS256 JWTs. The refresh token is additionally pinned
// to a stored record, one per account, so rotation invalidates the old
// token and a replay is rejected even though its signature still checks
// out.
//
// Logout is a state machine walk: invalidate the local session, revoke
// the stored refresh token, then notify the provider. Provider calls are
// best effort with a bounded timeout; their failure never fails the
// logout.
package auth
