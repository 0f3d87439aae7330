package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password does not
	// match an account. Unknown emails surface this same error so the login
	// endpoint does not leak which addresses are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every way a token can fail verification:
	// bad signature, expired, malformed, replayed after rotation, or
	// simply absent from the store.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnverifiedEmail is returned on local login when the account exists
	// but its email address has not been verified yet.
	ErrUnverifiedEmail = errors.New("email not verified")

	// ErrUnsupportedProvider is returned when a request names a provider
	// the service has no adapter for.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrProviderUnavailable indicates the external provider could not be
	// reached or returned an unusable response during login.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrAccountNotFound is returned by account storage lookups.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailAlreadyExists is returned when creating an account whose
	// email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidState is returned when an OAuth2 callback carries a state
	// parameter that was never issued or has already been consumed.
	ErrInvalidState = errors.New("invalid or expired oauth state")

	// ErrInvalidCode is returned when the authorization code exchange is
	// rejected by the provider.
	ErrInvalidCode = errors.New("invalid authorization code")

	// ErrProviderTokenNotFound is returned by the provider token cache
	// when no access token is stored for the given account and provider.
	ErrProviderTokenNotFound = errors.New("no cached provider token")

	// ErrRealEmailRequired blocks operations that need a deliverable email
	// address on accounts created with a synthesized placeholder address.
	ErrRealEmailRequired = errors.New("real email required")
)
