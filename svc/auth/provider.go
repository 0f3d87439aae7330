package auth

import "strings"

// Provider identifies how an account authenticates. Local accounts hold a
// password hash; social accounts delegate to an external OAuth2 provider.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderNaver  Provider = "naver"
	ProviderKakao  Provider = "kakao"
)

// SocialProviders lists every supported external identity provider.
var SocialProviders = []Provider{ProviderGoogle, ProviderNaver, ProviderKakao}

// ParseProvider maps a provider tag to a Provider, defaulting to local for
// empty or unknown tags. Use NormalizerFor when an unknown tag must be treated
// as a configuration error instead.
func ParseProvider(s string) Provider {
	switch strings.ToLower(s) {
	case "google":
		return ProviderGoogle
	case "naver":
		return ProviderNaver
	case "kakao":
		return ProviderKakao
	default:
		return ProviderLocal
	}
}

// IsSocial reports whether the provider is an external OAuth2 provider.
func (p Provider) IsSocial() bool {
	return p != ProviderLocal && p != ""
}

func (p Provider) String() string { return string(p) }
