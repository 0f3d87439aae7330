package auth

import "fmt"

// Identity is the provider-independent shape extracted from a raw OAuth2
// profile payload. EmailPresent distinguishes a genuinely absent address
// from an empty string; Kakao withholds the address unless the user granted
// email consent and the provider verified it.
type Identity struct {
	Provider     Provider
	ProviderID   string
	Email        string
	EmailPresent bool
	Name         string
	AvatarURL    string
}

// PlaceholderEmail synthesizes a deterministic stand-in address for
// identities whose provider did not disclose an email. The .invalid TLD
// guarantees the address can never be delivered to.
func (i Identity) PlaceholderEmail() string {
	return fmt.Sprintf("%s_%s@placeholder.invalid", i.Provider, i.ProviderID)
}

// Normalizer extracts an Identity from a provider's raw attribute payload.
type Normalizer interface {
	Normalize(attrs map[string]any) (Identity, error)
}

// NormalizerFor returns the normalizer for a social provider, or
// ErrUnsupportedProvider for local and unknown providers.
func NormalizerFor(p Provider) (Normalizer, error) {
	switch p {
	case ProviderGoogle:
		return googleNormalizer{}, nil
	case ProviderNaver:
		return naverNormalizer{}, nil
	case ProviderKakao:
		return kakaoNormalizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, p)
	}
}

func stringAttr(attrs map[string]any, key string) string {
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

func boolAttr(attrs map[string]any, key string) bool {
	v, _ := attrs[key].(bool)
	return v
}

func mapAttr(attrs map[string]any, key string) map[string]any {
	if v, ok := attrs[key].(map[string]any); ok {
		return v
	}
	return nil
}
