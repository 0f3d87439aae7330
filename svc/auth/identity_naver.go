package auth

import "fmt"

// naverNormalizer reads the /v1/nid/me payload. Naver nests the profile
// under a "response" object; id, email, name and profile_image sit inside it.
type naverNormalizer struct{}

func (naverNormalizer) Normalize(attrs map[string]any) (Identity, error) {
	resp := mapAttr(attrs, "response")
	if resp == nil {
		return Identity{}, fmt.Errorf("%w: naver profile missing response object", ErrProviderUnavailable)
	}
	pid := stringAttr(resp, "id")
	if pid == "" {
		return Identity{}, fmt.Errorf("%w: naver profile missing id", ErrProviderUnavailable)
	}

	name := stringAttr(resp, "name")
	if name == "" {
		name = stringAttr(resp, "nickname")
	}

	id := Identity{
		Provider:   ProviderNaver,
		ProviderID: pid,
		Name:       name,
		AvatarURL:  stringAttr(resp, "profile_image"),
	}
	if email := stringAttr(resp, "email"); email != "" {
		id.Email = email
		id.EmailPresent = true
	}
	return id, nil
}
