package auth

import "fmt"

// googleNormalizer reads the OpenID Connect userinfo payload: sub, email,
// name and picture live at the top level and email is always present.
type googleNormalizer struct{}

func (googleNormalizer) Normalize(attrs map[string]any) (Identity, error) {
	sub := stringAttr(attrs, "sub")
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: google profile missing sub", ErrProviderUnavailable)
	}

	id := Identity{
		Provider:   ProviderGoogle,
		ProviderID: sub,
		Name:       stringAttr(attrs, "name"),
		AvatarURL:  stringAttr(attrs, "picture"),
	}
	if email := stringAttr(attrs, "email"); email != "" {
		id.Email = email
		id.EmailPresent = true
	}
	return id, nil
}
