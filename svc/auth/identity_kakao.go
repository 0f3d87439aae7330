package auth

import (
	"fmt"
	"strconv"
)

// kakaoDefaultName is used when the user withheld nickname consent.
const kakaoDefaultName = "카카오 사용자"

// kakaoNormalizer reads the /v2/user/me payload. Kakao only discloses the
// email when the user consented AND the provider marked it both valid and
// verified; anything less is treated as no email at all.
type kakaoNormalizer struct{}

func (kakaoNormalizer) Normalize(attrs map[string]any) (Identity, error) {
	pid := kakaoUserID(attrs["id"])
	if pid == "" {
		return Identity{}, fmt.Errorf("%w: kakao profile missing id", ErrProviderUnavailable)
	}

	id := Identity{
		Provider:   ProviderKakao,
		ProviderID: pid,
		Name:       kakaoDefaultName,
	}

	account := mapAttr(attrs, "kakao_account")
	if account == nil {
		return id, nil
	}

	if profile := mapAttr(account, "profile"); profile != nil {
		if !boolAttr(account, "profile_nickname_needs_agreement") {
			if nick := stringAttr(profile, "nickname"); nick != "" {
				id.Name = nick
			}
		}
		if !boolAttr(account, "profile_image_needs_agreement") {
			id.AvatarURL = stringAttr(profile, "profile_image_url")
		}
	}

	email := stringAttr(account, "email")
	if email != "" &&
		boolAttr(account, "is_email_valid") &&
		boolAttr(account, "is_email_verified") &&
		!boolAttr(account, "email_needs_agreement") {
		id.Email = email
		id.EmailPresent = true
	}
	return id, nil
}

// kakaoUserID renders the numeric kakao id; JSON decoding hands it over as
// a float64 but string payloads are accepted too.
func kakaoUserID(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case string:
		return n
	default:
		return ""
	}
}
