package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserEmail records the account email under the key "email".
func UserEmail(email string) slog.Attr {
	return slog.String("email", email)
}

// Provider records the identity provider tag under the key "provider".
func Provider(provider string) slog.Attr {
	return slog.String("provider", provider)
}

// Token records a masked token value under the key "token". Only a short
// prefix is kept so full credentials never reach the logs.
func Token(token string) slog.Attr {
	const keep = 8
	if len(token) > keep {
		token = token[:keep] + "..."
	}
	return slog.String("token", token)
}
