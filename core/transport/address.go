package transport

import (
	"fmt"
	"net/url"
)

// SessionAddress describes where a session connects: a base socket URL plus
// the role and user-identity path segments and a language query attribute.
//
// Resolution happens on every dial so a reconnect after credentials or
// language change picks up the fresh values.
type SessionAddress struct {
	Base     string
	Role     string
	UserID   string
	Language string
}

// Resolve produces the dialable URL for this address.
func (a SessionAddress) Resolve() (string, error) {
	if a.Base == "" {
		return "", fmt.Errorf("session address has no base URL")
	}
	if a.Role == "" || a.UserID == "" {
		return "", fmt.Errorf("session address requires role and user id")
	}

	base, err := url.Parse(a.Base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", a.Base, err)
	}
	switch base.Scheme {
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in session address", base.Scheme)
	}

	resolved := base.JoinPath("ws", a.Role, a.UserID)
	if a.Language != "" {
		query := resolved.Query()
		query.Set("lang", a.Language)
		resolved.RawQuery = query.Encode()
	}

	return resolved.String(), nil
}
