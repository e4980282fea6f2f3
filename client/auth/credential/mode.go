package credential

import (
	"fmt"
	"strings"
)

// Mode selects how a credential travels with a request.
type Mode string

const (
	// HeaderToken sends the access token as "Authorization: Bearer {token}".
	HeaderToken Mode = "header"
	// Cookie relies on browser-style cookies held by the transport's jar.
	Cookie Mode = "cookie"
)

// Storage keys
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// ParseMode parses mode text, empty text yields HeaderToken.
func ParseMode(text string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(text))) {
	case "", HeaderToken:
		return HeaderToken, nil
	case Cookie:
		return Cookie, nil
	}
	return "", fmt.Errorf("unsupported credential mode: %q", text)
}

func (m Mode) String() string {
	return string(m)
}
