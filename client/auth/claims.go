package auth

import (
	"context"
	"fmt"
	neturl "net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/authclient/client/auth/credential"
)

// AccessCookieName is the cookie carrying the access token in cookie mode.
const AccessCookieName = "access_token_cookie"

// Claims describes the current access token. Signatures are not verified:
// the backend stays the only authority on validity.
type Claims struct {
	Subject   string                 `json:"subject,omitempty"`
	Username  string                 `json:"username,omitempty"`
	IssuedAt  time.Time              `json:"issuedAt,omitempty"`
	ExpiresAt time.Time              `json:"expiresAt,omitempty"`
	Raw       map[string]interface{} `json:"claims,omitempty"`
}

// Expired reports whether the token expiry is in the past.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the stored access token, or the access cookie in cookie mode.
func (c *Client) Claims(ctx context.Context) (*Claims, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return ParseClaims(token)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.transport.Mode() == credential.HeaderToken {
		value, ok, err := c.Store().Get(ctx, credential.AccessTokenKey)
		if err != nil {
			return "", err
		}
		if !ok || value == "" {
			return "", &credential.MissingCredentialError{Key: credential.AccessTokenKey}
		}
		return value, nil
	}
	URL, err := neturl.Parse(c.transport.BaseURL())
	if err != nil {
		return "", err
	}
	if jar := c.transport.Jar(); jar != nil {
		for _, cookie := range jar.Cookies(URL) {
			if cookie.Name == AccessCookieName {
				return cookie.Value, nil
			}
		}
	}
	return "", &credential.MissingCredentialError{Key: AccessCookieName}
}

// ParseClaims decodes JWT claims without verifying the signature.
func ParseClaims(token string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	ret := &Claims{Raw: claims}
	ret.Subject, _ = claims.GetSubject()
	if username, ok := claims["username"].(string); ok {
		ret.Username = username
	}
	if issued, _ := claims.GetIssuedAt(); issued != nil {
		ret.IssuedAt = issued.Time
	}
	if expires, _ := claims.GetExpirationTime(); expires != nil {
		ret.ExpiresAt = expires.Time
	}
	return ret, nil
}
