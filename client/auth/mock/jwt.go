package mock

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// createJWT signs a token of tokenType for username
func (b *Backend) createJWT(username, tokenType string, expiry time.Duration) (string, error) {
	now := b.now()
	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"type":     tokenType,
		"jti":      uuid.NewString(),
		"gen":      strconv.FormatInt(atomic.LoadInt64(&b.generation), 10),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.SecretKey)
}

// verifyJWT returns the username of a valid token of tokenType
func (b *Backend) verifyJWT(tokenString, tokenType string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return b.SecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil {
		return "", err
	}
	if actual, _ := claims["type"].(string); actual != tokenType {
		return "", fmt.Errorf("expected %v token", tokenType)
	}
	if tokenType == accessTokenType {
		gen, _ := claims["gen"].(string)
		if gen != strconv.FormatInt(atomic.LoadInt64(&b.generation), 10) {
			return "", errors.New("token has expired")
		}
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", errors.New("missing username claim")
	}
	return username, nil
}
