package mock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/viant/authclient/client/auth/credential"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *Backend) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   b.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (b *Backend) unsetCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, Secure: b.SecureCookies, HttpOnly: true})
}

// presentedToken reads the credential of tokenType from header or cookie depending on mode
func (b *Backend) presentedToken(r *http.Request, tokenType string) (string, error) {
	if b.Mode == credential.Cookie {
		name := AccessCookieName
		if tokenType == refreshTokenType {
			name = RefreshCookieName
		}
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			return "", errors.New("Missing cookie \"" + name + "\"")
		}
		return cookie.Value, nil
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("Missing Authorization Header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Bad Authorization header. Expected 'Authorization: Bearer <JWT>'")
	}
	return parts[1], nil
}

func (b *Backend) authorize(w http.ResponseWriter, r *http.Request, tokenType string) (string, bool) {
	token, err := b.presentedToken(r, tokenType)
	if err == nil {
		var username string
		if username, err = b.verifyJWT(token, tokenType); err == nil {
			return username, true
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"msg": err.Error()})
	return "", false
}

func (b *Backend) refreshHandler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&b.RefreshCalls, 1)
	if b.refreshRejected() {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"msg": "Token has been revoked"})
		return
	}
	username, ok := b.authorize(w, r, refreshTokenType)
	if !ok {
		return
	}
	accessToken, err := b.createJWT(username, accessTokenType, b.AccessTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Server error"})
		return
	}
	if b.Mode == credential.Cookie {
		b.setCookie(w, AccessCookieName, accessToken, b.AccessTTL)
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Token refreshed (cookie mode)"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"access_token": accessToken})
}

func (b *Backend) protectedHandler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&b.ProtectedCalls, 1)
	username, ok := b.authorize(w, r, accessTokenType)
	if !ok {
		return
	}
	if b.ProtectedHandler != nil {
		b.ProtectedHandler(w, r)
		return
	}
	via := "header"
	if b.Mode == credential.Cookie {
		via = "cookies"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Hello " + username + ", welcome to the protected page (via " + via + ")",
	})
}
