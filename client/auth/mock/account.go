package mock

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sync/atomic"

	"github.com/viant/authclient/client/auth/credential"
	"golang.org/x/crypto/bcrypt"
)

var passwordRules = []struct {
	expr        *regexp.Regexp
	requirement string
}{
	{regexp.MustCompile(`[A-Z]`), "one uppercase letter"},
	{regexp.MustCompile(`[a-z]`), "one lowercase letter"},
	{regexp.MustCompile(`\d`), "one digit"},
	{regexp.MustCompile(`\W`), "one special character"},
}

// PasswordRequirements lists the rules a password misses.
func PasswordRequirements(password string) []string {
	var missing []string
	if len(password) < 8 {
		missing = append(missing, "at least 8 characters")
	}
	for _, rule := range passwordRules {
		if !rule.expr.MatchString(password) {
			missing = append(missing, rule.requirement)
		}
	}
	return missing
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func readCredentials(w http.ResponseWriter, r *http.Request) (*credentials, bool) {
	input := &credentials{}
	if err := json.NewDecoder(r.Body).Decode(input); err != nil || input.Username == "" || input.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "Username and password are required"})
		return nil, false
	}
	return input, true
}

// AddUser registers a user directly, bypassing password rules
func (b *Backend) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = &user{passwordHash: hash}
	return nil
}

func (b *Backend) registerHandler(w http.ResponseWriter, r *http.Request) {
	input, ok := readCredentials(w, r)
	if !ok {
		return
	}
	if missing := PasswordRequirements(input.Password); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "Password is too weak.", "requirements": missing})
		return
	}
	b.mu.Lock()
	_, exists := b.users[input.Username]
	b.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"message": "User already exists"})
		return
	}
	if err := b.AddUser(input.Username, input.Password); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Server error"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "User created successfully"})
}

func (b *Backend) loginHandler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&b.LoginCalls, 1)
	input, ok := readCredentials(w, r)
	if !ok {
		return
	}
	status, message := b.authenticate(input)
	if status != http.StatusOK {
		writeJSON(w, status, map[string]interface{}{"message": message})
		return
	}
	accessToken, err := b.createJWT(input.Username, accessTokenType, b.AccessTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Server error"})
		return
	}
	refreshToken, err := b.createJWT(input.Username, refreshTokenType, b.RefreshTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Server error"})
		return
	}
	if b.Mode == credential.Cookie {
		b.setCookie(w, AccessCookieName, accessToken, b.AccessTTL)
		b.setCookie(w, RefreshCookieName, refreshToken, b.RefreshTTL)
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Login successful (cookie mode)"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Login successful",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// authenticate checks the password and applies the failed-attempt lockout.
func (b *Backend) authenticate(input *credentials) (int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	aUser, ok := b.users[input.Username]
	if !ok {
		return http.StatusUnauthorized, "Invalid username or password"
	}
	now := b.now()
	if aUser.failedAttempts >= b.LockoutThreshold {
		if now.Sub(aUser.lastFailed) < b.LockoutTime {
			return http.StatusForbidden, "Account temporarily locked. Try again later."
		}
		aUser.failedAttempts = 0
	}
	if err := bcrypt.CompareHashAndPassword(aUser.passwordHash, []byte(input.Password)); err != nil {
		aUser.failedAttempts++
		aUser.lastFailed = now
		return http.StatusUnauthorized, "Invalid username or password"
	}
	aUser.failedAttempts = 0
	return http.StatusOK, ""
}

func (b *Backend) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if b.Mode == credential.Cookie {
		b.unsetCookie(w, AccessCookieName)
		b.unsetCookie(w, RefreshCookieName)
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Logged out (cookies cleared)"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Logout: no cookies to clear"})
}
