package mock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authclient/client/auth/credential"
)

func post(t *testing.T, handler http.Handler, path string, body interface{}, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	for k, v := range header {
		req.Header[k] = v
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	payload := map[string]interface{}{}
	_ = json.Unmarshal(recorder.Body.Bytes(), &payload)
	return recorder, payload
}

func TestPasswordRequirements(t *testing.T) {
	assert.Empty(t, PasswordRequirements("Str0ng!pass"))
	assert.Equal(t, []string{"at least 8 characters", "one uppercase letter", "one digit", "one special character"}, PasswordRequirements("weak"))
}

func TestBackend_RegisterAndLogin(t *testing.T) {
	backend, err := NewBackend(credential.HeaderToken)
	require.NoError(t, err)
	handler := backend.Handler()

	recorder, payload := post(t, handler, "/register", map[string]string{"username": "bob", "password": "weak"}, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Password is too weak.", payload["message"])

	recorder, _ = post(t, handler, "/register", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	recorder, _ = post(t, handler, "/register", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder, payload = post(t, handler, "/login", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	accessToken, _ := payload["access_token"].(string)
	refreshToken, _ := payload["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	// refresh rejects an access token
	recorder, _ = post(t, handler, "/refresh", nil, http.Header{"Authorization": {"Bearer " + accessToken}})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	recorder, payload = post(t, handler, "/refresh", nil, http.Header{"Authorization": {"Bearer " + refreshToken}})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, payload["access_token"])

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	protected := httptest.NewRecorder()
	handler.ServeHTTP(protected, req)
	assert.Equal(t, http.StatusOK, protected.Code)

	backend.ExpireAccessTokens()
	protected = httptest.NewRecorder()
	handler.ServeHTTP(protected, req)
	assert.Equal(t, http.StatusUnauthorized, protected.Code)

	login, refresh, calls := backend.Counts()
	assert.Equal(t, 1, login)
	assert.Equal(t, 2, refresh)
	assert.Equal(t, 2, calls)
}

func TestBackend_Lockout(t *testing.T) {
	backend, err := NewBackend(credential.HeaderToken)
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	backend.Now = func() time.Time { return now }
	require.NoError(t, backend.AddUser("bob", "Str0ng!pass"))
	handler := backend.Handler()

	for i := 0; i < 5; i++ {
		recorder, _ := post(t, handler, "/login", map[string]string{"username": "bob", "password": "wrong"}, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	}
	recorder, payload := post(t, handler, "/login", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "Account temporarily locked. Try again later.", payload["message"])

	now = now.Add(11 * time.Minute)
	recorder, _ = post(t, handler, "/login", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestBackend_CookieMode(t *testing.T) {
	backend, err := NewBackend(credential.Cookie)
	require.NoError(t, err)
	require.NoError(t, backend.AddUser("bob", "Str0ng!pass"))
	handler := backend.Handler()

	recorder, payload := post(t, handler, "/login", map[string]string{"username": "bob", "password": "Str0ng!pass"}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, payload["access_token"])
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	protected := httptest.NewRecorder()
	handler.ServeHTTP(protected, req)
	assert.Equal(t, http.StatusOK, protected.Code)
	assert.Contains(t, protected.Body.String(), "via cookies")

	recorder, _ = post(t, handler, "/logout", nil, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	for _, c := range recorder.Result().Cookies() {
		assert.True(t, c.MaxAge < 0, c.Name)
	}

	wrongMethod := httptest.NewRecorder()
	handler.ServeHTTP(wrongMethod, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.Code)
}
