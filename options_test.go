package authclient

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authclient/client/auth"
	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/mock"
	"go.uber.org/zap/zaptest"
)

func TestLoadOptions(t *testing.T) {
	location := filepath.Join(t.TempDir(), "authclient.yaml")
	require.NoError(t, os.WriteFile(location, []byte(`
mode: cookie
baseURL: https://api.example.com
timeoutSeconds: 5
storage:
  type: redis
  redisAddr: 127.0.0.1:6379
cookieJarURL: /tmp/cookies.json
`), 0o600))

	options, err := LoadOptions(context.Background(), location)
	require.NoError(t, err)
	options.Init()
	assert.Equal(t, "cookie", options.Mode)
	assert.Equal(t, "https://api.example.com", options.BaseURL)
	assert.Equal(t, 5, options.TimeoutSeconds)
	assert.Equal(t, StorageRedis, options.Storage.Type)
	assert.Equal(t, "authclient", options.Storage.RedisPrefix)
	assert.Equal(t, "/tmp/cookies.json", options.CookieJarURL)
	assert.NoError(t, options.Validate())

	_, err = LoadOptions(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestClientOptions_Init(t *testing.T) {
	t.Setenv(BackendURLEnv, "https://env.example.com")
	var testCases = []struct {
		description string
		options     *ClientOptions
		expectStore string
		expectURL   string
		hasError    bool
	}{
		{description: "defaults", options: &ClientOptions{}, expectStore: StorageMemory, expectURL: "https://env.example.com"},
		{description: "file inferred", options: &ClientOptions{BaseURL: "https://api.example.com", Storage: StorageOptions{URL: "/tmp/c.json"}}, expectStore: StorageFile, expectURL: "https://api.example.com"},
		{description: "secret without location", options: &ClientOptions{Storage: StorageOptions{Type: StorageSecret}}, expectStore: StorageSecret, expectURL: "https://env.example.com", hasError: true},
		{description: "bad mode", options: &ClientOptions{Mode: "basic"}, expectStore: StorageMemory, expectURL: "https://env.example.com", hasError: true},
		{description: "bad storage", options: &ClientOptions{Storage: StorageOptions{Type: "sql"}}, expectStore: "sql", expectURL: "https://env.example.com", hasError: true},
	}
	for _, testCase := range testCases {
		testCase.options.Init()
		assert.Equal(t, testCase.expectStore, testCase.options.Storage.Type, testCase.description)
		assert.Equal(t, testCase.expectURL, testCase.options.BaseURL, testCase.description)
		assert.Equal(t, 30, testCase.options.TimeoutSeconds, testCase.description)
		err := testCase.options.Validate()
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestNewClient_FileStoreSurvivesRestart(t *testing.T) {
	server, err := mock.NewHTTPTestServer(credential.HeaderToken)
	require.NoError(t, err)
	defer server.Close()
	require.NoError(t, server.AddUser("alice", "Str0ng!pass"))
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "credentials.json")

	newOptions := func() *ClientOptions {
		return &ClientOptions{BaseURL: server.URL, Storage: StorageOptions{URL: location}, Logger: zaptest.NewLogger(t)}
	}
	client, err := NewClient(ctx, newOptions())
	require.NoError(t, err)
	_, err = client.Login(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)

	restarted, err := NewClient(ctx, newOptions())
	require.NoError(t, err)
	resp, err := restarted.Do(ctx, auth.NewRequest(http.MethodGet, "/protected"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewClient_CookieJarSurvivesRestart(t *testing.T) {
	server, err := mock.NewHTTPTestServer(credential.Cookie)
	require.NoError(t, err)
	defer server.Close()
	require.NoError(t, server.AddUser("bob", "Str0ng!pass"))
	ctx := context.Background()
	jarLocation := filepath.Join(t.TempDir(), "cookies.json")

	newOptions := func() *ClientOptions {
		return &ClientOptions{Mode: "cookie", BaseURL: server.URL, CookieJarURL: jarLocation}
	}
	client, err := NewClient(ctx, newOptions())
	require.NoError(t, err)
	_, err = client.Login(ctx, "bob", "Str0ng!pass")
	require.NoError(t, err)

	restarted, err := NewClient(ctx, newOptions())
	require.NoError(t, err)
	var payload auth.Message
	require.NoError(t, restarted.DoJSON(ctx, auth.NewRequest(http.MethodGet, "/protected"), &payload))
	assert.Equal(t, "Hello bob, welcome to the protected page (via cookies)", payload.Message)
}

func TestNewClient_RedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	server, err := mock.NewHTTPTestServer(credential.HeaderToken)
	require.NoError(t, err)
	defer server.Close()
	require.NoError(t, server.AddUser("alice", "Str0ng!pass"))
	ctx := context.Background()

	client, err := NewClient(ctx, &ClientOptions{BaseURL: server.URL, Storage: StorageOptions{Type: StorageRedis, RedisAddr: mr.Addr()}})
	require.NoError(t, err)
	_, err = client.Login(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, mr.Exists("authclient:access_token"))
	assert.True(t, mr.Exists("authclient:refresh_token"))
}
