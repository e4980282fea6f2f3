package transport

import (
	"context"
	"net/http"
	neturl "net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieValues(cookies []*http.Cookie) map[string]string {
	ret := map[string]string{}
	for _, c := range cookies {
		ret[c.Name] = c.Value
	}
	return ret
}

func TestFileJar(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "cookies.json")
	jar, err := NewFileJar(ctx, location, nil)
	require.NoError(t, err)

	URL, _ := neturl.Parse("http://127.0.0.1:5000/login")
	jar.SetCookies(URL, []*http.Cookie{
		{Name: "access_token_cookie", Value: "a1", Path: "/"},
		{Name: "refresh_token_cookie", Value: "r1", Path: "/", Expires: time.Now().Add(time.Hour)},
		{Name: "stale", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})
	assert.Equal(t, map[string]string{"access_token_cookie": "a1", "refresh_token_cookie": "r1"}, cookieValues(jar.Cookies(URL)))

	reopened, err := NewFileJar(ctx, location, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"access_token_cookie": "a1", "refresh_token_cookie": "r1"}, cookieValues(reopened.Cookies(URL)))

	reopened.SetCookies(URL, []*http.Cookie{{Name: "access_token_cookie", Path: "/", MaxAge: -1}})
	again, err := NewFileJar(ctx, location, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"refresh_token_cookie": "r1"}, cookieValues(again.Cookies(URL)))
}
