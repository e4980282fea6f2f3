package transport

import (
	"net/http"

	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/store"
	"go.uber.org/zap"
)

type Option func(*RoundTripper)

// WithMode sets credential mode
func WithMode(mode credential.Mode) Option {
	return func(t *RoundTripper) {
		t.mode = mode
	}
}

// WithBaseURL sets backend base URL used for the refresh endpoint
func WithBaseURL(baseURL string) Option {
	return func(t *RoundTripper) {
		t.baseURL = baseURL
	}
}

// WithStore sets credential store
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithCookieJar sets the jar used in cookie mode
func WithCookieJar(jar http.CookieJar) Option {
	return func(t *RoundTripper) {
		t.jar = jar
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}
