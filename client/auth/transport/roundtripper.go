package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/store"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RoundTripper attaches the stored credential to requests and refreshes it once on 401.
type RoundTripper struct {
	mode      credential.Mode
	baseURL   string
	store     store.Store
	jar       http.CookieJar
	transport http.RoundTripper
	logger    *zap.Logger
	mux       sync.Mutex
}

func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		mode:      credential.HeaderToken,
		transport: http.DefaultTransport,
		store:     store.NewMemoryStore(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	mode, err := credential.ParseMode(string(ret.mode))
	if err != nil {
		return nil, err
	}
	ret.mode = mode
	if ret.baseURL == "" {
		return nil, errors.New("backend base URL was empty")
	}
	if ret.mode == credential.Cookie && ret.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		ret.jar = jar
	}
	return ret, nil
}

func (r *RoundTripper) Store() store.Store {
	return r.store
}

func (r *RoundTripper) Jar() http.CookieJar {
	return r.jar
}

func (r *RoundTripper) Mode() credential.Mode {
	return r.mode
}

func (r *RoundTripper) BaseURL() string {
	return r.baseURL
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if r.mode == credential.Cookie {
		return r.roundTripWithCookies(req)
	}
	ctx := req.Context()
	accessToken, err := r.lookup(ctx, credential.AccessTokenKey)
	if err != nil {
		closeBody(req)
		return nil, err
	}
	getBody, err := replayable(req)
	if err != nil {
		return nil, err
	}

	first, err := clone(req, getBody)
	if err != nil {
		return nil, err
	}
	setBearer(first, accessToken)
	resp, err := r.transport.RoundTrip(first)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	r.logger.Debug("access token rejected, refreshing", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	if accessToken, err = r.refreshAfterUnauthorized(ctx); err != nil {
		return nil, err
	}

	// replay once; a second 401 is the caller's outcome
	retry, err := clone(req, getBody)
	if err != nil {
		return nil, err
	}
	setBearer(retry, accessToken)
	return r.transport.RoundTrip(retry)
}

func (r *RoundTripper) roundTripWithCookies(req *http.Request) (*http.Response, error) {
	getBody, err := replayable(req)
	if err != nil {
		return nil, err
	}
	outgoing, err := clone(req, getBody)
	if err != nil {
		return nil, err
	}
	outgoing.Header.Del("Authorization")
	if !CredentialsIncluded(req.Context()) {
		return r.transport.RoundTrip(outgoing)
	}
	return WrapWithCookieJar(r.transport, r.jar).RoundTrip(outgoing)
}

func (r *RoundTripper) refreshAfterUnauthorized(ctx context.Context) (string, error) {
	token, err := r.RefreshAccessToken(ctx)
	if err == nil {
		return token, nil
	}
	var refreshErr *credential.RefreshError
	if errors.As(err, &refreshErr) {
		refreshErr.Unauthorized = true
	}
	if clearErr := r.Clear(ctx); clearErr != nil {
		r.logger.Error("failed to clear credentials", zap.Error(clearErr))
	}
	return "", err
}

// Clear removes both stored tokens.
func (r *RoundTripper) Clear(ctx context.Context) error {
	return errors.Join(
		r.store.Delete(ctx, credential.AccessTokenKey),
		r.store.Delete(ctx, credential.RefreshTokenKey),
	)
}

func (r *RoundTripper) lookup(ctx context.Context, key string) (string, error) {
	value, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", key, err)
	}
	if !ok || value == "" {
		return "", &credential.MissingCredentialError{Key: key}
	}
	return value, nil
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
}

// Base returns the underlying transport that dispatches requests.
func (r *RoundTripper) Base() http.RoundTripper {
	return r.transport
}
