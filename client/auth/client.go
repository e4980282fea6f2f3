package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Backend endpoints of the session lifecycle.
const (
	LoginPath    = "/login"
	LogoutPath   = "/logout"
	RegisterPath = "/register"
)

// DefaultTimeout bounds every HTTP exchange of a client created without WithHTTPClient.
const DefaultTimeout = 30 * time.Second

// Client sends authenticated requests to one backend.
type Client struct {
	transport  *transport.RoundTripper
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customises a client
type Option func(*options)

type options struct {
	transportOptions []transport.Option
	timeout          time.Duration
	logger           *zap.Logger
	roundTripper     *transport.RoundTripper
}

// WithTransportOptions passes options to the authenticating RoundTripper
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.transportOptions = append(o.transportOptions, opts...)
	}
}

// WithRoundTripper uses an already configured RoundTripper
func WithRoundTripper(rt *transport.RoundTripper) Option {
	return func(o *options) {
		o.roundTripper = rt
	}
}

// WithTimeout sets http client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets logger for the client and its transport
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a client for the backend at baseURL using mode
func New(mode credential.Mode, baseURL string, opts ...Option) (*Client, error) {
	o := &options{timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	rt := o.roundTripper
	if rt == nil {
		transportOptions := append([]transport.Option{
			transport.WithMode(mode),
			transport.WithBaseURL(baseURL),
			transport.WithLogger(o.logger),
		}, o.transportOptions...)
		var err error
		if rt, err = transport.New(transportOptions...); err != nil {
			return nil, err
		}
	}
	return &Client{
		transport: rt,
		// redirects are returned as is so the credential never follows them elsewhere
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   o.timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: o.logger,
	}, nil
}

// Transport returns the authenticating RoundTripper
func (c *Client) Transport() *transport.RoundTripper {
	return c.transport
}

// Store returns the credential store
func (c *Client) Store() store.Store {
	return c.transport.Store()
}

// Do sends an authenticated request. A non-2xx outcome is returned as
// *credential.RequestError with the response body consumed; on success the
// caller owns the response body.
func (c *Client) Do(ctx context.Context, request *Request) (*http.Response, error) {
	if c.transport.Mode() == credential.Cookie {
		request.WithCredentials = true
	}
	req, err := request.httpRequest(ctx, c.transport.BaseURL())
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unwrapURLError(err)
	}
	if transport.IsSuccess(resp.StatusCode) {
		return resp, nil
	}
	defer resp.Body.Close()
	reqErr := &credential.RequestError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Message:    transport.ReadMessage(resp),
	}
	c.logger.Debug("request failed", zap.String("method", reqErr.Method), zap.String("url", reqErr.URL), zap.Int("status", reqErr.StatusCode))
	return nil, reqErr
}

// DoJSON sends request and decodes a successful JSON response into output.
func (c *Client) DoJSON(ctx context.Context, request *Request, output interface{}) error {
	if request.Header.Get("Accept") == "" {
		request.SetHeader("Accept", "application/json")
	}
	resp, err := c.Do(ctx, request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if output == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(output); err != nil {
		return fmt.Errorf("failed to decode %v response: %w", request.Path, err)
	}
	return nil
}

// RefreshAccessToken exchanges the refresh credential for a new access token.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	return c.transport.RefreshAccessToken(ctx)
}

// Message is the generic backend reply
type Message struct {
	Message string `json:"message"`
}

type userCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a backend account.
func (c *Client) Register(ctx context.Context, username, password string) (*Message, error) {
	resp, err := c.postCredentials(ctx, RegisterPath, username, password)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	ret := &Message{}
	if err = json.NewDecoder(resp.Body).Decode(ret); err != nil {
		return nil, fmt.Errorf("failed to decode register response: %w", err)
	}
	return ret, nil
}

// Login authenticates with username and password. In header mode the issued
// tokens are persisted in the store; in cookie mode the jar captures the
// session cookies.
func (c *Client) Login(ctx context.Context, username, password string) (*Message, error) {
	resp, err := c.postCredentials(ctx, LoginPath, username, password)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload struct {
		oauth2.Token
		Message string `json:"message"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if c.transport.Mode() == credential.HeaderToken {
		if payload.AccessToken == "" || payload.RefreshToken == "" {
			return nil, errors.New("login response did not include access_token and refresh_token")
		}
		aStore := c.Store()
		if err = aStore.Set(ctx, credential.AccessTokenKey, payload.AccessToken); err != nil {
			return nil, err
		}
		if err = aStore.Set(ctx, credential.RefreshTokenKey, payload.RefreshToken); err != nil {
			return nil, err
		}
	}
	c.logger.Info("logged in", zap.String("username", username), zap.String("mode", c.transport.Mode().String()))
	return &Message{Message: payload.Message}, nil
}

// Logout notifies the backend and always clears local credentials.
func (c *Client) Logout(ctx context.Context) error {
	var logoutErr error
	req, err := http.NewRequestWithContext(transport.WithCredentials(ctx), http.MethodPost, transport.JoinURL(c.transport.BaseURL(), LogoutPath), nil)
	if err == nil {
		logoutErr = c.send(req)
	} else {
		logoutErr = err
	}
	if err = c.transport.Clear(ctx); err != nil {
		return errors.Join(logoutErr, err)
	}
	c.expireCookies()
	return logoutErr
}

func (c *Client) expireCookies() {
	jar := c.transport.Jar()
	if jar == nil {
		return
	}
	URL, err := neturl.Parse(c.transport.BaseURL())
	if err != nil {
		return
	}
	var expired []*http.Cookie
	for _, cookie := range jar.Cookies(URL) {
		expired = append(expired, &http.Cookie{Name: cookie.Name, Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		jar.SetCookies(URL, expired)
	}
}

// postCredentials bypasses the credential check: login endpoints are public.
func (c *Client) postCredentials(ctx context.Context, path, username, password string) (*http.Response, error) {
	body, err := json.Marshal(&userCredentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	request := NewRequest(http.MethodPost, path).SetBody("application/json", body)
	request.WithCredentials = true
	req, err := request.httpRequest(ctx, c.transport.BaseURL())
	if err != nil {
		return nil, err
	}
	resp, err := c.publicTransport().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if transport.IsSuccess(resp.StatusCode) {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, &credential.RequestError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode, Message: transport.ReadMessage(resp)}
}

func (c *Client) send(req *http.Request) error {
	resp, err := c.publicTransport().RoundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !transport.IsSuccess(resp.StatusCode) {
		return &credential.RequestError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode, Message: transport.ReadMessage(resp)}
	}
	return nil
}

// publicTransport sends without a bearer token but keeps the cookie jar in the loop.
func (c *Client) publicTransport() http.RoundTripper {
	base := c.transport.Base()
	if jar := c.transport.Jar(); jar != nil {
		return transport.WrapWithCookieJar(base, jar)
	}
	return base
}

func unwrapURLError(err error) error {
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) {
		var refreshErr *credential.RefreshError
		if errors.Is(urlErr.Err, credential.ErrMissingCredential) || errors.As(urlErr.Err, &refreshErr) {
			return urlErr.Err
		}
	}
	return err
}
