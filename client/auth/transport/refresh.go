package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/viant/authclient/client/auth/credential"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RefreshPath is the backend endpoint exchanging a refresh credential.
const RefreshPath = "/refresh"

// RefreshAccessToken exchanges the refresh credential for a new access token.
// In cookie mode the server rotates the session cookie and the returned token is empty.
// Refreshes are serialized but never coalesced: every call reaches the backend.
func (r *RoundTripper) RefreshAccessToken(ctx context.Context) (string, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	token, err := r.refresh(ctx)
	if err != nil {
		r.logRefreshFailure(err)
		return "", err
	}
	return token, nil
}

func (r *RoundTripper) refresh(ctx context.Context) (string, error) {
	URL := JoinURL(r.baseURL, RefreshPath)
	if r.mode == credential.Cookie {
		req, err := http.NewRequestWithContext(WithCredentials(ctx), http.MethodPost, URL, nil)
		if err != nil {
			return "", &credential.RefreshError{Err: err}
		}
		resp, err := WrapWithCookieJar(r.transport, r.jar).RoundTrip(req)
		if err != nil {
			return "", &credential.RefreshError{Err: err}
		}
		defer drain(resp)
		if !IsSuccess(resp.StatusCode) {
			return "", &credential.RefreshError{StatusCode: resp.StatusCode, Message: ReadMessage(resp)}
		}
		r.logger.Debug("session cookie refreshed", zap.String("url", URL))
		return "", nil
	}

	refreshToken, err := r.lookup(ctx, credential.RefreshTokenKey)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, nil)
	if err != nil {
		return "", &credential.RefreshError{Err: err}
	}
	setBearer(req, refreshToken)
	resp, err := r.transport.RoundTrip(req)
	if err != nil {
		return "", &credential.RefreshError{Err: err}
	}
	defer drain(resp)
	if !IsSuccess(resp.StatusCode) {
		return "", &credential.RefreshError{StatusCode: resp.StatusCode, Message: ReadMessage(resp)}
	}
	token := &oauth2.Token{}
	if err = json.NewDecoder(resp.Body).Decode(token); err != nil {
		return "", &credential.RefreshError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid refresh response: %w", err)}
	}
	if token.AccessToken == "" {
		return "", &credential.RefreshError{StatusCode: resp.StatusCode, Message: "response did not include access_token"}
	}
	if err = r.store.Set(ctx, credential.AccessTokenKey, token.AccessToken); err != nil {
		return "", &credential.RefreshError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to store access token: %w", err)}
	}
	// rotated refresh token
	if token.RefreshToken != "" {
		if err = r.store.Set(ctx, credential.RefreshTokenKey, token.RefreshToken); err != nil {
			return "", &credential.RefreshError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to store refresh token: %w", err)}
		}
	}
	r.logger.Debug("access token refreshed", zap.String("url", URL))
	return token.AccessToken, nil
}

func (r *RoundTripper) logRefreshFailure(err error) {
	fields := []zap.Field{zap.String("mode", r.mode.String()), zap.Error(err)}
	if refreshErr, ok := err.(*credential.RefreshError); ok {
		fields = append(fields, zap.Int("status", refreshErr.StatusCode), zap.String("message", refreshErr.Message))
	}
	r.logger.Error("failed to refresh access token", fields...)
}
