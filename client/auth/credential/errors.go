package credential

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when a token required by the current mode is not stored.
	ErrMissingCredential = errors.New("missing credential")
	// ErrRefreshFailed matches any *RefreshError.
	ErrRefreshFailed = errors.New("refresh failed")
	// ErrRequestFailed matches any *RequestError.
	ErrRequestFailed = errors.New("request failed")
)

// MissingCredentialError names the storage key that was empty.
type MissingCredentialError struct {
	Key string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingCredential, e.Key)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// RefreshError reports a rejected or unreachable refresh endpoint.
type RefreshError struct {
	StatusCode int
	Message    string
	Err        error
	// Unauthorized is set when the refresh was triggered by a 401 and stored credentials were cleared.
	Unauthorized bool
}

func (e *RefreshError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrRefreshFailed, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%v: HTTP %d: %s", ErrRefreshFailed, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: HTTP %d", ErrRefreshFailed, e.StatusCode)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func (e *RefreshError) Is(target error) bool {
	return target == ErrRefreshFailed
}

// RequestError reports a wrapped request that completed with a non-2xx status.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: %s %s: HTTP %d", ErrRequestFailed, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s %s: HTTP %d: %s", ErrRequestFailed, e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// IsUnauthorized reports whether err leaves the caller without a usable credential.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrRefreshFailed) {
		return true
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 401
	}
	return false
}
