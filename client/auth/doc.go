// Package auth provides Client, the entry point for calling a backend that
// protects its API with either bearer tokens or session cookies.
//
// Client.Do prefixes the request path with the backend base URL, attaches the
// credential through the RoundTripper from the `transport` sub-package and
// turns non-2xx responses into *credential.RequestError. Login, Logout and
// Register cover the rest of the session lifecycle against the same backend.
package auth
