// Package mock provides an in-process backend that issues and checks the
// credentials the client works with: register, login, refresh, a protected
// resource and logout, in either header or cookie mode.
//
// It is meant for unit tests and local experiments; tokens are HS256 JWTs
// signed with a per-instance random key.
package mock
