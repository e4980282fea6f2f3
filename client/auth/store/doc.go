// Package store defines the credential store used by the authentication
// transport to keep the access and refresh tokens between calls.
//
// The in-memory store is sufficient for tests and short-lived processes.
// FileStore and SecretStore persist through afs so credentials survive
// process restarts (SecretStore encrypts them at rest with scy), while
// RedisStore lets several hosts of one deployment share a credential.
package store
