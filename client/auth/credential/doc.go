// Package credential defines the vocabulary shared by the authentication
// helpers: the credential mode, the storage keys and the error kinds
// surfaced to callers.
package credential
