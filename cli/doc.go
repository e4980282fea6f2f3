// Package cli implements the authclient command line: it logs in against a
// backend, keeps the credential in a local store and sends authenticated
// requests, refreshing the access token when the backend answers 401.
package cli
