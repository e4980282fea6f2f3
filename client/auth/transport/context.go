package transport

import "context"

type contextKey string

// ContextCredentialsKey marks a request that should carry jar cookies.
const ContextCredentialsKey contextKey = "withCredentials"

// WithCredentials returns a context asking the transport to include cookies.
func WithCredentials(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextCredentialsKey, true)
}

// CredentialsIncluded reports whether ctx carries the credential-include flag.
func CredentialsIncluded(ctx context.Context) bool {
	if v := ctx.Value(ContextCredentialsKey); v != nil {
		included, _ := v.(bool)
		return included
	}
	return false
}
