// Package authclient wires an authenticated HTTP client from declarative
// options.
//
// ClientOptions can be populated from CLI flags, environment or a YAML file
// (LoadOptions) and selects the credential mode, the backend base URL, the
// credential store (memory, file, encrypted secret or redis) and an optional
// persistent cookie jar. NewClient turns them into an *auth.Client.
//
// Example:
//
//	options := &authclient.ClientOptions{Mode: "header", BaseURL: "https://api.example.com"}
//	client, _ := authclient.NewClient(ctx, options)
//	resp, err := client.Do(ctx, auth.NewRequest(http.MethodGet, "/items"))
package authclient
