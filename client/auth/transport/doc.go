// Package transport implements an http.RoundTripper that attaches the stored
// credential to every outgoing request.
//
// In header mode the access token is sent as a bearer Authorization header;
// when the backend answers 401 the RoundTripper exchanges the refresh token
// at {base}/refresh and replays the request exactly once with the new token.
// A failed refresh clears both stored tokens and is returned instead of the
// 401. In cookie mode the request carries the jar cookies (when the context
// asks for credentials) and a 401 is returned as is.
package transport
