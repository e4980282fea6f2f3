package transport

import (
	"net/http"
)

// cookieWrap attaches cookies from a jar before delegating to the inner
// RoundTripper and stores response cookies back into the jar.
type cookieWrap struct {
	inner http.RoundTripper
	jar   http.CookieJar
}

// WrapWithCookieJar wraps inner so that jar cookies are sent and updated on each exchange.
func WrapWithCookieJar(inner http.RoundTripper, jar http.CookieJar) http.RoundTripper {
	if jar == nil || inner == nil {
		return inner
	}
	return &cookieWrap{inner: inner, jar: jar}
}

// RoundTrip expects a request it may mutate (callers pass a clone).
func (w *cookieWrap) RoundTrip(req *http.Request) (*http.Response, error) {
	for _, c := range w.jar.Cookies(req.URL) {
		req.AddCookie(c)
	}
	resp, err := w.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		w.jar.SetCookies(req.URL, cookies)
	}
	return resp, nil
}
