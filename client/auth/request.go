package auth

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/viant/authclient/client/auth/transport"
)

// RequestIDHeader is set on every dispatched request unless already present.
const RequestIDHeader = "X-Request-Id"

// Request describes an outgoing call relative to the backend base URL.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
	// WithCredentials asks the transport to include jar cookies; cookie mode always sets it.
	WithCredentials bool
}

// NewRequest creates a request for method and path
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Header: http.Header{}}
}

// SetHeader sets header value, returning the request for chaining
func (r *Request) SetHeader(name, value string) *Request {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(name, value)
	return r
}

// SetBody sets request body and content type
func (r *Request) SetBody(contentType string, body []byte) *Request {
	r.Body = body
	if contentType != "" {
		r.SetHeader("Content-Type", contentType)
	}
	return r
}

func (r *Request) httpRequest(ctx context.Context, baseURL string) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if r.WithCredentials {
		ctx = transport.WithCredentials(ctx)
	}
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, transport.JoinURL(baseURL, r.Path), body)
	if err != nil {
		return nil, err
	}
	for name, values := range r.Header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return req, nil
}
