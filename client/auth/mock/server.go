package mock

import (
	"net/http/httptest"

	"github.com/viant/authclient/client/auth/credential"
)

// HTTPTestServer runs a Backend on a local httptest server.
type HTTPTestServer struct {
	*Backend
	Server *httptest.Server
	URL    string
}

// NewHTTPTestServer starts a backend for mode
func NewHTTPTestServer(mode credential.Mode) (*HTTPTestServer, error) {
	backend, err := NewBackend(mode)
	if err != nil {
		return nil, err
	}
	ret := &HTTPTestServer{Backend: backend}
	ret.Server = httptest.NewServer(backend.Handler())
	ret.URL = ret.Server.URL
	return ret, nil
}

func (s *HTTPTestServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}
