package mock

import (
	"net/http"
)

// Handler routes HTTP requests to the backend endpoints.
type Handler struct {
	Backend *Backend
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := http.MethodPost
	var handler http.HandlerFunc
	switch r.URL.Path {
	case "/register":
		handler = h.Backend.registerHandler
	case "/login":
		handler = h.Backend.loginHandler
	case "/refresh":
		handler = h.Backend.refreshHandler
	case "/logout":
		handler = h.Backend.logoutHandler
	case "/protected":
		method = http.MethodGet
		handler = h.Backend.protectedHandler
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method != method {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"message": "Method not allowed"})
		return
	}
	handler(w, r)
}

// Handler returns the backend http handler
func (b *Backend) Handler() http.Handler {
	return &Handler{Backend: b}
}
