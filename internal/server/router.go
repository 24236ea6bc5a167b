package server

import (
	"net/http"
	"strings"
)

// BasicRouter is the [Router] implementation the receiver runs behind,
// an [http.ServeMux] with a middleware chain in front of every route.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewBasicRouter creates an empty router.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the chain. Middleware added first runs first.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle registers handler under path, rejecting requests whose method does
// not match. The middleware chain wraps the handler but not the method check.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	wrapped := r.wrap(handler)

	r.mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		if !strings.EqualFold(req.Method, method) {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wrapped.ServeHTTP(w, req)
	})
}

// Handler registers a [Handler] under every route it declares. The receiver
// registers itself this way so its paths live next to its implementation.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.wrap(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// wrap folds the middleware chain around handler, innermost last.
func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	for i := len(r.chain) - 1; i >= 0; i-- {
		handler = r.chain[i](handler)
	}
	return handler
}
