package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Guarded routes are
// wrapped by the guard of their enclosing group.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Guarded bool
}
