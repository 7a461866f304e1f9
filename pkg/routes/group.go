// Package routes declares HTTP routes as prefix groups and registers them on
// a ServeMux.
package routes

import "net/http"

// Group collects routes under a common prefix. Guard wraps every Guarded route
// in the group and its children; children may set their own. A nil guard
// leaves guarded routes open.
type Group struct {
	Prefix   string
	Guard    func(http.Handler) http.Handler
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", nil, group)
	}
}

func register(mux *http.ServeMux, prefix string, guard func(http.Handler) http.Handler, group Group) {
	prefix += group.Prefix
	if group.Guard != nil {
		guard = group.Guard
	}

	for _, route := range group.Routes {
		var handler http.Handler = route.Handler
		if route.Guarded && guard != nil {
			handler = guard(handler)
		}
		mux.Handle(route.Method+" "+prefix+route.Pattern, handler)
	}

	for _, child := range group.Children {
		register(mux, prefix, guard, child)
	}
}
