// Package middleware provides the HTTP middleware shared by FloraGuard
// modules: request IDs, request logging, panic recovery, CORS, and bearer
// token auth.
package middleware

import "net/http"

// Stack is an ordered list of middleware. The first added is outermost.
type Stack []func(http.Handler) http.Handler

// New creates an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Use appends mw to the stack.
func (s *Stack) Use(mw func(http.Handler) http.Handler) {
	*s = append(*s, mw)
}

// Apply wraps handler with every middleware in the stack.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
