// Package httpx contains the HTTP plumbing shared by every route: the
// middleware chain, the guard pair (authentication then authorization),
// session cookie handling, JSON responses and rate limiting.
package httpx

import "net/http"

// Middleware wraps an http.Handler with pre/post behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares around h so that the first listed middleware is
// the outermost, i.e. runs first. Guard ordering relies on this: the
// authentication gate is always listed before the permission gate.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
