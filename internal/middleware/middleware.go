// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as request
// logging, CORS, tracing, rate limiting on the signup endpoint and panic
// recovery.
package middleware
