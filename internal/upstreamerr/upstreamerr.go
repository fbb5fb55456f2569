// Package upstreamerr handles newsletter provider errors.
//
// It turns what the provider clients return (missing settings, transport
// failures, timeouts, non-2xx answers, unreadable bodies) into the HTTP
// errors the site's frontend understands.
package upstreamerr
