// Package errs defines custom error types and utilities.
//
// Its purpose is to give every failure the same JSON envelope so the site's
// frontend can rely on a single `error` string, while logs and tooling get a
// machine-friendly code and the HTTP status.
package errs
