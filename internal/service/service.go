// Package service contains the business logic.
//
// It sits between the handler layer and the newsletter clients. It receives
// validated input from the handlers, fetches through the feed cache, applies
// the site's limits and turns provider failures into HTTP errors.
package service
