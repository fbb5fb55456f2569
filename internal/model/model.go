// Package model holds the JSON shapes the site's frontend consumes.
//
// Field names and JSON keys are a contract with the frontend: the feed
// sections read items[].title/link/date/category/slug, the journal reads
// posts with camelCase keys.
package model
