// Package repository handles all interactions with the feed cache.
//
// The site stores nothing of its own. The only state is a short-lived copy
// of each normalized provider response, kept in Redis so that page loads do
// not hit Beehiiv and Kit every time.
package repository
