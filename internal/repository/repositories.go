package repository

import (
	"github.com/deppfellow/operator-journal/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	FeedCache FeedCache
}

// NewRepositories picks the Redis cache when caching is enabled and a Redis
// client exists, and the no-op cache otherwise.
func NewRepositories(s *server.Server) *Repositories {
	if s.Config.Cache.Enabled && s.Redis != nil {
		return &Repositories{FeedCache: NewRedisFeedCache(s.Redis, s.Config.Cache.TTL)}
	}

	s.Logger.Info().Msg("feed cache disabled")
	return &Repositories{FeedCache: NoopFeedCache{}}
}
