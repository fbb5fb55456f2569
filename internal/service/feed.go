package service

import (
	"context"

	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/upstreamerr"
)

// FeedService serves the normalized Beehiiv and Kit feeds.
type FeedService struct {
	loader       *Loader
	beehiiv      BeehiivSource
	kit          KitFeedSource
	beehiivLimit int
}

func NewFeedService(l *Loader, beehiiv BeehiivSource, kit KitFeedSource, beehiivLimit int) *FeedService {
	return &FeedService{
		loader:       l,
		beehiiv:      beehiiv,
		kit:          kit,
		beehiivLimit: beehiivLimit,
	}
}

// Beehiiv returns the newest entries of the Beehiiv feed, never more than
// the configured cap. A limit <= 0 means the cap.
func (s *FeedService) Beehiiv(ctx context.Context, limit int) (*model.FeedResponse, error) {
	items, err := load(ctx, s.loader, "beehiiv", newsletter.ProviderBeehiiv, s.fetchBeehiiv)
	if err != nil {
		return nil, upstreamerr.HandleError(err)
	}

	n := s.beehiivLimit
	if limit > 0 && (n <= 0 || limit < n) {
		n = limit
	}

	resp := model.NewFeedResponse(truncate(items, n))
	return &resp, nil
}

func (s *FeedService) fetchBeehiiv(ctx context.Context) ([]model.FeedItem, error) {
	entries, err := s.beehiiv.Entries(ctx)
	if err != nil {
		return nil, err
	}

	return newsletter.MapBeehiivItems(entries), nil
}

// Kit returns the scraped Kit posts in page order. A limit <= 0 returns all.
func (s *FeedService) Kit(ctx context.Context, limit int) (*model.FeedResponse, error) {
	items, err := load(ctx, s.loader, "kit", newsletter.ProviderKit, s.kit.FetchPublicFeed)
	if err != nil {
		return nil, upstreamerr.HandleError(err)
	}

	resp := model.NewFeedResponse(truncate(items, limit))
	return &resp, nil
}

// truncate returns at most n items; n <= 0 keeps everything.
func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
