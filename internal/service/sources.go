package service

import (
	"context"

	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/mmcdole/gofeed"
)

// BeehiivSource yields the raw entries of the Beehiiv feed.
type BeehiivSource interface {
	Entries(ctx context.Context) ([]*gofeed.Item, error)
}

// KitFeedSource yields the scraped Kit public page.
type KitFeedSource interface {
	FetchPublicFeed(ctx context.Context) ([]model.FeedItem, error)
}

// KitSubscriber forwards an address to Kit.
type KitSubscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// SubscriberNotifier schedules the owner notification.
type SubscriberNotifier interface {
	EnqueueSubscriberNotify(ctx context.Context, email string) error
}
