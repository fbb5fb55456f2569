package newsletter

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/mmcdole/gofeed"
)

// DefaultCategory labels entries the feed did not categorize.
const DefaultCategory = "Journal"

// isoLayout matches JavaScript's Date.prototype.toISOString, which is what
// the frontend's date formatting was written against.
const isoLayout = "2006-01-02T15:04:05.000Z"

// BeehiivClient reads a Beehiiv publication's RSS feed.
type BeehiivClient struct {
	requester
	rssURL string
}

// NewBeehiivClient constructs a BeehiivClient. An empty RSS URL is allowed;
// every call then fails with ErrMissingBeehiivURL.
func NewBeehiivClient(cfg config.NewsletterConfig, httpClient *http.Client) *BeehiivClient {
	return &BeehiivClient{
		requester: requester{client: httpClient, userAgent: cfg.UserAgent},
		rssURL:    cfg.Beehiiv.RSSURL,
	}
}

// Configured reports whether the feed URL is set.
func (c *BeehiivClient) Configured() bool {
	return c.rssURL != ""
}

// Entries fetches and parses the feed, returning the raw gofeed items in
// feed order.
func (c *BeehiivClient) Entries(ctx context.Context) ([]*gofeed.Item, error) {
	if c.rssURL == "" {
		return nil, ErrMissingBeehiivURL
	}

	header := http.Header{}
	header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.do(ctx, ProviderBeehiiv, http.MethodGet, c.rssURL, nil, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &ParseError{Provider: ProviderBeehiiv, Err: err}
	}

	return feed.Items, nil
}

// MapBeehiivItems maps entries onto the feed proxy shape, in feed order.
func MapBeehiivItems(entries []*gofeed.Item) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, MapBeehiivItem(entry))
	}
	return items
}

// MapBeehiivItem maps one RSS entry onto a FeedItem.
func MapBeehiivItem(entry *gofeed.Item) model.FeedItem {
	return model.FeedItem{
		Title:    entry.Title,
		Link:     entry.Link,
		Date:     EntryDate(entry),
		Category: EntryCategory(entry),
	}
}

// EntryDate prefers the parsed publish date in ISO-8601 UTC, then the raw
// publish string, then "".
func EntryDate(entry *gofeed.Item) string {
	if entry.PublishedParsed != nil {
		return FormatISO(*entry.PublishedParsed)
	}
	return entry.Published
}

// EntryCategory is the first category, or DefaultCategory when the entry has
// none or the first one is empty.
func EntryCategory(entry *gofeed.Item) string {
	if len(entry.Categories) > 0 && entry.Categories[0] != "" {
		return entry.Categories[0]
	}
	return DefaultCategory
}

// FormatISO renders t the way JavaScript's toISOString does.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
