package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/model"
)

// Selectors for Kit's public creator profile page.
const (
	kitItemSelector  = ".creator-profile-feed-item"
	kitTitleSelector = "h2"
	kitLinkSelector  = "a[href]"
	kitDateSelector  = ".date"
)

// KitClient scrapes the public Kit profile and relays subscriptions.
type KitClient struct {
	requester
	cfg config.KitConfig
}

// NewKitClient constructs a KitClient. Missing settings surface per call.
func NewKitClient(cfg config.NewsletterConfig, httpClient *http.Client) *KitClient {
	return &KitClient{
		requester: requester{client: httpClient, userAgent: cfg.UserAgent},
		cfg:       cfg.Kit,
	}
}

// FeedConfigured reports whether the public page URL is set.
func (c *KitClient) FeedConfigured() bool {
	return c.cfg.PublicFeedURL != ""
}

// SubscribeConfigured reports whether the form id and API key are set.
func (c *KitClient) SubscribeConfigured() bool {
	return c.cfg.FormID != "" && c.cfg.APIKey != ""
}

// FetchPublicFeed scrapes the public profile page into feed items, in page
// order. Entries without a link are skipped.
func (c *KitClient) FetchPublicFeed(ctx context.Context) ([]model.FeedItem, error) {
	if c.cfg.PublicFeedURL == "" {
		return nil, ErrMissingKitFeedURL
	}

	base, err := c.publicBase()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.do(ctx, ProviderKit, http.MethodGet, c.cfg.PublicFeedURL, nil, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Provider: ProviderKit, Err: err}
	}

	return ParseKitProfile(doc, base), nil
}

// ParseKitProfile extracts feed items from a parsed profile page. Relative
// links are resolved against base.
func ParseKitProfile(doc *goquery.Document, base *url.URL) []model.FeedItem {
	items := []model.FeedItem{}

	doc.Find(kitItemSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Find(kitLinkSelector).First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		items = append(items, model.FeedItem{
			Title: strings.TrimSpace(sel.Find(kitTitleSelector).First().Text()),
			Link:  base.ResolveReference(ref).String(),
			Date:  strings.TrimSpace(sel.Find(kitDateSelector).First().Text()),
			Slug:  SlugFromPath(ref.Path),
		})
	})

	return items
}

// publicBase is the configured public base URL, or the origin of the feed URL.
func (c *KitClient) publicBase() (*url.URL, error) {
	raw := c.cfg.PublicBaseURL
	if raw == "" {
		feedURL, err := url.Parse(c.cfg.PublicFeedURL)
		if err != nil {
			return nil, fmt.Errorf("kit: parse public feed url: %w", err)
		}
		return &url.URL{Scheme: feedURL.Scheme, Host: feedURL.Host, Path: "/"}, nil
	}

	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("kit: parse public base url: %w", err)
	}
	return base, nil
}

// SlugFromPath is the last non-empty segment of p.
func SlugFromPath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

type kitSubscribeRequest struct {
	APIKey string `json:"api_key"`
	Email  string `json:"email"`
}

// Subscribe adds email to the configured Kit form. Kit sends its own
// confirmation email.
func (c *KitClient) Subscribe(ctx context.Context, email string) error {
	if !c.SubscribeConfigured() {
		return ErrMissingKitConfig
	}

	payload, err := json.Marshal(kitSubscribeRequest{APIKey: c.cfg.APIKey, Email: email})
	if err != nil {
		return fmt.Errorf("kit: encode subscribe request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v3/forms/%s/subscribe",
		strings.TrimRight(c.cfg.APIBaseURL, "/"),
		url.PathEscape(c.cfg.FormID),
	)

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")

	resp, err := c.do(ctx, ProviderKit, http.MethodPost, endpoint, bytes.NewReader(payload), header)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}
