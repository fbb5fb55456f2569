package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/metrics"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/repository"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBeehiiv struct {
	entries []*gofeed.Item
	err     error
	calls   int
}

func (f *fakeBeehiiv) Entries(context.Context) ([]*gofeed.Item, error) {
	f.calls++
	return f.entries, f.err
}

type fakeKit struct {
	items      []model.FeedItem
	feedErr    error
	subscribed []string
	subErr     error
}

func (f *fakeKit) FetchPublicFeed(context.Context) ([]model.FeedItem, error) {
	return f.items, f.feedErr
}

func (f *fakeKit) Subscribe(_ context.Context, email string) error {
	if f.subErr != nil {
		return f.subErr
	}
	f.subscribed = append(f.subscribed, email)
	return nil
}

type fakeNotifier struct {
	emails []string
	err    error
}

func (f *fakeNotifier) EnqueueSubscriberNotify(_ context.Context, email string) error {
	f.emails = append(f.emails, email)
	return f.err
}

// memoryCache is a FeedCache backed by a map of JSON blobs.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return false, errors.New("redis: connection refused")
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memoryCache) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func newTestLoader(cache repository.FeedCache) *Loader {
	logger := zerolog.Nop()
	return &Loader{cache: cache, metrics: metrics.New(), logger: &logger}
}

func beehiivEntries(n int) []*gofeed.Item {
	entries := make([]*gofeed.Item, 0, n)
	for i := 0; i < n; i++ {
		published := time.Date(2026, 1, 20-i, 8, 0, 0, 0, time.UTC)
		entries = append(entries, &gofeed.Item{
			Title:           "Post " + string(rune('A'+i)),
			Link:            "https://journal.example.com/p/post-" + string(rune('a'+i)),
			PublishedParsed: &published,
			Categories:      []string{"Systems"},
		})
	}
	return entries
}

func requireHTTPError(t *testing.T, err error, status int, message string) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T: %v", err, err)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, message, httpErr.Message)
	return httpErr
}

func TestFeedService_BeehiivCapsAtConfiguredLimit(t *testing.T) {
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{entries: beehiivEntries(9)}, &fakeKit{}, 6)

	resp, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
	assert.Equal(t, "Post A", resp.Items[0].Title)
	assert.Equal(t, "2026-01-20T08:00:00.000Z", resp.Items[0].Date)

	resp, err = svc.Beehiiv(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)

	resp, err = svc.Beehiiv(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 6)
}

func TestFeedService_BeehiivFewerThanLimit(t *testing.T) {
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{entries: beehiivEntries(2)}, &fakeKit{}, 6)

	resp, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestFeedService_BeehiivEmptyFeedEncodesEmptyList(t *testing.T) {
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{}, &fakeKit{}, 6)

	resp, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
}

func TestFeedService_BeehiivMissingURL(t *testing.T) {
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{err: newsletter.ErrMissingBeehiivURL}, &fakeKit{}, 6)

	_, err := svc.Beehiiv(context.Background(), 0)
	requireHTTPError(t, err, http.StatusInternalServerError, "Missing BEEHIIV_RSS_URL")
}

func TestFeedService_UsesCache(t *testing.T) {
	cache := newMemoryCache()
	source := &fakeBeehiiv{entries: beehiivEntries(3)}
	svc := NewFeedService(newTestLoader(cache), source, &fakeKit{}, 6)

	first, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)
	second, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
}

func TestFeedService_CacheFailureIsBypassed(t *testing.T) {
	cache := newMemoryCache()
	cache.failGet = true
	source := &fakeBeehiiv{entries: beehiivEntries(3)}
	svc := NewFeedService(newTestLoader(cache), source, &fakeKit{}, 6)

	resp, err := svc.Beehiiv(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
}

func TestFeedService_Kit(t *testing.T) {
	kit := &fakeKit{items: []model.FeedItem{
		{Title: "One", Link: "https://kit.example/posts/one", Date: "Jan 2, 2026", Slug: "one"},
		{Title: "Two", Link: "https://kit.example/posts/two", Date: "Jan 1, 2026", Slug: "two"},
	}}
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{}, kit, 6)

	resp, err := svc.Kit(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, kit.items, resp.Items)

	resp, err = svc.Kit(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestFeedService_KitUpstreamFailure(t *testing.T) {
	kit := &fakeKit{feedErr: &newsletter.UpstreamStatusError{Provider: newsletter.ProviderKit, StatusCode: 500, Body: "oops"}}
	svc := NewFeedService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{}, kit, 6)

	_, err := svc.Kit(context.Background(), 0)
	httpErr := requireHTTPError(t, err, http.StatusBadGateway, "Kit request failed")
	assert.Equal(t, "oops", httpErr.Details)
}

func newTestSubscribeService(kit KitSubscriber, notifier SubscriberNotifier) *SubscribeService {
	logger := zerolog.Nop()
	return NewSubscribeService(kit, notifier, metrics.New(), &logger)
}

func TestSubscribeService_Success(t *testing.T) {
	kit := &fakeKit{}
	notifier := &fakeNotifier{}
	svc := newTestSubscribeService(kit, notifier)

	resp, err := svc.Subscribe(context.Background(), "  reader@example.com ")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, []string{"reader@example.com"}, kit.subscribed)
	assert.Equal(t, []string{"reader@example.com"}, notifier.emails)
}

func TestSubscribeService_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "   ", "not-an-email"} {
		kit := &fakeKit{}
		svc := newTestSubscribeService(kit, nil)

		_, err := svc.Subscribe(context.Background(), email)
		requireHTTPError(t, err, http.StatusBadRequest, "Invalid email")
		assert.Empty(t, kit.subscribed)
	}
}

func TestSubscribeService_InvalidEmailCheckedBeforeConfig(t *testing.T) {
	svc := newTestSubscribeService(&fakeKit{subErr: newsletter.ErrMissingKitConfig}, nil)

	_, err := svc.Subscribe(context.Background(), "nope")
	requireHTTPError(t, err, http.StatusBadRequest, "Invalid email")
}

func TestSubscribeService_MissingConfig(t *testing.T) {
	svc := newTestSubscribeService(&fakeKit{subErr: newsletter.ErrMissingKitConfig}, nil)

	_, err := svc.Subscribe(context.Background(), "reader@example.com")
	requireHTTPError(t, err, http.StatusInternalServerError, "Missing server config")
}

func TestSubscribeService_KitRejected(t *testing.T) {
	svc := newTestSubscribeService(&fakeKit{subErr: &newsletter.UpstreamStatusError{
		Provider: newsletter.ProviderKit, StatusCode: 401, Body: `{"error":"Authorization Failed"}`,
	}}, nil)

	_, err := svc.Subscribe(context.Background(), "reader@example.com")
	httpErr := requireHTTPError(t, err, http.StatusInternalServerError, "Kit request failed")
	assert.Equal(t, `{"error":"Authorization Failed"}`, httpErr.Details)
}

func TestSubscribeService_TransportFailure(t *testing.T) {
	svc := newTestSubscribeService(&fakeKit{subErr: &newsletter.RequestError{
		Provider: newsletter.ProviderKit, Err: context.DeadlineExceeded,
	}}, nil)

	_, err := svc.Subscribe(context.Background(), "reader@example.com")
	requireHTTPError(t, err, http.StatusInternalServerError, "Server error")
}

func TestSubscribeService_NotifyFailureIsNotSurfaced(t *testing.T) {
	svc := newTestSubscribeService(&fakeKit{}, &fakeNotifier{err: errors.New("redis down")})

	resp, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.True(t, resp.OK)
}
