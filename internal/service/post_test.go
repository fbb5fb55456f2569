package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/repository"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostService(entries []*gofeed.Item) *PostService {
	return NewPostService(newTestLoader(repository.NoopFeedCache{}), &fakeBeehiiv{entries: entries})
}

func TestPostService_BuildsPostsFromFeed(t *testing.T) {
	published := time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC)
	body := "<p>" + strings.Repeat("word ", 450) + "</p><script>alert(1)</script>"

	svc := newTestPostService([]*gofeed.Item{
		{
			Title:           "The addiction to relevance.",
			Link:            "https://journal.example.com/p/the-addiction-to-relevance",
			PublishedParsed: &published,
			Categories:      []string{"Mindset"},
			Description:     "<p>Short   summary &amp; more.</p>",
			Content:         body,
		},
		{
			Title: "Older note",
			Link:  "https://journal.example.com/p/older-note/",
		},
	})

	resp, err := svc.Get(context.Background(), "the-addiction-to-relevance")
	require.NoError(t, err)

	post := resp.Item
	assert.Equal(t, "2", post.ID)
	assert.Equal(t, "The addiction to relevance.", post.Title)
	assert.Equal(t, "2025-12-27T00:00:00.000Z", post.Date)
	assert.Equal(t, "Mindset", post.Category)
	assert.Equal(t, "Short summary & more.", post.Excerpt)
	assert.Equal(t, 3, post.ReadingTime)
	assert.Equal(t, heroPalette[1], post.HeroColor)
	assert.Contains(t, post.ContentHTML, "<p>word")
	assert.NotContains(t, post.ContentHTML, "<script>")

	older, err := svc.Get(context.Background(), "older-note")
	require.NoError(t, err)
	assert.Equal(t, "1", older.Item.ID)
	assert.Equal(t, newsletter.DefaultCategory, older.Item.Category)
	assert.Equal(t, 1, older.Item.ReadingTime)
	assert.Equal(t, heroPalette[0], older.Item.HeroColor)
}

func TestPostService_GetUnknownSlug(t *testing.T) {
	svc := newTestPostService(beehiivEntries(2))

	_, err := svc.Get(context.Background(), "missing")
	requireHTTPError(t, err, http.StatusNotFound, "Post not found")
}

func TestPostService_GetEmptySlug(t *testing.T) {
	svc := newTestPostService(beehiivEntries(2))

	_, err := svc.Get(context.Background(), " ")
	requireHTTPError(t, err, http.StatusBadRequest, "Missing slug")
}

func TestPostService_List(t *testing.T) {
	svc := newTestPostService(beehiivEntries(7))

	list, err := svc.List(context.Background(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, list.Total)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, 3, list.PerPage)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "7", list.Items[0].ID)
	for _, item := range list.Items {
		assert.Empty(t, item.ContentHTML)
	}

	last, err := svc.List(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "1", last.Items[0].ID)

	beyond, err := svc.List(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestPostService_ListPerPageBounds(t *testing.T) {
	svc := newTestPostService(beehiivEntries(3))

	list, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, list.PerPage)
	assert.Equal(t, 1, list.TotalPages)

	list, err = svc.List(context.Background(), -1, 500)
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage, list.PerPage)
	assert.Equal(t, 0, list.Page)
}

func TestPostService_EmptyFeedHasOnePage(t *testing.T) {
	svc := newTestPostService(nil)

	list, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.Equal(t, 1, list.TotalPages)
	assert.Empty(t, list.Items)
}

func TestPostService_ListAll(t *testing.T) {
	svc := newTestPostService(beehiivEntries(14))

	list, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Items, 14)
	assert.Equal(t, 14, list.Total)
	assert.Equal(t, 14, list.PerPage)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, "post-a", list.Items[0].Slug)
	assert.Equal(t, "1", list.Items[13].ID)
	assert.Empty(t, list.Items[0].ContentHTML)
}

func TestPostService_ListAllEmptyFeed(t *testing.T) {
	svc := newTestPostService(nil)

	list, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
	assert.Equal(t, 1, list.TotalPages)
}

func TestPostService_DuplicateSlugs(t *testing.T) {
	svc := newTestPostService([]*gofeed.Item{
		{Title: "Same", Link: "https://journal.example.com/p/same"},
		{Title: "Same again", Link: "https://journal.example.com/p/same"},
	})

	list, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "same", list.Items[0].Slug)
	assert.Equal(t, "same-1", list.Items[1].Slug)
}

func TestPostSlug(t *testing.T) {
	assert.Equal(t, "hello-world", PostSlug("https://x.example/p/hello-world?utm=1", "ignored"))
	assert.Equal(t, "systems-over-willpower", PostSlug("", "Systems over Willpower!"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 160))

	long := strings.Repeat("é", 200)
	cut := Excerpt(long, 160)
	assert.Equal(t, 160, len([]rune(cut)))
	assert.True(t, strings.HasSuffix(cut, "…"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("w ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("w ", 201)))
}
