package service

import (
	"context"
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/upstreamerr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 50

	excerptRunes   = 160
	wordsPerMinute = 200
)

// heroPalette holds the Tailwind classes the article hero cycles through.
var heroPalette = []string{
	"bg-[#0f172a]",
	"bg-[#1a1a1a]",
	"bg-[#1c1917]",
	"bg-[#172554]",
	"bg-[#14532d]",
	"bg-[#3b0764]",
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// PostService builds the journal (archive and article reader) from the
// Beehiiv feed.
type PostService struct {
	loader  *Loader
	beehiiv BeehiivSource
	content *bluemonday.Policy
	text    *bluemonday.Policy
}

func NewPostService(l *Loader, beehiiv BeehiivSource) *PostService {
	return &PostService{
		loader:  l,
		beehiiv: beehiiv,
		content: bluemonday.UGCPolicy(),
		text:    bluemonday.StrictPolicy(),
	}
}

// List returns one page of posts without their bodies. page is 0-based;
// perPage is clamped to [1, MaxPerPage] with DefaultPerPage for 0.
func (s *PostService) List(ctx context.Context, page, perPage int) (*model.PostList, error) {
	posts, err := s.posts(ctx)
	if err != nil {
		return nil, err
	}

	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 0 {
		page = 0
	}

	totalPages := int(math.Ceil(float64(len(posts)) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}

	items := []model.Post{}
	if start := page * perPage; start < len(posts) {
		end := min(start+perPage, len(posts))
		for _, post := range posts[start:end] {
			items = append(items, post.Summary())
		}
	}

	return &model.PostList{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      len(posts),
		TotalPages: totalPages,
	}, nil
}

// ListAll returns every post without its body as a single page, for clients
// that page on their own.
func (s *PostService) ListAll(ctx context.Context) (*model.PostList, error) {
	posts, err := s.posts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.Post, 0, len(posts))
	for _, post := range posts {
		items = append(items, post.Summary())
	}

	return &model.PostList{
		Items:      items,
		Page:       0,
		PerPage:    len(items),
		Total:      len(items),
		TotalPages: 1,
	}, nil
}

// Get returns a single post with its sanitized body.
func (s *PostService) Get(ctx context.Context, slug string) (*model.PostResponse, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errs.NewBadRequestError("Missing slug", true, nil, nil, nil)
	}

	posts, err := s.posts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].Slug == slug {
			return &model.PostResponse{Item: &posts[i]}, nil
		}
	}

	return nil, errs.NewNotFoundError("Post not found", true, nil)
}

func (s *PostService) posts(ctx context.Context) ([]model.Post, error) {
	posts, err := load(ctx, s.loader, "posts", newsletter.ProviderBeehiiv, s.fetchPosts)
	if err != nil {
		return nil, upstreamerr.HandleError(err)
	}
	return posts, nil
}

// fetchPosts maps feed entries, newest first, onto posts. The oldest entry
// gets id 1.
func (s *PostService) fetchPosts(ctx context.Context) ([]model.Post, error) {
	entries, err := s.beehiiv.Entries(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for i, entry := range entries {
		id := len(entries) - i
		post := s.buildPost(entry, id)
		if seen[post.Slug] {
			post.Slug += "-" + post.ID
		}
		seen[post.Slug] = true
		posts = append(posts, post)
	}

	return posts, nil
}

func (s *PostService) buildPost(entry *gofeed.Item, id int) model.Post {
	body := entry.Content
	if strings.TrimSpace(body) == "" {
		body = entry.Description
	}

	summary := entry.Description
	if strings.TrimSpace(summary) == "" {
		summary = body
	}

	return model.Post{
		ID:          strconv.Itoa(id),
		Slug:        PostSlug(entry.Link, entry.Title),
		Title:       entry.Title,
		Date:        newsletter.EntryDate(entry),
		Category:    newsletter.EntryCategory(entry),
		Excerpt:     Excerpt(s.plainText(summary), excerptRunes),
		ReadingTime: ReadingTime(s.plainText(body)),
		HeroColor:   heroPalette[(id-1)%len(heroPalette)],
		Link:        entry.Link,
		ContentHTML: s.content.Sanitize(body),
	}
}

// plainText strips tags, decodes entities and collapses whitespace.
func (s *PostService) plainText(raw string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s.text.Sanitize(raw))), " ")
}

// PostSlug is the last path segment of link, or a slug of title.
func PostSlug(link, title string) string {
	if u, err := url.Parse(link); err == nil {
		if slug := newsletter.SlugFromPath(u.Path); slug != "" {
			return slug
		}
	}
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// Excerpt shortens text to at most n runes, ending in an ellipsis when cut.
func Excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:n-1]), " ") + "…"
}

// ReadingTime is whole minutes at wordsPerMinute, never less than one.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}
