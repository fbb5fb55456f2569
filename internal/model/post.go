package model

// Post is a journal entry rendered by the site's journal cards, archive and
// article reader.
type Post struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Excerpt     string `json:"excerpt"`
	ReadingTime int    `json:"readingTime"`
	HeroColor   string `json:"heroColor"`
	Link        string `json:"link,omitempty"`
	ContentHTML string `json:"contentHtml,omitempty"`
}

// Summary returns the post without its body, for list responses.
func (p Post) Summary() Post {
	p.ContentHTML = ""
	return p
}

// PostList is one page of the journal archive.
type PostList struct {
	Items      []Post `json:"items"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// PostResponse wraps a single post the way the article reader expects.
type PostResponse struct {
	Item *Post `json:"item"`
}
