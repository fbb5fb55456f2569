package model

// FeedItem is one normalized entry of a newsletter feed.
//
// Beehiiv items always carry Category; Kit items always carry Slug.
type FeedItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
	Slug     string `json:"slug,omitempty"`
}

// FeedResponse is the body of the feed proxy endpoints.
type FeedResponse struct {
	Items []FeedItem `json:"items"`
}

// NewFeedResponse never encodes a nil slice, so the frontend always sees [].
func NewFeedResponse(items []FeedItem) FeedResponse {
	if items == nil {
		items = []FeedItem{}
	}
	return FeedResponse{Items: items}
}
