package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GetFeedRequest is the query of the feed endpoints.
type GetFeedRequest struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

func (r *GetFeedRequest) Validate() error {
	return validate.Struct(r)
}

// SubscribeRequest is the signup form's body.
type SubscribeRequest struct {
	Email string `json:"email" form:"email" validate:"required,contains=@"`
}

// Validate trims the address before checking it.
func (r *SubscribeRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validate.Struct(r)
}

// ValidationMessage is what the signup form shows on a rejected address.
func (r *SubscribeRequest) ValidationMessage() string {
	return "Invalid email"
}

// ListPostsRequest pages through the journal archive. Page is 0-based.
type ListPostsRequest struct {
	Page    int `query:"page" validate:"gte=0"`
	PerPage int `query:"per_page" validate:"gte=0"`
}

func (r *ListPostsRequest) Validate() error {
	return validate.Struct(r)
}

// GetPostRequest selects one post by slug, from the path or ?slug=.
type GetPostRequest struct {
	Slug string `param:"slug" query:"slug" validate:"required"`
}

func (r *GetPostRequest) Validate() error {
	r.Slug = strings.TrimSpace(r.Slug)
	return validate.Struct(r)
}

func (r *GetPostRequest) ValidationMessage() string {
	return "Missing slug"
}
