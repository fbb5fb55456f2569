package handler

import (
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/deppfellow/operator-journal/internal/service"
	"github.com/labstack/echo/v4"
)

// PostHandler serves the journal archive and the article reader.
type PostHandler struct {
	Handler
	postService *service.PostService
}

func NewPostHandler(s *server.Server, postService *service.PostService) *PostHandler {
	return &PostHandler{
		Handler:     NewHandler(s),
		postService: postService,
	}
}

func (h *PostHandler) ListPosts(c echo.Context, req *model.ListPostsRequest) (*model.PostList, error) {
	return h.postService.List(c.Request().Context(), req.Page, req.PerPage)
}

// ListArchive serves the legacy archive path. The site pages that list in
// the browser, so without per_page every post is returned.
func (h *PostHandler) ListArchive(c echo.Context, req *model.ListPostsRequest) (*model.PostList, error) {
	if req.PerPage == 0 {
		return h.postService.ListAll(c.Request().Context())
	}
	return h.postService.List(c.Request().Context(), req.Page, req.PerPage)
}

func (h *PostHandler) GetPost(c echo.Context, req *model.GetPostRequest) (*model.PostResponse, error) {
	return h.postService.Get(c.Request().Context(), req.Slug)
}
