// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the API routes, and their legacy
// serverless function paths, to handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/operator-journal/internal/handler"
	"github.com/deppfellow/operator-journal/internal/middleware"
	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/labstack/echo/v4"
)

// LegacyFunctionsPrefix is where the site used to reach its serverless
// functions. The frontend still calls these paths.
const LegacyFunctionsPrefix = "/.netlify/functions"

// NewRouter builds the Echo instance with the global middleware chain and
// every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, s)

	routes := newJournalRoutes(s, h, middlewares)
	routes.register(router.Group("/api/v1"), apiPaths)
	routes.register(router.Group(LegacyFunctionsPrefix), legacyPaths)

	return router
}

// journalPaths names each journal route under one prefix.
type journalPaths struct {
	beehiivFeed string
	kitFeed     string
	subscribe   string
	posts       string
	post        string

	// wholeArchive serves every post from the list path unless the caller
	// asks for per_page.
	wholeArchive bool
}

var apiPaths = journalPaths{
	beehiivFeed: "/feeds/beehiiv",
	kitFeed:     "/feeds/kit",
	subscribe:   "/subscribe",
	posts:       "/posts",
	post:        "/posts/:slug",
}

var legacyPaths = journalPaths{
	beehiivFeed: "/beehiiv-feed",
	kitFeed:     "/kit-feed",
	subscribe:   "/kit-subscribe",
	posts:       "/cms-posts",
	post:        "/cms-post",

	wholeArchive: true,
}

// journalRoutes holds handler funcs built once, so both prefixes share the
// same rate limiter store.
type journalRoutes struct {
	beehiivFeed echo.HandlerFunc
	kitFeed     echo.HandlerFunc
	subscribe   echo.HandlerFunc
	posts       echo.HandlerFunc
	archive     echo.HandlerFunc
	post        echo.HandlerFunc
	limiter     echo.MiddlewareFunc
}

// readMethods are registered for every read route; HEAD gets the GET
// headers and an empty body.
var readMethods = []string{http.MethodGet, http.MethodHead}

func newJournalRoutes(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *journalRoutes {
	maxAge := s.Config.Cache.TTL

	return &journalRoutes{
		beehiivFeed: handler.HandleCached(h.Feed.Handler, h.Feed.GetBeehiivFeed, http.StatusOK, &model.GetFeedRequest{}, maxAge),
		kitFeed:     handler.HandleCached(h.Feed.Handler, h.Feed.GetKitFeed, http.StatusOK, &model.GetFeedRequest{}, maxAge),
		subscribe:   handler.Handle(h.Subscribe.Handler, h.Subscribe.Subscribe, http.StatusOK, &model.SubscribeRequest{}),
		posts:       handler.HandleCached(h.Post.Handler, h.Post.ListPosts, http.StatusOK, &model.ListPostsRequest{}, maxAge),
		archive:     handler.HandleCached(h.Post.Handler, h.Post.ListArchive, http.StatusOK, &model.ListPostsRequest{}, maxAge),
		post:        handler.HandleCached(h.Post.Handler, h.Post.GetPost, http.StatusOK, &model.GetPostRequest{}, maxAge),
		limiter:     m.RateLimit.Limit(),
	}
}

func (r *journalRoutes) register(g *echo.Group, paths journalPaths) {
	posts := r.posts
	if paths.wholeArchive {
		posts = r.archive
	}

	g.Match(readMethods, paths.beehiivFeed, r.beehiivFeed)
	g.Match(readMethods, paths.kitFeed, r.kitFeed)
	g.POST(paths.subscribe, r.subscribe, r.limiter)
	g.Match(readMethods, paths.posts, posts)
	g.Match(readMethods, paths.post, r.post)
}
