package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/operator-journal/internal/config"
	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/logger"
	"github.com/deppfellow/operator-journal/internal/metrics"
	"github.com/deppfellow/operator-journal/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	log := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			RateLimit: config.RateLimitConfig{
				Enabled: true,
				Rate:    0.5,
				Burst:   1,
			},
		},
		Logger:        &log,
		LoggerService: &logger.LoggerService{},
		Metrics:       metrics.New(),
	}
}

func handleError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/", nil), rec)

	NewGlobalMiddlewares(testServer()).GlobalErrorHandler(err, c)

	var body errs.HTTPError
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details string
	}{
		{
			name:    "http error passes through",
			err:     errs.NewBadRequestError("Invalid email", true, nil, nil, nil),
			status:  http.StatusBadRequest,
			message: "Invalid email",
		},
		{
			name:    "unknown route",
			err:     echo.ErrNotFound,
			status:  http.StatusNotFound,
			message: "Route not found",
		},
		{
			name:    "wrong method",
			err:     echo.ErrMethodNotAllowed,
			status:  http.StatusMethodNotAllowed,
			message: "Method not allowed",
		},
		{
			name:    "other echo error keeps its message",
			err:     echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"),
			status:  http.StatusRequestEntityTooLarge,
			message: "too big",
		},
		{
			name:    "upstream status",
			err:     &newsletter.UpstreamStatusError{Provider: newsletter.ProviderBeehiiv, StatusCode: 503, Body: "maintenance"},
			status:  http.StatusBadGateway,
			message: "Beehiiv request failed",
			details: "maintenance",
		},
		{
			name:    "missing config",
			err:     newsletter.ErrMissingKitFeedURL,
			status:  http.StatusInternalServerError,
			message: "Missing KIT_PUBLIC_FEED_URL",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: errs.NewInternalServerError().Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := handleError(t, http.MethodGet, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.details, body.Details)
		})
	}
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	rec, _ := handleError(t, http.MethodHead, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRateLimit(t *testing.T) {
	s := testServer()
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.POST("/subscribe", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(s).Limit())

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/subscribe", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/subscribe", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "2", second.Header().Get("Retry-After"))
}

func TestRateLimit_Disabled(t *testing.T) {
	s := testServer()
	s.Config.RateLimit.Enabled = false

	e := echo.New()
	e.POST("/subscribe", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(s).Limit())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscribe", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
