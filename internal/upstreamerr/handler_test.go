package upstreamerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
		details string
	}{
		{
			name:    "missing beehiiv url",
			err:     newsletter.ErrMissingBeehiivURL,
			status:  http.StatusInternalServerError,
			message: "Missing BEEHIIV_RSS_URL",
			code:    "BEEHIIV_NOT_CONFIGURED",
		},
		{
			name: "kit non-2xx",
			err: fmt.Errorf("refresh: %w", &newsletter.UpstreamStatusError{
				Provider: newsletter.ProviderKit, StatusCode: 503, Body: "maintenance",
			}),
			status:  http.StatusBadGateway,
			message: "Kit request failed",
			code:    "KIT_UNAVAILABLE",
			details: "maintenance",
		},
		{
			name:    "timeout",
			err:     &newsletter.RequestError{Provider: newsletter.ProviderBeehiiv, Err: context.DeadlineExceeded},
			status:  http.StatusGatewayTimeout,
			message: "Beehiiv request timed out",
			code:    "GATEWAY_TIMEOUT",
		},
		{
			name:    "connection refused",
			err:     &newsletter.RequestError{Provider: newsletter.ProviderKit, Err: errors.New("connection refused")},
			status:  http.StatusBadGateway,
			message: "Kit request failed",
			code:    "KIT_UNAVAILABLE",
		},
		{
			name:    "unreadable feed",
			err:     &newsletter.ParseError{Provider: newsletter.ProviderBeehiiv, Err: errors.New("eof")},
			status:  http.StatusBadGateway,
			message: "Beehiiv returned an invalid response",
			code:    "BEEHIIV_INVALID_RESPONSE",
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: http.StatusText(http.StatusInternalServerError),
			code:    "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.err))

			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.details, httpErr.Details)
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Post not found", true, nil)

	assert.Same(t, original, HandleError(original))
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, "Beehiiv", ProviderName(newsletter.ProviderBeehiiv))
	assert.Equal(t, "Upstream", ProviderName(""))
}
