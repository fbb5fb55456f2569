// Package newsletter talks to the newsletter providers the site publishes
// through.
//
// It owns three outbound operations:
//   - Beehiiv: parse the publication's RSS feed (gofeed).
//   - Kit: scrape the public creator profile page (goquery).
//   - Kit: forward an email address to a form's subscribe endpoint.
//
// Clients only fetch and map. Caching, limits and HTTP error envelopes are
// the service and handler layers' business.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/operator-journal/internal/config"
)

const (
	ProviderBeehiiv = "beehiiv"
	ProviderKit     = "kit"

	// maxErrorBody bounds how much of a failed upstream response is kept
	// for the error details.
	maxErrorBody = 64 << 10
)

// ConfigError reports a setting the operation cannot run without.
type ConfigError struct {
	Provider string

	// Setting is the human name of what is missing, e.g. "BEEHIIV_RSS_URL".
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Provider, e.Setting)
}

var (
	ErrMissingBeehiivURL = &ConfigError{Provider: ProviderBeehiiv, Setting: "BEEHIIV_RSS_URL"}
	ErrMissingKitFeedURL = &ConfigError{Provider: ProviderKit, Setting: "KIT_PUBLIC_FEED_URL"}
	ErrMissingKitConfig  = &ConfigError{Provider: ProviderKit, Setting: "server config"}
)

// UpstreamStatusError is returned when a provider answers with a non-2xx status.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Provider, e.StatusCode)
}

// ParseError wraps a response body the provider sent but we could not read.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RequestError wraps a transport failure: DNS, connect, TLS or a timeout.
type RequestError struct {
	Provider string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the provider did not answer in time.
func (e *RequestError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// NewHTTPClient builds the client shared by every provider call.
func NewHTTPClient(cfg config.NewsletterConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// requester carries what every provider client needs to make a request.
type requester struct {
	client    *http.Client
	userAgent string
}

// do sends the request and returns the response only when it is 2xx. Any
// other status is drained into an *UpstreamStatusError.
func (r requester) do(ctx context.Context, provider, method, url string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &RequestError{Provider: provider, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamStatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return resp, nil
}
