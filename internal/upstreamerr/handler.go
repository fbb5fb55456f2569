package upstreamerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/operator-journal/internal/errs"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a provider failure.
type Kind string

const (
	NotConfigured   Kind = "NOT_CONFIGURED"
	Unavailable     Kind = "UNAVAILABLE"
	Timeout         Kind = "TIMEOUT"
	InvalidResponse Kind = "INVALID_RESPONSE"
	Other           Kind = "ERROR"
)

// Classify reports the Kind of err and the provider it came from, if known.
func Classify(err error) (Kind, string) {
	var cfgErr *newsletter.ConfigError
	if errors.As(err, &cfgErr) {
		return NotConfigured, cfgErr.Provider
	}

	var statusErr *newsletter.UpstreamStatusError
	if errors.As(err, &statusErr) {
		return Unavailable, statusErr.Provider
	}

	var parseErr *newsletter.ParseError
	if errors.As(err, &parseErr) {
		return InvalidResponse, parseErr.Provider
	}

	var reqErr *newsletter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Timeout() {
			return Timeout, reqErr.Provider
		}
		return Unavailable, reqErr.Provider
	}

	return Other, ""
}

// generateErrorCode builds <PROVIDER>_<KIND>, e.g. KIT_TIMEOUT.
func generateErrorCode(provider string, kind Kind) string {
	if provider == "" {
		provider = "UPSTREAM"
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(provider), kind)
}

// ProviderName renders a provider constant for humans: "kit" -> "Kit".
func ProviderName(provider string) string {
	if provider == "" {
		return "Upstream"
	}
	return cases.Title(language.English).String(provider)
}

// HandleError converts a provider error into an application error.
//
//   - *errs.HTTPError: returned unchanged
//   - missing setting: 500 "Missing <setting>"
//   - timeout: 504 "<Provider> request timed out"
//   - non-2xx: 502 "<Provider> request failed" with the body as details
//   - unreadable body: 502 "<Provider> returned an invalid response"
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	kind, provider := Classify(err)
	code := generateErrorCode(provider, kind)
	name := ProviderName(provider)

	switch kind {
	case NotConfigured:
		var cfgErr *newsletter.ConfigError
		errors.As(err, &cfgErr)
		return errs.NewServerError("Missing "+cfgErr.Setting, &code)

	case Timeout:
		return errs.NewGatewayTimeoutError(name + " request timed out")

	case Unavailable:
		gatewayErr := errs.NewBadGatewayError(name+" request failed", &code)
		var statusErr *newsletter.UpstreamStatusError
		if errors.As(err, &statusErr) && statusErr.Body != "" {
			return gatewayErr.WithDetails(statusErr.Body)
		}
		return gatewayErr

	case InvalidResponse:
		return errs.NewBadGatewayError(name+" returned an invalid response", &code)

	default:
		return errs.NewInternalServerError()
	}
}
