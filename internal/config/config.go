// Package config manages environment variables.
//
// It reads variables from the `.env` file, loads them into
// structured Go types (struct), and validates that required
// values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Honour the un-prefixed variable names the site used when it
//     ran as serverless functions (BEEHIIV_RSS_URL, KIT_API_KEY, ...).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any of the providers below read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the prefix SITE_ and nested with ".":

		SITE_SERVER.PORT=8080            -> server.port
		SITE_NEWSLETTER.KIT.FORM_ID=123  -> newsletter.kit.form_id

	Underscores are NOT converted to dots, so multi-word keys keep their
	underscore (read_timeout, rss_url).
*/

// EnvPrefix is the prefix every first-class config variable carries.
const EnvPrefix = "SITE_"

// legacyEnvKeys maps the variable names used by the former serverless
// functions onto their koanf keys. They are loaded first so the prefixed
// form always wins when both are set.
var legacyEnvKeys = map[string]string{
	"BEEHIIV_RSS_URL":     "newsletter.beehiiv.rss_url",
	"KIT_PUBLIC_FEED_URL": "newsletter.kit.public_feed_url",
	"KIT_FORM_ID":         "newsletter.kit.form_id",
	"KIT_API_KEY":         "newsletter.kit.api_key",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Newsletter    NewsletterConfig     `koanf:"newsletter"`
	Cache         CacheConfig          `koanf:"cache"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Notify        NotifyConfig         `koanf:"notify"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// NewsletterConfig holds everything the feed and subscribe proxies need to
// reach the newsletter providers.
type NewsletterConfig struct {
	Beehiiv BeehiivConfig `koanf:"beehiiv"`
	Kit     KitConfig     `koanf:"kit"`

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// UserAgent is sent on outbound requests. Kit's public pages reject
	// some default Go user agents.
	UserAgent string `koanf:"user_agent"`
}

// BeehiivConfig configures the Beehiiv RSS feed proxy.
type BeehiivConfig struct {
	RSSURL string `koanf:"rss_url" validate:"omitempty,url"`

	// Limit caps the number of items the feed endpoint returns.
	Limit int `koanf:"limit" validate:"gte=0"`
}

// KitConfig configures the Kit public-page scraper and the subscribe API.
type KitConfig struct {
	PublicFeedURL string `koanf:"public_feed_url" validate:"omitempty,url"`

	// PublicBaseURL is prefixed to scraped relative post links. When empty
	// the origin of PublicFeedURL is used.
	PublicBaseURL string `koanf:"public_base_url" validate:"omitempty,url"`

	APIBaseURL string `koanf:"api_base_url" validate:"omitempty,url"`
	FormID     string `koanf:"form_id"`
	APIKey     string `koanf:"api_key"`
}

// CacheConfig controls the Redis-backed feed cache.
type CacheConfig struct {
	Enabled      bool          `koanf:"enabled"`
	RedisAddress string        `koanf:"redis_address"`
	TTL          time.Duration `koanf:"ttl"`
}

// RateLimitConfig throttles the subscribe endpoint per client IP.
type RateLimitConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Rate      float64       `koanf:"rate" validate:"gte=0"`
	Burst     int           `koanf:"burst" validate:"gte=0"`
	ExpiresIn time.Duration `koanf:"expires_in"`
}

// NotifyConfig controls the optional "new subscriber" email to the owner.
type NotifyConfig struct {
	Enabled    bool   `koanf:"enabled"`
	OwnerEmail string `koanf:"owner_email" validate:"omitempty,email"`
	FromName   string `koanf:"from_name"`
	FromEmail  string `koanf:"from_email" validate:"omitempty,email"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// NotificationsEnabled reports whether every piece the owner notification
// needs is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.Notify.Enabled &&
		c.Notify.OwnerEmail != "" &&
		c.Integration.ResendAPIKey != "" &&
		c.Cache.RedisAddress != ""
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults and returns the result.
//
// Behavior summary:
//   - Loads the legacy un-prefixed variables
//   - Loads env vars with prefix SITE_ (these override the legacy ones)
//   - Unmarshals into Config and applies defaults
//   - Overrides observability service name + environment
//   - Validates required config blocks/fields
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		// An empty key tells the provider to skip the variable.
		return legacyEnvKeys[key], value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if strings.HasSuffix(key, "origins") {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed so telemetry never splits across names.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional values the environment left empty.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.Newsletter.Beehiiv.Limit == 0 {
		c.Newsletter.Beehiiv.Limit = DefaultBeehiivLimit
	}
	if c.Newsletter.Kit.APIBaseURL == "" {
		c.Newsletter.Kit.APIBaseURL = DefaultKitAPIBaseURL
	}
	if c.Newsletter.HTTPTimeout == 0 {
		c.Newsletter.HTTPTimeout = 10 * time.Second
	}
	if c.Newsletter.UserAgent == "" {
		c.Newsletter.UserAgent = "operator-journal/1.0 (+https://github.com/deppfellow/operator-journal)"
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}

	if c.RateLimit.Rate == 0 {
		c.RateLimit.Rate = 0.2
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
	if c.RateLimit.ExpiresIn == 0 {
		c.RateLimit.ExpiresIn = 3 * time.Minute
	}

	if c.Notify.FromName == "" {
		c.Notify.FromName = SiteName
	}
	if c.Notify.FromEmail == "" {
		c.Notify.FromEmail = "onboarding@resend.dev"
	}
}

// splitList turns "a, b,,c" into ["a" "b" "c"].
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const (
	// ServiceName tags every log line and New Relic transaction.
	ServiceName = "operator-journal"

	// SiteName is the publication's display name.
	SiteName = "The Operator's Handbook"

	// DefaultBeehiivLimit is how many journal entries the feed proxy returns.
	DefaultBeehiivLimit = 6

	// DefaultKitAPIBaseURL is Kit's v3 API host.
	DefaultKitAPIBaseURL = "https://api.kit.com"
)
