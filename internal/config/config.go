// Package config builds the immutable process configuration for the relay.
//
// Configuration is resolved once at startup and handed to the components
// that need it by parameter. Values come from an optional YAML file first,
// then from environment variables, which always win. Nothing in this package
// is read again after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxRequestBytes caps the size of an incoming request body.
	DefaultMaxRequestBytes = 1 << 20 // 1 MiB

	// DefaultRequestTimeout bounds a single analyze request, including the
	// outbound provider call.
	DefaultRequestTimeout = 60 * time.Second
)

// defaultAllowedOrigins are the browser origins accepted by the CORS layer
// when no override is configured. They match the local dev servers the
// frontend runs on.
var defaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config is the process-wide configuration. It is read-only after Load.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// AllowedOrigins are the origins accepted by the CORS middleware.
	AllowedOrigins []string

	// Backend-default provider credentials, used as fallback when a request
	// carries no per-user key. Never mutated at request time.
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// SupabaseURL and SupabaseKey configure the external identity and
	// credential store.
	SupabaseURL string
	SupabaseKey string

	// AuthJWTSecret, when set, enables local verification of bearer tokens.
	// When empty, tokens are verified by a round trip to the identity store.
	AuthJWTSecret string

	// Stripe usage metering. Metering is disabled unless both are set.
	StripeAPIKey           string
	StripeSubscriptionItem string

	// DisableAuth accepts every request as anonymous. Development only.
	DisableAuth bool

	MaxRequestBytes int64
	RequestTimeout  time.Duration
}

// fileConfig is the YAML shape of an optional config file. Only operational
// knobs live here; secrets always come from the environment.
type fileConfig struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Limits struct {
		MaxRequestBytes       int64 `yaml:"max_request_bytes"`
		RequestTimeoutSeconds int   `yaml:"request_timeout_seconds"`
	} `yaml:"limits"`
}

// Load builds the configuration from the YAML file at path (may be empty or
// missing) overlaid with environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:            DefaultAddr,
		AllowedOrigins:  defaultAllowedOrigins,
		MaxRequestBytes: DefaultMaxRequestBytes,
		RequestTimeout:  DefaultRequestTimeout,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Server.Addr != "" {
		c.Addr = fc.Server.Addr
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Limits.MaxRequestBytes > 0 {
		c.MaxRequestBytes = fc.Limits.MaxRequestBytes
	}
	if fc.Limits.RequestTimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(fc.Limits.RequestTimeoutSeconds) * time.Second
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RELAY_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("RELAY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}

	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.SupabaseURL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	c.SupabaseKey = os.Getenv("SUPABASE_KEY")
	c.AuthJWTSecret = os.Getenv("AUTH_JWT_SECRET")
	c.StripeAPIKey = os.Getenv("STRIPE_API_KEY")
	c.StripeSubscriptionItem = os.Getenv("STRIPE_SUBSCRIPTION_ITEM")

	if v := os.Getenv("DISABLE_AUTH"); v == "true" || v == "1" {
		c.DisableAuth = true
	}
}

// DefaultCredential returns the backend-default API key for a provider
// family, or "" when none is configured.
func (c *Config) DefaultCredential(family string) string {
	switch family {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	}
	return ""
}
