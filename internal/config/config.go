package config

import (
	"fmt"

	pkgconfig "github.com/leonardoazeredo/ecomm-poc/pkg/config"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis (cart store)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days), shared by the store key and the
	// session cookie.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Contentful (catalog)
	ContentfulBaseURL     string `env:"CONTENTFUL_BASE_URL" envDefault:"https://cdn.contentful.com"`
	ContentfulSpaceID     string `env:"CONTENTFUL_SPACE_ID"`
	ContentfulEnvironment string `env:"CONTENTFUL_ENVIRONMENT" envDefault:"master"`
	ContentfulAccessToken string `env:"CONTENTFUL_ACCESS_TOKEN"`

	// Kafka (cart domain events)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production, which tightens
// the session cookie to Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d hours", c.CartTTL)
	}
	if c.ContentfulSpaceID == "" {
		return fmt.Errorf("CONTENTFUL_SPACE_ID is required")
	}
	if c.ContentfulAccessToken == "" {
		return fmt.Errorf("CONTENTFUL_ACCESS_TOKEN is required")
	}
	return nil
}
