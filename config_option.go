package haku

import (
	"time"

	"github.com/hakuorm/haku/logger"
	"github.com/hakuorm/haku/schema"
)

// ConfigOption use functional option for haku Config.
type ConfigOption func(c *Config)

// WithNamingStrategy set schema namer.
func WithNamingStrategy(namer schema.Namer) ConfigOption {
	return func(c *Config) {
		c.NamingStrategy = namer
	}
}

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithNowFunc set now func.
func WithNowFunc(fn func() time.Time) ConfigOption {
	return func(c *Config) {
		c.NowFunc = fn
	}
}

// WithValidator set validator.
func WithValidator(v Validator) ConfigOption {
	return func(c *Config) {
		c.Validator = v
	}
}

// WithRegistry share a model registry.
func WithRegistry(registry *schema.Registry) ConfigOption {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithDefaultLimit set default page size.
func WithDefaultLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.DefaultLimit = limit
	}
}
