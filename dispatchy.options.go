package dispatchy

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Matcher or Bundle.
type Option func(*matcherConfig)

// matcherConfig holds the internal configuration shared by Matcher and Bundle.
type matcherConfig struct {
	logger       *zap.Logger
	maxDepth     int
	matchTimeout time.Duration
}

// defaultMatcherConfig returns the default configuration.
func defaultMatcherConfig() *matcherConfig {
	return &matcherConfig{
		logger:       nil,
		maxDepth:     DefaultMaxDepth,
		matchTimeout: DefaultMatchTimeout,
	}
}

// WithLogger sets the logger.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *matcherConfig) {
		c.logger = logger
	}
}

// WithMaxDepth sets the maximum subtemplate inlining depth during synthesis.
// Default: 25
func WithMaxDepth(depth int) Option {
	return func(c *matcherConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithMatchTimeout bounds a single regex match attempt.
// Use 0 to disable the timeout.
// Default: 2s
func WithMatchTimeout(timeout time.Duration) Option {
	return func(c *matcherConfig) {
		c.matchTimeout = timeout
	}
}
