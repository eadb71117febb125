package types

import "time"

type GenerateConfig struct {
	Cache bool
	Delay time.Duration
}

type GenerateOption func(*GenerateConfig)

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Cache: true}
}

func WithCache(enabled bool) GenerateOption {
	return func(c *GenerateConfig) {
		c.Cache = enabled
	}
}

func WithoutCache() GenerateOption {
	return WithCache(false)
}

// WithDelay waits before each screenshot so animations can settle.
func WithDelay(d time.Duration) GenerateOption {
	return func(c *GenerateConfig) {
		if d < 0 {
			d = 0
		}
		c.Delay = d
	}
}

// ApplyGenerateOptions applies opts on top of base.
func ApplyGenerateOptions(base GenerateConfig, opts []GenerateOption) GenerateConfig {
	config := base
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}
	return config
}
