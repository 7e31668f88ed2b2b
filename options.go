package gd

import "time"

// Default configuration values.
const (
	DefaultMaxStagingTextures   = 32
	DefaultMinStagingBufferSize = 1 << 20
	DefaultSyncPollInterval     = 100 * time.Microsecond
)

// Config holds the tunables shared by all backends.
type Config struct {
	// MaxStagingTextures bounds the staging texture pool. Once the pool
	// holds this many entries, the next miss clears it wholesale.
	MaxStagingTextures int

	// MinStagingBufferSize is the initial size of a staging buffer slot.
	// Slots double from here until the request fits.
	MinStagingBufferSize int

	// SyncPollInterval is the sleep between completion polls in Sync.
	SyncPollInterval time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxStagingTextures:   DefaultMaxStagingTextures,
		MinStagingBufferSize: DefaultMinStagingBufferSize,
		SyncPollInterval:     DefaultSyncPollInterval,
	}
}

// Option configures a Device during creation.
//
// Example:
//
//	dev, err := gd.New(gd.DeviceD3D11, ptr,
//	    gd.WithMaxStagingTextures(8),
//	    gd.WithSyncPollInterval(50*time.Microsecond))
type Option func(*Config)

// WithMaxStagingTextures sets the staging texture pool bound.
// Values <= 0 keep the default.
func WithMaxStagingTextures(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxStagingTextures = n
		}
	}
}

// WithMinStagingBufferSize sets the initial staging buffer size in bytes.
// Values <= 0 keep the default.
func WithMinStagingBufferSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MinStagingBufferSize = n
		}
	}
}

// WithSyncPollInterval sets the sleep between completion polls.
// Values <= 0 keep the default.
func WithSyncPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.SyncPollInterval = d
		}
	}
}

// WithConfig replaces every field of the configuration with the positive
// fields of cfg. It is used by hosts that load Config from a file.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		WithMaxStagingTextures(cfg.MaxStagingTextures)(c)
		WithMinStagingBufferSize(cfg.MinStagingBufferSize)(c)
		WithSyncPollInterval(cfg.SyncPollInterval)(c)
	}
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
