package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/NuttawutSanuk/gd"
)

// config is the probe configuration. Every field may be set in the TOML
// file; flags given on the command line take precedence.
type config struct {
	Backend string        `toml:"backend"`
	Width   int           `toml:"width"`
	Height  int           `toml:"height"`
	Format  string        `toml:"format"`
	Staging stagingConfig `toml:"staging"`
}

type stagingConfig struct {
	MaxTextures      int    `toml:"max_textures"`
	MinBufferSize    int    `toml:"min_buffer_size"`
	SyncPollInterval string `toml:"sync_poll_interval"`
}

func defaultConfig() config {
	d := gd.DefaultConfig()
	return config{
		Backend: "vulkan",
		Width:   256,
		Height:  256,
		Format:  gd.RGBAu8.String(),
		Staging: stagingConfig{
			MaxTextures:      d.MaxStagingTextures,
			MinBufferSize:    d.MinStagingBufferSize,
			SyncPollInterval: d.SyncPollInterval.String(),
		},
	}
}

// loadConfig decodes the TOML file at path over cfg. Unknown keys are an
// error.
func loadConfig(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%s: %s", path, strict.String())
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c config) validate() error {
	switch c.Backend {
	case "vulkan", "noop":
	default:
		return fmt.Errorf("unknown backend %q (want vulkan or noop)", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if _, err := c.textureFormat(); err != nil {
		return err
	}
	_, err := c.options()
	return err
}

func (c config) textureFormat() (gd.TextureFormat, error) {
	return gd.ParseTextureFormat(c.Format)
}

func (c config) options() ([]gd.Option, error) {
	opts := []gd.Option{
		gd.WithMaxStagingTextures(c.Staging.MaxTextures),
		gd.WithMinStagingBufferSize(c.Staging.MinBufferSize),
	}
	if c.Staging.SyncPollInterval != "" {
		d, err := time.ParseDuration(c.Staging.SyncPollInterval)
		if err != nil {
			return nil, fmt.Errorf("sync_poll_interval: %w", err)
		}
		opts = append(opts, gd.WithSyncPollInterval(d))
	}
	return opts, nil
}
