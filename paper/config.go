package paper

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultPixelBudget = 3840 * 2160
	DefaultBuffers     = 2
)

// Config holds deployment settings. The zero value is not useful, use
// LoadConfig.
type Config struct {
	// PoolSize overrides the computed size of the shared memory pool.
	// It accepts units, such as "64MiB".
	PoolSize string `split_words:"true"`

	// PixelBudget is the largest number of pixels expected for any
	// one surface.
	PixelBudget int `split_words:"true" default:"8294400"`

	// Buffers is the number of buffers per surface that can be in use
	// by the compositor at the same time.
	Buffers int `default:"2"`

	LogLevel string `split_words:"true" default:"info"`
}

// LoadConfig reads the configuration from WLPAPER_* environment
// variables.
func LoadConfig() (Config, error) {
	var c Config
	err := envconfig.Process("wlpaper", &c)
	if err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// PoolBytes returns the size of the shared memory pool for n surfaces.
func (c Config) PoolBytes(n int) (int, error) {
	if c.PoolSize != "" {
		size, err := humanize.ParseBytes(c.PoolSize)
		if err != nil {
			return 0, fmt.Errorf("parse pool size: %w", err)
		}
		if (size == 0) || (size > math.MaxInt32) {
			return 0, fmt.Errorf("pool size %v out of range", humanize.IBytes(size))
		}
		return int(size), nil
	}

	if (c.PixelBudget <= 0) || (c.Buffers <= 0) {
		return 0, fmt.Errorf("invalid pixel budget %v or buffer count %v", c.PixelBudget, c.Buffers)
	}
	size := uint64(max(n, 1)) * uint64(c.PixelBudget) * 4 * uint64(c.Buffers)
	if size > math.MaxInt32 {
		return 0, fmt.Errorf("pool for %v surfaces would be %v, which is too large; lower the pixel budget or set a pool size", n, humanize.IBytes(size))
	}
	return int(size), nil
}
