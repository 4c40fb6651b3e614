package paper_test

import (
	"os"
	"testing"

	"deedles.dev/wlpaper/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, env := range []string{"WLPAPER_POOL_SIZE", "WLPAPER_PIXEL_BUDGET", "WLPAPER_BUFFERS", "WLPAPER_LOG_LEVEL"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	c, err := paper.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, paper.Config{
		PixelBudget: paper.DefaultPixelBudget,
		Buffers:     paper.DefaultBuffers,
		LogLevel:    "info",
	}, c)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("WLPAPER_POOL_SIZE", "64MiB")
	t.Setenv("WLPAPER_PIXEL_BUDGET", "1000")
	t.Setenv("WLPAPER_BUFFERS", "3")
	t.Setenv("WLPAPER_LOG_LEVEL", "debug")

	c, err := paper.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, paper.Config{PoolSize: "64MiB", PixelBudget: 1000, Buffers: 3, LogLevel: "debug"}, c)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("WLPAPER_BUFFERS", "lots")
	_, err := paper.LoadConfig()
	assert.Error(t, err)
}

func TestPoolBytes(t *testing.T) {
	tests := []struct {
		name   string
		config paper.Config
		n      int
		size   int
		err    bool
	}{
		{"Computed", paper.Config{PixelBudget: 100, Buffers: 2}, 3, 3 * 100 * 4 * 2, false},
		{"NoSurfaces", paper.Config{PixelBudget: 100, Buffers: 2}, 0, 100 * 4 * 2, false},
		{"Default", paper.Config{PixelBudget: paper.DefaultPixelBudget, Buffers: paper.DefaultBuffers}, 1, 3840 * 2160 * 4 * 2, false},
		{"Override", paper.Config{PoolSize: "64MiB", PixelBudget: 1, Buffers: 1}, 10, 64 << 20, false},
		{"OverrideSI", paper.Config{PoolSize: "1 MB"}, 1, 1000 * 1000, false},
		{"BadSize", paper.Config{PoolSize: "huge"}, 1, 0, true},
		{"ZeroSize", paper.Config{PoolSize: "0"}, 1, 0, true},
		{"TooLarge", paper.Config{PixelBudget: paper.DefaultPixelBudget, Buffers: 2}, 64, 0, true},
		{"NoBuffers", paper.Config{PixelBudget: 100}, 1, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			size, err := test.config.PoolBytes(test.n)
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.size, size)
		})
	}
}
