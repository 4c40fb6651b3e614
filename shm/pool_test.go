package shm_test

import (
	"testing"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/internal/wltest"
	"deedles.dev/wlpaper/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, size int) (*wltest.Server, *wl.Client, *shm.Pool) {
	server, client := wltest.New(t)

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	pool, err := shm.NewPool(wl.BindShm(registry, 2, wl.ShmVersion), size)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Destroy() })

	return server, client, pool
}

func commit(t *testing.T, client *wl.Client, surface *wl.Surface, buf *wl.Buffer) {
	surface.Attach(buf, 0, 0)
	surface.Commit()
	require.NoError(t, client.Flush())
}

func TestPoolSharesMemory(t *testing.T) {
	server, client, pool := newPool(t, 64)
	registry := client.Display().GetRegistry()
	surface := wl.BindCompositor(registry, 1, 4).CreateSurface()

	buf, pix, err := pool.CreateBuffer(2, 2, wl.ShmFormatXrgb8888)
	require.NoError(t, err)
	require.Len(t, pix, 16)
	for i := range pix {
		pix[i] = byte(i)
	}
	commit(t, client, surface, buf)

	c := server.NextCommit(t)
	assert.Equal(t, buf.ID(), c.Buffer)
	assert.Equal(t, int32(2), c.Width)
	assert.Equal(t, int32(8), c.Stride)
	assert.Equal(t, uint32(wl.ShmFormatXrgb8888), c.Format)
	assert.Equal(t, pix, c.Pixels)
}

func TestPoolExhausted(t *testing.T) {
	_, _, pool := newPool(t, 100)

	_, _, err := pool.CreateBuffer(3, 3, wl.ShmFormatXrgb8888)
	require.NoError(t, err)
	_, _, err = pool.CreateBuffer(5, 5, wl.ShmFormatXrgb8888)
	require.ErrorIs(t, err, shm.ErrExhausted)

	var eerr *shm.ExhaustedError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, 100, eerr.Requested)
	assert.Equal(t, 64, eerr.Available)

	// Same request, same result.
	_, _, err = pool.CreateBuffer(5, 5, wl.ShmFormatXrgb8888)
	assert.ErrorIs(t, err, shm.ErrExhausted)
}

func TestPoolReuseAfterRelease(t *testing.T) {
	server, client, pool := newPool(t, 64)
	registry := client.Display().GetRegistry()
	surface := wl.BindCompositor(registry, 1, 4).CreateSurface()

	first, _, err := pool.CreateBuffer(4, 4, wl.ShmFormatXrgb8888)
	require.NoError(t, err)
	commit(t, client, surface, first)
	server.NextCommit(t)

	_, _, err = pool.CreateBuffer(2, 2, wl.ShmFormatXrgb8888)
	require.ErrorIs(t, err, shm.ErrExhausted, "busy buffer was handed out again")
	assert.Equal(t, 64, pool.Busy())

	server.Release(first.ID())
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, 0, pool.Busy())
	server.WaitDestroyed(t, first.ID())

	second, pix, err := pool.CreateBuffer(2, 2, wl.ShmFormatXrgb8888)
	require.NoError(t, err)
	assert.Len(t, pix, 16)
	assert.LessOrEqual(t, pool.Used(), 64)
	commit(t, client, surface, second)
	server.NextCommit(t)
	assert.Equal(t, 64, pool.Cap())
}

func TestPoolMergesReleasedBuffers(t *testing.T) {
	server, client, pool := newPool(t, 64)

	var bufs []*wl.Buffer
	for range 4 {
		buf, _, err := pool.CreateBuffer(2, 2, wl.ShmFormatXrgb8888)
		require.NoError(t, err)
		bufs = append(bufs, buf)
	}
	require.NoError(t, client.Flush())

	server.Release(bufs[1].ID())
	server.Release(bufs[0].ID())
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, 32, pool.Busy())

	_, _, err := pool.CreateBuffer(4, 2, wl.ShmFormatXrgb8888)
	require.NoError(t, err)
	assert.Equal(t, 64, pool.Busy())
	assert.Equal(t, 64, pool.Used())
}

func TestPoolInvalidSize(t *testing.T) {
	_, client := wltest.New(t)
	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	_, err := shm.NewPool(wl.BindShm(registry, 2, wl.ShmVersion), 0)
	assert.Error(t, err)
}
