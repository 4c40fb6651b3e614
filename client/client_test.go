package wl_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/internal/wltest"
	"deedles.dev/wlpaper/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripGlobals(t *testing.T) {
	_, client := wltest.New(t)

	var announced []wl.Global
	registry := client.Display().GetRegistry()
	registry.Global = func(g wl.Global) { announced = append(announced, g) }
	require.NoError(t, client.RoundTrip())

	assert.Len(t, announced, 4)
	assert.Equal(t, []wl.Global{
		{Name: 1, Interface: "wl_compositor", Version: 4},
		{Name: 2, Interface: "wl_shm", Version: 1},
		{Name: 3, Interface: "zwlr_layer_shell_v1", Version: 4},
		{Name: 4, Interface: "wl_output", Version: 4},
	}, registry.List())
	assert.Equal(t, []wl.Global{{Name: 2, Interface: "wl_shm", Version: 1}}, registry.Find(wl.IsShm))
	assert.Same(t, registry, client.Display().GetRegistry())
}

func TestBindVersion(t *testing.T) {
	server, client := wltest.New(t, wltest.Global{Name: 5, Interface: "wl_compositor", Version: 3})

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	compositor := wl.BindCompositor(registry, 5, 4)
	surface := compositor.CreateSurface()
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, uint32(3), compositor.Version())
	assert.Equal(t, uint32(3), surface.Version())
	assert.Equal(t, "wl_surface", server.Interface(surface.ID()))
	assert.Equal(t, uint32(3), server.Version(surface.ID()))
}

func TestDamageBufferFallback(t *testing.T) {
	server, client := wltest.New(t, wltest.Global{Name: 1, Interface: "wl_compositor", Version: 3})

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	surface := wl.BindCompositor(registry, 1, 4).CreateSurface()
	surface.DamageBuffer(1, 2, 3, 4)
	surface.Commit()
	require.NoError(t, client.RoundTrip())

	c := server.NextCommit(t)
	assert.Equal(t, [4]int32{1, 2, 3, 4}, c.Damage)
	assert.Empty(t, server.Errors())
}

func TestShmFormats(t *testing.T) {
	_, client := wltest.New(t)

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	var formats []wl.ShmFormat
	shm := wl.BindShm(registry, 2, wl.ShmVersion)
	shm.Format = func(f wl.ShmFormat) { formats = append(formats, f) }
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, []wl.ShmFormat{wl.ShmFormatArgb8888, wl.ShmFormatXrgb8888, wltest.FormatRGB565}, formats)
	assert.Equal(t, formats, shm.Formats())
	assert.True(t, shm.Supports(wl.ShmFormatXrgb8888))
	assert.Equal(t, "xrgb8888", wl.ShmFormatXrgb8888.String())
	assert.Equal(t, "AR24", wl.ShmFormat(0x34325241).String())
	assert.Equal(t, "RG16", wltest.FormatRGB565.String())
}

func TestOutputEvents(t *testing.T) {
	_, client := wltest.New(t)

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	var name string
	var width, height int32
	var done bool
	output := wl.BindOutput(registry, 4, wl.OutputVersion)
	output.Name = func(n string) { name = n }
	output.Mode = func(flags wl.OutputMode, w, h, refresh int32) { width, height = w, h }
	output.Done = func() { done = true }
	require.NoError(t, client.RoundTrip())

	assert.Equal(t, "WL-4", name)
	assert.Equal(t, int32(1920), width)
	assert.Equal(t, int32(1080), height)
	assert.True(t, done)
}

func TestUnknownSender(t *testing.T) {
	server, client := wltest.New(t)

	server.Send(1234, 0)
	err := client.Dispatch()

	var serr wire.UnknownSenderIDError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, uint32(1234), serr.Sender)
	assert.Empty(t, serr.Previous)
}

func TestDisplayError(t *testing.T) {
	server, client := wltest.New(t)

	var reported wl.DisplayError
	client.Display().Error = func(err wl.DisplayError) { reported = err }
	server.Error(1, 2, "bad things")

	err := client.Dispatch()
	var derr wl.DisplayError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, wl.DisplayError{ObjectID: 1, Code: 2, Message: "bad things"}, derr)
	assert.Equal(t, derr, reported)
}

func TestDispatchAfterClose(t *testing.T) {
	_, client := wltest.New(t)

	time.AfterFunc(10*time.Millisecond, func() { client.Close() })
	err := client.Dispatch()
	assert.ErrorIs(t, err, net.ErrClosed)
}

func TestDeleteID(t *testing.T) {
	server, client := wltest.New(t)

	registry := client.Display().GetRegistry()
	require.NoError(t, client.RoundTrip())

	surface := wl.BindCompositor(registry, 1, 4).CreateSurface()
	require.NoError(t, client.RoundTrip())
	surface.Destroy()
	require.NoError(t, client.RoundTrip())

	assert.True(t, surface.Destroyed())
	assert.True(t, server.Destroyed(surface.ID()))
	assert.Nil(t, client.Get(surface.ID()))

	server.Send(surface.ID(), 0, uint32(4))
	err := client.Dispatch()
	var serr wire.UnknownSenderIDError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, surface.ID(), serr.Sender)
	assert.Equal(t, fmt.Sprintf("wl_surface@%v", surface.ID()), serr.Previous)
}
