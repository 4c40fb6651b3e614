// Package paper shows images as wallpapers using background layer
// surfaces. It binds the globals that it needs, creates a surface for
// every wallpaper and redraws each one whenever the compositor
// configures it.
package paper

import (
	"context"
	"errors"
	"fmt"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/layershell"
	"deedles.dev/wlpaper/render"
	"deedles.dev/wlpaper/shm"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// DefaultNamespace is the layer surface namespace used for wallpapers
// that don't specify one.
const DefaultNamespace = "wallpaper"

// Wallpaper is an image to show along with the namespace of the layer
// surface that shows it.
type Wallpaper struct {
	Image     *render.Image
	Namespace string
}

// State drives the wallpaper surfaces of one connection.
type State struct {
	client     *wl.Client
	compositor *wl.Compositor
	shell      *layershell.Shell
	shm        *wl.Shm
	pool       *shm.Pool
	surfaces   *Registry

	err error
}

// New binds the required globals, creates the shared memory pool and
// creates a surface for every wallpaper. Every error that it returns
// is fatal. The surfaces are not drawn until the compositor
// configures them during Dispatch.
func New(client *wl.Client, config Config, wallpapers []Wallpaper) (state *State, err error) {
	registry := client.Display().GetRegistry()
	err = client.RoundTrip()
	if err != nil {
		return nil, fmt.Errorf("get globals: %w", err)
	}

	state = &State{
		client:   client,
		surfaces: NewRegistry(),
	}

	compositor, ok := first(registry.Find(wl.IsCompositor))
	if !ok {
		return nil, &MissingGlobalError{Interface: wl.CompositorInterface}
	}
	shell, ok := first(registry.Find(layershell.IsShell))
	if !ok {
		return nil, &MissingGlobalError{Interface: layershell.ShellInterface}
	}
	shmGlobal, ok := first(registry.Find(wl.IsShm))
	if !ok {
		return nil, &MissingGlobalError{Interface: wl.ShmInterface}
	}

	state.compositor = wl.BindCompositor(registry, compositor.Name, compositor.Version)
	state.shell = layershell.Bind(registry, shell.Name, shell.Version)
	state.shm = wl.BindShm(registry, shmGlobal.Name, shmGlobal.Version)
	log.Debug("bound globals",
		"compositor", state.compositor.Version(),
		"layer_shell", state.shell.Version(),
		"shm", state.shm.Version(),
	)

	size, err := config.PoolBytes(len(wallpapers))
	if err != nil {
		return nil, err
	}
	state.pool, err = shm.NewPool(state.shm, size)
	if err != nil {
		return nil, fmt.Errorf("allocate buffer pool: %w", err)
	}
	defer func() {
		if err != nil {
			state.pool.Destroy()
		}
	}()
	log.Info("allocated buffer pool", "size", humanize.IBytes(uint64(size)), "surfaces", len(wallpapers))

	for _, wp := range wallpapers {
		err = state.addSurface(wp)
		if err != nil {
			return nil, err
		}
	}

	err = client.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush setup requests: %w", err)
	}

	return state, nil
}

func first[T any](s []T) (v T, ok bool) {
	if len(s) == 0 {
		return v, false
	}
	return s[0], true
}

func (state *State) addSurface(wp Wallpaper) error {
	namespace := wp.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	surface := state.compositor.CreateSurface()
	layer := state.shell.GetLayerSurface(surface, nil, layershell.LayerBackground, namespace)
	layer.SetAnchor(layershell.AnchorAll)
	layer.SetKeyboardInteractivity(layershell.KeyboardInteractivityNone)
	layer.SetExclusiveZone(-1)
	surface.Commit()

	s := Surface{
		Namespace: namespace,
		Image:     wp.Image,
		id:        surface.ID(),
		surface:   surface,
		layer:     layer,
	}

	id := s.id
	layer.Configure = func(serial, width, height uint32) {
		state.handle(configureEvent{surface: id, serial: serial, width: width, height: height})
	}
	layer.Closed = func() {
		state.handle(closedEvent{surface: id})
	}

	err := state.surfaces.Register(&s)
	if err != nil {
		return err
	}

	log.Info("created surface", "surface", id, "namespace", namespace, "image", fmt.Sprintf("%vx%v", wp.Image.Width, wp.Image.Height))
	return nil
}

// Surfaces returns the registry of live surfaces.
func (state *State) Surfaces() *Registry {
	return state.surfaces
}

// Pool returns the pool that buffers are drawn into.
func (state *State) Pool() *shm.Pool {
	return state.pool
}

type event interface {
	surfaceID() uint32
}

type configureEvent struct {
	surface       uint32
	serial        uint32
	width, height uint32
}

func (ev configureEvent) surfaceID() uint32 { return ev.surface }

type closedEvent struct {
	surface uint32
}

func (ev closedEvent) surfaceID() uint32 { return ev.surface }

// handle processes an event from one of the layer surfaces. The first
// error is kept and returned by Dispatch. Events after that are
// ignored.
func (state *State) handle(ev event) {
	if state.err != nil {
		return
	}

	switch ev := ev.(type) {
	case configureEvent:
		s, ok := state.surfaces.Lookup(ev.surface)
		if !ok {
			state.err = &UnknownSurfaceError{ID: ev.surface}
			return
		}
		log.Debug("configure", "surface", ev.surface, "serial", ev.serial, "width", ev.width, "height", ev.height)
		state.err = s.draw(state.pool, ev.serial, ev.width, ev.height)

	case closedEvent:
		s, ok := state.surfaces.Unregister(ev.surface)
		if !ok {
			state.err = &UnknownSurfaceError{ID: ev.surface}
			return
		}
		log.Info("surface closed", "surface", s.ID(), "namespace", s.Namespace, "remaining", state.surfaces.Len())

	default:
		panic(fmt.Errorf("unexpected event type %T", ev))
	}
}

// Dispatch blocks until events arrive and then handles all of them.
// It returns connection errors and the first error from handling an
// event. Both are fatal.
func (state *State) Dispatch() error {
	err := state.client.Dispatch()
	return errors.Join(err, state.err)
}

// Run dispatches events until every surface has been closed or ctx is
// canceled. Canceling ctx closes the client's connection.
func (state *State) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { state.client.Close() })
	defer stop()

	for !state.surfaces.Empty() {
		err := state.Dispatch()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}

	log.Info("all surfaces closed")
	return nil
}

// Close destroys the remaining surfaces and the buffer pool and sends
// the requests. It does not close the client.
func (state *State) Close() error {
	for _, s := range state.surfaces.Surfaces() {
		state.surfaces.Unregister(s.ID())
	}
	perr := state.pool.Destroy()
	state.shell.Destroy()

	return errors.Join(perr, state.client.Flush())
}
