// Package wltest provides a fake compositor for testing code that
// talks to a Wayland server. It understands the core objects needed to
// show shared memory buffers and the layer shell.
package wltest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/internal/set"
	"deedles.dev/wlpaper/wire"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// Timeout is how long the helpers wait for the client before failing
// the test.
const Timeout = 5 * time.Second

// FormatRGB565 is announced by wl_shm alongside the two required
// formats.
const FormatRGB565 wl.ShmFormat = 0x36314752

type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// DefaultGlobals returns the globals of a compositor that supports
// everything a wallpaper client needs, plus one output.
func DefaultGlobals() []Global {
	return []Global{
		{Name: 1, Interface: "wl_compositor", Version: 4},
		{Name: 2, Interface: "wl_shm", Version: 1},
		{Name: 3, Interface: "zwlr_layer_shell_v1", Version: 4},
		{Name: 4, Interface: "wl_output", Version: 4},
	}
}

// Layer is the state of a zwlr_layer_surface_v1 as requested by the
// client.
type Layer struct {
	ID            uint32
	Surface       uint32
	Output        uint32
	Layer         uint32
	Namespace     string
	Anchor        uint32
	Keyboard      uint32
	ExclusiveZone int32
	Acked         []uint32

	pending []uint32
}

// Commit is a snapshot of a wl_surface.commit. If a buffer was
// attached, Pixels holds a copy of its contents at the time of the
// commit.
type Commit struct {
	Surface uint32
	Buffer  uint32
	Width   int32
	Height  int32
	Stride  int32
	Format  uint32
	Damage  [4]int32
	Pixels  []byte
}

type buffer struct {
	pool                  uint32
	offset                int32
	width, height, stride int32
	format                uint32
}

func (b buffer) size() int32 {
	return b.stride * b.height
}

type surface struct {
	attached uint32
	damage   [4]int32
}

// Server is a fake compositor connected to a single client.
type Server struct {
	conn *wire.Conn
	done chan struct{}

	m         sync.Mutex
	globals   []Global
	objects   map[uint32]string
	versions  map[uint32]uint32
	pools     map[uint32][]byte
	buffers   map[uint32]buffer
	held      set.Set[uint32]
	surfaces  map[uint32]*surface
	layers    map[uint32]*Layer
	destroyed set.Set[uint32]
	serial    uint32
	errs      []error

	commits chan Commit
}

// New starts a fake compositor advertising globals, or DefaultGlobals
// if none are given, and returns it along with a client connected to
// it. Both are shut down when the test ends.
func New(t testing.TB, globals ...Global) (*Server, *wl.Client) {
	t.Helper()

	if len(globals) == 0 {
		globals = DefaultGlobals()
	}

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	cconn := fileConn(t, fds[0], "client")
	sconn := fileConn(t, fds[1], "server")

	s := Server{
		conn:      wire.NewConn(sconn),
		done:      make(chan struct{}),
		globals:   globals,
		objects:   map[uint32]string{1: "wl_display"},
		versions:  make(map[uint32]uint32),
		pools:     make(map[uint32][]byte),
		buffers:   make(map[uint32]buffer),
		held:      set.New[uint32](),
		surfaces:  make(map[uint32]*surface),
		layers:    make(map[uint32]*Layer),
		destroyed: set.New[uint32](),
		commits:   make(chan Commit, 256),
	}
	go s.serve()

	client := wl.NewClient(wire.NewConn(cconn))
	t.Cleanup(func() {
		client.Close()
		select {
		case <-s.done:
		case <-time.After(Timeout):
			t.Error("fake compositor did not stop")
		}
		s.conn.Close()

		s.m.Lock()
		defer s.m.Unlock()
		for _, mmap := range s.pools {
			unix.Munmap(mmap)
		}
		require.NoError(t, errors.Join(s.errs...), "protocol errors")
	})

	return &s, client
}

func fileConn(t testing.TB, fd int, name string) *net.UnixConn {
	file := os.NewFile(uintptr(fd), name)
	defer file.Close()

	c, err := net.FileConn(file)
	require.NoError(t, err)
	return c.(*net.UnixConn)
}

func (s *Server) serve() {
	defer close(s.done)

	for {
		msg, err := wire.ReadMessage(s.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, unix.ECONNRESET) {
				s.fail(fmt.Errorf("read request: %w", err))
			}
			return
		}

		s.m.Lock()
		err = s.handle(msg)
		if err != nil {
			s.errs = append(s.errs, err)
		}
		s.m.Unlock()
	}
}

func (s *Server) fail(err error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.errs = append(s.errs, err)
}

// Errors returns the protocol violations that the server has seen so
// far.
func (s *Server) Errors() []error {
	s.m.Lock()
	defer s.m.Unlock()
	return slices.Clone(s.errs)
}

// ref is an object ID used as the sender of events.
type ref uint32

func (r ref) ID() uint32 { return uint32(r) }
func (r ref) SetID(uint32) {}
func (r ref) Dispatch(*wire.MessageBuffer) error { return nil }
func (r ref) MethodName(op uint16) string { return fmt.Sprintf("op%v", op) }
func (r ref) Delete() {}
func (r ref) String() string { return fmt.Sprintf("object %v", uint32(r)) }

// send writes an event. The lock must be held.
func (s *Server) send(sender uint32, op uint16, args ...any) {
	msg := wire.NewMessage(ref(sender), op)
	for _, arg := range args {
		switch arg := arg.(type) {
		case int32:
			msg.WriteInt(arg)
		case uint32:
			msg.WriteUint(arg)
		case string:
			msg.WriteString(arg)
		default:
			panic(fmt.Errorf("unsupported argument type %T", arg))
		}
	}

	err := msg.Build(s.conn)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("send event %v to %v: %w", op, sender, err))
	}
}

func (s *Server) nextSerial() uint32 {
	s.serial++
	return s.serial
}

func (s *Server) create(id uint32, iface string, version uint32) error {
	if _, ok := s.objects[id]; ok {
		return fmt.Errorf("object %v already exists", id)
	}
	s.objects[id] = iface
	s.versions[id] = version
	return nil
}

func (s *Server) destroy(id uint32) {
	delete(s.objects, id)
	s.destroyed.Add(id)
	s.send(1, 1, id)
}
