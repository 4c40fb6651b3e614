package wltest

import (
	"cmp"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Layers returns the layer surfaces that currently exist, ordered by
// ID.
func (s *Server) Layers() []Layer {
	s.m.Lock()
	defer s.m.Unlock()

	layers := make([]Layer, 0, len(s.layers))
	for _, layer := range s.layers {
		l := *layer
		l.Acked = slices.Clone(layer.Acked)
		l.pending = nil
		layers = append(layers, l)
	}
	slices.SortFunc(layers, func(l1, l2 Layer) int { return cmp.Compare(l1.ID, l2.ID) })
	return layers
}

// WaitLayers waits until at least n layer surfaces exist and returns
// them.
func (s *Server) WaitLayers(t testing.TB, n int) []Layer {
	t.Helper()

	require.Eventually(t, func() bool { return len(s.Layers()) >= n }, Timeout, time.Millisecond)
	return s.Layers()
}

// Layer returns the layer surface with the given namespace.
func (s *Server) Layer(t testing.TB, namespace string) Layer {
	t.Helper()

	layers := s.Layers()
	i := slices.IndexFunc(layers, func(l Layer) bool { return l.Namespace == namespace })
	require.GreaterOrEqual(t, i, 0, "no layer surface with namespace %q", namespace)
	return layers[i]
}

// Configure sends a configure event to a layer surface and returns its
// serial.
func (s *Server) Configure(layer, width, height uint32) uint32 {
	s.m.Lock()
	defer s.m.Unlock()

	serial := s.nextSerial()
	if l, ok := s.layers[layer]; ok {
		l.pending = append(l.pending, serial)
	}
	s.send(layer, 0, serial, width, height)
	return serial
}

// CloseLayer tells the client that a layer surface has been closed.
func (s *Server) CloseLayer(layer uint32) {
	s.m.Lock()
	defer s.m.Unlock()

	s.send(layer, 1)
}

// Release tells the client that the compositor is done with a buffer.
func (s *Server) Release(buffer uint32) {
	s.m.Lock()
	defer s.m.Unlock()

	s.held.Delete(buffer)
	s.send(buffer, 0)
}

// Send sends an arbitrary event. Arguments may be int32, uint32 or
// string.
func (s *Server) Send(sender uint32, op uint16, args ...any) {
	s.m.Lock()
	defer s.m.Unlock()

	s.send(sender, op, args...)
}

// Error sends a fatal protocol error about object.
func (s *Server) Error(object, code uint32, message string) {
	s.Send(1, 0, object, code, message)
}

// NextCommit waits for the client to commit a surface.
func (s *Server) NextCommit(t testing.TB) Commit {
	t.Helper()

	select {
	case c := <-s.commits:
		return c
	case <-time.After(Timeout):
		require.FailNow(t, "timed out waiting for commit")
		panic("unreachable")
	}
}

// Commits returns the commits that have been received but not yet
// returned by NextCommit.
func (s *Server) Commits() []Commit {
	var commits []Commit
	for {
		select {
		case c := <-s.commits:
			commits = append(commits, c)
		default:
			return commits
		}
	}
}

// Destroyed reports whether the client has destroyed the object with
// the given ID.
func (s *Server) Destroyed(id uint32) bool {
	s.m.Lock()
	defer s.m.Unlock()

	return s.destroyed.Has(id)
}

// WaitDestroyed waits until the client has destroyed the object with
// the given ID.
func (s *Server) WaitDestroyed(t testing.TB, id uint32) {
	t.Helper()

	require.Eventually(t, func() bool { return s.Destroyed(id) }, Timeout, time.Millisecond, fmt.Sprintf("object %v not destroyed", id))
}

// Interface returns the interface of a live object, or "" if there is
// no such object.
func (s *Server) Interface(id uint32) string {
	s.m.Lock()
	defer s.m.Unlock()

	return s.objects[id]
}

// Version returns the version that a live object was created with.
func (s *Server) Version(id uint32) uint32 {
	s.m.Lock()
	defer s.m.Unlock()

	return s.versions[id]
}
