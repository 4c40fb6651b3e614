package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Empty())

	require.NoError(t, r.Register(&Surface{id: 3, Namespace: "a"}))
	require.NoError(t, r.Register(&Surface{id: 1, Namespace: "b"}))
	assert.False(t, r.Empty())
	assert.Equal(t, 2, r.Len())

	s, ok := r.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "a", s.Namespace)

	_, ok = r.Lookup(2)
	assert.False(t, ok)

	ids := []uint32{}
	for _, s := range r.Surfaces() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []uint32{1, 3}, ids)

	removed, ok := r.Unregister(3)
	require.True(t, ok)
	assert.Same(t, s, removed)
	_, ok = r.Lookup(3)
	assert.False(t, ok, "lookup after unregister")
	assert.False(t, r.Empty())

	_, ok = r.Unregister(3)
	assert.False(t, ok, "second unregister")

	_, ok = r.Unregister(1)
	require.True(t, ok)
	assert.True(t, r.Empty(), "empty after the last unregister")
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Surface{id: 5}))

	err := r.Register(&Surface{id: 5})
	var derr *DuplicateSurfaceError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, uint32(5), derr.ID)
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySequences(t *testing.T) {
	ops := []struct {
		register bool
		id       uint32
	}{
		{true, 1}, {true, 2}, {false, 1}, {true, 3}, {false, 3}, {true, 1}, {false, 2}, {false, 1},
	}

	r := NewRegistry()
	live := map[uint32]bool{}
	for i, op := range ops {
		if op.register {
			require.NoError(t, r.Register(&Surface{id: op.id}))
			live[op.id] = true
		} else {
			_, ok := r.Unregister(op.id)
			require.True(t, ok)
			delete(live, op.id)
		}

		for id := uint32(1); id <= 3; id++ {
			_, ok := r.Lookup(id)
			assert.Equal(t, live[id], ok, "step %v: surface %v", i, id)
		}
		assert.Equal(t, len(live) == 0, r.Empty(), "step %v", i)
	}
	assert.True(t, r.Empty())
}

func TestHandleUnknownSurface(t *testing.T) {
	state := State{surfaces: NewRegistry()}

	state.handle(configureEvent{surface: 42, serial: 1, width: 10, height: 10})
	var uerr *UnknownSurfaceError
	require.ErrorAs(t, state.err, &uerr)
	assert.Equal(t, uint32(42), uerr.ID)

	// Later events are ignored once a fatal error has been recorded.
	state.handle(closedEvent{surface: 7})
	assert.Same(t, uerr, state.err)
}

func TestHandleClosedUnknownSurface(t *testing.T) {
	state := State{surfaces: NewRegistry()}
	state.handle(closedEvent{surface: 9})

	var uerr *UnknownSurfaceError
	assert.ErrorAs(t, state.err, &uerr)
}
