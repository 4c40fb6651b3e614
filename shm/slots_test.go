package shm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsCarve(t *testing.T) {
	s := slots{cap: 100}

	off, ok := s.alloc(40)
	require.True(t, ok)
	assert.Equal(t, 0, off)

	off, ok = s.alloc(40)
	require.True(t, ok)
	assert.Equal(t, 40, off)
	assert.Equal(t, 80, s.used)

	_, ok = s.alloc(40)
	assert.False(t, ok, "allocation past capacity")
	assert.Equal(t, 80, s.busy())
	assert.Equal(t, 20, s.available())
}

func TestSlotsReuse(t *testing.T) {
	s := slots{cap: 100}

	a, _ := s.alloc(40)
	b, _ := s.alloc(30)
	s.free(a)
	assert.Equal(t, 70, s.used, "freeing a region that isn't last keeps it")

	off, ok := s.alloc(25)
	require.True(t, ok)
	assert.Equal(t, a, off)
	assert.Equal(t, 70, s.used, "reused region grew the pool")
	assert.Equal(t, 55, s.busy())
	assert.Equal(t, 30, s.available())

	s.free(b)
	assert.Equal(t, 25, s.used, "split remainder was not given back with the tail")
	s.free(off)
	assert.Equal(t, 0, s.used)
	assert.Empty(t, s.list)
}

func TestSlotsBestFit(t *testing.T) {
	s := slots{cap: 100}

	big, _ := s.alloc(50)
	_, _ = s.alloc(10)
	small, _ := s.alloc(20)
	_, _ = s.alloc(10)
	s.free(big)
	s.free(small)

	off, ok := s.alloc(15)
	require.True(t, ok)
	assert.Equal(t, small, off)

	off, ok = s.alloc(45)
	require.True(t, ok)
	assert.Equal(t, big, off)

	off, ok = s.alloc(5)
	require.True(t, ok)
	assert.Equal(t, big+45, off, "lowest of equally sized regions")
}

func TestSlotsMergeNeighbours(t *testing.T) {
	s := slots{cap: 100}

	a, _ := s.alloc(40)
	b, _ := s.alloc(40)
	_, ok := s.alloc(20)
	require.True(t, ok)

	s.free(a)
	s.free(b)
	assert.Equal(t, 80, s.available())

	off, ok := s.alloc(80)
	require.True(t, ok, "adjacent free regions were not merged")
	assert.Equal(t, a, off)
	assert.Equal(t, 100, s.busy())
}

func TestSlotsMergeOutOfOrder(t *testing.T) {
	s := slots{cap: 100}

	a, _ := s.alloc(20)
	b, _ := s.alloc(20)
	c, _ := s.alloc(20)
	_, _ = s.alloc(20)

	s.free(c)
	s.free(a)
	assert.Equal(t, 20, s.available(), "tail space")
	s.free(b)
	assert.Equal(t, 60, s.available())
	assert.Len(t, s.list, 2)

	off, ok := s.alloc(60)
	require.True(t, ok)
	assert.Equal(t, a, off)
}

func TestSlotsFragmented(t *testing.T) {
	s := slots{cap: 100}

	a, _ := s.alloc(30)
	_, _ = s.alloc(10)
	c, _ := s.alloc(30)
	_, _ = s.alloc(10)
	s.free(a)
	s.free(c)

	assert.Equal(t, 20, s.busy())
	assert.Equal(t, 30, s.available(), "largest contiguous run")
	_, ok := s.alloc(40)
	assert.False(t, ok)
}

func TestSlotsBusyNotReused(t *testing.T) {
	s := slots{cap: 100}

	a, _ := s.alloc(50)
	b, ok := s.alloc(50)
	require.True(t, ok)
	assert.NotEqual(t, a, b)

	_, ok = s.alloc(1)
	assert.False(t, ok)

	s.free(a)
	off, ok := s.alloc(50)
	require.True(t, ok)
	assert.Equal(t, a, off)
}

func TestSlotsFreeUnknown(t *testing.T) {
	s := slots{cap: 100}
	s.alloc(10)
	s.free(55)
	assert.Equal(t, 10, s.busy())
}
