package shm

import (
	"errors"
	"fmt"
	"math"
	"os"

	wl "deedles.dev/wlpaper/client"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// ErrExhausted is returned, wrapped in an *ExhaustedError, when a pool
// does not have room for a requested buffer.
var ErrExhausted = errors.New("shm pool exhausted")

// ExhaustedError reports a buffer request that no contiguous free
// region of a pool could hold. Available is the size of the largest
// such region.
type ExhaustedError struct {
	Requested int
	Available int
}

func (err *ExhaustedError) Error() string {
	return fmt.Sprintf("%v: requested %v, %v available",
		ErrExhausted,
		humanize.IBytes(uint64(err.Requested)),
		humanize.IBytes(uint64(err.Available)),
	)
}

func (err *ExhaustedError) Unwrap() error {
	return ErrExhausted
}

// Pool is a fixed amount of shared memory from which wl_buffers are
// created. A buffer's memory is not reused until the compositor has
// released it.
type Pool struct {
	file  *os.File
	mmap  Mmap
	pool  *wl.ShmPool
	slots slots
	bufs  map[*wl.Buffer]int
}

// NewPool creates a pool of size bytes shared with the compositor
// through s.
func NewPool(s *wl.Shm, size int) (pool *Pool, err error) {
	if (size <= 0) || (size > math.MaxInt32) {
		return nil, fmt.Errorf("invalid pool size: %v", size)
	}

	file, err := Create()
	if err != nil {
		return nil, fmt.Errorf("create shm file: %w", err)
	}
	defer func() {
		if err != nil {
			file.Close()
		}
	}()

	err = file.Truncate(int64(size))
	if err != nil {
		return nil, fmt.Errorf("truncate shm file: %w", err)
	}

	mmap, err := MapShared(file, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return nil, fmt.Errorf("mmap shm file: %w", err)
	}

	log.Debug("created shm pool", "size", humanize.IBytes(uint64(size)))

	return &Pool{
		file:  file,
		mmap:  mmap,
		pool:  s.CreatePool(file, int32(size)),
		slots: slots{cap: size},
		bufs:  make(map[*wl.Buffer]int),
	}, nil
}

// CreateBuffer creates a buffer of the given size and returns it along
// with the memory that backs it. The memory must not be written to
// after the buffer has been committed to a surface. The buffer is
// destroyed, and its memory made available again, when the compositor
// releases it.
func (pool *Pool) CreateBuffer(width, height int, format wl.ShmFormat) (*wl.Buffer, []byte, error) {
	stride := width * 4
	size := stride * height

	offset, ok := pool.slots.alloc(size)
	if !ok {
		return nil, nil, &ExhaustedError{Requested: size, Available: pool.slots.available()}
	}

	buf := pool.pool.CreateBuffer(int32(offset), int32(width), int32(height), int32(stride), format)
	buf.Release = func() { pool.release(buf) }
	pool.bufs[buf] = offset

	return buf, pool.mmap[offset : offset+size : offset+size], nil
}

func (pool *Pool) release(buf *wl.Buffer) {
	offset, ok := pool.bufs[buf]
	if !ok {
		return
	}
	delete(pool.bufs, buf)

	buf.Destroy()
	pool.slots.free(offset)
}

// Destroy destroys the pool and every buffer created from it. It
// unmaps the pool's memory, so slices returned by CreateBuffer must
// not be used afterwards.
func (pool *Pool) Destroy() error {
	for buf := range pool.bufs {
		buf.Destroy()
	}
	clear(pool.bufs)
	pool.pool.Destroy()

	return errors.Join(
		pool.mmap.Unmap(),
		pool.file.Close(),
	)
}

// Cap returns the size of the pool in bytes.
func (pool *Pool) Cap() int {
	return pool.slots.cap
}

// Used returns the number of bytes between the start of the pool and
// the end of the last region that has been handed out.
func (pool *Pool) Used() int {
	return pool.slots.used
}

// Busy returns the number of bytes in buffers that have not been
// released yet.
func (pool *Pool) Busy() int {
	return pool.slots.busy()
}
