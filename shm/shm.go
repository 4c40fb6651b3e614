// Package shm provides shared memory for wl_shm buffers.
package shm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Create creates an anonymous file suitable for sharing with the
// compositor. It uses memfd_create where available and otherwise
// falls back to an unlinked file in /dev/shm.
func Create() (*os.File, error) {
	fd, err := unix.MemfdCreate("wlpaper", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err == nil {
		return os.NewFile(uintptr(fd), "memfd:wlpaper"), nil
	}

	path := "/dev/shm/wlpaper-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("create %v: %w", path, err)
	}

	err = os.Remove(path)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("unlink %v: %w", path, err)
	}

	return file, nil
}

// Mmap is a memory-mapped region of a file.
type Mmap []byte

// MapShared maps the first size bytes of file with MAP_SHARED so that
// writes are visible to other processes that map it.
func MapShared(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	cerr := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if cerr != nil {
		return nil, cerr
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
