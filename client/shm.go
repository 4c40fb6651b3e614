package wl

import (
	"os"

	"deedles.dev/wlpaper/internal/set"
	"deedles.dev/wlpaper/wire"
)

type Shm struct {
	// Format is called for each pixel format that the compositor
	// supports.
	Format func(ShmFormat)

	Proxy
	formats set.Set[ShmFormat]
}

func IsShm(g Global) bool {
	return g.Interface == ShmInterface
}

func BindShm(registry *Registry, name, version uint32) *Shm {
	shm := Shm{formats: set.New(ShmFormatArgb8888, ShmFormatXrgb8888)}
	registry.Bind(name, ShmInterface, min(version, ShmVersion), &shm)
	return &shm
}

func (shm *Shm) String() string {
	return objectString(ShmInterface, shm.ID())
}

func (shm *Shm) MethodName(op uint16) string {
	return methodName([]string{"format"}, op)
}

func (shm *Shm) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case shmEventFormat:
		format := ShmFormat(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}
		shm.formats.Add(format)
		if shm.Format != nil {
			shm.Format(format)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: ShmInterface, Type: "event", Op: msg.Op()}
	}
}

// Supports reports whether the compositor supports format. The two
// formats required by the protocol are always supported.
func (shm *Shm) Supports(format ShmFormat) bool {
	return shm.formats.Has(format)
}

// Formats returns the supported formats in ascending order.
func (shm *Shm) Formats() []ShmFormat {
	return set.Sorted(shm.formats)
}

// CreatePool creates a pool backed by size bytes of file. The file
// descriptor is duplicated, so file may be closed once the request has
// been flushed.
func (shm *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := ShmPool{}
	pool.SetVersion(shm.Version())
	shm.Client().Add(&pool)

	msg := wire.NewMessage(shm, shmCreatePool)
	msg.Method = "create_pool"
	msg.Args = []any{pool.ID(), file, size}
	msg.WriteUint(pool.ID())
	msg.WriteFile(file)
	msg.WriteInt(size)
	shm.Enqueue(msg)

	return &pool
}
