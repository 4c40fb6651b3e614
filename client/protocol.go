package wl

import "fmt"

// Interface names and the highest versions supported by this package.
const (
	DisplayInterface    = "wl_display"
	RegistryInterface   = "wl_registry"
	CallbackInterface   = "wl_callback"
	CompositorInterface = "wl_compositor"
	CompositorVersion   = 4
	SurfaceInterface    = "wl_surface"
	ShmInterface        = "wl_shm"
	ShmVersion          = 1
	ShmPoolInterface    = "wl_shm_pool"
	BufferInterface     = "wl_buffer"
	OutputInterface     = "wl_output"
	OutputVersion       = 4
)

const (
	displaySync        = 0
	displayGetRegistry = 1

	displayEventError    = 0
	displayEventDeleteID = 1
)

const (
	registryBind = 0

	registryEventGlobal       = 0
	registryEventGlobalRemove = 1
)

const (
	callbackEventDone = 0
)

const (
	compositorCreateSurface = 0
	compositorCreateRegion  = 1
)

const (
	surfaceDestroy            = 0
	surfaceAttach             = 1
	surfaceDamage             = 2
	surfaceFrame              = 3
	surfaceSetOpaqueRegion    = 4
	surfaceSetInputRegion     = 5
	surfaceCommit             = 6
	surfaceSetBufferTransform = 7
	surfaceSetBufferScale     = 8
	surfaceDamageBuffer       = 9

	surfaceEventEnter                    = 0
	surfaceEventLeave                    = 1
	surfaceEventPreferredBufferScale     = 2
	surfaceEventPreferredBufferTransform = 3
)

const (
	shmCreatePool = 0

	shmEventFormat = 0
)

const (
	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1
	shmPoolResize       = 2
)

const (
	bufferDestroy = 0

	bufferEventRelease = 0
)

const (
	outputRelease = 0

	outputEventGeometry    = 0
	outputEventMode        = 1
	outputEventDone        = 2
	outputEventScale       = 3
	outputEventName        = 4
	outputEventDescription = 5
)

// ShmFormat is a pixel format for shared memory buffers. The values
// are the DRM fourcc codes except for the two formats that every
// compositor must support.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatArgb8888:
		return "argb8888"
	case ShmFormatXrgb8888:
		return "xrgb8888"
	}

	var code [4]byte
	for i := range code {
		code[i] = byte(f >> (8 * i))
	}
	return string(code[:])
}

type OutputTransform int32

const (
	OutputTransformNormal OutputTransform = iota
	OutputTransform90
	OutputTransform180
	OutputTransform270
	OutputTransformFlipped
	OutputTransformFlipped90
	OutputTransformFlipped180
	OutputTransformFlipped270
)

type OutputMode uint32

const (
	OutputModeCurrent   OutputMode = 0x1
	OutputModePreferred OutputMode = 0x2
)

// DisplayError is a fatal protocol error reported by the compositor.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (err DisplayError) Error() string {
	return fmt.Sprintf("protocol error on object %v: code %v: %v", err.ObjectID, err.Code, err.Message)
}

func methodName(names []string, op uint16) string {
	if int(op) >= len(names) {
		return fmt.Sprintf("op%v", op)
	}
	return names[op]
}

func objectString(iface string, id uint32) string {
	return fmt.Sprintf("%v@%v", iface, id)
}
