package layershell

import (
	"fmt"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/wire"
)

type LayerSurface struct {
	// Configure is called when the compositor assigns the surface a
	// size. A width or height of zero means that the client may pick
	// that dimension. The serial must be acknowledged with
	// AckConfigure before the next commit.
	Configure func(serial, width, height uint32)

	// Closed is called when the compositor will no longer show the
	// surface, such as when its output goes away. The surface should
	// be destroyed.
	Closed func()

	wl.Proxy
	surface *wl.Surface
}

// Surface returns the wl_surface that has the layer surface role.
func (ls *LayerSurface) Surface() *wl.Surface {
	return ls.surface
}

func (ls *LayerSurface) String() string {
	return fmt.Sprintf("%v@%v", LayerSurfaceInterface, ls.ID())
}

func (ls *LayerSurface) MethodName(op uint16) string {
	switch op {
	case layerSurfaceEventConfigure:
		return "configure"
	case layerSurfaceEventClosed:
		return "closed"
	default:
		return fmt.Sprintf("op%v", op)
	}
}

func (ls *LayerSurface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case layerSurfaceEventConfigure:
		serial := msg.ReadUint()
		width, height := msg.ReadUint(), msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if ls.Configure != nil {
			ls.Configure(serial, width, height)
		}
		return nil

	case layerSurfaceEventClosed:
		if ls.Closed != nil {
			ls.Closed()
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: LayerSurfaceInterface, Type: "event", Op: msg.Op()}
	}
}

func (ls *LayerSurface) SetAnchor(anchor Anchor) {
	msg := wire.NewMessage(ls, layerSurfaceSetAnchor)
	msg.Method = "set_anchor"
	msg.Args = []any{anchor}
	msg.WriteUint(uint32(anchor))
	ls.Enqueue(msg)
}

// SetExclusiveZone requests that the compositor avoid placing other
// surfaces in zone pixels from the anchored edge. A zone of -1 asks
// to be placed over other surfaces' exclusive zones too.
func (ls *LayerSurface) SetExclusiveZone(zone int32) {
	msg := wire.NewMessage(ls, layerSurfaceSetExclusiveZone)
	msg.Method = "set_exclusive_zone"
	msg.Args = []any{zone}
	msg.WriteInt(zone)
	ls.Enqueue(msg)
}

func (ls *LayerSurface) SetKeyboardInteractivity(ki KeyboardInteractivity) {
	msg := wire.NewMessage(ls, layerSurfaceSetKeyboardInteractivity)
	msg.Method = "set_keyboard_interactivity"
	msg.Args = []any{ki}
	msg.WriteUint(uint32(ki))
	ls.Enqueue(msg)
}

func (ls *LayerSurface) AckConfigure(serial uint32) {
	msg := wire.NewMessage(ls, layerSurfaceAckConfigure)
	msg.Method = "ack_configure"
	msg.Args = []any{serial}
	msg.WriteUint(serial)
	ls.Enqueue(msg)
}

func (ls *LayerSurface) Destroy() {
	msg := wire.NewMessage(ls, layerSurfaceDestroy)
	msg.Method = "destroy"
	ls.Enqueue(msg)
	ls.MarkDestroyed()
}
