// Package layershell implements the client side of the
// wlr-layer-shell-unstable-v1 protocol, which lets a client place
// surfaces in layers above or below normal windows.
package layershell

const (
	ShellInterface        = "zwlr_layer_shell_v1"
	ShellVersion          = 4
	LayerSurfaceInterface = "zwlr_layer_surface_v1"
)

const (
	shellGetLayerSurface = 0
	shellDestroy         = 1
)

const (
	layerSurfaceSetSize                  = 0
	layerSurfaceSetAnchor                = 1
	layerSurfaceSetExclusiveZone         = 2
	layerSurfaceSetMargin                = 3
	layerSurfaceSetKeyboardInteractivity = 4
	layerSurfaceGetPopup                 = 5
	layerSurfaceAckConfigure             = 6
	layerSurfaceDestroy                  = 7
	layerSurfaceSetLayer                 = 8

	layerSurfaceEventConfigure = 0
	layerSurfaceEventClosed    = 1
)

type Layer uint32

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

func (layer Layer) String() string {
	switch layer {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Anchor is a bitmask of the output edges that a layer surface is
// attached to.
type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight

	AnchorAll = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

type KeyboardInteractivity uint32

const (
	KeyboardInteractivityNone KeyboardInteractivity = iota
	KeyboardInteractivityExclusive
	KeyboardInteractivityOnDemand
)
