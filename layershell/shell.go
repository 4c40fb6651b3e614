package layershell

import (
	"fmt"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/wire"
)

// Shell is a bound zwlr_layer_shell_v1 global.
type Shell struct {
	wl.Proxy
}

func IsShell(g wl.Global) bool {
	return g.Interface == ShellInterface
}

func Bind(registry *wl.Registry, name, version uint32) *Shell {
	var shell Shell
	registry.Bind(name, ShellInterface, min(version, ShellVersion), &shell)
	return &shell
}

func (shell *Shell) String() string {
	return fmt.Sprintf("%v@%v", ShellInterface, shell.ID())
}

func (shell *Shell) MethodName(op uint16) string {
	return fmt.Sprintf("op%v", op)
}

func (shell *Shell) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ShellInterface, Type: "event", Op: msg.Op()}
}

// GetLayerSurface assigns the layer surface role to surface. If output
// is nil, the compositor picks one. The namespace identifies the
// surface's purpose to the compositor, such as for per-namespace rules.
func (shell *Shell) GetLayerSurface(surface *wl.Surface, output *wl.Output, layer Layer, namespace string) *LayerSurface {
	ls := LayerSurface{surface: surface}
	ls.SetVersion(shell.Version())
	shell.Client().Add(&ls)

	var out wire.Object
	if output != nil {
		out = output
	}

	msg := wire.NewMessage(shell, shellGetLayerSurface)
	msg.Method = "get_layer_surface"
	msg.Args = []any{ls.ID(), surface, out, layer, namespace}
	msg.WriteUint(ls.ID())
	msg.WriteObject(surface)
	msg.WriteObject(out)
	msg.WriteUint(uint32(layer))
	msg.WriteString(namespace)
	shell.Enqueue(msg)

	return &ls
}

// Destroy destroys the shell object. Layer surfaces that were created
// from it are not affected. It requires version 3.
func (shell *Shell) Destroy() {
	if shell.Version() < 3 {
		return
	}

	msg := wire.NewMessage(shell, shellDestroy)
	msg.Method = "destroy"
	shell.Enqueue(msg)
	shell.MarkDestroyed()
}
