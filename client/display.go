package wl

import "deedles.dev/wlpaper/wire"

// Display is the wl_display singleton, always object 1.
type Display struct {
	// Error is called when the compositor reports a protocol error.
	// Protocol errors are fatal, so the error is also returned from
	// Client.Dispatch.
	Error func(DisplayError)

	Proxy
	registry *Registry
}

func (display *Display) String() string {
	return objectString(DisplayInterface, display.ID())
}

func (display *Display) MethodName(op uint16) string {
	return methodName([]string{"error", "delete_id"}, op)
}

func (display *Display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case displayEventError:
		err := DisplayError{
			ObjectID: msg.ReadUint(),
			Code:     msg.ReadUint(),
			Message:  msg.ReadString(),
		}
		if merr := msg.Err(); merr != nil {
			return merr
		}
		if display.Error != nil {
			display.Error(err)
		}
		return err

	case displayEventDeleteID:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		display.Client().Delete(id)
		return nil

	default:
		return wire.UnknownOpError{Interface: DisplayInterface, Type: "event", Op: msg.Op()}
	}
}

// Sync asks the server to emit the done event on the returned callback
// once all prior requests have been handled.
func (display *Display) Sync() *Callback {
	callback := Callback{}
	display.Client().Add(&callback)

	msg := wire.NewMessage(display, displaySync)
	msg.Method = "sync"
	msg.Args = []any{callback.ID()}
	msg.WriteUint(callback.ID())
	display.Enqueue(msg)

	return &callback
}

// GetRegistry returns the global registry, creating it the first time
// it is called.
func (display *Display) GetRegistry() *Registry {
	if display.registry != nil {
		return display.registry
	}

	registry := Registry{
		globals: make(map[uint32]Global),
	}
	display.Client().Add(&registry)

	msg := wire.NewMessage(display, displayGetRegistry)
	msg.Method = "get_registry"
	msg.Args = []any{registry.ID()}
	msg.WriteUint(registry.ID())
	display.Enqueue(msg)

	display.registry = &registry
	return &registry
}
