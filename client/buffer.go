package wl

import "deedles.dev/wlpaper/wire"

type Buffer struct {
	// Release is called when the compositor no longer reads from the
	// buffer. Until then, the buffer's memory must not be modified.
	Release func()

	Proxy
}

func (buf *Buffer) String() string {
	return objectString(BufferInterface, buf.ID())
}

func (buf *Buffer) MethodName(op uint16) string {
	return methodName([]string{"release"}, op)
}

func (buf *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case bufferEventRelease:
		if buf.Release != nil {
			buf.Release()
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: BufferInterface, Type: "event", Op: msg.Op()}
	}
}

func (buf *Buffer) Destroy() {
	msg := wire.NewMessage(buf, bufferDestroy)
	msg.Method = "destroy"
	buf.Enqueue(msg)
	buf.MarkDestroyed()
}
