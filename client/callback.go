package wl

import "deedles.dev/wlpaper/wire"

type Callback struct {
	Done func(data uint32)

	Proxy
}

func (c *Callback) String() string {
	return objectString(CallbackInterface, c.ID())
}

func (c *Callback) MethodName(op uint16) string {
	return methodName([]string{"done"}, op)
}

func (c *Callback) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case callbackEventDone:
		data := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		// The server destroys the callback after sending done.
		c.MarkDestroyed()
		if c.Done != nil {
			c.Done(data)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: CallbackInterface, Type: "event", Op: msg.Op()}
	}
}
