package wl

import "deedles.dev/wlpaper/wire"

type Compositor struct {
	Proxy
}

func IsCompositor(g Global) bool {
	return g.Interface == CompositorInterface
}

func BindCompositor(registry *Registry, name, version uint32) *Compositor {
	var compositor Compositor
	registry.Bind(name, CompositorInterface, min(version, CompositorVersion), &compositor)
	return &compositor
}

func (c *Compositor) String() string {
	return objectString(CompositorInterface, c.ID())
}

func (c *Compositor) MethodName(op uint16) string {
	return methodName(nil, op)
}

func (c *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: CompositorInterface, Type: "event", Op: msg.Op()}
}

func (c *Compositor) CreateSurface() *Surface {
	s := Surface{}
	s.SetVersion(c.Version())
	c.Client().Add(&s)

	msg := wire.NewMessage(c, compositorCreateSurface)
	msg.Method = "create_surface"
	msg.Args = []any{s.ID()}
	msg.WriteUint(s.ID())
	c.Enqueue(msg)

	return &s
}
