package wl

import "deedles.dev/wlpaper/wire"

type Output struct {
	Geometry    func(x, y, physicalWidth, physicalHeight, subpixel int32, manufacturer, model string, transform OutputTransform)
	Mode        func(flags OutputMode, width, height, refresh int32)
	Done        func()
	Scale       func(factor int32)
	Name        func(name string)
	Description func(description string)

	Proxy
}

func IsOutput(g Global) bool {
	return g.Interface == OutputInterface
}

func BindOutput(registry *Registry, name, version uint32) *Output {
	var output Output
	registry.Bind(name, OutputInterface, min(version, OutputVersion), &output)
	return &output
}

func (out *Output) String() string {
	return objectString(OutputInterface, out.ID())
}

func (out *Output) MethodName(op uint16) string {
	return methodName([]string{"geometry", "mode", "done", "scale", "name", "description"}, op)
}

func (out *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputEventGeometry:
		x, y := msg.ReadInt(), msg.ReadInt()
		pw, ph := msg.ReadInt(), msg.ReadInt()
		subpixel := msg.ReadInt()
		manufacturer, model := msg.ReadString(), msg.ReadString()
		transform := OutputTransform(msg.ReadInt())
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Geometry != nil {
			out.Geometry(x, y, pw, ph, subpixel, manufacturer, model, transform)
		}
		return nil

	case outputEventMode:
		flags := OutputMode(msg.ReadUint())
		width, height, refresh := msg.ReadInt(), msg.ReadInt(), msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Mode != nil {
			out.Mode(flags, width, height, refresh)
		}
		return nil

	case outputEventDone:
		if out.Done != nil {
			out.Done()
		}
		return nil

	case outputEventScale:
		factor := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Scale != nil {
			out.Scale(factor)
		}
		return nil

	case outputEventName, outputEventDescription:
		str := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		f := out.Name
		if msg.Op() == outputEventDescription {
			f = out.Description
		}
		if f != nil {
			f(str)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: OutputInterface, Type: "event", Op: msg.Op()}
	}
}

// Release destroys the output object. It requires version 3.
func (out *Output) Release() {
	if out.Version() < 3 {
		return
	}

	msg := wire.NewMessage(out, outputRelease)
	msg.Method = "release"
	out.Enqueue(msg)
	out.MarkDestroyed()
}
