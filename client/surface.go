package wl

import "deedles.dev/wlpaper/wire"

type Surface struct {
	// Enter and Leave are called when the surface starts or stops
	// being displayed on an output.
	Enter func(output *Output)
	Leave func(output *Output)

	Proxy
}

func (s *Surface) String() string {
	return objectString(SurfaceInterface, s.ID())
}

func (s *Surface) MethodName(op uint16) string {
	return methodName([]string{"enter", "leave", "preferred_buffer_scale", "preferred_buffer_transform"}, op)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceEventEnter, surfaceEventLeave:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		f := s.Enter
		if msg.Op() == surfaceEventLeave {
			f = s.Leave
		}
		if f != nil {
			out, _ := s.Client().Get(id).(*Output)
			f(out)
		}
		return nil

	case surfaceEventPreferredBufferScale:
		msg.ReadInt()
		return msg.Err()

	case surfaceEventPreferredBufferTransform:
		msg.ReadUint()
		return msg.Err()

	default:
		return wire.UnknownOpError{Interface: SurfaceInterface, Type: "event", Op: msg.Op()}
	}
}

// Attach sets buf as the surface's pending buffer. A nil buf removes
// the surface's content on the next commit.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	var obj wire.Object
	if buf != nil {
		obj = buf
	}

	msg := wire.NewMessage(s, surfaceAttach)
	msg.Method = "attach"
	msg.Args = []any{obj, x, y}
	msg.WriteObject(obj)
	msg.WriteInt(x)
	msg.WriteInt(y)
	s.Enqueue(msg)
}

// Damage marks a region of the surface, in surface coordinates, as
// changed.
func (s *Surface) Damage(x, y, width, height int32) {
	msg := wire.NewMessage(s, surfaceDamage)
	msg.Method = "damage"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.Enqueue(msg)
}

// DamageBuffer marks a region of the surface, in buffer coordinates,
// as changed. Surfaces older than version 4 only support Damage, which
// is used instead. The two are equivalent with a buffer scale of 1.
func (s *Surface) DamageBuffer(x, y, width, height int32) {
	if s.Version() < 4 {
		s.Damage(x, y, width, height)
		return
	}

	msg := wire.NewMessage(s, surfaceDamageBuffer)
	msg.Method = "damage_buffer"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.Enqueue(msg)
}

func (s *Surface) Commit() {
	msg := wire.NewMessage(s, surfaceCommit)
	msg.Method = "commit"
	s.Enqueue(msg)
}

func (s *Surface) Destroy() {
	msg := wire.NewMessage(s, surfaceDestroy)
	msg.Method = "destroy"
	s.Enqueue(msg)
	s.MarkDestroyed()
}
