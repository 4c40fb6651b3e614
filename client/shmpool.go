package wl

import "deedles.dev/wlpaper/wire"

type ShmPool struct {
	Proxy
}

func (pool *ShmPool) String() string {
	return objectString(ShmPoolInterface, pool.ID())
}

func (pool *ShmPool) MethodName(op uint16) string {
	return methodName(nil, op)
}

func (pool *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ShmPoolInterface, Type: "event", Op: msg.Op()}
}

// CreateBuffer creates a buffer from the pool's memory starting at
// offset.
func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := Buffer{}
	buf.SetVersion(pool.Version())
	pool.Client().Add(&buf)

	msg := wire.NewMessage(pool, shmPoolCreateBuffer)
	msg.Method = "create_buffer"
	msg.Args = []any{buf.ID(), offset, width, height, stride, format}
	msg.WriteUint(buf.ID())
	msg.WriteInt(offset)
	msg.WriteInt(width)
	msg.WriteInt(height)
	msg.WriteInt(stride)
	msg.WriteUint(uint32(format))
	pool.Enqueue(msg)

	return &buf
}

func (pool *ShmPool) Destroy() {
	msg := wire.NewMessage(pool, shmPoolDestroy)
	msg.Method = "destroy"
	pool.Enqueue(msg)
	pool.MarkDestroyed()
}
