// Package wire defines types helpful for dealing with the Wayland
// wire protocol. It is used by the hand-written protocol bindings in
// the client and layershell packages.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"unsafe"

	"golang.org/x/sys/unix"
)

// byteOrder is the host byte order.
var byteOrder binary.ByteOrder = binary.LittleEndian

func init() {
	n := uint32(1)
	b := (*[4]byte)(unsafe.Pointer(&n))
	if b[0] == 0 {
		byteOrder = binary.BigEndian
	}
}

func read[T ~int32 | ~uint32](r io.Reader) (T, error) {
	var data [4]byte
	_, err := io.ReadFull(r, data[:])
	if err != nil {
		return 0, err
	}

	v := byteOrder.Uint32(data[:])
	return T(v), nil
}

func write[T ~int32 | ~uint32](w io.Writer, v T) error {
	var data [4]byte
	byteOrder.PutUint32(data[:], uint32(v))
	n, err := w.Write(data[:])
	if (err == nil) && (n < len(data)) {
		return io.ErrShortWrite
	}
	return err
}

// padding returns the number of bytes needed to pad length to a
// 32-bit boundary.
func padding(length uint32) uint32 {
	return (4 - (length % 4)) % 4
}

// unixTee reads from c, but also reads out-of-band data
// simultaneously, writing it into oob.
type unixTee struct {
	c   *net.UnixConn
	oob io.Writer
}

func (t unixTee) Read(buf []byte) (int, error) {
	oob := make([]byte, unix.CmsgSpace(len(buf)))
	n, oobn, _, _, err := t.c.ReadMsgUnix(buf, oob)
	if (n == 0) && (err == nil) && (len(buf) > 0) {
		// recvmsg reports a closed stream as a zero-length read.
		return 0, io.EOF
	}
	_, ooberr := t.oob.Write(oob[:oobn])
	return n, errors.Join(err, ooberr)
}

// NewID is the argument type of an untyped new_id, such as the one in
// wl_registry.bind, which carries the interface name and version
// along with the new object ID.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

// Object represents a Wayland protocol object.
type Object interface {
	// ID returns the object's ID. It is 0 if the object has not been
	// added to a connection yet.
	ID() uint32

	// SetID sets the object's ID.
	SetID(id uint32)

	// Dispatch pertforms the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// MethodName returns the name of the event or request with the
	// given opcode. It is used for debugging output.
	MethodName(op uint16) string

	// Delete is called when the object's ID has been released by the
	// other side of the connection.
	Delete()
}
