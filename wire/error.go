package wire

import "fmt"

// UnknownOpError is returned by Object.Dispatch when a message's
// opcode is not one that the object's interface defines.
type UnknownOpError struct {
	Interface string
	Type      string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("%v: unknown %v opcode %v", err.Interface, err.Type, err.Op)
}

// UnknownSenderIDError is returned when a message arrives from an
// object ID that isn't alive on the connection. If the ID was in use
// before, Previous describes the object that last had it.
type UnknownSenderIDError struct {
	Sender   uint32
	Op       uint16
	Previous string
}

func (err UnknownSenderIDError) Error() string {
	if err.Previous != "" {
		return fmt.Sprintf("opcode %v from deleted object %v (was %v)", err.Op, err.Sender, err.Previous)
	}
	return fmt.Sprintf("opcode %v from unknown object %v", err.Op, err.Sender)
}
