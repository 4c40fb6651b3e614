package paper

import "fmt"

// MissingGlobalError is returned by New when the compositor does not
// advertise a global that is needed to draw wallpapers.
type MissingGlobalError struct {
	Interface string
}

func (err *MissingGlobalError) Error() string {
	return fmt.Sprintf("compositor does not support %v", err.Interface)
}

// DuplicateSurfaceError is returned when a surface is registered with
// an ID that is already in use.
type DuplicateSurfaceError struct {
	ID uint32
}

func (err *DuplicateSurfaceError) Error() string {
	return fmt.Sprintf("surface %v is already registered", err.ID)
}

// UnknownSurfaceError is returned when the compositor sends an event
// for a surface that isn't registered.
type UnknownSurfaceError struct {
	ID uint32
}

func (err *UnknownSurfaceError) Error() string {
	return fmt.Sprintf("event for unknown surface %v", err.ID)
}
