// Package objstore tracks the protocol objects that are alive on a
// connection.
package objstore

import (
	"fmt"

	"deedles.dev/wlpaper/wire"
)

type Store struct {
	objects map[uint32]wire.Object
	nextID  uint32

	deleted [32]deletion
	next    int
}

type deletion struct {
	id   uint32
	desc string
}

func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  start,
	}
}

// Add stores obj, assigning it the next free ID if it doesn't already
// have one.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Delete removes the object with the given ID and informs it of its
// deletion. Descriptions of the most recently deleted objects are
// kept for error messages.
func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	delete(s.objects, id)
	if obj != nil {
		s.deleted[s.next] = deletion{id: id, desc: describe(obj)}
		s.next = (s.next + 1) % len(s.deleted)
		obj.Delete()
	}
}

// previous returns the description of the last deleted object that
// had the given ID, if it is still remembered.
func (s *Store) previous(id uint32) string {
	for _, d := range s.deleted {
		if (d.id == id) && (d.desc != "") {
			return d.desc
		}
	}
	return ""
}

func describe(obj wire.Object) string {
	if str, ok := obj.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%T@%v", obj, obj.ID())
}

// Dispatch hands msg to the object that sent it.
func (s *Store) Dispatch(msg *wire.MessageBuffer) (wire.Object, error) {
	obj := s.objects[msg.Sender()]
	if obj == nil {
		return nil, wire.UnknownSenderIDError{
			Sender:   msg.Sender(),
			Op:       msg.Op(),
			Previous: s.previous(msg.Sender()),
		}
	}

	return obj, obj.Dispatch(msg)
}
