package wltest

import (
	"fmt"
	"slices"

	"deedles.dev/wlpaper/wire"
	"golang.org/x/sys/unix"
)

// handle processes a request. The lock must be held.
func (s *Server) handle(msg *wire.MessageBuffer) error {
	iface, ok := s.objects[msg.Sender()]
	if !ok {
		if s.destroyed.Has(msg.Sender()) {
			return fmt.Errorf("request op%v on destroyed object %v", msg.Op(), msg.Sender())
		}
		return fmt.Errorf("request op%v on unknown object %v", msg.Op(), msg.Sender())
	}

	var err error
	switch iface {
	case "wl_display":
		err = s.handleDisplay(msg)
	case "wl_registry":
		err = s.handleRegistry(msg)
	case "wl_compositor":
		err = s.handleCompositor(msg)
	case "wl_surface":
		err = s.handleSurface(msg)
	case "wl_shm":
		err = s.handleShm(msg)
	case "wl_shm_pool":
		err = s.handleShmPool(msg)
	case "wl_buffer":
		err = s.handleBuffer(msg)
	case "wl_output":
		err = s.handleOutput(msg)
	case "zwlr_layer_shell_v1":
		err = s.handleLayerShell(msg)
	case "zwlr_layer_surface_v1":
		err = s.handleLayerSurface(msg)
	default:
		err = fmt.Errorf("no requests expected for %v", iface)
	}
	if err != nil {
		return fmt.Errorf("%v@%v: %w", iface, msg.Sender(), err)
	}
	return msg.Err()
}

func unknownOp(msg *wire.MessageBuffer) error {
	return fmt.Errorf("unexpected request op%v", msg.Op())
}

func (s *Server) handleDisplay(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // sync
		id := msg.ReadUint()
		if err := s.create(id, "wl_callback", 1); err != nil {
			return err
		}
		s.send(id, 0, s.nextSerial())
		delete(s.objects, id)
		s.send(1, 1, id)
		return nil

	case 1: // get_registry
		id := msg.ReadUint()
		if err := s.create(id, "wl_registry", 1); err != nil {
			return err
		}
		for _, g := range s.globals {
			s.send(id, 0, g.Name, g.Interface, g.Version)
		}
		return nil

	default:
		return unknownOp(msg)
	}
}

func (s *Server) handleRegistry(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return unknownOp(msg)
	}

	name := msg.ReadUint()
	id := msg.ReadNewID()
	if err := msg.Err(); err != nil {
		return err
	}

	i := slices.IndexFunc(s.globals, func(g Global) bool { return g.Name == name })
	if i < 0 {
		return fmt.Errorf("bind to unknown global %v", name)
	}
	g := s.globals[i]
	if g.Interface != id.Interface {
		return fmt.Errorf("bind global %v (%v) as %v", name, g.Interface, id.Interface)
	}
	if id.Version > g.Version {
		return fmt.Errorf("bind %v version %v, but only %v is supported", g.Interface, id.Version, g.Version)
	}
	if err := s.create(id.ID, id.Interface, id.Version); err != nil {
		return err
	}

	switch id.Interface {
	case "wl_shm":
		s.send(id.ID, 0, uint32(0))
		s.send(id.ID, 0, uint32(1))
		s.send(id.ID, 0, uint32(FormatRGB565))

	case "wl_output":
		s.send(id.ID, 0, int32(0), int32(0), int32(600), int32(340), int32(0), "wltest", "virtual", int32(0))
		s.send(id.ID, 1, uint32(0x3), int32(1920), int32(1080), int32(60000))
		if id.Version >= 2 {
			s.send(id.ID, 3, int32(1))
		}
		if id.Version >= 4 {
			s.send(id.ID, 4, fmt.Sprintf("WL-%v", name))
			s.send(id.ID, 5, "wltest virtual output")
		}
		if id.Version >= 2 {
			s.send(id.ID, 2)
		}
	}
	return nil
}

func (s *Server) handleCompositor(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return unknownOp(msg)
	}

	id := msg.ReadUint()
	if err := s.create(id, "wl_surface", s.versions[msg.Sender()]); err != nil {
		return err
	}
	s.surfaces[id] = &surface{}
	return nil
}

func (s *Server) handleSurface(msg *wire.MessageBuffer) error {
	surf := s.surfaces[msg.Sender()]

	switch msg.Op() {
	case 0: // destroy
		delete(s.surfaces, msg.Sender())
		s.destroy(msg.Sender())
		return nil

	case 1: // attach
		buf := msg.ReadUint()
		msg.ReadInt()
		msg.ReadInt()
		if (buf != 0) && (s.objects[buf] != "wl_buffer") {
			return fmt.Errorf("attach non-buffer object %v", buf)
		}
		surf.attached = buf
		return nil

	case 2, 9: // damage, damage_buffer
		if (msg.Op() == 9) && (s.versions[msg.Sender()] < 4) {
			return fmt.Errorf("damage_buffer requires version 4")
		}
		surf.damage = [4]int32{msg.ReadInt(), msg.ReadInt(), msg.ReadInt(), msg.ReadInt()}
		return nil

	case 6: // commit
		return s.commit(msg.Sender(), surf)

	default:
		return unknownOp(msg)
	}
}

func (s *Server) commit(id uint32, surf *surface) error {
	for _, layer := range s.layers {
		if (layer.Surface == id) && (len(layer.Acked) == 0) && (surf.attached != 0) {
			return fmt.Errorf("buffer committed before the first configure was acknowledged")
		}
	}

	c := Commit{Surface: id, Damage: surf.damage}
	if surf.attached != 0 {
		buf := s.buffers[surf.attached]
		mmap := s.pools[buf.pool]
		end := int(buf.offset) + int(buf.size())
		if end > len(mmap) {
			return fmt.Errorf("buffer %v ends at %v, past the end of its %v byte pool", surf.attached, end, len(mmap))
		}

		c.Buffer = surf.attached
		c.Width, c.Height, c.Stride = buf.width, buf.height, buf.stride
		c.Format = buf.format
		c.Pixels = slices.Clone(mmap[buf.offset:end])
		s.held.Add(surf.attached)
	}
	surf.attached = 0
	surf.damage = [4]int32{}

	select {
	case s.commits <- c:
		return nil
	default:
		return fmt.Errorf("too many unread commits")
	}
}

func (s *Server) handleShm(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return unknownOp(msg)
	}

	id := msg.ReadUint()
	file := msg.ReadFile()
	size := msg.ReadInt()
	if err := msg.Err(); err != nil {
		return err
	}
	defer file.Close()

	mmap, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap pool: %w", err)
	}
	if err := s.create(id, "wl_shm_pool", 1); err != nil {
		unix.Munmap(mmap)
		return err
	}
	s.pools[id] = mmap
	return nil
}

func (s *Server) handleShmPool(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // create_buffer
		id := msg.ReadUint()
		buf := buffer{
			pool:   msg.Sender(),
			offset: msg.ReadInt(),
			width:  msg.ReadInt(),
			height: msg.ReadInt(),
			stride: msg.ReadInt(),
			format: msg.ReadUint(),
		}
		if err := msg.Err(); err != nil {
			return err
		}
		if buf.stride < buf.width*4 {
			return fmt.Errorf("stride %v too small for width %v", buf.stride, buf.width)
		}
		for hid := range s.held {
			h := s.buffers[hid]
			if (h.pool == buf.pool) && (buf.offset < h.offset+h.size()) && (h.offset < buf.offset+buf.size()) {
				return fmt.Errorf("buffer %v overlaps buffer %v, which has not been released", id, hid)
			}
		}
		if err := s.create(id, "wl_buffer", 1); err != nil {
			return err
		}
		s.buffers[id] = buf
		return nil

	case 1: // destroy
		// The memory stays mapped for the buffers created from the pool.
		s.destroy(msg.Sender())
		return nil

	default:
		return unknownOp(msg)
	}
}

func (s *Server) handleBuffer(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return unknownOp(msg)
	}
	s.held.Delete(msg.Sender())
	delete(s.buffers, msg.Sender())
	s.destroy(msg.Sender())
	return nil
}

func (s *Server) handleOutput(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return unknownOp(msg)
	}
	s.destroy(msg.Sender())
	return nil
}

func (s *Server) handleLayerShell(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // get_layer_surface
		layer := Layer{
			ID:        msg.ReadUint(),
			Surface:   msg.ReadUint(),
			Output:    msg.ReadUint(),
			Layer:     msg.ReadUint(),
			Namespace: msg.ReadString(),
		}
		if err := msg.Err(); err != nil {
			return err
		}
		if s.objects[layer.Surface] != "wl_surface" {
			return fmt.Errorf("layer surface role for non-surface %v", layer.Surface)
		}
		if err := s.create(layer.ID, "zwlr_layer_surface_v1", s.versions[msg.Sender()]); err != nil {
			return err
		}
		s.layers[layer.ID] = &layer
		return nil

	case 1: // destroy
		s.destroy(msg.Sender())
		return nil

	default:
		return unknownOp(msg)
	}
}

func (s *Server) handleLayerSurface(msg *wire.MessageBuffer) error {
	layer := s.layers[msg.Sender()]

	switch msg.Op() {
	case 1: // set_anchor
		layer.Anchor = msg.ReadUint()
	case 2: // set_exclusive_zone
		layer.ExclusiveZone = msg.ReadInt()
	case 4: // set_keyboard_interactivity
		layer.Keyboard = msg.ReadUint()
	case 6: // ack_configure
		serial := msg.ReadUint()
		i := slices.Index(layer.pending, serial)
		if i < 0 {
			return fmt.Errorf("ack of unknown serial %v", serial)
		}
		layer.pending = layer.pending[i+1:]
		layer.Acked = append(layer.Acked, serial)
	case 7: // destroy
		delete(s.layers, msg.Sender())
		s.destroy(msg.Sender())
	default:
		return unknownOp(msg)
	}
	return nil
}
