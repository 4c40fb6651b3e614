package paper

import (
	"fmt"

	wl "deedles.dev/wlpaper/client"
	"deedles.dev/wlpaper/layershell"
	"deedles.dev/wlpaper/render"
	"deedles.dev/wlpaper/shm"
	"github.com/charmbracelet/log"
)

// Surface is a background layer surface showing one image.
type Surface struct {
	Namespace string
	Image     *render.Image

	id      uint32
	surface *wl.Surface
	layer   *layershell.LayerSurface

	configured    bool
	width, height int
	redraws       int
}

// ID returns the ID of the surface's wl_surface, which identifies it
// in a Registry.
func (s *Surface) ID() uint32 {
	return s.id
}

// Configured reports whether the surface has been drawn at least
// once.
func (s *Surface) Configured() bool {
	return s.configured
}

// Size returns the size that the surface was last drawn at.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Redraws returns the number of times that the surface has been
// drawn.
func (s *Surface) Redraws() int {
	return s.redraws
}

func (s *Surface) String() string {
	return fmt.Sprintf("%v (surface %v)", s.Namespace, s.id)
}

// draw renders the image at the configured size into a new buffer
// from pool, acknowledges the configure and commits the buffer. A
// zero dimension uses the image's own size.
func (s *Surface) draw(pool *shm.Pool, serial, width, height uint32) error {
	w, h := int(width), int(height)
	if w == 0 {
		w = s.Image.Width
	}
	if h == 0 {
		h = s.Image.Height
	}

	buf, pix, err := pool.CreateBuffer(w, h, wl.ShmFormatXrgb8888)
	if err != nil {
		return fmt.Errorf("draw %v: %w", s, err)
	}
	render.Render(s.Image, w, h, pix)

	s.layer.AckConfigure(serial)
	s.surface.Attach(buf, 0, 0)
	s.surface.DamageBuffer(0, 0, int32(w), int32(h))
	s.surface.Commit()

	s.configured = true
	s.width, s.height = w, h
	s.redraws++

	log.Debug("drew surface", "surface", s.id, "namespace", s.Namespace, "width", w, "height", h, "serial", serial)
	return nil
}

func (s *Surface) destroy() {
	if s.layer != nil {
		s.layer.Destroy()
	}
	if s.surface != nil {
		s.surface.Destroy()
	}
}
