package paper

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// Registry holds the live surfaces keyed by ID.
type Registry struct {
	surfaces map[uint32]*Surface
}

func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[uint32]*Surface)}
}

// Register adds s. It fails if a surface with the same ID is already
// registered.
func (r *Registry) Register(s *Surface) error {
	if _, ok := r.surfaces[s.ID()]; ok {
		return &DuplicateSurfaceError{ID: s.ID()}
	}
	r.surfaces[s.ID()] = s
	return nil
}

func (r *Registry) Lookup(id uint32) (*Surface, bool) {
	s, ok := r.surfaces[id]
	return s, ok
}

// Unregister removes the surface with the given ID and destroys its
// protocol objects.
func (r *Registry) Unregister(id uint32) (*Surface, bool) {
	s, ok := r.surfaces[id]
	if !ok {
		return nil, false
	}
	delete(r.surfaces, id)
	s.destroy()
	return s, true
}

func (r *Registry) Empty() bool {
	return len(r.surfaces) == 0
}

func (r *Registry) Len() int {
	return len(r.surfaces)
}

// Surfaces returns the registered surfaces ordered by ID.
func (r *Registry) Surfaces() []*Surface {
	list := maps.Values(r.surfaces)
	slices.SortFunc(list, func(s1, s2 *Surface) int { return cmp.Compare(s1.ID(), s2.ID()) })
	return list
}
