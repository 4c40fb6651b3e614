package wl

import (
	"cmp"
	"slices"

	"deedles.dev/wlpaper/internal/xslices"
	"deedles.dev/wlpaper/wire"
)

// Global is a global object advertised by the compositor.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

type Registry struct {
	// Global, if set, is called for every global as it is announced.
	Global func(Global)

	// GlobalRemove, if set, is called when a global is removed.
	GlobalRemove func(name uint32)

	Proxy
	globals map[uint32]Global
}

func (registry *Registry) String() string {
	return objectString(RegistryInterface, registry.ID())
}

func (registry *Registry) MethodName(op uint16) string {
	return methodName([]string{"global", "global_remove"}, op)
}

func (registry *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case registryEventGlobal:
		global := Global{
			Name:      msg.ReadUint(),
			Interface: msg.ReadString(),
			Version:   msg.ReadUint(),
		}
		if err := msg.Err(); err != nil {
			return err
		}
		registry.globals[global.Name] = global
		if registry.Global != nil {
			registry.Global(global)
		}
		return nil

	case registryEventGlobalRemove:
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		delete(registry.globals, name)
		if registry.GlobalRemove != nil {
			registry.GlobalRemove(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: RegistryInterface, Type: "event", Op: msg.Op()}
	}
}

// List returns the currently advertised globals ordered by name.
func (registry *Registry) List() []Global {
	list := make([]Global, 0, len(registry.globals))
	for _, g := range registry.globals {
		list = append(list, g)
	}
	slices.SortFunc(list, func(g1, g2 Global) int { return cmp.Compare(g1.Name, g2.Name) })
	return list
}

// Find returns the globals that match, ordered by name.
func (registry *Registry) Find(match func(Global) bool) []Global {
	return xslices.Filter(registry.List(), match)
}

// Bind binds obj to the global with the given name. The version is
// the lower of version and the version that the global advertises.
func (registry *Registry) Bind(name uint32, iface string, version uint32, obj Object) {
	if g, ok := registry.globals[name]; ok {
		version = min(version, g.Version)
	}
	obj.SetVersion(version)
	registry.Client().Add(obj)

	id := wire.NewID{Interface: iface, Version: version, ID: obj.ID()}
	msg := wire.NewMessage(registry, registryBind)
	msg.Method = "bind"
	msg.Args = []any{name, iface, version, id.ID}
	msg.WriteUint(name)
	msg.WriteNewID(id)
	registry.Enqueue(msg)
}
