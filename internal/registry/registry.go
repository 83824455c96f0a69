// Package registry resolves module definitions against parsed descriptors.
package registry

import (
	"fmt"

	"github.com/goplus/dpdkgen/internal/descmap"
)

// Module groups descriptors into one generated unit.
type Module struct {
	Name string
	Libs []string
}

// Composed is a module with the allow-lists of all its descriptors merged
// in member order. Duplicates are kept.
type Composed struct {
	Name      string
	Functions []string
	Vars      []string
	Types     []string
}

// MissingDescriptorError reports a module member absent from the map.
type MissingDescriptorError struct {
	Module     string
	Descriptor string
}

func (e *MissingDescriptorError) Error() string {
	return fmt.Sprintf("module %q: descriptor %q not found in map", e.Module, e.Descriptor)
}

// Registry looks descriptors up by name.
type Registry struct {
	descs []descmap.Descriptor
}

// New returns a registry over descs. Later descriptors with a name already
// seen are shadowed.
func New(descs []descmap.Descriptor) *Registry {
	return &Registry{descs: descs}
}

// Lookup returns the first descriptor named name.
func (r *Registry) Lookup(name string) (descmap.Descriptor, bool) {
	for _, d := range r.descs {
		if d.Name == name {
			return d, true
		}
	}
	return descmap.Descriptor{}, false
}

// Names returns descriptor names in map order, duplicates included.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descs))
	for i, d := range r.descs {
		names[i] = d.Name
	}
	return names
}

// Compose resolves every module. It fails on the first member that is not
// in the registry, before any module is returned.
func (r *Registry) Compose(mods []Module) ([]Composed, error) {
	out := make([]Composed, 0, len(mods))
	for _, m := range mods {
		c := Composed{Name: m.Name}
		for _, lib := range m.Libs {
			d, ok := r.Lookup(lib)
			if !ok {
				return nil, &MissingDescriptorError{Module: m.Name, Descriptor: lib}
			}
			c.Functions = append(c.Functions, d.Functions...)
			c.Vars = append(c.Vars, d.Vars...)
			c.Types = append(c.Types, d.Types...)
		}
		out = append(out, c)
	}
	return out, nil
}
