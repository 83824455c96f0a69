// Package descmap reads and writes descriptor maps: text files that list,
// per native library, the functions, variables and types to expose.
//
// A map is a sequence of blocks:
//
//	eal {
//	function:
//	rte_eal_init;
//	rte_eal_cleanup;
//
//	type:
//	rte_lcore_state_t
//	};
//
// Field keywords are function, var and type. Identifiers are separated by
// ';' and the last one in a block may omit it.
package descmap

import (
	"fmt"

	"github.com/spf13/afero"
)

// Field keywords.
const (
	FieldFunction = "function"
	FieldVar      = "var"
	FieldType     = "type"
)

// Descriptor lists the exported symbols of one native library.
type Descriptor struct {
	Name      string
	Functions []string
	Vars      []string
	Types     []string
}

// Empty reports whether d carries no name and no symbols.
func (d *Descriptor) Empty() bool {
	return d.Name == "" && len(d.Functions) == 0 && len(d.Vars) == 0 && len(d.Types) == 0
}

// Symbols returns the number of identifiers across all fields.
func (d *Descriptor) Symbols() int {
	return len(d.Functions) + len(d.Vars) + len(d.Types)
}

func (d *Descriptor) field(key string) *[]string {
	switch key {
	case FieldFunction:
		return &d.Functions
	case FieldVar:
		return &d.Vars
	case FieldType:
		return &d.Types
	}
	return nil
}

// ParseFile reads path from fs and parses it.
func ParseFile(fs afero.Fs, path string) ([]Descriptor, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	descs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}
