// Package linkflags turns linker flags reported by pkg-config into link
// directives for the enclosing build system.
package linkflags

import (
	"fmt"
	"strings"
)

// Kind classifies a Directive.
type Kind int

const (
	// SearchPath adds a native library search directory.
	SearchPath Kind = iota
	// StaticWholeArchive links a static archive in full.
	StaticWholeArchive
	// Dylib links a library the ordinary way.
	Dylib
	// Static links only the needed members of a static archive.
	Static
)

func (k Kind) String() string {
	switch k {
	case SearchPath:
		return "search"
	case StaticWholeArchive:
		return "static"
	case Dylib:
		return "dylib"
	case Static:
		return "static-lib"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Directive is one instruction to the linker driver.
type Directive struct {
	Kind  Kind
	Value string
}

func (d Directive) String() string {
	return d.Kind.String() + "=" + d.Value
}

// InvalidFlagError reports a flag that has no directive mapping.
type InvalidFlagError struct {
	Flag   string
	Reason string
}

func (e *InvalidFlagError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid linker option %q", e.Flag)
	}
	return fmt.Sprintf("invalid linker option %q: %s", e.Flag, e.Reason)
}

// suppressedPrefix names libraries that pkg-config --static also lists as
// plain -l flags. They are already linked through their lib*.a archives.
const suppressedPrefix = "rte"

// Interpret maps flags to directives, in order:
//
//	-L<path>          search path
//	-l:lib<name>.a    whole-archive static link of <name>
//	-l...a            error, static archives need the -l:lib<name>.a form
//	-lrte<suffix>     dropped
//	-l<name>          dynamic link of <name>
//	-pthread          dynamic link of pthread
//	-Wl...            dropped
//
// Anything else is an InvalidFlagError.
func Interpret(flags []string) ([]Directive, error) {
	var ds []Directive
	for _, flag := range flags {
		d, ok, err := interpret(flag)
		if err != nil {
			return nil, err
		}
		if ok {
			ds = append(ds, d)
		}
	}
	return ds, nil
}

func interpret(flag string) (d Directive, ok bool, err error) {
	switch {
	case strings.HasPrefix(flag, "-L"):
		path := flag[len("-L"):]
		if path == "" {
			return d, false, &InvalidFlagError{Flag: flag, Reason: "empty search path"}
		}
		return Directive{Kind: SearchPath, Value: path}, true, nil

	case strings.HasPrefix(flag, "-l"):
		if strings.HasSuffix(flag, ".a") {
			name, found := strings.CutPrefix(flag, "-l:lib")
			name = strings.TrimSuffix(name, ".a")
			if !found || name == "" {
				return d, false, &InvalidFlagError{Flag: flag, Reason: "static archives must be spelled -l:lib<name>.a"}
			}
			return Directive{Kind: StaticWholeArchive, Value: name}, true, nil
		}
		name := flag[len("-l"):]
		if name == "" {
			return d, false, &InvalidFlagError{Flag: flag, Reason: "empty library name"}
		}
		if strings.HasPrefix(name, suppressedPrefix) {
			return d, false, nil
		}
		return Directive{Kind: Dylib, Value: name}, true, nil

	case flag == "-pthread":
		return Directive{Kind: Dylib, Value: "pthread"}, true, nil

	case strings.HasPrefix(flag, "-Wl"):
		return d, false, nil
	}
	return d, false, &InvalidFlagError{Flag: flag}
}
