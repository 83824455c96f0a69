package linkflags

import (
	"fmt"
	"io"
	"strings"
)

// Format renders directives for a particular build system.
type Format interface {
	// Link writes link directives.
	Link(w io.Writer, ds []Directive) error
	// Rerun writes hints that the build must rerun when paths change.
	Rerun(w io.Writer, paths []string) error
}

// FormatByName returns the renderer registered as name: "cargo" or
// "ldflags".
func FormatByName(name string) (Format, error) {
	switch name {
	case "", "cargo":
		return Cargo{}, nil
	case "ldflags":
		return LDFlags{}, nil
	}
	return nil, fmt.Errorf("unknown directive format %q", name)
}

// Cargo prints cargo build-script instructions, one per line.
type Cargo struct{}

func (Cargo) Link(w io.Writer, ds []Directive) error {
	for _, d := range ds {
		var line string
		switch d.Kind {
		case SearchPath:
			line = "cargo:rustc-link-search=native=" + d.Value
		case StaticWholeArchive:
			line = "cargo:rustc-link-lib=static:+whole-archive,-bundle=" + d.Value
		case Dylib:
			line = "cargo:rustc-link-lib=" + d.Value
		case Static:
			line = "cargo:rustc-link-lib=static=" + d.Value
		default:
			return fmt.Errorf("unsupported directive %v", d)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (Cargo) Rerun(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, "cargo:rerun-if-changed="+p); err != nil {
			return err
		}
	}
	return nil
}

// LDFlags prints a single linker command line, for build systems that take
// raw flags (cgo LDFLAGS, make).
type LDFlags struct{}

func (LDFlags) Link(w io.Writer, ds []Directive) error {
	args := make([]string, 0, len(ds))
	for _, d := range ds {
		switch d.Kind {
		case SearchPath:
			args = append(args, "-L"+d.Value)
		case StaticWholeArchive:
			args = append(args, "-Wl,--whole-archive", "-l:lib"+d.Value+".a", "-Wl,--no-whole-archive")
		case Dylib:
			args = append(args, "-l"+d.Value)
		case Static:
			args = append(args, "-l:lib"+d.Value+".a")
		default:
			return fmt.Errorf("unsupported directive %v", d)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(args, " "))
	return err
}

func (LDFlags) Rerun(io.Writer, []string) error {
	return nil
}
