// Package env holds the per-run build context shared by every component.
package env

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Context is the build-wide state shared by every component of a run.
// It is created once by the driver and passed by pointer. All mutable
// fields are write-once.
type Context struct {
	workDir string

	flagsOnce sync.Once
	cflags    []string
	ldflags   []string
	probed    bool

	entryOnce sync.Once
}

// New returns a Context rooted at dir. An empty dir means the current
// working directory.
func New(dir string) (*Context, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Context{workDir: abs}, nil
}

// WorkDir returns the absolute working directory of the run.
func (c *Context) WorkDir() string {
	return c.workDir
}

// Path resolves rel against the working directory. Absolute paths are
// returned cleaned.
func (c *Context) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.workDir, rel)
}

// SetFlags records the probed compiler and link flags. Only the first call
// has an effect; it reports whether the flags were stored.
func (c *Context) SetFlags(cflags, ldflags []string) bool {
	stored := false
	c.flagsOnce.Do(func() {
		c.cflags = slices.Clone(cflags)
		c.ldflags = slices.Clone(ldflags)
		c.probed = true
		stored = true
	})
	return stored
}

// Probed reports whether flags have been recorded.
func (c *Context) Probed() bool {
	return c.probed
}

// CFlags returns a copy of the probed compiler flags.
func (c *Context) CFlags() []string {
	return slices.Clone(c.cflags)
}

// LDFlags returns a copy of the probed link flags.
func (c *Context) LDFlags() []string {
	return slices.Clone(c.ldflags)
}

// ClaimEntryFile returns true exactly once per Context: the caller that gets
// true owns (re)creating the aggregate entry file.
func (c *Context) ClaimEntryFile() bool {
	first := false
	c.entryOnce.Do(func() { first = true })
	return first
}

// Truthy reports whether s is one of the accepted "on" spellings:
// yes, y, true, on or 1, case-insensitively.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "on", "1":
		return true
	}
	return false
}
