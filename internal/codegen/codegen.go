// Package codegen writes one bindings file per module and keeps the
// aggregate entry file that declares them behind feature gates.
package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/registry"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Prelude opens a freshly created entry file. Generated bindings keep the
// C naming conventions.
const Prelude = `#![allow(non_upper_case_globals)]
#![allow(non_camel_case_types)]
#![allow(non_snake_case)]
`

// Options configures a Generator.
type Options struct {
	Fs     afero.Fs
	Tool   BindingTool
	Header string
	// OutDir receives <module>.rs; EntryFile defaults to OutDir/lib.rs.
	OutDir    string
	EntryFile string
	// ClangArgs follow the probed compiler flags.
	ClangArgs []string
	Log       *zap.Logger
}

// Generator emits bindings for composed modules.
type Generator struct {
	fs        afero.Fs
	tool      BindingTool
	header    string
	outDir    string
	entryFile string
	clangArgs []string
	log       *zap.Logger
}

func New(opts Options) *Generator {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.EntryFile == "" {
		opts.EntryFile = filepath.Join(opts.OutDir, "lib.rs")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Generator{
		fs:        opts.Fs,
		tool:      opts.Tool,
		header:    opts.Header,
		outDir:    opts.OutDir,
		entryFile: opts.EntryFile,
		clangArgs: opts.ClangArgs,
		log:       opts.Log,
	}
}

// ModulePath returns the file a module's bindings are written to.
func (g *Generator) ModulePath(name string) string {
	return filepath.Join(g.outDir, name+".rs")
}

// Generate processes mods in order. Modules must be processed by a single
// caller: whether the entry file is recreated is decided by bctx's
// one-time entry flag.
func (g *Generator) Generate(ctx context.Context, bctx *env.Context, mods []registry.Composed) error {
	for _, m := range mods {
		if !validModuleName(m.Name) {
			return fmt.Errorf("module name %q is not a valid identifier", m.Name)
		}
	}
	if err := g.fs.MkdirAll(g.outDir, 0o755); err != nil {
		return err
	}
	for _, m := range mods {
		if err := g.generate(ctx, bctx, m); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
	}
	return nil
}

func (g *Generator) generate(ctx context.Context, bctx *env.Context, m registry.Composed) error {
	src, err := g.tool.Generate(ctx, Request{
		Header:    g.header,
		Functions: m.Functions,
		Vars:      m.Vars,
		Types:     m.Types,
		ClangArgs: append(bctx.CFlags(), g.clangArgs...),
	})
	if err != nil {
		return err
	}
	path := g.ModulePath(m.Name)
	if err := afero.WriteFile(g.fs, path, src, 0o644); err != nil {
		return err
	}
	g.log.Info("generated bindings",
		zap.String("module", m.Name),
		zap.String("file", path),
		zap.Int("functions", len(m.Functions)),
		zap.Int("vars", len(m.Vars)),
		zap.Int("types", len(m.Types)))
	return g.addModule(bctx, m.Name)
}

// addModule appends the gated declaration of name to the entry file,
// recreating the file first if this is the first module of the run.
func (g *Generator) addModule(bctx *env.Context, name string) error {
	first := bctx.ClaimEntryFile()
	flags := os.O_WRONLY | os.O_APPEND
	if first {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	decl := moduleDecl(name)
	if first {
		decl = Prelude + decl
	}
	f, err := g.fs.OpenFile(g.entryFile, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(decl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func moduleDecl(name string) string {
	return fmt.Sprintf("#[cfg(feature = %q)]\nmod %s;\n#[cfg(feature = %q)]\npub use %s::*;\n", name, name, name, name)
}

func validModuleName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
