package codegen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/registry"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/goplus/dpdkgen/internal/toolexec/toolexectest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	reqs []Request
	fail string
}

func (f *fakeTool) Generate(_ context.Context, req Request) ([]byte, error) {
	f.reqs = append(f.reqs, req)
	if len(req.Functions) > 0 && req.Functions[0] == f.fail {
		return nil, errors.New("bindgen exploded")
	}
	return []byte(fmt.Sprintf("// %s\n", strings.Join(req.Functions, ","))), nil
}

func newContext(t *testing.T, cflags ...string) *env.Context {
	t.Helper()
	bctx, err := env.New("/work")
	require.NoError(t, err)
	bctx.SetFlags(cflags, nil)
	return bctx
}

var testModules = []registry.Composed{
	{Name: "eal", Functions: []string{"rte_eal_init"}, Types: []string{"rte_lcore_state_t"}},
	{Name: "power", Functions: []string{"rte_power_init"}, Vars: []string{"x"}},
}

const wantEntry = Prelude + `#[cfg(feature = "eal")]
mod eal;
#[cfg(feature = "eal")]
pub use eal::*;
#[cfg(feature = "power")]
mod power;
#[cfg(feature = "power")]
pub use power::*;
`

func TestGenerateWritesModulesAndEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	tool := &fakeTool{}
	g := New(Options{Fs: fs, Tool: tool, Header: "/work/csrc/header.h", OutDir: "/work/src"})

	require.NoError(t, g.Generate(context.Background(), newContext(t, "-I/dpdk/include", "-mssse3"), testModules))

	require.Len(t, tool.reqs, 2)
	assert.Equal(t, Request{
		Header:    "/work/csrc/header.h",
		Functions: []string{"rte_eal_init"},
		Types:     []string{"rte_lcore_state_t"},
		ClangArgs: []string{"-I/dpdk/include", "-mssse3"},
	}, tool.reqs[0])

	eal, err := afero.ReadFile(fs, "/work/src/eal.rs")
	require.NoError(t, err)
	assert.Equal(t, "// rte_eal_init\n", string(eal))

	entry, err := afero.ReadFile(fs, "/work/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, wantEntry, string(entry))
}

func TestGenerateRecreatesEntryOncePerRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/src/lib.rs", []byte("stale content\n"), 0o644))
	g := New(Options{Fs: fs, Tool: &fakeTool{}, Header: "h.h", OutDir: "/work/src"})

	// two calls in one run: the second appends
	bctx := newContext(t)
	require.NoError(t, g.Generate(context.Background(), bctx, testModules[:1]))
	require.NoError(t, g.Generate(context.Background(), bctx, testModules[1:]))
	first, err := afero.ReadFile(fs, "/work/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, wantEntry, string(first))

	// a new run starts over and produces identical bytes
	require.NoError(t, g.Generate(context.Background(), newContext(t), testModules))
	second, err := afero.ReadFile(fs, "/work/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestGenerateCustomEntryFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := New(Options{Fs: fs, Tool: &fakeTool{}, OutDir: "/out/gen", EntryFile: "/out/mod.rs"})
	require.NoError(t, g.Generate(context.Background(), newContext(t), testModules[:1]))

	ok, err := afero.Exists(fs, "/out/mod.rs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/out/gen/eal.rs", g.ModulePath("eal"))
}

func TestGenerateToolFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	tool := &fakeTool{fail: "rte_power_init"}
	g := New(Options{Fs: fs, Tool: tool, OutDir: "/work/src"})

	err := g.Generate(context.Background(), newContext(t), testModules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module power")

	ok, _ := afero.Exists(fs, "/work/src/power.rs")
	assert.False(t, ok)
}

func TestGenerateRejectsBadModuleName(t *testing.T) {
	fs := afero.NewMemMapFs()
	tool := &fakeTool{}
	g := New(Options{Fs: fs, Tool: tool, OutDir: "/work/src"})

	err := g.Generate(context.Background(), newContext(t), []registry.Composed{{Name: "eal"}, {Name: "build-config"}})
	require.Error(t, err)
	assert.Empty(t, tool.reqs, "no tool call before names are validated")
}

func TestBindgenArgs(t *testing.T) {
	runner := toolexectest.New().Stdout("bindgen", "pub fn rte_eal_init();\n")
	b := NewBindgen(runner, "")

	out, err := b.Generate(context.Background(), Request{
		Header:    "csrc/header.h",
		Functions: []string{"rte_eal_init", "rte_exit"},
		Vars:      []string{"per_lcore__rte_errno"},
		Types:     []string{"rte_.*_t"},
		ClangArgs: []string{"-I/usr/include/dpdk", "-march=corei7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pub fn rte_eal_init();\n", string(out))

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, []string{
		"csrc/header.h", "--generate-inline-functions",
		"--allowlist-function", "rte_eal_init",
		"--allowlist-function", "rte_exit",
		"--allowlist-var", "per_lcore__rte_errno",
		"--allowlist-type", "rte_.*_t",
		"--", "-I/usr/include/dpdk", "-march=corei7",
	}, runner.Calls[0].Args)
}

func TestBindgenMissing(t *testing.T) {
	b := NewBindgen(toolexectest.New(), "/opt/bin/bindgen")
	_, err := b.Generate(context.Background(), Request{Header: "h.h"})
	var missing *toolexec.ToolMissingError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "/opt/bin/bindgen", missing.Tool)
}

func TestGenerateExtraClangArgs(t *testing.T) {
	tool := &fakeTool{}
	g := New(Options{
		Fs:        afero.NewMemMapFs(),
		Tool:      tool,
		Header:    "h.h",
		OutDir:    "/work/src",
		ClangArgs: []string{"-DALLOW_EXPERIMENTAL_API"},
	})
	bctx := newContext(t, "-I/dpdk/include")
	require.NoError(t, g.Generate(context.Background(), bctx, testModules[:1]))
	require.Len(t, tool.reqs, 1)
	assert.Equal(t, []string{"-I/dpdk/include", "-DALLOW_EXPERIMENTAL_API"}, tool.reqs[0].ClangArgs)
	assert.Equal(t, []string{"-I/dpdk/include"}, bctx.CFlags())
}

type closeCounter struct {
	afero.File
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return c.File.Close()
}

// trackingFs records every file opened for writing.
type trackingFs struct {
	afero.Fs
	opened map[string][]*closeCounter
}

func (fs *trackingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	c := &closeCounter{File: f}
	fs.opened[name] = append(fs.opened[name], c)
	return c, nil
}

func TestGenerateClosesEntryFileOnce(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs(), opened: map[string][]*closeCounter{}}
	g := New(Options{Fs: fs, Tool: &fakeTool{}, Header: "/work/csrc/header.h", OutDir: "/work/src"})

	require.NoError(t, g.Generate(context.Background(), newContext(t), testModules))

	handles := fs.opened["/work/src/lib.rs"]
	require.Len(t, handles, 2)
	for _, h := range handles {
		assert.Equal(t, 1, h.closes)
	}
	entry, err := afero.ReadFile(fs, "/work/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, wantEntry, string(entry))
}
