package linkflags

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret(t *testing.T) {
	ds, err := Interpret(strings.Fields("-L/x -l:libfoo.a -lrte_eal -lm -pthread -Wl,--as-needed"))
	require.NoError(t, err)
	assert.Equal(t, []Directive{
		{Kind: SearchPath, Value: "/x"},
		{Kind: StaticWholeArchive, Value: "foo"},
		{Kind: Dylib, Value: "m"},
		{Kind: Dylib, Value: "pthread"},
	}, ds)
}

func TestInterpretDPDKStatic(t *testing.T) {
	flags := strings.Fields("-L/work/deps/install/lib/x86_64-linux-gnu -Wl,--whole-archive " +
		"-l:librte_eal.a -l:librte_mbuf.a -Wl,--no-whole-archive -Wl,--export-dynamic " +
		"-lrte_node -lrte_eal -lnuma -ldl -lpthread -latomic")
	ds, err := Interpret(flags)
	require.NoError(t, err)
	assert.Equal(t, []Directive{
		{Kind: SearchPath, Value: "/work/deps/install/lib/x86_64-linux-gnu"},
		{Kind: StaticWholeArchive, Value: "rte_eal"},
		{Kind: StaticWholeArchive, Value: "rte_mbuf"},
		{Kind: Dylib, Value: "numa"},
		{Kind: Dylib, Value: "dl"},
		{Kind: Dylib, Value: "pthread"},
		{Kind: Dylib, Value: "atomic"},
	}, ds)
}

func TestInterpretEmpty(t *testing.T) {
	ds, err := Interpret(nil)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestInterpretInvalid(t *testing.T) {
	for _, flag := range []string{
		"-lfoo.a",
		"-l:foo.a",
		"-l:lib.a",
		"-l",
		"-L",
		"-O2",
		"/usr/lib/libfoo.a",
		"-framework",
	} {
		ds, err := Interpret([]string{"-lm", flag})
		var invalid *InvalidFlagError
		require.True(t, errors.As(err, &invalid), "%q: got %v", flag, err)
		assert.Equal(t, flag, invalid.Flag)
		assert.Nil(t, ds, "%q: no partial result", flag)
	}
}

func TestCargoFormat(t *testing.T) {
	var buf bytes.Buffer
	f, err := FormatByName("cargo")
	require.NoError(t, err)
	require.NoError(t, f.Link(&buf, []Directive{
		{Kind: SearchPath, Value: "/x"},
		{Kind: StaticWholeArchive, Value: "foo"},
		{Kind: Dylib, Value: "m"},
		{Kind: Static, Value: "impl"},
	}))
	require.NoError(t, f.Rerun(&buf, []string{"build.rs", "dpdk.map"}))
	assert.Equal(t, `cargo:rustc-link-search=native=/x
cargo:rustc-link-lib=static:+whole-archive,-bundle=foo
cargo:rustc-link-lib=m
cargo:rustc-link-lib=static=impl
cargo:rerun-if-changed=build.rs
cargo:rerun-if-changed=dpdk.map
`, buf.String())
}

func TestLDFlagsFormat(t *testing.T) {
	var buf bytes.Buffer
	f, err := FormatByName("ldflags")
	require.NoError(t, err)
	require.NoError(t, f.Link(&buf, []Directive{
		{Kind: SearchPath, Value: "/x"},
		{Kind: StaticWholeArchive, Value: "foo"},
		{Kind: Static, Value: "impl"},
		{Kind: Dylib, Value: "pthread"},
	}))
	require.NoError(t, f.Rerun(&buf, []string{"ignored"}))
	assert.Equal(t, "-L/x -Wl,--whole-archive -l:libfoo.a -Wl,--no-whole-archive -l:libimpl.a -lpthread\n", buf.String())
}

func TestFormatByNameUnknown(t *testing.T) {
	_, err := FormatByName("bazel")
	assert.Error(t, err)
}

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "static=foo", Directive{Kind: StaticWholeArchive, Value: "foo"}.String())
	assert.Equal(t, "static-lib=impl", Directive{Kind: Static, Value: "impl"}.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
