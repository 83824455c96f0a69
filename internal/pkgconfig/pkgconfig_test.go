package pkgconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/goplus/dpdkgen/internal/toolexec/toolexectest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePkgConfig(version string) *toolexectest.Runner {
	return toolexectest.New().Handle("pkg-config", func(c toolexec.Cmd) (*toolexec.Result, error) {
		var out string
		switch {
		case toolexectest.HasArg(c, "--modversion"):
			out = version + "\n"
		case toolexectest.HasArg(c, "--cflags"):
			out = "-include rte_config.h -march=corei7 -I/work/deps/install/include \n"
		case toolexectest.HasArg(c, "--libs"):
			out = "-L/work/deps/install/lib -l:librte_eal.a -lnuma -pthread\n"
		}
		return &toolexec.Result{Stdout: []byte(out)}, nil
	})
}

func TestProbeCachesFlags(t *testing.T) {
	runner := fakePkgConfig("23.11.1")
	p := New(runner, Options{Package: "libdpdk", Version: "23.11.1", SearchPath: "/work/deps/install/lib/pkgconfig"})
	bctx, err := env.New("/work")
	require.NoError(t, err)

	require.NoError(t, p.Probe(context.Background(), bctx))
	assert.Equal(t, []string{"-include", "rte_config.h", "-march=corei7", "-I/work/deps/install/include"}, bctx.CFlags())
	assert.Equal(t, []string{"-L/work/deps/install/lib", "-l:librte_eal.a", "-lnuma", "-pthread"}, bctx.LDFlags())
	assert.Equal(t, []string{
		"pkg-config --modversion libdpdk",
		"pkg-config --cflags libdpdk",
		"pkg-config --libs --static libdpdk",
	}, runner.Commands())
	for _, c := range runner.Calls {
		assert.Equal(t, "/work/deps/install/lib/pkgconfig", c.Env["PKG_CONFIG_PATH"])
	}

	// flags are probed once per context; the version is still checked
	runner.Reset()
	require.NoError(t, p.Probe(context.Background(), bctx))
	assert.Equal(t, []string{"pkg-config --modversion libdpdk"}, runner.Commands())
}

func TestProbeVersionPrefix(t *testing.T) {
	bctx, err := env.New("/work")
	require.NoError(t, err)

	p := New(fakePkgConfig("23.11.1-rc2"), Options{Package: "libdpdk", Version: "23.11.1"})
	require.NoError(t, p.Probe(context.Background(), bctx))

	p = New(fakePkgConfig("22.11.4"), Options{Package: "libdpdk", Version: "23.11.1"})
	err = p.Probe(context.Background(), bctx)
	var mismatch *toolexec.VersionMismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	assert.Equal(t, "22.11.4", mismatch.Got)
	assert.Equal(t, "23.11.1", mismatch.Want)
	assert.Equal(t, "prefix", mismatch.Rule)
}

func TestProbeNotInstalled(t *testing.T) {
	bctx, err := env.New("/work")
	require.NoError(t, err)
	runner := toolexectest.New().Fail("pkg-config", "Package libdpdk was not found in the pkg-config search path.")
	err = New(runner, Options{Package: "libdpdk", Version: "23.11.1"}).Probe(context.Background(), bctx)

	var failed *toolexec.ToolFailedError
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.False(t, bctx.Probed())

	err = New(toolexectest.New(), Options{Package: "libdpdk"}).Probe(context.Background(), bctx)
	var missing *toolexec.ToolMissingError
	require.True(t, errors.As(err, &missing), "got %v", err)
}

func TestSearchPath(t *testing.T) {
	assert.Equal(t,
		"/work/deps/install/lib/x86_64-linux-gnu/pkgconfig:/usr/lib/x86_64-linux-gnu/pkgconfig",
		SearchPath("/work/deps/install", "lib/x86_64-linux-gnu", ""))
	assert.Equal(t,
		"/work/deps/install/lib/pkgconfig:/opt/pc:/usr/share/pc",
		SearchPath("/work/deps/install", "lib", "/opt/pc:/usr/share/pc"))
}

func TestDefaultLibDir(t *testing.T) {
	assert.NotEmpty(t, DefaultLibDir())
}
