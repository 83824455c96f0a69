// Package pkgconfig queries pkg-config for the installed dependency.
package pkgconfig

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"go.uber.org/zap"
)

// Prober checks the installed package version and caches its flags in the
// build context.
type Prober struct {
	runner  toolexec.Runner
	tool    string
	pkg     string
	version string
	path    string
	log     *zap.Logger
}

// Options configures a Prober.
type Options struct {
	// Tool defaults to "pkg-config".
	Tool string
	// Package is the pkg-config module name, e.g. libdpdk.
	Package string
	// Version must prefix the reported --modversion.
	Version string
	// SearchPath is passed as PKG_CONFIG_PATH.
	SearchPath string
	Log        *zap.Logger
}

func New(r toolexec.Runner, opts Options) *Prober {
	if opts.Tool == "" {
		opts.Tool = "pkg-config"
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Prober{
		runner:  r,
		tool:    opts.Tool,
		pkg:     opts.Package,
		version: opts.Version,
		path:    opts.SearchPath,
		log:     opts.Log,
	}
}

func (p *Prober) cmd(args ...string) toolexec.Cmd {
	return toolexec.Cmd{
		Name: p.tool,
		Args: append(args, p.pkg),
		Env:  map[string]string{"PKG_CONFIG_PATH": p.path},
	}
}

// Version returns the version pkg-config reports for the package.
func (p *Prober) Version(ctx context.Context) (string, error) {
	return toolexec.Output(ctx, p.runner, p.cmd("--modversion"))
}

// Probe verifies the installed version and, unless bctx already holds
// flags, records --cflags and --libs --static.
func (p *Prober) Probe(ctx context.Context, bctx *env.Context) error {
	got, err := p.Version(ctx)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(got, p.version) {
		return &toolexec.VersionMismatchError{Subject: p.pkg, Got: got, Want: p.version, Rule: "prefix"}
	}
	if bctx.Probed() {
		return nil
	}
	cflags, err := toolexec.Fields(ctx, p.runner, p.cmd("--cflags"))
	if err != nil {
		return err
	}
	ldflags, err := toolexec.Fields(ctx, p.runner, p.cmd("--libs", "--static"))
	if err != nil {
		return err
	}
	bctx.SetFlags(cflags, ldflags)
	p.log.Info("probed package flags",
		zap.String("package", p.pkg),
		zap.String("version", got),
		zap.Strings("cflags", cflags),
		zap.Strings("ldflags", ldflags))
	return nil
}

// SearchPath builds PKG_CONFIG_PATH so that the package installed under
// installDir is found first. libDir is the install's library directory
// relative to the prefix (e.g. lib/x86_64-linux-gnu). A non-empty current
// value is kept after the install dir; an empty one is replaced by the
// system default for libDir.
func SearchPath(installDir, libDir, current string) string {
	own := filepath.Join(installDir, libDir, "pkgconfig")
	if current != "" {
		return own + string(filepath.ListSeparator) + current
	}
	return own + string(filepath.ListSeparator) + filepath.Join("/usr", libDir, "pkgconfig")
}

// DefaultLibDir returns the Debian multiarch library directory meson uses
// for the running platform, falling back to plain "lib".
func DefaultLibDir() string {
	if runtime.GOOS != "linux" {
		return "lib"
	}
	switch runtime.GOARCH {
	case "amd64":
		return "lib/x86_64-linux-gnu"
	case "arm64":
		return "lib/aarch64-linux-gnu"
	case "386":
		return "lib/i386-linux-gnu"
	case "ppc64le":
		return "lib/powerpc64le-linux-gnu"
	case "riscv64":
		return "lib/riscv64-linux-gnu"
	}
	return "lib"
}
