// Package build wires the configured components into the two phases of a
// run: preparing the native dependency and generating bindings plus link
// directives for it.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goplus/dpdkgen/internal/codegen"
	"github.com/goplus/dpdkgen/internal/config"
	"github.com/goplus/dpdkgen/internal/dependency"
	"github.com/goplus/dpdkgen/internal/descmap"
	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/linkflags"
	"github.com/goplus/dpdkgen/internal/pipeline"
	"github.com/goplus/dpdkgen/internal/pkgconfig"
	"github.com/goplus/dpdkgen/internal/registry"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/goplus/dpdkgen/pkgs/buildsys"
	"github.com/goplus/dpdkgen/pkgs/buildsys/cmake"
	"github.com/goplus/dpdkgen/pkgs/buildsys/meson"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options configures a Builder.
type Options struct {
	Config *config.Config
	// Context defaults to one rooted at the current directory.
	Context *env.Context
	Runner  toolexec.Runner
	Fs      afero.Fs
	// Stdout receives link directives and rerun hints.
	Stdout io.Writer
	Log    *zap.Logger
	// Now stamps the build record; defaults to time.Now.
	Now func() time.Time
}

// Builder runs the dependency pipeline and the generation phase.
type Builder struct {
	cfg    *config.Config
	bctx   *env.Context
	runner toolexec.Runner
	fs     afero.Fs
	stdout io.Writer
	log    *zap.Logger
	now    func() time.Time
	format linkflags.Format

	dep         *dependency.Dependency
	checkpoints *pipeline.Checkpoints
	prober      *pkgconfig.Prober
}

func New(opts Options) (*Builder, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("build: no configuration")
	}
	if opts.Context == nil {
		bctx, err := env.New("")
		if err != nil {
			return nil, err
		}
		opts.Context = bctx
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = toolexec.New(opts.Log)
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	format, err := linkflags.FormatByName(opts.Config.Format)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:    opts.Config,
		bctx:   opts.Context,
		runner: opts.Runner,
		fs:     opts.Fs,
		stdout: opts.Stdout,
		log:    opts.Log,
		now:    opts.Now,
		format: format,
	}
	b.checkpoints = pipeline.NewCheckpoints(b.fs, b.path(b.cfg.Paths.Checkpoints))
	b.dep = b.newDependency()
	b.prober = b.newProber()
	return b, nil
}

func (b *Builder) path(rel string) string {
	return b.bctx.Path(rel)
}

func (b *Builder) newDependency() *dependency.Dependency {
	d := b.cfg.Dependency
	bs, tool := b.buildSystem()
	return dependency.New(dependency.Options{
		Runner: b.runner,
		Fs:     b.fs,
		Release: dependency.Release{
			Name:     d.Name,
			Version:  d.Version,
			URL:      b.cfg.ReleaseURL(),
			Checksum: d.Checksum,
		},
		Layout: dependency.Layout{
			DepsDir:    b.path(b.cfg.Paths.Deps),
			SourceDir:  b.path(b.cfg.Paths.Source),
			BuildDir:   b.path(b.cfg.Paths.Build),
			InstallDir: b.path(b.cfg.Paths.Install),
		},
		BuildSystem:    bs,
		Tool:           tool,
		MinToolVersion: d.MinToolVersion,
		VersionOrder:   d.VersionOrder,
		Log:            b.log.With(zap.String("dependency", d.Name)),
	})
}

// buildSystem returns the configured driver and the name of its
// configuration tool.
func (b *Builder) buildSystem() (buildsys.BuildSystem, string) {
	d := b.cfg.Dependency
	tools := b.cfg.Tools
	var (
		bs   buildsys.BuildSystem
		tool string
	)
	switch d.BuildSystem {
	case "cmake":
		c := cmake.New(b.runner).Tool(tools.CMake).BuildType(d.BuildType).
			Generator(d.Generator).Toolchain(b.optionalPath(d.Toolchain))
		for k, v := range d.Options {
			c.Define(k, v)
		}
		for k, v := range d.Switches {
			c.DefineBool(k, v)
		}
		bs, tool = c, tools.CMake
	default:
		m := meson.New(b.runner).Fs(b.fs).Tools(tools.Meson, tools.Ninja).BuildType(d.BuildType)
		for k, v := range d.Options {
			m.Option(k, v)
		}
		for k, v := range d.Switches {
			m.Option(k, strconv.FormatBool(v))
		}
		bs, tool = m, tools.Meson
	}
	// the dependency is compiled with the same compiler as the shim
	if b.cfg.Shim.CC != "" {
		bs.Env("CC", b.cfg.Shim.CC)
	}
	if b.cfg.PkgConfigPath != "" {
		bs.Env("PKG_CONFIG_PATH", b.cfg.PkgConfigPath)
	}
	return bs, tool
}

func (b *Builder) optionalPath(rel string) string {
	if rel == "" {
		return ""
	}
	return b.path(rel)
}

func (b *Builder) newProber() *pkgconfig.Prober {
	libDir := b.cfg.Paths.LibDir
	if libDir == "" {
		libDir = pkgconfig.DefaultLibDir()
	}
	return pkgconfig.New(b.runner, pkgconfig.Options{
		Tool:       b.cfg.Tools.PkgConfig,
		Package:    b.cfg.Dependency.Package,
		Version:    b.cfg.Dependency.Version,
		SearchPath: pkgconfig.SearchPath(b.dep.InstallDir(), libDir, b.cfg.PkgConfigPath),
		Log:        b.log,
	})
}

// Context returns the build context shared by the run.
func (b *Builder) Context() *env.Context {
	return b.bctx
}

// Prepare downloads, configures, builds and installs the dependency,
// skipping checkpointed stages.
func (b *Builder) Prepare(ctx context.Context) (*pipeline.Report, error) {
	c := pipeline.NewController(b.checkpoints, b.cfg.Forced(), b.log, b.dep.Stages()...)
	report, err := c.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("prepare %s: %w", b.cfg.Dependency.Name, err)
	}
	return report, nil
}

// Flags probes the installed package and interprets its link flags.
func (b *Builder) Flags(ctx context.Context) ([]linkflags.Directive, error) {
	if err := b.prober.Probe(ctx, b.bctx); err != nil {
		return nil, fmt.Errorf("probe %s: %w", b.cfg.Dependency.Package, err)
	}
	return linkflags.Interpret(b.bctx.LDFlags())
}

// Modules parses the descriptor map and composes the configured modules.
func (b *Builder) Modules() ([]registry.Composed, error) {
	descs, err := descmap.ParseFile(b.fs, b.path(b.cfg.Generate.Map))
	if err != nil {
		return nil, err
	}
	return registry.New(descs).Compose(b.cfg.RegistryModules())
}

// Generate writes bindings for every configured module, compiles the shim
// and prints link directives. The dependency must be installed.
func (b *Builder) Generate(ctx context.Context) error {
	directives, err := b.Flags(ctx)
	if err != nil {
		return err
	}
	mods, err := b.Modules()
	if err != nil {
		return err
	}

	gen := codegen.New(codegen.Options{
		Fs:        b.fs,
		Tool:      codegen.NewBindgen(b.runner, b.cfg.Tools.Bindgen),
		Header:    b.path(b.cfg.Generate.Header),
		OutDir:    b.path(b.cfg.Generate.OutDir),
		EntryFile: b.entryFile(),
		ClangArgs: b.cfg.Generate.ClangArgs,
		Log:       b.log,
	})
	if err := gen.Generate(ctx, b.bctx, mods); err != nil {
		return err
	}

	if b.cfg.Shim.Source != "" {
		shim, err := b.compileShim(ctx)
		if err != nil {
			return err
		}
		directives = append(shim, directives...)
	}
	if err := b.format.Link(b.stdout, directives); err != nil {
		return err
	}
	return b.format.Rerun(b.stdout, b.rerunPaths())
}

func (b *Builder) entryFile() string {
	if b.cfg.Generate.Entry == "" {
		return ""
	}
	return b.path(b.cfg.Generate.Entry)
}

// rerunPaths lists the inputs whose change invalidates generated output.
func (b *Builder) rerunPaths() []string {
	var paths []string
	if b.cfg.File != "" {
		paths = append(paths, b.path(b.cfg.File))
	}
	paths = append(paths, b.path(b.cfg.Generate.Map), b.path(b.cfg.Generate.Header))
	if b.cfg.Shim.Source != "" {
		paths = append(paths, b.path(b.cfg.Shim.Source))
	}
	return paths
}

// Run prepares the dependency, generates everything and records the run.
func (b *Builder) Run(ctx context.Context) error {
	if _, err := b.Prepare(ctx); err != nil {
		return err
	}
	if err := b.Generate(ctx); err != nil {
		return err
	}
	names := make([]string, len(b.cfg.Modules))
	for i, m := range b.cfg.Modules {
		names[i] = m.Name
	}
	return b.saveRecord(&Record{
		Dependency: b.cfg.Dependency.Name,
		Version:    b.cfg.Dependency.Version,
		CFlags:     b.bctx.CFlags(),
		LDFlags:    b.bctx.LDFlags(),
		Modules:    names,
		BuildTime:  b.now(),
	})
}
