// Package meson drives Meson setup plus Ninja build and install.
package meson

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/goplus/dpdkgen/pkgs/buildsys"
	"github.com/spf13/afero"
)

// Meson wraps common Meson build steps with chainable configuration.
type Meson struct {
	runner     toolexec.Runner
	fs         afero.Fs
	meson      string
	ninja      string
	SourceDir  string
	buildDir   string
	installDir string
	buildType  string
	Options    map[string]string
	env        map[string]string
}

var _ buildsys.BuildSystem = (*Meson)(nil)

// New creates a Meson helper that runs tools through r.
func New(r toolexec.Runner) *Meson {
	return &Meson{
		runner:   r,
		fs:       afero.NewOsFs(),
		meson:    "meson",
		ninja:    "ninja",
		buildDir: "build",
		Options:  map[string]string{},
		env:      map[string]string{},
	}
}

// Fs replaces the filesystem used to inspect the build directory.
func (m *Meson) Fs(fs afero.Fs) *Meson {
	m.fs = fs
	return m
}

// Tools overrides the meson and ninja executables. Empty values keep the
// defaults.
func (m *Meson) Tools(meson, ninja string) *Meson {
	if meson != "" {
		m.meson = meson
	}
	if ninja != "" {
		m.ninja = ninja
	}
	return m
}

func (m *Meson) Source(dir string) {
	m.SourceDir = dir
}

func (m *Meson) BuildDir(dir string) {
	m.buildDir = dir
}

func (m *Meson) InstallDir(dir string) {
	m.installDir = dir
}

func (m *Meson) BuildType(name string) *Meson {
	m.buildType = name
	return m
}

// Option sets a -D<key>=<value> project option.
func (m *Meson) Option(key, value string) *Meson {
	if m.Options == nil {
		m.Options = map[string]string{}
	}
	m.Options[key] = value
	return m
}

func (m *Meson) Env(key, value string) {
	if m.env == nil {
		m.env = map[string]string{}
	}
	m.env[key] = value
}

func (m *Meson) Version(ctx context.Context) (string, error) {
	return toolexec.Output(ctx, m.runner, toolexec.Cmd{Name: m.meson, Args: []string{"--version"}, Env: m.env})
}

// Configure runs meson setup. An existing Meson build directory is wiped
// so stale options do not survive a reconfigure.
func (m *Meson) Configure(ctx context.Context, args ...string) error {
	setupArgs := []string{"setup"}
	configured, err := afero.Exists(m.fs, filepath.Join(m.buildDir, "meson-private"))
	if err != nil {
		return err
	}
	if configured {
		setupArgs = append(setupArgs, "--wipe")
	}
	if m.installDir != "" {
		setupArgs = append(setupArgs, "--prefix", m.installDir)
	}
	if m.buildType != "" {
		setupArgs = append(setupArgs, "--buildtype", m.buildType)
	}
	setupArgs = append(setupArgs, m.optionArgs()...)
	setupArgs = append(setupArgs, args...)
	setupArgs = append(setupArgs, m.buildDir, m.SourceDir)
	return m.run(ctx, m.meson, setupArgs)
}

// Build runs ninja in the build directory.
func (m *Meson) Build(ctx context.Context, args ...string) error {
	return m.run(ctx, m.ninja, append([]string{"-C", m.buildDir}, args...))
}

// Install runs ninja install in the build directory.
func (m *Meson) Install(ctx context.Context, args ...string) error {
	return m.run(ctx, m.ninja, append([]string{"-C", m.buildDir, "install"}, args...))
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (m *Meson) OutputDir() string {
	if m.installDir != "" {
		return m.installDir
	}
	return m.buildDir
}

func (m *Meson) optionArgs() []string {
	if len(m.Options) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m.Options))
	for k := range m.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+"="+m.Options[k])
	}
	return args
}

func (m *Meson) run(ctx context.Context, bin string, args []string) error {
	_, err := m.runner.Run(ctx, toolexec.Cmd{Name: bin, Args: args, Env: m.env})
	return err
}
