// Package buildsys defines the interface shared by the dependency toolchain
// drivers.
package buildsys

import "context"

// BuildSystem captures shared capabilities of the dependency's toolchain
// drivers (Meson, CMake). Implementations add their own extras.
type BuildSystem interface {
	// Basic paths.
	Source(dir string)
	BuildDir(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Version reports the version of the configuration tool.
	Version(ctx context.Context) (string, error)

	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
	Install(ctx context.Context, args ...string) error

	// Where artifacts land.
	OutputDir() string
}
