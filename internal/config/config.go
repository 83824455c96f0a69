// Package config loads the dpdkgen configuration from defaults, an
// optional dpdkgen.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/dpdkgen/internal/env"
	"github.com/goplus/dpdkgen/internal/registry"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Name is the base name of the configuration file.
const Name = "dpdkgen"

// Config represents the dpdkgen configuration.
type Config struct {
	// Force is kept as text so that FORCE=yes and force: true both work.
	Force         string           `mapstructure:"force"`
	Format        string           `mapstructure:"format"`
	PkgConfigPath string           `mapstructure:"pkg_config_path"`
	Dependency    DependencyConfig `mapstructure:"dependency"`
	Paths         PathsConfig      `mapstructure:"paths"`
	Generate      GenerateConfig   `mapstructure:"generate"`
	Shim          ShimConfig       `mapstructure:"shim"`
	Tools         ToolsConfig      `mapstructure:"tools"`
	Modules       []ModuleConfig   `mapstructure:"modules"`

	// File is the configuration file that was read, empty when only
	// defaults and environment were used.
	File string `mapstructure:"-"`
}

// DependencyConfig pins the native dependency release.
type DependencyConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	// URL may contain a %s verb that is replaced by Version.
	URL            string            `mapstructure:"url"`
	Checksum       string            `mapstructure:"checksum"`
	Package        string            `mapstructure:"package"`
	BuildSystem    string            `mapstructure:"buildsys"`
	MinToolVersion string            `mapstructure:"min_tool_version"`
	// VersionOrder is how the tool version is compared with
	// MinToolVersion: lexical or gnu.
	VersionOrder string            `mapstructure:"tool_version_order"`
	BuildType    string            `mapstructure:"build_type"`
	Options      map[string]string `mapstructure:"options"`
	// Switches are boolean project options (-Dkey=true for meson,
	// -Dkey:BOOL=ON for cmake).
	Switches map[string]bool `mapstructure:"switches"`
	// Generator and Toolchain only apply to cmake.
	Generator string `mapstructure:"generator"`
	Toolchain string `mapstructure:"toolchain"`
}

// PathsConfig holds directories relative to the work dir.
type PathsConfig struct {
	Deps        string `mapstructure:"deps"`
	Source      string `mapstructure:"source"`
	Build       string `mapstructure:"build"`
	Install     string `mapstructure:"install"`
	Checkpoints string `mapstructure:"checkpoints"`
	// LibDir is the library dir below the install prefix; empty picks the
	// platform default.
	LibDir string `mapstructure:"libdir"`
}

// GenerateConfig controls binding generation.
type GenerateConfig struct {
	Map       string   `mapstructure:"map"`
	Header    string   `mapstructure:"header"`
	OutDir    string   `mapstructure:"out_dir"`
	Entry     string   `mapstructure:"entry"`
	ClangArgs []string `mapstructure:"clang_args"`
}

// ShimConfig controls compilation of the C shim library.
type ShimConfig struct {
	Source string `mapstructure:"source"`
	CC     string `mapstructure:"cc"`
	AR     string `mapstructure:"ar"`
	OutDir string `mapstructure:"out_dir"`
	Lib    string `mapstructure:"lib"`
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	Bindgen   string `mapstructure:"bindgen"`
	PkgConfig string `mapstructure:"pkg_config"`
	Meson     string `mapstructure:"meson"`
	Ninja     string `mapstructure:"ninja"`
	CMake     string `mapstructure:"cmake"`
}

// ModuleConfig selects descriptors for one generated module.
type ModuleConfig struct {
	Name string   `mapstructure:"name"`
	Libs []string `mapstructure:"libs"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("force", "false")
	v.SetDefault("format", "cargo")
	v.SetDefault("pkg_config_path", "")

	v.SetDefault("dependency.name", "dpdk")
	v.SetDefault("dependency.version", "23.11.1")
	v.SetDefault("dependency.url", "https://fast.dpdk.org/rel/dpdk-%s.tar.xz")
	v.SetDefault("dependency.checksum", "382d5fdd8ecb1d8e0be6d70dfc5eec96")
	v.SetDefault("dependency.package", "libdpdk")
	v.SetDefault("dependency.buildsys", "meson")
	v.SetDefault("dependency.min_tool_version", "0.53.2")
	v.SetDefault("dependency.tool_version_order", "lexical")
	v.SetDefault("dependency.build_type", "")
	v.SetDefault("dependency.options", map[string]string{})
	v.SetDefault("dependency.switches", map[string]bool{})
	v.SetDefault("dependency.generator", "")
	v.SetDefault("dependency.toolchain", "")

	v.SetDefault("paths.deps", "deps")
	v.SetDefault("paths.source", "deps/src")
	v.SetDefault("paths.build", "deps/build")
	v.SetDefault("paths.install", "deps/install")
	v.SetDefault("paths.checkpoints", "deps")
	v.SetDefault("paths.libdir", "")

	v.SetDefault("generate.map", "dpdk.map")
	v.SetDefault("generate.header", "csrc/header.h")
	v.SetDefault("generate.out_dir", "src")
	v.SetDefault("generate.entry", "src/lib.rs")
	v.SetDefault("generate.clang_args", []string{})

	v.SetDefault("shim.source", "csrc/impl.c")
	v.SetDefault("shim.cc", "cc")
	v.SetDefault("shim.ar", "ar")
	v.SetDefault("shim.out_dir", "deps/shim")
	v.SetDefault("shim.lib", "impl")

	v.SetDefault("tools.bindgen", "bindgen")
	v.SetDefault("tools.pkg_config", "pkg-config")
	v.SetDefault("tools.meson", "meson")
	v.SetDefault("tools.ninja", "ninja")
	v.SetDefault("tools.cmake", "cmake")

	v.SetDefault("modules", []map[string]any{
		{"name": "eal", "libs": []string{"eal", "lcore", "mbuf", "mempool", "ethdev", "build_config", "config", "errno"}},
		{"name": "power", "libs": []string{"power"}},
	})
}

// bindEnv maps the well-known unprefixed variables. Everything else is
// reachable as DPDKGEN_<SECTION>_<KEY>.
func bindEnv(v *viper.Viper) error {
	for key, name := range map[string]string{
		"force":           "FORCE",
		"pkg_config_path": "PKG_CONFIG_PATH",
		"shim.cc":         "CC",
		"shim.ar":         "AR",
		"shim.out_dir":    "OUT_DIR",
	} {
		if err := v.BindEnv(key, "DPDKGEN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), name); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the configuration. When file is empty dpdkgen.yaml is looked
// up in workDir and its absence is not an error.
func Load(fs afero.Fs, workDir, file string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(workDir)
	}

	v.SetEnvPrefix("DPDKGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Forced reports whether checkpoints should be ignored.
func (c *Config) Forced() bool {
	return env.Truthy(c.Force)
}

// ReleaseURL returns the download URL with the version filled in.
func (c *Config) ReleaseURL() string {
	if strings.Contains(c.Dependency.URL, "%s") {
		return fmt.Sprintf(c.Dependency.URL, c.Dependency.Version)
	}
	return c.Dependency.URL
}

// ArchiveName returns the file name the release is downloaded to.
func (c *Config) ArchiveName() string {
	return filepath.Base(c.ReleaseURL())
}

// RegistryModules converts the module selection for the registry.
func (c *Config) RegistryModules() []registry.Module {
	mods := make([]registry.Module, len(c.Modules))
	for i, m := range c.Modules {
		mods[i] = registry.Module{Name: m.Name, Libs: m.Libs}
	}
	return mods
}
