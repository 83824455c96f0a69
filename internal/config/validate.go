package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// validate validates the configuration.
func (c *Config) validate() error {
	d := &c.Dependency
	if d.Name == "" {
		return fmt.Errorf("dependency.name must not be empty")
	}
	if !semver.IsValid(canonical(d.Version)) {
		return fmt.Errorf("dependency.version %q is not a valid version", d.Version)
	}
	if d.MinToolVersion != "" && !semver.IsValid(canonical(d.MinToolVersion)) {
		return fmt.Errorf("dependency.min_tool_version %q is not a valid version", d.MinToolVersion)
	}
	if d.URL == "" {
		return fmt.Errorf("dependency.url must not be empty")
	}
	if strings.Count(d.URL, "%") > strings.Count(d.URL, "%s") {
		return fmt.Errorf("dependency.url may only contain %%s, got: %s", d.URL)
	}
	if err := validateChecksum(d.Checksum); err != nil {
		return err
	}
	if d.Package == "" {
		return fmt.Errorf("dependency.package must not be empty")
	}
	switch d.BuildSystem {
	case "meson", "cmake":
	default:
		return fmt.Errorf("dependency.buildsys must be meson or cmake, got: %s", d.BuildSystem)
	}
	switch d.VersionOrder {
	case "lexical", "gnu":
	default:
		return fmt.Errorf("dependency.tool_version_order must be lexical or gnu, got: %s", d.VersionOrder)
	}
	if d.BuildSystem != "cmake" && (d.Generator != "" || d.Toolchain != "") {
		return fmt.Errorf("dependency.generator and dependency.toolchain require buildsys cmake")
	}
	switch c.Format {
	case "cargo", "ldflags":
	default:
		return fmt.Errorf("format must be cargo or ldflags, got: %s", c.Format)
	}
	if c.Generate.Map == "" || c.Generate.Header == "" || c.Generate.OutDir == "" {
		return fmt.Errorf("generate.map, generate.header and generate.out_dir must be set")
	}
	if c.Shim.Source != "" && c.Shim.Lib == "" {
		return fmt.Errorf("shim.lib must be set when shim.source is")
	}
	return validateModules(c.Modules)
}

func validateChecksum(sum string) error {
	if len(sum) != 32 && len(sum) != 64 {
		return fmt.Errorf("dependency.checksum must be an md5 or sha256 hex digest, got %d characters", len(sum))
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return fmt.Errorf("dependency.checksum is not hexadecimal: %w", err)
	}
	return nil
}

func validateModules(mods []ModuleConfig) error {
	seen := make(map[string]bool, len(mods))
	for i, m := range mods {
		if m.Name == "" {
			return fmt.Errorf("modules[%d]: name must not be empty", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("modules[%d]: duplicate module %q", i, m.Name)
		}
		seen[m.Name] = true
		if len(m.Libs) == 0 {
			return fmt.Errorf("module %s: libs must not be empty", m.Name)
		}
	}
	return nil
}

// canonical turns a release version such as 24.03 into a semantic
// version (v24.3). Leading zeros are common in release numbers but
// rejected by semver.
func canonical(v string) string {
	core, rest := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, rest = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	for i, p := range parts {
		if t := strings.TrimLeft(p, "0"); t != "" {
			parts[i] = t
		} else if p != "" {
			parts[i] = "0"
		}
	}
	return "v" + strings.Join(parts, ".") + rest
}
