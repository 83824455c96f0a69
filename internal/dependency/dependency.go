// Package dependency prepares the native dependency: it fetches and
// unpacks the release archive, then configures, builds and installs it.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/dpdkgen/internal/pipeline"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"github.com/goplus/dpdkgen/pkgs/buildsys"
	"github.com/goplus/dpdkgen/pkgs/gnu"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stage names, also used for checkpoint markers.
const (
	StageDownload  = "download"
	StageConfigure = "configure"
	StageBuild     = "build"
	StageInstall   = "install"
)

// Tool version orderings.
const (
	// OrderLexical compares trimmed version strings as text.
	OrderLexical = "lexical"
	// OrderGNU compares numeric components, so 0.100.0 is newer than 0.53.2.
	OrderGNU = "gnu"
)

// Release pins the upstream archive.
type Release struct {
	// Name is the archive base name, e.g. "dpdk".
	Name     string
	Version  string
	URL      string
	Checksum string
	// Archive is the local file name; defaults to the last URL element.
	Archive string
}

// Layout holds the absolute directories the dependency lives in.
type Layout struct {
	DepsDir    string
	SourceDir  string
	BuildDir   string
	InstallDir string
}

// Options configures a Dependency.
type Options struct {
	Runner      toolexec.Runner
	Fs          afero.Fs
	Release     Release
	Layout      Layout
	BuildSystem buildsys.BuildSystem
	// Tool names the configuration tool in version errors.
	Tool string
	// MinToolVersion is the oldest accepted configuration tool version.
	MinToolVersion string
	// VersionOrder is OrderLexical (the default) or OrderGNU.
	VersionOrder string
	// ConfigureArgs are passed through to BuildSystem.Configure.
	ConfigureArgs []string
	Log           *zap.Logger
}

// Dependency implements the four preparation stages.
type Dependency struct {
	runner   toolexec.Runner
	fs       afero.Fs
	release  Release
	layout   Layout
	bs       buildsys.BuildSystem
	tool     string
	minTool  string
	order    string
	confArgs []string
	log      *zap.Logger
}

func New(opts Options) *Dependency {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Release.Archive == "" {
		opts.Release.Archive = filepath.Base(opts.Release.URL)
	}
	if opts.BuildSystem != nil {
		opts.BuildSystem.Source(opts.Layout.SourceDir)
		opts.BuildSystem.BuildDir(opts.Layout.BuildDir)
		opts.BuildSystem.InstallDir(opts.Layout.InstallDir)
	}
	return &Dependency{
		runner:   opts.Runner,
		fs:       opts.Fs,
		release:  opts.Release,
		layout:   opts.Layout,
		bs:       opts.BuildSystem,
		tool:     opts.Tool,
		minTool:  opts.MinToolVersion,
		order:    opts.VersionOrder,
		confArgs: opts.ConfigureArgs,
		log:      opts.Log,
	}
}

// Stages returns download, configure, build and install in order.
func (d *Dependency) Stages() []pipeline.Stage {
	return []pipeline.Stage{
		{Name: StageDownload, Run: d.Download},
		{Name: StageConfigure, Run: d.Configure},
		{Name: StageBuild, Run: d.Build},
		{Name: StageInstall, Run: d.Install},
	}
}

// ArchivePath is where the release archive is downloaded to.
func (d *Dependency) ArchivePath() string {
	return filepath.Join(d.layout.DepsDir, d.release.Archive)
}

// Download fetches and verifies the archive, unpacks it and moves the
// extracted tree to the source directory.
func (d *Dependency) Download(ctx context.Context) error {
	if err := d.fs.MkdirAll(d.layout.DepsDir, 0o755); err != nil {
		return err
	}
	archive := d.ArchivePath()
	if err := d.fetch(ctx, archive); err != nil {
		return fmt.Errorf("download %s %s from %s: %w", d.release.Name, d.release.Version, d.release.URL, err)
	}
	if err := VerifyChecksum(d.fs, archive, d.release.Checksum); err != nil {
		return err
	}
	if _, err := d.runner.Run(ctx, toolexec.Cmd{
		Name: "tar",
		Args: []string{"-xf", d.release.Archive},
		Dir:  d.layout.DepsDir,
	}); err != nil {
		return fmt.Errorf("uncompress %s: %w", archive, err)
	}
	extracted, err := d.extractedDir()
	if err != nil {
		return err
	}
	if err := d.clearSource(); err != nil {
		return err
	}
	if err := d.fs.Rename(extracted, d.layout.SourceDir); err != nil {
		return fmt.Errorf("rename %s to %s: %w", extracted, d.layout.SourceDir, err)
	}
	d.log.Info("source ready", zap.String("dir", d.layout.SourceDir))
	return nil
}

// fetch tries wget first and falls back to curl only when wget is not
// installed.
func (d *Dependency) fetch(ctx context.Context, dest string) error {
	_, err := d.runner.Run(ctx, toolexec.Cmd{
		Name: "wget",
		Args: []string{"-O", dest, d.release.URL},
		Dir:  d.layout.DepsDir,
	})
	var missing *toolexec.ToolMissingError
	if !errors.As(err, &missing) {
		return err
	}
	d.log.Debug("wget not found, falling back to curl")
	_, err = d.runner.Run(ctx, toolexec.Cmd{
		Name: "curl",
		Args: []string{"-sSfL", "-o", dest, d.release.URL},
		Dir:  d.layout.DepsDir,
	})
	return err
}

// ExtractedCandidates lists the directory names upstream archives unpack
// to: "<name>-<version>" and "<name>-stable-<version>", where a trailing
// ".0" is dropped from the version.
func (d *Dependency) ExtractedCandidates() []string {
	v := strings.TrimSuffix(d.release.Version, ".0")
	return []string{
		filepath.Join(d.layout.DepsDir, d.release.Name+"-"+v),
		filepath.Join(d.layout.DepsDir, d.release.Name+"-stable-"+v),
	}
}

func (d *Dependency) extractedDir() (string, error) {
	candidates := d.ExtractedCandidates()
	for _, dir := range candidates {
		ok, err := afero.IsDir(d.fs, dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if ok {
			return dir, nil
		}
	}
	return "", &SourceNotFoundError{Candidates: candidates}
}

// clearSource removes a previous source tree. A symlink is left alone and
// reported, since removing it would not remove what it points to.
func (d *Dependency) clearSource() error {
	src := d.layout.SourceDir
	var (
		fi  os.FileInfo
		err error
	)
	if l, ok := d.fs.(afero.Lstater); ok {
		fi, _, err = l.LstatIfPossible(src)
	} else {
		fi, err = d.fs.Stat(src)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%s is a symbolic link, remove it manually", src)
	}
	return d.fs.RemoveAll(src)
}

// Configure checks the configuration tool version and sets up the build
// directory.
func (d *Dependency) Configure(ctx context.Context) error {
	v, err := d.bs.Version(ctx)
	if err != nil {
		return err
	}
	if d.minTool != "" && d.toolTooOld(v) {
		return &toolexec.VersionMismatchError{Subject: d.tool, Got: v, Want: d.minTool, Rule: "at least"}
	}
	d.log.Debug("configuration tool", zap.String("tool", d.tool), zap.String("version", v))
	return d.bs.Configure(ctx, d.confArgs...)
}

func (d *Dependency) toolTooOld(v string) bool {
	if d.order == OrderGNU {
		return !gnu.AtLeast(v, d.minTool)
	}
	return strings.TrimSpace(v) < d.minTool
}

func (d *Dependency) Build(ctx context.Context) error {
	return d.bs.Build(ctx)
}

func (d *Dependency) Install(ctx context.Context) error {
	return d.bs.Install(ctx)
}

// InstallDir returns the prefix the build system installs into.
func (d *Dependency) InstallDir() string {
	if d.bs != nil {
		return d.bs.OutputDir()
	}
	return d.layout.InstallDir
}
