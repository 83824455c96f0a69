package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/goplus/dpdkgen/internal/linkflags"
	"github.com/goplus/dpdkgen/internal/toolexec"
	"go.uber.org/zap"
)

// compileShim builds the C shim into a static library with the probed
// compiler flags and returns the directives that link it.
func (b *Builder) compileShim(ctx context.Context) ([]linkflags.Directive, error) {
	s := b.cfg.Shim
	src := b.path(s.Source)
	outDir := b.path(s.OutDir)
	if err := b.fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	obj := filepath.Join(outDir, s.Lib+".o")
	archive := filepath.Join(outDir, "lib"+s.Lib+".a")

	args := append([]string{"-O3"}, b.bctx.CFlags()...)
	args = append(args, "-c", src, "-o", obj)
	if _, err := b.runner.Run(ctx, toolexec.Cmd{Name: s.CC, Args: args}); err != nil {
		return nil, fmt.Errorf("compile %s: %w", src, err)
	}
	// ar only replaces members, so a stale archive would keep old ones
	if err := b.fs.Remove(archive); err != nil && !isNotExist(err) {
		return nil, err
	}
	if _, err := b.runner.Run(ctx, toolexec.Cmd{Name: s.AR, Args: []string{"crs", archive, obj}}); err != nil {
		return nil, fmt.Errorf("archive %s: %w", obj, err)
	}
	b.log.Info("compiled shim", zap.String("archive", archive))
	return []linkflags.Directive{
		{Kind: linkflags.SearchPath, Value: outDir},
		{Kind: linkflags.Static, Value: s.Lib},
	}, nil
}
