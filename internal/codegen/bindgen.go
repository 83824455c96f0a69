package codegen

import (
	"context"
	"fmt"

	"github.com/goplus/dpdkgen/internal/toolexec"
)

// Request is one binding-extraction call.
type Request struct {
	Header    string
	Functions []string
	Vars      []string
	Types     []string
	ClangArgs []string
}

// BindingTool turns a header plus allow-lists into generated source.
type BindingTool interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Bindgen drives the bindgen command line tool.
type Bindgen struct {
	runner toolexec.Runner
	path   string
}

// NewBindgen returns a Bindgen that runs path ("bindgen" when empty).
func NewBindgen(r toolexec.Runner, path string) *Bindgen {
	if path == "" {
		path = "bindgen"
	}
	return &Bindgen{runner: r, path: path}
}

// Args returns the command line for req, without the tool name.
func (b *Bindgen) Args(req Request) []string {
	args := []string{req.Header, "--generate-inline-functions"}
	for _, f := range req.Functions {
		args = append(args, "--allowlist-function", f)
	}
	for _, v := range req.Vars {
		args = append(args, "--allowlist-var", v)
	}
	for _, t := range req.Types {
		args = append(args, "--allowlist-type", t)
	}
	args = append(args, "--")
	return append(args, req.ClangArgs...)
}

func (b *Bindgen) Generate(ctx context.Context, req Request) ([]byte, error) {
	res, err := b.runner.Run(ctx, toolexec.Cmd{Name: b.path, Args: b.Args(req)})
	if err != nil {
		return nil, fmt.Errorf("generate bindings for %s: %w", req.Header, err)
	}
	return res.Stdout, nil
}
