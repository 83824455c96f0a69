// Package toolexec runs the external tools the build depends on and maps
// their failures onto typed errors.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Cmd describes one external tool invocation.
type Cmd struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds KEY=VALUE overrides merged over the process environment.
	Env map[string]string
}

func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result carries the captured output of a successful invocation.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes commands synchronously.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	log *zap.Logger
}

// New returns an ExecRunner. A nil logger disables logging.
func New(log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{log: log}
}

func (r *ExecRunner) Run(ctx context.Context, c Cmd) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), c.Env)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("exec", zap.String("tool", c.Name), zap.Strings("args", c.Args), zap.String("dir", c.Dir))
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &ToolMissingError{Tool: c.Name}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ToolFailedError{
				Tool:     c.Name,
				Args:     c.Args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   failureText(stderr.Bytes(), stdout.Bytes()),
			}
		}
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}

// failureText picks the stream that explains a failure. Some tools (meson)
// report configuration errors on stdout.
func failureText(stderr, stdout []byte) string {
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(stdout))
}

// Output runs c and returns its trimmed stdout.
func Output(ctx context.Context, r Runner, c Cmd) (string, error) {
	res, err := r.Run(ctx, c)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// Fields runs c and splits its stdout on whitespace.
func Fields(ctx context.Context, r Runner, c Cmd) ([]string, error) {
	out, err := Output(ctx, r, c)
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// MergeEnv overlays override onto base (KEY=VALUE form) and returns a
// sorted environment.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
