// Package toolexectest provides a scripted toolexec.Runner for tests.
package toolexectest

import (
	"context"
	"strings"

	"github.com/goplus/dpdkgen/internal/toolexec"
)

// Handler scripts the behaviour of one tool. Returning a nil Result with a
// nil error counts as success with empty output.
type Handler func(cmd toolexec.Cmd) (*toolexec.Result, error)

// Runner is a fake toolexec.Runner. Tools without a handler are reported
// missing.
type Runner struct {
	handlers map[string]Handler
	Calls    []toolexec.Cmd
}

// New returns an empty fake runner.
func New() *Runner {
	return &Runner{handlers: map[string]Handler{}}
}

// Handle registers h for tool name.
func (r *Runner) Handle(name string, h Handler) *Runner {
	r.handlers[name] = h
	return r
}

// Stdout registers a tool that always succeeds printing out.
func (r *Runner) Stdout(name, out string) *Runner {
	return r.Handle(name, func(toolexec.Cmd) (*toolexec.Result, error) {
		return &toolexec.Result{Stdout: []byte(out)}, nil
	})
}

// Fail registers a tool that always exits with code 1 and the given stderr.
func (r *Runner) Fail(name, stderr string) *Runner {
	return r.Handle(name, func(c toolexec.Cmd) (*toolexec.Result, error) {
		return nil, &toolexec.ToolFailedError{Tool: c.Name, Args: c.Args, ExitCode: 1, Stderr: stderr}
	})
}

func (r *Runner) Run(_ context.Context, c toolexec.Cmd) (*toolexec.Result, error) {
	r.Calls = append(r.Calls, c)
	h, ok := r.handlers[c.Name]
	if !ok {
		return nil, &toolexec.ToolMissingError{Tool: c.Name}
	}
	res, err := h(c)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &toolexec.Result{}
	}
	return res, nil
}

// Commands returns the recorded invocations as "name arg..." strings.
func (r *Runner) Commands() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many times tool name was invoked.
func (r *Runner) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps handlers.
func (r *Runner) Reset() {
	r.Calls = nil
}

// HasArg reports whether c has arg among its arguments.
func HasArg(c toolexec.Cmd, arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// ArgAfter returns the argument following flag, or "".
func ArgAfter(c toolexec.Cmd, flag string) string {
	for i, a := range c.Args {
		if a == flag && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v
		}
	}
	return ""
}
