package toolexec

import (
	"fmt"
	"strings"
)

// ToolMissingError reports that an executable could not be found.
type ToolMissingError struct {
	Tool string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("tool %q not found in PATH, please install it", e.Tool)
}

// ToolFailedError reports a non-zero exit of an external tool.
type ToolFailedError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ToolFailedError) Error() string {
	cmdline := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit status %d", cmdline, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", cmdline, e.ExitCode, e.Stderr)
}

// VersionMismatchError reports a tool or dependency whose version does not
// satisfy the requirement.
type VersionMismatchError struct {
	Subject string
	Got     string
	Want    string
	// Rule is "at least" for minimum versions and "prefix" for exact
	// version pins.
	Rule string
}

func (e *VersionMismatchError) Error() string {
	switch e.Rule {
	case "prefix":
		return fmt.Sprintf("%s version %q does not match required %q", e.Subject, e.Got, e.Want)
	default:
		return fmt.Sprintf("%s version %q is older than required %q", e.Subject, e.Got, e.Want)
	}
}
