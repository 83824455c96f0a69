package dependency

import (
	"fmt"
	"strings"
)

// IntegrityError reports a downloaded archive whose checksum differs from
// the pinned one.
type IntegrityError struct {
	File      string
	Algorithm string
	Want      string
	Got       string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s checksum of %s is %s, want %s", e.Algorithm, e.File, e.Got, e.Want)
}

// SourceNotFoundError reports that none of the expected top-level
// directories appeared after extraction.
type SourceNotFoundError struct {
	Candidates []string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("cannot find extracted source, tried %s", strings.Join(e.Candidates, ", "))
}
