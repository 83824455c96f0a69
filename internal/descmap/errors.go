package descmap

import "fmt"

// FormatError reports malformed map text. Offset is the 1-based byte
// offset within Line.
type FormatError struct {
	Line   int
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid map format at offset %d of line %d: %s", e.Offset, e.Line, e.Msg)
}

// UnknownFieldError reports a field keyword other than function, var or
// type.
type UnknownFieldError struct {
	Field string
	Line  int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q at line %d", e.Field, e.Line)
}

// IncompleteDescriptorError reports input that ended inside a block.
type IncompleteDescriptorError struct {
	Name string
	Line int
}

func (e *IncompleteDescriptorError) Error() string {
	return fmt.Sprintf("descriptor %q opened at line %d is not closed with \"};\"", e.Name, e.Line)
}
