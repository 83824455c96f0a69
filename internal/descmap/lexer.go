package descmap

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokWord
	tokLBrace
	tokRBrace
	tokSemi
	tokColon
)

type token struct {
	kind tokenKind
	text string
	line int
	off  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "end of line"
	case tokWord:
		return fmt.Sprintf("%q", t.text)
	}
	return fmt.Sprintf("'%s'", t.text)
}

// checkBytes rejects anything outside printable ASCII. Line feeds, tabs
// and carriage returns are the only control bytes allowed.
func checkBytes(data []byte) error {
	line, off := 1, 0
	for _, c := range data {
		off++
		switch {
		case c == '\n':
			line++
			off = 0
		case c == '\t' || c == '\r':
		case c < 0x20 || c > 0x7e:
			return &FormatError{Line: line, Offset: off, Msg: fmt.Sprintf("byte 0x%02x is not printable ASCII", c)}
		}
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isPunct(c byte) bool {
	switch c {
	case '{', '}', ';', ':', '\n':
		return true
	}
	return false
}

// lex splits validated input into tokens. The result always ends with a
// tokEOF.
func lex(data []byte) []token {
	var toks []token
	line, lineStart := 1, 0
	for i := 0; i < len(data); {
		c := data[i]
		off := i - lineStart + 1
		switch {
		case isSpace(c):
			i++
		case c == '\n':
			toks = append(toks, token{kind: tokNewline, text: "\n", line: line, off: off})
			i++
			line++
			lineStart = i
		case isPunct(c):
			toks = append(toks, token{kind: punctKind(c), text: string(c), line: line, off: off})
			i++
		default:
			start := i
			for i < len(data) && !isSpace(data[i]) && !isPunct(data[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: string(data[start:i]), line: line, off: off})
		}
	}
	return append(toks, token{kind: tokEOF, line: line, off: len(data) - lineStart + 1})
}

func punctKind(c byte) tokenKind {
	switch c {
	case '{':
		return tokLBrace
	case '}':
		return tokRBrace
	case ';':
		return tokSemi
	}
	return tokColon
}
