package descmap

import "fmt"

// Parse parses descriptor map text. Descriptors are returned in file
// order and identifiers in declaration order.
func Parse(data []byte) ([]Descriptor, error) {
	if err := checkBytes(data); err != nil {
		return nil, err
	}
	p := &parser{toks: lex(data)}
	return p.parseFile()
}

type parser struct {
	toks []token
	pos  int

	// block being parsed, nil between blocks
	open     *Descriptor
	openLine int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() {
	if p.toks[p.pos].kind != tokEOF {
		p.pos++
	}
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.advance()
	}
}

// errorf builds a FormatError at t, or an IncompleteDescriptorError when
// the input ran out inside a block.
func (p *parser) errorf(t token, format string, args ...any) error {
	if t.kind == tokEOF && p.open != nil {
		return &IncompleteDescriptorError{Name: p.open.Name, Line: p.openLine}
	}
	return &FormatError{Line: t.line, Offset: t.off, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) error {
	if t := p.peek(); t.kind != kind {
		return p.errorf(t, "expected %s, found %s", what, t)
	}
	p.advance()
	return nil
}

func (p *parser) parseFile() ([]Descriptor, error) {
	var descs []Descriptor
	for {
		p.skipNewlines()
		if p.peek().kind == tokEOF {
			return descs, nil
		}
		d, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
}

// block := NAME '{' NEWLINE field* '}' ';'
func (p *parser) parseBlock() (Descriptor, error) {
	name := p.peek()
	if name.kind != tokWord {
		return Descriptor{}, p.errorf(name, "expected descriptor name, found %s", name)
	}
	if !validName(name.text) {
		return Descriptor{}, p.errorf(name, "invalid descriptor name %q", name.text)
	}
	p.advance()
	p.open = &Descriptor{Name: name.text}
	p.openLine = name.line

	if err := p.expect(tokLBrace, "'{'"); err != nil {
		return Descriptor{}, err
	}
	if err := p.expect(tokNewline, "end of line after '{'"); err != nil {
		return Descriptor{}, err
	}
	for {
		p.skipNewlines()
		if p.peek().kind == tokRBrace {
			p.advance()
			if err := p.expect(tokSemi, "';' after '}'"); err != nil {
				return Descriptor{}, err
			}
			d := *p.open
			p.open = nil
			return d, nil
		}
		if err := p.parseField(); err != nil {
			return Descriptor{}, err
		}
	}
}

// field := KEY ':' NEWLINE ident (';' NEWLINE? ident)* ';'? NEWLINE
func (p *parser) parseField() error {
	key := p.peek()
	if key.kind != tokWord {
		return p.errorf(key, "expected field keyword, found %s", key)
	}
	p.advance()
	if err := p.expect(tokColon, fmt.Sprintf("':' after %q", key.text)); err != nil {
		return err
	}
	list := p.open.field(key.text)
	if list == nil {
		return &UnknownFieldError{Field: key.text, Line: key.line}
	}
	if err := p.expect(tokNewline, fmt.Sprintf("end of line after %q", key.text+":")); err != nil {
		return err
	}
	p.skipNewlines()

	for {
		ident := p.peek()
		if ident.kind != tokWord {
			return p.errorf(ident, "expected identifier in %s list, found %s", key.text, ident)
		}
		p.advance()
		*list = append(*list, ident.text)

		switch t := p.peek(); t.kind {
		case tokSemi:
			p.advance()
			if p.peek().kind == tokNewline {
				p.advance()
				if p.fieldEnds() {
					return nil
				}
			}
		case tokNewline:
			// no ';' before the line end: this was the last identifier
			p.advance()
			return nil
		default:
			return p.errorf(t, "expected ';' or end of line after %q, found %s", ident.text, t)
		}
	}
}

// fieldEnds reports whether the token after "ident;\n" closes the current
// field: a blank line, the closing brace, the next "key:" or end of input.
func (p *parser) fieldEnds() bool {
	switch p.peek().kind {
	case tokNewline, tokRBrace, tokEOF:
		return true
	case tokWord:
		return p.peekAt(1).kind == tokColon
	}
	return false
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
