package gq

// Call is one builtin invocation, e.g. select(select: "li") { ... }.
type Call struct {
	Name   string
	Offset int
	Args   []Arg
	Fields []Field
}

// Arg is a named string literal argument.
type Arg struct {
	Name   string
	Value  string
	Offset int
}

// Field is an entry of a field block; its output key is the alias when
// present and the call name otherwise.
type Field struct {
	Alias string
	Call  *Call
}

func (f Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Call.Name
}

func (c *Call) Arg(name string) (string, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

type parser struct {
	input  string
	tokens []token
	index  int
}

// Parse parses query text into its root call. The returned error is a
// *SyntaxError for malformed text; semantic checks happen in Validate.
func Parse(input string) (*Call, error) {
	tokens, lexErr := lexQuery(input)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{input: input, tokens: tokens}
	c, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, syntaxError(input, t.offset, "unexpected %q after top level call", t.val)
	}
	return c, nil
}

func (p *parser) next() token {
	if p.index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	t := p.tokens[p.index]
	p.index++
	return t
}

func (p *parser) peek() token {
	t := p.next()
	p.index--
	return t
}

func (p *parser) peekAt(offset int) token {
	if i := p.index + offset; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, syntaxError(p.input, t.offset, "expected %s, got %s", what, describe(t))
	}
	return t, nil
}

func (p *parser) parseCall() (*Call, error) {
	name, err := p.expect(tokenIdent, "call name")
	if err != nil {
		return nil, err
	}
	c := &Call{Name: name.val, Offset: name.offset}
	if p.peek().kind == tokenLParen {
		p.next()
		if p.peek().kind != tokenRParen {
			if err := p.parseArgs(c); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
	}
	if p.peek().kind == tokenLBrace {
		if err := p.parseFields(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (p *parser) parseArgs(c *Call) error {
	for {
		name, err := p.expect(tokenIdent, "argument name")
		if err != nil {
			return err
		}
		if _, err := p.expect(tokenColon, "':'"); err != nil {
			return err
		}
		value, err := p.expect(tokenString, "string literal")
		if err != nil {
			return err
		}
		if _, ok := c.Arg(name.val); ok {
			return syntaxError(p.input, name.offset, "duplicate argument %q", name.val)
		}
		c.Args = append(c.Args, Arg{Name: name.val, Value: value.val, Offset: value.offset})
		if p.peek().kind != tokenComma {
			return nil
		}
		p.next()
	}
}

func (p *parser) parseFields(c *Call) error {
	p.next() // {
	if p.peek().kind == tokenRBrace {
		return syntaxError(p.input, p.peek().offset, "empty field block")
	}
	keys := map[string]bool{}
	for p.peek().kind != tokenRBrace {
		f, err := p.parseField()
		if err != nil {
			return err
		}
		if keys[f.Key()] {
			return syntaxError(p.input, f.Call.Offset, "duplicate field key %q", f.Key())
		}
		keys[f.Key()] = true
		c.Fields = append(c.Fields, f)
	}
	p.next() // }
	return nil
}

func (p *parser) parseField() (Field, error) {
	f := Field{}
	if p.peek().kind == tokenIdent && p.peekAt(1).kind == tokenColon {
		f.Alias = p.next().val
		p.next() // :
	}
	call, err := p.parseCall()
	if err != nil {
		return f, err
	}
	f.Call = call
	return f, nil
}

func describe(t token) string {
	switch t.kind {
	case tokenEOF:
		return "end of query"
	case tokenString:
		return "string literal"
	default:
		return "'" + t.val + "'"
	}
}
