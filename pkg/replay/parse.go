// Package replay parses the code produced by a trace session and executes it
// against a toolkit.
//
// The language is the flat statement form emitted by trace.Session.Code:
//
//	name = Class(parent, key=value)
//	name.method(arg, key=value)
//	name.attr = value
//	name["key"] = value
//	tk.connect(sender, "signal", receiver, "slot")
//	// comment
//
// Values are nil, true, false, Go-quoted strings, integers, floats with a
// decimal point or exponent, bracketed lists and names. A call to a
// capitalised name that is not bound is a construction: its first
// positional argument is the parent.
package replay

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/go-drift/tracegen/pkg/errors"
)

type token struct {
	kind rune
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case scanner.EOF:
		return "end of input"
	case '\n':
		return "end of line"
	}
	return strconv.Quote(t.text)
}

func lex(src string) ([]token, error) {
	var (
		s    scanner.Scanner
		toks []token
		err  error
	)
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanComments
	s.Whitespace = 1<<' ' | 1<<'\t' | 1<<'\r'
	s.Error = func(s *scanner.Scanner, msg string) {
		if err == nil {
			pos := s.Pos()
			err = errors.Errorf("replay.Parse", errors.KindReplay, "%d:%d: %s", pos.Line, pos.Column, msg)
		}
	}
	for {
		kind := s.Scan()
		pos := s.Position
		toks = append(toks, token{kind: kind, text: s.TokenText(), line: pos.Line, col: pos.Column})
		if err != nil {
			return nil, err
		}
		if kind == scanner.EOF {
			return toks, nil
		}
	}
}

type parser struct {
	toks []token
	pos  int
}

// Parse parses generated code.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog := &Program{}
	for {
		p.skipNewlines()
		if p.peek().kind == scanner.EOF {
			return prog, nil
		}
		st, err := p.stmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, st)
	}
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

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.peek().kind == '\n' {
		p.pos++
	}
}

func (p *parser) errorf(t token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errors.Errorf("replay.Parse", errors.KindReplay, "%d:%d: %s", t.line, t.col, msg)
}

func (p *parser) expect(kind rune) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t, "expected %q, found %v", string(kind), t)
	}
	return t, nil
}

func (p *parser) stmt() (Stmt, error) {
	start := p.peek()
	if start.kind == scanner.Comment {
		p.next()
		if err := p.endOfStmt(); err != nil {
			return nil, err
		}
		return &CommentStmt{Pos: start.line, Text: commentText(start.text)}, nil
	}

	lhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != '=' {
		if err := p.endOfStmt(); err != nil {
			return nil, err
		}
		return &ExprStmt{Pos: start.line, X: lhs}, nil
	}
	p.next()
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStmt(); err != nil {
		return nil, err
	}
	switch x := lhs.(type) {
	case *Ident:
		return &AssignStmt{Pos: start.line, Name: x.Name, X: rhs}, nil
	case *Selector:
		return &AttrStmt{Pos: start.line, Target: x.X, Name: x.Name, X: rhs}, nil
	case *Index:
		return &ItemStmt{Pos: start.line, Target: x.X, Key: x.Key, X: rhs}, nil
	}
	return nil, p.errorf(start, "cannot assign to this expression")
}

func (p *parser) endOfStmt() error {
	switch t := p.peek(); t.kind {
	case '\n':
		p.next()
		return nil
	case scanner.EOF:
		return nil
	default:
		return p.errorf(t, "unexpected %v after statement", t)
	}
}

func commentText(text string) string {
	if rest, ok := strings.CutPrefix(text, "//"); ok {
		return strings.TrimPrefix(rest, " ")
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	return strings.TrimSpace(text)
}

func (p *parser) expr() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case '.':
			p.next()
			name, err := p.expect(scanner.Ident)
			if err != nil {
				return nil, err
			}
			x = &Selector{X: x, Name: name.text}
		case '[':
			p.next()
			key, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(']'); err != nil {
				return nil, err
			}
			x = &Index{X: x, Key: key}
		case '(':
			c, err := p.call(x)
			if err != nil {
				return nil, err
			}
			x = c
		default:
			return x, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case scanner.Ident:
		switch t.text {
		case "nil":
			return &Literal{}, nil
		case "true":
			return &Literal{Value: true}, nil
		case "false":
			return &Literal{Value: false}, nil
		}
		return &Ident{Name: t.text}, nil
	case scanner.Int, scanner.Float:
		return p.number(t, false)
	case '-':
		n := p.next()
		if n.kind != scanner.Int && n.kind != scanner.Float {
			return nil, p.errorf(n, "expected a number after '-', found %v", n)
		}
		return p.number(n, true)
	case scanner.String:
		s, err := strconv.Unquote(t.text)
		if err != nil {
			return nil, p.errorf(t, "bad string %s: %v", t.text, err)
		}
		return &Literal{Value: s}, nil
	case '[':
		elems, err := p.list(']')
		if err != nil {
			return nil, err
		}
		return &List{Elems: elems}, nil
	case '(':
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(')'); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, p.errorf(t, "unexpected %v", t)
}

func (p *parser) number(t token, neg bool) (Expr, error) {
	text := t.text
	if neg {
		text = "-" + text
	}
	if t.kind == scanner.Int {
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, p.errorf(t, "bad integer %s: %v", text, err)
		}
		return &Literal{Value: int(n)}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(t, "bad float %s: %v", text, err)
	}
	return &Literal{Value: f}, nil
}

// list parses comma-separated expressions up to the closing token, which is
// consumed. A trailing comma is allowed.
func (p *parser) list(end rune) ([]Expr, error) {
	var elems []Expr
	for {
		if p.peek().kind == end {
			p.next()
			return elems, nil
		}
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, x)
		if p.peek().kind == ',' {
			p.next()
			continue
		}
		if _, err := p.expect(end); err != nil {
			return nil, err
		}
		return elems, nil
	}
}

func (p *parser) call(fn Expr) (*Call, error) {
	open := p.next()
	c := &Call{Func: fn}
	for {
		if p.peek().kind == ')' {
			p.next()
			return c, nil
		}
		if p.peek().kind == scanner.Ident && p.peekAt(1).kind == '=' {
			name := p.next()
			p.next()
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			c.Kw = append(c.Kw, Keyword{Name: name.text, Value: v})
		} else {
			if len(c.Kw) > 0 {
				return nil, p.errorf(p.peek(), "positional argument after keyword argument")
			}
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, v)
		}
		switch t := p.next(); t.kind {
		case ',':
		case ')':
			return c, nil
		default:
			return nil, p.errorf(t, "expected ',' or ')' in call opened at %d:%d, found %v", open.line, open.col, t)
		}
	}
}
