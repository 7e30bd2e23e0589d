package equation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The formula dialect: stat tokens and named equation references, python
// style ternary (A if COND else B), floor division //, string literals in
// single quotes for tags and class names, `in` for tag membership, and the
// builtins min/max/abs/int/float/clamp.

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokIdent
	tokOp    // + - * / // % == != < <= > >= ( ) , .
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.pos++
		case ch >= '0' && ch <= '9':
			l.lexNumber()
		case ch == '\'' || ch == '"':
			if err := l.lexString(ch); err != nil {
				return nil, err
			}
		case isIdentStart(rune(ch)):
			l.lexIdent()
		default:
			if err := l.lexOp(); err != nil {
				return nil, err
			}
		}
	}
	l.toks = append(l.toks, token{kind: tokEOF, pos: l.pos})
	return l.toks, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func (l *lexer) lexNumber() {
	start := l.pos
	seenDot := false
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == '.' && !seenDot && l.pos+1 < len(l.src) && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9' {
			seenDot = true
			l.pos++
			continue
		}
		if ch < '0' || ch > '9' {
			break
		}
		l.pos++
	}
	l.toks = append(l.toks, token{kind: tokNumber, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) lexString(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return fmt.Errorf("unterminated string at offset %d", start)
	}
	l.toks = append(l.toks, token{kind: tokString, text: l.src[start+1 : l.pos], pos: start})
	l.pos++
	return nil
}

func (l *lexer) lexIdent() {
	start := l.pos
	for l.pos < len(l.src) {
		ch := rune(l.src[l.pos])
		if !isIdentStart(ch) && !unicode.IsDigit(ch) {
			break
		}
		l.pos++
	}
	l.toks = append(l.toks, token{kind: tokIdent, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) lexOp() error {
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "//", "==", "!=", "<=", ">=":
		l.toks = append(l.toks, token{kind: tokOp, text: two, pos: l.pos})
		l.pos += 2
		return nil
	}
	ch := l.src[l.pos]
	switch ch {
	case '+', '-', '*', '/', '%', '<', '>', '(', ')', ',', '.':
		l.toks = append(l.toks, token{kind: tokOp, text: string(ch), pos: l.pos})
		l.pos++
		return nil
	}
	return fmt.Errorf("unexpected character %q at offset %d", ch, l.pos)
}

// --- AST ---

type node interface{}

type numLit float64

type strLit string

type ident string

// attr is a dotted reference such as unit.tags or unit.klass.
type attr struct {
	base string
	name string
}

type unary struct {
	op string // "-" or "not"
	x  node
}

type binary struct {
	op   string
	l, r node
}

type ternary struct {
	cond node
	then node
	els  node
}

type call struct {
	name string
	args []node
}

// --- Parser (recursive descent) ---

type parser struct {
	toks []token
	i    int
}

// parse compiles an expression into an AST. The AST is immutable and safe
// to share between evaluations.
func parse(src string) (node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.peek().text, p.peek().pos)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) acceptOp(text string) bool {
	if p.peek().kind == tokOp && p.peek().text == text {
		p.i++
		return true
	}
	return false
}

func (p *parser) acceptKeyword(word string) bool {
	if p.peek().kind == tokIdent && p.peek().text == word {
		p.i++
		return true
	}
	return false
}

func (p *parser) expectOp(text string) error {
	if !p.acceptOp(text) {
		return fmt.Errorf("expected %q, got %q at offset %d", text, p.peek().text, p.peek().pos)
	}
	return nil
}

// parseTernary handles `A if COND else B` (right-associative on else).
func (p *parser) parseTernary() (node, error) {
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.acceptKeyword("if") {
		return then, nil
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.acceptKeyword("else") {
		return nil, fmt.Errorf("ternary missing else at offset %d", p.peek().pos)
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return ternary{cond: cond, then: then, els: els}, nil
}

func (p *parser) parseOr() (node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("or") {
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = binary{op: "or", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseAnd() (node, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("and") {
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l = binary{op: "and", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseNot() (node, error) {
	if p.acceptKeyword("not") {
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return unary{op: "not", x: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	l, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokOp {
		switch p.peek().text {
		case "==", "!=", "<", "<=", ">", ">=":
			op := p.next().text
			r, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return binary{op: op, l: l, r: r}, nil
		}
	}
	if p.acceptKeyword("in") {
		r, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return binary{op: "in", l: l, r: r}, nil
	}
	return l, nil
}

func (p *parser) parseAdditive() (node, error) {
	l, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			r, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			l = binary{op: "+", l: l, r: r}
		case p.acceptOp("-"):
			r, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			l = binary{op: "-", l: l, r: r}
		default:
			return l, nil
		}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("//"):
			op = "//"
		case p.acceptOp("*"):
			op = "*"
		case p.acceptOp("/"):
			op = "/"
		case p.acceptOp("%"):
			op = "%"
		default:
			return l, nil
		}
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = binary{op: op, l: l, r: r}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.acceptOp("-") {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{op: "-", x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", t.text, err)
		}
		return numLit(f), nil

	case tokString:
		p.next()
		return strLit(t.text), nil

	case tokIdent:
		p.next()
		// Function call
		if p.acceptOp("(") {
			var args []node
			if !p.acceptOp(")") {
				for {
					a, err := p.parseTernary()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if p.acceptOp(",") {
						continue
					}
					if err := p.expectOp(")"); err != nil {
						return nil, err
					}
					break
				}
			}
			return call{name: t.text, args: args}, nil
		}
		// Dotted attribute (unit.tags, unit.klass, ...)
		if p.acceptOp(".") {
			name := p.peek()
			if name.kind != tokIdent {
				return nil, fmt.Errorf("expected attribute name at offset %d", name.pos)
			}
			p.next()
			return attr{base: t.text, name: name.text}, nil
		}
		return ident(t.text), nil

	case tokOp:
		if t.text == "(" {
			p.next()
			n, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
}
