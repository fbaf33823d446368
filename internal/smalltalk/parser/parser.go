// Package parser is the recursive-descent Smalltalk expression parser.
// It consumes the token stream produced by internal/smalltalk/lexer and
// builds the tagged-variant AST defined in internal/smalltalk/ast,
// enforcing message precedence (unary > binary > keyword), block/literal
// array/byte array grammar and pseudo-variable binding restrictions.
//
// Structured the way the teacher's runtime/parser/parser.go walks its
// token stream method-by-method (one function per grammar production),
// generalized from opal's event-emitting style to direct AST
// construction, since spec.md's data model calls for a concrete tagged
// tree rather than a replayable event log.
package parser

import (
	"strconv"
	"strings"

	"github.com/opal-lang/tonel/internal/diag"
	"github.com/opal-lang/tonel/internal/smalltalk/ast"
	"github.com/opal-lang/tonel/internal/smalltalk/lexer"
	"github.com/opal-lang/tonel/internal/smalltalk/token"
)

// Parser holds the token stream and cursor for one method body parse.
type Parser struct {
	src    string
	tokens []token.Token
	pos    int
}

// Parse tokenizes and parses src (normally a Tonel method body) into a
// SmalltalkSequence. On the first error, parsing stops and that error is
// returned — no recovery is attempted, per spec.md §4.3's error policy.
func Parse(src string) (*ast.SmalltalkSequence, error) {
	toks, err := lexer.All(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{src: src, tokens: toks}
	seq, err := p.parseSequence(token.EOF)
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.EOF {
		return nil, p.errorAt(diag.UnexpectedToken, p.current(), "unexpected trailing content")
	}
	return seq, nil
}

func (p *Parser) current() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekNext() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) sourceLine(line int) string {
	lines := strings.Split(p.src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func (p *Parser) errorAt(kind diag.Kind, t token.Token, reason string) error {
	return diag.New(kind, reason, t.Pos.Line, t.Pos.Column, p.sourceLine(t.Pos.Line))
}

func (p *Parser) expect(tt token.Type, kind diag.Kind, what string) (token.Token, error) {
	if p.current().Type != tt {
		return token.Token{}, p.errorAt(kind, p.current(), "expected "+what+", got "+p.current().Type.String())
	}
	return p.advance(), nil
}

func bindable(name string) bool { return !token.PseudoVariables[name] }

func (p *Parser) checkBindable(t token.Token) error {
	if token.PseudoVariables[t.Text] {
		return p.errorAt(diag.ReservedIdentifier, t, "ReservedIdentifier: "+diag.SuggestPseudoVariableFix(t.Text))
	}
	return nil
}

// parseSequence parses temporaries? statement (PERIOD statement)* PERIOD?
// stopping at end or at closeTok, the token type that terminates the
// enclosing construct (RBRACKET for a block body, EOF for a method body).
func (p *Parser) parseSequence(closeTok token.Type) (*ast.SmalltalkSequence, error) {
	start := p.current().Pos
	seq := &ast.SmalltalkSequence{}
	seq.Pos = start

	if p.current().Type == token.PIPE {
		temps, err := p.parseTempDecl()
		if err != nil {
			return nil, err
		}
		seq.Temps = temps
	}

	var statements []ast.Node
	for p.current().Type != closeTok && p.current().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		if p.current().Type == token.PERIOD {
			p.advance()
			continue
		}
		break
	}

	// Leading contiguous pragmas are lifted into their own field; the
	// rest remain ordinary statements. Pragmas may legally also appear
	// later in a degenerate body, where they stay plain statements.
	i := 0
	for i < len(statements) {
		pr, ok := statements[i].(*ast.Pragma)
		if !ok {
			break
		}
		seq.Pragmas = append(seq.Pragmas, pr)
		i++
	}
	seq.Statements = statements[i:]

	return seq, nil
}

func (p *Parser) parseTempDecl() ([]string, error) {
	p.advance() // opening PIPE
	var names []string
	for p.current().Type == token.IDENTIFIER {
		t := p.advance()
		if err := p.checkBindable(t); err != nil {
			return nil, err
		}
		names = append(names, t.Text)
	}
	if _, err := p.expect(token.PIPE, diag.ExpectedPipe, "'|' to close temporary variable declaration"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	if p.current().Type == token.RETURN {
		pos := p.advance().Pos
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Base: ast.Base{Pos: pos}, Value: val}, nil
	}
	return p.parseExpression()
}

func (p *Parser) parseExpression() (ast.Node, error) {
	if p.current().Type == token.IDENTIFIER && p.peekNext().Type == token.ASSIGN {
		target := p.advance()
		if err := p.checkBindable(target); err != nil {
			return nil, err
		}
		p.advance() // ASSIGN
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Base: ast.Base{Pos: target.Pos}, Target: target.Text, Value: value}, nil
	}
	return p.parseCascadeOrSend()
}

func (p *Parser) parseCascadeOrSend() (ast.Node, error) {
	first, err := p.parseKeywordSend()
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.SEMICOLON {
		return first, nil
	}

	send, ok := first.(*ast.MessageSend)
	if !ok {
		return nil, p.errorAt(diag.UnexpectedToken, p.current(), "cascade requires a preceding message send")
	}
	cascade := &ast.Cascade{Receiver: send.Receiver, First: send}
	cascade.Pos = send.Position()

	for p.current().Type == token.SEMICOLON {
		p.advance()
		msg, err := p.parseCascadeMessage()
		if err != nil {
			return nil, err
		}
		cascade.Rest = append(cascade.Rest, msg)
	}
	return cascade, nil
}

// parseCascadeMessage parses one "selector arg..." cascade part, sent to
// the cascade's shared (implicit) receiver.
func (p *Parser) parseCascadeMessage() (ast.CascadeMessage, error) {
	switch p.current().Type {
	case token.KEYWORD:
		var parts []string
		var args []ast.Node
		for p.current().Type == token.KEYWORD {
			kw := p.advance()
			parts = append(parts, strings.TrimSuffix(kw.Text, ":"))
			arg, err := p.parseBinarySend()
			if err != nil {
				return ast.CascadeMessage{}, err
			}
			args = append(args, arg)
		}
		return ast.CascadeMessage{Kind: ast.SendKeyword, Selector: strings.Join(parts, ":") + ":", Args: args}, nil
	case token.IDENTIFIER:
		name := p.advance()
		return ast.CascadeMessage{Kind: ast.SendUnary, Selector: name.Text}, nil
	case token.BINARY_SELECTOR:
		sel := p.advance()
		arg, err := p.parseUnarySend()
		if err != nil {
			return ast.CascadeMessage{}, err
		}
		return ast.CascadeMessage{Kind: ast.SendBinary, Selector: sel.Text, Args: []ast.Node{arg}}, nil
	default:
		return ast.CascadeMessage{}, p.errorAt(diag.ExpectedExpression, p.current(), "expected a cascaded message")
	}
}

// parseKeywordSend implements keyword-send := binary-send (KEYWORD
// binary-send)+ , otherwise binary-send — one keyword message per
// nesting level, right-associative only in the sense that its own
// argument expressions may themselves contain nested keyword sends
// (inside parens or blocks), never by chaining keywords here.
func (p *Parser) parseKeywordSend() (ast.Node, error) {
	receiver, err := p.parseBinarySend()
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.KEYWORD {
		return receiver, nil
	}
	pos := receiver.Position()
	var parts []string
	var args []ast.Node
	for p.current().Type == token.KEYWORD {
		kw := p.advance()
		parts = append(parts, strings.TrimSuffix(kw.Text, ":"))
		arg, err := p.parseBinarySend()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.MessageSend{
		Base:     ast.Base{Pos: pos},
		Kind:     ast.SendKeyword,
		Receiver: receiver,
		Selector: strings.Join(parts, ":") + ":",
		Args:     args,
	}, nil
}

func (p *Parser) parseBinarySend() (ast.Node, error) {
	left, err := p.parseUnarySend()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.BINARY_SELECTOR {
		sel := p.advance()
		right, err := p.parseUnarySend()
		if err != nil {
			return nil, err
		}
		left = &ast.MessageSend{
			Base:     ast.Base{Pos: left.Position()},
			Kind:     ast.SendBinary,
			Receiver: left,
			Selector: sel.Text,
			Args:     []ast.Node{right},
		}
	}
	return left, nil
}

func (p *Parser) parseUnarySend() (ast.Node, error) {
	recv, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.IDENTIFIER {
		sel := p.advance()
		recv = &ast.MessageSend{
			Base:     ast.Base{Pos: recv.Position()},
			Kind:     ast.SendUnary,
			Receiver: recv,
			Selector: sel.Text,
		}
	}
	return recv, nil
}

func (p *Parser) parseOperand() (ast.Node, error) {
	t := p.current()
	switch t.Type {
	case token.INTEGER:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitInteger, Value: t.Text}, nil
	case token.RADIX_INTEGER:
		p.advance()
		if err := validateRadixInteger(t.Text); err != nil {
			return nil, p.errorAt(diag.BadRadixDigit, t, err.Error())
		}
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitRadixInteger, Value: t.Text}, nil
	case token.FLOAT:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitFloat, Value: t.Text}, nil
	case token.SCALED_DECIMAL:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitScaledDecimal, Value: t.Text}, nil
	case token.STRING:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitString, Value: t.Text}, nil
	case token.SYMBOL:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: t.Text}, nil
	case token.CHAR:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitChar, Value: t.Text}, nil
	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Base: ast.Base{Pos: t.Pos}, Name: t.Text}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, diag.UnexpectedToken, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseBlock()
	case token.LBRACE:
		return p.parseDynamicArray()
	case token.HASH_LPAREN:
		return p.parseLiteralArray()
	case token.HASH_LBRACKET:
		return p.parseByteArray()
	case token.BINARY_SELECTOR:
		if t.Text == "<" {
			return p.parsePragma()
		}
		return nil, p.errorAt(diag.ExpectedExpression, t, "expected an expression, got "+t.Type.String())
	default:
		return nil, p.errorAt(diag.ExpectedExpression, t, "expected an expression, got "+t.Type.String())
	}
}

func (p *Parser) parseBlock() (ast.Node, error) {
	open := p.advance() // LBRACKET
	var params []string

	if p.current().Type == token.COLON_PARAM {
		for p.current().Type == token.COLON_PARAM {
			pt := p.advance()
			if err := p.checkBindable(pt); err != nil {
				return nil, err
			}
			params = append(params, pt.Text)
		}
		if len(params) == 0 {
			return nil, p.errorAt(diag.EmptyBlockParameterList, p.current(), "block parameter list must name at least one parameter")
		}
		if _, err := p.expect(token.PIPE, diag.ExpectedPipe, "'|' to close block parameter list"); err != nil {
			return nil, err
		}
	}

	if err := checkDisjoint(params); err != nil {
		return nil, p.errorAt(diag.DuplicateTemporary, open, err.Error())
	}

	body, err := p.parseSequence(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	if err := checkDisjointAll(params, body.Temps); err != nil {
		return nil, p.errorAt(diag.DuplicateTemporary, open, err.Error())
	}
	if _, err := p.expect(token.RBRACKET, diag.ExpectedRBracket, "']' to close block"); err != nil {
		return nil, err
	}

	return &ast.Block{Base: ast.Base{Pos: open.Pos}, Params: params, Temps: body.Temps, Body: body}, nil
}

func checkDisjoint(names []string) error {
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			return &dupErr{n}
		}
		seen[n] = true
	}
	return nil
}

func checkDisjointAll(a, b []string) error {
	seen := map[string]bool{}
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if seen[n] {
			return &dupErr{n}
		}
		seen[n] = true
	}
	return nil
}

type dupErr struct{ name string }

func (e *dupErr) Error() string { return "duplicate temporary/parameter name: " + e.name }

func (p *Parser) parseDynamicArray() (ast.Node, error) {
	open := p.advance() // LBRACE
	var elems []ast.Node
	if p.current().Type != token.RBRACE {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.current().Type == token.PERIOD {
				p.advance()
				if p.current().Type == token.RBRACE {
					break
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBRACE, diag.UnexpectedToken, "'}' to close dynamic array"); err != nil {
		return nil, err
	}
	return &ast.DynamicArray{Base: ast.Base{Pos: open.Pos}, Elements: elems}, nil
}

func (p *Parser) parseLiteralArray() (ast.Node, error) {
	open := p.advance() // HASH_LPAREN
	items, err := p.parseLiteralArrayItems(token.RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, diag.UnexpectedToken, "')' to close literal array"); err != nil {
		return nil, err
	}
	return &ast.LiteralArray{Base: ast.Base{Pos: open.Pos}, Items: items}, nil
}

// parseLiteralArrayItems parses the element sequence shared by #(...) and
// a bare parenthesized nested group inside one; it stops at the token
// type the caller will itself consume as the closer.
func (p *Parser) parseLiteralArrayItems(closeTok token.Type) ([]ast.Node, error) {
	var items []ast.Node
	for p.current().Type != closeTok && p.current().Type != token.EOF {
		item, err := p.parseLiteralArrayItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Parser) parseLiteralArrayItem() (ast.Node, error) {
	t := p.current()
	switch t.Type {
	case token.HASH_LPAREN:
		p.advance()
		items, err := p.parseLiteralArrayItems(token.RPAREN)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, diag.UnexpectedToken, "')'"); err != nil {
			return nil, err
		}
		return &ast.LiteralArray{Base: ast.Base{Pos: t.Pos}, Items: items}, nil
	case token.LPAREN:
		// A bare parenthesized group inside a literal array is itself a
		// nested literal array, at arbitrary depth — resolving spec.md
		// §9's open question in favor of the general case rather than
		// the single-level behavior the original tool's README hints at.
		p.advance()
		items, err := p.parseLiteralArrayItems(token.RPAREN)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, diag.UnexpectedToken, "')'"); err != nil {
			return nil, err
		}
		return &ast.LiteralArray{Base: ast.Base{Pos: t.Pos}, Items: items}, nil
	case token.HASH_LBRACKET:
		return p.parseByteArray()
	case token.INTEGER:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitInteger, Value: t.Text}, nil
	case token.RADIX_INTEGER:
		p.advance()
		if err := validateRadixInteger(t.Text); err != nil {
			return nil, p.errorAt(diag.BadRadixDigit, t, err.Error())
		}
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitRadixInteger, Value: t.Text}, nil
	case token.FLOAT:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitFloat, Value: t.Text}, nil
	case token.SCALED_DECIMAL:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitScaledDecimal, Value: t.Text}, nil
	case token.STRING:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitString, Value: t.Text}, nil
	case token.SYMBOL:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: t.Text}, nil
	case token.CHAR:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitChar, Value: t.Text}, nil
	case token.IDENTIFIER:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: t.Text}, nil
	case token.KEYWORD:
		// A bare sequence of keyword parts inside a literal array (e.g.
		// #(at:put:)) interns as one keyword symbol.
		var parts []string
		for p.current().Type == token.KEYWORD {
			parts = append(parts, p.advance().Text)
		}
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: strings.Join(parts, "")}, nil
	case token.BINARY_SELECTOR:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: t.Text}, nil
	case token.SEMICOLON:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: ";"}, nil
	case token.COMMA:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: ","}, nil
	default:
		return nil, p.errorAt(diag.UnexpectedToken, t, "unexpected token inside literal array: "+t.Type.String())
	}
}

func (p *Parser) parseByteArray() (ast.Node, error) {
	open := p.advance() // HASH_LBRACKET
	var bytes []byte
	for p.current().Type == token.INTEGER {
		t := p.advance()
		n, err := strconv.Atoi(t.Text)
		if err != nil || n < 0 || n > 255 {
			return nil, p.errorAt(diag.ByteOutOfRange, t, "byte value out of range 0..255: "+t.Text)
		}
		bytes = append(bytes, byte(n))
	}
	if _, err := p.expect(token.RBRACKET, diag.UnexpectedToken, "']' to close byte array"); err != nil {
		return nil, err
	}
	return &ast.ByteArray{Base: ast.Base{Pos: open.Pos}, Bytes: bytes}, nil
}

// parsePragma parses "<keyword: arg ...>" or "<unary>". Primitive-call
// pragmas ("<primitive: 42>") need no special node: they are an ordinary
// keyword pragma whose argument happens to be an integer literal.
func (p *Parser) parsePragma() (ast.Node, error) {
	open := p.advance() // BINARY_SELECTOR "<"

	if p.current().Type == token.IDENTIFIER {
		name := p.advance()
		if err := p.expectPragmaClose(); err != nil {
			return nil, err
		}
		return &ast.Pragma{Base: ast.Base{Pos: open.Pos}, Selector: name.Text}, nil
	}

	var parts []string
	var args []ast.Node
	for p.current().Type == token.KEYWORD {
		kw := p.advance()
		parts = append(parts, strings.TrimSuffix(kw.Text, ":"))
		arg, err := p.parsePragmaArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(parts) == 0 {
		return nil, p.errorAt(diag.InvalidSelector, p.current(), "pragma must be '<identifier>' or one or more '<keyword: arg>' parts")
	}
	if err := p.expectPragmaClose(); err != nil {
		return nil, err
	}
	return &ast.Pragma{Base: ast.Base{Pos: open.Pos}, Selector: strings.Join(parts, ":") + ":", Args: args}, nil
}

// expectPragmaClose consumes the '>' that closes a pragma — lexed as an
// ordinary BINARY_SELECTOR, since '<'/'>' are never a distinct token
// kind; only the grammar position marks them as pragma delimiters.
func (p *Parser) expectPragmaClose() error {
	t := p.current()
	if t.Type == token.BINARY_SELECTOR && t.Text == ">" {
		p.advance()
		return nil
	}
	return p.errorAt(diag.UnexpectedToken, t, "'>' to close pragma")
}

// parsePragmaArg accepts the narrower operand set pragma arguments allow:
// literals, identifiers (as variable references) and binary selectors
// (interned as symbols) — never nested sends.
func (p *Parser) parsePragmaArg() (ast.Node, error) {
	t := p.current()
	switch t.Type {
	case token.INTEGER, token.FLOAT, token.SCALED_DECIMAL, token.RADIX_INTEGER, token.STRING, token.SYMBOL, token.CHAR:
		return p.parseOperand()
	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Base: ast.Base{Pos: t.Pos}, Name: t.Text}, nil
	case token.BINARY_SELECTOR:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Pos}, Kind: ast.LitSymbol, Value: t.Text}, nil
	default:
		return nil, p.errorAt(diag.ExpectedExpression, t, "invalid pragma argument")
	}
}

func validateRadixInteger(text string) error {
	i := strings.IndexByte(text, 'r')
	baseText, digits := text[:i], text[i+1:]
	base, err := strconv.Atoi(baseText)
	if err != nil || base < 2 || base > 36 {
		return &radixErr{"radix must be between 2 and 36, got " + baseText}
	}
	for _, c := range digits {
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return &radixErr{"invalid radix digit: " + string(c)}
		}
		if v >= base {
			return &radixErr{"digit '" + string(c) + "' is out of range for base " + baseText}
		}
	}
	return nil
}

type radixErr struct{ msg string }

func (e *radixErr) Error() string { return e.msg }
