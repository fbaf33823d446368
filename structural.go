package tonel

import (
	"strings"

	"github.com/opal-lang/tonel/internal/diag"
	"github.com/opal-lang/tonel/internal/smalltalk/token"
	"github.com/opal-lang/tonel/internal/ston"
	"github.com/opal-lang/tonel/internal/tonel/bracket"
)

// structParser walks the raw file text locating the header comment,
// class head and method definitions. It tracks its own line/column so
// every diagnostic and every MethodDefinition.BodyStartLine/Column
// carries absolute file coordinates, mirroring the position bookkeeping
// internal/smalltalk/lexer does for method bodies.
type structParser struct {
	src  string
	pos  int
	line int
	col  int
}

func newStructParser(src string) *structParser {
	return &structParser{src: src, line: 1, col: 1}
}

func (p *structParser) eof() bool { return p.pos >= len(p.src) }

func (p *structParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *structParser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *structParser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *structParser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.advance()
			continue
		}
		break
	}
}

func (p *structParser) currentLineText() string {
	start := strings.LastIndexByte(p.src[:p.pos], '\n') + 1
	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end == -1 {
		return p.src[start:]
	}
	return p.src[start : p.pos+end]
}

func (p *structParser) errf(kind diag.Kind, reason string) error {
	return diag.New(kind, reason, p.line, p.col, p.currentLineText())
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || isUpper(c)
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseIdentifier consumes a maximal identifier run starting at the
// current position; the caller has already verified isIdentStart.
func (p *structParser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.advance()
	}
	return p.src[start:p.pos]
}

// normalize strips a leading UTF-8 BOM and normalizes CRLF to LF, so
// every downstream component counts lines the same way regardless of
// how the file was saved.
func normalize(src string) string {
	src = strings.TrimPrefix(src, string(rune(0xFEFF)))
	return strings.ReplaceAll(src, "\r\n", "\n")
}

// parseTonelFile drives the full structural grammar from spec.md §4.4:
// optional header comment, class head (kind + STON map), then a
// sequence of method definitions until end of input.
func parseTonelFile(src string) (*TonelFile, error) {
	src = normalize(src)
	p := newStructParser(src)

	file := &TonelFile{}

	p.skipSpace()
	if !p.eof() && p.peek() == '"' {
		comment, err := p.parseQuotedComment()
		if err != nil {
			return nil, err
		}
		file.Comment = comment
		file.HasComment = true
	}

	p.skipSpace()
	classDef, err := p.parseClassHead()
	if err != nil {
		return nil, err
	}
	file.ClassDefinition = classDef

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != '{' && !isUpper(p.peek()) {
			return nil, p.errf(diag.UnexpectedTrailingContent, "unexpected content after the last method definition")
		}
		method, err := p.parseMethodDefinition()
		if err != nil {
			return nil, err
		}
		file.Methods = append(file.Methods, *method)
	}

	return file, nil
}

// parseQuotedComment consumes a '"'-delimited header comment, honoring
// '""' as an escaped quote, exactly the bracket-scanner discipline used
// for Smalltalk comments elsewhere in this module.
func (p *structParser) parseQuotedComment() (string, error) {
	p.advance() // opening quote
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errf(diag.UnterminatedMetadata, "unterminated header comment")
		}
		c := p.advance()
		if c == '"' {
			if !p.eof() && p.peek() == '"' {
				sb.WriteByte('"')
				p.advance()
				continue
			}
			break
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

var classKindByName = map[string]ClassKind{
	"Class":     Class,
	"Trait":     Trait,
	"Extension": Extension,
	"Package":   Package,
}

func (p *structParser) parseClassHead() (ClassDefinition, error) {
	if p.eof() || !isIdentStart(p.peek()) {
		return ClassDefinition{}, p.errf(diag.MissingClassDefinition, "expected a class head (Class, Trait, Extension or Package)")
	}
	word := p.parseIdentifier()
	kind, ok := classKindByName[word]
	if !ok {
		reason := "UnknownClassKind: " + word
		if s := diag.SuggestClassKind(word); s != "" {
			reason += " (did you mean " + s + "?)"
		}
		return ClassDefinition{}, p.errf(diag.UnknownClassKind, reason)
	}
	p.skipSpace()
	if p.eof() || p.peek() != '{' {
		return ClassDefinition{}, p.errf(diag.MissingClassDefinition, "expected '{' starting the class metadata map")
	}
	mapSrc, line, col, err := p.scanBraceSpan()
	if err != nil {
		return ClassDefinition{}, err
	}
	meta, err := ston.Parse(mapSrc, line, col)
	if err != nil {
		return ClassDefinition{}, err
	}
	return ClassDefinition{Kind: kind, Metadata: meta}, nil
}

// scanBraceSpan locates the '{'...'}' span starting at the parser's
// current position and advances past it, returning the span text plus
// the absolute line/column of its first character for diagnostic
// translation.
func (p *structParser) scanBraceSpan() (string, int, int, error) {
	openAt := p.pos
	line, col := p.line, p.col
	closeAt, err := bracket.ScanBraces(p.src, openAt)
	if err != nil {
		return "", 0, 0, p.errf(diag.UnterminatedMetadata, "unterminated metadata map: "+err.Error())
	}
	for p.pos <= closeAt {
		p.advance()
	}
	return p.src[openAt : closeAt+1], line, col, nil
}

func (p *structParser) parseMethodDefinition() (*MethodDefinition, error) {
	m := &MethodDefinition{}

	if p.peek() == '{' {
		mapSrc, line, col, err := p.scanBraceSpan()
		if err != nil {
			return nil, err
		}
		meta, err := ston.Parse(mapSrc, line, col)
		if err != nil {
			return nil, err
		}
		m.Metadata = meta
		p.skipSpace()
	}

	if p.eof() || !isUpper(p.peek()) {
		return nil, p.errf(diag.MalformedMethodReference, "expected a class name starting with an uppercase letter")
	}
	m.ClassName = p.parseIdentifier()

	spacesBefore := 0
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance()
		spacesBefore++
	}
	if p.matchWord("class") {
		m.IsClassMethod = true
		spacesBefore = 0
		for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
			p.advance()
			spacesBefore++
		}
	}
	if spacesBefore == 0 {
		return nil, p.errf(diag.MalformedMethodReference, "expected whitespace before '>>'")
	}

	if p.peekAt(0) != '>' || p.peekAt(1) != '>' {
		return nil, p.errf(diag.MalformedMethodReference, "expected '>>' after the class name")
	}
	p.advance()
	p.advance()

	spacesAfter := 0
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance()
		spacesAfter++
	}
	if spacesAfter == 0 {
		return nil, p.errf(diag.MalformedMethodReference, "expected whitespace between '>>' and the selector")
	}

	selector, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	m.Selector = selector

	p.skipSpace()
	if p.eof() || p.peek() != '[' {
		return nil, p.errf(diag.MalformedMethodReference, "expected '[' opening the method body")
	}
	openAt := p.pos
	closeAt, err := bracket.ScanBrackets(p.src, openAt)
	if err != nil {
		return nil, p.errf(diag.UnbalancedBrackets, err.Error())
	}
	p.advance() // consume '['
	m.BodyStartLine, m.BodyStartColumn = p.line, p.col
	for p.pos < closeAt {
		p.advance()
	}
	m.Body = p.src[openAt+1 : closeAt]
	p.advance() // consume ']'

	return m, nil
}

// matchWord consumes word if it appears at the current position as a
// whole identifier (not a prefix of a longer identifier), advancing
// past it on success.
func (p *structParser) matchWord(word string) bool {
	if p.pos+len(word) > len(p.src) || p.src[p.pos:p.pos+len(word)] != word {
		return false
	}
	if p.pos+len(word) < len(p.src) && isIdentPart(p.src[p.pos+len(word)]) {
		return false
	}
	for range word {
		p.advance()
	}
	return true
}

// parseSelector accepts a unary identifier, a run of one or more
// "keyword:" parts, or a binary-selector character run — the three
// selector shapes spec.md §3 allows for MethodDefinition.Selector.
func (p *structParser) parseSelector() (string, error) {
	if p.eof() {
		return "", p.errf(diag.MalformedMethodReference, "expected a method selector")
	}
	c := p.peek()
	switch {
	case isIdentStart(c):
		name := p.parseIdentifier()
		if !p.eof() && p.peek() == ':' {
			p.advance()
			var sb strings.Builder
			sb.WriteString(name)
			sb.WriteByte(':')
			for !p.eof() && isIdentStart(p.peek()) {
				part := p.parseIdentifier()
				if p.eof() || p.peek() != ':' {
					return "", p.errf(diag.MalformedMethodReference, "expected ':' after keyword part "+part)
				}
				p.advance()
				sb.WriteString(part)
				sb.WriteByte(':')
			}
			return sb.String(), nil
		}
		return name, nil
	case isBinaryChar(c):
		start := p.pos
		for !p.eof() && isBinaryChar(p.peek()) {
			p.advance()
		}
		return p.src[start:p.pos], nil
	default:
		return "", p.errf(diag.MalformedMethodReference, "unrecognized selector syntax")
	}
}

func isBinaryChar(c byte) bool {
	return strings.IndexByte(token.BinaryChars, c) >= 0
}
