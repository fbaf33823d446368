package tonel

import (
	"strings"

	"github.com/opal-lang/tonel/internal/diag"
	"github.com/opal-lang/tonel/internal/smalltalk/ast"
	stparser "github.com/opal-lang/tonel/internal/smalltalk/parser"
)

// ErrorInfo is the uniform failure payload validate* operations return:
// reason, absolute line, and an error_text window around the offender.
// Matches spec.md §6's "(ok: bool, error_info: { reason, line,
// error_text }?)" shape.
type ErrorInfo struct {
	Reason    string
	Line      int
	ErrorText string
}

func errorInfoFrom(err error) *ErrorInfo {
	if d, ok := err.(*diag.Diagnostic); ok {
		// Reason always leads with the error kind, e.g.
		// "ReservedIdentifier: self".
		reason := d.Reason
		if kind := d.Kind.String(); !strings.HasPrefix(reason, kind) {
			reason = kind + ": " + reason
		}
		return &ErrorInfo{Reason: reason, Line: d.Line, ErrorText: d.ErrorText}
	}
	return &ErrorInfo{Reason: err.Error()}
}

// TonelParser, SmalltalkParser and TonelFullParser are stateless
// configurations composing the same engines; per the design notes none
// of the three shares mutable state, so a zero value of any of them is
// ready to use.

// TonelParser validates Tonel structure only: the class head and each
// method's metadata/reference/body span, without parsing body text as
// Smalltalk.
type TonelParser struct{}

func (TonelParser) Parse(text string) (*TonelFile, error) {
	return parseTonelFile(text)
}

func (p TonelParser) ParseFromFile(path string) (*TonelFile, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

func (p TonelParser) Validate(text string) (bool, *ErrorInfo) {
	if _, err := p.Parse(text); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}

func (p TonelParser) ValidateFromFile(path string) (bool, *ErrorInfo) {
	if _, err := p.ParseFromFile(path); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}

// SmalltalkParser validates a single method body as a full Smalltalk
// expression sequence.
type SmalltalkParser struct{}

func (SmalltalkParser) Parse(text string) (*ast.SmalltalkSequence, error) {
	return stparser.Parse(text)
}

func (p SmalltalkParser) ParseFromFile(path string) (*ast.SmalltalkSequence, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

func (p SmalltalkParser) Validate(text string) (bool, *ErrorInfo) {
	if _, err := p.Parse(text); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}

func (p SmalltalkParser) ValidateFromFile(path string) (bool, *ErrorInfo) {
	if _, err := p.ParseFromFile(path); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}

// TonelFullParser composes the structural parser with the Smalltalk
// parser: every method body is validated individually, in textual
// order, and the first failure's local (line, column) is translated to
// file-absolute coordinates before being reported.
type TonelFullParser struct{}

func (TonelFullParser) Parse(text string) (*TonelFile, error) {
	file, err := parseTonelFile(text)
	if err != nil {
		return nil, err
	}
	for _, m := range file.Methods {
		if _, err := stparser.Parse(m.Body); err != nil {
			return nil, translateMethodError(err, m)
		}
	}
	return file, nil
}

func (p TonelFullParser) ParseFromFile(path string) (*TonelFile, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

func (p TonelFullParser) Validate(text string) (bool, *ErrorInfo) {
	if _, err := p.Parse(text); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}

func (p TonelFullParser) ValidateFromFile(path string) (bool, *ErrorInfo) {
	if _, err := p.ParseFromFile(path); err != nil {
		return false, errorInfoFrom(err)
	}
	return true, nil
}
