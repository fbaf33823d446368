// Package ast defines the Smalltalk expression AST: a tagged variant node
// set over which the parser builds a tree and which callers can inspect
// without type-switching on anything but the Node interface itself.
// Modeled on the teacher's core/ast.Node — a small interface
// (String/Position) implemented by every concrete node — generalized
// from opal's statement/expression split to Smalltalk's single
// expression grammar.
package ast

import (
	"fmt"
	"strings"

	"github.com/opal-lang/tonel/internal/smalltalk/token"
)

// Position mirrors token.Position; AST nodes carry their own copy so the
// tree can outlive the token slice it was built from.
type Position = token.Position

// Node is implemented by every AST variant.
type Node interface {
	Position() Position
	String() string
	node() // unexported marker, closes the variant set to this package
}

type Base struct{ Pos Position }

func (b Base) Position() Position { return b.Pos }
func (Base) node()                {}

// Variable is a bare identifier reference (including pseudo-variables
// used as values, e.g. "self").
type Variable struct {
	Base
	Name string
}

func (v *Variable) String() string { return v.Name }

// LiteralKind distinguishes the primitive literal flavors.
type LiteralKind int

const (
	LitInteger LiteralKind = iota
	LitRadixInteger
	LitFloat
	LitScaledDecimal
	LitString
	LitSymbol
	LitChar
)

// Literal is a single scalar literal value; Value holds the lexer's
// token text: numerals exactly as written, strings without their quotes,
// symbols without the '#', characters without the '$' (callers that
// need a machine number parse Value themselves — this package does not
// interpret magnitudes).
type Literal struct {
	Base
	Kind  LiteralKind
	Value string
}

func (l *Literal) String() string { return l.Value }

// LiteralArrayItem is the union of what may appear inside #(...): a
// nested Literal, a nested LiteralArray (including one written as a bare
// parenthesized group per spec.md's documented open question), or an
// interned Symbol standing in for an identifier/binary-selector/';'/','.
type LiteralArrayItem = Node

// LiteralArray is a compile-time array literal, #( ... ).
type LiteralArray struct {
	Base
	Items []LiteralArrayItem
}

func (a *LiteralArray) String() string {
	parts := make([]string, len(a.Items))
	for i, it := range a.Items {
		parts[i] = it.String()
	}
	return "#(" + strings.Join(parts, " ") + ")"
}

// ByteArray is #[ ... ], each element an unsigned byte 0..255.
type ByteArray struct {
	Base
	Bytes []byte
}

func (a *ByteArray) String() string {
	parts := make([]string, len(a.Bytes))
	for i, b := range a.Bytes {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return "#[" + strings.Join(parts, " ") + "]"
}

// DynamicArray is a runtime-evaluated array literal, { expr. expr. ... }.
type DynamicArray struct {
	Base
	Elements []Node
}

func (a *DynamicArray) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ". ") + "}"
}

// Block is [ :p1 :p2 | | t1 t2 | stmt. stmt ].
type Block struct {
	Base
	Params []string
	Temps  []string
	Body   *SmalltalkSequence
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for _, p := range b.Params {
		sb.WriteString(":" + p + " ")
	}
	if len(b.Params) > 0 {
		sb.WriteString("| ")
	}
	sb.WriteString(b.Body.String())
	sb.WriteString("]")
	return sb.String()
}

// MessageSendKind distinguishes unary/binary/keyword sends, since all
// three share the same node shape.
type MessageSendKind int

const (
	SendUnary MessageSendKind = iota
	SendBinary
	SendKeyword
)

// MessageSend is "receiver selector arg1 arg2 ...". Unary and binary
// sends carry exactly one argument (binary) or zero (unary); keyword
// sends carry one argument per keyword part, with Selector holding the
// concatenated "part1:part2:" string.
type MessageSend struct {
	Base
	Kind     MessageSendKind
	Receiver Node
	Selector string
	Args     []Node
}

func (m *MessageSend) String() string {
	switch m.Kind {
	case SendUnary:
		return m.Receiver.String() + " " + m.Selector
	case SendBinary:
		return m.Receiver.String() + " " + m.Selector + " " + m.Args[0].String()
	default:
		parts := strings.Split(m.Selector, ":")
		var sb strings.Builder
		sb.WriteString(m.Receiver.String())
		for i, a := range m.Args {
			sb.WriteString(" " + parts[i] + ": " + a.String())
		}
		return sb.String()
	}
}

// CascadeMessage is one "; selector arg..." part of a Cascade, reusing
// MessageSend's selector/args/kind shape but never carrying its own
// receiver (the cascade's receiver is shared).
type CascadeMessage struct {
	Kind     MessageSendKind
	Selector string
	Args     []Node
}

// Cascade is "receiver msg1; msg2; msg3" — the first message comes from
// evaluating First (a MessageSend whose Receiver is the cascade
// receiver), and every subsequent message in Rest is sent to that same
// receiver.
type Cascade struct {
	Base
	Receiver Node
	First    *MessageSend
	Rest     []CascadeMessage
}

func (c *Cascade) String() string {
	var sb strings.Builder
	sb.WriteString(c.First.String())
	for _, m := range c.Rest {
		sb.WriteString("; " + m.Selector)
	}
	return sb.String()
}

// Assignment is "target := value"; Target is always a bindable
// identifier (never a pseudo-variable — enforced at construction).
type Assignment struct {
	Base
	Target string
	Value  Node
}

func (a *Assignment) String() string { return a.Target + " := " + a.Value.String() }

// Return is "^ expr", a non-local return from the enclosing method.
type Return struct {
	Base
	Value Node
}

func (r *Return) String() string { return "^" + r.Value.String() }

// TemporaryVariables is the "| t1 t2 |" declaration at the head of a
// sequence.
type TemporaryVariables struct {
	Base
	Names []string
}

func (t *TemporaryVariables) String() string {
	return "| " + strings.Join(t.Names, " ") + " |"
}

// Pragma is "<keyword: arg ...>" or "<unary>" attached to a method or
// block body.
type Pragma struct {
	Base
	Selector string
	Args     []Node
}

func (p *Pragma) String() string {
	parts := strings.Split(p.Selector, ":")
	var sb strings.Builder
	sb.WriteString("<")
	if len(p.Args) == 0 {
		sb.WriteString(p.Selector)
	} else {
		for i, a := range p.Args {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(parts[i] + ": " + a.String())
		}
	}
	sb.WriteString(">")
	return sb.String()
}

// SmalltalkSequence is temporaries? statement (PERIOD statement)* PERIOD?
// — the body of a method, a block, or the top-level expression sequence
// the Full Validator feeds each method's body text into.
type SmalltalkSequence struct {
	Base
	Temps      []string
	Pragmas    []*Pragma
	Statements []Node
}

func (s *SmalltalkSequence) String() string {
	var parts []string
	if len(s.Temps) > 0 {
		parts = append(parts, "| "+strings.Join(s.Temps, " ")+" |")
	}
	for _, p := range s.Pragmas {
		parts = append(parts, p.String())
	}
	for _, st := range s.Statements {
		parts = append(parts, st.String())
	}
	return strings.Join(parts, ". ")
}
