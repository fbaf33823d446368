// Package tonel implements the Tonel source-format data model and the
// structural parser that extracts a class comment, class head and
// method definitions from a Tonel file's raw text. It composes with
// internal/smalltalk to validate method bodies as full Smalltalk
// expression sequences; see Validate and the three parser facades in
// facade.go for the externally exposed contract.
//
// Grounded on the teacher's core/ layering: a plain data model package
// with no engine-internal details leaking out, the way
// core/planfmt holds Plan/Step as immutable values produced by the
// runtime/planner engine.
package tonel

import "github.com/opal-lang/tonel/internal/ston"

// ClassKind is the fixed vocabulary a Tonel class head may declare.
type ClassKind int

const (
	Class ClassKind = iota
	Trait
	Extension
	Package
)

func (k ClassKind) String() string {
	switch k {
	case Class:
		return "Class"
	case Trait:
		return "Trait"
	case Extension:
		return "Extension"
	case Package:
		return "Package"
	default:
		return "Unknown"
	}
}

// ClassDefinition is the single class/trait/extension/package head a
// Tonel file declares.
type ClassDefinition struct {
	Kind     ClassKind
	Metadata *ston.Value // always a KindMap value
}

// MethodDefinition is one `[metadata] ClassName >> selector [ body ]`
// entry. BodyStartLine/BodyStartColumn are absolute source coordinates
// of Body's first character, used by Validate to translate a method
// body's local parse error back into file coordinates.
type MethodDefinition struct {
	Metadata        *ston.Value // nil if the method carries no metadata
	ClassName       string
	IsClassMethod   bool
	Selector        string
	Body            string
	BodyStartLine   int
	BodyStartColumn int
}

// TonelFile is the immutable result of a successful structural parse.
type TonelFile struct {
	Comment         string // "" if the file carries no header comment
	HasComment      bool
	ClassDefinition ClassDefinition
	Methods         []MethodDefinition
}
