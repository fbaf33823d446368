// Package diag holds the uniform diagnostic shape shared by every layer
// of the parser: a Kind, a human-readable Reason, absolute file
// coordinates and a short source snippet. It plays the role the teacher's
// runtime/parser/errors.go ParseError/ErrorType pair plays for the opal
// parser, generalized to the Tonel/Smalltalk error taxonomy.
package diag

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Kind enumerates the error taxonomy from the Tonel/Smalltalk error
// model: lexical, grammatical, semantic-in-grammar, structural and I/O
// failures.
type Kind int

const (
	// Lexical
	UnterminatedString Kind = iota
	UnterminatedComment
	InvalidCharacter
	InvalidNumber
	BadRadixDigit
	ByteOutOfRange

	// Grammatical
	UnexpectedToken
	ExpectedExpression
	ExpectedPipe
	ExpectedRBracket
	UnbalancedBrackets
	EmptyBlockParameterList

	// Semantic-in-grammar
	ReservedIdentifier
	DuplicateTemporary
	InvalidSelector

	// Structural (Tonel)
	MissingClassDefinition
	UnknownClassKind
	MalformedMethodReference
	UnterminatedMetadata
	UnexpectedTrailingContent

	// I/O
	FileNotFound
	ReadError
)

var kindNames = map[Kind]string{
	UnterminatedString:       "UnterminatedString",
	UnterminatedComment:      "UnterminatedComment",
	InvalidCharacter:         "InvalidCharacter",
	InvalidNumber:            "InvalidNumber",
	BadRadixDigit:            "BadRadixDigit",
	ByteOutOfRange:           "ByteOutOfRange",
	UnexpectedToken:          "UnexpectedToken",
	ExpectedExpression:       "ExpectedExpression",
	ExpectedPipe:             "ExpectedPipe",
	ExpectedRBracket:         "ExpectedRBracket",
	UnbalancedBrackets:       "UnbalancedBrackets",
	EmptyBlockParameterList:  "EmptyBlockParameterList",
	ReservedIdentifier:       "ReservedIdentifier",
	DuplicateTemporary:       "DuplicateTemporary",
	InvalidSelector:          "InvalidSelector",
	MissingClassDefinition:   "MissingClassDefinition",
	UnknownClassKind:         "UnknownClassKind",
	MalformedMethodReference: "MalformedMethodReference",
	UnterminatedMetadata:     "UnterminatedMetadata",
	UnexpectedTrailingContent: "UnexpectedTrailingContent",
	FileNotFound:             "FileNotFound",
	ReadError:                "ReadError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Diagnostic is the uniform (ok, error-info?) failure payload. It
// implements error so parse* operations can return it directly while
// validate* operations translate it into the (false, error_info) shape.
type Diagnostic struct {
	Kind   Kind
	Reason string // human-readable, e.g. "ReservedIdentifier: self"
	Line   int    // 1-based, absolute within the file
	Column int
	// ErrorText is a source-line-bounded window of the offending input,
	// capped at 80 characters.
	ErrorText string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Reason)
}

const maxSnippet = 80

// Snippet trims a raw source line around column to at most maxSnippet
// characters, keeping the offending column inside the window.
func Snippet(line string, column int) string {
	if len(line) <= maxSnippet {
		return line
	}
	start := column - maxSnippet/2
	if start < 0 {
		start = 0
	}
	end := start + maxSnippet
	if end > len(line) {
		end = len(line)
		start = end - maxSnippet
		if start < 0 {
			start = 0
		}
	}
	out := line[start:end]
	if start > 0 {
		out = "…" + out[1:]
	}
	if end < len(line) {
		out = out[:len(out)-1] + "…"
	}
	return out
}

// New builds a Diagnostic whose ErrorText is derived from a full source
// line and a 1-based column.
func New(kind Kind, reason string, line, column int, sourceLine string) *Diagnostic {
	return &Diagnostic{
		Kind:      kind,
		Reason:    reason,
		Line:      line,
		Column:    column,
		ErrorText: Snippet(sourceLine, column),
	}
}

// validClassKinds is the fixed vocabulary a Tonel class head may name.
var validClassKinds = []string{"Class", "Trait", "Extension", "Package"}

// SuggestClassKind returns a "did you mean" hint for an unrecognized
// class-head keyword, or "" if nothing is close enough to be useful.
// Grounded on the teacher's findClosestMatch helper in
// runtime/planner/planner.go, which ranks candidates with
// fuzzy.RankFindFold for its own "unknown command" suggestions.
func SuggestClassKind(got string) string {
	ranks := fuzzy.RankFindFold(got, validClassKinds)
	if len(ranks) == 0 {
		// got is not a subsequence of any kind name (e.g. a substituted
		// letter, "Extention"); rank every kind by plain edit distance.
		for _, k := range validClassKinds {
			d := fuzzy.LevenshteinDistance(strings.ToLower(got), strings.ToLower(k))
			ranks = append(ranks, fuzzy.Rank{Source: got, Target: k, Distance: d})
		}
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > len(got) {
		return ""
	}
	return best.Target
}

// pseudoVariableList mirrors token.PseudoVariables but as a slice, since
// fuzzy ranking needs an ordered candidate set.
var pseudoVariableList = []string{"nil", "true", "false", "self", "super", "thisContext"}

// SuggestPseudoVariableFix explains which pseudo-variable collided with a
// binding attempt, used to enrich ReservedIdentifier diagnostics with a
// clearer reason than a bare name echo.
func SuggestPseudoVariableFix(name string) string {
	ranks := fuzzy.RankFindFold(strings.ToLower(name), pseudoVariableList)
	if len(ranks) == 0 {
		return name
	}
	return ranks[0].Target
}
