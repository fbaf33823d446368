// Package token defines the lexical token vocabulary for Smalltalk method
// bodies as lexed inside a Tonel file.
package token

// Type identifies a lexical token kind.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	IDENTIFIER  // foo, fooBar, Foo
	KEYWORD     // foo: (identifier immediately followed by ':')
	COLON_PARAM // :foo (block parameter)

	// BINARY_SELECTOR covers +, -, ~=, <=, and, critically, bare '<'
	// and '>'. Those two are also a pragma's delimiters; the lexer
	// never distinguishes the two uses (spec.md calls '<'/'>'
	// "context-sensitive... but normally BINARY_SELECTOR") — the
	// parser recognizes a pragma by seeing a BINARY_SELECTOR whose
	// Text is exactly "<" at operand position.
	BINARY_SELECTOR
	ASSIGN          // :=
	RETURN          // ^

	PERIOD    // .
	SEMICOLON // ;
	COMMA     // , (inside a literal array only)
	PIPE      // | used as a grammar delimiter

	LPAREN  // (
	RPAREN  // )
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE

	HASH_LPAREN   // #(
	HASH_LBRACKET // #[

	STRING         // 'text'
	SYMBOL         // #foo, #foo:bar:, #+, #'generic symbol'
	CHAR           // $x
	INTEGER        // 123
	RADIX_INTEGER  // 16rFF
	FLOAT          // 3.14, 3.14e10
	SCALED_DECIMAL // 3.14s2
)

var names = map[Type]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	KEYWORD:        "KEYWORD",
	COLON_PARAM:    "COLON_PARAM",
	BINARY_SELECTOR: "BINARY_SELECTOR",
	ASSIGN:         "ASSIGN",
	RETURN:         "RETURN",
	PERIOD:         "PERIOD",
	SEMICOLON:      "SEMICOLON",
	COMMA:          "COMMA",
	PIPE:           "PIPE",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	HASH_LPAREN:    "HASH_LPAREN",
	HASH_LBRACKET:  "HASH_LBRACKET",
	STRING:         "STRING",
	SYMBOL:         "SYMBOL",
	CHAR:           "CHAR",
	INTEGER:        "INTEGER",
	RADIX_INTEGER:  "RADIX_INTEGER",
	FLOAT:          "FLOAT",
	SCALED_DECIMAL: "SCALED_DECIMAL",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Position is a 1-based line/column plus a 0-based byte offset, relative to
// the start of whatever buffer the lexer was given (typically a method
// body; the Tonel layer maps these back to absolute file coordinates).
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a single lexical unit. Text holds the token's source text,
// including single-character structural tokens such as "(" or "|",
// with these exceptions: a STRING or quoted SYMBOL holds its contents
// without the quotes and with doubled quotes collapsed, a SYMBOL omits
// the leading '#', a CHAR omits the '$', a COLON_PARAM omits the ':',
// and EOF is empty.
type Token struct {
	Type Type
	Text string
	Pos  Position
}

// Pseudo-variables may appear as values but never as assignment targets
// or temporary/parameter names.
var PseudoVariables = map[string]bool{
	"nil":         true,
	"true":        true,
	"false":       true,
	"self":        true,
	"super":       true,
	"thisContext": true,
}

// BinaryChars is the full alphabet from which binary selectors are built.
const BinaryChars = `\+*/=><,@%~|&-?`
