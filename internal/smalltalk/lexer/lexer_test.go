package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opal-lang/tonel/internal/smalltalk/token"
	"github.com/stretchr/testify/require"
)

func typesOf(t *testing.T, src string) []token.Type {
	t.Helper()
	toks, err := All(src)
	require.NoError(t, err)
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

// P1: every '|' in a structural position lexes as PIPE; every '|' that
// reads as bitwise-or inside executable code lexes as BINARY_SELECTOR,
// regardless of parenthesis nesting.
func TestPipeDisambiguation_ParensIrrelevant(t *testing.T) {
	toks, err := All(":x | (a | b)")
	require.NoError(t, err)
	require.Equal(t, token.COLON_PARAM, toks[0].Type)
	require.Equal(t, token.PIPE, toks[1].Type)
	// the '|' between a and b is inside parens but still BINARY_SELECTOR
	var sawBinary bool
	for _, tk := range toks {
		if tk.Type == token.BINARY_SELECTOR && tk.Text == "|" {
			sawBinary = true
		}
	}
	require.True(t, sawBinary)
}

func TestPipeDisambiguation_ParamsThenBinary(t *testing.T) {
	toks, err := All(":x | a | b")
	require.NoError(t, err)
	require.Equal(t, token.COLON_PARAM, toks[0].Type)
	require.Equal(t, token.PIPE, toks[1].Type) // closes params
	require.Equal(t, token.IDENTIFIER, toks[2].Type)
	require.Equal(t, token.BINARY_SELECTOR, toks[3].Type) // a | b is bitwise-or
}

func TestPipeDisambiguation_TempsThenBinary(t *testing.T) {
	toks, err := All("| t | t := a | b")
	require.NoError(t, err)
	require.Equal(t, token.PIPE, toks[0].Type)
	require.Equal(t, token.IDENTIFIER, toks[1].Type)
	require.Equal(t, token.PIPE, toks[2].Type)
	// t := a | b: the third '|' is binary-or, not a temp re-opening
	var pipeCount, binaryCount int
	for _, tk := range toks {
		if tk.Type == token.PIPE {
			pipeCount++
		}
		if tk.Type == token.BINARY_SELECTOR && tk.Text == "|" {
			binaryCount++
		}
	}
	require.Equal(t, 2, pipeCount)
	require.Equal(t, 1, binaryCount)
}

func TestPipeDisambiguation_NoParams(t *testing.T) {
	// a bare block body with only a bitwise-or expression, no params
	// and no temps: the sole '|' must be BINARY_SELECTOR.
	toks, err := All("a | b")
	require.NoError(t, err)
	require.Equal(t, token.IDENTIFIER, toks[0].Type)
	require.Equal(t, token.BINARY_SELECTOR, toks[1].Type)
	require.Equal(t, "|", toks[1].Text)
}

// spec.md §4.2: ',' is COMMA only inside a literal array; everywhere else
// (including the common string/collection-concatenation idiom) it is an
// ordinary binary-selector character.
func TestCommaOutsideArrayIsBinarySelector(t *testing.T) {
	toks, err := All("'a' , 'b'")
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Type)
	require.Equal(t, token.BINARY_SELECTOR, toks[1].Type)
	require.Equal(t, ",", toks[1].Text)
	require.Equal(t, token.STRING, toks[2].Type)
}

func TestCommaInsideLiteralArrayIsComma(t *testing.T) {
	toks, err := All("#(1, 2)")
	require.NoError(t, err)
	require.Equal(t, token.HASH_LPAREN, toks[0].Type)
	require.Equal(t, token.INTEGER, toks[1].Type)
	require.Equal(t, token.COMMA, toks[2].Type)
	require.Equal(t, token.INTEGER, toks[3].Type)
}

func TestCommaInsideNestedBareParenArrayIsComma(t *testing.T) {
	toks, err := All("#(1 (2, 3))")
	require.NoError(t, err)
	var sawComma bool
	for _, tk := range toks {
		if tk.Type == token.COMMA {
			sawComma = true
		}
	}
	require.True(t, sawComma)
}

func TestCommaInsideBlockInsideArrayIsBinarySelector(t *testing.T) {
	// A block body resets back to ordinary expression context even when
	// lexed while nested inside a literal array's position in the token
	// stream (degenerate input, but the lexer must not leak array mode
	// across a block boundary).
	toks, err := All("[ 'a' , 'b' ]")
	require.NoError(t, err)
	var sawComma bool
	var sawBinaryComma bool
	for _, tk := range toks {
		if tk.Type == token.COMMA {
			sawComma = true
		}
		if tk.Type == token.BINARY_SELECTOR && tk.Text == "," {
			sawBinaryComma = true
		}
	}
	require.False(t, sawComma)
	require.True(t, sawBinaryComma)
}

// Structural token-slice comparison via go-cmp, side by side with the
// testify assertions used elsewhere in this file.
func TestTokenSliceShape_KeywordSend(t *testing.T) {
	toks, err := All("a at: 1 put: 2")
	require.NoError(t, err)

	var types []token.Type
	var texts []string
	for _, tk := range toks {
		types = append(types, tk.Type)
		texts = append(texts, tk.Text)
	}

	wantTypes := []token.Type{
		token.IDENTIFIER, token.KEYWORD, token.INTEGER,
		token.KEYWORD, token.INTEGER, token.EOF,
	}
	wantTexts := []string{"a", "at:", "1", "put:", "2", ""}

	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantTexts, texts); diff != "" {
		t.Errorf("token texts mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiCharBinaryOperators(t *testing.T) {
	cases := map[string]string{
		"a <= b": "<=",
		"a >= b": ">=",
		"a ~= b": "~=",
	}
	for src, want := range cases {
		toks, err := All(src)
		require.NoError(t, err)
		require.Equal(t, token.BINARY_SELECTOR, toks[1].Type, src)
		require.Equal(t, want, toks[1].Text, src)
	}
}

func TestCharLiteralConsumesBracket(t *testing.T) {
	toks, err := All("$]")
	require.NoError(t, err)
	require.Equal(t, token.CHAR, toks[0].Type)
	require.Equal(t, "]", toks[0].Text)
}

func TestUnterminatedStringError(t *testing.T) {
	_, err := All("'abc")
	require.Error(t, err)
}

func TestRadixInteger(t *testing.T) {
	toks, err := All("16rFF")
	require.NoError(t, err)
	require.Equal(t, token.RADIX_INTEGER, toks[0].Type)
	require.Equal(t, "16rFF", toks[0].Text)
}

func TestScaledDecimal(t *testing.T) {
	toks, err := All("3.14s2")
	require.NoError(t, err)
	require.Equal(t, token.SCALED_DECIMAL, toks[0].Type)
}

func TestFloatExponentBacktrackRestoresColumn(t *testing.T) {
	// "3.14e" has no exponent digits after 'e', so the lexer backtracks
	// past it; the token following must report the column it actually
	// starts at, not one inflated by the abandoned "e" lookahead.
	toks, err := All("3.14e foo")
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, toks[0].Type)
	require.Equal(t, "3.14", toks[0].Text)
	require.Equal(t, token.IDENTIFIER, toks[1].Type)
	require.Equal(t, "e", toks[1].Text)
	require.Equal(t, 5, toks[1].Pos.Column)
}

func TestSignedNumeralVsBinarySelector(t *testing.T) {
	toks, err := All("a - 1")
	require.NoError(t, err)
	require.Equal(t, token.BINARY_SELECTOR, toks[1].Type)
	require.Equal(t, token.INTEGER, toks[2].Type)

	toks2, err := All("-1")
	require.NoError(t, err)
	require.Equal(t, token.INTEGER, toks2[0].Type)
	require.Equal(t, "-1", toks2[0].Text)
}
