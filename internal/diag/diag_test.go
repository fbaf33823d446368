package diag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippet_ShortLineUnchanged(t *testing.T) {
	line := "C >> test [ ^ 1 ]"
	assert.Equal(t, line, Snippet(line, 5))
}

func TestSnippet_LongLineWindowed(t *testing.T) {
	line := strings.Repeat("a", 200)
	out := Snippet(line, 100)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), maxSnippet)
	assert.Contains(t, out, "…")
}

func TestNew_BuildsDiagnostic(t *testing.T) {
	d := New(ReservedIdentifier, "ReservedIdentifier: self", 2, 5, "self := 1")
	require.Error(t, d)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, "ReservedIdentifier: self", d.Reason)
	assert.Contains(t, d.Error(), "ReservedIdentifier")
}

func TestSuggestClassKind(t *testing.T) {
	assert.Equal(t, "Class", SuggestClassKind("Clas"))
	assert.Equal(t, "Extension", SuggestClassKind("Extention"))
}

func TestSuggestPseudoVariableFix(t *testing.T) {
	assert.Equal(t, "self", SuggestPseudoVariableFix("Self"))
	assert.Equal(t, "thisContext", SuggestPseudoVariableFix("thisContext"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "UnbalancedBrackets", UnbalancedBrackets.String())
	assert.Equal(t, "FileNotFound", FileNotFound.String())
}
