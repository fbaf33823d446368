package bracket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanBrackets_Simple(t *testing.T) {
	src := "[ 1 + 2 ]"
	end, err := ScanBrackets(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
}

func TestScanBrackets_StringContainingCloseBracket(t *testing.T) {
	src := "[ ^ 'x ] y' , (String with: $]) ]"
	end, err := ScanBrackets(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
	require.Equal(t, " ^ 'x ] y' , (String with: $]) ", src[1:end])
}

func TestScanBrackets_CommentContainingCloseBracket(t *testing.T) {
	src := `[ "a comment ] with a bracket" ^ 1 ]`
	end, err := ScanBrackets(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
}

func TestScanBrackets_DoubledQuoteEscapes(t *testing.T) {
	src := `[ 'it''s ] fine' ]`
	end, err := ScanBrackets(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
}

func TestScanBrackets_NestedBlocks(t *testing.T) {
	src := "[ [ :x | x ] value ]"
	end, err := ScanBrackets(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
}

func TestScanBrackets_Unbalanced(t *testing.T) {
	src := "[ 1 + 2"
	_, err := ScanBrackets(src, 0)
	require.Error(t, err)
	var unbalanced *ErrUnbalanced
	require.ErrorAs(t, err, &unbalanced)
	require.Equal(t, byte('['), unbalanced.Open)
}

func TestScanBraces(t *testing.T) {
	src := "{ #name : #Counter, #instVars : [ 'value' ] }"
	end, err := ScanBraces(src, 0)
	require.NoError(t, err)
	require.Equal(t, len(src)-1, end)
}
