package ston

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_SimpleMap(t *testing.T) {
	v, err := Parse(`{ #name : #Counter, #superclass : #Object }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, KindMap, v.Kind)
	require.Len(t, v.Entries, 2)
	require.Equal(t, KindSymbol, v.Entries[0].Key.Kind)
	require.Equal(t, "name", v.Entries[0].Key.Text)
	require.Equal(t, "Counter", v.Entries[0].Value.Text)
}

func TestParse_EmptyMap(t *testing.T) {
	v, err := Parse(`{ }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, KindMap, v.Kind)
	require.Empty(t, v.Entries)
}

func TestParse_TrailingComma(t *testing.T) {
	v, err := Parse(`{ #a : 1, #b : 2, }`, 1, 1)
	require.NoError(t, err)
	require.Len(t, v.Entries, 2)
}

func TestParse_ListValue(t *testing.T) {
	v, err := Parse(`{ #instVars : [ 'value', 'total' ] }`, 1, 1)
	require.NoError(t, err)
	list := v.Entries[0].Value
	require.Equal(t, KindList, list.Kind)
	require.Len(t, list.Elements, 2)
	require.Equal(t, "value", list.Elements[0].Text)
}

func TestParse_NestedMapValue(t *testing.T) {
	v, err := Parse(`{ #pools : { #default : 1 } }`, 1, 1)
	require.NoError(t, err)
	nested := v.Entries[0].Value
	require.Equal(t, KindMap, nested.Kind)
	require.Equal(t, "default", nested.Entries[0].Key.Text)
}

func TestParse_ObjectValue(t *testing.T) {
	v, err := Parse(`{ #origin : Point [ 1, 2 ] }`, 1, 1)
	require.NoError(t, err)
	obj := v.Entries[0].Value
	require.Equal(t, KindObject, obj.Kind)
	require.Equal(t, "Point", obj.ClassTag)
	require.Len(t, obj.Elements, 2)
}

func TestParse_ReferenceValue(t *testing.T) {
	v, err := Parse(`{ #a : 1, #b : @1 }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, KindReference, v.Entries[1].Value.Kind)
	require.Equal(t, "1", v.Entries[1].Value.Text)
}

func TestParse_BoolAndNilValues(t *testing.T) {
	v, err := Parse(`{ #a : true, #b : false, #c : nil }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, KindBool, v.Entries[0].Value.Kind)
	require.Equal(t, KindBool, v.Entries[1].Value.Kind)
	require.Equal(t, KindNil, v.Entries[2].Value.Kind)
}

func TestParse_AssociationValue(t *testing.T) {
	v, err := Parse(`{ #map : [ #a : 1, #b : 2 ] }`, 1, 1)
	require.NoError(t, err)
	list := v.Entries[0].Value
	require.Equal(t, KindList, list.Kind)
	require.Equal(t, KindAssociation, list.Elements[0].Kind)
	require.Equal(t, "a", list.Elements[0].Key.Text)
}

func TestParse_NumberKey(t *testing.T) {
	v, err := Parse(`{ 1 : #one }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, KindNumber, v.Entries[0].Key.Kind)
}

func TestParse_StringWithEmbeddedNewline(t *testing.T) {
	v, err := Parse("{ #doc : 'line one\nline two' }", 1, 1)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", v.Entries[0].Value.Text)
}

func TestParse_UnterminatedMap(t *testing.T) {
	_, err := Parse(`{ #a : 1`, 1, 1)
	require.Error(t, err)
}

func TestParse_TrailingContentAfterMap(t *testing.T) {
	_, err := Parse(`{ #a : 1 } garbage`, 1, 1)
	require.Error(t, err)
}

func TestParse_GenericSymbol(t *testing.T) {
	v, err := Parse(`{ #'odd key' : 1 }`, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "odd key", v.Entries[0].Key.Text)
}
