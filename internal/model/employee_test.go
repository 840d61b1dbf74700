package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_SchemaBoundAccess(t *testing.T) {
	e := Employee{
		ID: "e1", Name: "Amy", Email: "amy@corp.test", Department: "Design",
		Title: "Product Designer", City: "Berlin", Age: 25, Salary: 78000,
	}

	for _, spec := range Schema() {
		v, ok := e.Field(spec.Name)
		require.True(t, ok, "field %q", spec.Name)
		assert.Equal(t, spec.Kind, v.Kind, "field %q", spec.Name)
	}

	_, ok := e.Field("nickname")
	assert.False(t, ok)
	_, ok = e.Field("")
	assert.False(t, ok)
}

func TestFieldKind_MatchesSchema(t *testing.T) {
	for _, spec := range Schema() {
		kind, ok := FieldKind(spec.Name)
		require.True(t, ok)
		assert.Equal(t, spec.Kind, kind)
	}

	_, ok := FieldKind("manager")
	assert.False(t, ok)
}

func TestValue_StringNormalization(t *testing.T) {
	assert.Equal(t, "Oslo", Value{Kind: KindString, Str: "Oslo"}.String())
	assert.Equal(t, "30", Value{Kind: KindNumber, Num: 30}.String())
	assert.Equal(t, "78000.5", Value{Kind: KindNumber, Num: 78000.5}.String())
}

func TestValue_FloatCoercion(t *testing.T) {
	assert.Equal(t, 30.0, Value{Kind: KindNumber, Num: 30}.Float())
	assert.Equal(t, 25.0, Value{Kind: KindString, Str: "25"}.Float())
	assert.True(t, math.IsNaN(Value{Kind: KindString, Str: "Oslo"}.Float()))
	assert.True(t, math.IsNaN(Value{Kind: KindString, Str: ""}.Float()))
}
