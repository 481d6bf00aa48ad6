package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPHPType_Unions(t *testing.T) {
	cases := map[string]struct {
		in       string
		wantName string
		wantLen  int
	}{
		"two primitives":       {"string|int", "int|string", 2},
		"five primitives":      {"array|bool|float|int|string", "array|bool|float|int|string", 5},
		"object in union":      {"string|\\Foo\\Bar", "\\Foo\\Bar|string", 2},
		"array shorthand":      {"array|string[]", "array|string[]", 2},
		"nullable union":       {"?string|int", "int|null|string", 3},
		"nullable normalized":  {"?string", "null|string", 2},
		"nullable array":       {"?string[]", "null|string[]", 2},
		"nullable object":      {"?\\Foo\\Bar", "\\Foo\\Bar|null", 2},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := NewPHPType(tc.in)
			union, ok := got.(*UnionType)
			require.True(t, ok, "expected a UnionType, got %T", got)
			assert.Equal(t, tc.wantName, union.Name())
			assert.Len(t, union.types, tc.wantLen)
		})
	}
}

func TestPHPType_Matches_Nullability(t *testing.T) {
	cases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"nullable string matches string", "?string", "string", true},
		{"string doesn't match nullable string", "string", "?string", false},
		{"nullable string matches null", "?string", "null", true},
		{"null matches nullable string", "null", "?string", true},
		{"normalized nullable object matches plain object", "?\\Foo\\Bar", "\\Foo\\Bar", true},
		{"nullable union matches a component", "?string|int", "string", true},
		{"nullable union matches null", "?string|int", "null", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewPHPType(tc.a).Matches(NewPHPType(tc.b)))
		})
	}
}

func TestUnionType_Matches(t *testing.T) {
	cases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"identical unions match", "string|int", "string|int", true},
		{"order doesn't matter", "string|int", "int|string", true},
		{"union matches a single member", "string|int", "string", true},
		{"subset union matches wider union", "string|int", "string|int|float", true},
		{"disjoint unions don't match", "string|bool", "int|float", false},
		{"overlapping unions match", "string|int", "int|float", true},
		{"mixed matches any union", "mixed", "string|int", true},
		{"any union matches mixed", "string|int", "mixed", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewPHPType(tc.a).Matches(NewPHPType(tc.b)))
		})
	}
}

func TestPHPType_Matches_ConcreteTypes(t *testing.T) {
	cases := []struct {
		name     string
		a, b     PHPType
		expected bool
	}{
		{"string matches string", NewStringType(false), NewStringType(false), true},
		{"nullable string matches string", NewStringType(true), NewStringType(false), true},
		{"string doesn't match nullable string", NewStringType(false), NewStringType(true), false},
		{"string doesn't match int", NewStringType(false), NewIntType(false), false},

		{"int matches int", NewIntType(false), NewIntType(false), true},
		{"int widens to float", NewIntType(false), NewFloatType(false), true},
		{"float doesn't narrow to int", NewFloatType(false), NewIntType(false), false},

		{"string[] matches string[]", NewArrayType(NewStringType(false), false), NewArrayType(NewStringType(false), false), true},
		{"string[] doesn't match int[]", NewArrayType(NewStringType(false), false), NewArrayType(NewIntType(false), false), false},
		{"untyped array matches any array", NewArrayType(nil, false), NewArrayType(NewStringType(false), false), true},
		{"array matches iterable", NewArrayType(nil, false), NewIterableType(false), true},

		{"same class matches", NewObjectType("App\\Entity\\User", false), NewObjectType("App\\Entity\\User", false), true},
		{"different class doesn't match", NewObjectType("App\\Entity\\User", false), NewObjectType("App\\Entity\\Product", false), false},
		{"class name comparison is case-insensitive", NewObjectType("App\\Entity\\User", false), NewObjectType("app\\entity\\user", false), true},
		{"object never satisfies an intersection without workspace lookup", NewObjectType("\\ArrayObject", false), NewIntersectionType([]PHPType{NewObjectType("Traversable", false), NewObjectType("Countable", false)}), false},

		{"mixed matches anything", NewMixedType(), NewStringType(false), true},
		{"anything matches mixed", NewStringType(false), NewMixedType(), true},

		{"null matches nullable string", NewNullType(), NewStringType(true), true},
		{"null doesn't match non-nullable string", NewNullType(), NewStringType(false), false},
		{"nullable string matches null", NewStringType(true), NewNullType(), true},

		{"self matches self", NewSpecialType("self"), NewSpecialType("self"), true},
		{"self doesn't match static", NewSpecialType("self"), NewSpecialType("static"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Matches(tc.b))
		})
	}
}

func TestNewPHPType_Kinds(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantName string
		wantType interface{}
	}{
		{"string", "string", "string", &StringType{}},
		{"nullable string normalizes to union", "?string", "null|string", &UnionType{}},
		{"int", "int", "int", &IntType{}},
		{"integer alias", "integer", "int", &IntType{}},
		{"float", "float", "float", &FloatType{}},
		{"double alias", "double", "float", &FloatType{}},
		{"boolean alias", "boolean", "bool", &BoolType{}},
		{"array", "array", "array", &ArrayType{}},
		{"typed array shorthand", "string[]", "string[]", &ArrayType{}},
		{"object", "object", "object", &ObjectType{}},
		{"class name", "App\\Entity\\User", "App\\Entity\\User", &ObjectType{}},
		{"void", "void", "void", &VoidType{}},
		{"null", "null", "null", &NullType{}},
		{"mixed", "mixed", "mixed", &MixedType{}},
		{"self is a special type", "self", "self", &SpecialType{}},
		{"parent is a special type", "parent", "parent", &SpecialType{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewPHPType(tc.in)
			assert.IsType(t, tc.wantType, got)
			assert.Equal(t, tc.wantName, got.Name())
		})
	}
}

func TestCallableType_BareVsSignature(t *testing.T) {
	bare := NewCallableType(false)
	assert.Equal(t, "callable", bare.Name())
	assert.Nil(t, bare.Params)
	assert.Nil(t, bare.Return)

	sig := NewCallableSignatureType([]PHPType{NewIntType(false), NewStringType(false)}, NewBoolType(false), false)
	assert.Equal(t, "callable(int, string): bool", sig.Name())
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "bool", sig.Return.Name())

	// A bare callable and a signature callable still match each other --
	// the signature isn't part of Matches' compatibility check, only of
	// the parsed type's identity.
	assert.True(t, bare.Matches(sig))
	assert.True(t, sig.Matches(bare))
}

func TestConditionalType_Resolve(t *testing.T) {
	cond := NewConditionalType("$id", NewObjectType("class-string", false), NewObjectType("T", false), NewMixedType())
	assert.Equal(t, NewObjectType("T", false), cond.Resolve(true))
	assert.Equal(t, NewMixedType(), cond.Resolve(false))

	// Until a branch is picked, a conditional type matches anything either
	// branch would match -- the conservative union-completion policy.
	assert.True(t, cond.Matches(NewObjectType("T", false)))
	assert.True(t, cond.Matches(NewStringType(false)))
}
