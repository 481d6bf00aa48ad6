package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocblock_Summary(t *testing.T) {
	doc := ParseDocblock(`/**
	 * Formats a greeting for the given name.
	 * Trims whitespace before formatting.
	 */`)
	assert.Equal(t, "Formats a greeting for the given name. Trims whitespace before formatting.", doc.Summary)
}

func TestParseDocblock_Param(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @param string $name the name to greet
	 * @param int ...$counts
	 */`)
	require.Len(t, doc.Params, 2)

	assert.Equal(t, "string", doc.Params[0].Type.Name())
	assert.Equal(t, "name", doc.Params[0].Name)
	assert.False(t, doc.Params[0].Variadic)
	assert.Equal(t, "the name to greet", doc.Params[0].Description)

	assert.Equal(t, "int", doc.Params[1].Type.Name())
	assert.Equal(t, "counts", doc.Params[1].Name)
	assert.True(t, doc.Params[1].Variadic)
}

func TestParseDocblock_ReturnPlainType(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @return array<int, string> a list of names
	 */`)
	require.NotNil(t, doc.Return)
	assert.Equal(t, "a list of names", doc.Return.Description)
	gen, ok := doc.Return.Type.(*GenericType)
	require.True(t, ok, "expected a GenericType, got %T", doc.Return.Type)
	assert.Equal(t, "array", gen.Base.Name())
}

func TestParseDocblock_ReturnConditionalType(t *testing.T) {
	// This is the case splitLeadingType exists for: the old whitespace-only
	// varValueRe truncated at the first space inside the parens, losing
	// everything after "($row".
	doc := ParseDocblock(`/**
	 * @return ($row is Model ? Model : null)
	 */`)
	require.NotNil(t, doc.Return)
	cond, ok := doc.Return.Type.(*ConditionalType)
	require.True(t, ok, "expected a ConditionalType, got %T", doc.Return.Type)
	assert.Equal(t, "$row", cond.Subject)
	assert.Equal(t, "Model", cond.CheckType.Name())
	assert.Equal(t, "Model", cond.IfTrue.Name())
	assert.Equal(t, "null", cond.IfFalse.Name())
}

func TestSplitLeadingType(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantType string
		wantRest string
	}{
		{"plain token", "string description", "string", "description"},
		{"no rest", "string", "string", ""},
		{"balanced parens kept whole", "($a is Foo ? Bar : Baz) description", "($a is Foo ? Bar : Baz)", "description"},
		{"generic with comma kept whole", "array<int, string> rest", "array<int, string>", "rest"},
		{"shape braces kept whole", "array{id: int, name: string} rest", "array{id: int, name: string}", "rest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typeStr, rest := splitLeadingType(tc.in)
			assert.Equal(t, tc.wantType, typeStr)
			assert.Equal(t, tc.wantRest, rest)
		})
	}
}

func TestParseDocblock_Var(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @var \App\Entity\User
	 */`)
	require.NotNil(t, doc.VarType)
	assert.Equal(t, "\\App\\Entity\\User", doc.VarType.Name())
}

func TestParseDocblock_Throws(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @throws \RuntimeException
	 * @throws \LogicException
	 */`)
	require.Len(t, doc.Throws, 2)
	assert.Equal(t, "\\LogicException", doc.Throws[1].(*ObjectType).ClassName())
}

func TestParseDocblock_Template(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @template T of \App\Entity\Entity
	 * @template-covariant U
	 */`)
	require.Len(t, doc.Templates, 2)
	assert.Equal(t, "T", doc.Templates[0].Name)
	require.NotNil(t, doc.Templates[0].Constraint)
	assert.Equal(t, Invariant, doc.Templates[0].Variance)
	assert.Equal(t, "U", doc.Templates[1].Name)
	assert.Equal(t, Covariant, doc.Templates[1].Variance)
}

func TestParseDocblock_Assertions(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @phpstan-assert User $user
	 * @phpstan-assert-if-true non-empty-string $name
	 * @psalm-assert-if-false null $value
	 */`)
	require.Len(t, doc.Assertions, 3)

	assert.Equal(t, AssertUnconditional, doc.Assertions[0].Condition)
	assert.Equal(t, "user", doc.Assertions[0].Param)
	assert.Equal(t, "User", doc.Assertions[0].Type.Name())

	assert.Equal(t, AssertIfTrue, doc.Assertions[1].Condition)
	assert.Equal(t, "name", doc.Assertions[1].Param)

	assert.Equal(t, AssertIfFalse, doc.Assertions[2].Condition)
	assert.Equal(t, "value", doc.Assertions[2].Param)
}

func TestParseDocblock_Properties(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @property string $name
	 * @property-read int $id
	 * @property-write bool $active
	 */`)
	require.Len(t, doc.Properties, 3)
	assert.Equal(t, "name", doc.Properties[0].Name)
	assert.False(t, doc.Properties[0].ReadOnly)

	assert.Equal(t, "id", doc.Properties[1].Name)
	assert.True(t, doc.Properties[1].ReadOnly)

	assert.Equal(t, "active", doc.Properties[2].Name)
	assert.True(t, doc.Properties[2].WriteOnly)
}

func TestParseDocblock_Method(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @method static User create(string $name, int $age)
	 */`)
	require.Len(t, doc.Methods, 1)
	m := doc.Methods[0]
	assert.True(t, m.Static)
	assert.Equal(t, "create", m.Name)
	require.NotNil(t, m.ReturnType)
	assert.Equal(t, "User", m.ReturnType.Name())
	require.Len(t, m.Params, 2)
	assert.Equal(t, "name", m.Params[0].Name)
	assert.Equal(t, "age", m.Params[1].Name)
}

func TestParseDocblock_ExtendsImplementsUse(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @extends Repository<User>
	 * @implements Comparable<User>
	 * @use HasFactory<User>
	 */`)
	require.Len(t, doc.Extends, 2)
	assert.Equal(t, "Repository", doc.Extends[0].Name)
	require.Len(t, doc.Extends[0].Args, 1)
	assert.Equal(t, "Comparable", doc.Extends[1].Name)

	require.Len(t, doc.Use, 1)
	assert.Equal(t, "HasFactory", doc.Use[0].Name)
}

func TestParseDocblock_ImportType(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @phpstan-import-type UserId from User
	 * @phpstan-import-type UserId from User as AliasedUserId
	 */`)
	require.Len(t, doc.ImportedTypes, 2)
	assert.Equal(t, "UserId", doc.ImportedTypes[0].Name)
	assert.Equal(t, "User", doc.ImportedTypes[0].From)
	assert.Equal(t, "UserId", doc.ImportedTypes[0].Alias)

	assert.Equal(t, "AliasedUserId", doc.ImportedTypes[1].Alias)
}

func TestParseDocblock_Mixin(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @mixin \App\Concerns\HasTimestamps
	 */`)
	require.Len(t, doc.Mixins, 1)
	assert.Equal(t, "\\App\\Concerns\\HasTimestamps", doc.Mixins[0])
}

func TestParseDocblock_Deprecated(t *testing.T) {
	doc := ParseDocblock(`/**
	 * @deprecated use newMethod() instead
	 */`)
	assert.True(t, doc.Deprecated)
}
