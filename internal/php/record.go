package php

// Visibility is a class member's PHP visibility modifier.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// ClassKind distinguishes the four PHP class-like declaration forms.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// Param is one formal parameter of a method or function.
type Param struct {
	Name       string
	Type       PHPType
	HasDefault bool
	Variadic   bool
	ByRef      bool
}

// Variance is a `@template` parameter's declared variance.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TemplateParam is one `@template`/`@template-covariant`/
// `@template-contravariant` declaration on a class or method docblock.
type TemplateParam struct {
	Name     string
	Bound    PHPType // upper bound from "of Bound", nil if unconstrained
	Variance Variance
}

// VirtualMember is a `@property`/`@property-read`/`@property-write`/
// `@method` entry declared in a class-like's own docblock rather than as a
// real declaration -- IDEs still offer it for completion and definition.
type VirtualMember struct {
	Name       string
	IsMethod   bool
	Type       PHPType
	Params     []Param // only set when IsMethod
	ReadOnly   bool    // @property-read
	WriteOnly  bool    // @property-write
	IsStatic   bool    // @method static ...
}

// MemberRecord is a method or property belonging to a ClassLike.
type MemberRecord struct {
	Name       string
	Visibility Visibility
	IsStatic   bool
	IsAbstract bool
	IsReadonly bool
	IsMethod   bool
	Type       PHPType
	Params     []Param // only set when IsMethod

	// TemplateParams are method-local `@template` declarations; Conditional
	// holds a parsed `($arg is ... ? ... : ...)` return type when present,
	// evaluated against call-site argument types at resolution time rather
	// than at merge time.
	TemplateParams []TemplateParam
	Conditional    *ConditionalType

	Throws     []PHPType
	Deprecated bool

	// Assertions are this method's `@phpstan-assert`/`@psalm-assert` tags
	// (and their -if-true/-if-false variants), applied by the narrowing
	// pass (narrow.go) at call sites that pass a local variable as the
	// asserted argument.
	Assertions []AssertTag

	// Owner is the FQN of the class-like that originally declared this
	// member, assigned by the inheritance merger (§4.5) so completions can
	// show provenance even after trait/parent/interface/mixin merging.
	Owner string

	Line int
}

// TraitAdaptation is one `insteadof`/`as` clause inside a `use` block.
type TraitAdaptation struct {
	Trait        string
	Method       string
	InsteadOf    []string
	AsName       string
	AsVisibility *Visibility
}

// TraitUse is a single `use Trait1, Trait2 { ... }` statement.
type TraitUse struct {
	Traits      []string
	Adaptations []TraitAdaptation
}

// ClassLike is the record for a class, interface, trait or enum declaration.
type ClassLike struct {
	FQN             string
	Kind            ClassKind
	Path            string
	Line            int
	Parent          string
	Interfaces      []string
	Traits          []TraitUse
	Mixins          []string
	IsAbstract      bool
	IsFinal         bool
	IsReadonly      bool
	EnumBackingType string // "" when not an enum, "int"/"string" for backed enums
	Methods         map[string]MemberRecord
	Properties      map[string]MemberRecord
	Constants       map[string]ConstantRecord

	// VirtualMembers holds @property/@property-read/@property-write/@method
	// entries declared in the class's own docblock.
	VirtualMembers map[string]VirtualMember

	// TemplateParams are this class-like's own `@template` declarations.
	TemplateParams []TemplateParam

	// ParentArgs is the type-argument list given in `@extends Parent<...>`
	// or `@implements Iface<...>`, keyed by the parent/interface FQN, used
	// by the inheritance merger to substitute the parent's template
	// parameters at merge time.
	ParentArgs map[string][]PHPType

	// TypeAliases are local `@phpstan-type`/`@psalm-type` definitions.
	TypeAliases map[string]PHPType

	// ImportedAliases are `@phpstan-import-type` entries: alias name ->
	// (originating class, name in that class).
	ImportedAliases map[string]ImportedAlias

	Deprecated bool
}

// ImportedAlias is one `@phpstan-import-type Name from Class as Alias` entry.
type ImportedAlias struct {
	From  string
	Name  string
	Alias string
}

func newClassLike(fqn, path string, line int, kind ClassKind) *ClassLike {
	return &ClassLike{
		FQN:             fqn,
		Kind:            kind,
		Path:            path,
		Line:            line,
		Methods:         make(map[string]MemberRecord),
		Properties:      make(map[string]MemberRecord),
		Constants:       make(map[string]ConstantRecord),
		VirtualMembers:  make(map[string]VirtualMember),
		ParentArgs:      make(map[string][]PHPType),
		TypeAliases:     make(map[string]PHPType),
		ImportedAliases: make(map[string]ImportedAlias),
	}
}

// FunctionLike is a standalone (non-member) function declaration.
type FunctionLike struct {
	FQN        string
	Path       string
	Line       int
	Params     []Param
	ReturnType PHPType
}

// ConstantRecord is a class constant, enum case, or file-scope constant.
type ConstantRecord struct {
	Name  string
	FQN   string
	Path  string
	Line  int
	Type  PHPType
	Value string
}

// FileRecords holds everything the extractor found in a single PHP file.
type FileRecords struct {
	Path      string
	Classes   map[string]*ClassLike
	Functions map[string]*FunctionLike
	Constants map[string]*ConstantRecord
}

func newFileRecords(path string) *FileRecords {
	return &FileRecords{
		Path:      path,
		Classes:   make(map[string]*ClassLike),
		Functions: make(map[string]*FunctionLike),
		Constants: make(map[string]*ConstantRecord),
	}
}
