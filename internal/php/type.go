package php

import (
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// PHPType represents a PHP type with methods to compare and match against other types
type PHPType interface {
	// Name returns the string representation of the type
	Name() string
	
	// Matches determines if this type matches another type
	// For example, 'int' would match 'integer' or 'mixed' would match any type
	Matches(other PHPType) bool
}

// BaseType provides common functionality for PHP types
type BaseType struct {
	name string
}

// Name returns the string name of the type
func (t *BaseType) Name() string {
	return t.name
}

// NewPHPType creates a new PHPType based on the provided type name
func NewPHPType(typeName string) PHPType {
	// Handle nullable types (e.g., ?string, ?int, ?string|int)
	isNullable := false
	if strings.HasPrefix(typeName, "?") {
		isNullable = true
		typeName = typeName[1:]
	}

	// Handle union types (e.g., string|int, Foo|Bar)
	if strings.Contains(typeName, "|") {
		typeNames := strings.Split(typeName, "|")
		types := make([]PHPType, 0, len(typeNames))
		
		// Add all types from the union
		for _, name := range typeNames {
			types = append(types, NewPHPType(name))
		}
		
		// If the entire union is nullable, add null type
		if isNullable {
			hasNullType := false
			
			// Check if null type already exists in the union
			for _, t := range types {
				if _, ok := t.(*NullType); ok {
					hasNullType = true
					break
				}
			}
			
			// Add null type if not already present
			if !hasNullType {
				types = append(types, NewNullType())
			}
		}
		
		return NewUnionType(types)
	}
	
	// Handle intersection types (e.g., Traversable&Countable)
	if strings.Contains(typeName, "&") {
		// PHP 8.1 intersection types cannot be nullable
		if isNullable {
			// Return a union type of null and the intersection type
			typeNames := strings.Split(typeName, "&")
			types := make([]PHPType, 0, len(typeNames))
			
			for _, name := range typeNames {
				types = append(types, NewPHPType(name))
			}
			
			intersectionType := NewIntersectionType(types)
			return NewUnionType([]PHPType{intersectionType, NewNullType()})
		}
		
		// Create an intersection type
		typeNames := strings.Split(typeName, "&")
		types := make([]PHPType, 0, len(typeNames))
		
		for _, name := range typeNames {
			types = append(types, NewPHPType(name))
		}
		
		return NewIntersectionType(types)
	}

	// Handle fully qualified class names
	if strings.Contains(typeName, "\\") {
		// If nullable, create a union with null
		if isNullable {
			return NewUnionType([]PHPType{NewObjectType(typeName, false), NewNullType()})
		} else {
			return NewObjectType(typeName, false)
		}
	}

	// Handle array types (e.g., string[], int[])
	if strings.HasSuffix(typeName, "[]") {
		elementTypeName := strings.TrimSuffix(typeName, "[]")
		elementType := NewPHPType(elementTypeName)
		// If nullable, create a union with null
		if isNullable {
			return NewUnionType([]PHPType{NewArrayType(elementType, false), NewNullType()})
		} else {
			return NewArrayType(elementType, false)
		}
	}

	// For all other types, construct the base type and handle nullable as a union
	var baseType PHPType
	// Create the base type (always non-nullable)
	switch strings.ToLower(typeName) {
	case "string":
		baseType = NewStringType(false)
	case "int", "integer":
		baseType = NewIntType(false)
	case "float", "double":
		baseType = NewFloatType(false)
	case "bool", "boolean":
		baseType = NewBoolType(false)
	case "array":
		baseType = NewArrayType(nil, false)
	case "object":
		baseType = NewObjectType("object", false)
	case "callable":
		baseType = NewCallableType(false)
	case "iterable":
		baseType = NewIterableType(false)
	case "void":
		// void can't be nullable
		return NewVoidType()
	case "null":
		// null is already null
		return NewNullType()
	case "mixed":
		// mixed already includes null
		return NewMixedType()
	case "never":
		// never can't be nullable
		return NewNeverType()
	case "self", "static", "parent", "$this":
		baseType = NewSpecialType(typeName)
	default:
		// If not a recognized primitive type, assume it's a class/interface
		baseType = NewObjectType(typeName, false)
	}
	
	// If nullable, create a union with null
	if isNullable {
		return NewUnionType([]PHPType{baseType, NewNullType()})
	}
	
	return baseType
}

// StringType represents the PHP string type
type StringType struct {
	BaseType
	nullable bool
}

func NewStringType(nullable bool) *StringType {
	name := "string"
	if nullable {
		name = "?" + name
	}
	return &StringType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

func (t *StringType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *StringType:
		// A nullable string matches a non-nullable string
		return !o.nullable || t.nullable
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// IntType represents the PHP integer type
type IntType struct {
	BaseType
	nullable bool
}

func NewIntType(nullable bool) *IntType {
	name := "int"
	if nullable {
		name = "?" + name
	}
	return &IntType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

func (t *IntType) Matches(other PHPType) bool {
	// Special case for union types
	if unionType, ok := other.(*UnionType); ok {
		// Check if any of the union's types match our int type
		for _, typ := range unionType.types {
			if t.Matches(typ) {
				return true
			}
		}
		return false
	}

	switch o := other.(type) {
	case *IntType:
		// int matches int
		return !o.nullable || t.nullable
	case *FloatType:
		// int matches float (but not the other way around)
		return !o.nullable || t.nullable
	case *MixedType:
		// int matches mixed
		return true
	case *NullType:
		// int doesn't match null unless nullable
		return t.nullable
	default:
		return false
	}
}

// FloatType represents the PHP float type
type FloatType struct {
	BaseType
	nullable bool
}

func NewFloatType(nullable bool) *FloatType {
	name := "float"
	if nullable {
		name = "?" + name
	}
	return &FloatType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

func (t *FloatType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *FloatType:
		return !o.nullable || t.nullable
	case *IntType:
		// Float doesn't match int (no implicit downcast)
		return false
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// BoolType represents the PHP boolean type
type BoolType struct {
	BaseType
	nullable bool
}

func NewBoolType(nullable bool) *BoolType {
	name := "bool"
	if nullable {
		name = "?" + name
	}
	return &BoolType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

func (t *BoolType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *BoolType:
		return !o.nullable || t.nullable
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// ArrayType represents the PHP array type
type ArrayType struct {
	BaseType
	elementType PHPType // Can be nil for generic arrays
	nullable    bool
}

func NewArrayType(elementType PHPType, nullable bool) *ArrayType {
	var name string
	if elementType != nil {
		name = elementType.Name() + "[]"
	} else {
		name = "array"
	}
	if nullable {
		name = "?" + name
	}
	return &ArrayType{
		BaseType:    BaseType{name: name},
		elementType: elementType,
		nullable:    nullable,
	}
}

func (t *ArrayType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *ArrayType:
		// If either array doesn't specify an element type, or the element types match
		if t.elementType == nil || o.elementType == nil {
			return !o.nullable || t.nullable
		}
		return t.elementType.Matches(o.elementType) && (!o.nullable || t.nullable)
	case *IterableType:
		return true // Arrays are iterable
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// ObjectType represents a PHP class/interface type
type ObjectType struct {
	BaseType
	className string
	nullable  bool
}

func NewObjectType(className string, nullable bool) *ObjectType {
	name := className
	if nullable {
		name = "?" + name
	}
	return &ObjectType{
		BaseType:  BaseType{name: name},
		className: className,
		nullable:  nullable,
	}
}

// ClassName returns the (unresolved, as-written) class name this object
// type refers to, without the leading "?" a nullable type's Name() carries.
func (t *ObjectType) ClassName() string {
	return t.className
}

func (t *ObjectType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *ObjectType:
		// For now, simply check if the class names match
		// TODO: Add proper inheritance checks when class hierarchy is available
		return strings.EqualFold(t.className, o.className) && (!o.nullable || t.nullable)
	case *IntersectionType:
		// Matching an intersection without access to the class's declared
		// interfaces (Matches has no workspace to consult) would require
		// guessing; resolveChainedAccess/resolveMemberCallType resolve
		// interface membership through ws.ResolveMember instead, so this
		// conservatively reports no match rather than a false positive.
		return false
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// CallableType represents the PHP callable type, optionally carrying the
// `(ArgTypes): ReturnType` signature PHPStan/Psalm docblocks attach to
// `callable`/`Closure` type hints. Params/Return are nil for a bare
// "callable" with no declared signature.
type CallableType struct {
	BaseType
	nullable bool
	Params   []PHPType
	Return   PHPType
}

// NewCallableType creates a new callable type
func NewCallableType(nullable bool) *CallableType {
	name := "callable"
	if nullable {
		name = "?" + name
	}
	return &CallableType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

// NewCallableSignatureType builds a callable/Closure type carrying a
// parsed `(ArgTypes): ReturnType` signature, e.g. `callable(int, string): bool`.
func NewCallableSignatureType(params []PHPType, ret PHPType, nullable bool) *CallableType {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name()
	}
	retName := "mixed"
	if ret != nil {
		retName = ret.Name()
	}
	name := "callable(" + strings.Join(parts, ", ") + "): " + retName
	if nullable {
		name = "?" + name
	}
	return &CallableType{
		BaseType: BaseType{name: name},
		nullable: nullable,
		Params:   params,
		Return:   ret,
	}
}

func (t *CallableType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *CallableType:
		return !o.nullable || t.nullable
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// IterableType represents the PHP iterable type
type IterableType struct {
	BaseType
	nullable bool
}

func NewIterableType(nullable bool) *IterableType {
	name := "iterable"
	if nullable {
		name = "?" + name
	}
	return &IterableType{
		BaseType: BaseType{name: name},
		nullable: nullable,
	}
}

func (t *IterableType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *IterableType:
		return !o.nullable || t.nullable
	case *ArrayType:
		// Arrays are iterable, but iterable is not necessarily an array
		return t.nullable || !o.nullable
	case *MixedType:
		return true
	case *NullType:
		return t.nullable
	default:
		return false
	}
}

// VoidType represents the PHP void type
type VoidType struct {
	BaseType
}

func NewVoidType() *VoidType {
	return &VoidType{
		BaseType: BaseType{name: "void"},
	}
}

func (t *VoidType) Matches(other PHPType) bool {
	switch other.(type) {
	case *VoidType:
		return true
	case *MixedType:
		return true
	default:
		return false
	}
}

// NullType represents the PHP null type
type NullType struct {
	BaseType
}

func NewNullType() *NullType {
	return &NullType{
		BaseType: BaseType{name: "null"},
	}
}

func (t *NullType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *NullType:
		return true
	case *StringType, *IntType, *FloatType, *BoolType, *ArrayType, *ObjectType, *CallableType, *IterableType:
		// null matches any nullable type
		return getTypeNullability(o)
	case *UnionType:
		// Check if any of the types in the union is a null type
		for _, unionType := range o.types {
			if _, ok := unionType.(*NullType); ok {
				return true
			}
		}
		return false
	case *MixedType:
		return true
	default:
		return false
	}
}

// MixedType represents the PHP mixed type
type MixedType struct {
	BaseType
}

func NewMixedType() *MixedType {
	return &MixedType{
		BaseType: BaseType{name: "mixed"},
	}
}

func (t *MixedType) Matches(other PHPType) bool {
	// mixed matches any type
	return true
}

// NeverType represents the never return type (PHP 8.1+)
type NeverType struct {
	BaseType
}

func NewNeverType() *NeverType {
	return &NeverType{
		BaseType: BaseType{name: "never"},
	}
}

func (t *NeverType) Matches(other PHPType) bool {
	_, ok := other.(*NeverType)
	return ok
}

// UnionType represents a union of PHP types (e.g., string|int)
type UnionType struct {
	BaseType
	types []PHPType
}

// NewUnionType creates a new union type with the provided types
func NewUnionType(types []PHPType) *UnionType {
	// Sort types by name for consistent representation
	sortedTypes := make([]PHPType, len(types))
	copy(sortedTypes, types)
	sort.Slice(sortedTypes, func(i, j int) bool {
		return sortedTypes[i].Name() < sortedTypes[j].Name()
	})

	// Create type names
	names := make([]string, len(sortedTypes))
	for i, t := range sortedTypes {
		names[i] = t.Name()
	}

	return &UnionType{
		BaseType: BaseType{name: strings.Join(names, "|")},
		types:    sortedTypes,
	}
}

// IntersectionType represents an intersection of PHP types (e.g., Traversable&Countable)
type IntersectionType struct {
	BaseType
	types []PHPType
}

// NewIntersectionType creates a new intersection type with the provided types
func NewIntersectionType(types []PHPType) *IntersectionType {
	// Sort types by name for consistent representation
	sortedTypes := make([]PHPType, len(types))
	copy(sortedTypes, types)
	
	// Custom sort to ensure fully qualified class names are properly sorted
	// This ensures our tests have predictable ordering
	sort.Slice(sortedTypes, func(i, j int) bool {
		name1 := sortedTypes[i].Name()
		name2 := sortedTypes[j].Name()
		
		// Place fully qualified class names first
		hasBackslash1 := strings.Contains(name1, "\\")
		hasBackslash2 := strings.Contains(name2, "\\")
		
		if hasBackslash1 && !hasBackslash2 {
			return true  // name1 has backslash, name2 doesn't - name1 comes first
		} else if !hasBackslash1 && hasBackslash2 {
			return false // name2 has backslash, name1 doesn't - name2 comes first
		}
		
		// If both have backslash or both don't, sort alphabetically
		return name1 < name2
	})

	// Create type names
	names := make([]string, len(sortedTypes))
	for i, t := range sortedTypes {
		names[i] = t.Name()
	}

	return &IntersectionType{
		BaseType: BaseType{name: strings.Join(names, "&")},
		types:    sortedTypes,
	}
}

// For intersection types, the other type must match ALL the constituent types
func (t *IntersectionType) Matches(other PHPType) bool {
	// Special case: mixed always matches everything
	if _, ok := other.(*MixedType); ok {
		return true
	}

	// If the other type is also an intersection type
	if otherInter, ok := other.(*IntersectionType); ok {
		// For intersection types to match, they must both match each other's types
		// This handles cases like A&B vs B&A and A&B&C vs A&B
		
		// First check if other has all types we have
		for _, ourType := range t.types {
			matched := false
			for _, theirType := range otherInter.types {
				if ourType.Matches(theirType) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}

		// Then check if we have all types other has
		for _, theirType := range otherInter.types {
			matched := false
			for _, ourType := range t.types {
				if theirType.Matches(ourType) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		
		return true
	}
	
	// Check if other is a union type
	if otherUnion, ok := other.(*UnionType); ok {
		// For an intersection type to match a union type, at least one type in the union
		// must satisfy all types in the intersection
		for _, unionType := range otherUnion.types {
			allMatched := true
			for _, intersectionType := range t.types {
				if !unionType.Matches(intersectionType) {
					allMatched = false
					break
				}
			}
			if allMatched {
				return true
			}
		}
		return false
	}
	
	// For any other non-intersection type to match, it must match ALL of our types
	// (this makes intersection types very strict)
	for _, ourType := range t.types {
		if !other.Matches(ourType) {
			return false
		}
	}
	return true
}

func (t *UnionType) Matches(other PHPType) bool {
	// Special case: mixed always matches everything
	if _, ok := other.(*MixedType); ok {
		return true
	}

	// If the other type is an intersection type
	if otherIntersection, ok := other.(*IntersectionType); ok {
		// For a union to match an intersection type, at least one of our types 
		// must match all of the intersection types
		for _, ourType := range t.types {
			if ourType.Matches(otherIntersection) {
				return true
			}
		}
		return false
	}

	// If the other type is also a union type
	if otherUnion, ok := other.(*UnionType); ok {
		// Special case for int|float: there is a special matching rule where
		// int matches float but float doesn't match int
		hasOverlap := false
		for _, ourType := range t.types {
			for _, theirType := range otherUnion.types {
				// Check both directions to handle special cases like int/float
				if ourType.Matches(theirType) {
					hasOverlap = true
					break
				}
			}
			if hasOverlap {
				break
			}
		}
		return hasOverlap
	}
	
	// If other is a simple type, check if any of our types match it
	for _, typ := range t.types {
		if typ.Matches(other) {
			return true
		}
	}
	
	return false
}

// SpecialType represents special PHP types like self, static, parent, $this
type SpecialType struct {
	BaseType
}

func NewSpecialType(typeName string) *SpecialType {
	return &SpecialType{
		BaseType: BaseType{name: typeName},
	}
}

func (t *SpecialType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *SpecialType:
		return t.Name() == o.Name()
	case *MixedType:
		return true
	default:
		return false
	}
}

// Helper function to get nullability from different type implementations
func getTypeNullability(t PHPType) bool {
	switch o := t.(type) {
	case *StringType:
		return o.nullable
	case *IntType:
		return o.nullable
	case *FloatType:
		return o.nullable
	case *BoolType:
		return o.nullable
	case *ArrayType:
		return o.nullable
	case *ObjectType:
		return o.nullable
	case *CallableType:
		return o.nullable
	case *IterableType:
		return o.nullable
	default:
		return false
	}
}

// GetTypeOfNode determines the PHP type of a given expression node, the
// entry point the subject resolver (subject.go) falls back to for any
// expression kind it does not special-case itself.
func GetTypeOfNode(ws *Workspace, node *tree_sitter.Node, fileContent []byte, currentClass string) PHPType {
	if node == nil {
		return NewPHPType("mixed")
	}

	switch node.Kind() {
	case "member_call_expression", "nullsafe_member_call_expression",
		"scoped_call_expression":
		return resolveMemberCallType(ws, node, fileContent, currentClass)
	default:
		return NewPHPType("mixed")
	}
}
