package php

import "strings"

// GenericType represents a PHPDoc generic, e.g. Collection<int, Product>.
type GenericType struct {
	BaseType
	Base PHPType
	Args []PHPType
}

func NewGenericType(base PHPType, args []PHPType) *GenericType {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Name()
	}
	return &GenericType{
		BaseType: BaseType{name: base.Name() + "<" + strings.Join(parts, ", ") + ">"},
		Base:     base,
		Args:     args,
	}
}

func (t *GenericType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *GenericType:
		if !t.Base.Matches(o.Base) || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Matches(o.Args[i]) {
				return false
			}
		}
		return true
	case *MixedType:
		return true
	default:
		// A bare Collection still matches a Collection<T>.
		return t.Base.Matches(other)
	}
}

// ShapeField is one key inside an array-shape or object-shape type.
type ShapeField struct {
	Key      string
	Type     PHPType
	Optional bool
}

// ShapeType represents `array{foo: string, bar?: int}` or
// `object{foo: string}`.
type ShapeType struct {
	BaseType
	IsObject bool
	Fields   []ShapeField
}

func NewShapeType(isObject bool, fields []ShapeField) *ShapeType {
	parts := make([]string, len(fields))
	for i, f := range fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts[i] = f.Key + opt + ": " + f.Type.Name()
	}
	prefix := "array"
	if isObject {
		prefix = "object"
	}
	return &ShapeType{
		BaseType: BaseType{name: prefix + "{" + strings.Join(parts, ", ") + "}"},
		IsObject: isObject,
		Fields:   fields,
	}
}

func (t *ShapeType) Matches(other PHPType) bool {
	switch o := other.(type) {
	case *ShapeType:
		if t.IsObject != o.IsObject {
			return false
		}
		for _, f := range t.Fields {
			var found *ShapeField
			for i := range o.Fields {
				if o.Fields[i].Key == f.Key {
					found = &o.Fields[i]
					break
				}
			}
			if found == nil {
				if !f.Optional {
					return false
				}
				continue
			}
			if !f.Type.Matches(found.Type) {
				return false
			}
		}
		return true
	case *ArrayType:
		return !t.IsObject
	case *MixedType:
		return true
	default:
		return false
	}
}

// TemplateType is an unresolved `@template T` type parameter reference.
type TemplateType struct {
	BaseType
	Constraint PHPType // upper bound from "@template T of Bound", nil if none
}

func NewTemplateType(name string, constraint PHPType) *TemplateType {
	return &TemplateType{BaseType: BaseType{name: name}, Constraint: constraint}
}

func (t *TemplateType) Matches(other PHPType) bool {
	if t.Constraint != nil {
		return t.Constraint.Matches(other)
	}
	return true
}

// ConditionalType represents PHPStan/Psalm conditional return types:
// `($param is Foo ? Bar : Baz)`. It resolves to one of its two branches
// once the condition's subject type is known; until then Matches treats
// it as the union of both branches, which is the conservative completion
// behaviour the union-completion policy calls for.
type ConditionalType struct {
	BaseType
	Subject   string
	CheckType PHPType
	IfTrue    PHPType
	IfFalse   PHPType
}

func NewConditionalType(subject string, check, ifTrue, ifFalse PHPType) *ConditionalType {
	name := "(" + subject + " is " + check.Name() + " ? " + ifTrue.Name() + " : " + ifFalse.Name() + ")"
	return &ConditionalType{
		BaseType:  BaseType{name: name},
		Subject:   subject,
		CheckType: check,
		IfTrue:    ifTrue,
		IfFalse:   ifFalse,
	}
}

func (t *ConditionalType) Matches(other PHPType) bool {
	return t.IfTrue.Matches(other) || t.IfFalse.Matches(other)
}

// Resolve picks a branch once the caller knows whether the argument bound
// to Subject matched CheckType (e.g. during static-return substitution for
// a concrete call site).
func (t *ConditionalType) Resolve(subjectMatchesCheck bool) PHPType {
	if subjectMatchesCheck {
		return t.IfTrue
	}
	return t.IfFalse
}

// typeStringParser is a small recursive-descent parser over the PHPDoc
// type-string grammar (unions, intersections, nullability, arrays,
// generics, and array/object shapes). It does not attempt to resolve
// class names to FQNs -- that is the name resolver's job (resolver_name.go)
// and happens as a second pass over every ObjectType leaf this parser
// produces.
type typeStringParser struct {
	s   string
	pos int
}

// ParseTypeString parses a single PHPDoc type expression, e.g.
// "array<int, Foo>|null" or "array{id: int, name?: string}".
func ParseTypeString(s string) PHPType {
	p := &typeStringParser{s: strings.TrimSpace(s)}
	t := p.parseUnion()
	if t == nil {
		return NewMixedType()
	}
	return t
}

func (p *typeStringParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *typeStringParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeStringParser) parseUnion() PHPType {
	first := p.parseIntersection()
	if first == nil {
		return nil
	}
	types := []PHPType{first}
	p.skipSpace()
	for p.peek() == '|' {
		p.pos++
		p.skipSpace()
		next := p.parseIntersection()
		if next == nil {
			break
		}
		types = append(types, next)
		p.skipSpace()
	}
	if len(types) == 1 {
		return types[0]
	}
	return NewUnionType(types)
}

func (p *typeStringParser) parseIntersection() PHPType {
	first := p.parseAtom()
	if first == nil {
		return nil
	}
	types := []PHPType{first}
	p.skipSpace()
	for p.peek() == '&' && p.pos+1 < len(p.s) && p.s[p.pos+1] != '$' {
		p.pos++
		p.skipSpace()
		next := p.parseAtom()
		if next == nil {
			break
		}
		types = append(types, next)
		p.skipSpace()
	}
	if len(types) == 1 {
		return types[0]
	}
	return NewIntersectionType(types)
}

func (p *typeStringParser) parseAtom() PHPType {
	p.skipSpace()
	nullable := false
	if p.peek() == '?' {
		nullable = true
		p.pos++
	}

	if p.peek() == '(' {
		if cond := p.tryParseConditional(); cond != nil {
			return p.withNullable(cond, nullable)
		}
		p.pos++
		inner := p.parseUnion()
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
		}
		return p.withNullable(inner, nullable)
	}

	name := p.parseIdentifier()
	if name == "" {
		return nil
	}

	p.skipSpace()

	// callable(ArgTypes): ReturnType / Closure(ArgTypes): ReturnType
	if p.peek() == '(' && (strings.EqualFold(name, "callable") || strings.EqualFold(name, "closure")) {
		params, ret := p.parseCallableSignature()
		return p.withNullable(NewCallableSignatureType(params, ret, false), nullable)
	}

	// array{...} / object{...}
	if p.peek() == '{' && (strings.EqualFold(name, "array") || strings.EqualFold(name, "object")) {
		fields := p.parseShapeFields()
		return p.withNullable(NewShapeType(strings.EqualFold(name, "object"), fields), nullable)
	}

	// Generic<Args>
	if p.peek() == '<' {
		p.pos++
		var args []PHPType
		for {
			arg := p.parseUnion()
			if arg != nil {
				args = append(args, arg)
			}
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		p.skipSpace()
		if p.peek() == '>' {
			p.pos++
		}
		base := NewPHPType(name)
		return p.withNullable(NewGenericType(base, args), nullable)
	}

	// array shorthand suffix: Foo[]
	for strings.HasPrefix(p.s[p.pos:], "[]") {
		p.pos += 2
		elem := NewPHPType(name)
		name = elem.Name() + "[]"
	}
	if strings.HasSuffix(name, "[]") {
		elemName := strings.TrimSuffix(name, "[]")
		return p.withNullable(NewArrayType(NewPHPType(elemName), false), nullable)
	}

	return p.withNullable(NewPHPType(name), nullable)
}

// tryParseConditional attempts to parse a PHPStan/Psalm conditional return
// type `($param is Foo ? Bar : Baz)` starting at the current '(' position.
// It rewinds to start and returns nil if the contents don't match that
// shape, so the caller falls back to treating '(' as a plain grouping paren.
func (p *typeStringParser) tryParseConditional() PHPType {
	start := p.pos
	p.pos++ // consume '('
	p.skipSpace()
	if p.peek() != '$' {
		p.pos = start
		return nil
	}
	p.pos++
	subject := "$" + p.parseIdentifier()
	p.skipSpace()
	if !p.consumeKeyword("is") {
		p.pos = start
		return nil
	}
	p.skipSpace()
	check := p.parseIntersection()
	if check == nil {
		p.pos = start
		return nil
	}
	p.skipSpace()
	if p.peek() != '?' {
		p.pos = start
		return nil
	}
	p.pos++
	p.skipSpace()
	ifTrue := p.parseUnion()
	if ifTrue == nil {
		p.pos = start
		return nil
	}
	p.skipSpace()
	if p.peek() != ':' {
		p.pos = start
		return nil
	}
	p.pos++
	p.skipSpace()
	ifFalse := p.parseUnion()
	if ifFalse == nil {
		p.pos = start
		return nil
	}
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
	}
	return NewConditionalType(subject, check, ifTrue, ifFalse)
}

// consumeKeyword consumes the bareword kw at the current position if it
// appears there as a whole word (not a prefix of a longer identifier),
// returning whether it matched.
func (p *typeStringParser) consumeKeyword(kw string) bool {
	if p.pos+len(kw) > len(p.s) {
		return false
	}
	if !strings.EqualFold(p.s[p.pos:p.pos+len(kw)], kw) {
		return false
	}
	end := p.pos + len(kw)
	if end < len(p.s) {
		c := p.s[end]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return false
		}
	}
	p.pos = end
	return true
}

// parseCallableSignature parses the `(ArgTypes): ReturnType` suffix on a
// callable/Closure docblock type, e.g. `callable(int, string=): bool`. A
// leading `...` marks a variadic final parameter and a trailing `=` marks
// an optional one; both are accepted but not tracked individually since
// callers only need each parameter's type.
func (p *typeStringParser) parseCallableSignature() ([]PHPType, PHPType) {
	p.pos++ // consume '('
	var params []PHPType
	for {
		p.skipSpace()
		if p.peek() == ')' || p.pos >= len(p.s) {
			break
		}
		if strings.HasPrefix(p.s[p.pos:], "...") {
			p.pos += 3
		}
		t := p.parseUnion()
		if t == nil {
			break
		}
		p.skipSpace()
		if p.peek() == '=' {
			p.pos++
		}
		params = append(params, t)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
	}
	p.skipSpace()
	var ret PHPType
	if p.peek() == ':' {
		p.pos++
		p.skipSpace()
		ret = p.parseUnion()
	}
	return params, ret
}

func (p *typeStringParser) withNullable(t PHPType, nullable bool) PHPType {
	if t == nil {
		return nil
	}
	if !nullable {
		return t
	}
	if _, ok := t.(*NullType); ok {
		return t
	}
	return NewUnionType([]PHPType{t, NewNullType()})
}

func (p *typeStringParser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\\' || c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.s[start:p.pos]
}

func (p *typeStringParser) parseShapeFields() []ShapeField {
	var fields []ShapeField
	if p.peek() != '{' {
		return fields
	}
	p.pos++
	for {
		p.skipSpace()
		if p.peek() == '}' || p.pos >= len(p.s) {
			break
		}
		key := p.parseIdentifier()
		p.skipSpace()
		optional := false
		if p.peek() == '?' {
			optional = true
			p.pos++
		}
		if p.peek() == ':' {
			p.pos++
		}
		valType := p.parseUnion()
		if valType == nil {
			valType = NewMixedType()
		}
		fields = append(fields, ShapeField{Key: key, Type: valType, Optional: optional})
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
	}
	return fields
}
