package php

// ResolveMember looks up memberName (a method or property) on the class-like
// named classFQN, walking the full inheritance chain in the order the
// engine resolves precedence:
//
//  1. the class's own methods/properties
//  2. its own docblock-declared virtual members (@property/@method)
//  3. trait members, honoring insteadof/as adaptations
//  4. the parent chain, with parent template arguments substituted in
//  5. implemented interfaces, transitively
//  6. @mixin classes, lowest precedence
//
// The returned owner FQN names whichever class-like actually declared the
// member, which may differ from classFQN once inheritance is involved.
func (ws *Workspace) ResolveMember(classFQN, memberName string) (MemberRecord, string, bool) {
	return ws.resolveMember(classFQN, memberName, map[string]bool{})
}

func (ws *Workspace) resolveMember(classFQN, memberName string, visited map[string]bool) (MemberRecord, string, bool) {
	if classFQN == "" || visited[classFQN] {
		return MemberRecord{}, "", false
	}
	visited[classFQN] = true

	class := ws.FindClass(classFQN)
	if class == nil {
		return MemberRecord{}, "", false
	}

	if m, ok := class.Methods[memberName]; ok {
		m.Owner = classFQN
		return m, classFQN, true
	}
	if m, ok := class.Properties[memberName]; ok {
		m.Owner = classFQN
		return m, classFQN, true
	}
	if vm, ok := class.VirtualMembers[memberName]; ok {
		return virtualToMember(vm, classFQN), classFQN, true
	}

	if m, owner, ok := resolveTraitMember(ws, class, memberName, visited); ok {
		return m, owner, true
	}

	if class.Parent != "" {
		if m, owner, ok := ws.resolveMember(class.Parent, memberName, visited); ok {
			if m.Visibility != Private {
				if parent := ws.FindClass(class.Parent); parent != nil {
					m = substituteTemplateMember(m, class, parent)
				}
				return m, owner, true
			}
		}
	}

	for _, iface := range class.Interfaces {
		if m, owner, ok := ws.resolveMember(iface, memberName, visited); ok {
			return m, owner, true
		}
	}

	for _, mixin := range class.Mixins {
		if m, owner, ok := ws.resolveMember(mixin, memberName, visited); ok {
			return m, owner, true
		}
	}

	return MemberRecord{}, "", false
}

// resolveTraitMember applies a class's `use` statements: `as`-aliased names
// are checked first (a rename creates a new member name that wouldn't
// otherwise exist on the trait), then each trait is consulted for
// memberName directly, skipping any trait an `insteadof` clause excluded.
func resolveTraitMember(ws *Workspace, class *ClassLike, memberName string, visited map[string]bool) (MemberRecord, string, bool) {
	for _, use := range class.Traits {
		for _, ad := range use.Adaptations {
			if ad.AsName != memberName || ad.Method == "" {
				continue
			}
			sourceTrait := adaptationSourceTrait(ad, use)
			if sourceTrait == "" {
				continue
			}
			if m, owner, ok := ws.resolveMember(sourceTrait, ad.Method, visited); ok {
				if ad.AsVisibility != nil {
					m.Visibility = *ad.AsVisibility
				}
				return m, owner, true
			}
		}
	}

	excluded := map[string]bool{}
	for _, use := range class.Traits {
		for _, ad := range use.Adaptations {
			if ad.Method != memberName {
				continue
			}
			for _, ex := range ad.InsteadOf {
				excluded[ex] = true
			}
		}
	}

	for _, use := range class.Traits {
		for _, traitFQN := range use.Traits {
			if excluded[traitFQN] {
				continue
			}
			if m, owner, ok := ws.resolveMember(traitFQN, memberName, visited); ok {
				return m, owner, true
			}
		}
	}

	return MemberRecord{}, "", false
}

// adaptationSourceTrait finds which trait an `as` adaptation with no
// explicit source (`method as newName;` rather than `Trait::method as
// newName;`) refers to -- only unambiguous when the use statement names a
// single trait.
func adaptationSourceTrait(ad TraitAdaptation, use TraitUse) string {
	if ad.Trait != "" {
		return ad.Trait
	}
	if len(use.Traits) == 1 {
		return use.Traits[0]
	}
	return ""
}

func virtualToMember(vm VirtualMember, owner string) MemberRecord {
	return MemberRecord{
		Name:       vm.Name,
		Visibility: Public,
		IsStatic:   vm.IsStatic,
		IsMethod:   vm.IsMethod,
		Type:       vm.Type,
		Params:     vm.Params,
		Owner:      owner,
	}
}

// substituteTemplateMember rewrites a parent member's template-parameter
// types (from `@extends Parent<Args>`) with the concrete arguments the
// subclass supplied, so e.g. a `Collection<T>`'s `get(): T` reports the
// concrete element type when resolved through a `ProductCollection extends
// Collection<Product>`.
func substituteTemplateMember(m MemberRecord, class *ClassLike, parent *ClassLike) MemberRecord {
	if len(parent.TemplateParams) == 0 {
		return m
	}
	args := class.ParentArgs[parent.FQN]
	if len(args) == 0 {
		return m
	}

	subst := make(map[string]PHPType, len(parent.TemplateParams))
	for i, tp := range parent.TemplateParams {
		if i >= len(args) {
			break
		}
		subst[tp.Name] = args[i]
	}
	if len(subst) == 0 {
		return m
	}

	m.Type = substituteTemplate(m.Type, subst)
	if len(m.Params) > 0 {
		params := make([]Param, len(m.Params))
		copy(params, m.Params)
		for i := range params {
			params[i].Type = substituteTemplate(params[i].Type, subst)
		}
		m.Params = params
	}
	return m
}

// substituteTemplate walks t looking for ObjectType leaves whose name
// matches a template parameter and replaces them with the bound concrete
// type. Other type shapes are rebuilt only when a nested substitution
// actually changed something, to avoid needlessly losing type identity.
func substituteTemplate(t PHPType, subst map[string]PHPType) PHPType {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ObjectType:
		if repl, ok := subst[v.className]; ok {
			return repl
		}
		return t
	case *UnionType:
		newTypes := make([]PHPType, len(v.types))
		changed := false
		for i, sub := range v.types {
			newTypes[i] = substituteTemplate(sub, subst)
			if newTypes[i] != sub {
				changed = true
			}
		}
		if changed {
			return NewUnionType(newTypes)
		}
		return t
	case *IntersectionType:
		newTypes := make([]PHPType, len(v.types))
		changed := false
		for i, sub := range v.types {
			newTypes[i] = substituteTemplate(sub, subst)
			if newTypes[i] != sub {
				changed = true
			}
		}
		if changed {
			return NewIntersectionType(newTypes)
		}
		return t
	case *ArrayType:
		if v.elementType == nil {
			return t
		}
		if repl := substituteTemplate(v.elementType, subst); repl != v.elementType {
			return NewArrayType(repl, v.nullable)
		}
		return t
	case *GenericType:
		newArgs := make([]PHPType, len(v.Args))
		changed := false
		for i, a := range v.Args {
			newArgs[i] = substituteTemplate(a, subst)
			if newArgs[i] != a {
				changed = true
			}
		}
		if changed {
			return NewGenericType(v.Base, newArgs)
		}
		return t
	default:
		return t
	}
}

// AllMembers returns every method and property reachable from classFQN
// through the full inheritance chain, keyed by name with the
// highest-precedence declaration winning -- the source the completion
// builder uses instead of repeating the merge itself.
func (ws *Workspace) AllMembers(classFQN string) map[string]MemberRecord {
	out := make(map[string]MemberRecord)
	ws.collectMembers(classFQN, out, map[string]bool{})
	return out
}

func (ws *Workspace) collectMembers(classFQN string, out map[string]MemberRecord, visited map[string]bool) {
	if classFQN == "" || visited[classFQN] {
		return
	}
	visited[classFQN] = true

	class := ws.FindClass(classFQN)
	if class == nil {
		return
	}

	for name, m := range class.Methods {
		if _, ok := out[name]; !ok {
			m.Owner = classFQN
			out[name] = m
		}
	}
	for name, m := range class.Properties {
		if _, ok := out[name]; !ok {
			m.Owner = classFQN
			out[name] = m
		}
	}
	for name, vm := range class.VirtualMembers {
		if _, ok := out[name]; !ok {
			out[name] = virtualToMember(vm, classFQN)
		}
	}
	for _, use := range class.Traits {
		for _, traitFQN := range use.Traits {
			ws.collectMembers(traitFQN, out, visited)
		}
	}
	if class.Parent != "" {
		ws.collectMembers(class.Parent, out, visited)
	}
	for _, iface := range class.Interfaces {
		ws.collectMembers(iface, out, visited)
	}
	for _, mixin := range class.Mixins {
		ws.collectMembers(mixin, out, visited)
	}
}
