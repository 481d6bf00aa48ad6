package php

import (
	"strings"

	treesitterhelper "github.com/wbm-mkopp/phpls/internal/tree_sitter_helper"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractFile walks a parsed PHP file's top-level declarations and returns
// every ClassLike, FunctionLike and file-scope ConstantRecord it declares.
// Only top-level and one-level-nested constructs are extracted (trait
// adaptation blocks, enum case lists) -- matching the flat, non-recursive
// cursor walk the teacher lineage uses rather than a full visitor, since a
// single PHP file practically never nests class declarations.
func ExtractFile(path string, tree *tree_sitter.Tree, content []byte) *FileRecords {
	records := newFileRecords(path)
	root := tree.RootNode()

	currentNamespace := ""
	useStatements := make(map[string]string)
	aliases := make(map[string]string)

	cursor := root.Walk()
	defer cursor.Close()

	if !cursor.GotoFirstChild() {
		return records
	}

	for {
		node := cursor.Node()

		switch node.Kind() {
		case "namespace_definition":
			if nameNode := node.Child(1); nameNode != nil && nameNode.Kind() == "namespace_name" {
				currentNamespace = string(nameNode.Utf8Text(content))
			}

		case "namespace_use_declaration":
			collectUseDeclaration(node, content, useStatements, aliases)

		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			resolver := NewNameResolver(currentNamespace, useStatements, aliases)
			class := extractClassLike(node, content, currentNamespace, resolver)
			if class != nil {
				if doc := findPrecedingDocblock(node, content); doc != nil {
					applyClassDocblock(class, doc, resolver)
				}
				records.Classes[class.FQN] = class
			}

		case "function_definition":
			resolver := NewNameResolver(currentNamespace, useStatements, aliases)
			fn := extractFunction(node, content, currentNamespace, resolver)
			if fn != nil {
				if doc := findPrecedingDocblock(node, content); doc != nil {
					applyFunctionDocblock(fn, doc)
				}
				records.Functions[fn.FQN] = fn
			}

		case "const_declaration":
			extractFileConstants(node, content, currentNamespace, records)

		case "expression_statement":
			extractDefineCall(node, content, records)
		}

		if !cursor.GotoNextSibling() {
			break
		}
	}

	return records
}

func collectUseDeclaration(node *tree_sitter.Node, content []byte, useStatements, aliases map[string]string) {
	namespaceNameNode := findChildByKind(node, "namespace_name")
	groupNode := findChildByKind(node, "namespace_use_group")

	if namespaceNameNode != nil && groupNode != nil {
		baseNamespace := string(namespaceNameNode.Utf8Text(content))
		for i := uint(0); i < groupNode.NamedChildCount(); i++ {
			clause := groupNode.NamedChild(i)
			if clause == nil || clause.Kind() != "namespace_use_clause" {
				continue
			}
			collectUseClause(clause, content, baseNamespace+"\\", useStatements, aliases)
		}
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		clause := node.NamedChild(i)
		if clause != nil && clause.Kind() == "namespace_use_clause" {
			collectUseClause(clause, content, "", useStatements, aliases)
		}
	}
}

func collectUseClause(clause *tree_sitter.Node, content []byte, prefix string, useStatements, aliases map[string]string) {
	qualifiedName := findChildByKind(clause, "qualified_name")
	if qualifiedName != nil {
		fullPath := prefix + string(qualifiedName.Utf8Text(content))
		classNameNode := qualifiedName.NamedChild(qualifiedName.NamedChildCount() - 1)
		if classNameNode == nil || classNameNode.Kind() != "name" {
			return
		}
		className := string(classNameNode.Utf8Text(content))
		if aliasNode := findChildByKind(clause, "name"); aliasNode != nil && aliasNode != classNameNode {
			aliases[string(aliasNode.Utf8Text(content))] = fullPath
			return
		}
		if prefix == "" && !strings.Contains(fullPath, "\\") {
			useStatements[className] = className
			return
		}
		useStatements[className] = fullPath
		return
	}

	// Direct two-name form used inside a group: `Connection as DbConnection`.
	if clause.NamedChildCount() >= 2 {
		nameNode := clause.NamedChild(0)
		aliasNode := clause.NamedChild(1)
		if nameNode != nil && nameNode.Kind() == "name" && aliasNode != nil && aliasNode.Kind() == "name" {
			className := string(nameNode.Utf8Text(content))
			aliasName := string(aliasNode.Utf8Text(content))
			aliases[aliasName] = prefix + className
		}
	}
}

func extractClassLike(node *tree_sitter.Node, content []byte, namespace string, resolver *NameResolver) *ClassLike {
	nameNode := treesitterhelper.GetFirstNodeOfKind(node, "name")
	if nameNode == nil {
		return nil
	}

	fqn := string(nameNode.Utf8Text(content))
	if namespace != "" {
		fqn = namespace + "\\" + fqn
	}

	kind := KindClass
	switch node.Kind() {
	case "interface_declaration":
		kind = KindInterface
	case "trait_declaration":
		kind = KindTrait
	case "enum_declaration":
		kind = KindEnum
	}

	class := newClassLike(fqn, "", int(nameNode.Range().StartPoint.Row)+1, kind)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		modifier := node.NamedChild(i)
		if modifier == nil {
			continue
		}
		switch string(modifier.Utf8Text(content)) {
		case "abstract":
			class.IsAbstract = true
		case "final":
			class.IsFinal = true
		}
	}

	if kind == KindInterface {
		if base := treesitterhelper.GetFirstNodeOfKind(node, "base_clause"); base != nil {
			for i := uint(0); i < base.NamedChildCount(); i++ {
				if child := base.NamedChild(i); child != nil && child.Kind() == "name" {
					class.Interfaces = append(class.Interfaces, resolver.Resolve(string(child.Utf8Text(content))))
				}
			}
		}
	} else {
		if base := treesitterhelper.GetFirstNodeOfKind(node, "base_clause"); base != nil {
			for i := uint(0); i < base.NamedChildCount(); i++ {
				if child := base.NamedChild(i); child != nil && child.Kind() == "name" {
					class.Parent = resolver.Resolve(string(child.Utf8Text(content)))
				}
			}
		}
		if ifaces := treesitterhelper.GetFirstNodeOfKind(node, "class_interface_clause"); ifaces != nil {
			for i := uint(0); i < ifaces.NamedChildCount(); i++ {
				if child := ifaces.NamedChild(i); child != nil && child.Kind() == "name" {
					class.Interfaces = append(class.Interfaces, resolver.Resolve(string(child.Utf8Text(content))))
				}
			}
		}
	}

	if kind == KindEnum {
		if backing := findChildByKind(node, "enum_backing_type"); backing != nil {
			class.EnumBackingType = strings.TrimSpace(string(backing.Utf8Text(content)))
		}
		// Implicit interface per the spec: UnitEnum always, BackedEnum when
		// the enum declares a backing type.
		class.Interfaces = append(class.Interfaces, "UnitEnum")
		if class.EnumBackingType != "" {
			class.Interfaces = append(class.Interfaces, "BackedEnum")
		}
	}

	body := findDirectChildOfKind(node, "declaration_list")
	if body == nil {
		body = treesitterhelper.GetFirstNodeOfKind(node, "enum_declaration_list")
	}
	if body != nil {
		extractBody(body, content, resolver, class)
	}

	return class
}

func extractBody(body *tree_sitter.Node, content []byte, resolver *NameResolver, class *ClassLike) {
	typeCache := make(map[string]PHPType)

	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "use_declaration":
			use := extractTraitUse(child, content, resolver)
			class.Traits = append(class.Traits, use)
			if doc := findPrecedingDocblock(child, content); doc != nil {
				for _, ref := range doc.Use {
					class.ParentArgs[resolver.Resolve(ref.Name)] = ref.Args
				}
			}

		case "property_declaration":
			extractProperties(child, content, resolver, typeCache, class, findPrecedingDocblock(child, content))

		case "method_declaration":
			extractMethod(child, content, resolver, typeCache, class, findPrecedingDocblock(child, content))

		case "const_declaration":
			extractClassConstants(child, content, class)

		case "enum_case":
			extractEnumCase(child, content, class)
		}
	}
}

func extractTraitUse(node *tree_sitter.Node, content []byte, resolver *NameResolver) TraitUse {
	use := TraitUse{}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "name", "qualified_name":
			use.Traits = append(use.Traits, resolver.Resolve(string(child.Utf8Text(content))))
		case "use_list":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				adaptation := child.NamedChild(j)
				if adaptation == nil {
					continue
				}
				use.Adaptations = append(use.Adaptations, extractAdaptation(adaptation, content, resolver))
			}
		}
	}
	return use
}

func extractAdaptation(node *tree_sitter.Node, content []byte, resolver *NameResolver) TraitAdaptation {
	var a TraitAdaptation
	text := string(node.Utf8Text(content))
	switch node.Kind() {
	case "insteadof_clause":
		names := findAllNodesOfKind(node, "name")
		if len(names) >= 2 {
			a.Method = string(names[0].Utf8Text(content))
			for _, n := range names[1:] {
				a.InsteadOf = append(a.InsteadOf, resolver.Resolve(string(n.Utf8Text(content))))
			}
		}
	case "as_clause":
		names := findAllNodesOfKind(node, "name")
		if len(names) >= 1 {
			a.Method = string(names[0].Utf8Text(content))
		}
		if strings.Contains(text, "private") {
			v := Private
			a.AsVisibility = &v
		} else if strings.Contains(text, "protected") {
			v := Protected
			a.AsVisibility = &v
		} else if strings.Contains(text, "public") {
			v := Public
			a.AsVisibility = &v
		}
		if len(names) >= 2 {
			a.AsName = string(names[len(names)-1].Utf8Text(content))
		}
	}
	return a
}

func extractProperties(child *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType, class *ClassLike, doc *Docblock) {
	visibility := Public
	isStatic, isReadonly := false, false
	for k := uint(0); k < child.NamedChildCount(); k++ {
		modifier := child.NamedChild(k)
		if modifier == nil {
			continue
		}
		switch string(modifier.Utf8Text(content)) {
		case "private":
			visibility = Private
		case "protected":
			visibility = Protected
		case "public":
			visibility = Public
		case "static":
			isStatic = true
		case "readonly":
			isReadonly = true
		}
	}

	propType := resolveTypeFromDeclaration(child, content, resolver, typeCache, NewMixedType())
	// The docblock's @var wins over the native type declaration when present --
	// the effective-type-override rule (PHPDoc types are always more precise).
	if doc != nil && doc.VarType != nil {
		propType = doc.VarType
	}

	for j := uint(0); j < child.NamedChildCount(); j++ {
		propElement := child.NamedChild(j)
		if propElement == nil || propElement.Kind() != "property_element" {
			continue
		}
		varNode := treesitterhelper.GetFirstNodeOfKind(propElement, "variable_name")
		if varNode == nil {
			continue
		}
		propName := strings.TrimPrefix(string(varNode.Utf8Text(content)), "$")
		member := MemberRecord{
			Name:       propName,
			Line:       int(varNode.Range().StartPoint.Row) + 1,
			Visibility: visibility,
			IsStatic:   isStatic,
			IsReadonly: isReadonly,
			Type:       propType,
		}
		if doc != nil {
			member.Deprecated = doc.Deprecated
		}
		class.Properties[propName] = member
	}
}

func extractMethod(child *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType, class *ClassLike, doc *Docblock) {
	methodNameNode := treesitterhelper.GetFirstNodeOfKind(child, "name")
	if methodNameNode == nil {
		return
	}
	methodName := string(methodNameNode.Utf8Text(content))

	visibility := Public
	isStatic, isAbstract := false, false
	for k := uint(0); k < child.NamedChildCount(); k++ {
		modifier := child.NamedChild(k)
		if modifier == nil {
			continue
		}
		switch string(modifier.Utf8Text(content)) {
		case "private":
			visibility = Private
		case "protected":
			visibility = Protected
		case "public":
			visibility = Public
		case "static":
			isStatic = true
		case "abstract":
			isAbstract = true
		}
	}

	returnType := resolveTypeFromDeclaration(child, content, resolver, typeCache, NewVoidType())

	var params []Param
	if paramList := treesitterhelper.GetFirstNodeOfKind(child, "formal_parameters"); paramList != nil {
		params = extractParams(paramList, content, resolver, typeCache)
		if methodName == "__construct" {
			for j := uint(0); j < paramList.NamedChildCount(); j++ {
				param := paramList.NamedChild(j)
				if param == nil || param.Kind() != "property_promotion_parameter" {
					continue
				}
				addPromotedProperty(param, content, resolver, typeCache, class)
			}
		}
	}

	member := MemberRecord{
		Name:       methodName,
		Line:       int(methodNameNode.Range().StartPoint.Row) + 1,
		Visibility: visibility,
		IsStatic:   isStatic,
		IsAbstract: isAbstract,
		IsMethod:   true,
		Type:       returnType,
		Params:     params,
	}
	if doc != nil {
		applyMethodDocblock(&member, doc, params)
	}
	class.Methods[methodName] = member
}

// applyMethodDocblock applies a parsed docblock's @return/@param/@throws/
// @deprecated/@template tags onto a method's MemberRecord, following the
// effective-type-override rule: the docblock's type wins over the native
// declaration's when present.
func applyMethodDocblock(member *MemberRecord, doc *Docblock, params []Param) {
	if doc.Return != nil {
		if cond, ok := doc.Return.Type.(*ConditionalType); ok {
			member.Conditional = cond
		} else if doc.Return.Type != nil {
			member.Type = doc.Return.Type
		}
	}
	for _, pd := range doc.Params {
		for i := range params {
			if params[i].Name == pd.Name && pd.Type != nil {
				params[i].Type = pd.Type
			}
		}
	}
	member.Params = params
	member.Throws = doc.Throws
	member.Deprecated = doc.Deprecated
	member.Assertions = doc.Assertions
	for _, t := range doc.Templates {
		member.TemplateParams = append(member.TemplateParams, TemplateDeclToParam(t))
	}
}

func addPromotedProperty(param *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType, class *ClassLike) {
	varNode := treesitterhelper.GetFirstNodeOfKind(param, "variable_name")
	if varNode == nil {
		return
	}
	propName := strings.TrimPrefix(string(varNode.Utf8Text(content)), "$")

	visibility := Public
	isReadonly := false
	for k := uint(0); k < param.NamedChildCount(); k++ {
		modifier := param.NamedChild(k)
		if modifier == nil {
			continue
		}
		switch string(modifier.Utf8Text(content)) {
		case "private":
			visibility = Private
		case "protected":
			visibility = Protected
		case "public":
			visibility = Public
		case "readonly":
			isReadonly = true
		}
	}

	propType := resolveTypeFromDeclaration(param, content, resolver, typeCache, NewMixedType())

	class.Properties[propName] = MemberRecord{
		Name:       propName,
		Line:       int(varNode.Range().StartPoint.Row) + 1,
		Visibility: visibility,
		IsReadonly: isReadonly,
		Type:       propType,
	}
}

func extractParams(paramList *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType) []Param {
	var params []Param
	for i := uint(0); i < paramList.NamedChildCount(); i++ {
		p := paramList.NamedChild(i)
		if p == nil {
			continue
		}
		if p.Kind() != "simple_parameter" && p.Kind() != "variadic_parameter" && p.Kind() != "property_promotion_parameter" {
			continue
		}
		varNode := treesitterhelper.GetFirstNodeOfKind(p, "variable_name")
		if varNode == nil {
			continue
		}
		param := Param{
			Name:       strings.TrimPrefix(string(varNode.Utf8Text(content)), "$"),
			Type:       resolveTypeFromDeclaration(p, content, resolver, typeCache, NewMixedType()),
			Variadic:   p.Kind() == "variadic_parameter",
			HasDefault: findDirectChildOfKind(p, "default_value") != nil,
		}
		if findDirectChildOfKind(p, "reference_modifier") != nil {
			param.ByRef = true
		}
		params = append(params, param)
	}
	return params
}

func extractClassConstants(node *tree_sitter.Node, content []byte, class *ClassLike) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		elem := node.NamedChild(i)
		if elem == nil || elem.Kind() != "const_element" {
			continue
		}
		nameNode := treesitterhelper.GetFirstNodeOfKind(elem, "name")
		if nameNode == nil {
			continue
		}
		name := string(nameNode.Utf8Text(content))
		class.Constants[name] = ConstantRecord{
			Name: name,
			FQN:  class.FQN + "::" + name,
			Line: int(nameNode.Range().StartPoint.Row) + 1,
			Type: NewMixedType(),
		}
	}
}

func extractEnumCase(node *tree_sitter.Node, content []byte, class *ClassLike) {
	nameNode := treesitterhelper.GetFirstNodeOfKind(node, "name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Utf8Text(content))
	class.Constants[name] = ConstantRecord{
		Name: name,
		FQN:  class.FQN + "::" + name,
		Line: int(nameNode.Range().StartPoint.Row) + 1,
		Type: NewObjectType(class.FQN, false),
	}
}

func extractFunction(node *tree_sitter.Node, content []byte, namespace string, resolver *NameResolver) *FunctionLike {
	nameNode := treesitterhelper.GetFirstNodeOfKind(node, "name")
	if nameNode == nil {
		return nil
	}
	fqn := string(nameNode.Utf8Text(content))
	if namespace != "" {
		fqn = namespace + "\\" + fqn
	}

	typeCache := make(map[string]PHPType)
	returnType := resolveTypeFromDeclaration(node, content, resolver, typeCache, NewMixedType())

	var params []Param
	if paramList := treesitterhelper.GetFirstNodeOfKind(node, "formal_parameters"); paramList != nil {
		params = extractParams(paramList, content, resolver, typeCache)
	}

	return &FunctionLike{
		FQN:        fqn,
		Line:       int(nameNode.Range().StartPoint.Row) + 1,
		Params:     params,
		ReturnType: returnType,
	}
}

func extractFileConstants(node *tree_sitter.Node, content []byte, namespace string, records *FileRecords) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		elem := node.NamedChild(i)
		if elem == nil || elem.Kind() != "const_element" {
			continue
		}
		nameNode := treesitterhelper.GetFirstNodeOfKind(elem, "name")
		if nameNode == nil {
			continue
		}
		name := string(nameNode.Utf8Text(content))
		fqn := name
		if namespace != "" {
			fqn = namespace + "\\" + name
		}
		records.Constants[fqn] = &ConstantRecord{
			Name: name,
			FQN:  fqn,
			Path: records.Path,
			Line: int(nameNode.Range().StartPoint.Row) + 1,
			Type: NewMixedType(),
		}
	}
}

// extractDefineCall recognizes top-level `define('NAME', value);` calls,
// the other way file-scope constants are declared.
func extractDefineCall(node *tree_sitter.Node, content []byte, records *FileRecords) {
	call := treesitterhelper.GetFirstNodeOfKind(node, "function_call_expression")
	if call == nil {
		return
	}
	fn := call.Child(0)
	if fn == nil || fn.Kind() != "name" || string(fn.Utf8Text(content)) != "define" {
		return
	}
	args := treesitterhelper.GetFirstNodeOfKind(call, "arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	first := args.NamedChild(0)
	str := treesitterhelper.GetFirstNodeOfKind(first, "string_content")
	if str == nil {
		return
	}
	name := string(str.Utf8Text(content))
	records.Constants[name] = &ConstantRecord{
		Name: name,
		FQN:  name,
		Path: records.Path,
		Line: int(node.Range().StartPoint.Row) + 1,
		Type: NewMixedType(),
	}
}

func resolveTypeFromDeclaration(node *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType, fallback PHPType) PHPType {
	if unionNode := findDirectChildOfKind(node, "union_type"); unionNode != nil {
		var types []PHPType
		for i := uint(0); i < unionNode.NamedChildCount(); i++ {
			types = append(types, resolveSingleTypeNode(unionNode.NamedChild(i), content, resolver, typeCache))
		}
		return NewUnionType(types)
	}

	if optional := findDirectChildOfKind(node, "optional_type"); optional != nil {
		inner := resolveSingleTypeNode(optional.NamedChild(0), content, resolver, typeCache)
		return NewUnionType([]PHPType{inner, NewNullType()})
	}

	namedTypeNode := findDirectChildOfKind(node, "named_type")
	if namedTypeNode != nil {
		return resolveSingleTypeNode(namedTypeNode, content, resolver, typeCache)
	}

	primitiveTypeNode := findDirectChildOfKind(node, "primitive_type")
	if primitiveTypeNode != nil {
		return resolveSingleTypeNode(primitiveTypeNode, content, resolver, typeCache)
	}

	return fallback
}

func resolveSingleTypeNode(node *tree_sitter.Node, content []byte, resolver *NameResolver, typeCache map[string]PHPType) PHPType {
	if node == nil {
		return NewMixedType()
	}
	if node.Kind() == "primitive_type" {
		typeString := string(node.Utf8Text(content))
		if cached, ok := typeCache[typeString]; ok {
			return cached
		}
		t := NewPHPType(typeString)
		typeCache[typeString] = t
		return t
	}

	nameNode := findFirstNodeOfKind(node, "name")
	if nameNode == nil {
		return NewMixedType()
	}
	shortName := string(nameNode.Utf8Text(content))
	if cached, ok := typeCache[shortName]; ok {
		return cached
	}
	resolved := resolver.Resolve(shortName)
	t := NewPHPType(resolved)
	typeCache[shortName] = t
	return t
}

// findPrecedingDocblock returns the `/** ... */` comment that is the
// declaration's immediate previous sibling, if any. Only that one sibling is
// checked: any other node in between (including a non-doc comment) means no
// docblock is found, while blank lines are not nodes and do not stop it.
func findPrecedingDocblock(node *tree_sitter.Node, content []byte) *Docblock {
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return nil
	}
	text := string(prev.Utf8Text(content))
	if !strings.HasPrefix(strings.TrimSpace(text), "/**") {
		return nil
	}
	return ParseDocblock(text)
}

// TemplateDeclToParam converts a parsed `@template` tag into the
// TemplateParam shape stored on ClassLike/MemberRecord.
func TemplateDeclToParam(t TemplateDecl) TemplateParam {
	return TemplateParam{Name: t.Name, Bound: t.Constraint, Variance: t.Variance}
}

// applyClassDocblock merges a class-like's own docblock tags onto its
// ClassLike record: templates, mixins, type aliases, imported aliases,
// virtual members and parent/interface generic arguments.
func applyClassDocblock(class *ClassLike, doc *Docblock, resolver *NameResolver) {
	for _, t := range doc.Templates {
		class.TemplateParams = append(class.TemplateParams, TemplateDeclToParam(t))
	}
	class.Mixins = append(class.Mixins, doc.Mixins...)
	for name, t := range doc.TypeAliases {
		class.TypeAliases[name] = t
	}
	for _, ref := range doc.Extends {
		class.ParentArgs[resolver.Resolve(ref.Name)] = ref.Args
	}
	for _, imp := range doc.ImportedTypes {
		class.ImportedAliases[imp.Alias] = ImportedAlias{
			From:  resolver.Resolve(imp.From),
			Name:  imp.Name,
			Alias: imp.Alias,
		}
	}
	for _, p := range doc.Properties {
		class.VirtualMembers[p.Name] = VirtualMember{
			Name:      p.Name,
			Type:      p.Type,
			ReadOnly:  p.ReadOnly,
			WriteOnly: p.WriteOnly,
		}
	}
	for _, m := range doc.Methods {
		class.VirtualMembers[m.Name] = VirtualMember{
			Name:     m.Name,
			IsMethod: true,
			Type:     m.ReturnType,
			Params:   m.Params,
			IsStatic: m.Static,
		}
	}
	class.Deprecated = class.Deprecated || doc.Deprecated
}

// applyFunctionDocblock applies a standalone function's @return/@param
// override tags onto its FunctionLike record.
func applyFunctionDocblock(fn *FunctionLike, doc *Docblock) {
	if doc.Return != nil {
		if _, isConditional := doc.Return.Type.(*ConditionalType); !isConditional && doc.Return.Type != nil {
			fn.ReturnType = doc.Return.Type
		}
	}
	for _, pd := range doc.Params {
		for i := range fn.Params {
			if fn.Params[i].Name == pd.Name && pd.Type != nil {
				fn.Params[i].Type = pd.Type
			}
		}
	}
}

func findChildByKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func findDirectChildOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func findFirstNodeOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	stack := []*tree_sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind() == kind {
			return n
		}
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if child := n.NamedChild(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return nil
}

func findAllNodesOfKind(node *tree_sitter.Node, kind string) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	if node == nil {
		return out
	}
	stack := []*tree_sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind() == kind {
			out = append(out, n)
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return out
}
