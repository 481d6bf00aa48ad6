package php

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ContextKind classifies the cursor position a completion/definition
// request was made from, the taxonomy the LSP handlers switch on before
// deciding what kind of answer to build.
type ContextKind int

const (
	ContextNone ContextKind = iota
	// ContextMemberAccess is `$expr->` or `$expr?->`: member completion on
	// the resolved type of expr.
	ContextMemberAccess
	// ContextStaticAccess is `Expr::`: static member/constant completion.
	ContextStaticAccess
	// ContextClassName is a bare identifier position where a class, interface,
	// trait or enum name is expected (new, type hints, catch, instanceof, extends).
	ContextClassName
	// ContextArgumentName is inside a call's parentheses, for named-argument
	// completion.
	ContextArgumentName
)

// CursorContext is the resolved classification for a completion/definition
// request, plus whatever subject information that classification needs.
type CursorContext struct {
	Kind ContextKind

	// Subject is the left-hand expression node for member/static access
	// (the `$expr` in `$expr->foo`), nil otherwise.
	Subject *tree_sitter.Node

	// Nullsafe is true for `?->` and `::`, i.e. contexts that
	// tolerate or require static resolution rather than a live instance.
	Nullsafe bool
}

// ClassifyCursor inspects node (the node tree-sitter found at the
// completion/definition position, usually an error/missing node or the
// smallest enclosing token) and determines what kind of completion or
// definition request this is.
func ClassifyCursor(node *tree_sitter.Node) CursorContext {
	if node == nil {
		return CursorContext{Kind: ContextNone}
	}

	if access := enclosingMemberAccess(node); access != nil {
		subject := access.NamedChild(0)
		nullsafe := strings.Contains(access.Kind(), "nullsafe")
		return CursorContext{Kind: ContextMemberAccess, Subject: subject, Nullsafe: nullsafe}
	}

	if access := enclosingScopedAccess(node); access != nil {
		subject := access.NamedChild(0)
		return CursorContext{Kind: ContextStaticAccess, Subject: subject, Nullsafe: true}
	}

	if isClassNamePosition(node) {
		return CursorContext{Kind: ContextClassName}
	}

	if enclosingArguments(node) != nil {
		return CursorContext{Kind: ContextArgumentName}
	}

	return CursorContext{Kind: ContextNone}
}

func enclosingMemberAccess(node *tree_sitter.Node) *tree_sitter.Node {
	for current := node; current != nil; current = current.Parent() {
		switch current.Kind() {
		case "member_access_expression", "member_call_expression",
			"nullsafe_member_access_expression", "nullsafe_member_call_expression":
			return current
		}
	}
	return nil
}

func enclosingScopedAccess(node *tree_sitter.Node) *tree_sitter.Node {
	for current := node; current != nil; current = current.Parent() {
		switch current.Kind() {
		case "scoped_property_access_expression", "scoped_call_expression", "class_constant_access_expression":
			return current
		}
	}
	return nil
}

func isClassNamePosition(node *tree_sitter.Node) bool {
	for current := node; current != nil; current = current.Parent() {
		switch current.Kind() {
		case "object_creation_expression", "base_clause", "class_interface_clause",
			"named_type", "catch_clause", "instanceof_expression":
			return true
		}
		// Stop walking once we're past the immediately enclosing expression --
		// class-name context never spans a whole statement.
		if current.Kind() == "expression_statement" || current.Kind() == "compound_statement" {
			return false
		}
	}
	return false
}

func enclosingArguments(node *tree_sitter.Node) *tree_sitter.Node {
	for current := node; current != nil; current = current.Parent() {
		if current.Kind() == "arguments" {
			return current
		}
		if current.Kind() == "compound_statement" {
			return nil
		}
	}
	return nil
}

// ResolveSubjectType resolves the PHP type of a cursor context's Subject
// expression, the type member completion and go-to-definition both need.
// It special-cases the handful of subject forms completion actually sees
// ($this, a bare variable, a chained member/static access, a call
// expression) and falls back to GetTypeOfNode for anything else.
func ResolveSubjectType(ws *Workspace, subject *tree_sitter.Node, content []byte, currentClassFQN string) PHPType {
	if subject == nil {
		return NewMixedType()
	}

	switch subject.Kind() {
	case "variable_name":
		name := strings.TrimPrefix(string(subject.Utf8Text(content)), "$")
		if name == "this" {
			return NewObjectType(currentClassFQN, false)
		}
		return InferVariableType(ws, subject, name, content, currentClassFQN)

	case "name", "qualified_name":
		// Bare class name before `::`.
		return NewObjectType(string(subject.Utf8Text(content)), false)

	case "member_access_expression", "nullsafe_member_access_expression":
		return resolveChainedAccess(ws, subject, content, currentClassFQN)

	case "member_call_expression", "nullsafe_member_call_expression":
		return resolveMemberCallType(ws, subject, content, currentClassFQN)

	case "scoped_property_access_expression", "scoped_call_expression":
		return resolveChainedAccess(ws, subject, content, currentClassFQN)

	default:
		return GetTypeOfNode(ws, subject, content, currentClassFQN)
	}
}

// receiverAndMemberName splits a member/static access or call node into its
// receiver expression (the `$expr`/`Expr` being accessed) and the accessed
// member's name, independent of whether the node also carries a trailing
// `arguments` child -- the same shape works for `$expr->prop`, `$expr->m()`
// and `Expr::m()`.
func receiverAndMemberName(node *tree_sitter.Node, content []byte) (*tree_sitter.Node, string) {
	if node.NamedChildCount() == 0 {
		return nil, ""
	}
	receiver := node.NamedChild(0)
	for i := uint(1); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == "name" {
			return receiver, string(child.Utf8Text(content))
		}
	}
	return receiver, ""
}

// resolveChainedAccess resolves `$expr->prop` / `Expr::prop` by resolving
// the inner subject first, then looking up the named member on it --
// the multi-line `->`/`?->` continuation case collapses naturally here
// since each link just recurses one level.
func resolveChainedAccess(ws *Workspace, node *tree_sitter.Node, content []byte, currentClassFQN string) PHPType {
	inner, memberName := receiverAndMemberName(node, content)
	if inner == nil || memberName == "" {
		return NewMixedType()
	}

	innerType := ResolveSubjectType(ws, inner, content, currentClassFQN)
	objType, ok := innerType.(*ObjectType)
	if !ok {
		return NewMixedType()
	}

	member, _, ok := ws.ResolveMember(resolveSpecialType(ws, objType.className, currentClassFQN), memberName)
	if !ok || member.Type == nil {
		return NewMixedType()
	}
	return member.Type
}

// resolveMemberCallType resolves `$expr->method()` / `Expr::method()` by
// resolving the receiver expression recursively -- so a builder chain like
// `$container->make(User::class)->only('id')` follows `make`'s declared
// return type rather than stopping at `$this` -- then reading the called
// method's declared return type off the resolved receiver's class.
func resolveMemberCallType(ws *Workspace, node *tree_sitter.Node, content []byte, currentClassFQN string) PHPType {
	receiver, methodName := receiverAndMemberName(node, content)
	if receiver == nil || methodName == "" {
		return NewMixedType()
	}

	receiverType := ResolveSubjectType(ws, receiver, content, currentClassFQN)
	objType, ok := receiverType.(*ObjectType)
	if !ok {
		return NewMixedType()
	}

	member, _, ok := ws.ResolveMember(resolveSpecialType(ws, objType.className, currentClassFQN), methodName)
	if !ok {
		return NewMixedType()
	}
	if member.Conditional != nil {
		return resolveConditionalReturn(ws, member, node, content, currentClassFQN)
	}
	if member.Type == nil {
		return NewMixedType()
	}
	return member.Type
}

// resolveConditionalReturn evaluates a `@return ($param is Foo ? Bar : Baz)`
// method against the actual argument bound to $param at this call site,
// falling back to the union of both branches when the argument position
// can't be matched (the same conservative policy the conditional type's own
// Matches implementation uses for unresolved cases).
func resolveConditionalReturn(ws *Workspace, member MemberRecord, callNode *tree_sitter.Node, content []byte, currentClassFQN string) PHPType {
	cond := member.Conditional
	argType := conditionalSubjectArgumentType(ws, member, callNode, content, currentClassFQN, cond.Subject)
	if argType == nil {
		return NewUnionType([]PHPType{cond.IfTrue, cond.IfFalse})
	}
	return cond.Resolve(argType.Matches(cond.CheckType))
}

// conditionalSubjectArgumentType finds member's parameter named subject
// (e.g. "$value"), locates the corresponding positional argument in
// callNode's argument list, and infers that argument expression's type.
func conditionalSubjectArgumentType(ws *Workspace, member MemberRecord, callNode *tree_sitter.Node, content []byte, currentClassFQN, subject string) PHPType {
	paramName := strings.TrimPrefix(subject, "$")
	idx := -1
	for i, p := range member.Params {
		if p.Name == paramName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	args := findDirectChildOfKind(callNode, "arguments")
	if args == nil {
		return nil
	}
	var argExprs []*tree_sitter.Node
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if arg := args.NamedChild(i); arg != nil {
			if arg.Kind() == "argument" {
				arg = arg.NamedChild(arg.NamedChildCount() - 1)
			}
			if arg != nil {
				argExprs = append(argExprs, arg)
			}
		}
	}
	if idx >= len(argExprs) {
		return nil
	}
	return inferExpressionType(ws, argExprs[idx], content, currentClassFQN)
}

// resolveSpecialType substitutes self/static/parent/$this in a resolved
// class name with the concrete class the expression is being evaluated
// within, since those names never resolve to real classes on their own.
// parent requires a workspace lookup, since it resolves to whatever class
// the *current* class declares as its parent rather than to currentClassFQN
// itself.
func resolveSpecialType(ws *Workspace, className, currentClassFQN string) string {
	switch className {
	case "self", "static", "$this":
		return currentClassFQN
	case "parent":
		if class := ws.FindClass(currentClassFQN); class != nil {
			return class.Parent
		}
		return ""
	default:
		return className
	}
}

// InferVariableType returns the declared type of the enclosing function's
// parameter named varName when there is one; otherwise it finds the
// nearest preceding assignment, foreach binding, catch clause, or
// assertion-bearing call for the local variable and returns its inferred
// type, covering the RHS kinds completion actually needs to chain through:
// new, call, member/static chains, ternary/match/union of arms, and clone.
// A `@var` annotation on an assignment is not read.
func InferVariableType(ws *Workspace, useSite *tree_sitter.Node, varName string, content []byte, currentClassFQN string) PHPType {
	fn := enclosingFunctionLike(useSite)
	if fn == nil {
		return NewMixedType()
	}

	if paramType := paramTypeFor(fn, varName, content); paramType != nil {
		return paramType
	}

	var best PHPType
	var bestRow uint32

	visit := func(node *tree_sitter.Node) {
		if node == nil {
			return
		}
		row := node.Range().EndPoint.Row
		if row >= useSite.Range().StartPoint.Row {
			return
		}
		if t := matchAssignmentTo(node, varName, content, ws, currentClassFQN); t != nil {
			if best == nil || row >= bestRow {
				best, bestRow = t, row
			}
		}
		if t := matchForeachBindingTo(node, varName, content, ws, currentClassFQN); t != nil {
			if best == nil || row >= bestRow {
				best, bestRow = t, row
			}
		}
		if t := matchCatchBindingTo(node, varName, content); t != nil {
			if best == nil || row >= bestRow {
				best, bestRow = t, row
			}
		}
		if t := matchAssertionCallTo(node, varName, content, ws, currentClassFQN); t != nil {
			if best == nil || row >= bestRow {
				best, bestRow = t, row
			}
		}
	}

	var walk func(*tree_sitter.Node)
	walk = func(node *tree_sitter.Node) {
		visit(node)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(fn)

	if best == nil {
		return NewMixedType()
	}
	// Narrow the declared type against any instanceof/is_a/assert guard
	// dominating useSite, so a completion/definition request made inside an
	// `if ($x instanceof Foo)` branch sees Foo rather than $x's wider
	// declared type.
	return NarrowVariableType(best, useSite, varName, content)
}

func enclosingFunctionLike(node *tree_sitter.Node) *tree_sitter.Node {
	for current := node; current != nil; current = current.Parent() {
		switch current.Kind() {
		case "method_declaration", "function_definition", "anonymous_function_creation_expression", "arrow_function":
			return current
		}
	}
	return nil
}

func paramTypeFor(fn *tree_sitter.Node, varName string, content []byte) PHPType {
	params := findDirectChildOfKind(fn, "formal_parameters")
	if params == nil {
		return nil
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		varNode := findFirstNodeOfKind(p, "variable_name")
		if varNode == nil || strings.TrimPrefix(string(varNode.Utf8Text(content)), "$") != varName {
			continue
		}
		resolver := NewNameResolver("", nil, nil)
		return resolveTypeFromDeclaration(p, content, resolver, map[string]PHPType{}, NewMixedType())
	}
	return nil
}

func matchAssignmentTo(node *tree_sitter.Node, varName string, content []byte, ws *Workspace, currentClassFQN string) PHPType {
	if node.Kind() != "assignment_expression" {
		return nil
	}
	left := node.NamedChild(0)
	if left == nil || left.Kind() != "variable_name" {
		return nil
	}
	if strings.TrimPrefix(string(left.Utf8Text(content)), "$") != varName {
		return nil
	}
	right := node.NamedChild(1)
	return inferExpressionType(ws, right, content, currentClassFQN)
}

func matchForeachBindingTo(node *tree_sitter.Node, varName string, content []byte, ws *Workspace, currentClassFQN string) PHPType {
	if node.Kind() != "foreach_statement" {
		return nil
	}
	iterable := findDirectChildOfKind(node, "variable_name")
	pair := findDirectChildOfKind(node, "pair")
	valueNode := pair
	if pair != nil {
		// Foreach ($x as $k => $v): value is the second named child of the pair.
		if v := pair.NamedChild(1); v != nil {
			valueNode = v
		}
	} else {
		// Foreach ($x as $v): the value binding is the non-iterable variable_name.
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child != nil && child.Kind() == "variable_name" && child != iterable {
				valueNode = child
			}
		}
	}
	if valueNode == nil || valueNode.Kind() != "variable_name" {
		return nil
	}
	if strings.TrimPrefix(string(valueNode.Utf8Text(content)), "$") != varName {
		return nil
	}
	if iterable == nil {
		return nil
	}
	iterType := inferExpressionType(ws, iterable, content, currentClassFQN)
	if arr, ok := iterType.(*ArrayType); ok && arr.elementType != nil {
		return arr.elementType
	}
	if gen, ok := iterType.(*GenericType); ok && len(gen.Args) > 0 {
		return gen.Args[len(gen.Args)-1]
	}
	return nil
}

func matchCatchBindingTo(node *tree_sitter.Node, varName string, content []byte) PHPType {
	if node.Kind() != "catch_clause" {
		return nil
	}
	varNode := findDirectChildOfKind(node, "variable_name")
	if varNode == nil || strings.TrimPrefix(string(varNode.Utf8Text(content)), "$") != varName {
		return nil
	}
	types := findAllNodesOfKind(node, "name")
	if len(types) == 0 {
		return NewObjectType("Throwable", false)
	}
	if len(types) == 1 {
		return NewObjectType(string(types[0].Utf8Text(content)), false)
	}
	var union []PHPType
	for _, t := range types {
		union = append(union, NewObjectType(string(t.Utf8Text(content)), false))
	}
	return NewUnionType(union)
}

// inferExpressionType is the RHS-kind dispatcher InferVariableType uses
// for assignment/foreach sources: object creation, calls, chains, clone,
// and everything GetTypeOfNode already understands.
func inferExpressionType(ws *Workspace, node *tree_sitter.Node, content []byte, currentClassFQN string) PHPType {
	if node == nil {
		return NewMixedType()
	}
	switch node.Kind() {
	case "object_creation_expression":
		nameNode := findFirstNodeOfKind(node, "name")
		if nameNode == nil {
			return NewMixedType()
		}
		return NewObjectType(string(nameNode.Utf8Text(content)), false)

	case "clone_expression":
		inner := node.NamedChild(0)
		return inferExpressionType(ws, inner, content, currentClassFQN)

	case "member_access_expression", "nullsafe_member_access_expression",
		"scoped_property_access_expression", "scoped_call_expression":
		return resolveChainedAccess(ws, node, content, currentClassFQN)

	case "member_call_expression", "nullsafe_member_call_expression":
		return resolveMemberCallType(ws, node, content, currentClassFQN)

	case "variable_name":
		name := strings.TrimPrefix(string(node.Utf8Text(content)), "$")
		if name == "this" {
			return NewObjectType(currentClassFQN, false)
		}
		return InferVariableType(ws, node, name, content, currentClassFQN)

	case "conditional_expression", "match_expression":
		// Ternary/match arms: union of every named child's inferred type, the
		// conservative union-completion policy for branching expressions.
		var types []PHPType
		for i := uint(0); i < node.NamedChildCount(); i++ {
			t := inferExpressionType(ws, node.NamedChild(i), content, currentClassFQN)
			if _, mixed := t.(*MixedType); !mixed {
				types = append(types, t)
			}
		}
		if len(types) == 0 {
			return NewMixedType()
		}
		return NewUnionType(types)

	default:
		return GetTypeOfNode(ws, node, content, currentClassFQN)
	}
}
