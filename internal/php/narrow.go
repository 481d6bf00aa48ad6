package php

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	treesitterhelper "github.com/wbm-mkopp/phpls/internal/tree_sitter_helper"
)

// NarrowVariableType walks the enclosing if/elseif chain upward from
// useSite looking for a guard that narrows varName's type along the branch
// useSite sits in: `instanceof`, `is_a()`, and plain `assert()`.
// `get_class()`/`::class` equality comparisons are not recognized and do
// not narrow. declared is the type InferVariableType
// already determined from the variable's declaration; narrowing only ever
// refines it, never replaces it with something declared couldn't produce.
func NarrowVariableType(declared PHPType, useSite *tree_sitter.Node, varName string, content []byte) PHPType {
	narrowed := declared

	for current := useSite; current != nil; current = current.Parent() {
		ifNode := current.Parent()
		if ifNode == nil || ifNode.Kind() != "if_statement" {
			continue
		}
		condition := findDirectChildOfKind(ifNode, "parenthesized_expression")
		if condition == nil {
			continue
		}
		body := findDirectChildOfKind(ifNode, "compound_statement")

		insideThenBranch := body != nil && nodeContains(body, useSite)
		if t, ok := narrowFromCondition(condition, varName, content, insideThenBranch); ok {
			narrowed = t
		}
	}

	return narrowed
}

func nodeContains(ancestor, node *tree_sitter.Node) bool {
	for current := node; current != nil; current = current.Parent() {
		if current.StartByte() == ancestor.StartByte() && current.EndByte() == ancestor.EndByte() {
			return true
		}
	}
	return false
}

// narrowFromCondition inspects a single if-condition for a guard on
// varName and returns the type it narrows to plus whether it matched at
// all. onTrueBranch selects whether the caller is inside the branch taken
// when the condition is true (the then-branch) or its complement.
// NarrowVariableType only calls it for if-statements that enclose the use
// site, so an early-guard `if (!($x instanceof Foo)) { return; }` does not
// narrow the code *after* the if.
func narrowFromCondition(condition *tree_sitter.Node, varName string, content []byte, onTrueBranch bool) (PHPType, bool) {
	inner := condition.NamedChild(0)
	if inner == nil {
		return nil, false
	}

	negated := false
	for inner != nil && inner.Kind() == "unary_op_expression" && strings.HasPrefix(string(inner.Utf8Text(content)), "!") {
		negated = !negated
		inner = inner.NamedChild(0)
	}
	if inner == nil {
		return nil, false
	}

	switch inner.Kind() {
	case "instanceof_expression":
		return narrowInstanceof(inner, varName, content, onTrueBranch != negated)
	case "function_call_expression":
		return narrowFunctionCall(inner, varName, content, onTrueBranch != negated)
	}
	return nil, false
}

func narrowInstanceof(node *tree_sitter.Node, varName string, content []byte, positive bool) (PHPType, bool) {
	if !positive {
		return nil, false
	}
	varNode := findFirstNodeOfKind(node, "variable_name")
	if varNode == nil || strings.TrimPrefix(string(varNode.Utf8Text(content)), "$") != varName {
		return nil, false
	}
	className := node.NamedChild(node.NamedChildCount() - 1)
	if className == nil || (className.Kind() != "name" && className.Kind() != "qualified_name") {
		return nil, false
	}
	return NewObjectType(string(className.Utf8Text(content)), false), true
}

// narrowFunctionCall recognizes `is_a($x, Foo::class)` and `assert($x
// instanceof Foo)`. A `get_class($x) === Foo::class` comparison is a binary
// expression, which narrowFromCondition does not inspect, so it does not
// narrow.
func narrowFunctionCall(node *tree_sitter.Node, varName string, content []byte, positive bool) (PHPType, bool) {
	if !positive {
		return nil, false
	}
	fnName := ""
	if fn := node.NamedChild(0); fn != nil {
		fnName = string(fn.Utf8Text(content))
	}

	args := treesitterhelper.GetFirstNodeOfKind(node, "arguments")
	if args == nil {
		return nil, false
	}

	switch fnName {
	case "assert":
		first := args.NamedChild(0)
		if first != nil && first.Kind() == "argument" {
			first = first.NamedChild(first.NamedChildCount() - 1)
		}
		if first != nil && first.Kind() == "instanceof_expression" {
			return narrowInstanceof(first, varName, content, true)
		}
	case "is_a":
		varNode := findFirstNodeOfKind(args, "variable_name")
		var classNode *tree_sitter.Node
		if second := args.NamedChild(1); second != nil {
			classNode = findFirstNodeOfKind(second, "name")
		}
		if varNode == nil || classNode == nil {
			return nil, false
		}
		if strings.TrimPrefix(string(varNode.Utf8Text(content)), "$") != varName {
			return nil, false
		}
		return NewObjectType(string(classNode.Utf8Text(content)), false), true
	}
	return nil, false
}

// matchAssertionCallTo recognizes a method call that passes varName as the
// argument named in one of the called method's unconditional
// `@phpstan-assert`/`@psalm-assert` tags, narrowing varName's type for code
// after the call -- the call-site counterpart to the instanceof/is_a guards
// narrowFromCondition handles for branches.
func matchAssertionCallTo(node *tree_sitter.Node, varName string, content []byte, ws *Workspace, currentClassFQN string) PHPType {
	switch node.Kind() {
	case "member_call_expression", "nullsafe_member_call_expression", "scoped_call_expression":
	default:
		return nil
	}

	receiver, methodName := receiverAndMemberName(node, content)
	if receiver == nil || methodName == "" {
		return nil
	}
	receiverType := ResolveSubjectType(ws, receiver, content, currentClassFQN)
	objType, ok := receiverType.(*ObjectType)
	if !ok {
		return nil
	}
	member, _, ok := ws.ResolveMember(resolveSpecialType(ws, objType.className, currentClassFQN), methodName)
	if !ok || len(member.Assertions) == 0 {
		return nil
	}

	args := findDirectChildOfKind(node, "arguments")
	if args == nil {
		return nil
	}
	argHasVar := false
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if arg != nil && arg.Kind() == "argument" {
			arg = arg.NamedChild(arg.NamedChildCount() - 1)
		}
		if arg != nil && arg.Kind() == "variable_name" && strings.TrimPrefix(string(arg.Utf8Text(content)), "$") == varName {
			argHasVar = true
			break
		}
	}
	if !argHasVar {
		return nil
	}

	for _, tag := range member.Assertions {
		if strings.TrimPrefix(tag.Param, "$") != varName || tag.Condition != AssertUnconditional {
			continue
		}
		if t, ok := ApplyAssertion(tag, nil); ok {
			return t
		}
	}
	return nil
}

// ApplyAssertion applies a parsed `@phpstan-assert`/`@phpstan-assert-if-true`/
// `@phpstan-assert-if-false` tag from a called function/method's docblock to
// the argument bound to its Param, at a call site where branchTaken records
// which boolean outcome of that call the current position is guarded by.
// An unconditional assertion always applies once the call has run (on any
// code path after it, not just inside a branch).
func ApplyAssertion(tag AssertTag, branchTaken *bool) (PHPType, bool) {
	switch tag.Condition {
	case AssertUnconditional:
		return tag.Type, true
	case AssertIfTrue:
		if branchTaken != nil && *branchTaken {
			return tag.Type, true
		}
	case AssertIfFalse:
		if branchTaken != nil && !*branchTaken {
			return tag.Type, true
		}
	}
	return nil, false
}
