package php

import "strings"

// NameResolver resolves a bare or qualified PHP type name to a fully
// qualified class name (FQN), following PHP's own 5-rule name resolution:
// fully qualified names pass through unchanged; a name matching a `use`
// import (or a qualified name whose first segment matches one) resolves through that
// import; an alias from `use X as Y` takes precedence over a same-named
// plain import; special keywords (self/static/parent/$this and the
// primitive/pseudo types) are left untouched for the caller (the subject
// resolver substitutes self/static/parent against the current class); and
// anything else is relative to the current namespace.
type NameResolver struct {
	currentNamespace string
	// useStatements maps an imported short/qualified prefix to its FQN.
	useStatements map[string]string
	// aliases maps an `as`-given alias to its FQN; checked before useStatements.
	aliases map[string]string
}

func NewNameResolver(namespace string, useStatements, aliases map[string]string) *NameResolver {
	return &NameResolver{
		currentNamespace: namespace,
		useStatements:    useStatements,
		aliases:          aliases,
	}
}

// Resolve returns the FQN for typeName. Primitive and special pseudo-types
// are returned unchanged; callers that care about self/static/parent
// substitution must check isSpecialType themselves before calling Resolve.
func (r *NameResolver) Resolve(typeName string) string {
	if isPrimitiveType(typeName) || isSpecialType(typeName) {
		return typeName
	}

	// Rule 1: fully qualified (leading backslash) names pass through as-is,
	// modulo the leading separator PHP strips at compile time.
	if strings.HasPrefix(typeName, "\\") {
		return strings.TrimPrefix(typeName, "\\")
	}

	head, rest := splitFirstSegment(typeName)

	// Rule 2: an alias introduced by `use X as Y` wins over a plain import.
	if fqn, ok := r.aliases[head]; ok {
		return joinFQN(fqn, rest)
	}

	// Rule 3: a qualified name whose first segment matches an import is
	// resolved against that import, then the remaining segments appended.
	if fqn, ok := r.useStatements[head]; ok {
		return joinFQN(fqn, rest)
	}

	// A name already containing a separator with no matching import is
	// treated as namespace-relative unless it already looks fully
	// qualified in spirit (PHP would require a leading backslash for that,
	// but tree-sitter-php's `qualified_name` nodes normalize away leading
	// separators, so Rule 1 above already caught true FQNs).
	if r.currentNamespace != "" {
		return r.currentNamespace + "\\" + typeName
	}

	return typeName
}

func splitFirstSegment(name string) (head, rest string) {
	if idx := strings.Index(name, "\\"); idx >= 0 {
		return name[:idx], name[idx:]
	}
	return name, ""
}

func joinFQN(base, rest string) string {
	if rest == "" {
		return base
	}
	return base + rest
}

func isPrimitiveType(typeName string) bool {
	switch strings.ToLower(typeName) {
	case "string", "int", "integer", "float", "double", "bool", "boolean",
		"array", "object", "callable", "iterable", "void", "null",
		"mixed", "never", "resource", "false", "true", "number":
		return true
	default:
		return false
	}
}

func isSpecialType(typeName string) bool {
	switch typeName {
	case "self", "static", "parent", "$this", "class-string", "array-key":
		return true
	default:
		return false
	}
}
