package php

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// DocumentContext is the namespace-level information a completion or
// definition request needs before it can resolve a name: the file's
// namespace, its use-imports/aliases, and (if the request position falls
// inside one) the FQN of the enclosing class-like declaration.
type DocumentContext struct {
	Namespace         string
	UseStatements     map[string]string
	Aliases           map[string]string
	EnclosingClassFQN string
}

// ResolveDocumentContext walks a parsed file's top-level declarations the
// same way ExtractFile does, but stops to report which class-like
// declaration (if any) contains byteOffset instead of building full
// records -- the cheap pass a per-request handler can afford to redo
// against the workspace's shared parse tree.
func ResolveDocumentContext(tree *tree_sitter.Tree, content []byte, byteOffset int) DocumentContext {
	ctx := DocumentContext{
		UseStatements: make(map[string]string),
		Aliases:       make(map[string]string),
	}

	root := tree.RootNode()
	cursor := root.Walk()
	defer cursor.Close()

	if !cursor.GotoFirstChild() {
		return ctx
	}

	for {
		node := cursor.Node()

		switch node.Kind() {
		case "namespace_definition":
			if nameNode := node.Child(1); nameNode != nil && nameNode.Kind() == "namespace_name" {
				ctx.Namespace = string(nameNode.Utf8Text(content))
			}
			if body := findDirectChildOfKind(node, "compound_statement"); body != nil &&
				int(body.StartByte()) <= byteOffset && byteOffset <= int(body.EndByte()) {
				if fqn := enclosingClassFQNWithin(body, content, ctx.Namespace, byteOffset); fqn != "" {
					ctx.EnclosingClassFQN = fqn
				}
			}

		case "namespace_use_declaration":
			collectUseDeclaration(node, content, ctx.UseStatements, ctx.Aliases)

		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			if int(node.StartByte()) <= byteOffset && byteOffset <= int(node.EndByte()) {
				if nameNode := findFirstNodeOfKind(node, "name"); nameNode != nil {
					fqn := string(nameNode.Utf8Text(content))
					if ctx.Namespace != "" {
						fqn = ctx.Namespace + "\\" + fqn
					}
					ctx.EnclosingClassFQN = fqn
				}
			}
		}

		if !cursor.GotoNextSibling() {
			break
		}
	}

	return ctx
}

// enclosingClassFQNWithin handles the braced `namespace Foo { ... }` form,
// where class declarations live one level deeper than the top-level walk
// ResolveDocumentContext otherwise performs.
func enclosingClassFQNWithin(body *tree_sitter.Node, content []byte, namespace string, byteOffset int) string {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			if int(child.StartByte()) <= byteOffset && byteOffset <= int(child.EndByte()) {
				if nameNode := findFirstNodeOfKind(child, "name"); nameNode != nil {
					fqn := string(nameNode.Utf8Text(content))
					if namespace != "" {
						fqn = namespace + "\\" + fqn
					}
					return fqn
				}
			}
		}
	}
	return ""
}

// NodeAtByteOffset returns the smallest node in tree containing byteOffset,
// the anchor completion and definition handlers classify via ClassifyCursor.
func NodeAtByteOffset(tree *tree_sitter.Tree, byteOffset int) *tree_sitter.Node {
	root := tree.RootNode()
	if node := root.DescendantForByteRange(uint(byteOffset), uint(byteOffset)); node != nil {
		return node
	}
	return root
}
