package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// callNodeNamed finds the first member-call expression under root whose
// accessed method name is methodName, using the same receiver/name split
// resolveChainedAccess and resolveMemberCallType use.
func callNodeNamed(root *tree_sitter.Node, content []byte, methodName string) *tree_sitter.Node {
	for _, call := range findAllNodesOfKind(root, "member_call_expression") {
		_, name := receiverAndMemberName(call, content)
		if name == methodName {
			return call
		}
	}
	return nil
}

func indexSource(t *testing.T, ws *Workspace, path, source string) (*tree_sitter.Tree, []byte) {
	content := []byte(source)
	require.True(t, ws.indexFileContent(path, content))
	tree := ws.ParseContent(content)
	t.Cleanup(tree.Close)
	return tree, content
}

func TestResolveSubjectType_ThisMethodCall(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Greeter.php", `<?php
namespace App;

class Greeter {
	public function name(): string {
		return "world";
	}

	public function run(): void {
		$x = $this->name();
	}
}
`)

	call := callNodeNamed(tree.RootNode(), content, "name")
	require.NotNil(t, call)

	got := ResolveSubjectType(ws, call, content, "App\\Greeter")
	assert.Equal(t, "string", got.Name())
}

func TestResolveSubjectType_ChainedMethodCallOnNonThisReceiver(t *testing.T) {
	// $c->make() -> $c is a plain local variable, not $this -- the exact
	// case the generic member-call resolution (as opposed to the
	// $this-only special case) has to cover.
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Container.php", `<?php
namespace App;

class User {
	public function getId(): int {
		return 1;
	}
}

class Container {
	public function make(): User {
		return new User();
	}
}

class Consumer {
	public function run(): void {
		$c = new Container();
		$id = $c->make()->getId();
	}
}
`)

	makeCall := callNodeNamed(tree.RootNode(), content, "make")
	require.NotNil(t, makeCall)
	madeType := ResolveSubjectType(ws, makeCall, content, "App\\Consumer")
	objType, ok := madeType.(*ObjectType)
	require.True(t, ok, "expected *ObjectType, got %T", madeType)
	assert.Equal(t, "App\\User", objType.ClassName())

	getIDCall := callNodeNamed(tree.RootNode(), content, "getId")
	require.NotNil(t, getIDCall)
	idType := ResolveSubjectType(ws, getIDCall, content, "App\\Consumer")
	assert.Equal(t, "int", idType.Name())
}

func TestResolveSpecialType_Parent(t *testing.T) {
	ws := newTestWorkspace(t)

	base := newClassLike("App\\Base", "", 1, KindClass)
	base.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true, Type: NewPHPType("string")}
	ws.classes["App\\Base"] = base

	child := newClassLike("App\\Child", "", 1, KindClass)
	child.Parent = "App\\Base"
	ws.classes["App\\Child"] = child

	assert.Equal(t, "App\\Base", resolveSpecialType(ws, "parent", "App\\Child"))
	assert.Equal(t, "App\\Child", resolveSpecialType(ws, "self", "App\\Child"))
	assert.Equal(t, "App\\Child", resolveSpecialType(ws, "static", "App\\Child"))
	assert.Equal(t, "Unrelated", resolveSpecialType(ws, "Unrelated", "App\\Child"))
}

func TestResolveMemberCallType_ConditionalReturn(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Repo.php", `<?php
namespace App;

class User {}
class Guest {}

class Repo {
	/**
	 * @return ($account is User ? User : Guest)
	 */
	public function find($account) {
		return null;
	}

	public function run(): void {
		$x = $this->find(new User());
	}
}
`)

	call := callNodeNamed(tree.RootNode(), content, "find")
	require.NotNil(t, call)

	// The called method's record needs the parameter name "account" so
	// conditionalSubjectArgumentType can bind the call-site argument to the
	// conditional's subject; extraction populates that from the PHP
	// parameter list, not the docblock.
	member, owner, ok := ws.ResolveMember("App\\Repo", "find")
	require.True(t, ok)
	require.NotEmpty(t, member.Params, "extractor should have recorded the find() parameter")
	assert.Equal(t, "account", member.Params[0].Name)
	assert.Equal(t, "App\\Repo", owner)

	got := ResolveSubjectType(ws, call, content, "App\\Repo")
	objType, ok := got.(*ObjectType)
	require.True(t, ok, "expected the User-branch (object) type, got %T (%s)", got, got.Name())
	assert.Equal(t, "User", objType.ClassName())
}

func TestClassifyCursor_MemberAccess(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Cursor.php", `<?php
class Box {
	public function open(): void {
		$this->name();
	}
}
`)

	// ClassifyCursor is handed whatever node tree-sitter resolves at the
	// request position; a completion request right on the method-name
	// token resolves to the "name" node nested inside the call.
	call := callNodeNamed(tree.RootNode(), content, "name")
	require.NotNil(t, call)
	_, nameNode := receiverAndMemberName(call, content)
	require.NotEmpty(t, nameNode)

	var target *tree_sitter.Node
	for i := uint(0); i < call.NamedChildCount(); i++ {
		if child := call.NamedChild(i); child != nil && child.Kind() == "name" {
			target = child
			break
		}
	}
	require.NotNil(t, target)

	ctx := ClassifyCursor(target)
	assert.Equal(t, ContextMemberAccess, ctx.Kind)
	require.NotNil(t, ctx.Subject)
	assert.Equal(t, "$this", string(ctx.Subject.Utf8Text(content)))
	_ = ws
}
