package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrowVariableType_InstanceofGuard(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Narrow.php", `<?php
namespace App;

class Animal {}
class Dog extends Animal {}

class Shelter {
	public function handle(Animal $pet): void {
		if ($pet instanceof Dog) {
			$pet->bark();
		}
	}
}
`)

	barkCall := callNodeNamed(tree.RootNode(), content, "bark")
	require.NotNil(t, barkCall)
	receiver, _ := receiverAndMemberName(barkCall, content)
	require.NotNil(t, receiver)

	declared := NewObjectType("App\\Animal", false)
	narrowed := NarrowVariableType(declared, receiver, "pet", content)
	objType, ok := narrowed.(*ObjectType)
	require.True(t, ok, "expected narrowing to an ObjectType, got %T", narrowed)
	assert.Equal(t, "Dog", objType.ClassName())
}

func TestNarrowVariableType_NoGuardLeavesDeclaredType(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/NoGuard.php", `<?php
namespace App;

class Animal {
	public function run(Animal $pet): void {
		$pet->feed();
	}
}
`)

	feedCall := callNodeNamed(tree.RootNode(), content, "feed")
	require.NotNil(t, feedCall)
	receiver, _ := receiverAndMemberName(feedCall, content)
	require.NotNil(t, receiver)

	declared := NewObjectType("App\\Animal", false)
	narrowed := NarrowVariableType(declared, receiver, "pet", content)
	assert.Same(t, declared, narrowed)
}

func TestNarrowVariableType_IsAGuard(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/IsA.php", `<?php
namespace App;

class Animal {}
class Cat extends Animal {}

class Shelter {
	public function handle(Animal $pet): void {
		if (is_a($pet, Cat::class)) {
			$pet->meow();
		}
	}
}
`)

	meowCall := callNodeNamed(tree.RootNode(), content, "meow")
	require.NotNil(t, meowCall)
	receiver, _ := receiverAndMemberName(meowCall, content)
	require.NotNil(t, receiver)

	declared := NewObjectType("App\\Animal", false)
	narrowed := NarrowVariableType(declared, receiver, "pet", content)
	objType, ok := narrowed.(*ObjectType)
	require.True(t, ok, "expected narrowing to an ObjectType, got %T", narrowed)
	assert.Equal(t, "Cat", objType.ClassName())
}

func TestMatchAssertionCallTo_UnconditionalAssert(t *testing.T) {
	ws := newTestWorkspace(t)
	tree, content := indexSource(t, ws, "/virtual/Assertion.php", `<?php
namespace App;

class User {}

class Validator {
	/**
	 * @phpstan-assert User $value
	 */
	public function assertIsUser($value): void {
	}
}

class Controller {
	public function run(Validator $validator, $value): void {
		$validator->assertIsUser($value);
		$value->getId();
	}
}
`)

	getIDCall := callNodeNamed(tree.RootNode(), content, "getId")
	require.NotNil(t, getIDCall)

	assertCall := callNodeNamed(tree.RootNode(), content, "assertIsUser")
	require.NotNil(t, assertCall)

	narrowed := matchAssertionCallTo(assertCall, "value", content, ws, "App\\Controller")
	require.NotNil(t, narrowed)
	objType, ok := narrowed.(*ObjectType)
	require.True(t, ok, "expected an ObjectType, got %T", narrowed)
	assert.Equal(t, "User", objType.ClassName())
	_ = getIDCall
}

func TestMatchAssertionCallTo_IgnoresUnrelatedVariable(t *testing.T) {
	ws := newTestWorkspace(t)
	_, content := indexSource(t, ws, "/virtual/Assertion2.php", `<?php
namespace App;

class Validator {
	/**
	 * @phpstan-assert User $value
	 */
	public function assertIsUser($value): void {
	}
}

class Controller {
	public function run(Validator $validator, $value, $other): void {
		$validator->assertIsUser($other);
	}
}
`)
	tree := ws.ParseContent(content)
	defer tree.Close()

	assertCall := callNodeNamed(tree.RootNode(), content, "assertIsUser")
	require.NotNil(t, assertCall)

	narrowed := matchAssertionCallTo(assertCall, "value", content, ws, "App\\Controller")
	assert.Nil(t, narrowed)
}

func TestApplyAssertion(t *testing.T) {
	userType := NewObjectType("App\\User", false)

	trueBranch := true
	falseBranch := false

	cases := []struct {
		name        string
		tag         AssertTag
		branchTaken *bool
		wantOK      bool
	}{
		{"unconditional always applies", AssertTag{Type: userType, Condition: AssertUnconditional}, nil, true},
		{"if-true applies when branch taken", AssertTag{Type: userType, Condition: AssertIfTrue}, &trueBranch, true},
		{"if-true doesn't apply on false branch", AssertTag{Type: userType, Condition: AssertIfTrue}, &falseBranch, false},
		{"if-false applies when branch not taken", AssertTag{Type: userType, Condition: AssertIfFalse}, &falseBranch, true},
		{"if-false doesn't apply on true branch", AssertTag{Type: userType, Condition: AssertIfFalse}, &trueBranch, false},
		{"conditional tag without branch info doesn't apply", AssertTag{Type: userType, Condition: AssertIfTrue}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ApplyAssertion(tc.tag, tc.branchTaken)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, userType, got)
			}
		})
	}
}
