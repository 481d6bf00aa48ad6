package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindImplementations_DirectAndTransitive(t *testing.T) {
	ws := newTestWorkspace(t)

	iface := newClassLike("App\\Contract\\Greeter", "", 1, KindInterface)
	ws.classes["App\\Contract\\Greeter"] = iface

	abstractImpl := newClassLike("App\\AbstractGreeter", "", 1, KindClass)
	abstractImpl.Interfaces = []string{"App\\Contract\\Greeter"}
	abstractImpl.IsAbstract = true
	ws.classes["App\\AbstractGreeter"] = abstractImpl

	directImpl := newClassLike("App\\EnglishGreeter", "", 1, KindClass)
	directImpl.Interfaces = []string{"App\\Contract\\Greeter"}
	ws.classes["App\\EnglishGreeter"] = directImpl

	// FrenchGreeter implements Greeter only transitively, by extending the
	// abstract base that declares the interface.
	transitiveImpl := newClassLike("App\\FrenchGreeter", "", 1, KindClass)
	transitiveImpl.Parent = "App\\AbstractGreeter"
	ws.classes["App\\FrenchGreeter"] = transitiveImpl

	unrelated := newClassLike("App\\Unrelated", "", 1, KindClass)
	ws.classes["App\\Unrelated"] = unrelated

	got := ws.FindImplementations("App\\Contract\\Greeter")
	assert.ElementsMatch(t, []string{"App\\EnglishGreeter", "App\\FrenchGreeter"}, got)
	assert.NotContains(t, got, "App\\AbstractGreeter", "abstract classes aren't implementors")
	assert.NotContains(t, got, "App\\Contract\\Greeter", "the target interface isn't its own implementor")
}

func TestFindMethodImplementations_OnlyOverridingClasses(t *testing.T) {
	ws := newTestWorkspace(t)

	iface := newClassLike("App\\Contract\\Greeter", "", 1, KindInterface)
	iface.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true}
	ws.classes["App\\Contract\\Greeter"] = iface

	overrides := newClassLike("App\\EnglishGreeter", "", 1, KindClass)
	overrides.Interfaces = []string{"App\\Contract\\Greeter"}
	overrides.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true}
	ws.classes["App\\EnglishGreeter"] = overrides

	doesNotOverride := newClassLike("App\\SilentGreeter", "", 1, KindClass)
	doesNotOverride.Interfaces = []string{"App\\Contract\\Greeter"}
	ws.classes["App\\SilentGreeter"] = doesNotOverride

	got := ws.FindMethodImplementations("App\\Contract\\Greeter", "greet")
	assert.Equal(t, []string{"App\\EnglishGreeter"}, got)
}

func TestClassImplementsOrExtends_DetectsCycleWithoutInfiniteLoop(t *testing.T) {
	ws := newTestWorkspace(t)

	a := newClassLike("App\\A", "", 1, KindClass)
	a.Parent = "App\\B"
	ws.classes["App\\A"] = a

	b := newClassLike("App\\B", "", 1, KindClass)
	b.Parent = "App\\A"
	ws.classes["App\\B"] = b

	// A cyclic parent chain must terminate rather than recurse forever.
	assert.False(t, ws.classImplementsOrExtends("App\\A", "App\\NeverDeclared", map[string]bool{}))
}

func TestKnownClassFQNs_ReflectsIndexedClasses(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.classes["App\\One"] = newClassLike("App\\One", "", 1, KindClass)
	ws.classes["App\\Two"] = newClassLike("App\\Two", "", 1, KindClass)

	assert.ElementsMatch(t, []string{"App\\One", "App\\Two"}, ws.knownClassFQNs())
}
