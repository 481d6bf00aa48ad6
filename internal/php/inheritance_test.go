package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(ws.Close)
	return ws
}

func TestResolveMember_WalksParentChain(t *testing.T) {
	ws := newTestWorkspace(t)

	base := newClassLike("App\\Base", "", 1, KindClass)
	base.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true, Type: NewPHPType("string")}
	ws.classes["App\\Base"] = base

	child := newClassLike("App\\Child", "", 1, KindClass)
	child.Parent = "App\\Base"
	ws.classes["App\\Child"] = child

	member, owner, ok := ws.ResolveMember("App\\Child", "greet")
	require.True(t, ok)
	assert.Equal(t, "App\\Base", owner)
	assert.Equal(t, "string", member.Type.Name())
}

func TestResolveMember_PrivateParentMemberNotInherited(t *testing.T) {
	ws := newTestWorkspace(t)

	base := newClassLike("App\\Base", "", 1, KindClass)
	base.Methods["secret"] = MemberRecord{Name: "secret", Visibility: Private, IsMethod: true}
	ws.classes["App\\Base"] = base

	child := newClassLike("App\\Child", "", 1, KindClass)
	child.Parent = "App\\Base"
	ws.classes["App\\Child"] = child

	_, _, ok := ws.ResolveMember("App\\Child", "secret")
	assert.False(t, ok, "private members must not be visible through inheritance")
}

func TestResolveMember_OwnMemberShadowsInterface(t *testing.T) {
	ws := newTestWorkspace(t)

	iface := newClassLike("App\\Greetable", "", 1, KindInterface)
	iface.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true, Type: NewPHPType("void")}
	ws.classes["App\\Greetable"] = iface

	impl := newClassLike("App\\Greeter", "", 1, KindClass)
	impl.Interfaces = []string{"App\\Greetable"}
	impl.Methods["greet"] = MemberRecord{Name: "greet", Visibility: Public, IsMethod: true, Type: NewPHPType("string")}
	ws.classes["App\\Greeter"] = impl

	member, owner, ok := ws.ResolveMember("App\\Greeter", "greet")
	require.True(t, ok)
	assert.Equal(t, "App\\Greeter", owner)
	assert.Equal(t, "string", member.Type.Name())
}

func TestResolveMember_TraitContributesMethod(t *testing.T) {
	ws := newTestWorkspace(t)

	trait := newClassLike("App\\Loggable", "", 1, KindTrait)
	trait.Methods["log"] = MemberRecord{Name: "log", Visibility: Public, IsMethod: true}
	ws.classes["App\\Loggable"] = trait

	class := newClassLike("App\\Service", "", 1, KindClass)
	class.Traits = []TraitUse{{Traits: []string{"App\\Loggable"}}}
	ws.classes["App\\Service"] = class

	_, owner, ok := ws.ResolveMember("App\\Service", "log")
	require.True(t, ok)
	assert.Equal(t, "App\\Loggable", owner)
}

func TestResolveMember_VirtualPropertyFromDocblock(t *testing.T) {
	ws := newTestWorkspace(t)

	class := newClassLike("App\\Magic", "", 1, KindClass)
	class.VirtualMembers["name"] = VirtualMember{Name: "name", Type: NewPHPType("string")}
	ws.classes["App\\Magic"] = class

	member, owner, ok := ws.ResolveMember("App\\Magic", "name")
	require.True(t, ok)
	assert.Equal(t, "App\\Magic", owner)
	assert.False(t, member.IsMethod)
}

func TestAllMembers_CollectsAcrossHierarchy(t *testing.T) {
	ws := newTestWorkspace(t)

	base := newClassLike("App\\Base", "", 1, KindClass)
	base.Methods["baseMethod"] = MemberRecord{Name: "baseMethod", Visibility: Public, IsMethod: true}
	ws.classes["App\\Base"] = base

	child := newClassLike("App\\Child", "", 1, KindClass)
	child.Parent = "App\\Base"
	child.Methods["childMethod"] = MemberRecord{Name: "childMethod", Visibility: Public, IsMethod: true}
	ws.classes["App\\Child"] = child

	members := ws.AllMembers("App\\Child")
	assert.Contains(t, members, "childMethod")
	assert.Contains(t, members, "baseMethod")
}
