package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteClassNames_ImportedNamesRankFirst(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.classes["App\\Entity\\User"] = newClassLike("App\\Entity\\User", "", 1, KindClass)
	ws.classes["App\\Entity\\Unicorn"] = newClassLike("App\\Entity\\Unicorn", "", 1, KindClass)

	useStatements := map[string]string{"Unicorn": "App\\Entity\\Unicorn"}
	result := ws.CompleteClassNames("Un", "App\\Entity", useStatements, nil, nil, nil)

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Unicorn", result.Items[0].Label)
	assert.Equal(t, 0, result.Items[0].SortPriority)
}

func TestCompleteClassNames_FiltersByPrefixCaseInsensitively(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.classes["App\\Entity\\User"] = newClassLike("App\\Entity\\User", "", 1, KindClass)
	ws.classes["App\\Entity\\Order"] = newClassLike("App\\Entity\\Order", "", 1, KindClass)

	result := ws.CompleteClassNames("us", "", nil, nil, nil, nil)

	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "User")
	assert.NotContains(t, labels, "Order")
}

func TestCompleteClassNames_CapsAtMaxItems(t *testing.T) {
	ws := newTestWorkspace(t)
	for i := 0; i < maxCompletionItems+10; i++ {
		fqn := "App\\Generated\\Class" + itoa(i)
		ws.classes[fqn] = newClassLike(fqn, "", 1, KindClass)
	}

	result := ws.CompleteClassNames("", "", nil, nil, nil, nil)
	assert.True(t, result.Incomplete)
	assert.Len(t, result.Items, maxCompletionItems)
}

func TestCompleteMembers_FiltersVisibilityAndMagicMethods(t *testing.T) {
	ws := newTestWorkspace(t)

	class := newClassLike("App\\Entity\\User", "", 1, KindClass)
	class.Methods["getName"] = MemberRecord{Name: "getName", Visibility: Public, IsMethod: true, Type: NewPHPType("string")}
	class.Methods["internalHelper"] = MemberRecord{Name: "internalHelper", Visibility: Private, IsMethod: true}
	class.Methods["__construct"] = MemberRecord{Name: "__construct", Visibility: Public, IsMethod: true}
	ws.classes["App\\Entity\\User"] = class

	// From outside the class entirely.
	result := ws.CompleteMembers("App\\Entity\\User", "")
	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "getName")
	assert.NotContains(t, labels, "internalHelper", "private members aren't visible from outside the class")
	assert.NotContains(t, labels, "__construct", "magic methods are never offered as completions")

	// From inside the declaring class, the private method becomes visible.
	result = ws.CompleteMembers("App\\Entity\\User", "App\\Entity\\User")
	labels = labels[:0]
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "internalHelper")
}

func TestCompleteMembers_MethodCandidateIsASnippet(t *testing.T) {
	ws := newTestWorkspace(t)

	class := newClassLike("App\\Entity\\User", "", 1, KindClass)
	class.Methods["rename"] = MemberRecord{
		Name:       "rename",
		Visibility: Public,
		IsMethod:   true,
		Type:       NewPHPType("void"),
		Params: []Param{
			{Name: "newName", Type: NewPHPType("string")},
			{Name: "opts", Type: NewPHPType("array"), HasDefault: true},
		},
	}
	ws.classes["App\\Entity\\User"] = class

	result := ws.CompleteMembers("App\\Entity\\User", "")
	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.True(t, item.IsSnippet)
	assert.Equal(t, "rename(${1:newName})", item.InsertText, "the defaulted trailing param is left out of the snippet")
	assert.Equal(t, "(string $newName, array $opts): void", item.Detail)
}

func TestComputeAutoImportEdit_InsertsAlphabeticallyWithinUseBlock(t *testing.T) {
	ws := newTestWorkspace(t)
	content := []byte(`<?php
namespace App;

use App\Entity\Alpha;
use App\Entity\Zebra;

class Service {}
`)
	tree := ws.ParseContent(content)
	defer tree.Close()

	edit := ComputeAutoImportEdit(tree, content, "App\\Entity\\Middle")
	assert.Equal(t, "use App\\Entity\\Middle;\n", edit.NewText)
	// Middle sorts after Alpha but before Zebra, so it's inserted on
	// Zebra's line rather than appended after the whole use block.
	assert.Equal(t, uint32(4), edit.StartLine)
}

func TestComputeAutoImportEdit_NoExistingUseInsertsAfterNamespace(t *testing.T) {
	ws := newTestWorkspace(t)
	content := []byte(`<?php
namespace App;

class Service {}
`)
	tree := ws.ParseContent(content)
	defer tree.Close()

	edit := ComputeAutoImportEdit(tree, content, "App\\Entity\\User")
	assert.Equal(t, "\nuse App\\Entity\\User;\n", edit.NewText)
	assert.Equal(t, uint32(2), edit.StartLine)
}
