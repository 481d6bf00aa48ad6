package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func TestTreePointToPosition_ASCII(t *testing.T) {
	content := []byte("<?php\necho $foo;\n")
	pos := TreePointToPosition(tree_sitter.Point{Row: 1, Column: 5}, content)
	assert.Equal(t, uint32(1), pos.Line)
	assert.Equal(t, uint32(5), pos.Character)
}

func TestPositionToByteOffset_RoundTrip(t *testing.T) {
	content := []byte("<?php\nclass Foo {}\n")
	pos := Position{Line: 1, Character: 6}
	offset := PositionToByteOffset(pos, content)
	assert.Equal(t, "Foo", string(content[offset:offset+3]))
}

func TestUtf16Length_AstralCharacterCountsAsTwoUnits(t *testing.T) {
	// U+1F600 (grinning face emoji) needs a UTF-16 surrogate pair.
	assert.Equal(t, 2, utf16Length([]byte("\U0001F600")))
	assert.Equal(t, 1, utf16Length([]byte("a")))
}

func TestTreePointToPosition_AstralCharacterBeforeColumn(t *testing.T) {
	// The emoji occupies 4 UTF-8 bytes but 2 UTF-16 code units, so a
	// tree-sitter byte column past it must map to a UTF-16 character
	// offset two units ahead of where a naive byte count would land.
	content := []byte("// \U0001F600 ok\n")
	point := tree_sitter.Point{Row: 0, Column: uint32(len("// \U0001F600"))}
	pos := TreePointToPosition(point, content)
	assert.Equal(t, uint32(5), pos.Character) // "// " (3) + surrogate pair (2)
}
