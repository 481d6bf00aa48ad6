package php

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// Position is an LSP text position: zero-based line and UTF-16 code-unit
// column, the protocol's native units -- tree-sitter points are byte
// offsets within a UTF-8 buffer, so every boundary crossing needs one of
// the two conversions below.
type Position struct {
	Line      uint32
	Character uint32
}

// TreePointToPosition converts a tree-sitter byte-row/column point to an
// LSP UTF-16 Position by re-walking the source line up to the point's byte
// column and counting UTF-16 code units rather than bytes or runes.
func TreePointToPosition(point tree_sitter.Point, content []byte) Position {
	lineStart := lineStartOffset(content, int(point.Row))
	lineBytes := lineBytesAt(content, lineStart)

	byteCol := int(point.Column)
	if byteCol > len(lineBytes) {
		byteCol = len(lineBytes)
	}

	return Position{
		Line:      point.Row,
		Character: uint32(utf16Length(lineBytes[:byteCol])),
	}
}

// PositionToByteOffset converts an LSP UTF-16 Position back to a byte
// offset into content, the form tree-sitter's Parser.Parse edits and node
// lookups need.
func PositionToByteOffset(pos Position, content []byte) int {
	lineStart := lineStartOffset(content, int(pos.Line))
	lineBytes := lineBytesAt(content, lineStart)

	byteCol := utf16OffsetToByteOffset(lineBytes, int(pos.Character))
	return lineStart + byteCol
}

func lineStartOffset(content []byte, line int) int {
	offset := 0
	for i := 0; i < line; i++ {
		idx := indexByte(content[offset:], '\n')
		if idx < 0 {
			return len(content)
		}
		offset += idx + 1
	}
	return offset
}

func lineBytesAt(content []byte, start int) []byte {
	if start >= len(content) {
		return nil
	}
	rest := content[start:]
	idx := indexByte(rest, '\n')
	if idx < 0 {
		return rest
	}
	return rest[:idx]
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// utf16Length returns how many UTF-16 code units b decodes to, counting
// runes outside the basic multilingual plane (which need a surrogate pair)
// as 2.
func utf16Length(b []byte) int {
	count := 0
	for _, r := range string(b) {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// utf16OffsetToByteOffset converts a UTF-16 code-unit offset within line
// into the matching byte offset, the inverse of utf16Length's accounting.
func utf16OffsetToByteOffset(line []byte, utf16Offset int) int {
	units := 0
	for byteIdx, r := range string(line) {
		if units >= utf16Offset {
			return byteIdx
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(line)
}
