package lsp

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/wbm-mkopp/phpls/internal/php"
)

// DocumentManager thin-wraps the workspace's own document tracking, giving
// the jsonrpc2 handlers a place to translate between wire URIs/positions
// and the php package's byte-offset/Document model without the workspace
// itself knowing about the LSP wire format.
type DocumentManager struct {
	ws *php.Workspace
}

func NewDocumentManager(ws *php.Workspace) *DocumentManager {
	return &DocumentManager{ws: ws}
}

func (dm *DocumentManager) Open(uri, text string, version int) {
	dm.ws.OpenDocument(uri, []byte(text), version)
}

// ApplyFullSync replaces a document's content, matching the server's
// TextDocumentSyncKindFull capability -- every didChange carries the whole
// new text rather than incremental edits.
func (dm *DocumentManager) ApplyFullSync(uri, text string, version int) {
	dm.ws.UpdateDocument(uri, []byte(text), version)
}

func (dm *DocumentManager) Close(uri string) {
	dm.ws.CloseDocument(uri)
}

func (dm *DocumentManager) Get(uri string) *php.Document {
	return dm.ws.GetDocument(uri)
}

// ByteOffset converts a wire Position into a byte offset within doc's
// current text, the unit every php package lookup function expects.
func ByteOffset(doc *php.Document, pos Position) int {
	return php.PositionToByteOffset(php.Position{Line: pos.Line, Character: pos.Character}, doc.Text)
}

// ToPosition is ByteOffset's inverse, used to translate a resolved
// declaration's tree-sitter point back into a wire Position for a
// definition/implementation response.
func ToPosition(point tree_sitter.Point, content []byte) Position {
	p := php.TreePointToPosition(point, content)
	return Position{Line: p.Line, Character: p.Character}
}
