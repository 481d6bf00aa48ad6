package lsp

// protocol.go defines exactly the LSP 3.17 wire types this server's
// restricted method set (see server.go's handle dispatch) needs --
// initialize/didOpen/didChange/didClose/completion/definition/
// implementation/didChangeWatchedFiles/shutdown/exit. There is no hover,
// diagnostics, codeLens, codeAction, references or rename support, so
// their wire types aren't defined here either.

// Position is zero-based line/UTF-16-character, as specified by LSP --
// conversion to/from tree-sitter byte points happens in internal/php/position.go.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type InitializeParams struct {
	ProcessID  int    `json:"processId"`
	RootURI    string `json:"rootUri"`
	RootPath   string `json:"rootPath"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

type ServerCapabilities struct {
	TextDocumentSync   TextDocumentSyncOptions `json:"textDocumentSync"`
	CompletionProvider CompletionOptions       `json:"completionProvider"`
	DefinitionProvider bool                    `json:"definitionProvider"`
	ImplementationProvider bool                `json:"implementationProvider"`
}

type TextDocumentSyncOptions struct {
	OpenClose bool `json:"openClose"`
	// Change: 1 == Full document sync, the only mode the workspace's
	// in-memory re-parse-on-change model supports.
	Change int `json:"change"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// CompletionParams is textDocument/completion's params; no context object
// since this server doesn't distinguish trigger kinds.
type CompletionParams struct {
	TextDocumentPositionParams
}

type InsertTextFormat int

const (
	InsertTextFormatPlainText InsertTextFormat = 1
	InsertTextFormatSnippet   InsertTextFormat = 2
)

type CompletionItemKind int

const (
	CompletionItemKindClass       CompletionItemKind = 7
	CompletionItemKindInterface   CompletionItemKind = 8
	CompletionItemKindModule      CompletionItemKind = 9 // used for traits, no closer LSP kind exists
	CompletionItemKindMethod      CompletionItemKind = 2
	CompletionItemKindProperty    CompletionItemKind = 10
	CompletionItemKindEnum        CompletionItemKind = 13
	CompletionItemKindConstructor CompletionItemKind = 4
)

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type CompletionItem struct {
	Label            string             `json:"label"`
	Kind             CompletionItemKind `json:"kind"`
	Detail           string             `json:"detail,omitempty"`
	InsertText       string             `json:"insertText,omitempty"`
	InsertTextFormat InsertTextFormat   `json:"insertTextFormat,omitempty"`
	AdditionalTextEdits []TextEdit      `json:"additionalTextEdits,omitempty"`
	SortText         string             `json:"sortText,omitempty"`
}

type CompletionList struct {
	IsIncomplete bool              `json:"isIncomplete"`
	Items        []CompletionItem  `json:"items"`
}

// FileEvent is one entry of workspace/didChangeWatchedFiles.
type FileEvent struct {
	URI  string    `json:"uri"`
	Type FileChangeType `json:"type"`
}

type FileChangeType int

const (
	FileChangeCreated FileChangeType = 1
	FileChangeChanged FileChangeType = 2
	FileChangeDeleted FileChangeType = 3
)

type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}
