package php

import (
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// Document is an open text document tracked by the language server.
type Document struct {
	URI     string
	Text    []byte
	Version int
	Tree    *tree_sitter.Tree
}

// Workspace is the engine's entire process-wide state. Everything here
// lives in memory only and is rebuilt from source on demand -- there is no
// on-disk cache and no background indexing goroutine. A lookup miss
// triggers a synchronous parse of exactly the file(s) needed to answer the
// request, guarded by mu so concurrent requests serialize on the same
// state rather than racing to populate it twice.
type Workspace struct {
	mu sync.RWMutex

	Root     string
	Composer *ComposerLayout

	parser *tree_sitter.Parser

	classes   map[string]*ClassLike
	functions map[string]*FunctionLike
	constants map[string]*ConstantRecord

	// fileOf maps an FQN to the path it was extracted from, so a file
	// invalidation can find and drop everything it contributed without
	// keeping a reverse index per path.
	fileOf map[string]string

	// fileHash detects unchanged files so a didChange notification with no
	// real text change (e.g. only whitespace normalization round-tripped
	// by the client) doesn't force a useless re-merge. Purely an in-memory
	// optimization -- nothing here is ever written to disk.
	fileHash map[string]uint64

	docs map[string]*Document

	stubs map[string]string
}

func NewWorkspace(root string) (*Workspace, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())); err != nil {
		return nil, fmt.Errorf("set php language: %w", err)
	}

	ws := &Workspace{
		Root:      root,
		parser:    parser,
		classes:   make(map[string]*ClassLike),
		functions: make(map[string]*FunctionLike),
		constants: make(map[string]*ConstantRecord),
		fileOf:    make(map[string]string),
		fileHash:  make(map[string]uint64),
		docs:      make(map[string]*Document),
		stubs:     LoadStubs(),
	}

	if layout, err := ReadComposerLayout(root); err == nil {
		ws.Composer = layout
	}

	return ws, nil
}

func (ws *Workspace) Close() {
	ws.parser.Close()
}

// ParseContent parses PHP source using the workspace's shared parser. Call
// sites that may run concurrently with other workspace mutation should
// hold mu; read-only parses of scratch content (e.g. stub text) don't need
// the lock since tree-sitter parsers aren't safe for concurrent use but a
// single workspace only parses on its own goroutine at a time by
// convention (see server.go's per-request serialization).
func (ws *Workspace) ParseContent(content []byte) *tree_sitter.Tree {
	return ws.parser.Parse(content, nil)
}

// indexFile parses path (if changed since it was last seen) and merges its
// declarations into the workspace maps. Returns true if anything changed.
func (ws *Workspace) indexFile(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return ws.indexFileContent(path, content)
}

func (ws *Workspace) indexFileContent(path string, content []byte) bool {
	hash := xxhash.Sum64(content)

	ws.mu.Lock()
	if existing, ok := ws.fileHash[path]; ok && existing == hash {
		ws.mu.Unlock()
		return false
	}
	ws.mu.Unlock()

	tree := ws.ParseContent(content)
	defer tree.Close()

	records := ExtractFile(path, tree, content)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.dropFileLocked(path)

	for fqn, class := range records.Classes {
		class.Path = path
		ws.classes[fqn] = class
		ws.fileOf[fqn] = path
	}
	for fqn, fn := range records.Functions {
		fn.Path = path
		ws.functions[fqn] = fn
		ws.fileOf[fqn] = path
	}
	for fqn, c := range records.Constants {
		ws.constants[fqn] = c
		ws.fileOf[fqn] = path
	}
	ws.fileHash[path] = hash

	return true
}

// InvalidateFile drops everything a file previously contributed, for
// workspace/didChangeWatchedFiles delete events and recompiled documents.
func (ws *Workspace) InvalidateFile(path string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.dropFileLocked(path)
	delete(ws.fileHash, path)
}

// ReindexFile re-parses path and merges its declarations, for
// workspace/didChangeWatchedFiles create/change events on a file that
// isn't open in the editor (an open file is kept in sync by didChange
// instead, via OpenDocument/UpdateDocument).
func (ws *Workspace) ReindexFile(path string) {
	ws.indexFile(path)
}

func (ws *Workspace) dropFileLocked(path string) {
	for fqn, p := range ws.fileOf {
		if p != path {
			continue
		}
		delete(ws.classes, fqn)
		delete(ws.functions, fqn)
		delete(ws.constants, fqn)
		delete(ws.fileOf, fqn)
	}
}

// OpenDocument registers (or replaces) an open document and indexes its
// content immediately, since its declarations must be visible to lookups
// before the file is ever saved to disk.
func (ws *Workspace) OpenDocument(uri string, text []byte, version int) *Document {
	path := URIToPath(uri)
	tree := ws.ParseContent(text)

	ws.mu.Lock()
	doc := &Document{URI: uri, Text: text, Version: version, Tree: tree}
	ws.docs[uri] = doc
	ws.mu.Unlock()

	ws.indexFileContent(path, text)
	return doc
}

func (ws *Workspace) UpdateDocument(uri string, text []byte, version int) *Document {
	return ws.OpenDocument(uri, text, version)
}

func (ws *Workspace) CloseDocument(uri string) {
	ws.mu.Lock()
	doc, ok := ws.docs[uri]
	delete(ws.docs, uri)
	ws.mu.Unlock()

	if ok {
		doc.Tree.Close()
	}
	// The file's declarations stay in the index: if it exists on disk the
	// on-disk content is still authoritative for future lookups keyed by
	// path, and the next didChangeWatchedFiles or lookup miss will re-sync.
}

func (ws *Workspace) GetDocument(uri string) *Document {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.docs[uri]
}
