package php

//go:generate go run ../../cmd/genstubs

import (
	"github.com/wbm-mkopp/phpls/internal/php/stubdata"
)

// LoadStubs returns the baked-in core stub source table, keyed by short
// class/function/constant name. This is a deliberately small, curated
// slice of PHP's real stub corpus (see DESIGN.md) rather than the full
// generated table a production server would ship.
func LoadStubs() map[string]string {
	out := make(map[string]string, len(stubdata.Stubs))
	for k, v := range stubdata.Stubs {
		out[k] = v
	}
	return out
}

// parseStub lazily parses a stub's source the first time it's needed and
// extracts whichever class/function/constant the caller asked for. Stub
// source is parsed with the same extractor as real project files so a
// stub class participates in inheritance merging and completion exactly
// like user code.
func (ws *Workspace) parseStub(name string) *FileRecords {
	src, ok := ws.stubs[name]
	if !ok {
		return nil
	}
	tree := ws.ParseContent([]byte(src))
	defer tree.Close()
	return ExtractFile("stub://"+name, tree, []byte(src))
}
