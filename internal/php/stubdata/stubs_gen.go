// Stubs is built at package init from the embedded manifest.json and the
// src/*.php files it lists. `go generate ./internal/php` runs cmd/genstubs,
// which rewrites this file as a map literal holding the same table.

package stubdata

import (
	"embed"
	"encoding/json"
)

//go:embed manifest.json src/*.php
var files embed.FS

type manifestEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type manifestFile struct {
	Entries []manifestEntry `json:"entries"`
}

// Stubs maps a short class, function, or constant name to the PHP source
// of the representative core stub declaring it.
var Stubs = buildStubs()

func buildStubs() map[string]string {
	data, err := files.ReadFile("manifest.json")
	if err != nil {
		return map[string]string{}
	}

	var m manifestFile
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		src, err := files.ReadFile(e.Path)
		if err != nil {
			continue
		}
		out[e.Name] = string(src)
	}
	return out
}
