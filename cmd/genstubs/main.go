// Command genstubs regenerates internal/php/stubdata/stubs_gen.go from the
// curated manifest and source files under internal/php/stubdata/. It is
// invoked via `go generate` from internal/php/stubs.go, never at runtime.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type manifestEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type manifest struct {
	Entries []manifestEntry `json:"entries"`
}

func main() {
	root := "stubdata"
	manifestPath := filepath.Join(root, "manifest.json")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	entries := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		src, err := os.ReadFile(filepath.Join(root, e.Path))
		if err != nil {
			log.Fatalf("read %s: %v", e.Path, err)
		}
		entries[e.Name] = string(src)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("// Code generated by cmd/genstubs from manifest.json. DO NOT EDIT.\n\n")
	b.WriteString("package stubdata\n\n")
	b.WriteString("// Stubs maps a short class, function or constant name to the PHP source\n")
	b.WriteString("// of the representative core stub declaring it.\n")
	b.WriteString("var Stubs = map[string]string{\n")
	for _, name := range names {
		fmt.Fprintf(&b, "\t%q: %q,\n", name, entries[name])
	}
	b.WriteString("}\n")

	out := filepath.Join(root, "stubs_gen.go")
	if err := os.WriteFile(out, []byte(b.String()), 0644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}
}
