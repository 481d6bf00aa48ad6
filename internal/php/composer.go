package php

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ComposerLayout is the parsed result of a project's composer.json plus,
// when present, the generated vendor/composer/autoload_*.php maps. It
// drives PSR-4 path derivation for find_class and the PSR-4-rooted walk
// the implementation scanner performs.
type ComposerLayout struct {
	Root string

	// PSR4 maps a namespace prefix (with trailing backslash) to one or
	// more base directories, merged from composer.json's autoload and
	// autoload-dev blocks plus vendor/composer/autoload_psr4.php when it
	// exists (vendor packages contribute prefixes composer.json itself
	// doesn't list).
	PSR4 map[string][]string

	// Classmap is an explicit FQN -> file path table, from composer.json's
	// classmap entries and vendor/composer/autoload_classmap.php.
	Classmap map[string]string

	// Files lists autoload_files.php's unconditionally-included scripts,
	// a source of file-scope functions/constants that don't follow PSR-4.
	Files []string
}

type composerJSON struct {
	Autoload    composerAutoload `json:"autoload"`
	AutoloadDev composerAutoload `json:"autoload-dev"`
}

type composerAutoload struct {
	PSR4     map[string]json.RawMessage `json:"psr-4"`
	Classmap []string                   `json:"classmap"`
	Files    []string                   `json:"files"`
}

// ReadComposerLayout reads composer.json (and, when present, the generated
// vendor/composer/autoload_*.php files) rooted at projectRoot.
func ReadComposerLayout(projectRoot string) (*ComposerLayout, error) {
	layout := &ComposerLayout{
		Root:     projectRoot,
		PSR4:     make(map[string][]string),
		Classmap: make(map[string]string),
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, "composer.json"))
	if err != nil {
		return layout, fmt.Errorf("read composer.json: %w", err)
	}

	var doc composerJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return layout, fmt.Errorf("parse composer.json: %w", err)
	}

	mergePSR4(layout, doc.Autoload, projectRoot)
	mergePSR4(layout, doc.AutoloadDev, projectRoot)

	layout.Files = append(layout.Files, doc.Autoload.Files...)
	layout.Files = append(layout.Files, doc.AutoloadDev.Files...)

	if generated, err := parseGeneratedAutoloadPSR4(projectRoot); err == nil {
		for ns, dirs := range generated {
			layout.PSR4[ns] = append(layout.PSR4[ns], dirs...)
		}
	}
	if classmap, err := parseGeneratedAutoloadClassmap(projectRoot); err == nil {
		for fqn, path := range classmap {
			layout.Classmap[fqn] = path
		}
	}
	if files, err := parseGeneratedAutoloadFiles(projectRoot); err == nil {
		layout.Files = append(layout.Files, files...)
	}

	return layout, nil
}

func mergePSR4(layout *ComposerLayout, a composerAutoload, root string) {
	for ns, raw := range a.PSR4 {
		var dirs []string
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			dirs = []string{single}
		} else {
			_ = json.Unmarshal(raw, &dirs)
		}
		for _, d := range dirs {
			layout.PSR4[ns] = append(layout.PSR4[ns], filepath.Join(root, d))
		}
	}
}

// ResolvePath derives the file path PSR-4 would expect for an FQN, without
// checking whether the file actually exists -- the caller (lookup.go)
// os.Stat's the result itself so this stays a pure string computation.
func (c *ComposerLayout) ResolvePath(fqn string) (string, bool) {
	if c == nil {
		return "", false
	}
	fqn = strings.TrimPrefix(fqn, "\\")

	var bestPrefix string
	var bestDirs []string
	for prefix, dirs := range c.PSR4 {
		p := strings.TrimSuffix(prefix, "\\")
		if p == "" || !strings.HasPrefix(fqn+"\\", p+"\\") {
			continue
		}
		if len(p) > len(bestPrefix) {
			bestPrefix = p
			bestDirs = dirs
		}
	}
	if bestDirs == nil {
		return "", false
	}

	relative := strings.TrimPrefix(fqn, bestPrefix)
	relative = strings.TrimPrefix(relative, "\\")
	relative = strings.ReplaceAll(relative, "\\", string(filepath.Separator))

	return filepath.Join(bestDirs[0], relative+".php"), true
}

// ClassmapPath returns the file path an explicit classmap entry (composer
// dump-autoload's classmap or the composer.json classmap directive) gives
// for fqn, used as find_class's third phase when PSR-4 derivation misses.
func (c *ComposerLayout) ClassmapPath(fqn string) (string, bool) {
	if c == nil {
		return "", false
	}
	path, ok := c.Classmap[fqn]
	return path, ok
}

// UserRoots returns every PSR-4 base directory declared directly in
// composer.json (not vendor/), the bound the implementation scanner walks.
func (c *ComposerLayout) UserRoots() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var roots []string
	for _, dirs := range c.PSR4 {
		for _, d := range dirs {
			if strings.Contains(d, string(filepath.Separator)+"vendor"+string(filepath.Separator)) {
				continue
			}
			if !seen[d] {
				seen[d] = true
				roots = append(roots, d)
			}
		}
	}
	return roots
}
