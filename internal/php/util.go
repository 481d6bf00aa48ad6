package php

import (
	"os"
	"path/filepath"
	"strings"
)

var skipWalkDirs = map[string]bool{
	"node_modules": true,
	"var":          true,
	"vendor-bin":   true,
	"bin":          true,
	"cache":        true,
	".git":         true,
	".github":      true,
}

// walkPHPFiles walks root calling fn for every .php file, skipping the
// common non-source directories a PHP project never wants scanned.
func walkPHPFiles(root string, fn func(path string)) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipWalkDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".php" {
			return nil
		}
		fn(path)
		return nil
	})
}

// URIToPath converts a file:// LSP document URI to a plain filesystem path.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// PathToURI converts a filesystem path to a file:// LSP document URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
