package php

import (
	"os"
	"path/filepath"
	"strings"

	treesitterhelper "github.com/wbm-mkopp/phpls/internal/tree_sitter_helper"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// The three vendor/composer/autoload_*.php files are PHP array literals,
// not JSON -- composer generates them to be `require`d directly by PHP's
// own autoloader. Rather than hand-write a second small PHP reader, they
// are parsed with the same tree-sitter-php grammar the extractor uses,
// walking for `return array(...)`/`return [...]` statements and reading
// out string-key => string-or-array-of-strings entries.

func parseGeneratedAutoloadPSR4(root string) (map[string][]string, error) {
	path := filepath.Join(root, "vendor", "composer", "autoload_psr4.php")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, rootNode := parsePHPScratch(content)
	defer tree.Close()

	result := make(map[string][]string)
	arr := findTopLevelArray(rootNode, content)
	if arr == nil {
		return result, nil
	}
	baseDir := filepath.Join(root, "vendor", "composer")
	for key, valueNode := range arrayEntries(arr, content) {
		dirs := stringOrArray(valueNode, content)
		for i, d := range dirs {
			dirs[i] = resolveComposerPath(baseDir, d)
		}
		result[key] = dirs
	}
	return result, nil
}

func parseGeneratedAutoloadClassmap(root string) (map[string]string, error) {
	path := filepath.Join(root, "vendor", "composer", "autoload_classmap.php")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, rootNode := parsePHPScratch(content)
	defer tree.Close()

	result := make(map[string]string)
	arr := findTopLevelArray(rootNode, content)
	if arr == nil {
		return result, nil
	}
	baseDir := filepath.Join(root, "vendor", "composer")
	for key, valueNode := range arrayEntries(arr, content) {
		paths := stringOrArray(valueNode, content)
		if len(paths) > 0 {
			result[key] = resolveComposerPath(baseDir, paths[0])
		}
	}
	return result, nil
}

func parseGeneratedAutoloadFiles(root string) ([]string, error) {
	path := filepath.Join(root, "vendor", "composer", "autoload_files.php")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, rootNode := parsePHPScratch(content)
	defer tree.Close()

	var files []string
	arr := findTopLevelArray(rootNode, content)
	if arr == nil {
		return files, nil
	}
	baseDir := filepath.Join(root, "vendor", "composer")
	for _, valueNode := range arrayEntries(arr, content) {
		for _, p := range stringOrArray(valueNode, content) {
			files = append(files, resolveComposerPath(baseDir, p))
		}
	}
	return files, nil
}

func resolveComposerPath(baseDir, raw string) string {
	if filepath.IsAbs(raw) {
		return raw
	}
	return filepath.Join(baseDir, raw)
}

func parsePHPScratch(content []byte) (*tree_sitter.Tree, *tree_sitter.Node) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	_ = parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()))
	tree := parser.Parse(content, nil)
	return tree, tree.RootNode()
}

func findTopLevelArray(root *tree_sitter.Node, content []byte) *tree_sitter.Node {
	for _, ret := range findAllNodesOfKind(root, "return_statement") {
		if arr := findFirstNodeOfKind(ret, "array_creation_expression"); arr != nil {
			return arr
		}
	}
	return nil
}

// arrayEntries walks a PHP array literal's top-level `key => value` pairs
// keyed by the literal string key; map iteration order doesn't matter here
// since every caller only looks entries up by key.
func arrayEntries(arr *tree_sitter.Node, content []byte) map[string]*tree_sitter.Node {
	out := make(map[string]*tree_sitter.Node)
	for i := uint(0); i < arr.NamedChildCount(); i++ {
		pair := arr.NamedChild(i)
		if pair == nil || pair.Kind() != "array_element_initializer" {
			continue
		}
		if pair.NamedChildCount() < 2 {
			continue
		}
		keyNode := pair.NamedChild(0)
		valNode := pair.NamedChild(1)
		key := stringLiteralValue(keyNode, content)
		if key == "" {
			continue
		}
		out[key] = valNode
	}
	return out
}

func stringOrArray(node *tree_sitter.Node, content []byte) []string {
	if node == nil {
		return nil
	}
	if s := stringLiteralValue(node, content); s != "" {
		return []string{s}
	}
	if node.Kind() == "array_creation_expression" {
		var out []string
		for i := uint(0); i < node.NamedChildCount(); i++ {
			elem := node.NamedChild(i)
			if elem == nil {
				continue
			}
			target := elem
			if elem.Kind() == "array_element_initializer" && elem.NamedChildCount() > 0 {
				target = elem.NamedChild(elem.NamedChildCount() - 1)
			}
			if s := stringLiteralValue(target, content); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringLiteralValue(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	strNode := node
	if node.Kind() != "string" {
		strNode = treesitterhelper.GetFirstNodeOfKind(node, "string")
		if strNode == nil {
			return ""
		}
	}
	contentNode := treesitterhelper.GetFirstNodeOfKind(strNode, "string_content")
	if contentNode == nil {
		return ""
	}
	return strings.TrimSpace(string(contentNode.Utf8Text(content)))
}
