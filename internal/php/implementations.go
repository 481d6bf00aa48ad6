package php

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindImplementations returns every concrete class that implements or
// extends targetFQN (an interface or abstract class), transitively, deduped
// by FQN -- the go-to-implementation entry point.
//
// Implementors are accumulated across four widening phases, all of which
// run on every call (phases 2 and 4 only when Composer data is loaded):
//
//  1. classes already parsed this session
//  2. composer's explicit classmap, substring-prefiltered by the target's
//     short name before paying to parse anything
//  3. the baked-in stub table, same substring prefilter
//  4. a bounded-depth walk of every PSR-4 user root, run last
//
// Per the scanner's FQN-based dedup rule, a class that shows up in more
// than one phase (e.g. already in memory AND present in the classmap) is
// only reported once.
func (ws *Workspace) FindImplementations(targetFQN string) []string {
	seen := make(map[string]bool)
	var results []string

	add := func(fqn string) {
		if seen[fqn] {
			return
		}
		class := ws.FindClass(fqn)
		if class == nil || class.Kind == KindInterface || class.Kind == KindTrait || class.IsAbstract {
			return
		}
		if fqn == targetFQN {
			return
		}
		if ws.classImplementsOrExtends(fqn, targetFQN, map[string]bool{}) {
			seen[fqn] = true
			results = append(results, fqn)
		}
	}

	shortName := targetFQN
	if idx := strings.LastIndex(targetFQN, "\\"); idx >= 0 {
		shortName = targetFQN[idx+1:]
	}

	// Phase 1: already-parsed classes.
	for _, fqn := range ws.knownClassFQNs() {
		add(fqn)
	}

	// Phase 2: composer classmap, substring-prefiltered.
	if ws.Composer != nil {
		for fqn, path := range ws.classmapSnapshot() {
			if seen[fqn] {
				continue
			}
			if fileMightReference(path, shortName) {
				ws.indexFile(path)
			}
		}
		for _, fqn := range ws.knownClassFQNs() {
			add(fqn)
		}
	}

	// Phase 3: stub table, substring-prefiltered.
	for name, src := range ws.stubsSnapshot() {
		if seen[name] || !strings.Contains(src, shortName) {
			continue
		}
		ws.findClassInStubs(name)
	}
	for _, fqn := range ws.knownClassFQNs() {
		add(fqn)
	}

	// Phase 4: bounded-depth walk of every PSR-4 user root.
	if ws.Composer != nil {
		for _, root := range ws.Composer.UserRoots() {
			walkPHPFilesBounded(root, 8, func(path string) {
				if !fileMightReference(path, shortName) {
					return
				}
				ws.indexFile(path)
			})
		}
		for _, fqn := range ws.knownClassFQNs() {
			add(fqn)
		}
	}

	sort.Strings(results)
	return results
}

// FindMethodImplementations narrows FindImplementations to classes that
// declare methodName themselves (an override), rather than merely
// inheriting it -- used when go-to-implementation is invoked from a
// specific method rather than the class/interface name itself.
func (ws *Workspace) FindMethodImplementations(targetFQN, methodName string) []string {
	var out []string
	for _, fqn := range ws.FindImplementations(targetFQN) {
		class := ws.FindClass(fqn)
		if class == nil {
			continue
		}
		if _, ok := class.Methods[methodName]; ok {
			out = append(out, fqn)
		}
	}
	return out
}

func (ws *Workspace) classImplementsOrExtends(classFQN, targetFQN string, visited map[string]bool) bool {
	if classFQN == "" || visited[classFQN] {
		return false
	}
	visited[classFQN] = true
	if classFQN == targetFQN {
		return true
	}
	class := ws.FindClass(classFQN)
	if class == nil {
		return false
	}
	for _, iface := range class.Interfaces {
		if ws.classImplementsOrExtends(iface, targetFQN, visited) {
			return true
		}
	}
	if class.Parent != "" && ws.classImplementsOrExtends(class.Parent, targetFQN, visited) {
		return true
	}
	return false
}

func (ws *Workspace) knownClassFQNs() []string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]string, 0, len(ws.classes))
	for fqn := range ws.classes {
		out = append(out, fqn)
	}
	return out
}

func (ws *Workspace) classmapSnapshot() map[string]string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make(map[string]string, len(ws.Composer.Classmap))
	for fqn, path := range ws.Composer.Classmap {
		if _, already := ws.classes[fqn]; already {
			continue
		}
		out[fqn] = path
	}
	return out
}

func (ws *Workspace) stubsSnapshot() map[string]string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make(map[string]string, len(ws.stubs))
	for name, src := range ws.stubs {
		if _, already := ws.classes[name]; already {
			continue
		}
		out[name] = src
	}
	return out
}

// fileMightReference cheaply rules out files that cannot possibly declare
// an implementor of a type named needle, so the bounded walk doesn't parse
// every file in the project just to check for a match.
func fileMightReference(path, needle string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Contains(content, []byte(needle))
}

// walkPHPFilesBounded is walkPHPFiles with a depth cap relative to root, so
// the implementation scanner's last-resort phase can't runaway into an
// unbounded vendor-style tree.
func walkPHPFilesBounded(root string, maxDepth int, fn func(path string)) {
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
	walkPHPFiles(root, func(path string) {
		depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if depth > maxDepth {
			return
		}
		fn(path)
	})
}
