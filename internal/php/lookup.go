package php

import (
	"os"
	"strings"
)

// FindClass resolves fqn through the four-phase symbol lookup: the
// in-memory FQN index (classes already parsed this session); a PSR-4 path
// derivation that parses the file it points to on a cache miss; an
// explicit classmap entry; and finally the baked-in stub table. Every
// phase stops at the first hit -- a PSR-4 derivation that resolves but
// whose file doesn't exist falls through to the classmap and then stubs,
// rather than erroring.
func (ws *Workspace) FindClass(fqn string) *ClassLike {
	fqn = strings.TrimPrefix(fqn, "\\")

	ws.mu.RLock()
	if c, ok := ws.classes[fqn]; ok {
		ws.mu.RUnlock()
		return c
	}
	ws.mu.RUnlock()

	if ws.Composer != nil {
		if path, ok := ws.Composer.ResolvePath(fqn); ok {
			if _, err := os.Stat(path); err == nil {
				ws.indexFile(path)
				ws.mu.RLock()
				c, ok := ws.classes[fqn]
				ws.mu.RUnlock()
				if ok {
					return c
				}
			}
		}

		if path, ok := ws.Composer.ClassmapPath(fqn); ok {
			if _, err := os.Stat(path); err == nil {
				ws.indexFile(path)
				ws.mu.RLock()
				c, ok := ws.classes[fqn]
				ws.mu.RUnlock()
				if ok {
					return c
				}
			}
		}
	}

	return ws.findClassInStubs(fqn)
}

func (ws *Workspace) findClassInStubs(fqn string) *ClassLike {
	short := fqn
	if idx := strings.LastIndex(fqn, "\\"); idx >= 0 {
		short = fqn[idx+1:]
	}

	ws.mu.RLock()
	_, have := ws.stubs[short]
	ws.mu.RUnlock()
	if !have {
		return nil
	}

	records := ws.parseStub(short)
	if records == nil {
		return nil
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	for name, class := range records.Classes {
		if _, ok := ws.classes[name]; !ok {
			ws.classes[name] = class
		}
	}
	return ws.classes[short]
}

// FindFunction resolves a standalone function by FQN: the in-memory table
// first, then the stub table (functions in autoload_files.php entries are
// indexed the same way user files are, via Workspace.indexFile, not here).
func (ws *Workspace) FindFunction(fqn string) *FunctionLike {
	fqn = strings.TrimPrefix(fqn, "\\")

	ws.mu.RLock()
	if fn, ok := ws.functions[fqn]; ok {
		ws.mu.RUnlock()
		return fn
	}
	ws.mu.RUnlock()

	short := fqn
	if idx := strings.LastIndex(fqn, "\\"); idx >= 0 {
		short = fqn[idx+1:]
	}

	records := ws.parseStub(short)
	if records == nil {
		return nil
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	for name, fn := range records.Functions {
		if _, ok := ws.functions[name]; !ok {
			ws.functions[name] = fn
		}
	}
	return ws.functions[short]
}

// FindConstant resolves a file-scope or class constant (className::NAME
// form) by FQN.
func (ws *Workspace) FindConstant(fqn string) *ConstantRecord {
	if idx := strings.Index(fqn, "::"); idx >= 0 {
		className := fqn[:idx]
		constName := fqn[idx+2:]
		class := ws.FindClass(className)
		if class == nil {
			return nil
		}
		if c, ok := class.Constants[constName]; ok {
			return &c
		}
		return nil
	}

	ws.mu.RLock()
	if c, ok := ws.constants[fqn]; ok {
		ws.mu.RUnlock()
		return c
	}
	ws.mu.RUnlock()

	records := ws.parseStub("constants")
	if records == nil {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for name, c := range records.Constants {
		if _, ok := ws.constants[name]; !ok {
			ws.constants[name] = c
		}
	}
	return ws.constants[fqn]
}

// EnsureIndexed walks each of roots and indexes its PHP files, a
// request-driven (never automatic) bulk population that makes every class
// declared under those roots visible rather than only the ones touched so
// far this session.
func (ws *Workspace) EnsureIndexed(roots []string) {
	for _, root := range roots {
		walkPHPFiles(root, func(path string) {
			ws.indexFile(path)
		})
	}
}
