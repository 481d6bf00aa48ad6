package php

import (
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxCompletionItems bounds a single completion response, matching the
// spec's 100-item cap with an Incomplete flag telling the client to
// re-request as the user keeps typing rather than silently truncating.
const maxCompletionItems = 100

// CompletionKind classifies a candidate for the client's icon/sort logic.
type CompletionKind int

const (
	KindClassCompletion CompletionKind = iota
	KindInterfaceCompletion
	KindTraitCompletion
	KindEnumCompletion
	KindFunctionCompletion
	KindMethodCompletion
	KindPropertyCompletion
	KindConstantCompletion
	KindConstructorCompletion
)

// TextEdit is a single replacement in a document, independent of the LSP
// wire type so internal/php stays free of protocol concerns.
type TextEdit struct {
	StartLine, StartChar uint32
	EndLine, EndChar     uint32
	NewText              string
}

// CompletionCandidate is one completion result, before the lsp package
// maps it onto the wire protocol's CompletionItem.
type CompletionCandidate struct {
	Label        string
	Detail       string
	Kind         CompletionKind
	InsertText   string
	IsSnippet    bool
	SortPriority int // lower sorts first
	FQN          string
	AutoImport   *TextEdit // non-nil when inserting this candidate also needs a new `use` statement
}

// CompletionResult is a capped, possibly-incomplete list of candidates.
type CompletionResult struct {
	Items      []CompletionCandidate
	Incomplete bool
}

// CompleteClassNames builds class-name completion candidates for a
// partially typed prefix, in source-priority order: imported (`use`)
// names first, then same-namespace declarations, then everything else the
// workspace or stub table knows about. Classmap/stub entries are included
// by name only -- they're cheap to offer without parsing the file they'd
// resolve to, and FindClass lazily parses on definition/completion-resolve.
func (ws *Workspace) CompleteClassNames(prefix, currentNamespace string, useStatements, aliases map[string]string, tree *tree_sitter.Tree, content []byte) CompletionResult {
	prefix = strings.ToLower(prefix)
	seen := make(map[string]bool)
	var items []CompletionCandidate

	addCandidate := func(shortName, fqn string, kind CompletionKind, priority int, needsImport bool) {
		if seen[fqn] {
			return
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(shortName), prefix) {
			return
		}
		seen[fqn] = true
		cand := CompletionCandidate{
			Label:        shortName,
			Detail:       fqn,
			Kind:         kind,
			InsertText:   shortName,
			SortPriority: priority,
			FQN:          fqn,
		}
		if needsImport && tree != nil {
			edit := ComputeAutoImportEdit(tree, content, fqn)
			cand.AutoImport = &edit
		}
		items = append(items, cand)
	}

	// Tier 1: already-imported names.
	for short, fqn := range useStatements {
		addCandidate(short, fqn, classKindOf(ws, fqn), 0, false)
	}
	for alias, fqn := range aliases {
		addCandidate(alias, fqn, classKindOf(ws, fqn), 0, false)
	}

	// Tier 2: same-namespace declarations.
	ws.mu.RLock()
	var sameNamespace, everythingElse []string
	for fqn := range ws.classes {
		if currentNamespace != "" && strings.HasPrefix(fqn, currentNamespace+"\\") &&
			!strings.Contains(strings.TrimPrefix(fqn, currentNamespace+"\\"), "\\") {
			sameNamespace = append(sameNamespace, fqn)
		} else {
			everythingElse = append(everythingElse, fqn)
		}
	}
	ws.mu.RUnlock()
	sort.Strings(sameNamespace)
	for _, fqn := range sameNamespace {
		addCandidate(shortNameOf(fqn), fqn, classKindOf(ws, fqn), 1, false)
	}

	// Tier 3: every other parsed class, needing an import if selected.
	sort.Strings(everythingElse)
	for _, fqn := range everythingElse {
		addCandidate(shortNameOf(fqn), fqn, classKindOf(ws, fqn), 2, true)
	}

	// Tier 4: composer classmap entries not yet parsed.
	if ws.Composer != nil {
		var classmapNames []string
		ws.mu.RLock()
		for fqn := range ws.Composer.Classmap {
			if _, already := ws.classes[fqn]; !already {
				classmapNames = append(classmapNames, fqn)
			}
		}
		ws.mu.RUnlock()
		sort.Strings(classmapNames)
		for _, fqn := range classmapNames {
			addCandidate(shortNameOf(fqn), fqn, KindClassCompletion, 3, true)
		}
	}

	// Tier 5: stub classes (built-ins), lowest priority.
	var stubNames []string
	ws.mu.RLock()
	for name := range ws.stubs {
		stubNames = append(stubNames, name)
	}
	ws.mu.RUnlock()
	sort.Strings(stubNames)
	for _, name := range stubNames {
		addCandidate(name, name, KindClassCompletion, 4, false)
	}

	incomplete := len(items) > maxCompletionItems
	if incomplete {
		items = items[:maxCompletionItems]
	}
	return CompletionResult{Items: items, Incomplete: incomplete}
}

func shortNameOf(fqn string) string {
	if idx := strings.LastIndex(fqn, "\\"); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

func classKindOf(ws *Workspace, fqn string) CompletionKind {
	class := ws.FindClass(fqn)
	if class == nil {
		return KindClassCompletion
	}
	switch class.Kind {
	case KindInterface:
		return KindInterfaceCompletion
	case KindTrait:
		return KindTraitCompletion
	case KindEnum:
		return KindEnumCompletion
	default:
		return KindClassCompletion
	}
}

// CompleteMembers builds member-completion candidates for every method and
// property reachable from subjectFQN, applying PHP's visibility rules
// relative to the class the request originated in (fromClassFQN) and
// filtering out PHP's magic methods (they're never directly called).
func (ws *Workspace) CompleteMembers(subjectFQN, fromClassFQN string) CompletionResult {
	members := ws.AllMembers(subjectFQN)

	var items []CompletionCandidate
	for name, m := range members {
		if isMagicMethodName(name) {
			continue
		}
		if !memberVisibleFrom(ws, m, subjectFQN, fromClassFQN) {
			continue
		}
		items = append(items, memberToCandidate(name, m))
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })

	incomplete := len(items) > maxCompletionItems
	if incomplete {
		items = items[:maxCompletionItems]
	}
	return CompletionResult{Items: items, Incomplete: incomplete}
}

func memberToCandidate(name string, m MemberRecord) CompletionCandidate {
	kind := KindPropertyCompletion
	insert := name
	isSnippet := false
	detail := ""
	if m.Type != nil {
		detail = m.Type.Name()
	}

	if m.IsMethod {
		kind = KindMethodCompletion
		insert = name + "(" + snippetTabStops(m.Params) + ")"
		isSnippet = true
		detail = methodSignature(m)
	}

	return CompletionCandidate{
		Label:        name,
		Detail:       detail,
		Kind:         kind,
		InsertText:   insert,
		IsSnippet:    isSnippet,
		SortPriority: visibilitySortPriority(m.Visibility),
	}
}

func methodSignature(m MemberRecord) string {
	var parts []string
	for _, p := range m.Params {
		t := "mixed"
		if p.Type != nil {
			t = p.Type.Name()
		}
		parts = append(parts, t+" $"+p.Name)
	}
	ret := "mixed"
	if m.Type != nil {
		ret = m.Type.Name()
	}
	return "(" + strings.Join(parts, ", ") + "): " + ret
}

// snippetTabStops builds a `${1:name}, ${2:name}` snippet body for a
// method's non-variadic, non-defaulted parameters -- optional/variadic
// trailing parameters are left out of the snippet so accepting it doesn't
// force the user to delete boilerplate for the common call.
func snippetTabStops(params []Param) string {
	var stops []string
	idx := 1
	for _, p := range params {
		if p.HasDefault || p.Variadic {
			break
		}
		stops = append(stops, "${"+itoa(idx)+":"+p.Name+"}")
		idx++
	}
	return strings.Join(stops, ", ")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func isMagicMethodName(name string) bool {
	return strings.HasPrefix(name, "__")
}

func visibilitySortPriority(v Visibility) int {
	switch v {
	case Public:
		return 0
	case Protected:
		return 1
	default:
		return 2
	}
}

// memberVisibleFrom applies PHP's visibility rules: public members are
// always visible; protected members are visible from the same class or a
// subclass; private members are visible only from the exact declaring
// class.
func memberVisibleFrom(ws *Workspace, m MemberRecord, subjectFQN, fromClassFQN string) bool {
	switch m.Visibility {
	case Public:
		return true
	case Protected:
		return fromClassFQN != "" && (fromClassFQN == m.Owner || fromClassFQN == subjectFQN ||
			ws.classImplementsOrExtends(fromClassFQN, m.Owner, map[string]bool{}))
	default: // Private
		return fromClassFQN != "" && fromClassFQN == m.Owner
	}
}

// ComputeAutoImportEdit finds where a new `use Fqn;` statement belongs in
// an existing file: alphabetically among the existing use block when one
// exists, otherwise directly after the namespace declaration, otherwise at
// the top of the file.
func ComputeAutoImportEdit(tree *tree_sitter.Tree, content []byte, fqn string) TextEdit {
	root := tree.RootNode()
	var useNodes []*tree_sitter.Node
	var namespaceNode *tree_sitter.Node

	cursor := root.Walk()
	defer cursor.Close()
	if cursor.GotoFirstChild() {
		for {
			node := cursor.Node()
			switch node.Kind() {
			case "namespace_use_declaration":
				useNodes = append(useNodes, node)
			case "namespace_definition":
				namespaceNode = node
			}
			if !cursor.GotoNextSibling() {
				break
			}
		}
	}

	line := "use " + fqn + ";\n"

	if len(useNodes) > 0 {
		for _, u := range useNodes {
			existing := string(u.Utf8Text(content))
			if fqn < strings.TrimSuffix(strings.TrimPrefix(existing, "use "), ";") {
				row := u.Range().StartPoint.Row
				return TextEdit{StartLine: row, StartChar: 0, EndLine: row, EndChar: 0, NewText: line}
			}
		}
		last := useNodes[len(useNodes)-1]
		row := last.Range().EndPoint.Row + 1
		return TextEdit{StartLine: row, StartChar: 0, EndLine: row, EndChar: 0, NewText: line}
	}

	if namespaceNode != nil {
		row := namespaceNode.Range().EndPoint.Row + 1
		return TextEdit{StartLine: row, StartChar: 0, EndLine: row, EndChar: 0, NewText: "\n" + line}
	}

	return TextEdit{StartLine: 1, StartChar: 0, EndLine: 1, EndChar: 0, NewText: line}
}
