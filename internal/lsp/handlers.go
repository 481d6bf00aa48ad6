package lsp

import (
	"github.com/wbm-mkopp/phpls/internal/php"
)

// identifierAt returns the name token (a "name" or "variable_name" node's
// text) under offset, the prefix completion filters by and definition/
// implementation resolve against.
func identifierAt(doc *php.Document, offset int) string {
	node := php.NodeAtByteOffset(doc.Tree, offset)
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "name", "variable_name", "qualified_name":
		return string(node.Utf8Text(doc.Text))
	}
	return ""
}

func (s *Server) handleCompletion(params CompletionParams) (*CompletionList, error) {
	doc := s.dm.Get(params.TextDocument.URI)
	if doc == nil {
		return &CompletionList{}, nil
	}

	offset := ByteOffset(doc, params.Position)
	docCtx := php.ResolveDocumentContext(doc.Tree, doc.Text, offset)
	node := php.NodeAtByteOffset(doc.Tree, offset)
	cursor := php.ClassifyCursor(node)

	var result php.CompletionResult
	switch cursor.Kind {
	case php.ContextClassName:
		prefix := identifierAt(doc, offset)
		result = s.ws.CompleteClassNames(prefix, docCtx.Namespace, docCtx.UseStatements, docCtx.Aliases, doc.Tree, doc.Text)

	case php.ContextMemberAccess, php.ContextStaticAccess:
		subjectType := php.ResolveSubjectType(s.ws, cursor.Subject, doc.Text, docCtx.EnclosingClassFQN)
		objType, ok := subjectType.(*php.ObjectType)
		if !ok {
			return &CompletionList{}, nil
		}
		result = s.ws.CompleteMembers(objType.ClassName(), docCtx.EnclosingClassFQN)

	default:
		return &CompletionList{}, nil
	}

	return &CompletionList{
		IsIncomplete: result.Incomplete,
		Items:        toCompletionItems(result.Items),
	}, nil
}

func toCompletionItems(candidates []php.CompletionCandidate) []CompletionItem {
	items := make([]CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		item := CompletionItem{
			Label:      c.Label,
			Detail:     c.Detail,
			InsertText: c.InsertText,
			Kind:       toLSPCompletionKind(c.Kind),
		}
		if c.IsSnippet {
			item.InsertTextFormat = InsertTextFormatSnippet
		} else {
			item.InsertTextFormat = InsertTextFormatPlainText
		}
		if c.AutoImport != nil {
			item.AdditionalTextEdits = []TextEdit{toLSPTextEdit(*c.AutoImport)}
		}
		items = append(items, item)
	}
	return items
}

func toLSPTextEdit(e php.TextEdit) TextEdit {
	return TextEdit{
		Range: Range{
			Start: Position{Line: e.StartLine, Character: e.StartChar},
			End:   Position{Line: e.EndLine, Character: e.EndChar},
		},
		NewText: e.NewText,
	}
}

func toLSPCompletionKind(k php.CompletionKind) CompletionItemKind {
	switch k {
	case php.KindInterfaceCompletion:
		return CompletionItemKindInterface
	case php.KindTraitCompletion:
		return CompletionItemKindModule
	case php.KindEnumCompletion:
		return CompletionItemKindEnum
	case php.KindMethodCompletion:
		return CompletionItemKindMethod
	case php.KindPropertyCompletion:
		return CompletionItemKindProperty
	case php.KindConstantCompletion:
		return CompletionItemKindProperty
	case php.KindConstructorCompletion:
		return CompletionItemKindConstructor
	default:
		return CompletionItemKindClass
	}
}

func (s *Server) handleDefinition(params TextDocumentPositionParams) ([]Location, error) {
	doc := s.dm.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	offset := ByteOffset(doc, params.Position)
	docCtx := php.ResolveDocumentContext(doc.Tree, doc.Text, offset)
	node := php.NodeAtByteOffset(doc.Tree, offset)
	cursor := php.ClassifyCursor(node)

	switch cursor.Kind {
	case php.ContextClassName:
		name := identifierAt(doc, offset)
		if name == "" {
			return nil, nil
		}
		resolver := php.NewNameResolver(docCtx.Namespace, docCtx.UseStatements, docCtx.Aliases)
		class := s.ws.FindClass(resolver.Resolve(name))
		if class == nil {
			return nil, nil
		}
		return []Location{classLocation(class)}, nil

	case php.ContextMemberAccess, php.ContextStaticAccess:
		subjectType := php.ResolveSubjectType(s.ws, cursor.Subject, doc.Text, docCtx.EnclosingClassFQN)
		objType, ok := subjectType.(*php.ObjectType)
		if !ok {
			return nil, nil
		}
		memberName := identifierAt(doc, offset)
		if memberName == "" {
			return nil, nil
		}
		member, owner, ok := s.ws.ResolveMember(objType.ClassName(), memberName)
		if !ok {
			return nil, nil
		}
		ownerClass := s.ws.FindClass(owner)
		if ownerClass == nil {
			return nil, nil
		}
		return []Location{memberLocation(ownerClass.Path, member)}, nil

	default:
		name := identifierAt(doc, offset)
		if name == "" {
			return nil, nil
		}
		resolver := php.NewNameResolver(docCtx.Namespace, docCtx.UseStatements, docCtx.Aliases)
		if fn := s.ws.FindFunction(resolver.Resolve(name)); fn != nil {
			return []Location{functionLocation(fn)}, nil
		}
		return nil, nil
	}
}

func (s *Server) handleImplementation(params TextDocumentPositionParams) ([]Location, error) {
	doc := s.dm.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	offset := ByteOffset(doc, params.Position)
	docCtx := php.ResolveDocumentContext(doc.Tree, doc.Text, offset)
	name := identifierAt(doc, offset)
	if name == "" {
		return nil, nil
	}
	resolver := php.NewNameResolver(docCtx.Namespace, docCtx.UseStatements, docCtx.Aliases)
	targetFQN := resolver.Resolve(name)

	node := php.NodeAtByteOffset(doc.Tree, offset)
	cursor := php.ClassifyCursor(node)

	if cursor.Kind == php.ContextMemberAccess || cursor.Kind == php.ContextStaticAccess {
		subjectType := php.ResolveSubjectType(s.ws, cursor.Subject, doc.Text, docCtx.EnclosingClassFQN)
		if objType, ok := subjectType.(*php.ObjectType); ok {
			impls := s.ws.FindMethodImplementations(objType.ClassName(), name)
			return implementationLocations(s.ws, impls), nil
		}
	}

	impls := s.ws.FindImplementations(targetFQN)
	return implementationLocations(s.ws, impls), nil
}

func implementationLocations(ws *php.Workspace, fqns []string) []Location {
	locations := make([]Location, 0, len(fqns))
	for _, fqn := range fqns {
		class := ws.FindClass(fqn)
		if class == nil {
			continue
		}
		locations = append(locations, classLocation(class))
	}
	return locations
}

func classLocation(class *php.ClassLike) Location {
	line := uint32(0)
	if class.Line > 0 {
		line = uint32(class.Line - 1)
	}
	return Location{
		URI:   php.PathToURI(class.Path),
		Range: Range{Start: Position{Line: line}, End: Position{Line: line}},
	}
}

func memberLocation(path string, member php.MemberRecord) Location {
	line := uint32(0)
	if member.Line > 0 {
		line = uint32(member.Line - 1)
	}
	return Location{
		URI:   php.PathToURI(path),
		Range: Range{Start: Position{Line: line}, End: Position{Line: line}},
	}
}

func functionLocation(fn *php.FunctionLike) Location {
	line := uint32(0)
	if fn.Line > 0 {
		line = uint32(fn.Line - 1)
	}
	return Location{
		URI:   php.PathToURI(fn.Path),
		Range: Range{Start: Position{Line: line}, End: Position{Line: line}},
	}
}
