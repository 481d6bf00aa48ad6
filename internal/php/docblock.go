package php

import (
	"regexp"
	"strings"
)

// ParamDoc is a single @param tag.
type ParamDoc struct {
	Type        PHPType
	Variadic    bool
	Name        string
	Description string
}

// ReturnDoc is the @return tag, possibly a conditional type.
type ReturnDoc struct {
	Type        PHPType
	Description string
}

// Docblock is the parsed contents of a `/** ... */` comment attached to a
// class, method, property or function declaration.
type Docblock struct {
	Summary         string
	Params          []ParamDoc
	Return          *ReturnDoc
	VarType         PHPType // @var on a property
	Throws          []PHPType
	Deprecated      bool
	Templates       []TemplateDecl
	Mixins          []string
	TypeAliases     map[string]PHPType
	Assertions      []AssertTag
	Properties      []PropertyDoc
	Methods         []MethodDoc
	Extends         []GenericRef // @extends / @implements
	Use             []GenericRef // @use Trait<Args>
	ImportedTypes   []ImportedAlias
}

// TemplateDecl is one `@template T of Bound` declaration.
type TemplateDecl struct {
	Name       string
	Constraint PHPType
	Variance   Variance
}

// AssertCondition distinguishes @phpstan-assert (unconditional) from the
// -if-true/-if-false conditional variants.
type AssertCondition int

const (
	AssertUnconditional AssertCondition = iota
	AssertIfTrue
	AssertIfFalse
)

// AssertTag models `@phpstan-assert Type $param` / `@psalm-assert` and its
// -if-true/-if-false variants.
type AssertTag struct {
	Negated   bool
	Type      PHPType
	Param     string
	Condition AssertCondition
}

// PropertyDoc is one `@property`/`@property-read`/`@property-write` entry
// on a class docblock.
type PropertyDoc struct {
	Type      PHPType
	Name      string
	ReadOnly  bool
	WriteOnly bool
}

// MethodDoc is one `@method [static] ReturnType name(Args)` entry on a
// class docblock.
type MethodDoc struct {
	Static     bool
	ReturnType PHPType
	Name       string
	Params     []Param
}

// GenericRef is a docblock reference to another type with generic
// arguments, e.g. the `Parent<Args>` in `@extends Parent<Args>`.
type GenericRef struct {
	Name string
	Args []PHPType
}

var (
	tagLineRe       = regexp.MustCompile(`^@([A-Za-z][A-Za-z0-9-]*)(?:\s+(.*))?$`)
	paramValueRe    = regexp.MustCompile(`^(\S+)\s+(\.\.\.)?\$(\S+)(?:\s+(.*))?$`)
	varValueRe      = regexp.MustCompile(`^(\S+)`)
	templateRe      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\s+of\s+(\S+))?`)
	assertValueRe   = regexp.MustCompile(`^(!?)(\S+)\s+\$(\S+)`)
	propertyValueRe = regexp.MustCompile(`^(\S+)\s+\$(\S+)`)
	methodValueRe   = regexp.MustCompile(`^(static\s+)?(\S+\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)
	genericRefRe    = regexp.MustCompile(`^([^<]+)(?:<(.*)>)?`)
	importTypeRe    = regexp.MustCompile(`^(\S+)\s+from\s+(\S+)(?:\s+as\s+(\S+))?`)
)

// ParseDocblock cleans a raw `/** ... */` comment and parses its tags into
// a Docblock. Unknown or malformed tags are skipped rather than erroring --
// PHPDoc in the wild is not fully standardized and a parser that aborts on
// the first odd line would lose everything else in the comment.
func ParseDocblock(raw string) *Docblock {
	lines := cleanCommentLines(raw)
	doc := &Docblock{TypeAliases: make(map[string]PHPType)}

	var summary []string
	var curTag, curValue string
	flush := func() {
		if curTag != "" {
			applyTag(doc, curTag, strings.TrimSpace(curValue))
		}
		curTag, curValue = "", ""
	}

	for _, line := range lines {
		if m := tagLineRe.FindStringSubmatch(line); m != nil {
			flush()
			curTag = strings.ToLower(normalizeTagName(m[1]))
			curValue = m[2]
			continue
		}
		if curTag != "" {
			curValue += " " + line
			continue
		}
		summary = append(summary, line)
	}
	flush()

	doc.Summary = strings.TrimSpace(strings.Join(summary, " "))
	return doc
}

// normalizeTagName folds phpstan-/psalm- prefixed tags to their base name,
// matching the spec's "treat prefixed variants as equivalent" rule.
func normalizeTagName(tag string) string {
	tag = strings.TrimPrefix(tag, "phpstan-")
	tag = strings.TrimPrefix(tag, "psalm-")
	return tag
}

func applyTag(doc *Docblock, tag, value string) {
	switch tag {
	case "param":
		if m := paramValueRe.FindStringSubmatch(value); m != nil {
			doc.Params = append(doc.Params, ParamDoc{
				Type:        ParseTypeString(m[1]),
				Variadic:    m[2] == "...",
				Name:        m[3],
				Description: m[4],
			})
		}
	case "return":
		if typeStr, rest := splitLeadingType(value); typeStr != "" {
			doc.Return = &ReturnDoc{Type: ParseTypeString(typeStr), Description: rest}
		}
	case "var":
		if m := varValueRe.FindStringSubmatch(value); m != nil {
			doc.VarType = ParseTypeString(m[1])
		}
	case "throws":
		if m := varValueRe.FindStringSubmatch(value); m != nil {
			doc.Throws = append(doc.Throws, ParseTypeString(m[1]))
		}
	case "deprecated":
		doc.Deprecated = true
	case "template":
		doc.Templates = append(doc.Templates, parseTemplateTag(value, Invariant))
	case "template-covariant":
		doc.Templates = append(doc.Templates, parseTemplateTag(value, Covariant))
	case "template-contravariant":
		doc.Templates = append(doc.Templates, parseTemplateTag(value, Contravariant))
	case "mixin":
		if m := varValueRe.FindStringSubmatch(value); m != nil {
			doc.Mixins = append(doc.Mixins, m[1])
		}
	case "type":
		parts := strings.SplitN(value, " ", 2)
		if len(parts) == 2 {
			doc.TypeAliases[parts[0]] = ParseTypeString(parts[1])
		}
	case "assert":
		doc.Assertions = append(doc.Assertions, parseAssertTag(value, AssertUnconditional))
	case "assert-if-true":
		doc.Assertions = append(doc.Assertions, parseAssertTag(value, AssertIfTrue))
	case "assert-if-false":
		doc.Assertions = append(doc.Assertions, parseAssertTag(value, AssertIfFalse))
	case "property":
		if m := propertyValueRe.FindStringSubmatch(value); m != nil {
			doc.Properties = append(doc.Properties, PropertyDoc{Type: ParseTypeString(m[1]), Name: m[2]})
		}
	case "property-read":
		if m := propertyValueRe.FindStringSubmatch(value); m != nil {
			doc.Properties = append(doc.Properties, PropertyDoc{Type: ParseTypeString(m[1]), Name: m[2], ReadOnly: true})
		}
	case "property-write":
		if m := propertyValueRe.FindStringSubmatch(value); m != nil {
			doc.Properties = append(doc.Properties, PropertyDoc{Type: ParseTypeString(m[1]), Name: m[2], WriteOnly: true})
		}
	case "method":
		if m := methodValueRe.FindStringSubmatch(value); m != nil {
			doc.Methods = append(doc.Methods, MethodDoc{
				Static:     strings.TrimSpace(m[1]) == "static",
				ReturnType: parseOptionalType(m[2]),
				Name:       m[3],
				Params:     parseMethodDocParams(m[4]),
			})
		}
	case "extends", "implements":
		doc.Extends = append(doc.Extends, parseGenericRef(value))
	case "use":
		doc.Use = append(doc.Use, parseGenericRef(value))
	case "import-type":
		if m := importTypeRe.FindStringSubmatch(value); m != nil {
			alias := m[3]
			if alias == "" {
				alias = m[1]
			}
			doc.ImportedTypes = append(doc.ImportedTypes, ImportedAlias{From: m[2], Name: m[1], Alias: alias})
		}
	}
}

func parseTemplateTag(value string, variance Variance) TemplateDecl {
	m := templateRe.FindStringSubmatch(value)
	if m == nil {
		return TemplateDecl{Variance: variance}
	}
	var constraint PHPType
	if m[2] != "" {
		constraint = ParseTypeString(m[2])
	}
	return TemplateDecl{Name: m[1], Constraint: constraint, Variance: variance}
}

func parseAssertTag(value string, cond AssertCondition) AssertTag {
	m := assertValueRe.FindStringSubmatch(value)
	if m == nil {
		return AssertTag{Condition: cond}
	}
	return AssertTag{
		Negated:   m[1] == "!",
		Type:      ParseTypeString(m[2]),
		Param:     m[3],
		Condition: cond,
	}
}

// splitLeadingType extracts the leading type expression from a tag value,
// honoring balanced (), <>, {} and [] so a parenthesized conditional return
// type (`($a is Foo ? Bar : Baz)`) or a generic with ", " inside it isn't
// truncated at its first interior space the way a plain single-token tag
// value would be.
func splitLeadingType(value string) (typeStr, rest string) {
	depth := 0
	for i, r := range value {
		switch r {
		case '(', '<', '{', '[':
			depth++
		case ')', '>', '}', ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				return value[:i], strings.TrimSpace(value[i:])
			}
		}
	}
	return value, ""
}

// parseOptionalType parses a whitespace-trimmed leading type token that may
// be empty (the `@method` return type is optional; bare `@method name()`
// means untyped/void).
func parseOptionalType(s string) PHPType {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return ParseTypeString(s)
}

// parseMethodDocParams parses the comma-separated `Type $name` argument list
// inside an `@method` tag's parentheses.
func parseMethodDocParams(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	params := make([]Param, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		variadic := false
		if m := paramValueRe.FindStringSubmatch(part + " "); m != nil {
			params = append(params, Param{Type: ParseTypeString(m[1]), Variadic: m[2] == "...", Name: m[3]})
			continue
		}
		// Fallback: bare `$name` with no type.
		name := strings.TrimPrefix(part, "...")
		name = strings.TrimSpace(name)
		if strings.HasPrefix(part, "...") {
			variadic = true
		}
		params = append(params, Param{Name: strings.TrimPrefix(name, "$"), Variadic: variadic})
	}
	return params
}

// parseGenericRef parses a `Name<Arg1, Arg2>` reference used by
// `@extends`/`@implements`/`@use`.
func parseGenericRef(value string) GenericRef {
	m := genericRefRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return GenericRef{Name: strings.TrimSpace(value)}
	}
	ref := GenericRef{Name: strings.TrimSpace(m[1])}
	if m[2] != "" {
		for _, arg := range splitGenericArgs(m[2]) {
			ref.Args = append(ref.Args, ParseTypeString(strings.TrimSpace(arg)))
		}
	}
	return ref
}

// splitGenericArgs splits a comma-separated type-argument list while
// respecting nested angle brackets, e.g. "array<string, T>, int".
func splitGenericArgs(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// cleanCommentLines strips the /** */ markers and leading `*` from each
// line of a raw doc comment, the same per-line cleaning technique used
// elsewhere in the retrieved PHP analyzer corpus.
func cleanCommentLines(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")

	rawLines := strings.Split(raw, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
