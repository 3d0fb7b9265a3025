package project

import (
	"cmp"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/livejava/java/codepad"
	"github.com/dhamidi/livejava/java/diagnose"
	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/javadoc"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// Position is a 0-based line and column. Columns count UTF-16 code
// units, the default encoding of LSP positions.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open span of text.
type Range struct {
	Start Position
	End   Position
}

func (f *File) lineStarts() []int {
	starts := []int{0}
	for i, b := range f.Content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Position converts a byte offset of the file's content.
func (f *File) Position(offset int) Position {
	offset = min(max(offset, 0), len(f.Content))
	starts := f.lineStarts()
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	line = max(line, 0)
	return Position{Line: line, Column: utf16Len(f.Content[starts[line]:offset])}
}

// Offset converts a position to a byte offset, clamped to the content.
// A column past the end of its line means the end of the line.
func (f *File) Offset(pos Position) int {
	starts := f.lineStarts()
	if pos.Line >= len(starts) {
		return len(f.Content)
	}
	start := starts[max(pos.Line, 0)]
	end := len(f.Content)
	if pos.Line+1 < len(starts) {
		end = starts[pos.Line+1] - 1
	}
	i, units := start, 0
	for i < end && units < pos.Column {
		r, size := utf8.DecodeRune(f.Content[i:end])
		units += max(utf16.RuneLen(r), 1)
		i += size
	}
	return i
}

// byteOffset converts a 0-based line and byte column.
func (f *File) byteOffset(starts []int, line, column int) int {
	if line >= len(starts) {
		return len(f.Content)
	}
	return min(starts[max(line, 0)]+max(column, 0), len(f.Content))
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += max(utf16.RuneLen(r), 1)
		b = b[size:]
	}
	return n
}

func (f *File) span(start, end int) Range {
	return Range{Start: f.Position(start), End: f.Position(end)}
}

// Diagnostic is a problem found in a file.
type Diagnostic struct {
	Range   Range
	Message string
	Source  string
}

// Diagnostics reports the syntax errors of the file. The errors of the
// resilient parser come first; a full grammar check adds the ones it
// places more precisely.
func (f *File) Diagnostics() []Diagnostic {
	if !f.Unit.HadError() {
		return nil
	}
	var out []Diagnostic
	seen := make(map[int]bool)
	for _, e := range f.Unit.Errors {
		start, end := e.Token.Span.Start.Offset, e.Token.Span.End.Offset
		seen[f.Position(start).Line] = true
		out = append(out, Diagnostic{Range: f.span(start, max(start, end)), Message: e.Message, Source: "livejava"})
	}
	starts := f.lineStarts()
	for _, d := range diagnose.Check(f.Content) {
		r := f.span(f.byteOffset(starts, d.Line-1, d.Column-1), f.byteOffset(starts, d.EndLine-1, d.EndColumn-1))
		if seen[r.Start.Line] {
			continue
		}
		out = append(out, Diagnostic{Range: r, Message: d.Message, Source: "tree-sitter"})
	}
	return out
}

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolInterface
	SymbolEnum
	SymbolRecord
	SymbolMethod
	SymbolConstructor
	SymbolField
	SymbolEnumConstant
)

// Symbol is a declaration in a file's outline.
type Symbol struct {
	Name     string
	Detail   string
	Kind     SymbolKind
	Range    Range
	Children []Symbol
}

// Symbols returns the outline of the file: its types with their
// members, in source order.
func (f *File) Symbols() []Symbol {
	var out []Symbol
	for _, d := range f.Unit.Types {
		out = append(out, f.typeSymbol(d))
	}
	return out
}

func (f *File) typeSymbol(d *nodes.TypeDecl) Symbol {
	s := Symbol{Name: d.Simple, Detail: d.Binary, Range: f.span(d.Node.Start, d.Node.End)}
	switch d.Kind {
	case parser.TypeDefInterface, parser.TypeDefAnnotation:
		s.Kind = SymbolInterface
	case parser.TypeDefEnum:
		s.Kind = SymbolEnum
	case parser.TypeDefRecord:
		s.Kind = SymbolRecord
	}

	var children []Symbol
	for _, fd := range d.FieldDecls() {
		if fd.Node == nil {
			continue
		}
		c := Symbol{Name: fd.Name, Kind: SymbolField, Detail: parser.JoinTokens(fd.Type), Range: f.span(fd.Node.Start, fd.Node.End)}
		if d.Kind == parser.TypeDefEnum && fd.Type == nil {
			c.Kind = SymbolEnumConstant
		}
		children = append(children, c)
	}
	for _, m := range d.MethodDecls() {
		c := Symbol{Name: m.Name, Kind: SymbolMethod, Range: f.span(m.Node.Start, m.Node.End)}
		if m.Constructor {
			c.Kind = SymbolConstructor
		}
		var params []string
		for _, p := range m.Params {
			params = append(params, parser.JoinTokens(p.Type))
		}
		c.Detail = "(" + strings.Join(params, ", ") + ")"
		if !m.Constructor {
			c.Detail = parser.JoinTokens(m.Return) + " " + c.Detail
		}
		children = append(children, c)
	}
	for _, mt := range d.MemberTypes() {
		children = append(children, f.typeSymbol(mt))
	}
	slices.SortStableFunc(children, func(a, b Symbol) int {
		return cmp.Compare(a.Range.Start.Line, b.Range.Start.Line)
	})
	s.Children = children
	return s
}

func isIdentPart(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

// receiverStart finds where the expression ending at end begins: a
// chain of names, calls and indexes joined by dots.
func receiverStart(src []byte, end int) int {
	i := end
	for i > 0 {
		c := src[i-1]
		switch {
		case isIdentPart(c) || c == '.':
			i--
		case c == ')' || c == ']':
			open := byte('(')
			if c == ']' {
				open = '['
			}
			depth := 0
			j := i - 1
			for ; j >= 0; j-- {
				if src[j] == c {
					depth++
				} else if src[j] == open {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j < 0 {
				return i
			}
			i = j
		default:
			return i
		}
	}
	return i
}

// wordAt returns the bounds of the identifier around offset.
func wordAt(src []byte, offset int) (int, int) {
	start, end := offset, offset
	for start > 0 && isIdentPart(src[start-1]) {
		start--
	}
	for end < len(src) && isIdentPart(src[end]) {
		end++
	}
	return start, end
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// Completions lists the members that may follow the dot before offset
// in the file at path, filtered by the partial name typed after it.
func (p *Project) Completions(path string, offset int) []CompletionItem {
	f := p.File(path)
	if f == nil || offset > len(f.Content) {
		return nil
	}
	src := f.Content
	nameStart, _ := wordAt(src, offset)
	prefix := string(src[nameStart:offset])
	dot := nameStart - 1
	if dot < 0 || src[dot] != '.' {
		return nil
	}
	recv := strings.TrimSpace(string(src[receiverStart(src, dot):dot]))
	if recv == "" {
		return nil
	}

	scope := f.Unit.ScopeAt(dot)
	access := nodes.Access(f.Unit.TypeAt(dot))

	var items []CompletionItem
	a := codepad.New(scope, f.Unit.Package, nil)
	if t, err := a.ExpressionType(recv); err == nil && t != nil {
		items = members(t, false, access)
	} else if te := entity.ResolveAsType(resolveName(scope, recv, access)); te != nil {
		items = members(te.Type, true, access)
	}

	items = slices.DeleteFunc(items, func(it CompletionItem) bool {
		return !strings.HasPrefix(it.Label, prefix)
	})
	return items
}

// resolveName resolves a dotted name the way Java resolves an ambiguous
// name in an expression.
func resolveName(r entity.Resolver, name string, access types.Reflective) entity.Entity {
	parts := strings.Split(name, ".")
	e := r.ValueEntity(parts[0], access)
	for _, part := range parts[1:] {
		if e == nil {
			return nil
		}
		e = entity.Subentity(e, part, access)
	}
	return e
}

// members lists the accessible methods and fields of t, inherited ones
// included. Only static members are listed for a type name.
func members(t types.Type, static bool, access types.Reflective) []CompletionItem {
	if _, ok := t.(*types.Primitive); ok {
		return nil
	}
	var items []CompletionItem
	if _, ok := t.(*types.Array); ok && !static {
		items = append(items, CompletionItem{Label: "length", Kind: CompletionKindField, Detail: "int", InsertText: "length"})
	}

	seen := make(map[string]bool)
	for _, c := range types.ReferenceSupertypes(t) {
		for _, s := range types.AllSuperTypes(c) {
			for _, name := range slices.Sorted(maps.Keys(s.Ref.Methods())) {
				if name == types.ConstructorName {
					continue
				}
				for _, m := range s.Ref.Methods()[name] {
					if static && !m.IsStatic() || !entity.Accessible(s.Ref, m.Modifiers, access) {
						continue
					}
					key := m.String()
					if seen[key] {
						continue
					}
					seen[key] = true
					items = append(items, CompletionItem{
						Label:      m.Name,
						Kind:       CompletionKindMethod,
						Detail:     formatMethodSignature(m),
						InsertText: formatMethodInsert(m),
					})
				}
			}
			for _, name := range slices.Sorted(maps.Keys(s.Ref.Fields())) {
				fd := s.Ref.Fields()[name]
				if static && !fd.Modifiers.Has(types.Static) || !entity.Accessible(s.Ref, fd.Modifiers, access) || seen["."+name] {
					continue
				}
				seen["."+name] = true
				detail := "?"
				if fd.Type != nil {
					detail = fd.Type.String()
				}
				items = append(items, CompletionItem{Label: name, Kind: CompletionKindField, Detail: detail, InsertText: name})
			}
		}
	}
	return items
}

func formatMethodSignature(m *types.Method) string {
	return m.String()
}

func formatMethodInsert(m *types.Method) string {
	if len(m.Params) == 0 {
		return m.Name + "()"
	}
	var placeholders []string
	for i, p := range m.Params {
		name := p.String()
		if i < len(m.ParamNames) && m.ParamNames[i] != "" {
			name = m.ParamNames[i]
		}
		placeholders = append(placeholders, "${"+strconv.Itoa(i+1)+":"+name+"}")
	}
	return m.Name + "(" + strings.Join(placeholders, ", ") + ")"
}

// Hover describes the name at offset in the file at path as Markdown:
// its declaration and documentation. It returns "" when the name does
// not resolve.
func (p *Project) Hover(path string, offset int) string {
	f := p.File(path)
	if f == nil || offset > len(f.Content) {
		return ""
	}
	src := f.Content
	start, end := wordAt(src, offset)
	if start == end {
		return ""
	}
	word := string(src[start:end])

	if n := f.Unit.Root.NodeAt(start); n != nil {
		if m := n.Method(); m != nil && n.Kind == nodes.KindMethod && m.Name == word {
			return hoverText(m.Javadoc, methodDeclText(m))
		}
		if d := n.Type(); d != nil && d.Simple == word && n.Kind == nodes.KindTypeDef {
			return hoverText(d.Javadoc, d.Binary)
		}
	}

	scope := f.Unit.ScopeAt(start)
	access := nodes.Access(f.Unit.TypeAt(start))
	recvStart := receiverStart(src, start)
	called := end < len(src) && strings.HasPrefix(strings.TrimLeft(string(src[end:]), " \t"), "(")

	if called {
		var recv types.Type
		if recvStart < start-1 {
			expr := string(src[recvStart : start-1])
			if t, err := codepad.New(scope, f.Unit.Package, nil).ExpressionType(expr); err == nil {
				recv = t
			}
			if recv == nil {
				if te := entity.ResolveAsType(resolveName(scope, expr, access)); te != nil {
					recv = te.Type
				}
			}
		} else if d := f.Unit.TypeAt(start); d != nil {
			recv = d.ThisType()
		}
		return methodHover(recv, word)
	}

	name := string(src[recvStart:end])
	switch e := entity.Resolve(resolveName(scope, name, access)).(type) {
	case *entity.Value:
		if e.Type == nil {
			return ""
		}
		return "```java\n" + e.Type.String() + " " + word + "\n```"
	case *entity.TypeEntity:
		if c := e.Class(); c != nil {
			doc := ""
			if d, ok := c.Ref.(*nodes.TypeDecl); ok {
				doc = d.Javadoc
			}
			return hoverText(doc, c.String())
		}
		return "```java\n" + e.Type.String() + "\n```"
	}
	return ""
}

func methodDeclText(m *nodes.MethodDecl) string {
	for _, rm := range m.Declaring.Methods()[methodKey(m)] {
		if rm.Javadoc == m.Javadoc && len(rm.Params) == len(m.Params) {
			return rm.String()
		}
	}
	return m.Name
}

func methodKey(m *nodes.MethodDecl) string {
	if m.Constructor {
		return types.ConstructorName
	}
	return m.Name
}

func methodHover(recv types.Type, name string) string {
	if recv == nil {
		return ""
	}
	var sigs []string
	doc := ""
	for _, c := range types.ReferenceSupertypes(recv) {
		for _, s := range types.AllSuperTypes(c) {
			for _, m := range s.Ref.Methods()[name] {
				sigs = append(sigs, m.String())
				if doc == "" {
					doc = m.Javadoc
				}
			}
		}
	}
	if len(sigs) == 0 {
		return ""
	}
	return hoverText(doc, strings.Join(slices.Compact(sigs), "\n"))
}

func hoverText(doc, decl string) string {
	var sb strings.Builder
	sb.WriteString("```java\n")
	sb.WriteString(decl)
	sb.WriteString("\n```")
	if doc != "" {
		if md := javadoc.Parse(doc).Markdown(); md != "" {
			sb.WriteString("\n\n")
			sb.WriteString(md)
		}
	}
	return sb.String()
}
