package info

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/names"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// Extractor is a parser.Listener that collects a ClassInfo. It builds
// the unit's node tree as it goes and records every reference in the
// scope it occurs in; ResolveComments resolves them once the file, and
// ideally its siblings, are known.
type Extractor struct {
	b         *nodes.Builder
	targetPkg string
	info      *ClassInfo

	level     int // open type bodies
	modPublic bool
	isPublic  bool
	store     bool // the type being read is the primary type
	primary   *nodes.TypeDecl
	pkgToken  *parser.Token
	pkgTokens []parser.Token
	pkgSemi   *parser.Token

	gotExtends    bool
	gotImplements bool
	interfaceSels []Selection
	lastComma     *Selection
	superRef      *entity.Unresolved
	ifaceRefs     []*entity.Unresolved

	methods  []*methodDesc
	current  *methodDesc
	typeRefs []*entity.Unresolved
	valRefs  []valueRef
}

type methodDesc struct {
	name    string
	ret     *entity.Unresolved // nil for constructors
	ctor    bool
	params  []*entity.Unresolved
	names   []string
	javadoc string
	broken  bool
}

type valueRef struct {
	components []string
	scope      entity.Resolver
	access     types.Reflective
	class      bool // a class literal: the names denote a type
}

// NewExtractor returns an extractor for a unit in targetPkg whose
// outside names are resolved by resolver.
func NewExtractor(resolver entity.Resolver, targetPkg string) *Extractor {
	return &Extractor{b: nodes.NewBuilder(resolver, targetPkg), targetPkg: targetPkg}
}

// Builder is the node builder the extractor feeds.
func (x *Extractor) Builder() *nodes.Builder {
	return x.b
}

// Info is the ClassInfo collected so far, or nil if no type has been
// named yet.
func (x *Extractor) Info() *ClassInfo {
	return x.info
}

func (x *Extractor) access() types.Reflective {
	return nodes.Access(x.b.CurrentType())
}

func (x *Extractor) typeRef(toks []parser.Token) *entity.Unresolved {
	if len(toks) == 0 {
		return nil
	}
	return entity.FromTypeSpec(toks, x.b.Scope(toks[0].Span.Start.Offset), x.access())
}

func (x *Extractor) HandleEvent(e parser.Event) {
	x.b.HandleEvent(e)

	switch e := e.(type) {
	case parser.BeginPackage:
		tok := e.Token
		x.pkgToken = &tok
	case parser.Package:
		x.pkgTokens = e.Tokens
	case parser.PackageSemi:
		tok := e.Token
		x.pkgSemi = &tok

	case parser.Modifier:
		if e.Token.Kind == parser.TokenPublic {
			x.modPublic = true
		}
	case parser.ModifiersConsumed:
		x.modPublic = false

	case parser.TypeDef:
		x.isPublic = x.modPublic
	case parser.TypeDefName:
		x.typeDefName(e)
	case parser.TypeParam:
		if x.level == 0 && x.store && x.current == nil {
			x.info.TypeParams = append(x.info.TypeParams, e.Name.Literal)
		}
	case parser.TypeParamBound:
		if r := x.typeRef(e.Tokens); r != nil {
			x.typeRefs = append(x.typeRefs, r)
		}
	case parser.TypeDefExtends:
		x.typeDefExtends(e)
	case parser.TypeDefImplements:
		if x.level == 0 && x.store {
			x.gotImplements = true
			x.interfaceSels = []Selection{*TokenSelection(e.Token)}
			x.ifaceRefs = nil
		}
	case parser.TypeSpec:
		x.typeSpec(e)
	case parser.BeginTypeBody:
		x.gotExtends, x.gotImplements = false, false
		x.level++
	case parser.EndTypeBody:
		x.level--
	case parser.EndTypeDef:
		if x.level == 0 {
			x.store = false
		}

	case parser.MethodDecl:
		x.current = nil
		if x.store && x.level == 1 && x.b.CurrentType() == x.primary {
			x.current = &methodDesc{name: e.Name.Literal, ctor: e.Constructor, javadoc: e.Javadoc}
			if !e.Constructor {
				x.current.ret = x.typeRef(e.Return)
				x.current.broken = x.current.ret == nil
			}
		}
	case parser.MethodParam:
		if m := x.current; m != nil {
			r := x.typeRef(e.Type)
			if r == nil {
				m.broken = true
			} else {
				r.Spec.Dims += e.Dims
				if e.Varargs {
					r.Spec.Varargs = true
				}
			}
			m.params = append(m.params, r)
			m.names = append(m.names, e.Name.Literal)
		}
	case parser.AllMethodParams:
		if x.current != nil {
			x.methods = append(x.methods, x.current)
			x.current = nil
		}

	case parser.ValueName:
		x.valueName(e.Components, false)
	case parser.ClassLiteral:
		x.valueName(e.Components, true)
	}
}

func (x *Extractor) valueName(comps []parser.Token, class bool) {
	if len(comps) == 0 {
		return
	}
	names := make([]string, len(comps))
	for i, t := range comps {
		names[i] = t.Literal
	}
	x.valRefs = append(x.valRefs, valueRef{
		components: names,
		scope:      x.b.Scope(comps[0].Span.Start.Offset),
		access:     x.access(),
		class:      class,
	})
}

func (x *Extractor) typeDefName(e parser.TypeDefName) {
	x.gotExtends, x.gotImplements = false, false
	if x.level != 0 {
		return
	}
	if x.info != nil && !(x.isPublic && !x.info.Public) {
		x.store = false
		return
	}
	d := x.b.CurrentType()
	x.primary = d
	x.info = &ClassInfo{
		Name:   e.Name.Literal,
		Public: x.isPublic,
	}
	switch d.Kind {
	case parser.TypeDefEnum:
		x.info.Enum = true
	case parser.TypeDefInterface, parser.TypeDefAnnotation:
		x.info.Interface = true
	case parser.TypeDefRecord:
		x.info.Record = true
	}
	end := e.Name.Span.End
	x.info.ExtendsInsert = Point(end.Line, end.Column)
	x.info.ImplementsInsert = Point(end.Line, end.Column)
	if x.pkgSemi != nil && x.pkgToken != nil {
		x.info.PackageStatement = TokenSelection(*x.pkgToken)
		x.info.PackageName = TokensSelection(x.pkgTokens)
		x.info.PackageSemi = TokenSelection(*x.pkgSemi)
	}
	x.superRef, x.ifaceRefs = nil, nil
	x.methods = nil
	x.store = true
}

func (x *Extractor) typeDefExtends(e parser.TypeDefExtends) {
	if x.level != 0 || !x.store {
		return
	}
	x.gotExtends = true
	start := x.info.ExtendsInsert
	if start == nil {
		return
	}
	next := e.Next.Span.Start
	sel := &Selection{Line: start.Line, Column: start.Column}
	if next.Line == start.Line {
		sel.ExtendEnd(next.Line, next.Column)
	} else {
		sel.ExtendEnd(e.Token.Span.End.Line, e.Token.Span.End.Column)
	}
	x.info.ExtendsReplace = sel
	x.info.ExtendsInsert = nil
}

func (x *Extractor) typeSpec(e parser.TypeSpec) {
	primaryHeader := x.store && x.level == 0
	switch {
	case e.Context == parser.SpecExtends && x.gotExtends && primaryHeader:
		x.gotExtends = false
		x.superRef = x.typeRef(e.Tokens)
		sel := TokensSelection(e.Tokens)
		x.info.SuperReplace = sel
		x.info.ImplementsInsert = Point(sel.EndLine, sel.EndColumn)
		return
	case e.Context == parser.SpecImplements && x.gotImplements && primaryHeader:
		sel := TokensSelection(e.Tokens)
		if x.lastComma != nil {
			x.lastComma.ExtendEnd(sel.Line, sel.Column)
			x.interfaceSels = append(x.interfaceSels, *x.lastComma)
			x.lastComma = nil
		}
		x.interfaceSels = append(x.interfaceSels, *sel)
		x.ifaceRefs = append(x.ifaceRefs, x.typeRef(e.Tokens))
		if e.Next.Kind == parser.TokenComma {
			x.lastComma = TokenSelection(e.Next)
			return
		}
		x.gotImplements = false
		x.info.InterfaceSelections = x.interfaceSels
		x.info.ImplementsInsert = Point(sel.EndLine, sel.EndColumn)
		return
	case e.Context == parser.SpecImplements && primaryHeader:
		return
	}
	if r := x.typeRef(e.Tokens); r != nil && !r.Spec.IsVar() {
		x.typeRefs = append(x.typeRefs, r)
	}
}

// ResolveComments resolves the references collected during the walk
// and completes the ClassInfo: method signatures, used classes and
// supertypes. It must run after the whole file has been read.
func (x *Extractor) ResolveComments() {
	c := x.info
	if c == nil {
		return
	}
	c.Package = x.b.Unit().Package
	c.Comments, c.Used = nil, nil

	for _, m := range x.methods {
		if m.broken {
			continue
		}
		if sig, ok := x.signature(m); ok {
			c.AddComment(sig, m.javadoc, strings.Join(m.names, " "))
		}
	}

	for _, r := range x.typeRefs {
		if te := entity.ResolveAsType(r); te != nil {
			x.addTypeReference(te.Type)
		}
	}
	for _, v := range x.valRefs {
		x.resolveValueRef(v)
	}

	c.Superclass = ""
	if x.superRef != nil {
		if te := entity.ResolveAsType(x.superRef); te != nil {
			if cl := te.Class(); cl != nil {
				c.Superclass = cl.Name()
			}
		}
	}
	c.Implements = nil
	for _, r := range x.ifaceRefs {
		name := ""
		if r != nil {
			if te := entity.ResolveAsType(r); te != nil && te.Class() != nil {
				name = te.Class().Name()
			}
		}
		c.AddImplements(name)
	}
}

func (x *Extractor) signature(m *methodDesc) (string, bool) {
	var sb strings.Builder
	if m.ret != nil {
		te := entity.ResolveAsType(m.ret)
		if te == nil {
			return "", false
		}
		sb.WriteString(x.typeString(te.Type))
		sb.WriteByte(' ')
	}
	sb.WriteString(m.name)
	sb.WriteByte('(')
	for i, p := range m.params {
		te := entity.ResolveAsType(p)
		if te == nil {
			return "", false
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(x.typeString(te.Type))
	}
	sb.WriteByte(')')
	return sb.String(), true
}

// typeString renders a type for a signature: erased, with '.' between
// nested class names and the target package stripped.
func (x *Extractor) typeString(t types.Type) string {
	s := types.Erasure(t).String()
	if x.targetPkg != "" {
		s = strings.TrimPrefix(s, x.targetPkg+".")
	}
	return strings.ReplaceAll(s, "$", ".")
}

func (x *Extractor) resolveValueRef(v valueRef) {
	if v.class {
		e := v.scope.ResolvePackageOrClass(v.components[0], v.access)
		for _, name := range v.components[1:] {
			if e == nil {
				return
			}
			e = entity.TypeSubentity(e, name)
		}
		if te, ok := e.(*entity.TypeEntity); ok {
			x.addTypeReference(te.Type)
		}
		return
	}

	e := v.scope.ValueEntity(v.components[0], v.access)
	if isValue(e) {
		return
	}
	rest := v.components[1:]
	for e != nil && len(rest) > 0 {
		if te, ok := e.(*entity.TypeEntity); ok {
			x.addTypeReference(te.Type)
		}
		e = entity.Subentity(e, rest[0], v.access)
		rest = rest[1:]
		if isValue(e) {
			return
		}
	}
	if te, ok := e.(*entity.TypeEntity); ok {
		x.addTypeReference(te.Type)
	}
}

func isValue(e entity.Entity) bool {
	_, ok := e.(*entity.Value)
	return ok
}

// addTypeReference records the class of t, and those of its type
// arguments, if they belong to the target package.
func (x *Extractor) addTypeReference(t types.Type) {
	for {
		a, ok := t.(*types.Array)
		if !ok {
			break
		}
		t = a.Elem
	}
	c, ok := t.(*types.Class)
	if !ok {
		return
	}
	x.addUsed(c.Name())
	for _, arg := range c.Args {
		var bounds []types.Type
		switch a := arg.(type) {
		case *types.Wildcard:
			bounds = a.Upper
		case *types.TypeParam:
			bounds = a.Bounds
		default:
			bounds = []types.Type{a}
		}
		for _, b := range bounds {
			if _, ok := b.(*types.TypeParam); ok {
				continue
			}
			x.addTypeReference(b)
		}
	}
}

func (x *Extractor) addUsed(binary string) {
	if names.Prefix(binary) != x.targetPkg {
		return
	}
	name := names.Base(binary)
	if i := strings.IndexByte(name, '$'); i >= 0 {
		name = name[:i]
	}
	x.info.AddUsed(name)
}

// Walk runs the first phase over src: it builds the unit and collects
// references without resolving them. The extractor's Info is nil if the
// source names no type.
func Walk(r io.Reader, resolver entity.Resolver, targetPkg string, opts ...parser.Option) (*Extractor, *nodes.Unit, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read source: %w", err)
	}
	x := NewExtractor(resolver, targetPkg)
	p := parser.ParseCompilationUnit(bytes.NewReader(src), x, opts...)
	if err := p.Finish(); err != nil {
		return nil, nil, err
	}
	unit := x.b.Finish(len(src))
	if x.info != nil {
		x.info.HadError = p.HadError()
	}
	return x, unit, nil
}

// Parse reads a compilation unit and returns the ClassInfo of its
// primary type: the first public top level type, or else the first one.
// Syntax errors do not fail the parse; the result has HadError set and
// holds what could be recovered. ErrNoClass is returned when no type
// declaration could be named.
func Parse(r io.Reader, resolver entity.Resolver, targetPkg string, opts ...parser.Option) (*ClassInfo, error) {
	x, _, err := Walk(r, resolver, targetPkg, opts...)
	if err != nil {
		return nil, err
	}
	if x.info == nil {
		return nil, ErrNoClass
	}
	x.ResolveComments()
	return x.info, nil
}
