package nodes

import (
	"strconv"
	"strings"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// Builder is a parser.Listener that builds a Unit. Other listeners can
// share the walk and ask the builder for the scope at the current event.
type Builder struct {
	unit *Unit
	cur  *Node

	mods     types.Modifiers
	pkgStart *parser.Token
	pkgNode  *Node

	// decls holds the field and local declarations whose declarators
	// are being read; initializers can nest more of them.
	decls []any

	// tparams receives TypeParam events: the type or method whose
	// header is being read.
	tparams     *[]*types.TypeParam
	paramBounds *[][][]parser.Token

	header  *TypeDecl // type whose header is being read
	method  *MethodDecl
	newSpec []parser.Token

	anon map[*TypeDecl]int
}

func NewBuilder(parent entity.Resolver, pkg string) *Builder {
	u := newUnit(parent, pkg)
	return &Builder{unit: u, cur: u.Root, anon: make(map[*TypeDecl]int)}
}

// Unit is the unit under construction.
func (b *Builder) Unit() *Unit {
	return b.unit
}

// Current is the innermost open node.
func (b *Builder) Current() *Node {
	return b.cur
}

// CurrentType is the innermost type declaration being read, or nil at
// top level.
func (b *Builder) CurrentType() *TypeDecl {
	for n := b.cur; n != nil; n = n.Parent {
		if n.typ != nil {
			return n.typ
		}
	}
	return nil
}

// CurrentMethod is the method being read, or nil.
func (b *Builder) CurrentMethod() *MethodDecl {
	for n := b.cur; n != nil; n = n.Parent {
		if n.method != nil {
			return n.method
		}
		if n.Kind == KindTypeBody {
			return nil
		}
	}
	return nil
}

// Scope returns a resolver for names used at offset within the current
// node.
func (b *Builder) Scope(offset int) entity.Resolver {
	return scope{node: b.cur, limit: offset}
}

// Finish closes the tree at end, the length of the source, and returns
// the unit.
func (b *Builder) Finish(end int) *Unit {
	for b.cur != b.unit.Root {
		b.pop(end)
	}
	b.unit.Root.close(end)
	return b.unit
}

func (b *Builder) push(kind Kind, start int) *Node {
	n := &Node{Kind: kind, Start: start, End: start}
	b.cur.add(n)
	b.cur = n
	return n
}

// pop closes the current node, and any node left open inside it by
// damaged source, at end.
func (b *Builder) pop(end int) {
	n := b.cur
	n.close(end)
	if n.Parent != nil {
		b.cur = n.Parent
	}
}

// popTo closes nodes up to and including the innermost node of kind.
func (b *Builder) popTo(kind Kind, end int) {
	for n := b.cur; n != nil && n.Kind != KindUnit; n = n.Parent {
		if n.Kind == kind {
			for b.cur != n {
				b.pop(end)
			}
			b.pop(end)
			return
		}
	}
}

// popToBody closes the innermost method body.
func (b *Builder) popToBody(end int) {
	for n := b.cur; n != nil && n.Kind != KindUnit; n = n.Parent {
		if n.Kind == KindBlock && n.method != nil {
			for b.cur != n {
				b.pop(end)
			}
			b.pop(end)
			return
		}
	}
}

func (b *Builder) takeMods() types.Modifiers {
	m := b.mods
	b.mods = 0
	return m
}

func start(t parser.Token) int { return t.Span.Start.Offset }
func end(t parser.Token) int   { return t.Span.End.Offset }

func (b *Builder) HandleEvent(e parser.Event) {
	switch e := e.(type) {
	case parser.BeginPackage:
		tok := e.Token
		b.pkgStart = &tok
		b.noteFile(tok)
	case parser.Package:
		names := make([]string, 0, len(e.Tokens))
		for _, t := range e.Tokens {
			if t.Kind == parser.TokenIdent {
				names = append(names, t.Literal)
			}
		}
		b.unit.Package = strings.Join(names, ".")
		s := 0
		if b.pkgStart != nil {
			s = start(*b.pkgStart)
		} else if len(e.Tokens) > 0 {
			s = start(e.Tokens[0])
		}
		b.pkgNode = &Node{Kind: KindPackage, Start: s, Name: b.unit.Package}
		if len(e.Tokens) > 0 {
			b.pkgNode.End = end(e.Tokens[len(e.Tokens)-1])
		}
		b.unit.Root.add(b.pkgNode)
	case parser.PackageSemi:
		if b.pkgNode != nil {
			b.pkgNode.End = end(e.Token)
		}
	case parser.Import:
		b.handleImport(e)

	case parser.Modifier:
		b.mods |= types.ModifierByKeyword(e.Token.Literal)
	case parser.ModifiersConsumed:
		b.mods = 0

	case parser.TypeDef:
		b.beginType(e)
	case parser.TypeDefName:
		if d := b.header; d != nil {
			b.nameType(d, e.Name.Literal)
		}
	case parser.TypeParam:
		if b.tparams != nil {
			*b.tparams = append(*b.tparams, &types.TypeParam{Name: e.Name.Literal})
			*b.paramBounds = append(*b.paramBounds, nil)
		}
	case parser.TypeParamBound:
		if b.paramBounds != nil && len(*b.paramBounds) > 0 {
			last := len(*b.paramBounds) - 1
			(*b.paramBounds)[last] = append((*b.paramBounds)[last], e.Tokens)
		}
	case parser.RecordComponent:
		b.recordComponent(e)
	case parser.TypeSpec:
		b.typeSpec(e)
	case parser.BeginTypeBody:
		b.tparams, b.paramBounds = nil, nil
		if d := b.header; d != nil {
			b.header = nil
			n := b.push(KindTypeBody, end(e.Token))
			n.typ = d
			n.Name = d.Simple
			d.Body = n
		}
	case parser.EndTypeBody:
		b.popTo(KindTypeBody, start(e.Token))
	case parser.EndTypeDef:
		b.header = nil
		b.tparams, b.paramBounds = nil, nil
		b.popTo(KindTypeDef, end(e.Last))
	case parser.EnumConstant:
		b.enumConstant(e)

	case parser.MethodDecl:
		b.beginMethod(e)
	case parser.MethodParam:
		if m := b.method; m != nil {
			m.Params = append(m.Params, Param{Name: e.Name, Type: e.Type, Dims: e.Dims, Varargs: e.Varargs})
		}
	case parser.AllMethodParams:
		b.tparams, b.paramBounds = nil, nil
	case parser.BeginMethodBody:
		if m := b.method; m != nil {
			m.HasBody = true
			n := b.push(KindBlock, end(e.Token))
			n.method = m
		}
	case parser.EndMethodBody:
		b.popToBody(start(e.Token))
	case parser.EndMethod:
		b.popTo(KindMethod, end(e.Last))
		b.method = nil

	case parser.FieldDecl:
		d := b.CurrentType()
		n := b.push(KindField, start(e.Start))
		b.decls = append(b.decls, &fieldDecls{
			node: n, typ: e.Type, mods: b.takeMods(), javadoc: e.Javadoc, declaring: d,
		})
	case parser.EndField:
		b.popDecl()
		b.popTo(KindField, end(e.Last))
	case parser.LocalVarDecl:
		b.decls = append(b.decls, &localDecl{typ: e.Type, final: b.takeMods().Has(types.Final)})
	case parser.EndLocalVar:
		b.popDecl()
	case parser.VarName:
		b.varName(e)

	case parser.BeginBlock:
		b.push(KindBlock, start(e.Token))
	case parser.EndBlock:
		if e.Included {
			b.popTo(KindBlock, end(e.Token))
		} else {
			b.popTo(KindBlock, start(e.Token))
		}

	case parser.Error:
		b.unit.Errors = append(b.unit.Errors, e)
	}
}

type fieldDecls struct {
	node      *Node
	typ       []parser.Token
	mods      types.Modifiers
	javadoc   string
	declaring *TypeDecl
}

type localDecl struct {
	typ   []parser.Token
	final bool
}

func (b *Builder) popDecl() {
	if len(b.decls) > 0 {
		b.decls = b.decls[:len(b.decls)-1]
	}
}

func (b *Builder) handleImport(e parser.Import) {
	b.noteFile(e.Start)
	names := make([]string, len(e.Name))
	for i, t := range e.Name {
		names[i] = t.Literal
	}
	name := strings.Join(names, ".")
	b.unit.Imports.Add(entity.Import{Name: name, Static: e.Static, Wildcard: e.Wildcard})
	n := &Node{Kind: KindImport, Start: start(e.Start), End: end(e.End), Name: name}
	if n.End < n.Start {
		n.End = n.Start
	}
	b.unit.Root.add(n)
	b.mods = 0
}

func (b *Builder) noteFile(tok parser.Token) {
	if b.unit.File == "" {
		b.unit.File = tok.Span.Start.File
	}
}

func (b *Builder) beginType(e parser.TypeDef) {
	b.noteFile(e.Start)
	outer := b.CurrentType()
	d := &TypeDecl{
		Kind:    e.Kind,
		Mods:    b.takeMods(),
		Javadoc: e.Javadoc,
		Outer:   outer,
	}
	n := b.push(KindTypeDef, start(e.Start))
	n.typ = d
	d.Node = n
	b.header = d
	b.tparams, b.paramBounds = &d.params, &d.paramBounds

	if e.Kind != parser.TypeDefAnonymous {
		return
	}
	// Anonymous bodies directly in an enum body are enum constants.
	if p := n.Parent; p.Kind == KindTypeBody && outer != nil && outer.Kind == parser.TypeDefEnum {
		d.Extends = [][]parser.Token{{{Kind: parser.TokenIdent, Literal: outer.Simple}}}
	} else if b.newSpec != nil {
		d.Extends = [][]parser.Token{b.newSpec}
	}
	b.nameType(d, "")
}

// nameType assigns the simple and binary names of d and registers it
// where it can be found.
func (b *Builder) nameType(d *TypeDecl, simple string) {
	d.Simple = simple
	d.Node.Name = simple
	u := b.unit
	parent := d.Node.Parent
	switch {
	case d.Outer == nil && simple != "":
		d.Binary = entity.Qualify(u.Package, simple)
		u.Types = append(u.Types, d)
	case parent.Kind == KindTypeBody && simple != "":
		d.Binary = d.Outer.Binary + "$" + simple
		if d.Outer.members == nil {
			d.Outer.members = make(map[string]*TypeDecl)
		}
		if _, dup := d.Outer.members[simple]; !dup {
			d.Outer.members[simple] = d
			d.Outer.memberList = append(d.Outer.memberList, d)
		}
	default:
		top, prefix := d.Outer, ""
		if top != nil {
			prefix = top.Binary
			for top.Outer != nil {
				top = top.Outer
			}
		}
		b.anon[top]++
		d.Binary = prefix + "$" + strconv.Itoa(b.anon[top]) + simple
		if simple != "" {
			parent.types = append(parent.types, d)
		}
	}
	if _, dup := u.byBinary[d.Binary]; !dup {
		u.byBinary[d.Binary] = d
	}
	u.all = append(u.all, d)
}

func (b *Builder) typeSpec(e parser.TypeSpec) {
	switch e.Context {
	case parser.SpecExtends:
		if d := b.header; d != nil {
			d.Extends = append(d.Extends, e.Tokens)
		}
	case parser.SpecImplements:
		if d := b.header; d != nil {
			d.Implements = append(d.Implements, e.Tokens)
		}
	case parser.SpecNew:
		b.newSpec = e.Tokens
	}
}

func (b *Builder) recordComponent(e parser.RecordComponent) {
	d := b.header
	if d == nil {
		return
	}
	d.fieldDecls = append(d.fieldDecls, &FieldDecl{
		Name:      e.Name.Literal,
		NameToken: e.Name,
		Type:      e.Type,
		Mods:      types.Private | types.Final,
		Declaring: d,
		Node:      d.Node,
	})
	m := &MethodDecl{
		Name:      e.Name.Literal,
		Mods:      types.Public,
		Return:    e.Type,
		Declaring: d,
		HasBody:   true,
		Start:     e.Name,
	}
	// The accessor has no text of its own; its node is not in the tree.
	m.Node = &Node{Kind: KindMethod, Start: start(e.Name), End: end(e.Name), Parent: d.Node, unit: b.unit, method: m}
	d.methodDecls = append(d.methodDecls, m)
}

func (b *Builder) enumConstant(e parser.EnumConstant) {
	d := b.CurrentType()
	if d == nil {
		return
	}
	d.fieldDecls = append(d.fieldDecls, &FieldDecl{
		Name:      e.Name.Literal,
		NameToken: e.Name,
		Mods:      types.Public | types.Static | types.Final,
		Declaring: d,
		Node:      b.cur,
		self:      true,
	})
}

func (b *Builder) beginMethod(e parser.MethodDecl) {
	d := b.CurrentType()
	m := &MethodDecl{
		Name:        e.Name.Literal,
		Constructor: e.Constructor,
		Mods:        b.takeMods(),
		Javadoc:     e.Javadoc,
		Return:      e.Return,
		Declaring:   d,
		Start:       e.Start,
	}
	n := b.push(KindMethod, start(e.Start))
	n.Name = m.Name
	n.method = m
	m.Node = n
	b.method = m
	b.tparams, b.paramBounds = &m.params, &m.paramBounds
	if d != nil {
		d.methodDecls = append(d.methodDecls, m)
	}
}

func (b *Builder) varName(e parser.VarName) {
	if len(b.decls) == 0 {
		return
	}
	switch d := b.decls[len(b.decls)-1].(type) {
	case *fieldDecls:
		f := &FieldDecl{
			Name:      e.Name.Literal,
			NameToken: e.Name,
			Type:      d.typ,
			Dims:      e.Dims,
			Mods:      d.mods,
			Javadoc:   d.javadoc,
			Declaring: d.declaring,
			Node:      d.node,
		}
		if d.declaring != nil {
			d.declaring.fieldDecls = append(d.declaring.fieldDecls, f)
		}
		if d.node.Name == "" {
			d.node.Name = f.Name
		}
	case *localDecl:
		l := &Local{
			Name:   e.Name.Literal,
			Offset: start(e.Name),
			Type:   d.typ,
			Dims:   e.Dims,
			Final:  d.final,
			node:   b.cur,
		}
		b.cur.locals = append(b.cur.locals, l)
	}
}
