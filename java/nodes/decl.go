package nodes

import (
	"strings"
	"sync"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// lazy guards one resolution stage of a declaration. A stage that is
// asked for again while it runs, as happens with cyclic declarations,
// sees the partial result instead of waiting for itself.
type lazy struct {
	mu    sync.Mutex
	state int // 0 pending, 1 running, 2 done
}

// do runs fn once. It reports false to a caller re-entering the stage
// from within fn.
func (l *lazy) do(fn func()) bool {
	l.mu.Lock()
	switch l.state {
	case 2:
		l.mu.Unlock()
		return true
	case 1:
		l.mu.Unlock()
		return false
	}
	l.state = 1
	l.mu.Unlock()
	fn()
	l.mu.Lock()
	l.state = 2
	l.mu.Unlock()
	return true
}

// TypeDecl is a class, interface, enum, record or annotation type
// declared in source. It implements types.Reflective; member types are
// resolved on first use, in the scope of the declaration.
type TypeDecl struct {
	Kind    parser.TypeDefKind
	Simple  string
	Binary  string
	Mods    types.Modifiers
	Javadoc string
	Outer   *TypeDecl
	Node    *Node // the TypeDef node
	Body    *Node // the TypeBody node, nil if the body is missing

	// Extends and Implements are the type specs of the header as
	// written. Anonymous classes and enum constant bodies get their
	// single supertype in Extends.
	Extends    [][]parser.Token
	Implements [][]parser.Token

	params      []*types.TypeParam
	paramBounds [][][]parser.Token
	members     map[string]*TypeDecl
	memberList  []*TypeDecl
	methodDecls []*MethodDecl
	fieldDecls  []*FieldDecl

	supersOnce lazy
	supers     []*types.Class

	membersOnce lazy
	methods     map[string][]*types.Method
	fields      map[string]*types.Field
}

// Access returns d as the access context of names used in it, or nil
// outside any type.
func Access(d *TypeDecl) types.Reflective {
	if d == nil {
		return nil
	}
	return d
}

func (d *TypeDecl) Name() string                   { return d.Binary }
func (d *TypeDecl) TypeParams() []*types.TypeParam { return d.params }

func (d *TypeDecl) IsInterface() bool {
	return d.Kind == parser.TypeDefInterface || d.Kind == parser.TypeDefAnnotation
}

func (d *TypeDecl) Modifiers() types.Modifiers {
	m := d.Mods
	if d.IsInterface() {
		m |= types.Interface | types.Abstract
	}
	if d.Outer != nil && (d.Kind != parser.TypeDefClass && d.Kind != parser.TypeDefAnonymous || d.Outer.IsInterface()) {
		m |= types.Static
	}
	if d.Outer != nil && d.Outer.IsInterface() {
		m |= types.Public
	}
	if d.Kind == parser.TypeDefEnum || d.Kind == parser.TypeDefRecord {
		m |= types.Final
	}
	return m
}

func (d *TypeDecl) MemberType(name string) types.Reflective {
	if m := d.members[name]; m != nil {
		return m
	}
	return nil
}

// MemberTypes lists the member types in declaration order.
func (d *TypeDecl) MemberTypes() []*TypeDecl {
	return d.memberList
}

// MethodDecls lists the declared methods and constructors in source order.
func (d *TypeDecl) MethodDecls() []*MethodDecl {
	return d.methodDecls
}

// FieldDecls lists the declared fields in source order.
func (d *TypeDecl) FieldDecls() []*FieldDecl {
	return d.fieldDecls
}

// ThisType is the type of "this" inside the declaration: the class
// parameterized by its own type parameters.
func (d *TypeDecl) ThisType() *types.Class {
	c := &types.Class{Ref: d}
	for _, p := range d.params {
		c.Args = append(c.Args, p)
	}
	return c
}

func (d *TypeDecl) SuperTypes() []*types.Class {
	d.supersOnce.do(d.resolveSupers)
	return d.supers
}

func (d *TypeDecl) Methods() map[string][]*types.Method {
	d.membersOnce.do(d.resolveMembers)
	return d.methods
}

func (d *TypeDecl) Fields() map[string]*types.Field {
	d.membersOnce.do(d.resolveMembers)
	return d.fields
}

// headerScope resolves names in the type header: the type's own
// parameters, then whatever surrounds the declaration.
func (d *TypeDecl) headerScope() entity.Resolver {
	return scope{node: d.Node, limit: d.Node.Start}
}

func (d *TypeDecl) resolveSupers() {
	r := d.headerScope()
	access := types.Reflective(d)
	loader := entity.Loader(r)

	for i, bounds := range d.paramBounds {
		for _, b := range bounds {
			if t := resolveTokens(b, r, access); t != nil {
				d.params[i].Bounds = append(d.params[i].Bounds, t)
			}
		}
	}

	resolveClass := func(toks []parser.Token) *types.Class {
		c, _ := resolveTokens(toks, r, access).(*types.Class)
		return c
	}

	var supers []*types.Class
	switch d.Kind {
	case parser.TypeDefEnum:
		supers = append(supers, &types.Class{Ref: types.Load(loader, "java.lang.Enum").Ref, Args: []types.Type{d.ThisType()}})
	case parser.TypeDefRecord:
		supers = append(supers, types.Load(loader, "java.lang.Record"))
	case parser.TypeDefAnnotation:
		supers = append(supers, types.Object(loader), types.Load(loader, "java.lang.annotation.Annotation"))
	case parser.TypeDefInterface:
		for _, e := range d.Extends {
			if c := resolveClass(e); c != nil && c.Ref != types.Reflective(d) {
				supers = append(supers, c)
			}
		}
		if len(supers) == 0 {
			supers = append(supers, types.Object(loader))
		}
	default:
		var ext *types.Class
		if len(d.Extends) > 0 {
			ext = resolveClass(d.Extends[0])
			if ext != nil && ext.Ref == types.Reflective(d) {
				ext = nil
			}
		}
		switch {
		case ext != nil && d.Kind == parser.TypeDefAnonymous && ext.Ref.IsInterface():
			supers = append(supers, types.Object(loader), ext)
		case ext != nil:
			supers = append(supers, ext)
		case d.Binary != types.ObjectName:
			supers = append(supers, types.Object(loader))
		}
	}
	for _, im := range d.Implements {
		if c := resolveClass(im); c != nil {
			supers = append(supers, c)
		}
	}
	d.supers = supers
}

func (d *TypeDecl) resolveMembers() {
	methods := make(map[string][]*types.Method)
	fields := make(map[string]*types.Field)
	for _, f := range d.fieldDecls {
		fields[f.Name] = f.resolve()
	}
	for _, m := range d.methodDecls {
		rm := m.resolve()
		methods[rm.Name] = append(methods[rm.Name], rm)
	}
	switch d.Kind {
	case parser.TypeDefEnum:
		self := d.ThisType()
		methods["values"] = append(methods["values"], &types.Method{
			Name: "values", Declaring: d, Return: types.ArrayOf(self, 1),
			Modifiers: types.Public | types.Static,
		})
		methods["valueOf"] = append(methods["valueOf"], &types.Method{
			Name: "valueOf", Declaring: d, Return: self,
			Params:     []types.Type{types.Load(entity.Loader(d.headerScope()), "java.lang.String")},
			ParamNames: []string{"name"},
			Modifiers:  types.Public | types.Static,
		})
	}
	d.methods = methods
	d.fields = fields
}

// resolveTokens resolves a type written as tokens, or returns nil.
func resolveTokens(toks []parser.Token, r entity.Resolver, access types.Reflective) types.Type {
	spec, ok := entity.ParseTypeSpec(toks)
	if !ok {
		return nil
	}
	return spec.Resolve(r, access)
}

// resolveOrName resolves a declared type. A type that cannot be
// resolved is kept as a class known only by its name, so that signatures
// keep their shape.
func resolveOrName(toks []parser.Token, dims int, varargs bool, r entity.Resolver, access types.Reflective) types.Type {
	t := resolveTokens(toks, r, access)
	if t == nil {
		name := parser.JoinTokens(toks)
		if spec, ok := entity.ParseTypeSpec(toks); ok {
			name = strings.Join(spec.Names(), ".")
			dims += spec.Dims
			if spec.Varargs {
				dims++
			}
		}
		t = types.Named(name)
	}
	if varargs {
		dims++
	}
	return types.ArrayOf(t, dims)
}

// MethodDecl is a method or constructor declared in source.
type MethodDecl struct {
	Name        string
	Constructor bool
	Mods        types.Modifiers
	Javadoc     string
	Return      []parser.Token
	Params      []Param
	Declaring   *TypeDecl
	Node        *Node
	HasBody     bool
	Start       parser.Token

	params      []*types.TypeParam
	paramBounds [][][]parser.Token
}

// Param is a formal parameter as written.
type Param struct {
	Name    parser.Token
	Type    []parser.Token
	Dims    int
	Varargs bool
}

// TypeParams are the method's own type parameters.
func (m *MethodDecl) TypeParams() []*types.TypeParam {
	return m.params
}

// Varargs reports whether the last parameter is variable arity.
func (m *MethodDecl) Varargs() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Varargs
}

// Modifiers includes the modifiers implied by the declaring type.
func (m *MethodDecl) Modifiers() types.Modifiers {
	mods := m.Mods
	if m.Declaring != nil && m.Declaring.IsInterface() {
		if !mods.Has(types.Private) {
			mods |= types.Public
		}
		if !m.HasBody && !mods.Has(types.Static) {
			mods |= types.Abstract
		}
	}
	if m.Varargs() {
		mods |= types.Varargs
	}
	return mods
}

func (m *MethodDecl) resolve() *types.Method {
	r := scope{node: m.Node, limit: m.Node.Start}
	access := Access(m.Declaring)
	for i, bounds := range m.paramBounds {
		if len(m.params[i].Bounds) > 0 {
			continue
		}
		for _, b := range bounds {
			if t := resolveTokens(b, r, access); t != nil {
				m.params[i].Bounds = append(m.params[i].Bounds, t)
			}
		}
	}
	out := &types.Method{
		Name:       m.Name,
		Declaring:  m.Declaring,
		TypeParams: m.params,
		Varargs:    m.Varargs(),
		Modifiers:  m.Modifiers(),
		Javadoc:    m.Javadoc,
	}
	if m.Constructor {
		out.Name = types.ConstructorName
	} else {
		out.Return = resolveOrName(m.Return, 0, false, r, access)
	}
	for _, p := range m.Params {
		out.Params = append(out.Params, resolveOrName(p.Type, p.Dims, p.Varargs, r, access))
		out.ParamNames = append(out.ParamNames, p.Name.Literal)
	}
	return out
}

// FieldDecl is one declarator of a field declaration, or an enum
// constant, or a record component.
type FieldDecl struct {
	Name      string
	NameToken parser.Token
	Type      []parser.Token
	Dims      int
	Mods      types.Modifiers
	Javadoc   string
	Declaring *TypeDecl
	Node      *Node

	// self marks enum constants, whose type is the enum itself.
	self bool
}

func (f *FieldDecl) Modifiers() types.Modifiers {
	mods := f.Mods
	if f.Declaring != nil && f.Declaring.IsInterface() {
		mods |= types.Public | types.Static | types.Final
	}
	return mods
}

func (f *FieldDecl) resolve() *types.Field {
	out := &types.Field{
		Name:      f.Name,
		Declaring: f.Declaring,
		Modifiers: f.Modifiers(),
		Javadoc:   f.Javadoc,
	}
	if f.self {
		out.Type = f.Declaring.ThisType()
		return out
	}
	r := scope{node: f.Declaring.Body, limit: f.Node.Start}
	if f.Declaring.Body == nil {
		r = scope{node: f.Declaring.Node, limit: f.Node.Start}
	}
	out.Type = resolveOrName(f.Type, f.Dims, false, r, Access(f.Declaring))
	return out
}

// Local is a local variable, a lambda parameter, or a catch, for or
// pattern variable. It is in scope from its name onwards.
type Local struct {
	Name   string
	Offset int
	Type   []parser.Token // nil when inferred
	Dims   int
	Final  bool

	node *Node
	once sync.Once
	typ  types.Type
}

// ResolvedType is the declared type of the local, or nil when it is
// inferred or cannot be resolved.
func (l *Local) ResolvedType(access types.Reflective) types.Type {
	l.once.Do(func() {
		if l.Type == nil {
			return
		}
		spec, ok := entity.ParseTypeSpec(l.Type)
		if !ok || spec.IsVar() {
			return
		}
		if t := spec.Resolve(scope{node: l.node, limit: l.Offset}, access); t != nil {
			l.typ = types.ArrayOf(t, l.Dims)
		}
	})
	return l.typ
}
