package nodes

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// Unit is a parsed compilation unit: its node tree, package, imports
// and declared types. A Unit also resolves names at its top level.
type Unit struct {
	File    string
	Package string
	Imports *entity.Imports
	Root    *Node
	// Types are the top level types in source order.
	Types  []*TypeDecl
	Errors []parser.Error

	parent   entity.Resolver
	byBinary map[string]*TypeDecl
	all      []*TypeDecl
}

// Parse reads a compilation unit from r and builds its tree. Names not
// declared in the unit are looked up in parent. The package is the one
// the unit declares, or pkg when it declares none. Syntax errors do not
// fail the parse; see HadError.
func Parse(r io.Reader, parent entity.Resolver, pkg string, opts ...parser.Option) (*Unit, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	b := NewBuilder(parent, pkg)
	p := parser.ParseCompilationUnit(bytes.NewReader(src), b, opts...)
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return b.Finish(len(src)), nil
}

// ParseString is Parse for source held in a string.
func ParseString(src string, parent entity.Resolver, pkg string, opts ...parser.Option) (*Unit, error) {
	return Parse(bytes.NewReader([]byte(src)), parent, pkg, opts...)
}

func newUnit(parent entity.Resolver, pkg string) *Unit {
	u := &Unit{
		Package:  pkg,
		Imports:  &entity.Imports{},
		parent:   parent,
		byBinary: make(map[string]*TypeDecl),
	}
	u.Root = &Node{Kind: KindUnit, unit: u}
	return u
}

// HadError reports whether the source had syntax errors.
func (u *Unit) HadError() bool {
	return len(u.Errors) > 0
}

// Parent is the resolver names not declared in the unit go to.
func (u *Unit) Parent() entity.Resolver {
	return u.parent
}

// Type returns the top level type named simple, or nil.
func (u *Unit) Type(simple string) *TypeDecl {
	for _, t := range u.Types {
		if t.Simple == simple {
			return t
		}
	}
	return nil
}

// AllTypes lists every type declared in the unit, nested, local and
// anonymous ones included, in source order.
func (u *Unit) AllTypes() []*TypeDecl {
	return u.all
}

// Lookup returns the type declared in the unit with the given binary
// name, or nil.
func (u *Unit) Lookup(binary string) *TypeDecl {
	return u.byBinary[binary]
}

// Resolve resolves the supertypes and members of every declared type.
// Declarations resolve themselves lazily, but not safely from several
// goroutines at once: a unit shared between goroutines must be resolved
// first.
func (u *Unit) Resolve() {
	for _, t := range u.all {
		t.SuperTypes()
		t.Methods()
	}
}

// ScopeAt returns a resolver for names used at offset.
func (u *Unit) ScopeAt(offset int) entity.Resolver {
	return scope{node: u.Root.NodeAt(offset), limit: offset}
}

// TypeAt returns the innermost type declaration whose body contains
// offset, or nil.
func (u *Unit) TypeAt(offset int) *TypeDecl {
	for n := u.Root.NodeAt(offset); n != nil; n = n.Parent {
		if n.Kind == KindTypeBody {
			return n.typ
		}
	}
	return nil
}

func (u *Unit) ResolveQualifiedClass(name string) *entity.TypeEntity {
	if d := u.byBinary[name]; d != nil && d.Kind != parser.TypeDefAnonymous {
		return &entity.TypeEntity{Type: &types.Class{Ref: d}}
	}
	if u.parent == nil {
		return nil
	}
	return u.parent.ResolveQualifiedClass(name)
}

// ResolvePackageOrClass looks a simple name up at the top level of the
// unit: its own types, single type imports, the current package,
// java.lang, then on demand imports. A name that is none of these is
// taken as a package.
func (u *Unit) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := u.Type(name); t != nil {
		return &entity.TypeEntity{Type: &types.Class{Ref: t}}
	}
	if t := u.Imports.TypeImport(name, u); t != nil {
		return t
	}
	if t := u.ResolveQualifiedClass(entity.Qualify(u.Package, name)); t != nil {
		return t
	}
	if t := u.ResolveQualifiedClass("java.lang." + name); t != nil {
		return t
	}
	if t := u.Imports.TypeImportWildcard(name, u, access); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: u}
}

func (u *Unit) ValueEntity(name string, access types.Reflective) entity.Entity {
	if v := u.staticImport(name, access); v != nil {
		return v
	}
	return u.ResolvePackageOrClass(name, access)
}

// staticImport finds a static field imported by name, explicitly first.
func (u *Unit) staticImport(name string, access types.Reflective) entity.Entity {
	if v := entity.StaticMember(u.Imports.StaticImports(name, u), name, access); v != nil {
		if _, ok := v.(*entity.Value); ok {
			return v
		}
	}
	if v := entity.StaticMember(u.Imports.StaticWildcardImports(u), name, access); v != nil {
		if _, ok := v.(*entity.Value); ok {
			return v
		}
	}
	return nil
}
