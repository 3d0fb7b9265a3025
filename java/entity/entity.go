// Package entity resolves Java names to packages, types and values.
//
// An Entity is what a name, or a dotted chain of names, turned out to
// denote. Names are looked up through a Resolver; the resolvers for
// source scopes, compiled classes and the project all implement it, and
// chain to one another. Lookups that fail return nil. That means "not
// known from here", never that the program is wrong.
package entity

import (
	"strings"

	"github.com/dhamidi/livejava/java/types"
)

// Entity is one of *Package, *TypeEntity, *Value or *Unresolved.
type Entity interface {
	isEntity()
}

// Package is a name taken to denote a package. It need not exist.
type Package struct {
	Name     string
	Resolver Resolver
}

// TypeEntity is a name that denotes a type, usually a *types.Class but
// also a type variable in scope.
type TypeEntity struct {
	Type types.Type
}

// Class returns the class type of t, or nil.
func (t *TypeEntity) Class() *types.Class {
	c, _ := t.Type.(*types.Class)
	return c
}

// Value is an expression of a static type. Type is nil when the type is
// unknown, as for a local declared with "var".
type Value struct {
	Type types.Type
}

// Unresolved is a reference collected before the names around it were
// all known: either a type written as Spec or a dotted value name.
type Unresolved struct {
	Spec     *TypeSpec
	Names    []string
	Resolver Resolver
	Access   types.Reflective
}

func (*Package) isEntity()    {}
func (*TypeEntity) isEntity() {}
func (*Value) isEntity()      {}
func (*Unresolved) isEntity() {}

// Resolve looks up an Unresolved entity with its resolver. Other
// entities are returned as they are. The result is nil when the lookup
// fails.
func Resolve(e Entity) Entity {
	u, ok := e.(*Unresolved)
	if !ok {
		return e
	}
	if u.Spec != nil {
		if u.Spec.IsVar() {
			return &Value{}
		}
		t := u.Spec.Resolve(u.Resolver, u.Access)
		if t == nil {
			return nil
		}
		return &TypeEntity{Type: t}
	}
	if len(u.Names) == 0 || u.Resolver == nil {
		return nil
	}
	cur := u.Resolver.ValueEntity(u.Names[0], u.Access)
	for _, name := range u.Names[1:] {
		if cur == nil {
			return nil
		}
		cur = Subentity(cur, name, u.Access)
	}
	return cur
}

// ResolveAsType returns the type e denotes, or nil. A package name is
// accepted when a class of that name exists.
func ResolveAsType(e Entity) *TypeEntity {
	switch e := Resolve(e).(type) {
	case *TypeEntity:
		return e
	case *Package:
		if e.Resolver != nil {
			return e.Resolver.ResolveQualifiedClass(e.Name)
		}
	}
	return nil
}

// ResolveAsValue returns the value e denotes, or nil.
func ResolveAsValue(e Entity) *Value {
	v, _ := Resolve(e).(*Value)
	return v
}

// ResolveAsPackageOrClass returns e as a *Package or *TypeEntity, or nil.
func ResolveAsPackageOrClass(e Entity) Entity {
	switch e := Resolve(e).(type) {
	case *Package, *TypeEntity:
		return e
	}
	return nil
}

// Subentity resolves name as a member of e: a class or subpackage of a
// package, a field or member type of a type, or a field of a value.
// Fields win over member types, as in an ambiguous Java name.
func Subentity(e Entity, name string, access types.Reflective) Entity {
	switch e := Resolve(e).(type) {
	case *Package:
		return packageMember(e, name)
	case *TypeEntity:
		c := e.Class()
		if c == nil {
			return nil
		}
		if v := fieldValue(c, name, access, true); v != nil {
			return v
		}
		if mt := MemberType(c, name); mt != nil {
			return &TypeEntity{Type: mt}
		}
	case *Value:
		if e.Type == nil {
			return nil
		}
		if _, ok := e.Type.(*types.Array); ok {
			if name == "length" {
				return &Value{Type: types.Int}
			}
			return nil
		}
		for _, c := range types.ReferenceSupertypes(e.Type) {
			if v := fieldValue(c, name, access, false); v != nil {
				return v
			}
		}
	}
	return nil
}

// TypeSubentity is Subentity for names known to denote types: fields
// are not considered.
func TypeSubentity(e Entity, name string) Entity {
	switch e := Resolve(e).(type) {
	case *Package:
		return packageMember(e, name)
	case *TypeEntity:
		if c := e.Class(); c != nil {
			if mt := MemberType(c, name); mt != nil {
				return &TypeEntity{Type: mt}
			}
		}
	}
	return nil
}

func packageMember(p *Package, name string) Entity {
	full := name
	if p.Name != "" {
		full = p.Name + "." + name
	}
	if p.Resolver != nil {
		if t := p.Resolver.ResolveQualifiedClass(full); t != nil {
			return t
		}
	}
	return &Package{Name: full, Resolver: p.Resolver}
}

// MemberType finds a member type of c or of one of its supertypes. An
// inner class of a parameterized type keeps that type as its outer.
func MemberType(c *types.Class, name string) *types.Class {
	for _, s := range types.AllSuperTypes(c) {
		mt := s.Ref.MemberType(name)
		if mt == nil {
			continue
		}
		out := &types.Class{Ref: mt}
		if !mt.Modifiers().Has(types.Static) && !mt.IsInterface() && (len(s.Args) > 0 || s.Outer != nil) {
			out.Outer = s
		}
		return out
	}
	return nil
}

// fieldValue finds field name in c or its supertypes, with the type
// arguments of c substituted.
func fieldValue(c *types.Class, name string, access types.Reflective, static bool) *Value {
	for _, s := range types.AllSuperTypes(c) {
		f := s.Ref.Fields()[name]
		if f == nil {
			continue
		}
		if static && !f.Modifiers.Has(types.Static) && !s.Ref.IsInterface() {
			continue
		}
		if !Accessible(s.Ref, f.Modifiers, access) {
			continue
		}
		if c.IsRaw() {
			return &Value{Type: types.Erasure(f.Type)}
		}
		return &Value{Type: types.Subst(f.Type, types.ClassMap(s))}
	}
	return nil
}

// Accessible reports whether a member of declaring with modifiers mods
// may be used from access. A nil access can use anything; code in the
// same top level class can use private members.
func Accessible(declaring types.Reflective, mods types.Modifiers, access types.Reflective) bool {
	if access == nil {
		return true
	}
	if topLevel(declaring.Name()) == topLevel(access.Name()) {
		return true
	}
	return types.IsAccessible(declaring, mods, types.PackageOf(access.Name()))
}

func topLevel(binary string) string {
	if i := strings.IndexByte(binary, '$'); i >= 0 {
		return binary[:i]
	}
	return binary
}
