package nodes

import (
	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/types"
)

// scope resolves names as seen from a point inside node: locals declared
// at or after limit are not yet visible.
type scope struct {
	node  *Node
	limit int
}

func (s scope) ResolveQualifiedClass(name string) *entity.TypeEntity {
	return s.node.unit.ResolveQualifiedClass(name)
}

func (s scope) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	for n := s.node; n != nil; n = n.Parent {
		if n.Kind == KindUnit {
			return n.unit.ResolvePackageOrClass(name, access)
		}
		if t := n.lookupType(name, s.limit); t != nil {
			return t
		}
	}
	return nil
}

// ValueEntity prefers variables in any enclosing scope over types, as a
// local or field hides a class of the same name.
func (s scope) ValueEntity(name string, access types.Reflective) entity.Entity {
	for n := s.node; n != nil; n = n.Parent {
		if n.Kind == KindUnit {
			if v := n.unit.staticImport(name, access); v != nil {
				return v
			}
			break
		}
		if v := n.lookupValue(name, s.limit, access); v != nil {
			return v
		}
	}
	return s.ResolvePackageOrClass(name, access)
}

func (n *Node) lookupType(name string, limit int) entity.Entity {
	switch {
	case n.Kind == KindTypeDef && n.typ != nil:
		for _, p := range n.typ.params {
			if p.Name == name {
				return &entity.TypeEntity{Type: p}
			}
		}
	case n.Kind == KindMethod && n.method != nil:
		for _, p := range n.method.params {
			if p.Name == name {
				return &entity.TypeEntity{Type: p}
			}
		}
	case n.Kind == KindTypeBody && n.typ != nil:
		d := n.typ
		if m := d.members[name]; m != nil {
			c := &types.Class{Ref: m}
			if !m.Modifiers().Has(types.Static) && len(d.params) > 0 {
				c.Outer = d.ThisType()
			}
			return &entity.TypeEntity{Type: c}
		}
		for _, s := range d.SuperTypes() {
			if c := entity.MemberType(s, name); c != nil {
				return &entity.TypeEntity{Type: c}
			}
		}
	}
	for i := len(n.types) - 1; i >= 0; i-- {
		if t := n.types[i]; t.Simple == name && t.Node.Start < limit {
			return &entity.TypeEntity{Type: &types.Class{Ref: t}}
		}
	}
	return nil
}

func (n *Node) lookupValue(name string, limit int, access types.Reflective) entity.Entity {
	for i := len(n.locals) - 1; i >= 0; i-- {
		if l := n.locals[i]; l.Name == name && l.Offset < limit {
			return &entity.Value{Type: l.ResolvedType(access)}
		}
	}
	switch {
	case n.Kind == KindMethod && n.method != nil:
		m := n.method
		for _, p := range m.Params {
			if p.Name.Literal == name {
				r := scope{node: n, limit: n.Start}
				return &entity.Value{Type: resolveOrName(p.Type, p.Dims, p.Varargs, r, Access(m.Declaring))}
			}
		}
	case n.Kind == KindTypeBody && n.typ != nil:
		self := n.typ.ThisType()
		for _, s := range types.AllSuperTypes(self) {
			f := s.Ref.Fields()[name]
			if f == nil {
				continue
			}
			if s.Ref != Access(n.typ) && !entity.Accessible(s.Ref, f.Modifiers, access) {
				continue
			}
			return &entity.Value{Type: types.Subst(f.Type, types.ClassMap(s))}
		}
	}
	return nil
}
