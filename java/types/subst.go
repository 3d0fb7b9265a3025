package types

import "slices"

// Subst replaces type variables in t by the types m maps their names to.
// Variables missing from m are left alone.
func Subst(t Type, m map[string]Type) Type {
	if len(m) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeParam:
		if r, ok := m[t.Name]; ok && r != nil {
			return r
		}
		return t
	case *Class:
		return substClass(t, m)
	case *Array:
		return &Array{Elem: Subst(t.Elem, m)}
	case *Wildcard:
		return &Wildcard{Upper: substList(t.Upper, m), Lower: Subst(t.Lower, m)}
	case *Intersection:
		return &Intersection{Types: substList(t.Types, m)}
	}
	return t
}

func substClass(c *Class, m map[string]Type) *Class {
	if len(c.Args) == 0 && c.Outer == nil {
		return c
	}
	out := &Class{Ref: c.Ref, Args: substList(c.Args, m)}
	if c.Outer != nil {
		out.Outer = substClass(c.Outer, m)
	}
	return out
}

func substList(ts []Type, m map[string]Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Subst(t, m)
	}
	return out
}

// ClassMap maps the type parameter names of c's declaration, and of its
// parameterized outer types, to c's type arguments. It is nil for a raw
// type.
func ClassMap(c *Class) map[string]Type {
	if c.IsRaw() {
		return nil
	}
	m := make(map[string]Type)
	if c.Outer != nil {
		for k, v := range ClassMap(c.Outer) {
			m[k] = v
		}
	}
	for i, tp := range c.Ref.TypeParams() {
		if i < len(c.Args) {
			m[tp.Name] = c.Args[i]
		}
	}
	return m
}

// Erasure removes all type arguments from t; type variables erase to
// their first bound.
func Erasure(t Type) Type {
	switch t := t.(type) {
	case *Class:
		if len(t.Args) == 0 && t.Outer == nil {
			return t
		}
		return &Class{Ref: t.Ref}
	case *TypeParam:
		if len(t.Bounds) > 0 {
			return Erasure(t.Bounds[0])
		}
		return Named(ObjectName)
	case *Array:
		return &Array{Elem: Erasure(t.Elem)}
	case *Wildcard:
		if len(t.Upper) > 0 {
			return Erasure(t.Upper[0])
		}
		return Named(ObjectName)
	case *Intersection:
		if len(t.Types) > 0 {
			return Erasure(t.Types[0])
		}
	case *Captured:
		if len(t.Upper) > 0 {
			return Erasure(t.Upper[0])
		}
		return Named(ObjectName)
	}
	return t
}

// Bound returns the single type a type parameter's bounds stand for:
// Object, the only bound, or their intersection.
func (t *TypeParam) Bound() Type {
	switch len(t.Bounds) {
	case 0:
		return Named(ObjectName)
	case 1:
		return t.Bounds[0]
	}
	return &Intersection{Types: slices.Clone(t.Bounds)}
}
