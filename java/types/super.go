package types

import "slices"

// SuperTypes returns the direct supertypes of c with c's type arguments
// substituted. The supertypes of a raw type are erased.
func SuperTypes(c *Class) []*Class {
	supers := c.Ref.SuperTypes()
	out := make([]*Class, 0, len(supers))
	if c.IsRaw() {
		for _, s := range supers {
			out = append(out, &Class{Ref: s.Ref})
		}
		return out
	}
	m := ClassMap(c)
	for _, s := range supers {
		out = append(out, substClass(s, m))
	}
	return out
}

// MapToSuper finds the supertype of c declared as name, with c's type
// arguments carried through the inheritance chain. It returns nil when
// name is not a supertype of c.
func MapToSuper(c *Class, name string) *Class {
	return mapToSuper(c, name, map[string]bool{})
}

func mapToSuper(c *Class, name string, seen map[string]bool) *Class {
	if c.Ref.Name() == name {
		return c
	}
	if seen[c.Ref.Name()] {
		return nil
	}
	seen[c.Ref.Name()] = true
	for _, s := range SuperTypes(c) {
		if r := mapToSuper(s, name, seen); r != nil {
			return r
		}
	}
	return nil
}

// AllSuperTypes lists c followed by every class and interface it
// inherits from, breadth first, each once.
func AllSuperTypes(c *Class) []*Class {
	seen := map[string]bool{c.Ref.Name(): true}
	out := []*Class{c}
	for i := 0; i < len(out); i++ {
		for _, s := range SuperTypes(out[i]) {
			if !seen[s.Ref.Name()] {
				seen[s.Ref.Name()] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// ReferenceSupertypes returns the class types t is known to be a subtype
// of: t itself for a class, the bounds for variables and captures, and
// java.lang.Object when nothing more is known.
func ReferenceSupertypes(t Type) []*Class {
	var out []*Class
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case *Class:
			out = append(out, t)
		case *TypeParam:
			for _, b := range t.Bounds {
				add(b)
			}
		case *Wildcard:
			for _, b := range t.Upper {
				add(b)
			}
		case *Captured:
			for _, b := range t.Upper {
				add(b)
			}
		case *Intersection:
			for _, b := range t.Types {
				add(b)
			}
		}
	}
	add(t)
	if len(out) == 0 && IsReference(t) {
		out = append(out, Named(ObjectName))
	}
	return out
}

// upperBounds treats a solid type as its own bound.
func upperBounds(t Type) []Type {
	switch t := t.(type) {
	case *Wildcard:
		if len(t.Upper) == 0 && t.Lower == nil {
			return []Type{Named(ObjectName)}
		}
		return t.Upper
	case *Captured:
		return t.Upper
	}
	return []Type{t}
}

func lowerBound(t Type) Type {
	switch t := t.(type) {
	case *Wildcard:
		return t.Lower
	case *Captured:
		return t.Lower
	}
	return t
}

func intersect(ts []Type) Type {
	if len(ts) == 1 {
		return ts[0]
	}
	return &Intersection{Types: slices.Clone(ts)}
}

// Lub computes the least upper bound of reference types (JLS 4.10.4),
// simplified: where the candidates disagree on a type argument it
// becomes an unbounded wildcard rather than a recursive lub.
func Lub(ts ...Type) Type {
	var refs []Type
	for _, t := range ts {
		if t != nil && !isNull(t) {
			refs = append(refs, t)
		}
	}
	switch len(refs) {
	case 0:
		return Null
	case 1:
		return refs[0]
	}
	if elems, ok := arrayElems(refs); ok {
		return &Array{Elem: Lub(elems...)}
	}

	supersOf := make([][]*Class, len(refs))
	for i, t := range refs {
		for _, c := range ReferenceSupertypes(t) {
			supersOf[i] = append(supersOf[i], AllSuperTypes(c)...)
		}
	}

	// Erased candidates shared by every type, in the order the first
	// type inherits them.
	var cands []string
	seen := map[string]bool{}
	for _, c := range supersOf[0] {
		name := c.Ref.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		if all(supersOf[1:], func(list []*Class) bool { return findClass(list, name) != nil }) {
			cands = append(cands, name)
		}
	}

	// Keep the minimal ones.
	var minimal []*Class
	for _, name := range cands {
		rep := findClass(supersOf[0], name)
		redundant := false
		for _, other := range cands {
			if other != name && MapToSuper(findClass(supersOf[0], other), name) != nil {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, lubParameterize(rep, name, supersOf))
		}
	}
	if len(minimal) == 0 {
		return Named(ObjectName)
	}
	slices.SortStableFunc(minimal, func(a, b *Class) int {
		ai, bi := a.Ref.IsInterface(), b.Ref.IsInterface()
		switch {
		case ai == bi:
			return 0
		case bi:
			return -1
		}
		return 1
	})
	if len(minimal) == 1 {
		return minimal[0]
	}
	types := make([]Type, len(minimal))
	for i, c := range minimal {
		types[i] = c
	}
	return &Intersection{Types: types}
}

func lubParameterize(rep *Class, name string, supersOf [][]*Class) *Class {
	if len(rep.Args) == 0 {
		return &Class{Ref: rep.Ref}
	}
	args := slices.Clone(rep.Args)
	for _, list := range supersOf[1:] {
		other := findClass(list, name)
		if len(other.Args) != len(args) {
			return &Class{Ref: rep.Ref}
		}
		for i := range args {
			if !Equal(args[i], other.Args[i]) {
				args[i] = &Wildcard{}
			}
		}
	}
	return &Class{Ref: rep.Ref, Args: args}
}

func findClass(list []*Class, name string) *Class {
	for _, c := range list {
		if c.Ref.Name() == name {
			return c
		}
	}
	return nil
}

func all[T any](list []T, f func(T) bool) bool {
	for _, x := range list {
		if !f(x) {
			return false
		}
	}
	return true
}

func arrayElems(ts []Type) ([]Type, bool) {
	elems := make([]Type, len(ts))
	for i, t := range ts {
		a, ok := t.(*Array)
		if !ok || IsPrimitive(a.Elem) {
			return nil, false
		}
		elems[i] = a.Elem
	}
	return elems, true
}
