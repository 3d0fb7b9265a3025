package types

import "strings"

// MethodCallDesc describes one way a method can be invoked with given
// arguments.
type MethodCallDesc struct {
	Method *Method
	// ArgTypes are the formal parameter types after vararg expansion and
	// type argument substitution, one per actual argument.
	ArgTypes   []Type
	Vararg     bool
	Autoboxing bool
	// RetType is the return type before capture conversion; nil for a
	// constructor.
	RetType Type
}

// IsMethodApplicable checks whether m, invoked on target with the given
// argument types and explicit type arguments, is applicable. Expansion of
// a variable arity parameter is only tried when the plain call does not
// fit. It returns nil if m is not applicable.
func IsMethodApplicable(target *Class, typeArgs []Type, m *Method, args []Type, l Loader) *MethodCallDesc {
	if d := isApplicable(target, typeArgs, m, args, false, l); d != nil {
		return d
	}
	if m.Varargs {
		return isApplicable(target, typeArgs, m, args, true, l)
	}
	return nil
}

func isApplicable(target *Class, typeArgs []Type, m *Method, args []Type, varargs bool, l Loader) *MethodCallDesc {
	raw := target.IsRaw()
	params, ret := m.Params, m.Return

	// Instance members of a raw type are seen erased.
	if raw && !m.IsStatic() {
		erased := make([]Type, len(params))
		for i, p := range params {
			erased[i] = Erasure(p)
		}
		params = erased
		if ret != nil {
			ret = Erasure(ret)
		}
	}

	if varargs {
		n := len(params)
		if n == 0 || n > len(args)+1 {
			return nil
		}
		last, ok := params[n-1].(*Array)
		if !ok {
			return nil
		}
		expanded := make([]Type, 0, len(args))
		expanded = append(expanded, params[:n-1]...)
		for len(expanded) < len(args) {
			expanded = append(expanded, last.Elem)
		}
		params = expanded
	} else if len(params) != len(args) {
		return nil
	}

	var tparams []*TypeParam
	if !raw || m.IsStatic() {
		tparams = m.TypeParams
	}
	if len(typeArgs) > 0 && len(tparams) > 0 && len(typeArgs) != len(tparams) {
		return nil
	}

	tmap := make(map[string]Type)
	if !raw {
		for k, v := range ClassMap(target) {
			tmap[k] = v
		}
	}

	switch {
	case len(tparams) > 0 && len(typeArgs) == 0:
		for _, tp := range tparams {
			tmap[tp.Name] = tp
		}
		c := newConstraints(l)
		for i, p := range params {
			if IsPrimitive(p) {
				continue
			}
			c.argToFormal(args[i], Subst(p, tmap))
		}
		for _, tp := range tparams {
			inferred := c.eq[tp.Name]
			if inferred == nil {
				if lower := c.lower[tp.Name]; len(lower) > 0 {
					inferred = Lub(lower...)
				} else {
					inferred = tp.Bound()
				}
			}
			tmap[tp.Name] = Subst(inferred, tmap)
		}
	case len(tparams) > 0:
		for i, tp := range tparams {
			arg := typeArgs[i]
			for _, b := range tp.Bounds {
				if !IsAssignable(Subst(b, tmap), arg) {
					return nil
				}
			}
			tmap[tp.Name] = arg
		}
	}

	desc := &MethodCallDesc{Method: m, Vararg: varargs, ArgTypes: make([]Type, len(args))}
	for i, a := range args {
		formal := Subst(params[i], tmap)
		desc.ArgTypes[i] = formal
		if IsAssignable(formal, a) {
			continue
		}
		if !IsAssignable(formal, Box(a, l)) && !IsAssignable(formal, Unbox(a)) {
			return nil
		}
		desc.Autoboxing = true
	}
	desc.RetType = Subst(ret, tmap)
	return desc
}

// constraints collects inference constraints on method type parameters:
// lower bounds (T :> A) and equalities (T = A).
type constraints struct {
	lower  map[string][]Type
	eq     map[string]Type
	loader Loader
}

func newConstraints(l Loader) *constraints {
	return &constraints{lower: map[string][]Type{}, eq: map[string]Type{}, loader: l}
}

// argToFormal processes "A is convertible to F".
func (c *constraints) argToFormal(a, f Type) {
	a = Box(a, c.loader)
	if a == nil || IsPrimitive(a) {
		return
	}
	switch f := f.(type) {
	case *TypeParam:
		if !containsType(c.lower[f.Name], a) {
			c.lower[f.Name] = append(c.lower[f.Name], a)
		}
	case *Array:
		if aa, ok := a.(*Array); ok && !IsPrimitive(f.Elem) {
			c.argToFormal(aa.Elem, f.Elem)
		}
	case *Class:
		if len(f.Args) == 0 {
			return
		}
		for _, s := range ReferenceSupertypes(a) {
			mapped := MapToSuper(s, f.Ref.Name())
			if mapped == nil {
				continue
			}
			if s.Ref.Name() != f.Ref.Name() {
				mapped = Capture(mapped).(*Class)
			}
			eachArgPair(mapped, f, c.argToFormalArg)
		}
	}
}

func (c *constraints) argToFormalArg(a, f Type) {
	fw, ok := f.(*Wildcard)
	if !ok {
		if _, aw := a.(*Wildcard); !aw {
			c.argEqualsFormal(a, f)
		}
		return
	}
	if fw.Lower != nil {
		if al := lowerOf(a); al != nil {
			c.formalToArg(al, fw.Lower)
		}
		return
	}
	if au := upperOf(a); len(fw.Upper) > 0 && len(au) > 0 {
		c.argToFormal(intersect(au), fw.Upper[0])
	}
}

// argEqualsFormal processes "A is equal to F".
func (c *constraints) argEqualsFormal(a, f Type) {
	switch f := f.(type) {
	case *TypeParam:
		c.eq[f.Name] = a
	case *Array:
		if IsPrimitive(f.Elem) {
			return
		}
		for _, t := range arrayCandidates(a) {
			c.argEqualsFormal(t.Elem, f.Elem)
		}
	case *Class:
		if ac, ok := a.(*Class); ok && ac.Ref.Name() == f.Ref.Name() {
			eachArgPair(ac, f, c.argEqualsFormalArg)
		}
	}
}

func (c *constraints) argEqualsFormalArg(a, f Type) {
	aw, aWild := a.(*Wildcard)
	fw, fWild := f.(*Wildcard)
	switch {
	case !aWild && !fWild:
		c.argEqualsFormal(a, f)
	case aWild && fWild:
		if fw.Lower != nil {
			if aw.Lower != nil {
				c.argEqualsFormal(aw.Lower, fw.Lower)
			}
		} else if len(fw.Upper) > 0 && len(aw.Upper) > 0 {
			c.argEqualsFormal(intersect(aw.Upper), fw.Upper[0])
		}
	}
}

// formalToArg processes "F is convertible to A".
func (c *constraints) formalToArg(a, f Type) {
	switch f := f.(type) {
	case *Array:
		if IsPrimitive(f.Elem) {
			return
		}
		for _, t := range arrayCandidates(a) {
			c.formalToArg(t.Elem, f.Elem)
		}
	case *Class:
		if _, ok := a.(*TypeParam); ok {
			return
		}
		for _, s := range ReferenceSupertypes(a) {
			mapped := MapToSuper(f, s.Ref.Name())
			if mapped == nil {
				continue
			}
			eachArgPair(s, mapped, c.formalToArgArg)
		}
	}
}

func (c *constraints) formalToArgArg(a, f Type) {
	fw, fWild := f.(*Wildcard)
	aw, aWild := a.(*Wildcard)
	if !fWild {
		switch {
		case !aWild:
			c.argEqualsFormal(a, f)
		case aw.Lower != nil:
			c.argToFormal(aw.Lower, f)
		case len(aw.Upper) > 0:
			c.formalToArg(aw.Upper[0], f)
		}
		return
	}
	if !aWild {
		return
	}
	if fw.Lower != nil {
		if aw.Lower != nil {
			c.argToFormal(aw.Lower, fw.Lower)
		}
	} else if len(fw.Upper) > 0 && len(aw.Upper) > 0 {
		c.formalToArg(aw.Upper[0], fw.Upper[0])
	}
}

// eachArgPair calls fn with corresponding type arguments of a and f,
// outer types first. Both must be the same generic class; raw types
// contribute nothing.
func eachArgPair(a, f *Class, fn func(a, f Type)) {
	if a.Outer != nil && f.Outer != nil {
		eachArgPair(a.Outer, f.Outer, fn)
	}
	if len(a.Args) != len(f.Args) {
		return
	}
	for i := range f.Args {
		fn(a.Args[i], f.Args[i])
	}
}

func arrayCandidates(t Type) []*Array {
	var out []*Array
	switch t := t.(type) {
	case *Array:
		out = append(out, t)
	case *TypeParam:
		for _, b := range t.Bounds {
			if a, ok := b.(*Array); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

func lowerOf(t Type) Type {
	switch t := t.(type) {
	case *Wildcard:
		return t.Lower
	case *Captured:
		return t.Lower
	}
	return nil
}

func upperOf(t Type) []Type {
	switch t := t.(type) {
	case *Wildcard:
		return t.Upper
	case *Captured:
		return t.Upper
	}
	return []Type{t}
}

// CompareSpecificity returns 1 if a is more specific than b, -1 if b is
// more specific than a and 0 if neither is. Fixed arity beats variable
// arity and a call without boxing beats one that needs it. Then parameter
// types are compared, and finally a concrete method beats an abstract one.
func CompareSpecificity(a, b *MethodCallDesc) int {
	if b.Vararg != a.Vararg {
		if b.Vararg {
			return 1
		}
		return -1
	}
	if b.Autoboxing != a.Autoboxing {
		if b.Autoboxing {
			return 1
		}
		return -1
	}
	up, down := 0, 0
	for i := range a.ArgTypes {
		if i >= len(b.ArgTypes) {
			break
		}
		mine, other := a.ArgTypes[i], b.ArgTypes[i]
		if IsAssignable(mine, other) {
			if !IsAssignable(other, mine) {
				up++
			}
		} else if IsAssignable(other, mine) {
			down++
		}
	}
	switch {
	case up > 0 && down == 0:
		return -1
	case down > 0 && up == 0:
		return 1
	}
	aAbs, bAbs := a.Method.IsAbstract(), b.Method.IsAbstract()
	switch {
	case aAbs && !bAbs:
		return -1
	case !aAbs && bAbs:
		return 1
	}
	return 0
}

// SuitableMethods finds the maximally specific applicable methods named
// name declared in targets. A method overridden in an earlier target
// hides the declaration in a later one, so targets should list
// subclasses before superclasses.
func SuitableMethods(name string, targets []*Class, args []Type, typeArgs []Type, l Loader) []*MethodCallDesc {
	var suitable []*MethodCallDesc
	seen := make(map[string]bool)
	for _, target := range targets {
		methods := target.Ref.Methods()[name]
		var declared []string
		for _, m := range methods {
			key := erasedSignature(m)
			declared = append(declared, key)
			if seen[key] {
				continue
			}
			d := IsMethodApplicable(target, typeArgs, m, args, l)
			if d == nil {
				continue
			}
			suitable = addCandidate(suitable, d)
		}
		for _, k := range declared {
			seen[k] = true
		}
	}
	return suitable
}

func addCandidate(list []*MethodCallDesc, d *MethodCallDesc) []*MethodCallDesc {
	out := list[:0]
	for i, other := range list {
		switch CompareSpecificity(d, other) {
		case -1:
			return append(out, list[i:]...)
		case 1:
			continue
		}
		out = append(out, other)
	}
	return append(out, d)
}

func erasedSignature(m *Method) string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = Erasure(p).String()
	}
	return strings.Join(parts, ",")
}
