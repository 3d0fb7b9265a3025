package types

var primitiveWidening = map[PrimitiveKind][]PrimitiveKind{
	KindByte:  {KindShort, KindInt, KindLong, KindFloat, KindDouble},
	KindShort: {KindInt, KindLong, KindFloat, KindDouble},
	KindChar:  {KindInt, KindLong, KindFloat, KindDouble},
	KindInt:   {KindLong, KindFloat, KindDouble},
	KindLong:  {KindFloat, KindDouble},
	KindFloat: {KindDouble},
}

// IsAssignable reports whether a value of type src can be assigned to a
// variable of type dst without boxing or unboxing: identity, primitive
// widening, reference widening with type argument containment, and null
// to any reference type. Raw types take part through unchecked
// conversion.
func IsAssignable(dst, src Type) bool {
	if dst == nil || src == nil {
		return false
	}
	if Equal(dst, src) {
		return true
	}
	if p, ok := dst.(*Primitive); ok {
		sp, ok := src.(*Primitive)
		if !ok {
			return false
		}
		for _, k := range primitiveWidening[sp.Kind] {
			if k == p.Kind {
				return true
			}
		}
		return false
	}
	if isNull(src) {
		return true
	}
	if IsPrimitive(src) {
		return false
	}

	switch d := dst.(type) {
	case *Class:
		return classAssignable(d, src)
	case *Array:
		switch s := src.(type) {
		case *Array:
			if IsPrimitive(d.Elem) || IsPrimitive(s.Elem) {
				return Equal(d.Elem, s.Elem)
			}
			return IsAssignable(d.Elem, s.Elem)
		case *TypeParam, *Captured, *Intersection:
			return anyBound(d, src)
		}
		return false
	case *TypeParam:
		switch src.(type) {
		case *TypeParam, *Captured, *Intersection:
			return anyBound(d, src)
		}
		return false
	case *Intersection:
		for _, t := range d.Types {
			if !IsAssignable(t, src) {
				return false
			}
		}
		return true
	case *Captured:
		if d.Lower != nil {
			return IsAssignable(d.Lower, src)
		}
		switch src.(type) {
		case *TypeParam, *Intersection:
			return anyBound(d, src)
		}
		return false
	case *Wildcard:
		return Contains(d, src)
	}
	return false
}

func classAssignable(d *Class, src Type) bool {
	if d.Ref.Name() == ObjectName {
		return true
	}
	switch s := src.(type) {
	case *Class:
		m := MapToSuper(s, d.Ref.Name())
		if m == nil {
			return false
		}
		if len(d.Args) == 0 || len(m.Args) == 0 {
			return true
		}
		if len(d.Args) != len(m.Args) {
			return false
		}
		for i := range d.Args {
			if !Contains(d.Args[i], m.Args[i]) {
				return false
			}
		}
		return true
	case *Array:
		switch d.Ref.Name() {
		case "java.lang.Cloneable", "java.io.Serializable":
			return true
		}
		return false
	}
	return anyBound(d, src)
}

// anyBound reports whether one of the upper bounds of a type variable,
// capture or intersection src is assignable to dst.
func anyBound(dst, src Type) bool {
	var bounds []Type
	switch s := src.(type) {
	case *TypeParam:
		bounds = s.Bounds
		if len(bounds) == 0 {
			bounds = []Type{Named(ObjectName)}
		}
	case *Captured:
		bounds = s.Upper
	case *Intersection:
		bounds = s.Types
	case *Wildcard:
		bounds = upperBounds(s)
	}
	for _, b := range bounds {
		if IsAssignable(dst, b) {
			return true
		}
	}
	return false
}

// Contains reports whether the type argument arg contains the type
// argument src (JLS 4.5.1).
func Contains(arg, src Type) bool {
	w, ok := arg.(*Wildcard)
	if !ok {
		if _, ok := src.(*Wildcard); ok {
			return false
		}
		return Equal(arg, src)
	}
	sw, srcWild := src.(*Wildcard)
	if w.Lower != nil {
		if !srcWild {
			return IsAssignable(src, w.Lower)
		}
		return sw.Lower != nil && IsAssignable(sw.Lower, w.Lower)
	}
	if len(w.Upper) == 0 {
		return true
	}
	if srcWild {
		if sw.Lower != nil {
			return isObjectBound(w.Upper)
		}
		su := upperBounds(sw)
		for _, u := range w.Upper {
			if !IsAssignable(u, intersect(su)) {
				return false
			}
		}
		return true
	}
	for _, u := range w.Upper {
		if !IsAssignable(u, src) {
			return false
		}
	}
	return true
}

func isObjectBound(ts []Type) bool {
	for _, t := range ts {
		c, ok := t.(*Class)
		if !ok || c.Ref.Name() != ObjectName {
			return false
		}
	}
	return true
}

// Capture applies capture conversion (JLS 5.1.10) to a class type:
// every wildcard argument becomes a fresh Captured bounded by both the
// wildcard and the declared bounds of its type parameter. Other types
// are returned unchanged.
func Capture(t Type) Type {
	c, ok := t.(*Class)
	if !ok {
		return t
	}
	return captureClass(c, map[string]Type{})
}

func captureClass(c *Class, m map[string]Type) *Class {
	out := &Class{Ref: c.Ref}
	if c.Outer != nil {
		out.Outer = captureClass(c.Outer, m)
	}
	tparams := c.Ref.TypeParams()
	if len(c.Args) == 0 || len(tparams) != len(c.Args) {
		out.Args = c.Args
		return out
	}
	out.Args = make([]Type, len(c.Args))
	for i, arg := range c.Args {
		tp := tparams[i]
		w, ok := arg.(*Wildcard)
		if !ok {
			out.Args[i] = arg
			m[tp.Name] = arg
			continue
		}
		declared := substList(tp.Bounds, m)
		capt := &Captured{Wildcard: w, Lower: w.Lower}
		if w.Lower == nil {
			capt.Upper = append(capt.Upper, w.Upper...)
		}
		for _, b := range declared {
			if !containsType(capt.Upper, b) {
				capt.Upper = append(capt.Upper, b)
			}
		}
		if len(capt.Upper) == 0 {
			capt.Upper = []Type{Named(ObjectName)}
		} else if len(capt.Upper) > 1 {
			capt.Upper = dropObject(capt.Upper)
		}
		out.Args[i] = capt
		m[tp.Name] = capt
	}
	return out
}

func containsType(ts []Type, t Type) bool {
	for _, u := range ts {
		if Equal(u, t) {
			return true
		}
	}
	return false
}

func dropObject(ts []Type) []Type {
	out := ts[:0:0]
	for _, t := range ts {
		if c, ok := t.(*Class); ok && c.Ref.Name() == ObjectName {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return ts[:1]
	}
	return out
}
