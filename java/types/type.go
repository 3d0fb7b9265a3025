// Package types models Java static types: primitives, parameterized
// classes, type variables, wildcards, arrays, intersections and captures.
//
// Types are immutable once built. Class declarations are reached through
// the Reflective interface, which source declarations, compiled classes
// and plain ClassDef values all implement; none of the operations here
// load anything on their own.
package types

import "strings"

// Type is one of *Primitive, *Class, *TypeParam, *Wildcard, *Array,
// *Intersection or *Captured.
type Type interface {
	String() string
	isType()
}

type PrimitiveKind int

const (
	KindVoid PrimitiveKind = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindNull
)

var primitiveNames = [...]string{"void", "boolean", "byte", "char", "short", "int", "long", "float", "double", "null"}

// Primitive is a primitive type, void, or the type of null.
type Primitive struct {
	Kind PrimitiveKind
}

var (
	Void    = &Primitive{KindVoid}
	Boolean = &Primitive{KindBoolean}
	Byte    = &Primitive{KindByte}
	Char    = &Primitive{KindChar}
	Short   = &Primitive{KindShort}
	Int     = &Primitive{KindInt}
	Long    = &Primitive{KindLong}
	Float   = &Primitive{KindFloat}
	Double  = &Primitive{KindDouble}
	Null    = &Primitive{KindNull}
)

var primitivesByName = map[string]*Primitive{
	"void":    Void,
	"boolean": Boolean,
	"byte":    Byte,
	"char":    Char,
	"short":   Short,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
}

// PrimitiveByName returns the primitive type (or void) with the given
// keyword, or nil.
func PrimitiveByName(name string) *Primitive {
	return primitivesByName[name]
}

func (p *Primitive) String() string {
	return primitiveNames[p.Kind]
}

// IsNumeric reports whether p is an integral or floating point type;
// char counts as numeric.
func (p *Primitive) IsNumeric() bool {
	return p.Kind >= KindByte && p.Kind <= KindDouble
}

func (p *Primitive) IsIntegral() bool {
	return p.Kind >= KindByte && p.Kind <= KindLong
}

// CouldHold reports whether the constant v is representable in p.
func (p *Primitive) CouldHold(v int64) bool {
	switch p.Kind {
	case KindByte:
		return v >= -128 && v <= 127
	case KindShort:
		return v >= -32768 && v <= 32767
	case KindChar:
		return v >= 0 && v <= 0xFFFF
	case KindInt:
		return v >= -1<<31 && v <= 1<<31-1
	case KindLong, KindFloat, KindDouble:
		return true
	}
	return false
}

// Class is a class or interface type. Args is nil for a non-generic or
// raw type; each argument is a reference type or a *Wildcard. Outer is
// set for inner classes of a parameterized outer type.
type Class struct {
	Ref   Reflective
	Args  []Type
	Outer *Class
}

// Name returns the binary name of the class, such as "java.util.Map$Entry".
func (c *Class) Name() string {
	return c.Ref.Name()
}

// IsRaw reports whether c is a generic class used without arguments.
func (c *Class) IsRaw() bool {
	return len(c.Args) == 0 && len(c.Ref.TypeParams()) > 0
}

func (c *Class) String() string {
	var sb strings.Builder
	name := c.Ref.Name()
	if c.Outer != nil && (len(c.Outer.Args) > 0 || c.Outer.Outer != nil) {
		sb.WriteString(c.Outer.String())
		sb.WriteByte('.')
		if i := strings.LastIndexByte(name, '$'); i >= 0 {
			name = name[i+1:]
		}
	}
	sb.WriteString(strings.ReplaceAll(name, "$", "."))
	writeArgs(&sb, c.Args)
	return sb.String()
}

func writeArgs(sb *strings.Builder, args []Type) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
}

// TypeParam is a type variable. Bounds are its declared upper bounds;
// none means java.lang.Object.
type TypeParam struct {
	Name   string
	Bounds []Type
}

func (t *TypeParam) String() string {
	return t.Name
}

// Wildcard is a type argument "?", "? extends U" or "? super L".
type Wildcard struct {
	Upper []Type
	Lower Type
}

func (w *Wildcard) String() string {
	switch {
	case w.Lower != nil:
		return "? super " + w.Lower.String()
	case len(w.Upper) > 0:
		parts := make([]string, len(w.Upper))
		for i, u := range w.Upper {
			parts[i] = u.String()
		}
		return "? extends " + strings.Join(parts, " & ")
	}
	return "?"
}

type Array struct {
	Elem Type
}

func (a *Array) String() string {
	return a.Elem.String() + "[]"
}

// ArrayOf wraps t in dims array dimensions.
func ArrayOf(t Type, dims int) Type {
	for range dims {
		t = &Array{Elem: t}
	}
	return t
}

type Intersection struct {
	Types []Type
}

func (t *Intersection) String() string {
	parts := make([]string, len(t.Types))
	for i, u := range t.Types {
		parts[i] = u.String()
	}
	return strings.Join(parts, " & ")
}

// Captured is the fresh type variable produced by capture conversion of
// Wildcard. Upper and Lower combine the wildcard's bounds with the bounds
// of the type parameter it stands for. Captured types are equal only to
// themselves.
type Captured struct {
	Wildcard *Wildcard
	Upper    []Type
	Lower    Type
}

func (c *Captured) String() string {
	return "capture of " + c.Wildcard.String()
}

func (*Primitive) isType()    {}
func (*Class) isType()        {}
func (*TypeParam) isType()    {}
func (*Wildcard) isType()     {}
func (*Array) isType()        {}
func (*Intersection) isType() {}
func (*Captured) isType()     {}

// IsPrimitive reports whether t is a primitive type, void or null.
func IsPrimitive(t Type) bool {
	_, ok := t.(*Primitive)
	return ok
}

func isNull(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == KindNull
}

// IsReference reports whether t is a reference type, null excluded.
func IsReference(t Type) bool {
	return t != nil && !IsPrimitive(t)
}

// Equal reports whether a and b denote the same type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && a.Kind == b.Kind
	case *Class:
		b, ok := b.(*Class)
		if !ok || a.Ref.Name() != b.Ref.Name() || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		if a.Outer != nil && b.Outer != nil {
			return Equal(a.Outer, b.Outer)
		}
		return true
	case *TypeParam:
		b, ok := b.(*TypeParam)
		return ok && a.Name == b.Name
	case *Wildcard:
		b, ok := b.(*Wildcard)
		return ok && Equal(a.Lower, b.Lower) && equalLists(a.Upper, b.Upper)
	case *Array:
		b, ok := b.(*Array)
		return ok && Equal(a.Elem, b.Elem)
	case *Intersection:
		b, ok := b.(*Intersection)
		return ok && equalLists(a.Types, b.Types)
	case *Captured:
		b, ok := b.(*Captured)
		return ok && a == b
	}
	return false
}

func equalLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
