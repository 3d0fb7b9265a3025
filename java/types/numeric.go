package types

var boxNames = map[PrimitiveKind]string{
	KindBoolean: "java.lang.Boolean",
	KindByte:    "java.lang.Byte",
	KindChar:    "java.lang.Character",
	KindShort:   "java.lang.Short",
	KindInt:     "java.lang.Integer",
	KindLong:    "java.lang.Long",
	KindFloat:   "java.lang.Float",
	KindDouble:  "java.lang.Double",
}

var unboxed = map[string]*Primitive{
	"java.lang.Boolean":   Boolean,
	"java.lang.Byte":      Byte,
	"java.lang.Character": Char,
	"java.lang.Short":     Short,
	"java.lang.Integer":   Int,
	"java.lang.Long":      Long,
	"java.lang.Float":     Float,
	"java.lang.Double":    Double,
}

// Box returns the wrapper class of a primitive type, loaded through l.
// Any other type, void and null included, is returned unchanged.
func Box(t Type, l Loader) Type {
	p, ok := t.(*Primitive)
	if !ok {
		return t
	}
	name, ok := boxNames[p.Kind]
	if !ok {
		return t
	}
	return Load(l, name)
}

// Unbox returns the primitive type a wrapper class stands for, or t.
func Unbox(t Type) Type {
	if c, ok := t.(*Class); ok {
		if p, ok := unboxed[c.Ref.Name()]; ok {
			return p
		}
	}
	return t
}

func kindOf(t Type) (PrimitiveKind, bool) {
	p, ok := Unbox(t).(*Primitive)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// BinaryNumericPromotion returns the type of a binary arithmetic
// operation on a and b after unboxing, or nil if either is not numeric.
func BinaryNumericPromotion(a, b Type) Type {
	ka, oka := kindOf(a)
	kb, okb := kindOf(b)
	if !oka || !okb || !(&Primitive{ka}).IsNumeric() || !(&Primitive{kb}).IsNumeric() {
		return nil
	}
	switch {
	case ka == KindDouble || kb == KindDouble:
		return Double
	case ka == KindFloat || kb == KindFloat:
		return Float
	case ka == KindLong || kb == KindLong:
		return Long
	}
	return Int
}

// UnaryNumericPromotion returns the type of a unary arithmetic
// operation on a, or nil if a is not numeric.
func UnaryNumericPromotion(a Type) Type {
	k, ok := kindOf(a)
	if !ok || !(&Primitive{k}).IsNumeric() {
		return nil
	}
	switch k {
	case KindDouble:
		return Double
	case KindFloat:
		return Float
	case KindLong:
		return Long
	}
	return Int
}

// Operand is an operand of the conditional operator. Const and Value
// describe an integral compile time constant.
type Operand struct {
	Type  Type
	Const bool
	Value int64
}

// ConditionalType returns the type of "c ? a : b" (JLS 15.25), or nil if
// either operand type is unknown.
func ConditionalType(a, b Operand, l Loader) Type {
	if a.Type == nil || b.Type == nil {
		return nil
	}
	if Equal(a.Type, b.Type) {
		return a.Type
	}
	ka, oka := kindOf(a.Type)
	kb, okb := kindOf(b.Type)
	if oka && okb && ka == KindBoolean && kb == KindBoolean {
		return Boolean
	}
	if isNull(a.Type) {
		return Box(b.Type, l)
	}
	if isNull(b.Type) {
		return Box(a.Type, l)
	}
	pa, pb := &Primitive{ka}, &Primitive{kb}
	if oka && okb && pa.IsNumeric() && pb.IsNumeric() {
		if ka == kb {
			return pa.canonical()
		}
		if (ka == KindByte && kb == KindShort) || (ka == KindShort && kb == KindByte) {
			return Short
		}
		if narrow := constantNarrowing(ka, b); narrow != nil {
			return narrow
		}
		if narrow := constantNarrowing(kb, a); narrow != nil {
			return narrow
		}
		return BinaryNumericPromotion(a.Type, b.Type)
	}
	return Lub(Box(a.Type, l), Box(b.Type, l))
}

// constantNarrowing handles an operand of a minor integer type next to
// an int constant that fits it.
func constantNarrowing(k PrimitiveKind, other Operand) Type {
	switch k {
	case KindByte, KindShort, KindChar:
	default:
		return nil
	}
	p, ok := other.Type.(*Primitive)
	if !ok || p.Kind != KindInt || !other.Const {
		return nil
	}
	minor := (&Primitive{k}).canonical()
	if !minor.CouldHold(other.Value) {
		return nil
	}
	return minor
}

func (p *Primitive) canonical() *Primitive {
	for _, c := range []*Primitive{Void, Boolean, Byte, Char, Short, Int, Long, Float, Double, Null} {
		if c.Kind == p.Kind {
			return c
		}
	}
	return p
}
