package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAssignable(t *testing.T) {
	c := newClasses()
	str := c.class("java.lang.String")
	integer := c.class("java.lang.Integer")
	number := c.class("java.lang.Number")
	list := func(arg Type) *Class { return c.class("java.util.List", arg) }
	arrayList := func(arg Type) *Class { return c.class("java.util.ArrayList", arg) }
	comparable := func(arg Type) *Class { return c.class("java.lang.Comparable", arg) }
	extends := func(t Type) *Wildcard { return &Wildcard{Upper: []Type{t}} }
	super := func(t Type) *Wildcard { return &Wildcard{Lower: t} }

	tests := []struct {
		name string
		dst  Type
		src  Type
		want bool
	}{
		{"int from byte", Int, Byte, true},
		{"byte from int", Byte, Int, false},
		{"long from char", Long, Char, true},
		{"char from short", Char, Short, false},
		{"double from long", Double, Long, true},
		{"boolean from int", Boolean, Int, false},
		{"int from null", Int, Null, false},
		{"String from null", str, Null, true},
		{"Object from String", c.class(ObjectName), str, true},
		{"Object from int[]", c.class(ObjectName), &Array{Elem: Int}, true},
		{"Cloneable from array", c.class("java.lang.Cloneable"), &Array{Elem: str}, true},
		{"Integer from int", integer, Int, false},
		{"Number from Integer", number, integer, true},
		{"Integer from Number", integer, number, false},
		{"Comparable<String> from String", comparable(str), str, true},
		{"Comparable<Integer> from String", comparable(integer), str, false},
		{"Comparable<?> from String", comparable(&Wildcard{}), str, true},
		{"List<String> from ArrayList<String>", list(str), arrayList(str), true},
		{"List<Object> from ArrayList<String>", list(c.class(ObjectName)), arrayList(str), false},
		{"List<? extends Number> from ArrayList<Integer>", list(extends(number)), arrayList(integer), true},
		{"List<? extends Number> from ArrayList<String>", list(extends(number)), arrayList(str), false},
		{"List<? super Integer> from ArrayList<Number>", list(super(integer)), arrayList(number), true},
		{"List<? super Number> from ArrayList<Integer>", list(super(number)), arrayList(integer), false},
		{"List<? extends Number> from List<? extends Integer>", list(extends(number)), list(extends(integer)), true},
		{"raw List from ArrayList<String>", c.class("java.util.List"), arrayList(str), true},
		{"List<String> from raw ArrayList", list(str), c.class("java.util.ArrayList"), true},
		{"Object[] from String[]", &Array{Elem: c.class(ObjectName)}, &Array{Elem: str}, true},
		{"long[] from int[]", &Array{Elem: Long}, &Array{Elem: Int}, false},
		{"Number from T extends Integer", number, &TypeParam{Name: "T", Bounds: []Type{integer}}, true},
		{"T from T", &TypeParam{Name: "T"}, &TypeParam{Name: "T"}, true},
		{"T from String", &TypeParam{Name: "T"}, str, false},
		{"Number & Comparable<Integer> from Integer", &Intersection{Types: []Type{number, comparable(integer)}}, integer, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssignable(tt.dst, tt.src))
		})
	}
}

func TestMapToSuper(t *testing.T) {
	c := newClasses()
	al := c.class("java.util.ArrayList", c.class("java.lang.String"))

	got := MapToSuper(al, "java.util.List")
	require.NotNil(t, got)
	assert.Equal(t, "java.util.List<java.lang.String>", got.String())
	assert.Nil(t, MapToSuper(al, "java.lang.Number"))

	raw := MapToSuper(c.class("java.util.ArrayList"), "java.util.List")
	require.NotNil(t, raw)
	assert.Equal(t, "java.util.List", raw.String())

	var names []string
	for _, s := range AllSuperTypes(c.class("java.lang.Integer")) {
		names = append(names, s.String())
	}
	assert.Equal(t, []string{
		"java.lang.Integer",
		"java.lang.Number",
		"java.lang.Comparable<java.lang.Integer>",
		"java.lang.Object",
	}, names)
}

func TestErasure(t *testing.T) {
	c := newClasses()
	tests := []struct {
		in   Type
		want string
	}{
		{c.class("java.util.List", c.class("java.lang.String")), "java.util.List"},
		{&TypeParam{Name: "T"}, "java.lang.Object"},
		{&TypeParam{Name: "T", Bounds: []Type{c.class("java.lang.Number")}}, "java.lang.Number"},
		{&Array{Elem: &TypeParam{Name: "E"}}, "java.lang.Object[]"},
		{Int, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Erasure(tt.in).String())
		})
	}
}

func TestSubst(t *testing.T) {
	c := newClasses()
	e := &TypeParam{Name: "E"}
	in := &Array{Elem: c.class("java.util.List", &Wildcard{Upper: []Type{e}})}
	got := Subst(in, map[string]Type{"E": c.class("java.lang.Integer")})
	assert.Equal(t, "java.util.List<? extends java.lang.Integer>[]", got.String())
	assert.Equal(t, "java.util.List<? extends E>[]", in.String())
}

func TestLub(t *testing.T) {
	c := newClasses()
	str := c.class("java.lang.String")
	integer := c.class("java.lang.Integer")

	assert.Equal(t, "java.lang.Comparable<?>", Lub(str, integer).String())
	assert.Equal(t, "java.lang.Integer", Lub(integer, integer).String())
	assert.Equal(t, "java.lang.String", Lub(str, Null).String())
	assert.Equal(t, "java.util.ArrayList<?>",
		Lub(c.class("java.util.ArrayList", str), c.class("java.util.ArrayList", integer)).String())
	assert.Equal(t, "java.lang.Comparable<?>[]",
		Lub(&Array{Elem: str}, &Array{Elem: integer}).String())
}

func TestCapture(t *testing.T) {
	c := newClasses()
	number := c.class("java.lang.Number")

	got := Capture(c.class("java.util.List", &Wildcard{Upper: []Type{number}}))
	require.IsType(t, &Class{}, got)
	capt, ok := got.(*Class).Args[0].(*Captured)
	require.True(t, ok)
	assert.Equal(t, "capture of ? extends java.lang.Number", capt.String())
	assert.Equal(t, []Type{number}, capt.Upper)
	assert.True(t, IsAssignable(number, capt))

	unbounded := Capture(c.class("java.util.List", &Wildcard{})).(*Class).Args[0].(*Captured)
	assert.Equal(t, "java.lang.Object", unbounded.Upper[0].String())

	lower := Capture(c.class("java.util.List", &Wildcard{Lower: number})).(*Class).Args[0].(*Captured)
	assert.True(t, IsAssignable(lower, c.class("java.lang.Integer")))

	assert.Equal(t, Int, Capture(Int))
	wild := c.class("java.util.List", &Wildcard{})
	assert.False(t, Equal(Capture(wild), Capture(wild)))
}

func TestNumericPromotion(t *testing.T) {
	c := newClasses()
	assert.Equal(t, Long, BinaryNumericPromotion(Int, Long))
	assert.Equal(t, Int, BinaryNumericPromotion(c.class("java.lang.Integer"), Short))
	assert.Equal(t, Double, BinaryNumericPromotion(Float, c.class("java.lang.Double")))
	assert.Equal(t, Int, BinaryNumericPromotion(Char, Byte))
	assert.Nil(t, BinaryNumericPromotion(Boolean, Int))
	assert.Nil(t, BinaryNumericPromotion(c.class("java.lang.String"), Int))

	assert.Equal(t, Int, UnaryNumericPromotion(Char))
	assert.Equal(t, Int, UnaryNumericPromotion(c.class("java.lang.Short")))
	assert.Equal(t, Long, UnaryNumericPromotion(Long))
	assert.Nil(t, UnaryNumericPromotion(Boolean))
}

func TestBoxing(t *testing.T) {
	c := newClasses()
	boxed := Box(Int, c)
	require.IsType(t, &Class{}, boxed)
	assert.Same(t, c["java.lang.Integer"], boxed.(*Class).Ref)
	assert.Equal(t, Int, Unbox(boxed))
	assert.Equal(t, Void, Box(Void, c))
	assert.Equal(t, "java.lang.Character", Box(Char, nil).String())
	str := c.class("java.lang.String")
	assert.Same(t, str, Unbox(str))
}

func TestConditionalType(t *testing.T) {
	c := newClasses()
	v := func(t Type) Operand { return Operand{Type: t} }
	constInt := func(n int64) Operand { return Operand{Type: Int, Const: true, Value: n} }

	tests := []struct {
		name string
		a, b Operand
		want string
	}{
		{"same", v(Int), v(Int), "int"},
		{"byte short", v(Byte), v(Short), "short"},
		{"byte constant fits", v(Byte), constInt(10), "byte"},
		{"constant fits char", constInt(65), v(Char), "char"},
		{"byte constant too big", v(Byte), constInt(300), "int"},
		{"char variable int", v(Char), v(Int), "int"},
		{"Integer int", v(c.class("java.lang.Integer")), v(Int), "int"},
		{"int long", v(Int), v(Long), "long"},
		{"boolean Boolean", v(Boolean), v(c.class("java.lang.Boolean")), "boolean"},
		{"String null", v(c.class("java.lang.String")), v(Null), "java.lang.String"},
		{"null int", v(Null), v(Int), "java.lang.Integer"},
		{"String Integer", v(c.class("java.lang.String")), v(c.class("java.lang.Integer")), "java.lang.Comparable<?>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConditionalType(tt.a, tt.b, c)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Nil(t, ConditionalType(v(nil), v(Int), c))
}

func TestIsAccessible(t *testing.T) {
	d := &ClassDef{QualifiedName: "p.A$B"}
	assert.True(t, IsAccessible(d, Public, "q"))
	assert.False(t, IsAccessible(d, Private, "p"))
	assert.True(t, IsAccessible(d, 0, "p"))
	assert.True(t, IsAccessible(d, Protected, "p"))
	assert.False(t, IsAccessible(d, 0, "q"))
	assert.Equal(t, "", PackageOf("A"))
}

func TestMethodString(t *testing.T) {
	c := newClasses()
	m := c["java.util.Arrays"].Methods()["asList"][0]
	assert.Equal(t, "<T> java.util.List<T> asList(T...)", m.String())

	ctor := &Method{Name: ConstructorName, Params: []Type{Int}, ParamNames: []string{"size"}}
	c["java.util.ArrayList"].AddMethod(ctor)
	assert.Equal(t, "ArrayList(int size)", ctor.String())
}
