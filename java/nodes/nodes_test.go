package nodes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/types"
)

// classResolver resolves qualified names from a fixed set of classes.
type classResolver map[string]types.Reflective

func (r classResolver) ResolveQualifiedClass(name string) *entity.TypeEntity {
	if d, ok := r[name]; ok {
		return &entity.TypeEntity{Type: &types.Class{Ref: d}}
	}
	return nil
}

func (r classResolver) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := r.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: r}
}

func (r classResolver) ValueEntity(name string, access types.Reflective) entity.Entity {
	return r.ResolvePackageOrClass(name, access)
}

func newRoot() classResolver {
	r := classResolver{}
	object := &types.ClassDef{QualifiedName: types.ObjectName, Flags: types.Public}
	r[types.ObjectName] = object
	def := func(name string, flags types.Modifiers, params ...string) *types.ClassDef {
		d := &types.ClassDef{QualifiedName: name, Flags: flags, Supers: []*types.Class{{Ref: object}}}
		for _, p := range params {
			d.Params = append(d.Params, &types.TypeParam{Name: p})
		}
		r[name] = d
		return d
	}
	def("java.lang.String", types.Public|types.Final)
	def("java.lang.Enum", types.Public|types.Abstract, "E")
	def("java.lang.Record", types.Public|types.Abstract)
	def("java.lang.Runnable", types.Public|types.Interface|types.Abstract)
	def("java.lang.Comparable", types.Public|types.Interface|types.Abstract, "T")
	return r
}

func parse(t *testing.T, src string, parent entity.Resolver) *Unit {
	t.Helper()
	u, err := ParseString(src, parent, "")
	require.NoError(t, err)
	require.NoError(t, u.Root.Check(), u.Root.Dump())
	return u
}

func TestFindNodeAtOrAfter(t *testing.T) {
	u := parse(t, "class A\n{\n   class B\n    {\n    }\n}\n", newRoot())

	classNP := u.Root.FindNodeAtOrAfter(0)
	require.NotNil(t, classNP)
	assert.Equal(t, 0, classNP.Pos)
	assert.Equal(t, KindTypeDef, classNP.Node.Kind)

	innerNP := classNP.Node.FindNodeAtOrAfter(9)
	require.NotNil(t, innerNP)
	assert.Equal(t, KindTypeBody, innerNP.Node.Kind)
	assert.Equal(t, 9, innerNP.Pos)

	np := innerNP.Node.FindNodeAtOrAfter(innerNP.Pos)
	require.NotNil(t, np)
	assert.Equal(t, 13, np.Pos)
	assert.Equal(t, KindTypeDef, np.Node.Kind)
	assert.Equal(t, "B", np.Node.Name)

	assert.Nil(t, np.Node.FindNodeAtOrAfter(np.Node.End))
}

func TestMethodExtentWithBrokenCall(t *testing.T) {
	src := "class A {\n  public void someMethod() {\n    methodCall(\n  }\n}\n"
	u := parse(t, src, newRoot())
	assert.True(t, u.HadError())

	class := u.Root.FindNodeAtOrAfter(0)
	require.NotNil(t, class)
	body := class.Node.FindNodeAtOrAfter(0)
	require.NotNil(t, body)
	method := body.Node.FindNodeAtOrAfter(body.Pos)
	require.NotNil(t, method)
	assert.Equal(t, KindMethod, method.Node.Kind)
	assert.Equal(t, 12, method.Pos)
	assert.Equal(t, 46, method.Size)
}

func TestBrokenSourceStaysConsistent(t *testing.T) {
	for _, src := range []string{
		"class A {\n  A() {\n    int\n  }\n}\n",
		"class A { void m( { int x = ; } class",
		"class A extends { int f = new B() {",
		"enum E { A { void f() { } , B }",
		"class A { void m() { Runnable r = () -> { int y; }; int z; } int g",
		"package p class A {}",
		"}}}} class A { { { } ",
	} {
		t.Run(src, func(t *testing.T) {
			u := parse(t, src, newRoot())
			u.Resolve()
		})
	}
}

func TestSegments(t *testing.T) {
	u := parse(t, "class A\n{\n   class B\n    {\n    }\n}\n", newRoot())
	body := u.Type("A").Body
	require.NotNil(t, body)
	segs := body.Segments()
	require.Len(t, segs, 3)
	assert.Nil(t, segs[0].Node)
	assert.Equal(t, 9, segs[0].Start)
	assert.Equal(t, 13, segs[0].End)
	assert.Same(t, u.Type("A").MemberTypes()[0].Node, segs[1].Node)
	assert.Nil(t, segs[2].Node)
	assert.Equal(t, body.End, segs[2].End)
}

func TestMethodReturnType(t *testing.T) {
	u := parse(t, "class A {\n  public String someMethod() {\n    return \"hello\";\n  }\n}\n", newRoot())
	set := NewSet(newRoot())
	set.Add(u)

	te := set.ResolveQualifiedClass("A")
	require.NotNil(t, te)
	methods := te.Class().Ref.Methods()["someMethod"]
	require.Len(t, methods, 1)
	assert.Equal(t, "java.lang.String", methods[0].Return.String())
	assert.True(t, methods[0].Modifiers.Has(types.Public))
}

func TestSuperclass(t *testing.T) {
	set := NewSet(newRoot())
	a := parse(t, "class A { }", set)
	set.Add(a)
	b := parse(t, "class B extends A {}", set)
	set.Add(b)

	supers := a.Type("A").SuperTypes()
	require.Len(t, supers, 1)
	assert.Equal(t, "java.lang.Object", supers[0].String())

	supers = b.Type("B").SuperTypes()
	require.Len(t, supers, 1)
	assert.Equal(t, "A", supers[0].String())
}

func TestImportedFieldType(t *testing.T) {
	set := NewSet(newRoot())
	for _, src := range []string{
		"package xyz; class abc { static class def { } }",
		"package abc; public class def { }",
		"package xyz; import abc.def; class T { public static def field; }",
	} {
		u := parse(t, src, set)
		set.Add(u)
	}

	te := set.ResolveQualifiedClass("xyz.T")
	require.NotNil(t, te)
	v, ok := entity.Subentity(te, "field", nil).(*entity.Value)
	require.True(t, ok)
	assert.Equal(t, "abc.def", v.Type.String())

	// Without the import, def is the member type of the class in the
	// same package.
	u := parse(t, "package xyz; class S { static abc.def field; }", set)
	f := u.Type("S").Fields()["field"]
	require.NotNil(t, f)
	assert.Equal(t, "xyz.abc.def", f.Type.String())
}

func TestLocalScope(t *testing.T) {
	src := "class A {\n  int f;\n  void m(String p) {\n    int x = 1;\n    String s = p;\n    f = x;\n  }\n}\n"
	u := parse(t, src, newRoot())

	before := u.ScopeAt(strings.Index(src, "int x"))
	_, isPkg := before.ValueEntity("x", nil).(*entity.Package)
	assert.True(t, isPkg, "x is not visible before its declaration")

	at := u.ScopeAt(strings.Index(src, "String s"))
	tests := map[string]string{"x": "int", "p": "java.lang.String", "f": "int"}
	for name, want := range tests {
		v, ok := at.ValueEntity(name, nil).(*entity.Value)
		require.True(t, ok, name)
		require.NotNil(t, v.Type, name)
		assert.Equal(t, want, v.Type.String(), name)
	}

	after := u.ScopeAt(strings.Index(src, "f = x"))
	v, ok := after.ValueEntity("s", nil).(*entity.Value)
	require.True(t, ok)
	assert.Equal(t, "java.lang.String", v.Type.String())
}

func TestInheritedField(t *testing.T) {
	src := "class A { protected int f; }\nclass B extends A { void n() { f = 2; } }\n"
	u := parse(t, src, newRoot())
	v, ok := u.ScopeAt(strings.Index(src, "f = 2")).ValueEntity("f", u.Type("B")).(*entity.Value)
	require.True(t, ok)
	assert.Equal(t, "int", v.Type.String())
}

func TestGenericField(t *testing.T) {
	set := NewSet(newRoot())
	box := parse(t, "class Box<T> { T value; }", set)
	set.Add(box)
	user := parse(t, "class User { Box<String> b; }", set)
	set.Add(user)

	f := user.Type("User").Fields()["b"]
	require.NotNil(t, f)
	assert.Equal(t, "Box<java.lang.String>", f.Type.String())

	v, ok := entity.Subentity(&entity.Value{Type: f.Type}, "value", nil).(*entity.Value)
	require.True(t, ok)
	assert.Equal(t, "java.lang.String", v.Type.String())
}

func TestTypeParameters(t *testing.T) {
	src := "class G<T extends Comparable<T>> {\n  <U> U id(U u) { return u; }\n  T t;\n}\n"
	u := parse(t, src, newRoot())
	g := u.Type("G")
	u.Resolve()

	require.Len(t, g.TypeParams(), 1)
	require.Len(t, g.TypeParams()[0].Bounds, 1)
	assert.Equal(t, "java.lang.Comparable<T>", g.TypeParams()[0].Bounds[0].String())

	id := g.Methods()["id"]
	require.Len(t, id, 1)
	require.Len(t, id[0].TypeParams, 1)
	assert.Same(t, id[0].TypeParams[0], id[0].Params[0])
	assert.Same(t, id[0].TypeParams[0], id[0].Return)
	assert.Same(t, g.TypeParams()[0], g.Fields()["t"].Type)
}

func TestNestedTypeNames(t *testing.T) {
	src := "package p;\nclass A {\n  class B {}\n  void m() {\n    class L {}\n    Runnable r = new Runnable() { public void run() {} };\n  }\n}\n"
	u := parse(t, src, newRoot())

	var names []string
	for _, d := range u.AllTypes() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"p.A", "p.A$B", "p.A$1L", "p.A$2"}, names)

	te, ok := u.ScopeAt(strings.Index(src, "Runnable r")).ResolvePackageOrClass("L", nil).(*entity.TypeEntity)
	require.True(t, ok)
	assert.Equal(t, "p.A$1L", te.Class().Name())

	anon := u.Lookup("p.A$2")
	require.NotNil(t, anon)
	var supers []string
	for _, s := range anon.SuperTypes() {
		supers = append(supers, s.String())
	}
	assert.Equal(t, []string{"java.lang.Object", "java.lang.Runnable"}, supers)
	assert.Contains(t, anon.Methods(), "run")

	inner := u.Type("A").MemberType("B")
	require.NotNil(t, inner)
	assert.False(t, inner.Modifiers().Has(types.Static))
}

func TestTypeJavadoc(t *testing.T) {
	src := "package p;\n/** A thing. */\n@Deprecated\npublic class A {\n  /** Inner. */\n  static class B {}\n  class C {}\n}\n"
	u := parse(t, src, newRoot())
	require.Len(t, u.Types, 1)
	assert.Equal(t, "/** A thing. */", u.Types[0].Javadoc)

	b := u.Lookup("p.A$B")
	require.NotNil(t, b)
	assert.Equal(t, "/** Inner. */", b.Javadoc)
	assert.Empty(t, u.Lookup("p.A$C").Javadoc)
}

func TestEnum(t *testing.T) {
	u := parse(t, "enum Color { RED, GREEN { }; Color next() { return RED; } }", newRoot())
	c := u.Type("Color")

	require.Len(t, c.SuperTypes(), 1)
	assert.Equal(t, "java.lang.Enum<Color>", c.SuperTypes()[0].String())

	red := c.Fields()["RED"]
	require.NotNil(t, red)
	assert.Equal(t, "Color", red.Type.String())
	assert.True(t, red.Modifiers.Has(types.Static))

	for _, name := range []string{"values", "valueOf", "next"} {
		assert.Contains(t, c.Methods(), name)
	}
	green := u.Lookup("Color$1")
	require.NotNil(t, green)
	assert.Equal(t, "Color", green.SuperTypes()[0].String())
}

func TestInterfaceAndRecordMembers(t *testing.T) {
	u := parse(t, "interface I { int K = 1; void run(); default void x() {} }\nrecord P(int x, String y) {}\n", newRoot())

	i := u.Type("I")
	assert.True(t, i.IsInterface())
	run := i.Methods()["run"][0]
	assert.True(t, run.Modifiers.Has(types.Abstract|types.Public))
	x := i.Methods()["x"][0]
	assert.False(t, x.Modifiers.Has(types.Abstract))
	assert.True(t, i.Fields()["K"].Modifiers.Has(types.Static))

	p := u.Type("P")
	assert.Equal(t, "java.lang.Record", p.SuperTypes()[0].String())
	require.Contains(t, p.Fields(), "y")
	assert.Equal(t, "java.lang.String", p.Fields()["y"].Type.String())
	require.Contains(t, p.Methods(), "x")
	assert.Equal(t, "int", p.Methods()["x"][0].Return.String())
}

func TestCyclicSupertypes(t *testing.T) {
	u := parse(t, "class A extends B { }\nclass B extends A { }\nclass C extends C.D { static class D { } }\n", newRoot())
	u.Resolve()
	assert.NotEmpty(t, u.Type("A").SuperTypes())
	assert.NotNil(t, types.AllSuperTypes(&types.Class{Ref: u.Type("A")}))
}

func TestSetRemoveAndClone(t *testing.T) {
	set := NewSet(newRoot())
	a := parse(t, "package q; class A {}", set)
	set.Add(a)
	clone := set.Clone()
	clone.Remove(a)

	assert.NotNil(t, set.ResolveQualifiedClass("q.A"))
	assert.Nil(t, clone.ResolveQualifiedClass("q.A"))
	assert.Equal(t, []string{"q"}, set.Packages())
	assert.Equal(t, 0, clone.Len())
}
