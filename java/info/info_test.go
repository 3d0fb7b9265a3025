package info

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/nodes"
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

func newProject(t *testing.T, units map[string][]string) *nodes.Set {
	t.Helper()
	root := classResolver{}
	object := &types.ClassDef{QualifiedName: types.ObjectName, Flags: types.Public}
	root[types.ObjectName] = object
	for _, name := range []string{"java.lang.String", "java.lang.Runnable", "java.lang.Iterable", "java.lang.Exception"} {
		root[name] = &types.ClassDef{QualifiedName: name, Flags: types.Public, Supers: []*types.Class{{Ref: object}}}
	}
	set := nodes.NewSet(root)
	for pkg, srcs := range units {
		for _, src := range srcs {
			u, err := nodes.ParseString(src, set, pkg)
			require.NoError(t, err)
			set.Add(u)
		}
	}
	return set
}

func parse(t *testing.T, src string, r entity.Resolver, pkg string) *ClassInfo {
	t.Helper()
	info, err := Parse(strings.NewReader(src), r, pkg)
	require.NoError(t, err)
	return info
}

func TestImplementsAndUsed(t *testing.T) {
	set := newProject(t, map[string][]string{"": {"class I {}"}})
	src := "class A implements Runnable, Iterable {\n  void someMethod() {\n    I i = new I();\n  }\n}\n"
	info := parse(t, src, set, "")

	assert.False(t, info.Interface)
	assert.Equal(t, []string{"java.lang.Runnable", "java.lang.Iterable"}, info.Implements)
	assert.Contains(t, info.Used, "I")
	assert.Equal(t, "", info.Superclass)
	assert.False(t, info.HadError)
}

func TestKinds(t *testing.T) {
	set := newProject(t, nil)
	assert.True(t, parse(t, "interface A {}", set, "").Interface)
	assert.True(t, parse(t, "enum A { monday, tuesday, wednesday }", set, "").Enum)
	assert.True(t, parse(t, "record R(int x) {}", set, "").Record)
}

func TestSignatures(t *testing.T) {
	set := newProject(t, map[string][]string{"p": {"package p; class Dep {}"}})
	src := `package p;
class A {
  void method1(int [] a) { }
  void method2(int a[]) { }
  void grid(int[] rows[]) { }
  void all(String... xs) { }
  <T> T pick(java.util.List<T> ignored, T t) { return t; }
  /** Makes one. */
  public A(int size, Dep dep) { }
  Dep self() { return null; }
  Missing broken(int x) { return null; }
  class Inner { void hidden() { } }
}
class Other { void other() { } }
`
	info := parse(t, src, set, "p")

	var targets []string
	for _, c := range info.Comments {
		targets = append(targets, c.Target)
	}
	assert.Equal(t, []string{
		"void method1(int[])",
		"void method2(int[])",
		"void grid(int[][])",
		"void all(java.lang.String[])",
		"A(int, Dep)",
		"Dep self()",
	}, targets)

	c, ok := info.Comment("void method2(int[])")
	require.True(t, ok)
	assert.Equal(t, "a", c.Params)

	c, ok = info.Comment("A(int, Dep)")
	require.True(t, ok)
	assert.Equal(t, "size dep", c.Params)
	assert.Contains(t, c.Text, "Makes one.")
}

func TestPrimaryType(t *testing.T) {
	set := newProject(t, nil)
	info := parse(t, "class First { void f() {} }\npublic class Second { void s() {} }\nclass Third { }\n", set, "")
	assert.Equal(t, "Second", info.Name)
	assert.True(t, info.Public)
	require.Len(t, info.Comments, 1)
	assert.Equal(t, "void s()", info.Comments[0].Target)

	info = parse(t, "final class A {}", set, "")
	assert.False(t, info.Public, "only the public keyword makes a class public")
}

func TestUsedNames(t *testing.T) {
	set := newProject(t, map[string][]string{"": {
		"class I {}", "class J<T> {}", "class K {}", "class L {}",
		"class M { static int x() { return 1; } }",
	}})
	src := "class A {\n  I f;\n  J<K> g;\n  void m(L l) {\n    M.x();\n  }\n}\n"
	info := parse(t, src, set, "")
	for _, name := range []string{"I", "J", "K", "L", "M"} {
		assert.Contains(t, info.Used, name)
	}
	assert.NotContains(t, info.Used, "A")
}

func TestInnerClassShadowsSibling(t *testing.T) {
	set := newProject(t, map[string][]string{"": {"class I {}"}})
	src := "class A {\n  void someMethod() {\n    I i = new I();\n  }\n  class I { }\n}\n"
	info := parse(t, src, set, "")
	assert.NotContains(t, info.Used, "I")
}

func TestStaticCallQualifier(t *testing.T) {
	set := newProject(t, map[string][]string{"": {
		"class I {}",
		"class JJ { public static I someMethod() { return null; } }",
	}})
	src := "class A {\n  void someMethod() {\n    for(I ii = JJ.someMethod(); ;) ;\n  }\n}\n"
	info := parse(t, src, set, "")
	assert.Contains(t, info.Used, "I")
	assert.Contains(t, info.Used, "JJ")
}

func TestTypeParameterShadowsClass(t *testing.T) {
	set := newProject(t, map[string][]string{"": {"class T {}"}})
	info := parse(t, "class A<T> {\n  public T someVar;}\n", set, "")
	assert.NotContains(t, info.Used, "T")
	assert.Equal(t, []string{"T"}, info.TypeParams)
}

func TestPackageFiltering(t *testing.T) {
	set := newProject(t, map[string][]string{
		"testpkg":  {"package testpkg; class N {}"},
		"otherpkg": {"package otherpkg; class M {}", "package otherpkg; class N {}"},
	})

	info := parse(t, "package testpkg;class A {\n  public N someVar;}\n", set, "testpkg")
	assert.Contains(t, info.Used, "N")
	assert.Equal(t, "testpkg", info.Package)

	info = parse(t, "package testpkg;class A {\n  public testpkg.N someVar;  public otherpkg.M otherVar;}\n", set, "testpkg")
	assert.Contains(t, info.Used, "N")
	assert.NotContains(t, info.Used, "M")

	info = parse(t, "package testpkg;import otherpkg.N;class A {\n  public N someVar;}\n", set, "testpkg")
	assert.NotContains(t, info.Used, "N", "the single type import wins over the package")
}

func TestInterfaceSelections(t *testing.T) {
	info := parse(t, "class ABC implements AA, BB, CC { }\n", newProject(t, nil), "")

	assert.Equal(t, Point(1, 10), info.ExtendsInsert)
	assert.Equal(t, Point(1, 32), info.ImplementsInsert)
	want := []Selection{
		{1, 11, 1, 21}, // implements
		{1, 22, 1, 24}, // AA
		{1, 24, 1, 26}, // ", "
		{1, 26, 1, 28}, // BB
		{1, 28, 1, 30}, // ", "
		{1, 30, 1, 32}, // CC
	}
	assert.Equal(t, want, info.InterfaceSelections)
	assert.Equal(t, []string{"", "", ""}, info.Implements)
}

func TestHeaderSelections(t *testing.T) {
	src := "package a.b.c;\n\nclass X extends Base implements I { }\n"
	info := parse(t, src, newProject(t, nil), "a.b.c")

	assert.Equal(t, &Selection{1, 1, 1, 8}, info.PackageStatement)
	assert.Equal(t, &Selection{1, 9, 1, 14}, info.PackageName)
	assert.Equal(t, &Selection{1, 14, 1, 15}, info.PackageSemi)

	assert.Nil(t, info.ExtendsInsert)
	assert.Equal(t, &Selection{3, 8, 3, 17}, info.ExtendsReplace)
	assert.Equal(t, &Selection{3, 17, 3, 21}, info.SuperReplace)
	assert.Equal(t, Point(3, 34), info.ImplementsInsert)

	assert.True(t, info.ExtendsReplace.Contains(Point(3, 10)))
	assert.False(t, info.SuperReplace.Overlaps(info.ImplementsInsert))
	for _, s := range info.InterfaceSelections {
		assert.False(t, info.SuperReplace.Overlaps(&s))
	}
}

func TestBestEffortOnSyntaxError(t *testing.T) {
	info := parse(t, "class A {\n  void ok(int x) {}\n  void broken( { int }\n", newProject(t, nil), "")
	assert.True(t, info.HadError)
	assert.Equal(t, "A", info.Name)
	_, ok := info.Comment("void ok(int)")
	assert.True(t, ok)
}

func TestNoClass(t *testing.T) {
	_, err := Parse(strings.NewReader("import java.util.List;\n"), newProject(t, nil), "")
	assert.True(t, errors.Is(err, ErrNoClass))
}

func TestResolutionIsIdempotent(t *testing.T) {
	set := newProject(t, map[string][]string{"": {"class I {}"}})
	x, _, err := Walk(strings.NewReader("class A extends I { I f; }"), set, "")
	require.NoError(t, err)
	x.ResolveComments()
	first := *x.Info()
	x.ResolveComments()
	assert.Equal(t, first, *x.Info())
	assert.Equal(t, "I", x.Info().Superclass)
	assert.Equal(t, []string{"I"}, x.Info().Used)
}

func TestContextRoundTrip(t *testing.T) {
	info := &ClassInfo{Name: "A"}
	info.AddComment("void resize(int, int)", "/** Resize to\n * ${width}. */", "width height")
	info.AddComment("A()", "", "")

	var buf bytes.Buffer
	require.NoError(t, WriteContext(&buf, info))
	assert.Contains(t, buf.String(), "numComments = 2")
	assert.Contains(t, buf.String(), "comment0.params = width height")

	got, err := ReadContext(&buf)
	require.NoError(t, err)
	assert.Equal(t, info.Comments, got)
}
