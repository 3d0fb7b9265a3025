package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/livejava/java/types"
)

// classResolver resolves qualified names from a fixed set of classes and
// treats every other simple name as a package.
type classResolver map[string]types.Reflective

func (r classResolver) ResolveQualifiedClass(name string) *TypeEntity {
	if d, ok := r[name]; ok {
		return &TypeEntity{Type: &types.Class{Ref: d}}
	}
	return nil
}

func (r classResolver) ResolvePackageOrClass(name string, access types.Reflective) Entity {
	if t := r.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &Package{Name: name, Resolver: r}
}

func (r classResolver) ValueEntity(name string, access types.Reflective) Entity {
	return r.ResolvePackageOrClass(name, access)
}

func newRoot() classResolver {
	r := classResolver{}
	object := &types.ClassDef{QualifiedName: types.ObjectName, Flags: types.Public}
	obj := &types.Class{Ref: object}
	r[types.ObjectName] = object
	def := func(name string, flags types.Modifiers, params ...string) *types.ClassDef {
		d := &types.ClassDef{QualifiedName: name, Flags: flags, Supers: []*types.Class{obj}}
		for _, p := range params {
			d.Params = append(d.Params, &types.TypeParam{Name: p})
		}
		r[name] = d
		return d
	}
	def("java.lang.String", types.Public|types.Final)
	def("java.lang.Integer", types.Public|types.Final)
	def("java.util.List", types.Public|types.Interface, "E")
	m := def("java.util.Map", types.Public|types.Interface, "K", "V")
	entry := def("java.util.Map$Entry", types.Public|types.Interface|types.Static, "K", "V")
	m.Members = map[string]types.Reflective{"Entry": entry}

	math := def("java.lang.Math", types.Public|types.Final)
	math.AddField(&types.Field{Name: "PI", Type: types.Double, Modifiers: types.Public | types.Static})
	math.AddField(&types.Field{Name: "seed", Type: types.Long, Modifiers: types.Public})

	outer := def("p.Outer", types.Public, "T")
	inner := def("p.Outer$Inner", types.Public)
	outer.Members = map[string]types.Reflective{"Inner": inner}

	box := def("p.Box", types.Public, "T")
	box.AddField(&types.Field{Name: "value", Type: box.Params[0], Modifiers: types.Public})
	box.AddField(&types.Field{Name: "secret", Type: types.Int, Modifiers: types.Private})
	return r
}

func TestParseTypeSpec(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"int[][]", "int[][]"},
		{"java.util.Map<String, List<Integer>>", "java.util.Map<String,List<Integer>>"},
		{"Map<String, Map<String, List<T>>>", "Map<String,Map<String,List<T>>>"},
		{"List<? extends Number>", "List<? extends Number>"},
		{"Comparator<? super T>[]", "Comparator<? super T>[]"},
		{"List<?>", "List<?>"},
		{"Map.Entry<K, V>", "Map.Entry<K,V>"},
		{"ArrayList<>", "ArrayList<>"},
		{"@NonNull String", "String"},
		{"java.lang.@A String", "java.lang.String"},
		{"String...", "String..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, ok := ParseTypeSpecString(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, spec.String())
		})
	}

	for _, bad := range []string{"List<String", "int x", "<T>", "Map<String,>", "List<String>>", ""} {
		t.Run("bad "+bad, func(t *testing.T) {
			_, ok := ParseTypeSpecString(bad)
			assert.False(t, ok)
		})
	}
}

func TestTypeSpecResolve(t *testing.T) {
	root := newRoot()
	pkg := &PackageResolver{Parent: root, Pkg: "p"}

	tests := []struct {
		in   string
		want string
	}{
		{"int[]", "int[]"},
		{"String", "java.lang.String"},
		{"java.util.List<String>", "java.util.List<java.lang.String>"},
		{"java.util.List<? super Integer>", "java.util.List<? super java.lang.Integer>"},
		{"java.util.Map.Entry<String, Integer>", "java.util.Map.Entry<java.lang.String,java.lang.Integer>"},
		{"java.util.List<>", "java.util.List"},
		{"java.util.List", "java.util.List"},
		{"Outer<String>.Inner", "p.Outer<java.lang.String>.Inner"},
		{"Box<String>[]...", "p.Box<java.lang.String>[][]"},
		{"List<String>", ""},
		{"java.util.List<String, String>", ""},
		{"java.util.List<int>", ""},
		{"void[]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, ok := ParseTypeSpecString(tt.in)
			require.True(t, ok)
			got := spec.Resolve(pkg, nil)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveUnresolved(t *testing.T) {
	root := newRoot()

	spec, _ := ParseTypeSpecString("var")
	assert.True(t, spec.IsVar())
	v := ResolveAsValue(&Unresolved{Spec: spec, Resolver: root})
	require.NotNil(t, v)
	assert.Nil(t, v.Type)

	u := &Unresolved{Names: []string{"java", "util", "List"}, Resolver: root}
	first := ResolveAsType(u)
	second := ResolveAsType(u)
	require.NotNil(t, first)
	assert.True(t, types.Equal(first.Type, second.Type))
	assert.Equal(t, "java.util.List", first.Type.String())

	pi := ResolveAsValue(&Unresolved{Names: []string{"java", "lang", "Math", "PI"}, Resolver: root})
	require.NotNil(t, pi)
	assert.Equal(t, types.Double, pi.Type)

	assert.Nil(t, Resolve(&Unresolved{Names: []string{"java", "lang", "Math", "nothing"}, Resolver: root}))
	assert.Nil(t, ResolveAsValue(&Package{Name: "java", Resolver: root}))
	assert.Nil(t, ResolveAsPackageOrClass(&Value{Type: types.Int}))
}

func TestSubentity(t *testing.T) {
	root := newRoot()
	java := &Package{Name: "java", Resolver: root}

	util := Subentity(java, "util", nil)
	require.IsType(t, &Package{}, util)
	assert.Equal(t, "java.util", util.(*Package).Name)
	list := Subentity(util, "List", nil)
	require.IsType(t, &TypeEntity{}, list)

	mapType := ResolveAsType(&Package{Name: "java.util.Map", Resolver: root})
	require.NotNil(t, mapType)
	entry := Subentity(mapType, "Entry", nil)
	require.IsType(t, &TypeEntity{}, entry)
	assert.Equal(t, "java.util.Map.Entry", entry.(*TypeEntity).Type.String())

	math := root.ResolveQualifiedClass("java.lang.Math")
	assert.IsType(t, &Value{}, Subentity(math, "PI", nil))
	assert.Nil(t, Subentity(math, "seed", nil))

	arr := &Value{Type: &types.Array{Elem: types.Int}}
	assert.Equal(t, &Value{Type: types.Int}, Subentity(arr, "length", nil))
	assert.Nil(t, Subentity(arr, "size", nil))

	box := &types.Class{Ref: root["p.Box"], Args: []types.Type{&types.Class{Ref: root["java.lang.String"]}}}
	val := Subentity(&Value{Type: box}, "value", nil)
	require.IsType(t, &Value{}, val)
	assert.Equal(t, "java.lang.String", val.(*Value).Type.String())

	raw := Subentity(&Value{Type: &types.Class{Ref: root["p.Box"]}}, "value", nil)
	require.IsType(t, &Value{}, raw)
	assert.Equal(t, types.ObjectName, raw.(*Value).Type.String())

	assert.Nil(t, Subentity(&Value{Type: box}, "secret", root["java.lang.String"]))
	assert.NotNil(t, Subentity(&Value{Type: box}, "secret", root["p.Box"]))
	assert.Nil(t, Subentity(&Value{}, "anything", nil))
}

func TestPackageResolver(t *testing.T) {
	root := newRoot()
	r := &PackageResolver{Parent: root, Pkg: "p"}

	box := r.ResolvePackageOrClass("Box", nil)
	require.IsType(t, &TypeEntity{}, box)
	assert.Equal(t, "p.Box", box.(*TypeEntity).Class().Name())

	str := r.ValueEntity("String", nil)
	require.IsType(t, &TypeEntity{}, str)
	assert.Equal(t, "java.lang.String", str.(*TypeEntity).Class().Name())

	pkg := r.ResolvePackageOrClass("java", nil)
	assert.Equal(t, &Package{Name: "java", Resolver: root}, pkg)

	l := Loader(r)
	require.NotNil(t, l)
	assert.Equal(t, "java.lang.Integer", l.LoadClass("java.lang.Integer").Name())
	assert.Nil(t, l.LoadClass("java.lang.Long"))
	assert.Nil(t, Loader(nil))
}

func TestImports(t *testing.T) {
	root := newRoot()
	var im Imports
	im.Add(Import{Name: "java.util.List"})
	im.Add(Import{Name: "java.util", Wildcard: true})
	im.Add(Import{Name: "java.lang.Math.PI", Static: true})
	im.Add(Import{Name: "java.lang.Math", Static: true, Wildcard: true})
	im.Add(Import{Name: "java.util.List"})

	assert.Equal(t, 4, im.Len())
	assert.Equal(t, "import java.util.List;\nimport java.util.*;\nimport static java.lang.Math.PI;\nimport static java.lang.Math.*;\n", im.String())

	list := im.TypeImport("List", root)
	require.NotNil(t, list)
	assert.Equal(t, "java.util.List", list.Class().Name())
	assert.Nil(t, im.TypeImport("Map", root))

	m := im.TypeImportWildcard("Map", root, nil)
	require.NotNil(t, m)
	assert.Equal(t, "java.util.Map", m.Class().Name())
	assert.Nil(t, im.TypeImportWildcard("Set", root, nil))

	owners := im.StaticImports("PI", root)
	require.Len(t, owners, 1)
	pi := StaticMember(owners, "PI", nil)
	assert.Equal(t, &Value{Type: types.Double}, pi)

	assert.Len(t, im.StaticWildcardImports(root), 1)

	clone := im.Clone()
	clone.Add(Import{Name: "java.util.Map"})
	assert.Equal(t, 4, im.Len())
	assert.Equal(t, 5, clone.Len())
}
