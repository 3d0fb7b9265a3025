package codepad

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/livejava/java/stdlib"
	"github.com/dhamidi/livejava/java/types"
)

var (
	libOnce sync.Once
	lib     *stdlib.Library
	libErr  error
)

func analyzer(t *testing.T, bench Values) *Analyzer {
	t.Helper()
	libOnce.Do(func() { lib, libErr = stdlib.New() })
	require.NoError(t, libErr)
	return New(lib, "", bench)
}

func class(t *testing.T, name string, args ...types.Type) *types.Class {
	t.Helper()
	r := lib.LoadClass(name)
	require.NotNil(t, r, name)
	return &types.Class{Ref: r, Args: args}
}

func TestExpressionTypes(t *testing.T) {
	a := analyzer(t, nil)
	list := class(t, "java.util.List", class(t, "java.lang.String"))
	a.bench = Values{
		"list":  list,
		"x":     types.Int,
		"names": types.ArrayOf(class(t, "java.lang.String"), 1),
	}

	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "int"},
		{"1 + 2L", "long"},
		{"1.5f * 2", "float"},
		{"'a' + 1", "int"},
		{`"a" + 1`, "java.lang.String"},
		{"1 < 2", "boolean"},
		{"!true", "boolean"},
		{"-5", "int"},
		{"~5L", "long"},
		{"1 << 40L", "int"},
		{"true & false", "boolean"},
		{"3 & 5L", "long"},
		{"x = 3", "int"},
		{"x++", "int"},
		{"(byte) x", "byte"},
		{`(Object) "s"`, "java.lang.Object"},
		{"true ? 1 : 'a'", "char"},
		{"true ? 1 : null", "java.lang.Integer"},
		{"true ? 1 : 2.0", "double"},
		{"Math.max(1, 2)", "int"},
		{"Math.max(1, 2.0)", "double"},
		{"Math.PI", "double"},
		{"Integer.valueOf(3)", "java.lang.Integer"},
		{"System.out", "java.io.PrintStream"},
		{"System.out.println(1)", "void"},
		{`"abc".length()`, "int"},
		{`"abc".substring(1).toUpperCase()`, "java.lang.String"},
		{`"abc".getClass()`, "java.lang.Class<? extends java.lang.String>"},
		{"list.getClass()", "java.lang.Class<? extends java.util.List>"},
		{"String.class", "java.lang.Class<java.lang.String>"},
		{"int.class", "java.lang.Class<java.lang.Integer>"},
		{"new java.util.ArrayList<String>()", "java.util.ArrayList<java.lang.String>"},
		{"new java.util.ArrayList<>()", "java.util.ArrayList<java.lang.Object>"},
		{"new java.util.ArrayList<>(list)", "java.util.ArrayList<java.lang.String>"},
		{"new int[3][]", "int[][]"},
		{"names[0]", "java.lang.String"},
		{"names.length", "int"},
		{"list.get(0)", "java.lang.String"},
		{"list.size() > 0", "boolean"},
		{"list.iterator()", "java.util.Iterator<java.lang.String>"},
		{"java.util.List.of(1, 2)", "java.util.List<java.lang.Integer>"},
		{"x instanceof Integer", "boolean"},
		{"nosuch.foo()", ""},
		{"unknown + 1", ""},
		{"list.get()", ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := a.ParseCommand(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, KindExpression, res.Kind)
			assert.Equal(t, tt.want, res.Type)
		})
	}
}

func TestNotAnExpression(t *testing.T) {
	a := analyzer(t, nil)
	for _, text := range []string{"1 +", "x = 5;", "for (;;) {}", "a b c"} {
		_, err := a.ExpressionType(text)
		assert.ErrorIs(t, err, ErrNotExpression, text)
	}

	res, err := a.ParseCommand("for (int i = 0; i < 3; i++) {}")
	require.NoError(t, err)
	assert.Equal(t, KindStatement, res.Kind)
	assert.Equal(t, "for (int i = 0; i < 3; i++) {}", res.Amended)
}

func TestDeclarationsAreAmended(t *testing.T) {
	a := analyzer(t, nil)

	res, err := a.ParseCommand("int x;")
	require.NoError(t, err)
	assert.Equal(t, KindDeclaration, res.Kind)
	require.Len(t, res.Vars, 1)
	assert.Equal(t, "x", res.Vars[0].Name)
	assert.Equal(t, types.Int, res.Vars[0].Type)
	assert.False(t, res.Vars[0].Initialized)
	assert.Equal(t, "int x;\nx = 0;\n", res.Amended)

	res, err = a.ParseCommand(`String s, t = "a"; boolean b; final int c; var v = 1;`)
	require.NoError(t, err)
	require.Len(t, res.Vars, 5)
	assert.Equal(t, "java.lang.String", res.Vars[1].Type.String())
	assert.True(t, res.Vars[1].Initialized)
	assert.True(t, res.Vars[3].Final)
	assert.Nil(t, res.Vars[4].Type)
	assert.Equal(t, `String s, t = "a"; boolean b; final int c; var v = 1;`+"\ns = null;\n\nb = false;\n", res.Amended)

	res, err = a.ParseCommand("int[] xs[];")
	require.NoError(t, err)
	assert.Equal(t, "int[][]", res.Vars[0].Type.String())
	assert.Equal(t, "int[] xs[];\nxs = null;\n", res.Amended)
}

func TestImports(t *testing.T) {
	a := analyzer(t, nil)

	res, err := a.ParseCommand("import java.util.*;")
	require.NoError(t, err)
	assert.Equal(t, KindImport, res.Kind)
	assert.Empty(t, res.Amended)
	assert.Equal(t, "import java.util.*;", a.ImportStatements())

	res, err = a.ParseCommand("new ArrayList<String>()")
	require.NoError(t, err)
	assert.Empty(t, res.Type, "import is not in effect before it is confirmed")

	_, err = a.ParseCommand("import java.util.*;")
	require.NoError(t, err)
	require.NoError(t, a.ConfirmCommand())
	res, err = a.ParseCommand("new ArrayList<String>()")
	require.NoError(t, err)
	assert.Equal(t, "java.util.ArrayList<java.lang.String>", res.Type)

	_, err = a.ParseCommand("import static java.lang.Math.max;")
	require.NoError(t, err)
	require.NoError(t, a.ConfirmCommand())
	res, err = a.ParseCommand("max(1, 2L)")
	require.NoError(t, err)
	assert.Equal(t, "long", res.Type)

	_, err = a.ParseCommand("import static java.lang.Math.*;")
	require.NoError(t, err)
	require.NoError(t, a.ConfirmCommand())
	res, err = a.ParseCommand("PI * 2")
	require.NoError(t, err)
	assert.Equal(t, "double", res.Type)

	_, err = a.ParseCommand("import no.such.Thing;")
	require.NoError(t, err)
	assert.Error(t, a.ConfirmCommand())

	assert.Equal(t, "import java.util.*;\nimport static java.lang.Math.max;\nimport static java.lang.Math.*;\n", a.ImportStatements())
	assert.Len(t, a.Imports(), 3)

	a.Reset()
	assert.Empty(t, a.ImportStatements())
}

func TestPackageScope(t *testing.T) {
	analyzer(t, nil)
	a := New(lib, "java.util", nil)
	ty, err := a.ExpressionType("new Random().nextInt(6)")
	require.NoError(t, err)
	require.NotNil(t, ty)
	assert.Equal(t, "int", ty.String())
}

func TestBenchShadowsClasses(t *testing.T) {
	a := analyzer(t, Values{"Math": types.Int})
	res, err := a.ParseCommand("Math + 1")
	require.NoError(t, err)
	assert.Equal(t, "int", res.Type)
	assert.Equal(t, "statement", KindStatement.String())
}
