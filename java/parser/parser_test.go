package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEvents(t *testing.T, src string) (*Recorder, *Parser) {
	t.Helper()
	rec := &Recorder{}
	p := ParseCompilationUnit(strings.NewReader(src), rec, WithFile("Test.java"))
	require.NoError(t, p.Finish())
	return rec, p
}

// only keeps the described events whose description starts with one of
// the given prefixes.
func only(rec *Recorder, prefixes ...string) []string {
	var out []string
	for _, s := range rec.Strings() {
		for _, prefix := range prefixes {
			if strings.HasPrefix(s, prefix) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func TestParseClassEvents(t *testing.T) {
	src := `package a.b;
import java.util.List;
public class A extends B implements C, D {
  int x = 1;
  void m(String s) { foo(s); }
}
`
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError())
	assert.Equal(t, []string{
		"BeginPackage",
		"Package a.b",
		"PackageSemi",
		"Import java.util.List",
		"Modifier public",
		"TypeDef class",
		"ModifiersConsumed",
		"TypeDefName A",
		"TypeDefExtends",
		"TypeSpec extends B",
		"TypeDefImplements",
		"TypeSpec implements C",
		"TypeSpec implements D",
		"BeginTypeBody",
		"FieldDecl int",
		"ModifiersConsumed",
		"TypeSpec field int",
		"VarName x",
		"EndField",
		"MethodDecl m",
		"ModifiersConsumed",
		"TypeSpec return void",
		"ModifiersConsumed",
		"TypeSpec param String",
		"MethodParam s",
		"AllMethodParams",
		"BeginMethodBody",
		"ValueName s",
		"EndMethodBody included=true",
		"EndMethod",
		"EndTypeBody included=true",
		"EndTypeDef",
	}, rec.Strings())
}

func TestParseImports(t *testing.T) {
	rec, p := parseEvents(t, "import a.b.*;\nimport static a.B.c;\nimport static a.B.*;\n")
	assert.False(t, p.HadError())
	assert.Equal(t, []string{
		"Import a.b.*",
		"Import a.B.c static",
		"Import a.B.* static",
	}, rec.Strings())
}

func TestParseTypeKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"interface A {}", []string{"TypeDef interface", "TypeDefName A"}},
		{"enum A { X, Y; void m() {} }", []string{
			"TypeDef enum", "TypeDefName A", "EnumConstant X", "EnumConstant Y", "MethodDecl m",
		}},
		{"record R(int x, String... y) {}", []string{
			"TypeDef record", "TypeDefName R", "RecordComponent x", "RecordComponent y",
		}},
		{"@interface Ann { String value() default \"\"; }", []string{
			"TypeDef @interface", "TypeDefName Ann", "MethodDecl value",
		}},
		{"sealed interface S permits P {}", []string{"TypeDef interface", "TypeDefName S"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			rec, p := parseEvents(t, tt.src)
			assert.False(t, p.HadError(), "errors: %v", rec.Errors())
			assert.Equal(t, tt.want, only(rec, "TypeDef ", "TypeDefName", "EnumConstant", "RecordComponent", "MethodDecl"))
		})
	}
}

func TestParseGenericClosers(t *testing.T) {
	src := `class A<T extends Comparable<T>> {
  Map<String, List<T>> m;
  <U extends List<U>> void f(List<List<U>> x) {}
  boolean g(int a, int b) { return a >> b > 0; }
}`
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError(), "errors: %v", rec.Errors())
	assert.Equal(t, []string{
		"TypeParam T",
		"TypeParamBound Comparable<T>",
		"TypeSpec field Map<String,List<T>>",
		"TypeParam U",
		"TypeParamBound List<U>",
		"TypeSpec return void",
		"TypeSpec param List<List<U>>",
		"TypeSpec return boolean",
		"TypeSpec param int",
		"TypeSpec param int",
		"ValueName a",
		"ValueName b",
	}, only(rec, "TypeParam", "TypeSpec", "ValueName"))
}

func TestParseNameUses(t *testing.T) {
	src := `class A { void m() {
  int n = I.xyz;
  Object o = I.class;
  Object p = testpkg.J.class;
  J.k().l;
  a.b.c();
  new X<Y>();
  Object q = (Z) r;
  for (I ii = JJ.someMethod();;) {}
  Runnable f = String::new;
} }`
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError(), "errors: %v", rec.Errors())
	assert.Equal(t, []string{
		"TypeSpec return void",
		"TypeSpec local int",
		"ValueName I.xyz",
		"TypeSpec local Object",
		"ClassLiteral I",
		"TypeSpec local Object",
		"ClassLiteral testpkg.J",
		"ValueName J",
		"ValueName a.b",
		"TypeSpec new X<Y>",
		"TypeSpec local Object",
		"TypeSpec cast Z",
		"ValueName r",
		"TypeSpec local I",
		"ValueName JJ",
		"TypeSpec local Runnable",
		"ValueName String",
	}, only(rec, "TypeSpec", "ValueName", "ClassLiteral"))
}

func TestParseLambdaAndAnonymousClass(t *testing.T) {
	src := `class A { void m() {
  Runnable r = () -> { int y; };
  Object o = new Object() { int f; };
  Function<String, Integer> len = s -> s.length();
} }`
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError(), "errors: %v", rec.Errors())
	assert.Equal(t, []string{
		"TypeDef class",
		"BeginTypeBody",
		"LocalVarDecl Runnable",
		"BeginBlock",
		"BeginBlock",
		"LocalVarDecl int",
		"VarName y",
		"EndBlock included=true",
		"EndBlock included=true",
		"VarName r",
		"LocalVarDecl Object",
		"TypeDef anonymous",
		"BeginTypeBody",
		"FieldDecl int",
		"VarName f",
		"EndTypeBody included=true",
		"EndTypeDef",
		"VarName o",
		"LocalVarDecl Function<String,Integer>",
		"BeginBlock",
		"LocalVarDecl ",
		"VarName s",
		"ValueName s",
		"EndBlock included=true",
		"VarName len",
		"EndTypeBody included=true",
		"EndTypeDef",
	}, only(rec, "LocalVarDecl", "VarName", "BeginBlock", "EndBlock", "TypeDef ", "BeginTypeBody", "EndTypeBody", "EndTypeDef", "FieldDecl", "ValueName"))
}

func TestParseSwitchPatterns(t *testing.T) {
	src := `class A {
  int f(Object o) {
    return switch (o) {
      case String s when s.isEmpty() -> 1;
      case Integer i -> { yield i; }
      default -> 0;
    };
  }
  void g(int k) {
    switch (k) { case 1: case 2: k++; break; default: }
    if (o instanceof String t && t.length() > 0) {}
  }
}`
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError(), "errors: %v", rec.Errors())
	assert.Equal(t, []string{
		"VarName s",
		"VarName i",
		"VarName t",
	}, only(rec, "VarName"))
}

func TestParseYieldIsNotADeclaration(t *testing.T) {
	src := "class A { int f(int k) { return switch (k) { default -> { yield k; } }; } }"
	rec, p := parseEvents(t, src)
	assert.False(t, p.HadError(), "errors: %v", rec.Errors())
	assert.Empty(t, only(rec, "LocalVarDecl", "VarName"))
	assert.Equal(t, []string{"ValueName k", "ValueName k"}, only(rec, "ValueName"))
}

func TestParseJavadoc(t *testing.T) {
	src := "/** A greeter. */\nclass A {\n  /** Says hi. */\n  public void hi() {}\n  /* plain */ int x;\n}"
	rec, _ := parseEvents(t, src)
	var typ TypeDef
	var method MethodDecl
	var field FieldDecl
	for _, e := range rec.Events {
		switch e := e.(type) {
		case TypeDef:
			typ = e
		case MethodDecl:
			method = e
		case FieldDecl:
			field = e
		}
	}
	if typ.Javadoc != "/** A greeter. */" {
		t.Errorf("type Javadoc = %q, want %q", typ.Javadoc, "/** A greeter. */")
	}
	if method.Javadoc != "/** Says hi. */" {
		t.Errorf("Javadoc = %q, want %q", method.Javadoc, "/** Says hi. */")
	}
	if method.Start.Literal != "public" {
		t.Errorf("Start = %q, want %q", method.Start.Literal, "public")
	}
	if field.Javadoc != "" {
		t.Errorf("Javadoc = %q, want empty", field.Javadoc)
	}
}

func TestParseRecovery(t *testing.T) {
	t.Run("unclosed call", func(t *testing.T) {
		src := "class A {\n  public void someMethod() {\n    methodCall(\n  }\n}\n"
		rec, p := parseEvents(t, src)
		assert.True(t, p.HadError())
		errs := rec.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "expected ')'", errs[0].Message)
		assert.Equal(t, 4, errs[0].Token.Span.Start.Line)

		var end EndMethod
		var body EndTypeBody
		for _, e := range rec.Events {
			switch e := e.(type) {
			case EndMethod:
				end = e
			case EndTypeBody:
				body = e
			}
		}
		assert.Equal(t, 58, end.Last.Span.End.Offset)
		assert.True(t, body.Included)
	})

	t.Run("bad member then next type", func(t *testing.T) {
		rec, p := parseEvents(t, "class A { int x = ; ) void m() {} }\nclass B {}")
		assert.True(t, p.HadError())
		assert.Equal(t, []string{"TypeDefName A", "VarName x", "MethodDecl m", "TypeDefName B"},
			only(rec, "TypeDefName", "VarName", "MethodDecl"))
	})

	t.Run("missing braces at end", func(t *testing.T) {
		rec, p := parseEvents(t, "class A {\n  void m() {\n    int x;\n")
		assert.True(t, p.Incomplete())
		assert.Equal(t, []string{"EndMethodBody included=false", "EndTypeBody included=false"},
			only(rec, "EndMethodBody", "EndTypeBody"))
	})

	t.Run("garbage at top level", func(t *testing.T) {
		rec, p := parseEvents(t, "int x; ) ( class C {}")
		assert.True(t, p.HadError())
		assert.Equal(t, []string{"TypeDefName C"}, only(rec, "TypeDefName"))
	})
}

func TestParseExpressionTree(t *testing.T) {
	p := ParseExpression(strings.NewReader("a.b(1) + 2 * c"), nil)
	require.NoError(t, p.Finish())
	require.False(t, p.HadError())

	sum, ok := p.Expr().(*Binary)
	require.True(t, ok, "Expr() = %T, want *Binary", p.Expr())
	assert.Equal(t, TokenPlus, sum.Op.Kind)

	call, ok := sum.Left.(*MethodCall)
	require.True(t, ok, "Left = %T, want *MethodCall", sum.Left)
	assert.Equal(t, "b", call.Name.Literal)
	require.Len(t, call.Args, 1)
	target, ok := call.Target.(*Name)
	require.True(t, ok)
	assert.Equal(t, "a", target.Components[0].Literal)

	product, ok := sum.Right.(*Binary)
	require.True(t, ok, "Right = %T, want *Binary", sum.Right)
	assert.Equal(t, TokenStar, product.Op.Kind)

	assert.Equal(t, 0, sum.Span().Start.Offset)
	assert.Equal(t, 14, sum.Span().End.Offset)
}

func TestParseExpressionForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(int) x", "*parser.Cast"},
		{"(x)", "*parser.Paren"},
		{"x = y", "*parser.Assign"},
		{"a ? b : c", "*parser.Conditional"},
		{"new int[3][]", "*parser.NewArray"},
		{"new java.util.ArrayList<>()", "*parser.New"},
		{"x instanceof String s", "*parser.InstanceOf"},
		{"int[].class", "*parser.ClassLit"},
		{"s -> s", "*parser.Lambda"},
		{"a[0]", "*parser.ArrayAccess"},
		{"-x", "*parser.Unary"},
		{"i++", "*parser.Unary"},
		{"this", "*parser.This"},
		{"List.<String>of()", "*parser.MethodCall"},
		{"\"s\".length()", "*parser.MethodCall"},
		{"Outer.this.x", "*parser.FieldAccess"},
		{"Integer::parseInt", "*parser.MethodRef"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.src), nil)
			require.NoError(t, p.Finish())
			assert.False(t, p.HadError())
			assert.Equal(t, tt.want, fmt.Sprintf("%T", p.Expr()))
		})
	}
}

func TestParseIncompleteExpression(t *testing.T) {
	p := ParseExpression(strings.NewReader("1 +"), nil)
	require.NoError(t, p.Finish())
	assert.True(t, p.HadError())
	assert.True(t, p.Incomplete())
}

func TestParseStatements(t *testing.T) {
	rec := &Recorder{}
	p := ParseStatements(strings.NewReader("int x = 5; x++;\nString s;"), rec, WithStartLine(10))
	require.NoError(t, p.Finish())
	assert.False(t, p.HadError())
	assert.Equal(t, []string{"VarName x", "VarName s"}, only(rec, "VarName"))
	for _, e := range rec.Events {
		if v, ok := e.(VarName); ok && v.Name.Literal == "s" {
			assert.Equal(t, 11, v.Name.Span.Start.Line)
		}
	}
}

func TestListenersFanOut(t *testing.T) {
	var a, b Recorder
	count := 0
	ls := Listeners{&a, nil, ListenerFunc(func(Event) { count++ }), &b}
	p := ParseCompilationUnit(strings.NewReader("class A {}"), ls)
	require.NoError(t, p.Finish())
	assert.Equal(t, a.Strings(), b.Strings())
	assert.Equal(t, len(a.Events), count)
}

func TestParseImportEntry(t *testing.T) {
	tests := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{"import java.util.List;", "Import java.util.List", false},
		{"import static java.lang.Math.*;", "Import java.lang.Math.* static", false},
		{"int x = 5;", "", true},
		{"import java.util.List; x", "Import java.util.List", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			rec := &Recorder{}
			p := ParseImport(strings.NewReader(tt.src), rec)
			require.NoError(t, p.Finish())
			assert.Equal(t, tt.wantErr, p.HadError())
			got := only(rec, "Import")
			if tt.want == "" {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, []string{tt.want}, got)
			}
		})
	}
}

func TestParseVariableDeclarations(t *testing.T) {
	rec := &Recorder{}
	p := ParseVariableDeclarations(strings.NewReader("int a, b = 2; final String s"), rec)
	require.NoError(t, p.Finish())
	assert.False(t, p.HadError())

	var inits []bool
	for _, e := range rec.Events {
		if v, ok := e.(VarName); ok {
			inits = append(inits, v.Init)
		}
	}
	assert.Equal(t, []bool{false, true, false}, inits)
	assert.Contains(t, rec.Strings(), "Modifier final")

	p = ParseVariableDeclarations(strings.NewReader("x = 5;"), &Recorder{})
	require.NoError(t, p.Finish())
	assert.True(t, p.HadError())
}
