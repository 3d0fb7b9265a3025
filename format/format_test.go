package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/livejava/java/info"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/stdlib"
)

var (
	libOnce sync.Once
	lib     *stdlib.Library
)

func library(t *testing.T) *stdlib.Library {
	t.Helper()
	var err error
	libOnce.Do(func() { lib, err = stdlib.New() })
	if err != nil {
		t.Fatalf("load library: %v", err)
	}
	if lib == nil {
		t.Fatal("library failed to load earlier")
	}
	return lib
}

func sampleClass() *info.ClassInfo {
	return &info.ClassInfo{
		Name:       "Shape",
		Package:    "geo",
		Public:     true,
		Superclass: "geo.Base",
		Implements: []string{"java.lang.Comparable", ""},
		TypeParams: []string{"T"},
		Used:       []string{"Point", "Base"},
		Comments: []info.Comment{
			{Target: "void move(int, int)", Text: "/**\n * Moves the shape.\n * @param dx offset\n */", Params: "dx dy"},
			{Target: "Shape()"},
		},
		ExtendsReplace:      &info.Selection{Line: 3, Column: 22, EndLine: 3, EndColumn: 26},
		PackageStatement:    &info.Selection{Line: 1, Column: 1, EndLine: 1, EndColumn: 8},
		InterfaceSelections: []info.Selection{{Line: 3, Column: 38, EndLine: 3, EndColumn: 48}},
	}
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "*format.LineEncoder"},
		{name: "text", want: "*format.LineEncoder"},
		{name: "json", want: "*format.JSONEncoder"},
		{name: "yaml", want: "*format.YAMLEncoder"},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncoder(tt.name, &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(enc); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *LineEncoder:
		return "*format.LineEncoder"
	case *JSONEncoder:
		return "*format.JSONEncoder"
	case *YAMLEncoder:
		return "*format.YAMLEncoder"
	}
	return "?"
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(sampleClass()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := strings.Join([]string{
		"class\tgeo.Shape\tpublic",
		"extends\tgeo.Base",
		"implements\tjava.lang.Comparable",
		"implements\t?",
		"typeparam\tT",
		"used\tPoint",
		"used\tBase",
		"method\tvoid move(int, int)\tdx dy\tMoves the shape.",
		"method\tShape()\t\t",
		"selection\textendsReplace\t3:22-3:26",
		"selection\tinterface0\t3:38-3:48",
		"selection\tpackageStatement\t1:1-1:8",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLineEncoderMarksErrors(t *testing.T) {
	c := &info.ClassInfo{Name: "Broken", Interface: true, HadError: true}
	text, err := (&LineEncoder{class: c}).MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "interface\tBroken\tpackage\nerror\n"
	if string(text) != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(sampleClass()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("output should end in a newline: %q", buf.String())
	}

	var data classData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Name != "geo.Shape" || data.SimpleName != "Shape" || data.Kind != "class" {
		t.Errorf("unexpected header: %+v", data)
	}
	if len(data.Comments) != 2 || strings.Join(data.Comments[0].Params, ",") != "dx,dy" {
		t.Errorf("unexpected comments: %+v", data.Comments)
	}
	if sel, ok := data.Selections["extendsReplace"]; !ok || sel.Column != 22 {
		t.Errorf("extendsReplace: got %+v", data.Selections)
	}
	if _, ok := data.Selections["superReplace"]; ok {
		t.Error("absent selections should not be written")
	}
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLEncoder(&buf).Encode(sampleClass()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var data classData
	if err := yaml.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Visibility != "public" || data.SuperClass != "geo.Base" {
		t.Errorf("unexpected data: %+v", data)
	}
	if got := data.Selections["interface0"]; got.EndColumn != 48 {
		t.Errorf("interface0: got %+v", got)
	}
}

func TestClassKind(t *testing.T) {
	tests := []struct {
		class *info.ClassInfo
		want  string
	}{
		{&info.ClassInfo{}, "class"},
		{&info.ClassInfo{Interface: true}, "interface"},
		{&info.ClassInfo{Enum: true}, "enum"},
		{&info.ClassInfo{Record: true}, "record"},
	}
	for _, tt := range tests {
		if got := classKind(tt.class); got != tt.want {
			t.Errorf("classKind(%+v) = %s, want %s", tt.class, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", ""},
		{"/** Short. */", "Short."},
		{"/**\n * First.\n * Second.\n */", "First."},
		{"/**\n *\n * After blank.\n */", "After blank."},
	}
	for _, tt := range tests {
		if got := firstLine(tt.text); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

const treeSource = "class A {\n  int x;\n  void m() { }\n}\n"

func TestWriteTree(t *testing.T) {
	u, err := nodes.ParseString(treeSource, nil, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTree(&buf, u.Root, []byte(treeSource)); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "unit 1:1-5:1" {
		t.Errorf("root line: got %q", lines[0])
	}
	for _, want := range []string{"  typedef A 1:1-", "field", "method m 3:3-"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("tree lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestTreeJSONEncoder(t *testing.T) {
	u, err := nodes.ParseString(treeSource, nil, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := NewTreeJSONEncoder(&buf, []byte(treeSource)).Encode(u.Root); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var root treeNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root.Kind != "unit" || len(root.Children) != 1 {
		t.Fatalf("unexpected root: %+v", root)
	}
	class := root.Children[0]
	if class.Kind != "typedef" || class.Name != "A" {
		t.Errorf("unexpected class node: %+v", class)
	}
	if class.Span.Start.Line != 1 || class.Span.End.Line != 4 {
		t.Errorf("class span: %+v", class.Span)
	}
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex([]byte("ab\ncd\n\nx"))
	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		p := idx.position(tt.offset)
		if p.Line != tt.line || p.Column != tt.column {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tt.offset, p.Line, p.Column, tt.line, tt.column)
		}
	}
}

func TestWriteEvents(t *testing.T) {
	var rec parser.Recorder
	p := parser.ParseCompilationUnit(strings.NewReader("package a.b;\nimport java.util.List;\n"), &rec)
	if err := p.Finish(); err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, rec.Events); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(rec.Events) {
		t.Fatalf("got %d lines for %d events", len(lines), len(rec.Events))
	}
	if lines[0] != `BeginPackage Token="package"@1:1` {
		t.Errorf("first event: got %q", lines[0])
	}
	if lines[1] != `Package Tokens="a.b"` {
		t.Errorf("second event: got %q", lines[1])
	}
	if !strings.Contains(buf.String(), `Import Start="import"@2:1 Static=false Wildcard=false Name="javautilList"`) {
		t.Errorf("import event missing:\n%s", buf.String())
	}
}

func TestJavaEncoder(t *testing.T) {
	src := `package geo;

public class Box<T extends Comparable<T>> implements Runnable {
    private T item;
    public static int count;

    public Box(T item) { this.item = item; }

    public T get() { return item; }

    public void run() { }
}
`
	u, err := nodes.ParseString(src, library(t), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	u.Resolve()

	var buf bytes.Buffer
	if err := NewJavaEncoder(&buf).Encode(u.Types[0]); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"package geo;\n\n",
		"public class Box<T extends java.lang.Comparable<T>> implements java.lang.Runnable {\n",
		"    public static int count;\n",
		"    private T item;\n",
		"    public Box(T item) { }\n",
		"    public T get() { }\n",
		"    public void run() { }\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stub lacks %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Box(T item)") > strings.Index(got, "get()") {
		t.Errorf("constructors should come first:\n%s", got)
	}
}
