package names

import (
	"path/filepath"
	"testing"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"foo", true},
		{"_x1", true},
		{"$", true},
		{"über", true},
		{"", false},
		{"1abc", false},
		{"a-b", false},
		{"a.b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsQualifiedIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"java.util", true},
		{"a", true},
		{"java.1util", false},
		{"java util", false},
	}
	for _, tt := range tests {
		if got := IsQualifiedIdentifier(tt.in); got != tt.want {
			t.Errorf("IsQualifiedIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrefixAndBase(t *testing.T) {
	tests := []struct {
		in, prefix, base string
	}{
		{"java.util.List", "java.util", "List"},
		{"List", "", "List"},
		{"a.B$C", "a", "B$C"},
		{".x", "", "x"},
	}
	for _, tt := range tests {
		if got := Prefix(tt.in); got != tt.prefix {
			t.Errorf("Prefix(%q) = %q, want %q", tt.in, got, tt.prefix)
		}
		if got := Base(tt.in); got != tt.base {
			t.Errorf("Base(%q) = %q, want %q", tt.in, got, tt.base)
		}
	}
	if got := StripPrefix("a.b.C"); got != "C" {
		t.Errorf("StripPrefix = %q, want %q", got, "C")
	}
}

func TestStripSuffix(t *testing.T) {
	tests := []struct {
		name, suffix, want string
	}{
		{"Foo.java", ".java", "Foo"},
		{".java", ".java", ".java"},
		{"int[][]", "[]", "int[]"},
		{"Foo", ".java", "Foo"},
	}
	for _, tt := range tests {
		if got := StripSuffix(tt.name, tt.suffix); got != tt.want {
			t.Errorf("StripSuffix(%q, %q) = %q, want %q", tt.name, tt.suffix, got, tt.want)
		}
	}
	if got := ArrayElementType("String[]"); got != "String" {
		t.Errorf("ArrayElementType = %q, want %q", got, "String")
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"java.lang.String", "java.lang.String"},
		{"[I", "int[]"},
		{"[[Z", "boolean[][]"},
		{"[Ljava.lang.String;", "java.lang.String[]"},
		{"[[J", "long[][]"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.in); got != tt.want {
			t.Errorf("TypeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCombineNames(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"", "A", "A"},
		{"p", "", "p"},
		{"p.q", "A", "p.q.A"},
	}
	for _, tt := range tests {
		if got := CombineNames(tt.a, tt.b); got != tt.want {
			t.Errorf("CombineNames(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestQualifiedNameFromFile(t *testing.T) {
	base := filepath.Join("proj", "src")
	got, ok := QualifiedNameFromFile(base, filepath.Join(base, "a", "b", "C.java"))
	if !ok || got != "a.b.C" {
		t.Errorf("QualifiedNameFromFile = %q, %v, want %q, true", got, ok, "a.b.C")
	}
	if _, ok := QualifiedNameFromFile(base, filepath.Join("proj", "other", "D.java")); ok {
		t.Errorf("QualifiedNameFromFile outside base = true, want false")
	}
	if got := FileFromQualifiedName("a.b.C"); got != filepath.Join("a", "b", "C") {
		t.Errorf("FileFromQualifiedName = %q", got)
	}
}
