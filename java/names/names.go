// Package names holds helpers for Java identifiers and dotted names.
package names

import (
	"path/filepath"
	"strings"
	"unicode"
)

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || unicode.Is(unicode.Sc, r) || unicode.Is(unicode.Pc, r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// IsIdentifier reports whether s is a valid Java identifier. Keywords
// are not rejected.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return true
}

// IsQualifiedIdentifier reports whether s is a dotted sequence of
// identifiers. The empty string, which names the default package, is
// accepted.
func IsQualifiedIdentifier(s string) bool {
	if s == "" {
		return true
	}
	for _, part := range strings.Split(s, ".") {
		if part != "" && !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// StripPrefix returns the last component of a dotted name.
func StripPrefix(name string) string {
	return Base(name)
}

// StripSuffix removes suffix from the end of name, unless name consists
// of nothing but the suffix.
func StripSuffix(name, suffix string) string {
	if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
		return name[:len(name)-len(suffix)]
	}
	return name
}

// Base returns the part of a dotted name after its last dot.
func Base(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Prefix returns the part of a dotted name before its last dot, or the
// empty string for an undotted name.
func Prefix(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}

var descriptorNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// TypeName converts a JVM array class name such as "[[I" or
// "[Ljava.lang.String;" into source form. Other names are returned
// unchanged.
func TypeName(className string) string {
	if !strings.HasPrefix(className, "[") {
		return className
	}
	dims := 0
	for strings.HasPrefix(className, "[") {
		className = className[1:]
		dims++
	}
	var elem string
	switch {
	case strings.HasPrefix(className, "L"):
		elem = strings.TrimSuffix(className[1:], ";")
	case len(className) == 1 && descriptorNames[className[0]] != "":
		elem = descriptorNames[className[0]]
	default:
		elem = className
	}
	return elem + strings.Repeat("[]", dims)
}

// CombineNames joins two dotted names, either of which may be empty.
func CombineNames(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	}
	return first + "." + second
}

// ArrayElementType strips one "[]" from an array type name.
func ArrayElementType(arrayType string) string {
	return StripSuffix(arrayType, "[]")
}

// QualifiedNameFromFile derives the qualified class name of a source or
// class file below baseDir: "src/a/b/C.java" under "src" is "a.b.C". It
// returns false when path is not below baseDir.
func QualifiedNameFromFile(baseDir, path string) (string, bool) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := parts[len(parts)-1]
	if i := strings.IndexByte(last, '.'); i >= 0 {
		parts[len(parts)-1] = last[:i]
	}
	return strings.Join(parts, "."), true
}

// FileFromQualifiedName turns "a.b.C" into the relative path "a/b/C".
func FileFromQualifiedName(name string) string {
	return filepath.Join(strings.Split(name, ".")...)
}
