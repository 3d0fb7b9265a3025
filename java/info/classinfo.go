// Package info extracts what a class diagram needs from a Java source
// file: the primary type's name and supertypes, method signatures with
// their comments and parameter names, the classes of the same package it
// uses, and the text positions needed to rewrite its header.
package info

import (
	"errors"
	"slices"
)

// ErrNoClass is returned when a source file declares no named type.
var ErrNoClass = errors.New("no class declaration found")

// Comment is a method or constructor with its documentation. Target is
// the erased signature, such as "void resize(int, int)"; Params are the
// parameter names separated by spaces.
type Comment struct {
	Target string `json:"target" yaml:"target"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Params string `json:"params,omitempty" yaml:"params,omitempty"`
}

// ClassInfo describes the primary type of a compilation unit.
type ClassInfo struct {
	Name      string `json:"name" yaml:"name"`
	Package   string `json:"package" yaml:"package"`
	Public    bool   `json:"public" yaml:"public"`
	Interface bool   `json:"interface" yaml:"interface"`
	Enum      bool   `json:"enum" yaml:"enum"`
	Record    bool   `json:"record,omitempty" yaml:"record,omitempty"`

	// Superclass is the binary name of the declared superclass, empty
	// when there is none or it could not be resolved.
	Superclass string `json:"superclass" yaml:"superclass"`
	// Implements holds one binary name per implemented interface, empty
	// for interfaces that could not be resolved.
	Implements []string `json:"implements" yaml:"implements"`
	TypeParams []string `json:"typeParams,omitempty" yaml:"typeParams,omitempty"`

	Comments []Comment `json:"comments" yaml:"comments"`
	// Used lists the simple names of classes in the target package the
	// file refers to, in order of first resolution.
	Used []string `json:"used" yaml:"used"`

	HadError bool `json:"hadError" yaml:"hadError"`

	ExtendsInsert       *Selection  `json:"extendsInsert,omitempty" yaml:"extendsInsert,omitempty"`
	ExtendsReplace      *Selection  `json:"extendsReplace,omitempty" yaml:"extendsReplace,omitempty"`
	SuperReplace        *Selection  `json:"superReplace,omitempty" yaml:"superReplace,omitempty"`
	ImplementsInsert    *Selection  `json:"implementsInsert,omitempty" yaml:"implementsInsert,omitempty"`
	InterfaceSelections []Selection `json:"interfaceSelections,omitempty" yaml:"interfaceSelections,omitempty"`
	PackageStatement    *Selection  `json:"packageStatement,omitempty" yaml:"packageStatement,omitempty"`
	PackageName         *Selection  `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	PackageSemi         *Selection  `json:"packageSemi,omitempty" yaml:"packageSemi,omitempty"`
}

// AddUsed records a used class, once.
func (c *ClassInfo) AddUsed(name string) {
	if name == c.Name || slices.Contains(c.Used, name) {
		return
	}
	c.Used = append(c.Used, name)
}

// AddComment records a method signature with its comment and parameter
// names.
func (c *ClassInfo) AddComment(target, text, params string) {
	c.Comments = append(c.Comments, Comment{Target: target, Text: text, Params: params})
}

// AddImplements records an implemented interface; pass "" for one that
// did not resolve.
func (c *ClassInfo) AddImplements(name string) {
	c.Implements = append(c.Implements, name)
}

// Comment returns the comment for target, if recorded.
func (c *ClassInfo) Comment(target string) (Comment, bool) {
	for _, cm := range c.Comments {
		if cm.Target == target {
			return cm, true
		}
	}
	return Comment{}, false
}

// Uses reports whether name was recorded as used.
func (c *ClassInfo) Uses(name string) bool {
	return slices.Contains(c.Used, name)
}
