package types

import (
	"strings"
)

// ObjectName is the binary name of java.lang.Object.
const ObjectName = "java.lang.Object"

// Reflective is a class or interface declaration.
type Reflective interface {
	// Name is the binary name, with '$' separating nested classes.
	Name() string
	TypeParams() []*TypeParam
	// SuperTypes lists the direct supertypes in terms of the
	// declaration's own type parameters. Every class and interface except
	// java.lang.Object has at least one.
	SuperTypes() []*Class
	// Methods lists the declared methods by name; constructors are
	// listed under "<init>".
	Methods() map[string][]*Method
	Fields() map[string]*Field
	MemberType(name string) Reflective
	IsInterface() bool
	Modifiers() Modifiers
}

// Loader finds class declarations by binary name.
type Loader interface {
	LoadClass(name string) Reflective
}

// Modifiers are access and property flags, with the values the class
// file format uses.
type Modifiers uint16

const (
	Public    Modifiers = 0x0001
	Private   Modifiers = 0x0002
	Protected Modifiers = 0x0004
	Static    Modifiers = 0x0008
	Final     Modifiers = 0x0010
	Varargs   Modifiers = 0x0080
	Interface Modifiers = 0x0200
	Abstract  Modifiers = 0x0400
)

var modifierKeywords = map[string]Modifiers{
	"public":    Public,
	"private":   Private,
	"protected": Protected,
	"static":    Static,
	"final":     Final,
	"abstract":  Abstract,
}

// ModifierByKeyword maps a modifier keyword to its flag; keywords with no
// flag, such as "transient", map to zero.
func ModifierByKeyword(kw string) Modifiers {
	return modifierKeywords[kw]
}

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag != 0
}

// ConstructorName is the key constructors are stored under in Methods.
const ConstructorName = "<init>"

// Method is a declared method or constructor. Return is nil for
// constructors. Types refer to the declaring class's type parameters
// and to the method's own.
type Method struct {
	Name       string
	Declaring  Reflective
	TypeParams []*TypeParam
	Params     []Type
	ParamNames []string
	Return     Type
	Varargs    bool
	Modifiers  Modifiers
	Javadoc    string
}

func (m *Method) IsStatic() bool {
	return m.Modifiers.Has(Static)
}

func (m *Method) IsAbstract() bool {
	return m.Modifiers.Has(Abstract)
}

// String renders the method as a declaration without body, for example
// "java.lang.String substring(int begin, int end)".
func (m *Method) String() string {
	var sb strings.Builder
	if len(m.TypeParams) > 0 {
		sb.WriteByte('<')
		for i, tp := range m.TypeParams {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(tp.Name)
		}
		sb.WriteString("> ")
	}
	if m.Return != nil {
		sb.WriteString(m.Return.String())
		sb.WriteByte(' ')
	}
	name := m.Name
	if name == ConstructorName && m.Declaring != nil {
		name = simpleName(m.Declaring.Name())
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		ps := p.String()
		if m.Varargs && i == len(m.Params)-1 {
			ps = strings.TrimSuffix(ps, "[]") + "..."
		}
		sb.WriteString(ps)
		if i < len(m.ParamNames) && m.ParamNames[i] != "" {
			sb.WriteByte(' ')
			sb.WriteString(m.ParamNames[i])
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

type Field struct {
	Name      string
	Declaring Reflective
	Type      Type
	Modifiers Modifiers
	Javadoc   string
}

func simpleName(binary string) string {
	if i := strings.LastIndexAny(binary, ".$"); i >= 0 {
		return binary[i+1:]
	}
	return binary
}

// ClassDef is a Reflective assembled from plain values.
type ClassDef struct {
	QualifiedName string
	Params        []*TypeParam
	Supers        []*Class
	MethodMap     map[string][]*Method
	FieldMap      map[string]*Field
	Members       map[string]Reflective
	Flags         Modifiers
}

func (d *ClassDef) Name() string                  { return d.QualifiedName }
func (d *ClassDef) TypeParams() []*TypeParam      { return d.Params }
func (d *ClassDef) SuperTypes() []*Class          { return d.Supers }
func (d *ClassDef) Methods() map[string][]*Method { return d.MethodMap }
func (d *ClassDef) Fields() map[string]*Field     { return d.FieldMap }
func (d *ClassDef) IsInterface() bool             { return d.Flags.Has(Interface) }
func (d *ClassDef) Modifiers() Modifiers          { return d.Flags }

func (d *ClassDef) MemberType(name string) Reflective {
	return d.Members[name]
}

// AddMethod declares m on d.
func (d *ClassDef) AddMethod(m *Method) {
	if d.MethodMap == nil {
		d.MethodMap = make(map[string][]*Method)
	}
	m.Declaring = d
	d.MethodMap[m.Name] = append(d.MethodMap[m.Name], m)
}

// AddField declares f on d.
func (d *ClassDef) AddField(f *Field) {
	if d.FieldMap == nil {
		d.FieldMap = make(map[string]*Field)
	}
	f.Declaring = d
	d.FieldMap[f.Name] = f
}

// Named returns a class type for a declaration known only by name. It
// has no members and no supertypes beyond java.lang.Object.
func Named(name string) *Class {
	if name == ObjectName {
		return &Class{Ref: objectDef}
	}
	return &Class{Ref: &ClassDef{
		QualifiedName: name,
		Supers:        []*Class{{Ref: objectDef}},
		Flags:         Public,
	}}
}

var objectDef = &ClassDef{QualifiedName: ObjectName, Flags: Public}

// Object returns java.lang.Object as declared by l, or a bare stand-in
// when l is nil or does not know it.
func Object(l Loader) *Class {
	return Load(l, ObjectName)
}

// Load returns the class named name from l, falling back to Named.
func Load(l Loader, name string) *Class {
	if l != nil {
		if r := l.LoadClass(name); r != nil {
			return &Class{Ref: r}
		}
	}
	return Named(name)
}
