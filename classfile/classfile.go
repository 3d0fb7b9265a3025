// Package classfile reads the parts of a compiled Java class that matter
// for name and type resolution: the constant pool, access flags, fields
// and methods, and the Signature, InnerClasses, Exceptions,
// MethodParameters, ConstantValue and SourceFile attributes. Method code
// and annotations are skipped.
package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member

	// Signature is the generic class signature, empty for a class that
	// neither declares type parameters nor extends a parameterized type.
	Signature    string
	SourceFile   string
	InnerClasses []InnerClass
	Deprecated   bool
}

// Member is a field or method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Signature   string
	// Exceptions are the internal names of the declared thrown types.
	Exceptions []string
	// ParamNames is nil unless the class was compiled with -parameters.
	ParamNames []string
	// ConstantValue is the value of a constant field.
	ConstantValue any
	Deprecated    bool
}

// InnerClass is one entry of the InnerClasses attribute. Outer and Name
// are empty for local and anonymous classes.
type InnerClass struct {
	Inner       string
	Outer       string
	Name        string
	AccessFlags AccessFlags
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsModule() bool {
	return cf.AccessFlags.IsModule()
}

// Flags returns the access flags the class was declared with. For a
// nested class they come from its own InnerClasses entry, which, unlike
// the class flags, records private, protected and static.
func (cf *ClassFile) Flags() AccessFlags {
	if ic := cf.InnerClass(cf.ClassName()); ic != nil {
		return ic.AccessFlags
	}
	return cf.AccessFlags
}

// InnerClass returns the InnerClasses entry for the class with internal
// name inner, or nil.
func (cf *ClassFile) InnerClass(inner string) *InnerClass {
	for i := range cf.InnerClasses {
		if cf.InnerClasses[i].Inner == inner {
			return &cf.InnerClasses[i]
		}
	}
	return nil
}

// MemberClasses lists the entries of the classes declared as members of
// this class.
func (cf *ClassFile) MemberClasses() []InnerClass {
	this := cf.ClassName()
	var out []InnerClass
	for _, ic := range cf.InnerClasses {
		if ic.Outer == this && ic.Name != "" {
			out = append(out, ic)
		}
	}
	return out
}

func (cf *ClassFile) GetField(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// GetMethod finds a method by name and, unless descriptor is empty, by
// descriptor.
func (cf *ClassFile) GetMethod(name, descriptor string) *Member {
	for i := range cf.Methods {
		if cf.Methods[i].Name == name {
			if descriptor == "" || cf.Methods[i].Descriptor == descriptor {
				return &cf.Methods[i]
			}
		}
	}
	return nil
}

func (cf *ClassFile) GetMethods(name string) []*Member {
	var methods []*Member
	for i := range cf.Methods {
		if cf.Methods[i].Name == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

func (m *Member) IsPublic() bool    { return m.AccessFlags.IsPublic() }
func (m *Member) IsPrivate() bool   { return m.AccessFlags.IsPrivate() }
func (m *Member) IsProtected() bool { return m.AccessFlags.IsProtected() }
func (m *Member) IsStatic() bool    { return m.AccessFlags.IsStatic() }
func (m *Member) IsFinal() bool     { return m.AccessFlags.IsFinal() }
func (m *Member) IsSynthetic() bool { return m.AccessFlags.IsSynthetic() }

func (m *Member) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m *Member) IsStaticInitializer() bool {
	return m.Name == "<clinit>"
}
