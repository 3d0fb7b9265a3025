package types

// classes is a tiny class library for tests: a few java.lang types,
// java.util.List and java.util.ArrayList.
type classes map[string]*ClassDef

func (c classes) LoadClass(name string) Reflective {
	if d, ok := c[name]; ok {
		return d
	}
	return nil
}

func (c classes) class(name string, args ...Type) *Class {
	return &Class{Ref: c[name], Args: args}
}

func newClasses() classes {
	c := classes{}
	object := &ClassDef{QualifiedName: ObjectName, Flags: Public}
	c[ObjectName] = object
	obj := &Class{Ref: object}

	def := func(name string, flags Modifiers, params []*TypeParam, supers ...*Class) *ClassDef {
		d := &ClassDef{QualifiedName: name, Params: params, Supers: supers, Flags: flags}
		c[name] = d
		return d
	}

	t := &TypeParam{Name: "T"}
	def("java.lang.Comparable", Public|Interface|Abstract, []*TypeParam{t}, obj)
	str := def("java.lang.String", Public|Final, nil, obj)
	str.Supers = append(str.Supers, c.class("java.lang.Comparable", &Class{Ref: str}))
	def("java.lang.Number", Public|Abstract, nil, obj)
	for _, name := range []string{"Integer", "Long", "Short", "Byte", "Character", "Double", "Float", "Boolean"} {
		full := "java.lang." + name
		super := obj
		if name != "Character" && name != "Boolean" {
			super = c.class("java.lang.Number")
		}
		def(full, Public|Final, nil, super)
		d := c[full]
		d.Supers = append(d.Supers, &Class{Ref: c["java.lang.Comparable"], Args: []Type{&Class{Ref: d}}})
	}
	def("java.lang.Cloneable", Public|Interface|Abstract, nil, obj)

	e := &TypeParam{Name: "E"}
	list := def("java.util.List", Public|Interface|Abstract, []*TypeParam{e}, obj)
	list.AddMethod(&Method{Name: "get", Params: []Type{Int}, Return: e, Modifiers: Public | Abstract})
	list.AddMethod(&Method{Name: "add", Params: []Type{e}, Return: Boolean, Modifiers: Public | Abstract})

	ae := &TypeParam{Name: "E"}
	arrayList := def("java.util.ArrayList", Public, []*TypeParam{ae}, obj, &Class{Ref: list, Args: []Type{ae}})
	arrayList.AddMethod(&Method{Name: "get", Params: []Type{Int}, Return: ae, Modifiers: Public})
	arrayList.AddMethod(&Method{Name: "add", Params: []Type{ae}, Return: Boolean, Modifiers: Public})

	at := &TypeParam{Name: "T"}
	arrays := def("java.util.Arrays", Public, nil, obj)
	arrays.AddMethod(&Method{
		Name:       "asList",
		TypeParams: []*TypeParam{at},
		Params:     []Type{&Array{Elem: at}},
		Return:     &Class{Ref: list, Args: []Type{at}},
		Varargs:    true,
		Modifiers:  Public | Static | Varargs,
	})
	return c
}
