package format

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dhamidi/livejava/java/types"
)

// JavaEncoder renders a class declaration as a Java stub: header,
// fields and method signatures without bodies. It works for any
// declaration, from source, a class file or the core library.
type JavaEncoder struct {
	w     io.Writer
	class types.Reflective
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class types.Reflective) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	if pkg := types.PackageOf(c.Name()); pkg != "" {
		sb.WriteString("package ")
		sb.WriteString(pkg)
		sb.WriteString(";\n\n")
	}

	e.writeClassDeclaration(&sb)
	sb.WriteString(" {\n")

	e.writeFields(&sb)
	e.writeMethods(&sb)

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func simpleName(c types.Reflective) string {
	name := c.Name()
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func writeModifiers(sb *strings.Builder, mods types.Modifiers, iface bool) {
	switch {
	case mods.Has(types.Public):
		sb.WriteString("public ")
	case mods.Has(types.Private):
		sb.WriteString("private ")
	case mods.Has(types.Protected):
		sb.WriteString("protected ")
	}
	if mods.Has(types.Static) {
		sb.WriteString("static ")
	}
	if mods.Has(types.Abstract) && !iface {
		sb.WriteString("abstract ")
	}
	if mods.Has(types.Final) {
		sb.WriteString("final ")
	}
}

func writeTypeParams(sb *strings.Builder, params []*types.TypeParam) {
	if len(params) == 0 {
		return
	}
	sb.WriteString("<")
	for i, tp := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tp.Name)
		for j, b := range tp.Bounds {
			if j == 0 {
				sb.WriteString(" extends ")
			} else {
				sb.WriteString(" & ")
			}
			sb.WriteString(b.String())
		}
	}
	sb.WriteString(">")
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder) {
	c := e.class
	writeModifiers(sb, c.Modifiers(), c.IsInterface())
	if c.IsInterface() {
		sb.WriteString("interface ")
	} else {
		sb.WriteString("class ")
	}
	sb.WriteString(simpleName(c))
	writeTypeParams(sb, c.TypeParams())

	var interfaces []string
	for _, s := range c.SuperTypes() {
		switch {
		case s.Ref.IsInterface():
			interfaces = append(interfaces, s.String())
		case s.Name() != types.ObjectName && !c.IsInterface():
			sb.WriteString(" extends ")
			sb.WriteString(s.String())
		}
	}
	if len(interfaces) > 0 {
		if c.IsInterface() {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		sb.WriteString(strings.Join(interfaces, ", "))
	}
}

func (e *JavaEncoder) writeFields(sb *strings.Builder) {
	fields := e.class.Fields()
	names := slices.Sorted(maps.Keys(fields))
	for _, name := range names {
		f := fields[name]
		sb.WriteString("    ")
		writeModifiers(sb, f.Modifiers, false)
		if f.Type != nil {
			sb.WriteString(f.Type.String())
		} else {
			sb.WriteString("?")
		}
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString(";\n")
	}
	if len(fields) > 0 {
		sb.WriteString("\n")
	}
}

func (e *JavaEncoder) writeMethods(sb *strings.Builder) {
	methods := e.class.Methods()
	names := slices.Sorted(maps.Keys(methods))
	if i := slices.Index(names, types.ConstructorName); i > 0 {
		names = append([]string{types.ConstructorName}, slices.Delete(names, i, i+1)...)
	}
	first := true
	for _, name := range names {
		for _, m := range methods[name] {
			if !first {
				sb.WriteString("\n")
			}
			first = false
			sb.WriteString("    ")
			writeModifiers(sb, m.Modifiers, e.class.IsInterface())
			sb.WriteString(m.String())
			if m.IsAbstract() {
				sb.WriteString(";\n")
			} else {
				sb.WriteString(" { }\n")
			}
		}
	}
}
