package classpath

import (
	"sync"

	"github.com/dhamidi/livejava/classfile"
	"github.com/dhamidi/livejava/java/types"
)

// modifierMask keeps the flags that types.Modifiers shares with the class
// file format.
const modifierMask = types.Public | types.Private | types.Protected | types.Static |
	types.Final | types.Varargs | types.Interface | types.Abstract

// Class is a compiled class. Generic signatures are converted on first
// use; classes they mention are looked up through the path.
type Class struct {
	path *Path
	cf   *classfile.ClassFile
	name string

	header  sync.Once
	params  []*types.TypeParam
	supers  []*types.Class
	members sync.Once
	methods map[string][]*types.Method
	fields  map[string]*types.Field
}

func newClass(p *Path, cf *classfile.ClassFile) *Class {
	return &Class{path: p, cf: cf, name: classfile.InternalToSourceName(cf.ClassName())}
}

// ClassFile returns the parsed class file.
func (c *Class) ClassFile() *classfile.ClassFile {
	return c.cf
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) IsInterface() bool {
	return c.cf.IsInterface()
}

func (c *Class) Modifiers() types.Modifiers {
	return types.Modifiers(c.cf.Flags()) & modifierMask
}

func (c *Class) TypeParams() []*types.TypeParam {
	c.header.Do(c.resolveHeader)
	return c.params
}

func (c *Class) SuperTypes() []*types.Class {
	c.header.Do(c.resolveHeader)
	return c.supers
}

func (c *Class) Methods() map[string][]*types.Method {
	c.members.Do(c.resolveMembers)
	return c.methods
}

func (c *Class) Fields() map[string]*types.Field {
	c.members.Do(c.resolveMembers)
	return c.fields
}

func (c *Class) MemberType(name string) types.Reflective {
	for _, ic := range c.cf.MemberClasses() {
		if ic.Name == name {
			if r := c.path.LoadClass(classfile.InternalToSourceName(ic.Inner)); r != nil {
				return r
			}
		}
	}
	return nil
}

func (c *Class) String() string {
	return c.name
}

// outer returns the enclosing class of an inner (non-static) member
// class, whose type parameters are in scope.
func (c *Class) outer() *Class {
	ic := c.cf.InnerClass(c.cf.ClassName())
	if ic == nil || ic.Outer == "" || ic.AccessFlags.IsStatic() {
		return nil
	}
	o, err := c.path.Find(classfile.InternalToSourceName(ic.Outer))
	if err != nil {
		return nil
	}
	return o
}

func (c *Class) resolveHeader() {
	var sig *classfile.ClassSig
	if c.cf.Signature != "" {
		s, err := classfile.ParseClassSignature(c.cf.Signature)
		if err != nil {
			log.Warningf("%s: %s", c.name, err)
		} else {
			sig = s
		}
	}

	cv := &converter{path: c.path, outer: c.outer()}
	if sig != nil {
		c.params = cv.declare(sig.TypeParams)
	}
	cv.scope = c.params

	if sig != nil {
		if s := cv.class(sig.Super); s != nil && c.cf.SuperClass != 0 {
			c.supers = append(c.supers, s)
		}
		for _, i := range sig.Interfaces {
			if t := cv.class(i); t != nil {
				c.supers = append(c.supers, t)
			}
		}
	} else {
		if s := c.cf.SuperClassName(); s != "" {
			c.supers = append(c.supers, cv.named(s))
		}
		for _, i := range c.cf.InterfaceNames() {
			c.supers = append(c.supers, cv.named(i))
		}
	}

	if c.IsInterface() && len(c.supers) > 1 && c.supers[0].Name() == types.ObjectName {
		c.supers = c.supers[1:]
	}
}

func (c *Class) resolveMembers() {
	c.header.Do(c.resolveHeader)
	c.methods = make(map[string][]*types.Method)
	c.fields = make(map[string]*types.Field)
	cv := &converter{path: c.path, scope: c.params, outer: c.outer()}

	for i := range c.cf.Fields {
		f := &c.cf.Fields[i]
		if f.IsSynthetic() {
			continue
		}
		sig := f.Signature
		if sig == "" {
			sig = f.Descriptor
		}
		ts, err := classfile.ParseFieldSignature(sig)
		if err != nil {
			log.Warningf("%s.%s: %s", c.name, f.Name, err)
			continue
		}
		c.fields[f.Name] = &types.Field{
			Name:      f.Name,
			Declaring: c,
			Type:      cv.typ(ts),
			Modifiers: types.Modifiers(f.AccessFlags) & modifierMask,
		}
	}

	for i := range c.cf.Methods {
		m := &c.cf.Methods[i]
		if m.IsSynthetic() || m.AccessFlags.IsBridge() || m.IsStaticInitializer() {
			continue
		}
		if method := c.method(cv, m); method != nil {
			c.methods[method.Name] = append(c.methods[method.Name], method)
		}
	}
}

func (c *Class) method(cv *converter, m *classfile.Member) *types.Method {
	sig, generic := m.Signature, true
	if sig == "" {
		sig, generic = m.Descriptor, false
	}
	ms, err := classfile.ParseMethodSignature(sig)
	if err != nil {
		log.Warningf("%s.%s: %s", c.name, m.Name, err)
		return nil
	}

	params := ms.Params
	names := m.ParamNames
	if !generic && m.IsConstructor() && c.outer() != nil && len(params) > 0 {
		// the descriptor of an inner class constructor carries the
		// enclosing instance first
		params = params[1:]
		if len(names) > len(params) {
			names = names[1:]
		}
	}

	mcv := &converter{path: c.path, scope: c.params, outer: cv.outer}
	out := &types.Method{
		Name:       m.Name,
		Declaring:  c,
		TypeParams: mcv.declare(ms.TypeParams),
		Varargs:    m.AccessFlags.IsVarargs(),
		Modifiers:  types.Modifiers(m.AccessFlags) & modifierMask,
	}
	mcv.scope = append(append([]*types.TypeParam(nil), out.TypeParams...), c.params...)
	for _, p := range params {
		out.Params = append(out.Params, mcv.typ(p))
	}
	if len(names) == len(params) {
		out.ParamNames = names
	}
	if !m.IsConstructor() {
		out.Return = types.Void
		if ms.Return != nil {
			out.Return = mcv.typ(ms.Return)
		}
	}
	return out
}

// converter turns signature syntax into types. Type variables are looked
// up in scope, then in the type parameters of the enclosing classes.
type converter struct {
	path  *Path
	scope []*types.TypeParam
	outer *Class
}

func (cv *converter) declare(sigs []classfile.TypeParamSig) []*types.TypeParam {
	if len(sigs) == 0 {
		return nil
	}
	params := make([]*types.TypeParam, len(sigs))
	for i, s := range sigs {
		params[i] = &types.TypeParam{Name: s.Name}
	}
	saved := cv.scope
	cv.scope = append(append([]*types.TypeParam(nil), params...), cv.scope...)
	for i, s := range sigs {
		for _, b := range s.Bounds() {
			t := cv.typ(b)
			if c, ok := t.(*types.Class); ok && c.Name() == types.ObjectName && len(s.Bounds()) == 1 {
				continue
			}
			params[i].Bounds = append(params[i].Bounds, t)
		}
	}
	cv.scope = saved
	return params
}

func (cv *converter) variable(name string) types.Type {
	for _, p := range cv.scope {
		if p.Name == name {
			return p
		}
	}
	for o := cv.outer; o != nil; o = o.outer() {
		for _, p := range o.TypeParams() {
			if p.Name == name {
				return p
			}
		}
	}
	return &types.TypeParam{Name: name}
}

func (cv *converter) named(internal string) *types.Class {
	return types.Load(cv.path, classfile.InternalToSourceName(internal))
}

func (cv *converter) class(t *classfile.TypeSig) *types.Class {
	c, _ := cv.typ(t).(*types.Class)
	return c
}

var primitives = map[byte]*types.Primitive{
	'B': types.Byte,
	'C': types.Char,
	'D': types.Double,
	'F': types.Float,
	'I': types.Int,
	'J': types.Long,
	'S': types.Short,
	'Z': types.Boolean,
}

func (cv *converter) typ(t *classfile.TypeSig) types.Type {
	switch t.Kind {
	case classfile.SigBase:
		return primitives[t.Base]
	case classfile.SigTypeVar:
		return cv.variable(t.Var)
	case classfile.SigArray:
		return &types.Array{Elem: cv.typ(t.Elem)}
	}

	binary := classfile.InternalToSourceName(t.Path[0].Name)
	var out *types.Class
	for i, part := range t.Path {
		if i > 0 {
			binary += "$" + part.Name
		}
		c := &types.Class{Ref: types.Load(cv.path, binary).Ref, Args: cv.args(part.Args)}
		if out != nil && (len(out.Args) > 0 || out.Outer != nil) {
			c.Outer = out
		}
		out = c
	}
	return out
}

func (cv *converter) args(sigs []classfile.TypeArg) []types.Type {
	if len(sigs) == 0 {
		return nil
	}
	out := make([]types.Type, len(sigs))
	for i, a := range sigs {
		switch a.Wildcard {
		case '*':
			out[i] = &types.Wildcard{}
		case '+':
			out[i] = &types.Wildcard{Upper: []types.Type{cv.typ(a.Type)}}
		case '-':
			out[i] = &types.Wildcard{Lower: cv.typ(a.Type)}
		default:
			out[i] = cv.typ(a.Type)
		}
	}
	return out
}
