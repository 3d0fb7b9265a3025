package classfile

import (
	"fmt"
	"strings"
)

type SigKind int

const (
	SigBase SigKind = iota
	SigClass
	SigTypeVar
	SigArray
)

// TypeSig is a type in a descriptor or generic signature.
type TypeSig struct {
	Kind SigKind
	// Base is the descriptor letter of a primitive type, such as 'I'.
	Base byte
	// Path holds the components of a class type: the first carries the
	// internal name of the outermost class, the others the simple names
	// of nested classes.
	Path []ClassSigPart
	// Var is the name of a type variable.
	Var  string
	Elem *TypeSig
}

type ClassSigPart struct {
	Name string
	Args []TypeArg
}

// TypeArg is a type argument. Wildcard is 0 for a plain type, '*' for
// an unbounded wildcard, '+' for "? extends" and '-' for "? super".
type TypeArg struct {
	Wildcard byte
	Type     *TypeSig
}

type TypeParamSig struct {
	Name string
	// ClassBound is nil when the bound is an interface or a type
	// variable, which then appears first in InterfaceBounds.
	ClassBound      *TypeSig
	InterfaceBounds []*TypeSig
}

// Bounds returns all declared bounds in order.
func (p *TypeParamSig) Bounds() []*TypeSig {
	if p.ClassBound == nil {
		return p.InterfaceBounds
	}
	return append([]*TypeSig{p.ClassBound}, p.InterfaceBounds...)
}

type ClassSig struct {
	TypeParams []TypeParamSig
	Super      *TypeSig
	Interfaces []*TypeSig
}

// MethodSig is a method signature or descriptor. Return is nil for void.
type MethodSig struct {
	TypeParams []TypeParamSig
	Params     []*TypeSig
	Return     *TypeSig
	Throws     []*TypeSig
}

var baseNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// ClassName returns the binary name of a class type, with '.' between
// packages and '$' between nested classes.
func (t *TypeSig) ClassName() string {
	if t.Kind != SigClass || len(t.Path) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(InternalToSourceName(t.Path[0].Name))
	for _, p := range t.Path[1:] {
		sb.WriteByte('$')
		sb.WriteString(p.Name)
	}
	return sb.String()
}

// String renders t in Java syntax.
func (t *TypeSig) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *TypeSig) write(sb *strings.Builder) {
	switch t.Kind {
	case SigBase:
		sb.WriteString(baseNames[t.Base])
	case SigTypeVar:
		sb.WriteString(t.Var)
	case SigArray:
		t.Elem.write(sb)
		sb.WriteString("[]")
	case SigClass:
		for i, p := range t.Path {
			if i == 0 {
				sb.WriteString(InternalToSourceName(p.Name))
			} else {
				sb.WriteByte('.')
				sb.WriteString(p.Name)
			}
			if len(p.Args) == 0 {
				continue
			}
			sb.WriteByte('<')
			for j, a := range p.Args {
				if j > 0 {
					sb.WriteByte(',')
				}
				switch a.Wildcard {
				case '*':
					sb.WriteByte('?')
					continue
				case '+':
					sb.WriteString("? extends ")
				case '-':
					sb.WriteString("? super ")
				}
				a.Type.write(sb)
			}
			sb.WriteByte('>')
		}
	}
}

// SyntaxError reports a malformed descriptor or signature.
type SyntaxError struct {
	Sig    string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("signature %q at %d: %s", e.Sig, e.Offset, e.Msg)
}

type sigParser struct {
	s   string
	pos int
	err error
}

func (p *sigParser) fail(msg string) {
	if p.err == nil {
		p.err = &SyntaxError{Sig: p.s, Offset: p.pos, Msg: msg}
	}
	p.pos = len(p.s)
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) {
	if p.peek() != c {
		p.fail(fmt.Sprintf("expected %q", c))
		return
	}
	p.pos++
}

func (p *sigParser) ident() string {
	start := p.pos
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '.', ';', '[', '/', '<', '>', ':':
			if p.pos == start {
				p.fail("expected identifier")
			}
			return p.s[start:p.pos]
		}
		p.pos++
	}
	p.fail("unexpected end")
	return ""
}

func (p *sigParser) typeParams() []TypeParamSig {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var out []TypeParamSig
	for p.err == nil && p.peek() != '>' {
		tp := TypeParamSig{Name: p.ident()}
		p.expect(':')
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			tp.ClassBound = p.refType()
		}
		for p.err == nil && p.peek() == ':' {
			p.pos++
			tp.InterfaceBounds = append(tp.InterfaceBounds, p.refType())
		}
		out = append(out, tp)
	}
	p.expect('>')
	return out
}

func (p *sigParser) javaType() *TypeSig {
	if c := p.peek(); baseNames[c] != "" {
		p.pos++
		return &TypeSig{Kind: SigBase, Base: c}
	}
	return p.refType()
}

func (p *sigParser) refType() *TypeSig {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		t := &TypeSig{Kind: SigTypeVar, Var: p.ident()}
		p.expect(';')
		return t
	case '[':
		p.pos++
		return &TypeSig{Kind: SigArray, Elem: p.javaType()}
	}
	p.fail("expected reference type")
	return nil
}

func (p *sigParser) classType() *TypeSig {
	p.expect('L')
	start := p.pos
	for p.err == nil {
		p.ident()
		if p.peek() != '/' {
			break
		}
		p.pos++
	}
	t := &TypeSig{Kind: SigClass, Path: []ClassSigPart{{Name: p.s[start:p.pos]}}}
	t.Path[0].Args = p.typeArgs()
	for p.err == nil && p.peek() == '.' {
		p.pos++
		part := ClassSigPart{Name: p.ident()}
		part.Args = p.typeArgs()
		t.Path = append(t.Path, part)
	}
	p.expect(';')
	return t
}

func (p *sigParser) typeArgs() []TypeArg {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var out []TypeArg
	for p.err == nil && p.peek() != '>' {
		switch c := p.peek(); c {
		case '*':
			p.pos++
			out = append(out, TypeArg{Wildcard: '*'})
		case '+', '-':
			p.pos++
			out = append(out, TypeArg{Wildcard: c, Type: p.refType()})
		default:
			out = append(out, TypeArg{Type: p.refType()})
		}
	}
	p.expect('>')
	return out
}

func (p *sigParser) method() *MethodSig {
	m := &MethodSig{TypeParams: p.typeParams()}
	p.expect('(')
	for p.err == nil && p.peek() != ')' {
		m.Params = append(m.Params, p.javaType())
	}
	p.expect(')')
	if p.peek() == 'V' {
		p.pos++
	} else {
		m.Return = p.javaType()
	}
	for p.err == nil && p.peek() == '^' {
		p.pos++
		m.Throws = append(m.Throws, p.refType())
	}
	return m
}

func (p *sigParser) done() error {
	if p.err == nil && p.pos != len(p.s) {
		p.fail("trailing characters")
	}
	return p.err
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(sig string) (*ClassSig, error) {
	p := &sigParser{s: sig}
	cs := &ClassSig{TypeParams: p.typeParams(), Super: p.classType()}
	for p.err == nil && p.pos < len(sig) {
		cs.Interfaces = append(cs.Interfaces, p.classType())
	}
	if err := p.done(); err != nil {
		return nil, err
	}
	return cs, nil
}

// ParseMethodSignature parses the Signature attribute of a method.
// Descriptors are valid method signatures.
func ParseMethodSignature(sig string) (*MethodSig, error) {
	p := &sigParser{s: sig}
	m := p.method()
	if err := p.done(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFieldSignature parses the Signature attribute of a field, or a
// field descriptor.
func ParseFieldSignature(sig string) (*TypeSig, error) {
	p := &sigParser{s: sig}
	t := p.javaType()
	if err := p.done(); err != nil {
		return nil, err
	}
	return t, nil
}
