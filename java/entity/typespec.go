package entity

import (
	"strings"

	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// TypeSpec is a type as written in source, before resolution.
type TypeSpec struct {
	// Primitive is set for primitive types and void.
	Primitive string
	Path      []Part
	Dims      int
	Varargs   bool
}

// Part is one component of a qualified type name with its arguments.
type Part struct {
	Name string
	Args []TypeArg
	// Diamond is set for "<>", which resolves like a raw type.
	Diamond bool
}

// TypeArg is a type argument: a type, or a wildcard with an optional
// extends or super bound.
type TypeArg struct {
	Wildcard bool
	Super    bool
	Bound    *TypeSpec
}

// ParseTypeSpec parses the tokens of a type, as reported by TypeSpec
// events. Annotations are skipped. It fails if tokens hold anything but
// one complete type.
func ParseTypeSpec(tokens []parser.Token) (*TypeSpec, bool) {
	sp := &specParser{toks: tokens}
	spec, ok := sp.spec()
	if !ok || sp.pendingGT > 0 {
		return nil, false
	}
	if sp.peek().Kind == parser.TokenEllipsis {
		sp.pos++
		spec.Varargs = true
	}
	if sp.pos != len(sp.toks) && sp.peek().Kind != parser.TokenEOF {
		return nil, false
	}
	return spec, true
}

// ParseTypeSpecString lexes and parses src as a type.
func ParseTypeSpecString(src string) (*TypeSpec, bool) {
	var toks []parser.Token
	for tok := range parser.Tokens([]byte(src), "") {
		if tok.Kind == parser.TokenEOF {
			break
		}
		toks = append(toks, tok)
	}
	return ParseTypeSpec(toks)
}

type specParser struct {
	toks      []parser.Token
	pos       int
	pendingGT int
}

func (p *specParser) peek() parser.Token {
	if p.pos >= len(p.toks) {
		return parser.Token{Kind: parser.TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *specParser) skipAnnotations() {
	for p.peek().Kind == parser.TokenAt {
		p.pos++
		if p.peek().Kind == parser.TokenIdent {
			p.pos++
		}
		for p.peek().Kind == parser.TokenDot && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == parser.TokenIdent {
			p.pos += 2
		}
		if p.peek().Kind == parser.TokenLParen {
			depth := 0
			for ; p.pos < len(p.toks); p.pos++ {
				switch p.toks[p.pos].Kind {
				case parser.TokenLParen:
					depth++
				case parser.TokenRParen:
					depth--
				}
				if depth == 0 {
					p.pos++
					break
				}
			}
		}
	}
}

func (p *specParser) spec() (*TypeSpec, bool) {
	p.skipAnnotations()
	spec := &TypeSpec{}
	tok := p.peek()
	switch {
	case tok.Kind.IsPrimitive():
		spec.Primitive = tok.Literal
		p.pos++
	case tok.Kind == parser.TokenIdent:
		for {
			part := Part{Name: p.peek().Literal}
			p.pos++
			if p.peek().Kind == parser.TokenLT {
				p.pos++
				if p.closeGT() {
					part.Diamond = true
				} else {
					args, ok := p.args()
					if !ok {
						return nil, false
					}
					part.Args = args
				}
			}
			spec.Path = append(spec.Path, part)
			if p.pendingGT > 0 || p.peek().Kind != parser.TokenDot {
				break
			}
			p.pos++
			p.skipAnnotations()
			if p.peek().Kind != parser.TokenIdent {
				return nil, false
			}
		}
	default:
		return nil, false
	}
	for p.pendingGT == 0 && p.peek().Kind == parser.TokenLBracket {
		if p.pos+1 >= len(p.toks) || p.toks[p.pos+1].Kind != parser.TokenRBracket {
			return nil, false
		}
		p.pos += 2
		spec.Dims++
	}
	return spec, true
}

// closeGT consumes one '>', splitting merged ">>" and ">>>" tokens.
func (p *specParser) closeGT() bool {
	if p.pendingGT > 0 {
		p.pendingGT--
		return true
	}
	lit := p.peek().Literal
	if lit == "" || strings.Trim(lit, ">") != "" {
		return false
	}
	p.pos++
	p.pendingGT = len(lit) - 1
	return true
}

func (p *specParser) args() ([]TypeArg, bool) {
	var args []TypeArg
	for {
		p.skipAnnotations()
		var arg TypeArg
		if p.peek().Kind == parser.TokenQuestion {
			p.pos++
			arg.Wildcard = true
			switch p.peek().Kind {
			case parser.TokenExtends, parser.TokenSuper:
				arg.Super = p.peek().Kind == parser.TokenSuper
				p.pos++
				b, ok := p.spec()
				if !ok {
					return nil, false
				}
				arg.Bound = b
			}
		} else {
			b, ok := p.spec()
			if !ok {
				return nil, false
			}
			arg.Bound = b
		}
		args = append(args, arg)
		if p.pendingGT == 0 && p.peek().Kind == parser.TokenComma {
			p.pos++
			continue
		}
		if !p.closeGT() {
			return nil, false
		}
		return args, true
	}
}

// IsVar reports whether the spec is the "var" of a local variable
// declaration with inferred type.
func (s *TypeSpec) IsVar() bool {
	return s.Primitive == "" && s.Dims == 0 && !s.Varargs && len(s.Path) == 1 &&
		s.Path[0].Name == "var" && s.Path[0].Args == nil && !s.Path[0].Diamond
}

// Names returns the dotted name without type arguments.
func (s *TypeSpec) Names() []string {
	if s.Primitive != "" {
		return []string{s.Primitive}
	}
	out := make([]string, len(s.Path))
	for i, p := range s.Path {
		out[i] = p.Name
	}
	return out
}

func (s *TypeSpec) String() string {
	var sb strings.Builder
	if s.Primitive != "" {
		sb.WriteString(s.Primitive)
	}
	for i, p := range s.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.Name)
		if p.Diamond {
			sb.WriteString("<>")
		}
		if len(p.Args) > 0 {
			sb.WriteByte('<')
			for j, a := range p.Args {
				if j > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(a.String())
			}
			sb.WriteByte('>')
		}
	}
	for range s.Dims {
		sb.WriteString("[]")
	}
	if s.Varargs {
		sb.WriteString("...")
	}
	return sb.String()
}

func (a TypeArg) String() string {
	if !a.Wildcard {
		return a.Bound.String()
	}
	switch {
	case a.Bound == nil:
		return "?"
	case a.Super:
		return "? super " + a.Bound.String()
	}
	return "? extends " + a.Bound.String()
}

// Resolve resolves the spec to a type with r, seen from access. Varargs
// count as one more array dimension. It returns nil if any part of the
// type cannot be resolved, or if the number of type arguments does not
// match the class.
func (s *TypeSpec) Resolve(r Resolver, access types.Reflective) types.Type {
	if r == nil {
		return nil
	}
	dims := s.Dims
	if s.Varargs {
		dims++
	}
	if s.Primitive != "" {
		p := types.PrimitiveByName(s.Primitive)
		if p == nil {
			return nil
		}
		if dims > 0 && p == types.Void {
			return nil
		}
		return types.ArrayOf(p, dims)
	}
	if len(s.Path) == 0 {
		return nil
	}

	var cur Entity = r.ResolvePackageOrClass(s.Path[0].Name, access)
	for i, part := range s.Path {
		if i > 0 {
			cur = TypeSubentity(cur, part.Name)
		}
		if cur == nil {
			return nil
		}
		te, ok := cur.(*TypeEntity)
		if !ok {
			if len(part.Args) > 0 || part.Diamond {
				return nil
			}
			continue
		}
		if part.Diamond || part.Args == nil {
			continue
		}
		c := te.Class()
		if c == nil || len(c.Ref.TypeParams()) != len(part.Args) {
			return nil
		}
		args := make([]types.Type, len(part.Args))
		for j, a := range part.Args {
			if args[j] = a.resolve(r, access); args[j] == nil {
				return nil
			}
		}
		cur = &TypeEntity{Type: &types.Class{Ref: c.Ref, Args: args, Outer: c.Outer}}
	}
	te, ok := cur.(*TypeEntity)
	if !ok {
		return nil
	}
	return types.ArrayOf(te.Type, dims)
}

func (a TypeArg) resolve(r Resolver, access types.Reflective) types.Type {
	if !a.Wildcard {
		t := a.Bound.Resolve(r, access)
		if types.IsPrimitive(t) {
			return nil
		}
		return t
	}
	if a.Bound == nil {
		return &types.Wildcard{}
	}
	b := a.Bound.Resolve(r, access)
	if b == nil || types.IsPrimitive(b) {
		return nil
	}
	if a.Super {
		return &types.Wildcard{Lower: b}
	}
	return &types.Wildcard{Upper: []types.Type{b}}
}

// FromTypeSpec parses tokens as a type and returns it as an Unresolved
// entity to be resolved with r later. It returns nil if tokens are not a
// type.
func FromTypeSpec(tokens []parser.Token, r Resolver, access types.Reflective) *Unresolved {
	spec, ok := ParseTypeSpec(tokens)
	if !ok {
		return nil
	}
	return &Unresolved{Spec: spec, Resolver: r, Access: access}
}
