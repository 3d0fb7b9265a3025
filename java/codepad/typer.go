package codepad

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

// shellClass is the class code pad code is compiled into; member access
// is checked as if from there.
const shellClass = "__SHELL"

// typer computes static types of expression trees. Constants are folded
// for the int and long operations the conditional operator needs.
type typer struct {
	r      entity.Resolver
	l      types.Loader
	access types.Reflective
	// static lists the classes an unqualified method name is statically
	// imported from.
	static func(name string) []*types.Class
}

func newTyper(a *Analyzer) *typer {
	return &typer{
		r:      a,
		l:      entity.Loader(a),
		access: &types.ClassDef{QualifiedName: entity.Qualify(a.pkg, shellClass), Flags: types.Public},
		static: a.staticMethodOwners,
	}
}

func (a *Analyzer) staticMethodOwners(name string) []*types.Class {
	var out []*types.Class
	for _, t := range a.imports.StaticImports(name, a.parent) {
		if c := t.Class(); c != nil {
			out = append(out, c)
		}
	}
	for _, t := range a.imports.StaticWildcardImports(a.parent) {
		if c := t.Class(); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (t *typer) typeOf(e parser.Expr) types.Type {
	return t.value(e).Type
}

// denote returns what e stands for: a package or type as well as a
// value, for names and field accesses.
func (t *typer) denote(e parser.Expr) entity.Entity {
	switch e := e.(type) {
	case *parser.Name:
		cur := t.r.ValueEntity(e.Components[0].Literal, t.access)
		for _, c := range e.Components[1:] {
			if cur == nil {
				return nil
			}
			cur = entity.Subentity(cur, c.Literal, t.access)
		}
		return cur
	case *parser.FieldAccess:
		target := t.denote(e.Target)
		if target == nil {
			return nil
		}
		return entity.Subentity(target, e.Name.Literal, t.access)
	case *parser.Paren:
		return t.denote(e.X)
	}
	if typ := t.typeOf(e); typ != nil {
		return &entity.Value{Type: typ}
	}
	return nil
}

func (t *typer) value(e parser.Expr) types.Operand {
	switch e := e.(type) {
	case *parser.Paren:
		return t.value(e.X)
	case *parser.Literal:
		return t.literal(e.Token)
	case *parser.Name, *parser.FieldAccess:
		if v := entity.ResolveAsValue(t.denote(e)); v != nil {
			return types.Operand{Type: v.Type}
		}
	case *parser.MethodCall:
		return types.Operand{Type: t.methodCall(e)}
	case *parser.New:
		return types.Operand{Type: t.newObject(e)}
	case *parser.NewArray:
		elem := t.resolve(e.Elem)
		if elem == nil || elem == types.Void {
			return types.Operand{}
		}
		return types.Operand{Type: types.ArrayOf(elem, len(e.Dims)+e.Extra)}
	case *parser.ArrayAccess:
		if arr, ok := t.typeOf(e.Array).(*types.Array); ok {
			return types.Operand{Type: arr.Elem}
		}
	case *parser.Cast:
		return t.cast(e)
	case *parser.Unary:
		return t.unary(e)
	case *parser.Binary:
		return t.binary(e)
	case *parser.Assign:
		return types.Operand{Type: t.typeOf(e.Target)}
	case *parser.Conditional:
		if e.Else == nil {
			return types.Operand{}
		}
		return types.Operand{Type: types.ConditionalType(t.value(e.Then), t.value(e.Else), t.l)}
	case *parser.InstanceOf:
		return types.Operand{Type: types.Boolean}
	case *parser.ClassLit:
		return types.Operand{Type: t.classLiteral(e.Type)}
	}
	return types.Operand{}
}

func (t *typer) literal(tok parser.Token) types.Operand {
	lit := strings.ReplaceAll(tok.Literal, "_", "")
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(lit, "l") || strings.HasSuffix(lit, "L") {
			v, err := strconv.ParseUint(lit[:len(lit)-1], 0, 64)
			return types.Operand{Type: types.Long, Const: err == nil, Value: int64(v)}
		}
		v, err := strconv.ParseUint(lit, 0, 32)
		return types.Operand{Type: types.Int, Const: err == nil, Value: int64(int32(uint32(v)))}
	case parser.TokenFloatLiteral:
		if strings.HasSuffix(lit, "f") || strings.HasSuffix(lit, "F") {
			return types.Operand{Type: types.Float}
		}
		return types.Operand{Type: types.Double}
	case parser.TokenCharLiteral:
		s, err := strconv.Unquote(tok.Literal)
		if err != nil || len([]rune(s)) != 1 {
			return types.Operand{Type: types.Char}
		}
		return types.Operand{Type: types.Char, Const: true, Value: int64([]rune(s)[0])}
	case parser.TokenStringLiteral, parser.TokenTextBlock:
		return types.Operand{Type: t.class("java.lang.String")}
	case parser.TokenTrue, parser.TokenFalse:
		return types.Operand{Type: types.Boolean}
	case parser.TokenNull:
		return types.Operand{Type: types.Null}
	}
	return types.Operand{}
}

func (t *typer) class(name string) *types.Class {
	return types.Load(t.l, name)
}

func (t *typer) resolve(toks []parser.Token) types.Type {
	spec, ok := entity.ParseTypeSpec(toks)
	if !ok {
		return nil
	}
	return spec.Resolve(t.r, t.access)
}

func isString(typ types.Type) bool {
	c, ok := typ.(*types.Class)
	return ok && c.Ref.Name() == "java.lang.String"
}

func kind(typ types.Type) (types.PrimitiveKind, bool) {
	p, ok := types.Unbox(typ).(*types.Primitive)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// narrow converts a constant to the range of an integral type.
func narrow(v int64, to types.Type) (int64, bool) {
	p, ok := to.(*types.Primitive)
	if !ok {
		return 0, false
	}
	switch p.Kind {
	case types.KindByte:
		return int64(int8(v)), true
	case types.KindShort:
		return int64(int16(v)), true
	case types.KindChar:
		return int64(uint16(v)), true
	case types.KindInt:
		return int64(int32(v)), true
	case types.KindLong:
		return v, true
	}
	return 0, false
}

func (t *typer) cast(e *parser.Cast) types.Operand {
	var ts []types.Type
	for _, toks := range e.Types {
		typ := t.resolve(toks)
		if typ == nil {
			return types.Operand{}
		}
		ts = append(ts, typ)
	}
	switch len(ts) {
	case 0:
		return types.Operand{}
	case 1:
		x := t.value(e.X)
		if x.Const {
			if v, ok := narrow(x.Value, ts[0]); ok {
				return types.Operand{Type: ts[0], Const: true, Value: v}
			}
		}
		return types.Operand{Type: ts[0]}
	}
	return types.Operand{Type: &types.Intersection{Types: ts}}
}

func (t *typer) unary(e *parser.Unary) types.Operand {
	x := t.value(e.X)
	if x.Type == nil {
		return types.Operand{}
	}
	switch e.Op.Kind {
	case parser.TokenNot:
		return types.Operand{Type: types.Boolean}
	case parser.TokenIncrement, parser.TokenDecrement:
		return types.Operand{Type: x.Type}
	case parser.TokenBitNot:
		k, ok := kind(x.Type)
		if !ok || !(&types.Primitive{Kind: k}).IsIntegral() {
			return types.Operand{}
		}
		typ := types.UnaryNumericPromotion(x.Type)
		v, _ := narrow(^x.Value, typ)
		return types.Operand{Type: typ, Const: x.Const, Value: v}
	}
	typ := types.UnaryNumericPromotion(x.Type)
	if typ == nil {
		return types.Operand{}
	}
	if e.Op.Kind == parser.TokenMinus {
		v, ok := narrow(-x.Value, typ)
		return types.Operand{Type: typ, Const: x.Const && ok, Value: v}
	}
	v, ok := narrow(x.Value, typ)
	return types.Operand{Type: typ, Const: x.Const && ok, Value: v}
}

func (t *typer) binary(e *parser.Binary) types.Operand {
	switch e.Op.Kind {
	case parser.TokenAnd, parser.TokenOr, parser.TokenEQ, parser.TokenNE,
		parser.TokenLT, parser.TokenGT, parser.TokenLE, parser.TokenGE:
		return types.Operand{Type: types.Boolean}
	}
	l, r := t.value(e.Left), t.value(e.Right)
	if l.Type == nil || r.Type == nil {
		return types.Operand{}
	}
	switch e.Op.Kind {
	case parser.TokenPlus:
		if isString(l.Type) || isString(r.Type) {
			return types.Operand{Type: t.class("java.lang.String")}
		}
	case parser.TokenShl, parser.TokenShr, parser.TokenUShr:
		typ := types.UnaryNumericPromotion(l.Type)
		if typ == nil || types.UnaryNumericPromotion(r.Type) == nil {
			return types.Operand{}
		}
		return fold(e.Op.Kind, typ, l, r)
	case parser.TokenBitAnd, parser.TokenBitOr, parser.TokenBitXor:
		kl, okl := kind(l.Type)
		kr, okr := kind(r.Type)
		if okl && okr && kl == types.KindBoolean && kr == types.KindBoolean {
			return types.Operand{Type: types.Boolean}
		}
	}
	typ := types.BinaryNumericPromotion(l.Type, r.Type)
	if typ == nil {
		return types.Operand{}
	}
	return fold(e.Op.Kind, typ, l, r)
}

// fold evaluates an integral operation on two constants.
func fold(op parser.TokenKind, typ types.Type, l, r types.Operand) types.Operand {
	out := types.Operand{Type: typ}
	if !l.Const || !r.Const {
		return out
	}
	var v int64
	a, b := l.Value, r.Value
	switch op {
	case parser.TokenPlus:
		v = a + b
	case parser.TokenMinus:
		v = a - b
	case parser.TokenStar:
		v = a * b
	case parser.TokenSlash, parser.TokenPercent:
		if b == 0 {
			return out
		}
		if op == parser.TokenSlash {
			v = a / b
		} else {
			v = a % b
		}
	case parser.TokenBitAnd:
		v = a & b
	case parser.TokenBitOr:
		v = a | b
	case parser.TokenBitXor:
		v = a ^ b
	case parser.TokenShl, parser.TokenShr, parser.TokenUShr:
		width := uint(32)
		if typ == types.Long {
			width = 64
		}
		n := uint(b) & (width - 1)
		switch {
		case op == parser.TokenShl:
			v = a << n
		case op == parser.TokenShr:
			v = a >> n
		case width == 32:
			v = int64(uint32(a) >> n)
		default:
			v = int64(uint64(a) >> n)
		}
	default:
		return out
	}
	v, ok := narrow(v, typ)
	out.Const, out.Value = ok, v
	return out
}

func (t *typer) classLiteral(toks []parser.Token) types.Type {
	typ := t.resolve(toks)
	if typ == nil {
		return nil
	}
	var arg types.Type
	switch {
	case typ == types.Void:
		arg = t.class("java.lang.Void")
	case types.IsPrimitive(typ):
		arg = types.Box(typ, t.l)
	default:
		arg = types.Erasure(typ)
	}
	return t.classOf(arg)
}

// classOf returns java.lang.Class<arg>.
func (t *typer) classOf(arg types.Type) *types.Class {
	return &types.Class{Ref: t.class("java.lang.Class").Ref, Args: []types.Type{arg}}
}

func (t *typer) args(exprs []parser.Expr) ([]types.Type, bool) {
	out := make([]types.Type, len(exprs))
	for i, a := range exprs {
		if out[i] = t.typeOf(a); out[i] == nil {
			return nil, false
		}
	}
	return out, true
}

// methodCall types a call by overload resolution on the receiver, with
// capture conversion applied to the return type.
func (t *typer) methodCall(mc *parser.MethodCall) types.Type {
	if mc.Name.Kind != parser.TokenIdent {
		return nil
	}
	name := mc.Name.Literal
	args, ok := t.args(mc.Args)
	if !ok {
		return nil
	}
	var typeArgs []types.Type
	for _, toks := range mc.TypeArgs {
		ta := t.resolve(toks)
		if ta == nil {
			return nil
		}
		typeArgs = append(typeArgs, ta)
	}

	var targets []*types.Class
	static := false
	switch mc.Target.(type) {
	case nil:
		for _, c := range t.static(name) {
			targets = appendSupers(targets, c)
		}
		static = true
	case *parser.This, *parser.Super:
		return nil
	default:
		switch e := t.denote(mc.Target).(type) {
		case *entity.TypeEntity:
			c := e.Class()
			if c == nil {
				return nil
			}
			targets = appendSupers(targets, c)
			static = true
		case *entity.Value:
			if e.Type == nil || types.IsPrimitive(e.Type) {
				return nil
			}
			if name == "getClass" && len(args) == 0 {
				return t.classOf(&types.Wildcard{Upper: []types.Type{types.Erasure(e.Type)}})
			}
			if _, isArray := e.Type.(*types.Array); isArray {
				targets = appendSupers(targets, types.Object(t.l))
				break
			}
			for _, c := range types.ReferenceSupertypes(e.Type) {
				targets = appendSupers(targets, c)
			}
		default:
			return nil
		}
	}

	var found []*types.MethodCallDesc
	for _, d := range types.SuitableMethods(name, targets, args, typeArgs, t.l) {
		if static && !d.Method.IsStatic() {
			continue
		}
		if d.Method.Declaring != nil && !entity.Accessible(d.Method.Declaring, d.Method.Modifiers, t.access) {
			continue
		}
		found = append(found, d)
	}
	if len(found) != 1 || found[0].RetType == nil {
		return nil
	}
	return types.Capture(found[0].RetType)
}

func appendSupers(list []*types.Class, c *types.Class) []*types.Class {
	for _, s := range types.AllSuperTypes(c) {
		if !slices.ContainsFunc(list, func(have *types.Class) bool { return have.Ref.Name() == s.Ref.Name() }) {
			list = append(list, s)
		}
	}
	return list
}

func (t *typer) newObject(n *parser.New) types.Type {
	spec, ok := entity.ParseTypeSpec(n.Type)
	if !ok || spec.Primitive != "" || len(spec.Path) == 0 {
		return nil
	}
	if n.Outer != nil {
		outer, ok := t.typeOf(n.Outer).(*types.Class)
		if !ok || len(spec.Path) != 1 {
			return nil
		}
		mt := entity.MemberType(outer, spec.Path[0].Name)
		if mt == nil {
			return nil
		}
		return mt
	}
	typ := spec.Resolve(t.r, t.access)
	c, ok := typ.(*types.Class)
	if !ok {
		return typ
	}
	if spec.Path[len(spec.Path)-1].Diamond && len(c.Ref.TypeParams()) > 0 {
		if args, ok := t.args(n.Args); ok {
			if inferred := t.diamond(c, args); inferred != nil {
				return inferred
			}
		}
	}
	return c
}

// diamond infers the type arguments of "new C<>(args)" by treating each
// constructor as a generic method over the class's type parameters that
// returns C of them.
func (t *typer) diamond(c *types.Class, args []types.Type) types.Type {
	tparams := c.Ref.TypeParams()
	self := make([]types.Type, len(tparams))
	for i, tp := range tparams {
		self[i] = tp
	}
	generic := &types.Class{Ref: c.Ref, Args: self, Outer: c.Outer}
	ctors := c.Ref.Methods()[types.ConstructorName]
	if len(ctors) == 0 {
		ctors = []*types.Method{{Name: types.ConstructorName, Declaring: c.Ref, Modifiers: types.Public}}
	}
	var found []*types.MethodCallDesc
	for _, ctor := range ctors {
		m := *ctor
		m.TypeParams = append(slices.Clone(tparams), ctor.TypeParams...)
		m.Return = generic
		d := types.IsMethodApplicable(generic, nil, &m, args, t.l)
		if d == nil {
			continue
		}
		if len(found) > 0 {
			switch types.CompareSpecificity(d, found[0]) {
			case 1:
				found = found[:0]
			case -1:
				continue
			}
		}
		found = append(found, d)
	}
	if len(found) != 1 {
		return nil
	}
	return found[0].RetType
}
