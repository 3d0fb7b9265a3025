package parser

import (
	"fmt"
	"strings"
)

// Event is one syntactic event of a grammar walk. Events are immutable
// values delivered to a Listener in source order.
type Event interface {
	event()
}

type TypeDefKind int

const (
	TypeDefClass TypeDefKind = iota
	TypeDefInterface
	TypeDefEnum
	TypeDefAnnotation
	TypeDefRecord
	TypeDefAnonymous
)

var typeDefKindNames = [...]string{"class", "interface", "enum", "@interface", "record", "anonymous"}

func (k TypeDefKind) String() string {
	if int(k) < len(typeDefKindNames) {
		return typeDefKindNames[k]
	}
	return "unknown"
}

// SpecContext tells where a type specification occurred.
type SpecContext int

const (
	SpecOther SpecContext = iota
	SpecExtends
	SpecImplements
	SpecField
	SpecLocal
	SpecParam
	SpecReturn
	SpecThrows
	SpecNew
	SpecCast
	SpecInstanceof
	SpecTypeArg
	SpecCatch
)

var specContextNames = [...]string{
	"other", "extends", "implements", "field", "local", "param",
	"return", "throws", "new", "cast", "instanceof", "typearg", "catch",
}

func (c SpecContext) String() string {
	if int(c) < len(specContextNames) {
		return specContextNames[c]
	}
	return "unknown"
}

type (
	// BeginPackage carries the "package" keyword.
	BeginPackage struct{ Token Token }

	// Package carries the package name, identifiers and dots.
	Package struct{ Tokens []Token }

	PackageSemi struct{ Token Token }

	// Import is one import declaration. Name holds the identifiers only;
	// for static member imports the member is the last element.
	Import struct {
		Start    Token
		Static   bool
		Wildcard bool
		Name     []Token
		End      Token
	}

	// TypeDef opens a type declaration. Start is its first token,
	// modifiers and annotations included.
	TypeDef struct {
		Kind    TypeDefKind
		Start   Token
		Keyword Token
		Javadoc string
	}

	TypeDefName struct{ Name Token }

	TypeParam struct{ Name Token }

	// TypeParamBound is one bound of the type parameter announced last.
	TypeParamBound struct{ Tokens []Token }

	// TypeDefExtends carries the "extends" keyword and the token after it.
	TypeDefExtends struct {
		Token Token
		Next  Token
	}

	TypeDefImplements struct{ Token Token }

	BeginTypeBody struct{ Token Token }

	// EndTypeBody carries the closing brace; Included is false when the
	// body was cut short and Token is the first token after it.
	EndTypeBody struct {
		Token    Token
		Included bool
	}

	EndTypeDef struct{ Last Token }

	Modifier struct{ Token Token }

	Annotation struct{ Name []Token }

	ModifiersConsumed struct{}

	// TypeSpec is a complete type as written, type arguments and array
	// dimensions included. Next is the token following it.
	TypeSpec struct {
		Tokens  []Token
		Context SpecContext
		Next    Token
	}

	// ArrayDeclarator is a "[]" written after a declared name.
	ArrayDeclarator struct{ Token Token }

	// MethodDecl opens a method or constructor. Return is nil for
	// constructors.
	MethodDecl struct {
		Start       Token
		Name        Token
		Javadoc     string
		Constructor bool
		Return      []Token
	}

	MethodParam struct {
		Name    Token
		Type    []Token
		Varargs bool
		Dims    int
	}

	AllMethodParams struct{}

	BeginMethodBody struct{ Token Token }

	EndMethodBody struct {
		Token    Token
		Included bool
	}

	EndMethod struct{ Last Token }

	FieldDecl struct {
		Start   Token
		Type    []Token
		Javadoc string
	}

	EndField struct{ Last Token }

	// LocalVarDecl opens a local variable declaration; lambda parameters
	// without declared types have a nil Type.
	LocalVarDecl struct {
		Start Token
		Type  []Token
	}

	EndLocalVar struct{}

	// VarName is one declarator of the enclosing field or local
	// declaration. Init is false only for a declarator without an
	// initializer in a field or local variable declaration.
	VarName struct {
		Name Token
		Dims int
		Init bool
	}

	EnumConstant struct{ Name Token }

	RecordComponent struct {
		Name Token
		Type []Token
	}

	BeginBlock struct{ Token Token }

	EndBlock struct {
		Token    Token
		Included bool
	}

	// ValueName is a name used as a value: a bare identifier, a dotted
	// chain, or the qualifier of a method call.
	ValueName struct{ Components []Token }

	// ClassLiteral is a "Name.class" expression; Components excludes "class".
	ClassLiteral struct{ Components []Token }

	// Error reports a syntax error at Token. Parsing continues after it.
	Error struct {
		Message string
		Token   Token
	}
)

func (BeginPackage) event()      {}
func (Package) event()           {}
func (PackageSemi) event()       {}
func (Import) event()            {}
func (TypeDef) event()           {}
func (TypeDefName) event()       {}
func (TypeParam) event()         {}
func (TypeParamBound) event()    {}
func (TypeDefExtends) event()    {}
func (TypeDefImplements) event() {}
func (BeginTypeBody) event()     {}
func (EndTypeBody) event()       {}
func (EndTypeDef) event()        {}
func (Modifier) event()          {}
func (Annotation) event()        {}
func (ModifiersConsumed) event() {}
func (TypeSpec) event()          {}
func (ArrayDeclarator) event()   {}
func (MethodDecl) event()        {}
func (MethodParam) event()       {}
func (AllMethodParams) event()   {}
func (BeginMethodBody) event()   {}
func (EndMethodBody) event()     {}
func (EndMethod) event()         {}
func (FieldDecl) event()         {}
func (EndField) event()          {}
func (LocalVarDecl) event()      {}
func (EndLocalVar) event()       {}
func (VarName) event()           {}
func (EnumConstant) event()      {}
func (RecordComponent) event()   {}
func (BeginBlock) event()        {}
func (EndBlock) event()          {}
func (ValueName) event()         {}
func (ClassLiteral) event()      {}
func (Error) event()             {}

// JoinTokens concatenates token literals, e.g. "java.util.List<String>".
func JoinTokens(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Literal)
	}
	return sb.String()
}

func names(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Literal
	}
	return out
}

// Describe renders an event as a single line, for dumps and tests.
func Describe(e Event) string {
	switch e := e.(type) {
	case BeginPackage:
		return "BeginPackage"
	case Package:
		return "Package " + JoinTokens(e.Tokens)
	case PackageSemi:
		return "PackageSemi"
	case Import:
		s := "Import " + strings.Join(names(e.Name), ".")
		if e.Wildcard {
			s += ".*"
		}
		if e.Static {
			s += " static"
		}
		return s
	case TypeDef:
		return "TypeDef " + e.Kind.String()
	case TypeDefName:
		return "TypeDefName " + e.Name.Literal
	case TypeParam:
		return "TypeParam " + e.Name.Literal
	case TypeParamBound:
		return "TypeParamBound " + JoinTokens(e.Tokens)
	case TypeDefExtends:
		return "TypeDefExtends"
	case TypeDefImplements:
		return "TypeDefImplements"
	case BeginTypeBody:
		return "BeginTypeBody"
	case EndTypeBody:
		return fmt.Sprintf("EndTypeBody included=%t", e.Included)
	case EndTypeDef:
		return "EndTypeDef"
	case Modifier:
		return "Modifier " + e.Token.Literal
	case Annotation:
		return "Annotation " + JoinTokens(e.Name)
	case ModifiersConsumed:
		return "ModifiersConsumed"
	case TypeSpec:
		return fmt.Sprintf("TypeSpec %s %s", e.Context, JoinTokens(e.Tokens))
	case ArrayDeclarator:
		return "ArrayDeclarator"
	case MethodDecl:
		if e.Constructor {
			return "Constructor " + e.Name.Literal
		}
		return "MethodDecl " + e.Name.Literal
	case MethodParam:
		return "MethodParam " + e.Name.Literal
	case AllMethodParams:
		return "AllMethodParams"
	case BeginMethodBody:
		return "BeginMethodBody"
	case EndMethodBody:
		return fmt.Sprintf("EndMethodBody included=%t", e.Included)
	case EndMethod:
		return "EndMethod"
	case FieldDecl:
		return "FieldDecl " + JoinTokens(e.Type)
	case EndField:
		return "EndField"
	case LocalVarDecl:
		return "LocalVarDecl " + JoinTokens(e.Type)
	case EndLocalVar:
		return "EndLocalVar"
	case VarName:
		return "VarName " + e.Name.Literal
	case EnumConstant:
		return "EnumConstant " + e.Name.Literal
	case RecordComponent:
		return "RecordComponent " + e.Name.Literal
	case BeginBlock:
		return "BeginBlock"
	case EndBlock:
		return fmt.Sprintf("EndBlock included=%t", e.Included)
	case ValueName:
		return "ValueName " + strings.Join(names(e.Components), ".")
	case ClassLiteral:
		return "ClassLiteral " + strings.Join(names(e.Components), ".")
	case Error:
		return fmt.Sprintf("Error %d:%d %s", e.Token.Span.Start.Line, e.Token.Span.Start.Column, e.Message)
	}
	return fmt.Sprintf("%T", e)
}
