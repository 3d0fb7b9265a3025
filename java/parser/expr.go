package parser

// Expr is the syntax of an expression as parsed. Statement and
// declaration structure is reported through events only; expressions
// additionally come back as trees for consumers that evaluate them.
type Expr interface {
	Span() Span
}

type exprSpan struct{ span Span }

func (e exprSpan) Span() Span { return e.span }

func spanOf(first, last Token) exprSpan {
	return exprSpan{Span{Start: first.Span.Start, End: last.Span.End}}
}

type (
	Literal struct {
		exprSpan
		Token Token
	}

	// Name is a dotted chain of identifiers whose meaning (package, type
	// or value) is only known after resolution.
	Name struct {
		exprSpan
		Components []Token
	}

	This struct {
		exprSpan
		Token Token
	}

	Super struct {
		exprSpan
		Token Token
	}

	FieldAccess struct {
		exprSpan
		Target Expr
		Name   Token
	}

	// MethodCall has a nil Target for unqualified calls. Name is "this"
	// or "super" for explicit constructor invocations.
	MethodCall struct {
		exprSpan
		Target   Expr
		TypeArgs [][]Token
		Name     Token
		Args     []Expr
	}

	New struct {
		exprSpan
		Outer Expr
		Type  []Token
		Args  []Expr
		Body  bool
	}

	NewArray struct {
		exprSpan
		Elem  []Token
		Dims  []Expr
		Extra int
		Init  *ArrayInit
	}

	ArrayInit struct {
		exprSpan
		Elems []Expr
	}

	ArrayAccess struct {
		exprSpan
		Array Expr
		Index Expr
	}

	Cast struct {
		exprSpan
		Types [][]Token
		X     Expr
	}

	Unary struct {
		exprSpan
		Op      Token
		X       Expr
		Postfix bool
	}

	Binary struct {
		exprSpan
		Op    Token
		Left  Expr
		Right Expr
	}

	Assign struct {
		exprSpan
		Op     Token
		Target Expr
		Value  Expr
	}

	Conditional struct {
		exprSpan
		Cond Expr
		Then Expr
		Else Expr
	}

	InstanceOf struct {
		exprSpan
		X       Expr
		Type    []Token
		Binding *Token
	}

	// ClassLit is "T.class"; Type holds T with any array dimensions.
	ClassLit struct {
		exprSpan
		Type []Token
	}

	Lambda struct {
		exprSpan
		Params []Token
	}

	MethodRef struct {
		exprSpan
		Target Expr
		Name   Token
	}

	Switch struct {
		exprSpan
		Selector Expr
	}

	Paren struct {
		exprSpan
		X Expr
	}

	// BadExpr stands in for an expression that failed to parse.
	BadExpr struct {
		exprSpan
		Token Token
	}
)
