package parser

import "slices"

func (p *Parser) parseExpressionEntry() {
	p.expr = p.parseExpression()
	if !p.check(TokenEOF) {
		p.error("unexpected " + p.peek().Literal)
	}
}

var binaryPrecedence = map[TokenKind]int{
	TokenOr:         1,
	TokenAnd:        2,
	TokenBitOr:      3,
	TokenBitXor:     4,
	TokenBitAnd:     5,
	TokenEQ:         6,
	TokenNE:         6,
	TokenLT:         7,
	TokenGT:         7,
	TokenLE:         7,
	TokenGE:         7,
	TokenInstanceof: 7,
	TokenShl:        8,
	TokenShr:        8,
	TokenUShr:       8,
	TokenPlus:       9,
	TokenMinus:      9,
	TokenStar:       10,
	TokenSlash:      10,
	TokenPercent:    10,
}

func isAssignOp(tok Token) bool {
	switch tok.Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign, TokenAndAssign, TokenOrAssign,
		TokenXorAssign, TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

// stopsExpression reports whether tok can never start an expression and
// must be left for an enclosing construct.
func stopsExpression(tok Token) bool {
	switch tok.Kind {
	case TokenEOF, TokenSemicolon, TokenComma, TokenRParen, TokenRBracket,
		TokenLBrace, TokenRBrace, TokenColon, TokenArrow,
		TokenClass, TokenInterface, TokenEnum, TokenImport, TokenPackage,
		TokenIf, TokenElse, TokenFor, TokenWhile, TokenDo, TokenReturn,
		TokenBreak, TokenContinue, TokenThrow, TokenTry, TokenCatch,
		TokenFinally, TokenCase, TokenDefault:
		return true
	}
	return isModifier(tok)
}

func joinSpan(a, b Expr) exprSpan {
	return exprSpan{Span{Start: a.Span().Start, End: b.Span().End}}
}

func (p *Parser) badExpr(msg string) Expr {
	tok := p.peek()
	p.error(msg)
	if !stopsExpression(tok) {
		p.advance()
		return &BadExpr{exprSpan: spanOf(tok, tok), Token: tok}
	}
	return &BadExpr{exprSpan: exprSpan{Span{Start: tok.Span.Start, End: tok.Span.Start}}, Token: tok}
}

func (p *Parser) parseExpression() Expr {
	if p.isLambda() {
		return p.parseLambda()
	}
	left := p.parseTernary()
	if isAssignOp(p.peek()) {
		op := p.advance()
		right := p.parseExpression()
		return &Assign{exprSpan: joinSpan(left, right), Op: op, Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseTernary() Expr {
	cond := p.parseBinary(1)
	if !p.check(TokenQuestion) {
		return cond
	}
	p.advance()
	then := p.parseExpression()
	if p.expect(TokenColon) == nil {
		p.error("expected ':'")
		return &Conditional{exprSpan: joinSpan(cond, then), Cond: cond, Then: then}
	}
	var els Expr
	if p.isLambda() {
		els = p.parseLambda()
	} else {
		els = p.parseTernary()
	}
	return &Conditional{exprSpan: joinSpan(cond, els), Cond: cond, Then: then, Else: els}
}

// parseBinary parses operators of at least the given precedence, left
// associatively.
func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	for {
		op := p.peek()
		prec, ok := binaryPrecedence[op.Kind]
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		if op.Kind == TokenInstanceof {
			left = p.parseInstanceof(left)
			continue
		}
		right := p.parseBinary(prec + 1)
		left = &Binary{exprSpan: joinSpan(left, right), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseInstanceof(x Expr) Expr {
	if p.check(TokenFinal) || p.looksLikePattern() {
		typ, binding := p.parsePattern()
		return &InstanceOf{exprSpan: exprSpan{Span{Start: x.Span().Start, End: p.prev().Span.End}}, X: x, Type: typ, Binding: binding}
	}
	typ, _ := p.parseTypeSpec(SpecInstanceof)
	return &InstanceOf{exprSpan: exprSpan{Span{Start: x.Span().Start, End: p.prev().Span.End}}, X: x, Type: typ}
}

func (p *Parser) parseUnary() Expr {
	switch p.peek().Kind {
	case TokenPlus, TokenMinus, TokenNot, TokenBitNot, TokenIncrement, TokenDecrement:
		op := p.advance()
		x := p.parseUnary()
		return &Unary{exprSpan: exprSpan{Span{Start: op.Span.Start, End: x.Span().End}}, Op: op, X: x}
	case TokenLParen:
		if p.isCast() {
			return p.parseCast()
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parseCast() Expr {
	open := p.advance()
	var types [][]Token
	for {
		typ, ok := p.parseTypeSpec(SpecCast)
		if !ok {
			break
		}
		types = append(types, typ)
		if !p.check(TokenBitAnd) {
			break
		}
		p.advance()
	}
	p.expectCloseParen()
	var x Expr
	if p.isLambda() {
		x = p.parseLambda()
	} else {
		x = p.parseUnary()
	}
	return &Cast{exprSpan: exprSpan{Span{Start: open.Span.Start, End: x.Span().End}}, Types: types, X: x}
}

func (p *Parser) parsePostfix(x Expr) Expr {
	for {
		switch p.peek().Kind {
		case TokenDot:
			next := p.peekN(1)
			switch next.Kind {
			case TokenIdent:
				p.advance()
				name := p.advance()
				if p.check(TokenLParen) {
					args, end := p.parseArguments()
					x = &MethodCall{exprSpan: exprSpan{Span{Start: x.Span().Start, End: end.Span.End}}, Target: x, Name: name, Args: args}
				} else {
					x = &FieldAccess{exprSpan: exprSpan{Span{Start: x.Span().Start, End: name.Span.End}}, Target: x, Name: name}
				}
			case TokenLT:
				p.advance()
				targs := p.parseTypeArgList()
				name := p.peek()
				if !name.Is(TokenIdent, TokenThis, TokenSuper) {
					p.error("expected method name")
					return x
				}
				p.advance()
				args, end := p.parseArguments()
				x = &MethodCall{exprSpan: exprSpan{Span{Start: x.Span().Start, End: end.Span.End}}, Target: x, TypeArgs: targs, Name: name, Args: args}
			case TokenNew:
				p.advance()
				x = p.parseNew(x)
			case TokenThis:
				p.advance()
				kw := p.advance()
				x = &This{exprSpan: exprSpan{Span{Start: x.Span().Start, End: kw.Span.End}}, Token: kw}
			case TokenSuper:
				p.advance()
				kw := p.advance()
				x = &Super{exprSpan: exprSpan{Span{Start: x.Span().Start, End: kw.Span.End}}, Token: kw}
			default:
				p.advance()
				p.error("expected identifier")
				return x
			}
		case TokenLBracket:
			p.advance()
			idx := p.parseExpression()
			end := p.peek()
			if p.expect(TokenRBracket) == nil {
				p.error("expected ']'")
				end = p.prev()
			}
			x = &ArrayAccess{exprSpan: exprSpan{Span{Start: x.Span().Start, End: end.Span.End}}, Array: x, Index: idx}
		case TokenIncrement, TokenDecrement:
			op := p.advance()
			x = &Unary{exprSpan: exprSpan{Span{Start: x.Span().Start, End: op.Span.End}}, Op: op, X: x, Postfix: true}
		case TokenColonColon:
			p.advance()
			if p.check(TokenLT) {
				p.parseTypeArgList()
			}
			name := p.peek()
			if !name.Is(TokenIdent, TokenNew) {
				p.error("expected method name")
				return x
			}
			p.advance()
			x = &MethodRef{exprSpan: exprSpan{Span{Start: x.Span().Start, End: name.Span.End}}, Target: x, Name: name}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() Expr {
	tok := p.peek()
	switch {
	case tok.Kind.IsLiteral():
		p.advance()
		return &Literal{exprSpan: spanOf(tok, tok), Token: tok}
	case tok.Kind == TokenIdent:
		return p.parseNameExpr()
	case tok.Kind == TokenThis:
		p.advance()
		if p.check(TokenLParen) {
			args, end := p.parseArguments()
			return &MethodCall{exprSpan: spanOf(tok, end), Name: tok, Args: args}
		}
		return &This{exprSpan: spanOf(tok, tok), Token: tok}
	case tok.Kind == TokenSuper:
		p.advance()
		if p.check(TokenLParen) {
			args, end := p.parseArguments()
			return &MethodCall{exprSpan: spanOf(tok, end), Name: tok, Args: args}
		}
		return &Super{exprSpan: spanOf(tok, tok), Token: tok}
	case tok.Kind == TokenLParen:
		p.advance()
		x := p.parseExpression()
		p.expectCloseParen()
		return &Paren{exprSpan: spanOf(tok, p.prev()), X: x}
	case tok.Kind == TokenNew:
		return p.parseNew(nil)
	case tok.Kind == TokenSwitch:
		return p.parseSwitch()
	case tok.Kind.IsPrimitive():
		end := p.scanDims(p.pos + 1)
		typ := slices.Clone(p.tokens[p.pos:end])
		switch {
		case p.at(end).Kind == TokenDot && p.at(end+1).Kind == TokenClass:
			p.pos = end + 2
			return &ClassLit{exprSpan: spanOf(tok, p.prev()), Type: typ}
		case p.at(end).Kind == TokenColonColon:
			p.pos = end
			return &ClassLit{exprSpan: spanOf(tok, p.prev()), Type: typ}
		}
	}
	return p.badExpr("expected expression")
}

// parseNameExpr parses an expression starting with an identifier chain
// and reports how the chain is used.
func (p *Parser) parseNameExpr() Expr {
	startIdx := p.pos
	comps := []Token{p.advance()}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		comps = append(comps, p.advance())
	}
	first, last := comps[0], comps[len(comps)-1]
	switch {
	case p.check(TokenLParen):
		var target Expr
		if len(comps) > 1 {
			q := comps[:len(comps)-1]
			p.emit(ValueName{Components: q})
			target = &Name{exprSpan: spanOf(q[0], q[len(q)-1]), Components: q}
		}
		args, end := p.parseArguments()
		return &MethodCall{exprSpan: spanOf(first, end), Target: target, Name: last, Args: args}
	case p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
		p.advance()
		cls := p.advance()
		p.emit(ClassLiteral{Components: comps})
		return &ClassLit{exprSpan: spanOf(first, cls), Type: comps}
	case p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket:
		end := p.scanDims(p.pos)
		typ := slices.Clone(p.tokens[startIdx:end])
		if p.at(end).Kind == TokenDot && p.at(end+1).Kind == TokenClass {
			p.pos = end + 2
			p.emit(ClassLiteral{Components: comps})
			return &ClassLit{exprSpan: spanOf(first, p.prev()), Type: typ}
		}
		if p.at(end).Kind == TokenColonColon {
			p.pos = end
			p.emit(TypeSpec{Tokens: typ, Context: SpecOther, Next: p.peek()})
			return &ClassLit{exprSpan: spanOf(first, p.prev()), Type: typ}
		}
	case p.check(TokenDot) && p.peekN(1).Is(TokenThis, TokenSuper):
		p.emit(TypeSpec{Tokens: slices.Clone(p.tokens[startIdx:p.pos]), Context: SpecOther, Next: p.peek()})
		p.advance()
		kw := p.advance()
		if kw.Kind == TokenThis {
			return &This{exprSpan: spanOf(first, kw), Token: kw}
		}
		return &Super{exprSpan: spanOf(first, kw), Token: kw}
	case p.check(TokenLT):
		if end, extra, ok := p.scanTypeArgs(p.pos); ok && extra == 0 && p.at(end).Kind == TokenColonColon {
			typ := slices.Clone(p.tokens[startIdx:end])
			p.pos = end
			p.emit(TypeSpec{Tokens: typ, Context: SpecOther, Next: p.peek()})
			return &ClassLit{exprSpan: spanOf(first, p.prev()), Type: typ}
		}
	}
	p.emit(ValueName{Components: comps})
	return &Name{exprSpan: spanOf(first, last), Components: comps}
}

// parseArguments parses "(a, b)" and returns the arguments and the
// closing parenthesis, or the last token consumed when it is missing.
func (p *Parser) parseArguments() ([]Expr, Token) {
	p.advance()
	var args []Expr
	for !p.match(TokenRParen, TokenSemicolon, TokenRBrace, TokenEOF) {
		progress := p.mustProgress()
		args = append(args, p.parseExpression())
		if p.check(TokenComma) {
			p.advance()
		} else if !progress() || !p.check(TokenRParen) {
			break
		}
	}
	closing := p.peek()
	if p.expect(TokenRParen) == nil {
		p.error("expected ')'")
		return args, p.prev()
	}
	return args, closing
}

// parseTypeArgList parses explicit type arguments "<A, B>" and reports
// each of them.
func (p *Parser) parseTypeArgList() [][]Token {
	p.advance()
	var args [][]Token
	for !p.check(TokenGT) {
		end, ok := p.scanTypeClosing(p.pos)
		if !ok {
			p.error("expected type")
			break
		}
		typ := slices.Clone(p.tokens[p.pos:end])
		p.pos = end
		p.emit(TypeSpec{Tokens: typ, Context: SpecTypeArg, Next: p.peek()})
		args = append(args, typ)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if !p.expectGT() {
		p.error("expected '>'")
	}
	return args
}

func (p *Parser) parseNew(outer Expr) Expr {
	kw := p.advance()
	if p.check(TokenLT) {
		p.parseTypeArgList()
	}
	end, ok := p.scanClassType(p.pos)
	if !ok {
		return p.badExpr("expected type")
	}
	typ := slices.Clone(p.tokens[p.pos:end])
	p.pos = end
	p.emit(TypeSpec{Tokens: typ, Context: SpecNew, Next: p.peek()})
	switch {
	case p.check(TokenLBracket):
		return p.parseNewArray(kw, typ)
	case p.check(TokenLParen):
		args, last := p.parseArguments()
		n := &New{Outer: outer, Type: typ, Args: args}
		if p.check(TokenLBrace) {
			last = p.parseAnonymousBody()
			n.Body = true
		}
		n.exprSpan = spanOf(kw, last)
		return n
	}
	p.error("expected '(' or '['")
	return &New{exprSpan: spanOf(kw, p.prev()), Outer: outer, Type: typ}
}

func (p *Parser) parseNewArray(kw Token, elem []Token) Expr {
	n := &NewArray{Elem: elem}
	for p.check(TokenLBracket) {
		if p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			n.Extra++
			continue
		}
		if n.Extra > 0 {
			break
		}
		p.advance()
		n.Dims = append(n.Dims, p.parseExpression())
		if p.expect(TokenRBracket) == nil {
			p.error("expected ']'")
			break
		}
	}
	if p.check(TokenLBrace) {
		n.Init = p.parseArrayInit()
	}
	n.exprSpan = spanOf(kw, p.prev())
	return n
}

func (p *Parser) parseArrayInit() *ArrayInit {
	open := p.advance()
	init := &ArrayInit{}
	for !p.match(TokenRBrace, TokenSemicolon, TokenEOF) {
		progress := p.mustProgress()
		init.Elems = append(init.Elems, p.parseVarInit())
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	if p.expect(TokenRBrace) == nil {
		p.error("expected '}'")
	}
	init.exprSpan = spanOf(open, p.prev())
	return init
}

// parseLambda parses a lambda; its parameters are declared in a block
// spanning the whole lambda.
func (p *Parser) parseLambda() Expr {
	first := p.peek()
	p.emit(BeginBlock{Token: first})
	var params []Token
	if p.check(TokenIdent) {
		name := p.advance()
		params = append(params, name)
		p.declareInferredParam(name)
	} else {
		p.advance()
		for !p.match(TokenRParen, TokenLBrace, TokenSemicolon, TokenEOF) {
			progress := p.mustProgress()
			if p.check(TokenIdent) && p.peekN(1).Is(TokenComma, TokenRParen) {
				name := p.advance()
				params = append(params, name)
				p.declareInferredParam(name)
			} else if name := p.parseLambdaParam(); name != nil {
				params = append(params, *name)
			}
			if p.check(TokenComma) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		p.expectCloseParen()
	}
	if p.expect(TokenArrow) == nil {
		p.error("expected '->'")
	}
	if p.check(TokenLBrace) {
		p.parseBlock()
	} else {
		p.parseExpression()
	}
	last := p.prev()
	p.emit(EndBlock{Token: last, Included: true})
	return &Lambda{exprSpan: spanOf(first, last), Params: params}
}

func (p *Parser) declareInferredParam(name Token) {
	p.emit(LocalVarDecl{Start: name})
	p.emit(ModifiersConsumed{})
	p.emit(VarName{Name: name, Init: true})
	p.emit(EndLocalVar{})
}

func (p *Parser) parseLambdaParam() *Token {
	start := p.peek()
	p.parseModifiers()
	end, ok := p.scanType(p.pos)
	if !ok {
		p.emit(ModifiersConsumed{})
		p.error("expected parameter")
		return nil
	}
	p.emit(LocalVarDecl{Start: start, Type: slices.Clone(p.tokens[p.pos:end])})
	p.emit(ModifiersConsumed{})
	p.parseTypeSpec(SpecParam)
	if p.check(TokenEllipsis) {
		p.advance()
	}
	return p.declareLocal()
}
