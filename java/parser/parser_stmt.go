package parser

import "slices"

func (p *Parser) parseStatementsEntry() {
	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.parseBlockStatements()
		if p.check(TokenRBrace) {
			p.error("unexpected '}'")
			p.advance()
		}
		progress()
	}
}

func (p *Parser) parseVariablesEntry() {
	for !p.check(TokenEOF) {
		if !p.isLocalVarDecl() {
			p.error("expected variable declaration")
			return
		}
		p.parseLocalVarDecl()
		if p.check(TokenEOF) {
			return
		}
		p.expectSemi()
	}
}

func (p *Parser) parseBlock() Token {
	p.emit(BeginBlock{Token: p.advance()})
	p.parseBlockStatements()
	if closing := p.expect(TokenRBrace); closing != nil {
		p.emit(EndBlock{Token: *closing, Included: true})
		return *closing
	}
	p.error("expected '}'")
	p.emit(EndBlock{Token: p.peek()})
	return p.prev()
}

func (p *Parser) parseBlockStatements() {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.parseBlockStatement()
		progress()
	}
}

func (p *Parser) parseBlockStatement() {
	switch {
	case p.isLocalTypeDecl():
		start := p.peek()
		p.parseModifiers()
		p.parseTypeDeclRest(start)
	case p.isLocalVarDecl():
		p.parseLocalVarDecl()
		p.expectSemi()
	default:
		p.parseStatement()
	}
}

func (p *Parser) isLocalTypeDecl() bool {
	return p.typeKeywordAt(p.scanModifiers(p.pos))
}

// parseLocalVarDecl parses modifiers, type and declarators, without the
// terminating semicolon.
func (p *Parser) parseLocalVarDecl() {
	start := p.peek()
	p.parseModifiers()
	end, _ := p.scanType(p.pos)
	p.emit(LocalVarDecl{Start: start, Type: slices.Clone(p.tokens[p.pos:end])})
	p.emit(ModifiersConsumed{})
	p.parseTypeSpec(SpecLocal)
	p.parseDeclarators()
	p.emit(EndLocalVar{})
}

// declareLocal reports a single local variable of an already known type,
// as for loop variables, catch parameters and pattern bindings. The name
// is consumed and dimensions after it are reported.
func (p *Parser) declareLocal() *Token {
	name := p.expect(TokenIdent)
	if name == nil {
		p.error("expected identifier")
		return nil
	}
	dims := p.parseArrayDeclarators()
	p.emit(VarName{Name: *name, Dims: dims, Init: true})
	p.emit(EndLocalVar{})
	return name
}

func (p *Parser) parseStatement() {
	tok := p.peek()
	switch tok.Kind {
	case TokenLBrace:
		p.parseBlock()
	case TokenSemicolon:
		p.advance()
	case TokenIf:
		p.parseIfStmt()
	case TokenFor:
		p.parseForStmt()
	case TokenWhile:
		p.advance()
		p.parseCondition()
		p.parseStatement()
	case TokenDo:
		p.parseDoStmt()
	case TokenSwitch:
		p.parseSwitch()
	case TokenTry:
		p.parseTryStmt()
	case TokenSynchronized:
		p.advance()
		p.parseCondition()
		p.parseBlockOrError()
	case TokenReturn, TokenThrow:
		p.advance()
		if !p.check(TokenSemicolon) {
			p.parseExpression()
		}
		p.expectSemi()
	case TokenBreak, TokenContinue:
		p.advance()
		if p.check(TokenIdent) {
			p.advance()
		}
		p.expectSemi()
	case TokenAssert:
		p.advance()
		p.parseExpression()
		if p.check(TokenColon) {
			p.advance()
			p.parseExpression()
		}
		p.expectSemi()
	case TokenIdent:
		switch {
		case p.peekN(1).Kind == TokenColon:
			p.advance()
			p.advance()
			p.parseStatement()
		case tok.Literal == "yield" && p.isYield():
			p.advance()
			p.parseExpression()
			p.expectSemi()
		default:
			p.parseExprStmt()
		}
	default:
		p.parseExprStmt()
	}
}

func (p *Parser) isYield() bool {
	next := p.peekN(1)
	if next.Is(TokenLParen, TokenLBracket, TokenDot, TokenIncrement, TokenDecrement, TokenSemicolon) ||
		isAssignOp(next) {
		return false
	}
	return startsExpression(next)
}

func (p *Parser) parseExprStmt() {
	if !startsExpression(p.peek()) {
		p.error("expected statement")
		p.syncStatement()
		return
	}
	p.parseExpression()
	p.expectSemi()
}

// parseCondition parses a parenthesized expression.
func (p *Parser) parseCondition() Expr {
	if p.expect(TokenLParen) == nil {
		p.error("expected '('")
		return p.parseExpression()
	}
	x := p.parseExpression()
	p.expectCloseParen()
	return x
}

func (p *Parser) parseBlockOrError() {
	if p.check(TokenLBrace) {
		p.parseBlock()
		return
	}
	p.error("expected '{'")
	p.syncStatement()
}

func (p *Parser) parseIfStmt() {
	p.advance()
	p.parseCondition()
	p.parseStatement()
	if p.check(TokenElse) {
		p.advance()
		p.parseStatement()
	}
}

func (p *Parser) parseDoStmt() {
	p.advance()
	p.parseStatement()
	if p.expect(TokenWhile) == nil {
		p.error("expected 'while'")
		p.syncStatement()
		return
	}
	p.parseCondition()
	p.expectSemi()
}

func (p *Parser) parseForStmt() {
	p.advance()
	if !p.check(TokenLParen) {
		p.error("expected '('")
		p.syncStatement()
		return
	}
	if p.isEnhancedFor() {
		p.advance()
		start := p.peek()
		p.parseModifiers()
		end, _ := p.scanType(p.pos)
		typ := slices.Clone(p.tokens[p.pos:end])
		p.emit(LocalVarDecl{Start: start, Type: typ})
		p.emit(ModifiersConsumed{})
		p.parseTypeSpec(SpecLocal)
		p.declareLocal()
		p.advance()
		p.parseExpression()
	} else {
		p.advance()
		if !p.check(TokenSemicolon) {
			if p.isLocalVarDecl() {
				p.parseLocalVarDecl()
			} else {
				p.parseExpressionList()
			}
		}
		if p.expect(TokenSemicolon) == nil {
			p.error("expected ';'")
			p.syncParen()
			p.parseStatement()
			return
		}
		if !p.check(TokenSemicolon) {
			p.parseExpression()
		}
		if p.expect(TokenSemicolon) == nil {
			p.error("expected ';'")
			p.syncParen()
			p.parseStatement()
			return
		}
		if !p.check(TokenRParen) {
			p.parseExpressionList()
		}
	}
	p.expectCloseParen()
	p.parseStatement()
}

func (p *Parser) parseExpressionList() {
	for {
		p.parseExpression()
		if !p.check(TokenComma) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseTryStmt() {
	p.advance()
	if p.check(TokenLParen) {
		p.advance()
		for !p.match(TokenRParen, TokenLBrace, TokenRBrace, TokenEOF) {
			progress := p.mustProgress()
			if p.isLocalVarDecl() {
				p.parseLocalVarDecl()
			} else {
				p.parseExpression()
			}
			if p.check(TokenSemicolon) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		p.expectCloseParen()
	}
	if !p.check(TokenLBrace) {
		p.error("expected '{'")
		p.syncStatement()
		return
	}
	p.parseBlock()
	for p.check(TokenCatch) {
		p.advance()
		if p.expect(TokenLParen) == nil {
			p.error("expected '('")
			p.syncStatement()
			return
		}
		start := p.peek()
		p.parseModifiers()
		end, _ := p.scanType(p.pos)
		typ := slices.Clone(p.tokens[p.pos:end])
		p.emit(LocalVarDecl{Start: start, Type: typ})
		p.emit(ModifiersConsumed{})
		for {
			if _, ok := p.parseTypeSpec(SpecCatch); !ok || !p.check(TokenBitOr) {
				break
			}
			p.advance()
		}
		p.declareLocal()
		p.expectCloseParen()
		p.parseBlockOrError()
	}
	if p.check(TokenFinally) {
		p.advance()
		p.parseBlockOrError()
	}
}

// parseSwitch parses a switch statement or expression; the result is
// the same either way.
func (p *Parser) parseSwitch() Expr {
	kw := p.advance()
	sel := p.parseCondition()
	if !p.check(TokenLBrace) {
		p.error("expected '{'")
		return &Switch{exprSpan: spanOf(kw, p.prev()), Selector: sel}
	}
	p.emit(BeginBlock{Token: p.advance()})
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.match(TokenCase, TokenDefault) {
			p.parseSwitchLabel()
			switch {
			case p.check(TokenArrow):
				p.advance()
				switch {
				case p.check(TokenLBrace):
					p.parseBlock()
				case p.check(TokenThrow):
					p.parseStatement()
				default:
					p.parseExpression()
					p.expectSemi()
				}
			case p.check(TokenColon):
				p.advance()
			default:
				p.error("expected ':' or '->'")
			}
		} else {
			p.parseBlockStatement()
		}
		progress()
	}
	if closing := p.expect(TokenRBrace); closing != nil {
		p.emit(EndBlock{Token: *closing, Included: true})
	} else {
		p.error("expected '}'")
		p.emit(EndBlock{Token: p.peek()})
	}
	return &Switch{exprSpan: spanOf(kw, p.prev()), Selector: sel}
}

func (p *Parser) parseSwitchLabel() {
	if p.check(TokenDefault) {
		p.advance()
		return
	}
	p.advance()
	for {
		switch {
		case p.check(TokenDefault):
			p.advance()
		case p.looksLikePattern():
			p.parsePattern()
		default:
			p.parseTernary()
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if p.check(TokenIdent) && p.peek().Literal == "when" {
		p.advance()
		p.parseTernary()
	}
}

// parsePattern parses a type pattern or a record pattern and declares
// its bindings. It returns the pattern's type and binding name.
func (p *Parser) parsePattern() ([]Token, *Token) {
	start := p.peek()
	p.parseModifiers()
	end, ok := p.scanType(p.pos)
	if !ok {
		p.emit(ModifiersConsumed{})
		p.error("expected type")
		return nil, nil
	}
	typ := slices.Clone(p.tokens[p.pos:end])
	if p.at(end).Kind == TokenLParen {
		p.emit(ModifiersConsumed{})
		p.parseTypeSpec(SpecInstanceof)
		p.advance()
		for !p.match(TokenRParen, TokenLBrace, TokenSemicolon, TokenEOF) {
			progress := p.mustProgress()
			p.parsePattern()
			if p.check(TokenComma) {
				p.advance()
			}
			if !progress() {
				break
			}
		}
		p.expectCloseParen()
		return typ, nil
	}
	p.emit(LocalVarDecl{Start: start, Type: typ})
	p.emit(ModifiersConsumed{})
	p.parseTypeSpec(SpecInstanceof)
	return typ, p.declareLocal()
}
