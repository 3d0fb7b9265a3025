package parser

// The scan functions look ahead over the token slice without consuming
// tokens or emitting events. Each takes the index to start at and
// returns the index just past what it recognised.

func (p *Parser) at(i int) Token {
	if i < 0 || i >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[i]
}

// skipBalanced steps over a bracketed group starting at the opening token
// at i. ok is false when the input ends before the group closes.
func (p *Parser) skipBalanced(i int, open, close TokenKind) (int, bool) {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case TokenEOF:
			return i, false
		}
	}
	return i, false
}

func (p *Parser) scanAnnotations(i int) int {
	for p.at(i).Kind == TokenAt && p.at(i+1).Kind == TokenIdent {
		i += 2
		for p.at(i).Kind == TokenDot && p.at(i+1).Kind == TokenIdent {
			i += 2
		}
		if p.at(i).Kind == TokenLParen {
			end, ok := p.skipBalanced(i, TokenLParen, TokenRParen)
			if !ok {
				return end
			}
			i = end
		}
	}
	return i
}

// scanModifiers steps over modifiers and annotations, but not over an
// "@interface" keyword pair.
func (p *Parser) scanModifiers(i int) int {
	for {
		tok := p.at(i)
		switch {
		case p.isModifierAt(i):
			i++
		case tok.Kind == TokenAt && p.at(i+1).Kind != TokenInterface:
			next := p.scanAnnotations(i)
			if next == i {
				return i
			}
			i = next
		default:
			return i
		}
	}
}

// scanType recognises a complete type: annotations, a primitive or a
// qualified class type with type arguments, then array dimensions.
func (p *Parser) scanType(i int) (int, bool) {
	end, extra, ok := p.scanTypeAt(i, true)
	return end, ok && extra == 0
}

// scanClassType recognises a type without trailing array dimensions, as
// written after "new".
func (p *Parser) scanClassType(i int) (int, bool) {
	end, extra, ok := p.scanTypeAt(i, false)
	return end, ok && extra == 0
}

// scanTypeAt returns, besides the end index, how many '>' of a merged
// ">>" or ">>>" token were left over for enclosing argument lists.
func (p *Parser) scanTypeAt(i int, dims bool) (int, int, bool) {
	i = p.scanAnnotations(i)
	tok := p.at(i)
	switch {
	case tok.Kind.IsPrimitive():
		i++
	case tok.Kind == TokenIdent:
		i++
		for {
			if p.at(i).Kind == TokenLT {
				end, extra, ok := p.scanTypeArgs(i)
				if !ok {
					return end, 0, false
				}
				i = end
				if extra > 0 {
					return i, extra, true
				}
			}
			if p.at(i).Kind == TokenDot && p.at(i+1).Kind == TokenIdent {
				i += 2
				continue
			}
			if p.at(i).Kind == TokenDot && p.at(i+1).Kind == TokenAt {
				next := p.scanAnnotations(i + 1)
				if p.at(next).Kind == TokenIdent {
					i = next + 1
					continue
				}
			}
			break
		}
	default:
		return i, 0, false
	}
	if dims {
		i = p.scanDims(i)
	}
	return i, 0, true
}

// scanDims steps over "[]" pairs, each optionally annotated.
func (p *Parser) scanDims(i int) int {
	for {
		j := p.scanAnnotations(i)
		if p.at(j).Kind == TokenLBracket && p.at(j+1).Kind == TokenRBracket {
			i = j + 2
			continue
		}
		return i
	}
}

func (p *Parser) scanTypeArgs(i int) (int, int, bool) {
	i++
	if p.at(i).Kind == TokenGT {
		return i + 1, 0, true
	}
	for {
		var extra int
		var ok bool
		i = p.scanAnnotations(i)
		if p.at(i).Kind == TokenQuestion {
			i++
			if p.at(i).Is(TokenExtends, TokenSuper) {
				i, extra, ok = p.scanTypeAt(i+1, true)
				if !ok {
					return i, 0, false
				}
			}
		} else {
			i, extra, ok = p.scanTypeAt(i, true)
			if !ok {
				return i, 0, false
			}
		}
		if extra > 0 {
			return i, extra - 1, true
		}
		switch p.at(i).Kind {
		case TokenComma:
			i++
		case TokenGT:
			return i + 1, 0, true
		case TokenShr:
			return i + 1, 1, true
		case TokenUShr:
			return i + 1, 2, true
		default:
			return i, 0, false
		}
	}
}

// scanTypeParams steps over a "<...>" type parameter list by depth.
func (p *Parser) scanTypeParams(i int) (int, bool) {
	if p.at(i).Kind != TokenLT {
		return i, false
	}
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenLBrace, TokenRBrace, TokenSemicolon, TokenEOF:
			return i, false
		}
		if depth <= 0 {
			return i + 1, depth == 0
		}
	}
	return i, false
}

// isLocalVarDecl reports whether a local variable declaration starts at
// the current position.
func (p *Parser) isLocalVarDecl() bool {
	i := p.scanModifiers(p.pos)
	end, ok := p.scanType(i)
	if !ok || p.at(end).Kind != TokenIdent {
		return false
	}
	// yield is not a type name: "yield k;" is a yield statement.
	if end == i+1 && p.at(i).Literal == "yield" {
		return false
	}
	switch p.at(end + 1).Kind {
	case TokenAssign, TokenSemicolon, TokenComma, TokenLBracket, TokenColon:
		return true
	}
	return i > p.pos
}

// isCast reports whether the parenthesis at the current position opens a
// cast rather than a parenthesized expression.
func (p *Parser) isCast() bool {
	if !p.check(TokenLParen) {
		return false
	}
	i := p.pos + 1
	end, ok := p.scanType(i)
	if !ok {
		return false
	}
	primitive := p.at(p.scanAnnotations(i)).Kind.IsPrimitive() && end == p.scanAnnotations(i)+1
	for p.at(end).Kind == TokenBitAnd {
		end, ok = p.scanType(end + 1)
		if !ok {
			return false
		}
	}
	if p.at(end).Kind != TokenRParen {
		return false
	}
	next := p.at(end + 1)
	if primitive {
		return startsExpression(next)
	}
	switch next.Kind {
	case TokenIdent, TokenThis, TokenSuper, TokenNew, TokenSwitch,
		TokenLParen, TokenNot, TokenBitNot:
		return true
	}
	return next.Kind.IsLiteral() || next.Kind.IsPrimitive()
}

// isLambda reports whether a lambda expression starts at the current
// position.
func (p *Parser) isLambda() bool {
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return true
	}
	if !p.check(TokenLParen) {
		return false
	}
	end, ok := p.skipBalanced(p.pos, TokenLParen, TokenRParen)
	return ok && p.at(end).Kind == TokenArrow
}

// isEnhancedFor reports whether the parenthesized for header at the
// current position declares a loop variable with ':'.
func (p *Parser) isEnhancedFor() bool {
	i := p.scanModifiers(p.pos + 1)
	end, ok := p.scanType(i)
	if !ok || p.at(end).Kind != TokenIdent {
		return false
	}
	return p.at(p.scanDims(end+1)).Kind == TokenColon
}

// looksLikePattern reports whether a type pattern (a type followed by a
// binding name, or a record pattern) starts at the current position.
func (p *Parser) looksLikePattern() bool {
	i := p.scanModifiers(p.pos)
	end, ok := p.scanType(i)
	if !ok {
		return false
	}
	switch p.at(end).Kind {
	case TokenIdent:
		return true
	case TokenLParen:
		return p.at(i).Kind == TokenIdent
	}
	return false
}

func isModifier(tok Token) bool {
	switch tok.Kind {
	case TokenPublic, TokenProtected, TokenPrivate, TokenStatic, TokenAbstract,
		TokenFinal, TokenNative, TokenSynchronized, TokenTransient,
		TokenVolatile, TokenStrictfp, TokenNonSealed:
		return true
	}
	return false
}

// isModifierAt also accepts the contextual modifiers: "sealed", and
// "default" where it does not label a switch case.
func (p *Parser) isModifierAt(i int) bool {
	tok := p.at(i)
	if isModifier(tok) {
		return true
	}
	if tok.Kind == TokenDefault {
		return !p.at(i+1).Is(TokenColon, TokenArrow)
	}
	return p.isSealedAt(i)
}

// isSealedAt reports whether the identifier at i is the contextual
// modifier "sealed".
func (p *Parser) isSealedAt(i int) bool {
	tok := p.at(i)
	if tok.Kind != TokenIdent || tok.Literal != "sealed" {
		return false
	}
	next := p.at(i + 1)
	return next.Is(TokenClass, TokenInterface, TokenAbstract) || isModifier(next)
}

func startsExpression(tok Token) bool {
	switch tok.Kind {
	case TokenIdent, TokenThis, TokenSuper, TokenNew, TokenSwitch,
		TokenLParen, TokenNot, TokenBitNot, TokenPlus, TokenMinus,
		TokenIncrement, TokenDecrement:
		return true
	}
	return tok.Kind.IsLiteral() || tok.Kind.IsPrimitive()
}
