package parser

import (
	"io"
	"slices"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

type parseFunc func(*Parser)

// Parser walks Java source and reports what it finds as events to a
// Listener. It never stops at the first error: each syntax error is
// reported as an Error event and parsing resumes at the next plausible
// statement, member or declaration.
type Parser struct {
	file       string
	startLine  int
	reader     io.Reader
	input      []byte
	listener   Listener
	tokens     []Token
	pos        int
	entry      parseFunc
	hadError   bool
	incomplete bool
	lastError  int
	expr       Expr
}

func newParser(r io.Reader, l Listener, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		startLine: 1,
		reader:    r,
		listener:  l,
		entry:     entry,
		lastError: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCompilationUnit prepares a parse of a whole source file.
func ParseCompilationUnit(r io.Reader, l Listener, opts ...Option) *Parser {
	return newParser(r, l, (*Parser).parseCompilationUnit, opts)
}

// ParseExpression prepares a parse of a single expression. The tree is
// available from Expr after Finish.
func ParseExpression(r io.Reader, l Listener, opts ...Option) *Parser {
	return newParser(r, l, (*Parser).parseExpressionEntry, opts)
}

// ParseStatements prepares a parse of a sequence of block statements,
// as typed into a method body.
func ParseStatements(r io.Reader, l Listener, opts ...Option) *Parser {
	return newParser(r, l, (*Parser).parseStatementsEntry, opts)
}

// ParseImport prepares a parse of a single import declaration, such as
// one typed into an interactive session.
func ParseImport(r io.Reader, l Listener, opts ...Option) *Parser {
	return newParser(r, l, (*Parser).parseImportEntry, opts)
}

// ParseVariableDeclarations prepares a parse of local variable
// declarations only; any other statement is a syntax error.
func ParseVariableDeclarations(r io.Reader, l Listener, opts ...Option) *Parser {
	return newParser(r, l, (*Parser).parseVariablesEntry, opts)
}

// Finish reads the input and runs the parse. The returned error is only
// ever a read error; syntax errors are delivered as events.
func (p *Parser) Finish() error {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return err
		}
		p.input = data
	}
	p.tokenize()
	p.pos = 0
	p.hadError = false
	p.incomplete = false
	p.lastError = -1
	p.expr = nil
	p.entry(p)
	return nil
}

// HadError reports whether the last parse reported any syntax error.
func (p *Parser) HadError() bool {
	return p.hadError
}

// Incomplete reports whether the input ended while a construct was still
// open, as with "foo(" or "if (x) {".
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

func (p *Parser) Expr() Expr {
	return p.expr
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.pos = 0
}

func (p *Parser) tokenize() {
	lex := NewLexer(p.input, p.file)
	lex.line = p.startLine
	p.tokens = p.tokens[:0]
	for {
		tok := lex.Next()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) emit(e Event) {
	if p.listener != nil {
		p.listener.HandleEvent(e)
	}
}

func (p *Parser) error(msg string) {
	p.hadError = true
	if p.check(TokenEOF) {
		p.incomplete = true
	}
	if p.pos == p.lastError {
		return
	}
	p.lastError = p.pos
	p.emit(Error{Message: msg, Token: p.peek()})
}

func (p *Parser) peek() Token {
	return p.at(p.pos)
}

func (p *Parser) peekN(n int) Token {
	return p.at(p.pos + n)
}

// prev returns the last consumed token, or the first token when nothing
// has been consumed yet.
func (p *Parser) prev() Token {
	if p.pos == 0 {
		return p.peek()
	}
	return p.at(p.pos - 1)
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	return p.peek().Is(kinds...)
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; it consumes one token when no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// expectGT consumes one '>', splitting a merged closer such as ">>".
func (p *Parser) expectGT() bool {
	tok := p.peek()
	if tok.Kind == TokenGT {
		p.advance()
		return true
	}
	if len(tok.Literal) > 1 && tok.Literal[0] == '>' {
		p.splitCloser(p.pos, 1)
		p.advance()
		return true
	}
	return false
}

// splitCloser splits the merged closer at index k so that its first keep
// characters become a token of their own.
func (p *Parser) splitCloser(k, keep int) {
	tok := p.tokens[k]
	head, tail := tok, tok
	head.Literal, tail.Literal = tok.Literal[:keep], tok.Literal[keep:]
	head.Kind, tail.Kind = operators[head.Literal], operators[tail.Literal]
	head.Span.End = Position{
		File:   tok.Span.Start.File,
		Offset: tok.Span.Start.Offset + keep,
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column + keep,
	}
	tail.Span.Start = head.Span.End
	tail.Hidden = ""
	p.tokens[k] = head
	p.tokens = slices.Insert(p.tokens, k+1, tail)
}

// scanTypeClosing scans a type inside a '<...>' list, splitting a merged
// closer that also ends the enclosing list.
func (p *Parser) scanTypeClosing(i int) (int, bool) {
	end, extra, ok := p.scanTypeAt(i, true)
	if !ok {
		return end, false
	}
	if extra > 0 {
		last := p.tokens[end-1]
		p.splitCloser(end-1, len(last.Literal)-extra)
		return p.scanType(i)
	}
	return end, true
}

func javadoc(start Token) string {
	if strings.HasPrefix(start.Hidden, "/**") {
		return start.Hidden
	}
	return ""
}

// Resynchronisation.

func (p *Parser) skipBlock() {
	if end, ok := p.skipBalanced(p.pos, TokenLBrace, TokenRBrace); ok {
		p.pos = end
		return
	}
	p.advance()
}

func (p *Parser) syncTopLevel() {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF:
			return
		case tok.Kind == TokenSemicolon:
			p.advance()
			return
		case tok.Kind == TokenLBrace:
			p.skipBlock()
			continue
		case tok.Is(TokenClass, TokenInterface, TokenEnum, TokenImport, TokenPackage, TokenAt),
			p.isModifierAt(p.pos):
			return
		}
		p.advance()
	}
}

func (p *Parser) syncMember() {
	for first := true; ; first = false {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF || tok.Kind == TokenRBrace:
			return
		case tok.Kind == TokenSemicolon:
			p.advance()
			return
		case tok.Kind == TokenLBrace:
			p.skipBlock()
			return
		case !first && (p.isModifierAt(p.pos) || p.startsMemberAt(p.pos) ||
			tok.Is(TokenClass, TokenInterface, TokenEnum, TokenAt)):
			return
		}
		p.advance()
	}
}

// startsMemberAt reports whether a field or method declaration without
// modifiers starts at i.
func (p *Parser) startsMemberAt(i int) bool {
	end, ok := p.scanType(i)
	return ok && p.at(end).Kind == TokenIdent &&
		p.at(end+1).Is(TokenLParen, TokenAssign, TokenSemicolon, TokenComma)
}

func (p *Parser) syncStatement() {
	for {
		switch p.peek().Kind {
		case TokenEOF, TokenRBrace:
			return
		case TokenSemicolon:
			p.advance()
			return
		case TokenLBrace:
			p.skipBlock()
			return
		case TokenIf, TokenFor, TokenWhile, TokenDo, TokenReturn, TokenTry,
			TokenThrow, TokenBreak, TokenContinue:
			return
		}
		p.advance()
	}
}

// syncParen skips to the closing parenthesis of the current group, but
// never past a statement or block boundary.
func (p *Parser) syncParen() {
	for {
		switch p.peek().Kind {
		case TokenRParen:
			p.advance()
			return
		case TokenSemicolon, TokenLBrace, TokenRBrace, TokenEOF:
			return
		}
		p.advance()
	}
}

func (p *Parser) expectCloseParen() {
	if p.expect(TokenRParen) != nil {
		return
	}
	p.error("expected ')'")
	p.syncParen()
}

func (p *Parser) expectSemi() {
	if p.expect(TokenSemicolon) == nil {
		p.error("expected ';'")
		p.syncStatement()
	}
}

// Compilation units.

func (p *Parser) parseCompilationUnit() {
	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		p.parsePackageDecl()
	}
	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		switch {
		case p.check(TokenSemicolon):
			p.advance()
		case p.check(TokenImport):
			p.parseImportDecl()
		case p.isModuleDecl():
			p.skipModuleDecl()
		default:
			p.parseTypeDecl()
		}
		progress()
	}
}

func (p *Parser) parseImportEntry() {
	if !p.check(TokenImport) {
		p.error("expected import")
		return
	}
	p.parseImportDecl()
	if !p.check(TokenEOF) {
		p.error("unexpected " + p.peek().Literal)
	}
}

func (p *Parser) isAnnotatedPackage() bool {
	i := p.scanAnnotations(p.pos)
	return i > p.pos && p.at(i).Kind == TokenPackage
}

func (p *Parser) parsePackageDecl() {
	p.parseModifiers()
	p.emit(BeginPackage{Token: p.advance()})
	name, ok := p.parseQualifiedName()
	if !ok {
		p.error("expected package name")
		p.syncTopLevel()
		return
	}
	p.emit(Package{Tokens: name})
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.error("expected ';'")
		p.syncTopLevel()
		return
	}
	p.emit(PackageSemi{Token: *semi})
}

// parseQualifiedName returns the identifiers and dots of a dotted name.
func (p *Parser) parseQualifiedName() ([]Token, bool) {
	if !p.check(TokenIdent) {
		return nil, false
	}
	toks := []Token{p.advance()}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		toks = append(toks, p.advance(), p.advance())
	}
	return toks, true
}

func (p *Parser) parseImportDecl() {
	imp := Import{Start: p.advance()}
	if p.check(TokenStatic) {
		p.advance()
		imp.Static = true
	}
	id := p.expect(TokenIdent)
	if id == nil {
		p.error("expected name")
		p.syncTopLevel()
		return
	}
	imp.Name = []Token{*id}
	for p.check(TokenDot) {
		if p.peekN(1).Kind == TokenStar {
			p.advance()
			p.advance()
			imp.Wildcard = true
			break
		}
		if p.peekN(1).Kind != TokenIdent {
			break
		}
		p.advance()
		imp.Name = append(imp.Name, p.advance())
	}
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.error("expected ';'")
		p.syncTopLevel()
		return
	}
	imp.End = *semi
	p.emit(imp)
}

func (p *Parser) isModuleDecl() bool {
	i := p.scanAnnotations(p.pos)
	tok := p.at(i)
	if tok.Kind == TokenIdent && tok.Literal == "open" {
		i++
		tok = p.at(i)
	}
	return tok.Kind == TokenIdent && tok.Literal == "module" && p.at(i+1).Kind == TokenIdent
}

// skipModuleDecl steps over a module declaration; module directives
// carry nothing the listeners track.
func (p *Parser) skipModuleDecl() {
	for !p.check(TokenLBrace) && !p.check(TokenEOF) {
		p.advance()
	}
	if p.check(TokenLBrace) {
		p.skipBlock()
	}
}

// Type declarations.

func (p *Parser) parseTypeDecl() {
	start := p.peek()
	p.parseModifiers()
	if !p.parseTypeDeclRest(start) {
		p.emit(ModifiersConsumed{})
		p.error("expected class, interface, enum or record")
		p.syncTopLevel()
	}
}

func (p *Parser) atTypeKeyword() bool {
	return p.typeKeywordAt(p.pos)
}

func (p *Parser) typeKeywordAt(i int) bool {
	tok := p.at(i)
	switch tok.Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAt:
		return p.at(i+1).Kind == TokenInterface
	case TokenIdent:
		return tok.Literal == "record" && p.at(i+1).Kind == TokenIdent &&
			p.at(i+2).Is(TokenLParen, TokenLT)
	}
	return false
}

// parseTypeDeclRest parses a type declaration whose modifiers have been
// consumed; start is the declaration's first token. It returns false,
// consuming nothing, when no type keyword follows.
func (p *Parser) parseTypeDeclRest(start Token) bool {
	var kind TypeDefKind
	switch tok := p.peek(); {
	case tok.Kind == TokenClass:
		kind = TypeDefClass
	case tok.Kind == TokenInterface:
		kind = TypeDefInterface
	case tok.Kind == TokenEnum:
		kind = TypeDefEnum
	case tok.Kind == TokenAt && p.peekN(1).Kind == TokenInterface:
		p.advance()
		kind = TypeDefAnnotation
	case p.atTypeKeyword():
		kind = TypeDefRecord
	default:
		return false
	}
	kw := p.advance()
	p.emit(TypeDef{Kind: kind, Start: start, Keyword: kw, Javadoc: javadoc(start)})
	p.emit(ModifiersConsumed{})

	if name := p.expect(TokenIdent); name != nil {
		p.emit(TypeDefName{Name: *name})
	} else {
		p.error("expected identifier")
	}
	if p.check(TokenLT) {
		p.parseTypeParameters()
	}
	if kind == TypeDefRecord && p.check(TokenLParen) {
		p.parseRecordHeader()
	}
	if p.check(TokenExtends) {
		ext := p.advance()
		p.emit(TypeDefExtends{Token: ext, Next: p.peek()})
		p.parseTypeList(SpecExtends)
	}
	if p.check(TokenImplements) {
		p.emit(TypeDefImplements{Token: p.advance()})
		p.parseTypeList(SpecImplements)
	}
	if p.check(TokenIdent) && p.peek().Literal == "permits" {
		p.advance()
		p.parseTypeList(SpecOther)
	}

	if !p.check(TokenLBrace) {
		p.error("expected '{'")
		if !p.skipToBody() {
			p.emit(EndTypeDef{Last: p.prev()})
			return true
		}
	}
	last := p.parseTypeBody(kind)
	p.emit(EndTypeDef{Last: last})
	return true
}

// skipToBody skips a damaged type header up to its body, if the body
// opens before the next declaration.
func (p *Parser) skipToBody() bool {
	for i := p.pos; ; i++ {
		tok := p.at(i)
		switch {
		case tok.Kind == TokenLBrace:
			p.pos = i
			return true
		case tok.Is(TokenEOF, TokenSemicolon, TokenRBrace, TokenClass, TokenInterface, TokenEnum),
			p.isModifierAt(i):
			return false
		}
	}
}

func (p *Parser) parseTypeList(ctx SpecContext) {
	for {
		if _, ok := p.parseTypeSpec(ctx); !ok {
			return
		}
		if !p.check(TokenComma) {
			return
		}
		p.advance()
	}
}

// parseTypeSpec consumes a complete type and reports it.
func (p *Parser) parseTypeSpec(ctx SpecContext) ([]Token, bool) {
	end, ok := p.scanType(p.pos)
	if !ok {
		p.error("expected type")
		return nil, false
	}
	toks := slices.Clone(p.tokens[p.pos:end])
	p.pos = end
	p.emit(TypeSpec{Tokens: toks, Context: ctx, Next: p.peek()})
	return toks, true
}

func (p *Parser) parseTypeParameters() {
	p.advance()
	for {
		p.pos = p.scanAnnotations(p.pos)
		name := p.expect(TokenIdent)
		if name == nil {
			p.error("expected type parameter")
			break
		}
		p.emit(TypeParam{Name: *name})
		if p.check(TokenExtends) {
			p.advance()
			for {
				end, ok := p.scanTypeClosing(p.pos)
				if !ok {
					p.error("expected type")
					break
				}
				p.emit(TypeParamBound{Tokens: slices.Clone(p.tokens[p.pos:end])})
				p.pos = end
				if !p.check(TokenBitAnd) {
					break
				}
				p.advance()
			}
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if !p.expectGT() {
		p.error("expected '>'")
		if end, ok := p.scanTypeParams(p.pos); ok {
			p.pos = end
		}
	}
}

func (p *Parser) parseRecordHeader() {
	p.advance()
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		p.parseModifiers()
		p.emit(ModifiersConsumed{})
		typ, ok := p.parseTypeSpec(SpecField)
		if !ok {
			break
		}
		if p.check(TokenEllipsis) {
			p.advance()
		}
		name := p.expect(TokenIdent)
		if name == nil {
			p.error("expected identifier")
			break
		}
		p.emit(RecordComponent{Name: *name, Type: typ})
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	p.expectCloseParen()
}

func (p *Parser) parseModifiers() {
	for {
		tok := p.peek()
		switch {
		case p.isModifierAt(p.pos):
			p.emit(Modifier{Token: p.advance()})
		case tok.Kind == TokenAt && p.peekN(1).Kind == TokenIdent:
			p.parseAnnotation()
		default:
			return
		}
	}
}

func (p *Parser) parseAnnotation() {
	p.advance()
	name, _ := p.parseQualifiedName()
	p.emit(Annotation{Name: name})
	if !p.check(TokenLParen) {
		return
	}
	p.advance()
	for !p.match(TokenRParen, TokenRBrace, TokenSemicolon, TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenIdent) && p.peekN(1).Kind == TokenAssign {
			p.advance()
			p.advance()
		}
		p.parseElementValue()
		if p.check(TokenComma) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	p.expectCloseParen()
}

func (p *Parser) parseElementValue() {
	switch {
	case p.check(TokenAt) && p.peekN(1).Kind == TokenIdent:
		p.parseAnnotation()
	case p.check(TokenLBrace):
		p.advance()
		for !p.match(TokenRBrace, TokenSemicolon, TokenEOF) {
			progress := p.mustProgress()
			p.parseElementValue()
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
	default:
		p.parseTernary()
	}
}

// parseTypeBody parses "{ members }" and returns the last token of the
// body, the closing brace when present.
func (p *Parser) parseTypeBody(kind TypeDefKind) Token {
	p.emit(BeginTypeBody{Token: p.advance()})
	if kind == TypeDefEnum {
		p.parseEnumConstants()
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		p.parseClassMember()
		progress()
	}
	if closing := p.expect(TokenRBrace); closing != nil {
		p.emit(EndTypeBody{Token: *closing, Included: true})
		return *closing
	}
	p.error("expected '}'")
	p.emit(EndTypeBody{Token: p.peek()})
	return p.prev()
}

func (p *Parser) parseEnumConstants() {
	for p.check(TokenIdent) || p.check(TokenAt) {
		p.parseModifiers()
		p.emit(ModifiersConsumed{})
		name := p.expect(TokenIdent)
		if name == nil {
			p.error("expected enum constant")
			p.syncMember()
			return
		}
		p.emit(EnumConstant{Name: *name})
		if p.check(TokenLParen) {
			p.parseArguments()
		}
		if p.check(TokenLBrace) {
			p.parseAnonymousBody()
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if p.check(TokenSemicolon) {
		p.advance()
	}
}

// parseAnonymousBody parses the class body of an anonymous class or an
// enum constant.
func (p *Parser) parseAnonymousBody() Token {
	open := p.peek()
	p.emit(TypeDef{Kind: TypeDefAnonymous, Start: open, Keyword: open})
	p.emit(ModifiersConsumed{})
	last := p.parseTypeBody(TypeDefAnonymous)
	p.emit(EndTypeDef{Last: last})
	return last
}

func (p *Parser) parseClassMember() {
	if p.check(TokenSemicolon) {
		p.advance()
		return
	}
	if p.check(TokenLBrace) || p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace {
		if p.check(TokenStatic) {
			p.advance()
		}
		p.parseBlock()
		return
	}

	start := p.peek()
	p.parseModifiers()
	if p.parseTypeDeclRest(start) {
		return
	}

	i := p.pos
	if p.at(i).Kind == TokenLT {
		end, ok := p.scanTypeParams(i)
		if !ok {
			p.emit(ModifiersConsumed{})
			p.error("expected '>'")
			p.syncMember()
			return
		}
		i = end
	}
	name := p.at(i)
	if name.Kind == TokenIdent && p.at(i+1).Is(TokenLParen, TokenLBrace) {
		p.parseMethod(start, name, nil, true)
		return
	}
	if end, ok := p.scanType(i); ok && p.at(end).Kind == TokenIdent {
		ret := slices.Clone(p.tokens[i:end])
		if p.at(end+1).Kind == TokenLParen {
			p.parseMethod(start, p.at(end), ret, false)
		} else {
			p.parseField(start, ret)
		}
		return
	}
	p.emit(ModifiersConsumed{})
	p.error("expected member declaration")
	p.syncMember()
}

// parseMethod parses a method or constructor from its type parameters
// on; ret is the return type, nil for constructors.
func (p *Parser) parseMethod(start, name Token, ret []Token, ctor bool) {
	p.emit(MethodDecl{
		Start:       start,
		Name:        name,
		Javadoc:     javadoc(start),
		Constructor: ctor,
		Return:      ret,
	})
	p.emit(ModifiersConsumed{})
	if p.check(TokenLT) {
		p.parseTypeParameters()
	}
	if !ctor {
		p.parseTypeSpec(SpecReturn)
	}
	p.advance()
	if p.check(TokenLParen) {
		p.parseParameters()
	}
	p.emit(AllMethodParams{})
	p.pos = p.scanDims(p.pos)
	if p.check(TokenThrows) {
		p.advance()
		p.parseTypeList(SpecThrows)
	}
	if p.check(TokenDefault) {
		p.advance()
		p.parseElementValue()
	}

	var last Token
	switch {
	case p.check(TokenLBrace):
		last = p.parseMethodBody()
	case p.check(TokenSemicolon):
		last = p.advance()
	default:
		p.error("expected '{' or ';'")
		p.syncMember()
		last = p.prev()
	}
	p.emit(EndMethod{Last: last})
}

func (p *Parser) parseParameters() {
	p.advance()
	for !p.match(TokenRParen, TokenLBrace, TokenSemicolon, TokenEOF) {
		if !p.parseParameter() || !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	p.expectCloseParen()
}

func (p *Parser) parseParameter() bool {
	p.parseModifiers()
	p.emit(ModifiersConsumed{})
	typ, ok := p.parseTypeSpec(SpecParam)
	if !ok {
		return false
	}
	p.pos = p.scanAnnotations(p.pos)
	varargs := false
	if p.check(TokenEllipsis) {
		p.advance()
		varargs = true
	}
	// Receiver parameters: "Foo this" or "Foo Outer.this".
	for p.check(TokenIdent) && p.peekN(1).Kind == TokenDot && p.peekN(2).Kind == TokenThis {
		p.advance()
		p.advance()
	}
	if p.check(TokenThis) {
		p.advance()
		return true
	}
	name := p.expect(TokenIdent)
	if name == nil {
		p.error("expected parameter name")
		return false
	}
	dims := p.parseArrayDeclarators()
	p.emit(MethodParam{Name: *name, Type: typ, Varargs: varargs, Dims: dims})
	return true
}

func (p *Parser) parseArrayDeclarators() int {
	n := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.emit(ArrayDeclarator{Token: p.advance()})
		p.advance()
		n++
	}
	return n
}

func (p *Parser) parseMethodBody() Token {
	p.emit(BeginMethodBody{Token: p.advance()})
	p.parseBlockStatements()
	if closing := p.expect(TokenRBrace); closing != nil {
		p.emit(EndMethodBody{Token: *closing, Included: true})
		return *closing
	}
	p.error("expected '}'")
	p.emit(EndMethodBody{Token: p.peek()})
	return p.prev()
}

func (p *Parser) parseField(start Token, typ []Token) {
	p.emit(FieldDecl{Start: start, Type: typ, Javadoc: javadoc(start)})
	p.emit(ModifiersConsumed{})
	p.parseTypeSpec(SpecField)
	p.parseDeclarators()
	last := p.prev()
	if semi := p.expect(TokenSemicolon); semi != nil {
		last = *semi
	} else {
		p.error("expected ';'")
		p.syncMember()
		last = p.prev()
	}
	p.emit(EndField{Last: last})
}

// parseDeclarators parses "a = 1, b[] = {}" after the declared type.
func (p *Parser) parseDeclarators() {
	for {
		name := p.expect(TokenIdent)
		if name == nil {
			p.error("expected variable name")
			return
		}
		dims := p.parseArrayDeclarators()
		init := p.check(TokenAssign)
		if init {
			p.advance()
			p.parseVarInit()
		}
		p.emit(VarName{Name: *name, Dims: dims, Init: init})
		if !p.check(TokenComma) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseVarInit() Expr {
	if p.check(TokenLBrace) {
		return p.parseArrayInit()
	}
	return p.parseExpression()
}
