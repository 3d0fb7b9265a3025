package parser

import (
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenSource yields significant tokens (no whitespace or comments). The
// last token of every source is TokenEOF, repeated on further calls.
type TokenSource interface {
	Next() Token
}

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

// NewLexerAt starts lexing at an arbitrary position in input. The position
// must be a token boundary previously reported by a lexer over the same
// input; line and column bookkeeping continues from there.
func NewLexerAt(input []byte, file string, at Position) *Lexer {
	l := NewLexer(input, file)
	if at.Offset > 0 && at.Offset <= len(input) {
		l.pos = at.Offset
		l.line = at.Line
		l.column = at.Column
	}
	return l
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	switch {
	case ch == '\n':
		l.line++
		l.column = 1
	case ch&0xC0 != 0x80:
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(max(size, 1))
}

// Next returns the next significant token. Block comments skipped on the
// way are attached to it as Hidden text.
func (l *Lexer) Next() Token {
	hidden := ""
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenLineComment:
			continue
		case TokenComment:
			hidden = tok.Literal
			continue
		}
		tok.Hidden = hidden
		return tok
	}
}

// NextToken returns the next raw token, trivia included. It never fails:
// text the lexer cannot classify comes back as TokenInvalid.
func (l *Lexer) NextToken() Token {
	start := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case isSpace(ch):
		return l.scanWhitespace(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanCharLiteral(start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanStringLiteral(start)
	}

	if r, _ := utf8.DecodeRune(l.input[l.pos:]); isJavaLetter(r) {
		return l.scanIdentOrKeyword(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, start)
		}
		l.advance()
	}
	return l.token(TokenInvalid, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for !l.atEOF() {
		r, _ := utf8.DecodeRune(l.input[l.pos:])
		if !isJavaLetterOrDigit(r) {
			break
		}
		l.advanceRune()
	}
	literal := string(l.input[start.Offset:l.pos])

	if literal == "non" && string(l.input[l.pos:min(l.pos+7, len(l.input))]) == "-sealed" {
		next, _ := utf8.DecodeRune(l.input[min(l.pos+7, len(l.input)):])
		if l.pos+7 == len(l.input) || !isJavaLetterOrDigit(next) {
			l.advanceN(7)
			return l.token(TokenNonSealed, start)
		}
	}

	return l.token(LookupKeyword(literal), start)
}

func (l *Lexer) scanDigits(valid func(byte) bool) {
	for valid(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		return l.scanHexNumber(start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		l.scanDigits(func(c byte) bool { return c == '0' || c == '1' })
		if l.peek() == 'l' || l.peek() == 'L' {
			l.advance()
		}
		return l.token(TokenIntLiteral, start)
	}

	isFloat := false
	l.scanDigits(isDigit)
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		l.scanDigits(isDigit)
	} else if l.peek() == '.' && !isJavaStart(l.peekN(1)) && l.peekN(1) != '.' {
		// "1." is a double literal; "1.foo" and "1..2" are not
		isFloat = true
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		l.scanDigits(isDigit)
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'l', 'L':
		l.advance()
	}

	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanHexNumber(start Position) Token {
	l.advanceN(2)
	l.scanDigits(isHexDigit)
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		l.scanDigits(isHexDigit)
	}
	if l.peek() == 'p' || l.peek() == 'P' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		l.scanDigits(isDigit)
	}
	switch {
	case isFloat && (l.peek() == 'f' || l.peek() == 'F' || l.peek() == 'd' || l.peek() == 'D'):
		l.advance()
	case !isFloat && (l.peek() == 'l' || l.peek() == 'L'):
		l.advance()
	}
	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

// scanQuoted consumes a quoted literal on a single line. An unterminated
// literal stops at the end of the line and is reported as invalid.
func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for !l.atEOF() && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekN(1) != '\n' && l.peekN(1) != 0 {
			l.advance()
		}
		l.advanceRune()
	}
	if l.peek() != quote {
		return l.token(TokenInvalid, start)
	}
	l.advance()
	return l.token(kind, start)
}

// scanCharLiteral reads a character literal. Empty literals and ones
// holding more than one character are invalid.
func (l *Lexer) scanCharLiteral(start Position) Token {
	tok := l.scanQuoted(start, '\'', TokenCharLiteral)
	if tok.Kind == TokenCharLiteral && !isSingleChar(tok.Literal[1:len(tok.Literal)-1]) {
		tok.Kind = TokenInvalid
	}
	return tok
}

// isSingleChar reports whether body, the text between the quotes of a
// character literal, denotes exactly one character.
func isSingleChar(body string) bool {
	if body == "" {
		return false
	}
	if body[0] != '\\' {
		return utf8.RuneCountInString(body) == 1
	}
	esc := body[1:]
	switch {
	case len(esc) == 1 && strings.ContainsRune(`btnfrs"'\`, rune(esc[0])):
		return true
	case strings.HasPrefix(esc, "u"):
		hex := strings.TrimLeft(esc, "u")
		if len(hex) != 4 {
			return false
		}
		_, err := strconv.ParseUint(hex, 16, 16)
		return err == nil
	case len(esc) >= 1 && len(esc) <= 3:
		for _, c := range esc {
			if c < '0' || c > '7' {
				return false
			}
		}
		return len(esc) < 3 || esc[0] <= '3'
	}
	return false
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	return l.scanQuoted(start, '"', TokenStringLiteral)
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for !l.atEOF() {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	return l.token(TokenInvalid, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	// longest match first: the longest operator is four characters
	for n := 4; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		if kind, ok := operators[string(l.input[l.pos:l.pos+n])]; ok {
			l.advanceN(n)
			return l.token(kind, start)
		}
	}
	l.advanceRune()
	return l.token(TokenInvalid, start)
}

// Tokens lazily lexes input into significant tokens, ending with TokenEOF.
func Tokens(input []byte, file string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := NewLexer(input, file)
		for {
			tok := l.Next()
			if !yield(tok) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Relex lexes the significant tokens of input that start at or after from
// and before the byte offset end. It lets callers refresh a modified range
// without lexing the whole file again.
func Relex(input []byte, file string, from Position, end int) []Token {
	l := NewLexerAt(input, file, from)
	var toks []Token
	for {
		tok := l.Next()
		if tok.Kind == TokenEOF || tok.Span.Start.Offset >= end {
			return toks
		}
		toks = append(toks, tok)
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaStart(ch byte) bool {
	return ch >= 128 || isJavaLetter(rune(ch))
}

func isJavaLetter(r rune) bool {
	if r < 128 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) || unicode.Is(unicode.Pc, r)
}

func isJavaLetterOrDigit(r rune) bool {
	if r < 128 {
		return isJavaLetter(r) || (r >= '0' && r <= '9')
	}
	return isJavaLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
