package parser

import "unicode/utf8"

// Position is a point in a source file. Line and Column are 1-based;
// columns count characters, not bytes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Before reports whether p lies strictly before q in the same file.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether offset falls inside the half-open span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenInvalid
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// non-sealed is lexed as one token; the other contextual
	// keywords (var, record, yield, ...) are identifiers.
	TokenNonSealed

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenInvalid:       "Invalid",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenNonSealed:     "non-sealed",
}

var operators = map[string]TokenKind{
	"(": TokenLParen, ")": TokenRParen, "{": TokenLBrace, "}": TokenRBrace,
	"[": TokenLBracket, "]": TokenRBracket, ";": TokenSemicolon, ",": TokenComma,
	".": TokenDot, "...": TokenEllipsis, "@": TokenAt, "::": TokenColonColon,
	"=": TokenAssign, "==": TokenEQ, "!=": TokenNE, "<": TokenLT, "<=": TokenLE,
	">": TokenGT, ">=": TokenGE, "&&": TokenAnd, "||": TokenOr, "!": TokenNot,
	"&": TokenBitAnd, "|": TokenBitOr, "^": TokenBitXor, "~": TokenBitNot,
	"<<": TokenShl, ">>": TokenShr, ">>>": TokenUShr, "+": TokenPlus,
	"-": TokenMinus, "*": TokenStar, "/": TokenSlash, "%": TokenPercent,
	"++": TokenIncrement, "--": TokenDecrement, "?": TokenQuestion,
	":": TokenColon, "->": TokenArrow, "+=": TokenPlusAssign,
	"-=": TokenMinusAssign, "*=": TokenStarAssign, "/=": TokenSlashAssign,
	"%=": TokenPercentAssign, "&=": TokenAndAssign, "|=": TokenOrAssign,
	"^=": TokenXorAssign, "<<=": TokenShlAssign, ">>=": TokenShrAssign,
	">>>=": TokenUShrAssign,
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
}

func init() {
	for text, kind := range keywords {
		tokenKindNames[kind] = text
	}
	for text, kind := range operators {
		tokenKindNames[kind] = text
	}
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsPrimitive reports whether k names a primitive type (void included).
func (k TokenKind) IsPrimitive() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return true
	}
	return false
}

// IsLiteral reports whether k is a literal token.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

// Token is an immutable lexical unit. Hidden holds the text of the last
// block comment between the previous significant token and this one; it
// carries Javadoc to declarations.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	Hidden  string
}

// Length is the token's length in characters.
func (t Token) Length() int {
	return utf8.RuneCountInString(t.Literal)
}

func (t Token) Is(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
