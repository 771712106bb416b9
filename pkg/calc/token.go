package calc

// Token types for calculator expressions
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
	TokenPercent
)

// Token represents a single element of a tokenized expression.
// NumVal is only meaningful for TokenNumber.
type Token struct {
	Type   TokenType
	NumVal float64
}

// Canonical operator glyphs used in the expression buffer. The
// fullwidth forms cannot collide with the ASCII characters that make
// up numeric literals, so the buffer stays unambiguous even for
// negative seeds like "0−5".
const (
	GlyphAdd     = '＋'
	GlyphSub     = '−'
	GlyphMul     = '×'
	GlyphDiv     = '÷'
	GlyphPercent = '%'
	GlyphPoint   = '.'
)

// precedence returns the binding strength of an operator token.
// Percent is postfix unary and binds tighter than any binary operator.
func precedence(t TokenType) int {
	switch t {
	case TokenAdd, TokenSub:
		return 1
	case TokenMul, TokenDiv:
		return 2
	case TokenPercent:
		return 3
	}
	return 0
}

// operatorType maps an operator glyph to its token type. The second
// return value is false for runes that are not operators.
func operatorType(r rune) (TokenType, bool) {
	switch r {
	case GlyphAdd:
		return TokenAdd, true
	case GlyphSub:
		return TokenSub, true
	case GlyphMul:
		return TokenMul, true
	case GlyphDiv:
		return TokenDiv, true
	case GlyphPercent:
		return TokenPercent, true
	}
	return 0, false
}

// isOperatorRune reports whether r is one of the four binary operator
// glyphs (percent is handled separately where the distinction matters).
func isOperatorRune(r rune) bool {
	switch r {
	case GlyphAdd, GlyphSub, GlyphMul, GlyphDiv:
		return true
	}
	return false
}

// isDigit reports whether r is an ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
