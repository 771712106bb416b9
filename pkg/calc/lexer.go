package calc

import "strconv"

// Lexer tokenizes calculator expressions
type Lexer struct {
	input string
}

// NewLexer creates a new expression lexer
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the input left to right and returns the flat token
// sequence. Consecutive digits and decimal points accumulate into one
// numeric literal which is flushed when an operator or percent glyph
// is reached. Runes that are neither part of a literal nor a known
// operator are dropped; the input state machine never produces them,
// so this only guards against hand-built expression strings.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	var pending []rune

	flush := func() {
		if len(pending) == 0 {
			return
		}
		val, err := strconv.ParseFloat(string(pending), 64)
		if err == nil {
			tokens = append(tokens, Token{Type: TokenNumber, NumVal: val})
		}
		pending = pending[:0]
	}

	for _, r := range l.input {
		switch {
		case isDigit(r) || r == GlyphPoint:
			pending = append(pending, r)
		default:
			if op, ok := operatorType(r); ok {
				flush()
				tokens = append(tokens, Token{Type: op})
			}
			// unknown rune: skip it
		}
	}
	flush()

	return tokens
}

// Tokenize is a convenience wrapper around Lexer for one-shot use.
func Tokenize(input string) []Token {
	return NewLexer(input).Tokenize()
}
