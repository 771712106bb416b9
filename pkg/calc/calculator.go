package calc

import "strings"

// Logical key symbols accepted by Calculator.Press. Digits "0".."9"
// and the decimal point "." are passed through as themselves.
const (
	KeyAdd      = string(GlyphAdd)
	KeySub      = string(GlyphSub)
	KeyMul      = string(GlyphMul)
	KeyDiv      = string(GlyphDiv)
	KeyPercent  = "%"
	KeyPoint    = "."
	KeyEvaluate = "="
	KeyClear    = "C"
	KeyDelete   = "DEL"
)

// Calculator is the input state machine. It owns the accumulating
// infix expression buffer and the value currently shown to the user.
// The zero value is not ready to use; create instances with New so
// the display starts at "0".
type Calculator struct {
	expr    string
	display string
}

// New creates a calculator in its initial state.
func New() *Calculator {
	return &Calculator{display: "0"}
}

// Expr returns the full expression entered so far.
func (c *Calculator) Expr() string { return c.expr }

// Display returns the value the user currently sees.
func (c *Calculator) Display() string { return c.display }

// Press feeds one logical key into the state machine. Every call is
// one atomic transition: invalid edits (a second decimal point in one
// operand, percent after an operator, an operator on an empty buffer)
// leave both buffers untouched instead of reporting an error.
func (c *Calculator) Press(key string) {
	switch key {
	case KeyClear:
		c.expr = ""
		c.display = "0"
	case KeyDelete:
		c.pressDelete()
	case KeyEvaluate:
		c.pressEvaluate()
	case KeyPoint:
		c.pressPoint()
	case KeyPercent:
		c.pressPercent()
	case KeyAdd, KeySub, KeyMul, KeyDiv:
		c.pressOperator(key)
	default:
		if len(key) == 1 && isDigit(rune(key[0])) {
			c.pressDigit(key)
		}
		// anything else is ignored
	}
}

func (c *Calculator) pressDelete() {
	if c.expr == "" {
		return
	}
	runes := []rune(c.expr)
	c.expr = string(runes[:len(runes)-1])
	c.refreshDisplay()
}

func (c *Calculator) pressEvaluate() {
	// Evaluating an empty buffer re-evaluates the shown value, so a
	// repeated "=" on a just-computed result reuses it.
	src := c.expr
	if src == "" {
		src = c.display
	}
	result := Compute(src)
	c.display = result
	if result == ErrResult {
		c.expr = ""
		return
	}
	// Negative results are re-seeded as an implicit zero-minus
	// expression so the buffer keeps parsing with the operator glyphs.
	if strings.HasPrefix(result, "-") {
		c.expr = "0" + KeySub + result[1:]
	} else {
		c.expr = result
	}
}

func (c *Calculator) pressPoint() {
	if strings.ContainsRune(c.trailingNumber(), GlyphPoint) {
		return
	}
	if last, ok := lastRune(c.expr); ok && isDigit(last) {
		c.expr += "."
	} else {
		// empty buffer or trailing operator: seed an implicit zero
		c.expr += "0."
	}
	c.refreshDisplay()
}

func (c *Calculator) pressPercent() {
	// percent must follow a completed operand
	last, ok := lastRune(c.expr)
	if !ok || !isDigit(last) {
		return
	}
	c.expr += KeyPercent
	c.refreshDisplay()
}

func (c *Calculator) pressOperator(key string) {
	if c.expr == "" {
		// only subtraction may start a buffer, seeding a leading
		// negative number as zero-minus
		if key == KeySub {
			c.expr = "0" + KeySub
			c.display = KeySub
		}
		return
	}

	runes := []rune(c.expr)
	// the newest operator key supersedes a pending one
	if isOperatorRune(runes[len(runes)-1]) {
		runes = runes[:len(runes)-1]
	}
	// an operand left mid-decimal-entry is truncated
	if len(runes) > 0 && runes[len(runes)-1] == GlyphPoint {
		runes = runes[:len(runes)-1]
	}
	c.expr = string(runes) + key
	c.display = key
}

func (c *Calculator) pressDigit(key string) {
	runes := []rune(c.expr)
	if key != "0" && len(runes) > 0 && runes[len(runes)-1] == '0' {
		// a lone leading zero of the current operand is replaced
		// instead of extended
		if len(runes) == 1 || isOperatorRune(runes[len(runes)-2]) {
			runes[len(runes)-1] = rune(key[0])
			c.expr = string(runes)
			c.refreshDisplay()
			return
		}
	}
	c.expr += key
	c.refreshDisplay()
}

// refreshDisplay recomputes the display from the buffer after an edit.
func (c *Calculator) refreshDisplay() {
	if c.expr == "" {
		c.display = "0"
		return
	}
	c.display = tailDisplay(c.expr)
}

// tailDisplay projects the user-visible value out of the trailing
// portion of the expression buffer: a trailing operator or percent is
// shown alone (operand pending), otherwise the in-progress operand.
func tailDisplay(expr string) string {
	runes := []rune(expr)
	if len(runes) == 0 {
		return expr
	}
	last := runes[len(runes)-1]
	if isOperatorRune(last) || last == GlyphPercent {
		return string(last)
	}
	if run := trailingNumber(runes); run != "" {
		return run
	}
	return expr
}

// trailingNumber returns the longest suffix of the buffer that forms
// a numeric literal: digits with at most one decimal point. A small
// backwards scanner instead of a regexp keeps the accepted grammar
// explicit.
func trailingNumber(runes []rune) string {
	start := len(runes)
	sawPoint := false
	for start > 0 {
		r := runes[start-1]
		if isDigit(r) {
			start--
			continue
		}
		if r == GlyphPoint && !sawPoint {
			sawPoint = true
			start--
			continue
		}
		break
	}
	return string(runes[start:])
}

func (c *Calculator) trailingNumber() string {
	return trailingNumber([]rune(c.expr))
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	runes := []rune(s)
	return runes[len(runes)-1], true
}
