package calc

import "testing"

// press runs a sequence of logical keys against a fresh calculator.
func press(keys ...string) *Calculator {
	c := New()
	for _, k := range keys {
		c.Press(k)
	}
	return c
}

func checkState(t *testing.T, c *Calculator, wantExpr, wantDisplay string) {
	t.Helper()
	if c.Expr() != wantExpr {
		t.Errorf("expr = %q, want %q", c.Expr(), wantExpr)
	}
	if c.Display() != wantDisplay {
		t.Errorf("display = %q, want %q", c.Display(), wantDisplay)
	}
}

func TestCalculatorInitialState(t *testing.T) {
	checkState(t, New(), "", "0")
}

func TestCalculatorDigitEntry(t *testing.T) {
	c := press("1", "2", "3")
	checkState(t, c, "123", "123")
}

func TestCalculatorEvaluateAndChain(t *testing.T) {
	c := press("1", "2", KeyAdd, "3", KeyEvaluate)
	checkState(t, c, "15", "15")

	// the next operator continues from the result
	c.Press(KeyAdd)
	c.Press("5")
	c.Press(KeyEvaluate)
	checkState(t, c, "20", "20")
}

func TestCalculatorRepeatedEvaluate(t *testing.T) {
	c := press("6", KeyMul, "7", KeyEvaluate)
	checkState(t, c, "42", "42")
	c.Press(KeyEvaluate)
	checkState(t, c, "42", "42")
}

func TestCalculatorOperatorReplacement(t *testing.T) {
	c := press("9", KeyAdd)
	checkState(t, c, "9＋", "＋")

	// pressing another operator replaces the pending one
	c.Press(KeyMul)
	checkState(t, c, "9×", "×")

	// pressing the same operator twice is idempotent
	c.Press(KeyMul)
	checkState(t, c, "9×", "×")
}

func TestCalculatorOperatorOnEmptyBuffer(t *testing.T) {
	for _, key := range []string{KeyAdd, KeyMul, KeyDiv} {
		c := press(key)
		checkState(t, c, "", "0")
	}

	// only subtraction seeds a leading negative number
	c := press(KeySub)
	checkState(t, c, "0−", "−")
	c.Press("5")
	c.Press(KeyEvaluate)
	checkState(t, c, "0−5", "-5")
}

func TestCalculatorNegativeResultKeepsChaining(t *testing.T) {
	c := press("3", KeySub, "5", KeyEvaluate)
	if c.Display() != "-2" {
		t.Fatalf("display = %q, want %q", c.Display(), "-2")
	}
	c.Press(KeyAdd)
	c.Press("7")
	c.Press(KeyEvaluate)
	checkState(t, c, "5", "5")
}

func TestCalculatorDecimalPoint(t *testing.T) {
	c := press("1", KeyPoint, "5")
	checkState(t, c, "1.5", "1.5")

	// a second point in the same operand is ignored
	c.Press(KeyPoint)
	checkState(t, c, "1.5", "1.5")

	// after an operator the point seeds an implicit zero
	c.Press(KeyAdd)
	c.Press(KeyPoint)
	checkState(t, c, "1.5＋0.", "0.")
}

func TestCalculatorPointOnEmptyBuffer(t *testing.T) {
	c := press(KeyPoint)
	checkState(t, c, "0.", "0.")
}

func TestCalculatorTrailingPointTruncatedByOperator(t *testing.T) {
	c := press("3", KeyPoint, KeyAdd)
	checkState(t, c, "3＋", "＋")
}

func TestCalculatorPercent(t *testing.T) {
	c := press("5", "0", KeyPercent)
	checkState(t, c, "50%", "%")
	c.Press(KeyEvaluate)
	checkState(t, c, "0.5", "0.5")
}

func TestCalculatorPercentRequiresDigit(t *testing.T) {
	// not after an operator
	c := press("5", KeyAdd, KeyPercent)
	checkState(t, c, "5＋", "＋")

	// not on an empty buffer
	c = press(KeyPercent)
	checkState(t, c, "", "0")

	// not directly after another percent
	c = press("5", KeyPercent, KeyPercent)
	checkState(t, c, "5%", "%")
}

func TestCalculatorLeadingZeroSuppression(t *testing.T) {
	// a lone zero is replaced by a non-zero digit
	c := press("0", "7")
	checkState(t, c, "7", "7")

	// also for the operand after an operator
	c = press("1", KeyAdd, "0", "5")
	checkState(t, c, "1＋5", "5")

	// a zero inside a number is kept
	c = press("1", "0", "2")
	checkState(t, c, "102", "102")

	// "0." keeps its zero
	c = press("0", KeyPoint, "5")
	checkState(t, c, "0.5", "0.5")
}

func TestCalculatorDelete(t *testing.T) {
	c := press("1", "2", KeyAdd, "3")
	c.Press(KeyDelete)
	checkState(t, c, "12＋", "＋")
	c.Press(KeyDelete)
	checkState(t, c, "12", "12")
	c.Press(KeyDelete)
	c.Press(KeyDelete)
	checkState(t, c, "", "0")

	// deleting an empty buffer stays at the initial state
	c.Press(KeyDelete)
	checkState(t, c, "", "0")
}

func TestCalculatorClear(t *testing.T) {
	c := press("9", KeyAdd, "1", KeyClear)
	checkState(t, c, "", "0")
}

func TestCalculatorErrorRecovery(t *testing.T) {
	c := press("5", KeyDiv, "0", KeyEvaluate)
	checkState(t, c, "", "Err")

	// the next digit starts a fresh expression
	c.Press("7")
	checkState(t, c, "7", "7")
}

func TestCalculatorIgnoresUnknownKeys(t *testing.T) {
	c := press("4", "x", "enter", "")
	checkState(t, c, "4", "4")
}

func TestCalculatorTailDisplayMatchesDisplay(t *testing.T) {
	// for any reachable buffer the projection and the display agree
	sequences := [][]string{
		{"1", "2", KeyAdd, "3"},
		{KeySub, "4"},
		{"5", "0", KeyPercent},
		{"7", KeyMul},
		{"0", KeyPoint, "2", "5"},
		{"9", KeyAdd, KeyPoint},
	}
	for _, seq := range sequences {
		c := press(seq...)
		if got := tailDisplay(c.Expr()); got == "" || got != c.Display() {
			t.Errorf("sequence %v: tailDisplay(%q) = %q, display = %q",
				seq, c.Expr(), got, c.Display())
		}
	}
}
