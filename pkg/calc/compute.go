package calc

import (
	"math"
	"strconv"
)

// ErrResult is the display marker for a failed evaluation.
const ErrResult = "Err"

// Compute evaluates an infix expression string and returns the value
// formatted for display. It is the single entry point the input state
// machine uses and is also exposed for direct evaluation without
// incremental entry.
//
// The empty string maps to "0". A non-finite result (division by
// zero, malformed expression, overflow) maps to ErrResult. Finite
// results are rounded to 12 fractional digits to absorb binary
// floating point noise (0.1＋0.2 must display as 0.3) and rendered as
// the shortest exact decimal.
func Compute(text string) string {
	if text == "" {
		return "0"
	}

	result := EvalPostfix(ToPostfix(Tokenize(text)))
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return ErrResult
	}

	// Rounding at 12 digits would overflow for very large values;
	// those have no fractional noise to absorb, so leave them alone.
	if scaled := result * 1e12; !math.IsInf(scaled, 0) {
		result = math.Round(scaled) / 1e12
	}

	return strconv.FormatFloat(result, 'f', -1, 64)
}
