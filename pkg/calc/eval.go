package calc

import "math"

// EvalPostfix reduces a postfix token sequence to a single float64
// with a stack machine. Failure is signalled as NaN, never as an
// error or panic: division by zero, an operator that finds too few
// operands on the stack, and a final stack holding more than one
// value all produce NaN. An empty stack at the end evaluates to 0 so
// that the "nothing entered yet" state shows a zero instead of an
// error.
func EvalPostfix(tokens []Token) float64 {
	var stack []float64

	for _, tok := range tokens {
		switch tok.Type {
		case TokenNumber:
			stack = append(stack, tok.NumVal)
		case TokenPercent:
			if len(stack) < 1 {
				return math.NaN()
			}
			stack[len(stack)-1] /= 100
		default:
			if len(stack) < 2 {
				return math.NaN()
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			var result float64
			switch tok.Type {
			case TokenAdd:
				result = a + b
			case TokenSub:
				result = a - b
			case TokenMul:
				result = a * b
			case TokenDiv:
				if b == 0 {
					return math.NaN()
				}
				result = a / b
			}
			stack = append(stack, result)
		}
	}

	switch len(stack) {
	case 0:
		return 0
	case 1:
		return stack[0]
	}
	return math.NaN()
}
