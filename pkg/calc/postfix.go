package calc

// ToPostfix reorders an infix token sequence into postfix (RPN) form
// using a shunting-yard pass with one operator stack.
//
// Binary operators are left-associative: an incoming operator pops
// every stacked operator of greater or equal precedence before it is
// pushed. Percent is postfix unary with the highest precedence and
// only pops operators of strictly greater precedence, of which there
// are none, so it is pushed immediately. Two percent tokens can
// therefore never fold against each other on the stack; the input
// state machine guarantees a digit intervenes between them anyway.
//
// Malformed sequences (an operator with a missing operand) are not
// rejected here. They pass through and the evaluator turns them into
// a NaN result instead of an error.
func ToPostfix(tokens []Token) []Token {
	output := make([]Token, 0, len(tokens))
	var stack []Token

	for _, tok := range tokens {
		switch tok.Type {
		case TokenNumber:
			output = append(output, tok)
		case TokenPercent:
			for len(stack) > 0 && precedence(stack[len(stack)-1].Type) > precedence(TokenPercent) {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		default:
			for len(stack) > 0 && precedence(stack[len(stack)-1].Type) >= precedence(tok.Type) {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}

	// drain remaining operators in LIFO order
	for len(stack) > 0 {
		output = append(output, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	return output
}
