package calculator

// Evaluate runs a postfix token sequence on a stack machine and returns the
// single value it produces. Each number is parsed and pushed. Each operator
// pops its right operand, then its left operand, and pushes left op right.
//
// The error is a *StackUnderflowError if an operator has fewer than two
// operands, an *EmptyResultError if the stack does not end with exactly one
// value, a *NameError for a variable, an *InvalidExpressionError for an
// operator without a valid Op or for any token that is not a number or an
// operator, or an error from parsing a number or applying an operator.
func (e *Engine) Evaluate(rpn []Token) (Decimal, error) {
	stack := make([]Decimal, 0, len(rpn)/2+1)
	for i, t := range rpn {
		switch t.Kind {
		case TokenNumber:
			d, err := e.Parse(t.Text)
			if err != nil {
				return Decimal{}, err
			}
			stack = append(stack, d)
		case TokenOperator:
			if !t.Op.valid() {
				return Decimal{}, &InvalidExpressionError{Text: t.Text, Reason: "unknown operator"}
			}
			if len(stack) < 2 {
				return Decimal{}, &StackUnderflowError{Op: t.Text, Index: i, Have: len(stack)}
			}
			r := stack[len(stack)-1]
			l := stack[len(stack)-2]
			v, err := e.apply(t.Op, l, r)
			if err != nil {
				return Decimal{}, err
			}
			stack = append(stack[:len(stack)-2], v)
		case TokenVariable:
			return Decimal{}, &NameError{Name: t.Text}
		default:
			return Decimal{}, &InvalidExpressionError{Text: t.Text, Reason: "unexpected term in postfix expression"}
		}
	}
	if len(stack) != 1 {
		return Decimal{}, &EmptyResultError{Len: len(stack)}
	}
	return stack[0], nil
}

// apply computes l op r.
func (e *Engine) apply(op OperatorKind, l, r Decimal) (Decimal, error) {
	switch op {
	case OpAdd:
		return e.Add(l, r), nil
	case OpSub:
		return e.Sub(l, r), nil
	case OpMul:
		return e.Mul(l, r), nil
	case OpDiv:
		return e.Quo(l, r)
	case OpPow:
		return e.Pow(l, r)
	default:
		panic("calculator: invalid operator " + op.String())
	}
}

// EvaluatePostfix evaluates postfix terms, as from ToPostfix, and returns the
// result formatted as a decimal string.
func (e *Engine) EvaluatePostfix(rpn []string) (string, error) {
	tokens, err := Tokenize(rpn)
	if err != nil {
		return "", err
	}
	d, err := e.Evaluate(tokens)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// Calculate splits, converts, and evaluates an expression, returning the
// exact result at the engine's scale as a decimal string.
func (e *Engine) Calculate(expression string) (string, error) {
	d, err := e.Eval(expression)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// Eval is like Calculate but returns the result as a Decimal.
func (e *Engine) Eval(expression string) (Decimal, error) {
	terms, err := SplitTerms(expression)
	if err != nil {
		return Decimal{}, err
	}
	tokens, err := Tokenize(terms)
	if err != nil {
		return Decimal{}, err
	}
	return e.Evaluate(Postfix(tokens))
}

// Calculate is a shortcut to evaluate an expression with 18 decimal places
// and half-up rounding.
func Calculate(expression string) (string, error) {
	return defaultEngine.Calculate(expression)
}

// EvaluatePostfix is a shortcut to evaluate postfix terms with 18 decimal
// places and half-up rounding.
func EvaluatePostfix(rpn []string) (string, error) {
	return defaultEngine.EvaluatePostfix(rpn)
}
