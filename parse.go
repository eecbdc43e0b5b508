package calculator

// Postfix reorders infix tokens into postfix (reverse Polish) order using
// the shunting-yard algorithm. Numbers and variables go straight to the
// output. An operator first moves operators from the top of the operator
// stack to the output while they bind at least as tightly, or strictly more
// tightly if the incoming operator is right-associative. A left parenthesis
// is pushed; a right parenthesis moves operators to the output down to the
// nearest left parenthesis, which it discards. A separator does the same but
// leaves the parenthesis in place and is not emitted.
//
// Postfix never fails. Input with unbalanced parentheses produces output that
// contains stray parentheses or misplaced operators, which Evaluate rejects.
// Tokens of unknown kinds are passed through to the output likewise.
func Postfix(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	var ops []Token
	// unwind moves operators from ops to out down to the nearest non-operator.
	unwind := func() {
		for len(ops) > 0 && ops[len(ops)-1].Kind == TokenOperator {
			out = append(out, ops[len(ops)-1])
			ops = ops[:len(ops)-1]
		}
	}
	for _, t := range tokens {
		switch t.Kind {
		case TokenNumber, TokenVariable:
			out = append(out, t)
		case TokenOperator:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind != TokenOperator || !t.Op.defersTo(top.Op) {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		case TokenLeftParen:
			ops = append(ops, t)
		case TokenRightParen:
			unwind()
			if len(ops) == 0 {
				// Unmatched.
				out = append(out, t)
				continue
			}
			ops = ops[:len(ops)-1]
		case TokenSeparator:
			unwind()
		default:
			out = append(out, t)
		}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		out = append(out, ops[i])
	}
	return out
}

// ToPostfix converts infix terms, as from SplitTerms, to postfix order and
// returns the text of each term. The only error is from Tokenize.
func ToPostfix(terms []string) ([]string, error) {
	tokens, err := Tokenize(terms)
	if err != nil {
		return nil, err
	}
	return texts(Postfix(tokens)), nil
}
