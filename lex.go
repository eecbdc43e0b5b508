package calculator

import (
	"strings"
	"unicode"
)

// Operators contains the characters which are binary operators.
const Operators = "+-*/^"

// SplitTerms splits an expression into its terms: numbers, operators, and
// parentheses. Whitespace between terms is ignored. A - immediately following
// an opening parenthesis is fused with the number after it, so "(-2)" splits
// into "(", "-2", ")". That is the only place a sign may appear; in
// particular, a leading + is never unary.
//
// SplitTerms also checks that the expression is well-formed: only digits,
// '.', whitespace, parentheses, and operators appear; operands and operators
// alternate; no parentheses are empty; and parentheses balance. Otherwise the
// error is an *InvalidExpressionError. The shape of number literals, e.g. a
// second decimal point, is not checked until they are parsed as decimals.
func SplitTerms(expression string) ([]string, error) {
	var (
		terms []string
		// opens holds the columns of unclosed parentheses.
		opens []int
		// operand is whether the next term must be an operand.
		operand = true
		// num is whether the last term is a number that the next digit
		// extends.
		num bool
		// sign is whether the last term is a - fused onto a number that
		// has no digits yet.
		sign bool
		col  int
	)
	last := func() string {
		if len(terms) == 0 {
			return ""
		}
		return terms[len(terms)-1]
	}
	for _, r := range expression {
		col++
		isnum := '0' <= r && r <= '9' || r == '.'
		if sign && !isnum && !unicode.IsSpace(r) {
			return nil, &InvalidExpressionError{Col: col, Text: string(r), Reason: "expected a number after sign, got"}
		}
		switch {
		case unicode.IsSpace(r):
			num = false
		case isnum:
			switch {
			case sign:
				terms[len(terms)-1] += string(r)
				sign = false
			case num:
				terms[len(terms)-1] += string(r)
			case !operand:
				return nil, &InvalidExpressionError{Col: col, Text: string(r), Reason: "missing operator before"}
			default:
				terms = append(terms, string(r))
			}
			num = true
			operand = false
		case r == '(':
			if !operand {
				return nil, &InvalidExpressionError{Col: col, Text: "(", Reason: "missing operator before"}
			}
			terms = append(terms, "(")
			opens = append(opens, col)
			num = false
		case r == ')':
			if operand {
				if last() == "(" {
					return nil, &InvalidExpressionError{Col: col, Text: "()", Reason: "empty parentheses"}
				}
				return nil, &InvalidExpressionError{Col: col, Text: ")", Reason: "missing operand before"}
			}
			if len(opens) == 0 {
				return nil, &InvalidExpressionError{Col: col, Text: ")", Reason: "unmatched"}
			}
			opens = opens[:len(opens)-1]
			terms = append(terms, ")")
			num = false
		case strings.ContainsRune(Operators, r):
			if operand {
				if r == '-' && last() == "(" {
					terms = append(terms, "-")
					sign = true
					continue
				}
				return nil, &InvalidExpressionError{Col: col, Text: string(r), Reason: "missing operand before"}
			}
			terms = append(terms, string(r))
			operand = true
			num = false
		default:
			return nil, &InvalidExpressionError{Col: col, Text: string(r), Reason: "invalid character"}
		}
	}
	switch {
	case len(terms) == 0:
		return nil, &InvalidExpressionError{Col: col + 1, Reason: "no expression"}
	case sign:
		return nil, &InvalidExpressionError{Col: col + 1, Text: "-", Reason: "expected a number after sign"}
	case operand:
		return nil, &InvalidExpressionError{Col: col + 1, Text: last(), Reason: "missing operand after"}
	case len(opens) != 0:
		return nil, &InvalidExpressionError{Col: opens[len(opens)-1], Text: "(", Reason: "unmatched"}
	}
	return terms, nil
}

// Tokenize classifies terms. Terms beginning with a digit or '.', optionally
// after a -, are numbers; alphabetic terms are variables; the single
// characters of Operators are operators; and "(", ")", and "," are
// parentheses and separators. Any other term is an *InvalidExpressionError.
func Tokenize(terms []string) ([]Token, error) {
	tokens := make([]Token, 0, len(terms))
	for _, t := range terms {
		tok := Token{Text: t}
		switch {
		case t == "(":
			tok.Kind = TokenLeftParen
		case t == ")":
			tok.Kind = TokenRightParen
		case t == ",":
			tok.Kind = TokenSeparator
		case binop(t) != OpNone:
			tok.Kind = TokenOperator
			tok.Op = binop(t)
		case numeric(t):
			tok.Kind = TokenNumber
		case alphabetic(t):
			tok.Kind = TokenVariable
		default:
			return nil, &InvalidExpressionError{Text: t, Reason: "unrecognized term"}
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func numeric(t string) bool {
	t = strings.TrimPrefix(t, "-")
	return t != "" && ('0' <= t[0] && t[0] <= '9' || t[0] == '.')
}

func alphabetic(t string) bool {
	if t == "" {
		return false
	}
	for _, r := range t {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// texts gets the text of each token.
func texts(tokens []Token) []string {
	r := make([]string, len(tokens))
	for i, t := range tokens {
		r[i] = t.Text
	}
	return r
}
