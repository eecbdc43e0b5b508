package calculator

import "strconv"

// TokenKind classifies a term.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNumber is a decimal literal, possibly with a fused leading -.
	TokenNumber
	// TokenVariable is an alphabetic name. Variables are recognized but
	// cannot be evaluated.
	TokenVariable
	// TokenOperator is one of the binary operators.
	TokenOperator
	// TokenLeftParen is (.
	TokenLeftParen
	// TokenRightParen is ).
	TokenRightParen
	// TokenSeparator is a function argument separator, ",". It is recognized
	// but never evaluated.
	TokenSeparator
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenNumber:
		return "Number"
	case TokenVariable:
		return "Variable"
	case TokenOperator:
		return "Operator"
	case TokenLeftParen:
		return "LeftParen"
	case TokenRightParen:
		return "RightParen"
	case TokenSeparator:
		return "Separator"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a classified term. Operator tokens also carry their operator.
type Token struct {
	Kind TokenKind
	Text string
	// Op is the operator for TokenOperator tokens and OpNone otherwise.
	Op OperatorKind
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text
}

// Precedence returns the precedence of an operator token. Higher binds more
// tightly. Non-operator tokens have precedence 0.
func (t Token) Precedence() int {
	return t.Op.Precedence()
}

// Associativity returns the associativity of an operator token.
func (t Token) Associativity() Associativity {
	return t.Op.Associativity()
}

// Associativity is the grouping of repeated operators of equal precedence.
type Associativity int8

const (
	LeftAssoc Associativity = iota
	RightAssoc
)

func (a Associativity) String() string {
	if a == RightAssoc {
		return "right"
	}
	return "left"
}

// OperatorKind identifies a binary operator.
type OperatorKind int8

const (
	OpNone OperatorKind = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
)

// operators is the fixed table of operator properties, indexed by kind.
var operators = [...]struct {
	text  string
	prec  int
	assoc Associativity
}{
	OpNone: {"", 0, LeftAssoc},
	OpAdd:  {"+", 2, LeftAssoc},
	OpSub:  {"-", 2, LeftAssoc},
	OpMul:  {"*", 3, LeftAssoc},
	OpDiv:  {"/", 3, LeftAssoc},
	OpPow:  {"^", 4, RightAssoc},
}

func (k OperatorKind) valid() bool {
	return k > OpNone && int(k) < len(operators)
}

func (k OperatorKind) String() string {
	if !k.valid() {
		return "OperatorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return operators[k].text
}

// Precedence returns the operator's precedence, or 0 for OpNone.
func (k OperatorKind) Precedence() int {
	if !k.valid() {
		return 0
	}
	return operators[k].prec
}

// Associativity returns the operator's associativity.
func (k OperatorKind) Associativity() Associativity {
	if !k.valid() {
		return LeftAssoc
	}
	return operators[k].assoc
}

// defersTo returns whether an incoming operator k causes top, already on the
// operator stack, to be emitted first.
func (k OperatorKind) defersTo(top OperatorKind) bool {
	if k.Associativity() == RightAssoc {
		return k.Precedence() < top.Precedence()
	}
	return k.Precedence() <= top.Precedence()
}

// binop gets a binary operator for a term. If there is no such operator, then
// the result is OpNone.
func binop(text string) OperatorKind {
	switch text {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "^":
		return OpPow
	default:
		return OpNone
	}
}
