package calculator

import "strconv"

// InvalidExpressionError is an error indicating an expression that is not a
// well-formed arithmetic expression: a disallowed character, unbalanced
// parentheses, a misplaced operator, or no expression at all. It implements
// InputError.
type InvalidExpressionError struct {
	// Col is the 1-based rune column of the offending character, or 0 if the
	// error is not tied to a position in the source string.
	Col int
	// Text is the offending character or term, if any.
	Text string
	// Reason describes what is wrong.
	Reason string
}

func (err *InvalidExpressionError) Error() string {
	msg := "invalid expression: " + err.Reason
	if err.Text != "" {
		msg += " " + strconv.Quote(err.Text)
	}
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *InvalidExpressionError) Pos() int {
	return err.Col
}

// MalformedLiteralError is an error indicating a number term that cannot be
// read as a decimal, e.g. one with two decimal points.
type MalformedLiteralError struct {
	// Literal is the text that failed to parse.
	Literal string
}

func (err *MalformedLiteralError) Error() string {
	return "malformed number literal " + strconv.Quote(err.Literal)
}

// StackUnderflowError is an error indicating an operator in a postfix
// sequence that does not have two operands available.
type StackUnderflowError struct {
	// Op is the operator.
	Op string
	// Index is the operator's 0-based index in the postfix sequence.
	Index int
	// Have is the number of operands that were available.
	Have int
}

func (err *StackUnderflowError) Error() string {
	return "stack underflow: operator " + strconv.Quote(err.Op) + " at postfix index " +
		strconv.Itoa(err.Index) + " has " + strconv.Itoa(err.Have) + " of 2 operands"
}

// EmptyResultError is an error indicating that a postfix sequence did not
// reduce to exactly one value.
type EmptyResultError struct {
	// Len is the number of values left on the stack.
	Len int
}

func (err *EmptyResultError) Error() string {
	if err.Len == 0 {
		return "no result: empty postfix expression"
	}
	return "no single result: " + strconv.Itoa(err.Len) + " values left on the stack"
}

// DivisionByZeroError is an error indicating a division by a value whose
// scaled integer is zero, including a zero base raised to a negative power.
type DivisionByZeroError struct {
	// Op is the operator that divided, either / or ^.
	Op string
}

func (err *DivisionByZeroError) Error() string {
	if err.Op == "^" {
		return "division by zero: zero raised to a negative power"
	}
	return "division by zero"
}

// DomainError is an error returned when an operator is applied to operands
// outside its domain, e.g. a negative base with a fractional exponent.
type DomainError struct {
	// X is the left operand.
	X string
	// Y is the right operand.
	Y string
	// Func is the operator.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Y != "" {
		r += " (with " + err.Y + ")"
	}
	return r
}

// NameError is an error indicating a variable in a postfix sequence.
// Variables are recognized but have no values.
type NameError struct {
	// Name is the variable.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from rejecting the text of an expression implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the character that caused the error.
	Pos() int
}

var _ InputError = (*InvalidExpressionError)(nil)
