// Package calculator implements an exact decimal calculator for arithmetic
// expressions.
//
// Expressions use + - * / and ^ over numbers and parenthesized terms. A
// negative number must be written inside parentheses with its sign directly
// after the opening bracket, as in "(-2) * 3"; a leading + is never unary.
// Evaluation goes through a term splitter, a tokenizer, a shunting-yard
// conversion to postfix, and a stack machine over fixed-point decimals.
//
// Decimals are big integers scaled by 10^scale. The scale and whether to
// round half-up or truncate when discarding digits are properties of an
// Engine, so engines with different settings can be used side by side.
package calculator
