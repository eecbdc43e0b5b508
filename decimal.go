package calculator

import (
	"math/big"
	"strconv"
	"strings"
)

// Decimal is a fixed-point decimal number, stored as an integer n
// representing n / 10^scale. Decimals are never modified after creation;
// every arithmetic operation returns a new value. The zero value is 0 and may
// be used with an engine of any scale.
type Decimal struct {
	n     *big.Int
	scale int
}

var one = big.NewInt(1)

// int returns the scaled integer, which must not be modified.
func (d Decimal) int() *big.Int {
	if d.n == nil {
		return new(big.Int)
	}
	return d.n
}

// Scale returns the number of decimal places d carries.
func (d Decimal) Scale() int {
	return d.scale
}

// Scaled returns a copy of the integer n such that d is n / 10^d.Scale().
func (d Decimal) Scaled() *big.Int {
	return new(big.Int).Set(d.int())
}

// Sign returns -1, 0, or +1 according to the sign of d.
func (d Decimal) Sign() int {
	return d.int().Sign()
}

// Cmp compares d and x and returns -1, 0, or +1 as d is less than, equal to,
// or greater than x. The two may have different scales.
func (d Decimal) Cmp(x Decimal) int {
	a, b := d.int(), x.int()
	switch {
	case d.scale < x.scale:
		a = new(big.Int).Mul(a, pow10(x.scale-d.scale))
	case d.scale > x.scale:
		b = new(big.Int).Mul(b, pow10(d.scale-x.scale))
	}
	return a.Cmp(b)
}

// String formats d with the fewest fractional digits that represent it
// exactly. There is never a trailing decimal point or exponent.
func (d Decimal) String() string {
	n := d.int()
	if d.scale == 0 {
		return n.String()
	}
	s := n.String()
	if n.Sign() < 0 {
		s = s[1:]
	}
	if len(s) <= d.scale {
		s = strings.Repeat("0", d.scale+1-len(s)) + s
	}
	r := s[:len(s)-d.scale]
	if frac := strings.TrimRight(s[len(s)-d.scale:], "0"); frac != "" {
		r += "." + frac
	}
	if n.Sign() < 0 {
		r = "-" + r
	}
	return r
}

// Parse reads a decimal literal: an optional leading -, integer digits, and
// optionally a decimal point followed by fraction digits. Either the integer
// or the fraction digits may be empty, but not both. Digits beyond the
// engine's scale are discarded, rounding half-up if the engine does.
func (e *Engine) Parse(s string) (Decimal, error) {
	digits := s
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	ints, decis, _ := strings.Cut(digits, ".")
	if ints == "" && decis == "" || !isDigits(ints) || !isDigits(decis) {
		return Decimal{}, &MalformedLiteralError{Literal: s}
	}
	up := false
	if len(decis) > e.scale {
		up = e.round && decis[e.scale] >= '5'
		decis = decis[:e.scale]
	} else {
		decis += strings.Repeat("0", e.scale-len(decis))
	}
	n, ok := new(big.Int).SetString("0"+ints+decis, 10)
	if !ok {
		panic("calculator: digits did not parse: " + strconv.Quote(s))
	}
	if up {
		n.Add(n, one)
	}
	if neg {
		n.Neg(n)
	}
	return Decimal{n: n, scale: e.scale}, nil
}

// MustParse is like Parse but panics if s is malformed.
func (e *Engine) MustParse(s string) Decimal {
	d, err := e.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// operand gets the scaled integer of d for use with e. Panics if d is not
// the zero value and has a scale other than e's.
func (e *Engine) operand(d Decimal) *big.Int {
	if d.n != nil && d.scale != e.scale {
		panic("calculator: decimal with scale " + strconv.Itoa(d.scale) + " used with engine of scale " + strconv.Itoa(e.scale))
	}
	return d.int()
}

func (e *Engine) wrap(n *big.Int) Decimal {
	return Decimal{n: n, scale: e.scale}
}

// Add returns x + y. Addition is exact.
func (e *Engine) Add(x, y Decimal) Decimal {
	return e.wrap(new(big.Int).Add(e.operand(x), e.operand(y)))
}

// Sub returns x - y. Subtraction is exact.
func (e *Engine) Sub(x, y Decimal) Decimal {
	return e.wrap(new(big.Int).Sub(e.operand(x), e.operand(y)))
}

// Mul returns x * y, reduced to the engine's scale.
func (e *Engine) Mul(x, y Decimal) Decimal {
	p := new(big.Int).Mul(e.operand(x), e.operand(y))
	return e.wrap(e.divRound(p, e.shift))
}

// Quo returns x / y, reduced to the engine's scale. The error is a
// *DivisionByZeroError if y is zero.
func (e *Engine) Quo(x, y Decimal) (Decimal, error) {
	b := e.operand(y)
	if b.Sign() == 0 {
		return Decimal{}, &DivisionByZeroError{Op: "/"}
	}
	a := new(big.Int).Mul(e.operand(x), e.shift)
	return e.wrap(e.divRound(a, b)), nil
}

// divRound computes a / b truncated toward zero. If the engine rounds, the
// quotient then moves one unit away from zero when the remainder is at least
// half of b. b must be nonzero.
func (e *Engine) divRound(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if !e.round || r.Sign() == 0 {
		return q
	}
	r.Abs(r).Lsh(r, 1)
	if r.CmpAbs(b) < 0 {
		return q
	}
	if a.Sign() != b.Sign() {
		return q.Sub(q, one)
	}
	return q.Add(q, one)
}
