package calculator

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// MaxExponent is the largest magnitude of an integral exponent that Pow will
// compute.
const MaxExponent = 1 << 14

// maxPowBits bounds the estimated size in bits of the integer part of a
// power.
const maxPowBits = 1 << 20

// maxPowWork bounds the size in bits of the intermediate integers of an
// integral power.
const maxPowWork = 1 << 22

// Pow returns x^y, reduced to the engine's scale. If y is an integer, the
// power is computed exactly and rounded once. Otherwise, x must be
// non-negative, and the power is computed in binary floating-point with
// enough precision to be accurate at the engine's scale.
//
// The error is a *DivisionByZeroError if x is zero and y is negative, or a
// *DomainError if x is negative and y is not an integer or if the result or
// the work to compute it would be unreasonably large.
func (e *Engine) Pow(x, y Decimal) (Decimal, error) {
	k, r := new(big.Int).QuoRem(e.operand(y), e.shift, new(big.Int))
	if r.Sign() == 0 {
		return e.powint(x, y, k)
	}
	return e.powfrac(x, y)
}

func (e *Engine) powint(x, y Decimal, k *big.Int) (Decimal, error) {
	a := e.operand(x)
	if !k.IsInt64() || k.Int64() > MaxExponent || k.Int64() < -MaxExponent {
		return Decimal{}, &DomainError{X: x.String(), Y: y.String(), Func: "^"}
	}
	m := k.Int64()
	switch {
	case m == 0:
		// Including 0^0.
		return e.wrap(new(big.Int).Set(e.shift)), nil
	case a.Sign() == 0 && m < 0:
		return Decimal{}, &DivisionByZeroError{Op: "^"}
	case a.Sign() == 0:
		return e.wrap(new(big.Int)), nil
	}
	// x = c / 10^f, so x^m needs only c^m.
	c, f := trimTens(a, e.scale)
	am := m
	if am < 0 {
		am = -am
	}
	cb := int64(c.BitLen())
	fb := int64(math.Ceil(float64(f) * math.Log2(10)))
	if cb*am > maxPowWork || (cb-fb)*m > maxPowBits {
		return Decimal{}, &DomainError{X: x.String(), Y: y.String(), Func: "^"}
	}
	p := new(big.Int).Exp(c, big.NewInt(am), nil)
	if m < 0 {
		// (c/10^f)^-m = 10^(f·m) / c^m, which is 10^(f·m+s) / c^m at scale s.
		return e.wrap(e.divRound(pow10(f*int(am)+e.scale), p)), nil
	}
	// (c/10^f)^m = c^m / 10^(f·m), which is c^m · 10^(s-f·m) at scale s.
	sh := e.scale - f*int(m)
	if sh >= 0 {
		return e.wrap(p.Mul(p, pow10(sh))), nil
	}
	if float64(-sh)*math.Log2(10) > float64(cb*m+1) {
		// c^m < 10^-sh / 2.
		return e.wrap(new(big.Int)), nil
	}
	return e.wrap(e.divRound(p, pow10(-sh))), nil
}

// trimTens divides up to n factors of ten out of a, which must be nonzero.
// It returns the quotient and n less the number of factors removed.
func trimTens(a *big.Int, n int) (*big.Int, int) {
	c := new(big.Int).Set(a)
	q, r := new(big.Int), new(big.Int)
	ten := big.NewInt(10)
	for n > 0 {
		q.QuoRem(c, ten, r)
		if r.Sign() != 0 {
			break
		}
		c, q = q, c
		n--
	}
	return c, n
}

func (e *Engine) powfrac(x, y Decimal) (Decimal, error) {
	switch x.Sign() {
	case -1:
		return Decimal{}, &DomainError{X: x.String(), Y: y.String(), Func: "^"}
	case 0:
		if y.Sign() < 0 {
			return Decimal{}, &DivisionByZeroError{Op: "^"}
		}
		return e.wrap(new(big.Int)), nil
	}
	if e.operand(x).Cmp(e.shift) == 0 {
		return e.wrap(new(big.Int).Set(e.shift)), nil
	}
	// Estimate the size of the result to choose a precision.
	xf, _ := e.float(x, 64).Float64()
	yf, _ := e.float(y, 64).Float64()
	bits := yf * math.Log2(xf)
	if math.IsNaN(bits) || bits > maxPowBits {
		return Decimal{}, &DomainError{X: x.String(), Y: y.String(), Func: "^"}
	}
	scaleBits := float64(e.scale) * math.Log2(10)
	if bits < -scaleBits-2 {
		// The result is below half a unit in the last place.
		return e.wrap(new(big.Int)), nil
	}
	prec := uint(math.Ceil(scaleBits)) + 64
	if bits > 0 {
		prec += uint(bits)
	}
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pow(z, e.float(x, prec), e.float(y, prec))
	z.Mul(z, new(big.Float).SetPrec(prec).SetInt(e.shift))
	if e.round {
		// z is positive, so rounding half-up is adding a half and truncating.
		z.Add(z, big.NewFloat(0.5))
	}
	n, _ := z.Int(nil)
	return e.wrap(n), nil
}

// float converts d to a binary float with the given precision.
func (e *Engine) float(d Decimal, prec uint) *big.Float {
	f := new(big.Float).SetPrec(prec).SetInt(e.operand(d))
	return f.Quo(f, new(big.Float).SetPrec(prec).SetInt(e.shift))
}
