// Package dd implements double-double arithmetic: an unevaluated sum of two
// IEEE-754 doubles giving roughly 32 decimal digits of precision. It is the
// numeric primitive the rest of this module uses to carry Julian dates
// without losing a usable fraction of a second on modern dates.
//
// Every operation renormalizes its result so that the (hi, lo) pair keeps
// the non-overlapping expansion invariant |lo| <= 1/2 ulp(hi): this is what
// makes lexicographic (hi, lo) comparison valid and keeps repeated
// arithmetic from drifting.
package dd

import "math"

// DoubleDouble is an unevaluated hi+lo pair of float64 values.
type DoubleDouble struct {
	hi, lo float64
}

// New builds a DoubleDouble from an already-normalized hi/lo pair. Most
// callers want From or FromPair instead.
func New(hi, lo float64) DoubleDouble {
	h, l := fastTwoSum(hi, lo)
	return DoubleDouble{hi: h, lo: l}
}

// From builds a DoubleDouble from a single float64.
func From(x float64) DoubleDouble {
	return DoubleDouble{hi: x, lo: 0}
}

// FromPair builds a DoubleDouble from two float64s of arbitrary relative
// magnitude, renormalizing via TwoSum.
func FromPair(hi, lo float64) DoubleDouble {
	h, l := twoSum(hi, lo)
	return DoubleDouble{hi: h, lo: l}
}

// Hi returns the leading (high-order) component.
func (a DoubleDouble) Hi() float64 { return a.hi }

// Lo returns the trailing (low-order) component.
func (a DoubleDouble) Lo() float64 { return a.lo }

// Float64 returns the lossy cast hi+lo, losing the double-double precision.
func (a DoubleDouble) Float64() float64 { return a.hi + a.lo }

// Neg returns -a.
func (a DoubleDouble) Neg() DoubleDouble {
	return DoubleDouble{hi: -a.hi, lo: -a.lo}
}

// Abs returns |a|.
func (a DoubleDouble) Abs() DoubleDouble {
	if a.hi < 0 || (a.hi == 0 && a.lo < 0) {
		return a.Neg()
	}
	return a
}

// twoSum computes a+b exactly as a non-overlapping pair (Shewchuk Thm 7).
// Valid for any a, b (no ordering assumption).
func twoSum(a, b float64) (s, e float64) {
	s = a + b
	bv := s - a
	av := s - bv
	br := b - bv
	ar := a - av
	e = ar + br
	return
}

// fastTwoSum computes a+b exactly as a non-overlapping pair (Shewchuk Thm 6),
// assuming |a| >= |b|.
func fastTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return
}

// split breaks a 53-bit double into two 26-bit-ish halves for TwoProd
// (QD2000 Algorithm 5).
func split(a float64) (hi, lo float64) {
	const splitter = 134217729.0 // 2^27 + 1
	t := splitter * a
	hi = t - (t - a)
	lo = a - hi
	return
}

// twoProd computes a*b exactly as a non-overlapping pair (QD2000 Algorithm 6).
func twoProd(a, b float64) (p, e float64) {
	p = a * b
	ahi, alo := split(a)
	bhi, blo := split(b)
	e = ((ahi*bhi - p) + ahi*blo + alo*bhi) + alo*blo
	return
}

// Add returns a+b.
func (a DoubleDouble) Add(b DoubleDouble) DoubleDouble {
	s, e := twoSum(a.hi, b.hi)
	t, f := twoSum(a.lo, b.lo)
	e += t
	s, e = fastTwoSum(s, e)
	e += f
	s, e = fastTwoSum(s, e)
	return DoubleDouble{hi: s, lo: e}
}

// AddFloat64 returns a+x.
func (a DoubleDouble) AddFloat64(x float64) DoubleDouble {
	s, e := twoSum(a.hi, x)
	e += a.lo
	s, e = fastTwoSum(s, e)
	return DoubleDouble{hi: s, lo: e}
}

// Sub returns a-b.
func (a DoubleDouble) Sub(b DoubleDouble) DoubleDouble {
	return a.Add(b.Neg())
}

// SubFloat64 returns a-x.
func (a DoubleDouble) SubFloat64(x float64) DoubleDouble {
	return a.AddFloat64(-x)
}

// Mul returns a*b (FPHandbook 14.3 / QD2000 Sec 3.4 algorithm).
func (a DoubleDouble) Mul(b DoubleDouble) DoubleDouble {
	p, e := twoProd(a.hi, b.hi)
	e += a.hi*b.lo + a.lo*b.hi
	s, f := fastTwoSum(p, e)
	return DoubleDouble{hi: s, lo: f}
}

// MulFloat64 returns a*x.
func (a DoubleDouble) MulFloat64(x float64) DoubleDouble {
	p, e := twoProd(a.hi, x)
	e += a.lo * x
	s, f := fastTwoSum(p, e)
	return DoubleDouble{hi: s, lo: f}
}

// Div returns a/b using the iterated-correction scheme of QD2000 Sec 3.5:
// an initial float64 quotient is refined by two Newton-style correction
// steps against the double-double residual.
func (a DoubleDouble) Div(b DoubleDouble) DoubleDouble {
	q1 := a.hi / b.hi
	r := a.Sub(b.MulFloat64(q1))

	q2 := r.hi / b.hi
	r = r.Sub(b.MulFloat64(q2))

	q3 := r.hi / b.hi

	s, e := fastTwoSum(q1, q2)
	s, f := fastTwoSum(s, q3)
	e += f
	s, e = fastTwoSum(s, e)
	return DoubleDouble{hi: s, lo: e}
}

// DivFloat64 returns a/x.
func (a DoubleDouble) DivFloat64(x float64) DoubleDouble {
	return a.Div(From(x))
}

// Cmp returns -1, 0, or 1 as a<b, a==b, a>b, using lexicographic (hi, lo)
// order. This is valid only because every operation above renormalizes to
// the non-overlapping-expansion invariant.
func (a DoubleDouble) Cmp(b DoubleDouble) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b denote the same normalized value.
func (a DoubleDouble) Equal(b DoubleDouble) bool { return a.Cmp(b) == 0 }

// Less reports whether a < b.
func (a DoubleDouble) Less(b DoubleDouble) bool { return a.Cmp(b) < 0 }

// Trunc returns the integer part of a, discarding the fraction. The integer
// part of hi is taken, with the remainder folded into a correction applied
// to lo so the truncation is exact across the hi/lo split.
func (a DoubleDouble) Trunc() DoubleDouble {
	hiTrunc := math.Trunc(a.hi)
	if hiTrunc == a.hi {
		// The fractional part lives entirely in lo.
		loTrunc := math.Trunc(a.lo)
		return New(hiTrunc, loTrunc)
	}
	return From(hiTrunc)
}

// Frac returns the fractional part of a (a - a.Trunc()).
func (a DoubleDouble) Frac() DoubleDouble {
	return a.Sub(a.Trunc())
}
