// This file is part of notecore - https://github.com/notecore/engine
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value

import (
	"math"
	"strconv"
	"strings"

	"math/big"

	"github.com/pkg/errors"
)

// Fraction is an arbitrary-precision signed rational number. The zero value
// is not meaningful on its own; use Zero() or New() to construct one. After
// every operation the invariant gcd(|num|, den) = 1 and den > 0 holds, and a
// degenerate zero denominator always canonicalizes to 0/1 rather than
// propagating.
//
// This mirrors the public shape of n-r-w/zerorat's Rat (constructors that
// reduce on construction, sign/zero predicates, a canonical invalid-input
// fallback) but is backed by math/big so that numerators and denominators up
// to at least 2^256 round-trip exactly, which a fixed int64/uint64 rational
// cannot do.
type Fraction struct {
	num *big.Int
	den *big.Int
}

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// commonMusicalFractions maps a handful of decimal literals that show up
// constantly in note durations and dotted rhythms to their exact rational
// form, so that "1.5" or "0.25" never take the continued-fraction detour.
var commonMusicalFractions = map[string][2]int64{
	"0.5":       {1, 2},
	"-0.5":      {-1, 2},
	"0.25":      {1, 4},
	"-0.25":     {-1, 4},
	"0.75":      {3, 4},
	"-0.75":     {-3, 4},
	"0.125":     {1, 8},
	"0.375":     {3, 8},
	"0.625":     {5, 8},
	"0.875":     {7, 8},
	"0.333333":  {1, 3},
	"0.666667":  {2, 3},
	"0.166667":  {1, 6},
	"0.833333":  {5, 6},
	"1.5":       {3, 2},
	"2.5":       {5, 2},
	"1.25":      {5, 4},
	"1.75":      {7, 4},
	"0.0625":    {1, 16},
	"0.1":       {1, 10},
	"0.2":       {1, 5},
	"0.0":       {0, 1},
}

// Zero returns the canonical zero fraction 0/1.
func Zero() Fraction { return Fraction{new(big.Int), big.NewInt(1)} }

// One returns the canonical one fraction 1/1.
func One() Fraction { return Fraction{big.NewInt(1), big.NewInt(1)} }

// New constructs a Fraction from a signed 32-bit numerator and denominator.
// A zero denominator canonicalizes to Zero() rather than panicking.
func New(num, den int32) Fraction {
	return NewBig(big.NewInt(int64(num)), big.NewInt(int64(den)))
}

// NewBig constructs a Fraction from arbitrary-precision integers. Ownership
// of num and den is not retained; callers may reuse them afterwards. A zero
// or nil denominator canonicalizes to Zero().
func NewBig(num, den *big.Int) Fraction {
	if den == nil || den.Sign() == 0 {
		return Zero()
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() == 0 {
		return Fraction{new(big.Int), big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Cmp(bigOne) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Fraction{n, d}
}

// FromString parses "n", "n/d" or a decimal literal such as "1.5" into a
// Fraction. Decimal literals go through FromFloat64's exact-substitution and
// continued-fraction machinery.
func FromString(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(), errors.New("fraction: empty string")
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		numStr, denStr := s[:i], s[i+1:]
		n, ok := new(big.Int).SetString(strings.TrimSpace(numStr), 10)
		if !ok {
			return Zero(), errors.Errorf("fraction: invalid numerator %q", numStr)
		}
		d, ok := new(big.Int).SetString(strings.TrimSpace(denStr), 10)
		if !ok {
			return Zero(), errors.Errorf("fraction: invalid denominator %q", denStr)
		}
		return NewBig(n, d), nil
	}
	if !strings.ContainsAny(s, ".eE") {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Zero(), errors.Errorf("fraction: invalid integer %q", s)
		}
		return NewBig(n, bigOne), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Zero(), errors.Wrapf(err, "fraction: invalid decimal %q", s)
	}
	return FromFloat64(f), nil
}

// FromFloat64 approximates a decimal value as an exact Fraction. Common
// musical decimals (halves, quarters, eighths, thirds, sixths, dotted
// values) are substituted directly from a lookup table; everything else
// goes through a continued-fraction search with tolerance 1e-10 and a
// denominator bound of 10000.
func FromFloat64(f float64) Fraction {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero()
	}
	if f == 0 {
		return Zero()
	}
	key := strconv.FormatFloat(f, 'f', 6, 64)
	key = strings.TrimRight(key, "0")
	key = strings.TrimSuffix(key, ".")
	if nd, ok := commonMusicalFractions[key]; ok {
		return New(int32(nd[0]), int32(nd[1]))
	}
	return continuedFraction(f, 1e-10, 10000)
}

// continuedFraction finds the best rational approximation of f with
// denominator no larger than maxDen, stopping once the approximation is
// within tol of f.
func continuedFraction(f float64, tol float64, maxDen int64) Fraction {
	sign := int64(1)
	if f < 0 {
		sign = -1
		f = -f
	}
	// h/k are successive convergents; h1/k1 is the previous convergent.
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := f
	for i := 0; i < 64; i++ {
		a := int64(math.Floor(x))
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDen || k2 <= 0 {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		if h1 != 0 && math.Abs(f-float64(h1)/float64(k1)) < tol {
			break
		}
		frac := x - float64(a)
		if frac < 1e-15 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		k1 = 1
	}
	return New(int32(sign*h1), int32(k1))
}

func (f Fraction) ensure() Fraction {
	if f.num == nil || f.den == nil {
		return Zero()
	}
	return f
}

// Add returns f + g, exact.
func (f Fraction) Add(g Fraction) Fraction {
	f, g = f.ensure(), g.ensure()
	n := new(big.Int).Add(new(big.Int).Mul(f.num, g.den), new(big.Int).Mul(g.num, f.den))
	d := new(big.Int).Mul(f.den, g.den)
	return NewBig(n, d)
}

// Sub returns f - g, exact.
func (f Fraction) Sub(g Fraction) Fraction {
	return f.Add(g.Neg())
}

// Mul returns f * g, exact.
func (f Fraction) Mul(g Fraction) Fraction {
	f, g = f.ensure(), g.ensure()
	return NewBig(new(big.Int).Mul(f.num, g.num), new(big.Int).Mul(f.den, g.den))
}

// Div returns f / g. Division by zero is not an error: it returns the
// canonical One() fraction, a deliberate compatibility quirk that Inverse
// shares.
func (f Fraction) Div(g Fraction) Fraction {
	f, g = f.ensure(), g.ensure()
	if g.IsZero() {
		return One()
	}
	return NewBig(new(big.Int).Mul(f.num, g.den), new(big.Int).Mul(f.den, g.num))
}

// Neg returns -f.
func (f Fraction) Neg() Fraction {
	f = f.ensure()
	if f.IsZero() {
		return Zero()
	}
	return Fraction{new(big.Int).Neg(f.num), new(big.Int).Set(f.den)}
}

// Abs returns |f|.
func (f Fraction) Abs() Fraction {
	f = f.ensure()
	if f.num.Sign() >= 0 {
		return f
	}
	return f.Neg()
}

// Inverse returns 1/f. Inverting zero returns One(), consistent with Div's
// division-by-zero convention.
func (f Fraction) Inverse() Fraction {
	f = f.ensure()
	if f.IsZero() {
		return One()
	}
	if f.num.Sign() < 0 {
		return NewBig(new(big.Int).Neg(f.den), new(big.Int).Neg(f.num))
	}
	return NewBig(f.den, f.num)
}

// Cmp returns -1, 0 or 1 as f is less than, equal to, or greater than g.
func (f Fraction) Cmp(g Fraction) int {
	f, g = f.ensure(), g.ensure()
	lhs := new(big.Int).Mul(f.num, g.den)
	rhs := new(big.Int).Mul(g.num, f.den)
	return lhs.Cmp(rhs)
}

// Equal reports whether f and g denote the same rational number.
func (f Fraction) Equal(g Fraction) bool { return f.Cmp(g) == 0 }

// IsZero reports whether f is 0.
func (f Fraction) IsZero() bool { return f.ensure().num.Sign() == 0 }

// IsOne reports whether f is exactly 1.
func (f Fraction) IsOne() bool {
	f = f.ensure()
	return f.num.Cmp(bigOne) == 0 && f.den.Cmp(bigOne) == 0
}

// IsNegative reports whether f < 0.
func (f Fraction) IsNegative() bool { return f.ensure().num.Sign() < 0 }

// IsPositive reports whether f > 0.
func (f Fraction) IsPositive() bool { return f.ensure().num.Sign() > 0 }

// Sign returns -1, 0 or 1 according to the sign of f.
func (f Fraction) Sign() int { return f.ensure().num.Sign() }

// IsInteger reports whether f has denominator 1.
func (f Fraction) IsInteger() bool { return f.ensure().den.Cmp(bigOne) == 0 }

// Float64 returns the nearest float64 approximation of f.
func (f Fraction) Float64() float64 {
	f = f.ensure()
	r := new(big.Rat).SetFrac(f.num, f.den)
	v, _ := r.Float64()
	return v
}

// String renders f as "n" when the denominator is 1, or "n/d" otherwise.
func (f Fraction) String() string {
	f = f.ensure()
	if f.den.Cmp(bigOne) == 0 {
		return f.num.String()
	}
	return f.num.String() + "/" + f.den.String()
}

// NumeratorU32 returns the absolute value of the numerator, saturating to
// math.MaxUint32 if it does not fit. Use NumeratorString for full precision.
func (f Fraction) NumeratorU32() uint32 { return saturateU32(f.ensure().num) }

// DenominatorU32 returns the denominator, saturating to math.MaxUint32 if it
// does not fit. Use DenominatorString for full precision.
func (f Fraction) DenominatorU32() uint32 { return saturateU32(f.ensure().den) }

// NumeratorString returns the absolute value of the numerator in decimal,
// with no precision loss.
func (f Fraction) NumeratorString() string {
	return new(big.Int).Abs(f.ensure().num).String()
}

// DenominatorString returns the denominator in decimal, with no precision
// loss.
func (f Fraction) DenominatorString() string { return f.ensure().den.String() }

// BigInts returns copies of the internal numerator and denominator, useful
// for bytecode encoding of big-integer constants.
func (f Fraction) BigInts() (num, den *big.Int) {
	f = f.ensure()
	return new(big.Int).Set(f.num), new(big.Int).Set(f.den)
}

const maxU32 = 1<<32 - 1

func saturateU32(v *big.Int) uint32 {
	a := new(big.Int).Abs(v)
	if a.IsUint64() {
		if u := a.Uint64(); u <= maxU32 {
			return uint32(u)
		}
	}
	return math.MaxUint32
}
