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
	"math/big"
)

// PowRational attempts to compute f^exp while staying exactly rational.
// It succeeds when exp is an integer (any sign), or when exp = p/q and
// f^p has an exact integer q-th root in both numerator and denominator.
// The second return value is false when no rational result exists, in
// which case the caller should fall back to Symbolic or Irrational
// representations.
func (f Fraction) PowRational(exp Fraction) (Fraction, bool) {
	f = f.ensure()
	exp = exp.ensure()

	if exp.IsZero() {
		return One(), true
	}
	if exp.IsInteger() {
		n := exp.num
		if n.Sign() < 0 {
			base, ok := f.intPow(new(big.Int).Neg(n))
			if !ok {
				return Zero(), false
			}
			return base.Inverse(), true
		}
		return f.intPow(n)
	}

	p, q := exp.num, exp.den
	neg := p.Sign() < 0
	absP := new(big.Int).Abs(p)

	base := f
	if neg {
		if base.IsZero() {
			return Zero(), false
		}
		base = base.Inverse()
	}

	numP, ok := intPowBig(base.num, absP)
	if !ok {
		return Zero(), false
	}
	denP, ok := intPowBig(base.den, absP)
	if !ok {
		return Zero(), false
	}

	rootNum, ok := exactIntegerRoot(numP, q)
	if !ok {
		return Zero(), false
	}
	rootDen, ok := exactIntegerRoot(denP, q)
	if !ok {
		return Zero(), false
	}
	return NewBig(rootNum, rootDen), true
}

// intPow raises f to the non-negative integer power n via repeated
// squaring.
func (f Fraction) intPow(n *big.Int) (Fraction, bool) {
	if !n.IsInt64() {
		return Zero(), false
	}
	num, ok := intPowBig(f.num, n)
	if !ok {
		return Zero(), false
	}
	den, ok := intPowBig(f.den, n)
	if !ok {
		return Zero(), false
	}
	return NewBig(num, den), true
}

// intPowBig raises the (possibly negative) integer base to the
// non-negative integer power exp.
func intPowBig(base *big.Int, exp *big.Int) (*big.Int, bool) {
	if !exp.IsInt64() || exp.Sign() < 0 {
		return nil, false
	}
	n := exp.Int64()
	sign := int64(1)
	if base.Sign() < 0 && n%2 == 1 {
		sign = -1
	}
	abs := new(big.Int).Abs(base)
	r := new(big.Int).Exp(abs, big.NewInt(n), nil)
	if sign < 0 {
		r.Neg(r)
	}
	return r, true
}

// exactIntegerRoot returns the exact integer n-th root of v (n = q as a
// big.Int), or ok=false if v is not a perfect n-th power. Even roots of
// negative values are rejected (caller falls back to Irrational).
func exactIntegerRoot(v *big.Int, q *big.Int) (*big.Int, bool) {
	if !q.IsInt64() {
		return nil, false
	}
	n := q.Int64()
	if n == 1 {
		return new(big.Int).Set(v), true
	}
	if v.Sign() == 0 {
		return big.NewInt(0), true
	}
	neg := v.Sign() < 0
	if neg && n%2 == 0 {
		return nil, false
	}
	abs := new(big.Int).Abs(v)

	f := new(big.Float).SetInt(abs)
	root, _ := f.Float64()
	seed := math.Round(math.Pow(root, 1.0/float64(n)))
	if seed < 0 {
		seed = 0
	}
	candidate := big.NewInt(int64(seed))
	for _, delta := range []int64{-1, 0, 1} {
		c := new(big.Int).Add(candidate, big.NewInt(delta))
		if c.Sign() < 0 {
			continue
		}
		p := new(big.Int).Exp(c, big.NewInt(n), nil)
		if p.Cmp(abs) == 0 {
			if neg {
				c.Neg(c)
			}
			return c, true
		}
	}
	return nil, false
}
