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
	"sort"
	"strings"
)

// PowerTerm is one base^exponent factor of a SymbolicPower. Base is a
// positive integer >= 2; Exponent may have any sign.
type PowerTerm struct {
	Base     uint32
	Exponent Fraction
}

// SymbolicPower represents coefficient * product(base_i ^ exponent_i),
// used to carry values such as the twelve-tone-equal-temperament ratio
// 2^(1/12) without collapsing it to a float. Terms are deduplicated by
// base, sorted by ascending base, and never carry a zero exponent.
type SymbolicPower struct {
	Coefficient Fraction
	Powers      []PowerTerm
}

// NewSymbolicPower builds a normalized SymbolicPower from a coefficient and
// a set of (base, exponent) terms.
func NewSymbolicPower(coeff Fraction, terms []PowerTerm) SymbolicPower {
	return SymbolicPower{Coefficient: coeff, Powers: normalizeTerms(terms)}
}

// SingleTerm builds coefficient 1 * base^exp.
func SingleTerm(base uint32, exp Fraction) SymbolicPower {
	return NewSymbolicPower(One(), []PowerTerm{{base, exp}})
}

func normalizeTerms(terms []PowerTerm) []PowerTerm {
	byBase := make(map[uint32]Fraction, len(terms))
	order := make([]uint32, 0, len(terms))
	for _, t := range terms {
		if t.Base < 2 {
			continue
		}
		if cur, ok := byBase[t.Base]; ok {
			byBase[t.Base] = cur.Add(t.Exponent)
		} else {
			byBase[t.Base] = t.Exponent
			order = append(order, t.Base)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]PowerTerm, 0, len(order))
	for _, b := range order {
		exp := byBase[b]
		if exp.IsZero() {
			continue
		}
		out = append(out, PowerTerm{Base: b, Exponent: exp})
	}
	return out
}

// Mul combines like bases by exponent addition and multiplies
// coefficients.
func (s SymbolicPower) Mul(o SymbolicPower) SymbolicPower {
	terms := make([]PowerTerm, 0, len(s.Powers)+len(o.Powers))
	terms = append(terms, s.Powers...)
	terms = append(terms, o.Powers...)
	return NewSymbolicPower(s.Coefficient.Mul(o.Coefficient), terms)
}

// Div combines like bases by exponent subtraction and divides
// coefficients.
func (s SymbolicPower) Div(o SymbolicPower) SymbolicPower {
	terms := make([]PowerTerm, 0, len(s.Powers)+len(o.Powers))
	terms = append(terms, s.Powers...)
	for _, t := range o.Powers {
		terms = append(terms, PowerTerm{Base: t.Base, Exponent: t.Exponent.Neg()})
	}
	return NewSymbolicPower(s.Coefficient.Div(o.Coefficient), terms)
}

// Neg negates the coefficient, leaving the powers untouched.
func (s SymbolicPower) Neg() SymbolicPower {
	return SymbolicPower{Coefficient: s.Coefficient.Neg(), Powers: s.Powers}
}

// MulRational scales the coefficient by a plain rational factor.
func (s SymbolicPower) MulRational(f Fraction) SymbolicPower {
	return SymbolicPower{Coefficient: s.Coefficient.Mul(f), Powers: s.Powers}
}

// Pow multiplies every term's exponent by rationalExp and raises the
// coefficient via Fraction.PowRational. If the coefficient power is not
// rational, ok is false and the caller must fall back to Irrational.
func (s SymbolicPower) Pow(rationalExp Fraction) (SymbolicPower, bool) {
	coeff, ok := s.Coefficient.PowRational(rationalExp)
	if !ok {
		return SymbolicPower{}, false
	}
	terms := make([]PowerTerm, len(s.Powers))
	for i, t := range s.Powers {
		terms[i] = PowerTerm{Base: t.Base, Exponent: t.Exponent.Mul(rationalExp)}
	}
	return NewSymbolicPower(coeff, terms), true
}

// Fold attempts to collapse the symbolic product back to a pure Fraction.
// It succeeds only when every remaining term has a denominator-1
// (integer) exponent, in which case the result is coefficient times the
// integer-power product of each base.
func (s SymbolicPower) Fold() (Fraction, bool) {
	result := s.Coefficient
	for _, t := range s.Powers {
		if !t.Exponent.IsInteger() {
			return Zero(), false
		}
		base := New(int32(t.Base), 1)
		p, ok := base.PowRational(t.Exponent)
		if !ok {
			return Zero(), false
		}
		result = result.Mul(p)
	}
	return result, true
}

// IsOne reports whether the symbolic value is exactly the coefficient 1
// with no remaining power terms (already folded).
func (s SymbolicPower) IsOne() bool {
	return len(s.Powers) == 0 && s.Coefficient.IsOne()
}

// Float64 evaluates the symbolic value as a float64 approximation.
func (s SymbolicPower) Float64() float64 {
	v := s.Coefficient.Float64()
	for _, t := range s.Powers {
		base := float64(t.Base)
		exp := t.Exponent.Float64()
		v *= pow64(base, exp)
	}
	return v
}

func pow64(base, exp float64) float64 {
	if base == 0 {
		return 0
	}
	return powMath(base, exp)
}

// String renders the symbolic value as "coeff * base^exp * ...".
func (s SymbolicPower) String() string {
	var b strings.Builder
	b.WriteString(s.Coefficient.String())
	for _, t := range s.Powers {
		b.WriteString(" * ")
		b.WriteString(itoa(t.Base))
		b.WriteString("^(")
		b.WriteString(t.Exponent.String())
		b.WriteString(")")
	}
	return b.String()
}
