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

import "math"

// Kind identifies which of the three Value variants is held.
type Kind uint8

const (
	// KindRational is an exact arbitrary-precision rational.
	KindRational Kind = iota
	// KindIrrational is a float64 approximation, considered corrupted.
	KindIrrational
	// KindSymbolic is a rational coefficient times a product of
	// positive-integer-base rational-exponent terms.
	KindSymbolic
)

// Value is one of Rational(Fraction), Irrational(f64) or
// Symbolic(SymbolicPower). The zero Value is Rational zero.
type Value struct {
	kind Kind
	rat  Fraction
	irr  float64
	sym  SymbolicPower
}

// Rational constructs an exact rational Value.
func Rational(f Fraction) Value { return Value{kind: KindRational, rat: f} }

// Irrational constructs a float64-approximation Value. Irrational values
// are always considered corrupted.
func Irrational(f float64) Value { return Value{kind: KindIrrational, irr: f} }

// Symbolic constructs a Value from a SymbolicPower, automatically folding
// it back down to Rational when every term has an integer exponent.
func Symbolic(s SymbolicPower) Value {
	if f, ok := s.Fold(); ok {
		return Rational(f)
	}
	return Value{kind: KindSymbolic, sym: s}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsCorrupted reports whether v has lost exact rationality, i.e. it is
// Irrational or Symbolic.
func (v Value) IsCorrupted() bool { return v.kind != KindRational }

// AsFraction returns the underlying Fraction and true if v is Rational.
func (v Value) AsFraction() (Fraction, bool) {
	if v.kind != KindRational {
		return Zero(), false
	}
	return v.rat, true
}

// AsSymbolic returns the underlying SymbolicPower and true if v is
// Symbolic.
func (v Value) AsSymbolic() (SymbolicPower, bool) {
	if v.kind != KindSymbolic {
		return SymbolicPower{}, false
	}
	return v.sym, true
}

// Float64 returns the best available float64 approximation of v
// regardless of kind.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindRational:
		return v.rat.Float64()
	case KindSymbolic:
		return v.sym.Float64()
	default:
		return v.irr
	}
}

// String renders v in a form appropriate to its kind.
func (v Value) String() string {
	switch v.kind {
	case KindRational:
		return v.rat.String()
	case KindSymbolic:
		return v.sym.String()
	default:
		return formatFloat(v.irr)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return trimFloat(f)
}

// Add implements the value-algebra addition table: Rational+Rational is
// exact Rational, anything involving Symbolic or Irrational collapses to
// Irrational (symbolic form carries no representation for sums).
func (a Value) Add(b Value) Value {
	if a.kind == KindRational && b.kind == KindRational {
		return Rational(a.rat.Add(b.rat))
	}
	return Irrational(a.Float64() + b.Float64())
}

// Sub mirrors Add's exactness rules.
func (a Value) Sub(b Value) Value {
	if a.kind == KindRational && b.kind == KindRational {
		return Rational(a.rat.Sub(b.rat))
	}
	return Irrational(a.Float64() - b.Float64())
}

// Mul implements the value-algebra multiplication table: Rational*Rational
// stays Rational; any combination touching Symbolic stays Symbolic (folding
// to Rational if the result rationalizes); anything touching Irrational
// collapses to Irrational.
func (a Value) Mul(b Value) Value {
	if a.kind == KindIrrational || b.kind == KindIrrational {
		return Irrational(a.Float64() * b.Float64())
	}
	if a.kind == KindRational && b.kind == KindRational {
		return Rational(a.rat.Mul(b.rat))
	}
	as := a.asSymbolicForm()
	bs := b.asSymbolicForm()
	return Symbolic(as.Mul(bs))
}

// Div mirrors Mul's exactness rules, using SymbolicPower.Div/Fraction.Div.
func (a Value) Div(b Value) Value {
	if a.kind == KindIrrational || b.kind == KindIrrational {
		return Irrational(safeDiv(a.Float64(), b.Float64()))
	}
	if a.kind == KindRational && b.kind == KindRational {
		return Rational(a.rat.Div(b.rat))
	}
	as := a.asSymbolicForm()
	bs := b.asSymbolicForm()
	return Symbolic(as.Div(bs))
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

// Neg negates v, preserving its kind.
func (v Value) Neg() Value {
	switch v.kind {
	case KindRational:
		return Rational(v.rat.Neg())
	case KindSymbolic:
		return Symbolic(v.sym.Neg())
	default:
		return Irrational(-v.irr)
	}
}

// Abs returns the absolute value of v, preserving Rational/Symbolic kind
// where meaningful (Symbolic abs only negates the coefficient sign).
func (v Value) Abs() Value {
	switch v.kind {
	case KindRational:
		return Rational(v.rat.Abs())
	case KindSymbolic:
		if v.sym.Coefficient.IsNegative() {
			return Symbolic(v.sym.Neg())
		}
		return v
	default:
		return Irrational(math.Abs(v.irr))
	}
}

// Inverse returns 1/v, preserving kind (Div(1,0) convention in Symbolic and
// Rational arithmetic applies).
func (v Value) Inverse() Value {
	switch v.kind {
	case KindRational:
		return Rational(v.rat.Inverse())
	case KindSymbolic:
		return Symbolic(v.sym.invertSelf())
	default:
		return Irrational(safeDiv(1, v.irr))
	}
}

// invertSelf negates every exponent and inverts the coefficient; used by
// Inverse to avoid constructing a spurious base in the general Div path.
func (s SymbolicPower) invertSelf() SymbolicPower {
	terms := make([]PowerTerm, len(s.Powers))
	for i, t := range s.Powers {
		terms[i] = PowerTerm{Base: t.Base, Exponent: t.Exponent.Neg()}
	}
	return NewSymbolicPower(s.Coefficient.Inverse(), terms)
}

// Pow implements the value-algebra power table: Rational.pow tries an
// exact rational result first (see Fraction.PowRational), falling back to
// Symbolic when the base is a positive integer and to Irrational
// otherwise; Symbolic.pow delegates to SymbolicPower.Pow.
func (a Value) Pow(exp Value) Value {
	expFrac, expIsRational := exp.AsFraction()

	switch a.kind {
	case KindSymbolic:
		if !expIsRational {
			return Irrational(math.Pow(a.Float64(), exp.Float64()))
		}
		if s, ok := a.sym.Pow(expFrac); ok {
			return Symbolic(s)
		}
		return Irrational(math.Pow(a.Float64(), exp.Float64()))
	case KindIrrational:
		return Irrational(math.Pow(a.irr, exp.Float64()))
	default: // KindRational
		if !expIsRational {
			return Irrational(math.Pow(a.Float64(), exp.Float64()))
		}
		if r, ok := a.rat.PowRational(expFrac); ok {
			return Rational(r)
		}
		if a.rat.IsPositive() && a.rat.IsInteger() && a.rat.NumeratorU32() >= 2 {
			return Symbolic(SingleTerm(a.rat.NumeratorU32(), expFrac))
		}
		return Irrational(math.Pow(a.Float64(), exp.Float64()))
	}
}

// asSymbolicForm lifts a Rational or Symbolic value to SymbolicPower so Mul
// and Div can share one implementation. Rationals lift as a bare
// coefficient with no power terms.
func (v Value) asSymbolicForm() SymbolicPower {
	if v.kind == KindSymbolic {
		return v.sym
	}
	return SymbolicPower{Coefficient: v.rat, Powers: nil}
}
