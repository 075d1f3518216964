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

import "testing"

// TestTwelveToneEqualTemperament verifies the canonical 12-TET scenario
// from the spec: 2^(1/12) is Symbolic, squaring it doubles the exponent,
// and twelve copies multiplied together fold back to exactly 2.
func TestTwelveToneEqualTemperament(t *testing.T) {
	step := Rational(New(2, 1)).Pow(Rational(New(1, 12)))
	if step.Kind() != KindSymbolic {
		t.Fatalf("2^(1/12) should be Symbolic, got kind %v", step.Kind())
	}
	sym, _ := step.AsSymbolic()
	if len(sym.Powers) != 1 || sym.Powers[0].Base != 2 || !sym.Powers[0].Exponent.Equal(New(1, 12)) {
		t.Fatalf("unexpected symbolic form: %s", sym)
	}

	squared := step.Mul(step)
	sq, _ := squared.AsSymbolic()
	if len(sq.Powers) != 1 || !sq.Powers[0].Exponent.Equal(New(1, 6)) {
		t.Fatalf("2^(1/12) * 2^(1/12) should be base-2 exp-1/6, got %s", squared)
	}

	octave := step
	for i := 1; i < 12; i++ {
		octave = octave.Mul(step)
	}
	if octave.Kind() != KindRational {
		t.Fatalf("twelve 2^(1/12) factors should fold to Rational, got %s (%v)", octave, octave.Kind())
	}
	f, _ := octave.AsFraction()
	if !f.Equal(New(2, 1)) {
		t.Fatalf("twelve 2^(1/12) factors should equal 2, got %s", f)
	}
}

func TestSymbolicMulByInverseCancelsToRationalOne(t *testing.T) {
	step := Rational(New(2, 1)).Pow(Rational(New(1, 12)))
	negStep := Rational(New(2, 1)).Pow(Rational(New(-1, 12)))
	result := step.Mul(negStep)
	if result.Kind() != KindRational {
		t.Fatalf("2^(1/12) * 2^(-1/12) should fold to Rational, got %v", result.Kind())
	}
	f, _ := result.AsFraction()
	if !f.IsOne() {
		t.Fatalf("2^(1/12) * 2^(-1/12) should equal 1, got %s", f)
	}
}

func TestSymbolicMultipleBasesSortedByBase(t *testing.T) {
	a := Rational(New(2, 1)).Pow(Rational(New(1, 12)))
	b := Rational(New(3, 1)).Pow(Rational(New(1, 13)))
	result := a.Mul(b)
	if result.Kind() != KindSymbolic {
		t.Fatalf("2^(1/12) * 3^(1/13) should stay Symbolic, got %v", result.Kind())
	}
	sym, _ := result.AsSymbolic()
	if len(sym.Powers) != 2 {
		t.Fatalf("expected two terms, got %d", len(sym.Powers))
	}
	if sym.Powers[0].Base != 2 || sym.Powers[1].Base != 3 {
		t.Fatalf("terms not sorted by base: %s", sym)
	}
}

func TestSymbolicAddCollapsesToIrrational(t *testing.T) {
	step := Rational(New(2, 1)).Pow(Rational(New(1, 12)))
	sum := step.Add(step)
	if sum.Kind() != KindIrrational {
		t.Fatalf("symbolic + symbolic should collapse to Irrational, got %v", sum.Kind())
	}
}
