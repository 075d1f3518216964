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

func TestRationalArithmeticStaysExact(t *testing.T) {
	a := Rational(New(1, 3))
	b := Rational(New(1, 6))

	if got := a.Mul(b); got.Kind() != KindRational {
		t.Errorf("Rational * Rational should be Rational, got %v", got.Kind())
	}
	if got := a.Add(b); got.Kind() != KindRational {
		t.Errorf("Rational + Rational should be Rational, got %v", got.Kind())
	}

	cubed := a.Pow(Rational(New(3, 1)))
	if cubed.Kind() != KindRational {
		t.Fatalf("Rational.Pow(integer) should be Rational, got %v", cubed.Kind())
	}
	f, _ := cubed.AsFraction()
	if !f.Equal(New(1, 27)) {
		t.Errorf("(1/3)^3 = %s, want 1/27", f)
	}
}

func TestExactRootsStayRational(t *testing.T) {
	four := Rational(New(4, 1))
	half := Rational(New(1, 2))
	got := four.Pow(half)
	if got.Kind() != KindRational {
		t.Fatalf("4^(1/2) should be Rational, got %v", got.Kind())
	}
	f, _ := got.AsFraction()
	if !f.Equal(New(2, 1)) {
		t.Errorf("4^(1/2) = %s, want 2", f)
	}

	eight := Rational(New(8, 1))
	third := Rational(New(1, 3))
	got = eight.Pow(third)
	if got.Kind() != KindRational {
		t.Fatalf("8^(1/3) should be Rational, got %v", got.Kind())
	}
	f, _ = got.AsFraction()
	if !f.Equal(New(2, 1)) {
		t.Errorf("8^(1/3) = %s, want 2", f)
	}
}

func TestIrrationalIsCorrupted(t *testing.T) {
	v := Irrational(1.41421356)
	if !v.IsCorrupted() {
		t.Errorf("Irrational should be corrupted")
	}
	if Rational(One()).IsCorrupted() {
		t.Errorf("Rational should not be corrupted")
	}
}

func TestDivisionByZeroValue(t *testing.T) {
	got := Rational(New(5, 1)).Div(Rational(Zero()))
	f, ok := got.AsFraction()
	if !ok || !f.IsOne() {
		t.Errorf("5/0 should be canonical one, got %s", got)
	}
}
