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

// Package value implements the three-variant exact numeric value used
// throughout notecore: an arbitrary-precision Fraction, a float64
// Irrational fallback, and a Symbolic product-of-powers that survives
// multiplication and division without losing algebraic structure.
//
// Exactness is preserved wherever the algebra allows it and degrades in a
// fixed, documented order: Rational -> Symbolic -> Irrational. Addition and
// subtraction never produce Symbolic results; only multiplication, division
// and exponentiation do.
package value
