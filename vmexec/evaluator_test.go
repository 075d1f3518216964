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

package vmexec

import (
	"math/big"
	"testing"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/value"
)

// fakeCache is a trivial in-memory Cache for tests.
type fakeCache map[uint16]map[bytecode.Var]value.Value

func (c fakeCache) Variable(noteID uint16, v bytecode.Var) (value.Value, bool) {
	vars, ok := c[noteID]
	if !ok {
		return value.Value{}, false
	}
	val, ok := vars[v]
	return val, ok
}

func (c fakeCache) set(noteID uint16, v bytecode.Var, val value.Value) {
	if c[noteID] == nil {
		c[noteID] = make(map[bytecode.Var]value.Value)
	}
	c[noteID][v] = val
}

func TestEvaluateConstAdd(t *testing.T) {
	code := bytecode.EncodeConst(big.NewInt(1), big.NewInt(2))
	code = append(code, bytecode.EncodeConst(big.NewInt(1), big.NewInt(3))...)
	code = append(code, bytecode.EncodeOp(bytecode.OpAdd)...)

	got, err := New().Evaluate(code, fakeCache{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, ok := got.AsFraction()
	if !ok || !f.Equal(value.New(5, 6)) {
		t.Errorf("1/2 + 1/3 = %s, want 5/6", got)
	}
}

func TestEvaluateLoadBaseAdd(t *testing.T) {
	cache := fakeCache{}
	cache.set(BaseNoteID, bytecode.VarStartTime, value.Rational(value.New(5, 1)))

	code := bytecode.EncodeBase(bytecode.VarStartTime)
	code = append(code, bytecode.EncodeConst(big.NewInt(1), big.NewInt(1))...)
	code = append(code, bytecode.EncodeOp(bytecode.OpAdd)...)

	got, err := New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ := got.AsFraction()
	if !f.Equal(value.New(6, 1)) {
		t.Errorf("base.startTime + 1 = %s, want 6", got)
	}
}

func TestEvaluateEmptyStackYieldsZero(t *testing.T) {
	got, err := New().Evaluate(nil, fakeCache{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, ok := got.AsFraction()
	if !ok || !f.IsZero() {
		t.Errorf("empty bytecode should evaluate to rational 0, got %s", got)
	}
}

func TestInheritanceFallbackToBase(t *testing.T) {
	cache := fakeCache{}
	cache.set(BaseNoteID, bytecode.VarTempo, value.Rational(value.New(90, 1)))
	// note 7 has no tempo of its own.

	code := bytecode.EncodeRef(7, bytecode.VarTempo)
	got, err := New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ := got.AsFraction()
	if !f.Equal(value.New(90, 1)) {
		t.Errorf("tempo should inherit from base (90), got %s", got)
	}
}

func TestNonInheritableFallsToDefault(t *testing.T) {
	cache := fakeCache{}
	cache.set(BaseNoteID, bytecode.VarFrequency, value.Rational(value.New(880, 1)))
	// note 7 has no frequency; frequency is not inheritable, so it should
	// use the default 440, not the base note's 880.

	code := bytecode.EncodeRef(7, bytecode.VarFrequency)
	got, err := New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ := got.AsFraction()
	if !f.Equal(value.New(440, 1)) {
		t.Errorf("frequency should default to 440, got %s", got)
	}
}

func TestStackUnderflowIsError(t *testing.T) {
	code := bytecode.EncodeOp(bytecode.OpAdd)
	if _, err := New().Evaluate(code, fakeCache{}); err == nil {
		t.Errorf("expected stack underflow error")
	}
}

func TestStackOverflowIsError(t *testing.T) {
	var code []byte
	for i := 0; i < 5; i++ {
		code = append(code, bytecode.EncodeConst(big.NewInt(1), big.NewInt(1))...)
	}
	e := New(StackLimit(3))
	if _, err := e.Evaluate(code, fakeCache{}); err == nil {
		t.Errorf("expected stack overflow error with limit 3")
	}
}

func TestUnknownOpcodeIsError(t *testing.T) {
	code := []byte{0xFF}
	if _, err := New().Evaluate(code, fakeCache{}); err == nil {
		t.Errorf("expected error for unknown opcode")
	}
}

func TestFindTempoIgnoresPoppedReferenceButConsumesStack(t *testing.T) {
	cache := fakeCache{}
	cache.set(BaseNoteID, bytecode.VarTempo, value.Rational(value.New(100, 1)))

	code := bytecode.EncodeConst(big.NewInt(42), big.NewInt(1))
	code = append(code, bytecode.EncodeOp(bytecode.OpFindTempo)...)
	got, err := New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ := got.AsFraction()
	if !f.Equal(value.New(100, 1)) {
		t.Errorf("FIND_TEMPO should return base tempo regardless of popped ref, got %s", got)
	}

	// With 7 beneath the reference, ADD sees 7 and the tempo only if
	// FIND_TEMPO popped the reference: 7 + 100 = 107.
	code = append(bytecode.EncodeConst(big.NewInt(7), big.NewInt(1)), code...)
	code = append(code, bytecode.EncodeOp(bytecode.OpAdd)...)
	got, err = New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ = got.AsFraction()
	if !f.Equal(value.New(107, 1)) {
		t.Errorf("7 + FIND_TEMPO(42) = %s, want 107 (reference not consumed)", got)
	}
}

func TestFindMeasureComputesFromBeatsAndTempo(t *testing.T) {
	cache := fakeCache{}
	cache.set(BaseNoteID, bytecode.VarBeatsPerMeasure, value.Rational(value.New(3, 1)))
	cache.set(BaseNoteID, bytecode.VarTempo, value.Rational(value.New(120, 1)))

	code := bytecode.EncodeConst(big.NewInt(0), big.NewInt(1))
	code = append(code, bytecode.EncodeOp(bytecode.OpFindMeasure)...)
	got, err := New().Evaluate(code, cache)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	f, _ := got.AsFraction()
	// 3 * 60 / 120 = 1.5
	if !f.Equal(value.New(3, 2)) {
		t.Errorf("FIND_MEASURE = %s, want 3/2", got)
	}
}
