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
	"math"

	"github.com/pkg/errors"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/value"
)

// BaseNoteID is the reserved note id that always denotes the base note.
const BaseNoteID uint16 = 0

const defaultStackLimit = 1024

// Cache is the read-only view of other notes' evaluated variables that
// LOAD_REF, LOAD_BASE and the FIND_* opcodes resolve against. Evaluators
// never mutate it.
type Cache interface {
	// Variable returns the value of the given variable on the given note,
	// and false if the note has no value recorded for it.
	Variable(noteID uint16, v bytecode.Var) (value.Value, bool)
}

// Evaluator executes compiled note-expression bytecode against a Cache.
type Evaluator struct {
	stackLimit int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// StackLimit sets the maximum data stack depth. Exceeding it is an error.
func StackLimit(n int) Option {
	return func(e *Evaluator) { e.stackLimit = n }
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{stackLimit: defaultStackLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type stack struct {
	v     []value.Value
	limit int
}

func (s *stack) push(v value.Value) error {
	if len(s.v) >= s.limit {
		return errors.Errorf("vmexec: stack overflow (limit %d)", s.limit)
	}
	s.v = append(s.v, v)
	return nil
}

func (s *stack) pop() (value.Value, error) {
	if len(s.v) == 0 {
		return value.Value{}, errors.New("vmexec: stack underflow")
	}
	n := len(s.v) - 1
	v := s.v[n]
	s.v = s.v[:n]
	return v, nil
}

// Evaluate runs the given bytecode buffer to completion against cache and
// returns the resulting Value. A buffer that terminates with exactly one
// value on the stack is the nominal case; one that terminates empty
// yields Rational zero rather than an error (per the VM's documented
// stack-discipline quirk). Malformed opcodes, truncated operands and
// stack overflow/underflow are all returned as errors; the caller is
// expected to treat the corresponding note variable as absent.
func (e *Evaluator) Evaluate(code []byte, cache Cache) (value.Value, error) {
	s := &stack{limit: e.stackLimit}
	pc := 0
	for pc < len(code) {
		op := bytecode.Op(code[pc])
		next, err := e.step(op, code, pc, s, cache)
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "vmexec: at pc=%d op=%s", pc, op)
		}
		pc = next
	}
	if len(s.v) == 0 {
		return value.Rational(value.Zero()), nil
	}
	return s.v[len(s.v)-1], nil
}

func (e *Evaluator) step(op bytecode.Op, code []byte, pc int, s *stack, cache Cache) (int, error) {
	pos := pc + 1
	switch op {
	case bytecode.OpLoadConst:
		num, p1, err := bytecode.ReadI32(code, pos)
		if err != nil {
			return pos, err
		}
		den, p2, err := bytecode.ReadI32(code, p1)
		if err != nil {
			return p1, err
		}
		return p2, s.push(value.Rational(value.New(num, den)))

	case bytecode.OpLoadConstBig:
		num, p1, err := bytecode.ReadBigInt(code, pos)
		if err != nil {
			return pos, err
		}
		den, p2, err := bytecode.ReadBigInt(code, p1)
		if err != nil {
			return p1, err
		}
		return p2, s.push(value.Rational(value.NewBig(num, den)))

	case bytecode.OpLoadRef:
		id, p1, err := bytecode.ReadU16(code, pos)
		if err != nil {
			return pos, err
		}
		vb, p2, err := bytecode.ReadByte(code, p1)
		if err != nil {
			return p1, err
		}
		return p2, s.push(resolveVar(cache, id, bytecode.Var(vb)))

	case bytecode.OpLoadBase:
		vb, p1, err := bytecode.ReadByte(code, pos)
		if err != nil {
			return pos, err
		}
		return p1, s.push(resolveVar(cache, BaseNoteID, bytecode.Var(vb)))

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv:
		b, err := s.pop()
		if err != nil {
			return pos, err
		}
		a, err := s.pop()
		if err != nil {
			return pos, err
		}
		var r value.Value
		switch op {
		case bytecode.OpAdd:
			r = a.Add(b)
		case bytecode.OpSub:
			r = a.Sub(b)
		case bytecode.OpMul:
			r = a.Mul(b)
		default:
			r = a.Div(b)
		}
		return pos, s.push(r)

	case bytecode.OpNeg:
		a, err := s.pop()
		if err != nil {
			return pos, err
		}
		return pos, s.push(a.Neg())

	case bytecode.OpPow:
		exp, err := s.pop()
		if err != nil {
			return pos, err
		}
		base, err := s.pop()
		if err != nil {
			return pos, err
		}
		return pos, s.push(base.Pow(exp))

	case bytecode.OpFindTempo:
		if _, err := s.pop(); err != nil {
			return pos, err
		}
		return pos, s.push(resolveVar(cache, BaseNoteID, bytecode.VarTempo))

	case bytecode.OpFindMeasure:
		ref, err := s.pop()
		if err != nil {
			return pos, err
		}
		id := refToNoteID(ref)
		beats := resolveVar(cache, id, bytecode.VarBeatsPerMeasure)
		tempo := resolveVar(cache, id, bytecode.VarTempo)
		measure := beats.Mul(value.Rational(value.New(60, 1))).Div(tempo)
		return pos, s.push(measure)

	case bytecode.OpFindInstrument:
		if _, err := s.pop(); err != nil {
			return pos, err
		}
		return pos, s.push(value.Rational(value.Zero()))

	case bytecode.OpDup:
		top, err := s.pop()
		if err != nil {
			return pos, err
		}
		if err := s.push(top); err != nil {
			return pos, err
		}
		return pos, s.push(top)

	case bytecode.OpSwap:
		b, err := s.pop()
		if err != nil {
			return pos, err
		}
		a, err := s.pop()
		if err != nil {
			return pos, err
		}
		if err := s.push(b); err != nil {
			return pos, err
		}
		return pos, s.push(a)

	default:
		return pos, errors.Errorf("vmexec: unknown opcode 0x%02x", byte(op))
	}
}

// Resolve applies the LOAD_REF/LOAD_BASE inheritance policy outside of
// bytecode execution: a referenced note (noteID != base) with no value for
// an inheritable variable (tempo, beatsPerMeasure, measureLength) falls
// back to the base note's value; anything else falls back to the
// variable's numeric default. The persistent evaluator reuses this to
// compute the derived measure-length default with the same fallback rule
// LOAD_REF itself would apply.
func Resolve(cache Cache, noteID uint16, v bytecode.Var) value.Value {
	return resolveVar(cache, noteID, v)
}

// resolveVar applies the inheritance policy from §4.4: a referenced note
// (noteID != base) with no value for an inheritable variable (tempo,
// beatsPerMeasure, measureLength) falls back to the base note's value;
// anything else falls back to the variable's numeric default.
func resolveVar(cache Cache, noteID uint16, v bytecode.Var) value.Value {
	if val, ok := cache.Variable(noteID, v); ok {
		return val
	}
	if noteID != BaseNoteID && v.Inheritable() {
		if val, ok := cache.Variable(BaseNoteID, v); ok {
			return val
		}
	}
	num, den := v.Default()
	return value.Rational(value.New(num, den))
}

// refToNoteID rounds a popped reference value to an integer note id, as
// FIND_MEASURE's operand demands. Out-of-range or non-integral references
// round to the nearest representable id.
func refToNoteID(ref value.Value) uint16 {
	f := math.Round(ref.Float64())
	if f < 0 {
		return BaseNoteID
	}
	if f > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(f)
}
