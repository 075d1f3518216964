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

package bytecode

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Disassemble writes a human-readable rendering of one instruction at
// position pc in code to w, and returns the position of the next
// instruction. It mirrors the byte-level layout documented in the package
// doc comment.
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	if pc >= len(code) {
		return pc, errors.Errorf("bytecode: pc %d out of range", pc)
	}
	op := Op(code[pc])
	pos := pc + 1
	switch op {
	case OpLoadConst:
		num, p1, e1 := ReadI32(code, pos)
		if e1 != nil {
			return pos, e1
		}
		den, p2, e2 := ReadI32(code, p1)
		if e2 != nil {
			return p1, e2
		}
		fmt.Fprintf(w, "LOAD_CONST %d/%d", num, den)
		return p2, nil
	case OpLoadConstBig:
		num, p1, e1 := ReadBigInt(code, pos)
		if e1 != nil {
			return pos, e1
		}
		den, p2, e2 := ReadBigInt(code, p1)
		if e2 != nil {
			return p1, e2
		}
		fmt.Fprintf(w, "LOAD_CONST_BIG %s/%s", num, den)
		return p2, nil
	case OpLoadRef:
		id, p1, e1 := ReadU16(code, pos)
		if e1 != nil {
			return pos, e1
		}
		v, p2, e2 := ReadByte(code, p1)
		if e2 != nil {
			return p1, e2
		}
		fmt.Fprintf(w, "LOAD_REF %d %s", id, Var(v))
		return p2, nil
	case OpLoadBase:
		v, p1, e1 := ReadByte(code, pos)
		if e1 != nil {
			return pos, e1
		}
		fmt.Fprintf(w, "LOAD_BASE %s", Var(v))
		return p1, nil
	default:
		if _, ok := opNames[op]; !ok {
			return pos, errors.Errorf("bytecode: unknown opcode 0x%02x at %d", byte(op), pc)
		}
		fmt.Fprint(w, op.String())
		return pos, nil
	}
}

// DisassembleAll disassembles an entire bytecode buffer to w, one
// instruction per line.
func DisassembleAll(code []byte, w io.Writer) error {
	pc := 0
	for pc < len(code) {
		next, err := Disassemble(code, pc, w)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		pc = next
	}
	return nil
}
