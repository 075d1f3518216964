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

// Op is a single bytecode opcode.
type Op byte

// Opcodes for the note-expression stack machine.
const (
	OpLoadConst    Op = 0x01
	OpLoadRef      Op = 0x02
	OpLoadBase     Op = 0x03
	OpLoadConstBig Op = 0x04

	OpAdd Op = 0x10
	OpSub Op = 0x11
	OpMul Op = 0x12
	OpDiv Op = 0x13
	OpNeg Op = 0x14
	OpPow Op = 0x15

	OpFindTempo      Op = 0x20
	OpFindMeasure    Op = 0x21
	OpFindInstrument Op = 0x22

	OpDup  Op = 0x30
	OpSwap Op = 0x31
)

var opNames = map[Op]string{
	OpLoadConst:      "LOAD_CONST",
	OpLoadRef:        "LOAD_REF",
	OpLoadBase:       "LOAD_BASE",
	OpLoadConstBig:   "LOAD_CONST_BIG",
	OpAdd:            "ADD",
	OpSub:            "SUB",
	OpMul:            "MUL",
	OpDiv:            "DIV",
	OpNeg:            "NEG",
	OpPow:            "POW",
	OpFindTempo:      "FIND_TEMPO",
	OpFindMeasure:    "FIND_MEASURE",
	OpFindInstrument: "FIND_INSTRUMENT",
	OpDup:            "DUP",
	OpSwap:           "SWAP",
}

// String renders the mnemonic for op, or "UNKNOWN" if op is not a
// recognized opcode.
func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "UNKNOWN"
}

// Var identifies one of a note's six evaluated variables.
type Var uint8

// Variable indices, shared by the bytecode ISA, the compiler and the
// evaluator.
const (
	VarStartTime Var = iota
	VarDuration
	VarFrequency
	VarTempo
	VarBeatsPerMeasure
	VarMeasureLength

	VarCount = 6
)

var varNames = [VarCount]string{
	"startTime", "duration", "frequency", "tempo", "beatsPerMeasure", "measureLength",
}

// String renders the canonical surface-syntax name of the variable.
func (v Var) String() string {
	if int(v) < len(varNames) {
		return varNames[v]
	}
	return "invalid"
}

// VarFromName maps a surface-syntax variable name (as used in
// getVariable('name')) to its index. It returns an error for unknown
// names, since unlike compiler parse failures this is a programmer-level
// contract violation rather than recoverable user input.
func VarFromName(name string) (Var, error) {
	for i, n := range varNames {
		if n == name {
			return Var(i), nil
		}
	}
	return 0, errUnknownVar(name)
}

// Default returns the fallback numeric default for a variable when no
// value and no inheritance applies: startTime 0, duration 1, frequency
// 440, tempo 60, beatsPerMeasure 4, measureLength 4.
func (v Var) Default() (num, den int32) {
	switch v {
	case VarStartTime:
		return 0, 1
	case VarDuration:
		return 1, 1
	case VarFrequency:
		return 440, 1
	case VarTempo:
		return 60, 1
	case VarBeatsPerMeasure:
		return 4, 1
	case VarMeasureLength:
		return 4, 1
	default:
		return 0, 1
	}
}

// Inheritable reports whether, absent an explicit value, this variable
// falls back to the base note's value (tempo, beatsPerMeasure,
// measureLength) rather than straight to its numeric default.
func (v Var) Inheritable() bool {
	switch v {
	case VarTempo, VarBeatsPerMeasure, VarMeasureLength:
		return true
	default:
		return false
	}
}

type unknownVarError string

func (e unknownVarError) Error() string { return "bytecode: unknown variable name " + string(e) }

func errUnknownVar(name string) error { return unknownVarError(name) }
