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

// Package bytecode defines the compact post-order stack-machine
// instruction set compiled note expressions run on, plus its byte-level
// codec.
//
// Supported opcodes:
//
//	opcode  mnemonic       operands                        stack effect
//	0x01    LOAD_CONST     i32 num, i32 den                 - -> n
//	0x02    LOAD_REF       u16 noteID, u8 varIndex          - -> n
//	0x03    LOAD_BASE      u8 varIndex                      - -> n
//	0x04    LOAD_CONST_BIG u8 sign, u16/bytes num, u16/bytes den  - -> n
//	0x10    ADD            -                                a b -> a+b
//	0x11    SUB            -                                a b -> a-b
//	0x12    MUL            -                                a b -> a*b
//	0x13    DIV            -                                a b -> a/b
//	0x14    NEG            -                                a -> -a
//	0x15    POW            -                                a b -> a^b
//	0x20    FIND_TEMPO     -                                a -> tempo
//	0x21    FIND_MEASURE   -                                a -> measure-length
//	0x22    FIND_INSTRUMENT -                               a -> 0
//	0x30    DUP            -                                a -> a a
//	0x31    SWAP           -                                a b -> b a
//
// All multi-byte operands are big-endian. Variable indices (used by
// LOAD_REF and LOAD_BASE) are: 0 startTime, 1 duration, 2 frequency,
// 3 tempo, 4 beatsPerMeasure, 5 measureLength.
//
// An unknown opcode byte or a truncated operand fails the whole decode
// with a descriptive error; there is no silent skipping.
package bytecode
