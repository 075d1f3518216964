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
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
)

// WriteU16 appends the big-endian encoding of v to buf.
func WriteU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

// WriteU32 appends the big-endian encoding of v to buf.
func WriteU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// WriteI32 appends the big-endian two's complement encoding of v to buf.
func WriteI32(buf []byte, v int32) []byte {
	return WriteU32(buf, uint32(v))
}

// ReadU16 decodes a big-endian uint16 from b at pos, returning the value
// and the position just past it.
func ReadU16(b []byte, pos int) (uint16, int, error) {
	if pos+2 > len(b) {
		return 0, pos, errors.Errorf("bytecode: truncated u16 at %d", pos)
	}
	return binary.BigEndian.Uint16(b[pos:]), pos + 2, nil
}

// ReadU32 decodes a big-endian uint32 from b at pos.
func ReadU32(b []byte, pos int) (uint32, int, error) {
	if pos+4 > len(b) {
		return 0, pos, errors.Errorf("bytecode: truncated u32 at %d", pos)
	}
	return binary.BigEndian.Uint32(b[pos:]), pos + 4, nil
}

// ReadI32 decodes a big-endian two's complement int32 from b at pos.
func ReadI32(b []byte, pos int) (int32, int, error) {
	v, next, err := ReadU32(b, pos)
	return int32(v), next, err
}

// ReadByte reads a single byte from b at pos.
func ReadByte(b []byte, pos int) (byte, int, error) {
	if pos+1 > len(b) {
		return 0, pos, errors.Errorf("bytecode: truncated byte at %d", pos)
	}
	return b[pos], pos + 1, nil
}

// WriteBigInt appends the sign-magnitude encoding of v (sign byte, u16
// length, big-endian magnitude bytes) used by LOAD_CONST_BIG's numerator
// and denominator fields.
func WriteBigInt(buf []byte, v *big.Int) []byte {
	sign := byte(0)
	if v.Sign() < 0 {
		sign = 1
	}
	mag := new(big.Int).Abs(v).Bytes()
	buf = append(buf, sign)
	buf = WriteU16(buf, uint16(len(mag)))
	return append(buf, mag...)
}

// ReadBigInt decodes a sign-magnitude big integer previously written by
// WriteBigInt.
func ReadBigInt(b []byte, pos int) (*big.Int, int, error) {
	sign, pos, err := ReadByte(b, pos)
	if err != nil {
		return nil, pos, errors.Wrap(err, "bytecode: reading big-int sign")
	}
	length, pos, err := ReadU16(b, pos)
	if err != nil {
		return nil, pos, errors.Wrap(err, "bytecode: reading big-int length")
	}
	end := pos + int(length)
	if end > len(b) {
		return nil, pos, errors.Errorf("bytecode: truncated big-int magnitude at %d", pos)
	}
	v := new(big.Int).SetBytes(b[pos:end])
	if sign == 1 {
		v.Neg(v)
	}
	return v, end, nil
}

// EncodeConst encodes a LOAD_CONST or, when num/den don't fit in int32, a
// LOAD_CONST_BIG instruction for the given numerator/denominator pair.
func EncodeConst(num, den *big.Int) []byte {
	if num.IsInt64() && den.IsInt64() {
		n, d := num.Int64(), den.Int64()
		if n >= minInt32 && n <= maxInt32 && d >= minInt32 && d <= maxInt32 {
			buf := []byte{byte(OpLoadConst)}
			buf = WriteI32(buf, int32(n))
			buf = WriteI32(buf, int32(d))
			return buf
		}
	}
	buf := []byte{byte(OpLoadConstBig)}
	buf = WriteBigInt(buf, num)
	buf = WriteBigInt(buf, den)
	return buf
}

const (
	minInt32 = -(1 << 31)
	maxInt32 = 1<<31 - 1
)

// EncodeRef encodes a LOAD_REF instruction.
func EncodeRef(noteID uint16, v Var) []byte {
	buf := []byte{byte(OpLoadRef)}
	buf = WriteU16(buf, noteID)
	buf = append(buf, byte(v))
	return buf
}

// EncodeBase encodes a LOAD_BASE instruction.
func EncodeBase(v Var) []byte {
	return []byte{byte(OpLoadBase), byte(v)}
}

// EncodeOp encodes a bare, operand-less opcode (ADD, SUB, MUL, DIV, NEG,
// POW, FIND_*, DUP, SWAP).
func EncodeOp(op Op) []byte {
	return []byte{byte(op)}
}
