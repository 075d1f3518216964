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
	"math/big"
	"testing"
)

func TestU16RoundTrip(t *testing.T) {
	cases := []uint16{0, 1, 42, 65535, 256}
	for _, v := range cases {
		buf := WriteU16(nil, v)
		got, next, err := ReadU16(buf, 0)
		if err != nil {
			t.Fatalf("ReadU16(%d): %v", v, err)
		}
		if got != v || next != 2 {
			t.Errorf("ReadU16/WriteU16(%d) round trip = %d, %d", v, got, next)
		}
	}
}

func TestI32RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 1 << 30, -(1 << 30), 2147483647, -2147483648}
	for _, v := range cases {
		buf := WriteI32(nil, v)
		got, next, err := ReadI32(buf, 0)
		if err != nil {
			t.Fatalf("ReadI32(%d): %v", v, err)
		}
		if got != v || next != 4 {
			t.Errorf("ReadI32/WriteI32(%d) round trip = %d, %d", v, got, next)
		}
	}
}

func TestBigIntRoundTrip(t *testing.T) {
	huge := new(big.Int)
	huge.Exp(big.NewInt(2), big.NewInt(256), nil)
	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(123456789),
		huge,
		new(big.Int).Neg(huge),
	}
	for _, v := range cases {
		buf := WriteBigInt(nil, v)
		got, next, err := ReadBigInt(buf, 0)
		if err != nil {
			t.Fatalf("ReadBigInt(%s): %v", v, err)
		}
		if got.Cmp(v) != 0 || next != len(buf) {
			t.Errorf("ReadBigInt/WriteBigInt(%s) round trip = %s, %d (buf len %d)", v, got, next, len(buf))
		}
	}
}

func TestReadTruncated(t *testing.T) {
	if _, _, err := ReadU16([]byte{1}, 0); err == nil {
		t.Errorf("expected error reading truncated u16")
	}
	if _, _, err := ReadI32([]byte{1, 2}, 0); err == nil {
		t.Errorf("expected error reading truncated i32")
	}
}

func TestEncodeConstSmallUsesLoadConst(t *testing.T) {
	buf := EncodeConst(big.NewInt(3), big.NewInt(4))
	if Op(buf[0]) != OpLoadConst {
		t.Fatalf("expected OpLoadConst, got %s", Op(buf[0]))
	}
	if len(buf) != 9 {
		t.Errorf("LOAD_CONST should be 9 bytes total, got %d", len(buf))
	}
}

func TestEncodeConstBigUsesLoadConstBig(t *testing.T) {
	huge := new(big.Int)
	huge.Exp(big.NewInt(2), big.NewInt(256), nil)
	buf := EncodeConst(huge, big.NewInt(1))
	if Op(buf[0]) != OpLoadConstBig {
		t.Fatalf("expected OpLoadConstBig, got %s", Op(buf[0]))
	}
}
