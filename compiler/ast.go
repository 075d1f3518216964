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

package compiler

import (
	"math/big"

	"github.com/notecore/engine/bytecode"
)

// ctx accumulates the dependency set and base-note reference flag as the
// AST is emitted. It is private to a single Compile call.
type ctx struct {
	deps           map[uint16]struct{}
	referencesBase bool
}

func newCtx() *ctx {
	return &ctx{deps: make(map[uint16]struct{})}
}

func (c *ctx) addDependency(noteID uint16) {
	c.deps[noteID] = struct{}{}
}

// node is a parsed piece of note-expression syntax. emit appends this
// node's bytecode to buf and returns the extended slice, recording any
// dependency/base-reference it introduces along the way.
type node interface {
	emit(c *ctx, buf []byte) []byte
}

// constNode is a literal new Fraction(...) or bare decimal/integer.
type constNode struct {
	num, den *big.Int
}

func (n constNode) emit(c *ctx, buf []byte) []byte {
	return append(buf, bytecode.EncodeConst(n.num, n.den)...)
}

// baseVarNode is module.baseNote.getVariable('<name>') or a bare variable
// name shorthand for it.
type baseVarNode struct {
	v bytecode.Var
}

func (n baseVarNode) emit(c *ctx, buf []byte) []byte {
	c.referencesBase = true
	return append(buf, bytecode.EncodeBase(n.v)...)
}

// refVarNode is module.getNoteById(<id>).getVariable('<name>').
type refVarNode struct {
	id uint16
	v  bytecode.Var
}

func (n refVarNode) emit(c *ctx, buf []byte) []byte {
	c.addDependency(n.id)
	return append(buf, bytecode.EncodeRef(n.id, n.v)...)
}

// idRefNode is a bare note reference: module.baseNote or
// module.getNoteById(<id>) used as the argument to findTempo/
// findMeasureLength, where what is pushed is the note id itself rather
// than one of its evaluated variables.
type idRefNode struct {
	isBase bool
	id     uint16
}

func (n idRefNode) emit(c *ctx, buf []byte) []byte {
	if n.isBase {
		c.referencesBase = true
		return append(buf, bytecode.EncodeConst(big.NewInt(0), big.NewInt(1))...)
	}
	c.addDependency(n.id)
	return append(buf, bytecode.EncodeConst(big.NewInt(int64(n.id)), big.NewInt(1))...)
}

// refExprNode wraps an arbitrary expression used where a note reference
// was expected. This is not part of the documented grammar, but parsing
// degrades to it rather than failing outright when a findTempo/
// findMeasureLength argument isn't one of the two canonical reference
// forms.
type refExprNode struct {
	inner node
}

func (n refExprNode) emit(c *ctx, buf []byte) []byte {
	return n.inner.emit(c, buf)
}

// findNode is module.findTempo(<ref>) or module.findMeasureLength(<ref>).
type findNode struct {
	op  bytecode.Op
	ref node
}

func (n findNode) emit(c *ctx, buf []byte) []byte {
	buf = n.ref.emit(c, buf)
	return append(buf, bytecode.EncodeOp(n.op)...)
}

// binNode is a .add/.sub/.mul/.div combinator application.
type binNode struct {
	op          bytecode.Op
	left, right node
}

func (n binNode) emit(c *ctx, buf []byte) []byte {
	buf = n.left.emit(c, buf)
	buf = n.right.emit(c, buf)
	return append(buf, bytecode.EncodeOp(n.op)...)
}

// negNode is a leading unary minus on a whole expression.
type negNode struct {
	inner node
}

func (n negNode) emit(c *ctx, buf []byte) []byte {
	buf = n.inner.emit(c, buf)
	return append(buf, bytecode.EncodeOp(bytecode.OpNeg)...)
}

// beatUnitNode is the recognized "beat unit" idiom
// new Fraction(60).div(module.findTempo(<ref>)): since FIND_TEMPO always
// resolves to the base note's tempo regardless of the reference it pops
// (see vmexec's documented quirk), the reference's own bytecode is never
// worth emitting - only its dependency bookkeeping is kept - and the
// division is compiled directly against LOAD_BASE tempo.
type beatUnitNode struct {
	ref node
}

func (n beatUnitNode) emit(c *ctx, buf []byte) []byte {
	// Evaluate the reference for its dependency/referencesBase side
	// effects only; discard the bytecode it would have emitted.
	n.ref.emit(c, nil)
	buf = append(buf, bytecode.EncodeConst(big.NewInt(60), big.NewInt(1))...)
	buf = append(buf, bytecode.EncodeBase(bytecode.VarTempo)...)
	return append(buf, bytecode.EncodeOp(bytecode.OpDiv)...)
}
