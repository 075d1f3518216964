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

	"github.com/golang/glog"

	"github.com/notecore/engine/bytecode"
)

// CompiledExpression is the output of compiling one note-expression string:
// the bytecode to hand to vmexec, plus the dependency bookkeeping the
// owning graph needs to keep the dependency graph and evaluation order
// correct.
type CompiledExpression struct {
	Source         string
	Bytecode       []byte
	Dependencies   map[uint16]struct{}
	ReferencesBase bool
}

// zeroExpression is the fallback result for text the grammar rejects.
func zeroExpression(source string) *CompiledExpression {
	return &CompiledExpression{
		Source:   source,
		Bytecode: bytecode.EncodeConst(big.NewInt(0), big.NewInt(1)),
	}
}

// Compile parses source and emits its bytecode. A string outside the
// recognized grammar never returns an error: it logs a warning and
// compiles to the constant zero, mirroring the host's "a bad expression
// should never stop the rest of the project from evaluating" contract.
func Compile(source string) *CompiledExpression {
	n, err := parseExpr(source)
	if err != nil {
		glog.Warningf("compiler: %q: %v; compiling to 0", source, err)
		return zeroExpression(source)
	}
	c := newCtx()
	code := n.emit(c, nil)
	return &CompiledExpression{
		Source:         source,
		Bytecode:       code,
		Dependencies:   c.deps,
		ReferencesBase: c.referencesBase,
	}
}
