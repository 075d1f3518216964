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

package main

import (
	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/compiler"
)

// setExpression installs a single compiled variable expression for a note,
// aggregates it with the note's other five compiled expressions into one
// dependency set and pushes that set into the graph, then registers the
// bytecode with the evaluator.
func (h *Host) setExpression(id uint16, v bytecode.Var, expr *compiler.CompiledExpression) {
	pn, ok := h.expr[id]
	if !ok {
		pn = &perNote{}
		h.expr[id] = pn
	}
	pn[v] = expr

	deps := make(map[uint16]struct{})
	referencesBase := false
	var code [bytecode.VarCount][]byte
	for i, e := range pn {
		if e == nil {
			continue
		}
		code[i] = e.Bytecode
		for d := range e.Dependencies {
			deps[d] = struct{}{}
		}
		if e.ReferencesBase {
			referencesBase = true
		}
	}

	h.g.AddNote(id, deps, referencesBase)
	h.ev.RegisterNote(id, code)
}

// expressionBytecode returns the compiled bytecode registered for one
// variable of one note, if any.
func (h *Host) expressionBytecode(id uint16, v bytecode.Var) ([]byte, bool) {
	pn, ok := h.expr[id]
	if !ok || pn[v] == nil {
		return nil, false
	}
	return pn[v].Bytecode, true
}

// removeNote drops a note from the graph, the evaluator and the host's own
// per-note expression bookkeeping.
func (h *Host) removeNote(id uint16) {
	h.g.RemoveNote(id)
	h.ev.RemoveNote(id)
	delete(h.expr, id)
}

// evaluateDirty computes the dependency-respecting evaluation order over
// the dirty set plus everything that transitively depends on it (editing a
// note must also refresh every note whose expression reads from it), and
// evaluates them.
func (h *Host) evaluateDirty() int {
	dirty := h.ev.DirtyIDs()
	closure := make(map[uint16]struct{}, len(dirty))
	for _, id := range dirty {
		closure[id] = struct{}{}
		for _, dep := range h.g.AllDependents(id) {
			closure[dep] = struct{}{}
		}
	}
	ids := make([]uint16, 0, len(closure))
	for id := range closure {
		ids = append(ids, id)
	}
	order := h.g.EvaluationOrder(ids)
	return h.ev.EvaluateDirty(order)
}
