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

package store

import (
	"github.com/golang/glog"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/value"
	"github.com/notecore/engine/vmexec"
)

// BaseNoteID is the reserved note id that always denotes the base note.
const BaseNoteID uint16 = vmexec.BaseNoteID

// EvaluatedNote is the cached, per-note result of evaluating its six
// expressions: an optional Value per variable (absence means "inherit or
// use default", never an error by itself) plus the accumulated
// corruption bitmask.
type EvaluatedNote struct {
	values     [bytecode.VarCount]value.Value
	present    [bytecode.VarCount]bool
	Corruption byte
}

// Value returns the cached value for variable v and whether it is
// present.
func (n EvaluatedNote) Value(v bytecode.Var) (value.Value, bool) {
	if int(v) >= bytecode.VarCount {
		return value.Value{}, false
	}
	return n.values[v], n.present[v]
}

func (n *EvaluatedNote) set(v bytecode.Var, val value.Value) {
	n.values[v] = val
	n.present[v] = true
	if val.IsCorrupted() {
		n.Corruption |= corruptionBit(v)
	}
}

// corruptionBit maps a variable to its bit in the §6 corruption bitmask.
func corruptionBit(v bytecode.Var) byte {
	switch v {
	case bytecode.VarStartTime:
		return 0x01
	case bytecode.VarDuration:
		return 0x02
	case bytecode.VarFrequency:
		return 0x04
	case bytecode.VarTempo:
		return 0x08
	case bytecode.VarBeatsPerMeasure:
		return 0x10
	case bytecode.VarMeasureLength:
		return 0x20
	default:
		return 0
	}
}

// slots holds the per-variable compiled bytecode for one note. A nil
// entry means no expression is registered for that variable.
type slots [bytecode.VarCount][]byte

// Evaluator is the persistent evaluator: the long-lived cache, bytecode
// store, dirty set and generation counter described in §4.6. It is not
// safe for concurrent use; the scheduling model is single-threaded
// cooperative, matching the rest of notecore.
type Evaluator struct {
	vm *vmexec.Evaluator

	cache      map[uint16]*EvaluatedNote
	bytecode   map[uint16]*slots
	dirty      map[uint16]struct{}
	generation uint64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// StackLimit sets the data stack depth limit the underlying stack VM
// enforces while evaluating one note's expression.
func StackLimit(n int) Option {
	return func(e *Evaluator) { e.vm = vmexec.New(vmexec.StackLimit(n)) }
}

// New creates an empty persistent evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		vm:       vmexec.New(),
		cache:    make(map[uint16]*EvaluatedNote),
		bytecode: make(map[uint16]*slots),
		dirty:    make(map[uint16]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Variable implements vmexec.Cache by looking up the note's current
// cached value with no inheritance fallback; vmexec.Evaluate applies the
// inheritance/default policy itself when Variable reports absence.
func (e *Evaluator) Variable(noteID uint16, v bytecode.Var) (value.Value, bool) {
	n, ok := e.cache[noteID]
	if !ok {
		return value.Value{}, false
	}
	return n.Value(v)
}

// RegisterNote installs the bytecode for all six variables of id and
// marks it dirty. A nil entry in code leaves that variable unregistered
// (absent, subject to inheritance/default).
func (e *Evaluator) RegisterNote(id uint16, code [bytecode.VarCount][]byte) {
	e.bytecode[id] = &slots{code[0], code[1], code[2], code[3], code[4], code[5]}
	e.markDirty(id)
	e.bump()
}

// RegisterExpression installs the bytecode for a single variable of id,
// leaving the others untouched, and marks id dirty.
func (e *Evaluator) RegisterExpression(id uint16, v bytecode.Var, code []byte) {
	s, ok := e.bytecode[id]
	if !ok {
		s = &slots{}
		e.bytecode[id] = s
	}
	s[v] = code
	e.markDirty(id)
	e.bump()
}

// MarkDirty adds id to the dirty set.
func (e *Evaluator) MarkDirty(id uint16) {
	e.markDirty(id)
	e.bump()
}

// MarkDirtyBatch adds every id in ids to the dirty set.
func (e *Evaluator) MarkDirtyBatch(ids []uint16) {
	for _, id := range ids {
		e.markDirty(id)
	}
	e.bump()
}

func (e *Evaluator) markDirty(id uint16) { e.dirty[id] = struct{}{} }

// DirtyIDs returns the ids currently in the dirty set, in no particular
// order. Callers that need a dependency-respecting evaluation order should
// expand this into its transitive closure and sort it themselves (see
// graph.Graph.AllDependents and graph.Graph.EvaluationOrder).
func (e *Evaluator) DirtyIDs() []uint16 {
	ids := make([]uint16, 0, len(e.dirty))
	for id := range e.dirty {
		ids = append(ids, id)
	}
	return ids
}

// ClearDirty empties the dirty set without evaluating anything.
func (e *Evaluator) ClearDirty() {
	e.dirty = make(map[uint16]struct{})
	e.bump()
}

// InvalidateNote drops id's cached value, forcing the next evaluation to
// recompute it from scratch, and marks it dirty.
func (e *Evaluator) InvalidateNote(id uint16) {
	delete(e.cache, id)
	e.markDirty(id)
	e.bump()
}

// InvalidateAll clears the cache, the dirty set and the bytecode store.
// This is for large-scale replacement, where notes may reuse ids with
// different bytecode and a partial invalidation would leave stale
// bytecode behind for a new note under an old id.
func (e *Evaluator) InvalidateAll() {
	e.cache = make(map[uint16]*EvaluatedNote)
	e.bytecode = make(map[uint16]*slots)
	e.dirty = make(map[uint16]struct{})
	e.bump()
}

// RemoveNote drops id's cache entry, bytecode slots and dirty membership.
func (e *Evaluator) RemoveNote(id uint16) {
	delete(e.cache, id)
	delete(e.bytecode, id)
	delete(e.dirty, id)
	e.bump()
}

// HasCachedNote reports whether id has a cache entry (even a partial
// one).
func (e *Evaluator) HasCachedNote(id uint16) bool {
	_, ok := e.cache[id]
	return ok
}

// GetCachedValue returns the cached value of variable v for note id.
func (e *Evaluator) GetCachedValue(id uint16, v bytecode.Var) (value.Value, bool) {
	n, ok := e.cache[id]
	if !ok {
		return value.Value{}, false
	}
	return n.Value(v)
}

// GetCachedNote returns a copy of id's cached note.
func (e *Evaluator) GetCachedNote(id uint16) (EvaluatedNote, bool) {
	n, ok := e.cache[id]
	if !ok {
		return EvaluatedNote{}, false
	}
	return *n, true
}

// CacheSize returns the number of notes with a cache entry.
func (e *Evaluator) CacheSize() int { return len(e.cache) }

// Generation returns the current generation counter. It strictly
// increases on every mutating operation; readers may use it to detect a
// state change without diffing the cache themselves.
func (e *Evaluator) Generation() uint64 { return e.generation }

func (e *Evaluator) bump() { e.generation++ }

// EvaluateDirty evaluates every note in sortedIDs, in the given order,
// against the current cache, then clears the dirty set and bumps the
// generation exactly once. The caller is responsible for supplying an
// order that respects the dependency graph (typically
// graph.EvaluationOrder over the dirty transitive closure); the
// evaluator does not re-check it. It returns the number of notes
// evaluated.
func (e *Evaluator) EvaluateDirty(sortedIDs []uint16) int {
	for _, id := range sortedIDs {
		e.evaluateNote(id)
	}
	e.dirty = make(map[uint16]struct{})
	e.bump()
	return len(sortedIDs)
}

// EvaluateNoteInternal evaluates a single note outside of a dirty-set
// pass and bumps the generation counter once, like any other mutating
// entry point.
func (e *Evaluator) EvaluateNoteInternal(id uint16) bool {
	ok := e.evaluateNote(id)
	e.bump()
	return ok
}

// evaluateNote evaluates a single note's six variables in the order
// §4.6 documents (tempo, beatsPerMeasure, frequency; publish;
// measureLength; publish; startTime; duration), applies the derived
// measure-length default when applicable, and publishes the result into
// the cache. It returns true unless every variable failed to evaluate.
func (e *Evaluator) evaluateNote(id uint16) bool {
	s := e.bytecode[id]
	note := &EvaluatedNote{}
	anyOK := false

	eval := func(v bytecode.Var) {
		if s == nil || s[v] == nil {
			return
		}
		val, err := e.vm.Evaluate(s[v], e)
		if err != nil {
			glog.V(1).Infof("store: note %d var %s: %v", id, v, err)
			return
		}
		note.set(v, val)
		anyOK = true
	}

	eval(bytecode.VarTempo)
	eval(bytecode.VarBeatsPerMeasure)
	eval(bytecode.VarFrequency)
	e.cache[id] = note // publish partial result so self-reference sees it

	eval(bytecode.VarMeasureLength)
	e.cache[id] = note // publish again before startTime/duration

	eval(bytecode.VarStartTime)
	eval(bytecode.VarDuration)

	if _, hasMeasure := note.Value(bytecode.VarMeasureLength); !hasMeasure {
		if e.isMeasureCandidate(id, s) {
			beats := vmexec.Resolve(e, id, bytecode.VarBeatsPerMeasure)
			tempo := vmexec.Resolve(e, id, bytecode.VarTempo)
			measure := beats.Mul(value.Rational(value.New(60, 1))).Div(tempo)
			note.set(bytecode.VarMeasureLength, measure)
			anyOK = true
		}
	}

	e.cache[id] = note
	return anyOK
}

// isMeasureCandidate implements the structural "measure note" heuristic
// from §4.6/§4 glossary: the base note always qualifies; any other note
// qualifies if it has a registered startTime expression but no
// registered duration or frequency expression. This is deliberately
// based on which bytecode slots are registered, not on whether
// evaluating them succeeded, since the heuristic is meant to capture the
// host's structural intent for the note rather than a runtime accident.
func (e *Evaluator) isMeasureCandidate(id uint16, s *slots) bool {
	if id == BaseNoteID {
		return true
	}
	if s == nil {
		return false
	}
	hasStart := s[bytecode.VarStartTime] != nil
	hasDuration := s[bytecode.VarDuration] != nil
	hasFrequency := s[bytecode.VarFrequency] != nil
	return hasStart && !hasDuration && !hasFrequency
}
