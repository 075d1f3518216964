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

// Package vmexec implements the post-order stack machine that executes
// compiled note-expression bytecode. It is the note-domain analogue of the
// teacher's Ngaro VM: a flat opcode dispatch loop over a bounded data
// stack, except the cells it pushes are value.Value instead of machine
// words, and LOAD_REF/LOAD_BASE/FIND_* resolve against a read-only cache
// of other notes' evaluated variables rather than a flat memory image.
//
// Evaluation runs to completion synchronously; there are no suspension
// points, no goroutines, and no locks (see §5 of the design notes this
// package implements). A single Evaluator value is safe to reuse across
// many Evaluate calls; its working stack is allocated fresh (and bounded)
// for each call and never escapes it.
package vmexec
