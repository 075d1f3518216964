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

// Package store is the persistent evaluator: it owns the long-lived
// per-note value cache, the per-variable bytecode store, the dirty set
// and the generation counter, and drives per-note evaluation in the
// order described by the bytecode's LOAD_REF/LOAD_BASE dependency graph.
//
// The evaluator is single-threaded and synchronous: every public method
// runs to completion before returning, matching the cooperative
// scheduling model of the rest of notecore (see the vmexec and compiler
// packages). It never re-checks that a caller-supplied id list respects
// the dependency order; that is graph's job.
package store
