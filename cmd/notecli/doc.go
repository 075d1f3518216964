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

// Command notecli is a minimal reference host for the notecore engine: a
// command-tree-driven interactive shell for registering note
// expressions, marking notes dirty, evaluating them, and inspecting the
// resulting cache, dependency graph and bytecode. It plays the same role
// here that cmd/retro's debugger shell played for the teacher's Forth
// VM, or that beevik/go6502's host package plays for its 6502 emulator:
// a runnable, typeable surface over a library that is otherwise only
// meant to be embedded.
//
// notecli does not own a note set or a project format; it is glue, not
// a product. See SPEC_FULL.md §12 for what it is and is not responsible
// for.
package main
