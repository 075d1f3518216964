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

// Package graph maintains the bidirectional dependency index over notes:
// a forward map from a note to the notes its expressions reference, the
// matching inverse map, and the set of notes whose own expressions
// reference the base note directly (the set is not extended through
// chains of LOAD_REF references). It answers the
// queries the persistent evaluator needs to recompute only the notes
// affected by an edited expression, in an order that respects the graph.
//
// Note id 0 is reserved for the base note everywhere in this package, as
// it is throughout the rest of notecore.
package graph
