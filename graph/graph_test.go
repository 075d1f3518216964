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

package graph

import (
	"reflect"
	"testing"
)

func depSet(ids ...uint16) map[uint16]struct{} {
	s := make(map[uint16]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestAddNoteMaintainsForwardInverseInvariant(t *testing.T) {
	g := New()
	g.AddNote(1, depSet(2, 3), false)
	g.AddNote(2, depSet(3), false)

	if got := g.Dependencies(1); !reflect.DeepEqual(got, []uint16{2, 3}) {
		t.Fatalf("Dependencies(1) = %v", got)
	}
	if got := g.Dependents(3); !reflect.DeepEqual(got, []uint16{1, 2}) {
		t.Fatalf("Dependents(3) = %v", got)
	}

	// Re-register note 1 with a smaller dependency set; stale edges must
	// be dropped from both maps.
	g.AddNote(1, depSet(2), false)
	if got := g.Dependencies(1); !reflect.DeepEqual(got, []uint16{2}) {
		t.Fatalf("Dependencies(1) after shrink = %v", got)
	}
	if got := g.Dependents(3); !reflect.DeepEqual(got, []uint16{2}) {
		t.Fatalf("Dependents(3) after shrink = %v", got)
	}
}

func TestChainAllDependents(t *testing.T) {
	g := New()
	// chain 1 <- 2 <- 3 <- 4 (each depends on the previous)
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(2), false)
	g.AddNote(4, depSet(3), false)

	got := g.AllDependents(1)
	want := []uint16{2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllDependents(1) = %v, want %v", got, want)
	}
}

func TestDetectCycles(t *testing.T) {
	g := New()
	g.AddNote(1, depSet(3), false)
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(2), false)

	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle")
	}
	found := false
	for _, c := range cycles {
		if len(c) >= 2 && c[len(c)-1] == c[0] {
			found = true
		}
	}
	if !found {
		t.Fatalf("no cycle closed back to its entry point: %v", cycles)
	}
}

func TestEvaluationOrderDeterministicTies(t *testing.T) {
	g := New()
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(2), false)

	got := g.EvaluationOrder([]uint16{1, 2, 3})
	want := []uint16{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EvaluationOrder = %v, want %v", got, want)
	}

	// 4 and 5 have no edges; once 1 is emitted, 2, 4 and 5 are all ready
	// and are taken in ascending id order.
	got = g.EvaluationOrder([]uint16{5, 3, 4, 2, 1})
	want = []uint16{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EvaluationOrder with ties = %v, want %v", got, want)
	}
}

func TestScenarioE(t *testing.T) {
	g := New()
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(1, 2), false)

	if got := g.AllDependents(1); !reflect.DeepEqual(got, []uint16{2, 3}) {
		t.Fatalf("AllDependents(1) = %v", got)
	}
	if got := g.EvaluationOrder([]uint16{1, 2, 3}); !reflect.DeepEqual(got, []uint16{1, 2, 3}) {
		t.Fatalf("EvaluationOrder = %v", got)
	}
}

func TestHasDependencyPath(t *testing.T) {
	g := New()
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(2), false)

	if !g.HasDependencyPath(3, 1) {
		t.Fatal("expected a path from 3 to 1")
	}
	if g.HasDependencyPath(1, 3) {
		t.Fatal("did not expect a path from 1 to 3")
	}
	if g.HasDependencyPath(1, 1) {
		t.Fatal("a node should not have a path to itself")
	}
}

func TestRemoveNoteDropsAllIncidentEdges(t *testing.T) {
	g := New()
	g.AddNote(2, depSet(1), true)
	g.AddNote(3, depSet(2), false)

	g.RemoveNote(2)

	if got := g.Dependents(1); got != nil {
		t.Fatalf("Dependents(1) after remove = %v, want nil", got)
	}
	if got := g.Dependencies(3); got != nil {
		t.Fatalf("Dependencies(3) after remove = %v, want nil", got)
	}
	if got := g.BaseNoteDependents(); got != nil {
		t.Fatalf("BaseNoteDependents after remove = %v, want nil", got)
	}
}

func TestBaseNoteDependents(t *testing.T) {
	g := New()
	g.AddNote(1, nil, true)
	g.AddNote(2, nil, false)

	if got := g.BaseNoteDependents(); !reflect.DeepEqual(got, []uint16{1}) {
		t.Fatalf("BaseNoteDependents = %v", got)
	}

	g.AddNote(1, nil, false)
	if got := g.BaseNoteDependents(); got != nil {
		t.Fatalf("BaseNoteDependents after clearing flag = %v, want nil", got)
	}
}

func TestStats(t *testing.T) {
	g := New()
	g.AddNote(2, depSet(1), false)
	g.AddNote(3, depSet(1), false)

	s := g.Stats()
	if s.NoteCount != 3 {
		t.Fatalf("NoteCount = %d, want 3", s.NoteCount)
	}
	if s.MaxFanIn != 2 {
		t.Fatalf("MaxFanIn = %d, want 2", s.MaxFanIn)
	}
	if s.MaxFanOut != 1 {
		t.Fatalf("MaxFanOut = %d, want 1", s.MaxFanOut)
	}
}
