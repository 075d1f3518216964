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
	"bytes"
	"strings"
	"testing"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	h := NewHost()
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(script), &out, false)
	return out.String()
}

func TestSetAndEvalRoundTrip(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"set 0 tempo 120",
		"set 0 beatsPerMeasure 3",
		"eval",
		"get 0 measureLength",
		"quit",
	}, "\n"))
	if !strings.Contains(out, "measureLength = ") {
		t.Fatalf("expected a measureLength line in output, got:\n%s", out)
	}
}

func TestGetUnknownNoteReportsAbsence(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"get 7",
		"quit",
	}, "\n"))
	if !strings.Contains(out, "note 7 has no cached values") {
		t.Fatalf("expected an absence message, got:\n%s", out)
	}
}

func TestCyclesReportsNoneByDefault(t *testing.T) {
	out := runScript(t, "cycles\nquit")
	if !strings.Contains(out, "no cycles") {
		t.Fatalf("expected 'no cycles', got:\n%s", out)
	}
}

func TestBytecodeDumpUnregisteredReportsAbsence(t *testing.T) {
	out := runScript(t, "bytecode dump 1 tempo\nquit")
	if !strings.Contains(out, "has no registered") {
		t.Fatalf("expected an absence message, got:\n%s", out)
	}
}

func TestEvalPropagatesToDependents(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"set 1 frequency 440",
		"set 2 frequency module.getNoteById(1).getVariable('frequency')",
		"eval",
		"get 2 frequency",
		"set 1 frequency 880",
		"eval",
		"get 2 frequency",
		"quit",
	}, "\n"))
	lines := []string{}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "frequency = ") {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 'frequency = ' lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "frequency = 440" {
		t.Fatalf("note 2 frequency before edit = %q, want \"frequency = 440\"", lines[0])
	}
	if lines[1] != "frequency = 880" {
		t.Fatalf("note 2 frequency after editing note 1 = %q, want \"frequency = 880\" (dependent note was not re-evaluated)", lines[1])
	}
}

func TestRemoveNoteDropsGraphEdges(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"set 1 tempo module.getNoteById(0).getVariable('tempo')",
		"remove 1",
		"graph deps 1",
		"quit",
	}, "\n"))
	if !strings.Contains(out, "removed note 1") {
		t.Fatalf("expected a removal confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "direct:     []") || strings.Contains(out, "[0]") {
		t.Fatalf("expected note 1 to have no graph dependencies after removal, got:\n%s", out)
	}
}
