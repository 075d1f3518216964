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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/compiler"
)

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("notecli")
	root.AddCommand(cmd.Command{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display a list of commands, or help for one command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})
	root.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a note variable's expression",
		Description: "Compile an expression and install it as the given" +
			" note's value for the given variable (startTime, duration," +
			" frequency, tempo, beatsPerMeasure or measureLength). The note" +
			" is marked dirty; call 'eval' to recompute it.",
		Usage: "set <note-id> <variable> <expression>",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.Command{
		Name:  "eval",
		Brief: "Evaluate every dirty note",
		Description: "Compute the dependency-respecting evaluation order" +
			" over every dirty note's transitive closure and evaluate them," +
			" publishing the results into the cache.",
		Usage: "eval",
		Data:  (*Host).cmdEval,
	})
	root.AddCommand(cmd.Command{
		Name:  "get",
		Brief: "Print a note's cached value",
		Description: "Print the cached value of one variable on one note," +
			" or every cached variable and the note's corruption flags" +
			" if no variable is given.",
		Usage: "get <note-id> [<variable>]",
		Data:  (*Host).cmdGet,
	})
	root.AddCommand(cmd.Command{
		Name:        "remove",
		Brief:       "Remove a note",
		Description: "Drop a note's registered expressions, cache entry and graph edges.",
		Usage:       "remove <note-id>",
		Data:        (*Host).cmdRemove,
	})
	root.AddCommand(cmd.Command{
		Name:        "cycles",
		Brief:       "List dependency cycles",
		Description: "List every cycle currently present in the dependency graph.",
		Usage:       "cycles",
		Data:        (*Host).cmdCycles,
	})

	// Graph commands
	g := cmd.NewTree("Graph")
	root.AddCommand(cmd.Command{
		Name:    "graph",
		Brief:   "Dependency graph commands",
		Subtree: g,
	})
	g.AddCommand(cmd.Command{
		Name:        "stats",
		Brief:       "Print dependency graph statistics",
		Description: "Print fan-out/fan-in statistics over the dependency graph.",
		Usage:       "graph stats",
		Data:        (*Host).cmdGraphStats,
	})
	g.AddCommand(cmd.Command{
		Name:        "deps",
		Brief:       "List a note's dependencies",
		Description: "List the notes a note directly and transitively depends on.",
		Usage:       "graph deps <note-id>",
		Data:        (*Host).cmdGraphDeps,
	})
	g.AddCommand(cmd.Command{
		Name:        "dependents",
		Brief:       "List a note's dependents",
		Description: "List the notes that directly and transitively depend on a note.",
		Usage:       "graph dependents <note-id>",
		Data:        (*Host).cmdGraphDependents,
	})

	// Bytecode commands
	bc := cmd.NewTree("Bytecode")
	root.AddCommand(cmd.Command{
		Name:    "bytecode",
		Brief:   "Bytecode inspection commands",
		Subtree: bc,
	})
	bc.AddCommand(cmd.Command{
		Name:        "dump",
		Brief:       "Disassemble a note's registered expression",
		Description: "Disassemble the bytecode registered for one variable of one note.",
		Usage:       "bytecode dump <note-id> <variable>",
		Data:        (*Host).cmdBytecodeDump,
	})

	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit notecli",
		Description: "Exit the notecli session.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.AddShortcut("?", "help")
	root.AddShortcut("q", "quit")

	cmds = root
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if s.Command.Subtree != nil {
			h.displayCommands(s.Command.Subtree)
			return nil
		}
		h.displayUsage(s.Command)
		if s.Command.Description != "" {
			h.println(s.Command.Description)
		} else if s.Command.Brief != "" {
			h.println(s.Command.Brief)
		}
	}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting program")
}

func parseNoteID(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q: %w", s, err)
	}
	return uint16(n), nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	if len(c.Args) < 3 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	v, err := bytecode.VarFromName(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	source := strings.Join(c.Args[2:], " ")
	expr := compiler.Compile(source)
	h.setExpression(id, v, expr)
	h.printf("note %d: %s = %s (%d dependencies)\n", id, v, source, len(expr.Dependencies))
	return nil
}

func (h *Host) cmdEval(c cmd.Selection) error {
	n := h.evaluateDirty()
	h.printf("evaluated %d note(s); generation is now %d\n", n, h.ev.Generation())
	return nil
}

func (h *Host) cmdGet(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if len(c.Args) >= 2 {
		v, err := bytecode.VarFromName(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		val, ok := h.ev.GetCachedValue(id, v)
		if !ok {
			h.printf("note %d has no cached %s\n", id, v)
			return nil
		}
		h.printf("%s = %s\n", v, val)
		return nil
	}

	note, ok := h.ev.GetCachedNote(id)
	if !ok {
		h.printf("note %d has no cached values\n", id)
		return nil
	}
	for v := bytecode.Var(0); int(v) < bytecode.VarCount; v++ {
		if val, ok := note.Value(v); ok {
			h.printf("%-16s %s\n", v, val)
		}
	}
	h.printf("%-16s 0x%02x\n", "corruption", note.Corruption)
	return nil
}

func (h *Host) cmdRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.removeNote(id)
	h.printf("removed note %d\n", id)
	return nil
}

func (h *Host) cmdCycles(c cmd.Selection) error {
	cycles := h.g.DetectCycles()
	if len(cycles) == 0 {
		h.println("no cycles")
		return nil
	}
	for _, cycle := range cycles {
		strs := make([]string, len(cycle))
		for i, id := range cycle {
			strs[i] = strconv.Itoa(int(id))
		}
		h.printf("%s\n", strings.Join(strs, " -> "))
	}
	return nil
}

func (h *Host) cmdGraphStats(c cmd.Selection) error {
	h.printf("%s\n", strings.Repeat("-", terminalWidth()))
	s := h.g.Stats()
	h.printf("notes:              %d\n", s.NoteCount)
	h.printf("total fan-out:      %d\n", s.TotalFanOut)
	h.printf("average fan-out:    %.2f\n", s.AverageFanOut)
	h.printf("max fan-out:        %d\n", s.MaxFanOut)
	h.printf("max fan-in:         %d\n", s.MaxFanIn)
	h.printf("base-note dependents: %d\n", s.BaseNoteDependentCount)
	return nil
}

func (h *Host) cmdGraphDeps(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("direct:     %v\n", h.g.Dependencies(id))
	h.printf("transitive: %v\n", h.g.AllDependencies(id))
	return nil
}

func (h *Host) cmdGraphDependents(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("direct:     %v\n", h.g.Dependents(id))
	h.printf("transitive: %v\n", h.g.AllDependents(id))
	return nil
}

func (h *Host) cmdBytecodeDump(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}
	id, err := parseNoteID(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	v, err := bytecode.VarFromName(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	code, ok := h.expressionBytecode(id, v)
	if !ok {
		h.printf("note %d has no registered %s expression\n", id, v)
		return nil
	}
	if err := bytecode.DisassembleAll(code, h.output); err != nil {
		h.printf("disassembly error: %v\n", err)
	}
	h.output.Flush()
	return nil
}
