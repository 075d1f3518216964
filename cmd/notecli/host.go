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
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/beevik/cmd"
	"github.com/beevik/term"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/compiler"
	"github.com/notecore/engine/graph"
	"github.com/notecore/engine/store"
)

// perNote tracks the compiled expression for each of a note's six
// variables, so that re-registering one variable can recompute the
// note's aggregate dependency set (the graph indexes notes, not
// individual variables) without recompiling the other five.
type perNote [bytecode.VarCount]*compiler.CompiledExpression

// Host is a minimal reference embedding of the notecore engine: a
// dependency graph, a persistent evaluator, and the host-side bookkeeping
// the spec explicitly leaves to an external collaborator (per-note
// compiled-expression tracking, so a single edited variable can be
// re-diffed into the graph without the host recompiling everything).
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool

	g    *graph.Graph
	ev   *store.Evaluator
	expr map[uint16]*perNote

	lastCmd *cmd.Selection
}

// NewHost creates an empty notecore host.
func NewHost() *Host {
	return &Host{
		g:    graph.New(),
		ev:   store.New(),
		expr: make(map[uint16]*perNote),
	}
}

// RunCommands reads commands from r and writes output to w, prompting
// between commands when interactive is true.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	for {
		h.prompt()
		line, err := h.getLine()
		if err != nil {
			break
		}
		if err := h.processCommand(line); err != nil {
			break
		}
	}
}

func (h *Host) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v\n", err)
			return nil
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		h.displayCommands(c.Command.Subtree)
		return nil
	}

	h.lastCmd = &c
	handler := c.Command.Data.(func(*Host, cmd.Selection) error)
	return handler(h, c)
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if err := h.input.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if !h.interactive {
		return
	}
	h.printf("notecore> ")
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.output.Flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.output.Flush()
}

func (h *Host) displayUsage(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Usage: %s\n", c.Usage)
	}
}

func (h *Host) displayCommands(tree *cmd.Tree) {
	h.printf("%s commands:\n", tree.Title)
	for _, c := range tree.Commands {
		if c.Brief != "" {
			h.printf("    %-12s  %s\n", c.Name, c.Brief)
		}
	}
}

// terminalWidth reports the current terminal's column count, falling
// back to 80 when stdout isn't a terminal (piped output, a test harness,
// or Windows' unsupported case) - used only to size the separator line
// that "graph stats" prints in a real interactive session.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
