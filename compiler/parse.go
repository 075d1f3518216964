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

package compiler

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/value"
)

var (
	numberLiteralRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	identifierRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// chainCall is one .name(arg) segment found at parenthesis depth zero.
type chainCall struct {
	name string
	arg  string
}

// splitTopLevel scans s for occurrences of ".name(" (for name in names)
// that begin at parenthesis depth zero, and returns the text before the
// first such occurrence together with the ordered list of calls. It is
// the textual analogue of a single grammar level (add/sub, or mul/div):
// nested calls inside an argument's own parentheses are not split at this
// level, since the recursive call into parseAddExpr on that argument text
// handles them.
func splitTopLevel(s string, names []string) (first string, calls []chainCall, err error) {
	depth := 0
	lastEnd := 0
	i := 0
	n := len(s)
	for i < n {
		if depth == 0 && s[i] == '.' {
			matched := ""
			for _, name := range names {
				if strings.HasPrefix(s[i:], name) {
					matched = name
					break
				}
			}
			if matched != "" {
				if len(calls) == 0 {
					first = s[lastEnd:i]
				}
				argStart := i + len(matched)
				d := 1
				j := argStart
				for ; j < n && d > 0; j++ {
					switch s[j] {
					case '(':
						d++
					case ')':
						d--
					}
				}
				if d != 0 {
					return "", nil, errors.Errorf("compiler: unbalanced parens in %q", s)
				}
				argEnd := j - 1
				calls = append(calls, chainCall{
					name: strings.TrimSuffix(strings.TrimPrefix(matched, "."), "("),
					arg:  s[argStart:argEnd],
				})
				lastEnd = j
				i = j
				continue
			}
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		i++
	}
	if depth != 0 {
		return "", nil, errors.Errorf("compiler: unbalanced parens in %q", s)
	}
	if len(calls) == 0 {
		first = s[lastEnd:]
	}
	return first, calls, nil
}

// parseExpr parses a full expression, including an optional leading unary
// minus applied to the whole thing.
func parseExpr(text string) (node, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "-") {
		inner, err := parseAddExpr(text[1:])
		if err != nil {
			return nil, err
		}
		return negNode{inner: inner}, nil
	}
	return parseAddExpr(text)
}

// parseAddExpr handles the outermost .add(/.sub( combinator level.
func parseAddExpr(text string) (node, error) {
	first, calls, err := splitTopLevel(text, []string{".add(", ".sub("})
	if err != nil {
		return nil, err
	}
	result, err := parseMulExpr(first)
	if err != nil {
		return nil, err
	}
	for _, c := range calls {
		arg, err := parseExpr(c.arg)
		if err != nil {
			return nil, err
		}
		op := bytecode.OpAdd
		if c.name == "sub" {
			op = bytecode.OpSub
		}
		result = binNode{op: op, left: result, right: arg}
	}
	return result, nil
}

// parseMulExpr handles the inner .mul(/.div( combinator level, and
// recognizes the beat-unit shortcut when it appears.
func parseMulExpr(text string) (node, error) {
	first, calls, err := splitTopLevel(text, []string{".mul(", ".div("})
	if err != nil {
		return nil, err
	}
	result, err := parseAtom(first)
	if err != nil {
		return nil, err
	}
	for _, c := range calls {
		arg, err := parseExpr(c.arg)
		if err != nil {
			return nil, err
		}
		op := bytecode.OpMul
		if c.name == "div" {
			op = bytecode.OpDiv
		}
		if op == bytecode.OpDiv {
			if cn, ok := result.(constNode); ok && cn.num.Cmp(big.NewInt(60)) == 0 && cn.den.Cmp(big.NewInt(1)) == 0 {
				if fn, ok := arg.(findNode); ok && fn.op == bytecode.OpFindTempo {
					result = beatUnitNode{ref: fn.ref}
					continue
				}
			}
		}
		result = binNode{op: op, left: result, right: arg}
	}
	return result, nil
}

// stripOuterParens removes a single layer of parentheses that wraps the
// entire string, if present, returning the unwrapped text and true.
func stripOuterParens(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s, false
	}
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s, false
			}
		}
	}
	return s[1 : len(s)-1], true
}

// parseAtom classifies a single leaf of the grammar.
func parseAtom(text string) (node, error) {
	text = strings.TrimSpace(text)
	if inner, ok := stripOuterParens(text); ok {
		return parseExpr(inner)
	}

	if strings.HasPrefix(text, "new Fraction(") && strings.HasSuffix(text, ")") {
		args := splitArgs(text[len("new Fraction(") : len(text)-1])
		switch len(args) {
		case 1:
			f, err := value.FromString(strings.TrimSpace(args[0]))
			if err != nil {
				return nil, errors.Wrap(err, "compiler: new Fraction(n)")
			}
			num, den := f.BigInts()
			return constNode{num: num, den: den}, nil
		case 2:
			num, ok := new(big.Int).SetString(strings.TrimSpace(args[0]), 10)
			if !ok {
				return nil, errors.Errorf("compiler: invalid numerator %q", args[0])
			}
			den, ok := new(big.Int).SetString(strings.TrimSpace(args[1]), 10)
			if !ok {
				return nil, errors.Errorf("compiler: invalid denominator %q", args[1])
			}
			return constNode{num: num, den: den}, nil
		default:
			return nil, errors.Errorf("compiler: new Fraction(...) takes 1 or 2 arguments, got %d", len(args))
		}
	}

	if text == "module.baseNote" {
		return idRefNode{isBase: true}, nil
	}

	if name, ok := stringCall(text, "module.baseNote.getVariable("); ok {
		v, err := bytecode.VarFromName(name)
		if err != nil {
			return nil, err
		}
		return baseVarNode{v: v}, nil
	}

	// refVarCall (module.getNoteById(<id>).getVariable('<name>')) must be
	// tried before the bare intCall match below: both share the
	// "module.getNoteById(" prefix and a trailing ")", so a naive
	// prefix/suffix test on the bare form would swallow the
	// ".getVariable('...')" suffix into what it thinks is the id.
	if id, name, ok := refVarCall(text); ok {
		noteID, err := strconv.ParseUint(id, 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "compiler: invalid note id %q", id)
		}
		v, err := bytecode.VarFromName(name)
		if err != nil {
			return nil, err
		}
		return refVarNode{id: uint16(noteID), v: v}, nil
	}

	if idText, ok := intCall(text, "module.getNoteById("); ok {
		id, err := strconv.ParseUint(idText, 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "compiler: invalid note id %q", idText)
		}
		return idRefNode{id: uint16(id)}, nil
	}

	if argText, ok := parenCall(text, "module.findTempo("); ok {
		ref, err := parseRef(argText)
		if err != nil {
			return nil, err
		}
		return findNode{op: bytecode.OpFindTempo, ref: ref}, nil
	}

	if argText, ok := parenCall(text, "module.findMeasureLength("); ok {
		ref, err := parseRef(argText)
		if err != nil {
			return nil, err
		}
		return findNode{op: bytecode.OpFindMeasure, ref: ref}, nil
	}

	if numberLiteralRe.MatchString(text) {
		f, err := value.FromString(text)
		if err != nil {
			return nil, err
		}
		num, den := f.BigInts()
		return constNode{num: num, den: den}, nil
	}

	if identifierRe.MatchString(text) {
		if v, err := bytecode.VarFromName(text); err == nil {
			return baseVarNode{v: v}, nil
		}
	}

	return nil, errors.Errorf("compiler: unrecognized expression %q", text)
}

// parseRef parses the argument of findTempo/findMeasureLength, which is
// documented to be a bare note reference (module.baseNote or
// module.getNoteById(<id>)) rather than a full value expression.
func parseRef(text string) (node, error) {
	text = strings.TrimSpace(text)
	if text == "module.baseNote" {
		return idRefNode{isBase: true}, nil
	}
	if idText, ok := intCall(text, "module.getNoteById("); ok {
		if id, err := strconv.ParseUint(idText, 10, 16); err == nil {
			return idRefNode{id: uint16(id)}, nil
		}
	}
	inner, err := parseExpr(text)
	if err != nil {
		return nil, err
	}
	return refExprNode{inner: inner}, nil
}

// stringCall recognizes prefix+'<quoted>'+")" and returns the unquoted
// contents.
func stringCall(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, ")") {
		return "", false
	}
	inner := strings.TrimSpace(text[len(prefix) : len(text)-1])
	if len(inner) < 2 {
		return "", false
	}
	if (inner[0] == '\'' && inner[len(inner)-1] == '\'') || (inner[0] == '"' && inner[len(inner)-1] == '"') {
		return inner[1 : len(inner)-1], true
	}
	return "", false
}

// intCall recognizes prefix+<text>+")" and returns the text between them;
// it does not check that the text is a number, callers parse it.
func intCall(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, ")") {
		return "", false
	}
	return strings.TrimSpace(text[len(prefix) : len(text)-1]), true
}

// parenCall recognizes prefix+<anything>+")" (with the matching close
// paren for the one prefix opens) and returns the inner text.
func parenCall(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, ")") {
		return "", false
	}
	return text[len(prefix) : len(text)-1], true
}

// refVarCall recognizes module.getNoteById(<id>).getVariable('<name>').
func refVarCall(text string) (id, name string, ok bool) {
	const prefix = "module.getNoteById("
	if !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	rest := text[len(prefix):]
	close := strings.Index(rest, ")")
	if close < 0 {
		return "", "", false
	}
	id = strings.TrimSpace(rest[:close])
	tail := rest[close+1:]
	n, ok := stringCall(tail, ".getVariable(")
	if !ok {
		return "", "", false
	}
	return id, n, true
}

// splitArgs splits a comma-separated argument list at depth zero.
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, s[start:])
	return args
}
