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

// Package compiler translates the restricted method-chain surface syntax
// used for note-expression text into bytecode.
//
// Recognized atomic forms:
//
//	new Fraction(n)
//	new Fraction(n, d)
//	module.baseNote.getVariable('<name>')
//	module.getNoteById(<id>).getVariable('<name>')
//	module.findTempo(<ref>)
//	module.findMeasureLength(<ref>)
//	<bare decimal number>
//	<bare variable name>                     (shorthand for a base-note getter)
//
// Chained combinators .add(<expr>), .sub(<expr>), .mul(<expr>),
// .div(<expr>) compose atoms; outer parentheses are stripped and nested
// chains are supported to arbitrary depth (bounded only by stack depth of
// the parser itself).
//
// Unlike the teacher's text/scanner-based assembler, this is not a
// tokenizer over a flat instruction stream: the grammar is a fixed,
// small method-chain shape, so parsing proceeds by splitting the source
// text at parenthesis-depth-zero combinator boundaries and classifying
// what remains into a small typed AST (see ast.go), whose nodes then
// emit their own opcodes through their emit methods (no string
// prefix/suffix checks happen during emission). This mirrors the design notes' guidance to keep the
// string form canonical for round-tripping while preferring an AST
// internally.
//
// A source string the grammar cannot recognize never causes a panic or a
// returned error: it compiles to the constant zero (bytecode LOAD_CONST
// 0/1) and a warning is logged, exactly as the original host relies on.
package compiler
