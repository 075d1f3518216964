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

package store

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/notecore/engine/bytecode"
	"github.com/notecore/engine/value"
)

// FractionData is the host-visible wire shape of a Fraction or Value
// documented in §6: an exact (s, n, d) triple when corrupted is false,
// or a float64 approximation f (and, for a Symbolic value, its power-
// product decomposition) when corrupted is true. n and d are decimal
// strings rather than native ints so that arbitrary-precision numerators
// and denominators round-trip exactly (see SPEC_FULL.md's stdlib
// justification for why Fraction is math/big-backed).
type FractionData struct {
	Sign      int8           `json:"s"`
	Num       string         `json:"n"`
	Den       string         `json:"d"`
	Float     *float64       `json:"f,omitempty"`
	Corrupted bool           `json:"corrupted"`
	Symbolic  *SymbolicData  `json:"symbolic,omitempty"`
}

// SymbolicData is the wire shape of a SymbolicPower: a rational
// coefficient and its positive-integer-base, rational-exponent terms.
type SymbolicData struct {
	Coefficient FractionData `json:"coefficient"`
	Powers      []PowerData  `json:"powers"`
}

// PowerData is one base^exponent term of a SymbolicData.
type PowerData struct {
	Base uint32        `json:"base"`
	Exp  FractionData  `json:"exp"`
}

// valueToData converts a Value to its wire form, honoring the host
// invariant: corrupted=false means (s,n,d) is authoritative; corrupted
// =true means f (and, for Symbolic, the symbolic payload) is
// authoritative.
func valueToData(v value.Value) FractionData {
	switch v.Kind() {
	case value.KindRational:
		f, _ := v.AsFraction()
		return fractionToData(f, false)
	case value.KindSymbolic:
		s, _ := v.AsSymbolic()
		fv := v.Float64()
		d := fractionToData(s.Coefficient, true)
		d.Float = &fv
		powers := make([]PowerData, len(s.Powers))
		for i, t := range s.Powers {
			powers[i] = PowerData{Base: t.Base, Exp: fractionToData(t.Exponent, false)}
		}
		d.Symbolic = &SymbolicData{Coefficient: fractionToData(s.Coefficient, false), Powers: powers}
		return d
	default: // KindIrrational
		fv := v.Float64()
		return FractionData{Corrupted: true, Float: &fv}
	}
}

func fractionToData(f value.Fraction, corrupted bool) FractionData {
	return FractionData{
		Sign:      int8(f.Sign()),
		Num:       f.NumeratorString(),
		Den:       f.DenominatorString(),
		Corrupted: corrupted,
	}
}

func dataToValue(d FractionData) (value.Value, error) {
	if d.Corrupted {
		if d.Symbolic != nil {
			coeff, err := fractionFromData(d.Symbolic.Coefficient)
			if err != nil {
				return value.Value{}, err
			}
			terms := make([]value.PowerTerm, len(d.Symbolic.Powers))
			for i, p := range d.Symbolic.Powers {
				exp, err := fractionFromData(p.Exp)
				if err != nil {
					return value.Value{}, err
				}
				terms[i] = value.PowerTerm{Base: p.Base, Exponent: exp}
			}
			return value.Symbolic(value.NewSymbolicPower(coeff, terms)), nil
		}
		if d.Float == nil {
			return value.Value{}, errors.New("store: corrupted FractionData missing f")
		}
		return value.Irrational(*d.Float), nil
	}
	f, err := fractionFromData(d)
	if err != nil {
		return value.Value{}, err
	}
	return value.Rational(f), nil
}

func fractionFromData(d FractionData) (value.Fraction, error) {
	num, ok := new(big.Int).SetString(d.Num, 10)
	if !ok {
		return value.Fraction{}, errors.Errorf("store: invalid numerator %q", d.Num)
	}
	den, ok := new(big.Int).SetString(d.Den, 10)
	if !ok {
		return value.Fraction{}, errors.Errorf("store: invalid denominator %q", d.Den)
	}
	if d.Sign < 0 {
		num.Neg(num)
	}
	return value.NewBig(num, den), nil
}

// EvaluatedNoteData is the serialized form of EvaluatedNote: one optional
// FractionData per variable (nil meaning "absent" in the same sense as
// the live cache) plus the corruption bitmask.
type EvaluatedNoteData struct {
	StartTime       *FractionData `json:"startTime,omitempty"`
	Duration        *FractionData `json:"duration,omitempty"`
	Frequency       *FractionData `json:"frequency,omitempty"`
	Tempo           *FractionData `json:"tempo,omitempty"`
	BeatsPerMeasure *FractionData `json:"beatsPerMeasure,omitempty"`
	MeasureLength   *FractionData `json:"measureLength,omitempty"`
	CorruptionFlags byte          `json:"corruptionFlags"`
}

func noteToData(n *EvaluatedNote) EvaluatedNoteData {
	d := EvaluatedNoteData{CorruptionFlags: n.Corruption}
	set := func(v bytecode.Var) *FractionData {
		val, ok := n.Value(v)
		if !ok {
			return nil
		}
		fd := valueToData(val)
		return &fd
	}
	d.StartTime = set(bytecode.VarStartTime)
	d.Duration = set(bytecode.VarDuration)
	d.Frequency = set(bytecode.VarFrequency)
	d.Tempo = set(bytecode.VarTempo)
	d.BeatsPerMeasure = set(bytecode.VarBeatsPerMeasure)
	d.MeasureLength = set(bytecode.VarMeasureLength)
	return d
}

func dataToNote(d EvaluatedNoteData) (*EvaluatedNote, error) {
	n := &EvaluatedNote{Corruption: d.CorruptionFlags}
	assign := func(v bytecode.Var, fd *FractionData) error {
		if fd == nil {
			return nil
		}
		val, err := dataToValue(*fd)
		if err != nil {
			return err
		}
		n.values[v] = val
		n.present[v] = true
		return nil
	}
	for _, pair := range []struct {
		v  bytecode.Var
		fd *FractionData
	}{
		{bytecode.VarStartTime, d.StartTime},
		{bytecode.VarDuration, d.Duration},
		{bytecode.VarFrequency, d.Frequency},
		{bytecode.VarTempo, d.Tempo},
		{bytecode.VarBeatsPerMeasure, d.BeatsPerMeasure},
		{bytecode.VarMeasureLength, d.MeasureLength},
	} {
		if err := assign(pair.v, pair.fd); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// cacheExport is the JSON envelope ExportCache serializes.
type cacheExport struct {
	Generation uint64                       `json:"generation"`
	Notes      map[string]EvaluatedNoteData `json:"notes"`
}

// ExportCache serializes the evaluator's cache to a self-describing blob:
// a JSON payload of every cached note plus the current generation,
// followed by a blake2b-256 checksum over that payload. This is additive
// to the §6 FractionData/EvaluatedNote wire shape, not a replacement of
// it - a host that doesn't care about tamper/truncation detection can
// simply ignore the trailing 32 bytes and parse the JSON prefix on its
// own.
func (e *Evaluator) ExportCache() ([]byte, error) {
	export := cacheExport{Generation: e.generation, Notes: make(map[string]EvaluatedNoteData, len(e.cache))}
	for id, n := range e.cache {
		export.Notes[uint16Key(id)] = noteToData(n)
	}
	payload, err := json.Marshal(export)
	if err != nil {
		return nil, errors.Wrap(err, "store: marshaling cache export")
	}
	sum := blake2b.Sum256(payload)
	return append(payload, sum[:]...), nil
}

// ImportCache verifies the blake2b-256 checksum ExportCache appended and,
// if it matches, replaces the evaluator's cache with the deserialized
// contents and bumps the generation. The dirty set and bytecode store are
// left untouched: importing a cache snapshot is not the same as
// registering fresh expressions.
func (e *Evaluator) ImportCache(data []byte) error {
	if len(data) < blake2b.Size256 {
		return errors.New("store: cache blob shorter than its checksum")
	}
	payload, sum := data[:len(data)-blake2b.Size256], data[len(data)-blake2b.Size256:]
	want := blake2b.Sum256(payload)
	if !bytes.Equal(want[:], sum) {
		return errors.New("store: cache blob failed checksum verification")
	}

	var export cacheExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return errors.Wrap(err, "store: unmarshaling cache export")
	}

	cache := make(map[uint16]*EvaluatedNote, len(export.Notes))
	for key, nd := range export.Notes {
		id, err := keyUint16(key)
		if err != nil {
			return err
		}
		n, err := dataToNote(nd)
		if err != nil {
			return err
		}
		cache[id] = n
	}
	e.cache = cache
	e.bump()
	return nil
}

func uint16Key(id uint16) string {
	return strconv.FormatUint(uint64(id), 10)
}

func keyUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "store: invalid note id key %q", s)
	}
	return uint16(n), nil
}
