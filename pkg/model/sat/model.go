// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package sat emits concrete cipher-evaluation models as CNF over named
// literals, maps them to DIMACS and can solve them in process with
// gophersat. Satisfying assignments are rendered as the same "id = value"
// lines the solution decoder consumes for the other backends.
package sat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crillab/gophersat/solver"
	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// CipherModel builds the CNF model of a cipher.
type CipherModel struct {
	cipher *cipher.Cipher

	variables []string
	clauses   []Clause

	// Warnings collects the components the CNF mode cannot express, in
	// graph order.
	Warnings []model.Unsupported
}

// NewCipherModel returns a builder for the given cipher.
func NewCipherModel(c *cipher.Cipher) *CipherModel {
	return &CipherModel{cipher: c}
}

// BuildCipherModel walks the cipher and assembles the clause list.
// Components outside the supported set are skipped and recorded in
// Warnings.
func (m *CipherModel) BuildCipherModel(fixed []model.FixedVariable) error {
	m.variables = nil
	m.clauses = nil
	m.Warnings = nil

	fixedClauses, err := fixVariableClauses(fixed)
	if err != nil {
		return err
	}

	for i, input := range m.cipher.Inputs {
		for b := 0; b < m.cipher.InputsBitSize[i]; b++ {
			m.variables = append(m.variables, bitID(input, b))
		}
	}

	m.clauses = append(m.clauses, fixedClauses...)

	for _, component := range m.cipher.GetAllComponents() {
		if !model.Supports(model.ModeSat, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		variables, clauses := componentClauses(component)
		m.variables = append(m.variables, variables...)
		m.clauses = append(m.clauses, clauses...)
	}

	log.Debugf("sat model: %d variables, %d clauses", len(m.variables), len(m.clauses))

	return nil
}

// Variables returns the declared bit literals, inputs first, then
// component outputs and XOR chain intermediates in graph order.
func (m *CipherModel) Variables() []string { return m.variables }

// Clauses returns the assembled clause list.
func (m *CipherModel) Clauses() []Clause { return m.clauses }

func componentClauses(component *cipher.Component) ([]string, []Clause) {
	outputs := outputBitIDs(component)
	inputs := inputBitIDs(component)
	variables := append([]string{}, outputs...)

	var clauses []Clause

	switch {
	case component.Type == cipher.Constant:
		for i, bit := range component.Bits {
			if bit == 1 {
				clauses = append(clauses, Clause{outputs[i]})
			} else {
				clauses = append(clauses, Clause{neg(outputs[i])})
			}
		}
	case component.IsOutput():
		for i, out := range outputs {
			clauses = append(clauses, equivalentClauses(out, inputs[i])...)
		}
	case component.Operation == cipher.OpXor:
		width := component.OutputBitSize
		operands := len(inputs) / width

		for i, out := range outputs {
			bitInputs := make([]string, operands)
			for j := range bitInputs {
				bitInputs[j] = inputs[i+j*width]
			}

			inter, bitClauses := xorSeqClauses(out, bitInputs)
			variables = append(variables, inter...)
			clauses = append(clauses, bitClauses...)
		}
	case component.Operation == cipher.OpAnd:
		width := component.OutputBitSize
		for i, out := range outputs {
			clauses = append(clauses, andClauses(out, inputs[i], inputs[i+width])...)
		}
	case component.Operation == cipher.OpOr:
		width := component.OutputBitSize
		for i, out := range outputs {
			clauses = append(clauses, orClauses(out, inputs[i], inputs[i+width])...)
		}
	case component.Operation == cipher.OpNot:
		for i, out := range outputs {
			clauses = append(clauses, notClauses(out, inputs[i])...)
		}
	case component.Operation == cipher.OpRotate:
		width := len(inputs)
		for i, out := range outputs {
			src := ((i-component.Amount)%width + width) % width
			clauses = append(clauses, equivalentClauses(out, inputs[src])...)
		}
	case component.Operation == cipher.OpShift:
		width := len(inputs)
		for i, out := range outputs {
			src := i - component.Amount
			if src < 0 || src >= width {
				clauses = append(clauses, Clause{neg(out)})
				continue
			}

			clauses = append(clauses, equivalentClauses(out, inputs[src])...)
		}
	default:
		panic("unreachable")
	}

	return variables, clauses
}

// fixVariableClauses pins fixed variables with unit clauses (equal) or a
// single disjunction of flipped literals (not_equal).
func fixVariableClauses(fixed []model.FixedVariable) ([]Clause, error) {
	var clauses []Clause

	for _, fv := range fixed {
		if err := fv.Validate(); err != nil {
			return nil, err
		}

		switch fv.ConstraintType {
		case model.ConstraintEqual:
			for i, position := range fv.BitPositions {
				literal := bitID(fv.ComponentID, position)
				if fv.BinaryValue[i] == 0 {
					literal = neg(literal)
				}

				clauses = append(clauses, Clause{literal})
			}
		case model.ConstraintNotEqual:
			clause := make(Clause, len(fv.BitPositions))
			for i, position := range fv.BitPositions {
				clause[i] = bitID(fv.ComponentID, position)
				if fv.BinaryValue[i] == 1 {
					clause[i] = neg(clause[i])
				}
			}

			clauses = append(clauses, clause)
		}
	}

	return clauses, nil
}

// numbering maps every named literal appearing in the clauses onto a
// positive DIMACS index, in order of first occurrence.
func (m *CipherModel) numbering() (map[string]int, []string) {
	index := map[string]int{}
	var names []string

	assign := func(name string) {
		if _, ok := index[name]; !ok {
			names = append(names, name)
			index[name] = len(names)
		}
	}

	for _, name := range m.variables {
		assign(name)
	}

	for _, clause := range m.clauses {
		for _, literal := range clause {
			assign(strings.TrimPrefix(literal, "-"))
		}
	}

	return index, names
}

// Dimacs renders the model in DIMACS CNF, preceded by one comment line
// per variable recording the name-to-index mapping.
func (m *CipherModel) Dimacs() []string {
	index, names := m.numbering()

	out := make([]string, 0, len(names)+len(m.clauses)+1)
	for i, name := range names {
		out = append(out, fmt.Sprintf("c %d %s", i+1, name))
	}

	out = append(out, fmt.Sprintf("p cnf %d %d", len(names), len(m.clauses)))

	for _, clause := range m.clauses {
		parts := make([]string, 0, len(clause)+1)
		for _, literal := range clause {
			name := strings.TrimPrefix(literal, "-")
			v := index[name]

			if strings.HasPrefix(literal, "-") {
				v = -v
			}

			parts = append(parts, fmt.Sprintf("%d", v))
		}

		parts = append(parts, "0")
		out = append(out, strings.Join(parts, " "))
	}

	return out
}

// Solve hands the model to gophersat. On satisfiability it returns the
// assignment rendered as "id = value" lines, one per component or input,
// in the format the solution decoder understands; ok is false when the
// model is unsatisfiable.
func (m *CipherModel) Solve() (lines []string, ok bool, err error) {
	index, names := m.numbering()

	intClauses := make([][]int, len(m.clauses))
	for i, clause := range m.clauses {
		intClause := make([]int, len(clause))
		for j, literal := range clause {
			name := strings.TrimPrefix(literal, "-")
			v := index[name]

			if strings.HasPrefix(literal, "-") {
				v = -v
			}

			intClause[j] = v
		}

		intClauses[i] = intClause
	}

	pb := solver.ParseSlice(intClauses)

	s := solver.New(pb)
	if s.Solve() != solver.Sat {
		return nil, false, nil
	}

	assignment := s.Model()

	bits := map[string]bool{}
	for i, name := range names {
		if i < len(assignment) {
			bits[name] = assignment[i]
		}
	}

	return renderAssignment(m.cipher, bits), true, nil
}

// renderAssignment groups per-bit literals back into whole identifiers.
func renderAssignment(c *cipher.Cipher, bits map[string]bool) []string {
	var lines []string

	emit := func(id string, size int) {
		values := make([]string, size)
		for i := range values {
			values[i] = "0"
			if bits[bitID(id, i)] {
				values[i] = "1"
			}
		}

		lines = append(lines, fmt.Sprintf("%s = [%s]", id, strings.Join(values, ", ")))
	}

	for i, input := range c.Inputs {
		emit(input, c.InputsBitSize[i])
	}

	ids := []string{}
	sizes := map[string]int{}

	for _, component := range c.GetAllComponents() {
		ids = append(ids, component.ID)
		sizes[component.ID] = component.OutputBitSize
	}

	sort.Strings(ids)

	for _, id := range ids {
		emit(id, sizes[id])
	}

	return lines
}
