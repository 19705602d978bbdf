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
package cp

import (
	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// ImpossibleModel assembles the truncated-differential models used to
// search impossible XOR differentials: a forward copy of the cipher traced
// from the top meets a backward copy of the inverse cipher traced from the
// bottom, and the two are forced to contradict at the middle round.
//
// The backward copy reuses the forward identifiers (the inverse graph
// deliberately keeps them), so its whole fragment is rewritten with the
// "inverse_" tag before the two copies share a model.
type ImpossibleModel struct {
	CipherModel

	inverse     *cipher.Cipher
	middleRound int
}

// NewImpossibleModel returns a builder holding the cipher and its derived
// inverse.
func NewImpossibleModel(c *cipher.Cipher) *ImpossibleModel {
	return &ImpossibleModel{
		CipherModel: CipherModel{cipher: c},
		inverse:     c.Inverse(),
		middleRound: 1,
	}
}

// InverseCipher returns the derived inverse graph.
func (m *ImpossibleModel) InverseCipher() *cipher.Cipher {
	return m.inverse
}

// MiddleRound returns the meet-in-the-middle round of the last trail
// build.
func (m *ImpossibleModel) MiddleRound() int {
	return m.middleRound
}

// BuildTrailModel assembles the impossible-differential trail model for
// the round window (initialRound, middleRound, finalRound), pruning the
// constraints down to the attacked sub-range afterwards.
func (m *ImpossibleModel) BuildTrailModel(fixed []model.FixedVariable, initialRound, middleRound, finalRound int) error {
	numberOfRounds := m.cipher.NumberOfRounds()
	if err := ValidateWindow(initialRound, middleRound, finalRound, numberOfRounds); err != nil {
		return err
	}

	m.initialise()
	m.middleRound = middleRound

	fixedConstraints, err := model.FixVariableConstraints(fixed)
	if err != nil {
		return err
	}

	constraints := fixedConstraints

	var forwardComponents, backwardComponents []*cipher.Component
	for r := 0; r < middleRound; r++ {
		forwardComponents = append(forwardComponents, m.cipher.GetComponentsInRound(r)...)
	}

	for r := 0; r < numberOfRounds-middleRound+1; r++ {
		backwardComponents = append(backwardComponents, m.inverse.GetComponentsInRound(r)...)
	}

	directVariables, directConstraints := m.forwardFragment(forwardComponents)
	m.variables = append(m.variables, directVariables...)
	constraints = append(constraints, directConstraints...)

	inverseVariables, inverseConstraints := m.backwardFragment(backwardComponents)
	m.variables = append(m.variables, inverseVariables...)
	constraints = append(constraints, inverseConstraints...)

	declarations, countConstraints := m.trailDeclarations(forwardComponents, backwardComponents)
	m.prefix = append(m.prefix, declarations...)
	m.variables = append(m.variables, countConstraints...)

	constraints = append(constraints, m.finalImpossibleConstraints(initialRound, middleRound, finalRound)...)

	combined := append(append([]model.Line{}, m.variables...), constraints...)

	pruned, err := m.CleanConstraints(combined, initialRound, middleRound, finalRound)
	if err != nil {
		return err
	}

	m.variables = nil
	m.constraints = pruned

	return nil
}

// BuildAttackModel assembles the impossible-differential attack model:
// the window triple rounds = (r0, r1, r2) splits the cipher into a
// forward span up to r1, a backward span back to r1, plus the surrounding
// initial and final spans evaluated in the opposite directions, tied
// together by transition equalities.
func (m *ImpossibleModel) BuildAttackModel(fixed []model.FixedVariable, rounds [3]int) error {
	numberOfRounds := m.cipher.NumberOfRounds()
	if err := ValidateWindow(rounds[0], rounds[1], rounds[2], numberOfRounds); err != nil {
		return err
	}

	m.initialise()
	m.middleRound = rounds[1]

	fixedConstraints, err := model.FixVariableConstraints(fixed)
	if err != nil {
		return err
	}

	constraints := fixedConstraints

	forward := m.cipherSpan(rounds[0]-1, rounds[1])
	backward := m.inverseSpan(numberOfRounds-rounds[2], numberOfRounds-rounds[1]+1)
	initial := m.inverseSpan(numberOfRounds-rounds[0], numberOfRounds)
	final := m.cipherSpan(rounds[2]-1, numberOfRounds)

	finalVariables, finalConstraints := m.forwardFragment(final)
	m.variables = append(m.variables, finalVariables...)
	constraints = append(constraints, finalConstraints...)

	initialVariables, initialConstraints := m.backwardFragment(initial)
	m.variables = append(m.variables, initialVariables...)
	constraints = append(constraints, initialConstraints...)

	directVariables, directConstraints := m.forwardFragment(forward)
	m.variables = append(m.variables, directVariables...)
	constraints = append(constraints, directConstraints...)

	inverseVariables, inverseConstraints := m.backwardFragment(backward)
	m.variables = append(m.variables, inverseVariables...)
	constraints = append(constraints, inverseConstraints...)

	constraints = append(constraints, m.transitionConstraints(rounds)...)

	declarations, countConstraints := m.attackDeclarations(forward, final, backward, initial, rounds)
	m.prefix = append(m.prefix, declarations...)
	m.variables = append(m.variables, countConstraints...)

	constraints = append(constraints, m.finalAttackConstraints(rounds)...)
	m.constraints = constraints

	return nil
}

// forwardFragment emits truncated constraints for a span of forward
// components.
func (m *ImpossibleModel) forwardFragment(components []*cipher.Component) ([]model.Line, []model.Line) {
	var variables, constraints []model.Line

	for _, component := range components {
		if !model.Supports(model.ModeTruncated, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		componentVariables, componentConstraints := truncatedConstraints(component, m.pool)
		variables = append(variables, componentVariables...)
		constraints = append(constraints, componentConstraints...)
	}

	return variables, constraints
}

// backwardFragment emits truncated constraints for a span of inverse
// components and rewrites the fragment into the "inverse_" namespace. The
// family pass additionally catches cipher_output identifiers entering the
// fragment as input links (the ciphertext input of the inverse cipher);
// because that pass is substring-based it can double-tag an identifier
// mirrored just before, which the collapse undoes.
func (m *ImpossibleModel) backwardFragment(components []*cipher.Component) ([]model.Line, []model.Line) {
	var variables, constraints []model.Line

	ids := make([]string, 0, len(components))

	for _, component := range components {
		if !model.Supports(model.ModeTruncated, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		ids = append(ids, component.ID)
		componentVariables, componentConstraints := truncatedConstraints(component, m.pool)
		variables = append(variables, componentVariables...)
		constraints = append(constraints, componentConstraints...)
	}

	variables = model.Mirror(variables, ids, model.InverseTag)
	constraints = model.Mirror(constraints, ids, model.InverseTag)
	constraints = model.PrefixFamily(constraints, "cipher_output", model.InverseTag)
	constraints = model.CollapseDoublePrefix(constraints, model.InverseTag)
	variables = model.PrefixFamily(variables, "cipher_output", model.InverseTag)
	variables = model.CollapseDoublePrefix(variables, model.InverseTag)

	return variables, constraints
}

// trailDeclarations declares the ternary arrays of the trail model and
// the activity constraints: cipher outputs may not be fully unknown, and
// the plaintext difference may not be zero.
func (m *ImpossibleModel) trailDeclarations(forward, backward []*cipher.Component) ([]model.Line, []model.Line) {
	var declarations, constraints []model.Line

	for i, input := range m.cipher.Inputs {
		declarations = append(declarations, ternaryArrayDeclaration(input, m.cipher.InputsBitSize[i]))
	}

	for i, input := range m.inverse.Inputs {
		declarations = append(declarations,
			ternaryArrayDeclaration(model.InverseTag+input, m.inverse.InputsBitSize[i]))
	}

	forwardDeclarations, forwardConstraints := spanDeclarations(forward, "")
	declarations = append(declarations, forwardDeclarations...)
	constraints = append(constraints, forwardConstraints...)

	backwardDeclarations, backwardConstraints := spanDeclarations(backward, model.InverseTag)
	declarations = append(declarations, backwardDeclarations...)
	constraints = append(constraints, backwardConstraints...)

	constraints = append(constraints, model.NewLine().
		Lit("constraint count(").ID("plaintext").Lit(",1) > 0;").Line())

	return declarations, constraints
}

// spanDeclarations declares one ternary array per non-constant component
// of the span, prefixed with tag, plus the not-all-unknown constraint on
// cipher outputs.
func spanDeclarations(components []*cipher.Component, tag string) ([]model.Line, []model.Line) {
	var declarations, constraints []model.Line

	for _, component := range components {
		if component.Type == cipher.Constant {
			continue
		}

		declarations = append(declarations,
			ternaryArrayDeclaration(tag+component.ID, component.OutputBitSize))

		if component.Type == cipher.CipherOutput {
			constraints = append(constraints, model.NewLine().
				Lit("constraint count(").ID(tag+component.ID).
				Litf(",2) < %d;", component.OutputBitSize).Line())
		}
	}

	return declarations, constraints
}

// finalImpossibleConstraints closes the trail model: the solve directive,
// the incompatibility disjunction at the middle round and the output
// directive.
func (m *ImpossibleModel) finalImpossibleConstraints(initialRound, middleRound, finalRound int) []model.Line {
	numberOfRounds := m.cipher.NumberOfRounds()

	cipherInputs := m.cipher.Inputs
	if initialRound > 1 {
		cipherInputs = []string{"key"}
		for _, component := range m.cipher.GetComponentsInRound(initialRound - 2) {
			if component.IsOutput() {
				cipherInputs = append(cipherInputs, component.ID)
			}
		}
	}

	cipherOutputs := m.inverse.Inputs
	if finalRound != numberOfRounds {
		cipherOutputs = []string{"key"}
		for _, component := range m.inverse.GetComponentsInRound(numberOfRounds - finalRound) {
			if component.IsOutput() {
				cipherOutputs = append(cipherOutputs, component.ID)
			}
		}
	}

	var entries []outputEntry

	for _, element := range cipherInputs {
		entries = append(entries, outputEntry{id: element})
	}

	for _, element := range cipherOutputs {
		entries = append(entries, outputEntry{id: model.InverseTag + element, weight: true})
	}

	incompatibility := model.NewLine().Lit("constraint")
	_, keyScheduleIDs := m.cipher.KeySchedule()
	keySet := map[string]bool{}

	for _, id := range keyScheduleIDs {
		keySet[id] = true
	}

	first := true

	for _, component := range m.cipher.GetComponentsInRound(middleRound - 1) {
		if component.Type == cipher.Constant || keySet[component.ID] {
			continue
		}

		inputBit := 0

		for j, link := range component.InputIDLinks {
			entries = append(entries, outputEntry{id: link, weight: true})

			for _, position := range component.InputBitPositions[j] {
				if !first {
					incompatibility.Lit(" \\/ ")
				} else {
					incompatibility.Lit(" ")
					first = false
				}

				incompatibility.Lit("(").ID(link).Litf("[%d]+", position).
					ID(model.InverseTag+component.ID).Litf("[%d]=1)", inputBit)
				inputBit++
			}
		}

		entries = append(entries, outputEntry{id: model.InverseTag + component.ID, weight: true})
	}

	incompatibility.Lit(";")
	log.Debugf("middle-round contradiction spans %d components", len(entries))

	return []model.Line{
		model.NewLine().Lit(solveSatisfy).Line(),
		incompatibility.Line(),
		outputDirective(entries),
	}
}

// transitionConstraints stitch the attack model's spans together: at both
// span boundaries the backward value must equal the forward value.
func (m *ImpossibleModel) transitionConstraints(rounds [3]int) []model.Line {
	firstRound := m.cipher.GetComponentsInRound(rounds[0] - 1)
	lastRound := m.cipher.GetComponentsInRound(rounds[2] - 1)
	first := firstRound[len(firstRound)-1]
	last := lastRound[len(lastRound)-1]

	return []model.Line{
		model.NewLine().Lit("constraint ").ID(model.InverseTag + first.ID).
			Lit(" = ").ID(first.ID).Lit(";").Line(),
		model.NewLine().Lit("constraint ").ID(model.InverseTag + last.ID).
			Lit(" = ").ID(last.ID).Lit(";").Line(),
	}
}

// attackDeclarations declares the attack model's arrays: backward inputs
// (except the plaintext, which only the forward trace sees), the forward
// and final spans under their own names, the backward and initial spans
// under inverse_ names, plus the activity constraint on the boundary
// output of the first attacked round.
func (m *ImpossibleModel) attackDeclarations(forward, final, backward, initial []*cipher.Component, rounds [3]int) ([]model.Line, []model.Line) {
	var declarations, constraints []model.Line

	for i, input := range m.cipher.Inputs {
		if input == "plaintext" {
			continue
		}

		declarations = append(declarations,
			ternaryArrayDeclaration(model.InverseTag+input, m.cipher.InputsBitSize[i]))
	}

	forwardDeclarations, forwardConstraints := spanDeclarations(append(append([]*cipher.Component{}, forward...), final...), "")
	declarations = append(declarations, forwardDeclarations...)
	constraints = append(constraints, forwardConstraints...)

	backwardDeclarations, backwardConstraints := spanDeclarations(append(append([]*cipher.Component{}, backward...), initial...), model.InverseTag)
	declarations = append(declarations, backwardDeclarations...)
	constraints = append(constraints, backwardConstraints...)

	for _, component := range m.cipher.GetComponentsInRound(rounds[0] - 1) {
		if component.IsOutput() {
			constraints = append(constraints, model.NewLine().
				Lit("constraint count(").ID(component.ID).Lit(",1) > 0;").Line())
		}
	}

	return declarations, constraints
}

// finalAttackConstraints closes the attack model, building the
// contradiction at the middle boundary round.
func (m *ImpossibleModel) finalAttackConstraints(rounds [3]int) []model.Line {
	entries := []outputEntry{}

	for _, element := range m.cipher.Inputs {
		if element == "key" {
			entries = append(entries, outputEntry{id: element})
		} else {
			entries = append(entries, outputEntry{id: model.InverseTag + element})
		}
	}

	for _, element := range m.inverse.Inputs {
		entries = append(entries, outputEntry{id: element, weight: true})
	}

	for _, component := range m.cipher.GetComponentsInRound(rounds[0] - 1) {
		if component.IsOutput() {
			entries = append(entries, outputEntry{id: component.ID, weight: true})
		}
	}

	incompatibility := model.NewLine().Lit("constraint")
	_, keyScheduleIDs := m.cipher.KeySchedule()
	keySet := map[string]bool{}

	for _, id := range keyScheduleIDs {
		keySet[id] = true
	}

	first := true

	for _, component := range m.cipher.GetComponentsInRound(rounds[1] - 1) {
		if component.Type == cipher.Constant || keySet[component.ID] {
			continue
		}

		inputBit := 0

		for j, link := range component.InputIDLinks {
			entries = append(entries, outputEntry{id: link, weight: true})

			for _, position := range component.InputBitPositions[j] {
				if !first {
					incompatibility.Lit(" \\/ ")
				} else {
					incompatibility.Lit(" ")
					first = false
				}

				incompatibility.Lit("(").ID(link).Litf("[%d]+", position).
					ID(model.InverseTag+component.ID).Litf("[%d]=1)", inputBit)
				inputBit++
			}
		}

		entries = append(entries, outputEntry{id: model.InverseTag + component.ID, weight: true})
	}

	incompatibility.Lit(";")

	return []model.Line{
		model.NewLine().Lit(solveSatisfy).Line(),
		incompatibility.Line(),
		outputDirective(entries),
	}
}

func (m *ImpossibleModel) cipherSpan(from, to int) []*cipher.Component {
	var components []*cipher.Component
	for r := from; r < to; r++ {
		components = append(components, m.cipher.GetComponentsInRound(r)...)
	}

	return components
}

func (m *ImpossibleModel) inverseSpan(from, to int) []*cipher.Component {
	var components []*cipher.Component
	for r := from; r < to; r++ {
		components = append(components, m.inverse.GetComponentsInRound(r)...)
	}

	return components
}
