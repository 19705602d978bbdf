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

const solveSatisfy = "solve satisfy;"

// CipherModel assembles MiniZinc models of a single cipher: the plain
// evaluation model and, on top of it, the linked two-copy model used to
// search for one differential pair.
//
// A build populates three ordered buffers: prefix (input and output array
// declarations), variables (per-component declarations such as constant
// and S-box tables) and constraints. The final model is their
// concatenation, in that order, so every declaration precedes its use.
type CipherModel struct {
	cipher *cipher.Cipher
	pool   *model.SboxPool

	prefix      []model.Line
	variables   []model.Line
	constraints []model.Line

	// Warnings lists the components skipped because the capability table
	// does not cover them for the requested mode.
	Warnings []model.Unsupported
}

// NewCipherModel returns a model builder for the given cipher.
func NewCipherModel(c *cipher.Cipher) *CipherModel {
	return &CipherModel{cipher: c}
}

// Cipher returns the cipher under analysis.
func (m *CipherModel) Cipher() *cipher.Cipher {
	return m.cipher
}

// initialise resets all build state, including the S-box pool: stale pool
// entries must never leak from one build into the next.
func (m *CipherModel) initialise() {
	m.pool = model.NewSboxPool()
	m.prefix = nil
	m.variables = nil
	m.constraints = nil
	m.Warnings = nil
}

// BuildCipherModel assembles the plain cipher model with binary bit
// domains.
func (m *CipherModel) BuildCipherModel(fixed []model.FixedVariable) error {
	m.initialise()

	if err := m.buildBase(fixed); err != nil {
		return err
	}

	m.constraints = append(m.constraints, m.finalConstraints()...)

	return nil
}

// BuildDifferentialPairModel assembles two differentially-linked copies of
// the cipher: the original plus a "second_" mirrored copy, with one
// difference constraint per plaintext bit (inputDifference) and per
// ciphertext bit (outputDifference). A solution is a concrete pair of
// executions realising the prescribed differences.
func (m *CipherModel) BuildDifferentialPairModel(fixed []model.FixedVariable, inputDifference, outputDifference []int) error {
	m.initialise()

	if err := m.buildBase(fixed); err != nil {
		return err
	}

	m.buildSecondCopy()
	m.constraints = append(m.constraints, m.linkingConstraints(inputDifference, outputDifference)...)
	m.constraints = append(m.constraints, model.NewLine().Lit(solveSatisfy).Line())
	m.constraints = append(m.constraints, m.pairOutputDirective())

	return nil
}

// buildBase walks the component graph once in the plain evaluation mode,
// filling the three buffers but leaving off the solve/output directives.
func (m *CipherModel) buildBase(fixed []model.FixedVariable) error {
	m.prefix = append(m.prefix, m.inputDeclarations()...)

	fixedConstraints, err := model.FixVariableConstraints(fixed)
	if err != nil {
		return err
	}

	m.constraints = append(m.constraints, fixedConstraints...)

	for _, component := range m.cipher.GetAllComponents() {
		if !model.Supports(model.ModeCipher, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		variables, constraints := cipherConstraints(component, m.pool)
		m.variables = append(m.variables, variables...)
		m.constraints = append(m.constraints, constraints...)
	}

	log.Debugf("assembled %d declarations and %d constraints for %s",
		len(m.prefix)+len(m.variables), len(m.constraints), m.cipher.ID)

	return nil
}

// buildSecondCopy mirrors the assembled fragment into an independent
// second execution trace.
func (m *CipherModel) buildSecondCopy() {
	ids := append(m.cipher.GetAllComponentIDs(), m.cipher.Inputs...)

	m.prefix = append(m.prefix, model.Mirror(m.inputDeclarations(), ids, model.SecondTag)...)

	var variables, constraints []model.Line

	pool := model.NewSboxPool()

	for _, component := range m.cipher.GetAllComponents() {
		if !model.Supports(model.ModeCipher, component) {
			continue
		}

		componentVariables, componentConstraints := cipherConstraints(component, pool)
		variables = append(variables, componentVariables...)
		constraints = append(constraints, componentConstraints...)
	}

	m.variables = append(m.variables, model.Mirror(variables, ids, model.SecondTag)...)
	m.constraints = append(m.constraints, model.Mirror(constraints, ids, model.SecondTag)...)
}

// linkingConstraints emits the per-bit difference equations tying the two
// copies together.
func (m *CipherModel) linkingConstraints(inputDifference, outputDifference []int) []model.Line {
	output := m.cipher.OutputComponent()

	var constraints []model.Line

	for i, d := range inputDifference {
		constraints = append(constraints, model.NewLine().
			Lit("constraint (").ID("plaintext").Litf("[%d] + ", i).
			ID(model.SecondTag+"plaintext").Litf("[%d]) mod 2 = %d;", i, d).Line())
	}

	for i, d := range outputDifference {
		constraints = append(constraints, model.NewLine().
			Lit("constraint (").ID(output.ID).Litf("[%d] + ", i).
			ID(model.SecondTag+output.ID).Litf("[%d]) mod 2 = %d;", i, d).Line())
	}

	return constraints
}

// inputDeclarations declares one binary array per cipher input and per
// non-constant component output.
func (m *CipherModel) inputDeclarations() []model.Line {
	var declarations []model.Line

	for i, input := range m.cipher.Inputs {
		declarations = append(declarations, binaryArrayDeclaration(input, m.cipher.InputsBitSize[i]))
	}

	for _, component := range m.cipher.GetAllComponents() {
		if component.Type != cipher.Constant {
			declarations = append(declarations, binaryArrayDeclaration(component.ID, component.OutputBitSize))
		}
	}

	return declarations
}

func binaryArrayDeclaration(id string, size int) model.Line {
	return model.NewDeclaration().
		Litf("array[0..%d] of var 0..1: ", size-1).ID(id).Lit(";").Line()
}

func ternaryArrayDeclaration(id string, size int) model.Line {
	return model.NewDeclaration().
		Litf("array[0..%d] of var 0..2: ", size-1).ID(id).Lit(";").Line()
}

// finalConstraints closes the model: the solve directive plus the output
// directive that prints every input and component value. The literal "0"
// line after each component value is the weight placeholder consumed by
// the decoder.
func (m *CipherModel) finalConstraints() []model.Line {
	var entries []outputEntry

	for _, input := range m.cipher.Inputs {
		entries = append(entries, outputEntry{id: input})
	}

	for _, id := range m.cipher.GetAllComponentIDs() {
		entries = append(entries, outputEntry{id: id, weight: true})
	}

	return []model.Line{
		model.NewLine().Lit(solveSatisfy).Line(),
		outputDirective(entries),
	}
}

// pairOutputDirective prints both copies' values, interleaved per
// identifier.
func (m *CipherModel) pairOutputDirective() model.Line {
	var entries []outputEntry

	for _, input := range m.cipher.Inputs {
		entries = append(entries,
			outputEntry{id: input},
			outputEntry{id: model.SecondTag + input})
	}

	for _, id := range m.cipher.GetAllComponentIDs() {
		entries = append(entries,
			outputEntry{id: id, weight: true},
			outputEntry{id: model.SecondTag + id, weight: true})
	}

	return outputDirective(entries)
}

// outputEntry is one printed identifier of the output directive; weight
// appends the "0" sentinel line after the value.
type outputEntry struct {
	id     string
	weight bool
}

func outputDirective(entries []outputEntry) model.Line {
	b := model.NewLine().Lit("output[")

	for i, entry := range entries {
		if i > 0 {
			b.Lit(" ++ ")
		}

		b.Lit("\"").ID(entry.id).Lit(" = \"++ show(").ID(entry.id).Lit(") ++ \"\\n\"")

		if entry.weight {
			b.Lit(" ++ \"0\" ++ \"\\n\"")
		}
	}

	return b.Lit("];").Line()
}

// Prefix returns the header declarations of the last build.
func (m *CipherModel) Prefix() []model.Line { return m.prefix }

// Variables returns the per-component declarations of the last build.
func (m *CipherModel) Variables() []model.Line { return m.variables }

// Constraints returns the constraint buffer of the last build.
func (m *CipherModel) Constraints() []model.Line { return m.constraints }

// ModelConstraints renders the full model: prefix, then variables, then
// constraints.
func (m *CipherModel) ModelConstraints() []string {
	lines := make([]model.Line, 0, len(m.prefix)+len(m.variables)+len(m.constraints))
	lines = append(lines, m.prefix...)
	lines = append(lines, m.variables...)
	lines = append(lines, m.constraints...)

	return model.Render(lines)
}
