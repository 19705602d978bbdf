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

// Package smt emits deterministic truncated differential models in
// SMT-LIB 2 text. Unlike the CP backend the encoding is per bit: every
// output bit of a component becomes a pair of Bool constants, the first
// flagging an unknown difference and the second carrying the difference
// value when known.
package smt

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// TruncatedModel builds the deterministic truncated XOR differential
// trail model for a cipher.
type TruncatedModel struct {
	cipher *cipher.Cipher

	variables   []model.Line
	constraints []model.Line

	// Warnings collects the components the truncated SMT mode cannot
	// express, in graph order.
	Warnings []model.Unsupported
}

// NewTruncatedModel returns a builder for the given cipher.
func NewTruncatedModel(c *cipher.Cipher) *TruncatedModel {
	return &TruncatedModel{cipher: c}
}

// BuildTruncatedTrailModel walks the cipher and assembles declarations
// and assertions. Components outside the supported set are skipped and
// recorded in Warnings.
func (m *TruncatedModel) BuildTruncatedTrailModel(fixed []model.FixedVariable) error {
	m.variables = nil
	m.constraints = nil
	m.Warnings = nil

	fixedConstraints, err := fixVariableAssertions(fixed)
	if err != nil {
		return err
	}

	for i, input := range m.cipher.Inputs {
		m.variables = append(m.variables, pairDeclarations(input, m.cipher.InputsBitSize[i])...)
	}

	m.constraints = append(m.constraints, fixedConstraints...)

	for _, component := range m.cipher.GetAllComponents() {
		if !model.Supports(model.ModeSmtTruncated, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		variables, constraints := componentAssertions(component)
		m.variables = append(m.variables, variables...)
		m.constraints = append(m.constraints, constraints...)
	}

	log.Debugf("smt truncated model: %d declarations, %d assertions",
		len(m.variables), len(m.constraints))

	return nil
}

// Variables returns the declaration lines.
func (m *TruncatedModel) Variables() []model.Line { return m.variables }

// Constraints returns the assertion lines.
func (m *TruncatedModel) Constraints() []model.Line { return m.constraints }

// ModelConstraints returns the complete solver input: logic header,
// declarations, assertions and the check/model footer.
func (m *TruncatedModel) ModelConstraints() []string {
	out := []string{"(set-logic QF_UF)"}
	out = append(out, model.Render(m.variables)...)
	out = append(out, model.Render(m.constraints)...)
	out = append(out, "(check-sat)", "(get-model)")

	return out
}

// bitPair returns the two identifiers encoding one truncated bit.
func bitPair(id string, position int) (string, string) {
	base := fmt.Sprintf("%s_%d", id, position)
	return base + "_0", base + "_1"
}

// pairDeclarations declares the Bool pair of every bit of id.
func pairDeclarations(id string, size int) []model.Line {
	declarations := make([]model.Line, 0, 2*size)

	for i := 0; i < size; i++ {
		unknown, value := bitPair(id, i)
		declarations = append(declarations,
			model.NewDeclaration().Lit("(declare-const ").ID(unknown).Lit(" Bool)").Line(),
			model.NewDeclaration().Lit("(declare-const ").ID(value).Lit(" Bool)").Line())
	}

	return declarations
}

func componentAssertions(component *cipher.Component) ([]model.Line, []model.Line) {
	variables := pairDeclarations(component.ID, component.OutputBitSize)

	switch component.Type {
	case cipher.Constant:
		return variables, constantAssertions(component)
	case cipher.IntermediateOutput, cipher.CipherOutput:
		return variables, copyAssertions(component, identitySource(component))
	}

	switch component.Operation {
	case cipher.OpRotate:
		return variables, copyAssertions(component, rotateSource(component))
	case cipher.OpShift:
		return variables, shiftAssertions(component)
	}

	panic("unreachable")
}

// constantAssertions pin every bit pair of a constant to the known zero
// difference.
func constantAssertions(component *cipher.Component) []model.Line {
	constraints := make([]model.Line, 0, 2*component.OutputBitSize)

	for i := 0; i < component.OutputBitSize; i++ {
		unknown, value := bitPair(component.ID, i)
		constraints = append(constraints, assertNot(unknown), assertNot(value))
	}

	return constraints
}

type bitSource struct {
	id       string
	position int
}

// identitySource maps output bit i to the i-th concatenated input bit.
func identitySource(component *cipher.Component) func(int) bitSource {
	sources := inputSources(component)
	return func(i int) bitSource { return sources[i] }
}

// rotateSource maps output bit i to the input bit it was rotated from.
func rotateSource(component *cipher.Component) func(int) bitSource {
	sources := inputSources(component)
	width := len(sources)

	return func(i int) bitSource {
		return sources[((i-component.Amount)%width+width)%width]
	}
}

func inputSources(component *cipher.Component) []bitSource {
	var sources []bitSource

	for j, link := range component.InputIDLinks {
		for _, position := range component.InputBitPositions[j] {
			sources = append(sources, bitSource{id: link, position: position})
		}
	}

	return sources
}

// copyAssertions equate every output bit pair with its source bit pair.
func copyAssertions(component *cipher.Component, source func(int) bitSource) []model.Line {
	constraints := make([]model.Line, 0, 2*component.OutputBitSize)

	for i := 0; i < component.OutputBitSize; i++ {
		src := source(i)
		outUnknown, outValue := bitPair(component.ID, i)
		inUnknown, inValue := bitPair(src.id, src.position)
		constraints = append(constraints,
			assertEqual(outUnknown, inUnknown),
			assertEqual(outValue, inValue))
	}

	return constraints
}

// shiftAssertions equate in-range bits with their source and pin the
// shifted-in bits to the known zero difference.
func shiftAssertions(component *cipher.Component) []model.Line {
	sources := inputSources(component)
	width := len(sources)
	constraints := make([]model.Line, 0, 2*component.OutputBitSize)

	for i := 0; i < component.OutputBitSize; i++ {
		outUnknown, outValue := bitPair(component.ID, i)
		j := i - component.Amount

		if j < 0 || j >= width {
			constraints = append(constraints, assertNot(outUnknown), assertNot(outValue))
			continue
		}

		inUnknown, inValue := bitPair(sources[j].id, sources[j].position)
		constraints = append(constraints,
			assertEqual(outUnknown, inUnknown),
			assertEqual(outValue, inValue))
	}

	return constraints
}

// fixVariableAssertions translates fixed-variable records into SMT
// assertions over the bit pairs: equal pins each named bit, not_equal
// demands at least one named bit to differ.
func fixVariableAssertions(fixed []model.FixedVariable) ([]model.Line, error) {
	var constraints []model.Line

	for _, fv := range fixed {
		if err := fv.Validate(); err != nil {
			return nil, err
		}

		switch fv.ConstraintType {
		case model.ConstraintEqual:
			for i, position := range fv.BitPositions {
				unknown, value := bitPair(fv.ComponentID, position)
				constraints = append(constraints, assertNot(unknown))

				if fv.BinaryValue[i] == 1 {
					constraints = append(constraints,
						model.NewLine().Lit("(assert ").ID(value).Lit(")").Line())
				} else {
					constraints = append(constraints, assertNot(value))
				}
			}
		case model.ConstraintNotEqual:
			b := model.NewLine().Lit("(assert (or")

			for i, position := range fv.BitPositions {
				_, value := bitPair(fv.ComponentID, position)

				if fv.BinaryValue[i] == 1 {
					b.Lit(" (not ").ID(value).Lit(")")
				} else {
					b.Lit(" ").ID(value)
				}
			}

			constraints = append(constraints, b.Lit("))").Line())
		}
	}

	return constraints, nil
}

func assertNot(id string) model.Line {
	return model.NewLine().Lit("(assert (not ").ID(id).Lit("))").Line()
}

func assertEqual(a, b string) model.Line {
	return model.NewLine().Lit("(assert (= ").ID(a).Lit(" ").ID(b).Lit("))").Line()
}
