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

// Package cp builds MiniZinc models: the plain cipher model, the
// second-copy differential pair model, the deterministic truncated model
// and the impossible-differential trail and attack models, together with
// the round-window pruner.
package cp

import (
	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// bitRef is one input bit of a component: a bit position within a named
// array variable.
type bitRef struct {
	id       string
	position int
}

// operandRefs concatenates the component's input bits in link order. For
// an n-ary word operation of output width w the resulting list has n*w
// entries and operand j of output bit i sits at index i + j*w.
func operandRefs(component *cipher.Component) []bitRef {
	var refs []bitRef

	for i, link := range component.InputIDLinks {
		for _, position := range component.InputBitPositions[i] {
			refs = append(refs, bitRef{link, position})
		}
	}

	return refs
}

// operandsAt returns the operand bits feeding output bit i.
func operandsAt(refs []bitRef, i, width int) []bitRef {
	var out []bitRef
	for j := i; j < len(refs); j += width {
		out = append(out, refs[j])
	}

	return out
}

func appendRef(b *model.Builder, ref bitRef) *model.Builder {
	return b.ID(ref.id).Litf("[%d]", ref.position)
}

// appendWeighted appends the big-endian weighted integer sum of the given
// bits, e.g. "(8 * x[0] + 4 * x[1] + 2 * x[2] + 1 * x[3])".
func appendWeighted(b *model.Builder, refs []bitRef) *model.Builder {
	b.Lit("(")

	weight := 1 << (len(refs) - 1)
	for i, ref := range refs {
		if i > 0 {
			b.Lit(" + ")
		}

		b.Litf("%d * ", weight)
		appendRef(b, ref)
		weight >>= 1
	}

	return b.Lit(")")
}

// appendWeightedOutput is appendWeighted for the component's own output
// array.
func appendWeightedOutput(b *model.Builder, id string, width int) *model.Builder {
	refs := make([]bitRef, width)
	for i := range refs {
		refs[i] = bitRef{id, i}
	}

	return appendWeighted(b, refs)
}

// cipherConstraints emits the plain-model declarations and constraints of
// one component. The caller has already checked the capability table.
func cipherConstraints(component *cipher.Component, pool *model.SboxPool) ([]model.Line, []model.Line) {
	switch component.Type {
	case cipher.Constant:
		return []model.Line{constantDeclaration(component, component.Bits)}, nil
	case cipher.Sbox:
		return sboxConstraints(component, pool)
	case cipher.LinearLayer, cipher.MixColumn:
		return nil, linearConstraints(component)
	case cipher.CipherOutput, cipher.IntermediateOutput:
		return nil, outputConstraints(component)
	}

	switch component.Operation {
	case cipher.OpXor:
		return nil, xorConstraints(component)
	case cipher.OpAnd:
		return nil, andConstraints(component)
	case cipher.OpOr:
		return nil, orConstraints(component)
	case cipher.OpNot:
		return nil, notConstraints(component)
	case cipher.OpRotate:
		return nil, rotateConstraints(component)
	case cipher.OpShift:
		return nil, shiftConstraints(component)
	case cipher.OpShiftByVariableAmount:
		return nil, variableShiftConstraints(component)
	case cipher.OpModAdd, cipher.OpModSub:
		return nil, modArithConstraints(component)
	}

	return nil, nil
}

func xorConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = (", i)

		for j, ref := range operandsAt(refs, i, width) {
			if j > 0 {
				b.Lit(" + ")
			}

			appendRef(b, ref)
		}

		constraints = append(constraints, b.Lit(") mod 2;").Line())
	}

	return constraints
}

func andConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = (", i)

		for j, ref := range operandsAt(refs, i, width) {
			if j > 0 {
				b.Lit(" * ")
			}

			appendRef(b, ref)
		}

		constraints = append(constraints, b.Lit(");").Line())
	}

	return constraints
}

func orConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = max([", i)

		for j, ref := range operandsAt(refs, i, width) {
			if j > 0 {
				b.Lit(", ")
			}

			appendRef(b, ref)
		}

		constraints = append(constraints, b.Lit("]);").Line())
	}

	return constraints
}

func notConstraints(component *cipher.Component) []model.Line {
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < component.OutputBitSize; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = (", i)
		appendRef(b, refs[i])
		constraints = append(constraints, b.Lit(" + 1) mod 2;").Line())
	}

	return constraints
}

func rotateConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		source := ((i-component.Amount)%width + width) % width
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = ", i)
		appendRef(b, refs[source])
		constraints = append(constraints, b.Lit(";").Line())
	}

	return constraints
}

func shiftConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		source := i - component.Amount
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = ", i)

		if source < 0 || source >= width {
			constraints = append(constraints, b.Lit("0;").Line())
			continue
		}

		appendRef(b, refs[source])
		constraints = append(constraints, b.Lit(";").Line())
	}

	return constraints
}

// variableShiftConstraints models a right shift whose distance is itself a
// wire, as integer division by the corresponding power of two.
func variableShiftConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)
	data := refs[:width]
	amount := refs[width:]

	b := model.NewLine().Lit("constraint ")
	appendWeightedOutput(b, component.ID, width).Lit(" = ")
	appendWeighted(b, data).Lit(" div pow(2, ")
	appendWeighted(b, amount)
	b.Lit(");")

	return []model.Line{b.Line()}
}

func modArithConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)
	operator := " + "

	if component.Operation == cipher.OpModSub {
		operator = " - "
	}

	b := model.NewLine().Lit("constraint (")

	for j := 0; j*width < len(refs); j++ {
		if j > 0 {
			b.Lit(operator)
		}

		appendWeighted(b, refs[j*width:(j+1)*width])
	}

	if component.Operation == cipher.OpModSub {
		b.Litf(" + %d", 1<<width)
	}

	b.Litf(") mod %d = ", 1<<width)
	appendWeightedOutput(b, component.ID, width)

	return []model.Line{b.Lit(";").Line()}
}

func linearConstraints(component *cipher.Component) []model.Line {
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < component.OutputBitSize; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = (", i)
		terms := 0

		for j, ref := range refs {
			if component.Matrix[i][j] == 0 {
				continue
			}

			if terms > 0 {
				b.Lit(" + ")
			}

			appendRef(b, ref)
			terms++
		}

		if terms == 0 {
			b.Lit("0")
		}

		constraints = append(constraints, b.Lit(") mod 2;").Line())
	}

	return constraints
}

func outputConstraints(component *cipher.Component) []model.Line {
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < component.OutputBitSize; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = ", i)
		appendRef(b, refs[i])
		constraints = append(constraints, b.Lit(";").Line())
	}

	return constraints
}

func constantDeclaration(component *cipher.Component, bits []int) model.Line {
	width := component.OutputBitSize
	b := model.NewDeclaration().Litf("array[0..%d] of int: ", width-1).ID(component.ID).
		Litf(" = array1d(0..%d, [", width-1)

	for i, bit := range bits {
		if i > 0 {
			b.Lit(", ")
		}

		b.Litf("%d", bit)
	}

	return b.Lit("]);").Line()
}

func sboxConstraints(component *cipher.Component, pool *model.SboxPool) ([]model.Line, []model.Line) {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var variables []model.Line

	ref, found := pool.Lookup(component.Table)
	if !found {
		ref = pool.Add(component.Table, component.ID)
		b := model.NewDeclaration().Litf("array[0..%d] of int: sbox_table_", len(component.Table)-1).
			ID(ref).Litf(" = array1d(0..%d, [", len(component.Table)-1)

		for i, v := range component.Table {
			if i > 0 {
				b.Lit(", ")
			}

			b.Litf("%d", v)
		}

		variables = append(variables, b.Lit("]);").Line())
	}

	b := model.NewLine().Lit("constraint ")
	appendWeightedOutput(b, component.ID, width).Lit(" = sbox_table_").ID(ref).Lit("[")
	appendWeighted(b, refs)
	b.Lit("];")

	return variables, []model.Line{b.Line()}
}
