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
	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// truncatedConstraints emits deterministic truncated XOR differential
// constraints for one component. Bits live in 0..2, where 2 marks an
// unknown difference; each rule forces the output to 2 unless the inputs
// determine it.
func truncatedConstraints(component *cipher.Component, pool *model.SboxPool) ([]model.Line, []model.Line) {
	switch component.Type {
	case cipher.Constant:
		// A constant contributes a zero difference.
		return []model.Line{constantDeclaration(component, make([]int, component.OutputBitSize))}, nil
	case cipher.Sbox:
		return truncatedSboxConstraints(component, pool)
	case cipher.LinearLayer, cipher.MixColumn:
		return nil, truncatedLinearConstraints(component)
	case cipher.CipherOutput, cipher.IntermediateOutput:
		return nil, outputConstraints(component)
	}

	switch component.Operation {
	case cipher.OpXor:
		return nil, truncatedXorConstraints(component)
	case cipher.OpAnd, cipher.OpOr:
		return nil, truncatedBitwiseConstraints(component)
	case cipher.OpNot:
		return nil, truncatedNotConstraints(component)
	case cipher.OpRotate:
		return nil, rotateConstraints(component)
	case cipher.OpShift:
		return nil, shiftConstraints(component)
	case cipher.OpModAdd, cipher.OpModSub:
		return nil, truncatedModArithConstraints(component)
	}

	return nil, nil
}

func truncatedXorConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		operands := operandsAt(refs, i, width)
		b := model.NewLine().Lit("constraint if ((")

		for j, ref := range operands {
			if j > 0 {
				b.Lit(" < 2) /\\ (")
			}

			appendRef(b, ref)
		}

		b.Lit("< 2)) then ").ID(component.ID).Litf("[%d] = (", i)

		for j, ref := range operands {
			if j > 0 {
				b.Lit(" + ")
			}

			appendRef(b, ref)
		}

		b.Lit(") mod 2 else ").ID(component.ID).Litf("[%d] = 2 endif;", i)
		constraints = append(constraints, b.Line())
	}

	return constraints
}

// truncatedBitwiseConstraints covers AND and OR: their differential is
// deterministic only when every input difference is zero.
func truncatedBitwiseConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		b := model.NewLine().Lit("constraint if ((")

		for j, ref := range operandsAt(refs, i, width) {
			if j > 0 {
				b.Lit(" = 0) /\\ (")
			}

			appendRef(b, ref)
		}

		b.Lit(" = 0)) then ").ID(component.ID).Litf("[%d] = 0 else ", i).
			ID(component.ID).Litf("[%d] = 2 endif;", i)
		constraints = append(constraints, b.Line())
	}

	return constraints
}

// truncatedNotConstraints: complement preserves the difference.
func truncatedNotConstraints(component *cipher.Component) []model.Line {
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < component.OutputBitSize; i++ {
		b := model.NewLine().Lit("constraint ").ID(component.ID).Litf("[%d] = ", i)
		appendRef(b, refs[i])
		constraints = append(constraints, b.Lit(";").Line())
	}

	return constraints
}

// truncatedModArithConstraints: output bit i is deterministic only when
// its own input bits are known and every lower-significance input bit
// carries a zero difference, so that no unknown carry can reach it.
func truncatedModArithConstraints(component *cipher.Component) []model.Line {
	width := component.OutputBitSize
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < width; i++ {
		operands := operandsAt(refs, i, width)
		b := model.NewLine().Lit("constraint if ((")

		for j, ref := range operands {
			if j > 0 {
				b.Lit(" < 2) /\\ (")
			}

			appendRef(b, ref)
		}

		b.Lit(" < 2)")

		for lower := i + 1; lower < width; lower++ {
			for _, ref := range operandsAt(refs, lower, width) {
				b.Lit(" /\\ (")
				appendRef(b, ref)
				b.Lit(" = 0)")
			}
		}

		b.Lit(") then ").ID(component.ID).Litf("[%d] = (", i)

		for j, ref := range operands {
			if j > 0 {
				b.Lit(" + ")
			}

			appendRef(b, ref)
		}

		b.Lit(") mod 2 else ").ID(component.ID).Litf("[%d] = 2 endif;", i)
		constraints = append(constraints, b.Line())
	}

	return constraints
}

func truncatedLinearConstraints(component *cipher.Component) []model.Line {
	refs := operandRefs(component)

	var constraints []model.Line

	for i := 0; i < component.OutputBitSize; i++ {
		var row []bitRef

		for j, ref := range refs {
			if component.Matrix[i][j] != 0 {
				row = append(row, ref)
			}
		}

		b := model.NewLine().Lit("constraint ")

		if len(row) == 0 {
			b.ID(component.ID).Litf("[%d] = 0;", i)
			constraints = append(constraints, b.Line())

			continue
		}

		b.Lit("if ((")

		for j, ref := range row {
			if j > 0 {
				b.Lit(" < 2) /\\ (")
			}

			appendRef(b, ref)
		}

		b.Lit("< 2)) then ").ID(component.ID).Litf("[%d] = (", i)

		for j, ref := range row {
			if j > 0 {
				b.Lit(" + ")
			}

			appendRef(b, ref)
		}

		b.Lit(") mod 2 else ").ID(component.ID).Litf("[%d] = 2 endif;", i)
		constraints = append(constraints, b.Line())
	}

	return constraints
}

// truncatedSboxConstraints uses a per-table truncated difference table:
// row δ holds the output difference when it propagates deterministically
// through the S-box, or all 2s when it does not. Rows are only consulted
// for fully-known input differences.
func truncatedSboxConstraints(component *cipher.Component, pool *model.SboxPool) ([]model.Line, []model.Line) {
	width := component.OutputBitSize
	refs := operandRefs(component)
	rows := len(component.Table)

	var variables []model.Line

	ref, found := pool.Lookup(component.Table)
	if !found {
		ref = pool.Add(component.Table, component.ID)
		table := truncatedDifferenceTable(component.Table, width)
		b := model.NewDeclaration().Litf("array[0..%d, 1..%d] of int: sbox_truncated_table_", rows-1, width).
			ID(ref).Litf(" = array2d(0..%d, 1..%d, [", rows-1, width)

		for i, row := range table {
			for j, v := range row {
				if i > 0 || j > 0 {
					b.Lit(", ")
				}

				b.Litf("%d", v)
			}
		}

		variables = append(variables, b.Lit("]);").Line())
	}

	var constraints []model.Line

	for i := 0; i < width; i++ {
		b := model.NewLine().Lit("constraint if ((")

		for j, ref := range refs {
			if j > 0 {
				b.Lit(" < 2) /\\ (")
			}

			appendRef(b, ref)
		}

		b.Lit(" < 2)) then ").ID(component.ID).Litf("[%d] = sbox_truncated_table_", i).ID(ref).Lit("[")
		appendWeighted(b, refs)
		b.Litf(", %d] else ", i+1).ID(component.ID).Litf("[%d] = 2 endif;", i)
		constraints = append(constraints, b.Line())
	}

	return variables, constraints
}

// truncatedDifferenceTable computes, for every input difference, either
// the unique output difference (when exactly one entry of the DDT row is
// populated) or all 2s.
func truncatedDifferenceTable(table []int, width int) [][]int {
	rows := len(table)
	out := make([][]int, rows)

	for delta := 0; delta < rows; delta++ {
		gamma := -1
		deterministic := true

		for x := 0; x < rows; x++ {
			d := table[x] ^ table[x^delta]
			if gamma == -1 {
				gamma = d
			} else if d != gamma {
				deterministic = false
				break
			}
		}

		row := make([]int, width)

		for i := 0; i < width; i++ {
			if deterministic {
				row[i] = (gamma >> (width - 1 - i)) & 1
			} else {
				row[i] = 2
			}
		}

		out[delta] = row
	}

	return out
}
