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
package model

import "fmt"

// Constraint kinds for fixed variables.
const (
	ConstraintEqual    = "equal"
	ConstraintNotEqual = "not_equal"
)

// FixedVariable pins (or forbids) a concrete bit pattern on a component's
// declared array variable.
type FixedVariable struct {
	ComponentID    string
	ConstraintType string
	BitPositions   []int
	BinaryValue    []int
}

// Validate checks the record is well formed: a known constraint kind and
// one bit value per bit position.
func (fv FixedVariable) Validate() error {
	if fv.ConstraintType != ConstraintEqual && fv.ConstraintType != ConstraintNotEqual {
		return fmt.Errorf("fixed variable %s: unknown constraint type %q", fv.ComponentID, fv.ConstraintType)
	}

	if len(fv.BitPositions) != len(fv.BinaryValue) {
		return fmt.Errorf("fixed variable %s: %d bit positions but %d values",
			fv.ComponentID, len(fv.BitPositions), len(fv.BinaryValue))
	}

	for _, v := range fv.BinaryValue {
		if v != 0 && v != 1 {
			return fmt.Errorf("fixed variable %s: bit value %d out of range", fv.ComponentID, v)
		}
	}

	return nil
}

// FixVariableConstraints translates fixed-variable records into MiniZinc
// constraints: one per-bit equality for "equal" records, one disjunction
// over all listed bits for "not_equal" records.
func FixVariableConstraints(fixed []FixedVariable) ([]Line, error) {
	var constraints []Line

	for _, fv := range fixed {
		if err := fv.Validate(); err != nil {
			return nil, err
		}

		if fv.ConstraintType == ConstraintEqual {
			for i, position := range fv.BitPositions {
				constraints = append(constraints, NewLine().
					Lit("constraint ").ID(fv.ComponentID).
					Litf("[%d] = %d;", position, fv.BinaryValue[i]).Line())
			}

			continue
		}

		b := NewLine().Lit("constraint ")

		for i, position := range fv.BitPositions {
			if i > 0 {
				b.Lit(" \\/ ")
			}

			b.ID(fv.ComponentID).Litf("[%d] != %d", position, fv.BinaryValue[i])
		}

		constraints = append(constraints, b.Lit(";").Line())
	}

	return constraints, nil
}
