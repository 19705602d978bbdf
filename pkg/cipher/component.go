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
package cipher

import "fmt"

// ComponentType classifies a node of the component graph. The taxonomy is
// fixed: every model builder dispatches on it.
type ComponentType string

const (
	Constant           ComponentType = "constant"
	LinearLayer        ComponentType = "linear_layer"
	MixColumn          ComponentType = "mix_column"
	Sbox               ComponentType = "sbox"
	WordOperation      ComponentType = "word_operation"
	CipherOutput       ComponentType = "cipher_output"
	IntermediateOutput ComponentType = "intermediate_output"
)

// Operation tags a word_operation component.
type Operation string

const (
	OpNone                  Operation = ""
	OpAnd                   Operation = "AND"
	OpModAdd                Operation = "MODADD"
	OpModSub                Operation = "MODSUB"
	OpNot                   Operation = "NOT"
	OpOr                    Operation = "OR"
	OpRotate                Operation = "ROTATE"
	OpShift                 Operation = "SHIFT"
	OpShiftByVariableAmount Operation = "SHIFT_BY_VARIABLE_AMOUNT"
	OpXor                   Operation = "XOR"
)

// Component is one primitive operation node. Its identifier encodes the
// round number and the sequence index within that round (e.g. "xor_0_2")
// and is globally unique across the cipher.
type Component struct {
	ID        string
	Type      ComponentType
	Operation Operation
	// InputIDLinks name the components (or cipher inputs) feeding this
	// component; InputBitPositions[i] lists which bits of link i are
	// consumed, in order.
	InputIDLinks      []string
	InputBitPositions [][]int
	OutputBitSize     int

	// Operation metadata. Amount is the rotation/shift distance (positive
	// means towards the least significant bit). Bits holds a constant's
	// value. Table is an S-box lookup table. Matrix is a bit-level matrix
	// for linear layers and mix columns.
	Amount int
	Bits   []int
	Table  []int
	Matrix [][]int
}

// ComponentID builds the canonical identifier for a component.
func ComponentID(kind string, round, index int) string {
	return fmt.Sprintf("%s_%d_%d", kind, round, index)
}

// InputBitSize returns the total number of input bits consumed.
func (c *Component) InputBitSize() int {
	n := 0
	for _, positions := range c.InputBitPositions {
		n += len(positions)
	}

	return n
}

// IsOutput reports whether this component is an output tap (intermediate
// or final).
func (c *Component) IsOutput() bool {
	return c.Type == CipherOutput || c.Type == IntermediateOutput
}
