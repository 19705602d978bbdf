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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

func Test_TruncatedXor(t *testing.T) {
	component := &cipher.Component{
		ID:                "xor_0_0",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpXor,
		InputIDLinks:      []string{"plaintext", "key"},
		InputBitPositions: [][]int{{0, 1}, {0, 1}},
		OutputBitSize:     2,
	}

	_, constraints := truncatedConstraints(component, model.NewSboxPool())
	require.Len(t, constraints, 2)
	assert.Equal(t,
		"constraint if ((plaintext[0] < 2) /\\ (key[0]< 2)) then xor_0_0[0] = (plaintext[0] + key[0]) mod 2 else xor_0_0[0] = 2 endif;",
		constraints[0].Render())
}

func Test_TruncatedRotate(t *testing.T) {
	component := &cipher.Component{
		ID:                "rot_0_1",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpRotate,
		InputIDLinks:      []string{"xor_0_0"},
		InputBitPositions: [][]int{{0, 1, 2, 3}},
		OutputBitSize:     4,
		Amount:            1,
	}

	_, constraints := truncatedConstraints(component, model.NewSboxPool())
	require.Len(t, constraints, 4)
	// Rotation only moves differences around.
	assert.Equal(t, "constraint rot_0_1[0] = xor_0_0[3];", constraints[0].Render())
	assert.Equal(t, "constraint rot_0_1[1] = xor_0_0[0];", constraints[1].Render())
}

func Test_TruncatedConstant(t *testing.T) {
	component := &cipher.Component{
		ID:            "constant_1_0",
		Type:          cipher.Constant,
		OutputBitSize: 4,
		Bits:          []int{1, 0, 1, 1},
	}

	variables, constraints := truncatedConstraints(component, model.NewSboxPool())
	require.Len(t, variables, 1)
	assert.Empty(t, constraints)
	// A constant contributes a zero difference regardless of its value.
	assert.Equal(t, "array[0..3] of int: constant_1_0 = array1d(0..3, [0, 0, 0, 0]);",
		variables[0].Render())
	assert.True(t, variables[0].IsDeclaration())
}

func Test_TruncatedBitwise(t *testing.T) {
	component := &cipher.Component{
		ID:                "and_0_0",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpAnd,
		InputIDLinks:      []string{"plaintext", "key"},
		InputBitPositions: [][]int{{0}, {0}},
		OutputBitSize:     1,
	}

	_, constraints := truncatedConstraints(component, model.NewSboxPool())
	require.Len(t, constraints, 1)
	assert.Equal(t,
		"constraint if ((plaintext[0] = 0) /\\ (key[0] = 0)) then and_0_0[0] = 0 else and_0_0[0] = 2 endif;",
		constraints[0].Render())
}

func Test_TruncatedModel_Toy(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildTruncatedModel(nil))

	rendered := m.ModelConstraints()
	text := strings.Join(rendered, "\n")

	// Ternary domains throughout.
	assert.Contains(t, rendered, "array[0..3] of var 0..2: plaintext;")
	assert.Contains(t, rendered, "array[0..3] of var 0..2: xor_1_0;")
	assert.NotContains(t, text, "var 0..1:")
	assert.Contains(t, text, solveSatisfy)
}
