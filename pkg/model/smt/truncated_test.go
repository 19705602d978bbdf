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
package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

func rendered(lines []model.Line) []string {
	return model.Render(lines)
}

func Test_TruncatedModel_Toy(t *testing.T) {
	m := NewTruncatedModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildTruncatedTrailModel(nil))

	declarations := rendered(m.Variables())
	assertions := rendered(m.Constraints())

	// Every input bit becomes an unknown flag and a value Bool.
	assert.Contains(t, declarations, "(declare-const plaintext_0_0 Bool)")
	assert.Contains(t, declarations, "(declare-const plaintext_0_1 Bool)")
	assert.Contains(t, declarations, "(declare-const key_3_0 Bool)")

	// Rotation by one: output bit 0 comes from input bit 3.
	assert.Contains(t, assertions, "(assert (= rot_0_1_0_0 xor_0_0_3_0))")
	assert.Contains(t, assertions, "(assert (= rot_0_1_0_1 xor_0_0_3_1))")
	assert.Contains(t, assertions, "(assert (= rot_0_1_1_0 xor_0_0_0_0))")

	// Outputs copy their source bit for bit.
	assert.Contains(t, assertions, "(assert (= intermediate_output_0_2_0_0 rot_0_1_0_0))")
	assert.Contains(t, assertions, "(assert (= cipher_output_1_1_3_1 xor_1_0_3_1))")

	// The XOR components fall outside the supported set.
	require.Len(t, m.Warnings, 2)
	assert.Equal(t, "xor_0_0", m.Warnings[0].ComponentID)
	assert.Equal(t, "xor_1_0", m.Warnings[1].ComponentID)
	assert.NotContains(t, declarations, "(declare-const xor_0_0_0_0 Bool)")
}

func Test_TruncatedModel_FixedVariables(t *testing.T) {
	m := NewTruncatedModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildTruncatedTrailModel([]model.FixedVariable{
		{
			ComponentID:    "plaintext",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1},
			BinaryValue:    []int{1, 0},
		},
		{
			ComponentID:    "key",
			ConstraintType: model.ConstraintNotEqual,
			BitPositions:   []int{0, 1},
			BinaryValue:    []int{1, 0},
		},
	}))

	assertions := rendered(m.Constraints())

	assert.Contains(t, assertions, "(assert (not plaintext_0_0))")
	assert.Contains(t, assertions, "(assert plaintext_0_1)")
	assert.Contains(t, assertions, "(assert (not plaintext_1_0))")
	assert.Contains(t, assertions, "(assert (not plaintext_1_1))")
	assert.Contains(t, assertions, "(assert (or (not key_0_1) key_1_1))")
}

func Test_TruncatedModel_FixedVariableError(t *testing.T) {
	m := NewTruncatedModel(cipher.NewToyCipher(2))
	err := m.BuildTruncatedTrailModel([]model.FixedVariable{
		{
			ComponentID:    "plaintext",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1},
			BinaryValue:    []int{1},
		},
	})
	assert.Error(t, err)
}

func Test_TruncatedModel_ModelConstraints(t *testing.T) {
	m := NewTruncatedModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildTruncatedTrailModel(nil))

	out := m.ModelConstraints()
	require.Greater(t, len(out), 4)
	assert.Equal(t, "(set-logic QF_UF)", out[0])
	assert.Equal(t, "(check-sat)", out[len(out)-2])
	assert.Equal(t, "(get-model)", out[len(out)-1])
}

func Test_ConstantAssertions(t *testing.T) {
	constant := &cipher.Component{
		ID:            "constant_0_0",
		Type:          cipher.Constant,
		OutputBitSize: 2,
	}

	_, assertions := componentAssertions(constant)
	assert.Equal(t, []string{
		"(assert (not constant_0_0_0_0))",
		"(assert (not constant_0_0_0_1))",
		"(assert (not constant_0_0_1_0))",
		"(assert (not constant_0_0_1_1))",
	}, rendered(assertions))
}

func Test_ShiftAssertions(t *testing.T) {
	shift := &cipher.Component{
		ID:                "shift_0_0",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpShift,
		InputIDLinks:      []string{"plaintext"},
		InputBitPositions: [][]int{{0, 1, 2, 3}},
		OutputBitSize:     4,
		Amount:            2,
	}

	_, assertions := componentAssertions(shift)
	lines := rendered(assertions)

	// Shifted-in bits carry the known zero difference.
	assert.Contains(t, lines, "(assert (not shift_0_0_0_0))")
	assert.Contains(t, lines, "(assert (not shift_0_0_1_1))")

	// In-range bits copy their source pair.
	assert.Contains(t, lines, "(assert (= shift_0_0_2_0 plaintext_0_0))")
	assert.Contains(t, lines, "(assert (= shift_0_0_3_1 plaintext_1_1))")
}

func Test_BuildResetsState(t *testing.T) {
	m := NewTruncatedModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildTruncatedTrailModel(nil))
	first := len(m.Variables())

	require.NoError(t, m.BuildTruncatedTrailModel(nil))
	assert.Len(t, m.Variables(), first)
	assert.Len(t, m.Warnings, 2)
}
