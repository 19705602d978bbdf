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
package sat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

func containsClause(t *testing.T, clauses []Clause, want string) {
	t.Helper()

	for _, clause := range clauses {
		if clause.String() == want {
			return
		}
	}

	t.Errorf("clause %q not found", want)
}

func Test_XorClauses(t *testing.T) {
	clauses := xorClauses("o", "a", "b")
	require.Len(t, clauses, 4)
	assert.Equal(t, "o -a b", clauses[0].String())
	assert.Equal(t, "o a -b", clauses[1].String())
	assert.Equal(t, "-o -a -b", clauses[2].String())
	assert.Equal(t, "-o a b", clauses[3].String())
}

func Test_XorSeqClauses_Binary(t *testing.T) {
	inter, clauses := xorSeqClauses("o", []string{"a", "b"})
	assert.Empty(t, inter)
	assert.Len(t, clauses, 4)
}

func Test_XorSeqClauses_Chain(t *testing.T) {
	inter, clauses := xorSeqClauses("o", []string{"a", "b", "c"})
	require.Equal(t, []string{"inter_0_o"}, inter)
	require.Len(t, clauses, 8)

	containsClause(t, clauses, "inter_0_o -a b")
	containsClause(t, clauses, "-o -inter_0_o -c")
}

func Test_ConstantClauses(t *testing.T) {
	constant := &cipher.Component{
		ID:            "constant_0_0",
		Type:          cipher.Constant,
		OutputBitSize: 2,
		Bits:          []int{1, 0},
	}

	_, clauses := componentClauses(constant)
	require.Len(t, clauses, 2)
	assert.Equal(t, "constant_0_0_0", clauses[0].String())
	assert.Equal(t, "-constant_0_0_1", clauses[1].String())
}

func Test_ShiftClauses(t *testing.T) {
	shift := &cipher.Component{
		ID:                "shift_0_0",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpShift,
		InputIDLinks:      []string{"plaintext"},
		InputBitPositions: [][]int{{0, 1, 2, 3}},
		OutputBitSize:     4,
		Amount:            1,
	}

	_, clauses := componentClauses(shift)
	containsClause(t, clauses, "-shift_0_0_0")
	containsClause(t, clauses, "shift_0_0_1 -plaintext_0")
	containsClause(t, clauses, "-shift_0_0_3 plaintext_2")
}

func Test_CipherModel_Toy(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildCipherModel(nil))
	assert.Empty(t, m.Warnings)

	// Inputs come first in the variable order.
	require.GreaterOrEqual(t, len(m.Variables()), 8)
	assert.Equal(t, "plaintext_0", m.Variables()[0])
	assert.Equal(t, "key_0", m.Variables()[4])

	containsClause(t, m.Clauses(), "xor_0_0_0 -plaintext_0 key_0")
	containsClause(t, m.Clauses(), "rot_0_1_0 -xor_0_0_3")
	containsClause(t, m.Clauses(), "cipher_output_1_1_0 -xor_1_0_0")
}

func Test_CipherModel_FixedVariables(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildCipherModel([]model.FixedVariable{
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

	assert.Equal(t, "plaintext_0", m.Clauses()[0].String())
	assert.Equal(t, "-plaintext_1", m.Clauses()[1].String())
	assert.Equal(t, "-key_0 key_1", m.Clauses()[2].String())
}

func Test_Dimacs(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildCipherModel(nil))

	out := m.Dimacs()
	assert.Equal(t, "c 1 plaintext_0", out[0])

	var header string
	comments := 0

	for _, line := range out {
		if strings.HasPrefix(line, "c ") {
			comments++
			continue
		}

		header = line
		break
	}

	require.NotEmpty(t, header)
	var variables, clauses int
	_, err := fmt.Sscanf(header, "p cnf %d %d", &variables, &clauses)
	require.NoError(t, err)
	assert.Equal(t, comments, variables)
	assert.Equal(t, len(m.Clauses()), clauses)
	assert.Len(t, out, comments+1+clauses)
}

func Test_Solve_Toy(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildCipherModel([]model.FixedVariable{
		{
			ComponentID:    "plaintext",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1, 2, 3},
			BinaryValue:    []int{1, 0, 1, 0},
		},
		{
			ComponentID:    "key",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1, 2, 3},
			BinaryValue:    []int{0, 1, 1, 0},
		},
	}))

	lines, ok, err := m.Solve()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Contains(t, lines, "plaintext = [1, 0, 1, 0]")
	assert.Contains(t, lines, "key = [0, 1, 1, 0]")
	assert.Contains(t, lines, "xor_0_0 = [1, 1, 0, 0]")
	assert.Contains(t, lines, "rot_0_1 = [0, 1, 1, 0]")
	assert.Contains(t, lines, "intermediate_output_0_2 = [0, 1, 1, 0]")
	assert.Contains(t, lines, "xor_1_0 = [0, 0, 0, 0]")
	assert.Contains(t, lines, "cipher_output_1_1 = [0, 0, 0, 0]")

	// Inputs first, then component identifiers in sorted order.
	assert.Equal(t, "plaintext = [1, 0, 1, 0]", lines[0])
	assert.Equal(t, "key = [0, 1, 1, 0]", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "cipher_output_1_1 = "))
}

func Test_Solve_Unsatisfiable(t *testing.T) {
	m := NewCipherModel(cipher.NewToyCipher(2))
	require.NoError(t, m.BuildCipherModel([]model.FixedVariable{
		{
			ComponentID:    "plaintext",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1, 2, 3},
			BinaryValue:    []int{1, 0, 1, 0},
		},
		{
			ComponentID:    "key",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0, 1, 2, 3},
			BinaryValue:    []int{0, 1, 1, 0},
		},
		{
			ComponentID:    "cipher_output_1_1",
			ConstraintType: model.ConstraintEqual,
			BitPositions:   []int{0},
			BinaryValue:    []int{1},
		},
	}))

	_, ok, err := m.Solve()
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_CipherModel_SkipsUnsupported(t *testing.T) {
	c := cipher.New("toy_p4_k4_o4", []string{"plaintext", "key"}, []int{4, 4}, 1)
	c.AddComponent(0, &cipher.Component{
		ID:                "modadd_0_0",
		Type:              cipher.WordOperation,
		Operation:         cipher.OpModAdd,
		InputIDLinks:      []string{"plaintext", "key"},
		InputBitPositions: [][]int{{0, 1, 2, 3}, {0, 1, 2, 3}},
		OutputBitSize:     4,
	})

	m := NewCipherModel(c)
	require.NoError(t, m.BuildCipherModel(nil))
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, "modadd_0_0", m.Warnings[0].ComponentID)
}
