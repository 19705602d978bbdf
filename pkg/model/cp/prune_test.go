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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

func constraintOn(ids ...string) model.Line {
	b := model.NewLine().Lit("constraint ")

	for i, id := range ids {
		if i > 0 {
			b.Lit(" + ")
		}

		b.ID(id).Lit("[0]")
	}

	return b.Lit(" = 0;").Line()
}

func Test_ValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(1, 2, 3, 3))
	assert.NoError(t, ValidateWindow(2, 2, 2, 3))

	for _, window := range [][3]int{{0, 2, 3}, {2, 1, 3}, {1, 3, 2}, {1, 2, 4}} {
		err := ValidateWindow(window[0], window[1], window[2], 3)
		assert.ErrorIs(t, err, ErrBadWindow)
	}
}

func Test_CleanConstraints_FullWindowIsIdentity(t *testing.T) {
	m := NewImpossibleModel(cipher.NewSpeck(32, 64, 3))
	lines := []model.Line{
		constraintOn("rot_0_0"),
		constraintOn("xor_1_7"),
	}

	pruned, err := m.CleanConstraints(lines, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, lines, pruned)
}

func Test_CleanConstraints_Window(t *testing.T) {
	m := NewImpossibleModel(cipher.NewSpeck(32, 64, 3))

	backwardID := model.InverseTag + m.InverseCipher().GetComponentsInRound(0)[0].ID
	declaration := model.NewDeclaration().
		Lit("array[0..15] of var 0..2: ").ID("rot_0_0").Lit(";").Line()

	lines := []model.Line{
		declaration,
		constraintOn("rot_0_0"),                 // forward round 1 only, outside window
		constraintOn("xor_1_7"),                 // forward round 2, kept
		constraintOn("intermediate_output_0_5"), // boundary output of round 1
		constraintOn(backwardID),
		constraintOn("key"),                        // key schedule
		constraintOn(model.InverseTag + "rot_2_1"), // mirrored key schedule
		constraintOn("xor_1_7"),                    // duplicate, dropped
	}

	pruned, err := m.CleanConstraints(lines, 2, 2, 3)
	require.NoError(t, err)

	rendered := make([]string, len(pruned))
	for i, line := range pruned {
		rendered[i] = line.Render()
	}

	assert.Equal(t, []string{
		declaration.Render(),
		constraintOn("xor_1_7").Render(),
		constraintOn("intermediate_output_0_5").Render(),
		constraintOn(backwardID).Render(),
		constraintOn("key").Render(),
		constraintOn(model.InverseTag + "rot_2_1").Render(),
	}, rendered)
}

func Test_CleanConstraints_KeepsBoundaryInputs(t *testing.T) {
	m := NewImpossibleModel(cipher.NewToyCipher(3))

	lines := []model.Line{
		constraintOn("plaintext"), // cipher input, window opens at round one
		constraintOn("xor_1_0"),   // forward round 2, outside window
	}

	pruned, err := m.CleanConstraints(lines, 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, pruned, 1)
	assert.Equal(t, constraintOn("plaintext").Render(), pruned[0].Render())
}

func Test_CleanConstraints_KeepsInverseInputs(t *testing.T) {
	m := NewImpossibleModel(cipher.NewSpeck(32, 64, 3))
	ciphertext := model.InverseTag + m.InverseCipher().Inputs[0]

	lines := []model.Line{
		constraintOn(ciphertext),
		constraintOn("rot_0_0"),
	}

	pruned, err := m.CleanConstraints(lines, 2, 2, 3)
	require.NoError(t, err)
	require.Len(t, pruned, 1)
	assert.Equal(t, constraintOn(ciphertext).Render(), pruned[0].Render())
}

func Test_CleanConstraints_Idempotent(t *testing.T) {
	m := NewImpossibleModel(cipher.NewSpeck(32, 64, 3))

	lines := []model.Line{
		constraintOn("rot_0_0"),
		constraintOn("xor_1_7"),
		constraintOn("key"),
	}

	once, err := m.CleanConstraints(lines, 2, 2, 3)
	require.NoError(t, err)

	twice, err := m.CleanConstraints(once, 2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func Test_CleanConstraints_BadWindow(t *testing.T) {
	m := NewImpossibleModel(cipher.NewToyCipher(2))

	_, err := m.CleanConstraints(nil, 2, 1, 2)
	assert.ErrorIs(t, err, ErrBadWindow)
}

func Test_ExtractKeySchedule_Speck(t *testing.T) {
	m := NewImpossibleModel(cipher.NewSpeck(32, 64, 3))

	components, ids := m.ExtractKeySchedule()
	assert.Len(t, components, len(ids)-1)
	assert.Contains(t, ids, "key")
	assert.Contains(t, ids, "xor_1_2")
	assert.Contains(t, ids, "xor_2_2")
	assert.NotContains(t, ids, "modadd_0_1")
}
