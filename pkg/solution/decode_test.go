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
package solution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

func Test_ParseSolverInfo(t *testing.T) {
	solveTime, memory := ParseSolverInfo([]string{
		"%%%mzn-stat: nodes=17",
		"%%%mzn-stat: solveTime=0.339",
		"%%%mzn-stat: peakMem=64.5",
		"not a stat line",
	})

	assert.Equal(t, 0.339, solveTime)
	assert.Equal(t, 64.5, memory)
}

func Test_ParseSolverInfo_Missing(t *testing.T) {
	solveTime, memory := ParseSolverInfo([]string{"==========", "garbage"})
	assert.Zero(t, solveTime)
	assert.Zero(t, memory)
}

func Test_Decode_TwoSolutions(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	lines := []string{
		"%%%mzn-stat: solveTime=0.25",
		"%%%mzn-stat: peakMem=64",
		"plaintext = [0, 0, 0, 1]",
		"0",
		"key = [0, 0, 0, 0]",
		"0",
		"xor_0_0 = [0, 0, 0, 1]",
		"3.0",
		"inverse_xor_1_0 = [0, 0, 0, 1]",
		"0",
		"cipher_output_1_1 = [0, 0, 1, 0]",
		"0",
		Separator,
		"plaintext = [1, 0, 0, 1]",
		"0",
		"==========",
	}

	result := Decode(lines, c, inverse, 1, "deterministic_truncated_xor_differential")

	assert.Equal(t, 0.25, result.SolveTime)
	assert.Equal(t, 64.0, result.Memory)
	require.Contains(t, result.Solutions, "solution1")
	require.Contains(t, result.Solutions, "solution2")

	first := result.Solutions["solution1"]
	assert.Equal(t, "0001", first["plaintext"].Value)
	assert.Equal(t, "0000", first["key"].Value)
	assert.Equal(t, "0001", first["xor_0_0"].Value)
	assert.Equal(t, 3.0, first["xor_0_0"].Weight)
	assert.Equal(t, "0001", first["inverse_xor_1_0"].Value)

	// The inverse cipher's ciphertext input is bucketed under its
	// inverse_ name.
	assert.Equal(t, "0010", first["inverse_cipher_output_1_1"].Value)

	second := result.Solutions["solution2"]
	assert.Equal(t, "1001", second["plaintext"].Value)
	assert.NotContains(t, second, "key")
}

func Test_Decode_MaskSuffixes(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	lines := []string{
		"xor_0_0_i = [0, 1, 0, 0]",
		"0",
		"xor_0_0_o = [0, 0, 1, 0]",
		"0",
	}

	result := Decode(lines, c, inverse, 1, "xor_linear")
	first := result.Solutions["solution1"]

	assert.Equal(t, "0100", first["xor_0_0_i"].Value)
	assert.Equal(t, "0010", first["xor_0_0_o"].Value)
}

func Test_Decode_ImpossibleCollapsesToWitness(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	lines := []string{
		"plaintext = [1, 0, 0, 0]",
		"0",
		"key = [0, 0, 0, 0]",
		"0",
		"xor_0_0 = [1, 0, 0, 0]",
		"0",
		"inverse_rot_0_1 = [0, 0, 0, 0]",
		"0",
		"cipher_output_1_1 = [0, 0, 0, 1]",
		"0",
		Separator,
		"plaintext = [0, 1, 0, 0]",
		"0",
		Separator,
	}

	result := Decode(lines, c, inverse, 1, "impossible_xor_differential_one_solution")

	// Two raw blocks collapse into the single incompatibility report.
	require.Len(t, result.Solutions, 1)
	witness := result.Solutions["solution1"]

	assert.Equal(t, "1000", witness["plaintext"].Value)
	assert.Equal(t, "1000", witness["xor_0_0"].Value)
	assert.Equal(t, "0000", witness["inverse_rot_0_1"].Value)
	assert.Equal(t, "0001", witness["inverse_cipher_output_1_1"].Value)
	assert.NotContains(t, witness, "key")
}

func Test_Decode_SingleSolutionImpossibleKeptRaw(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	lines := []string{
		"plaintext = [1, 0, 0, 0]",
		"0",
		"=====UNSATISFIABLE=====",
	}

	result := Decode(lines, c, inverse, 1, "impossible_xor_differential")
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, "1000", result.Solutions["solution1"]["plaintext"].Value)
}

func Test_FormatValue(t *testing.T) {
	assert.Equal(t, "0110", formatValue("xor_0_0 = [0, 1, 1, 0]"))
	assert.Equal(t, "2", formatValue("xor_0_0 = 2"))
	assert.Equal(t, "", formatValue("no assignment here"))
}
