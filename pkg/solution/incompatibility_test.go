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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

func value(bits string) ComponentValue {
	return ComponentValue{Value: bits}
}

func Test_ExtractIncompatibilities_DirectDisagreement(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	values := Solution{
		"plaintext":                 value("1000"),
		"key":                       value("0000"),
		"xor_0_0":                   value("1000"),
		"inverse_rot_0_1":           value("0000"),
		"inverse_cipher_output_1_1": value("0001"),
	}

	got := ExtractIncompatibilities(values, c, inverse, 0, 2)
	want := map[string]Solution{
		"solution1": {
			"plaintext":                 value("1000"),
			"xor_0_0":                   value("1000"),
			"inverse_rot_0_1":           value("0000"),
			"inverse_cipher_output_1_1": value("0001"),
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("witness mismatch (-want +got):\n%s", diff)
	}
}

func Test_ExtractIncompatibilities_Agreement(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	values := Solution{
		"plaintext":       value("1000"),
		"xor_0_0":         value("1000"),
		"inverse_rot_0_1": value("1000"),
	}

	got := ExtractIncompatibilities(values, c, inverse, 0, 2)
	require.Contains(t, got, "solution1")

	// Only the seed survives: no component contradicts its backward
	// counterpart and the ciphertext wire was not decoded.
	assert.Equal(t, Solution{"plaintext": value("1000")}, got["solution1"])
}

func Test_ExtractIncompatibilities_CrossMatch(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	// xor_1_0 consumes rot_0_1 and key, so its reconstructed forward
	// value is eight bits against a four-bit backward value. The inverse
	// graph's rot_0_1 consumes xor_1_0 through a four-bit slice, which
	// aligns the comparison.
	values := Solution{
		"plaintext":       value("0000"),
		"rot_0_1":         value("1111"),
		"key":             value("0000"),
		"inverse_xor_1_0": value("0000"),
	}

	got := ExtractIncompatibilities(values, c, inverse, 0, 2)
	witness := got["solution1"]

	assert.Equal(t, value("1111"), witness["rot_0_1"])
	assert.Equal(t, value("0000"), witness["key"])
	assert.Equal(t, value("0000"), witness["inverse_xor_1_0"])
	assert.Contains(t, witness, "plaintext")
	assert.NotContains(t, witness, "inverse_cipher_output_1_1")
}

func Test_ExtractIncompatibilities_InnerWindow(t *testing.T) {
	c := cipher.NewToyCipher(2)
	inverse := c.Inverse()

	values := Solution{
		"plaintext":                       value("1000"),
		"intermediate_output_0_2":         value("0100"),
		"inverse_intermediate_output_0_2": value("0010"),
	}

	got := ExtractIncompatibilities(values, c, inverse, 2, 1)
	witness := got["solution1"]

	// A window strictly inside the cipher seeds from the preceding
	// round's outputs and closes on the boundary round's outputs.
	assert.NotContains(t, witness, "plaintext")
	assert.Equal(t, value("0100"), witness["intermediate_output_0_2"])
	assert.Equal(t, value("0010"), witness["inverse_intermediate_output_0_2"])
}

func Test_Disagrees(t *testing.T) {
	assert.True(t, disagrees("1000", "0000"))
	assert.False(t, disagrees("1000", "1000"))

	// A known bit against an unknown marker is not a contradiction.
	assert.False(t, disagrees("2000", "0000"))
	assert.False(t, disagrees("1000", "2000"))
}
