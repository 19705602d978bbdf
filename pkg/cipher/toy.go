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

// NewToyCipher builds a tiny 4-bit cipher: each round xors the running
// state with the key and rotates it by one. Small enough that every model
// for it can be checked by eye.
func NewToyCipher(numberOfRounds int) *Cipher {
	c := New("toy_p4_k4_o4", []string{"plaintext", "key"}, []int{4, 4}, numberOfRounds)
	state := wire{"plaintext", rangeOf(0, 4)}

	for r := 0; r < numberOfRounds; r++ {
		mix := c.AddComponent(r, &Component{
			ID:                ComponentID("xor", r, 0),
			Type:              WordOperation,
			Operation:         OpXor,
			InputIDLinks:      []string{state.id, "key"},
			InputBitPositions: [][]int{state.positions, rangeOf(0, 4)},
			OutputBitSize:     4,
		})

		last := mix
		if r < numberOfRounds-1 {
			last = c.AddComponent(r, &Component{
				ID:                ComponentID("rot", r, 1),
				Type:              WordOperation,
				Operation:         OpRotate,
				InputIDLinks:      []string{mix.ID},
				InputBitPositions: [][]int{rangeOf(0, 4)},
				OutputBitSize:     4,
				Amount:            1,
			})
		}

		outputType := IntermediateOutput
		outputKind := "intermediate_output"

		if r == numberOfRounds-1 {
			outputType = CipherOutput
			outputKind = "cipher_output"
		}

		seq := 2
		if last == mix {
			seq = 1
		}

		c.AddComponent(r, &Component{
			ID:                ComponentID(outputKind, r, seq),
			Type:              outputType,
			InputIDLinks:      []string{last.ID},
			InputBitPositions: [][]int{rangeOf(0, 4)},
			OutputBitSize:     4,
		})

		state = wire{last.ID, rangeOf(0, 4)}
	}

	return c
}
