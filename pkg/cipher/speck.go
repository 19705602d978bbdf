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

// NewSpeck builds a Speck-like ARX block cipher graph: per round a rotate,
// a modular addition, a key mix and a second rotate/xor on the other
// branch, with a word-based key schedule of rotations and round-constant
// xors. The graph is the standard exercise target for every model builder
// in this repository.
func NewSpeck(blockBitSize, keyBitSize, numberOfRounds int) *Cipher {
	word := blockBitSize / 2
	id := fmt.Sprintf("speck_p%d_k%d_o%d_r%d", blockBitSize, keyBitSize, blockBitSize, numberOfRounds)
	c := New(id, []string{"plaintext", "key"}, []int{blockBitSize, keyBitSize}, numberOfRounds)

	// Entering wires: left and right branch, initially the two plaintext
	// halves.
	left := wire{"plaintext", rangeOf(0, word)}
	right := wire{"plaintext", rangeOf(word, blockBitSize)}
	// Round 0 mixes the low key words directly.
	roundKey := wire{"key", rangeOf(keyBitSize-word, keyBitSize)}

	for r := 0; r < numberOfRounds; r++ {
		seq := 0
		if r > 0 {
			roundKey, seq = speckKeySchedule(c, r, word, keyBitSize)
		}

		rotA := c.AddComponent(r, &Component{
			ID:                ComponentID("rot", r, seq),
			Type:              WordOperation,
			Operation:         OpRotate,
			InputIDLinks:      []string{left.id},
			InputBitPositions: [][]int{left.positions},
			OutputBitSize:     word,
			Amount:            7,
		})
		modAdd := c.AddComponent(r, &Component{
			ID:                ComponentID("modadd", r, seq+1),
			Type:              WordOperation,
			Operation:         OpModAdd,
			InputIDLinks:      []string{rotA.ID, right.id},
			InputBitPositions: [][]int{rangeOf(0, word), right.positions},
			OutputBitSize:     word,
		})
		keyMix := c.AddComponent(r, &Component{
			ID:                ComponentID("xor", r, seq+2),
			Type:              WordOperation,
			Operation:         OpXor,
			InputIDLinks:      []string{modAdd.ID, roundKey.id},
			InputBitPositions: [][]int{rangeOf(0, word), roundKey.positions},
			OutputBitSize:     word,
		})
		rotB := c.AddComponent(r, &Component{
			ID:                ComponentID("rot", r, seq+3),
			Type:              WordOperation,
			Operation:         OpRotate,
			InputIDLinks:      []string{right.id},
			InputBitPositions: [][]int{right.positions},
			OutputBitSize:     word,
			Amount:            -2,
		})
		branchMix := c.AddComponent(r, &Component{
			ID:                ComponentID("xor", r, seq+4),
			Type:              WordOperation,
			Operation:         OpXor,
			InputIDLinks:      []string{rotB.ID, keyMix.ID},
			InputBitPositions: [][]int{rangeOf(0, word), rangeOf(0, word)},
			OutputBitSize:     word,
		})

		outputType := IntermediateOutput
		outputKind := "intermediate_output"

		if r == numberOfRounds-1 {
			outputType = CipherOutput
			outputKind = "cipher_output"
		}

		c.AddComponent(r, &Component{
			ID:                ComponentID(outputKind, r, seq+5),
			Type:              outputType,
			InputIDLinks:      []string{keyMix.ID, branchMix.ID},
			InputBitPositions: [][]int{rangeOf(0, word), rangeOf(0, word)},
			OutputBitSize:     blockBitSize,
		})

		left = wire{keyMix.ID, rangeOf(0, word)}
		right = wire{branchMix.ID, rangeOf(0, word)}
	}

	return c
}

// speckKeySchedule emits the round-key components for round r and returns
// the round-key wire along with the next free sequence index. Every
// component here depends only on the key input and constants, keeping the
// schedule classifiable as such.
func speckKeySchedule(c *Cipher, r, word, keyBitSize int) (wire, int) {
	words := keyBitSize / word
	slice := rangeOf((r%words)*word, (r%words)*word+word)

	constant := c.AddComponent(r, &Component{
		ID:            ComponentID("constant", r, 0),
		Type:          Constant,
		OutputBitSize: word,
		Bits:          intToBits(r-1, word),
	})
	rotK := c.AddComponent(r, &Component{
		ID:                ComponentID("rot", r, 1),
		Type:              WordOperation,
		Operation:         OpRotate,
		InputIDLinks:      []string{"key"},
		InputBitPositions: [][]int{slice},
		OutputBitSize:     word,
		Amount:            3,
	})
	mixK := c.AddComponent(r, &Component{
		ID:                ComponentID("xor", r, 2),
		Type:              WordOperation,
		Operation:         OpXor,
		InputIDLinks:      []string{rotK.ID, constant.ID},
		InputBitPositions: [][]int{rangeOf(0, word), rangeOf(0, word)},
		OutputBitSize:     word,
	})

	return wire{mixK.ID, rangeOf(0, word)}, 3
}

type wire struct {
	id        string
	positions []int
}

func rangeOf(from, to int) []int {
	r := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		r = append(r, i)
	}

	return r
}

func intToBits(v, width int) []int {
	bits := make([]int, width)
	for i := width - 1; i >= 0; i-- {
		bits[i] = v & 1
		v >>= 1
	}

	return bits
}
