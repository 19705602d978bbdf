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

// Inverse derives the inverse cipher graph: rounds in reverse order, each
// invertible data-path component replaced by its inverse, the key schedule
// carried over unchanged. Component identifiers are deliberately preserved
// so that the inverse of "xor_1_2" is again called "xor_1_2": the two
// graphs coexist in one solver model only after the model layer prefixes
// the inverse copy with "inverse_".
//
// The data path is inverted edge by edge. For a component computing
// out = f(data, aux...) the inverse computes data = f⁻¹(out, aux...),
// where out is the wire of the forward consumer (or the inverse cipher's
// ciphertext input for the last component) and aux operands keep their
// original identifiers, which resolve against the co-named inverse
// components.
func (c *Cipher) Inverse() *Cipher {
	output := c.OutputComponent()
	_, keyIDs := c.KeySchedule()
	keySet := map[string]bool{}

	for _, id := range keyIDs {
		keySet[id] = true
	}

	numberOfRounds := c.NumberOfRounds()
	inverse := New(c.ID+"_inverse",
		[]string{output.ID, "key"},
		[]int{output.OutputBitSize, c.InputBitSize("key")},
		numberOfRounds)

	consumers := c.dataConsumers(keySet)

	sequence := 0
	for forward := numberOfRounds - 1; forward >= 0; forward-- {
		r := numberOfRounds - 1 - forward
		round := c.GetComponentsInRound(forward)

		// Key schedule and constants survive as-is.
		for _, component := range round {
			if component.Type == Constant || keySet[component.ID] {
				inverse.AddComponent(r, component)
			}
		}

		for i := len(round) - 1; i >= 0; i-- {
			component := round[i]
			if component.Type == Constant || keySet[component.ID] || component.Type == CipherOutput {
				continue
			}

			if component.Type == IntermediateOutput {
				inverse.AddComponent(r, component)
				continue
			}

			inverse.AddComponent(r, c.invertComponent(component, consumers, output))
			sequence++
		}
	}

	// Recovered plaintext becomes the inverse cipher's output.
	inverse.AddComponent(numberOfRounds-1, c.recoveredPlaintext(keySet, sequence))

	return inverse
}

// dataConsumers maps each component identifier to the component consuming
// its output on the data path, skipping output taps.
func (c *Cipher) dataConsumers(keySet map[string]bool) map[string]*Component {
	consumers := map[string]*Component{}

	for _, component := range c.GetAllComponents() {
		if component.Type == IntermediateOutput || keySet[component.ID] {
			continue
		}

		for _, link := range component.InputIDLinks {
			if _, taken := consumers[link]; !taken {
				consumers[link] = component
			}
		}
	}

	return consumers
}

func (c *Cipher) invertComponent(component *Component, consumers map[string]*Component, output *Component) *Component {
	size := component.OutputBitSize
	// The wire being undone: the forward consumer's output, or the
	// ciphertext input when this component fed the cipher output.
	wire := output.ID

	if consumer := consumers[component.ID]; consumer != nil && consumer.Type != CipherOutput {
		wire = consumer.ID
	}

	links := []string{wire}
	positions := [][]int{fullRange(size)}

	// Auxiliary operands (keys, constants, sibling wires) keep their
	// names; the co-named inverse components provide them.
	for j := 1; j < len(component.InputIDLinks); j++ {
		links = append(links, component.InputIDLinks[j])
		positions = append(positions, component.InputBitPositions[j])
	}

	inverted := &Component{
		ID:                component.ID,
		Type:              component.Type,
		Operation:         component.Operation,
		InputIDLinks:      links,
		InputBitPositions: positions,
		OutputBitSize:     size,
		Amount:            component.Amount,
		Bits:              component.Bits,
		Table:             component.Table,
		Matrix:            component.Matrix,
	}

	switch component.Operation {
	case OpModAdd:
		inverted.Operation = OpModSub
	case OpModSub:
		inverted.Operation = OpModAdd
	case OpRotate, OpShift:
		inverted.Amount = -component.Amount
	}

	if component.Type == Sbox {
		inverted.Table = invertTable(component.Table)
	}

	return inverted
}

// recoveredPlaintext builds the inverse cipher's final output component:
// the concatenation, in plaintext bit order, of the inverse wires of every
// forward consumer of the plaintext input.
func (c *Cipher) recoveredPlaintext(keySet map[string]bool, sequence int) *Component {
	var links []string

	var positions [][]int

	size := c.InputBitSize("plaintext")

	for _, component := range c.GetAllComponents() {
		if component.IsOutput() || keySet[component.ID] {
			continue
		}

		for j, link := range component.InputIDLinks {
			if link == "plaintext" {
				links = append(links, component.ID)
				positions = append(positions, fullRange(len(component.InputBitPositions[j])))
			}
		}
	}

	return &Component{
		ID:                ComponentID("cipher_output", c.NumberOfRounds()-1, sequence),
		Type:              CipherOutput,
		InputIDLinks:      links,
		InputBitPositions: positions,
		OutputBitSize:     size,
	}
}

func invertTable(table []int) []int {
	inverted := make([]int, len(table))
	for i, v := range table {
		inverted[v] = i
	}

	return inverted
}

func fullRange(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}

	return r
}
