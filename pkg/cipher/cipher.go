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

// Cipher is a round-based description of a symmetric primitive as an
// ordered sequence of components. The graph is read-only once built; model
// builders only ever walk it.
type Cipher struct {
	ID            string
	Inputs        []string
	InputsBitSize []int
	rounds        [][]*Component
}

// New constructs an empty cipher with the given global inputs and round
// count.
func New(id string, inputs []string, inputsBitSize []int, numberOfRounds int) *Cipher {
	return &Cipher{
		ID:            id,
		Inputs:        inputs,
		InputsBitSize: inputsBitSize,
		rounds:        make([][]*Component, numberOfRounds),
	}
}

// AddComponent appends a component to the given round (0-based).
func (c *Cipher) AddComponent(round int, component *Component) *Component {
	c.rounds[round] = append(c.rounds[round], component)
	return component
}

// NumberOfRounds returns the round count.
func (c *Cipher) NumberOfRounds() int {
	return len(c.rounds)
}

// GetComponentsInRound returns the components of round r (0-based) in
// insertion order.
func (c *Cipher) GetComponentsInRound(r int) []*Component {
	return c.rounds[r]
}

// GetAllComponents returns every component, round by round.
func (c *Cipher) GetAllComponents() []*Component {
	var all []*Component
	for _, round := range c.rounds {
		all = append(all, round...)
	}

	return all
}

// GetAllComponentIDs returns every component identifier in declaration
// order.
func (c *Cipher) GetAllComponentIDs() []string {
	var ids []string
	for _, round := range c.rounds {
		for _, component := range round {
			ids = append(ids, component.ID)
		}
	}

	return ids
}

// GetComponent looks a component up by identifier.
func (c *Cipher) GetComponent(id string) *Component {
	for _, round := range c.rounds {
		for _, component := range round {
			if component.ID == id {
				return component
			}
		}
	}

	return nil
}

// InputBitSize returns the declared width of a cipher input, or zero if
// the name is not an input.
func (c *Cipher) InputBitSize(name string) int {
	for i, input := range c.Inputs {
		if input == name {
			return c.InputsBitSize[i]
		}
	}

	return 0
}

// IsInput reports whether name is one of the cipher's global inputs.
func (c *Cipher) IsInput(name string) bool {
	return c.InputBitSize(name) > 0
}

// OutputComponent returns the final cipher_output component, or nil for a
// malformed graph.
func (c *Cipher) OutputComponent() *Component {
	for r := len(c.rounds) - 1; r >= 0; r-- {
		for i := len(c.rounds[r]) - 1; i >= 0; i-- {
			if c.rounds[r][i].Type == CipherOutput {
				return c.rounds[r][i]
			}
		}
	}

	return nil
}
