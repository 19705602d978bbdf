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
	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

// ExtractIncompatibilities reduces a raw impossible-differential
// solution to the incompatibility witness: the components whose forward
// value, reconstructed from the inputs they consume, disagrees in some
// bit with the value the backward trace assigned to the same wire.
// initialRound 0 seeds the report from the plaintext; a later
// initialRound seeds it from the output components of the preceding
// round. finalRound equal to the cipher's round count always includes
// the cipher output's backward counterpart.
func ExtractIncompatibilities(values Solution, c, inverse *cipher.Cipher, initialRound, finalRound int) map[string]Solution {
	incompatibilities := Solution{}

	if initialRound == 0 {
		if v, ok := values["plaintext"]; ok {
			incompatibilities["plaintext"] = v
		}
	} else {
		for _, component := range c.GetComponentsInRound(initialRound - 2) {
			if component.IsOutput() {
				if v, ok := values[component.ID]; ok {
					incompatibilities[component.ID] = v
				}
			}
		}
	}

	for _, component := range c.GetAllComponents() {
		backward, ok := values["inverse_"+component.ID]
		if !ok {
			continue
		}

		known := true

		for _, link := range component.InputIDLinks {
			if _, ok := values[link]; !ok {
				known = false
			}
		}

		if !known {
			continue
		}

		forward := reconstructForward(component, values)

		if len(forward) == len(backward.Value) {
			if disagrees(forward, backward.Value) {
				markWitness(incompatibilities, values, component)
			}

			continue
		}

		// The backward copy declared this wire at a different width:
		// align against the inverse graph's own consumer of the wire
		// and compare only the matching slice.
		crossMatch(incompatibilities, values, inverse, component, backward)
	}

	if finalRound == c.NumberOfRounds() {
		ids := c.GetAllComponentIDs()
		last := ids[len(ids)-1]

		if v, ok := values["inverse_"+last]; ok {
			incompatibilities["inverse_"+last] = v
		}
	} else {
		for _, component := range c.GetComponentsInRound(finalRound - 1) {
			if component.IsOutput() {
				if v, ok := values["inverse_"+component.ID]; ok {
					incompatibilities["inverse_"+component.ID] = v
				}
			}
		}
	}

	return map[string]Solution{"solution1": incompatibilities}
}

// reconstructForward concatenates, in input order, the bit ranges the
// component consumes from its inputs' decoded values.
func reconstructForward(component *cipher.Component, values Solution) string {
	var forward []byte

	for j, link := range component.InputIDLinks {
		value := values[link].Value

		for _, position := range component.InputBitPositions[j] {
			if position < len(value) {
				forward = append(forward, value[position])
			}
		}
	}

	return string(forward)
}

// disagrees reports whether any aligned bit pair sums to 1 mod 2.
func disagrees(forward, backward string) bool {
	mismatch := bitset.New(uint(len(forward)))

	for i := 0; i < len(forward) && i < len(backward); i++ {
		f, b := forward[i], backward[i]
		if (f == '0' && b == '1') || (f == '1' && b == '0') {
			mismatch.Set(uint(i))
		}
	}

	if mismatch.Any() {
		log.Debugf("%d contradicting bit positions", mismatch.Count())
		return true
	}

	return false
}

func markWitness(incompatibilities, values Solution, component *cipher.Component) {
	for _, link := range component.InputIDLinks {
		incompatibilities[link] = values[link]
	}

	incompatibilities["inverse_"+component.ID] = values["inverse_"+component.ID]
}

// crossMatch handles the width-mismatch case: find the inverse-cipher
// component that consumes this component's wire through an input slice
// of the backward value's width, then compare that slice directly.
func crossMatch(incompatibilities, values Solution, inverse *cipher.Cipher, component *cipher.Component, backward ComponentValue) {
	width := len(backward.Value)

	for j, link := range component.InputIDLinks {
		matched := false

		for _, inverseComponent := range inverse.GetAllComponents() {
			if inverseComponent.ID != link {
				continue
			}

			consumes := false

			for _, inverseLink := range inverseComponent.InputIDLinks {
				if inverseLink == component.ID {
					consumes = true
				}
			}

			if consumes && len(component.InputBitPositions[j]) == width {
				if disagrees(values[link].Value, backward.Value) {
					matched = true
				}
			}
		}

		if matched {
			for _, witness := range component.InputIDLinks {
				incompatibilities[witness] = values[witness]
			}

			incompatibilities["inverse_"+component.ID] = values["inverse_"+component.ID]
		}
	}
}
