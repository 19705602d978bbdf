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
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// ErrBadWindow reports a round window that does not describe a
// non-decreasing sub-range of the cipher's rounds.
var ErrBadWindow = errors.New("invalid round window")

// ValidateWindow checks that 1 <= initial <= middle <= final <= rounds.
func ValidateWindow(initialRound, middleRound, finalRound, numberOfRounds int) error {
	if initialRound < 1 || initialRound > middleRound ||
		middleRound > finalRound || finalRound > numberOfRounds {
		return fmt.Errorf("%w: (%d, %d, %d) of %d rounds",
			ErrBadWindow, initialRound, middleRound, finalRound, numberOfRounds)
	}

	return nil
}

// CleanConstraints prunes a trail model down to the attacked round
// window. Declarations always survive; every other line survives only if
// it mentions, as a whole identifier, a component of the kept forward
// span, the kept backward span under its inverse_ name, the key schedule
// under either name, or a window boundary: the cipher inputs when the
// window opens at round one, the inverse-prefixed inverse-cipher inputs
// when it closes at the last round, and the adjacent rounds' output
// components otherwise. On the full window the input is returned
// unchanged. Duplicates are dropped, first occurrence wins.
func (m *ImpossibleModel) CleanConstraints(lines []model.Line, initialRound, middleRound, finalRound int) ([]model.Line, error) {
	numberOfRounds := m.cipher.NumberOfRounds()
	if err := ValidateWindow(initialRound, middleRound, finalRound, numberOfRounds); err != nil {
		return nil, err
	}

	if initialRound == 1 && finalRound == numberOfRounds {
		return lines, nil
	}

	keep := map[string]bool{}

	for r := initialRound - 1; r < middleRound; r++ {
		for _, component := range m.cipher.GetComponentsInRound(r) {
			keep[component.ID] = true
		}
	}

	for r := numberOfRounds - finalRound; r < numberOfRounds-middleRound+1; r++ {
		for _, component := range m.inverse.GetComponentsInRound(r) {
			keep[model.InverseTag+component.ID] = true
		}
	}

	_, keyScheduleIDs := m.cipher.KeySchedule()

	for _, id := range keyScheduleIDs {
		keep[id] = true
		keep[model.InverseTag+id] = true
	}

	if initialRound == 1 {
		for _, input := range m.cipher.Inputs {
			keep[input] = true
		}
	}

	if finalRound == numberOfRounds {
		for _, input := range m.inverse.Inputs {
			keep[model.InverseTag+input] = true
		}
	}

	if initialRound > 1 {
		for _, component := range m.cipher.GetComponentsInRound(initialRound - 2) {
			if component.IsOutput() {
				keep[component.ID] = true
			}
		}
	}

	if finalRound != numberOfRounds {
		for _, component := range m.inverse.GetComponentsInRound(numberOfRounds - finalRound) {
			if component.IsOutput() {
				keep[model.InverseTag+component.ID] = true
			}
		}
	}

	kept := bitset.New(uint(len(lines)))

	for i, line := range lines {
		if line.IsDeclaration() || line.ReferencesAny(keep) {
			kept.Set(uint(i))
		}
	}

	seen := map[string]bool{}
	pruned := make([]model.Line, 0, kept.Count())

	for i, line := range lines {
		if !kept.Test(uint(i)) {
			continue
		}

		rendered := line.Render()
		if seen[rendered] {
			continue
		}

		seen[rendered] = true
		pruned = append(pruned, line)
	}

	return pruned, nil
}

// ExtractKeySchedule returns the key schedule components of the cipher
// and their identifiers, seeded with the key input itself.
func (m *ImpossibleModel) ExtractKeySchedule() ([]*cipher.Component, []string) {
	return m.cipher.KeySchedule()
}
