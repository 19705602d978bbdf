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

// KeySchedule returns the components reachable from the "key" input
// through constants and other key-schedule components only, together with
// their identifiers (the identifier list is seeded with "key" itself).
//
// Classification is a fixed point: a component may depend on key-schedule
// components that appear later in the walk, so the scan repeats until no
// new component is classified. In practice a single pass suffices because
// components are stored in round order.
func (c *Cipher) KeySchedule() ([]*Component, []string) {
	ids := map[string]bool{"key": true}
	classified := map[string]bool{}

	var components []*Component

	var idList = []string{"key"}

	for changed := true; changed; {
		changed = false

		for _, component := range c.GetAllComponents() {
			if classified[component.ID] {
				continue
			}

			ks := true

			for _, link := range component.InputIDLinks {
				if !isConstantID(link) && !ids[link] {
					ks = false
				}
			}

			if ks {
				ids[component.ID] = true
				classified[component.ID] = true
				components = append(components, component)
				idList = append(idList, component.ID)
				changed = true
			}
		}
	}

	return components, idList
}

func isConstantID(id string) bool {
	return len(id) >= 8 && id[:8] == "constant"
}
