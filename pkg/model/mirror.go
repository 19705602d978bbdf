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
package model

import "strings"

// Mirror prefix tags. SecondTag marks the independent second execution
// trace of the same cipher (differential pair search); InverseTag marks
// the inverse cipher's trace (meet-in-the-middle impossible-differential
// search). The two must never be mixed within one fragment copy.
const (
	SecondTag  = "second_"
	InverseTag = "inverse_"
)

// Mirror returns a copy of the fragment in which every identifier from ids
// is prefixed with tag, producing an independent second copy of the
// constraint fragment that cannot collide with the original. Identifiers
// already carrying the tag are left alone, so mirroring the same fragment
// twice with the same tag is harmless.
func Mirror(lines []Line, ids []string, tag string) []Line {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	mirrored := make([]Line, len(lines))
	for i, line := range lines {
		mirrored[i] = line.mapIdentifiers(func(id string) string {
			if set[id] && !strings.HasPrefix(id, tag) {
				return tag + id
			}

			return id
		})
	}

	return mirrored
}

// PrefixFamily prefixes every identifier containing family as a substring,
// regardless of whether it was already rewritten. The inverse model uses
// it to catch "cipher_output"-family identifiers that enter the backward
// fragment as input links rather than as components of the backward walk.
//
// Because the pass is substring-based it can double-apply the tag to an
// identifier mirrored beforehand; callers must follow up with
// CollapseDoublePrefix.
func PrefixFamily(lines []Line, family, tag string) []Line {
	prefixed := make([]Line, len(lines))
	for i, line := range lines {
		prefixed[i] = line.mapIdentifiers(func(id string) string {
			if strings.Contains(id, family) {
				return tag + id
			}

			return id
		})
	}

	return prefixed
}

// CollapseDoublePrefix rewrites any identifier starting with tag+tag back
// to a single application of tag. A doubled tag can only arise from the
// substring-based PrefixFamily pass; any residue after this cleanup is an
// implementation defect.
func CollapseDoublePrefix(lines []Line, tag string) []Line {
	double := tag + tag

	collapsed := make([]Line, len(lines))
	for i, line := range lines {
		collapsed[i] = line.mapIdentifiers(func(id string) string {
			for strings.HasPrefix(id, double) {
				id = id[len(tag):]
			}

			return id
		})
	}

	return collapsed
}
