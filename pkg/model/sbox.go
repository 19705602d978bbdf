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

import "fmt"

// SboxPool carries S-box modelling state across the components of a single
// build, so that two components sharing a lookup table share one table
// declaration. The pool belongs to exactly one build: builders create a
// fresh pool at the start of every top-level build call and thread it
// explicitly through each S-box emission. It must not be shared across
// concurrent builds.
type SboxPool struct {
	entries []sboxEntry
}

type sboxEntry struct {
	fingerprint string
	ref         string
}

// NewSboxPool returns an empty pool.
func NewSboxPool() *SboxPool {
	return &SboxPool{}
}

// Lookup returns the reference identifier under which an identical table
// was already declared, if any.
func (p *SboxPool) Lookup(table []int) (string, bool) {
	fingerprint := fingerprintTable(table)
	for _, entry := range p.entries {
		if entry.fingerprint == fingerprint {
			return entry.ref, true
		}
	}

	return "", false
}

// Add records that the table was declared under the given reference
// identifier and returns that reference.
func (p *SboxPool) Add(table []int, ref string) string {
	p.entries = append(p.entries, sboxEntry{fingerprintTable(table), ref})
	return ref
}

func fingerprintTable(table []int) string {
	return fmt.Sprint(table)
}
