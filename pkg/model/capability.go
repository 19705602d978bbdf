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

import (
	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

// Mode selects the analysis being modelled.
type Mode int

const (
	// ModeCipher models concrete cipher evaluation.
	ModeCipher Mode = iota
	// ModeTruncated models deterministic truncated XOR differential
	// propagation (ternary bit domain).
	ModeTruncated
	// ModeSmtTruncated is the truncated model in the SMT paradigm, which
	// covers a narrower component set.
	ModeSmtTruncated
	// ModeSat models concrete cipher evaluation as CNF clauses.
	ModeSat
)

type capabilityKey struct {
	componentType cipher.ComponentType
	operation     cipher.Operation
}

// capabilities is the supported-component table per mode. The tables are
// data, not code: builders share one Supports check instead of duplicating
// inline type lists.
var capabilities = map[Mode]map[capabilityKey]bool{
	ModeCipher: buildCapability(
		[]cipher.ComponentType{cipher.CipherOutput, cipher.Constant, cipher.IntermediateOutput,
			cipher.LinearLayer, cipher.MixColumn, cipher.Sbox},
		[]cipher.Operation{cipher.OpAnd, cipher.OpModAdd, cipher.OpModSub, cipher.OpNot, cipher.OpOr,
			cipher.OpRotate, cipher.OpShift, cipher.OpShiftByVariableAmount, cipher.OpXor},
	),
	ModeTruncated: buildCapability(
		[]cipher.ComponentType{cipher.CipherOutput, cipher.Constant, cipher.IntermediateOutput,
			cipher.LinearLayer, cipher.MixColumn, cipher.Sbox},
		[]cipher.Operation{cipher.OpAnd, cipher.OpOr, cipher.OpModAdd, cipher.OpModSub, cipher.OpNot,
			cipher.OpRotate, cipher.OpShift, cipher.OpXor},
	),
	ModeSmtTruncated: buildCapability(
		[]cipher.ComponentType{cipher.Constant, cipher.IntermediateOutput, cipher.CipherOutput},
		[]cipher.Operation{cipher.OpRotate, cipher.OpShift},
	),
	ModeSat: buildCapability(
		[]cipher.ComponentType{cipher.CipherOutput, cipher.Constant, cipher.IntermediateOutput},
		[]cipher.Operation{cipher.OpAnd, cipher.OpNot, cipher.OpOr, cipher.OpRotate,
			cipher.OpShift, cipher.OpXor},
	),
}

func buildCapability(types []cipher.ComponentType, operations []cipher.Operation) map[capabilityKey]bool {
	table := map[capabilityKey]bool{}
	for _, t := range types {
		table[capabilityKey{t, cipher.OpNone}] = true
	}

	for _, op := range operations {
		table[capabilityKey{cipher.WordOperation, op}] = true
	}

	return table
}

// Supports reports whether the component can be modelled in the given
// mode.
func Supports(mode Mode, component *cipher.Component) bool {
	key := capabilityKey{component.Type, cipher.OpNone}
	if component.Type == cipher.WordOperation {
		key.operation = component.Operation
	}

	return capabilities[mode][key]
}

// Unsupported records a component skipped by a build. Partially-modelled
// ciphers are legal; the caller decides whether the coverage is enough.
type Unsupported struct {
	ComponentID string
	Type        cipher.ComponentType
	Operation   cipher.Operation
}

// SkipUnsupported logs the skip and returns the warning record.
func SkipUnsupported(component *cipher.Component) Unsupported {
	log.Warnf("%s not yet implemented", component.ID)

	return Unsupported{
		ComponentID: component.ID,
		Type:        component.Type,
		Operation:   component.Operation,
	}
}
