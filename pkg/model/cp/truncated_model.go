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
	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// BuildTruncatedModel assembles the deterministic truncated XOR
// differential trail model of the cipher alone: ternary bit domains
// where 2 marks an unknown difference, and propagation constraints that
// only resolve a bit when it is fully determined by its operands.
func (m *CipherModel) BuildTruncatedModel(fixed []model.FixedVariable) error {
	m.initialise()

	for i, input := range m.cipher.Inputs {
		m.prefix = append(m.prefix, ternaryArrayDeclaration(input, m.cipher.InputsBitSize[i]))
	}

	for _, component := range m.cipher.GetAllComponents() {
		if component.Type != cipher.Constant {
			m.prefix = append(m.prefix, ternaryArrayDeclaration(component.ID, component.OutputBitSize))
		}
	}

	fixedConstraints, err := model.FixVariableConstraints(fixed)
	if err != nil {
		return err
	}

	m.constraints = append(m.constraints, fixedConstraints...)

	for _, component := range m.cipher.GetAllComponents() {
		if !model.Supports(model.ModeTruncated, component) {
			m.Warnings = append(m.Warnings, model.SkipUnsupported(component))
			continue
		}

		variables, constraints := truncatedConstraints(component, m.pool)
		m.variables = append(m.variables, variables...)
		m.constraints = append(m.constraints, constraints...)
	}

	m.constraints = append(m.constraints, m.finalConstraints()...)

	return nil
}
