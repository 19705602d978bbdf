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
package sat

import (
	"fmt"
	"strings"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

// A Clause is a disjunction of named literals. A literal is an
// identifier of the form id_bit, negated with a leading minus sign.
type Clause []string

func (c Clause) String() string {
	return strings.Join(c, " ")
}

func neg(literal string) string {
	return "-" + literal
}

func bitID(id string, position int) string {
	return fmt.Sprintf("%s_%d", id, position)
}

// inputBitIDs returns the named literals of the component's
// concatenated input bits.
func inputBitIDs(component *cipher.Component) []string {
	var ids []string

	for j, link := range component.InputIDLinks {
		for _, position := range component.InputBitPositions[j] {
			ids = append(ids, bitID(link, position))
		}
	}

	return ids
}

// outputBitIDs returns the named literals of the component's output
// bits.
func outputBitIDs(component *cipher.Component) []string {
	ids := make([]string, component.OutputBitSize)
	for i := range ids {
		ids[i] = bitID(component.ID, i)
	}

	return ids
}

// xorClauses encode out = a xor b.
func xorClauses(out, a, b string) []Clause {
	return []Clause{
		{out, neg(a), b},
		{out, a, neg(b)},
		{neg(out), neg(a), neg(b)},
		{neg(out), a, b},
	}
}

// xorSeqClauses encode an n-ary XOR as a chain of binary XORs through
// intermediate variables named inter_j_<output bit>.
func xorSeqClauses(outputBit string, inputs []string) ([]string, []Clause) {
	if len(inputs) == 2 {
		return nil, xorClauses(outputBit, inputs[0], inputs[1])
	}

	results := make([]string, len(inputs)-1)
	for j := 0; j < len(inputs)-2; j++ {
		results[j] = fmt.Sprintf("inter_%d_%s", j, outputBit)
	}

	results[len(results)-1] = outputBit

	clauses := xorClauses(results[0], inputs[0], inputs[1])
	for j := 1; j < len(results); j++ {
		clauses = append(clauses, xorClauses(results[j], results[j-1], inputs[j+1])...)
	}

	return results[:len(results)-1], clauses
}

// andClauses encode out = a and b.
func andClauses(out, a, b string) []Clause {
	return []Clause{
		{neg(out), a},
		{neg(out), b},
		{out, neg(a), neg(b)},
	}
}

// orClauses encode out = a or b.
func orClauses(out, a, b string) []Clause {
	return []Clause{
		{out, neg(a)},
		{out, neg(b)},
		{neg(out), a, b},
	}
}

// notClauses encode out = not a.
func notClauses(out, a string) []Clause {
	return []Clause{
		{out, a},
		{neg(out), neg(a)},
	}
}

// equivalentClauses encode out = a.
func equivalentClauses(out, a string) []Clause {
	return []Clause{
		{out, neg(a)},
		{neg(out), a},
	}
}
