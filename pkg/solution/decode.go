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

// Package solution decodes raw solver output text into structured
// per-component results. The decoder understands the MiniZinc-style
// contract shared by every backend: printed variables appear as
// "<identifier> = <value>" lines, solutions are separated by a line of
// ten dashes, and a weight line follows each printed component value.
package solution

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
)

// Separator is the line a solver prints between solutions.
const Separator = "----------"

// ComponentValue is one decoded variable: its bit string and the weight
// the solver reported for it.
type ComponentValue struct {
	Value  string
	Weight float64
}

// Solution maps identifiers (possibly inverse_-prefixed or suffixed with
// a mask direction) to their decoded values.
type Solution map[string]ComponentValue

// Result is the decoded solver run.
type Result struct {
	SolveTime float64
	Memory    float64
	Solutions map[string]Solution
}

// ParseSolverInfo extracts solving time (seconds) and memory (MB) from
// the statistics lines of the solver output. Missing statistics decode
// as zero.
func ParseSolverInfo(lines []string) (solveTime, memory float64) {
	for _, line := range lines {
		if value, ok := statValue(line, "solveTime"); ok {
			solveTime = value
		}

		if value, ok := statValue(line, "peakMem"); ok {
			memory = value
		}
	}

	return solveTime, memory
}

func statValue(line, key string) (float64, bool) {
	marker := "%%%mzn-stat: " + key + "="
	if !strings.HasPrefix(line, marker) {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, marker)), 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// Decode scans the solver output for every identifier the model is
// expected to print: the cipher inputs, the forward components up to
// middleRound, the backward components under their inverse_ names and
// the inverse cipher's inputs. modelKind selects post-processing: when
// it names an impossible-differential search and more than one solution
// block was found, the result is replaced by the incompatibility report
// derived from the first block alone.
func Decode(lines []string, c, inverse *cipher.Cipher, middleRound int, modelKind string) Result {
	solveTime, memory := ParseSolverInfo(lines)
	result := Result{
		SolveTime: solveTime,
		Memory:    memory,
		Solutions: map[string]Solution{},
	}

	expected := append([]string{}, c.Inputs...)
	for r := 0; r < middleRound; r++ {
		for _, component := range c.GetComponentsInRound(r) {
			expected = append(expected, component.ID)
		}
	}

	for r := 0; r < c.NumberOfRounds()-middleRound+1; r++ {
		for _, component := range inverse.GetComponentsInRound(r) {
			expected = append(expected, "inverse_"+component.ID)
		}
	}

	expected = append(expected, inverse.Inputs...)

	solutionCount := 1

	for _, id := range expected {
		solutionNumber := 1

		for j, line := range lines {
			switch {
			case strings.Contains(line, id+" ") || strings.Contains(line, id+"_i") ||
				strings.Contains(line, id+"_o") || strings.Contains(line, "inverse_"+id):
				value := formatValue(line)
				cv := ComponentValue{Value: value, Weight: weightAfter(lines, j)}
				assign(result.Solutions, c, inverse, id, line, solutionNumber, cv)
			case strings.Contains(line, Separator):
				solutionNumber++
			}
		}

		if solutionNumber > solutionCount {
			solutionCount = solutionNumber
		}
	}

	log.Debugf("decoded %d solution blocks", len(result.Solutions))

	if strings.Contains(modelKind, "impossible") && solutionCount > 1 {
		first, ok := result.Solutions["solution1"]
		if ok {
			result.Solutions = ExtractIncompatibilities(first, c, inverse, 0, c.NumberOfRounds())
		}
	}

	return result
}

// assign buckets a decoded value under the right key: the cipher's own
// inputs keep their name, the inverse cipher's inputs go under an
// inverse_ key, mask-direction suffixes are retained, and everything
// else is keyed by the exact textual occurrence matched.
func assign(solutions map[string]Solution, c, inverse *cipher.Cipher, id, line string, solutionNumber int, cv ComponentValue) {
	bucket := func(key string) {
		name := fmt.Sprintf("solution%d", solutionNumber)
		if solutions[name] == nil {
			solutions[name] = Solution{}
		}

		solutions[name][key] = cv
	}

	switch {
	case c.IsInput(id):
		bucket(id)
	case inverse.IsInput(id):
		bucket("inverse_" + id)
	case strings.Contains(line, id+"_i"):
		bucket(id + "_i")
	case strings.Contains(line, id+"_o"):
		bucket(id + "_o")
	case strings.Contains(line, "inverse_"+id+" "):
		bucket("inverse_" + id)
	case strings.Contains(line, id+" "):
		bucket(id)
	}
}

// formatValue turns the printed right-hand side into a bit string:
// "xor_0_0 = [0, 1, 1, 0]" decodes to "0110".
func formatValue(line string) string {
	_, rhs, found := strings.Cut(line, "=")
	if !found {
		return ""
	}

	rhs = strings.TrimSpace(rhs)
	rhs = strings.TrimPrefix(rhs, "[")
	rhs = strings.TrimSuffix(rhs, "]")

	var b strings.Builder

	for _, field := range strings.Split(rhs, ",") {
		b.WriteString(strings.TrimSpace(field))
	}

	return b.String()
}

// weightAfter reads the weight-field placeholder following a printed
// value, zero when absent.
func weightAfter(lines []string, j int) float64 {
	if j+1 >= len(lines) {
		return 0
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(lines[j+1]), 64)
	if err != nil {
		return 0
	}

	return weight
}
