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
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waridah-analytics-visualization/claasp/pkg/model/cp"
)

var differentialCmd = &cobra.Command{
	Use:   "differential [flags]",
	Short: "emit the linked two-copy differential pair model.",
	Long: `Emit a MiniZinc model holding two mirrored executions of the cipher, tied
together by per-bit plaintext and ciphertext difference constraints. A
solution is a concrete message pair realising the prescribed differences.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		c, err := buildCipher(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		fixed, err := parseFixed(GetStringSlice(cmd, "fix"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		inputDifference, err := parseBits(GetString(cmd, "input-difference"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		outputDifference, err := parseBits(GetString(cmd, "output-difference"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		builder := cp.NewCipherModel(c)
		if err := builder.BuildDifferentialPairModel(fixed, inputDifference, outputDifference); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		reportWarnings(builder.Warnings)

		if err := writeLines(cmd, builder.ModelConstraints()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	},
}

// parseBits parses a difference given as a binary string, most
// significant bit first.
func parseBits(s string) ([]int, error) {
	bits := make([]int, 0, len(s))

	for i, c := range s {
		switch c {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		default:
			return nil, fmt.Errorf("difference bit %d is not binary in %q", i, s)
		}
	}

	return bits, nil
}

func init() {
	rootCmd.AddCommand(differentialCmd)
	differentialCmd.Flags().String("cipher", "speck", "built-in cipher (speck, toy)")
	differentialCmd.Flags().Uint("block-size", 32, "block size in bits (speck)")
	differentialCmd.Flags().Uint("key-size", 64, "key size in bits (speck)")
	differentialCmd.Flags().Uint("rounds", 4, "number of rounds")
	differentialCmd.Flags().String("input-difference", "", "plaintext difference as a binary string")
	differentialCmd.Flags().String("output-difference", "", "ciphertext difference as a binary string")
	differentialCmd.Flags().StringSlice("fix", nil, "fixed variables, id:type:bits")
	differentialCmd.Flags().StringP("output", "o", "", "write the model to this file")
}
