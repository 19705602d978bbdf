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

var impossibleCmd = &cobra.Command{
	Use:   "impossible [flags]",
	Short: "emit an impossible-differential trail or attack model.",
	Long: `Emit the meet-in-the-middle MiniZinc model for impossible XOR
differentials: a forward truncated trace meets a backward trace of the
inverse cipher and the two are forced to contradict at the middle round.
With --attack, emit the extended attack model over the window triple
instead.`,
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

		initial := int(GetUint(cmd, "initial"))
		middle := int(GetUint(cmd, "middle"))
		final := int(GetUint(cmd, "final"))

		if final == 0 {
			final = c.NumberOfRounds()
		}

		builder := cp.NewImpossibleModel(c)

		if GetFlag(cmd, "attack") {
			err = builder.BuildAttackModel(fixed, [3]int{initial, middle, final})
		} else {
			err = builder.BuildTrailModel(fixed, initial, middle, final)
		}

		if err != nil {
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

func init() {
	rootCmd.AddCommand(impossibleCmd)
	impossibleCmd.Flags().String("cipher", "speck", "built-in cipher (speck, toy)")
	impossibleCmd.Flags().Uint("block-size", 32, "block size in bits (speck)")
	impossibleCmd.Flags().Uint("key-size", 64, "key size in bits (speck)")
	impossibleCmd.Flags().Uint("rounds", 4, "number of rounds")
	impossibleCmd.Flags().Uint("initial", 1, "first round of the window")
	impossibleCmd.Flags().Uint("middle", 2, "meet-in-the-middle round")
	impossibleCmd.Flags().Uint("final", 0, "last round of the window (0 means the last cipher round)")
	impossibleCmd.Flags().Bool("attack", false, "emit the attack model instead of the trail model")
	impossibleCmd.Flags().StringSlice("fix", nil, "fixed variables, id:type:bits")
	impossibleCmd.Flags().StringP("output", "o", "", "write the model to this file")
}
