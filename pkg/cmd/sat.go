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

	"github.com/waridah-analytics-visualization/claasp/pkg/model/sat"
)

var satCmd = &cobra.Command{
	Use:   "sat [flags]",
	Short: "emit or solve the CNF model of a cipher.",
	Long: `Emit the cipher's evaluation model as DIMACS CNF, or solve it in process
and print the satisfying assignment as "id = value" lines.`,
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

		builder := sat.NewCipherModel(c)
		if err := builder.BuildCipherModel(fixed); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		reportWarnings(builder.Warnings)

		if !GetFlag(cmd, "solve") {
			if err := writeLines(cmd, builder.Dimacs()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			return
		}

		lines, ok, err := builder.Solve()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		if !ok {
			fmt.Println("UNSATISFIABLE")
			os.Exit(1)
		}

		if err := writeLines(cmd, lines); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(satCmd)
	satCmd.Flags().String("cipher", "speck", "built-in cipher (speck, toy)")
	satCmd.Flags().Uint("block-size", 32, "block size in bits (speck)")
	satCmd.Flags().Uint("key-size", 64, "key size in bits (speck)")
	satCmd.Flags().Uint("rounds", 4, "number of rounds")
	satCmd.Flags().Bool("solve", false, "solve in process instead of emitting DIMACS")
	satCmd.Flags().StringSlice("fix", nil, "fixed variables, id:type:bits")
	satCmd.Flags().StringP("output", "o", "", "write the output to this file")
}
