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
	"github.com/waridah-analytics-visualization/claasp/pkg/model/smt"
)

var modelCmd = &cobra.Command{
	Use:   "model [flags]",
	Short: "emit the constraint model of a cipher.",
	Long: `Emit the plain evaluation model (MiniZinc) or the deterministic truncated
differential trail model (MiniZinc or SMT-LIB) of a built-in cipher.`,
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

		var lines []string

		switch {
		case GetFlag(cmd, "truncated") && GetString(cmd, "backend") == "smt":
			builder := smt.NewTruncatedModel(c)
			if err := builder.BuildTruncatedTrailModel(fixed); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			reportWarnings(builder.Warnings)

			lines = builder.ModelConstraints()
		case GetFlag(cmd, "truncated"):
			builder := cp.NewCipherModel(c)
			if err := builder.BuildTruncatedModel(fixed); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			reportWarnings(builder.Warnings)

			lines = builder.ModelConstraints()
		default:
			builder := cp.NewCipherModel(c)
			if err := builder.BuildCipherModel(fixed); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			reportWarnings(builder.Warnings)

			lines = builder.ModelConstraints()
		}

		if err := writeLines(cmd, lines); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.Flags().String("cipher", "speck", "built-in cipher (speck, toy)")
	modelCmd.Flags().Uint("block-size", 32, "block size in bits (speck)")
	modelCmd.Flags().Uint("key-size", 64, "key size in bits (speck)")
	modelCmd.Flags().Uint("rounds", 4, "number of rounds")
	modelCmd.Flags().Bool("truncated", false, "emit the truncated differential model")
	modelCmd.Flags().String("backend", "cp", "truncated model backend (cp, smt)")
	modelCmd.Flags().StringSlice("fix", nil, "fixed variables, id:type:bits")
	modelCmd.Flags().StringP("output", "o", "", "write the model to this file")
}
