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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/waridah-analytics-visualization/claasp/pkg/solution"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [flags] output_file",
	Short: "decode solver output into per-component values.",
	Long: `Read raw solver output and recover the per-component value/weight map,
one table per solution block. For impossible-differential runs with more
than one raw solution, the table is reduced to the incompatibility
witness.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		c, err := buildCipher(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		lines := strings.Split(string(bytes), "\n")
		kind := GetString(cmd, "kind")
		middle := decodeMiddleRound(kind,
			int(GetUint(cmd, "middle")),
			int(GetUint(cmd, "rounds")),
			cmd.Flags().Changed("middle"))

		result := solution.Decode(lines, c, c.Inverse(), middle, kind)

		if GetFlag(cmd, "json") {
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			fmt.Println(string(encoded))

			return
		}

		fmt.Printf("solve time: %gs, memory: %gMB\n", result.SolveTime, result.Memory)
		printSolutions(result)
	},
}

// decodeMiddleRound picks how deep the forward identifier scan goes:
// the meet-in-the-middle round for impossible runs and whenever the
// user set --middle explicitly, the full cipher otherwise.
func decodeMiddleRound(kind string, middle, rounds int, explicit bool) int {
	if explicit || strings.Contains(kind, "impossible") {
		return middle
	}

	return rounds
}

// printSolutions renders each solution block as an aligned table,
// clipping the value column to the terminal width.
func printSolutions(result solution.Result) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	names := make([]string, 0, len(result.Solutions))
	for name := range result.Solutions {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s:\n", name)

		block := result.Solutions[name]
		ids := make([]string, 0, len(block))
		idWidth := 0

		for id := range block {
			ids = append(ids, id)
			if len(id) > idWidth {
				idWidth = len(id)
			}
		}

		sort.Strings(ids)

		for _, id := range ids {
			cv := block[id]
			value := cv.Value

			if max := width - idWidth - 16; max > 3 && len(value) > max {
				value = value[:max-3] + "..."
			}

			fmt.Printf("  %-*s %s (%g)\n", idWidth, id, value, cv.Weight)
		}
	}
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().String("cipher", "speck", "built-in cipher (speck, toy)")
	decodeCmd.Flags().Uint("block-size", 32, "block size in bits (speck)")
	decodeCmd.Flags().Uint("key-size", 64, "key size in bits (speck)")
	decodeCmd.Flags().Uint("rounds", 4, "number of rounds")
	decodeCmd.Flags().Uint("middle", 2, "meet-in-the-middle round of the decoded model (defaults to --rounds for non-impossible kinds)")
	decodeCmd.Flags().String("kind", "differential", "model kind the output came from (differential, impossible)")
	decodeCmd.Flags().Bool("json", false, "emit the decoded result as JSON instead of tables")
}
