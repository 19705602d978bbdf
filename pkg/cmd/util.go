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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waridah-analytics-visualization/claasp/pkg/cipher"
	"github.com/waridah-analytics-visualization/claasp/pkg/model"
)

// ErrUnknownCipher reports a --cipher value naming no built-in cipher.
var ErrUnknownCipher = errors.New("unknown cipher")

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringSlice gets an expected string slice flag, or exits if an
// error arises.
func GetStringSlice(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringSlice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUintSlice gets an expected uint slice flag, or exits if an error
// arises.
func GetUintSlice(cmd *cobra.Command, flag string) []uint {
	r, err := cmd.Flags().GetUintSlice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// buildCipher constructs a built-in cipher from command flags.
func buildCipher(cmd *cobra.Command) (*cipher.Cipher, error) {
	name := GetString(cmd, "cipher")
	rounds := int(GetUint(cmd, "rounds"))

	switch name {
	case "speck":
		blockSize := int(GetUint(cmd, "block-size"))
		keySize := int(GetUint(cmd, "key-size"))

		return cipher.NewSpeck(blockSize, keySize, rounds), nil
	case "toy":
		return cipher.NewToyCipher(rounds), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
}

// parseFixed parses --fix values of the form id:type:bits, where type is
// equal or not_equal and bits is the binary value over positions
// 0..len(bits)-1, e.g. plaintext:equal:0110.
func parseFixed(specs []string) ([]model.FixedVariable, error) {
	var fixed []model.FixedVariable

	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed fix %q: want id:type:bits", spec)
		}

		fv := model.FixedVariable{
			ComponentID:    parts[0],
			ConstraintType: parts[1],
		}

		for i, c := range parts[2] {
			switch c {
			case '0':
				fv.BinaryValue = append(fv.BinaryValue, 0)
			case '1':
				fv.BinaryValue = append(fv.BinaryValue, 1)
			default:
				return nil, fmt.Errorf("malformed fix %q: bit %d is not binary", spec, i)
			}

			fv.BitPositions = append(fv.BitPositions, i)
		}

		if err := fv.Validate(); err != nil {
			return nil, fmt.Errorf("malformed fix %q: %w", spec, err)
		}

		fixed = append(fixed, fv)
	}

	return fixed, nil
}

// writeLines writes model text to the -o target, or stdout when the
// target is empty or "-".
func writeLines(cmd *cobra.Command, lines []string) error {
	target := GetString(cmd, "output")
	text := strings.Join(lines, "\n") + "\n"

	if target == "" || target == "-" {
		fmt.Print(text)
		return nil
	}

	return os.WriteFile(target, []byte(text), 0644)
}

// reportWarnings prints skipped components, one per line, on stderr.
func reportWarnings(warnings []model.Unsupported) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "skipped %s (%s %s)\n", w.ComponentID, w.Type, w.Operation)
	}
}
