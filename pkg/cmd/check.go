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

	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/options"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file(s)",
	Short: "check the goto functions of a program are well formed.",
	Long: `Translate a given set of source file(s) into goto functions, then check every
	branch refers to an instruction of its own function.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			s     = OpenSession(cmd)
			funcs = s.Functions()
			total uint
		)
		//
		for _, id := range funcs.Names() {
			fn, err := funcs.Lookup(id)
			if err != nil {
				fmt.Println(err)
				atexit.Exit(3)
			} else if !fn.BodyAvailable() {
				log.Debugf("skipping %s (no body)", id.String())
				continue
			}
			//
			n, err := checkFunction(fn)
			if err != nil {
				fmt.Println(err)
				atexit.Exit(1)
			}
			//
			total += n
		}
		//
		fmt.Printf("checked %d function(s), %d instruction(s)\n", funcs.Len(), total)
	},
}

// Check the body of a given function, returning its length.
func checkFunction(fn *gotoprog.Function) (uint, error) {
	var body = fn.Body()
	//
	if err := body.Validate(); err != nil {
		return 0, err
	}
	//
	loops, err := gotoprog.Loops(body)
	if err != nil {
		return 0, err
	}
	//
	log.Debugf("%s: %d instruction(s), %d loop(s)", fn.Id().String(), body.Len(), len(loops))
	//
	return body.Len(), nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().AddFlagSet(options.Flags())
}
