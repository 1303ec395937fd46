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
	"context"
	"fmt"
	"os"

	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/trace"
	"github.com/consensys/go-gotoprog/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// EXIT_VIOLATED is the exit code when simulation violates a property.
const EXIT_VIOLATED = 10

var simulateCmd = &cobra.Command{
	Use:     "simulate [flags] file(s)",
	Short:   "simulate a program on given inputs.",
	Long:    `Execute a program from its entry point, drawing nondeterministic values from the given inputs.`,
	Aliases: []string{"sim"},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			s      = OpenSession(cmd)
			config = trace.Config{
				Inputs:   ParseInputs(GetStringSlice(cmd, "input")),
				MaxSteps: GetUint(cmd, "max-steps"),
			}
		)
		//
		t, outcome, err := s.Simulate(context.Background(), config)
		if err != nil {
			fmt.Println(err)
			atexit.Exit(3)
		}
		//
		if GetFlag(cmd, "steps") {
			err = t.Output(s.Namespace(), os.Stdout)
		} else {
			err = trace.NewPrinter().
				Width(min(termio.Width(os.Stdout), 80)).
				AnsiEscapes(termio.IsTerminal(os.Stdout)).
				Print(os.Stdout, s.Namespace(), t)
		}
		//
		if err != nil {
			fmt.Println(err)
			atexit.Exit(3)
		}
		//
		switch outcome {
		case trace.VIOLATED:
			fmt.Println("VERIFICATION FAILED")
			atexit.Exit(EXIT_VIOLATED)
		case trace.INFEASIBLE:
			log.Info("simulation blocked by assumption")
		case trace.BOUNDED:
			log.Warnf("simulation stopped after %d steps", config.MaxSteps)
		}
		//
		fmt.Println("no property violated")
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().AddFlagSet(options.Flags())
	simulateCmd.Flags().StringSlice("input", []string{}, "values for nondeterministic choices (in order)")
	simulateCmd.Flags().Uint("max-steps", trace.DEFAULT_MAX_STEPS, "maximum number of instructions executed")
	simulateCmd.Flags().Bool("steps", false, "print every step, rather than a counterexample")
}
