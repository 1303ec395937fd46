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

	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/termio"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] file(s)",
	Short: "print the goto functions of a program.",
	Long: `Translate a given set of source file(s) into goto functions and print them.
	Optionally, the symbol table and resolved options can be printed as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			s        = OpenSession(cmd)
			name     = GetString(cmd, "function-name")
			ns, _, _ = s.Init()
		)
		//
		if GetFlag(cmd, "options") {
			opts := s.Options()
			//
			text, err := opts.YAML()
			if err != nil {
				fmt.Println(err)
				atexit.Exit(3)
			}
			//
			fmt.Print(text)
		}
		//
		if GetFlag(cmd, "symbols") {
			if err := printSymbols(ns); err != nil {
				fmt.Println(err)
				atexit.Exit(3)
			}
		}
		//
		if err := printFunctions(s.Functions(), name); err != nil {
			fmt.Println(err)
			atexit.Exit(3)
		}
	},
}

// Print either all goto functions, or just the one with a given name.
func printFunctions(funcs *gotoprog.Functions, name string) error {
	if name == "" {
		return funcs.Output(os.Stdout)
	}
	//
	fn, err := funcs.Lookup(functionId(name))
	if err != nil {
		return err
	} else if !fn.BodyAvailable() {
		return fmt.Errorf("function %s has no body", name)
	}
	//
	return gotoprog.OutputFunction(os.Stdout, fn)
}

// Print the symbol table as a table.
func printSymbols(ns symbol.Namespace) error {
	var table = termio.NewTablePrinter("symbol", "type", "kind", "location")
	//
	table.SetMaxWidth(0, termio.Width(os.Stdout)/2)
	//
	for i := range uint(4) {
		table.SetEscape(i, 0, termio.BoldAnsiEscape())
	}
	//
	for _, sym := range ns.Symbols() {
		datatype := sym.Type.CName()
		//
		if sym.IsFunction {
			datatype = sym.ReturnType.CName()
		}
		//
		table.AddRow(sym.Id.String(), datatype, kindOf(sym), sym.Location.String())
	}
	//
	table.AnsiEscapes(termio.IsTerminal(os.Stdout))
	//
	if err := table.Print(os.Stdout); err != nil {
		return err
	}
	//
	_, err := fmt.Println()
	//
	return err
}

func kindOf(sym *symbol.Symbol) string {
	switch {
	case sym.IsFunction:
		return "function"
	case sym.IsParameter:
		return "parameter"
	case sym.StaticLifetime:
		return "static"
	default:
		return "local"
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().AddFlagSet(options.Flags())
	showCmd.Flags().String("function-name", "", "only print the function with this name")
	showCmd.Flags().Bool("symbols", false, "print the symbol table")
	showCmd.Flags().Bool("options", false, "print the resolved options")
}
