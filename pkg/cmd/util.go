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
	"math/big"
	"os"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/session"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	return r
}

// GetStringSlice gets an expected list of strings, or panic if an error
// arises.
func GetStringSlice(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringSlice(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	return r
}

// OpenSession resolves the options given to a command, then opens a session
// for them.  The session is closed when the process exits.  Syntax errors are
// reported, after which the process exits.
func OpenSession(cmd *cobra.Command) *session.Session {
	opts, err := options.Resolve(cmd.Flags())
	if err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}
	//
	s, err := session.OpenWithOptions(context.Background(), *opts)
	//
	var cerr *session.CompileError
	//
	if errors.As(err, &cerr) {
		for _, e := range cerr.Errors {
			printSyntaxError(&e)
		}
		//
		atexit.Exit(4)
	} else if err != nil {
		fmt.Println(err)
		atexit.Exit(3)
	}
	//
	atexit.Register(s.Close)
	//
	return s
}

// ParseInputs parses a list of (decimal, hexadecimal or octal) integers
// supplying nondeterministic values.
func ParseInputs(items []string) []*big.Int {
	var inputs = make([]*big.Int, len(items))
	//
	for i, item := range items {
		val, ok := new(big.Int).SetString(strings.TrimSpace(item), 0)
		if !ok {
			fmt.Printf("malformed input \"%s\"\n", item)
			atexit.Exit(2)
		}
		//
		inputs[i] = val
	}
	//
	log.Debugf("using %d input value(s)", len(inputs))
	//
	return inputs
}

// Resolve a function name given on the command line, which is either a
// qualified identifier (e.g. "c::main") or the name of a C function.
func functionId(name string) irep.Id {
	if strings.Contains(name, "::") || strings.HasPrefix(name, "__ESBMC_") {
		return irep.NewId(name)
	}
	//
	return irep.Join("c", name)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	if err.SourceFile() == nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return
	}
	//
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
