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
package util

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the C test files and the corresponding inputs (accepts/rejects) are
// found.
const TestDir = "../../testdata"

// ErrorCompiler compiles a source file and produces zero or more errors.
type ErrorCompiler func(*options.Options, *source.File) []source.SyntaxError

// CheckInvalid checks that a given source file fails to compile, producing
// exactly the errors given by its annotations.
func CheckInvalid(t *testing.T, test string, compiler ErrorCompiler) {
	var filename = fmt.Sprintf("%s/%s.c", TestDir, test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	// Extract expected errors for comparison
	expected, args, errs := ExtractAnnotations(srcfile)
	if len(errs) > 0 {
		// Report any errors encountered parsing the annotations themselves.
		t.Fatal(errors.Join(errs...))
	}
	//
	opts, err := options.Parse(append(args, filename))
	if err != nil {
		t.Fatal(err)
	}
	// Check program did not compile!
	checkExpectedErrors(t, srcfile, compiler(opts, srcfile), expected)
}

func checkExpectedErrors(t *testing.T, srcfile *source.File, actual, expected []source.SyntaxError) {
	if len(actual) == 0 {
		t.Fatalf("Error %s should not have compiled\n", srcfile.Filename())
	}
	//
	var (
		failed bool
		msg    = fmt.Sprintf("Error %s\n", srcfile.Filename())
	)
	//
	for i := range max(len(actual), len(expected)) {
		if i < len(actual) && i < len(expected) && expected[i].Message() == actual[i].Message() &&
			expected[i].Span() == actual[i].Span() {
			continue
		}
		//
		failed = true
		//
		if i < len(actual) {
			msg = fmt.Sprintf("%s unexpected error %s\n", msg, errorToString(actual[i]))
		}
		//
		if i < len(expected) {
			msg = fmt.Sprintf("%s   expected error %s\n", msg, errorToString(expected[i]))
		}
	}
	//
	if failed {
		t.Fatal(msg)
	}
}

func readSourceFile(t *testing.T, filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	// Package up as source file
	return source.NewSourceFile(filename, bytes)
}

// Convert an error into a useful human readable string.
func errorToString(err source.SyntaxError) string {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	//
	return fmt.Sprintf("%s:%d:%d-%d %s", err.SourceFile().Filename(), line.Number(), 1+lineOffset,
		1+lineOffset+span.Length(), err.Message())
}
