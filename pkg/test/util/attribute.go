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
	"strings"

	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Attribute parses a given line of a test file (assuming it has matched),
// producing an item or an error.
type Attribute[T any] func(int, []source.Line, *source.File) (bool, T, error)

// Annotation is a directive embedded in a comment at the start of a test file.
// Each annotation either describes an error which compiling the file must
// produce, or supplies command-line options used when compiling it.
type Annotation struct {
	// Expected error, or nil
	Error *source.SyntaxError
	// Command-line options
	Args []string
}

// ExtractAttributes extracts any matching attributes at the beginning of a
// source file.  Extraction stops at the first line matched by no attribute.
func ExtractAttributes[T any](srcfile *source.File, attributes ...Attribute[T]) ([]T, []error) {
	var (
		lines  = srcfile.Lines()
		items  []T
		errors []error
	)
	//
	for i := range lines {
		var matched bool
		//
		for _, attribute := range attributes {
			ok, item, err := attribute(i, lines, srcfile)
			//
			if err != nil {
				errors = append(errors, err)
			} else if ok {
				items = append(items, item)
			}
			//
			matched = matched || ok
		}
		//
		if !matched {
			break
		}
	}
	//
	return items, errors
}

// ExtractAnnotations extracts the expected errors and options of a test file.
func ExtractAnnotations(srcfile *source.File) ([]source.SyntaxError, []string, []error) {
	var (
		errs []source.SyntaxError
		args []string
	)
	//
	annotations, problems := ExtractAttributes(srcfile, extractSyntaxError, extractOptions)
	//
	for _, a := range annotations {
		if a.Error != nil {
			errs = append(errs, *a.Error)
		}
		//
		args = append(args, a.Args...)
	}
	//
	return errs, args, problems
}

// Extract the command-line options from a given line of the source file.
func extractOptions(lineno int, lines []source.Line, _ *source.File) (bool, Annotation, error) {
	contents, ok := strings.CutPrefix(lines[lineno].String(), "//options:")
	if !ok {
		return false, Annotation{}, nil
	}
	//
	return true, Annotation{Args: strings.Fields(contents)}, nil
}
