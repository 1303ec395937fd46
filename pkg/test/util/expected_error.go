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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Extract the syntax error from a given line in the source file.  An expected
// error is written "//error:L:S-E:msg", where L is a line number and S-E a
// range of columns (both numbered from 1, with E exclusive).
func extractSyntaxError(lineno int, lines []source.Line, srcfile *source.File) (bool, Annotation, error) {
	contents, ok := strings.CutPrefix(lines[lineno].String(), "//error:")
	if !ok {
		return false, Annotation{}, nil
	}
	//
	line, start, end, msg, err := parseExpectedError(contents)
	if err != nil {
		return true, Annotation{}, err
	}
	//
	span, err := determineFileSpan(line, start, end, lines)
	if err != nil {
		return true, Annotation{}, err
	}
	//
	return true, Annotation{Error: srcfile.SyntaxError(span, msg)}, nil
}

func parseExpectedError(contents string) (line, start, end int, msg string, err error) {
	var splits = strings.SplitN(contents, ":", 3)
	//
	if len(splits) != 3 {
		return 0, 0, 0, "", fmt.Errorf("malformed expected error \"%s\", should be e.g. \"//error:X:Y-Z:msg\"",
			contents)
	} else if line, err = strconv.Atoi(splits[0]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid line \"%s\" (%s)", splits[0], err.Error())
	} else if line == 0 {
		return 0, 0, 0, "", fmt.Errorf("invalid line \"%s\" (lines numbered from 1)", splits[0])
	}
	//
	columns := strings.Split(splits[1], "-")
	//
	if len(columns) != 2 {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", splits[1])
	} else if start, err = strconv.Atoi(columns[0]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s\" (%s)", splits[1], err.Error())
	} else if end, err = strconv.Atoi(columns[1]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s\" (%s)", splits[1], err.Error())
	} else if start == 0 || end < start {
		return 0, 0, 0, "", fmt.Errorf("invalid span \"%s\" (columns numbered from 1)", splits[1])
	}
	//
	return line, start, end, splits[2], nil
}

// Determine the span within the file for a given line and range of columns.
func determineFileSpan(lineno, start, end int, lines []source.Line) (source.Span, error) {
	if lineno > len(lines) {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (non-existent line)", lineno, start, end)
	}
	//
	line := lines[lineno-1]
	//
	if start > line.Length() || end > line.Length()+1 {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (overflows to following line)", lineno, start,
			end)
	}
	// Columns start from 1, whereas offsets start from 0.
	return source.NewSpan(line.Start()+start-1, line.Start()+end-1), nil
}
