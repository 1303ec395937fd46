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
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/session"
	"github.com/consensys/go-gotoprog/pkg/trace"
)

// MAX_STEPS bounds the number of instructions executed for any single input.
const MAX_STEPS uint = 10_000

// Config describes one kind of input file.
type Config struct {
	// File extension
	extension string
	// Whether inputs are expected to violate no property.
	expected bool
}

// TESTFILE_EXTENSIONS identifies the possible file extensions used for
// inputs.
var TESTFILE_EXTENSIONS []Config = []Config{
	{"accepts", true},
	{"rejects", false},
}

// CheckValid checks that a given C program compiles, and that every input
// which we expect to be accepted violates no property when simulated, whilst
// every input which we expect to be rejected violates some property.
func CheckValid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/%s.c", TestDir, test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	_, args, errs := ExtractAnnotations(readSourceFile(t, filename))
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	s, err := session.Open(context.Background(), append(args, filename))
	if err != nil {
		t.Fatal(err)
	}
	//
	defer s.Close()
	//
	if err := s.Functions().Validate(); err != nil {
		t.Fatal(err)
	}
	// Record how many tests executed.
	nTests := 0
	//
	for _, cfg := range TESTFILE_EXTENSIONS {
		testFilename := fmt.Sprintf("%s/%s.%s", TestDir, test, cfg.extension)
		inputs := ReadInputsFile(t, testFilename)
		//
		for i, input := range inputs {
			checkInput(t, s, testFilename, i, cfg, input)
		}
		//
		nTests += len(inputs)
	}
	// Sanity check at least one input found.
	if nTests == 0 {
		t.Fatalf("missing any tests for %s", test)
	}
}

func checkInput(t *testing.T, s *session.Session, filename string, index int, cfg Config, input []*big.Int) {
	config := trace.Config{Inputs: input, MaxSteps: MAX_STEPS}
	//
	_, outcome, err := s.Simulate(context.Background(), config)
	if err != nil {
		t.Fatalf("%s input %d: %s", filename, index+1, err)
	} else if outcome == trace.BOUNDED {
		t.Errorf("%s input %d: exceeded %d steps", filename, index+1, MAX_STEPS)
	} else if accepted := outcome != trace.VIOLATED; accepted != cfg.expected {
		t.Errorf("%s input %d: %s (expected accepted=%t)", filename, index+1, outcome, cfg.expected)
	}
}

// ReadInputsFile reads a file of inputs, one per line.  Each input is a
// comma-separated list of integers, or "-" for no values.  Blank lines and
// lines starting with "#" are ignored.  A missing file contains no inputs.
func ReadInputsFile(t *testing.T, filename string) [][]*big.Int {
	file, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		t.Fatal(err)
	}
	//
	defer file.Close()
	//
	var (
		inputs  [][]*big.Int
		scanner = bufio.NewScanner(file)
	)
	//
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		//
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		//
		input, err := parseInput(line)
		if err != nil {
			t.Fatalf("%s:%d: %s", filename, lineno, err)
		}
		//
		inputs = append(inputs, input)
	}
	//
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	//
	return inputs
}

func parseInput(line string) ([]*big.Int, error) {
	var input []*big.Int
	//
	if line == "-" {
		return input, nil
	}
	//
	for _, item := range strings.Split(line, ",") {
		val, ok := new(big.Int).SetString(strings.TrimSpace(item), 0)
		if !ok {
			return nil, fmt.Errorf("malformed input \"%s\"", item)
		}
		//
		input = append(input, val)
	}
	//
	return input, nil
}
