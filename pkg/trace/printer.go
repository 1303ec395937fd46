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
package trace

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/termio"
)

// Printer encapsulates the options for printing a trace as a counterexample.
type Printer struct {
	// Width of separator lines
	width uint
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer.
func NewPrinter() *Printer {
	return &Printer{52, false}
}

// Width configures the width of the separator printed beneath each state.
func (p *Printer) Width(width uint) *Printer {
	p.width = width
	return p
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for highlighting violated properties in a terminal).
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Show prints a given trace as a counterexample using the default printer.
func Show(w io.Writer, ns symbol.Namespace, t *Trace) error {
	return NewPrinter().Print(w, ns, t)
}

// Print a given trace.  Each assignment and output is shown as a numbered
// state, followed by the violated property (if any).
func (p *Printer) Print(w io.Writer, ns symbol.Namespace, t *Trace) error {
	var (
		out       strings.Builder
		separator = strings.Repeat("-", int(p.width))
	)
	//
	if _, ok := t.Violation(); ok {
		out.WriteString("\nCounterexample:\n")
	}
	//
	for _, step := range t.Steps {
		switch {
		case step.Type == ASSIGNMENT:
			fmt.Fprintf(&out, "\nState %d %s thread %d\n%s\n", step.StepNr, locationOf(step), step.ThreadNr,
				separator)
			fmt.Fprintf(&out, "  %s = %s\n", nameOf(ns, step.Lhs), formatValue(step.Value, step.Lhs.DataType))
		case step.Type == OUTPUT:
			fmt.Fprintf(&out, "\nState %d %s thread %d\n%s\n", step.StepNr, locationOf(step), step.ThreadNr,
				separator)
			fmt.Fprintf(&out, "  %s\n", formatOutput(step.FormatString, step.OutputArgs))
		case step.Type == ASSERT && !step.Guard:
			fmt.Fprintf(&out, "\nState %d %s thread %d\n%s\n", step.StepNr, locationOf(step), step.ThreadNr,
				separator)
			out.WriteString(p.highlight("Violated property:"))
			fmt.Fprintf(&out, "\n  %s\n  %s\n", locationOf(step), step.Comment)
			//
			if step.Rhs != nil {
				fmt.Fprintf(&out, "  %s\n", step.Rhs.String())
			}
		}
	}
	//
	out.WriteString("\n")
	//
	_, err := io.WriteString(w, out.String())
	//
	return err
}

func (p *Printer) highlight(text string) string {
	if !p.ansiEscapes {
		return text
	}
	//
	return termio.BoldAnsiEscape().FgColour(termio.TERM_RED).Wrap(text)
}

func locationOf(step Step) string {
	if loc := step.Location.String(); loc != "" {
		return loc
	}
	//
	return fmt.Sprintf("function %s", step.PC.Function.BaseName())
}

// Format a value of a given type.  Bitvectors are followed by their bits
// (most significant first) in groups of eight.
func formatValue(v *big.Int, datatype expr.Type) string {
	switch {
	case v == nil:
		return "?"
	case datatype.IsBool() && v.Sign() == 0:
		return "FALSE"
	case datatype.IsBool():
		return "TRUE"
	case !datatype.IsBitVector():
		return v.String()
	}
	//
	var (
		modulus = new(big.Int).Lsh(big.NewInt(1), datatype.Width)
		bits    = new(big.Int).Mod(v, modulus).Text(2)
		groups  []string
	)
	// Pad to the full width
	bits = strings.Repeat("0", int(datatype.Width)-len(bits)) + bits
	//
	first := len(bits) % 8
	if first == 0 {
		first = 8
	}
	//
	groups = append(groups, bits[:first])
	//
	for i := first; i < len(bits); i += 8 {
		groups = append(groups, bits[i:i+8])
	}
	//
	return fmt.Sprintf("%s (%s)", v.String(), strings.Join(groups, " "))
}

// Format the output of printf for given argument values.  Length modifiers
// are ignored, since arguments are already normalised to their types.
func formatOutput(format string, args []*big.Int) string {
	var (
		out   strings.Builder
		runes = []rune(format)
	)
	//
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i+1 == len(runes) {
			out.WriteRune(runes[i])
			continue
		}
		// Skip flags, width and length modifiers
		j := i + 1
		for j < len(runes) && strings.ContainsRune("-+ #0123456789.lhzjt", runes[j]) {
			j++
		}
		//
		if j == len(runes) {
			out.WriteString(string(runes[i:]))
			break
		} else if runes[j] == '%' {
			out.WriteRune('%')
			i = j
			//
			continue
		} else if len(args) == 0 {
			out.WriteString(string(runes[i : j+1]))
			i = j
			//
			continue
		}
		//
		arg := args[0]
		args = args[1:]
		//
		switch runes[j] {
		case 'x':
			out.WriteString(arg.Text(16))
		case 'X':
			out.WriteString(strings.ToUpper(arg.Text(16)))
		case 'o':
			out.WriteString(arg.Text(8))
		case 'c':
			out.WriteRune(rune(arg.Int64()))
		default:
			out.WriteString(arg.String())
		}
		//
		i = j
	}
	//
	return out.String()
}
