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
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables of text, such as the symbols of a
// program.  Rows are added one at a time, and the width of each column is
// determined by its widest cell (subject to an optional maximum).
type TablePrinter struct {
	widths        []uint
	maxWidths     []uint
	rows          [][]string
	escapes       [][]*AnsiEscape
	enableEscapes bool
}

// NewTablePrinter constructs a new table whose first row holds a given set of
// column headings.
func NewTablePrinter(headings ...string) *TablePrinter {
	p := &TablePrinter{
		widths:    make([]uint, len(headings)),
		maxWidths: make([]uint, len(headings)),
	}
	//
	p.AddRow(headings...)
	//
	return p
}

// AddRow appends a row to this table, returning its index.
func (p *TablePrinter) AddRow(vals ...string) uint {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], uint(len(val)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]*AnsiEscape, len(vals)))
	//
	return uint(len(p.rows) - 1)
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the number of rows in this table (including headings).
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the escape to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = &escape
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible excape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) *TablePrinter {
	p.enableEscapes = enable
	return p
}

// SetMaxWidth puts an upper bound on the width of a given column, where 0
// indicates no bound.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) *TablePrinter {
	p.maxWidths[col] = width
	return p
}

// Print the table, truncating overly wide cells.  Trailing whitespace is not
// printed.
func (p *TablePrinter) Print(w io.Writer) error {
	for i, row := range p.rows {
		var line strings.Builder
		//
		for j, cell := range row {
			width := p.width(uint(j))
			//
			if j != 0 {
				line.WriteString(" | ")
			}
			//
			if uint(len(cell)) > width {
				cell = cell[:width-2] + ".."
			}
			//
			padded := fmt.Sprintf("%-*s", width, cell)
			//
			if p.enableEscapes && p.escapes[i][j] != nil {
				padded = p.escapes[i][j].Wrap(padded)
			}
			//
			line.WriteString(padded)
		}
		//
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *TablePrinter) width(col uint) uint {
	if p.maxWidths[col] > 2 {
		return min(p.widths[col], p.maxWidths[col])
	}
	//
	return p.widths[col]
}
