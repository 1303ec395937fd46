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
	"strings"
)

// Colour is one of the eight standard terminal colours.
type Colour uint

const (
	// TERM_BLACK is black
	TERM_BLACK Colour = iota
	// TERM_RED is red
	TERM_RED
	// TERM_GREEN is green
	TERM_GREEN
	// TERM_YELLOW is yellow
	TERM_YELLOW
	// TERM_BLUE is blue
	TERM_BLUE
	// TERM_MAGENTA is magenta
	TERM_MAGENTA
	// TERM_CYAN is cyan
	TERM_CYAN
	// TERM_WHITE is white
	TERM_WHITE
)

// AnsiEscape is an ANSI "select graphic rendition" sequence, built up from one
// or more parameters (e.g. bold, red foreground).
type AnsiEscape struct {
	params []uint
}

// NewAnsiEscape constructs an escape with no parameters.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// ResetAnsiEscape constructs the escape which resets all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// BoldAnsiEscape constructs a bold escape.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{1}}
}

// UnderlineAnsiEscape constructs an underline escape.
func UnderlineAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{4}}
}

// FgColour extends this escape with a foreground colour.
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(30 + uint(col))
}

// BgColour extends this escape with a background colour.
func (p AnsiEscape) BgColour(col Colour) AnsiEscape {
	return p.with(40 + uint(col))
}

// Build returns the escape sequence itself.
func (p AnsiEscape) Build() string {
	var params = make([]string, len(p.params))
	//
	for i, param := range p.params {
		params[i] = fmt.Sprintf("%d", param)
	}
	//
	return fmt.Sprintf("\033[%sm", strings.Join(params, ";"))
}

// Wrap surrounds some text with this escape and a reset.
func (p AnsiEscape) Wrap(text string) string {
	return p.Build() + text + ResetAnsiEscape().Build()
}

// Copy so extending one escape never aliases another.
func (p AnsiEscape) with(param uint) AnsiEscape {
	params := make([]uint, len(p.params), len(p.params)+1)
	copy(params, p.params)
	//
	return AnsiEscape{append(params, param)}
}
