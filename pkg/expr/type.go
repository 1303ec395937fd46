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
package expr

import (
	"fmt"
	"math/big"
)

// TypeKind distinguishes the different kinds of type.
type TypeKind uint8

const (
	// EMPTY is the type of expressions which have no value (i.e. void).
	EMPTY TypeKind = iota
	// BOOL is the type of conditions.
	BOOL
	// SIGNEDBV is a two's complement bitvector of a given width.
	SIGNEDBV
	// UNSIGNEDBV is an unsigned bitvector of a given width.
	UNSIGNEDBV
	// CODE is the type of functions.
	CODE
)

// Type describes the type of an expression.  Types are comparable.
type Type struct {
	Kind  TypeKind
	Width uint
}

// Empty returns the void type.
func Empty() Type {
	return Type{EMPTY, 0}
}

// Bool returns the boolean type.
func Bool() Type {
	return Type{BOOL, 1}
}

// Code returns the type of functions.
func Code() Type {
	return Type{CODE, 0}
}

// SignedBV constructs a signed bitvector type of the given width.
func SignedBV(width uint) Type {
	return Type{SIGNEDBV, width}
}

// UnsignedBV constructs an unsigned bitvector type of the given width.
func UnsignedBV(width uint) Type {
	return Type{UNSIGNEDBV, width}
}

// IsBool checks whether this is the boolean type.
func (p Type) IsBool() bool {
	return p.Kind == BOOL
}

// IsSigned checks whether this is a signed bitvector.
func (p Type) IsSigned() bool {
	return p.Kind == SIGNEDBV
}

// IsBitVector checks whether this is a (signed or unsigned) bitvector.
func (p Type) IsBitVector() bool {
	return p.Kind == SIGNEDBV || p.Kind == UNSIGNEDBV
}

// IsEmpty checks whether this is the void type.
func (p Type) IsEmpty() bool {
	return p.Kind == EMPTY
}

// Bounds returns the smallest and largest values representable in this type.
// This only makes sense for bitvector and boolean types.
func (p Type) Bounds() (*big.Int, *big.Int) {
	var (
		lo = big.NewInt(0)
		hi = big.NewInt(1)
	)
	//
	switch p.Kind {
	case SIGNEDBV:
		hi.Lsh(hi, p.Width-1)
		lo.Neg(hi)
		hi.Sub(hi, big.NewInt(1))
	case UNSIGNEDBV:
		hi.Lsh(hi, p.Width)
		hi.Sub(hi, big.NewInt(1))
	}
	//
	return lo, hi
}

func (p Type) String() string {
	switch p.Kind {
	case EMPTY:
		return "empty"
	case BOOL:
		return "bool"
	case SIGNEDBV:
		return fmt.Sprintf("signedbv[%d]", p.Width)
	case UNSIGNEDBV:
		return fmt.Sprintf("unsignedbv[%d]", p.Width)
	case CODE:
		return "code"
	default:
		return "unknown"
	}
}
