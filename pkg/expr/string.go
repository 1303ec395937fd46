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
	"strings"
)

var binOpStrings = []string{"+", "-", "*", "/", "%", "<<", ">>", "&", "|", "^"}

var cmpOpStrings = []string{"==", "!=", "<", "<=", ">", ">="}

// String returns the C operator for this arithmetic operation.
func (op BinOp) String() string {
	return binOpStrings[op]
}

// String returns the C operator for this comparison.
func (op CmpOp) String() string {
	return cmpOpStrings[op]
}

func (p *Symbol) String() string {
	return p.Id.BaseName()
}

func (p *Constant) String() string {
	if p.DataType.IsBool() {
		if p.Value.Sign() == 0 {
			return "FALSE"
		}
		//
		return "TRUE"
	}
	//
	return p.Value.String()
}

func (p *Unary) String() string {
	switch p.Operator {
	case NEG:
		return fmt.Sprintf("-%s", bracket(p.Arg))
	default:
		return fmt.Sprintf("~%s", bracket(p.Arg))
	}
}

func (p *Not) String() string {
	return fmt.Sprintf("!%s", bracket(p.Arg))
}

func (p *Binary) String() string {
	return fmt.Sprintf("%s %s %s", bracket(p.Left), p.Operator.String(), bracket(p.Right))
}

func (p *Cmp) String() string {
	return fmt.Sprintf("%s %s %s", bracket(p.Left), p.Operator.String(), bracket(p.Right))
}

func (p *Logical) String() string {
	var (
		builder strings.Builder
		op      = " && "
	)
	//
	if p.Operator == OR {
		op = " || "
	}
	//
	for i, arg := range p.Args {
		if i != 0 {
			builder.WriteString(op)
		}
		//
		builder.WriteString(bracket(arg))
	}
	//
	return builder.String()
}

func (p *If) String() string {
	return fmt.Sprintf("%s ? %s : %s", bracket(p.Cond), bracket(p.Then), bracket(p.Else))
}

func (p *Typecast) String() string {
	return fmt.Sprintf("(%s)%s", p.DataType.CName(), bracket(p.Arg))
}

func (p *Nondet) String() string {
	return fmt.Sprintf("NONDET(%s)", p.DataType.CName())
}

// Bracket an expression if it is not atomic.
func bracket(e Expr) string {
	switch e.(type) {
	case *Symbol, *Constant, *Nondet:
		return e.String()
	default:
		return fmt.Sprintf("(%s)", e.String())
	}
}

// CName returns the C spelling of this type.
func (t Type) CName() string {
	switch t.Kind {
	case EMPTY:
		return "void"
	case BOOL:
		return "_Bool"
	case SIGNEDBV:
		return fmt.Sprintf("signed int%d", t.Width)
	case UNSIGNEDBV:
		return fmt.Sprintf("unsigned int%d", t.Width)
	default:
		return t.String()
	}
}
