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
	"math/big"

	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/pkg/errors"
)

// ErrDivisionByZero is returned when evaluating a division (or remainder) by
// zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrNegativeShift is returned when evaluating a shift by a negative amount.
var ErrNegativeShift = errors.New("shift by negative amount")

// Environment provides the values of variables (and nondets) required for
// evaluation.
type Environment interface {
	// Read returns the current value of a given variable.
	Read(id irep.Id) (*big.Int, error)
	// Nondet returns the next nondeterministic value of a given type.
	Nondet(datatype Type) *big.Int
}

// Evaluator evaluates expressions to concrete values.  When Integer is set,
// arithmetic is performed over the unbounded integers.  Otherwise, results
// are truncated to the width of their bitvector type.
type Evaluator struct {
	Env     Environment
	Integer bool
}

// Eval evaluates a given expression.  Boolean expressions evaluate to 0 or 1.
func (p *Evaluator) Eval(e Expr) (*big.Int, error) {
	switch e := e.(type) {
	case *Symbol:
		v, err := p.Env.Read(e.Id)
		if err != nil {
			return nil, err
		}
		// Copy, since evaluation updates values in place.
		return new(big.Int).Set(v), nil
	case *Constant:
		return new(big.Int).Set(&e.Value), nil
	case *Nondet:
		return p.normalise(p.Env.Nondet(e.DataType), e.DataType), nil
	case *Unary:
		return p.evalUnary(e)
	case *Not:
		v, err := p.Eval(e.Arg)
		if err != nil {
			return nil, err
		}
		//
		return boolean(v.Sign() == 0), nil
	case *Binary:
		return p.evalBinary(e)
	case *Cmp:
		return p.evalCmp(e)
	case *Logical:
		return p.evalLogical(e)
	case *If:
		c, err := p.Eval(e.Cond)
		if err != nil {
			return nil, err
		} else if c.Sign() != 0 {
			return p.Eval(e.Then)
		}
		//
		return p.Eval(e.Else)
	case *Typecast:
		v, err := p.Eval(e.Arg)
		if err != nil {
			return nil, err
		}
		//
		return Normalise(v, e.DataType), nil
	default:
		return nil, errors.Errorf("cannot evaluate expression %s", e.String())
	}
}

// Holds evaluates a given condition.
func (p *Evaluator) Holds(e Expr) (bool, error) {
	v, err := p.Eval(e)
	if err != nil {
		return false, err
	}
	//
	return v.Sign() != 0, nil
}

func (p *Evaluator) evalUnary(e *Unary) (*big.Int, error) {
	v, err := p.Eval(e.Arg)
	if err != nil {
		return nil, err
	}
	//
	switch e.Operator {
	case NEG:
		v.Neg(v)
	case BITNOT:
		v.Not(v)
	}
	//
	return p.normalise(v, e.DataType), nil
}

func (p *Evaluator) evalBinary(e *Binary) (*big.Int, error) {
	var r = new(big.Int)
	//
	lhs, err := p.Eval(e.Left)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := p.Eval(e.Right)
	if err != nil {
		return nil, err
	}
	//
	switch e.Operator {
	case ADD:
		r.Add(lhs, rhs)
	case SUB:
		r.Sub(lhs, rhs)
	case MUL:
		r.Mul(lhs, rhs)
	case DIV, MOD:
		if rhs.Sign() == 0 {
			return nil, errors.Wrapf(ErrDivisionByZero, "evaluating %s", e.String())
		} else if e.Operator == DIV {
			// Quo truncates towards zero, as C does.
			r.Quo(lhs, rhs)
		} else {
			r.Rem(lhs, rhs)
		}
	case SHL, SHR:
		if rhs.Sign() < 0 {
			return nil, errors.Wrapf(ErrNegativeShift, "evaluating %s", e.String())
		}
		//
		n := uint(rhs.Uint64())
		//
		if e.Operator == SHL {
			r.Lsh(lhs, n)
		} else {
			r.Rsh(lhs, n)
		}
	case BITAND:
		r.And(lhs, rhs)
	case BITOR:
		r.Or(lhs, rhs)
	case BITXOR:
		r.Xor(lhs, rhs)
	}
	//
	return p.normalise(r, e.DataType), nil
}

func (p *Evaluator) evalCmp(e *Cmp) (*big.Int, error) {
	lhs, err := p.Eval(e.Left)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := p.Eval(e.Right)
	if err != nil {
		return nil, err
	}
	//
	c := lhs.Cmp(rhs)
	//
	switch e.Operator {
	case EQ:
		return boolean(c == 0), nil
	case NEQ:
		return boolean(c != 0), nil
	case LT:
		return boolean(c < 0), nil
	case LTEQ:
		return boolean(c <= 0), nil
	case GT:
		return boolean(c > 0), nil
	default:
		return boolean(c >= 0), nil
	}
}

func (p *Evaluator) evalLogical(e *Logical) (*big.Int, error) {
	for _, arg := range e.Args {
		v, err := p.Holds(arg)
		//
		switch {
		case err != nil:
			return nil, err
		case e.Operator == AND && !v:
			return boolean(false), nil
		case e.Operator == OR && v:
			return boolean(true), nil
		}
	}
	//
	return boolean(e.Operator == AND), nil
}

// Truncate a value to its type, unless unbounded arithmetic is in effect.
// Booleans are always normalised.
func (p *Evaluator) normalise(v *big.Int, datatype Type) *big.Int {
	if p.Integer && !datatype.IsBool() {
		return v
	}
	//
	return Normalise(v, datatype)
}

// Normalise a value into the range of a given type using two's complement
// wrap-around for bitvectors.
func Normalise(v *big.Int, datatype Type) *big.Int {
	switch datatype.Kind {
	case BOOL:
		return boolean(v.Sign() != 0)
	case SIGNEDBV, UNSIGNEDBV:
		var (
			modulus = new(big.Int).Lsh(big.NewInt(1), datatype.Width)
			r       = new(big.Int).Mod(v, modulus)
			_, hi   = datatype.Bounds()
		)
		//
		if datatype.IsSigned() && r.Cmp(hi) > 0 {
			r.Sub(r, modulus)
		}
		//
		return r
	default:
		return v
	}
}

func boolean(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	//
	return big.NewInt(0)
}
