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
package gotoprog

import "fmt"

// Type identifies the kind of a goto instruction.
type Type uint8

// NB: the order of these constants matters, since they are used to index
// typeStrings.
const (
	// NO_INSTRUCTION_TYPE is the zero value of an instruction type.
	NO_INSTRUCTION_TYPE Type = iota
	// GOTO branches to its target when its guard holds.
	GOTO
	// ASSUME restricts execution to states satisfying its guard.
	ASSUME
	// ASSERT checks its guard holds.
	ASSERT
	// OTHER carries code without control-flow effect (e.g. output).
	OTHER
	// SKIP does nothing.
	SKIP
	// LOCATION marks a source location.
	LOCATION
	// END_FUNCTION terminates every function body.
	END_FUNCTION
	// ATOMIC_BEGIN opens an atomic section.
	ATOMIC_BEGIN
	// ATOMIC_END closes an atomic section.
	ATOMIC_END
	// RETURN sets the return value of the enclosing function.
	RETURN
	// ASSIGN updates a variable.
	ASSIGN
	// DECL introduces a local variable.
	DECL
	// DEAD ends the lifetime of a local variable.
	DEAD
	// FUNCTION_CALL invokes a function.
	FUNCTION_CALL
	// THROW raises an exception.
	THROW
	// CATCH installs or removes exception handlers.
	CATCH
	// THROW_DECL declares the exceptions a function may throw.
	THROW_DECL
)

var typeStrings = []string{
	"NO_INSTRUCTION_TYPE", "GOTO", "ASSUME", "ASSERT", "OTHER", "SKIP", "LOCATION", "END_FUNCTION",
	"ATOMIC_BEGIN", "ATOMIC_END", "RETURN", "ASSIGN", "DECL", "DEAD", "FUNCTION_CALL", "THROW", "CATCH",
	"THROW_DECL",
}

func (p Type) String() string {
	if int(p) < len(typeStrings) {
		return typeStrings[p]
	}
	//
	return fmt.Sprintf("UNKNOWN(%d)", p)
}
