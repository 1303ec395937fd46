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

import "github.com/pkg/errors"

// ErrNotFound indicates a lookup for a function which is not in the table.
var ErrNotFound = errors.New("function not found")

// ErrOutOfRange indicates an instruction index outside of a program.
var ErrOutOfRange = errors.New("instruction index out of range")

// ErrDanglingTarget indicates a branch whose target lies outside the program
// containing it.
var ErrDanglingTarget = errors.New("dangling branch target")

// ErrSessionClosed indicates an access to a program (or function table) after
// it has been released.
var ErrSessionClosed = errors.New("session closed")

// ErrMalformed indicates a program which is not well-formed for some reason
// other than a dangling target (e.g. missing END_FUNCTION).
var ErrMalformed = errors.New("malformed program")
