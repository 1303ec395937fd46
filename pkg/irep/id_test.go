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
package irep

import (
	"fmt"
	"sync"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/util/assert"
)

func Test_Id_01(t *testing.T) {
	var (
		a = NewId("c::main")
		b = NewId("c::main")
		c = NewId("c::foo")
	)
	//
	assert.True(t, a == b, "interned identifiers differ")
	assert.False(t, a == c)
	assert.Equal(t, "c::main", a.String())
}

func Test_Id_02(t *testing.T) {
	var id = NewId("c::main::1::x")
	//
	assert.Equal(t, "c", id.Mode())
	assert.Equal(t, "x", id.BaseName())
	assert.Equal(t, []string{"c", "main", "1", "x"}, id.Components())
}

func Test_Id_03(t *testing.T) {
	var id Id
	//
	assert.True(t, id.IsEmpty())
	assert.Equal(t, "", id.String())
	assert.Equal(t, "", id.Mode())
	assert.True(t, NewId("").IsEmpty())
}

func Test_Id_04(t *testing.T) {
	var id = Join("c", "main")
	//
	assert.True(t, id == NewId("c::main"))
	assert.True(t, id.Extend("1", "i") == NewId("c::main::1::i"))
	assert.True(t, Id{}.Extend("c", "g") == NewId("c::g"))
	assert.Equal(t, "main", NewId("main").BaseName())
	assert.Equal(t, "", NewId("main").Mode())
}

func Test_Id_05(t *testing.T) {
	assert.True(t, NewId("c::a").Cmp(NewId("c::b")) < 0)
	assert.True(t, NewId("c::b").Cmp(NewId("c::a")) > 0)
	assert.Equal(t, 0, NewId("c::a").Cmp(NewId("c::a")))
}

func Test_Id_Concurrent(t *testing.T) {
	var (
		wg  sync.WaitGroup
		ids = make([]Id, 32)
	)
	//
	for i := range ids {
		wg.Add(1)
		//
		go func(i int) {
			defer wg.Done()
			ids[i] = NewId(fmt.Sprintf("c::shared%d", i%4))
		}(i)
	}
	//
	wg.Wait()
	//
	for i := range ids {
		assert.True(t, ids[i] == ids[i%4])
	}
}
