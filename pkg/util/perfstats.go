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
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time and allocation counters at the start of some
// piece of work, such that the cost of that work can be reported afterwards.
type PerfStats struct {
	started time.Time
	// Total bytes allocated at start
	allocated uint64
	// Number of completed GC cycles at start
	cycles uint32
}

// NewPerfStats takes a snapshot of the current time and allocation counters.
func NewPerfStats() PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Elapsed returns the time since this snapshot was taken.
func (p PerfStats) Elapsed() time.Duration {
	return time.Since(p.started)
}

// Log reports (at debug level) the time taken and memory allocated since this
// snapshot was taken.
func (p PerfStats) Log(what string) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	log.WithFields(log.Fields{
		"elapsed": p.Elapsed().Round(time.Microsecond),
		"alloc":   kilobytes(m.TotalAlloc - p.allocated),
		"gc":      m.NumGC - p.cycles,
	}).Debug(what)
}

func kilobytes(n uint64) string {
	return fmt.Sprintf("%dKb", n/1024)
}
