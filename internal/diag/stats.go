/*
 * Copyright 2024 The Outliner Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package diag holds the pass's diagnostic counters (spec.md §7: "with
// debug enabled, per-function counters of admitted windows, rejection
// reasons, cost decisions, and synthesized function statistics are emitted
// to the host's diagnostic stream"), in the same shape as frugal's own
// debug.Stats/debug.GetStats.
package diag

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
)

// RejectReason enumerates the nine rejection triggers of spec.md §4.1,
// plus Accepted for windows that passed every filter.
type RejectReason int

const (
	Accepted RejectReason = iota
	ReasonPseudoOrCFI
	ReasonReturn
	ReasonCallMidWindow
	ReasonBranchMidWindow
	ReasonPCRelativeMaterialization
	ReasonFPOrLRUse
	ReasonSPDefinition
	ReasonStoreUsesSPBase
	ReasonShortWindowSPUse
	_numReasons
)

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case ReasonPseudoOrCFI:
		return "pseudo-or-cfi"
	case ReasonReturn:
		return "return-mid-window"
	case ReasonCallMidWindow:
		return "call-mid-window"
	case ReasonBranchMidWindow:
		return "branch-mid-window"
	case ReasonPCRelativeMaterialization:
		return "pc-relative-materialization"
	case ReasonFPOrLRUse:
		return "fp-or-lr-use"
	case ReasonSPDefinition:
		return "sp-definition"
	case ReasonStoreUsesSPBase:
		return "store-uses-sp-base"
	case ReasonShortWindowSPUse:
		return "short-window-sp-use"
	default:
		return "unknown"
	}
}

// Counters is a pass-scoped set of atomic diagnostic counters. The zero
// value is ready to use.
type Counters struct {
	rejects   [_numReasons]int64
	admitted  int64
	costKept  int64
	costDrop  int64
	synthed   int64
	wrapped   int64
	bytesSave int64

	warnMu   sync.Mutex
	warnings []string
}

func (c *Counters) RecordReject(r RejectReason) {
	atomic.AddInt64(&c.rejects[r], 1)
}

func (c *Counters) RecordAdmittedWindow() {
	atomic.AddInt64(&c.admitted, 1)
}

func (c *Counters) RecordCostDecision(admit bool) {
	if admit {
		atomic.AddInt64(&c.costKept, 1)
	} else {
		atomic.AddInt64(&c.costDrop, 1)
	}
}

func (c *Counters) RecordSynthesized(bytesSaved int64) {
	atomic.AddInt64(&c.synthed, 1)
	atomic.AddInt64(&c.bytesSave, bytesSaved)
}

func (c *Counters) RecordWrapperInlined() {
	atomic.AddInt64(&c.wrapped, 1)
}

// RecordWarning appends a formatted diagnostic (typically the output of
// Dump) to the pass's warning log, for surfacing through Stats.Warnings
// once Options.Debug is set (spec.md §4.6 step 4's "non-integer division
// is a diagnostic warning").
func (c *Counters) RecordWarning(msg string) {
	c.warnMu.Lock()
	c.warnings = append(c.warnings, msg)
	c.warnMu.Unlock()
}

// Stats is an immutable snapshot of Counters, analogous to frugal's
// debug.Stats / debug.GetStats.
type Stats struct {
	Rejects          map[string]int64
	AdmittedWindows  int64
	CostAdmitted     int64
	CostRejected     int64
	FunctionsEmitted int64
	WrappersInlined  int64
	BytesSaved       int64
	Warnings         []string
}

// Snapshot returns a point-in-time copy of c.
func (c *Counters) Snapshot() Stats {
	rej := make(map[string]int64, _numReasons)
	for r := RejectReason(0); r < _numReasons; r++ {
		if v := atomic.LoadInt64(&c.rejects[r]); v != 0 {
			rej[r.String()] = v
		}
	}
	c.warnMu.Lock()
	warnings := append([]string(nil), c.warnings...)
	c.warnMu.Unlock()

	return Stats{
		Rejects:          rej,
		AdmittedWindows:  atomic.LoadInt64(&c.admitted),
		CostAdmitted:     atomic.LoadInt64(&c.costKept),
		CostRejected:     atomic.LoadInt64(&c.costDrop),
		FunctionsEmitted: atomic.LoadInt64(&c.synthed),
		WrappersInlined:  atomic.LoadInt64(&c.wrapped),
		BytesSaved:       atomic.LoadInt64(&c.bytesSave),
		Warnings:         warnings,
	}
}

// Dump formats v with go-spew under label. It accepts any value, including
// Window/InjectedFunction structures whose nested operand slices read
// poorly under a plain %v; the driver uses it to wrap the synthesizer
// warnings it records when Options.Debug is set (spec.md §7's "diagnostic
// tracing").
func Dump(label string, v interface{}) string {
	return fmt.Sprintf("%s: %s", label, spew.Sdump(v))
}
