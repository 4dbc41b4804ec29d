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

// Package cost is the Cost Model (spec.md §4.5): it turns an anchor window
// and its located occurrences into an admit/reject decision, weighing
// trampoline overhead against the bytes saved by sharing the body once.
package cost

import (
	"gonum.org/v1/gonum/stat"

	"github.com/postlink/outliner/internal/model"
	"github.com/postlink/outliner/internal/rewrite"
)

// bareCallBytes and sandwichBytes are the two trampoline shapes a call
// site can take (spec.md §4.5).
const (
	bareCallBytes  = 4
	sandwichBytes  = 12
	pureReturnOnly = 4
	prologueBytes  = 4
	epilogueBytes  = 4
)

// Decision is the Cost Model's verdict for one anchor window.
type Decision struct {
	Pure        bool
	BodyBytes   int64
	Savings     int64
	Cost        int64
	Threshold   int64
	Admit       bool
	Sandwiches  []bool // parallel to the Occurrences slice passed to Evaluate
}

// Pure implements spec.md §4.5's purity predicate: no call anywhere in W,
// no mid-window conditional branch (only a final-position one is tolerated
// and it still disqualifies purity), no SP-based load/store, no FP use.
func Pure(w model.Window) bool {
	for _, ins := range w.Ins {
		if model.IsCall(ins) {
			return false
		}
		if model.IsConditionalBranch(ins) {
			return false
		}
		if (model.MayLoad(ins) || model.MayStore(ins)) && model.UsesSPAsBase(ins) {
			return false
		}
		if model.ReadsOrWrites(ins, model.FP) {
			return false
		}
	}
	return true
}

// bodyBytes implements spec.md §4.5's body byte size formula.
func bodyBytes(pure bool, L int) int64 {
	n := int64(4*L + pureReturnOnly)
	if !pure {
		n += prologueBytes + epilogueBytes
	}
	return n
}

// weightedFrequency implements spec.md §4.5's F: the sum of each
// occurrence's clamped execution-count weight under PGO, else the raw
// occurrence count.
func weightedFrequency(occs []model.Occurrence, profileEnabled bool) (total float64, weights []float64) {
	weights = make([]float64, len(occs))
	for i, o := range occs {
		weights[i] = float64(o.Weight(profileEnabled))
		total += weights[i]
	}
	return total, weights
}

// threshold implements spec.md §4.5's tiered admission bar.
func threshold(pure bool, avgFreq float64, count int) int64 {
	if !pure {
		return 0
	}
	switch {
	case avgFreq >= 3 || count >= 3:
		return -4
	case avgFreq >= 2 || count >= 2:
		return 0
	default:
		return 4
	}
}

// Evaluate implements spec.md §4.5 end to end for one anchor window and its
// located occurrences (as already produced by rewrite.FindLocations and
// filtered by the §4.5 early-reject rule in the caller's driver loop).
func Evaluate(w model.Window, occs []model.Occurrence, profileEnabled bool) Decision {
	pure := Pure(w)
	L := w.Len()

	sandwiches := make([]bool, len(occs))
	var trampolineBytes int64
	for i, o := range occs {
		// Trampoline shape is decided by the call site's own safety
		// (leaf host, unsaved LR, unsafe position), independent of the
		// callee body's purity (spec.md §4.5).
		sandwiches[i] = rewrite.NeedsSandwich(o)
		if sandwiches[i] {
			trampolineBytes += sandwichBytes
		} else {
			trampolineBytes += bareCallBytes
		}
	}

	total, weights := weightedFrequency(occs, profileEnabled)
	avgFreq := 0.0
	if len(weights) > 0 {
		avgFreq = stat.Mean(weights, nil)
	}

	body := bodyBytes(pure, L)
	savings := int64(4*L) * int64(total)
	costVal := body + trampolineBytes
	t := threshold(pure, avgFreq, len(occs))

	return Decision{
		Pure:       pure,
		BodyBytes:  body,
		Savings:    savings,
		Cost:       costVal,
		Threshold:  t,
		Admit:      savings-costVal > t,
		Sandwiches: sandwiches,
	}
}

// UnderCounted implements spec.md §4.5's early-reject heuristic: when the
// number of located occurrences falls below half the grouper's claimed
// frequency, the match was likely overcounted by the hash/structural test
// and the anchor should be skipped before a full Evaluate.
func UnderCounted(locatedCount, groupedFrequency int) bool {
	return float64(locatedCount) < float64(groupedFrequency)/2
}
