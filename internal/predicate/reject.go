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

// Package predicate is the Instruction Predicate Library (spec.md §4.1):
// it classifies instructions and applies the nine-reason reject vector a
// candidate window must pass to be admitted to grouping.
package predicate

import (
	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/model"
)

// ShortWindowThreshold is the L below which reason 9 (any SP-use that
// isn't an immediate-displacement load) additionally applies.
const ShortWindowThreshold = 5

// ShouldReject implements the spec.md §4.1 reject vector for one
// instruction at a given position within a window under construction.
//
//   - soFar holds the instructions already admitted earlier in this same
//     window (needed for reason 3's "no preceding instruction writes
//     through SP" check).
//   - position is ins's zero-based index within the eventual window;
//     windowLength is the window's total target length.
//   - allowBranchAtEnd mirrors the Extractor's cross-block mode: a
//     conditional branch is only ever accepted at the final position, and
//     only when this is true.
func ShouldReject(soFar []model.Instruction, ins model.Instruction, position, windowLength int, allowBranchAtEnd bool) diag.RejectReason {
	isLast := position == windowLength-1

	// 1. Pseudo/CFI/opcode-zero.
	if model.IsPseudo(ins) || model.IsCFI(ins) {
		return diag.ReasonPseudoOrCFI
	}

	// 2. Return anywhere.
	if model.IsReturn(ins) {
		return diag.ReasonReturn
	}

	// 3. Call mid-window: only legal as the final instruction, and only if
	// no preceding instruction in the window writes through SP.
	if model.IsCall(ins) {
		if !isLast {
			return diag.ReasonCallMidWindow
		}
		for _, prev := range soFar {
			if model.MayStore(prev) && model.UsesSPAsBase(prev) {
				return diag.ReasonCallMidWindow
			}
		}
	}

	// 4. Branch mid-window. Unconditional branch is always rejected
	// (spec.md §9: resolve the source's inconsistency by preferring the
	// stricter reading uniformly, in-block or cross-block). A conditional
	// branch is accepted only at the final position when cross-block
	// extension is permitted.
	if model.IsBranch(ins) {
		if model.IsUnconditionalBranch(ins) {
			return diag.ReasonBranchMidWindow
		}
		if !isLast || !allowBranchAtEnd {
			return diag.ReasonBranchMidWindow
		}
	}

	// 5. PC-relative materialization.
	if model.IsPCRelativeMaterialization(ins) {
		return diag.ReasonPCRelativeMaterialization
	}

	// 6. Any read or write of FP or LR.
	if model.ReadsOrWrites(ins, model.FP) || model.ReadsOrWrites(ins, model.LR) {
		return diag.ReasonFPOrLRUse
	}

	// 7. Any definition of SP.
	if model.DefinesReg(ins, model.SP) {
		return diag.ReasonSPDefinition
	}

	// 8. Store that uses SP as a base.
	if model.MayStore(ins) && model.UsesSPAsBase(ins) {
		return diag.ReasonStoreUsesSPBase
	}

	// 9. For short windows (L < 5), any stack-base access through SP that is
	// not a load with an immediate displacement. This keys on UsesSPAsBase
	// rather than any SP mention so a push/pop pair (values-first operand
	// order) doesn't trip it the way a genuine stack access does.
	if windowLength < ShortWindowThreshold && model.UsesSPAsBase(ins) {
		if !(model.MayLoad(ins) && model.HasImmediateDisplacement(ins)) {
			return diag.ReasonShortWindowSPUse
		}
	}

	return diag.Accepted
}
