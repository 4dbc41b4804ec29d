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

// Package rewrite is the Call-Site Rewriter (spec.md §4.7): LR-save
// analysis, locating occurrences, and replacing them with trampolines.
package rewrite

import "github.com/postlink/outliner/internal/model"

// lrSavedAt implements spec.md §4.7.1: scanning from the entry block
// forward to occ (the whole entry block if occ isn't in it, else up to
// occ's start index), a push/store naming LR before any terminator or
// call means LR is already saved at this point.
func lrSavedAt(occ model.Occurrence) bool {
	entry := occ.Func.Blocks[0]
	limit := len(entry.Ins)
	if occ.Block == entry {
		limit = occ.StartIndex
	}
	for i := 0; i < limit; i++ {
		ins := entry.At(i)
		if model.IsCall(ins) || isTerminator(ins) {
			return false
		}
		if model.MayStore(ins) && model.ReadsOrWrites(ins, model.LR) {
			return true
		}
	}
	return false
}

func isTerminator(ins model.Instruction) bool {
	return model.IsBranch(ins) || model.IsReturn(ins)
}

// followsReturn implements the "unsafe" half of §4.7.1: true if occ sits
// after a return instruction, either earlier in its own block or in any
// earlier (layout-order) block of the function.
func followsReturn(occ model.Occurrence) bool {
	for _, bb := range occ.Func.Blocks {
		if bb.Index < occ.Block.Index {
			for _, ins := range bb.Ins {
				if model.IsReturn(ins) {
					return true
				}
			}
			continue
		}
		if bb == occ.Block {
			for i := 0; i < occ.StartIndex; i++ {
				if model.IsReturn(bb.At(i)) {
					return true
				}
			}
			break
		}
	}
	return false
}

// NeedsSandwich reports whether occ requires the save/call/restore
// sandwich trampoline rather than a bare call: its function is a leaf, or
// LR isn't saved at this point, or the site is unsafe (spec.md §4.5,
// §4.7.1, §4.7.3).
func NeedsSandwich(occ model.Occurrence) bool {
	if occ.Func.IsLeaf() {
		return true
	}
	if followsReturn(occ) {
		return true
	}
	return !lrSavedAt(occ)
}
