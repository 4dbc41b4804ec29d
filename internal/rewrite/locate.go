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

package rewrite

import (
	"github.com/postlink/outliner/internal/model"
)

// MaxCrossBlockDepth mirrors extract.MaxCrossBlockDepth — both the
// Extractor and the Rewriter's location search share the same
// successor-walk depth cap (spec.md §4.2, §4.7.2).
const MaxCrossBlockDepth = 3

// FindLocations implements spec.md §4.7.2: every (block, start-index)
// where window appears, verbatim — the rewriter only ever materializes
// exact textual matches, never tolerant ones.
func FindLocations(fn *model.Function, window model.Window) []model.Occurrence {
	L := len(window.Ins)
	var out []model.Occurrence

	for _, bb := range fn.Blocks {
		if bb.Len() >= L {
			out = append(out, inBlockMatches(fn, bb, window)...)
		} else {
			out = append(out, crossBlockMatches(fn, bb, window)...)
		}
	}
	return out
}

func inBlockMatches(fn *model.Function, bb *model.BasicBlock, window model.Window) []model.Occurrence {
	L := len(window.Ins)
	var out []model.Occurrence
	for start := 0; start+L <= bb.Len(); start++ {
		match := true
		for i := 0; i < L; i++ {
			if !strictEqual(bb.At(start+i), window.Ins[i]) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		out = append(out, model.Occurrence{
			Func:       fn,
			Block:      bb,
			StartIndex: start,
			Spans:      []model.BlockSpan{{Block: bb, StartIndex: start, Count: L}},
			ExecCount:  bb.ExecCount,
			HasProfile: bb.HasProfile,
		})
	}
	return out
}

// crossBlockMatches walks successors the same way the Extractor does, but
// demanding strict textual equality at each step and accepting completion
// only when the final matched instruction is a conditional branch — the
// only legal cross-block terminator (spec.md §4.7.2).
func crossBlockMatches(fn *model.Function, startBB *model.BasicBlock, window model.Window) []model.Occurrence {
	if model.ReachableInstructionBudget(startBB, MaxCrossBlockDepth) < len(window.Ins) {
		return nil
	}
	var out []model.Occurrence
	for start := 0; start < startBB.Len(); start++ {
		if occ, ok := crossBlockMatchFrom(fn, startBB, start, window); ok {
			out = append(out, occ)
		}
	}
	return out
}

func crossBlockMatchFrom(fn *model.Function, startBB *model.BasicBlock, start int, window model.Window) (model.Occurrence, bool) {
	L := len(window.Ins)
	spans := make([]model.BlockSpan, 0, MaxCrossBlockDepth)

	cur := startBB
	idx := start
	spanStart := start
	blocksVisited := 1
	matched := 0
	var last model.Instruction

	for matched < L {
		if idx >= cur.Len() {
			if idx > spanStart {
				spans = append(spans, model.BlockSpan{Block: cur, StartIndex: spanStart, Count: idx - spanStart})
			}
			next, ok := cur.BestSuccessor()
			if !ok || blocksVisited >= MaxCrossBlockDepth {
				return model.Occurrence{}, false
			}
			cur = next
			idx = 0
			spanStart = 0
			blocksVisited++
			continue
		}
		ins := cur.At(idx)
		if !strictEqual(ins, window.Ins[matched]) {
			return model.Occurrence{}, false
		}
		last = ins
		idx++
		matched++
	}

	if idx > spanStart {
		spans = append(spans, model.BlockSpan{Block: cur, StartIndex: spanStart, Count: idx - spanStart})
	}
	if len(spans) <= 1 {
		// Not actually cross-block; inBlockMatches already covers this case.
		return model.Occurrence{}, false
	}
	if !model.IsConditionalBranch(last) {
		return model.Occurrence{}, false
	}

	return model.Occurrence{
		Func:       fn,
		Block:      startBB,
		StartIndex: start,
		Spans:      spans,
		ExecCount:  startBB.ExecCount,
		HasProfile: startBB.HasProfile,
	}, true
}

func strictEqual(a, b model.Instruction) bool {
	if a.Op != b.Op || len(a.Operands) != len(b.Operands) {
		return false
	}
	for i := range a.Operands {
		if !a.Operands[i].Equal(b.Operands[i]) {
			return false
		}
	}
	return true
}
