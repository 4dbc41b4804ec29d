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

// Package extract is the Sequence Extractor (spec.md §4.2): it enumerates
// every length-L window of a function that survives the Instruction
// Predicate Library's reject vector, including windows that straddle
// basic-block boundaries through the hottest successor.
package extract

import (
	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/model"
	"github.com/postlink/outliner/internal/predicate"
)

// MaxCrossBlockDepth is the hard cap on how many blocks a single
// cross-block window may span (spec.md §4.2 step 4, §9).
const MaxCrossBlockDepth = 3

// Candidate pairs a Window's content with the location it was found at —
// the Extractor's output needs both: content for the Grouper's equality
// test, location for LabeledSet claiming and overlap detection.
type Candidate struct {
	Window model.Window
	Loc    model.Occurrence
}

// Extract enumerates every admitted length-L window of fn, in block/
// position order (spec.md §4.2's determinism requirement).
func Extract(fn *model.Function, L int, enablePGO bool, counters *diag.Counters) []Candidate {
	if fn.HasEHRanges {
		return nil
	}

	var out []Candidate
	for _, bb := range fn.Blocks {
		if enablePGO && isBlockHot(bb) {
			continue
		}
		if bb.Len() >= L {
			out = append(out, slideInBlock(fn, bb, L, counters)...)
		} else {
			out = append(out, crossBlockAttempts(fn, bb, L, counters)...)
		}
	}
	return out
}

// isBlockHot reports whether profile filtering should skip bb: a block
// with a known execution count above 1 is considered hot (spec.md §4.2
// step 2). A block without profile data is treated as cold. Only the
// block's own HasProfile/ExecCount are consulted; the owning Function's
// HasProfile flag is not.
func isBlockHot(bb *model.BasicBlock) bool {
	return bb.HasProfile && bb.ExecCount > 1
}

func slideInBlock(fn *model.Function, bb *model.BasicBlock, L int, counters *diag.Counters) []Candidate {
	var out []Candidate
	for start := 0; start+L <= bb.Len(); start++ {
		win := make([]model.Instruction, 0, L)
		ok := true
		for i := 0; i < L; i++ {
			ins := bb.At(start + i)
			if r := predicate.ShouldReject(win, ins, i, L, false); r != diag.Accepted {
				if counters != nil {
					counters.RecordReject(r)
				}
				ok = false
				break
			}
			win = append(win, ins)
		}
		if !ok {
			continue
		}
		if counters != nil {
			counters.RecordAdmittedWindow()
		}
		out = append(out, Candidate{
			Window: model.Window{Ins: win},
			Loc: model.Occurrence{
				Func:       fn,
				Block:      bb,
				StartIndex: start,
				Spans:      []model.BlockSpan{{Block: bb, StartIndex: start, Count: L}},
				ExecCount:  blockExecCount(bb),
				HasProfile: fn.HasProfile,
			},
		})
	}
	return out
}

// crossBlockAttempts tries, for every starting position inside a
// shorter-than-L block, to extend the window through up to
// MaxCrossBlockDepth-1 further successor blocks (spec.md §4.2 step 4).
func crossBlockAttempts(fn *model.Function, bb *model.BasicBlock, L int, counters *diag.Counters) []Candidate {
	if model.ReachableInstructionBudget(bb, MaxCrossBlockDepth) < L {
		return nil
	}
	var out []Candidate
	for start := 0; start < bb.Len(); start++ {
		if cand, ok := crossBlockWalk(fn, bb, start, L, counters); ok {
			out = append(out, cand)
		}
	}
	return out
}

func crossBlockWalk(fn *model.Function, startBB *model.BasicBlock, start, L int, counters *diag.Counters) (Candidate, bool) {
	win := make([]model.Instruction, 0, L)
	spans := make([]model.BlockSpan, 0, MaxCrossBlockDepth)

	cur := startBB
	idx := start
	spanStart := start
	blocksVisited := 1

	for len(win) < L {
		if idx >= cur.Len() {
			// move to the best successor, closing out the current span.
			if idx > spanStart {
				spans = append(spans, model.BlockSpan{Block: cur, StartIndex: spanStart, Count: idx - spanStart})
			}
			next, ok := cur.BestSuccessor()
			if !ok || blocksVisited >= MaxCrossBlockDepth {
				return Candidate{}, false
			}
			cur = next
			idx = 0
			spanStart = 0
			blocksVisited++
			continue
		}

		ins := cur.At(idx)
		pos := len(win)
		if r := predicate.ShouldReject(win, ins, pos, L, true); r != diag.Accepted {
			if counters != nil {
				counters.RecordReject(r)
			}
			return Candidate{}, false
		}
		win = append(win, ins)
		idx++

		// Close the window as soon as we admit a call or conditional
		// branch, even if it isn't the final desired instruction — both
		// are only ever legal as a window terminator (spec.md §4.2 step 4).
		if model.IsCall(ins) || model.IsConditionalBranch(ins) {
			if len(win) != L {
				return Candidate{}, false
			}
			break
		}
	}

	if idx > spanStart {
		spans = append(spans, model.BlockSpan{Block: cur, StartIndex: spanStart, Count: idx - spanStart})
	}
	if len(win) != L {
		return Candidate{}, false
	}

	if counters != nil {
		counters.RecordAdmittedWindow()
	}
	return Candidate{
		Window: model.Window{Ins: win},
		Loc: model.Occurrence{
			Func:       fn,
			Block:      startBB,
			StartIndex: start,
			Spans:      spans,
			ExecCount:  blockExecCount(startBB),
			HasProfile: fn.HasProfile,
		},
	}, true
}

func blockExecCount(bb *model.BasicBlock) uint64 {
	return bb.ExecCount
}
