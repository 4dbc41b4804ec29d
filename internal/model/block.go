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

package model

// Successor is one outgoing CFG edge with its known (profile) execution
// count. A zero Count with Known=false means "no profile data".
type Successor struct {
	Block *BasicBlock
	Count uint64
	Known bool
}

// BasicBlock is an ordered sequence of Instructions belonging to one
// Function, with a stable successor list (spec.md §3). Mutation goes
// through Insert/Erase so that index-based handles taken during extraction
// stay valid for the remainder of one episode (spec.md §9: prefer
// arena+index handles over raw pointers).
type BasicBlock struct {
	Index      int
	Func       *Function
	Ins        []Instruction
	Successors []Successor

	// HasProfile/ExecCount are the block's own known execution count
	// (spec.md §4.2 step 2's "basic block whose known execution count is
	// > 1"), independent of the owning Function's aggregate count.
	HasProfile bool
	ExecCount  uint64
}

// Len returns the number of instructions in the block.
func (bb *BasicBlock) Len() int { return len(bb.Ins) }

// At returns the instruction at position i.
func (bb *BasicBlock) At(i int) Instruction { return bb.Ins[i] }

// Insert inserts ins at position i, shifting later instructions up.
func (bb *BasicBlock) Insert(i int, ins ...Instruction) {
	bb.Ins = append(bb.Ins[:i], append(append([]Instruction{}, ins...), bb.Ins[i:]...)...)
}

// Erase removes the instructions in [from, to).
func (bb *BasicBlock) Erase(from, to int) {
	bb.Ins = append(bb.Ins[:from], bb.Ins[to:]...)
}

// Overwrite replaces the instruction at position i.
func (bb *BasicBlock) Overwrite(i int, ins Instruction) {
	bb.Ins[i] = ins
}

// BestSuccessor implements the "sole successor, else hottest, ties to
// first-listed" rule used by both the Extractor (spec.md §4.2 step 4) and
// the Call-Site Rewriter's location search (spec.md §4.7.2).
func (bb *BasicBlock) BestSuccessor() (*BasicBlock, bool) {
	if len(bb.Successors) == 0 {
		return nil, false
	}
	if len(bb.Successors) == 1 {
		return bb.Successors[0].Block, true
	}
	best := 0
	for i := 1; i < len(bb.Successors); i++ {
		if bb.Successors[i].Count > bb.Successors[best].Count {
			best = i
		}
	}
	return bb.Successors[best].Block, true
}
