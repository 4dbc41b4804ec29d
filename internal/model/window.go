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

// Window (spec.md §3's InstructionSequence) is an owned, ordered copy of
// L instructions, 2 <= L <= Lmax. By the time a Window reaches the
// Grouper it satisfies every §4.1 safety predicate as a whole.
type Window struct {
	Ins []Instruction
}

func (w Window) Len() int { return len(w.Ins) }

// BlockSpan is one (block, start-index) leg of an Occurrence that crosses
// block boundaries.
type BlockSpan struct {
	Block      *BasicBlock
	StartIndex int
	// Count is how many of the window's instructions this leg covers.
	Count int
}

// Occurrence (spec.md §3's SequenceLocation) is a reference to where a
// Window appears in the program.
type Occurrence struct {
	Func       *Function
	Block      *BasicBlock
	StartIndex int
	// Spans is populated when the occurrence crosses block boundaries; for
	// a single-block occurrence it holds exactly one entry equal to
	// {Block, StartIndex, window length}.
	Spans []BlockSpan
	// ExecCount is the occurrence's originating block's known execution
	// count (clamped to >= 1 when used as a cost-model weight).
	ExecCount uint64
	HasProfile bool
}

func (o Occurrence) CrossesBlocks() bool {
	return len(o.Spans) > 1
}

// Weight returns the occurrence's cost-model weight: its execution count
// clamped to >= 1 when profiling is enabled, else 1 (spec.md §4.5).
func (o Occurrence) Weight(profileEnabled bool) uint64 {
	if !profileEnabled || !o.HasProfile {
		return 1
	}
	if o.ExecCount < 1 {
		return 1
	}
	return o.ExecCount
}
