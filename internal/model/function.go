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

// Origin distinguishes a Function present in the input program from one
// synthesized by this pass (spec.md §3).
type Origin uint8

const (
	OriginOriginal Origin = iota
	OriginInjected
)

// Function is an ordered sequence of BasicBlocks (layout order, spec.md
// §5's "iteration over basic blocks follows layout order").
type Function struct {
	Name    string
	ID      int
	Origin  Origin
	Blocks  []*BasicBlock
	Section string

	HasProfile  bool
	ExecCount   uint64
	HasEHRanges bool

	// Ignored marks an injected function the Intermediate Simplifier has
	// folded away (spec.md §4.8); the host drops it during emission.
	Ignored bool
}

// IsLeaf reports whether f issues no call of its own anywhere in its body —
// "leaf function (in the caller sense)" from the GLOSSARY: such callers
// have not saved LR and need the sandwich trampoline.
func (f *Function) IsLeaf() bool {
	for _, bb := range f.Blocks {
		for _, ins := range bb.Ins {
			if IsCall(ins) {
				return false
			}
		}
	}
	return true
}

// Block returns the block at index i, or nil if out of range.
func (f *Function) Block(i int) *BasicBlock {
	if i < 0 || i >= len(f.Blocks) {
		return nil
	}
	return f.Blocks[i]
}

// Optimizable reports whether the function is eligible for extraction at
// all: non-empty and lacking EH ranges (spec.md §4.2 step 1, §4.9).
func (f *Function) Optimizable() bool {
	if f.HasEHRanges {
		return false
	}
	for _, bb := range f.Blocks {
		if bb.Len() > 0 {
			return true
		}
	}
	return false
}
