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

import "github.com/oleiade/lane"

// reachNode is one frontier entry in ReachableInstructionBudget's walk: a
// block together with how many successor hops it took to reach it.
type reachNode struct {
	block *BasicBlock
	depth int
}

// ReachableInstructionBudget breadth-first walks bb's successor graph up to
// maxDepth hops — the same queue-plus-visited-set shape frugal's own
// BasicBlock.Free uses to traverse a CFG iteratively instead of recursing —
// and sums the instruction count of every block the walk reaches, bb
// included. The Extractor and the Rewriter's location search both call this
// before attempting a per-instruction cross-block walk from bb: if even the
// best case (every reachable instruction usable) can't cover the window
// length, the walk is certain to fail and there is no point starting it.
func ReachableInstructionBudget(bb *BasicBlock, maxDepth int) int {
	if bb == nil {
		return 0
	}

	visited := map[*BasicBlock]bool{bb: true}
	q := lane.NewQueue()
	q.Enqueue(reachNode{block: bb, depth: 0})

	total := 0
	for !q.Empty() {
		n := q.Dequeue().(reachNode)
		total += n.block.Len()
		if n.depth+1 >= maxDepth {
			continue
		}
		for _, s := range n.block.Successors {
			if visited[s.Block] {
				continue
			}
			visited[s.Block] = true
			q.Enqueue(reachNode{block: s.Block, depth: n.depth + 1})
		}
	}
	return total
}
