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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func chainOfLen1Blocks(n int) []*BasicBlock {
	blocks := make([]*BasicBlock, n)
	for i := range blocks {
		blocks[i] = &BasicBlock{Index: i, Ins: []Instruction{{Op: OpZero}}}
	}
	for i := 0; i < n-1; i++ {
		blocks[i].Successors = []Successor{{Block: blocks[i+1]}}
	}
	return blocks
}

func TestReachableInstructionBudgetStopsAtDepthCap(t *testing.T) {
	blocks := chainOfLen1Blocks(5)
	// depth 0 (blocks[0] itself), depth 1 (blocks[1]), depth 2 (blocks[2])
	// are within a cap of 3; blocks[3] and blocks[4] are not.
	require.Equal(t, 3, ReachableInstructionBudget(blocks[0], 3))
}

func TestReachableInstructionBudgetCountsOwnBlockWithNoSuccessors(t *testing.T) {
	bb := &BasicBlock{Ins: []Instruction{{Op: OpZero}, {Op: OpZero}}}
	require.Equal(t, 2, ReachableInstructionBudget(bb, 3))
}

func TestReachableInstructionBudgetVisitsEachDiamondBranchOnce(t *testing.T) {
	join := &BasicBlock{Ins: []Instruction{{Op: OpZero}}}
	left := &BasicBlock{Ins: []Instruction{{Op: OpZero}, {Op: OpZero}}, Successors: []Successor{{Block: join}}}
	right := &BasicBlock{Ins: []Instruction{{Op: OpZero}, {Op: OpZero}, {Op: OpZero}}, Successors: []Successor{{Block: join}}}
	entry := &BasicBlock{Ins: []Instruction{{Op: OpZero}}, Successors: []Successor{{Block: left}, {Block: right}}}

	// entry(1) + left(2) + right(3) at depth 1, join(1) at depth 2: 7 total,
	// and join must only be counted once despite being reachable from both
	// branches.
	require.Equal(t, 7, ReachableInstructionBudget(entry, 3))
}

func TestReachableInstructionBudgetNilBlockIsZero(t *testing.T) {
	require.Equal(t, 0, ReachableInstructionBudget(nil, 3))
}
