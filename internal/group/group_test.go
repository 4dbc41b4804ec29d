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

package group

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/postlink/outliner/internal/extract"
	"github.com/postlink/outliner/internal/model"
)

func mov(r model.Reg, imm int64) model.Instruction {
	return model.Instruction{Op: arm64asm.MOVZ, Operands: []model.Operand{model.Register(r), model.Immediate(imm)}}
}

func candidateAt(bb *model.BasicBlock, start, count int, win []model.Instruction) extract.Candidate {
	return extract.Candidate{
		Window: model.Window{Ins: win},
		Loc: model.Occurrence{
			Block:      bb,
			StartIndex: start,
			Spans:      []model.BlockSpan{{Block: bb, StartIndex: start, Count: count}},
		},
	}
}

func TestGroupClustersIdenticalWindowsAtDisjointLocations(t *testing.T) {
	bb := &model.BasicBlock{Index: 0}
	win := func() []model.Instruction { return []model.Instruction{mov(model.X0, 1), mov(model.X1, 2)} }

	cands := []extract.Candidate{
		candidateAt(bb, 0, 2, win()),
		candidateAt(bb, 2, 2, win()),
		candidateAt(bb, 4, 2, win()),
	}

	clusters := Group(cands, false)
	require.Len(t, clusters, 1)
	require.Equal(t, 3, clusters[0].Frequency)
}

func TestGroupSeparatesDistinctWindows(t *testing.T) {
	bb := &model.BasicBlock{Index: 0}
	a := []model.Instruction{mov(model.X0, 1)}
	b := []model.Instruction{mov(model.X0, 2)}

	cands := []extract.Candidate{
		candidateAt(bb, 0, 1, a),
		candidateAt(bb, 1, 1, b),
	}

	clusters := Group(cands, false)
	require.Len(t, clusters, 2)
	for _, cl := range clusters {
		require.Equal(t, 1, cl.Frequency)
	}
}

func TestGroupOverlappingOccurrencesDoNotBothJoinOneCluster(t *testing.T) {
	bb := &model.BasicBlock{Index: 0}
	win := []model.Instruction{mov(model.X0, 1), mov(model.X1, 2)}

	// two candidates whose spans overlap (index 0-2 and 1-3) with
	// byte-identical content: the second must not also match the anchor.
	cands := []extract.Candidate{
		candidateAt(bb, 0, 2, win),
		candidateAt(bb, 1, 2, win),
	}

	clusters := Group(cands, false)
	require.Len(t, clusters, 2, "overlapping occurrences must not be grouped into the same cluster")
}

func TestGroupRespectsImmediateToleranceFlag(t *testing.T) {
	bb := &model.BasicBlock{Index: 0}
	a := []model.Instruction{{Op: arm64asm.ADD, Operands: []model.Operand{model.Register(model.X0), model.Register(model.X1), model.Immediate(10)}}}
	b := []model.Instruction{{Op: arm64asm.ADD, Operands: []model.Operand{model.Register(model.X0), model.Register(model.X1), model.Immediate(11)}}}

	cands := []extract.Candidate{
		candidateAt(bb, 0, 1, a),
		candidateAt(bb, 1, 1, b),
	}

	strict := Group(cands, false)
	require.Len(t, strict, 2, "without tolerance, differing immediates must not merge")

	tolerant := Group(cands, true)
	require.Len(t, tolerant, 1, "with tolerance, a +/-1 immediate diff within range must merge")
}
