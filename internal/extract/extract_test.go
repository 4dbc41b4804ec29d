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

package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/postlink/outliner/internal/model"
)

func mov(r model.Reg, imm int64) model.Instruction {
	return model.Instruction{Op: arm64asm.MOVZ, Operands: []model.Operand{model.Register(r), model.Immediate(imm)}}
}

func straightLineFunction(n int) *model.Function {
	fn := &model.Function{Name: "f"}
	bb := &model.BasicBlock{Index: 0, Func: fn}
	for i := 0; i < n; i++ {
		bb.Ins = append(bb.Ins, mov(model.X0, int64(i)))
	}
	fn.Blocks = []*model.BasicBlock{bb}
	return fn
}

func TestExtractSlidesEveryAdmittedWindowInBlock(t *testing.T) {
	fn := straightLineFunction(5)
	cands := Extract(fn, 3, false, nil)

	require.Len(t, cands, 3, "5 instructions, L=3 -> 3 sliding windows")
	for i, c := range cands {
		require.Equal(t, i, c.Loc.StartIndex)
		require.Len(t, c.Window.Ins, 3)
	}
}

func TestExtractSkipsHotBlocksUnderPGO(t *testing.T) {
	fn := straightLineFunction(5)
	fn.Blocks[0].HasProfile = true
	fn.Blocks[0].ExecCount = 100

	cands := Extract(fn, 3, true, nil)
	require.Empty(t, cands, "a block with known execution count > 1 must be skipped when PGO filtering is enabled")

	// the same function, same block, is still eligible when PGO is off.
	candsNoPGO := Extract(fn, 3, false, nil)
	require.NotEmpty(t, candsNoPGO)
}

func TestExtractSkipsFunctionsWithEHRanges(t *testing.T) {
	fn := straightLineFunction(5)
	fn.HasEHRanges = true
	require.Empty(t, Extract(fn, 3, false, nil))
}

func TestExtractRejectsWindowWithCallMidPosition(t *testing.T) {
	fn := &model.Function{Name: "f"}
	bb := &model.BasicBlock{Index: 0, Func: fn}
	bb.Ins = []model.Instruction{mov(model.X0, 1), model.MakeCall("x"), mov(model.X1, 2)}
	fn.Blocks = []*model.BasicBlock{bb}

	cands := Extract(fn, 3, false, nil)
	require.Empty(t, cands, "a call that isn't the final instruction of the window must reject that window")
}

func TestCrossBlockWalkRespectsDepthCap(t *testing.T) {
	// a chain of single-instruction blocks longer than MaxCrossBlockDepth,
	// each falling straight through to the next.
	fn := &model.Function{Name: "chain"}
	blocks := make([]*model.BasicBlock, MaxCrossBlockDepth+2)
	for i := range blocks {
		blocks[i] = &model.BasicBlock{Index: i, Func: fn, Ins: []model.Instruction{mov(model.X0, int64(i))}}
	}
	for i := 0; i < len(blocks)-1; i++ {
		blocks[i].Successors = []model.Successor{{Block: blocks[i+1]}}
	}
	fn.Blocks = blocks

	// a window long enough to need more blocks than the cap allows must be rejected.
	cands := Extract(fn, MaxCrossBlockDepth+2, false, nil)
	require.Empty(t, cands)
}
