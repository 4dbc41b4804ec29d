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

package simplify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/model"
)

func wrapperFunction(name, callee string) *model.Function {
	fn := &model.Function{Name: name, Origin: model.OriginInjected}
	bb := &model.BasicBlock{Index: 0, Func: fn}
	bb.Ins = []model.Instruction{model.MakePushPair(model.FP, model.LR), model.MakeCall(callee), model.MakePopPair(model.FP, model.LR), model.MakeReturn()}
	fn.Blocks = []*model.BasicBlock{bb}
	return fn
}

func TestTrivialWrapperCalleeAcceptsPushCallPopReturn(t *testing.T) {
	fn := wrapperFunction("PLO_outlined_1", "PLO_outlined_2")
	callee, ok := trivialWrapperCallee(fn)
	require.True(t, ok)
	require.Equal(t, "PLO_outlined_2", callee)
}

func TestTrivialWrapperCalleeRejectsExtraInstruction(t *testing.T) {
	fn := wrapperFunction("w", "callee")
	fn.Blocks[0].Ins = append([]model.Instruction{{Op: model.OpZero}}, fn.Blocks[0].Ins...)
	_, ok := trivialWrapperCallee(fn)
	require.False(t, ok, "an OpZero pseudo instruction isn't push/pop/call/return, so the wrapper isn't trivial")
}

func TestTrivialWrapperCalleeRejectsMultipleCalls(t *testing.T) {
	fn := &model.Function{Name: "w", Origin: model.OriginInjected}
	bb := &model.BasicBlock{Index: 0, Func: fn}
	bb.Ins = []model.Instruction{model.MakePushPair(model.FP, model.LR), model.MakeCall("a"), model.MakeCall("b"), model.MakePopPair(model.FP, model.LR), model.MakeReturn()}
	fn.Blocks = []*model.BasicBlock{bb}

	_, ok := trivialWrapperCallee(fn)
	require.False(t, ok)
}

func TestRunInlinesWrapperAndRetargetsCallers(t *testing.T) {
	prog := model.NewProgram()

	real := &model.Function{Name: "PLO_outlined_2", Origin: model.OriginInjected, ID: 2}
	real.Blocks = []*model.BasicBlock{{Index: 0, Func: real, Ins: []model.Instruction{model.MakeReturn()}}}

	wrapper := wrapperFunction("PLO_outlined_1", "PLO_outlined_2")
	wrapper.ID = 1

	caller := &model.Function{Name: "main", ID: 3}
	callerBB := &model.BasicBlock{Index: 0, Func: caller}
	callerBB.Ins = []model.Instruction{model.MakeCall("PLO_outlined_1")}
	caller.Blocks = []*model.BasicBlock{callerBB}

	prog.AddFunction(real)
	prog.AddFunction(wrapper)
	prog.AddFunction(caller)

	counters := &diag.Counters{}
	Run(prog, counters)

	require.True(t, wrapper.Ignored, "a trivial wrapper must be marked ignored once inlined")
	sym, ok := model.IsDirectCall(callerBB.Ins[0])
	require.True(t, ok)
	require.Equal(t, "PLO_outlined_2", sym, "the caller must be retargeted straight to the wrapper's callee")
}

func TestRunFollowsWrapperChains(t *testing.T) {
	prog := model.NewProgram()

	real := &model.Function{Name: "real", Origin: model.OriginInjected, ID: 1}
	real.Blocks = []*model.BasicBlock{{Index: 0, Func: real, Ins: []model.Instruction{model.MakeReturn()}}}

	w2 := wrapperFunction("w2", "real")
	w2.ID = 2
	w1 := wrapperFunction("w1", "w2")
	w1.ID = 3

	caller := &model.Function{Name: "main", ID: 4}
	callerBB := &model.BasicBlock{Index: 0, Func: caller}
	callerBB.Ins = []model.Instruction{model.MakeCall("w1")}
	caller.Blocks = []*model.BasicBlock{callerBB}

	prog.AddFunction(real)
	prog.AddFunction(w2)
	prog.AddFunction(w1)
	prog.AddFunction(caller)

	Run(prog, nil)

	sym, ok := model.IsDirectCall(callerBB.Ins[0])
	require.True(t, ok)
	require.Equal(t, "real", sym, "a chain of wrappers must collapse all the way to the real callee")
}
