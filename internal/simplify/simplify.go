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

// Package simplify is the Intermediate Simplifier (spec.md §4.8): a
// post-sweep pass that inlines trivial wrapper functions the synthesizer
// produced, so callers reach the real shared body directly.
package simplify

import (
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/model"
)

// Run implements spec.md §4.8 over every function in prog, after all
// length-sweep iterations have completed.
func Run(prog *model.Program, counters *diag.Counters) {
	wrappers := make(map[string]string) // wrapper function name -> its sole callee symbol

	for _, fn := range prog.Functions() {
		if fn.Origin != model.OriginInjected || fn.Ignored {
			continue
		}
		if callee, ok := trivialWrapperCallee(fn); ok {
			wrappers[fn.Name] = callee
			fn.Ignored = true
			if counters != nil {
				counters.RecordWrapperInlined()
			}
		}
	}

	if len(wrappers) == 0 {
		return
	}
	for _, fn := range prog.Functions() {
		if fn.Ignored {
			continue
		}
		for _, bb := range fn.Blocks {
			retargetCallers(bb, wrappers)
		}
	}
}

// trivialWrapperCallee reports whether fn consists only of stack
// adjustment, pushes/pops, a return, and exactly one direct call — and if
// so, that call's target symbol.
func trivialWrapperCallee(fn *model.Function) (string, bool) {
	var callee string
	calls := 0
	for _, bb := range fn.Blocks {
		for _, ins := range bb.Ins {
			switch {
			case model.IsCall(ins):
				sym, direct := model.IsDirectCall(ins)
				if !direct {
					return "", false
				}
				calls++
				if calls > 1 {
					return "", false
				}
				callee = sym
			case model.IsReturn(ins):
				// allowed
			case isStackAdjustOrPushPop(ins):
				// allowed
			default:
				return "", false
			}
		}
	}
	if calls != 1 {
		return "", false
	}
	return callee, true
}

func isStackAdjustOrPushPop(ins model.Instruction) bool {
	if model.UsesSPAsBase(ins) && (model.MayLoad(ins) || model.MayStore(ins)) {
		return true
	}
	// MakePushPair/MakePopPair emit STP/LDP against SP with a values-first
	// operand order, so UsesSPAsBase (which only inspects the first
	// register use) reads them as false. Recognize that pair-transfer shape
	// directly rather than relying on operand order here.
	if (ins.Op == arm64asm.STP || ins.Op == arm64asm.LDP) && model.ReadsOrWrites(ins, model.SP) {
		return true
	}
	return model.ReadsOrWrites(ins, model.SP) && !model.MayLoad(ins) && !model.MayStore(ins)
}

// retargetCallers rewrites every direct call in bb that names a now-ignored
// wrapper so it calls the wrapper's own callee instead.
func retargetCallers(bb *model.BasicBlock, wrappers map[string]string) {
	for i, ins := range bb.Ins {
		sym, direct := model.IsDirectCall(ins)
		if !direct {
			continue
		}
		real, wrapped := wrappers[sym]
		if !wrapped {
			continue
		}
		// Follow a chain of wrappers, in case the simplifier's own output
		// created one (a wrapper whose sole call targets another wrapper).
		for {
			next, ok := wrappers[real]
			if !ok {
				break
			}
			real = next
		}
		bb.Ins[i] = model.MakeCall(real)
	}
}
