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

// Package synth is the Function Synthesizer (spec.md §4.6): it turns an
// admitted window into a standalone injected Function, complete with
// stack-displacement fixup, a prologue/epilogue or tail-call rewrite, and
// the purity short-circuit that skips framing altogether.
package synth

import (
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"

	"github.com/postlink/outliner/internal/model"
)

const (
	sandwichByteFix = 32
	bareByteFix     = 16
)

// Synthesize implements spec.md §4.6 steps 1-8. needsSandwich reflects
// whether any occurrence of w will call the new function through the
// save/restore sandwich, which changes the stack-displacement fixup
// constant. warn receives a diagnostic for any non-integer fixup division;
// a nil warn discards it.
func Synthesize(prog *model.Program, w model.Window, needsSandwich bool, counter *int, warn func(string)) *model.Function {
	if warn == nil {
		warn = func(string) {}
	}

	fn := prog.CreateInjectedFunction(counter)
	entry := fn.Blocks[0]

	redirectSym := copyBody(prog, fn, entry, w)
	if redirectSym != "" {
		tail := prog.NewBlock(fn)
		// spec.md §4.6 step 3: the return-label block holds only a return —
		// any frame the real exit path would unwind is left to that path.
		tail.Ins = append(tail.Ins, model.MakeReturn())
	}

	byteFix := int64(bareByteFix)
	if needsSandwich {
		byteFix = sandwichByteFix
	}
	fixupStackDisplacements(entry, byteFix, warn)

	if isPureBody(entry) {
		entry.Ins = append(entry.Ins, model.MakeReturn())
		return fn
	}

	entry.Ins = append([]model.Instruction{model.MakePushPair(model.FP, model.LR)}, entry.Ins...)

	if target, indirect, ok := tailCallEnding(entry); ok {
		last := len(entry.Ins) - 1
		if !indirect {
			entry.Ins[last] = model.MakeUnconditionalBranch(target)
		}
		// Indirect tail call: the call instruction stays, and — per spec —
		// no return is appended; TCO replaces the epilogue either way.
		return fn
	}

	entry.Ins = append(entry.Ins, model.MakePopPair(model.FP, model.LR), model.MakeReturn())
	return fn
}

// copyBody copies every real instruction of w into entry, skipping CFI and
// pseudos, and retargets a final-position conditional branch to a fresh
// return-label symbol (spec.md §4.6 step 2). It returns that symbol, or ""
// if w contained no conditional branch.
func copyBody(prog *model.Program, fn *model.Function, entry *model.BasicBlock, w model.Window) string {
	var redirectSym string
	for _, ins := range w.Ins {
		if model.IsPseudo(ins) || model.IsCFI(ins) {
			continue
		}
		if model.IsConditionalBranch(ins) {
			redirectSym = prog.NewSymbol(fn.Name + ".ret")
			ins = retarget(ins, redirectSym)
		}
		entry.Ins = append(entry.Ins, ins)
	}
	return redirectSym
}

// retarget returns a copy of a conditional branch with its target
// expression operand replaced by sym.
func retarget(ins model.Instruction, sym string) model.Instruction {
	out := ins
	out.Operands = append([]model.Operand{}, ins.Operands...)
	for i, o := range out.Operands {
		if o.Kind == model.KindExpression {
			out.Operands[i] = model.Expression(sym)
			break
		}
	}
	return out
}

// fixupStackDisplacements implements spec.md §4.6 step 4: every SP-based
// memory access and every add/sub against SP that doesn't define SP gets
// its immediate shifted by byteFix/scale(instr).
func fixupStackDisplacements(bb *model.BasicBlock, byteFix int64, warn func(string)) {
	for i, ins := range bb.Ins {
		if !model.UsesSPAsBase(ins) && !isAddSubAgainstSP(ins) {
			continue
		}
		imm, ok := model.ImmediateOperand(ins)
		if !ok {
			continue
		}
		scale := int64(model.MemoryScale(ins.Op))
		if scale == 0 {
			scale = 1
		}
		if byteFix%scale != 0 {
			warn(fmt.Sprintf("stack displacement fixup: byte_fix %d not evenly divisible by scale %d for %s", byteFix, scale, ins))
		}
		bb.Ins[i] = model.SetImmediateOperand(ins, imm+byteFix/scale)
	}
}

func isAddSubAgainstSP(ins model.Instruction) bool {
	switch ins.Op {
	case arm64asm.ADD, arm64asm.ADDS, arm64asm.SUB, arm64asm.SUBS:
	default:
		return false
	}
	return model.ReadsOrWrites(ins, model.SP) && !model.DefinesReg(ins, model.SP)
}

// isPureBody implements spec.md §4.6 step 5's purity short-circuit
// predicate: no stack access, no calls, no FP use, no conditional branch.
func isPureBody(bb *model.BasicBlock) bool {
	for _, ins := range bb.Ins {
		if model.IsCall(ins) || model.IsConditionalBranch(ins) {
			return false
		}
		if model.UsesSPAsBase(ins) || isAddSubAgainstSP(ins) {
			return false
		}
		if model.ReadsOrWrites(ins, model.FP) {
			return false
		}
	}
	return true
}

// tailCallEnding reports whether bb's last instruction is itself a call —
// the tail-call-optimization trigger of spec.md §4.6 step 7.
func tailCallEnding(bb *model.BasicBlock) (target string, indirect bool, ok bool) {
	if len(bb.Ins) == 0 {
		return "", false, false
	}
	last := bb.Ins[len(bb.Ins)-1]
	if !model.IsCall(last) {
		return "", false, false
	}
	if sym, direct := model.IsDirectCall(last); direct {
		return sym, false, true
	}
	return "", true, true
}
