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
	"strings"

	"golang.org/x/arch/arm64/arm64asm"
)

// These are the raw, opcode-intrinsic classifier helpers spec.md §4.1 calls
// "classifier helpers the library exposes": is_call, is_return, is_branch,
// is_unconditional_branch, is_pseudo, is_cfi, may_load, may_store,
// uses_reg, defines_reg. They live here (rather than in internal/predicate)
// because they depend only on an Instruction's intrinsic shape, not on
// window position or any reject policy — the same separation spec.md §9
// describes as "expose these predicates from the host's instruction
// descriptor".

func IsPseudo(ins Instruction) bool {
	return ins.Op == OpZero
}

// IsCFI reports whether ins is call-frame-information bookkeeping with no
// real encoding. The reference model represents both pseudo and CFI
// instructions the same way (OpZero): a host with a richer instruction set
// would distinguish them, but both are rejected identically by §4.1 reason 1.
func IsCFI(ins Instruction) bool {
	return ins.Op == OpZero
}

func IsCall(ins Instruction) bool {
	switch ins.Op {
	case arm64asm.BL, arm64asm.BLR:
		return true
	default:
		return false
	}
}

func IsReturn(ins Instruction) bool {
	return ins.Op == arm64asm.RET
}

// IsBranch reports whether ins is any kind of branch, conditional or not.
func IsBranch(ins Instruction) bool {
	switch ins.Op {
	case arm64asm.B, arm64asm.CBZ, arm64asm.CBNZ, arm64asm.TBZ, arm64asm.TBNZ:
		return true
	default:
		return false
	}
}

func IsUnconditionalBranch(ins Instruction) bool {
	return ins.Op == arm64asm.B
}

// IsConditionalBranch reports whether ins is a conditional or
// compare/test-and-branch instruction (CBZ/CBNZ/TBZ/TBNZ) — these are the
// instructions spec.md §4.1 reason 4 allows at the final window position
// when cross-block extension is permitted.
func IsConditionalBranch(ins Instruction) bool {
	return IsBranch(ins) && !IsUnconditionalBranch(ins)
}

func MayLoad(ins Instruction) bool  { return ins.Desc().MayLoad }
func MayStore(ins Instruction) bool { return ins.Desc().MayStore }

// IsPCRelativeMaterialization reports whether ins denotes the ADR family or
// a literal-pool load — any opcode whose mnemonic names that (spec.md §4.1
// reason 5, §9 design note on mnemonic sniffing).
func IsPCRelativeMaterialization(ins Instruction) bool {
	m := Mnemonic(ins.Op)
	return strings.HasPrefix(m, "ADR") || (strings.Contains(m, "LDR") && isLiteralForm(ins))
}

// isLiteralForm reports whether a load instruction's sole memory operand is
// an Expression (a symbol/PC-relative literal reference) rather than a
// register base — the shape a literal-pool load takes in this model.
func isLiteralForm(ins Instruction) bool {
	if !MayLoad(ins) {
		return false
	}
	for _, u := range ins.Uses() {
		if u.Kind == KindExpression {
			return true
		}
	}
	return false
}

func UsesReg(ins Instruction, r Reg) bool {
	for _, u := range ins.Uses() {
		if u.Kind == KindRegister && u.Reg == r {
			return true
		}
	}
	return false
}

func DefinesReg(ins Instruction, r Reg) bool {
	for _, d := range ins.Defs() {
		if d.Kind == KindRegister && d.Reg == r {
			return true
		}
	}
	return false
}

// ReadsOrWrites reports whether ins names r anywhere among its operands.
func ReadsOrWrites(ins Instruction, r Reg) bool {
	for _, o := range ins.Operands {
		if o.Kind == KindRegister && o.Reg == r {
			return true
		}
	}
	return false
}

// UsesSPAsBase reports whether ins is a memory access whose base register
// operand is SP (spec.md §4.1 reasons 8-9). The base is modeled as the
// first register-kind use, so operand order matters: a single-register
// store with SP listed first (`str x0, [sp, #8]`) reads as a stack access,
// while a pair store with the values listed before SP (`stp x0, x1, [sp,
// #16]`, the shape MakePushPair emits) does not, even though both touch the
// stack. Callers that synthesize STP/STR by hand need to pick operand order
// deliberately to land on the side of this predicate they mean.
func UsesSPAsBase(ins Instruction) bool {
	if !MayLoad(ins) && !MayStore(ins) {
		return false
	}
	for _, u := range ins.Uses() {
		if u.Kind == KindRegister {
			return u.Reg == SP
		}
	}
	return false
}

// HasImmediateDisplacement reports whether ins carries an Immediate operand
// (its memory displacement, in this abstract model).
func HasImmediateDisplacement(ins Instruction) bool {
	for _, o := range ins.Operands {
		if o.Kind == KindImmediate {
			return true
		}
	}
	return false
}

// ImmediateOperand returns ins's displacement immediate and whether it has one.
func ImmediateOperand(ins Instruction) (int64, bool) {
	for _, o := range ins.Operands {
		if o.Kind == KindImmediate {
			return o.Imm, true
		}
	}
	return 0, false
}

// SetImmediateOperand returns a copy of ins with its (sole) immediate
// operand replaced by v.
func SetImmediateOperand(ins Instruction, v int64) Instruction {
	out := ins
	out.Operands = append([]Operand{}, ins.Operands...)
	for i, o := range out.Operands {
		if o.Kind == KindImmediate {
			out.Operands[i].Imm = v
			break
		}
	}
	return out
}
