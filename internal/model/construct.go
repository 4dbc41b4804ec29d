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

import "golang.org/x/arch/arm64/arm64asm"

// StackAlign is the mandatory AArch64 stack alignment (spec.md §1).
const StackAlign = 16

// MakePushPair builds the pair-store prologue instruction that
// pre-decrements SP by 16 and stores r1, r2 at [sp], [sp, #8] — spec.md
// §4.6 step 6 and §6's make_push_pair host helper.
func MakePushPair(r1, r2 Reg) Instruction {
	return Instruction{
		Op: arm64asm.STP,
		Operands: []Operand{
			Register(r1),
			Register(r2),
			Register(SP),
			Immediate(-StackAlign),
		},
	}
}

// MakePopPair builds the pair-load epilogue instruction that loads r1, r2
// from [sp], [sp, #8] and post-increments SP by 16 — spec.md §4.6 step 8
// and §6's make_pop_pair host helper.
func MakePopPair(r1, r2 Reg) Instruction {
	return Instruction{
		Op: arm64asm.LDP,
		Operands: []Operand{
			Register(r1),
			Register(r2),
			Register(SP),
			Immediate(StackAlign),
		},
	}
}

// MakeCall builds a direct call to symbol.
func MakeCall(symbol string) Instruction {
	return Instruction{Op: arm64asm.BL, Operands: []Operand{Expression(symbol)}}
}

// MakeUnconditionalBranch builds an unconditional branch to symbol.
func MakeUnconditionalBranch(symbol string) Instruction {
	return Instruction{Op: arm64asm.B, Operands: []Operand{Expression(symbol)}}
}

// MakeReturn builds a bare return instruction.
func MakeReturn() Instruction {
	return Instruction{Op: arm64asm.RET}
}

// IsDirectCall reports whether ins is a call whose target is a resolved
// symbol expression (as opposed to an indirect call through a register).
func IsDirectCall(ins Instruction) (symbol string, ok bool) {
	if ins.Op != arm64asm.BL {
		return "", false
	}
	for _, o := range ins.Operands {
		if o.Kind == KindExpression {
			return o.Sym, true
		}
	}
	return "", false
}
