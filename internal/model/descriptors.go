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

// opcodeDescriptors is the static table a real host would expose through its
// instruction descriptor (spec.md §6). It only needs to be accurate for the
// opcodes the predicate library and synthesizer actually reason about;
// everything else falls back to defaultNumDefs.
var opcodeDescriptors = map[Opcode]Descriptor{
	arm64asm.MOV:  {NumDefs: 1},
	arm64asm.MOVZ: {NumDefs: 1},
	arm64asm.MOVN: {NumDefs: 1},
	arm64asm.MOVK: {NumDefs: 1},
	arm64asm.ADD:  {NumDefs: 1},
	arm64asm.ADDS: {NumDefs: 1},
	arm64asm.SUB:  {NumDefs: 1},
	arm64asm.SUBS: {NumDefs: 1},
	arm64asm.AND:  {NumDefs: 1},
	arm64asm.ORR:  {NumDefs: 1},
	arm64asm.EOR:  {NumDefs: 1},
	arm64asm.LSL:  {NumDefs: 1},
	arm64asm.LSR:  {NumDefs: 1},
	arm64asm.ASR:  {NumDefs: 1},

	arm64asm.ADR:  {NumDefs: 1},
	arm64asm.ADRP: {NumDefs: 1},

	arm64asm.LDR:   {NumDefs: 1, MayLoad: true},
	arm64asm.LDRB:  {NumDefs: 1, MayLoad: true},
	arm64asm.LDRH:  {NumDefs: 1, MayLoad: true},
	arm64asm.LDRSB: {NumDefs: 1, MayLoad: true},
	arm64asm.LDRSH: {NumDefs: 1, MayLoad: true},
	arm64asm.LDRSW: {NumDefs: 1, MayLoad: true},
	arm64asm.LDUR:  {NumDefs: 1, MayLoad: true},
	arm64asm.LDURB: {NumDefs: 1, MayLoad: true},
	arm64asm.LDURH: {NumDefs: 1, MayLoad: true},
	arm64asm.LDP:   {NumDefs: 2, MayLoad: true},
	arm64asm.LDPSW: {NumDefs: 2, MayLoad: true},

	arm64asm.STR:   {NumDefs: 0, MayStore: true},
	arm64asm.STRB:  {NumDefs: 0, MayStore: true},
	arm64asm.STRH:  {NumDefs: 0, MayStore: true},
	arm64asm.STUR:  {NumDefs: 0, MayStore: true},
	arm64asm.STURB: {NumDefs: 0, MayStore: true},
	arm64asm.STURH: {NumDefs: 0, MayStore: true},
	arm64asm.STP:   {NumDefs: 0, MayStore: true},

	arm64asm.B:    {NumDefs: 0},
	arm64asm.BL:   {NumDefs: 0},
	arm64asm.BR:   {NumDefs: 0},
	arm64asm.BLR:  {NumDefs: 0},
	arm64asm.RET:  {NumDefs: 0},
	arm64asm.CBZ:  {NumDefs: 0},
	arm64asm.CBNZ: {NumDefs: 0},
	arm64asm.TBZ:  {NumDefs: 0},
	arm64asm.TBNZ: {NumDefs: 0},
	arm64asm.NOP:  {NumDefs: 0},
	arm64asm.BRK:  {NumDefs: 0},
}

// MemoryScale infers the byte unit a load/store opcode addresses in, from
// its mnemonic (spec.md §4.1): paired x/w/q loads-stores address 8/4/16
// bytes per register, scaled single-register forms address 8/4/2/1 bytes,
// unscaled ("unaligned", *UR suffix) forms always address 1 byte. Default 1.
// The opcode alone does not carry the register width, so STP/LDP and
// LDR/STR are always scaled as x-register (8-byte) accesses; w- and
// q-register pair forms are not told apart.
func MemoryScale(op Opcode) int {
	switch op {
	case arm64asm.STP, arm64asm.LDP:
		return 8
	case arm64asm.LDPSW, arm64asm.LDRSW:
		return 4
	case arm64asm.LDR, arm64asm.STR:
		return 8
	case arm64asm.LDRH, arm64asm.STRH, arm64asm.LDRSH:
		return 2
	case arm64asm.LDRB, arm64asm.STRB, arm64asm.LDRSB:
		return 1
	case arm64asm.LDUR, arm64asm.STUR, arm64asm.LDURB, arm64asm.STURB, arm64asm.LDURH, arm64asm.STURH:
		return 1
	default:
		return 1
	}
}
