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

// Package model defines the abstract Program/Function/BasicBlock/Instruction
// shapes the outliner operates on (spec.md §3). It is intentionally small:
// the pass never needs more than opcode identity, operand kinds, and a
// handful of per-opcode facts the host's real instruction descriptor would
// otherwise expose.
package model

import (
	"golang.org/x/arch/arm64/arm64asm"
)

// Opcode identifies an instruction's operation. Real (non-synthetic)
// instructions reuse golang.org/x/arch/arm64/arm64asm's opcode space so that
// mnemonic-based classification (§4.1, §9) is backed by the same table a
// real AArch64 disassembler uses instead of a hand-rolled string table.
type Opcode = arm64asm.Op

// OpZero marks a pseudo/CFI instruction with no real encoding (reject reason 1).
const OpZero Opcode = 0

// Mnemonic returns the opcode's textual mnemonic, or "" for OpZero.
func Mnemonic(op Opcode) string {
	if op == OpZero {
		return ""
	}
	return op.String()
}
