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

package predicate

import "golang.org/x/arch/arm64/arm64asm"

func isShiftOp(op armOp) bool {
	switch op {
	case arm64asm.LSL, arm64asm.LSR, arm64asm.ASR:
		return true
	default:
		return false
	}
}

type armOp = arm64asm.Op

// ImmediateCompatible implements spec.md §4.1's immediate-compatibility
// predicate: equal when not tolerant; otherwise equal, or ±1 for shift
// opcodes, or both within [-15,15] with |a-b| <= 1. Any immediate on an
// instruction that accesses memory via SP or FP must be exactly equal
// regardless of tolerance.
//
// allowTolerance gates the ±1/small-range relaxation entirely; spec.md §9
// recommends treating it as strictly opt-in with exact match as the
// default, since it "may mask correctness bugs when combined with the
// structural match's lack of definition/use tracking" — internal/group
// wires this through as group.Group's allowImmediateTolerance parameter,
// which the driver passes as false.
func ImmediateCompatible(op arm64asm.Op, a, b int64, accessesStackViaSPOrFP, allowTolerance bool) bool {
	if a == b {
		return true
	}
	if accessesStackViaSPOrFP || !allowTolerance {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if isShiftOp(op) {
		return diff <= 1
	}
	if a >= -15 && a <= 15 && b >= -15 && b <= 15 {
		return diff <= 1
	}
	return false
}
