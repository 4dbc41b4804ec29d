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

// Package fingerprint computes the register-normalized hash the Duplicate
// Grouper uses as a first-pass equality test (spec.md §4.3), in the same
// "hash first, verify structurally on collision" shape used in the pack's
// own kubernetes-kubernetes/plugin/pkg/scheduler/core/equivalence_cache.go
// (fnv.New32a over an equivalence key, exact recheck on collision).
package fingerprint

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/postlink/outliner/internal/model"
)

const sentinelExpression = 0xDEADBEEF

// Hash returns an FNV-1a digest of window that is invariant under any
// bijective rename of its general-purpose registers (spec.md §4.3). SP,
// FP, and LR keep their raw identity; every other register gets a
// sequentially-assigned normalized id (1000, 1001, ...), reused on later
// sight, scoped to this single call.
func Hash(window []model.Instruction) uint64 {
	h := fnv.New64a()
	norm := map[model.Reg]uint64{}
	next := uint64(1000)

	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	for _, ins := range window {
		writeU64(uint64(ins.Op))
		for _, op := range ins.Operands {
			switch op.Kind {
			case model.KindRegister:
				if op.Reg.IsSpecial() {
					writeU64(uint64(op.Reg))
				} else {
					id, ok := norm[op.Reg]
					if !ok {
						id = next
						norm[op.Reg] = id
						next++
					}
					writeU64(id)
				}
			case model.KindImmediate:
				writeU64(uint64(op.Imm))
			case model.KindExpression:
				writeU64(sentinelExpression)
			case model.KindSoftFloat:
				writeU64(uint64(math.Float32bits(op.F32)))
			}
		}
	}

	return h.Sum64()
}
