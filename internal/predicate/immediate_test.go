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

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/arm64/arm64asm"
)

func TestImmediateCompatible(t *testing.T) {
	cases := []struct {
		name                   string
		op                     arm64asm.Op
		a, b                   int64
		accessesStack, allowed bool
		want                   bool
	}{
		{"exact match always passes", arm64asm.ADD, 8, 8, false, false, true},
		{"stack access requires exact even with tolerance on", arm64asm.LDR, 8, 9, true, true, false},
		{"stack access rejects close mismatch", arm64asm.STR, 16, 15, true, true, false},
		{"shift op admits +/-1 when tolerant", arm64asm.LSL, 3, 4, false, true, true},
		{"shift op rejects +/-2 even when tolerant", arm64asm.LSL, 3, 5, false, true, false},
		{"non-shift small immediates admit diff<=1 in [-15,15]", arm64asm.ADD, 10, 11, false, true, true},
		{"non-shift small immediates reject diff>1", arm64asm.ADD, 10, 12, false, true, false},
		{"tolerance off rejects any mismatch", arm64asm.ADD, 10, 11, false, false, false},
		{"out-of-range operands reject even tolerant", arm64asm.ADD, 20, 21, false, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ImmediateCompatible(c.op, c.a, c.b, c.accessesStack, c.allowed)
			require.Equal(t, c.want, got)
		})
	}
}
