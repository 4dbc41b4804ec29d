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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOccurrenceWeightWithoutProfile(t *testing.T) {
	o := Occurrence{ExecCount: 50, HasProfile: true}
	require.Equal(t, uint64(1), o.Weight(false), "profiling disabled must flatten weight to 1")
}

func TestOccurrenceWeightClampedToOne(t *testing.T) {
	o := Occurrence{ExecCount: 0, HasProfile: true}
	require.Equal(t, uint64(1), o.Weight(true))
}

func TestOccurrenceWeightUsesExecCount(t *testing.T) {
	o := Occurrence{ExecCount: 42, HasProfile: true}
	require.Equal(t, uint64(42), o.Weight(true))
}

func TestBasicBlockInsertEraseOverwrite(t *testing.T) {
	bb := &BasicBlock{Ins: []Instruction{{Op: OpZero}, {Op: OpZero}, {Op: OpZero}}}
	bb.Insert(1, Instruction{Op: 99})
	require.Equal(t, 4, bb.Len())
	require.Equal(t, Opcode(99), bb.At(1).Op)

	bb.Overwrite(0, Instruction{Op: 7})
	require.Equal(t, Opcode(7), bb.At(0).Op)

	bb.Erase(1, 3)
	require.Equal(t, 2, bb.Len())
}

func TestBestSuccessorPrefersHottestThenFirstOnTie(t *testing.T) {
	a := &BasicBlock{Index: 0}
	b := &BasicBlock{Index: 1}
	bb := &BasicBlock{Successors: []Successor{{Block: a, Count: 5, Known: true}, {Block: b, Count: 5, Known: true}}}
	best, ok := bb.BestSuccessor()
	require.True(t, ok)
	require.Same(t, a, best)

	bb2 := &BasicBlock{Successors: []Successor{{Block: a, Count: 1}, {Block: b, Count: 9}}}
	best2, _ := bb2.BestSuccessor()
	require.Same(t, b, best2)
}
