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

package group

import (
	"github.com/postlink/outliner/internal/extract"
	"github.com/postlink/outliner/internal/fingerprint"
	"github.com/postlink/outliner/internal/model"
	"github.com/postlink/outliner/internal/predicate"
)

// Cluster is one anchor and every later candidate the Grouper judged equal
// to it and not yet claimed by an earlier anchor (spec.md §4.4).
type Cluster struct {
	Anchor    extract.Candidate
	Matches   []extract.Candidate
	Frequency int
}

// Group runs the spec.md §4.4 per-anchor claim/match loop over candidates,
// which must already be in the Extractor's stable insertion order.
// allowImmediateTolerance gates the §4.1 immediate-compatibility slack per
// spec.md §9's recommendation that it default off.
func Group(candidates []extract.Candidate, allowImmediateTolerance bool) []Cluster {
	set := NewLabeledSet()
	hashes := make([]uint64, len(candidates))
	for i, c := range candidates {
		hashes[i] = fingerprint.Hash(c.Window.Ins)
	}

	var clusters []Cluster
	for i := range candidates {
		if set.IsClaimed(candidates[i]) {
			continue
		}
		set.Claim(candidates[i])
		cl := Cluster{Anchor: candidates[i], Matches: []extract.Candidate{candidates[i]}, Frequency: 1}

		for j := i + 1; j < len(candidates); j++ {
			if set.IsClaimed(candidates[j]) {
				continue
			}
			if overlapsAny(cl.Matches, candidates[j]) {
				continue
			}
			if !equalWindows(hashes[i], hashes[j], candidates[i].Window, candidates[j].Window, allowImmediateTolerance) {
				continue
			}
			set.Claim(candidates[j])
			cl.Matches = append(cl.Matches, candidates[j])
			cl.Frequency++
		}

		clusters = append(clusters, cl)
	}
	return clusters
}

// equalWindows implements spec.md §4.4 step 3: hash equality is accepted
// outright; otherwise a full structural recheck decides.
func equalWindows(hashA, hashB uint64, a, b model.Window, allowTolerance bool) bool {
	if hashA == hashB {
		return true
	}
	return structurallyEqual(a, b, allowTolerance)
}

func structurallyEqual(a, b model.Window, allowTolerance bool) bool {
	if len(a.Ins) != len(b.Ins) {
		return false
	}
	for i := range a.Ins {
		if !instructionsEqual(a.Ins[i], b.Ins[i], allowTolerance) {
			return false
		}
	}
	return true
}

func instructionsEqual(a, b model.Instruction, allowTolerance bool) bool {
	if a.Op != b.Op {
		return false
	}
	if len(a.Operands) != len(b.Operands) {
		return false
	}
	accessesStack := model.UsesSPAsBase(a) || model.ReadsOrWrites(a, model.FP)
	for k := range a.Operands {
		oa, ob := a.Operands[k], b.Operands[k]
		switch {
		case oa.Kind == model.KindRegister && ob.Kind == model.KindRegister:
			if oa.Reg.IsSpecial() || ob.Reg.IsSpecial() {
				if oa.Reg != ob.Reg {
					return false
				}
			}
			// both general-purpose: any pairing passes.
		case oa.Kind == model.KindImmediate && ob.Kind == model.KindImmediate:
			if !predicate.ImmediateCompatible(a.Op, oa.Imm, ob.Imm, accessesStack, allowTolerance) {
				return false
			}
		default:
			if oa.Kind != ob.Kind {
				return false
			}
		}
	}
	return true
}

// overlapsAny reports whether candidate c physically overlaps any member
// of matches: they share a block among their spans with intersecting
// index ranges. Occurrences, not raw content, decide overlap here — the
// model carries real location handles, so there is no need for the
// content-equality proxy the original implementation used in its absence
// (see DESIGN.md's design deviations).
func overlapsAny(matches []extract.Candidate, c extract.Candidate) bool {
	for _, m := range matches {
		if occurrencesOverlap(m.Loc, c.Loc) {
			return true
		}
	}
	return false
}

func occurrencesOverlap(a, b model.Occurrence) bool {
	for _, sa := range a.Spans {
		for _, sb := range b.Spans {
			if sa.Block != sb.Block {
				continue
			}
			aEnd := sa.StartIndex + sa.Count
			bEnd := sb.StartIndex + sb.Count
			if sa.StartIndex < bEnd && sb.StartIndex < aEnd {
				return true
			}
		}
	}
	return false
}
