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

// Package group is the Duplicate Grouper (spec.md §4.4) plus the LabeledSet
// claim-tracking it relies on (spec.md §3).
package group

import (
	"github.com/postlink/outliner/internal/extract"
	"github.com/postlink/outliner/internal/model"
)

// locKey identifies one physical occurrence by its starting block and
// index — the unit LabeledSet claims (spec.md §3: "ensuring each physical
// instruction range participates in at most one outlining decision during
// a single length sweep").
type locKey struct {
	block *model.BasicBlock
	start int
}

// LabeledSet tracks claimed occurrences for one function during one
// length-L sweep. The zero value is ready to use; callers discard it once
// the sweep for that length completes (spec.md §3, §5).
type LabeledSet struct {
	claimed map[locKey]bool
}

func NewLabeledSet() *LabeledSet {
	return &LabeledSet{claimed: make(map[locKey]bool)}
}

func key(c extract.Candidate) locKey {
	return locKey{block: c.Loc.Block, start: c.Loc.StartIndex}
}

func (s *LabeledSet) IsClaimed(c extract.Candidate) bool {
	return s.claimed[key(c)]
}

func (s *LabeledSet) Claim(c extract.Candidate) {
	if s.claimed == nil {
		s.claimed = make(map[locKey]bool)
	}
	s.claimed[key(c)] = true
}
