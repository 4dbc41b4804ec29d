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

// Package driver is the Pass Driver (spec.md §4.9): it sweeps window
// lengths from Lmax down to Lmin, running the Extractor, Grouper, Cost
// Model, Synthesizer and Call-Site Rewriter over every eligible function at
// each length, then runs the Intermediate Simplifier once the sweep ends.
package driver

import (
	"github.com/postlink/outliner/internal/cost"
	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/extract"
	"github.com/postlink/outliner/internal/group"
	"github.com/postlink/outliner/internal/model"
	"github.com/postlink/outliner/internal/opts"
	"github.com/postlink/outliner/internal/rewrite"
	"github.com/postlink/outliner/internal/simplify"
	"github.com/postlink/outliner/internal/synth"
)

// Driver owns the pass-scoped state that must survive the whole sweep: the
// injected-function naming counter (spec.md §9's "pass-scoped counter
// passed by reference") and the diagnostic counters.
type Driver struct {
	Options         opts.Options
	Counters        *diag.Counters
	injectedCounter int
}

func New(o opts.Options, counters *diag.Counters) *Driver {
	if counters == nil {
		counters = &diag.Counters{}
	}
	return &Driver{Options: o, Counters: counters}
}

// located pairs a strictly-matched occurrence with the trampoline choice
// the cost model settled on for it, so the two stay aligned through
// SortForReplacement's reordering.
type located struct {
	occ      model.Occurrence
	sandwich bool
}

// Run implements spec.md §4.9 end to end.
func (d *Driver) Run(prog *model.Program) error {
	floor := d.Options.SweepFloor()
	for L := d.Options.LargestLength; L >= floor; L-- {
		d.sweepLength(prog, L)
	}
	simplify.Run(prog, d.Counters)
	return nil
}

func (d *Driver) sweepLength(prog *model.Program, L int) {
	for _, fn := range prog.Functions() {
		if fn.Origin == model.OriginInjected || fn.Ignored {
			continue
		}
		if !fn.Optimizable() {
			continue
		}
		// Under profile filtering a hot function (known count > 1) is left
		// alone; a function without profile data is treated as cold.
		if d.Options.EnablePGO && fn.HasProfile && fn.ExecCount > 1 {
			continue
		}
		d.sweepFunction(prog, fn, L)
	}
}

func (d *Driver) sweepFunction(prog *model.Program, fn *model.Function, L int) {
	candidates := extract.Extract(fn, L, d.Options.EnablePGO, d.Counters)
	if len(candidates) == 0 {
		return
	}
	clusters := group.Group(candidates, false)

	for _, cl := range clusters {
		d.considerCluster(prog, fn, cl)
	}
}

func (d *Driver) considerCluster(prog *model.Program, fn *model.Function, cl group.Cluster) {
	window := cl.Anchor.Window

	locs := rewrite.FindLocations(fn, window)
	if d.Options.EnablePGO {
		// Copies sitting in hot blocks were never extracted, so they are
		// neither counted nor rewritten.
		kept := locs[:0]
		for _, o := range locs {
			if !(o.Block.HasProfile && o.Block.ExecCount > 1) {
				kept = append(kept, o)
			}
		}
		locs = kept
	}
	if cost.UnderCounted(len(locs), cl.Frequency) {
		d.Counters.RecordCostDecision(false)
		return
	}

	decision := cost.Evaluate(window, locs, d.Options.EnablePGO)
	d.Counters.RecordCostDecision(decision.Admit)
	if !decision.Admit {
		return
	}

	pairs := make([]located, len(locs))
	anySandwich := false
	for i, o := range locs {
		pairs[i] = located{occ: o, sandwich: decision.Sandwiches[i]}
		if decision.Sandwiches[i] {
			anySandwich = true
		}
	}

	warn := func(string) {}
	if d.Options.Debug {
		warn = func(msg string) { d.Counters.RecordWarning(diag.Dump("synth-warning", msg)) }
	}
	newFn := synth.Synthesize(prog, window, anySandwich, &d.injectedCounter, warn)

	sortLocated(pairs)
	for _, p := range pairs {
		rewrite.Replace(p.occ, newFn.Name, p.sandwich)
	}

	d.Counters.RecordSynthesized(decision.Savings - decision.Cost)
}

// sortLocated applies spec.md §4.7.3's replacement order (higher
// start-indices within a block first) while keeping each occurrence glued
// to its own trampoline choice.
func sortLocated(pairs []located) {
	occs := make([]model.Occurrence, len(pairs))
	for i, p := range pairs {
		occs[i] = p.occ
	}
	// Insertion-sort pairs in place with the same ordering
	// rewrite.SortForReplacement applies, so each occurrence moves together
	// with its trampoline choice.
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && lessReplacementOrder(pairs[j], pairs[j-1]); j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
}

func lessReplacementOrder(a, b located) bool {
	if a.occ.Block == b.occ.Block {
		return a.occ.StartIndex > b.occ.StartIndex
	}
	return a.occ.Block.Index > b.occ.Block.Index
}
