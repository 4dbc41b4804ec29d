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

// Package outliner is a post-link binary-size optimization pass: it finds
// repeated instruction sequences across a program's functions, extracts
// them into shared outlined functions, and rewrites call sites with
// trampolines.
package outliner

import (
	"github.com/postlink/outliner/internal/diag"
	"github.com/postlink/outliner/internal/driver"
	"github.com/postlink/outliner/internal/model"
	"github.com/postlink/outliner/internal/opts"
)

// Pass is one configured instance of the post-link outliner. The zero value
// is not usable; construct with New.
type Pass struct {
	options  opts.Options
	counters *diag.Counters
}

// New builds a Pass from the given options, layered over the documented
// defaults (largest-length 32, min-length 2, profile filtering off, debug
// off, enabled).
func New(options ...Option) *Pass {
	o := opts.GetDefaultOptions()
	for _, opt := range options {
		opt(&o)
	}
	return &Pass{options: o, counters: &diag.Counters{}}
}

// Run applies the pass to prog in place. It returns an error only for
// conditions genuinely outside the pass's documented error taxonomy — every
// internal failure is absorbed per-candidate and Run still returns nil,
// leaving the host with unchanged (never worse) code.
func (p *Pass) Run(prog *model.Program) error {
	if !p.options.Enabled {
		return nil
	}
	return driver.New(p.options, p.counters).Run(prog)
}

// Stats returns a snapshot of the pass's diagnostic counters. It is safe to
// call whether or not WithDebug was set; the counters are always kept, only
// their emission to a diagnostic stream is debug-gated by the host.
func (p *Pass) Stats() diag.Stats {
	return p.counters.Snapshot()
}
