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

import "fmt"

// Program is the external Program model the pass consumes (spec.md §3): a
// mapping from function identifier to Function, iterable in deterministic
// order. This is the reference in-memory implementation; a real host would
// satisfy the same shape over its own function table.
type Program struct {
	functions map[int]*Function
	order     []int
	nextID    int
	nextSym   int
	injected  int
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{functions: make(map[int]*Function)}
}

// AddFunction registers f (typically OriginOriginal) under its own ID,
// assigning one if f.ID is unset.
func (p *Program) AddFunction(f *Function) {
	if _, taken := p.functions[f.ID]; f.ID == 0 || taken {
		f.ID = p.allocID()
	}
	p.functions[f.ID] = f
	p.order = append(p.order, f.ID)
}

func (p *Program) allocID() int {
	p.nextID++
	return p.nextID
}

// Functions returns every registered function in deterministic order (sort
// key: function identifier, spec.md §5).
func (p *Program) Functions() []*Function {
	ids := append([]int{}, p.order...)
	sortInts(ids)
	out := make([]*Function, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.functions[id])
	}
	return out
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// CreateInjectedFunction allocates a new injected function named
// PLO_outlined_<n> and registers it with the program (spec.md §3 / §6).
// The counter is pass-scoped (passed in by the driver), per the Design
// Notes' instruction to avoid a process-wide global counter.
func (p *Program) CreateInjectedFunction(counter *int) *Function {
	*counter++
	name := fmt.Sprintf("PLO_outlined_%d", *counter)
	f := &Function{
		Name:    name,
		ID:      p.allocID(),
		Origin:  OriginInjected,
		Section: ".text." + name,
	}
	entry := &BasicBlock{Index: 0, Func: f}
	f.Blocks = []*BasicBlock{entry}
	p.functions[f.ID] = f
	p.order = append(p.order, f.ID)
	return f
}

// NewBlock appends a fresh empty block to f and returns it.
func (p *Program) NewBlock(f *Function) *BasicBlock {
	bb := &BasicBlock{Index: len(f.Blocks), Func: f}
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// NewSymbol returns a fresh, program-unique symbol name built off base —
// the "get-or-create named temp symbol" host facility from spec.md §6.
func (p *Program) NewSymbol(base string) string {
	p.nextSym++
	return fmt.Sprintf("%s.%d", base, p.nextSym)
}

// TextSection returns the name of the default code section.
func (p *Program) TextSection() string {
	return ".text"
}
