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

// OperandKind discriminates the four operand shapes spec.md §3 allows.
type OperandKind uint8

const (
	KindRegister OperandKind = iota
	KindImmediate
	KindExpression
	KindSoftFloat
)

// Operand is one of {Register(id), Immediate(i64), Expression(symbolref),
// SoftFloat(f32)}.
type Operand struct {
	Kind OperandKind
	Reg  Reg
	Imm  int64
	Sym  string
	F32  float32
}

func Register(r Reg) Operand             { return Operand{Kind: KindRegister, Reg: r} }
func Immediate(i int64) Operand          { return Operand{Kind: KindImmediate, Imm: i} }
func Expression(sym string) Operand      { return Operand{Kind: KindExpression, Sym: sym} }
func SoftFloat(f float32) Operand        { return Operand{Kind: KindSoftFloat, F32: f} }

func (o Operand) Equal(other Operand) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case KindRegister:
		return o.Reg == other.Reg
	case KindImmediate:
		return o.Imm == other.Imm
	case KindExpression:
		return o.Sym == other.Sym
	case KindSoftFloat:
		return o.F32 == other.F32
	default:
		return false
	}
}

func (o Operand) String() string {
	switch o.Kind {
	case KindRegister:
		return o.Reg.String()
	case KindImmediate:
		return fmt.Sprintf("#%d", o.Imm)
	case KindExpression:
		return o.Sym
	case KindSoftFloat:
		return fmt.Sprintf("%g", o.F32)
	default:
		return "?"
	}
}

// Descriptor carries the per-opcode static facts spec.md §3/§4.1 need:
// how many leading operands are definitions, and whether the opcode may
// touch memory. A real host exposes this as "instruction descriptor"
// (spec.md §6); we ship a small static table for the opcodes the pass
// itself recognizes and a conservative default for everything else.
type Descriptor struct {
	NumDefs  int
	MayLoad  bool
	MayStore bool
}

// Instruction is one machine instruction: an opcode plus its ordered
// operand list, where operands [0, NumDefs) are definitions and the rest
// are uses (spec.md §3).
type Instruction struct {
	Op       Opcode
	Operands []Operand
}

// Desc returns the static descriptor for ins.Op.
func (ins Instruction) Desc() Descriptor {
	if d, ok := opcodeDescriptors[ins.Op]; ok {
		return d
	}
	return Descriptor{NumDefs: defaultNumDefs(ins)}
}

func defaultNumDefs(ins Instruction) int {
	if len(ins.Operands) == 0 {
		return 0
	}
	return 1
}

// Defs returns the operand slots that are definitions.
func (ins Instruction) Defs() []Operand {
	n := ins.Desc().NumDefs
	if n > len(ins.Operands) {
		n = len(ins.Operands)
	}
	return ins.Operands[:n]
}

// Uses returns the operand slots that are uses.
func (ins Instruction) Uses() []Operand {
	n := ins.Desc().NumDefs
	if n > len(ins.Operands) {
		n = len(ins.Operands)
	}
	return ins.Operands[n:]
}

func (ins Instruction) String() string {
	s := Mnemonic(ins.Op)
	if s == "" {
		return "<zero>"
	}
	for i, o := range ins.Operands {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += o.String()
	}
	return s
}
