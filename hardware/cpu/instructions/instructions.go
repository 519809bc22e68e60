// This file is part of Gopher99.
//
// Gopher99 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher99 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher99.  If not, see <https://www.gnu.org/licenses/>.

// Package instructions defines the instruction set and the two-level decode
// used by the CPU.
//
// An opcode is classified by its leading-zero bit count into one of seven
// format groups; a per-group (shift, mask) pair then extracts a sub-index
// selecting the mnemonic. Groups contain reserved sub-indices which decode
// to an illegal definition - illegal opcodes are logged by the CPU but are
// not fatal.
package instructions

import "math/bits"

// Operator is the mnemonic of a decoded instruction.
type Operator int

// List of valid Operator values.
const (
	Illegal Operator = iota

	// dual operand
	A
	AB
	C
	CB
	S
	SB
	SOC
	SOCB
	SZC
	SZCB
	MOV
	MOVB

	// dual operand, register destination
	COC
	CZC
	XOR
	XOP
	MPY
	DIV

	// CRU multi-bit transfer
	LDCR
	STCR

	// jumps
	JMP
	JLT
	JLE
	JEQ
	JHE
	JGT
	JNE
	JNC
	JOC
	JNO
	JL
	JH
	JOP

	// CRU single bit
	SBO
	SBZ
	TB

	// shifts
	SRA
	SRL
	SLA
	SRC

	// single operand
	BLWP
	B
	X
	CLR
	NEG
	INV
	INC
	INCT
	DEC
	DECT
	BL
	SWPB
	SETO
	ABS

	// immediate and status
	LI
	AI
	ANDI
	ORI
	CI
	STWP
	STST
	LWPI
	LIMI

	// control
	IDLE
	RSET
	RTWP
	CKON
	CKOF
	LREX
)

var operatorNames = map[Operator]string{
	Illegal: "???",
	A:       "A", AB: "AB", C: "C", CB: "CB", S: "S", SB: "SB",
	SOC: "SOC", SOCB: "SOCB", SZC: "SZC", SZCB: "SZCB", MOV: "MOV", MOVB: "MOVB",
	COC: "COC", CZC: "CZC", XOR: "XOR", XOP: "XOP", MPY: "MPY", DIV: "DIV",
	LDCR: "LDCR", STCR: "STCR",
	JMP: "JMP", JLT: "JLT", JLE: "JLE", JEQ: "JEQ", JHE: "JHE", JGT: "JGT",
	JNE: "JNE", JNC: "JNC", JOC: "JOC", JNO: "JNO", JL: "JL", JH: "JH", JOP: "JOP",
	SBO: "SBO", SBZ: "SBZ", TB: "TB",
	SRA: "SRA", SRL: "SRL", SLA: "SLA", SRC: "SRC",
	BLWP: "BLWP", B: "B", X: "X", CLR: "CLR", NEG: "NEG", INV: "INV",
	INC: "INC", INCT: "INCT", DEC: "DEC", DECT: "DECT", BL: "BL",
	SWPB: "SWPB", SETO: "SETO", ABS: "ABS",
	LI: "LI", AI: "AI", ANDI: "ANDI", ORI: "ORI", CI: "CI",
	STWP: "STWP", STST: "STST", LWPI: "LWPI", LIMI: "LIMI",
	IDLE: "IDLE", RSET: "RSET", RTWP: "RTWP", CKON: "CKON", CKOF: "CKOF", LREX: "LREX",
}

func (o Operator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return "???"
}

// Format describes how an instruction's operand fields are encoded.
type Format int

// List of valid Format values.
const (
	FormatNone Format = iota

	// [opcode] [Td 2] [D 4] [Ts 2] [S 4]
	FormatDual

	// [opcode] [D 4] [Ts 2] [S 4] with a workspace register destination.
	// for XOP the D field is the operation number, for LDCR/STCR it is the
	// bit count
	FormatDualReg

	// [opcode] [signed 8-bit displacement]
	FormatJump

	// [opcode] [signed 8-bit CRU bit displacement]
	FormatCRUBit

	// [opcode] [C 4] [W 4]
	FormatShift

	// [opcode] [Ts 2] [S 4]
	FormatSingle

	// [opcode] [W 4], usually followed by an immediate word
	FormatImmediate

	// [opcode], no operands
	FormatControl
)

// Definition describes one entry in the decode tables.
type Definition struct {
	Operator Operator
	Format   Format

	// base cycle cost of the instruction. bus access costs and addressing
	// mode costs are charged separately; variable costs (shift counts, CRU
	// transfer widths, taken jumps) are added by the execution engine
	Cycles int

	// byte-oriented operation. affects operand width, autoincrement delta
	// and the parity flag
	Byte bool
}

var illegal = Definition{Operator: Illegal, Format: FormatNone, Cycles: 6}

// one decode group per leading-zero count. the (shift, mask) pair extracts
// the sub-index into the ops table.
type group struct {
	shift uint
	mask  uint16
	ops   []Definition
}

var groups = [7]group{
	// opcodes 0x8000-0xffff
	{shift: 12, mask: 0x7, ops: []Definition{
		{Operator: C, Format: FormatDual, Cycles: 8},
		{Operator: CB, Format: FormatDual, Cycles: 8, Byte: true},
		{Operator: A, Format: FormatDual, Cycles: 6},
		{Operator: AB, Format: FormatDual, Cycles: 6, Byte: true},
		{Operator: MOV, Format: FormatDual, Cycles: 6},
		{Operator: MOVB, Format: FormatDual, Cycles: 6, Byte: true},
		{Operator: SOC, Format: FormatDual, Cycles: 6},
		{Operator: SOCB, Format: FormatDual, Cycles: 6, Byte: true},
	}},

	// opcodes 0x4000-0x7fff
	{shift: 12, mask: 0x3, ops: []Definition{
		{Operator: SZC, Format: FormatDual, Cycles: 6},
		{Operator: SZCB, Format: FormatDual, Cycles: 6, Byte: true},
		{Operator: S, Format: FormatDual, Cycles: 6},
		{Operator: SB, Format: FormatDual, Cycles: 6, Byte: true},
	}},

	// opcodes 0x2000-0x3fff
	{shift: 10, mask: 0x7, ops: []Definition{
		{Operator: COC, Format: FormatDualReg, Cycles: 8},
		{Operator: CZC, Format: FormatDualReg, Cycles: 8},
		{Operator: XOR, Format: FormatDualReg, Cycles: 6},
		{Operator: XOP, Format: FormatDualReg, Cycles: 20},
		{Operator: LDCR, Format: FormatDualReg, Cycles: 14},
		{Operator: STCR, Format: FormatDualReg, Cycles: 34},
		{Operator: MPY, Format: FormatDualReg, Cycles: 42},
		{Operator: DIV, Format: FormatDualReg, Cycles: 80},
	}},

	// opcodes 0x1000-0x1fff
	{shift: 8, mask: 0xf, ops: []Definition{
		{Operator: JMP, Format: FormatJump, Cycles: 6},
		{Operator: JLT, Format: FormatJump, Cycles: 6},
		{Operator: JLE, Format: FormatJump, Cycles: 6},
		{Operator: JEQ, Format: FormatJump, Cycles: 6},
		{Operator: JHE, Format: FormatJump, Cycles: 6},
		{Operator: JGT, Format: FormatJump, Cycles: 6},
		{Operator: JNE, Format: FormatJump, Cycles: 6},
		{Operator: JNC, Format: FormatJump, Cycles: 6},
		{Operator: JOC, Format: FormatJump, Cycles: 6},
		{Operator: JNO, Format: FormatJump, Cycles: 6},
		{Operator: JL, Format: FormatJump, Cycles: 6},
		{Operator: JH, Format: FormatJump, Cycles: 6},
		{Operator: JOP, Format: FormatJump, Cycles: 6},
		{Operator: SBO, Format: FormatCRUBit, Cycles: 8},
		{Operator: SBZ, Format: FormatCRUBit, Cycles: 8},
		{Operator: TB, Format: FormatCRUBit, Cycles: 8},
	}},

	// opcodes 0x0800-0x0fff
	{shift: 8, mask: 0x7, ops: []Definition{
		{Operator: SRA, Format: FormatShift, Cycles: 6},
		{Operator: SRL, Format: FormatShift, Cycles: 6},
		{Operator: SLA, Format: FormatShift, Cycles: 6},
		{Operator: SRC, Format: FormatShift, Cycles: 6},
		illegal, illegal, illegal, illegal,
	}},

	// opcodes 0x0400-0x07ff
	{shift: 6, mask: 0xf, ops: []Definition{
		{Operator: BLWP, Format: FormatSingle, Cycles: 14},
		{Operator: B, Format: FormatSingle, Cycles: 4},
		{Operator: X, Format: FormatSingle, Cycles: 4},
		{Operator: CLR, Format: FormatSingle, Cycles: 4},
		{Operator: NEG, Format: FormatSingle, Cycles: 6},
		{Operator: INV, Format: FormatSingle, Cycles: 4},
		{Operator: INC, Format: FormatSingle, Cycles: 4},
		{Operator: INCT, Format: FormatSingle, Cycles: 4},
		{Operator: DEC, Format: FormatSingle, Cycles: 4},
		{Operator: DECT, Format: FormatSingle, Cycles: 4},
		{Operator: BL, Format: FormatSingle, Cycles: 6},
		{Operator: SWPB, Format: FormatSingle, Cycles: 4},
		{Operator: SETO, Format: FormatSingle, Cycles: 4},
		{Operator: ABS, Format: FormatSingle, Cycles: 8},
		illegal, illegal,
	}},

	// opcodes 0x0200-0x03ff. note that sub-index 9 is the reserved slot
	// containing the breakpoint fetch sentinel (0x0320); as data it decodes
	// to an ordinary illegal instruction
	{shift: 5, mask: 0xf, ops: []Definition{
		{Operator: LI, Format: FormatImmediate, Cycles: 6},
		{Operator: AI, Format: FormatImmediate, Cycles: 6},
		{Operator: ANDI, Format: FormatImmediate, Cycles: 6},
		{Operator: ORI, Format: FormatImmediate, Cycles: 6},
		{Operator: CI, Format: FormatImmediate, Cycles: 8},
		{Operator: STWP, Format: FormatImmediate, Cycles: 4},
		{Operator: STST, Format: FormatImmediate, Cycles: 4},
		{Operator: LWPI, Format: FormatImmediate, Cycles: 6},
		{Operator: LIMI, Format: FormatImmediate, Cycles: 12},
		illegal,
		{Operator: IDLE, Format: FormatControl, Cycles: 10},
		{Operator: RSET, Format: FormatControl, Cycles: 10},
		{Operator: RTWP, Format: FormatControl, Cycles: 6},
		{Operator: CKON, Format: FormatControl, Cycles: 10},
		{Operator: CKOF, Format: FormatControl, Cycles: 10},
		{Operator: LREX, Format: FormatControl, Cycles: 10},
	}},
}

// Decode classifies the opcode and returns the instruction definition. All
// opcodes decode; reserved encodings return a definition with the Illegal
// operator.
func Decode(opcode uint16) *Definition {
	lz := bits.LeadingZeros16(opcode)
	if lz > 6 {
		return &illegal
	}
	g := &groups[lz]
	return &g.ops[(opcode>>g.shift)&g.mask]
}

// CyclesPerShiftedBit is the additional cost charged for every bit position
// moved by a shift instruction.
const CyclesPerShiftedBit = 2

// CyclesPerCRUBit is the additional cost charged for every bit moved by an
// LDCR transfer.
const CyclesPerCRUBit = 2

// CyclesJumpTaken is the additional cost of a jump that is taken.
const CyclesJumpTaken = 2

// CyclesShiftCountFromR0 is the additional cost of fetching the shift count
// from R0 (the bus access is charged separately).
const CyclesShiftCountFromR0 = 6

// CyclesInterrupt is the base cost of an interrupt context switch.
const CyclesInterrupt = 12

// CyclesDivOverflow is the base cost of a DIV that detects overflow early.
const CyclesDivOverflow = 10
