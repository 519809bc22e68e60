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

package cpu

import (
	"fmt"

	"github.com/jetsetilly/gopher99/hardware/cpu/execution"
	"github.com/jetsetilly/gopher99/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher99/hardware/memory"
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// CRUBus is how the CPU reaches the bit-serial communication bus. Implemented
// by the interface controller in the cru package; declared here so that the
// cru package is free to import this one.
type CRUBus interface {
	ReadBit(bit uint16) bool
	WriteBit(bit uint16, value bool)
}

// addressing mode base costs, charged on top of the bus accesses the mode
// performs.
const (
	cyclesModeIndirect    = 2
	cyclesModeSymbolic    = 6
	cyclesModeIndexed     = 4
	cyclesModeAutoincByte = 2
	cyclesModeAutoincWord = 4
)

// cycles consumed per instruction slot while the CPU idles, waiting for an
// interrupt.
const idleCycles = 2

// CPU implements the processor at the heart of the console. There are only
// three registers on the chip itself; the sixteen workspace registers live in
// memory at the workspace pointer, so even register operands travel over the
// bus and pay bus time.
type CPU struct {
	PC     uint16
	WP     uint16
	Status StatusRegister

	// the interrupt request lines. devices assert levels directly
	Irq Interrupts

	// set by the IDLE instruction, cleared by the next serviced interrupt.
	// while set the CPU consumes cycles without fetching
	Idle bool

	// set when an instruction fetch hit a breakpoint. the fetch did not
	// happen and the PC has not moved
	BreakpointHit bool

	// details of the most recently executed instruction
	LastResult execution.Result

	mem *memory.Bus
	rec *rewind.Rewind
	cru CRUBus
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(mem *memory.Bus, rec *rewind.Rewind) *CPU {
	return &CPU{mem: mem, rec: rec}
}

// AttachCRU connects the bit-serial bus. Without one, CRU instructions are
// logged and dropped.
func (mc *CPU) AttachCRU(cru CRUBus) {
	mc.cru = cru
}

// Reset the CPU. The workspace pointer and program counter are loaded from
// the vector at the bottom of memory and the status register is cleared,
// masking every interrupt level except zero.
func (mc *CPU) Reset() {
	mc.Status.Reset()
	mc.Idle = false
	mc.BreakpointHit = false
	mc.Irq.Reset()
	mc.LastResult.Reset()
	mc.WP = mc.mem.ReadWord(addresses.ResetVectorWP)
	mc.PC = mc.mem.ReadWord(addresses.ResetVectorPC)
}

func (mc *CPU) String() string {
	return fmt.Sprintf("PC=%04x WP=%04x ST=%04x [%s]", mc.PC, mc.WP, mc.Status.Value(), mc.Status.String())
}

func (mc *CPU) regAddr(reg uint16) uint16 {
	return mc.WP + reg*2
}

func (mc *CPU) readReg(reg uint16) uint16 {
	return mc.mem.ReadWord(mc.regAddr(reg))
}

func (mc *CPU) writeReg(reg uint16, value uint16) {
	mc.mem.WriteWord(mc.regAddr(reg), value)
}

// PeekReg reads a workspace register without timing or device side effects.
// Debugging surface.
func (mc *CPU) PeekReg(reg uint16) uint16 {
	return mc.mem.SafeReadWord(mc.regAddr(reg))
}

// fetchImm reads the next word of the instruction stream.
func (mc *CPU) fetchImm() uint16 {
	v := mc.mem.ReadWord(mc.PC)
	mc.PC += 2
	return v
}

// the byte programming model on a word bus: even addresses address the high
// half of the containing word.
func byteFromWord(w uint16, address uint16) uint8 {
	if address&1 == 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

func byteIntoWord(w uint16, address uint16, b uint8) uint16 {
	if address&1 == 0 {
		return uint16(b)<<8 | w&0x00ff
	}
	return w&0xff00 | uint16(b)
}

// operandAddress resolves a general addressing mode to an effective address,
// charging the mode's base cost. Bus accesses performed during resolution
// (index words, register reads, autoincrement writebacks) charge themselves.
//
// Autoincrement updates the register before the operand is used; the operand
// address is the register's prior value.
func (mc *CPU) operandAddress(mode uint16, reg uint16, byteOp bool) uint16 {
	switch mode {
	case 0:
		// workspace register direct
		return mc.regAddr(reg)

	case 1:
		// workspace register indirect
		mc.mem.Charge(cyclesModeIndirect)
		return mc.readReg(reg)

	case 2:
		// symbolic, or indexed when the register field is non-zero. R0
		// cannot be an index register
		imm := mc.fetchImm()
		if reg == 0 {
			mc.mem.Charge(cyclesModeSymbolic)
			return imm
		}
		mc.mem.Charge(cyclesModeIndexed)
		return imm + mc.readReg(reg)

	default:
		// autoincrement
		addr := mc.readReg(reg)
		if byteOp {
			mc.mem.Charge(cyclesModeAutoincByte)
			mc.writeReg(reg, addr+1)
		} else {
			mc.mem.Charge(cyclesModeAutoincWord)
			mc.writeReg(reg, addr+2)
		}
		return addr
	}
}

// ExecuteInstruction fetches, decodes and executes one instruction,
// committing all of its effects and charging all of its cycles. There is no
// mid-instruction state: an instruction either happens entirely or, on a
// fetch breakpoint, not at all.
func (mc *CPU) ExecuteInstruction() error {
	if mc.Idle {
		mc.mem.Charge(idleCycles)
		return nil
	}

	// the cycle counter value before the fetch. recorded so that undo can
	// wind the clock back along with everything else
	c0 := mc.mem.Cycles()

	opcode, hit := mc.mem.Fetch(mc.PC)
	if hit {
		mc.BreakpointHit = true
		return nil
	}
	mc.BreakpointHit = false

	// the PC record marks the instruction boundary in the undo log and must
	// be first
	mc.rec.Push(rewind.PC(mc.PC))
	mc.rec.Push(rewind.WP(mc.WP))
	mc.rec.Push(rewind.ST(mc.Status.Value()))
	mc.rec.Push(rewind.Cycles(c0))

	mc.LastResult.Reset()
	mc.LastResult.Address = mc.PC
	mc.LastResult.Opcode = opcode

	mc.PC += 2

	mc.execute(opcode)

	mc.LastResult.Cycles = mc.mem.Cycles() - c0
	mc.LastResult.Final = true

	return nil
}

// execute decodes and performs one opcode. Split from ExecuteInstruction so
// that the X instruction can run its operand as an instruction without a
// fetch and without opening a new undo group.
func (mc *CPU) execute(opcode uint16) {
	defn := instructions.Decode(opcode)

	if mc.LastResult.Defn == nil {
		mc.LastResult.Defn = defn
	}

	// the instruction's base cost is charged after execution. a data
	// breakpoint zeroes the cycle counter mid-instruction; charging the base
	// cost last guarantees the counter ends positive and the decode loop
	// yields
	extra := 0

	switch defn.Format {
	case instructions.FormatDual:
		mc.executeDual(opcode, defn)
	case instructions.FormatDualReg:
		extra = mc.executeDualReg(opcode, defn)
	case instructions.FormatJump:
		extra = mc.executeJump(defn.Operator, opcode)
	case instructions.FormatCRUBit:
		mc.executeCRUBit(defn.Operator, opcode)
	case instructions.FormatShift:
		extra = mc.executeShift(defn.Operator, opcode)
	case instructions.FormatSingle:
		mc.executeSingle(defn.Operator, opcode)
	case instructions.FormatImmediate:
		mc.executeImmediate(defn.Operator, opcode)
	case instructions.FormatControl:
		mc.executeControl(defn.Operator)
	default:
		logger.Logf("cpu", "illegal opcode %#04x at %#04x", opcode, mc.LastResult.Address)
	}

	mc.mem.Charge(defn.Cycles + extra)
}

// arithmetic helpers. flag policy is shared by the dual operand, single
// operand and immediate groups.

func (mc *CPU) add16(d uint16, s uint16) uint16 {
	r := d + s
	mc.Status.setLAE(r)
	mc.Status.Carry = uint32(d)+uint32(s) > 0xffff
	mc.Status.Overflow = (d^r)&(s^r)&0x8000 != 0
	return r
}

func (mc *CPU) sub16(d uint16, s uint16) uint16 {
	r := d - s
	mc.Status.setLAE(r)

	// subtraction is implemented as addition of the complement so carry
	// means no-borrow
	mc.Status.Carry = d >= s
	mc.Status.Overflow = (d^s)&(d^r)&0x8000 != 0
	return r
}

func (mc *CPU) add8(d uint8, s uint8) uint8 {
	r := d + s
	mc.Status.setLAEByte(r)
	mc.Status.Carry = uint16(d)+uint16(s) > 0xff
	mc.Status.Overflow = (d^r)&(s^r)&0x80 != 0
	mc.Status.setParity(r)
	return r
}

func (mc *CPU) sub8(d uint8, s uint8) uint8 {
	r := d - s
	mc.Status.setLAEByte(r)
	mc.Status.Carry = d >= s
	mc.Status.Overflow = (d^s)&(d^r)&0x80 != 0
	mc.Status.setParity(r)
	return r
}

func (mc *CPU) executeDual(opcode uint16, defn *instructions.Definition) {
	ts := (opcode >> 4) & 3
	sreg := opcode & 0xf
	td := (opcode >> 10) & 3
	dreg := (opcode >> 6) & 0xf

	if defn.Byte {
		sAddr := mc.operandAddress(ts, sreg, true)
		sb := byteFromWord(mc.mem.ReadWord(sAddr), sAddr)
		dAddr := mc.operandAddress(td, dreg, true)

		// the destination word is always read, even for a plain move: the
		// other byte of the word has to survive the writeback
		dw := mc.mem.ReadWord(dAddr)
		db := byteFromWord(dw, dAddr)

		var r uint8
		switch defn.Operator {
		case instructions.CB:
			mc.Status.setCompareByte(sb, db)
			mc.Status.setParity(sb)
			return
		case instructions.AB:
			r = mc.add8(db, sb)
		case instructions.SB:
			r = mc.sub8(db, sb)
		case instructions.MOVB:
			r = sb
			mc.Status.setLAEByte(r)
			mc.Status.setParity(r)
		case instructions.SOCB:
			r = db | sb
			mc.Status.setLAEByte(r)
			mc.Status.setParity(r)
		case instructions.SZCB:
			r = db &^ sb
			mc.Status.setLAEByte(r)
			mc.Status.setParity(r)
		}

		mc.mem.WriteWord(dAddr, byteIntoWord(dw, dAddr, r))
		return
	}

	sAddr := mc.operandAddress(ts, sreg, false)
	sv := mc.mem.ReadWord(sAddr)
	dAddr := mc.operandAddress(td, dreg, false)
	dv := mc.mem.ReadWord(dAddr)

	var r uint16
	switch defn.Operator {
	case instructions.C:
		mc.Status.setCompare(sv, dv)
		return
	case instructions.A:
		r = mc.add16(dv, sv)
	case instructions.S:
		r = mc.sub16(dv, sv)
	case instructions.MOV:
		r = sv
		mc.Status.setLAE(r)
	case instructions.SOC:
		r = dv | sv
		mc.Status.setLAE(r)
	case instructions.SZC:
		r = dv &^ sv
		mc.Status.setLAE(r)
	}

	mc.mem.WriteWord(dAddr, r)
}

func (mc *CPU) executeDualReg(opcode uint16, defn *instructions.Definition) int {
	ts := (opcode >> 4) & 3
	sreg := opcode & 0xf
	d := (opcode >> 6) & 0xf

	switch defn.Operator {
	case instructions.LDCR:
		return mc.executeLDCR(ts, sreg, d)
	case instructions.STCR:
		return mc.executeSTCR(ts, sreg, d)
	}

	sAddr := mc.operandAddress(ts, sreg, false)
	sv := mc.mem.ReadWord(sAddr)

	switch defn.Operator {
	case instructions.COC:
		dv := mc.readReg(d)
		mc.Status.Equal = sv&dv == sv
	case instructions.CZC:
		dv := mc.readReg(d)
		mc.Status.Equal = sv&dv == 0
	case instructions.XOR:
		r := mc.readReg(d) ^ sv
		mc.Status.setLAE(r)
		mc.writeReg(d, r)
	case instructions.MPY:
		p := uint32(mc.readReg(d)) * uint32(sv)
		mc.writeReg(d, uint16(p>>16))
		mc.writeReg(d+1, uint16(p))
	case instructions.DIV:
		hi := mc.readReg(d)
		if sv <= hi {
			// quotient would not fit in sixteen bits. detected before the
			// low word is even read, which is why the overflow path is so
			// much quicker
			mc.Status.Overflow = true
			return instructions.CyclesDivOverflow - defn.Cycles
		}
		dvd := uint32(hi)<<16 | uint32(mc.readReg(d+1))
		mc.writeReg(d, uint16(dvd/uint32(sv)))
		mc.writeReg(d+1, uint16(dvd%uint32(sv)))
		mc.Status.Overflow = false
	case instructions.XOP:
		mc.contextSwitch(addresses.XOPVectors + d*4)
		mc.writeReg(11, sAddr)
		mc.Status.ExtendedOp = true
	}

	return 0
}

func (mc *CPU) executeJump(op instructions.Operator, opcode uint16) int {
	var taken bool
	switch op {
	case instructions.JMP:
		taken = true
	case instructions.JLT:
		taken = !mc.Status.ArithmeticGreater && !mc.Status.Equal
	case instructions.JLE:
		taken = !mc.Status.LogicalGreater || mc.Status.Equal
	case instructions.JEQ:
		taken = mc.Status.Equal
	case instructions.JHE:
		taken = mc.Status.LogicalGreater || mc.Status.Equal
	case instructions.JGT:
		taken = mc.Status.ArithmeticGreater
	case instructions.JNE:
		taken = !mc.Status.Equal
	case instructions.JNC:
		taken = !mc.Status.Carry
	case instructions.JOC:
		taken = mc.Status.Carry
	case instructions.JNO:
		taken = !mc.Status.Overflow
	case instructions.JL:
		taken = !mc.Status.LogicalGreater && !mc.Status.Equal
	case instructions.JH:
		taken = mc.Status.LogicalGreater && !mc.Status.Equal
	case instructions.JOP:
		taken = mc.Status.OddParity
	}

	if !taken {
		return 0
	}

	mc.PC += uint16(int16(int8(opcode))) * 2
	return instructions.CyclesJumpTaken
}

// cruBase reads R12 and extracts the CRU bit base address. Bits one to twelve
// of the register hold the base; the bottom bit is not part of it.
func (mc *CPU) cruBase() uint16 {
	return (mc.readReg(12) & 0x1ffe) >> 1
}

func (mc *CPU) cruReadBit(bit uint16) bool {
	if mc.cru == nil {
		logger.Log("cpu", "CRU read with no CRU attached")
		return false
	}
	return mc.cru.ReadBit(bit & 0xfff)
}

func (mc *CPU) cruWriteBit(bit uint16, value bool) {
	if mc.cru == nil {
		logger.Log("cpu", "CRU write with no CRU attached")
		return
	}
	mc.cru.WriteBit(bit&0xfff, value)
}

func (mc *CPU) executeCRUBit(op instructions.Operator, opcode uint16) {
	bit := uint16(int32(mc.cruBase()) + int32(int8(opcode)))

	switch op {
	case instructions.SBO:
		mc.cruWriteBit(bit, true)
	case instructions.SBZ:
		mc.cruWriteBit(bit, false)
	case instructions.TB:
		mc.Status.Equal = mc.cruReadBit(bit)
	}
}

func (mc *CPU) executeLDCR(ts uint16, sreg uint16, count uint16) int {
	c := int(count)
	if c == 0 {
		c = 16
	}

	// transfers of eight bits or fewer follow the byte programming model
	byteOp := c <= 8

	sAddr := mc.operandAddress(ts, sreg, byteOp)

	var v uint16
	if byteOp {
		b := byteFromWord(mc.mem.ReadWord(sAddr), sAddr)
		v = uint16(b)
		mc.Status.setLAEByte(b)
		mc.Status.setParity(b)
	} else {
		v = mc.mem.ReadWord(sAddr)
		mc.Status.setLAE(v)
	}

	base := mc.cruBase()
	for i := 0; i < c; i++ {
		mc.cruWriteBit(base+uint16(i), v&(1<<i) != 0)
	}

	return instructions.CyclesPerCRUBit * c
}

func (mc *CPU) executeSTCR(ts uint16, sreg uint16, count uint16) int {
	c := int(count)
	if c == 0 {
		c = 16
	}
	byteOp := c <= 8

	dAddr := mc.operandAddress(ts, sreg, byteOp)
	base := mc.cruBase()

	var v uint16
	for i := 0; i < c; i++ {
		if mc.cruReadBit(base + uint16(i)) {
			v |= 1 << i
		}
	}

	dw := mc.mem.ReadWord(dAddr)
	if byteOp {
		mc.mem.WriteWord(dAddr, byteIntoWord(dw, dAddr, uint8(v)))
		mc.Status.setLAEByte(uint8(v))
		mc.Status.setParity(uint8(v))
	} else {
		mc.mem.WriteWord(dAddr, v)
		mc.Status.setLAE(v)
	}

	// the hardware takes noticeably longer to assemble a full word from the
	// serial bus
	switch {
	case c == 8:
		return 2
	case c >= 9 && c <= 15:
		return 16
	case c == 16:
		return 18
	}
	return 0
}

func (mc *CPU) executeShift(op instructions.Operator, opcode uint16) int {
	w := opcode & 0xf
	count := int(opcode>>4) & 0xf
	extra := 0

	// a zero count in the opcode takes the count from R0. if R0's bottom
	// nibble is also zero the shift is a full sixteen bits
	if count == 0 {
		extra += instructions.CyclesShiftCountFromR0
		count = int(mc.readReg(0)) & 0xf
		if count == 0 {
			count = 16
		}
	}

	v := mc.readReg(w)
	r := v
	carry := false
	overflow := false

	for i := 0; i < count; i++ {
		switch op {
		case instructions.SRA:
			carry = r&1 != 0
			r = r>>1 | r&0x8000
		case instructions.SRL:
			carry = r&1 != 0
			r >>= 1
		case instructions.SLA:
			carry = r&0x8000 != 0
			n := r << 1
			if (n^r)&0x8000 != 0 {
				overflow = true
			}
			r = n
		case instructions.SRC:
			carry = r&1 != 0
			r = r>>1 | r<<15
		}
	}

	mc.Status.setLAE(r)
	mc.Status.Carry = carry
	if op == instructions.SLA {
		mc.Status.Overflow = overflow
	}
	mc.writeReg(w, r)

	return extra + instructions.CyclesPerShiftedBit*count
}

func (mc *CPU) executeSingle(op instructions.Operator, opcode uint16) {
	ts := (opcode >> 4) & 3
	sreg := opcode & 0xf
	addr := mc.operandAddress(ts, sreg, false)

	switch op {
	case instructions.BLWP:
		mc.contextSwitch(addr)

	case instructions.B:
		mc.PC = addr

	case instructions.X:
		// the operand is executed as an instruction, inside this
		// instruction's undo group. immediate and index words for the
		// executed instruction come from the normal instruction stream
		mc.execute(mc.mem.ReadWord(addr))

	case instructions.CLR:
		mc.mem.ReadWord(addr)
		mc.mem.WriteWord(addr, 0)

	case instructions.SETO:
		mc.mem.ReadWord(addr)
		mc.mem.WriteWord(addr, 0xffff)

	case instructions.INV:
		r := ^mc.mem.ReadWord(addr)
		mc.Status.setLAE(r)
		mc.mem.WriteWord(addr, r)

	case instructions.NEG:
		v := mc.mem.ReadWord(addr)
		r := -v
		mc.Status.setLAE(r)
		mc.Status.Overflow = v == 0x8000
		mc.Status.Carry = v == 0
		mc.mem.WriteWord(addr, r)

	case instructions.INC:
		mc.mem.WriteWord(addr, mc.add16(mc.mem.ReadWord(addr), 1))

	case instructions.INCT:
		mc.mem.WriteWord(addr, mc.add16(mc.mem.ReadWord(addr), 2))

	case instructions.DEC:
		mc.mem.WriteWord(addr, mc.sub16(mc.mem.ReadWord(addr), 1))

	case instructions.DECT:
		mc.mem.WriteWord(addr, mc.sub16(mc.mem.ReadWord(addr), 2))

	case instructions.BL:
		mc.writeReg(11, mc.PC)
		mc.PC = addr

	case instructions.SWPB:
		v := mc.mem.ReadWord(addr)
		mc.mem.WriteWord(addr, v>>8|v<<8)

	case instructions.ABS:
		// the comparison flags describe the operand before the operation
		v := mc.mem.ReadWord(addr)
		mc.Status.setLAE(v)
		mc.Status.Carry = false
		mc.Status.Overflow = v == 0x8000
		if v&0x8000 != 0 && v != 0x8000 {
			mc.mem.WriteWord(addr, -v)
		}
	}
}

func (mc *CPU) executeImmediate(op instructions.Operator, opcode uint16) {
	w := opcode & 0xf

	switch op {
	case instructions.LI:
		imm := mc.fetchImm()
		mc.Status.setLAE(imm)
		mc.writeReg(w, imm)
	case instructions.AI:
		imm := mc.fetchImm()
		mc.writeReg(w, mc.add16(mc.readReg(w), imm))
	case instructions.ANDI:
		imm := mc.fetchImm()
		r := mc.readReg(w) & imm
		mc.Status.setLAE(r)
		mc.writeReg(w, r)
	case instructions.ORI:
		imm := mc.fetchImm()
		r := mc.readReg(w) | imm
		mc.Status.setLAE(r)
		mc.writeReg(w, r)
	case instructions.CI:
		imm := mc.fetchImm()
		mc.Status.setCompare(mc.readReg(w), imm)
	case instructions.STWP:
		mc.writeReg(w, mc.WP)
	case instructions.STST:
		mc.writeReg(w, mc.Status.Value())
	case instructions.LWPI:
		mc.WP = mc.fetchImm()
	case instructions.LIMI:
		mc.Status.InterruptMask = mc.fetchImm() & 0xf
	}
}

func (mc *CPU) executeControl(op instructions.Operator) {
	switch op {
	case instructions.IDLE:
		mc.Idle = true

	case instructions.RSET:
		mc.Status.InterruptMask = 0

	case instructions.RTWP:
		wp := mc.readReg(13)
		pc := mc.readReg(14)
		st := mc.readReg(15)
		mc.WP = wp
		mc.PC = pc
		mc.Status.Load(st)

	case instructions.CKON, instructions.CKOF, instructions.LREX:
		// the external instruction lines are not connected to anything in
		// the console
		logger.Logf("cpu", "%s external line is not connected", op)
	}
}
