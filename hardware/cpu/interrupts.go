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
	"math/bits"

	"github.com/jetsetilly/gopher99/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/rewind"
)

// Interrupts is the CPU's view of the interrupt request lines. Devices assert
// and deassert a level; the CPU samples the lines between instructions and
// takes the lowest (most urgent) asserted level that the status register's
// interrupt mask permits.
//
// The lines are level-triggered. A device's request stays asserted until the
// device withdraws it, normally as a side effect of the program acknowledging
// the device (eg. reading the VDP status register).
type Interrupts struct {
	// one bit per level, bit n for level n
	lines uint16
}

// Assert the interrupt line for a level.
func (irq *Interrupts) Assert(level int) {
	irq.lines |= 1 << (level & 0xf)
}

// Deassert the interrupt line for a level.
func (irq *Interrupts) Deassert(level int) {
	irq.lines &^= 1 << (level & 0xf)
}

// Asserted returns whether the line for a level is currently asserted.
func (irq *Interrupts) Asserted(level int) bool {
	return irq.lines&(1<<(level&0xf)) != 0
}

// Pending returns the lowest asserted level. The second return value is false
// when no line is asserted.
func (irq *Interrupts) Pending() (int, bool) {
	if irq.lines == 0 {
		return 0, false
	}
	return bits.TrailingZeros16(irq.lines), true
}

// Reset all interrupt lines.
func (irq *Interrupts) Reset() {
	irq.lines = 0
}

// ServicePendingInterrupt samples the interrupt lines and, if the lowest
// asserted level passes the status register's interrupt mask, performs the
// context switch through the level's vector. Level zero is never masked.
//
// Called between instructions, never during one. Returns true if an interrupt
// was taken.
func (mc *CPU) ServicePendingInterrupt() bool {
	level, ok := mc.Irq.Pending()
	if !ok {
		return false
	}
	if level != 0 && uint16(level) > mc.Status.InterruptMask {
		return false
	}

	mc.Idle = false

	// an interrupt context switch forms its own undo group
	c0 := mc.mem.Cycles()
	mc.rec.Push(rewind.PC(mc.PC))
	mc.rec.Push(rewind.WP(mc.WP))
	mc.rec.Push(rewind.ST(mc.Status.Value()))
	mc.rec.Push(rewind.Cycles(c0))

	mc.contextSwitch(addresses.InterruptVector(level))

	// the new mask is one below the level being serviced, holding off the
	// serviced level and everything less urgent until the handler finishes
	// or raises the mask itself
	if level == 0 {
		mc.Status.InterruptMask = 0
	} else {
		mc.Status.InterruptMask = uint16(level - 1)
	}

	mc.mem.Charge(instructions.CyclesInterrupt)

	return true
}

// contextSwitch performs the workspace switch shared by BLWP, XOP and
// interrupt servicing: the new workspace pointer and program counter are read
// from the vector, the outgoing context is stored in the new workspace's
// R13, R14 and R15.
func (mc *CPU) contextSwitch(vector uint16) {
	oldWP := mc.WP
	oldPC := mc.PC
	oldST := mc.Status.Value()

	mc.WP = mc.mem.ReadWord(vector)
	newPC := mc.mem.ReadWord(vector + 2)

	mc.writeReg(13, oldWP)
	mc.writeReg(14, oldPC)
	mc.writeReg(15, oldST)

	mc.PC = newPC
}
