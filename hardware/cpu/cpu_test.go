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

package cpu_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/hardware/cpu"
	"github.com/jetsetilly/gopher99/hardware/memory"
	"github.com/jetsetilly/gopher99/rewind"
	"github.com/jetsetilly/gopher99/test"
)

// workspace at the bottom of the scratchpad, program a little above it. both
// on the fast bus so that cycle expectations have no wait states in them.
const (
	testWP = uint16(0x8300)
	testPC = uint16(0x8320)
)

func newTestCPU() (*cpu.CPU, *memory.Bus, *rewind.Rewind) {
	rec := rewind.NewRewind(0)
	bus := memory.NewBus(rec)
	mc := cpu.NewCPU(bus, rec)

	bus.Poke(0x0000, testWP)
	bus.Poke(0x0002, testPC)
	mc.Reset()

	return mc, bus, rec
}

// poke a program into memory starting at the reset PC.
func pokeProgram(bus *memory.Bus, words ...uint16) {
	for i, w := range words {
		bus.Poke(testPC+uint16(i*2), w)
	}
}

func pokeReg(bus *memory.Bus, reg uint16, value uint16) {
	bus.Poke(testWP+reg*2, value)
}

func TestAddOverflow(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// A R1,R2 with two large positive values. the sum wraps negative
	pokeProgram(bus, 0xa081)
	pokeReg(bus, 1, 0x4000)
	pokeReg(bus, 2, 0x4000)

	test.Equate(t, mc.ExecuteInstruction(), nil)

	test.Equate(t, mc.PeekReg(2), 0x8000)
	test.ExpectedSuccess(t, mc.Status.Overflow)
	test.ExpectedFailure(t, mc.Status.Carry)
	test.ExpectedFailure(t, mc.Status.LogicalGreater)
	test.ExpectedFailure(t, mc.Status.ArithmeticGreater)
	test.ExpectedFailure(t, mc.Status.Equal)
}

func TestAddSignedOverflowFlags(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// A R1,R2 taking the largest positive value over the top by one. the
	// result 0x8000 is negative, so neither greater-than flag is set and
	// there is no carry out of bit zero
	pokeProgram(bus, 0xa081)
	pokeReg(bus, 1, 0x7fff)
	pokeReg(bus, 2, 0x0001)

	test.Equate(t, mc.ExecuteInstruction(), nil)

	test.Equate(t, mc.PeekReg(2), 0x8000)
	test.ExpectedSuccess(t, mc.Status.Overflow)
	test.ExpectedFailure(t, mc.Status.Carry)
	test.ExpectedFailure(t, mc.Status.LogicalGreater)
	test.ExpectedFailure(t, mc.Status.ArithmeticGreater)
	test.ExpectedFailure(t, mc.Status.Equal)
}

func TestSubtractCarryMeansNoBorrow(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// S R1,R2 computes R2 - R1
	pokeProgram(bus, 0x6081)
	pokeReg(bus, 1, 0x0001)
	pokeReg(bus, 2, 0x0005)
	mc.ExecuteInstruction()

	test.Equate(t, mc.PeekReg(2), 0x0004)
	test.ExpectedSuccess(t, mc.Status.Carry)

	// and again with a borrow
	mc.Reset()
	pokeReg(bus, 1, 0x0005)
	pokeReg(bus, 2, 0x0001)
	mc.ExecuteInstruction()

	test.Equate(t, mc.PeekReg(2), 0xfffc)
	test.ExpectedFailure(t, mc.Status.Carry)
}

func TestMoveTiming(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// MOV R1,R2 on the fast bus: four word accesses plus the base cost
	pokeProgram(bus, 0xc081)
	bus.SetCycles(0)
	mc.ExecuteInstruction()
	test.Equate(t, mc.LastResult.Cycles, 14)

	// MOV @2(R1),R2: the indexed source adds its mode cost, the index word
	// fetch and the register read
	mc.Reset()
	pokeProgram(bus, 0xc0a1, 0x0002)
	pokeReg(bus, 1, 0x8340)
	bus.SetCycles(0)
	mc.ExecuteInstruction()
	test.Equate(t, mc.LastResult.Cycles, 22)
}

func TestBytePlacementAndParity(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// MOVB R1,@0x8343: a register byte operand is the register's high byte,
	// an odd destination address is the low half of the containing word
	pokeProgram(bus, 0xd801, 0x8343)
	pokeReg(bus, 1, 0xabcd)
	bus.Poke(0x8342, 0x1122)

	mc.ExecuteInstruction()

	test.Equate(t, bus.Peek(0x8342), 0x11ab)
	test.ExpectedFailure(t, mc.Status.LogicalGreater)
	test.ExpectedFailure(t, mc.Status.ArithmeticGreater)

	// 0xab has five bits set
	test.ExpectedSuccess(t, mc.Status.OddParity)
}

func TestAbsoluteValue(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// the most negative value has no positive counterpart: overflow, value
	// unchanged
	pokeProgram(bus, 0x0741)
	pokeReg(bus, 1, 0x8000)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PeekReg(1), 0x8000)
	test.ExpectedSuccess(t, mc.Status.Overflow)
	test.ExpectedFailure(t, mc.Status.LogicalGreater)
	test.ExpectedFailure(t, mc.Status.ArithmeticGreater)

	// an ordinary negative value is negated
	mc.Reset()
	pokeReg(bus, 1, 0xffff)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PeekReg(1), 0x0001)
	test.ExpectedFailure(t, mc.Status.Overflow)
}

func TestShiftCountFromR0(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// SLA R1,0 takes the count from the bottom nibble of R0
	pokeProgram(bus, 0x0a01)
	pokeReg(bus, 0, 0x0003)
	pokeReg(bus, 1, 0x0001)
	bus.SetCycles(0)
	mc.ExecuteInstruction()

	test.Equate(t, mc.PeekReg(1), 0x0008)
	test.ExpectedFailure(t, mc.Status.Carry)
	test.Equate(t, mc.LastResult.Cycles, 26)

	// a zero count in R0 as well means a full sixteen bit shift
	mc.Reset()
	pokeReg(bus, 0, 0x0000)
	pokeReg(bus, 1, 0x0001)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PeekReg(1), 0x0000)
	test.ExpectedSuccess(t, mc.Status.Equal)
}

func TestJumpTiming(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// JEQ with EQ clear does not jump
	pokeProgram(bus, 0x1302)
	bus.SetCycles(0)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PC, testPC+2)
	test.Equate(t, mc.LastResult.Cycles, 8)

	// with EQ set the jump is taken and costs more
	mc.Reset()
	mc.Status.Equal = true
	bus.SetCycles(0)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PC, testPC+2+4)
	test.Equate(t, mc.LastResult.Cycles, 10)
}

func TestContextSwitchAndReturn(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// BLWP @0x8340 with a vector pointing at a new workspace and an RTWP
	pokeProgram(bus, 0x0420, 0x8340)
	bus.Poke(0x8340, 0x8360)
	bus.Poke(0x8342, 0x8380)
	bus.Poke(0x8380, 0x0380) // RTWP

	mc.ExecuteInstruction()

	test.Equate(t, mc.WP, 0x8360)
	test.Equate(t, mc.PC, 0x8380)
	test.Equate(t, mc.PeekReg(13), testWP)
	test.Equate(t, mc.PeekReg(14), testPC+4)

	mc.ExecuteInstruction()

	test.Equate(t, mc.WP, testWP)
	test.Equate(t, mc.PC, testPC+4)
}

func TestInterruptGating(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// vector for level two
	bus.Poke(0x0008, 0x8360)
	bus.Poke(0x000a, 0x8380)

	mc.Irq.Assert(2)

	// the power-on mask holds off everything but level zero
	test.ExpectedFailure(t, mc.ServicePendingInterrupt())

	mc.Status.InterruptMask = 1
	test.ExpectedFailure(t, mc.ServicePendingInterrupt())

	mc.Status.InterruptMask = 2
	test.ExpectedSuccess(t, mc.ServicePendingInterrupt())

	test.Equate(t, mc.WP, 0x8360)
	test.Equate(t, mc.PC, 0x8380)
	test.Equate(t, mc.PeekReg(13), testWP)
	test.Equate(t, mc.PeekReg(14), testPC)

	// the new mask is one below the serviced level
	test.Equate(t, mc.Status.InterruptMask, 1)

	// the line is still asserted but the lowered mask now holds it off
	test.ExpectedFailure(t, mc.ServicePendingInterrupt())
}

func TestIdleWaitsForInterrupt(t *testing.T) {
	mc, bus, _ := newTestCPU()

	pokeProgram(bus, 0x0340)
	mc.ExecuteInstruction()
	test.ExpectedSuccess(t, mc.Idle)

	// the clock keeps running but the PC does not move
	pc := mc.PC
	bus.SetCycles(0)
	mc.ExecuteInstruction()
	test.Equate(t, mc.PC, pc)
	test.ExpectedSuccess(t, bus.Cycles() > 0)

	// level zero is never masked and ends the idle
	bus.Poke(0x0000, 0x8360)
	bus.Poke(0x0002, 0x8380)
	mc.Irq.Assert(0)
	test.ExpectedSuccess(t, mc.ServicePendingInterrupt())
	test.ExpectedFailure(t, mc.Idle)
}

func TestDivideOverflow(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// DIV R1,R2: the divisor is not greater than the dividend's high word,
	// so the quotient cannot fit
	pokeProgram(bus, 0x3c81)
	pokeReg(bus, 1, 0x0002)
	pokeReg(bus, 2, 0x0002)
	pokeReg(bus, 3, 0x0001)
	mc.ExecuteInstruction()

	test.ExpectedSuccess(t, mc.Status.Overflow)
	test.Equate(t, mc.PeekReg(2), 0x0002)
	test.Equate(t, mc.PeekReg(3), 0x0001)

	// a well-behaved division
	mc.Reset()
	pokeReg(bus, 1, 0x0004)
	pokeReg(bus, 2, 0x0000)
	pokeReg(bus, 3, 0x000e)
	mc.ExecuteInstruction()

	test.ExpectedFailure(t, mc.Status.Overflow)
	test.Equate(t, mc.PeekReg(2), 0x0003)
	test.Equate(t, mc.PeekReg(3), 0x0002)
}

func TestExecuteSourceInstruction(t *testing.T) {
	mc, bus, _ := newTestCPU()

	// X R1 where R1 holds INC R2
	pokeProgram(bus, 0x0481)
	pokeReg(bus, 1, 0x0582)
	pokeReg(bus, 2, 0x0009)
	mc.ExecuteInstruction()

	test.Equate(t, mc.PeekReg(2), 0x000a)
	test.Equate(t, mc.PC, testPC+2)
}

func TestUndoRecordsPerInstruction(t *testing.T) {
	mc, bus, rec := newTestCPU()

	// LI R2,0x1234 then INC R2: each instruction opens a four record group
	// and the register write adds one more
	pokeProgram(bus, 0x0202, 0x1234, 0x0582)

	n := rec.Len()
	mc.ExecuteInstruction()
	test.Equate(t, rec.Len(), n+5)
	mc.ExecuteInstruction()
	test.Equate(t, rec.Len(), n+10)
	test.Equate(t, mc.PeekReg(2), 0x1235)
}

func TestStatusWordRoundTrip(t *testing.T) {
	mc, _, _ := newTestCPU()

	mc.Status.Load(0xffff)
	test.Equate(t, mc.Status.Value(), 0xfe0f)

	mc.Status.Load(0x0000)
	test.Equate(t, mc.Status.Value(), 0)
}
