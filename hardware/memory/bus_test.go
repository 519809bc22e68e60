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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/hardware/memory"
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/rewind"
	"github.com/jetsetilly/gopher99/test"
)

func newBus() *memory.Bus {
	return memory.NewBus(rewind.NewRewind(0))
}

func TestUnmappedAccess(t *testing.T) {
	bus := newBus()

	// the DSR space is unmapped in the base console. read yields zero, write
	// is dropped, neither is fatal
	test.Equate(t, bus.ReadWord(0x4000), 0)
	bus.WriteWord(0x4002, 0xffff)
	test.Equate(t, bus.ReadWord(0x4002), 0)
}

func TestAccessCosts(t *testing.T) {
	bus := newBus()

	// scratchpad is on the 16-bit bus
	bus.SetCycles(0)
	bus.ReadWord(0x8300)
	test.Equate(t, bus.Cycles(), addresses.AccessCost)

	// expansion RAM pays the multiplexed bus wait states
	bus.SetCycles(0)
	bus.ReadWord(0xa000)
	test.Equate(t, bus.Cycles(), addresses.AccessCost+addresses.WaitMultiplexed)

	// the total tally moves with the counter
	total := bus.TotalCycles()
	bus.WriteWord(0x8300, 0x1234)
	test.Equate(t, bus.TotalCycles(), total+uint64(addresses.AccessCost))
}

func TestOddAddressesAreForcedEven(t *testing.T) {
	bus := newBus()

	bus.WriteWord(0x8301, 0xbeef)
	test.Equate(t, bus.ReadWord(0x8300), 0xbeef)
}

func TestScratchpadMirrors(t *testing.T) {
	bus := newBus()

	bus.WriteWord(0x8300, 0x1234)
	test.Equate(t, bus.ReadWord(0x8000), 0x1234)
	test.Equate(t, bus.ReadWord(0x8100), 0x1234)
}

func TestSafeReadHasNoTimingSideEffects(t *testing.T) {
	bus := newBus()

	bus.Poke(0xa000, 0xcafe)
	bus.SetCycles(-100)
	total := bus.TotalCycles()

	test.Equate(t, bus.SafeReadWord(0xa000), 0xcafe)
	test.Equate(t, bus.Cycles(), -100)
	test.Equate(t, bus.TotalCycles(), total)
}

func TestWriteToROMIsDropped(t *testing.T) {
	bus := newBus()

	bus.Poke(0x0010, 0x1234)
	bus.WriteWord(0x0010, 0xffff)
	test.Equate(t, bus.ReadWord(0x0010), 0x1234)
}

func TestFetchBreakpoint(t *testing.T) {
	bus := newBus()
	bus.Poke(0xa000, 0x1000)

	hits := 0
	bus.AttachHooks(func(addr uint16) bool {
		hits++
		return addr == 0xa000
	}, nil)

	// without a shadow the hook is never consulted
	op, hit := bus.Fetch(0xa000)
	test.ExpectedFailure(t, hit)
	test.Equate(t, op, 0x1000)
	test.Equate(t, hits, 0)

	bus.InstallBreakpoints(0xa000, 0xa0ff)

	// a fetch hit returns the reserved opcode without charging cycles
	bus.SetCycles(-50)
	op, hit = bus.Fetch(0xa000)
	test.ExpectedSuccess(t, hit)
	test.Equate(t, op, memory.BreakpointOpcode)
	test.Equate(t, bus.Cycles(), -50)

	// a miss on a shadowed page reads normally
	op, hit = bus.Fetch(0xa002)
	test.ExpectedFailure(t, hit)

	// removal restores the original behaviour exactly
	bus.RemoveBreakpoints()
	hits = 0
	_, hit = bus.Fetch(0xa000)
	test.ExpectedFailure(t, hit)
	test.Equate(t, hits, 0)
}

func TestDataBreakpointZeroesCycleCounter(t *testing.T) {
	bus := newBus()

	bus.AttachHooks(nil, func(addr uint16) bool {
		return addr == 0xa004
	})
	bus.InstallBreakpoints(0xa000, 0xa0ff)

	bus.SetCycles(-100)
	bus.WriteWord(0xa004, 0x0001)
	test.Equate(t, bus.Cycles(), 0)

	// a non-matching access leaves the counter alone
	bus.SetCycles(-100)
	bus.WriteWord(0xa006, 0x0001)
	test.Equate(t, bus.Cycles(), -100+addresses.AccessCost+addresses.WaitMultiplexed)
}

func TestBankSwitching(t *testing.T) {
	bus := newBus()

	// two 8KB banks with distinguishable first words
	data := make([]byte, 2*memory.BankSize)
	data[0] = 0x11
	data[memory.BankSize] = 0x22
	bus.Cart.Attach(data)

	test.Equate(t, bus.Cart.GetBank(), 0)
	test.Equate(t, bus.ReadWord(0x6000), 0x1100)

	// a write to base+2n selects bank n
	bus.WriteWord(0x6002, 0xffff)
	test.Equate(t, bus.Cart.GetBank(), 1)
	test.Equate(t, bus.ReadWord(0x6000), 0x2200)

	bus.WriteWord(0x6000, 0xffff)
	test.Equate(t, bus.Cart.GetBank(), 0)
}

func TestBankClamp(t *testing.T) {
	bus := newBus()

	// three banks: the select mask covers four, so bank index 3 must clamp
	data := make([]byte, 3*memory.BankSize)
	bus.Cart.Attach(data)
	test.Equate(t, bus.Cart.NumBanks(), 3)

	bus.Cart.SetBank(3)
	test.Equate(t, bus.Cart.GetBank(), 2)
}

func TestExpansionMapping(t *testing.T) {
	bus := newBus()

	bus.Poke(0xa000, 0x5678)
	bus.MapExpansion(false)
	test.Equate(t, bus.ReadWord(0xa000), 0)

	bus.MapExpansion(true)
	test.Equate(t, bus.ReadWord(0xa000), 0x5678)
}

func TestWritesPushUndoRecords(t *testing.T) {
	rec := rewind.NewRewind(0)
	bus := memory.NewBus(rec)

	n := rec.Len()
	bus.WriteWord(0xa000, 0x0001)
	test.Equate(t, rec.Len(), n+1)

	// pokes do not touch history
	n = rec.Len()
	bus.Poke(0xa002, 0x0001)
	test.Equate(t, rec.Len(), n)
}
