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

package memory

import (
	"sync/atomic"

	"github.com/jetsetilly/gopher99/curated"
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// Handler implementations service the reads and writes for the pages claimed
// with Configure(). Addresses arriving at a handler are always even; the
// value is the full 16-bit word with device ports decoding on the high byte.
type Handler interface {
	Read(address uint16) uint16
	Write(address uint16, value uint16)
}

// SafeReader is a side-effect free read used only for inspection (debugger,
// disassembler). Implementations must never mutate device latches,
// auto-increment addresses or clear status flags.
type SafeReader interface {
	SafeRead(address uint16) uint16
}

// Poker is implemented by handlers that allow the debugger to write directly
// to backing storage, outside of normal bus operation.
type Poker interface {
	Poke(address uint16, value uint16)
}

// BreakpointOpcode is the reserved opcode returned by Fetch() when a fetch
// breakpoint hits. The value sits in a reserved slot of the immediate decode
// group; it never decodes to a real instruction.
const BreakpointOpcode = uint16(0x0320)

// sentinel errors raised by the bus.
const (
	NotPokeable = "bus: address (%#04x) is not pokeable"
)

// one entry per page of the address space. breakpoint installation marks the
// page and preserves the original handler for exact restoration; only one
// shadow layer is ever needed.
type page struct {
	handler  Handler
	safe     SafeReader
	original Handler
	shadowed bool
	wait     int
}

// Bus is the page-granular dispatcher for the 64KB address space. It owns
// the shared cycle counter: every access charges the fixed memory access
// cost plus the owning page's wait states.
//
// The bus is word-oriented, reflecting the word-addressed hardware behind
// the byte-addressable programming model. Byte placement within a word is
// the CPU's business.
type Bus struct {
	pages [addresses.PageCount]page

	rec *rewind.Rewind

	// the shared cycle counter. the CPU loop runs while the counter is <= 0;
	// the scanline driver subtracts the scanline budget before re-entering
	// the loop
	cycles int

	// monotonic count of every cycle consumed since power-on. read from
	// outside the emulation goroutine (eg. by an audio-timing consumer) so
	// access is atomic
	total uint64

	// debugger hook predicates. consulted only on shadowed pages
	onFetch  func(address uint16) bool
	onAccess func(address uint16) bool

	// the standard memory areas. exposed for the snapshot and undo surfaces,
	// which restore state without disturbing the cycle counter
	ROM     *ROM
	Scratch *RAM
	ExpLow  *RAM
	ExpHigh *RAM
	Cart    *Cartridge

	expansionMapped bool
}

// NewBus is the preferred method of initialisation for the Bus type. The
// standard console areas are installed; device pages are added by the
// machine with Configure().
func NewBus(rec *rewind.Rewind) *Bus {
	bus := &Bus{rec: rec}

	bus.ROM = newROM("console ROM", addresses.OriginROM, 0x2000)
	bus.Scratch = newRAM("scratchpad", addresses.OriginScratch, addresses.ScratchMask, 256, true, rec)
	bus.ExpLow = newRAM("expansion RAM (low)", addresses.OriginExpLow, 0x1fff, 0x2000, false, rec)
	bus.ExpHigh = newRAM("expansion RAM (high)", addresses.OriginExpHigh, 0x5fff, 0x6000, false, rec)
	bus.Cart = NewCartridge(rec)

	bus.Configure(addresses.OriginROM, addresses.MemtopROM, addresses.WaitNone, bus.ROM)
	bus.Configure(addresses.OriginScratch, addresses.MemtopScratch, addresses.WaitNone, bus.Scratch)
	bus.Configure(addresses.OriginCart, addresses.MemtopCart, addresses.WaitMultiplexed, bus.Cart)
	bus.expansionMapped = true
	bus.Configure(addresses.OriginExpLow, addresses.MemtopExpLow, addresses.WaitMultiplexed, bus.ExpLow)
	bus.Configure(addresses.OriginExpHigh, addresses.MemtopExpHigh, addresses.WaitMultiplexed, bus.ExpHigh)

	return bus
}

// Configure installs a handler across every page spanned by the address
// range. If the handler also implements the SafeReader interface it is used
// for inspection reads.
func (bus *Bus) Configure(origin uint16, memtop uint16, wait int, handler Handler) {
	safe, _ := handler.(SafeReader)
	bus.ConfigureWithSafeRead(origin, memtop, wait, handler, safe)
}

// ConfigureWithSafeRead is like Configure but with an explicit side-effect
// free read handler.
func (bus *Bus) ConfigureWithSafeRead(origin uint16, memtop uint16, wait int, handler Handler, safe SafeReader) {
	for p := origin >> addresses.PageShift; p <= memtop>>addresses.PageShift; p++ {
		bus.pages[p].handler = handler
		bus.pages[p].safe = safe
		bus.pages[p].wait = wait
		bus.pages[p].original = nil
		bus.pages[p].shadowed = false
	}
}

// MapExpansion maps the expansion RAM areas in or out of the address space.
// Always triggered synchronously from a CPU write to the expansion control
// bit on the CRU, so no synchronisation beyond the core's single-thread
// invariant is needed.
func (bus *Bus) MapExpansion(mapped bool) {
	if mapped == bus.expansionMapped {
		return
	}
	bus.expansionMapped = mapped

	if mapped {
		bus.Configure(addresses.OriginExpLow, addresses.MemtopExpLow, addresses.WaitMultiplexed, bus.ExpLow)
		bus.Configure(addresses.OriginExpHigh, addresses.MemtopExpHigh, addresses.WaitMultiplexed, bus.ExpHigh)
		return
	}

	for p := addresses.OriginExpLow >> addresses.PageShift; p <= addresses.MemtopExpLow>>addresses.PageShift; p++ {
		bus.pages[p] = page{wait: addresses.WaitMultiplexed}
	}
	for p := addresses.OriginExpHigh >> addresses.PageShift; p <= addresses.MemtopExpHigh>>addresses.PageShift; p++ {
		bus.pages[p] = page{wait: addresses.WaitMultiplexed}
	}
}

// ExpansionMapped returns whether the expansion RAM is currently visible.
func (bus *Bus) ExpansionMapped() bool {
	return bus.expansionMapped
}

// Charge the shared cycle counter with consumed cycles.
func (bus *Bus) Charge(n int) {
	bus.cycles += n
	atomic.AddUint64(&bus.total, uint64(n))
}

// Cycles returns the current value of the shared cycle counter.
func (bus *Bus) Cycles() int {
	return bus.cycles
}

// SetCycles adjusts the shared cycle counter without affecting the total
// cycle tally. Used by the scanline driver to apply the per-scanline budget
// and by single-step execution.
func (bus *Bus) SetCycles(v int) {
	bus.cycles = v
}

// TotalCycles returns the number of cycles consumed since power-on. Safe to
// call from outside the emulation goroutine.
func (bus *Bus) TotalCycles() uint64 {
	return atomic.LoadUint64(&bus.total)
}

// a data breakpoint forces the CPU loop to give up control after the current
// instruction. the end-of-instruction base cost always leaves a zeroed
// counter positive
func (bus *Bus) breakCycles() {
	if bus.cycles < 0 {
		bus.cycles = 0
	}
}

// ReadWord dispatches a read to the owning page's handler. The address is
// forced even. Unmapped pages read as zero with a diagnostic; never fatal.
func (bus *Bus) ReadWord(address uint16) uint16 {
	address &= 0xfffe
	p := &bus.pages[address>>addresses.PageShift]

	bus.Charge(addresses.AccessCost + p.wait)

	if p.handler == nil {
		logger.Logf("bus", "read from unmapped address (%#04x)", address)
		return 0
	}

	v := p.handler.Read(address)

	if p.shadowed && bus.onAccess != nil && bus.onAccess(address) {
		bus.breakCycles()
	}

	return v
}

// WriteWord dispatches a write to the owning page's handler. The address is
// forced even. Unmapped pages drop the write with a diagnostic; never fatal.
func (bus *Bus) WriteWord(address uint16, value uint16) {
	address &= 0xfffe
	p := &bus.pages[address>>addresses.PageShift]

	bus.Charge(addresses.AccessCost + p.wait)

	if p.handler == nil {
		logger.Logf("bus", "write to unmapped address (%#04x)", address)
		return
	}

	p.handler.Write(address, value)

	if p.shadowed && bus.onAccess != nil && bus.onAccess(address) {
		bus.breakCycles()
	}
}

// Fetch reads the word at an instruction fetch address. On a shadowed page
// the fetch hook runs before anything else: a hit returns BreakpointOpcode
// and true with no cycles charged and no read side effects, so the decode
// loop can stop with the instruction not yet executed.
func (bus *Bus) Fetch(address uint16) (uint16, bool) {
	address &= 0xfffe
	p := &bus.pages[address>>addresses.PageShift]

	if p.shadowed && bus.onFetch != nil && bus.onFetch(address) {
		return BreakpointOpcode, true
	}

	return bus.ReadWord(address), false
}

// SafeReadWord invokes the page's side-effect free read handler with the
// cycle counters saved and restored, guaranteeing zero timing side effects.
// Pages without a safe handler read as zero.
func (bus *Bus) SafeReadWord(address uint16) uint16 {
	address &= 0xfffe
	p := &bus.pages[address>>addresses.PageShift]

	if p.safe == nil {
		return 0
	}

	cycles := bus.cycles
	total := atomic.LoadUint64(&bus.total)
	v := p.safe.SafeRead(address)
	bus.cycles = cycles
	atomic.StoreUint64(&bus.total, total)

	return v
}

// Peek is a synonym for SafeReadWord. Debugging surface.
func (bus *Bus) Peek(address uint16) uint16 {
	return bus.SafeReadWord(address)
}

// Poke writes directly to a page's backing storage with no cycle charge and
// no undo record. Debugging surface.
func (bus *Bus) Poke(address uint16, value uint16) error {
	address &= 0xfffe
	p := &bus.pages[address>>addresses.PageShift]

	if pk, ok := p.handler.(Poker); ok {
		pk.Poke(address, value)
		return nil
	}

	return curated.Errorf(NotPokeable, address)
}

// AttachHooks registers the debugger's fetch and access predicates. The bus
// consults them only on pages shadowed with InstallBreakpoints().
func (bus *Bus) AttachHooks(onFetch func(address uint16) bool, onAccess func(address uint16) bool) {
	bus.onFetch = onFetch
	bus.onAccess = onAccess
}

// InstallBreakpoints shadows every page spanned by the address range. The
// original handlers are preserved so that RemoveBreakpoints() can restore
// them exactly.
func (bus *Bus) InstallBreakpoints(origin uint16, memtop uint16) {
	for p := origin >> addresses.PageShift; p <= memtop>>addresses.PageShift; p++ {
		if !bus.pages[p].shadowed {
			bus.pages[p].original = bus.pages[p].handler
			bus.pages[p].shadowed = true
		}
	}
}

// RemoveBreakpoints restores the saved original handlers on every shadowed
// page.
func (bus *Bus) RemoveBreakpoints() {
	for p := 0; p < addresses.PageCount; p++ {
		if bus.pages[p].shadowed {
			bus.pages[p].handler = bus.pages[p].original
			bus.pages[p].original = nil
			bus.pages[p].shadowed = false
		}
	}
}
