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

package hardware

import (
	"github.com/jetsetilly/gopher99/hardware/cpu"
	"github.com/jetsetilly/gopher99/hardware/cru"
	"github.com/jetsetilly/gopher99/hardware/memory"
	"github.com/jetsetilly/gopher99/hardware/memory/addresses"
	"github.com/jetsetilly/gopher99/hardware/peripherals/grom"
	"github.com/jetsetilly/gopher99/hardware/peripherals/sound"
	"github.com/jetsetilly/gopher99/hardware/peripherals/vdp"
	"github.com/jetsetilly/gopher99/rewind"
)

// TI99 is the assembled console.
type TI99 struct {
	CPU   *cpu.CPU
	Mem   *memory.Bus
	CRU   *cru.Controller
	VDP   *vdp.VDP
	GROM  *grom.GROM
	Sound *sound.Generator
	Rec   *rewind.Rewind

	// current scanline and frame. the scanline is the console's unit of
	// scheduling; see run.go
	scanline int
	frame    int

	// whether the current scanline's cycle budget has been applied but not
	// yet exhausted. set across a breakpoint return so that resuming does
	// not charge the budget twice
	midScanline bool
}

// NewTI99 is the preferred method of initialisation for the TI99 type. The
// returned console has no ROMs attached and is in need of a Reset().
func NewTI99() *TI99 {
	rec := rewind.NewRewind(0)
	mem := memory.NewBus(rec)
	mc := cpu.NewCPU(mem, rec)

	ctrl := cru.NewController(&mc.Irq)
	ctrl.AttachExpansionMapper(mem.MapExpansion)
	mc.AttachCRU(ctrl)

	v := vdp.NewVDP(rec)
	v.AttachInterrupt(func(asserted bool) {
		ctrl.SetPin(cru.PinVDP, asserted)
	})

	g := grom.NewGROM()
	snd := sound.NewGenerator()

	// the device pages. the speech synthesiser's range is left unmapped
	mem.Configure(addresses.SoundPort, 0x87ff, addresses.WaitMultiplexed, snd)
	mem.Configure(addresses.VDPRead, 0x8fff, addresses.WaitMultiplexed, v)
	mem.Configure(addresses.GROMRead, 0x9fff, addresses.WaitMultiplexed, g)

	return &TI99{
		CPU:   mc,
		Mem:   mem,
		CRU:   ctrl,
		VDP:   v,
		GROM:  g,
		Sound: snd,
		Rec:   rec,
	}
}

// Reset the console to its power-on state. Undo history is discarded; a reset
// is a wall, not an event that can be stepped back over.
func (ti *TI99) Reset() {
	ti.Rec.Reset()
	ti.CRU.Reset()
	ti.VDP.Reset()
	ti.GROM.Reset()
	ti.Sound.Reset()
	ti.CPU.Reset()
	ti.Mem.SetCycles(0)
	ti.scanline = 0
	ti.frame = 0
	ti.midScanline = false
}

// LoadConsoleROM attaches the console operating system ROM.
func (ti *TI99) LoadConsoleROM(data []byte) {
	ti.Mem.ROM.Load(data)
}

// AttachCartridge attaches cartridge ROM at the cartridge window.
func (ti *TI99) AttachCartridge(data []byte) {
	ti.Mem.Cart.Attach(data)
}

// AttachGROM attaches GROM data at an offset in the GROM address space.
func (ti *TI99) AttachGROM(offset uint16, data []byte) {
	ti.GROM.Attach(offset, data)
}

// Scanline returns the current scanline number.
func (ti *TI99) Scanline() int {
	return ti.scanline
}

// Frame returns the number of completed frames since the last reset.
func (ti *TI99) Frame() int {
	return ti.frame
}

// Undo winds the console back by exactly one instruction (or one interrupt
// context switch). Implemented by applying the inverse of every logged
// mutation back to and including the instruction boundary.
func (ti *TI99) Undo() error {
	return ti.Rec.PopOneInstruction(ti)
}

// The rewind.Machine implementation. Restoration bypasses the bus: no cycles
// are charged and no device latches are disturbed.

// RestorePC implements the rewind.Machine interface.
func (ti *TI99) RestorePC(value uint16) {
	ti.CPU.PC = value
}

// RestoreWP implements the rewind.Machine interface.
func (ti *TI99) RestoreWP(value uint16) {
	ti.CPU.WP = value
}

// RestoreST implements the rewind.Machine interface.
func (ti *TI99) RestoreST(value uint16) {
	ti.CPU.Status.Load(value)
}

// RestoreCycles implements the rewind.Machine interface.
func (ti *TI99) RestoreCycles(value int) {
	ti.Mem.SetCycles(value)
}

// RestoreBank implements the rewind.Machine interface.
func (ti *TI99) RestoreBank(value int) {
	ti.Mem.Cart.SetBank(value)
}

// RestoreRAMWord implements the rewind.Machine interface. The index is a word
// index into the full address space.
func (ti *TI99) RestoreRAMWord(index int, value uint16) {
	address := uint16(index << 1)
	switch {
	case address >= addresses.OriginExpLow && address <= addresses.MemtopExpLow:
		ti.Mem.ExpLow.Set(int(address-addresses.OriginExpLow)>>1, value)
	case address >= addresses.OriginExpHigh:
		ti.Mem.ExpHigh.Set(int(address-addresses.OriginExpHigh)>>1, value)
	}
}

// RestoreVRAMByte implements the rewind.Machine interface.
func (ti *TI99) RestoreVRAMByte(index int, value uint8) {
	ti.VDP.RestoreVRAMByte(index, value)
}

// RestoreScratchWord implements the rewind.Machine interface.
func (ti *TI99) RestoreScratchWord(index int, value uint16) {
	ti.Mem.Scratch.Set(index, value)
}
