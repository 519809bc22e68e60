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

// Package vdp implements the video display processor's bus-facing half: the
// 16KB of video RAM behind an auto-incrementing address latch, the status
// register and the vertical blank interrupt.
//
// The CPU cannot see video RAM directly. It funnels every access through two
// memory-mapped ports, setting the address with a two-byte write sequence and
// then streaming data through the data port while the address increments
// itself. Reads are buffered: the data port returns the previously fetched
// byte and fetches the next, which is why the setup sequence for reading
// primes the buffer.
package vdp

import (
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// VRAMSize is the size of video RAM in bytes.
const VRAMSize = 0x4000

// status register bits.
const (
	statusVBlank      = 0x80
	statusFifthSprite = 0x40
	statusCoincidence = 0x20
)

// register one holds the interrupt enable bit.
const regInterruptEnable = 0x20

// VDP is the video display processor. It claims the two read ports and the
// two write ports on the memory bus; the even byte (the high half of the
// word) carries the data in both directions.
type VDP struct {
	vram      [VRAMSize]uint8
	registers [8]uint8

	// the address latch with its two-byte write sequence flip-flop
	address uint16
	latch   uint8
	flipped bool

	// data port reads return this and fetch the next byte
	readAhead uint8

	status uint8

	rec *rewind.Rewind

	// interrupt drives the VDP's pin on the interface controller
	interrupt func(bool)
}

// NewVDP is the preferred method of initialisation for the VDP type.
func NewVDP(rec *rewind.Rewind) *VDP {
	return &VDP{rec: rec}
}

// AttachInterrupt registers the function driving the VDP's interrupt pin.
func (v *VDP) AttachInterrupt(interrupt func(bool)) {
	v.interrupt = interrupt
}

// Reset the processor to its power-on state. Video RAM is not cleared; real
// hardware powers up with rubbish in it but a deterministic zero fill is
// kinder to the undo log.
func (v *VDP) Reset() {
	v.vram = [VRAMSize]uint8{}
	v.registers = [8]uint8{}
	v.address = 0
	v.latch = 0
	v.flipped = false
	v.readAhead = 0
	v.status = 0
	if v.interrupt != nil {
		v.interrupt(false)
	}
}

// SetVerticalBlank marks the top of the vertical blanking interval, raising
// the status flag and, if the program has enabled it, the interrupt pin.
func (v *VDP) SetVerticalBlank() {
	v.status |= statusVBlank
	if v.registers[1]&regInterruptEnable != 0 && v.interrupt != nil {
		v.interrupt(true)
	}
}

// Read implements the bus Handler interface. The two read ports mirror
// through their pages; bit one of the address selects between data and
// status.
func (v *VDP) Read(address uint16) uint16 {
	if address&2 != 0 {
		// status read: the flags clear, the write sequence resets and the
		// interrupt is acknowledged
		s := v.status
		v.status &^= statusVBlank | statusFifthSprite | statusCoincidence
		v.flipped = false
		if v.interrupt != nil {
			v.interrupt(false)
		}
		return uint16(s) << 8
	}

	b := v.readAhead
	v.readAhead = v.vram[v.address]
	v.address = (v.address + 1) & (VRAMSize - 1)
	v.flipped = false
	return uint16(b) << 8
}

// Write implements the bus Handler interface.
func (v *VDP) Write(address uint16, value uint16) {
	b := uint8(value >> 8)

	if address&2 != 0 {
		v.writeAddress(b)
		return
	}

	// data write
	old := v.vram[v.address]
	v.rec.Push(rewind.VRAMByte(int(v.address), old))
	v.vram[v.address] = b
	v.address = (v.address + 1) & (VRAMSize - 1)
	v.flipped = false
}

// the address port's two-byte sequence. the second byte's top two bits are
// the command: set up for reading, set up for writing, or load a register.
func (v *VDP) writeAddress(b uint8) {
	if !v.flipped {
		v.latch = b
		v.flipped = true
		return
	}
	v.flipped = false

	switch b >> 6 {
	case 0:
		// read setup primes the read-ahead buffer
		v.address = (uint16(b&0x3f)<<8 | uint16(v.latch)) & (VRAMSize - 1)
		v.readAhead = v.vram[v.address]
		v.address = (v.address + 1) & (VRAMSize - 1)
	case 1:
		v.address = (uint16(b&0x3f)<<8 | uint16(v.latch)) & (VRAMSize - 1)
	case 2:
		v.registers[b&0x7] = v.latch
	default:
		logger.Logf("vdp", "unserviced address command %#02x", b)
	}
}

// SafeRead implements the bus SafeReader interface. Latches, buffers and
// status flags are left exactly as they are.
func (v *VDP) SafeRead(address uint16) uint16 {
	if address&2 != 0 {
		return uint16(v.status) << 8
	}
	return uint16(v.readAhead) << 8
}

// Peek reads a video RAM byte directly. Debugging surface.
func (v *VDP) Peek(address uint16) uint8 {
	return v.vram[address&(VRAMSize-1)]
}

// Register returns the value of a write-only processor register. Debugging
// surface.
func (v *VDP) Register(reg int) uint8 {
	return v.registers[reg&0x7]
}

// RestoreVRAMByte writes a video RAM byte outside of normal bus operation.
// Undo surface.
func (v *VDP) RestoreVRAMByte(index int, value uint8) {
	v.vram[index&(VRAMSize-1)] = value
}

// SaveState serialises the processor, video RAM included, in a fixed field
// order.
func (v *VDP) SaveState(w io.Writer) error {
	for _, f := range []interface{}{
		v.vram, v.registers, v.address, v.latch, v.flipped, v.readAhead, v.status,
	} {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadState restores a serialisation made with SaveState.
func (v *VDP) LoadState(r io.Reader) error {
	for _, f := range []interface{}{
		&v.vram, &v.registers, &v.address, &v.latch, &v.flipped, &v.readAhead, &v.status,
	} {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}
