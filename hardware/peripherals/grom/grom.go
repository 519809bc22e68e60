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

// Package grom implements the graphics ROM: byte-serial ROM accessed through
// an auto-incrementing address counter rather than the address bus.
//
// The console ROMs hold the interpreted operating system language in GROM
// and most cartridges carry their own. Like video RAM, access goes through
// ports: an address is loaded with a two-byte sequence and data is streamed
// through the data port. The address counter increments within an 8KB
// segment, which is the size of one physical GROM chip.
package grom

import (
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gopher99/logger"
)

// SegmentSize is the span of one GROM chip. The address counter wraps within
// the current segment.
const SegmentSize = 0x2000

// AddressSpace is the full GROM address range.
const AddressSpace = 0x10000

// GROM is the graphics ROM array and its shared address counter.
type GROM struct {
	data []uint8

	address   uint16
	latch     uint8
	flipped   bool
	readAhead uint8
}

// NewGROM is the preferred method of initialisation for the GROM type.
func NewGROM() *GROM {
	return &GROM{}
}

// Attach GROM data at an offset in the GROM address space. Console GROMs load
// at zero, cartridge GROMs traditionally at 0x6000.
func (g *GROM) Attach(offset uint16, data []byte) {
	if len(g.data) == 0 {
		g.data = make([]uint8, AddressSpace)
	}
	copy(g.data[offset:], data)
}

// Reset the address counter and buffers.
func (g *GROM) Reset() {
	g.address = 0
	g.latch = 0
	g.flipped = false
	g.readAhead = 0
}

func (g *GROM) byteAt(address uint16) uint8 {
	if int(address) >= len(g.data) {
		return 0
	}
	return g.data[address]
}

// advance the address counter within the current segment.
func (g *GROM) advance() {
	g.address = g.address&^uint16(SegmentSize-1) | (g.address+1)&(SegmentSize-1)
}

// Read implements the bus Handler interface. Bit one of the address selects
// between the data port and the address counter readback.
func (g *GROM) Read(address uint16) uint16 {
	if address&2 != 0 {
		// address readback, high byte first
		g.flipped = !g.flipped
		if g.flipped {
			return uint16(g.address) & 0xff00
		}
		return uint16(g.address) << 8
	}

	b := g.readAhead
	g.readAhead = g.byteAt(g.address)
	g.advance()
	g.flipped = false
	return uint16(b) << 8
}

// Write implements the bus Handler interface. Only the address port is
// writeable; the data port belongs to writeable GROM devices the console
// never shipped with.
func (g *GROM) Write(address uint16, value uint16) {
	b := uint8(value >> 8)

	if address&2 == 0 {
		logger.Logf("grom", "data write ignored (%#02x)", b)
		return
	}

	if !g.flipped {
		g.latch = b
		g.flipped = true
		return
	}
	g.flipped = false

	// second byte completes the address, high byte first, and primes the
	// read-ahead buffer
	g.address = uint16(g.latch)<<8 | uint16(b)
	g.readAhead = g.byteAt(g.address)
	g.advance()
}

// SafeRead implements the bus SafeReader interface.
func (g *GROM) SafeRead(address uint16) uint16 {
	if address&2 != 0 {
		return uint16(g.address) & 0xff00
	}
	return uint16(g.readAhead) << 8
}

// Peek reads a GROM byte directly. Debugging surface.
func (g *GROM) Peek(address uint16) uint8 {
	return g.byteAt(address)
}

// SaveState serialises the address counter and buffers. The ROM contents are
// not part of the state.
func (g *GROM) SaveState(w io.Writer) error {
	for _, f := range []interface{}{g.address, g.latch, g.flipped, g.readAhead} {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadState restores a serialisation made with SaveState.
func (g *GROM) LoadState(r io.Reader) error {
	for _, f := range []interface{}{&g.address, &g.latch, &g.flipped, &g.readAhead} {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}
