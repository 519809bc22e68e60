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

// Package addresses defines the memory map of the console. The 64KB address
// space is word-addressed hardware behind a byte-addressed programming model;
// all constants here are byte addresses with even alignment where the
// hardware demands it.
package addresses

// Page granularity of the memory bus dispatch table.
const (
	PageSize  = 256
	PageCount = 256
	PageShift = 8
)

// The origin and memory top for each area of memory.
//
// Console ROM and the scratchpad are on the fast 16-bit bus. Everything else
// sits behind the multiplexed 8-bit bus and pays wait states on every access.
const (
	OriginROM     = uint16(0x0000)
	MemtopROM     = uint16(0x1fff)
	OriginExpLow  = uint16(0x2000)
	MemtopExpLow  = uint16(0x3fff)
	OriginCart    = uint16(0x6000)
	MemtopCart    = uint16(0x7fff)
	OriginScratch = uint16(0x8000)
	MemtopScratch = uint16(0x83ff)
	OriginExpHigh = uint16(0xa000)
	MemtopExpHigh = uint16(0xffff)
)

// The scratchpad is 256 bytes of fast RAM mirrored through the whole of its
// 1KB area. ScratchMask keeps only the relevant bits of a scratchpad
// address.
const ScratchMask = uint16(0x00ff)

// Memory-mapped device ports. All ports decode on the even byte, ie. the
// high half of the containing word.
const (
	SoundPort        = uint16(0x8400)
	VDPRead          = uint16(0x8800)
	VDPStatus        = uint16(0x8802)
	VDPWrite         = uint16(0x8c00)
	VDPAddress       = uint16(0x8c02)
	GROMRead         = uint16(0x9800)
	GROMReadAddress  = uint16(0x9802)
	GROMWrite        = uint16(0x9c00)
	GROMWriteAddress = uint16(0x9c02)
)

// Reset loads WP and PC from the words at addresses 0 and 2. Interrupt level
// n vectors from 4n, extended operation n from XOPVectors+4n.
const (
	ResetVectorWP = uint16(0x0000)
	ResetVectorPC = uint16(0x0002)
	XOPVectors    = uint16(0x0040)
)

// InterruptVector returns the address of the WP word for the interrupt
// vector at the specified level. The PC word is the adjacent word.
func InterruptVector(level int) uint16 {
	return uint16(level) * 4
}

// Cycle costs charged by the bus. Every word access costs AccessCost; pages
// behind the multiplexed 8-bit bus add WaitMultiplexed on top.
const (
	AccessCost      = 2
	WaitNone        = 0
	WaitMultiplexed = 4
)
