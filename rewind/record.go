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

package rewind

// Record is a single entry in the undo log. It packs a 16-bit tag and a
// 16-bit value into 32 bits. The tag identifies either a scalar machine field
// or an indexed array slot, with the index packed into the spare tag bits:
//
//	1iii iiii iiii iiii    RAM word (15-bit word index, ie. address >> 1)
//	01ii iiii iiii iiii    VDP RAM byte (14-bit index)
//	0010 0000 0iii iiii    scratchpad word (7-bit word index)
//	0000 0000 0000 kkkk    scalar field (kind in the low nibble)
//
// The value is always the field's content *before* the mutation, so applying
// a record restores the previous state.
//
// Callers never assemble or pick apart the bit pattern themselves. The
// constructor functions and the Kind()/Index()/Value() accessors are the only
// interface to the packing.
type Record uint32

// Kind identifies what part of the machine a Record refers to.
type Kind int

// List of valid Kind values.
const (
	KindPC Kind = iota
	KindWP
	KindST
	KindCycles
	KindBank
	KindRAM
	KindVRAM
	KindScratch
)

func (k Kind) String() string {
	switch k {
	case KindPC:
		return "PC"
	case KindWP:
		return "WP"
	case KindST:
		return "ST"
	case KindCycles:
		return "CYC"
	case KindBank:
		return "BANK"
	case KindRAM:
		return "RAM"
	case KindVRAM:
		return "VRAM"
	case KindScratch:
		return "PAD"
	}
	return "undefined"
}

const (
	tagRAM     = 0x8000
	tagVRAM    = 0x4000
	tagScratch = 0x2000
)

func newRecord(tag, value uint16) Record {
	return Record(uint32(tag)<<16 | uint32(value))
}

// PC creates a record of the program counter before the current instruction.
func PC(value uint16) Record {
	return newRecord(uint16(KindPC), value)
}

// WP creates a record of the workspace pointer.
func WP(value uint16) Record {
	return newRecord(uint16(KindWP), value)
}

// ST creates a record of the status register.
func ST(value uint16) Record {
	return newRecord(uint16(KindST), value)
}

// Cycles creates a record of the cycle counter. The counter is stored as a
// 16-bit two's complement value, which is ample for a per-scanline budget.
func Cycles(value int) Record {
	return newRecord(uint16(KindCycles), uint16(int16(value)))
}

// Bank creates a record of the cartridge bank register.
func Bank(value int) Record {
	return newRecord(uint16(KindBank), uint16(value))
}

// RAMWord creates a record of a general RAM word. The index is the word
// index, ie. the address shifted right by one.
func RAMWord(index int, value uint16) Record {
	return newRecord(tagRAM|uint16(index&0x7fff), value)
}

// VRAMByte creates a record of a VDP RAM byte.
func VRAMByte(index int, value uint8) Record {
	return newRecord(tagVRAM|uint16(index&0x3fff), uint16(value))
}

// ScratchWord creates a record of a scratchpad (fast RAM) word.
func ScratchWord(index int, value uint16) Record {
	return newRecord(tagScratch|uint16(index&0x007f), value)
}

func (r Record) tag() uint16 {
	return uint16(r >> 16)
}

// Kind of machine field the record refers to.
func (r Record) Kind() Kind {
	t := r.tag()
	switch {
	case t&tagRAM == tagRAM:
		return KindRAM
	case t&tagVRAM == tagVRAM:
		return KindVRAM
	case t&tagScratch == tagScratch:
		return KindScratch
	}
	return Kind(t)
}

// Index of the array slot for indexed records. Meaningless for scalar kinds.
func (r Record) Index() int {
	t := r.tag()
	switch {
	case t&tagRAM == tagRAM:
		return int(t & 0x7fff)
	case t&tagVRAM == tagVRAM:
		return int(t & 0x3fff)
	case t&tagScratch == tagScratch:
		return int(t & 0x007f)
	}
	return 0
}

// Value of the field before the recorded mutation.
func (r Record) Value() uint16 {
	return uint16(r)
}
