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
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gopher99/logger"
	"github.com/jetsetilly/gopher99/rewind"
)

// RAM is a directly-backed read/write memory area. The backing is stored as
// words; mirroring within the area is handled by the address mask.
//
// Every write pushes an undo record with the word's previous value. The
// scratchpad uses the dedicated fast-RAM tag so that its mirrors collapse to
// one history entry per slot.
type RAM struct {
	label   string
	origin  uint16
	mask    uint16
	data    []uint16
	scratch bool
	rec     *rewind.Rewind
}

func newRAM(label string, origin uint16, mask uint16, size int, scratch bool, rec *rewind.Rewind) *RAM {
	return &RAM{
		label:   label,
		origin:  origin,
		mask:    mask,
		data:    make([]uint16, size/2),
		scratch: scratch,
		rec:     rec,
	}
}

func (r *RAM) index(address uint16) int {
	return int((address-r.origin)&r.mask) >> 1
}

// Read implements the Handler interface.
func (r *RAM) Read(address uint16) uint16 {
	return r.data[r.index(address)]
}

// Write implements the Handler interface.
func (r *RAM) Write(address uint16, value uint16) {
	idx := r.index(address)
	if r.scratch {
		r.rec.Push(rewind.ScratchWord(idx, r.data[idx]))
	} else {
		r.rec.Push(rewind.RAMWord(int(address)>>1, r.data[idx]))
	}
	r.data[idx] = value
}

// SafeRead implements the SafeReader interface. RAM reads have no side
// effects so this is the same as Read.
func (r *RAM) SafeRead(address uint16) uint16 {
	return r.data[r.index(address)]
}

// Poke implements the Poker interface.
func (r *RAM) Poke(address uint16, value uint16) {
	r.data[r.index(address)] = value
}

// Word returns the word at the index. Snapshot and undo surface.
func (r *RAM) Word(index int) uint16 {
	return r.data[index]
}

// Set the word at the index without an undo record or cycle charge.
// Snapshot and undo surface.
func (r *RAM) Set(index int, value uint16) {
	r.data[index] = value
}

// Size returns the number of words in the backing store.
func (r *RAM) Size() int {
	return len(r.data)
}

// SaveState serialises the backing store.
func (r *RAM) SaveState(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, r.data)
}

// LoadState restores a serialisation made with SaveState.
func (r *RAM) LoadState(rd io.Reader) error {
	return binary.Read(rd, binary.BigEndian, r.data)
}

// ROM is a directly-backed read-only memory area. Writes are dropped with a
// diagnostic.
type ROM struct {
	label  string
	origin uint16
	data   []uint16
}

func newROM(label string, origin uint16, size int) *ROM {
	return &ROM{
		label:  label,
		origin: origin,
		data:   make([]uint16, size/2),
	}
}

// Load the ROM contents from raw bytes, big-endian word order. Data shorter
// than the declared size is a warning, not an error; the remainder reads as
// zero.
func (r *ROM) Load(data []byte) {
	if len(data) < len(r.data)*2 {
		logger.Logf("bus", "%s: data is %d bytes, expected %d", r.label, len(data), len(r.data)*2)
	}
	for i := range r.data {
		r.data[i] = 0
		if i*2+1 < len(data) {
			r.data[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
		}
	}
}

func (r *ROM) index(address uint16) int {
	return int(address-r.origin) >> 1
}

// Read implements the Handler interface.
func (r *ROM) Read(address uint16) uint16 {
	return r.data[r.index(address)]
}

// Write implements the Handler interface.
func (r *ROM) Write(address uint16, value uint16) {
	logger.Logf("bus", "write to %s ignored (%#04x)", r.label, address)
}

// SafeRead implements the SafeReader interface.
func (r *ROM) SafeRead(address uint16) uint16 {
	return r.data[r.index(address)]
}

// Poke implements the Poker interface. Poking ROM is how tests and tooling
// plant vectors and programs without a ROM file.
func (r *ROM) Poke(address uint16, value uint16) {
	r.data[r.index(address)] = value
}
