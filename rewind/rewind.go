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

import (
	"github.com/jetsetilly/gopher99/curated"
)

// Machine is the surface the rewind package uses to apply the inverse of a
// logged mutation. Implemented by the TI99 type in the hardware package.
//
// Restoration must not travel through the memory bus. Bus traffic charges
// cycles and trips device latches; restoring history must do neither.
type Machine interface {
	RestorePC(value uint16)
	RestoreWP(value uint16)
	RestoreST(value uint16)
	RestoreCycles(value int)
	RestoreBank(value int)
	RestoreRAMWord(index int, value uint16)
	RestoreVRAMByte(index int, value uint8)
	RestoreScratchWord(index int, value uint16)
}

// sentinel errors returned by the rewind package.
const (
	// the undo log has been exhausted. rewinding cannot go back any further.
	Exhausted = "rewind: undo log exhausted"

	// no cycle record in the undo log. raised by FixLastCycleRecord() when
	// the log holds no record for the cycle counter.
	NoCycleRecord = "rewind: no cycle record in undo log"
)

// DefaultCapacity is the number of undo records kept by machines that express
// no preference. At four-or-so records per instruction this is several
// thousand instructions of history.
const DefaultCapacity = 16384

// Rewind is a bounded log of machine mutations. Every component of the
// machine pushes a record for each mutation it makes; the records for one
// instruction always begin with a KindPC record.
//
// History is intentionally bounded and lossy: when the ring is full the
// oldest records are silently discarded. Running out of space is never an
// error, running out of history during a pop is.
type Rewind struct {
	// circular buffer of records. one entry of overhead so that head==tail
	// always means empty
	entries []Record

	// head is the next write position. tail is the oldest record
	head int
	tail int
}

// NewRewind is the preferred method of initialisation for the Rewind type.
// Capacity is the number of records the ring can hold; values less than one
// select DefaultCapacity.
func NewRewind(capacity int) *Rewind {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Rewind{
		entries: make([]Record, capacity+1),
	}
}

// Reset empties the undo log. Called as part of machine reset.
func (r *Rewind) Reset() {
	r.head = 0
	r.tail = 0
}

// Push appends one record. If the ring is full the oldest record is
// discarded by advancing the tail.
func (r *Rewind) Push(rec Record) {
	r.entries[r.head] = rec
	r.head++
	if r.head >= len(r.entries) {
		r.head = 0
	}
	if r.head == r.tail {
		r.tail++
		if r.tail >= len(r.entries) {
			r.tail = 0
		}
	}
}

// Len returns the number of records currently in the ring.
func (r *Rewind) Len() int {
	if r.head >= r.tail {
		return r.head - r.tail
	}
	return len(r.entries) - r.tail + r.head
}

// prev returns the index before i, wrapping at the start of the buffer.
func (r *Rewind) prev(i int) int {
	i--
	if i < 0 {
		i = len(r.entries) - 1
	}
	return i
}

// PopOneInstruction walks backward from the most recent record, applying each
// record's inverse effect, until and including a KindPC record. Because a
// KindPC record is always the first record pushed for an instruction, the
// walk undoes exactly one instruction.
//
// If no KindPC record remains in the ring, no records are applied and an
// error (curated, pattern Exhausted) is returned.
func (r *Rewind) PopOneInstruction(m Machine) error {
	// scan for the instruction boundary before applying anything. a truncated
	// record group (the tail ate the PC record) must not be half-applied
	found := false
	for i := r.prev(r.head); ; i = r.prev(i) {
		if r.entries[i].Kind() == KindPC {
			found = true
			break
		}
		if i == r.tail {
			break
		}
	}
	if !found || r.head == r.tail {
		return curated.Errorf(Exhausted)
	}

	for r.head != r.tail {
		r.head = r.prev(r.head)
		rec := r.entries[r.head]
		r.apply(rec, m)
		if rec.Kind() == KindPC {
			return nil
		}
	}

	// unreachable because of the scan above
	return curated.Errorf(Exhausted)
}

func (r *Rewind) apply(rec Record, m Machine) {
	switch rec.Kind() {
	case KindPC:
		m.RestorePC(rec.Value())
	case KindWP:
		m.RestoreWP(rec.Value())
	case KindST:
		m.RestoreST(rec.Value())
	case KindCycles:
		m.RestoreCycles(int(int16(rec.Value())))
	case KindBank:
		m.RestoreBank(int(rec.Value()))
	case KindRAM:
		m.RestoreRAMWord(rec.Index(), rec.Value())
	case KindVRAM:
		m.RestoreVRAMByte(rec.Index(), uint8(rec.Value()))
	case KindScratch:
		m.RestoreScratchWord(rec.Index(), rec.Value())
	}
}

// FixLastCycleRecord finds the most recent KindCycles record and overwrites
// its value. Required by single-step execution: one instruction is run
// against a zeroed cycle counter and the true pre-instruction value has to be
// patched in afterwards for the history to stay accurate.
func (r *Rewind) FixLastCycleRecord(value int) error {
	if r.head == r.tail {
		return curated.Errorf(NoCycleRecord)
	}

	for i := r.prev(r.head); ; i = r.prev(i) {
		if r.entries[i].Kind() == KindCycles {
			r.entries[i] = Cycles(value)
			return nil
		}
		if i == r.tail {
			break
		}
	}

	return curated.Errorf(NoCycleRecord)
}
