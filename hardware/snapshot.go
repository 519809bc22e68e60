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
	"encoding/binary"
	"io"

	"github.com/jetsetilly/gopher99/curated"
)

// sentinel errors raised by console state serialisation.
const (
	SnapshotError = "snapshot: %v"
	NotASnapshot  = "snapshot: not a console state"
)

// the magic string doubles as a version marker. any change to the field
// order below must change it.
const snapshotMagic = "gopher99 state v2"

// SaveState serialises the complete console state: CPU scalars, all RAM,
// the cartridge bank, device latches and the scanline schedule. ROM contents
// are not included; a snapshot is only valid with the ROMs it was made with.
//
// The monotonic cycle tally is diagnostic output, not machine state, and is
// not part of the serialisation. Two consoles in the same machine state
// serialise identically whatever path they took to get there.
func (ti *TI99) SaveState(w io.Writer) error {
	if _, err := w.Write([]byte(snapshotMagic)); err != nil {
		return curated.Errorf(SnapshotError, err)
	}

	for _, f := range []interface{}{
		ti.CPU.PC,
		ti.CPU.WP,
		ti.CPU.Status.Value(),
		ti.CPU.Idle,
		int64(ti.Mem.Cycles()),
		int32(ti.scanline),
		int32(ti.frame),
		ti.midScanline,
		int32(ti.Mem.Cart.GetBank()),
		ti.Mem.ExpansionMapped(),
	} {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return curated.Errorf(SnapshotError, err)
		}
	}

	for _, f := range []interface{ SaveState(io.Writer) error }{
		ti.Mem.Scratch, ti.Mem.ExpLow, ti.Mem.ExpHigh,
		ti.VDP, ti.GROM, ti.Sound,
	} {
		if err := f.SaveState(w); err != nil {
			return curated.Errorf(SnapshotError, err)
		}
	}

	return nil
}

// LoadState restores a serialisation made with SaveState. The undo log is
// discarded: history does not span a state load.
func (ti *TI99) LoadState(r io.Reader) error {
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return curated.Errorf(SnapshotError, err)
	}
	if string(magic) != snapshotMagic {
		return curated.Errorf(NotASnapshot)
	}

	var st uint16
	var cycles int64
	var scanline, frame, bank int32
	var midScanline, expansionMapped bool

	for _, f := range []interface{}{
		&ti.CPU.PC,
		&ti.CPU.WP,
		&st,
		&ti.CPU.Idle,
		&cycles,
		&scanline,
		&frame,
		&midScanline,
		&bank,
		&expansionMapped,
	} {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return curated.Errorf(SnapshotError, err)
		}
	}

	for _, f := range []interface{ LoadState(io.Reader) error }{
		ti.Mem.Scratch, ti.Mem.ExpLow, ti.Mem.ExpHigh,
		ti.VDP, ti.GROM, ti.Sound,
	} {
		if err := f.LoadState(r); err != nil {
			return curated.Errorf(SnapshotError, err)
		}
	}

	ti.CPU.Status.Load(st)
	ti.Mem.SetCycles(int(cycles))
	ti.scanline = int(scanline)
	ti.frame = int(frame)
	ti.midScanline = midScanline
	ti.Mem.Cart.SetBank(int(bank))
	ti.Mem.MapExpansion(expansionMapped)
	ti.Rec.Reset()

	return nil
}
