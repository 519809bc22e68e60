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

package rewind_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/curated"
	"github.com/jetsetilly/gopher99/rewind"
	"github.com/jetsetilly/gopher99/test"
)

// mockMachine records restorations so tests can check what a pop applied.
type mockMachine struct {
	pc, wp, st uint16
	cycles     int
	bank       int
	ram        map[int]uint16
	vram       map[int]uint8
	scratch    map[int]uint16
}

func newMockMachine() *mockMachine {
	return &mockMachine{
		ram:     make(map[int]uint16),
		vram:    make(map[int]uint8),
		scratch: make(map[int]uint16),
	}
}

func (m *mockMachine) RestorePC(v uint16)                  { m.pc = v }
func (m *mockMachine) RestoreWP(v uint16)                  { m.wp = v }
func (m *mockMachine) RestoreST(v uint16)                  { m.st = v }
func (m *mockMachine) RestoreCycles(v int)                 { m.cycles = v }
func (m *mockMachine) RestoreBank(v int)                   { m.bank = v }
func (m *mockMachine) RestoreRAMWord(i int, v uint16)      { m.ram[i] = v }
func (m *mockMachine) RestoreVRAMByte(i int, v uint8)      { m.vram[i] = v }
func (m *mockMachine) RestoreScratchWord(i int, v uint16)  { m.scratch[i] = v }

func TestPopOneInstruction(t *testing.T) {
	r := rewind.NewRewind(16)
	m := newMockMachine()

	// two instructions worth of records
	r.Push(rewind.PC(0x0100))
	r.Push(rewind.ST(0x8000))
	r.Push(rewind.RAMWord(0x5000, 0x1234))
	r.Push(rewind.PC(0x0102))
	r.Push(rewind.ST(0x2000))
	r.Push(rewind.ScratchWord(4, 0xbeef))

	// first pop undoes the second instruction only
	test.ExpectedSuccess(t, r.PopOneInstruction(m))
	test.Equate(t, m.pc, 0x0102)
	test.Equate(t, m.st, 0x2000)
	test.Equate(t, m.scratch[4], 0xbeef)
	if _, ok := m.ram[0x5000]; ok {
		t.Errorf("pop crossed an instruction boundary")
	}

	// second pop undoes the first
	test.ExpectedSuccess(t, r.PopOneInstruction(m))
	test.Equate(t, m.pc, 0x0100)
	test.Equate(t, m.ram[0x5000], 0x1234)

	// nothing left
	err := r.PopOneInstruction(m)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, rewind.Exhausted))
}

func TestRingDegradation(t *testing.T) {
	r := rewind.NewRewind(8)
	m := newMockMachine()

	// push more instruction groups than the ring can hold. each group is two
	// records so only the newest four groups survive
	for i := 0; i < 32; i++ {
		r.Push(rewind.PC(uint16(i)))
		r.Push(rewind.ST(uint16(i)))
	}
	test.Equate(t, r.Len(), 8)

	// the newest groups pop in reverse order
	for i := 31; i > 27; i-- {
		test.ExpectedSuccess(t, r.PopOneInstruction(m))
		test.Equate(t, m.pc, uint16(i))
	}

	test.ExpectedFailure(t, r.PopOneInstruction(m))
}

func TestTruncatedGroupIsNotHalfApplied(t *testing.T) {
	// a ring so small that the PC record of the only group has been
	// discarded. popping must fail without applying anything
	r := rewind.NewRewind(2)
	m := newMockMachine()

	r.Push(rewind.PC(0x0100))
	r.Push(rewind.ST(0x8000))
	r.Push(rewind.RAMWord(10, 0xffff))

	err := r.PopOneInstruction(m)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, rewind.Exhausted))
	if len(m.ram) != 0 {
		t.Errorf("truncated record group was partially applied")
	}
}

func TestFixLastCycleRecord(t *testing.T) {
	r := rewind.NewRewind(16)
	m := newMockMachine()

	err := r.FixLastCycleRecord(0)
	test.ExpectedSuccess(t, curated.Is(err, rewind.NoCycleRecord))

	r.Push(rewind.PC(0x0100))
	r.Push(rewind.Cycles(-10))
	r.Push(rewind.ST(0x0000))

	test.ExpectedSuccess(t, r.FixLastCycleRecord(-120))
	test.ExpectedSuccess(t, r.PopOneInstruction(m))
	test.Equate(t, m.cycles, -120)
}

func TestRecordPacking(t *testing.T) {
	rec := rewind.RAMWord(0x7abc, 0x1234)
	test.Equate(t, rec.Kind().String(), "RAM")
	test.Equate(t, rec.Index(), 0x7abc)
	test.Equate(t, rec.Value(), 0x1234)

	rec = rewind.VRAMByte(0x3fff, 0x80)
	test.Equate(t, rec.Kind().String(), "VRAM")
	test.Equate(t, rec.Index(), 0x3fff)
	test.Equate(t, rec.Value(), 0x0080)

	rec = rewind.Cycles(-191)
	test.Equate(t, rec.Kind().String(), "CYC")
	test.Equate(t, int(int16(rec.Value())), -191)
}
