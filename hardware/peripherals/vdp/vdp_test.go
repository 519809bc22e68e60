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

package vdp_test

import (
	"testing"

	"github.com/jetsetilly/gopher99/hardware/peripherals/vdp"
	"github.com/jetsetilly/gopher99/rewind"
	"github.com/jetsetilly/gopher99/test"
)

// port addresses as the bus hands them to the handler. data travels in the
// high byte of the word.
const (
	portRead    = uint16(0x8800)
	portStatus  = uint16(0x8802)
	portWrite   = uint16(0x8c00)
	portAddress = uint16(0x8c02)
)

func word(b uint8) uint16 {
	return uint16(b) << 8
}

func TestAddressLatchAndAutoIncrement(t *testing.T) {
	v := vdp.NewVDP(rewind.NewRewind(0))

	// set up a write to 0x0100: low byte first, then high byte with the
	// write command in the top bits
	v.Write(portAddress, word(0x00))
	v.Write(portAddress, word(0x41))

	v.Write(portWrite, word(0xab))
	v.Write(portWrite, word(0xcd))

	test.Equate(t, v.Peek(0x0100), 0xab)
	test.Equate(t, v.Peek(0x0101), 0xcd)

	// read setup primes the read-ahead buffer; the data port then streams
	v.Write(portAddress, word(0x00))
	v.Write(portAddress, word(0x01))

	test.Equate(t, v.Read(portRead), word(0xab))
	test.Equate(t, v.Read(portRead), word(0xcd))
}

func TestStatusReadAcknowledgesInterrupt(t *testing.T) {
	v := vdp.NewVDP(rewind.NewRewind(0))

	var pin bool
	v.AttachInterrupt(func(b bool) {
		pin = b
	})

	// enable the frame interrupt in register one
	v.Write(portAddress, word(0x20))
	v.Write(portAddress, word(0x81))

	v.SetVerticalBlank()
	test.ExpectedSuccess(t, pin)

	s := v.Read(portStatus)
	test.Equate(t, s&word(0x80), word(0x80))
	test.ExpectedFailure(t, pin)

	// flag cleared by the read
	test.Equate(t, v.Read(portStatus)&word(0x80), 0)
}

func TestVerticalBlankRespectsEnable(t *testing.T) {
	v := vdp.NewVDP(rewind.NewRewind(0))

	var pin bool
	v.AttachInterrupt(func(b bool) {
		pin = b
	})

	// interrupt disabled: the status flag still rises but the pin does not
	v.SetVerticalBlank()
	test.ExpectedFailure(t, pin)
	test.Equate(t, v.Read(portStatus)&word(0x80), word(0x80))
}

func TestDataWritesPushUndoRecords(t *testing.T) {
	rec := rewind.NewRewind(0)
	v := vdp.NewVDP(rec)

	v.Write(portAddress, word(0x00))
	v.Write(portAddress, word(0x40))

	n := rec.Len()
	v.Write(portWrite, word(0xff))
	test.Equate(t, rec.Len(), n+1)

	// address and register traffic leaves no history
	n = rec.Len()
	v.Write(portAddress, word(0x00))
	v.Write(portAddress, word(0x40))
	test.Equate(t, rec.Len(), n)
}

func TestSafeReadHasNoSideEffects(t *testing.T) {
	v := vdp.NewVDP(rewind.NewRewind(0))

	v.Write(portAddress, word(0x10))
	v.Write(portAddress, word(0x40))
	v.Write(portWrite, word(0x55))

	// a safe read of the data port must not advance the address
	v.SafeRead(portRead)
	v.SafeRead(portRead)
	v.Write(portWrite, word(0x66))

	test.Equate(t, v.Peek(0x0010), 0x55)
	test.Equate(t, v.Peek(0x0011), 0x66)
}
